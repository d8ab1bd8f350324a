// Copyright 2025 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package verilog

import "strings"

// StripComments removes //-to-end-of-line and /* ... */ spans from text.
// Block comments do not nest. Comment delimiters inside string literals are
// left untouched. Newlines inside a removed block comment are kept so line
// numbers of the surviving text do not shift.
func StripComments(text string) string {
	var out strings.Builder
	out.Grow(len(text))

	for i := 0; i < len(text); {
		switch {
		case text[i] == '"':
			end := i + 1
			for end < len(text) && text[end] != '"' && text[end] != '\n' {
				if text[end] == '\\' && end+1 < len(text) {
					end++
				}
				end++
			}
			if end < len(text) && text[end] == '"' {
				end++
			}
			out.WriteString(text[i:end])
			i = end

		case strings.HasPrefix(text[i:], "//"):
			end := strings.IndexByte(text[i:], '\n')
			if end < 0 {
				return out.String()
			}
			i += end // keep the newline itself

		case strings.HasPrefix(text[i:], "/*"):
			length := strings.Index(text[i+2:], "*/")
			if length < 0 {
				// unterminated block comment runs to EOF
				out.WriteString(strings.Repeat("\n", strings.Count(text[i:], "\n")))
				return out.String()
			}
			span := text[i : i+2+length+2]
			out.WriteString(strings.Repeat("\n", strings.Count(span, "\n")))
			i += len(span)

		default:
			out.WriteByte(text[i])
			i++
		}
	}
	return out.String()
}
