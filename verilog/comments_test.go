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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripComments(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "wire w; // trailing\nreg r;", expected: "wire w; \nreg r;"},
		{input: "a /* inline */ b", expected: "a  b"},
		{input: "a /* multi\nline */ b", expected: "a \n b"},
		{input: `x = "// not a comment";`, expected: `x = "// not a comment";`},
		{input: `x = "/* kept */";`, expected: `x = "/* kept */";`},
		{input: "/* unterminated\nspans", expected: "\n"},
		{input: "// only comment", expected: ""},
		{input: "plain text", expected: "plain text"},
		{input: "/* a */ /* b */c", expected: "  c"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, StripComments(tc.input), "unexpected output for input: %q", tc.input)
	}
}
