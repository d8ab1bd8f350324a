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

package lexer

import "github.com/EngFlow/verilogtools/verilog"

type TokenType int

const (
	// Identifier that is not reserved under the active standard. Escaped
	// identifiers (backslash form) are delivered with the backslash stripped.
	TokenType_Identifier TokenType = iota

	// System task or function name, a '$' followed by an identifier.
	TokenType_SystemIdentifier

	// Reserved word of the active language standard.
	TokenType_Keyword

	// Integer or real literal, including based forms such as 8'hFF.
	TokenType_Number

	// Double-quoted string literal, quotes included.
	TokenType_String

	// Multi-character or single-character operator, longest match first.
	TokenType_Operator

	// Grouping and separator characters: ()[]{};,.#@
	TokenType_Punctuation

	// Compiler directive passed through by the preprocessor; Content holds
	// the entire directive line.
	TokenType_Directive

	// One or more whitespace characters, suppressed by default.
	TokenType_Whitespace

	// Line or block comment, suppressed by default.
	TokenType_Comment

	// End of input.
	TokenType_EOF
)

var tokenTypeNames = map[TokenType]string{
	TokenType_Identifier:       "identifier",
	TokenType_SystemIdentifier: "system-identifier",
	TokenType_Keyword:          "keyword",
	TokenType_Number:           "number",
	TokenType_String:           "string",
	TokenType_Operator:         "operator",
	TokenType_Punctuation:      "punctuation",
	TokenType_Directive:        "directive",
	TokenType_Whitespace:       "whitespace",
	TokenType_Comment:          "comment",
	TokenType_EOF:              "eof",
}

func (t TokenType) String() string { return tokenTypeNames[t] }

// Token is one lexeme with the source location of its first character.
type Token struct {
	Type     TokenType
	Location verilog.Location
	Content  string
}

// TokenEOF marks the end of the token stream.
var TokenEOF = Token{Type: TokenType_EOF}
