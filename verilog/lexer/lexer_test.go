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

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/EngFlow/verilogtools/verilog"
)

func collectTokens(text string, std verilog.Standard) []Token {
	lx := NewLexer(text, std, verilog.NoFile)
	var tokens []Token
	for token := range lx.AllTokens() {
		if token.Type == TokenType_EOF {
			break
		}
		tokens = append(tokens, token)
	}
	return tokens
}

func TestNextToken(t *testing.T) {
	testCases := []struct {
		input           string
		expectedType    TokenType
		expectedContent string
	}{
		{input: "module", expectedType: TokenType_Keyword, expectedContent: "module"},
		{input: "my_net", expectedType: TokenType_Identifier, expectedContent: "my_net"},
		{input: "$display(x)", expectedType: TokenType_SystemIdentifier, expectedContent: "$display"},
		{input: "8'hFF + 1", expectedType: TokenType_Number, expectedContent: "8'hFF"},
		{input: "4'b1x1z", expectedType: TokenType_Number, expectedContent: "4'b1x1z"},
		{input: "42", expectedType: TokenType_Number, expectedContent: "42"},
		{input: "3.14", expectedType: TokenType_Number, expectedContent: "3.14"},
		{input: `"str \"esc\"" x`, expectedType: TokenType_String, expectedContent: `"str \"esc\""`},
		{input: "<<< 2", expectedType: TokenType_Operator, expectedContent: "<<<"},
		{input: "<= b", expectedType: TokenType_Operator, expectedContent: "<="},
		{input: "===x", expectedType: TokenType_Operator, expectedContent: "==="},
		{input: "+b", expectedType: TokenType_Operator, expectedContent: "+"},
		{input: "(a)", expectedType: TokenType_Punctuation, expectedContent: "("},
		{input: ";", expectedType: TokenType_Punctuation, expectedContent: ";"},
		{input: "`timescale 1ns/1ps\nx", expectedType: TokenType_Directive, expectedContent: "`timescale 1ns/1ps"},
		{input: "\\bus+idx rest", expectedType: TokenType_Identifier, expectedContent: "bus+idx"},
	}

	for _, tc := range testCases {
		lx := NewLexer(tc.input, verilog.SV2017, verilog.NoFile)
		token := lx.NextToken()
		assert.Equal(t, tc.expectedType, token.Type, "unexpected type for input: %q", tc.input)
		assert.Equal(t, tc.expectedContent, token.Content, "unexpected content for input: %q", tc.input)
	}
}

func TestKeywordDependsOnStandard(t *testing.T) {
	lx := NewLexer("logic", verilog.V2001, verilog.NoFile)
	assert.Equal(t, TokenType_Identifier, lx.NextToken().Type)

	lx = NewLexer("logic", verilog.SV2017, verilog.NoFile)
	assert.Equal(t, TokenType_Keyword, lx.NextToken().Type)
}

func TestWhitespaceAndCommentsSuppressed(t *testing.T) {
	tokens := collectTokens("wire /* block */ w; // line\nreg r;", verilog.SV2017)
	contents := make([]string, len(tokens))
	for i, token := range tokens {
		contents[i] = token.Content
	}
	assert.Equal(t, []string{"wire", "w", ";", "reg", "r", ";"}, contents)
}

func TestTokenLocations(t *testing.T) {
	tokens := collectTokens("wire w;\n  reg r;", verilog.SV2017)
	assert.Equal(t, verilog.Location{File: verilog.NoFile, Line: 1, Column: 1}, tokens[0].Location)
	assert.Equal(t, verilog.Location{File: verilog.NoFile, Line: 1, Column: 6}, tokens[1].Location)
	assert.Equal(t, verilog.Location{File: verilog.NoFile, Line: 2, Column: 3}, tokens[3].Location)
}

func TestLineMarkerRewiresLocations(t *testing.T) {
	interned := map[string]verilog.FileID{"a.v": 7}
	lx := NewLexer("`line 10 \"a.v\" 0\nwire w;", verilog.SV2017, verilog.NoFile)
	lx.SetFileResolver(func(path string) verilog.FileID { return interned[path] })

	token := lx.NextToken()
	assert.Equal(t, "wire", token.Content)
	assert.Equal(t, verilog.FileID(7), token.Location.File)
	assert.Equal(t, 10, token.Location.Line)
}

func TestOperatorsLongestMatch(t *testing.T) {
	tokens := collectTokens("a<=b; c<<<d; e==?f", verilog.SV2017)
	var operators []string
	for _, token := range tokens {
		if token.Type == TokenType_Operator {
			operators = append(operators, token.Content)
		}
	}
	assert.Equal(t, []string{"<=", "<<<", "==?"}, operators)
}
