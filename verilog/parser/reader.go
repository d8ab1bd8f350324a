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

package parser

import "github.com/EngFlow/verilogtools/verilog/lexer"

// tokenReader is a thin wrapper around the lexer providing one-token
// lookahead with peek/next primitives.
type tokenReader struct {
	lx  *lexer.Lexer
	buf *lexer.Token
}

func newTokenReader(lx *lexer.Lexer) *tokenReader {
	return &tokenReader{lx: lx}
}

// next returns and consumes the next significant token.
func (tr *tokenReader) next() lexer.Token {
	if tr.buf != nil {
		token := *tr.buf
		tr.buf = nil
		return token
	}
	return tr.lx.NextToken()
}

// peek returns the next token without consuming it.
func (tr *tokenReader) peek() lexer.Token {
	if tr.buf == nil {
		token := tr.lx.NextToken()
		tr.buf = &token
	}
	return *tr.buf
}

// atEOF reports whether the stream is exhausted.
func (tr *tokenReader) atEOF() bool {
	return tr.peek().Type == lexer.TokenType_EOF
}

// lookAheadIs reports whether the next token has the given content.
func (tr *tokenReader) lookAheadIs(content string) bool {
	return tr.peek().Content == content
}

// consumeIf consumes the next token when its content matches.
func (tr *tokenReader) consumeIf(content string) bool {
	if tr.lookAheadIs(content) {
		tr.next()
		return true
	}
	return false
}
