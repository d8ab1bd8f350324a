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

// Package lexer breaks preprocessed Verilog text into a lazy sequence of
// typed tokens. Token locations follow the `line markers the preprocessor
// emits at file transitions, so every token points back into its original
// source file.
package lexer

import (
	"fmt"
	"iter"
	"regexp"
	"strings"

	"github.com/EngFlow/verilogtools/verilog"
)

var (
	reNumber = regexp.MustCompile(`^(?:[0-9][0-9_]*\s*'\s*[sS]?[bodhBODH][0-9a-fA-F_xXzZ?]+|'[sS]?[bodhBODH][0-9a-fA-F_xXzZ?]+|[0-9][0-9_]*\.[0-9][0-9_]*(?:[eE][+-]?[0-9]+)?|[0-9][0-9_]*(?:[eE][+-]?[0-9]+)?)`)
	reString = regexp.MustCompile(`^"(?:[^"\\\n]|\\.)*"`)
	reIdent  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*`)
	reMarker = regexp.MustCompile("^`line[ \t]+([0-9]+)[ \t]+\"([^\"]*)\"[ \t]+[0-9]+")
)

// operators, longest first so greedy matching finds the longest operator at
// the current position.
var operators = []string{
	"<<<=", ">>>=",
	"<<<", ">>>", "===", "!==", "<<=", ">>=", "<->", "==?", "!=?",
	"**", "<<", ">>", "<=", ">=", "==", "!=", "&&", "||", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "->", "=>", "::", "+:", "-:",
	"+", "-", "*", "/", "%", "=", "<", ">", "!", "&", "|", "^", "~", "?", ":", "'",
}

const punctuation = "()[]{};,.#@"

type Lexer struct {
	dataLeft string
	standard verilog.Standard
	loc      verilog.Location
	fileIDs  func(path string) verilog.FileID
}

// NewLexer creates a lexer over preprocessed source text under the given
// standard. The origin id seeds locations until the first `line marker.
func NewLexer(text string, std verilog.Standard, origin verilog.FileID) *Lexer {
	return &Lexer{
		dataLeft: text,
		standard: std,
		loc:      verilog.Location{File: origin, Line: 1, Column: 1},
	}
}

// SetFileResolver installs the callback used to intern paths named by `line
// markers. Without one, marker file ids stay at the origin.
func (lx *Lexer) SetFileResolver(intern func(path string) verilog.FileID) {
	lx.fileIDs = intern
}

// consume extracts length bytes as a token of the given type, advancing the
// cursor line/column over the consumed content.
func (lx *Lexer) consume(tokenType TokenType, length int) Token {
	token := Token{Type: tokenType, Location: lx.loc, Content: lx.dataLeft[:length]}
	lx.dataLeft = lx.dataLeft[length:]
	lx.loc = advancedBy(lx.loc, token.Content)
	return token
}

func advancedBy(loc verilog.Location, content string) verilog.Location {
	newlines := strings.Count(content, "\n")
	tail := content[1+strings.LastIndex(content, "\n"):]
	if newlines == 0 {
		loc.Column += len(tail)
	} else {
		loc.Line += newlines
		loc.Column = 1 + len(tail)
	}
	return loc
}

// NextToken returns the next significant token: whitespace and comments are
// consumed silently, `line markers update the cursor without surfacing.
func (lx *Lexer) NextToken() Token {
	for {
		token := lx.nextRaw()
		switch token.Type {
		case TokenType_Whitespace, TokenType_Comment:
			continue
		default:
			return token
		}
	}
}

// nextRaw extracts the next token of any type from the input.
func (lx *Lexer) nextRaw() Token {
	if len(lx.dataLeft) == 0 {
		eof := TokenEOF
		eof.Location = lx.loc
		return eof
	}

	switch c := lx.dataLeft[0]; {
	case c == '\n', c == ' ', c == '\t', c == '\v', c == '\f', c == '\r':
		end := 1
		for end < len(lx.dataLeft) && strings.ContainsRune(" \t\v\f\r\n", rune(lx.dataLeft[end])) {
			end++
		}
		return lx.consume(TokenType_Whitespace, end)

	case c == '/' && strings.HasPrefix(lx.dataLeft, "//"):
		end := strings.IndexByte(lx.dataLeft, '\n')
		if end < 0 {
			end = len(lx.dataLeft)
		}
		return lx.consume(TokenType_Comment, end)

	case c == '/' && strings.HasPrefix(lx.dataLeft, "/*"):
		if end := strings.Index(lx.dataLeft, "*/"); end >= 0 {
			return lx.consume(TokenType_Comment, end+2)
		}
		return lx.consume(TokenType_Comment, len(lx.dataLeft))

	case c == '`':
		if match := reMarker.FindStringSubmatch(lx.dataLeft); match != nil {
			lx.applyMarker(match)
			return lx.consume(TokenType_Whitespace, len(match[0]))
		}
		// other directives pass through as one token covering the line
		end := strings.IndexByte(lx.dataLeft, '\n')
		if end < 0 {
			end = len(lx.dataLeft)
		}
		return lx.consume(TokenType_Directive, end)

	case c == '"':
		if match := reString.FindString(lx.dataLeft); match != "" {
			return lx.consume(TokenType_String, len(match))
		}
		return lx.consume(TokenType_Operator, 1)

	case c == '\\':
		// escaped identifier: backslash to the next whitespace
		end := 1
		for end < len(lx.dataLeft) && !strings.ContainsRune(" \t\n", rune(lx.dataLeft[end])) {
			end++
		}
		token := lx.consume(TokenType_Identifier, end)
		token.Content = token.Content[1:]
		return token

	case c == '$':
		if match := reIdent.FindString(lx.dataLeft[1:]); match != "" {
			return lx.consume(TokenType_SystemIdentifier, 1+len(match))
		}
		return lx.consume(TokenType_Operator, 1)

	case c >= '0' && c <= '9', c == '\'':
		if match := reNumber.FindString(lx.dataLeft); match != "" {
			return lx.consume(TokenType_Number, len(match))
		}
		return lx.consume(TokenType_Operator, 1)

	case strings.IndexByte(punctuation, c) >= 0:
		return lx.consume(TokenType_Punctuation, 1)

	default:
		if match := reIdent.FindString(lx.dataLeft); match != "" {
			if verilog.IsKeyword(match, lx.standard) {
				return lx.consume(TokenType_Keyword, len(match))
			}
			return lx.consume(TokenType_Identifier, len(match))
		}
		for _, op := range operators {
			if strings.HasPrefix(lx.dataLeft, op) {
				return lx.consume(TokenType_Operator, len(op))
			}
		}
		return lx.consume(TokenType_Operator, 1)
	}
}

// applyMarker rewires the cursor to the provenance named by a `line marker.
// The marker numbers the line that follows it.
func (lx *Lexer) applyMarker(match []string) {
	var line int
	fmt.Sscanf(match[1], "%d", &line)
	if lx.fileIDs != nil {
		lx.loc.File = lx.fileIDs(match[2])
	}
	// the marker's own newline advances onto the named line
	lx.loc.Line = line - 1
}

// AllTokens iterates through the significant tokens left in the input.
func (lx *Lexer) AllTokens() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for {
			token := lx.NextToken()
			if !yield(token) || token.Type == TokenType_EOF {
				return
			}
		}
	}
}
