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

import (
	"fmt"
	"strings"

	"github.com/EngFlow/verilogtools/verilog"
)

// Range bounds are constant-folded so that text like [WIDTH-1:0], with WIDTH
// already expanded to 32 by the preprocessor, reaches consumers as [31:0].
// Expressions that are not constant keep their raw text.

type precedence int

const (
	precedenceLowest precedence = iota
	precedenceAdd               // + -
	precedenceMul               // * / %
	precedenceUnary             // prefix + -
)

type constScanner struct {
	tokens []string
	pos    int
}

func (s *constScanner) peek() string {
	if s.pos >= len(s.tokens) {
		return ""
	}
	return s.tokens[s.pos]
}

func (s *constScanner) next() string {
	token := s.peek()
	s.pos++
	return token
}

var binaryPrecedence = map[string]precedence{
	"+": precedenceAdd, "-": precedenceAdd,
	"*": precedenceMul, "/": precedenceMul, "%": precedenceMul,
}

// parseConstPrecedence is a precedence-climbing evaluator over the small
// arithmetic subset that appears in range bounds.
func (s *constScanner) parseConstPrecedence(minPrecedence precedence) (int64, bool) {
	var left int64
	switch token := s.next(); token {
	case "(":
		value, ok := s.parseConstPrecedence(precedenceLowest)
		if !ok || s.next() != ")" {
			return 0, false
		}
		left = value
	case "-":
		value, ok := s.parseConstPrecedence(precedenceUnary)
		if !ok {
			return 0, false
		}
		left = -value
	case "+":
		value, ok := s.parseConstPrecedence(precedenceUnary)
		if !ok {
			return 0, false
		}
		left = value
	case "":
		return 0, false
	default:
		n, err := verilog.ParseNumber(token)
		if err != nil || n.HasUnknown {
			return 0, false
		}
		left = int64(n.Value)
	}

	for {
		op := s.peek()
		opPrecedence, isBinary := binaryPrecedence[op]
		if !isBinary || opPrecedence < minPrecedence {
			return left, true
		}
		s.next()
		right, ok := s.parseConstPrecedence(opPrecedence + 1)
		if !ok {
			return 0, false
		}
		switch op {
		case "+":
			left += right
		case "-":
			left -= right
		case "*":
			left *= right
		case "/":
			if right == 0 {
				return 0, false
			}
			left /= right
		case "%":
			if right == 0 {
				return 0, false
			}
			left %= right
		}
	}
}

// evalConst evaluates expr when it is a constant integer expression.
func evalConst(tokens []string) (int64, bool) {
	if len(tokens) == 0 {
		return 0, false
	}
	s := &constScanner{tokens: tokens}
	value, ok := s.parseConstPrecedence(precedenceLowest)
	return value, ok && s.pos == len(s.tokens)
}

// foldRange renders a collected range as canonical text, folding each bound
// that evaluates to a constant. boundTokens holds the token texts of each
// colon-separated bound.
func foldRange(boundTokens [][]string) string {
	if len(boundTokens) == 0 {
		return ""
	}
	bounds := make([]string, len(boundTokens))
	for i, tokens := range boundTokens {
		if value, ok := evalConst(tokens); ok {
			bounds[i] = fmt.Sprintf("%d", value)
		} else {
			bounds[i] = joinTokens(tokens)
		}
	}
	return "[" + strings.Join(bounds, ":") + "]"
}

// joinTokens reassembles token texts into expression text, spacing only
// where adjacency would fuse two words.
func joinTokens(tokens []string) string {
	var out strings.Builder
	for i, token := range tokens {
		if i > 0 && needsSpace(tokens[i-1], token) {
			out.WriteByte(' ')
		}
		out.WriteString(token)
	}
	return out.String()
}

func needsSpace(prev, next string) bool {
	if prev == "" || next == "" {
		return false
	}
	return isWordChar(prev[len(prev)-1]) && isWordChar(next[0])
}

func isWordChar(c byte) bool {
	return c == '_' || c == '$' || c == '\'' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
