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

package preproc

import (
	"fmt"
	"strings"

	"github.com/EngFlow/verilogtools/internal/collections"
	"github.com/EngFlow/verilogtools/verilog"
)

// Macro is a single `define entry. Macros with a parameter list are
// function-like; the Body keeps the defining text verbatim, with
// continuation lines folded to newlines.
type Macro struct {
	Name       string
	Params     []string
	IsFunction bool
	Body       string
	Loc        verilog.Location
	Predefined bool
}

// hideSet is the set of macro names being expanded on the current rescan
// path. A name in its own hide set is never re-expanded, which terminates
// recursive definitions.
type hideSet = collections.Set[string]

// define records a macro, warning when an existing name is redefined with a
// different body.
func (p *Preproc) define(m Macro) {
	if prev, exists := p.macros[m.Name]; exists {
		if prev.Body != m.Body || strings.Join(prev.Params, ",") != strings.Join(m.Params, ",") {
			p.diags.Warnf(verilog.DiagMacroRedefinition, m.Loc,
				"macro %s redefined with a different body (previous definition at %s)", m.Name, prev.Loc)
		}
		p.macros[m.Name] = &m
		return
	}
	p.macros[m.Name] = &m
	p.order = append(p.order, m.Name)
}

// undefine removes a macro; undefining an unknown name is a no-op.
func (p *Preproc) undefine(name string) {
	if _, exists := p.macros[name]; !exists {
		return
	}
	delete(p.macros, name)
	for i, n := range p.order {
		if n == name {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

func (p *Preproc) isDefined(name string) bool {
	_, exists := p.macros[name]
	return exists
}

// expandMacro expands one invocation of m at the scanner position (the name
// itself is already consumed) and writes the result to the output. Newlines
// consumed from the invocation source (multi-line argument lists) are
// re-emitted afterwards so following lines keep their numbers.
func (p *Preproc) expandMacro(sc *scanner, m *Macro, hide hideSet, depth int) error {
	startLine := sc.line
	loc := sc.loc()

	var args []string
	if m.IsFunction {
		sc.skipSpaceAndComments(true)
		if sc.peek() != '(' {
			p.diags.Errorf(verilog.DiagMacroArity, loc, "macro %s expects %d arguments but is used without an argument list", m.Name, len(m.Params))
			return fmt.Errorf("%s: macro %s: %w", loc, m.Name, ErrMacroArity)
		}
		var err error
		args, err = p.readMacroArgs(sc)
		if err != nil {
			return err
		}
		if len(args) == 1 && args[0] == "" && len(m.Params) == 0 {
			args = nil
		}
		if len(args) != len(m.Params) {
			p.diags.Errorf(verilog.DiagMacroArity, loc, "macro %s expects %d arguments, got %d", m.Name, len(m.Params), len(args))
			return fmt.Errorf("%s: macro %s: %w", loc, m.Name, ErrMacroArity)
		}
	}

	substituted := substituteBody(m.Body, m.Params, args)

	sub := newScanner(substituted, sc.file, sc.path)
	sub.line = startLine
	if err := p.process(sub, hide.Clone().Add(m.Name), depth); err != nil {
		return err
	}

	for i := 0; i < sc.line-startLine; i++ {
		p.out.WriteByte('\n')
	}
	return nil
}

// readMacroArgs consumes a parenthesized argument list, splitting on commas
// at paren depth zero. Strings and comments are skipped atomically so their
// commas do not split arguments.
func (p *Preproc) readMacroArgs(sc *scanner) ([]string, error) {
	loc := sc.loc()
	sc.advance(1) // consume '('
	var args []string
	var current strings.Builder
	level := 0
	for !sc.eof() {
		switch c := sc.peek(); {
		case c == '"':
			current.WriteString(sc.readString())
		case c == '/' && sc.peekAt(1) == '/':
			sc.readLineComment()
		case c == '/' && sc.peekAt(1) == '*':
			sc.readBlockComment()
		case c == '(' || c == '[' || c == '{':
			level++
			current.WriteString(sc.advance(1))
		case c == ')' && level == 0:
			sc.advance(1)
			args = append(args, strings.TrimSpace(current.String()))
			return args, nil
		case c == ')' || c == ']' || c == '}':
			level--
			current.WriteString(sc.advance(1))
		case c == ',' && level == 0:
			sc.advance(1)
			args = append(args, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteString(sc.advance(1))
		}
	}
	p.diags.Errorf(verilog.DiagMacroArity, loc, "unterminated macro argument list")
	return nil, fmt.Errorf("%s: %w", loc, ErrMacroArity)
}

// substituteBody replaces parameter references in a macro body with the
// corresponding argument text and applies the quoting operators: `" opens
// and closes a stringified region (parameters substitute inside it), `\`"
// produces an escaped quote, and `` joins the surrounding tokens.
func substituteBody(body string, params, args []string) string {
	byName := map[string]string{}
	for i, param := range params {
		if i < len(args) {
			byName[param] = args[i]
		}
	}

	var out strings.Builder
	stringify := false
	for i := 0; i < len(body); {
		switch {
		case strings.HasPrefix(body[i:], "`\\`\""):
			out.WriteString(`\"`)
			i += 4
		case strings.HasPrefix(body[i:], "`\\"):
			out.WriteByte('\\')
			i += 2
		case strings.HasPrefix(body[i:], "``"):
			i += 2
		case strings.HasPrefix(body[i:], "`\""):
			out.WriteByte('"')
			stringify = !stringify
			i += 2
		case body[i] == '"' && !stringify:
			// plain string literal: parameters do not substitute
			end := i + 1
			for end < len(body) && body[end] != '"' && body[end] != '\n' {
				if body[end] == '\\' && end+1 < len(body) {
					end++
				}
				end++
			}
			if end < len(body) && body[end] == '"' {
				end++
			}
			out.WriteString(body[i:end])
			i = end
		case isIdentStart(body[i]):
			end := i
			for end < len(body) && isIdentChar(body[end]) {
				end++
			}
			word := body[i:end]
			if replacement, exists := byName[word]; exists {
				out.WriteString(replacement)
			} else {
				out.WriteString(word)
			}
			i = end
		default:
			out.WriteByte(body[i])
			i++
		}
	}
	return out.String()
}

// Defines returns the macro table in definition order.
func (p *Preproc) Defines() []Macro {
	defines := make([]Macro, 0, len(p.order))
	for _, name := range p.order {
		defines = append(defines, *p.macros[name])
	}
	return defines
}
