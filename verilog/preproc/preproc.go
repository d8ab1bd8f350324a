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

// Package preproc implements the Verilog compiler-directive preprocessor: it
// expands `define macros (object-like and function-like, with
// stringification and token pasting), resolves `include files through the
// source resolver, evaluates `ifdef conditionals, and emits preprocessed
// text in which disabled regions are replaced by blank lines and file
// transitions are announced with `line markers, so every surviving character
// keeps its original line number.
package preproc

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/EngFlow/verilogtools/internal/collections"
	"github.com/EngFlow/verilogtools/verilog"
	"github.com/EngFlow/verilogtools/verilog/source"
)

var (
	ErrUnterminatedIfdef    = errors.New("unterminated `ifdef")
	ErrDanglingEndif        = errors.New("`endif without matching `ifdef")
	ErrDanglingElse         = errors.New("`else/`elsif without matching `ifdef")
	ErrMacroArity           = errors.New("wrong number of macro arguments")
	ErrIncludeDepthExceeded = errors.New("include depth exceeded")
)

// DefaultIncludeDepth bounds recursive `include nesting.
const DefaultIncludeDepth = 100

// Directives that are not interpreted here and flow through to the output
// verbatim for downstream consumers.
var passThroughDirectives = collections.SetOf(
	"timescale", "celldefine", "endcelldefine", "default_nettype",
	"unconnected_drive", "nounconnected_drive", "pragma",
)

// Preproc holds the state of one preprocessing run: the macro table, the
// conditional stack and the include machinery. It is not safe for concurrent
// use; create one instance per goroutine.
type Preproc struct {
	standard  verilog.Standard
	resolver  *source.Resolver
	macros    map[string]*Macro
	order     []string
	cond      []condFrame
	diags     *verilog.Diagnostics
	maxDepth  int
	out       *strings.Builder
	standards []verilog.Standard // `begin_keywords stack
}

// New creates a preprocessor with the given initial defines (name to body
// text, empty body meaning a bare define), include search paths and language
// standard.
func New(defines map[string]string, includePaths []string, std verilog.Standard) *Preproc {
	p := &Preproc{
		standard: std,
		resolver: source.NewResolver(includePaths),
		macros:   map[string]*Macro{},
		diags:    &verilog.Diagnostics{},
		maxDepth: DefaultIncludeDepth,
	}
	names := make([]string, 0, len(defines))
	for name := range defines {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p.define(Macro{Name: name, Body: defines[name], Predefined: true})
	}
	return p
}

// Diagnostics returns the per-instance diagnostic sink.
func (p *Preproc) Diagnostics() *verilog.Diagnostics { return p.diags }

// FileTable exposes the table of files opened so far.
func (p *Preproc) FileTable() *source.Table { return p.resolver.Table() }

// Standard returns the standard the preprocessor is running under.
func (p *Preproc) Standard() verilog.Standard { return p.standard }

// SetMaxIncludeDepth overrides the recursive include limit.
func (p *Preproc) SetMaxIncludeDepth(depth int) { p.maxDepth = depth }

// Undefine removes a macro, including predefines. Unknown names are a no-op.
func (p *Preproc) Undefine(name string) { p.undefine(name) }

// PreprocessFile preprocesses the file at path, which is resolved through the
// include search paths like any other source.
func (p *Preproc) PreprocessFile(path string) (string, error) {
	text, id, err := p.resolver.Open(path, "")
	if err != nil {
		p.diags.Errorf(verilog.DiagIO, verilog.Location{}, "cannot open %s: %v", path, err)
		return "", err
	}
	return p.run(text, id, p.resolver.Table().Path(id), true)
}

// PreprocessStream preprocesses text read from r, using origin as the file
// name in provenance markers and diagnostics.
func (p *Preproc) PreprocessStream(r io.Reader, origin string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		p.diags.Errorf(verilog.DiagIO, verilog.Location{}, "cannot read %s: %v", origin, err)
		return "", err
	}
	id := p.resolver.Table().Intern(origin)
	// streams carry no synthetic root marker, so directive-free input
	// round-trips byte for byte
	return p.run(source.Normalize(string(data)), id, origin, false)
}

func (p *Preproc) run(text string, id verilog.FileID, path string, rootMarker bool) (string, error) {
	p.out = &strings.Builder{}
	p.out.Grow(len(text) + len(text)/8)
	if rootMarker {
		fmt.Fprintf(p.out, "`line 1 %q 0\n", path)
	}

	sc := newScanner(text, id, path)
	if err := p.process(sc, hideSet{}, 0); err != nil {
		return p.out.String(), err
	}
	if err := p.checkBalanced(); err != nil {
		return p.out.String(), err
	}
	return p.out.String(), nil
}

// process drives the character-level state machine over one source frame.
// hide carries the macro names already being expanded on this rescan path.
func (p *Preproc) process(sc *scanner, hide hideSet, depth int) error {
	for !sc.eof() {
		skip := p.skipping()
		switch c := sc.peek(); {
		case c == '\n':
			// newlines survive skipped regions so line numbers hold
			sc.advance(1)
			p.out.WriteByte('\n')

		case c == '"':
			p.emit(sc.readString(), skip)

		case c == '/' && sc.peekAt(1) == '/':
			p.emit(sc.readLineComment(), skip)

		case c == '/' && sc.peekAt(1) == '*':
			comment := sc.readBlockComment()
			if skip {
				p.out.WriteString(strings.Repeat("\n", strings.Count(comment, "\n")))
			} else {
				p.out.WriteString(comment)
			}

		case c == '`':
			if err := p.directive(sc, hide, depth); err != nil {
				return err
			}

		case isIdentStart(c):
			word := sc.readIdent()
			if skip {
				break
			}
			if m, exists := p.macros[word]; exists && !hide.Contains(word) {
				// a bare identifier invokes a function-like macro only
				// when an argument list follows
				if m.IsFunction {
					save := *sc
					sc.skipSpaceAndComments(true)
					invoked := sc.peek() == '('
					*sc = save
					if !invoked {
						p.out.WriteString(word)
						break
					}
				}
				if err := p.expandMacro(sc, m, hide, depth); err != nil {
					return err
				}
				break
			}
			p.out.WriteString(word)

		default:
			if skip {
				sc.advance(1)
			} else {
				p.out.WriteString(sc.advance(1))
			}
		}
	}
	return nil
}

func (p *Preproc) emit(text string, skip bool) {
	if !skip {
		p.out.WriteString(text)
	}
}

// directive interprets one backtick directive at the scanner position.
func (p *Preproc) directive(sc *scanner, hide hideSet, depth int) error {
	loc := sc.loc()
	sc.advance(1) // consume '`'
	skip := p.skipping()

	name := sc.readIdent()
	if name == "" {
		// stray backtick, or quoting operators outside a macro body
		if !skip {
			p.out.WriteByte('`')
		}
		return nil
	}

	switch name {
	case "define":
		if skip {
			sc.readToEndOfLine()
			return nil
		}
		return p.parseDefine(sc, loc)

	case "undef":
		if skip {
			sc.readToEndOfLine()
			return nil
		}
		sc.skipSpace()
		target := sc.readIdent()
		if target == "" {
			p.diags.Warnf(verilog.DiagMalformedDirective, loc, "`undef expects a macro name")
			sc.readToEndOfLine()
			return nil
		}
		p.undefine(target)
		return nil

	case "undefineall":
		if !skip {
			p.resetMacros()
		}
		return nil

	case "ifdef", "ifndef":
		sc.skipSpace()
		target := sc.readIdent()
		if target == "" {
			p.diags.Warnf(verilog.DiagMalformedDirective, loc, "`%s expects a macro name", name)
			sc.readToEndOfLine()
			target = "\x00undefined"
		}
		p.pushCond(name, p.isDefined(target), loc)
		return nil

	case "elsif":
		sc.skipSpace()
		target := sc.readIdent()
		if target == "" {
			p.diags.Warnf(verilog.DiagMalformedDirective, loc, "`elsif expects a macro name")
			sc.readToEndOfLine()
		}
		return p.elsifCond(p.isDefined(target), loc)

	case "else":
		return p.elseCond(loc)

	case "endif":
		return p.endifCond(loc)

	case "include":
		if skip {
			sc.readToEndOfLine()
			return nil
		}
		return p.include(sc, loc, hide, depth)

	case "resetall":
		if !skip {
			p.resetMacros()
			p.emit("`resetall", skip)
		}
		return nil

	case "line":
		return p.lineMarker(sc, loc, skip)

	case "begin_keywords":
		rest := sc.readToEndOfLine()
		if !skip {
			if std, err := verilog.ParseStandard(strings.Trim(strings.TrimSpace(rest), "\"")); err == nil {
				p.standards = append(p.standards, p.standard)
				p.standard = std
			}
			p.out.WriteString("`begin_keywords" + rest)
		}
		return nil

	case "end_keywords":
		if !skip {
			if n := len(p.standards); n > 0 {
				p.standard = p.standards[n-1]
				p.standards = p.standards[:n-1]
			}
			p.out.WriteString("`end_keywords")
		}
		return nil

	case "__FILE__":
		if !skip {
			fmt.Fprintf(p.out, "%q", sc.path)
		}
		return nil

	case "__LINE__":
		if !skip {
			fmt.Fprintf(p.out, "%d", sc.line)
		}
		return nil
	}

	if passThroughDirectives.Contains(name) {
		p.emit("`"+name, skip)
		return nil
	}

	if m, exists := p.macros[name]; exists {
		if skip {
			return nil
		}
		if hide.Contains(name) {
			// hide-set discipline: a macro never re-expands itself
			p.out.WriteString("`" + name)
			return nil
		}
		return p.expandMacro(sc, m, hide, depth)
	}

	if !skip {
		p.diags.Warnf(verilog.DiagUnknownDirective, loc, "unknown directive `%s passed through", name)
		p.out.WriteString("`" + name)
	}
	return nil
}

// parseDefine consumes the remainder of a `define line.
func (p *Preproc) parseDefine(sc *scanner, loc verilog.Location) error {
	sc.skipSpace()
	name := sc.readIdent()
	if name == "" {
		p.diags.Warnf(verilog.DiagMalformedDirective, loc, "`define expects a macro name")
		sc.readToEndOfLine()
		return nil
	}

	m := Macro{Name: name, Loc: loc}
	if sc.peek() == '(' {
		// a parameter list only counts when the paren hugs the name
		m.IsFunction = true
		sc.advance(1)
		for {
			sc.skipSpaceAndComments(true)
			param := sc.readIdent()
			if param != "" {
				m.Params = append(m.Params, param)
			}
			sc.skipSpaceAndComments(true)
			if sc.peek() == ',' {
				sc.advance(1)
				continue
			}
			break
		}
		if sc.peek() == ')' {
			sc.advance(1)
		} else {
			p.diags.Warnf(verilog.DiagMalformedDirective, loc, "`define %s: unterminated parameter list", name)
			sc.readToEndOfLine()
			return nil
		}
	}

	sc.skipSpace()
	body, newlines := sc.readDefineBody()
	m.Body = body
	p.define(m)
	p.out.WriteString(strings.Repeat("\n", newlines))
	return nil
}

// include resolves and processes a `include target, bracketing it with
// `line markers (level 1 entering, level 2 returning).
func (p *Preproc) include(sc *scanner, loc verilog.Location, hide hideSet, depth int) error {
	sc.skipSpace()
	var name string
	switch sc.peek() {
	case '"':
		quoted := sc.readString()
		name = strings.Trim(quoted, "\"")
	case '<':
		rest := sc.readToEndOfLine()
		end := strings.IndexByte(rest, '>')
		if end < 0 {
			p.diags.Warnf(verilog.DiagMalformedDirective, loc, "`include: missing closing '>'")
			return nil
		}
		name = rest[1:end]
	default:
		p.diags.Warnf(verilog.DiagMalformedDirective, loc, "`include expects a quoted file name")
		sc.readToEndOfLine()
		return nil
	}

	if depth+1 > p.maxDepth {
		p.diags.Errorf(verilog.DiagIncludeDepthExceeded, loc, "includes nested deeper than %d", p.maxDepth)
		return fmt.Errorf("%s: %w", loc, ErrIncludeDepthExceeded)
	}

	text, id, err := p.resolver.Open(name, sc.path)
	if err != nil {
		var notFound *source.IncludeNotFoundError
		if errors.As(err, &notFound) {
			p.diags.Errorf(verilog.DiagIncludeNotFound, loc, "%v", notFound)
		} else {
			p.diags.Errorf(verilog.DiagIO, loc, "%v", err)
		}
		return err
	}
	path := p.resolver.Table().Path(id)

	fmt.Fprintf(p.out, "`line 1 %q 1\n", path)
	if err := p.process(newScanner(text, id, path), hide, depth+1); err != nil {
		return err
	}
	if !strings.HasSuffix(text, "\n") && len(text) > 0 {
		p.out.WriteByte('\n')
	}
	fmt.Fprintf(p.out, "`line %d %q 2\n", sc.line, sc.path)
	return nil
}

// lineMarker handles a `line directive in the input: provenance is adjusted
// and the marker re-emitted.
func (p *Preproc) lineMarker(sc *scanner, loc verilog.Location, skip bool) error {
	rest := sc.readToEndOfLine()
	if skip {
		return nil
	}
	var line, level int
	var path string
	if _, err := fmt.Sscanf(strings.TrimSpace(rest), "%d %q %d", &line, &path, &level); err != nil {
		p.diags.Warnf(verilog.DiagMalformedDirective, loc, "malformed `line directive")
		return nil
	}
	sc.path = path
	sc.file = p.resolver.Table().Intern(path)
	// -1 accounts for the marker's own newline still pending in the input
	sc.line = line - 1
	fmt.Fprintf(p.out, "`line %d %q %d", line, path, level)
	return nil
}

// resetMacros drops user definitions; predefines (command-line -D values)
// survive, matching what simulators do for `resetall.
func (p *Preproc) resetMacros() {
	kept := map[string]*Macro{}
	var order []string
	for _, name := range p.order {
		if p.macros[name].Predefined {
			kept[name] = p.macros[name]
			order = append(order, name)
		}
	}
	p.macros = kept
	p.order = order
}
