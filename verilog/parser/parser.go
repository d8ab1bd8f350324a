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

// Package parser implements a structural recognizer over preprocessed
// Verilog. It does not build expression trees: it detects the shape of the
// language - modules, ports, net declarations, parameters and instances -
// and reports each construct through a caller-supplied callback table,
// which is sufficient for netlist extraction. Constructs it does not
// recognize are skipped at statement granularity.
package parser

import (
	"github.com/EngFlow/verilogtools/internal/collections"
	"github.com/EngFlow/verilogtools/verilog"
	"github.com/EngFlow/verilogtools/verilog/lexer"
)

// Callbacks receives the structural events in source order. Nil entries are
// skipped. Pin is called with index >= 0 and an empty portName for
// positional bindings, and index -1 with the port name for named bindings.
type Callbacks struct {
	ModuleBegin    func(name string, loc verilog.Location)
	ModuleEnd      func(name string, loc verilog.Location)
	Port           func(name, direction, rangeText, netType string, loc verilog.Location)
	SignalDecl     func(kind, name, rangeText string, loc verilog.Location)
	Parameter      func(name, defaultText string, loc verilog.Location)
	CellBegin      func(instName, submodName string, loc verilog.Location)
	CellParam      func(name, valueText string, loc verilog.Location)
	Pin            func(index int, portName, netExpr string, loc verilog.Location)
	CellEnd        func(instName string, loc verilog.Location)
	DefaultNetType func(kind string, loc verilog.Location)
}

var directionKeywords = collections.SetOf("input", "output", "inout", "ref")

var netKindKeywords = collections.SetOf(
	"wire", "reg", "logic", "tri", "tri0", "tri1", "triand", "trior",
	"trireg", "wand", "wor", "supply0", "supply1", "uwire", "interconnect",
	"integer", "real", "realtime", "time", "bit", "byte", "int", "shortint",
	"longint", "genvar", "event",
)

// Block constructs skipped wholesale to their closing keyword.
var blockSkipKeywords = map[string]string{
	"function":   "endfunction",
	"task":       "endtask",
	"specify":    "endspecify",
	"generate":   "endgenerate",
	"table":      "endtable",
	"covergroup": "endgroup",
	"property":   "endproperty",
	"sequence":   "endsequence",
	"clocking":   "endclocking",
	"primitive":  "endprimitive",
	"class":      "endclass",
}

// Parser drives the recognizer over one or more texts, reporting events to
// its callback table and accumulating diagnostics.
type Parser struct {
	standard verilog.Standard
	cb       Callbacks
	diags    *verilog.Diagnostics
	intern   func(path string) verilog.FileID
}

// New creates a parser reporting to cb under the given standard.
func New(cb Callbacks, std verilog.Standard) *Parser {
	return &Parser{standard: std, cb: cb, diags: &verilog.Diagnostics{}}
}

// Diagnostics returns the per-instance diagnostic sink.
func (p *Parser) Diagnostics() *verilog.Diagnostics { return p.diags }

// SetFileResolver installs the interner used for `line marker paths.
func (p *Parser) SetFileResolver(intern func(path string) verilog.FileID) {
	p.intern = intern
}

// Parse recognizes the structure of preprocessed text. origin identifies the
// text until the first `line marker takes over.
func (p *Parser) Parse(text string, origin verilog.FileID) error {
	lx := lexer.NewLexer(text, p.standard, origin)
	if p.intern != nil {
		lx.SetFileResolver(p.intern)
	}
	tr := newTokenReader(lx)

	for !tr.atEOF() {
		token := tr.next()
		switch {
		case token.Type == lexer.TokenType_Directive:
			p.handleDirective(token)
		case token.Type == lexer.TokenType_Keyword && (token.Content == "module" || token.Content == "macromodule"):
			p.parseModule(tr, token.Location)
		case token.Type == lexer.TokenType_Keyword:
			if end, isBlock := blockSkipKeywords[token.Content]; isBlock {
				p.skipUntilKeyword(tr, end)
			}
		}
	}
	return nil
}

// handleDirective inspects directives the preprocessor passed through. Only
// `default_nettype carries netlist-relevant state.
func (p *Parser) handleDirective(token lexer.Token) {
	fields := splitDirective(token.Content)
	if len(fields) >= 2 && fields[0] == "`default_nettype" && p.cb.DefaultNetType != nil {
		p.cb.DefaultNetType(fields[1], token.Location)
	}
}

func splitDirective(content string) []string {
	var fields []string
	start := -1
	for i := 0; i <= len(content); i++ {
		if i < len(content) && content[i] != ' ' && content[i] != '\t' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			fields = append(fields, content[start:i])
			start = -1
		}
	}
	return fields
}

func (p *Parser) parseModule(tr *tokenReader, loc verilog.Location) {
	name := tr.next()
	if name.Type != lexer.TokenType_Identifier {
		p.skipStatement(tr)
		return
	}
	if p.cb.ModuleBegin != nil {
		p.cb.ModuleBegin(name.Content, loc)
	}

	if tr.consumeIf("#") && tr.lookAheadIs("(") {
		p.parseParameterList(tr)
	}
	if tr.lookAheadIs("(") {
		p.parsePortHeader(tr)
	}
	tr.consumeIf(";")

	p.parseModuleBody(tr, name.Content)
}

func (p *Parser) parseModuleBody(tr *tokenReader, moduleName string) {
	for {
		token := tr.peek()
		switch {
		case token.Type == lexer.TokenType_EOF:
			// input ended inside the module; report what we saw
			if p.cb.ModuleEnd != nil {
				p.cb.ModuleEnd(moduleName, token.Location)
			}
			return

		case token.Type == lexer.TokenType_Keyword && token.Content == "endmodule":
			tr.next()
			if p.cb.ModuleEnd != nil {
				p.cb.ModuleEnd(moduleName, token.Location)
			}
			return

		case token.Type == lexer.TokenType_Directive:
			tr.next()
			p.handleDirective(token)

		case token.Type == lexer.TokenType_Keyword && directionKeywords.Contains(token.Content):
			tr.next()
			p.parsePortDecl(tr, token.Content, token.Location)

		case token.Type == lexer.TokenType_Keyword && netKindKeywords.Contains(token.Content):
			tr.next()
			p.parseSignalDecl(tr, token.Content, token.Location)

		case token.Type == lexer.TokenType_Keyword && (token.Content == "parameter" || token.Content == "localparam"):
			tr.next()
			p.parseParameterEntries(tr, ";")
			tr.consumeIf(";")

		case token.Type == lexer.TokenType_Keyword && verilog.IsGatePrimitive(token.Content):
			tr.next()
			p.parseInstances(tr, token.Content, token.Location)

		case token.Type == lexer.TokenType_Keyword:
			tr.next()
			if end, isBlock := blockSkipKeywords[token.Content]; isBlock {
				p.skipUntilKeyword(tr, end)
			} else {
				p.skipStatement(tr)
			}

		case token.Type == lexer.TokenType_Identifier:
			tr.next()
			next := tr.peek()
			if next.Type == lexer.TokenType_Identifier || next.Content == "#" {
				p.parseInstances(tr, token.Content, token.Location)
			} else {
				p.skipStatement(tr)
			}

		default:
			tr.next()
			p.skipStatement(tr)
		}
	}
}

// parsePortHeader recognizes both ANSI headers (directions inline) and
// non-ANSI headers (bare names, directions declared in the body).
func (p *Parser) parsePortHeader(tr *tokenReader) {
	tr.consumeIf("(")
	direction, netType, rangeText := "", "", ""

	for {
		token := tr.peek()
		switch {
		case token.Type == lexer.TokenType_EOF:
			return
		case token.Content == ")":
			tr.next()
			return
		case token.Content == ",":
			tr.next()
		case token.Type == lexer.TokenType_Keyword && directionKeywords.Contains(token.Content):
			tr.next()
			direction, netType, rangeText = token.Content, "", ""
		case token.Type == lexer.TokenType_Keyword && netKindKeywords.Contains(token.Content):
			tr.next()
			netType = token.Content
		case token.Type == lexer.TokenType_Keyword && (token.Content == "signed" || token.Content == "unsigned" || token.Content == "var"):
			tr.next()
		case token.Content == "[":
			rangeText = p.parseRange(tr)
		case token.Type == lexer.TokenType_Identifier:
			tr.next()
			if p.cb.Port != nil {
				p.cb.Port(token.Content, direction, rangeText, netType, token.Location)
			}
			p.skipUntil(tr, ",", ")")
		default:
			tr.next()
			p.skipUntil(tr, ",", ")")
		}
	}
}

// parsePortDecl recognizes a body-scope port declaration:
// direction [type] [signed] [range] name {, name} ;
func (p *Parser) parsePortDecl(tr *tokenReader, direction string, loc verilog.Location) {
	netType := ""
	if token := tr.peek(); token.Type == lexer.TokenType_Keyword && netKindKeywords.Contains(token.Content) {
		tr.next()
		netType = token.Content
	}
	tr.consumeIf("signed")
	tr.consumeIf("unsigned")
	rangeText := ""
	if tr.lookAheadIs("[") {
		rangeText = p.parseRange(tr)
	}
	for {
		token := tr.peek()
		if token.Type != lexer.TokenType_Identifier {
			break
		}
		tr.next()
		if p.cb.Port != nil {
			p.cb.Port(token.Content, direction, rangeText, netType, token.Location)
		}
		p.skipUntil(tr, ",", ";")
		if !tr.consumeIf(",") {
			break
		}
	}
	tr.consumeIf(";")
}

// parseSignalDecl recognizes a net or variable declaration:
// kind [signed] [range] name [= expr] {, name [= expr]} ;
func (p *Parser) parseSignalDecl(tr *tokenReader, kind string, loc verilog.Location) {
	tr.consumeIf("signed")
	tr.consumeIf("unsigned")
	rangeText := ""
	if tr.lookAheadIs("[") {
		rangeText = p.parseRange(tr)
	}
	for {
		token := tr.peek()
		if token.Type != lexer.TokenType_Identifier {
			break
		}
		tr.next()
		if p.cb.SignalDecl != nil {
			p.cb.SignalDecl(kind, token.Content, rangeText, token.Location)
		}
		p.skipUntil(tr, ",", ";")
		if !tr.consumeIf(",") {
			break
		}
	}
	p.skipUntil(tr, ";", ";")
	tr.consumeIf(";")
}

// parseParameterList recognizes a #(...) module parameter port list.
func (p *Parser) parseParameterList(tr *tokenReader) {
	tr.consumeIf("(")
	p.parseParameterEntries(tr, ")")
	tr.consumeIf(")")
}

// parseParameterEntries reads name = default pairs until the terminator.
// The name is the last identifier before '='; everything between '=' and the
// next comma at group depth zero is the default text.
func (p *Parser) parseParameterEntries(tr *tokenReader, terminator string) {
	lastIdent := lexer.Token{}
	for {
		token := tr.peek()
		switch {
		case token.Type == lexer.TokenType_EOF,
			token.Content == terminator,
			token.Content == ";":
			return
		case token.Type == lexer.TokenType_Identifier:
			tr.next()
			lastIdent = token
		case token.Content == "=":
			tr.next()
			defaultTokens := p.collectUntil(tr, ",", terminator)
			if lastIdent.Content != "" && p.cb.Parameter != nil {
				p.cb.Parameter(lastIdent.Content, joinTokens(defaultTokens), lastIdent.Location)
			}
			lastIdent = lexer.Token{}
		default:
			tr.next()
		}
	}
}

// parseRange consumes one or more [...] selects, folding constant bounds.
// Multi-dimensional declarations concatenate their folded dimensions.
func (p *Parser) parseRange(tr *tokenReader) string {
	text := ""
	for tr.lookAheadIs("[") {
		tr.next()
		depth := 0
		var bounds [][]string
		var current []string
		for {
			token := tr.peek()
			if token.Type == lexer.TokenType_EOF {
				break
			}
			if token.Content == "]" && depth == 0 {
				tr.next()
				break
			}
			tr.next()
			switch token.Content {
			case "[", "(", "{":
				depth++
				current = append(current, token.Content)
			case "]", ")", "}":
				depth--
				current = append(current, token.Content)
			case ":":
				if depth == 0 {
					bounds = append(bounds, current)
					current = nil
				} else {
					current = append(current, token.Content)
				}
			default:
				current = append(current, token.Content)
			}
		}
		bounds = append(bounds, current)
		text += foldRange(bounds)
	}
	return text
}

// parseInstances recognizes one instantiation statement, which may declare
// several instances of the same submodule separated by commas.
func (p *Parser) parseInstances(tr *tokenReader, submodule string, loc verilog.Location) {
	type paramOverride struct {
		name string
		text string
		loc  verilog.Location
	}
	var overrides []paramOverride

	if tr.consumeIf("#") {
		if !tr.lookAheadIs("(") {
			p.skipStatement(tr)
			return
		}
		tr.next()
		for {
			token := tr.peek()
			if token.Type == lexer.TokenType_EOF || token.Content == ")" {
				tr.next()
				break
			}
			if token.Content == "," {
				tr.next()
				continue
			}
			if token.Content == "." {
				tr.next()
				name := tr.next()
				var text []string
				if tr.consumeIf("(") {
					text = p.collectUntil(tr, ")", ")")
					tr.consumeIf(")")
				}
				overrides = append(overrides, paramOverride{name: name.Content, text: joinTokens(text), loc: name.Location})
			} else {
				text := p.collectUntil(tr, ",", ")")
				overrides = append(overrides, paramOverride{text: joinTokens(text), loc: token.Location})
			}
		}
	}

	for {
		instName := tr.peek()
		if instName.Type != lexer.TokenType_Identifier {
			p.skipStatement(tr)
			return
		}
		tr.next()
		if tr.lookAheadIs("[") {
			p.parseRange(tr) // instance array select
		}
		if !tr.lookAheadIs("(") {
			// a declaration of a user type, not an instance
			p.skipStatement(tr)
			return
		}

		if p.cb.CellBegin != nil {
			p.cb.CellBegin(instName.Content, submodule, instName.Location)
		}
		for _, override := range overrides {
			if p.cb.CellParam != nil {
				p.cb.CellParam(override.name, override.text, override.loc)
			}
		}
		p.parsePins(tr, instName.Content)
		if p.cb.CellEnd != nil {
			p.cb.CellEnd(instName.Content, instName.Location)
		}

		if !tr.consumeIf(",") {
			break
		}
	}
	tr.consumeIf(";")
}

// parsePins recognizes the binding list of one instance. Named and
// positional bindings are exclusive per instance; empty positional slots
// yield pins with an empty net expression.
func (p *Parser) parsePins(tr *tokenReader, instName string) {
	tr.consumeIf("(")
	sawNamed, sawPositional := false, false
	index := 0
	pending := true // an empty slot is pending until text or ')' decides

	for {
		token := tr.peek()
		switch {
		case token.Type == lexer.TokenType_EOF:
			return
		case token.Content == ")":
			tr.next()
			if pending && (index > 0 || sawPositional) && p.cb.Pin != nil {
				p.cb.Pin(index, "", "", token.Location)
			}
			if sawNamed && sawPositional {
				p.diags.Warnf(verilog.DiagMixedBinding, token.Location,
					"instance %s mixes named and positional bindings", instName)
			}
			return
		case token.Content == ",":
			tr.next()
			if pending {
				// empty positional slot
				sawPositional = true
				if p.cb.Pin != nil {
					p.cb.Pin(index, "", "", token.Location)
				}
			}
			index++
			pending = true
		case token.Content == ".":
			tr.next()
			sawNamed = true
			pending = false
			if tr.consumeIf("*") {
				continue // wildcard connection carries no pin of its own
			}
			name := tr.next()
			netExpr := name.Content // SV .name shorthand binds the same-named net
			if tr.consumeIf("(") {
				netExpr = joinTokens(p.collectUntil(tr, ")", ")"))
				tr.consumeIf(")")
			}
			if p.cb.Pin != nil {
				p.cb.Pin(-1, name.Content, netExpr, name.Location)
			}
		default:
			sawPositional = true
			pending = false
			text := p.collectUntil(tr, ",", ")")
			if p.cb.Pin != nil {
				p.cb.Pin(index, "", joinTokens(text), token.Location)
			}
		}
	}

}

// collectUntil gathers token texts until one of the stop contents appears at
// group depth zero; the stop token is left unconsumed.
func (p *Parser) collectUntil(tr *tokenReader, stop1, stop2 string) []string {
	var tokens []string
	depth := 0
	for {
		token := tr.peek()
		switch {
		case token.Type == lexer.TokenType_EOF:
			return tokens
		case depth == 0 && (token.Content == stop1 || token.Content == stop2 || token.Content == ";"):
			return tokens
		case token.Content == "(" || token.Content == "[" || token.Content == "{":
			depth++
		case token.Content == ")" || token.Content == "]" || token.Content == "}":
			if depth == 0 {
				return tokens
			}
			depth--
		}
		tr.next()
		tokens = append(tokens, token.Content)
	}
}

// skipUntil consumes tokens up to, but excluding, one of the stops at group
// depth zero. Statement terminators always stop the scan.
func (p *Parser) skipUntil(tr *tokenReader, stop1, stop2 string) {
	depth := 0
	for {
		token := tr.peek()
		switch {
		case token.Type == lexer.TokenType_EOF:
			return
		case token.Type == lexer.TokenType_Keyword && token.Content == "endmodule":
			return
		case depth == 0 && (token.Content == stop1 || token.Content == stop2 || token.Content == ";" || token.Content == ")"):
			return
		case token.Content == "(" || token.Content == "[" || token.Content == "{":
			depth++
		case token.Content == ")" || token.Content == "]" || token.Content == "}":
			if depth > 0 {
				depth--
			}
		}
		tr.next()
	}
}

// skipStatement advances past one unrecognized construct: up to the matching
// semicolon outside nested groups, or past a balanced begin/end block.
// begin/end and fork/join only feed the nesting counter.
func (p *Parser) skipStatement(tr *tokenReader) {
	blocks := 0
	groups := 0
	entered := false
	for {
		token := tr.peek()
		if token.Type == lexer.TokenType_EOF {
			return
		}
		if token.Type == lexer.TokenType_Keyword && token.Content == "endmodule" {
			return
		}
		tr.next()
		switch token.Content {
		case "begin", "fork", "case", "casex", "casez":
			blocks++
			entered = true
		case "end", "join", "join_any", "join_none", "endcase":
			if blocks > 0 {
				blocks--
			}
			if entered && blocks == 0 && groups == 0 {
				return
			}
		case "(", "[", "{":
			groups++
		case ")", "]", "}":
			if groups > 0 {
				groups--
			}
		case ";":
			if blocks == 0 && groups == 0 {
				return
			}
		}
	}
}

// skipUntilKeyword consumes through the named closing keyword.
func (p *Parser) skipUntilKeyword(tr *tokenReader, end string) {
	for {
		token := tr.next()
		if token.Type == lexer.TokenType_EOF {
			return
		}
		if token.Type == lexer.TokenType_Keyword && token.Content == end {
			return
		}
	}
}
