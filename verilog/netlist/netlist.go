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

// Package netlist accumulates parsed Verilog modules and links them into a
// navigable hierarchy: cells are resolved to their module definitions across
// files, pins to ports and nets, and modules never instantiated form the top
// set. Linking tolerates partial input; unresolved references are reported
// as diagnostics, not failures.
package netlist

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/EngFlow/verilogtools/verilog"
	"github.com/EngFlow/verilogtools/verilog/parser"
	"github.com/EngFlow/verilogtools/verilog/preproc"
	"github.com/EngFlow/verilogtools/verilog/source"
)

// ErrNetlistFrozen is returned by mutating operations after Link.
var ErrNetlistFrozen = errors.New("netlist is frozen after linking")

// Netlist owns all modules read so far. Construction is single-threaded;
// after Link the netlist is immutable and may be shared read-only.
type Netlist struct {
	pp       *preproc.Preproc
	ps       *parser.Parser
	standard verilog.Standard
	diags    *verilog.Diagnostics

	modules   map[string]*Module
	order     []string
	filesRead []verilog.FileID
	libDirs   []string
	linked    bool

	// builder state during parsing
	current        *Module
	currentCell    *Cell
	defaultNetKind string
}

// New creates an empty netlist. Files read into it are preprocessed with the
// given defines and include paths under the given standard.
func New(defines map[string]string, includePaths []string, std verilog.Standard) *Netlist {
	n := &Netlist{
		pp:             preproc.New(defines, includePaths, std),
		standard:       std,
		diags:          &verilog.Diagnostics{},
		modules:        map[string]*Module{},
		defaultNetKind: "wire",
	}
	n.ps = parser.New(n.callbacks(), std)
	n.ps.SetFileResolver(n.pp.FileTable().Intern)
	return n
}

// Undefine removes a macro from the preprocessor table before reading.
func (n *Netlist) Undefine(name string) { n.pp.Undefine(name) }

// AddLibraryDir registers a directory searched for <module>.v / <module>.sv
// when Link meets an unresolved submodule reference.
func (n *Netlist) AddLibraryDir(dir string) {
	n.libDirs = append(n.libDirs, dir)
}

// FileTable exposes the table mapping FileIDs to paths.
func (n *Netlist) FileTable() *source.Table { return n.pp.FileTable() }

// Standard returns the standard the netlist was built under.
func (n *Netlist) Standard() verilog.Standard { return n.standard }

// Diagnostics returns the conditions reported by preprocessing, parsing and
// linking, in that order.
func (n *Netlist) Diagnostics() []verilog.Diagnostic {
	return slices.Concat(
		n.pp.Diagnostics().All(),
		n.ps.Diagnostics().All(),
		n.diags.All(),
	)
}

// ReadFile preprocesses and parses one source file into the netlist.
func (n *Netlist) ReadFile(path string) error {
	if n.linked {
		return ErrNetlistFrozen
	}
	text, err := n.pp.PreprocessFile(path)
	if err != nil {
		return err
	}
	return n.readText(text, verilog.NoFile)
}

// ReadStream preprocesses and parses text from r, using origin as the file
// name in provenance and diagnostics.
func (n *Netlist) ReadStream(r io.Reader, origin string) error {
	if n.linked {
		return ErrNetlistFrozen
	}
	text, err := n.pp.PreprocessStream(r, origin)
	if err != nil {
		return err
	}
	return n.readText(text, n.pp.FileTable().Intern(origin))
}

func (n *Netlist) readText(text string, origin verilog.FileID) error {
	err := n.ps.Parse(text, origin)
	n.current, n.currentCell = nil, nil
	for id := range n.pp.FileTable().Paths() {
		fileID := verilog.FileID(id + 1)
		if !slices.Contains(n.filesRead, fileID) {
			n.filesRead = append(n.filesRead, fileID)
		}
	}
	return err
}

// FilesRead returns the ids of all files ingested, in first-read order.
func (n *Netlist) FilesRead() []verilog.FileID { return n.filesRead }

// Linked reports whether Link has completed.
func (n *Netlist) Linked() bool { return n.linked }

// FindModule returns the module with the given name, or nil.
func (n *Netlist) FindModule(name string) *Module { return n.modules[name] }

// Modules returns all modules in first-declaration order.
func (n *Netlist) Modules() []*Module {
	modules := make([]*Module, 0, len(n.order))
	for _, name := range n.order {
		modules = append(modules, n.modules[name])
	}
	return modules
}

// TopModules returns the modules never instantiated by another module, in
// first-declaration order. Meaningful after Link.
func (n *Netlist) TopModules() []*Module {
	var tops []*Module
	for _, module := range n.Modules() {
		if !module.Instantiated {
			tops = append(tops, module)
		}
	}
	return tops
}

// callbacks binds the parser event table to the builder state.
func (n *Netlist) callbacks() parser.Callbacks {
	return parser.Callbacks{
		ModuleBegin: func(name string, loc verilog.Location) {
			if _, exists := n.modules[name]; exists {
				n.diags.Warnf(verilog.DiagDuplicateModule, loc,
					"module %s already defined at %s; keeping the first definition",
					name, n.modules[name].Loc)
				// parse into a discarded module so events stay consistent
				n.current = &Module{Name: name, Loc: loc}
				return
			}
			n.current = &Module{Name: name, Loc: loc}
			n.modules[name] = n.current
			n.order = append(n.order, name)
		},
		ModuleEnd: func(name string, loc verilog.Location) {
			n.current, n.currentCell = nil, nil
		},
		Port: func(name, direction, rangeText, netType string, loc verilog.Location) {
			if n.current == nil {
				return
			}
			module := n.current
			port := module.Port(name)
			if port == nil {
				port = &Port{Name: name, Loc: loc}
				module.Ports = append(module.Ports, port)
			}
			if direction != "" {
				port.Direction = direction
			}
			if rangeText != "" {
				port.Range = rangeText
			}
			if netType != "" {
				port.NetType = netType
			}
			kind := netType
			if kind == "" {
				// a port declaration always implies a net, even under
				// `default_nettype none
				kind = n.defaultNetKind
				if kind == "none" {
					kind = "wire"
				}
			}
			port.Net = module.addNet(name, loc, true, kind)
			port.Net.Range = port.Range
		},
		SignalDecl: func(kind, name, rangeText string, loc verilog.Location) {
			if n.current == nil {
				return
			}
			net := n.current.addNet(name, loc, true, kind)
			net.Kind = kind
			if rangeText != "" {
				net.Range = rangeText
			}
			// a matching port adopts the body declaration's kind and range
			if port := n.current.Port(name); port != nil {
				port.NetType = kind
				if rangeText != "" {
					port.Range = rangeText
				}
			}
		},
		Parameter: func(name, defaultText string, loc verilog.Location) {
			if n.current == nil {
				return
			}
			for _, param := range n.current.Parameters {
				if param.Name == name {
					param.Default = defaultText
					return
				}
			}
			n.current.Parameters = append(n.current.Parameters,
				&Parameter{Name: name, Default: defaultText, Loc: loc})
		},
		CellBegin: func(instName, submodName string, loc verilog.Location) {
			if n.current == nil {
				return
			}
			n.currentCell = &Cell{Name: instName, SubmodName: submodName, Loc: loc}
			n.current.Cells = append(n.current.Cells, n.currentCell)
		},
		CellParam: func(name, valueText string, loc verilog.Location) {
			if n.currentCell == nil {
				return
			}
			n.currentCell.ParamOverrides = append(n.currentCell.ParamOverrides,
				&Parameter{Name: name, Default: valueText, Loc: loc})
		},
		Pin: func(index int, portName, netExpr string, loc verilog.Location) {
			if n.currentCell == nil {
				return
			}
			n.currentCell.Pins = append(n.currentCell.Pins,
				&Pin{PortIndex: index, PortName: portName, NetExpr: netExpr, Loc: loc})
		},
		CellEnd: func(instName string, loc verilog.Location) {
			n.currentCell = nil
		},
		DefaultNetType: func(kind string, loc verilog.Location) {
			n.defaultNetKind = kind
		},
	}
}

// loadLibraryModules searches the registered library directories for source
// files named after unresolved submodules, Verilog-mode style, reading any
// it finds. Repeats until no new module resolves.
func (n *Netlist) loadLibraryModules() {
	if len(n.libDirs) == 0 {
		return
	}
	for {
		loaded := false
		for _, module := range n.Modules() {
			for _, cell := range module.Cells {
				if _, defined := n.modules[cell.SubmodName]; defined {
					continue
				}
				for _, dir := range n.libDirs {
					for _, ext := range []string{".v", ".sv"} {
						candidate := filepath.Join(dir, cell.SubmodName+ext)
						if _, err := os.Stat(candidate); err != nil {
							continue
						}
						if err := n.ReadFile(candidate); err == nil {
							loaded = true
						}
						break
					}
					if _, defined := n.modules[cell.SubmodName]; defined {
						break
					}
				}
			}
		}
		if !loaded {
			return
		}
	}
}

// netExprName extracts the identifier of a minimal net expression of the
// shape identifier['['...']']. Constants, concatenations and other complex
// expressions yield "".
func netExprName(expr string) string {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return ""
	}
	end := 0
	if expr[0] == '\\' {
		return strings.Fields(expr)[0][1:]
	}
	if !isIdentByte(expr[0], true) {
		return ""
	}
	for end < len(expr) && isIdentByte(expr[end], false) {
		end++
	}
	rest := strings.TrimSpace(expr[end:])
	if rest != "" && (rest[0] != '[' || rest[len(rest)-1] != ']') {
		return ""
	}
	return expr[:end]
}

func isIdentByte(c byte, first bool) bool {
	if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
		return true
	}
	if first {
		return false
	}
	return c == '$' || (c >= '0' && c <= '9')
}
