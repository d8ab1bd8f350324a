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

package netlist

import "github.com/EngFlow/verilogtools/verilog"

// The netlist owns every Module; each Module owns its Ports, Nets, Cells and
// their Pins. Cross-entity pointers (Cell to Module, Pin to Port and Net)
// are weak references populated by Link; nil means unresolved, which is a
// first-class state.

// Module is one declared module with its interface and contents. Ports keep
// declaration order, which is also the positional-binding order.
type Module struct {
	Name       string
	Loc        verilog.Location
	Ports      []*Port
	Cells      []*Cell
	Parameters []*Parameter

	// Instantiated is set by Link when some cell references this module.
	Instantiated bool

	nets     map[string]*Net
	netOrder []string
}

// Parameter is one parameter with its default text, in declaration order.
type Parameter struct {
	Name    string
	Default string
	Loc     verilog.Location
}

// Port is a module interface point. Net references the like-named net owned
// by the same module.
type Port struct {
	Name      string
	Direction string // input, output, inout or ref
	NetType   string // declared net/variable kind, if any
	Range     string // folded range text, empty for scalars
	Net       *Net
	Loc       verilog.Location
}

// Net is a wire or variable inside a module. Declared is false for nets
// created implicitly when Link resolves a pin to an undeclared name; port
// declarations always yield declared nets.
type Net struct {
	Name     string
	Kind     string
	Range    string
	Declared bool
	Loc      verilog.Location

	// Populated by Link: pins of child cells driving or reading this net.
	DrivenBy []*Pin
	ReadBy   []*Pin
}

// Cell is an instantiation of a submodule. Submod stays nil when the
// referenced module is not part of the netlist (a black box).
type Cell struct {
	Name           string
	SubmodName     string
	Submod         *Module
	ParamOverrides []*Parameter
	Pins           []*Pin
	Loc            verilog.Location
}

// Pin is one port-to-net binding of a cell. PortIndex is -1 for named
// bindings; PortName is empty for positional ones. Port and Net are set by
// Link when resolvable.
type Pin struct {
	PortName  string
	PortIndex int
	NetExpr   string
	Port      *Port
	Net       *Net
	Loc       verilog.Location
}

// Named reports whether the pin uses named binding.
func (p *Pin) Named() bool { return p.PortIndex < 0 }

// Net returns the module-owned net with the given name, or nil.
func (m *Module) Net(name string) *Net {
	return m.nets[name]
}

// Nets returns the module's nets in declaration order.
func (m *Module) Nets() []*Net {
	nets := make([]*Net, 0, len(m.netOrder))
	for _, name := range m.netOrder {
		nets = append(nets, m.nets[name])
	}
	return nets
}

// Port returns the port with the given name, or nil.
func (m *Module) Port(name string) *Port {
	for _, port := range m.Ports {
		if port.Name == name {
			return port
		}
	}
	return nil
}

// addNet creates or returns the named net.
func (m *Module) addNet(name string, loc verilog.Location, declared bool, kind string) *Net {
	if net, exists := m.nets[name]; exists {
		if declared && !net.Declared {
			net.Declared = true
			net.Kind = kind
			net.Loc = loc
		}
		return net
	}
	net := &Net{Name: name, Kind: kind, Declared: declared, Loc: loc}
	if m.nets == nil {
		m.nets = map[string]*Net{}
	}
	m.nets[name] = net
	m.netOrder = append(m.netOrder, name)
	return net
}
