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

// Link resolves cross-module references: cells to module definitions, pins
// to ports and nets, and marks the top set. Link always completes; problems
// are recorded as diagnostics. Afterwards the netlist is frozen and further
// mutation fails with ErrNetlistFrozen.
func (n *Netlist) Link() error {
	if n.linked {
		return ErrNetlistFrozen
	}
	n.loadLibraryModules()

	for _, module := range n.Modules() {
		for _, cell := range module.Cells {
			n.linkCell(module, cell)
		}
	}

	n.linked = true
	return nil
}

func (n *Netlist) linkCell(parent *Module, cell *Cell) {
	submod, defined := n.modules[cell.SubmodName]
	if !defined {
		n.diags.Warnf(verilog.DiagUnresolvedSubmodule, cell.Loc,
			"instance %s references undefined module %s", cell.Name, cell.SubmodName)
	} else {
		cell.Submod = submod
		submod.Instantiated = true
	}

	for _, pin := range cell.Pins {
		if defined {
			n.resolvePort(cell, submod, pin)
		}
		n.resolveNet(parent, pin)
	}
}

// resolvePort binds a pin to the submodule port it names (or indexes).
func (n *Netlist) resolvePort(cell *Cell, submod *Module, pin *Pin) {
	if pin.Named() {
		pin.Port = submod.Port(pin.PortName)
		if pin.Port == nil {
			n.diags.Warnf(verilog.DiagUnknownPort, pin.Loc,
				"instance %s binds unknown port %s of module %s", cell.Name, pin.PortName, submod.Name)
		}
		return
	}
	if pin.PortIndex >= len(submod.Ports) {
		n.diags.Warnf(verilog.DiagPortArity, pin.Loc,
			"instance %s binds position %d but module %s has only %d ports",
			cell.Name, pin.PortIndex+1, submod.Name, len(submod.Ports))
		return
	}
	pin.Port = submod.Ports[pin.PortIndex]
}

// resolveNet binds a pin's net expression to a net of the parent module,
// creating an implicit net when the expression names an undeclared
// identifier and `default_nettype allows it.
func (n *Netlist) resolveNet(parent *Module, pin *Pin) {
	name := netExprName(pin.NetExpr)
	if name == "" {
		return // open pin, constant or complex expression
	}

	net := parent.Net(name)
	if net == nil {
		if n.defaultNetKind == "none" {
			n.diags.Warnf(verilog.DiagImplicitNet, pin.Loc,
				"net %s is not declared and `default_nettype is none", name)
			return
		}
		net = parent.addNet(name, pin.Loc, false, n.defaultNetKind)
	}
	pin.Net = net

	direction := ""
	if pin.Port != nil {
		direction = pin.Port.Direction
	}
	switch direction {
	case "output":
		net.DrivenBy = append(net.DrivenBy, pin)
	case "inout":
		net.DrivenBy = append(net.DrivenBy, pin)
		net.ReadBy = append(net.ReadBy, pin)
	default:
		net.ReadBy = append(net.ReadBy, pin)
	}
}
