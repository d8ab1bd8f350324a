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

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a human-readable description of every module: ports, nets,
// parameters and cells with their resolved state.
func (n *Netlist) Dump(w io.Writer) {
	for _, module := range n.Modules() {
		fmt.Fprintf(w, "module %s (%s:%d)\n", module.Name, n.FileTable().Path(module.Loc.File), module.Loc.Line)
		for _, param := range module.Parameters {
			fmt.Fprintf(w, "  parameter %s = %s\n", param.Name, param.Default)
		}
		for _, port := range module.Ports {
			fmt.Fprintf(w, "  port %s %s%s\n", port.Direction, rangePrefix(port.Range), port.Name)
		}
		for _, net := range module.Nets() {
			declared := ""
			if !net.Declared {
				declared = " (implicit)"
			}
			fmt.Fprintf(w, "  net %s %s%s%s\n", net.Kind, rangePrefix(net.Range), net.Name, declared)
		}
		for _, cell := range module.Cells {
			state := ""
			if cell.Submod == nil {
				state = " (unresolved)"
			}
			fmt.Fprintf(w, "  cell %s %s%s\n", cell.Name, cell.SubmodName, state)
			for _, pin := range cell.Pins {
				fmt.Fprintf(w, "    %s\n", pinText(pin))
			}
		}
	}
}

func rangePrefix(rangeText string) string {
	if rangeText == "" {
		return ""
	}
	return rangeText + " "
}

func pinText(pin *Pin) string {
	if pin.Named() {
		return fmt.Sprintf(".%s(%s)", pin.PortName, pin.NetExpr)
	}
	return fmt.Sprintf("[%d](%s)", pin.PortIndex, pin.NetExpr)
}

// VerilogText regenerates the netlist as compilable Verilog module
// skeletons: headers, port and net declarations, and instantiations with
// named bindings. Positional pins whose port did not resolve, and unnamed
// parameter overrides, are written positionally.
func (n *Netlist) VerilogText() string {
	var out strings.Builder
	for _, module := range n.Modules() {
		names := make([]string, len(module.Ports))
		for i, port := range module.Ports {
			names[i] = port.Name
		}
		fmt.Fprintf(&out, "module %s (%s);\n", module.Name, strings.Join(names, ", "))

		for _, param := range module.Parameters {
			fmt.Fprintf(&out, "  parameter %s = %s;\n", param.Name, param.Default)
		}
		for _, port := range module.Ports {
			direction := port.Direction
			if direction == "" {
				direction = "inout"
			}
			kind := ""
			if port.NetType != "" && port.NetType != "wire" {
				kind = " " + port.NetType
			}
			fmt.Fprintf(&out, "  %s%s %s%s;\n", direction, kind, rangePrefix(port.Range), port.Name)
		}
		for _, net := range module.Nets() {
			if module.Port(net.Name) != nil {
				continue // already covered by the port declaration
			}
			kind := net.Kind
			if kind == "" {
				kind = "wire"
			}
			fmt.Fprintf(&out, "  %s %s%s;\n", kind, rangePrefix(net.Range), net.Name)
		}
		for _, cell := range module.Cells {
			out.WriteString("  " + cell.SubmodName)
			if len(cell.ParamOverrides) > 0 {
				overrides := make([]string, len(cell.ParamOverrides))
				for i, param := range cell.ParamOverrides {
					if param.Name != "" {
						overrides[i] = fmt.Sprintf(".%s(%s)", param.Name, param.Default)
					} else {
						overrides[i] = param.Default
					}
				}
				out.WriteString(" #(" + strings.Join(overrides, ", ") + ")")
			}
			bindings := make([]string, len(cell.Pins))
			for i, pin := range cell.Pins {
				if pin.Named() {
					bindings[i] = fmt.Sprintf(".%s(%s)", pin.PortName, pin.NetExpr)
				} else if pin.Port != nil {
					bindings[i] = fmt.Sprintf(".%s(%s)", pin.Port.Name, pin.NetExpr)
				} else {
					bindings[i] = pin.NetExpr
				}
			}
			fmt.Fprintf(&out, " %s (%s);\n", cell.Name, strings.Join(bindings, ", "))
		}
		out.WriteString("endmodule\n\n")
	}
	return out.String()
}
