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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EngFlow/verilogtools/verilog"
)

// recorder captures parser events as readable strings for comparison.
type recorder struct {
	events []string
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		ModuleBegin: func(name string, loc verilog.Location) {
			r.events = append(r.events, fmt.Sprintf("module_begin %s", name))
		},
		ModuleEnd: func(name string, loc verilog.Location) {
			r.events = append(r.events, fmt.Sprintf("module_end %s", name))
		},
		Port: func(name, direction, rangeText, netType string, loc verilog.Location) {
			r.events = append(r.events, fmt.Sprintf("port %s dir=%s range=%s type=%s", name, direction, rangeText, netType))
		},
		SignalDecl: func(kind, name, rangeText string, loc verilog.Location) {
			r.events = append(r.events, fmt.Sprintf("signal %s %s range=%s", kind, name, rangeText))
		},
		Parameter: func(name, defaultText string, loc verilog.Location) {
			r.events = append(r.events, fmt.Sprintf("parameter %s = %s", name, defaultText))
		},
		CellBegin: func(instName, submodName string, loc verilog.Location) {
			r.events = append(r.events, fmt.Sprintf("cell_begin %s %s", instName, submodName))
		},
		CellParam: func(name, valueText string, loc verilog.Location) {
			r.events = append(r.events, fmt.Sprintf("cell_param %s = %s", name, valueText))
		},
		Pin: func(index int, portName, netExpr string, loc verilog.Location) {
			if index < 0 {
				r.events = append(r.events, fmt.Sprintf("pin .%s(%s)", portName, netExpr))
			} else {
				r.events = append(r.events, fmt.Sprintf("pin [%d](%s)", index, netExpr))
			}
		},
		CellEnd: func(instName string, loc verilog.Location) {
			r.events = append(r.events, fmt.Sprintf("cell_end %s", instName))
		},
		DefaultNetType: func(kind string, loc verilog.Location) {
			r.events = append(r.events, fmt.Sprintf("default_nettype %s", kind))
		},
	}
}

func parseEvents(t *testing.T, input string) ([]string, *Parser) {
	t.Helper()
	rec := &recorder{}
	p := New(rec.callbacks(), verilog.SV2017)
	require.NoError(t, p.Parse(input, verilog.NoFile))
	return rec.events, p
}

func TestParseAnsiModule(t *testing.T) {
	events, p := parseEvents(t, `
module test_module (input clk, input rst, output reg [32-1:0] count);
endmodule
`)
	assert.Equal(t, []string{
		"module_begin test_module",
		"port clk dir=input range= type=",
		"port rst dir=input range= type=",
		"port count dir=output range=[31:0] type=reg",
		"module_end test_module",
	}, events)
	assert.Empty(t, p.Diagnostics().All())
}

func TestParseNonAnsiModule(t *testing.T) {
	events, _ := parseEvents(t, `
module adder (a, b, sum);
  input [7:0] a, b;
  output [8:0] sum;
  wire carry;
endmodule
`)
	assert.Equal(t, []string{
		"module_begin adder",
		"port a dir= range= type=",
		"port b dir= range= type=",
		"port sum dir= range= type=",
		"port a dir=input range=[7:0] type=",
		"port b dir=input range=[7:0] type=",
		"port sum dir=output range=[8:0] type=",
		"signal wire carry range=",
		"module_end adder",
	}, events)
}

func TestParseParameters(t *testing.T) {
	events, _ := parseEvents(t, `
module fifo #(parameter WIDTH = 8, parameter DEPTH = 16) (input clk);
  localparam PTR_BITS = 4;
endmodule
`)
	assert.Equal(t, []string{
		"module_begin fifo",
		"parameter WIDTH = 8",
		"parameter DEPTH = 16",
		"port clk dir=input range= type=",
		"parameter PTR_BITS = 4",
		"module_end fifo",
	}, events)
}

func TestParseNamedInstance(t *testing.T) {
	events, _ := parseEvents(t, `
module top;
  wire a, b;
  sub u0 (.x(a), .y(b[3:0]), .z());
endmodule
`)
	assert.Equal(t, []string{
		"module_begin top",
		"signal wire a range=",
		"signal wire b range=",
		"cell_begin u0 sub",
		"pin .x(a)",
		"pin .y(b[3:0])",
		"pin .z()",
		"cell_end u0",
		"module_end top",
	}, events)
}

func TestParsePositionalInstance(t *testing.T) {
	events, _ := parseEvents(t, `
module top;
  sub u1 (a, , b);
endmodule
`)
	assert.Equal(t, []string{
		"module_begin top",
		"cell_begin u1 sub",
		"pin [0](a)",
		"pin [1]()",
		"pin [2](b)",
		"cell_end u1",
		"module_end top",
	}, events)
}

func TestParseInstanceWithParameters(t *testing.T) {
	events, _ := parseEvents(t, `
module top;
  sub #(.WIDTH(16), .DEPTH(4)) u2 (.clk(clk));
endmodule
`)
	assert.Equal(t, []string{
		"module_begin top",
		"cell_begin u2 sub",
		"cell_param WIDTH = 16",
		"cell_param DEPTH = 4",
		"pin .clk(clk)",
		"cell_end u2",
		"module_end top",
	}, events)
}

func TestParseMultipleInstancesInOneStatement(t *testing.T) {
	events, _ := parseEvents(t, `
module top;
  buf_cell b0 (o0, i0), b1 (o1, i1);
endmodule
`)
	assert.Equal(t, []string{
		"module_begin top",
		"cell_begin b0 buf_cell",
		"pin [0](o0)",
		"pin [1](i0)",
		"cell_end b0",
		"cell_begin b1 buf_cell",
		"pin [0](o1)",
		"pin [1](i1)",
		"cell_end b1",
		"module_end top",
	}, events)
}

func TestParseGatePrimitive(t *testing.T) {
	events, _ := parseEvents(t, `
module top;
  nand g0 (o, a, b);
endmodule
`)
	assert.Equal(t, []string{
		"module_begin top",
		"cell_begin g0 nand",
		"pin [0](o)",
		"pin [1](a)",
		"pin [2](b)",
		"cell_end g0",
		"module_end top",
	}, events)
}

func TestMixedBindingReported(t *testing.T) {
	rec := &recorder{}
	p := New(rec.callbacks(), verilog.SV2017)
	require.NoError(t, p.Parse("module top;\n sub u0 (a, .y(b));\nendmodule\n", verilog.NoFile))
	assert.Equal(t, 1, p.Diagnostics().CountKind(verilog.DiagMixedBinding))
}

func TestSkipsUnrecognizedConstructs(t *testing.T) {
	events, _ := parseEvents(t, `
module top (input clk);
  always @(posedge clk) begin
    if (x) y <= z;
    count <= count + 1;
  end
  assign w = a & b;
  initial $display("hello; world");
  function automatic [3:0] f;
    input [3:0] v;
    f = v;
  endfunction
  sub u0 (.p(q));
endmodule
`)
	assert.Equal(t, []string{
		"module_begin top",
		"port clk dir=input range= type=",
		"cell_begin u0 sub",
		"pin .p(q)",
		"cell_end u0",
		"module_end top",
	}, events)
}

func TestDefaultNettypeDirective(t *testing.T) {
	events, _ := parseEvents(t, "`default_nettype none\nmodule m;\nendmodule\n")
	assert.Equal(t, []string{
		"default_nettype none",
		"module_begin m",
		"module_end m",
	}, events)
}

func TestRangeFolding(t *testing.T) {
	events, _ := parseEvents(t, `
module m (output [2*8-1:0] wide, output [UNKNOWN-1:0] raw);
endmodule
`)
	assert.Equal(t, []string{
		"module_begin m",
		"port wide dir=output range=[15:0] type=",
		"port raw dir=output range=[UNKNOWN-1:0] type=",
		"module_end m",
	}, events)
}

func TestSignalDeclarations(t *testing.T) {
	events, _ := parseEvents(t, `
module m;
  reg [7:0] state, next_state;
  logic enable;
  integer i;
  wire [3:0] nibble = 4'b0000;
endmodule
`)
	assert.Equal(t, []string{
		"module_begin m",
		"signal reg state range=[7:0]",
		"signal reg next_state range=[7:0]",
		"signal logic enable range=",
		"signal integer i range=",
		"signal wire nibble range=[3:0]",
		"module_end m",
	}, events)
}
