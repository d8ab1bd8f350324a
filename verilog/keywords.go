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

package verilog

import "github.com/EngFlow/verilogtools/internal/collections"

// Keyword sets are cumulative: each standard reserves everything the previous
// revision of the same language reserved. The slices below list only the
// additions of each revision.

var keywords1995 = []string{
	"always", "and", "assign", "begin", "buf", "bufif0", "bufif1", "case",
	"casex", "casez", "cmos", "deassign", "default", "defparam", "disable",
	"edge", "else", "end", "endcase", "endfunction", "endmodule",
	"endprimitive", "endspecify", "endtable", "endtask", "event", "for",
	"force", "forever", "fork", "function", "highz0", "highz1", "if",
	"ifnone", "initial", "inout", "input", "integer", "join", "large",
	"macromodule", "medium", "module", "nand", "negedge", "nmos", "nor",
	"not", "notif0", "notif1", "or", "output", "parameter", "pmos",
	"posedge", "primitive", "pull0", "pull1", "pulldown", "pullup", "rcmos",
	"real", "realtime", "reg", "release", "repeat", "rnmos", "rpmos",
	"rtran", "rtranif0", "rtranif1", "scalared", "small", "specify",
	"specparam", "strong0", "strong1", "supply0", "supply1", "table",
	"task", "time", "tran", "tranif0", "tranif1", "tri", "tri0", "tri1",
	"triand", "trior", "trireg", "vectored", "wait", "wand", "weak0",
	"weak1", "while", "wire", "wor", "xnor", "xor",
}

var keywords2001 = []string{
	"automatic", "cell", "config", "design", "endconfig", "endgenerate",
	"generate", "genvar", "incdir", "include", "instance", "liblist",
	"library", "localparam", "noshowcancelled", "pulsestyle_ondetect",
	"pulsestyle_onevent", "showcancelled", "signed", "unsigned", "use",
}

var keywords2005 = []string{"uwire"}

var keywordsSV2005 = []string{
	"alias", "always_comb", "always_ff", "always_latch", "assert", "assume",
	"before", "bind", "bins", "binsof", "bit", "break", "byte", "chandle",
	"class", "clocking", "const", "constraint", "context", "continue",
	"cover", "covergroup", "coverpoint", "cross", "dist", "do", "endclass",
	"endclocking", "endgroup", "endinterface", "endpackage", "endprogram",
	"endproperty", "endsequence", "enum", "expect", "export", "extends",
	"extern", "final", "first_match", "foreach", "forkjoin", "iff",
	"ignore_bins", "illegal_bins", "import", "inside", "int", "interface",
	"intersect", "join_any", "join_none", "local", "logic", "longint",
	"matches", "modport", "new", "null", "package", "packed", "priority",
	"program", "property", "protected", "pure", "rand", "randc",
	"randcase", "randsequence", "ref", "return", "sequence", "shortint",
	"shortreal", "solve", "static", "string", "struct", "super", "tagged",
	"this", "throughout", "timeprecision", "timeunit", "type", "typedef",
	"union", "unique", "var", "virtual", "void", "wait_order", "wildcard",
	"with", "within",
}

var keywordsSV2009 = []string{
	"accept_on", "checker", "endchecker", "eventually", "global", "implies",
	"let", "nexttime", "reject_on", "restrict", "s_always", "s_eventually",
	"s_nexttime", "s_until", "s_until_with", "strong", "sync_accept_on",
	"sync_reject_on", "unique0", "until", "until_with", "untyped", "weak",
}

var keywordsSV2012 = []string{"implements", "interconnect", "nettype", "soft"}

// Verilog-AMS extends 1364-2005 with the analog modeling keywords.
var keywordsVAMS = []string{
	"above", "abs", "absdelay", "ac_stim", "aliasparam", "analog",
	"analysis", "branch", "connect", "connectmodule", "connectrules",
	"continuous", "cross", "ddt", "ddx", "discipline", "discrete",
	"domain", "driver_update", "endconnectrules", "enddiscipline",
	"endnature", "endparamset", "exclude", "final_step", "flicker_noise",
	"flow", "from", "ground", "idt", "idtmod", "inf", "initial_step",
	"laplace_nd", "laplace_np", "laplace_zd", "laplace_zp", "nature",
	"net_resolution", "noise_table", "paramset", "potential", "resolveto",
	"slew", "timer", "transition", "white_noise", "zi_nd", "zi_np",
	"zi_zd", "zi_zp",
}

var keywordsByStandard = func() map[Standard]collections.Set[string] {
	base1995 := collections.ToSet(keywords1995)
	base2001 := base1995.Clone().AddSlice(keywords2001)
	base2005 := base2001.Clone().AddSlice(keywords2005)
	sv2005 := base2005.Clone().AddSlice(keywordsSV2005)
	sv2009 := sv2005.Clone().AddSlice(keywordsSV2009)
	sv2012 := sv2009.Clone().AddSlice(keywordsSV2012)
	return map[Standard]collections.Set[string]{
		V1995:  base1995,
		V2001:  base2001,
		V2005:  base2005,
		SV2005: sv2005,
		SV2009: sv2009,
		SV2012: sv2012,
		SV2017: sv2012,
		SV2023: sv2012,
		VAMS:   base2005.Clone().AddSlice(keywordsVAMS),
	}
}()

// IsKeyword reports whether sym is reserved under the given standard.
func IsKeyword(sym string, std Standard) bool {
	set, exists := keywordsByStandard[std]
	if !exists {
		set = keywordsByStandard[defaultStandard]
	}
	return set.Contains(sym)
}

// Compiler directives are spelled with a leading backtick in source; the
// table stores the bare names.
var compilerDirectives = collections.SetOf(
	"begin_keywords", "celldefine", "default_nettype", "define", "else",
	"elsif", "end_keywords", "endcelldefine", "endif", "ifdef", "ifndef",
	"include", "line", "nounconnected_drive", "pragma", "resetall",
	"timescale", "unconnected_drive", "undef", "undefineall",
	"__FILE__", "__LINE__",
)

// IsCompilerDirective reports whether sym (without the backtick) names a
// standard compiler directive.
func IsCompilerDirective(sym string) bool {
	return compilerDirectives.Contains(sym)
}

var gatePrimitives = collections.SetOf(
	"and", "nand", "or", "nor", "xor", "xnor", "buf", "not",
	"bufif0", "bufif1", "notif0", "notif1",
	"nmos", "pmos", "cmos", "rnmos", "rpmos", "rcmos",
	"tran", "rtran", "tranif0", "tranif1", "rtranif0", "rtranif1",
	"pullup", "pulldown",
)

// IsGatePrimitive reports whether sym names one of the built-in gate
// primitives.
func IsGatePrimitive(sym string) bool {
	return gatePrimitives.Contains(sym)
}
