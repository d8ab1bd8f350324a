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

// Package verilog collects language-level facts about Verilog and
// SystemVerilog sources: the supported language standards, keyword and
// directive tables, number-literal parsing, bus-range expansion and comment
// stripping. It also defines the Location and Diagnostic types shared by the
// preprocessor, lexer, parser and netlist packages.
package verilog

import "fmt"

// Standard selects which revision of the language defines the keyword set and
// reserved directives.
type Standard int

const (
	V1995 Standard = iota
	V2001
	V2005
	SV2005
	SV2009
	SV2012
	SV2017
	SV2023
	VAMS
)

var standardNames = map[Standard]string{
	V1995:  "1364-1995",
	V2001:  "1364-2001",
	V2005:  "1364-2005",
	SV2005: "1800-2005",
	SV2009: "1800-2009",
	SV2012: "1800-2012",
	SV2017: "1800-2017",
	SV2023: "1800-2023",
	VAMS:   "VAMS-2.3",
}

func (s Standard) String() string {
	if name, exists := standardNames[s]; exists {
		return name
	}
	return fmt.Sprintf("Standard(%d)", int(s))
}

// IsSystemVerilog reports whether the standard includes the SystemVerilog
// keyword set.
func (s Standard) IsSystemVerilog() bool {
	switch s {
	case SV2005, SV2009, SV2012, SV2017, SV2023:
		return true
	default:
		return false
	}
}

// ParseStandard resolves a standard from its IEEE designation or one of the
// short aliases used on the command line (1995, 2001, sv2017, ...).
func ParseStandard(name string) (Standard, error) {
	for std, canonical := range standardNames {
		if name == canonical {
			return std, nil
		}
	}
	switch name {
	case "1995", "v1995":
		return V1995, nil
	case "2001", "v2001":
		return V2001, nil
	case "2005", "v2005":
		return V2005, nil
	case "sv2005":
		return SV2005, nil
	case "sv2009":
		return SV2009, nil
	case "sv2012":
		return SV2012, nil
	case "sv2017":
		return SV2017, nil
	case "sv2023":
		return SV2023, nil
	case "vams", "ams":
		return VAMS, nil
	}
	return V2005, fmt.Errorf("unknown language standard %q", name)
}

// Process-wide default, used when an entry point is not given an explicit
// standard. An explicit per-call standard always takes precedence.
var defaultStandard = SV2017

// DefaultStandard returns the process-wide default language standard.
func DefaultStandard() Standard { return defaultStandard }

// SetDefaultStandard overrides the process-wide default language standard.
func SetDefaultStandard(s Standard) { defaultStandard = s }
