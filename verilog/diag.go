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

import "fmt"

// FileID is an interned identifier for a source file. The zero value names
// no file; the source.Table owning the id maps it back to a path.
type FileID int

// NoFile is the FileID of text that did not come from a file, e.g. in-memory
// streams.
const NoFile FileID = 0

// Location identifies a position in an ingested source file. Column is
// 1-based; a zero Column means the position is line-granular.
type Location struct {
	File   FileID
	Line   int
	Column int
}

func (l Location) String() string {
	if l.Column == 0 {
		return fmt.Sprintf("%d:%d", l.File, l.Line)
	}
	return fmt.Sprintf("%d:%d:%d", l.File, l.Line, l.Column)
}

// Severity of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// DiagKind enumerates the distinct diagnostic conditions reported by the
// preprocessor, parser and linker.
type DiagKind int

const (
	DiagInvalidNumber DiagKind = iota
	DiagIncludeNotFound
	DiagIncludeDepthExceeded
	DiagUnterminatedIfdef
	DiagDanglingEndif
	DiagDanglingElse
	DiagMacroArity
	DiagMacroRedefinition
	DiagUnknownDirective
	DiagMalformedDirective
	DiagDuplicateModule
	DiagUnresolvedSubmodule
	DiagUnknownPort
	DiagPortArity
	DiagMixedBinding
	DiagImplicitNet
	DiagNetlistFrozen
	DiagIO
)

var diagKindNames = map[DiagKind]string{
	DiagInvalidNumber:        "InvalidNumber",
	DiagIncludeNotFound:      "IncludeNotFound",
	DiagIncludeDepthExceeded: "IncludeDepthExceeded",
	DiagUnterminatedIfdef:    "UnterminatedIfdef",
	DiagDanglingEndif:        "DanglingEndif",
	DiagDanglingElse:         "DanglingElse",
	DiagMacroArity:           "MacroArity",
	DiagMacroRedefinition:    "MacroRedefinition",
	DiagUnknownDirective:     "UnknownDirective",
	DiagMalformedDirective:   "MalformedDirective",
	DiagDuplicateModule:      "DuplicateModule",
	DiagUnresolvedSubmodule:  "UnresolvedSubmodule",
	DiagUnknownPort:          "UnknownPort",
	DiagPortArity:            "PortArity",
	DiagMixedBinding:         "MixedBinding",
	DiagImplicitNet:          "ImplicitNet",
	DiagNetlistFrozen:        "NetlistFrozen",
	DiagIO:                   "IOError",
}

func (k DiagKind) String() string {
	if name, exists := diagKindNames[k]; exists {
		return name
	}
	return fmt.Sprintf("DiagKind(%d)", int(k))
}

// Diagnostic is a single reported condition with its origin.
type Diagnostic struct {
	Kind     DiagKind
	Severity Severity
	Loc      Location
	Msg      string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s (%s)", d.Loc, d.Severity, d.Msg, d.Kind)
}

// Diagnostics accumulates the conditions reported while processing one
// translation unit or one netlist. The zero value is ready to use.
type Diagnostics struct {
	list []Diagnostic
}

// Warnf records a warning-severity diagnostic.
func (d *Diagnostics) Warnf(kind DiagKind, loc Location, format string, args ...any) {
	d.list = append(d.list, Diagnostic{Kind: kind, Severity: SeverityWarning, Loc: loc, Msg: fmt.Sprintf(format, args...)})
}

// Errorf records an error-severity diagnostic.
func (d *Diagnostics) Errorf(kind DiagKind, loc Location, format string, args ...any) {
	d.list = append(d.list, Diagnostic{Kind: kind, Severity: SeverityError, Loc: loc, Msg: fmt.Sprintf(format, args...)})
}

// All returns the recorded diagnostics in report order.
func (d *Diagnostics) All() []Diagnostic { return d.list }

// HasErrors reports whether any recorded diagnostic has error severity.
func (d *Diagnostics) HasErrors() bool {
	for _, diag := range d.list {
		if diag.Severity == SeverityError {
			return true
		}
	}
	return false
}

// CountKind returns how many diagnostics of the given kind were recorded.
func (d *Diagnostics) CountKind(kind DiagKind) int {
	count := 0
	for _, diag := range d.list {
		if diag.Kind == kind {
			count++
		}
	}
	return count
}
