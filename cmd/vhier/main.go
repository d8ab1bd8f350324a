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

// vhier reads Verilog sources, links them into a netlist and reports the
// design hierarchy: module lists, cell trees, module-to-file maps, an XML
// tree or a generated BUILD file.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/EngFlow/verilogtools/internal/collections"
	"github.com/EngFlow/verilogtools/verilog"
	"github.com/EngFlow/verilogtools/verilog/netlist"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	exitOK = iota
	exitParseError
	exitIOError
	exitUsageError
	exitLinkError
)

type stringList struct {
	values []string
}

func (l *stringList) String() string     { return strings.Join(l.values, ",") }
func (l *stringList) Set(v string) error { l.values = append(l.values, v); return nil }

func main() {
	log.SetFlags(0)
	log.SetPrefix("vhier: ")

	var defines, undefines, includes, libDirs stringList
	flag.Var(&defines, "D", "Define a macro, NAME or NAME=VALUE (repeatable)")
	flag.Var(&undefines, "U", "Undefine a macro (repeatable)")
	flag.Var(&includes, "I", "Add an include search path (repeatable)")
	flag.Var(&libDirs, "y", "Add a module library directory (repeatable)")
	standardName := flag.String("standard", "", "Language standard (e.g. 1364-2005, 1800-2017)")
	topModule := flag.String("top-module", "", "Restrict output to the hierarchy under this module")
	listModules := flag.Bool("modules", false, "List module names only")
	listCells := flag.Bool("cells", false, "List the cell hierarchy indented by depth")
	moduleFiles := flag.Bool("module-files", false, "Emit module TAB file lines")
	xmlOut := flag.Bool("xml", false, "Emit the hierarchy as an XML tree")
	bazelOut := flag.Bool("bazel", false, "Emit a BUILD file with one verilog_library per module")
	strict := flag.Bool("strict", false, "Treat binding inconsistencies as errors")
	output := flag.String("o", "", "Output file path (default stdout)")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		log.Print("at least one input file is required")
		os.Exit(exitUsageError)
	}

	std := verilog.DefaultStandard()
	if *standardName != "" {
		var err error
		if std, err = verilog.ParseStandard(*standardName); err != nil {
			log.Print(err)
			os.Exit(exitUsageError)
		}
	}

	inputs, err := expandInputs(flag.Args())
	if err != nil {
		log.Print(err)
		os.Exit(exitIOError)
	}

	nl := netlist.New(parseDefines(defines.values), includePaths(includes.values), std)
	for _, name := range undefines.values {
		nl.Undefine(name)
	}
	for _, dir := range libDirs.values {
		nl.AddLibraryDir(dir)
	}

	for _, input := range inputs {
		if err := nl.ReadFile(input); err != nil {
			reportDiagnostics(nl)
			log.Print(err)
			os.Exit(exitParseError)
		}
	}
	if err := nl.Link(); err != nil {
		log.Print(err)
		os.Exit(exitParseError)
	}
	reportDiagnostics(nl)

	out := io.Writer(os.Stdout)
	if *output != "" {
		file, err := os.Create(*output)
		if err != nil {
			log.Print(err)
			os.Exit(exitIOError)
		}
		defer file.Close()
		out = file
	}

	roots := nl.TopModules()
	if *topModule != "" {
		root := nl.FindModule(*topModule)
		if root == nil {
			log.Printf("top module %s not found", *topModule)
			os.Exit(exitUsageError)
		}
		roots = []*netlist.Module{root}
	}

	switch {
	case *listModules:
		for _, module := range reachableModules(nl, roots) {
			fmt.Fprintln(out, module.Name)
		}
	case *listCells:
		for _, root := range roots {
			fmt.Fprintln(out, root.Name)
			printCells(out, root, 1, collections.SetOf(root.Name))
		}
	case *moduleFiles:
		for _, module := range reachableModules(nl, roots) {
			fmt.Fprintf(out, "%s\t%s\n", module.Name, nl.FileTable().Path(module.Loc.File))
		}
	case *xmlOut:
		if err := writeXML(out, nl, roots); err != nil {
			log.Print(err)
			os.Exit(exitIOError)
		}
	case *bazelOut:
		if err := writeBuildFile(out, nl, roots); err != nil {
			log.Print(err)
			os.Exit(exitIOError)
		}
	default:
		nl.Dump(out)
	}

	if *strict && hasLinkProblems(nl) {
		os.Exit(exitLinkError)
	}
}

// reachableModules returns the modules reachable from the roots through
// resolved cells, in first-declaration order.
func reachableModules(nl *netlist.Netlist, roots []*netlist.Module) []*netlist.Module {
	reachable := collections.Set[string]{}
	var walk func(m *netlist.Module)
	walk = func(m *netlist.Module) {
		if reachable.Contains(m.Name) {
			return
		}
		reachable.Add(m.Name)
		for _, cell := range m.Cells {
			if cell.Submod != nil {
				walk(cell.Submod)
			}
		}
	}
	for _, root := range roots {
		walk(root)
	}

	var modules []*netlist.Module
	for _, module := range nl.Modules() {
		if reachable.Contains(module.Name) {
			modules = append(modules, module)
		}
	}
	return modules
}

// printCells writes the instance tree under a module, one "instance module"
// line per cell, indented by depth. visiting guards against recursive
// hierarchies.
func printCells(w io.Writer, module *netlist.Module, depth int, visiting collections.Set[string]) {
	for _, cell := range module.Cells {
		fmt.Fprintf(w, "%s%s %s\n", strings.Repeat("  ", depth), cell.Name, cell.SubmodName)
		if cell.Submod != nil && !visiting.Contains(cell.SubmodName) {
			printCells(w, cell.Submod, depth+1, visiting.Clone().Add(cell.SubmodName))
		}
	}
}

func hasLinkProblems(nl *netlist.Netlist) bool {
	for _, diag := range nl.Diagnostics() {
		switch diag.Kind {
		case verilog.DiagUnknownPort, verilog.DiagPortArity, verilog.DiagMixedBinding,
			verilog.DiagUnresolvedSubmodule, verilog.DiagImplicitNet:
			return true
		}
	}
	return false
}

func expandInputs(args []string) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			inputs = append(inputs, arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("pattern %q matched no files", arg)
		}
		inputs = append(inputs, matches...)
	}
	return inputs, nil
}

func parseDefines(args []string) map[string]string {
	defines := map[string]string{}
	for _, arg := range args {
		name, value := arg, "1"
		if eq := strings.IndexByte(arg, '='); eq >= 0 {
			name, value = arg[:eq], arg[eq+1:]
		}
		defines[name] = value
	}
	return defines
}

func includePaths(flags []string) []string {
	paths := flags
	if env := os.Getenv("VERILOG_INCLUDE"); env != "" {
		for _, dir := range strings.Split(env, ":") {
			if dir != "" {
				paths = append(paths, dir)
			}
		}
	}
	return paths
}

func reportDiagnostics(nl *netlist.Netlist) {
	for _, diag := range nl.Diagnostics() {
		path := nl.FileTable().Path(diag.Loc.File)
		fmt.Fprintf(os.Stderr, "vhier: %s:%d: %s: %s\n", path, diag.Loc.Line, diag.Severity, diag.Msg)
	}
}
