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

// vppreproc runs the Verilog preprocessor over its input files and writes
// the expanded text, or with --defines-only the resulting macro table.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/EngFlow/verilogtools/verilog"
	"github.com/EngFlow/verilogtools/verilog/preproc"
	"github.com/EngFlow/verilogtools/verilog/source"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	exitOK = iota
	exitPreprocError
	exitIOError
	exitUsageError
)

// stringList is a repeatable string flag.
type stringList struct {
	values []string
}

func (l *stringList) String() string     { return strings.Join(l.values, ",") }
func (l *stringList) Set(v string) error { l.values = append(l.values, v); return nil }

func main() {
	log.SetFlags(0)
	log.SetPrefix("vppreproc: ")

	var defines, undefines, includes stringList
	flag.Var(&defines, "D", "Define a macro, NAME or NAME=VALUE (repeatable)")
	flag.Var(&undefines, "U", "Undefine a macro (repeatable)")
	flag.Var(&includes, "I", "Add an include search path (repeatable)")
	output := flag.String("o", "", "Output file path (default stdout)")
	definesOnly := flag.Bool("defines-only", false, "Emit only the macro table as `define lines")
	standardName := flag.String("standard", "", "Language standard (e.g. 1364-2005, 1800-2017)")
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

	pp := preproc.New(parseDefines(defines.values), includePaths(includes.values), std)
	for _, name := range undefines.values {
		pp.Undefine(name)
	}

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

	for _, input := range inputs {
		text, err := pp.PreprocessFile(input)
		if err != nil {
			reportDiagnostics(pp)
			log.Print(err)
			var notFound *source.IncludeNotFoundError
			if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
				os.Exit(exitIOError)
			}
			os.Exit(exitPreprocError)
		}
		if !*definesOnly {
			if _, err := io.WriteString(out, text); err != nil {
				log.Print(err)
				os.Exit(exitIOError)
			}
		}
	}
	reportDiagnostics(pp)

	if *definesOnly {
		for _, m := range pp.Defines() {
			fmt.Fprintln(out, defineLine(m))
		}
	}
}

// expandInputs resolves positional arguments, treating glob patterns with
// doublestar syntax as file matchers.
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

// parseDefines converts -D NAME[=VALUE] arguments into the initial macro
// table; a bare name defines to 1.
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

// includePaths appends the VERILOG_INCLUDE environment directories after the
// -I flags.
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

func defineLine(m preproc.Macro) string {
	var out strings.Builder
	out.WriteString("`define " + m.Name)
	if m.IsFunction {
		out.WriteString("(" + strings.Join(m.Params, ", ") + ")")
	}
	if m.Body != "" {
		out.WriteString(" " + strings.ReplaceAll(m.Body, "\n", " \\\n"))
	}
	return out.String()
}

func reportDiagnostics(pp *preproc.Preproc) {
	for _, diag := range pp.Diagnostics().All() {
		path := pp.FileTable().Path(diag.Loc.File)
		fmt.Fprintf(os.Stderr, "vppreproc: %s:%d: %s: %s\n", path, diag.Loc.Line, diag.Severity, diag.Msg)
	}
}
