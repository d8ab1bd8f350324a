package verilog

import (
	"log"
	"path/filepath"
	"strings"

	"github.com/bazelbuild/bazel-gazelle/language"
	"github.com/bazelbuild/bazel-gazelle/rule"

	"github.com/EngFlow/verilogtools/internal/collections"
	"github.com/EngFlow/verilogtools/verilog/netlist"
)

// GenerateRules creates one verilog_library per Verilog source file in the
// directory. A rule provides the modules its file defines and requires the
// modules its instances reference but the file does not define.
func (l *verilogLanguage) GenerateRules(args language.GenerateArgs) language.GenerateResult {
	conf := getVerilogConfig(args.Config)
	var result language.GenerateResult

	for _, fileName := range args.RegularFiles {
		if !hasVerilogExtension(fileName) {
			continue
		}
		info, ok := parseSourceFile(filepath.Join(args.Dir, fileName), conf)
		if !ok {
			continue
		}

		newRule := rule.NewRule("verilog_library", ruleNameFor(fileName))
		newRule.SetAttr("srcs", []string{fileName})
		if args.File == nil || !args.File.HasDefaultVisibility() {
			newRule.SetAttr("visibility", []string{"//visibility:public"})
		}
		newRule.SetPrivateAttr(providesKey, info.provides)

		result.Gen = append(result.Gen, newRule)
		result.Imports = append(result.Imports, verilogImports{requires: info.requires})
	}

	result.Empty = findEmptyRules(args.File, args.RegularFiles, result.Gen)
	return result
}

// providesKey is the private attribute carrying the module names a rule
// defines, read back by Imports for indexing.
const providesKey = "_verilog_modules"

type sourceModules struct {
	provides []string // modules the file defines
	requires []string // modules instantiated but not defined in the file
}

// parseSourceFile extracts module definitions and instance references from
// one source file using the netlist builder.
func parseSourceFile(path string, conf *verilogConfig) (sourceModules, bool) {
	nl := netlist.New(nil, nil, conf.standard)
	if err := nl.ReadFile(path); err != nil {
		log.Printf("Failed to parse source %v, reason: %v", path, err)
		return sourceModules{}, false
	}
	if err := nl.Link(); err != nil {
		return sourceModules{}, false
	}

	var info sourceModules
	defined := collections.Set[string]{}
	for _, module := range nl.Modules() {
		info.provides = append(info.provides, module.Name)
		defined.Add(module.Name)
	}
	required := collections.Set[string]{}
	for _, module := range nl.Modules() {
		for _, cell := range module.Cells {
			if !defined.Contains(cell.SubmodName) && !required.Contains(cell.SubmodName) {
				required.Add(cell.SubmodName)
				info.requires = append(info.requires, cell.SubmodName)
			}
		}
	}
	return info, true
}

func ruleNameFor(fileName string) string {
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}

// findEmptyRules returns previously generated rules whose sources no longer
// exist, so gazelle can delete them.
func findEmptyRules(file *rule.File, regularFiles []string, generated []*rule.Rule) []*rule.Rule {
	if file == nil {
		return nil
	}
	files := collections.ToSet(regularFiles)
	var empty []*rule.Rule
	for _, r := range file.Rules {
		if r.Kind() != "verilog_library" {
			continue
		}
		generatedNow := false
		for _, g := range generated {
			if g.Name() == r.Name() {
				generatedNow = true
				break
			}
		}
		if generatedNow {
			continue
		}
		anyExists := false
		for _, src := range r.AttrStrings("srcs") {
			if files.Contains(src) {
				anyExists = true
				break
			}
		}
		if !anyExists {
			empty = append(empty, rule.NewRule(r.Kind(), r.Name()))
		}
	}
	return empty
}
