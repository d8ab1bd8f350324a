package verilog

import (
	"path/filepath"
	"strings"

	"github.com/bazelbuild/bazel-gazelle/config"
	"github.com/bazelbuild/bazel-gazelle/language"
	"github.com/bazelbuild/bazel-gazelle/rule"
)

const languageName = "verilog"

// verilogLanguage is a gazelle extension generating verilog_library rules
// from the module structure extracted by the netlist parser.
type verilogLanguage struct{}

func NewLanguage() language.Language {
	return &verilogLanguage{}
}

// verilogImports carries, per generated rule, the module names its sources
// instantiate but do not define; Resolve turns them into deps.
type verilogImports struct {
	requires []string
}

// language.Language methods
func (*verilogLanguage) Kinds() map[string]rule.KindInfo {
	return map[string]rule.KindInfo{
		"verilog_library": {
			NonEmptyAttrs:  map[string]bool{"srcs": true},
			MergeableAttrs: map[string]bool{"srcs": true, "deps": true},
		},
	}
}

func (*verilogLanguage) Loads() []rule.LoadInfo {
	return []rule.LoadInfo{
		{
			Name:    "@rules_verilog//verilog:defs.bzl",
			Symbols: []string{"verilog_library"},
		},
	}
}

func (*verilogLanguage) Fix(c *config.Config, f *rule.File) {}

var verilogExtensions = []string{".v", ".sv", ".vh", ".svh"}

func hasVerilogExtension(filename string) bool {
	ext := filepath.Ext(filename)
	for _, validExt := range verilogExtensions {
		if strings.EqualFold(ext, validExt) {
			return true
		}
	}
	return false
}
