package verilog

import (
	"strings"

	"github.com/bazelbuild/bazel-gazelle/config"
	"github.com/bazelbuild/bazel-gazelle/label"
	"github.com/bazelbuild/bazel-gazelle/repo"
	"github.com/bazelbuild/bazel-gazelle/resolve"
	"github.com/bazelbuild/bazel-gazelle/rule"

	"github.com/EngFlow/verilogtools/internal/collections"
)

// resolve.Resolver methods
func (*verilogLanguage) Name() string                                        { return languageName }
func (*verilogLanguage) Embeds(r *rule.Rule, from label.Label) []label.Label { return nil }

// Imports indexes a verilog_library under every module name it defines, so
// other rules can resolve instance references against the rule index.
func (*verilogLanguage) Imports(c *config.Config, r *rule.Rule, f *rule.File) []resolve.ImportSpec {
	if r.Kind() != "verilog_library" {
		return nil
	}
	provides, _ := r.PrivateAttr(providesKey).([]string)
	specs := make([]resolve.ImportSpec, 0, len(provides))
	for _, moduleName := range provides {
		specs = append(specs, resolve.ImportSpec{Lang: languageName, Imp: moduleName})
	}
	return specs
}

// Resolve assigns the deps attribute from the module names the rule's
// sources instantiate. Unresolvable modules are treated as black boxes and
// skipped, matching the linker's tolerance for missing definitions.
func (l *verilogLanguage) Resolve(c *config.Config, ix *resolve.RuleIndex, rc *repo.RemoteCache, r *rule.Rule, imports any, from label.Label) {
	if imports == nil {
		return
	}
	required := imports.(verilogImports).requires

	deps := make(collections.Set[label.Label])
	for _, moduleName := range required {
		spec := resolve.ImportSpec{Lang: languageName, Imp: moduleName}
		if overrideLabel, ok := resolve.FindRuleWithOverride(c, spec, languageName); ok {
			deps.Add(overrideLabel.Rel(from.Repo, from.Pkg))
			continue
		}
		for _, result := range ix.FindRulesByImportWithConfig(c, spec, languageName) {
			if result.IsSelfImport(from) {
				continue
			}
			deps.Add(result.Label.Rel(from.Repo, from.Pkg))
		}
	}
	if len(deps) > 0 {
		r.SetAttr("deps", deps.SortedValues(compareLabels))
	}
}

func compareLabels(l, r label.Label) int {
	return strings.Compare(l.String(), r.String())
}
