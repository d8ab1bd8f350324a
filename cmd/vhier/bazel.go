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

package main

import (
	"io"

	"github.com/EngFlow/verilogtools/internal/collections"
	"github.com/EngFlow/verilogtools/verilog/netlist"

	"github.com/bazelbuild/buildtools/build"
)

// writeBuildFile emits a BUILD file declaring one verilog_library per
// reachable module, with srcs pointing at the defining file and deps at the
// instantiated submodules.
func writeBuildFile(w io.Writer, nl *netlist.Netlist, roots []*netlist.Module) error {
	file := &build.File{Path: "BUILD.bazel", Type: build.TypeBuild}

	for _, module := range reachableModules(nl, roots) {
		rule := &build.CallExpr{
			X: &build.Ident{Name: "verilog_library"},
			List: []build.Expr{
				attr("name", &build.StringExpr{Value: module.Name}),
				attr("srcs", stringListExpr([]string{nl.FileTable().Path(module.Loc.File)})),
			},
		}
		if deps := moduleDeps(module); len(deps) > 0 {
			rule.List = append(rule.List, attr("deps", stringListExpr(deps)))
		}
		file.Stmt = append(file.Stmt, rule)
	}

	_, err := w.Write(build.Format(file))
	return err
}

func attr(name string, value build.Expr) build.Expr {
	return &build.AssignExpr{LHS: &build.Ident{Name: name}, Op: "=", RHS: value}
}

func stringListExpr(values []string) build.Expr {
	list := &build.ListExpr{}
	for _, value := range values {
		list.List = append(list.List, &build.StringExpr{Value: value})
	}
	return list
}

// moduleDeps lists the distinct resolved submodules a module instantiates,
// as same-package labels in first-use order.
func moduleDeps(module *netlist.Module) []string {
	seen := collections.Set[string]{}
	var deps []string
	for _, cell := range module.Cells {
		if cell.Submod == nil || seen.Contains(cell.SubmodName) {
			continue
		}
		seen.Add(cell.SubmodName)
		deps = append(deps, ":"+cell.SubmodName)
	}
	return deps
}
