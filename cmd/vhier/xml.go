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
	"encoding/xml"
	"fmt"
	"io"

	"github.com/EngFlow/verilogtools/internal/collections"
	"github.com/EngFlow/verilogtools/verilog/netlist"
)

type xmlNetlist struct {
	XMLName xml.Name    `xml:"netlist"`
	Modules []xmlModule `xml:"module"`
}

type xmlModule struct {
	Name  string    `xml:"name,attr"`
	File  string    `xml:"file,attr,omitempty"`
	Cells []xmlCell `xml:"cell,omitempty"`
}

type xmlCell struct {
	Name       string    `xml:"name,attr"`
	Submod     string    `xml:"submodname,attr"`
	Unresolved bool      `xml:"unresolved,attr,omitempty"`
	Cells      []xmlCell `xml:"cell,omitempty"`
}

// writeXML emits the hierarchy under the given roots as a nested XML tree.
func writeXML(w io.Writer, nl *netlist.Netlist, roots []*netlist.Module) error {
	doc := xmlNetlist{}
	for _, root := range roots {
		doc.Modules = append(doc.Modules, xmlModule{
			Name:  root.Name,
			File:  nl.FileTable().Path(root.Loc.File),
			Cells: xmlCells(root, collections.SetOf(root.Name)),
		})
	}

	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

func xmlCells(module *netlist.Module, visiting collections.Set[string]) []xmlCell {
	var cells []xmlCell
	for _, cell := range module.Cells {
		node := xmlCell{Name: cell.Name, Submod: cell.SubmodName, Unresolved: cell.Submod == nil}
		if cell.Submod != nil && !visiting.Contains(cell.SubmodName) {
			node.Cells = xmlCells(cell.Submod, visiting.Clone().Add(cell.SubmodName))
		}
		cells = append(cells, node)
	}
	return cells
}
