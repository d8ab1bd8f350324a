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

// Package source opens Verilog sources by include-path search and interns
// their paths into a file table so every downstream token and netlist entity
// can carry a compact provenance id.
package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/EngFlow/verilogtools/verilog"
	"github.com/ulikunitz/xz"
)

// IncludeNotFoundError reports a file that could not be located, naming every
// directory that was searched.
type IncludeNotFoundError struct {
	Name     string
	Searched []string
}

func (e *IncludeNotFoundError) Error() string {
	return fmt.Sprintf("include file %q not found; searched: %s", e.Name, strings.Join(e.Searched, ", "))
}

// Table interns file paths into FileIDs and tracks the line count of each
// file for bounds-checked reporting. Id 0 is reserved for verilog.NoFile.
type Table struct {
	paths      []string
	lineCounts []int
	ids        map[string]verilog.FileID
}

// NewTable returns an empty file table.
func NewTable() *Table {
	return &Table{
		paths:      []string{""},
		lineCounts: []int{0},
		ids:        map[string]verilog.FileID{},
	}
}

// Intern returns the id of path, allocating one on first use.
func (t *Table) Intern(path string) verilog.FileID {
	if id, exists := t.ids[path]; exists {
		return id
	}
	id := verilog.FileID(len(t.paths))
	t.paths = append(t.paths, path)
	t.lineCounts = append(t.lineCounts, 0)
	t.ids[path] = id
	return id
}

// Path maps an id back to the path it was interned from. Unknown ids map to
// the empty string.
func (t *Table) Path(id verilog.FileID) string {
	if int(id) < 0 || int(id) >= len(t.paths) {
		return ""
	}
	return t.paths[id]
}

// LineCount returns the number of lines recorded for id, or 0 when untracked.
func (t *Table) LineCount(id verilog.FileID) int {
	if int(id) < 0 || int(id) >= len(t.lineCounts) {
		return 0
	}
	return t.lineCounts[id]
}

// Paths returns all interned paths in id order, excluding the reserved id 0.
func (t *Table) Paths() []string {
	return t.paths[1:]
}

func (t *Table) setLineCount(id verilog.FileID, lines int) {
	if int(id) > 0 && int(id) < len(t.lineCounts) {
		t.lineCounts[id] = lines
	}
}

// Resolver opens files through an ordered include-path search and records
// them in its Table.
type Resolver struct {
	includePaths []string
	table        *Table
}

// NewResolver returns a Resolver searching the given include paths, in order,
// after the including file's own directory.
func NewResolver(includePaths []string) *Resolver {
	return &Resolver{includePaths: includePaths, table: NewTable()}
}

// Table exposes the file table populated by Open.
func (r *Resolver) Table() *Table { return r.table }

// AddIncludePath appends a directory to the search list.
func (r *Resolver) AddIncludePath(dir string) {
	r.includePaths = append(r.includePaths, dir)
}

// Open resolves name and reads its contents. Absolute names are used
// directly; relative names are searched first in the directory of
// contextFile (when non-empty), then in each include path. The returned text
// has LF line endings; sources ending in .xz are decompressed transparently.
func (r *Resolver) Open(name, contextFile string) (string, verilog.FileID, error) {
	var searched []string

	candidates := []string{}
	if filepath.IsAbs(name) {
		candidates = append(candidates, name)
	} else {
		if contextFile != "" {
			// the including file's own directory is searched first
			candidates = append(candidates, filepath.Join(filepath.Dir(contextFile), name))
		} else {
			candidates = append(candidates, name)
		}
		for _, dir := range r.includePaths {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}

	for _, candidate := range candidates {
		text, err := readSource(candidate)
		if err != nil {
			if os.IsNotExist(err) {
				searched = append(searched, filepath.Dir(candidate))
				continue
			}
			return "", verilog.NoFile, err
		}
		id := r.table.Intern(candidate)
		r.table.setLineCount(id, strings.Count(text, "\n")+1)
		return text, id, nil
	}

	return "", verilog.NoFile, &IncludeNotFoundError{Name: name, Searched: searched}
}

// readSource reads one file, decompressing .xz payloads and normalizing line
// endings to LF. The handle never outlives the call.
func readSource(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(path, ".xz") {
		reader, err = xz.NewReader(file)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return Normalize(string(data)), nil
}

// Normalize converts CRLF and lone CR line endings to LF.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
