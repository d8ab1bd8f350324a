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

package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	"github.com/EngFlow/verilogtools/verilog"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestOpenSearchOrder(t *testing.T) {
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "src")
	incDir := filepath.Join(dir, "inc")
	writeFile(t, filepath.Join(srcDir, "top.v"), "module top; endmodule\n")
	writeFile(t, filepath.Join(srcDir, "hdr.vh"), "// beside the source\n")
	writeFile(t, filepath.Join(incDir, "hdr.vh"), "// on the include path\n")
	writeFile(t, filepath.Join(incDir, "only.vh"), "// include path only\n")

	r := NewResolver([]string{incDir})

	// the including file's directory wins over the include path
	text, _, err := r.Open("hdr.vh", filepath.Join(srcDir, "top.v"))
	require.NoError(t, err)
	assert.Equal(t, "// beside the source\n", text)

	// fall back to the include path when not present beside the source
	text, _, err = r.Open("only.vh", filepath.Join(srcDir, "top.v"))
	require.NoError(t, err)
	assert.Equal(t, "// include path only\n", text)
}

func TestOpenNotFound(t *testing.T) {
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "src")
	incDir := filepath.Join(dir, "inc")
	writeFile(t, filepath.Join(srcDir, "top.v"), "")
	require.NoError(t, os.MkdirAll(incDir, 0o755))

	r := NewResolver([]string{incDir})
	_, _, err := r.Open("missing.vh", filepath.Join(srcDir, "top.v"))
	var notFound *IncludeNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing.vh", notFound.Name)
	assert.Equal(t, []string{srcDir, incDir}, notFound.Searched)
}

func TestOpenNormalizesLineEndings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.v")
	writeFile(t, path, "a\r\nb\rc\n")

	r := NewResolver(nil)
	text, id, err := r.Open(path, "")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\n", text)
	assert.Equal(t, path, r.Table().Path(id))
	assert.Equal(t, 4, r.Table().LineCount(id))
}

func TestTableIntern(t *testing.T) {
	table := NewTable()
	first := table.Intern("/a/b.v")
	second := table.Intern("/c/d.v")
	assert.NotEqual(t, first, second)
	assert.Equal(t, first, table.Intern("/a/b.v"))
	assert.Equal(t, "/a/b.v", table.Path(first))
	assert.Equal(t, "", table.Path(verilog.NoFile))
	assert.Equal(t, []string{"/a/b.v", "/c/d.v"}, table.Paths())
}

func TestOpenDecompressesXZ(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "core.v.xz")
	file, err := os.Create(path)
	require.NoError(t, err)
	w, err := xz.NewWriter(file)
	require.NoError(t, err)
	_, err = w.Write([]byte("module core; endmodule\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, file.Close())

	r := NewResolver(nil)
	text, _, err := r.Open(path, "")
	require.NoError(t, err)
	assert.Equal(t, "module core; endmodule\n", text)
}

func TestOpenAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abs.v")
	writeFile(t, path, "content\n")

	r := NewResolver(nil)
	text, _, err := r.Open(path, "")
	require.NoError(t, err)
	assert.Equal(t, "content\n", text)
}
