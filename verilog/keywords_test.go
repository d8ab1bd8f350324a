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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsKeyword(t *testing.T) {
	testCases := []struct {
		sym      string
		standard Standard
		expected bool
	}{
		{sym: "module", standard: V1995, expected: true},
		{sym: "module", standard: SV2017, expected: true},
		{sym: "generate", standard: V1995, expected: false},
		{sym: "generate", standard: V2001, expected: true},
		{sym: "uwire", standard: V2001, expected: false},
		{sym: "uwire", standard: V2005, expected: true},
		{sym: "logic", standard: V2005, expected: false},
		{sym: "logic", standard: SV2005, expected: true},
		{sym: "checker", standard: SV2005, expected: false},
		{sym: "checker", standard: SV2009, expected: true},
		{sym: "nettype", standard: SV2009, expected: false},
		{sym: "nettype", standard: SV2012, expected: true},
		{sym: "nettype", standard: SV2023, expected: true},
		{sym: "analog", standard: VAMS, expected: true},
		{sym: "analog", standard: SV2017, expected: false},
		{sym: "my_signal", standard: SV2017, expected: false},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, IsKeyword(tc.sym, tc.standard),
			"unexpected classification of %q under %v", tc.sym, tc.standard)
	}
}

func TestIsCompilerDirective(t *testing.T) {
	assert.True(t, IsCompilerDirective("define"))
	assert.True(t, IsCompilerDirective("ifdef"))
	assert.True(t, IsCompilerDirective("timescale"))
	assert.True(t, IsCompilerDirective("__LINE__"))
	assert.False(t, IsCompilerDirective("module"))
	assert.False(t, IsCompilerDirective(""))
}

func TestIsGatePrimitive(t *testing.T) {
	assert.True(t, IsGatePrimitive("nand"))
	assert.True(t, IsGatePrimitive("pullup"))
	assert.False(t, IsGatePrimitive("module"))
	assert.False(t, IsGatePrimitive("adder"))
}

func TestParseStandard(t *testing.T) {
	std, err := ParseStandard("1800-2017")
	assert.NoError(t, err)
	assert.Equal(t, SV2017, std)

	std, err = ParseStandard("2001")
	assert.NoError(t, err)
	assert.Equal(t, V2001, std)

	_, err = ParseStandard("1800-1999")
	assert.Error(t, err)
}

func TestDefaultStandard(t *testing.T) {
	previous := DefaultStandard()
	defer SetDefaultStandard(previous)

	SetDefaultStandard(V1995)
	assert.Equal(t, V1995, DefaultStandard())
}
