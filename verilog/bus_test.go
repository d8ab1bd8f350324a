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

func TestSplitBus(t *testing.T) {
	testCases := []struct {
		input    string
		expected []string
	}{
		{input: "[3:0]", expected: []string{"[3]", "[2]", "[1]", "[0]"}},
		{input: "[0:2]", expected: []string{"[0]", "[1]", "[2]"}},
		{input: "[5:5]", expected: []string{"[5]"}},
		{input: "[4]", expected: []string{"[4]"}},
		{input: "[ 1 : -1 ]", expected: []string{"[1]", "[0]", "[-1]"}},
	}

	for _, tc := range testCases {
		indices, err := SplitBus(tc.input)
		assert.NoError(t, err, "unexpected error for input: %q", tc.input)
		assert.Equal(t, tc.expected, indices, "unexpected indices for input: %q", tc.input)
	}
}

func TestSplitBusInvalid(t *testing.T) {
	for _, input := range []string{"", "[a:b]", "[1:2", "1:2]", "[]"} {
		_, err := SplitBus(input)
		assert.ErrorIs(t, err, ErrInvalidBusRange, "expected error for input: %q", input)
	}
}
