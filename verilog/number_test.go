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

func TestParseNumber(t *testing.T) {
	testCases := []struct {
		input              string
		expectedValue      uint64
		expectedBits       int
		expectedSigned     bool
		expectedHasUnknown bool
	}{
		{input: "8'hFF", expectedValue: 255, expectedBits: 8},
		{input: "8'shFF", expectedValue: 255, expectedBits: 8, expectedSigned: true},
		{input: "8'SHFF", expectedValue: 255, expectedBits: 8, expectedSigned: true},
		{input: "4'b1x1", expectedValue: 5, expectedBits: 4, expectedHasUnknown: true},
		{input: "4'b1?1", expectedValue: 5, expectedBits: 4, expectedHasUnknown: true},
		{input: "'hFF", expectedValue: 255, expectedBits: 8},
		{input: "'o17", expectedValue: 15, expectedBits: 4},
		{input: "12'o777", expectedValue: 511, expectedBits: 12},
		{input: "16'd1_000", expectedValue: 1000, expectedBits: 16},
		{input: "42", expectedValue: 42, expectedBits: 6},
		{input: "1_000", expectedValue: 1000, expectedBits: 10},
		{input: "0", expectedValue: 0, expectedBits: 1},
		{input: "4'bzzzz", expectedValue: 0, expectedBits: 4, expectedHasUnknown: true},
		{input: "8 'h FF", expectedValue: 255, expectedBits: 8},
	}

	for _, tc := range testCases {
		n, err := ParseNumber(tc.input)
		assert.NoError(t, err, "unexpected error for input: %q", tc.input)
		assert.Equal(t, tc.expectedValue, n.Value, "unexpected value for input: %q", tc.input)
		assert.Equal(t, tc.expectedBits, n.Bits, "unexpected bits for input: %q", tc.input)
		assert.Equal(t, tc.expectedSigned, n.Signed, "unexpected signedness for input: %q", tc.input)
		assert.Equal(t, tc.expectedHasUnknown, n.HasUnknown, "unexpected has-unknown for input: %q", tc.input)
	}
}

func TestParseNumberInvalid(t *testing.T) {
	for _, input := range []string{
		"", "'q10", "8'b2", "8'", "abc", "8'hGG", "0'd1", "4'd1F",
	} {
		_, err := ParseNumber(input)
		assert.ErrorIs(t, err, ErrInvalidNumber, "expected invalid literal for input: %q", input)
	}
}

func TestNumberHelpers(t *testing.T) {
	value, err := NumberValue("8'hFF")
	assert.NoError(t, err)
	assert.Equal(t, uint64(255), value)

	bits, err := NumberBits("8'hFF")
	assert.NoError(t, err)
	assert.Equal(t, 8, bits)

	signed, err := NumberSigned("8'shFF")
	assert.NoError(t, err)
	assert.True(t, signed)

	signed, err = NumberSigned("8'hFF")
	assert.NoError(t, err)
	assert.False(t, signed)
}
