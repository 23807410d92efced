// Copyright 2025 walteh LLC
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

package verbump_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/walteh/refac/pkg/verbump"
)

func TestVersion_String(t *testing.T) {
	tests := []struct {
		name    string
		version verbump.Version
		want    string
	}{
		{
			name:    "strips_v_prefix",
			version: verbump.Version{Major: "v1", Minor: 5, Patch: 120},
			want:    "1.5.120",
		},
		{
			name:    "keeps_dotted_tag",
			version: verbump.Version{Major: "v2.1", Minor: 3, Patch: 7},
			want:    "2.1.3.7",
		},
		{
			name:    "no_v_prefix",
			version: verbump.Version{Major: "4", Minor: 0, Patch: 0},
			want:    "4.0.0",
		},
		{
			name:    "untagged_fallback",
			version: verbump.Version{Major: "v0", Minor: 12, Patch: 340},
			want:    "0.12.340",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.version.String())
		})
	}
}

func TestSumNumstat(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   int
	}{
		{
			name:   "empty_output",
			output: "",
			want:   0,
		},
		{
			name:   "single_file",
			output: "10\t5\tmain.go",
			want:   15,
		},
		{
			name: "multiple_files_with_blank_lines",
			output: "10\t5\tmain.go\n" +
				"\n" +
				"3\t0\tpkg/util.go\n" +
				"\n" +
				"0\t7\tREADME.md",
			want: 25,
		},
		{
			name: "binary_files_skipped",
			output: "-\t-\tassets/logo.png\n" +
				"4\t2\tmain.go",
			want: 6,
		},
		{
			name:   "malformed_line_skipped",
			output: "garbage\n12\t8\ta.go",
			want:   20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, verbump.SumNumstat(tt.output))
		})
	}
}
