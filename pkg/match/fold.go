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

package match

import (
	"strings"
)

// ContainsFold reports whether s contains substr ignoring case. This is a
// literal lowercase containment test, not locale-aware folding.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// ReplaceAllFold replaces every non-overlapping occurrence of old in s with
// new, matching case-insensitively while preserving the case of all
// unmatched text. Occurrences are found left to right.
func ReplaceAllFold(s, old, new string) string {
	if old == "" {
		return s
	}

	ls := strings.ToLower(s)
	lo := strings.ToLower(old)
	if len(ls) != len(s) || len(lo) != len(old) {
		// Lowercasing shifted byte offsets (possible for a handful of
		// unicode characters), so index mapping is unsafe. Exact
		// replacement is the only correct option left.
		return strings.ReplaceAll(s, old, new)
	}

	var b strings.Builder
	i := 0
	for {
		j := strings.Index(ls[i:], lo)
		if j < 0 {
			b.WriteString(s[i:])
			return b.String()
		}
		b.WriteString(s[i : i+j])
		b.WriteString(new)
		i += j + len(old)
	}
}
