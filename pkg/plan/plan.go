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

// Package plan holds the in-memory model of a rename run: the individual
// rename operations discovered by walking the tree, the ordering rules that
// make executing them safe, and the counters reported back to the user.
package plan

import (
	"sort"
)

// 🎯 ItemType distinguishes file renames from directory renames
type ItemType int

const (
	ItemTypeFile ItemType = iota
	ItemTypeDirectory
)

// String returns a string representation of ItemType
func (t ItemType) String() string {
	switch t {
	case ItemTypeFile:
		return "file"
	case ItemTypeDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// 📦 RenameItem is a single planned rename of one path segment.
// NewPath always shares OriginalPath's parent directory: renaming never
// relocates an item, it only rewrites the final segment. Depth is the
// number of path segments between the item and the traversal root.
type RenameItem struct {
	OriginalPath string   // absolute path as currently on disk
	NewPath      string   // absolute path after the name substitution
	Type         ItemType // file or directory
	Depth        int      // distance from the traversal root
}

// IsNoop reports whether the substitution left the name unchanged.
func (i RenameItem) IsNoop() bool {
	return i.OriginalPath == i.NewPath
}

// 🔀 SortItems orders rename items so that executing them front to back is
// safe: directories come before files, directories deepest first, files
// shallowest first. Renaming a child before its parent moves means no
// already-computed absolute path is ever invalidated by an earlier rename.
func SortItems(items []RenameItem) {
	sort.SliceStable(items, func(a, b int) bool {
		ia, ib := items[a], items[b]
		switch {
		case ia.Type == ItemTypeDirectory && ib.Type == ItemTypeDirectory:
			return ia.Depth > ib.Depth
		case ia.Type == ItemTypeDirectory && ib.Type == ItemTypeFile:
			return true
		case ia.Type == ItemTypeFile && ib.Type == ItemTypeDirectory:
			return false
		default:
			return ia.Depth < ib.Depth
		}
	})
}
