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

// Package collision checks a batch of proposed renames against each other
// and against a snapshot of the existing filesystem, and reports every
// naming conflict before anything is mutated.
package collision

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/walteh/refac/pkg/plan"
	"gitlab.com/tozd/go/errors"
)

// Type tags the kind of conflict a Collision describes.
type Type int

const (
	// TypeMultipleSourcesSameTarget - two or more sources rename to one target
	TypeMultipleSourcesSameTarget Type = iota
	// TypeTargetAlreadyExists - the target path is already on disk
	TypeTargetAlreadyExists
	// TypeSourceEqualsTarget - the rename is a no-op (never blocks a run)
	TypeSourceEqualsTarget
	// TypeCaseOnlyDifference - two targets collapse on a case-insensitive filesystem
	TypeCaseOnlyDifference
	// TypeDirectoryToFile - a directory renames onto an existing file path
	TypeDirectoryToFile
	// TypeFileToDirectory - a file renames onto an existing directory path
	TypeFileToDirectory
)

// allTypes drives deterministic summary and report ordering.
var allTypes = []Type{
	TypeMultipleSourcesSameTarget,
	TypeTargetAlreadyExists,
	TypeSourceEqualsTarget,
	TypeCaseOnlyDifference,
	TypeDirectoryToFile,
	TypeFileToDirectory,
}

// String returns a string representation of Type
func (t Type) String() string {
	switch t {
	case TypeMultipleSourcesSameTarget:
		return "MultipleSourcesSameTarget"
	case TypeTargetAlreadyExists:
		return "TargetAlreadyExists"
	case TypeSourceEqualsTarget:
		return "SourceEqualsTarget"
	case TypeCaseOnlyDifference:
		return "CaseOnlyDifference"
	case TypeDirectoryToFile:
		return "DirectoryToFile"
	case TypeFileToDirectory:
		return "FileToDirectory"
	default:
		return "Unknown"
	}
}

// 📦 Collision is one detected conflict: the contested target, the source
// path(s) that produced it, and a human-readable description.
type Collision struct {
	Type        Type
	TargetPath  string
	SourcePaths []string
	Description string
}

// 🔍 Detector accumulates proposed renames plus a snapshot of paths that
// already exist on disk, then computes every conflict in one pass. Detection
// never mutates the filesystem. Targets are tracked in insertion order so
// repeated runs over the same input produce the same report.
type Detector struct {
	targets         map[string][]string
	order           []string
	existing        map[string]bool // path -> is directory
	caseInsensitive bool
	collisions      []Collision
}

// New creates a Detector using the platform default for case sensitivity:
// macOS and Windows filesystems are assumed case-insensitive.
func New() *Detector {
	return NewWithCaseInsensitive(runtime.GOOS == "darwin" || runtime.GOOS == "windows")
}

// NewWithCaseInsensitive creates a Detector with an explicit case-sensitivity
// assumption, for callers that probe the filesystem themselves.
func NewWithCaseInsensitive(caseInsensitive bool) *Detector {
	return &Detector{
		targets:         make(map[string][]string),
		existing:        make(map[string]bool),
		caseInsensitive: caseInsensitive,
	}
}

// Add registers one proposed rename.
func (d *Detector) Add(source, target string) {
	if _, ok := d.targets[target]; !ok {
		d.order = append(d.order, target)
	}
	d.targets[target] = append(d.targets[target], source)
}

// AddItems registers a batch of planned rename items.
func (d *Detector) AddItems(items []plan.RenameItem) {
	for _, item := range items {
		d.Add(item.OriginalPath, item.NewPath)
	}
}

// AddExisting records a path that is already present on disk.
func (d *Detector) AddExisting(path string, isDir bool) {
	d.existing[path] = isDir
}

// ScanExisting walks root and records every path found, including root
// itself. Symlinks are recorded but not followed.
func (d *Detector) ScanExisting(root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		d.AddExisting(path, entry.IsDir())
		return nil
	})
	if err != nil {
		return errors.Errorf("scanning existing paths in %s: %w", root, err)
	}
	return nil
}

// Detect computes all collisions over the registered renames. Every category
// is evaluated independently and the full list is returned, so one pass shows
// the user every conflict at once rather than the first one found.
func (d *Detector) Detect() []Collision {
	d.collisions = nil

	// Targets that are themselves sources of some real rename will vacate
	// their path before anything moves in; they never count as occupied.
	renamedAway := make(map[string]bool)
	for target, sources := range d.targets {
		for _, source := range sources {
			if source != target {
				renamedAway[source] = true
			}
		}
	}

	for _, target := range d.order {
		sources := d.targets[target]

		if len(sources) > 1 {
			d.collisions = append(d.collisions, Collision{
				Type:        TypeMultipleSourcesSameTarget,
				TargetPath:  target,
				SourcePaths: append([]string(nil), sources...),
				Description: fmt.Sprintf(
					"Multiple files/directories trying to rename to the same target: %s (sources: %s)",
					target, strings.Join(sources, ", ")),
			})
		}

		if len(sources) == 1 && sources[0] == target {
			d.collisions = append(d.collisions, Collision{
				Type:        TypeSourceEqualsTarget,
				TargetPath:  target,
				SourcePaths: append([]string(nil), sources...),
				Description: fmt.Sprintf("Source and target are identical: %s", target),
			})
			continue
		}

		if _, exists := d.existing[target]; exists && !renamedAway[target] {
			targetIsDir := d.isDir(target)
			sourceIsDir := len(sources) > 0 && d.isDir(sources[0])

			ctype := TypeTargetAlreadyExists
			switch {
			case targetIsDir && !sourceIsDir:
				ctype = TypeFileToDirectory
			case !targetIsDir && sourceIsDir:
				ctype = TypeDirectoryToFile
			}

			d.collisions = append(d.collisions, Collision{
				Type:        ctype,
				TargetPath:  target,
				SourcePaths: append([]string(nil), sources...),
				Description: fmt.Sprintf("Target path already exists: %s", target),
			})
		}
	}

	if d.caseInsensitive {
		d.detectCaseCollisions()
	}

	return append([]Collision(nil), d.collisions...)
}

// isDir consults the snapshot first and falls back to a stat, mirroring how
// kind refinement works when a path was registered without kind information.
func (d *Detector) isDir(path string) bool {
	if isDir, ok := d.existing[path]; ok {
		return isDir
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// detectCaseCollisions groups targets by their lowercased path; any group
// with more than one member collapses to a single on-disk name, so every
// member is reported.
func (d *Detector) detectCaseCollisions() {
	groups := make(map[string][]string)
	var groupOrder []string
	for _, target := range d.order {
		lower := strings.ToLower(target)
		if _, ok := groups[lower]; !ok {
			groupOrder = append(groupOrder, lower)
		}
		groups[lower] = append(groups[lower], target)
	}

	for _, lower := range groupOrder {
		paths := groups[lower]
		if len(paths) < 2 {
			continue
		}
		for _, path := range paths {
			d.collisions = append(d.collisions, Collision{
				Type:        TypeCaseOnlyDifference,
				TargetPath:  path,
				SourcePaths: append([]string(nil), d.targets[path]...),
				Description: fmt.Sprintf(
					"Case-only difference detected on case-insensitive filesystem: %s", path),
			})
		}
	}
}

// Collisions returns the conflicts found by the last Detect call.
func (d *Detector) Collisions() []Collision {
	return append([]Collision(nil), d.collisions...)
}

// HasCollisions reports whether the last Detect call found any conflict.
func (d *Detector) HasCollisions() bool {
	return len(d.collisions) > 0
}

// Count returns the number of conflicts found by the last Detect call.
func (d *Detector) Count() int {
	return len(d.collisions)
}

// ByType returns the detected collisions of one kind.
func (d *Detector) ByType(t Type) []Collision {
	var out []Collision
	for _, c := range d.collisions {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// Summary counts detected collisions per type.
func (d *Detector) Summary() map[Type]int {
	summary := make(map[Type]int)
	for _, c := range d.collisions {
		summary[c.Type]++
	}
	return summary
}

// Clear resets the detector to an empty state.
func (d *Detector) Clear() {
	d.targets = make(map[string][]string)
	d.order = nil
	d.existing = make(map[string]bool)
	d.collisions = nil
}

// Blocking filters out the conflicts that never abort a run. A source whose
// computed target equals itself is a no-op, not an error.
func Blocking(collisions []Collision) []Collision {
	var out []Collision
	for _, c := range collisions {
		if c.Type != TypeSourceEqualsTarget {
			out = append(out, c)
		}
	}
	return out
}

// 📋 Report renders the detected collisions as a multi-line text block:
// a per-type tally followed by a numbered entry for every conflict.
func (d *Detector) Report() string {
	if len(d.collisions) == 0 {
		return "No collisions detected."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Collision Report (%d issues found):\n", len(d.collisions))
	b.WriteString(strings.Repeat("=", 50))
	b.WriteByte('\n')

	summary := d.Summary()
	for _, t := range allTypes {
		if n, ok := summary[t]; ok {
			fmt.Fprintf(&b, "  %s: %d issue(s)\n", t, n)
		}
	}
	b.WriteByte('\n')

	for i, c := range d.collisions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c.Description)
		fmt.Fprintf(&b, "   Type: %s\n", c.Type)
		fmt.Fprintf(&b, "   Target: %s\n", c.TargetPath)
		if len(c.SourcePaths) == 1 {
			fmt.Fprintf(&b, "   Source: %s\n", c.SourcePaths[0])
		} else {
			b.WriteString("   Sources:\n")
			for _, source := range c.SourcePaths {
				fmt.Fprintf(&b, "     - %s\n", source)
			}
		}
		b.WriteByte('\n')
	}

	return b.String()
}
