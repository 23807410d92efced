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

// Package fileops performs the filesystem mutations of a rename run:
// in-place content substitution and single-item moves, with optional
// sibling backups.
package fileops

import (
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/walteh/refac/pkg/detect"
	"github.com/walteh/refac/pkg/match"
	"gitlab.com/tozd/go/errors"
)

// Options configures Operations.
type Options struct {
	// Backup writes the pre-modification content to a .bak sibling
	// before a file is rewritten.
	Backup bool
	// Detector classifies files as text or binary. Defaults to the
	// standard cascade when nil.
	Detector *detect.Detector
}

// 🔧 Operations bundles the file-level primitives used during execution.
// All methods are safe for concurrent use on disjoint paths.
type Operations struct {
	detector *detect.Detector
	backup   bool
}

// New creates Operations from the given options.
func New(opts Options) *Operations {
	if opts.Detector == nil {
		opts.Detector = detect.New()
	}
	return &Operations{
		detector: opts.Detector,
		backup:   opts.Backup,
	}
}

// IsTextFile reports whether path is safe to treat as text.
func (o *Operations) IsTextFile(path string) (bool, error) {
	return o.detector.IsText(path)
}

// FileContainsString reports whether the file's content contains needle.
// Case-insensitive matching is a literal lowercase containment check.
// Content that is not valid UTF-8 is rejected rather than searched, so a
// file is never selected for a rewrite that would later refuse to touch it.
func (o *Operations) FileContainsString(path, needle string, ignoreCase bool) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, errors.Errorf("reading %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return false, errors.Errorf("file is not valid UTF-8: %s", path)
	}

	if ignoreCase {
		return match.ContainsFold(string(data), needle), nil
	}
	return strings.Contains(string(data), needle), nil
}

// 🔄 ReplaceContent rewrites every occurrence of old with new inside the
// file and reports whether anything changed. The file is only written when
// at least one replacement occurred, and the write goes through a temp
// file in the same directory so a crash never leaves a half-written file.
func (o *Operations) ReplaceContent(path, old, new string, ignoreCase bool) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, errors.Errorf("reading %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return false, errors.Errorf("file is not valid UTF-8: %s", path)
	}

	content := string(data)
	var updated string
	if ignoreCase {
		updated = match.ReplaceAllFold(content, old, new)
	} else {
		updated = strings.ReplaceAll(content, old, new)
	}

	if updated == content {
		return false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, errors.Errorf("inspecting %s: %w", path, err)
	}

	if o.backup {
		if _, err := o.BackupFile(path); err != nil {
			return false, err
		}
	}

	if err := writeFileAtomic(path, []byte(updated), info.Mode()); err != nil {
		return false, errors.Errorf("writing %s: %w", path, err)
	}

	return true, nil
}

// Move renames a single item. Renames never relocate an item across
// directories, so the target's parent is guaranteed to exist.
func (o *Operations) Move(source, target string) error {
	if err := os.Rename(source, target); err != nil {
		return errors.Errorf("renaming %s to %s: %w", source, target, err)
	}
	return nil
}

// BackupFile copies the file's current content to a .bak sibling and
// returns the backup path. A missing source is not an error.
func (o *Operations) BackupFile(path string) (string, error) {
	backupPath := path + ".bak"

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return backupPath, nil
	} else if err != nil {
		return "", errors.Errorf("checking file existence: %w", err)
	}

	if err := copyFile(path, backupPath); err != nil {
		return "", errors.Errorf("creating backup: %w", err)
	}

	return backupPath, nil
}

// writeFileAtomic writes content to a temp sibling and renames it over
// path, keeping the original file mode.
func writeFileAtomic(path string, content []byte, mode fs.FileMode) error {
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, content, mode.Perm()); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := os.Chmod(tempPath, mode.Perm()); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("setting temp file mode: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}

func copyFile(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	destination, err := os.Create(dst)
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}
	defer destination.Close()

	if _, err := io.Copy(destination, source); err != nil {
		return errors.Errorf("copying file: %w", err)
	}

	return nil
}
