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

// Package config holds the immutable configuration of a rename run and the
// optional defaults file that seeds it. Configuration is validated once,
// before any traversal begins, and passed read-only to every phase.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🎛️ Mode selects which entry kinds and which change kinds a run touches.
// The four mutually exclusive CLI flags collapse into this single variant.
type Mode int

const (
	ModeFull Mode = iota
	ModeFilesOnly
	ModeDirsOnly
	ModeNamesOnly
	ModeContentOnly
)

// String returns a string representation of Mode
func (m Mode) String() string {
	switch m {
	case ModeFull:
		return "Full"
	case ModeFilesOnly:
		return "FilesOnly"
	case ModeDirsOnly:
		return "DirsOnly"
	case ModeNamesOnly:
		return "NamesOnly"
	case ModeContentOnly:
		return "ContentOnly"
	default:
		return "Unknown"
	}
}

// ProcessFiles reports whether files are eligible for any change.
func (m Mode) ProcessFiles() bool {
	return m != ModeDirsOnly
}

// ProcessDirs reports whether directories are eligible for renaming.
func (m Mode) ProcessDirs() bool {
	return m == ModeFull || m == ModeDirsOnly || m == ModeNamesOnly
}

// ProcessContent reports whether file content may be rewritten.
func (m Mode) ProcessContent() bool {
	return m != ModeNamesOnly
}

// ProcessNames reports whether file and directory names may be rewritten.
func (m Mode) ProcessNames() bool {
	return m != ModeContentOnly
}

// ModeFromFlags folds the four mode flags into a Mode, rejecting
// conflicting combinations.
func ModeFromFlags(filesOnly, dirsOnly, namesOnly, contentOnly bool) (Mode, error) {
	count := 0
	for _, f := range []bool{filesOnly, dirsOnly, namesOnly, contentOnly} {
		if f {
			count++
		}
	}
	if count > 1 {
		return ModeFull, errors.New("Cannot specify more than one mode flag (--files-only, --dirs-only, --names-only, --content-only)")
	}

	switch {
	case filesOnly:
		return ModeFilesOnly, nil
	case dirsOnly:
		return ModeDirsOnly, nil
	case namesOnly:
		return ModeNamesOnly, nil
	case contentOnly:
		return ModeContentOnly, nil
	default:
		return ModeFull, nil
	}
}

// OutputFormat selects how results are rendered.
type OutputFormat int

const (
	FormatHuman OutputFormat = iota
	FormatJSON
	FormatPlain
)

// String returns a string representation of OutputFormat
func (f OutputFormat) String() string {
	switch f {
	case FormatHuman:
		return "human"
	case FormatJSON:
		return "json"
	case FormatPlain:
		return "plain"
	default:
		return "unknown"
	}
}

// ParseOutputFormat parses a format name.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(s) {
	case "human":
		return FormatHuman, nil
	case "json":
		return FormatJSON, nil
	case "plain":
		return FormatPlain, nil
	default:
		return FormatHuman, errors.Errorf("invalid output format %q (valid: human, json, plain)", s)
	}
}

// ProgressMode selects when live progress is rendered.
type ProgressMode int

const (
	ProgressAuto ProgressMode = iota
	ProgressNever
	ProgressAlways
)

// String returns a string representation of ProgressMode
func (p ProgressMode) String() string {
	switch p {
	case ProgressAuto:
		return "auto"
	case ProgressNever:
		return "never"
	case ProgressAlways:
		return "always"
	default:
		return "unknown"
	}
}

// ParseProgressMode parses a progress mode name.
func ParseProgressMode(s string) (ProgressMode, error) {
	switch strings.ToLower(s) {
	case "auto":
		return ProgressAuto, nil
	case "never":
		return ProgressNever, nil
	case "always":
		return ProgressAlways, nil
	default:
		return ProgressAuto, errors.Errorf("invalid progress mode %q (valid: auto, never, always)", s)
	}
}

// 📚 RenameConfig is the complete, immutable configuration of one run.
type RenameConfig struct {
	RootDir   string // absolute path of the tree being processed
	OldString string
	NewString string

	Mode Mode

	DryRun         bool
	Force          bool
	Verbose        bool
	FollowSymlinks bool
	Backup         bool
	IgnoreCase     bool
	UseRegex       bool

	MaxDepth int // 0 = unlimited
	Threads  int // 0 = auto-detect

	IncludePatterns []string
	ExcludePatterns []string

	Format   OutputFormat
	Progress ProgressMode
}

// New creates a RenameConfig rooted at rootDir, resolved to an absolute
// path. Flags start at their defaults: full mode, human output, auto
// progress.
func New(rootDir, oldString, newString string) (*RenameConfig, error) {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, errors.Errorf("resolving root directory: %w", err)
	}

	return &RenameConfig{
		RootDir:   abs,
		OldString: oldString,
		NewString: newString,
	}, nil
}

// Validate checks the configuration before any work starts. Every failure
// here is fatal and reported without touching the tree.
func (c *RenameConfig) Validate() error {
	info, err := os.Stat(c.RootDir)
	if os.IsNotExist(err) {
		return errors.Errorf("Root directory does not exist: %s", c.RootDir)
	}
	if err != nil {
		return errors.Errorf("inspecting root directory: %w", err)
	}
	if !info.IsDir() {
		return errors.Errorf("Root path is not a directory: %s", c.RootDir)
	}

	if c.OldString == "" {
		return errors.New("Old string cannot be empty")
	}
	if c.NewString == "" {
		return errors.New("New string cannot be empty")
	}
	if strings.ContainsAny(c.NewString, `/\`) {
		return errors.New(`New string cannot contain path separators (/ or \)`)
	}

	if c.Threads < 0 {
		return errors.New("Thread count cannot be negative")
	}
	if c.Threads > 1000 {
		return errors.New("Thread count cannot exceed 1000")
	}
	if c.MaxDepth < 0 {
		return errors.New("Max depth cannot be negative")
	}
	if c.MaxDepth > 1000 {
		return errors.New("Max depth cannot exceed 1000")
	}

	return nil
}

// ThreadCount resolves the configured worker count, falling back to the
// machine's available parallelism.
func (c *RenameConfig) ThreadCount() int {
	if c.Threads > 0 {
		return c.Threads
	}
	return runtime.NumCPU()
}
