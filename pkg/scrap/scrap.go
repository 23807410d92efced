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

// Package scrap manages a .scrap holding folder at the root of a
// working directory: a local trash can that items are moved into
// instead of deleted, with a sidecar ledger recording where each item
// came from so it can be restored later.
package scrap

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// maxNameAttempts caps the conflict-suffix search.
const maxNameAttempts = 10000

// Options configures a Workspace.
type Options struct {
	// Root is the directory whose .scrap folder is managed. Defaults
	// to the process working directory.
	Root string

	// Stdout receives human-readable output. Defaults to os.Stdout.
	Stdout io.Writer

	// Confirm asks the user a yes/no question before a destructive
	// operation. Defaults to an interactive terminal prompt.
	Confirm func(prompt string) (bool, error)
}

// 📦 Workspace binds the scrap operations to one working directory and
// its .scrap holding folder.
type Workspace struct {
	root    string
	dir     string
	out     io.Writer
	confirm func(prompt string) (bool, error)
}

// 🏭 New creates a Workspace for the given options.
func New(opts Options) (*Workspace, error) {
	root := opts.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Errorf("getting working directory: %w", err)
		}
		root = wd
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Errorf("resolving root path: %w", err)
	}

	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}
	confirm := opts.Confirm
	if confirm == nil {
		confirm = askConfirm
	}

	return &Workspace{
		root:    abs,
		dir:     filepath.Join(abs, Dir),
		out:     out,
		confirm: confirm,
	}, nil
}

// Root returns the workspace's working directory.
func (w *Workspace) Root() string {
	return w.root
}

// ScrapDir returns the absolute path of the holding folder.
func (w *Workspace) ScrapDir() string {
	return w.dir
}

// Init creates the holding folder if it is missing and makes sure the
// root's .gitignore covers it. Safe to call on every run.
func (w *Workspace) Init(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return errors.Errorf("creating %s directory: %w", Dir, err)
	}
	return w.ensureGitignore(ctx)
}

// ensureGitignore appends a .scrap/ line to an existing .gitignore, or
// creates one when the root is itself a git repository. A .gitignore
// that already mentions the folder is left alone.
func (w *Workspace) ensureGitignore(ctx context.Context) error {
	path := filepath.Join(w.root, ".gitignore")

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if _, statErr := os.Stat(filepath.Join(w.root, ".git")); statErr != nil {
			return nil
		}
		if err := os.WriteFile(path, []byte(Dir+"/\n"), 0644); err != nil {
			return errors.Errorf("creating .gitignore: %w", err)
		}
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("created .gitignore")
		return nil
	}
	if err != nil {
		return errors.Errorf("reading .gitignore: %w", err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == Dir+"/" || trimmed == Dir {
			return nil
		}
	}

	addition := Dir + "/\n"
	if len(data) > 0 && !strings.HasSuffix(string(data), "\n") {
		addition = "\n" + addition
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Errorf("opening .gitignore for appending: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(addition); err != nil {
		return errors.Errorf("appending to .gitignore: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("ignored .scrap folder")
	return nil
}

// 🔄 Scrap moves path into the holding folder, de-conflicting its name
// with _1, _2, ... suffixes and recording where it came from.
func (w *Workspace) Scrap(ctx context.Context, path string) error {
	if err := w.Init(ctx); err != nil {
		return err
	}

	source := path
	if !filepath.IsAbs(source) {
		source = filepath.Join(w.root, source)
	}
	if _, err := os.Lstat(source); err != nil {
		if os.IsNotExist(err) {
			return errors.Errorf("Path '%s' does not exist", path)
		}
		return errors.Errorf("inspecting %s: %w", path, err)
	}

	name := filepath.Base(source)
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return errors.Errorf("Invalid path: no filename")
	}

	dest := filepath.Join(w.dir, name)
	if _, err := os.Lstat(dest); err == nil {
		dest, err = uniqueName(dest)
		if err != nil {
			return err
		}
	}

	store, err := Load(w.dir)
	if err != nil {
		return err
	}

	if err := os.Rename(source, dest); err != nil {
		return errors.Errorf("moving '%s' to '%s': %w", source, dest, err)
	}

	store.AddEntry(filepath.Base(dest), source)
	if err := store.Save(w.dir); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().
		Str("source", source).
		Str("dest", dest).
		Msg("scrapped item")
	fmt.Fprintf(w.out, "%s '%s' to '%s'\n", color.New(color.FgGreen).Sprint("Moved"), path, dest)

	return nil
}

// uniqueName finds an unused sibling of path by inserting _1, _2, ...
// before the extension. Dotfiles count as all stem.
func uniqueName(path string) (string, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		stem, ext = base, ""
	}

	for counter := 1; counter <= maxNameAttempts; counter++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, counter, ext))
		if _, err := os.Lstat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}

	return "", errors.Errorf("Could not find unique name after %d attempts", maxNameAttempts)
}

// requireDir fails when the holding folder does not exist yet.
func (w *Workspace) requireDir() error {
	if _, err := os.Stat(w.dir); err != nil {
		if os.IsNotExist(err) {
			return errors.Errorf("No .scrap folder found in '%s'", w.root)
		}
		return errors.Errorf("inspecting %s directory: %w", Dir, err)
	}
	return nil
}

// itemSize is the file's length, or the recursive total of regular
// files for a directory.
func itemSize(path string) (uint64, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, errors.Errorf("inspecting %s: %w", path, err)
	}
	if !info.IsDir() {
		return uint64(info.Size()), nil
	}

	var total uint64
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			total += uint64(info.Size())
		}
		return nil
	})
	if err != nil {
		return 0, errors.Errorf("sizing %s: %w", path, err)
	}

	return total, nil
}

func removeItem(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return errors.Errorf("removing %s: %w", path, err)
	}
	return nil
}

func askConfirm(prompt string) (bool, error) {
	ok, err := pterm.DefaultInteractiveConfirm.
		WithDefaultValue(false).
		Show(prompt)
	if err != nil {
		return false, errors.Errorf("getting user confirmation: %w", err)
	}
	return ok, nil
}
