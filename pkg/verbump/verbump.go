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

// Package verbump derives a three-part version number from a git
// repository's history and keeps a version file current through a
// pre-commit hook. Major is the latest tag, minor the commit count
// since that tag, patch the total line churn since that tag.
package verbump

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// logFileName collects a timestamped line per action, next to the config.
const logFileName = ".verbump.log"

// Options configures a Workspace.
type Options struct {
	// Root is the git repository root. Required; must contain a .git
	// entry.
	Root string

	// Stdout receives human-readable output. Defaults to os.Stdout.
	Stdout io.Writer

	// Git overrides the git runner, mostly for tests. Defaults to a
	// runner executing inside Root.
	Git *Git
}

// 📦 Workspace binds the verbump operations to one git repository.
type Workspace struct {
	root string
	out  io.Writer
	git  *Git
}

// 🏭 New creates a Workspace rooted at the repository top level. A root
// without a .git entry is a validation error: every operation here
// either reads git history or edits the hooks directory.
func New(opts Options) (*Workspace, error) {
	abs, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, errors.Errorf("resolving repository root: %w", err)
	}

	if _, err := os.Stat(filepath.Join(abs, ".git")); err != nil {
		return nil, errors.Errorf("Not in a git repository: %s", abs)
	}

	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}
	git := opts.Git
	if git == nil {
		git = NewGit(abs)
	}

	return &Workspace{
		root: abs,
		out:  out,
		git:  git,
	}, nil
}

// Root returns the repository root the workspace is bound to.
func (w *Workspace) Root() string {
	return w.root
}

// Show prints the computed version and its three components.
func (w *Workspace) Show(ctx context.Context) error {
	version, err := w.git.CalculateVersion()
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)

	fmt.Fprintln(w.out, bold.Sprint("Current Version Information:"))
	fmt.Fprintf(w.out, "  %s: %s\n", cyan.Sprint("Major (tag)"), version.Major)
	fmt.Fprintf(w.out, "  %s: %d\n", cyan.Sprint("Minor (commits since tag)"), version.Minor)
	fmt.Fprintf(w.out, "  %s: %d\n", cyan.Sprint("Patch (line changes)"), version.Patch)
	fmt.Fprintf(w.out, "  %s: %s\n", color.New(color.FgGreen, color.Bold).Sprint("Full Version"), version)

	return nil
}

// 🔄 Update writes the computed version to the configured version file
// and stages it, so the hook's commit carries the bump. The file is only
// written when the version actually changed.
func (w *Workspace) Update(ctx context.Context) error {
	cfg, err := LoadConfig(w.root)
	if err != nil {
		return err
	}

	if !cfg.Enabled {
		fmt.Fprintf(w.out, "%s verbump is disabled in configuration\n", color.New(color.FgYellow).Sprint("Info:"))
		return nil
	}

	version, err := w.git.CalculateVersion()
	if err != nil {
		return err
	}

	updated, err := w.writeVersionFile(cfg, version)
	if err != nil {
		return err
	}
	if !updated {
		zerolog.Ctx(ctx).Debug().Str("version", version.String()).Msg("version file already current")
		return nil
	}

	fmt.Fprintf(w.out, "%s Updated version to: %s\n", color.New(color.FgGreen).Sprint("Success:"), version)
	w.logAction(fmt.Sprintf("Updated version to: %s (file: %s)", version, cfg.VersionFile))

	return nil
}

// writeVersionFile persists the version and stages the file with git.
func (w *Workspace) writeVersionFile(cfg *Config, version Version) (bool, error) {
	path := filepath.Join(w.root, cfg.VersionFile)
	content := version.String() + "\n"

	if existing, err := os.ReadFile(path); err == nil && string(existing) == content {
		return false, nil
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return false, errors.Errorf("writing version to %s: %w", path, err)
	}

	if _, err := w.git.run("add", cfg.VersionFile); err != nil {
		return false, errors.Errorf("staging version file: %w", err)
	}

	return true, nil
}

// Status reports the hook, config and version file state in one view.
func (w *Workspace) Status(ctx context.Context) error {
	cfg, err := LoadConfig(w.root)
	if err != nil {
		return err
	}

	installed, err := w.HookInstalled()
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	check := func(ok bool) string {
		if ok {
			return color.New(color.FgGreen).Sprint("✓")
		}
		return color.New(color.FgRed).Sprint("✗")
	}

	fmt.Fprintln(w.out, color.New(color.Bold).Sprint("Verbump Status:"))
	fmt.Fprintf(w.out, "  %s: %s\n", cyan.Sprint("Git Repository"), check(true))
	fmt.Fprintf(w.out, "  %s: %s\n", cyan.Sprint("Hook Installed"), check(installed))
	fmt.Fprintf(w.out, "  %s: %s\n", cyan.Sprint("Enabled"), check(cfg.Enabled))
	fmt.Fprintf(w.out, "  %s: %s\n", cyan.Sprint("Version File"), cfg.VersionFile)

	if version, err := w.git.CalculateVersion(); err == nil {
		fmt.Fprintf(w.out, "  %s: %s\n", cyan.Sprint("Current Version"), version)
	}

	_, statErr := os.Stat(filepath.Join(w.root, cfg.VersionFile))
	fmt.Fprintf(w.out, "  %s: %s\n", cyan.Sprint("Version File Exists"), check(statErr == nil))

	return nil
}

// logAction appends a timestamped line to the action log. Logging never
// fails an operation.
func (w *Workspace) logAction(message string) {
	line := fmt.Sprintf("[%s] %s\n", time.Now().Format("2006-01-02 15:04:05"), message)

	file, err := os.OpenFile(filepath.Join(w.root, logFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer file.Close()

	_, _ = file.WriteString(line)
}
