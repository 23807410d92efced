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

package verbump

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Marker lines delimiting the managed section of the pre-commit hook.
// Everything between them belongs to verbump; everything outside is the
// user's and is preserved verbatim.
const (
	BlockStart = "# === VERBUMP BLOCK START ==="
	BlockEnd   = "# === VERBUMP BLOCK END ==="
)

// HookPath returns the repository's pre-commit hook file path.
func (w *Workspace) HookPath() string {
	return filepath.Join(w.root, ".git", "hooks", "pre-commit")
}

// HookInstalled reports whether the hook file carries a verbump block.
func (w *Workspace) HookInstalled() (bool, error) {
	data, err := os.ReadFile(w.HookPath())
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Errorf("reading pre-commit hook: %w", err)
	}
	return strings.Contains(string(data), BlockStart), nil
}

// 🔧 InstallHook adds (or refreshes) the verbump block in the pre-commit
// hook, invoking command on each commit. Existing hook content outside
// the block is kept. Without force, an already-installed hook is left
// alone.
func (w *Workspace) InstallHook(ctx context.Context, command string, force bool) error {
	installed, err := w.HookInstalled()
	if err != nil {
		return err
	}
	if installed && !force {
		fmt.Fprintf(w.out, "%s verbump is already installed as a pre-commit hook\n", color.New(color.FgBlue).Sprint("Info:"))
		fmt.Fprintf(w.out, "%s Use 'verbump install --force' to reinstall\n", color.New(color.FgYellow).Sprint("Tip:"))
		return nil
	}

	hooksDir := filepath.Dir(w.HookPath())
	if err := os.MkdirAll(hooksDir, 0755); err != nil {
		return errors.Errorf("creating git hooks directory: %w", err)
	}

	existing := ""
	if data, err := os.ReadFile(w.HookPath()); err == nil {
		existing = string(data)
	} else if !os.IsNotExist(err) {
		return errors.Errorf("reading pre-commit hook: %w", err)
	}

	content := InsertBlock(existing, command)
	if err := os.WriteFile(w.HookPath(), []byte(content), 0755); err != nil {
		return errors.Errorf("writing pre-commit hook: %w", err)
	}
	if err := os.Chmod(w.HookPath(), 0755); err != nil {
		return errors.Errorf("making pre-commit hook executable: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("hook", w.HookPath()).Msg("installed verbump block")
	w.logAction("Installed verbump block in pre-commit hook: " + w.HookPath())

	fmt.Fprintf(w.out, "%s verbump installed successfully as a pre-commit hook\n", color.New(color.FgGreen).Sprint("Success:"))
	fmt.Fprintf(w.out, "%s Version will be automatically updated on each commit\n", color.New(color.FgBlue).Sprint("Info:"))

	return nil
}

// UninstallHook removes the verbump block, deleting the hook file
// entirely when nothing but the block (and a shebang) was in it.
func (w *Workspace) UninstallHook(ctx context.Context) error {
	data, err := os.ReadFile(w.HookPath())
	if os.IsNotExist(err) {
		fmt.Fprintf(w.out, "%s No pre-commit hook found\n", color.New(color.FgYellow).Sprint("Info:"))
		return nil
	}
	if err != nil {
		return errors.Errorf("reading pre-commit hook: %w", err)
	}

	content := string(data)
	if !strings.Contains(content, BlockStart) {
		fmt.Fprintf(w.out, "%s verbump is not installed in the pre-commit hook\n", color.New(color.FgYellow).Sprint("Info:"))
		return nil
	}

	cleaned := RemoveBlock(content)
	trimmed := strings.TrimSpace(cleaned)

	if trimmed == "" || trimmed == "#!/bin/bash" || trimmed == "#!/bin/sh" {
		if err := os.Remove(w.HookPath()); err != nil {
			return errors.Errorf("removing pre-commit hook: %w", err)
		}
		w.logAction("Removed empty pre-commit hook file: " + w.HookPath())
	} else {
		if err := os.WriteFile(w.HookPath(), []byte(cleaned), 0755); err != nil {
			return errors.Errorf("writing pre-commit hook: %w", err)
		}
		w.logAction("Removed verbump block from pre-commit hook: " + w.HookPath())
	}

	zerolog.Ctx(ctx).Debug().Str("hook", w.HookPath()).Msg("removed verbump block")
	fmt.Fprintf(w.out, "%s verbump uninstalled from pre-commit hook\n", color.New(color.FgGreen).Sprint("Success:"))

	return nil
}

// InsertBlock returns content with a fresh verbump block appended. Any
// existing block is removed first so reinstalling never duplicates it.
func InsertBlock(content, command string) string {
	block := fmt.Sprintf("%s\n# DO NOT EDIT THIS BLOCK MANUALLY\n# Use 'verbump uninstall' to remove this hook\n%s update\n%s\n",
		BlockStart, command, BlockEnd)

	cleaned := strings.TrimRight(RemoveBlock(content), "\n")
	if strings.TrimSpace(cleaned) == "" {
		return "#!/bin/bash\n" + block
	}

	return cleaned + "\n" + block
}

// RemoveBlock returns content with the verbump block stripped, leaving
// everything else untouched.
func RemoveBlock(content string) string {
	lines := strings.Split(content, "\n")
	kept := make([]string, 0, len(lines))
	inBlock := false

	for _, line := range lines {
		switch {
		case strings.Contains(line, BlockStart):
			inBlock = true
		case strings.Contains(line, BlockEnd):
			inBlock = false
		case !inBlock:
			kept = append(kept, line)
		}
	}

	return strings.Join(kept, "\n")
}
