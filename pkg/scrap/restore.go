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

package scrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// RestoreOptions adjusts where and how a scrapped item is put back.
type RestoreOptions struct {
	// To overrides the destination. An existing directory receives the
	// item by name; any other value is used as the full target path.
	To string

	// Force replaces an existing file at the destination.
	Force bool
}

// 🔄 Restore moves the named item out of the holding folder, back to
// its recorded original path. Items without a ledger entry land in the
// workspace root. Parent directories are created as needed, and the
// ledger entry is dropped once the move succeeds.
func (w *Workspace) Restore(ctx context.Context, name string, opts RestoreOptions) error {
	if err := w.requireDir(); err != nil {
		return err
	}

	source := filepath.Join(w.dir, name)
	if _, err := os.Lstat(source); err != nil {
		if os.IsNotExist(err) {
			return errors.Errorf("'%s' not found in .scrap folder", name)
		}
		return errors.Errorf("inspecting %s: %w", source, err)
	}

	store, err := Load(w.dir)
	if err != nil {
		return err
	}

	dest := w.restoreDestination(store, name, opts.To)

	if _, err := os.Lstat(dest); err == nil && !opts.Force {
		return errors.Errorf("Destination '%s' already exists. Use --force to overwrite.", dest)
	}

	if parent := filepath.Dir(dest); parent != "." {
		if err := os.MkdirAll(parent, 0755); err != nil {
			return errors.Errorf("creating parent directory %s: %w", parent, err)
		}
	}

	if err := os.Rename(source, dest); err != nil {
		return errors.Errorf("restoring '%s' to '%s': %w", source, dest, err)
	}

	store.RemoveEntry(name)
	if err := store.Save(w.dir); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().
		Str("name", name).
		Str("dest", dest).
		Msg("restored item")
	fmt.Fprintf(w.out, "%s '%s' to '%s'\n", color.New(color.FgGreen).Sprint("Restored"), name, dest)

	return nil
}

// restoreDestination resolves the target path for a restore: an
// explicit override first, then the ledger, then the workspace root.
func (w *Workspace) restoreDestination(store *Store, name, custom string) string {
	if custom != "" {
		if info, err := os.Stat(custom); err == nil && info.IsDir() {
			return filepath.Join(custom, name)
		}
		return custom
	}
	if record, ok := store.GetEntry(name); ok {
		return record.OriginalPath
	}
	return filepath.Join(w.root, name)
}

// RestoreLast undoes the most recent scrap operation.
func (w *Workspace) RestoreLast(ctx context.Context) error {
	if err := w.requireDir(); err != nil {
		return err
	}

	store, err := Load(w.dir)
	if err != nil {
		return err
	}

	last, ok := store.MostRecent()
	if !ok {
		fmt.Fprintln(w.out, color.New(color.FgYellow).Sprint("No items to restore in .scrap folder"))
		return nil
	}

	fmt.Fprintf(w.out, "%s last scrapped item: %s (from %s)\n",
		color.New(color.Bold).Sprint("Restoring"),
		color.New(color.FgCyan).Sprint(last.ScrappedName),
		last.OriginalPath)

	return w.Restore(ctx, last.ScrappedName, RestoreOptions{})
}
