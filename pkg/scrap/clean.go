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
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Clean deletes items that have been in the holding folder for more
// than the given number of days. Items the ledger does not know about
// fall back to their modification time. With dryRun, nothing is
// deleted and each candidate is announced instead.
func (w *Workspace) Clean(ctx context.Context, days int, dryRun bool) error {
	store, err := Load(w.dir)
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-time.Duration(days) * 24 * time.Hour)

	headerVerb := "Removing"
	footerVerb := "Removed"
	if dryRun {
		headerVerb = "Would remove"
		footerVerb = "Would remove"
	}
	fmt.Fprintf(w.out, "%s items older than %d days...\n", headerVerb, days)

	entries, err := os.ReadDir(w.dir)
	if err != nil && !os.IsNotExist(err) {
		return errors.Errorf("reading %s directory: %w", Dir, err)
	}

	removed := 0
	var totalSize uint64
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(w.dir, name)

		old, err := olderThan(store, entry, cutoff)
		if err != nil {
			return err
		}
		if !old {
			continue
		}

		size, err := itemSize(path)
		if err != nil {
			return err
		}
		totalSize += size

		if dryRun {
			fmt.Fprintf(w.out, "  %s %s (%s)\n",
				color.New(color.FgYellow).Sprint("Would remove:"), path, humanize.Bytes(size))
		} else {
			if err := removeItem(path); err != nil {
				return err
			}
			store.RemoveEntry(name)
			fmt.Fprintf(w.out, "  %s %s (%s)\n",
				color.New(color.FgRed).Sprint("Removed:"), path, humanize.Bytes(size))
		}
		removed++
	}

	if !dryRun {
		if err := store.Save(w.dir); err != nil {
			return err
		}
	}

	zerolog.Ctx(ctx).Debug().
		Int("removed", removed).
		Int("days", days).
		Bool("dry_run", dryRun).
		Msg("cleaned old items")
	fmt.Fprintf(w.out, "\n%s: %d items (%s)\n",
		color.New(color.Bold).Sprint(footerVerb), removed, humanize.Bytes(totalSize))

	return nil
}

// olderThan decides whether an entry predates the cutoff, preferring
// the ledger's timestamp over the filesystem's.
func olderThan(store *Store, entry os.DirEntry, cutoff time.Time) (bool, error) {
	if record, ok := store.GetEntry(entry.Name()); ok {
		return record.ScrappedAt.Before(cutoff), nil
	}
	info, err := entry.Info()
	if err != nil {
		return false, errors.Errorf("inspecting %s: %w", entry.Name(), err)
	}
	return info.ModTime().Before(cutoff), nil
}

// Purge deletes everything in the holding folder, ledger included.
// Unless force is set, the user is asked first.
func (w *Workspace) Purge(ctx context.Context, force bool) error {
	entries, err := os.ReadDir(w.dir)
	if os.IsNotExist(err) {
		fmt.Fprintln(w.out, color.New(color.FgYellow).Sprint("The .scrap folder doesn't exist."))
		return nil
	}
	if err != nil {
		return errors.Errorf("reading %s directory: %w", Dir, err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(w.out, color.New(color.FgYellow).Sprint("The .scrap folder is already empty."))
		return nil
	}

	if !force {
		ok, err := w.confirm(fmt.Sprintf("Are you sure you want to remove all %d items from %s?", len(entries), Dir))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(w.out, color.New(color.FgYellow).Sprint("Operation cancelled."))
			return nil
		}
	}

	removed := 0
	var totalSize uint64
	for _, entry := range entries {
		path := filepath.Join(w.dir, entry.Name())
		size, err := itemSize(path)
		if err != nil {
			return err
		}
		totalSize += size
		if err := removeItem(path); err != nil {
			return err
		}
		removed++
	}

	zerolog.Ctx(ctx).Debug().Int("removed", removed).Msg("purged scrap folder")
	fmt.Fprintf(w.out, "%s %d items (%s)\n",
		color.New(color.FgRed, color.Bold).Sprint("Purged:"), removed, humanize.Bytes(totalSize))

	return nil
}
