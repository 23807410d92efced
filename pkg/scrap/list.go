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
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// SortOrder selects how listed entries are ordered.
type SortOrder string

const (
	// SortByDate lists the most recently scrapped items first.
	SortByDate SortOrder = "date"
	// SortByName lists items alphabetically.
	SortByName SortOrder = "name"
	// SortBySize lists the smallest items first.
	SortBySize SortOrder = "size"
)

// ParseSortOrder validates a user-supplied sort key.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case SortByDate, SortByName, SortBySize:
		return SortOrder(s), nil
	}
	return "", errors.Errorf("Invalid sort option: %s", s)
}

// listItem is one row of the listing.
type listItem struct {
	name       string
	isDir      bool
	size       int64
	scrappedAt time.Time
	origin     string
	recorded   bool
}

// 📊 List renders the holding folder's contents as a table, newest
// first by default. Items without a ledger entry fall back to their
// modification time for ordering and show no origin.
func (w *Workspace) List(ctx context.Context, sortBy SortOrder) error {
	store, err := Load(w.dir)
	if err != nil {
		return err
	}

	items, err := w.collectItems(store)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(w.out, color.New(color.FgYellow).Sprint("The .scrap folder is empty."))
		return nil
	}

	zerolog.Ctx(ctx).Debug().
		Int("items", len(items)).
		Str("sort", string(sortBy)).
		Msg("listing scrap contents")

	sortItems(items, sortBy)

	fmt.Fprintln(w.out, color.New(color.Bold).Sprint("Contents of .scrap folder:"))

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w.out)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Name", "Size", "Age", "Original Path"})
	for _, item := range items {
		tbl.AppendRow(table.Row{
			item.indicator() + " " + item.name,
			item.sizeLabel(),
			item.ageLabel(),
			item.origin,
		})
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d items", len(items))})
	tbl.Render()

	return nil
}

// collectItems reads the holding folder's top-level entries, skipping
// the hidden sidecar files.
func (w *Workspace) collectItems(store *Store) ([]listItem, error) {
	entries, err := os.ReadDir(w.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Errorf("reading %s directory: %w", Dir, err)
	}

	var items []listItem
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, errors.Errorf("inspecting %s: %w", entry.Name(), err)
		}

		item := listItem{
			name:       entry.Name(),
			isDir:      entry.IsDir(),
			size:       info.Size(),
			scrappedAt: info.ModTime(),
		}
		if record, ok := store.GetEntry(entry.Name()); ok {
			item.scrappedAt = record.ScrappedAt
			item.origin = record.OriginalPath
			item.recorded = true
		}
		items = append(items, item)
	}

	return items, nil
}

func sortItems(items []listItem, sortBy SortOrder) {
	switch sortBy {
	case SortByName:
		sort.Slice(items, func(a, b int) bool {
			return items[a].name < items[b].name
		})
	case SortBySize:
		sort.Slice(items, func(a, b int) bool {
			return items[a].size < items[b].size
		})
	default:
		sort.Slice(items, func(a, b int) bool {
			return items[a].scrappedAt.After(items[b].scrappedAt)
		})
	}
}

func (i listItem) indicator() string {
	if i.isDir {
		return "📁"
	}
	return "📄"
}

func (i listItem) sizeLabel() string {
	if i.isDir {
		return "<DIR>"
	}
	return humanize.Bytes(uint64(i.size))
}

func (i listItem) ageLabel() string {
	if !i.recorded {
		return ""
	}
	return humanize.Time(i.scrappedAt)
}
