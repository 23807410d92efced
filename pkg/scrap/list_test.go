package scrap_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/refac/pkg/scrap"
)

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    scrap.SortOrder
		wantErr bool
	}{
		{name: "date", input: "date", want: scrap.SortByDate},
		{name: "name", input: "name", want: scrap.SortByName},
		{name: "size", input: "size", want: scrap.SortBySize},
		{name: "unknown_rejected", input: "banana", wantErr: true},
		{name: "empty_rejected", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scrap.ParseSortOrder(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "Invalid sort option")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWorkspace_ListEmpty(t *testing.T) {
	ws, out, _ := newWorkspace(t, false)

	require.NoError(t, ws.List(context.Background(), scrap.SortByDate))
	assert.Contains(t, out.String(), "The .scrap folder is empty.")
}

func TestWorkspace_ListShowsEntriesAndOrigins(t *testing.T) {
	ws, out, root := newWorkspace(t, false)
	ctx := context.Background()

	writeFile(t, filepath.Join(root, "notes.txt"), "n")
	require.NoError(t, ws.Scrap(ctx, "notes.txt"))
	require.NoError(t, os.Mkdir(filepath.Join(ws.ScrapDir(), "stray_dir"), 0755))

	require.NoError(t, ws.List(ctx, scrap.SortByDate))

	rendered := out.String()
	assert.Contains(t, rendered, "Contents of .scrap folder:")
	assert.Contains(t, rendered, "notes.txt")
	assert.Contains(t, rendered, filepath.Join(root, "notes.txt"), "recorded origin shows up")
	assert.Contains(t, rendered, "stray_dir")
	assert.Contains(t, rendered, "<DIR>")
	assert.Contains(t, rendered, "Total: 2 items")
	assert.NotContains(t, rendered, scrap.MetadataFile, "the sidecar ledger is not listed")
}

func TestWorkspace_ListSortOrders(t *testing.T) {
	ws, _, _ := newWorkspace(t, false)
	ctx := context.Background()
	require.NoError(t, ws.Init(ctx))

	// Names, ages and sizes are chosen so every sort order produces a
	// different row ordering.
	writeFile(t, filepath.Join(ws.ScrapDir(), "alpha.txt"), strings.Repeat("x", 300))
	writeFile(t, filepath.Join(ws.ScrapDir(), "mike.txt"), strings.Repeat("x", 200))
	writeFile(t, filepath.Join(ws.ScrapDir(), "zulu.txt"), "x")

	store := scrap.NewStore()
	now := time.Now().UTC()
	store.Entries["alpha.txt"] = scrap.Entry{OriginalPath: "/tmp/alpha.txt", ScrappedAt: now.Add(-2 * time.Hour), ScrappedName: "alpha.txt"}
	store.Entries["mike.txt"] = scrap.Entry{OriginalPath: "/tmp/mike.txt", ScrappedAt: now, ScrappedName: "mike.txt"}
	store.Entries["zulu.txt"] = scrap.Entry{OriginalPath: "/tmp/zulu.txt", ScrappedAt: now.Add(-time.Hour), ScrappedName: "zulu.txt"}
	require.NoError(t, store.Save(ws.ScrapDir()))

	tests := []struct {
		name  string
		sort  scrap.SortOrder
		order []string
	}{
		{name: "date_newest_first", sort: scrap.SortByDate, order: []string{"mike.txt", "zulu.txt", "alpha.txt"}},
		{name: "name_alphabetical", sort: scrap.SortByName, order: []string{"alpha.txt", "mike.txt", "zulu.txt"}},
		{name: "size_smallest_first", sort: scrap.SortBySize, order: []string{"zulu.txt", "mike.txt", "alpha.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &strings.Builder{}
			view, err := scrap.New(scrap.Options{Root: ws.Root(), Stdout: out})
			require.NoError(t, err)

			require.NoError(t, view.List(ctx, tt.sort))

			rendered := out.String()
			prev := -1
			for _, name := range tt.order {
				at := strings.Index(rendered, name)
				require.GreaterOrEqual(t, at, 0, "row for %s missing", name)
				assert.Greater(t, at, prev, "%s out of order", name)
				prev = at
			}
		})
	}
}
