package scrap_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/refac/pkg/scrap"
)

func TestWorkspace_FindByName(t *testing.T) {
	ws, out, root := newWorkspace(t, false)
	ctx := context.Background()

	writeFile(t, filepath.Join(root, "report_2024.txt"), "quarterly numbers")
	writeFile(t, filepath.Join(root, "unrelated.md"), "nothing")
	require.NoError(t, ws.Scrap(ctx, "report_2024.txt"))
	require.NoError(t, ws.Scrap(ctx, "unrelated.md"))

	require.NoError(t, ws.Find(ctx, `report_\d+`, false))

	rendered := out.String()
	assert.Contains(t, rendered, "[filename match]")
	assert.Contains(t, rendered, "report_2024.txt")
	assert.Contains(t, rendered, "Found 1 matches")
	assert.NotContains(t, rendered, "unrelated.md")
}

func TestWorkspace_FindByOriginalPath(t *testing.T) {
	ws, out, root := newWorkspace(t, false)
	ctx := context.Background()

	writeFile(t, filepath.Join(root, "projects", "invoices", "march.txt"), "x")
	require.NoError(t, ws.Scrap(ctx, filepath.Join("projects", "invoices", "march.txt")))

	require.NoError(t, ws.Find(ctx, "invoices", false))

	rendered := out.String()
	assert.Contains(t, rendered, "march.txt")
	assert.Contains(t, rendered, "[path match]")
	assert.Contains(t, rendered, "Found 1 matches")
}

func TestWorkspace_FindInContent(t *testing.T) {
	ws, _, root := newWorkspace(t, false)
	ctx := context.Background()

	writeFile(t, filepath.Join(root, "shopping.txt"), "eggs\nmilk\nflour\n")
	require.NoError(t, ws.Scrap(ctx, "shopping.txt"))

	tests := []struct {
		name          string
		pattern       string
		searchContent bool
		wantMatch     bool
	}{
		{name: "content_found_when_enabled", pattern: "milk", searchContent: true, wantMatch: true},
		{name: "content_ignored_by_default", pattern: "milk", searchContent: false, wantMatch: false},
		{name: "no_match_anywhere", pattern: "beer", searchContent: true, wantMatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			view, err := scrap.New(scrap.Options{Root: root, Stdout: out})
			require.NoError(t, err)

			require.NoError(t, view.Find(ctx, tt.pattern, tt.searchContent))

			if tt.wantMatch {
				assert.Contains(t, out.String(), "[content match]")
				assert.Contains(t, out.String(), "Found 1 matches")
			} else {
				assert.Contains(t, out.String(), "No matches found.")
			}
		})
	}
}

func TestWorkspace_FindSkipsBinaryContent(t *testing.T) {
	ws, out, _ := newWorkspace(t, false)
	ctx := context.Background()
	require.NoError(t, ws.Init(ctx))

	// A NUL byte makes the file binary; its bytes never participate in
	// content search.
	binary := filepath.Join(ws.ScrapDir(), "blob.bin")
	writeFile(t, binary, "needle\x00needle")

	require.NoError(t, ws.Find(ctx, "needle", true))

	assert.Contains(t, out.String(), "No matches found.")
}

func TestWorkspace_FindShowsLedgerDetails(t *testing.T) {
	ws, out, _ := newWorkspace(t, false)
	ctx := context.Background()
	require.NoError(t, ws.Init(ctx))

	writeFile(t, filepath.Join(ws.ScrapDir(), "old_notes.txt"), "x")
	store, err := scrap.Load(ws.ScrapDir())
	require.NoError(t, err)
	store.Entries["old_notes.txt"] = scrap.Entry{
		OriginalPath: "/home/user/old_notes.txt",
		ScrappedAt:   time.Now().UTC().Add(-3 * time.Hour),
		ScrappedName: "old_notes.txt",
	}
	require.NoError(t, store.Save(ws.ScrapDir()))

	require.NoError(t, ws.Find(ctx, "notes", false))

	rendered := out.String()
	assert.Contains(t, rendered, "from: /home/user/old_notes.txt")
	assert.Contains(t, rendered, "ago")
}

func TestWorkspace_FindInvalidPattern(t *testing.T) {
	ws, _, _ := newWorkspace(t, false)

	err := ws.Find(context.Background(), "[unclosed", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compiling search pattern")
}
