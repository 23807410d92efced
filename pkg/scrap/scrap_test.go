package scrap_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/refac/pkg/scrap"
)

// newWorkspace builds a workspace over a fresh temp directory with
// captured output and a scripted confirmation.
func newWorkspace(t *testing.T, confirm bool) (*scrap.Workspace, *bytes.Buffer, string) {
	t.Helper()
	root := t.TempDir()
	out := &bytes.Buffer{}
	ws, err := scrap.New(scrap.Options{
		Root:   root,
		Stdout: out,
		Confirm: func(prompt string) (bool, error) {
			return confirm, nil
		},
	})
	require.NoError(t, err)
	return ws, out, root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestWorkspace_ScrapMovesFile(t *testing.T) {
	ws, out, root := newWorkspace(t, false)
	ctx := context.Background()

	source := filepath.Join(root, "notes.txt")
	writeFile(t, source, "remember this")

	require.NoError(t, ws.Scrap(ctx, "notes.txt"))

	assert.NoFileExists(t, source)
	moved := filepath.Join(root, scrap.Dir, "notes.txt")
	require.FileExists(t, moved)
	data, err := os.ReadFile(moved)
	require.NoError(t, err)
	assert.Equal(t, "remember this", string(data))

	store, err := scrap.Load(ws.ScrapDir())
	require.NoError(t, err)
	entry, ok := store.GetEntry("notes.txt")
	require.True(t, ok)
	assert.Equal(t, source, entry.OriginalPath)

	assert.Contains(t, out.String(), "Moved 'notes.txt'")
}

func TestWorkspace_ScrapMovesDirectory(t *testing.T) {
	ws, _, root := newWorkspace(t, false)
	ctx := context.Background()

	writeFile(t, filepath.Join(root, "build", "out.bin"), "artifacts")
	writeFile(t, filepath.Join(root, "build", "logs", "run.log"), "log line")

	require.NoError(t, ws.Scrap(ctx, "build"))

	assert.NoDirExists(t, filepath.Join(root, "build"))
	assert.FileExists(t, filepath.Join(ws.ScrapDir(), "build", "out.bin"))
	assert.FileExists(t, filepath.Join(ws.ScrapDir(), "build", "logs", "run.log"))
}

func TestWorkspace_ScrapConflictSuffixes(t *testing.T) {
	ws, _, root := newWorkspace(t, false)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		writeFile(t, filepath.Join(root, "report.txt"), "x")
		require.NoError(t, ws.Scrap(ctx, "report.txt"))
	}

	assert.FileExists(t, filepath.Join(ws.ScrapDir(), "report.txt"))
	assert.FileExists(t, filepath.Join(ws.ScrapDir(), "report_1.txt"))
	assert.FileExists(t, filepath.Join(ws.ScrapDir(), "report_2.txt"))

	store, err := scrap.Load(ws.ScrapDir())
	require.NoError(t, err)
	assert.Len(t, store.Entries, 3)
	_, ok := store.GetEntry("report_2.txt")
	assert.True(t, ok, "suffixed name keys the ledger entry")
}

func TestWorkspace_ScrapConflictSuffixWithoutExtension(t *testing.T) {
	ws, _, root := newWorkspace(t, false)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		writeFile(t, filepath.Join(root, "Makefile"), "all:")
		require.NoError(t, ws.Scrap(ctx, "Makefile"))
	}

	assert.FileExists(t, filepath.Join(ws.ScrapDir(), "Makefile"))
	assert.FileExists(t, filepath.Join(ws.ScrapDir(), "Makefile_1"))
}

func TestWorkspace_ScrapConflictSuffixOnDotfile(t *testing.T) {
	ws, _, root := newWorkspace(t, false)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		writeFile(t, filepath.Join(root, ".envrc"), "export FOO=1")
		require.NoError(t, ws.Scrap(ctx, ".envrc"))
	}

	assert.FileExists(t, filepath.Join(ws.ScrapDir(), ".envrc"))
	assert.FileExists(t, filepath.Join(ws.ScrapDir(), ".envrc_1"),
		"dotfiles take the suffix at the end, not before the leading dot")
}

func TestWorkspace_ScrapMissingPath(t *testing.T) {
	ws, _, _ := newWorkspace(t, false)

	err := ws.Scrap(context.Background(), "no-such-thing.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Path 'no-such-thing.txt' does not exist")
}

func TestWorkspace_InitAppendsGitignoreOnce(t *testing.T) {
	ws, _, root := newWorkspace(t, false)
	ctx := context.Background()

	gitignore := filepath.Join(root, ".gitignore")
	writeFile(t, gitignore, "*.log\ntarget/\n")

	require.NoError(t, ws.Init(ctx))
	require.NoError(t, ws.Init(ctx))

	data, err := os.ReadFile(gitignore)
	require.NoError(t, err)
	assert.Equal(t, "*.log\ntarget/\n.scrap/\n", string(data))
}

func TestWorkspace_InitAddsNewlineBeforeAppending(t *testing.T) {
	ws, _, root := newWorkspace(t, false)

	gitignore := filepath.Join(root, ".gitignore")
	writeFile(t, gitignore, "*.log")

	require.NoError(t, ws.Init(context.Background()))

	data, err := os.ReadFile(gitignore)
	require.NoError(t, err)
	assert.Equal(t, "*.log\n.scrap/\n", string(data))
}

func TestWorkspace_InitRespectsExistingIgnoreLine(t *testing.T) {
	ws, _, root := newWorkspace(t, false)

	gitignore := filepath.Join(root, ".gitignore")
	writeFile(t, gitignore, ".scrap\n")

	require.NoError(t, ws.Init(context.Background()))

	data, err := os.ReadFile(gitignore)
	require.NoError(t, err)
	assert.Equal(t, ".scrap\n", string(data), "a bare .scrap line already covers the folder")
}

func TestWorkspace_InitCreatesGitignoreInRepoRoot(t *testing.T) {
	ws, _, root := newWorkspace(t, false)
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0755))

	require.NoError(t, ws.Init(context.Background()))

	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, ".scrap/\n", string(data))
}

func TestWorkspace_InitLeavesNonRepoAlone(t *testing.T) {
	ws, _, root := newWorkspace(t, false)

	require.NoError(t, ws.Init(context.Background()))

	assert.NoFileExists(t, filepath.Join(root, ".gitignore"))
	assert.DirExists(t, ws.ScrapDir())
}
