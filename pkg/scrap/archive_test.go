package scrap_test

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/refac/pkg/scrap"
)

// readArchive returns the entry names and file contents of a tar.gz.
func readArchive(t *testing.T, path string) (map[string]string, []string) {
	t.Helper()

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	gz, err := gzip.NewReader(file)
	require.NoError(t, err)
	defer gz.Close()

	contents := map[string]string{}
	var names []string
	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, header.Name)
		if header.Typeflag == tar.TypeReg {
			data, err := io.ReadAll(tr)
			require.NoError(t, err)
			contents[header.Name] = string(data)
		}
	}
	return contents, names
}

func TestWorkspace_ArchiveWritesTarball(t *testing.T) {
	ws, out, root := newWorkspace(t, false)
	ctx := context.Background()

	writeFile(t, filepath.Join(root, "keep.txt"), "keep me")
	require.NoError(t, ws.Scrap(ctx, "keep.txt"))
	writeFile(t, filepath.Join(root, "sub", "inner.txt"), "inner")
	require.NoError(t, ws.Scrap(ctx, "sub"))

	require.NoError(t, ws.Archive(ctx, "backup.tar.gz", false))

	archivePath := filepath.Join(root, "backup.tar.gz")
	require.FileExists(t, archivePath)

	contents, names := readArchive(t, archivePath)
	assert.Equal(t, "keep me", contents["keep.txt"])
	assert.Equal(t, "inner", contents["sub/inner.txt"])
	assert.Contains(t, names, "sub/")
	assert.Contains(t, contents, scrap.MetadataFile, "the ledger rides along")

	rendered := out.String()
	assert.Contains(t, rendered, "Archiving .scrap folder to backup.tar.gz...")
	assert.Contains(t, rendered, "to backup.tar.gz")

	// Without remove, the folder keeps its contents.
	assert.FileExists(t, filepath.Join(ws.ScrapDir(), "keep.txt"))
}

func TestWorkspace_ArchiveDefaultName(t *testing.T) {
	ws, _, root := newWorkspace(t, false)
	ctx := context.Background()

	writeFile(t, filepath.Join(root, "a.txt"), "a")
	require.NoError(t, ws.Scrap(ctx, "a.txt"))

	require.NoError(t, ws.Archive(ctx, "", false))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)

	found := false
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".scrap-") && strings.HasSuffix(name, ".tar.gz") {
			found = true
		}
	}
	assert.True(t, found, "default archive name is .scrap-YYYY-MM-DD.tar.gz")
}

func TestWorkspace_ArchiveRemoveClearsFolder(t *testing.T) {
	ws, out, root := newWorkspace(t, false)
	ctx := context.Background()

	writeFile(t, filepath.Join(root, "a.txt"), "a")
	require.NoError(t, ws.Scrap(ctx, "a.txt"))
	writeFile(t, filepath.Join(root, "b.txt"), "b")
	require.NoError(t, ws.Scrap(ctx, "b.txt"))

	require.NoError(t, ws.Archive(ctx, "cleared.tar.gz", true))

	assert.NoFileExists(t, filepath.Join(ws.ScrapDir(), "a.txt"))
	assert.NoFileExists(t, filepath.Join(ws.ScrapDir(), "b.txt"))
	assert.Contains(t, out.String(), "Removed archived files from .scrap folder")

	store, err := scrap.Load(ws.ScrapDir())
	require.NoError(t, err)
	assert.Empty(t, store.Entries, "the ledger resets after removal")
}

func TestWorkspace_ArchiveEmptyFolder(t *testing.T) {
	ws, out, _ := newWorkspace(t, false)

	require.NoError(t, ws.Archive(context.Background(), "nope.tar.gz", false))

	assert.Contains(t, out.String(), "The .scrap folder is empty.")
	assert.NoFileExists(t, filepath.Join(ws.Root(), "nope.tar.gz"))
}
