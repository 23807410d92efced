package collision_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/refac/pkg/collision"
	"github.com/walteh/refac/pkg/plan"
)

func TestDetector_NoCollisions(t *testing.T) {
	d := collision.NewWithCaseInsensitive(false)
	d.Add("/test/old1.txt", "/test/new1.txt")
	d.Add("/test/old2.txt", "/test/new2.txt")

	collisions := d.Detect()
	assert.Empty(t, collisions)
	assert.False(t, d.HasCollisions())
	assert.Equal(t, 0, d.Count())
}

func TestDetector_MultipleSourcesSameTarget(t *testing.T) {
	d := collision.NewWithCaseInsensitive(false)
	d.Add("/test/old1.txt", "/test/target.txt")
	d.Add("/test/old2.txt", "/test/target.txt")

	collisions := d.Detect()
	require.Len(t, collisions, 1, "both sources should fold into a single collision")
	assert.Equal(t, collision.TypeMultipleSourcesSameTarget, collisions[0].Type)
	assert.Equal(t, "/test/target.txt", collisions[0].TargetPath)
	assert.ElementsMatch(t, []string{"/test/old1.txt", "/test/old2.txt"}, collisions[0].SourcePaths)
	assert.Contains(t, collisions[0].Description, "Multiple files/directories trying to rename to the same target")
}

func TestDetector_SourceEqualsTarget(t *testing.T) {
	d := collision.NewWithCaseInsensitive(false)
	d.Add("/test/same.txt", "/test/same.txt")

	collisions := d.Detect()
	require.Len(t, collisions, 1)
	assert.Equal(t, collision.TypeSourceEqualsTarget, collisions[0].Type)
	assert.Equal(t, "Source and target are identical: /test/same.txt", collisions[0].Description)

	assert.Empty(t, collision.Blocking(collisions), "a no-op rename must never block the run")
}

func TestDetector_TargetAlreadyExists(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "existing.txt")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0644))

	d := collision.NewWithCaseInsensitive(false)
	d.AddExisting(existing, false)
	d.Add(filepath.Join(dir, "source.txt"), existing)

	collisions := d.Detect()
	require.Len(t, collisions, 1)
	assert.Equal(t, collision.TypeTargetAlreadyExists, collisions[0].Type)
	assert.Equal(t, "Target path already exists: "+existing, collisions[0].Description)
}

// A target that is occupied right now, but whose occupant is itself being
// renamed away in the same batch, is free by the time the rename runs.
func TestDetector_RenamedAwayTargetIsFree(t *testing.T) {
	dir := t.TempDir()
	occupied := filepath.Join(dir, "old_v2.txt")
	require.NoError(t, os.WriteFile(occupied, []byte("x"), 0644))

	d := collision.NewWithCaseInsensitive(false)
	d.AddExisting(occupied, false)
	d.Add(filepath.Join(dir, "old.txt"), occupied)
	d.Add(occupied, filepath.Join(dir, "new_v2.txt"))

	assert.Empty(t, d.Detect())
}

func TestDetector_FileToDirectory(t *testing.T) {
	dir := t.TempDir()
	existingDir := filepath.Join(dir, "existing_dir")
	require.NoError(t, os.Mkdir(existingDir, 0755))
	source := filepath.Join(dir, "source.txt")
	require.NoError(t, os.WriteFile(source, []byte("x"), 0644))

	d := collision.NewWithCaseInsensitive(false)
	d.AddExisting(existingDir, true)
	d.AddExisting(source, false)
	d.Add(source, existingDir)

	collisions := d.Detect()
	require.Len(t, collisions, 1)
	assert.Equal(t, collision.TypeFileToDirectory, collisions[0].Type)
}

func TestDetector_DirectoryToFile(t *testing.T) {
	dir := t.TempDir()
	existingFile := filepath.Join(dir, "existing.txt")
	require.NoError(t, os.WriteFile(existingFile, []byte("x"), 0644))
	sourceDir := filepath.Join(dir, "source_dir")
	require.NoError(t, os.Mkdir(sourceDir, 0755))

	d := collision.NewWithCaseInsensitive(false)
	d.AddExisting(existingFile, false)
	d.AddExisting(sourceDir, true)
	d.Add(sourceDir, existingFile)

	collisions := d.Detect()
	require.Len(t, collisions, 1)
	assert.Equal(t, collision.TypeDirectoryToFile, collisions[0].Type)
}

func TestDetector_CaseOnlyDifference(t *testing.T) {
	d := collision.NewWithCaseInsensitive(true)
	d.Add("/test/a.txt", "/test/Result.txt")
	d.Add("/test/b.txt", "/test/result.txt")

	collisions := d.Detect()
	caseOnly := d.ByType(collision.TypeCaseOnlyDifference)
	require.Len(t, caseOnly, 2, "each member of the case-folded group is reported")
	assert.Len(t, collisions, 2)
	for _, c := range caseOnly {
		assert.Contains(t, c.Description, "Case-only difference detected on case-insensitive filesystem")
	}
}

func TestDetector_CaseSensitiveFilesystemAllowsCaseVariants(t *testing.T) {
	d := collision.NewWithCaseInsensitive(false)
	d.Add("/test/a.txt", "/test/Result.txt")
	d.Add("/test/b.txt", "/test/result.txt")

	assert.Empty(t, d.Detect())
}

func TestDetector_ScanExisting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file1.txt"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file2.txt"), []byte("b"), 0644))
	sub := filepath.Join(dir, "subdir")
	require.NoError(t, os.Mkdir(sub, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "file3.txt"), []byte("c"), 0644))

	d := collision.NewWithCaseInsensitive(false)
	require.NoError(t, d.ScanExisting(dir))

	d.Add(filepath.Join(dir, "other.txt"), filepath.Join(sub, "file3.txt"))
	collisions := d.Detect()
	require.Len(t, collisions, 1, "a scanned nested path should register as occupied")
	assert.Equal(t, collision.TypeTargetAlreadyExists, collisions[0].Type)
}

func TestDetector_AddItems(t *testing.T) {
	d := collision.NewWithCaseInsensitive(false)
	d.AddItems([]plan.RenameItem{
		{OriginalPath: "/test/old1.txt", NewPath: "/test/clash.txt", Type: plan.ItemTypeFile, Depth: 1},
		{OriginalPath: "/test/old2.txt", NewPath: "/test/clash.txt", Type: plan.ItemTypeFile, Depth: 1},
	})

	collisions := d.Detect()
	require.Len(t, collisions, 1)
	assert.Equal(t, collision.TypeMultipleSourcesSameTarget, collisions[0].Type)
}

func TestDetector_Summary(t *testing.T) {
	d := collision.NewWithCaseInsensitive(false)
	d.Add("/test/old1.txt", "/test/target.txt")
	d.Add("/test/old2.txt", "/test/target.txt")
	d.Add("/test/same.txt", "/test/same.txt")
	d.Detect()

	summary := d.Summary()
	assert.Equal(t, 1, summary[collision.TypeMultipleSourcesSameTarget])
	assert.Equal(t, 1, summary[collision.TypeSourceEqualsTarget])
	assert.Len(t, summary, 2)
}

func TestDetector_Report(t *testing.T) {
	d := collision.NewWithCaseInsensitive(false)
	d.Add("/test/old1.txt", "/test/target.txt")
	d.Add("/test/old2.txt", "/test/target.txt")
	d.Detect()

	report := d.Report()
	assert.Contains(t, report, "Collision Report (1 issues found):")
	assert.Contains(t, report, "MultipleSourcesSameTarget: 1 issue(s)")
	assert.Contains(t, report, "Target: /test/target.txt")
	assert.Contains(t, report, "- /test/old1.txt")
	assert.Contains(t, report, "- /test/old2.txt")
}

func TestDetector_ReportEmpty(t *testing.T) {
	d := collision.NewWithCaseInsensitive(false)
	d.Detect()
	assert.Equal(t, "No collisions detected.", d.Report())
}

func TestDetector_Clear(t *testing.T) {
	d := collision.NewWithCaseInsensitive(false)
	d.Add("/test/old.txt", "/test/old.txt")
	d.AddExisting("/test/existing.txt", false)
	require.NotEmpty(t, d.Detect())

	d.Clear()

	assert.Empty(t, d.Detect())
	assert.False(t, d.HasCollisions())
}
