package plan_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/refac/pkg/plan"
)

func TestSortItems(t *testing.T) {
	tests := []struct {
		name  string
		items []plan.RenameItem
		want  []string // expected OriginalPath order
	}{
		{
			name: "directories_before_files",
			items: []plan.RenameItem{
				{OriginalPath: "/r/a.txt", Type: plan.ItemTypeFile, Depth: 1},
				{OriginalPath: "/r/d", Type: plan.ItemTypeDirectory, Depth: 1},
			},
			want: []string{"/r/d", "/r/a.txt"},
		},
		{
			name: "directories_deepest_first",
			items: []plan.RenameItem{
				{OriginalPath: "/r/d", Type: plan.ItemTypeDirectory, Depth: 1},
				{OriginalPath: "/r/d/e/f", Type: plan.ItemTypeDirectory, Depth: 3},
				{OriginalPath: "/r/d/e", Type: plan.ItemTypeDirectory, Depth: 2},
			},
			want: []string{"/r/d/e/f", "/r/d/e", "/r/d"},
		},
		{
			name: "files_shallowest_first",
			items: []plan.RenameItem{
				{OriginalPath: "/r/d/e/b.txt", Type: plan.ItemTypeFile, Depth: 3},
				{OriginalPath: "/r/a.txt", Type: plan.ItemTypeFile, Depth: 1},
				{OriginalPath: "/r/d/c.txt", Type: plan.ItemTypeFile, Depth: 2},
			},
			want: []string{"/r/a.txt", "/r/d/c.txt", "/r/d/e/b.txt"},
		},
		{
			name: "mixed_tree",
			items: []plan.RenameItem{
				{OriginalPath: "/r/a.txt", Type: plan.ItemTypeFile, Depth: 1},
				{OriginalPath: "/r/d/e", Type: plan.ItemTypeDirectory, Depth: 2},
				{OriginalPath: "/r/d/e/b.txt", Type: plan.ItemTypeFile, Depth: 3},
				{OriginalPath: "/r/d", Type: plan.ItemTypeDirectory, Depth: 1},
			},
			want: []string{"/r/d/e", "/r/d", "/r/a.txt", "/r/d/e/b.txt"},
		},
		{
			name: "equal_depth_keeps_discovery_order",
			items: []plan.RenameItem{
				{OriginalPath: "/r/first", Type: plan.ItemTypeDirectory, Depth: 1},
				{OriginalPath: "/r/second", Type: plan.ItemTypeDirectory, Depth: 1},
			},
			want: []string{"/r/first", "/r/second"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan.SortItems(tt.items)

			got := make([]string, 0, len(tt.items))
			for _, item := range tt.items {
				got = append(got, item.OriginalPath)
			}
			assert.Equal(t, tt.want, got, "items should be ordered for safe execution")
		})
	}
}

func TestRenameItem_IsNoop(t *testing.T) {
	noop := plan.RenameItem{OriginalPath: "/r/a", NewPath: "/r/a"}
	assert.True(t, noop.IsNoop(), "identical paths should be a no-op")

	real := plan.RenameItem{OriginalPath: "/r/a", NewPath: "/r/b"}
	assert.False(t, real.IsNoop(), "differing paths should not be a no-op")
}

func TestSummarize(t *testing.T) {
	contentFiles := []string{"/r/a.txt", "/r/b.txt"}
	items := []plan.RenameItem{
		{OriginalPath: "/r/a.txt", NewPath: "/r/x.txt", Type: plan.ItemTypeFile, Depth: 1},
		{OriginalPath: "/r/d", NewPath: "/r/e", Type: plan.ItemTypeDirectory, Depth: 1},
		{OriginalPath: "/r/d/f", NewPath: "/r/d/g", Type: plan.ItemTypeDirectory, Depth: 2},
	}

	sum := plan.Summarize(contentFiles, items)

	assert.Equal(t, 2, sum.ContentChanges, "content changes should count files needing rewrite")
	assert.Equal(t, 1, sum.FileRenames, "file renames should count file items")
	assert.Equal(t, 2, sum.DirectoryRenames, "directory renames should count directory items")
	assert.Equal(t, 5, sum.TotalChanges(), "total should sum all changes")
}

func TestStats_RecordError(t *testing.T) {
	stats := plan.NewStats(plan.Summary{ContentChanges: 1})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stats.RecordError("worker failure")
		}()
	}
	wg.Wait()

	require.Equal(t, 8, stats.ErrorCount(), "all concurrent errors should be recorded")

	errs := stats.Errors()
	errs[0] = "mutated"
	assert.Equal(t, "worker failure", stats.Errors()[0], "Errors should return a copy")
}
