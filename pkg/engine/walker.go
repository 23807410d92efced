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

package engine

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/refac/pkg/config"
	"github.com/walteh/refac/pkg/fileops"
	"github.com/walteh/refac/pkg/match"
	"github.com/walteh/refac/pkg/plan"
	"github.com/walteh/refac/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Walker performs the discovery traversal: one single-threaded pass over
// the tree that collects the files whose content needs rewriting and the
// items whose names need changing. The root itself is never a candidate.
//
// Filtering prunes: a directory that is hidden (unless an include pattern
// targets dotfiles) or fails the include/exclude filter is skipped together
// with its entire subtree.
type Walker struct {
	cfg    *config.RenameConfig
	ops    *fileops.Operations
	filter *match.Filter
}

// 🏭 NewWalker creates a walker for the given run configuration.
func NewWalker(cfg *config.RenameConfig, ops *fileops.Operations) *Walker {
	matcher := match.New(cfg.IgnoreCase, cfg.UseRegex)
	return &Walker{
		cfg:    cfg,
		ops:    ops,
		filter: match.NewFilter(matcher, cfg.IncludePatterns, cfg.ExcludePatterns),
	}
}

// Walk traverses the root and returns the content-rewrite list and the
// rename list, the latter already in execution order. Directory read
// failures abort the traversal; per-file read failures are logged and the
// file is skipped.
func (w *Walker) Walk(ctx context.Context, progress status.Progress) ([]string, []plan.RenameItem, error) {
	if progress == nil {
		progress = status.NopProgress
	}

	var contentFiles []string
	var items []plan.RenameItem

	// resolved real paths of directories already entered; with symlink
	// following enabled this caps every real directory at one visit, so
	// link cycles and aliased subtrees cannot loop or double-count
	visited := make(map[string]bool)
	if w.cfg.FollowSymlinks {
		if resolved, err := filepath.EvalSymlinks(w.cfg.RootDir); err == nil {
			visited[resolved] = true
		}
	}

	err := w.walkDir(ctx, w.cfg.RootDir, 0, visited, progress, &contentFiles, &items)
	if err != nil {
		return nil, nil, err
	}

	plan.SortItems(items)
	return contentFiles, items, nil
}

func (w *Walker) walkDir(
	ctx context.Context,
	dir string,
	depth int,
	visited map[string]bool,
	progress status.Progress,
	contentFiles *[]string,
	items *[]plan.RenameItem,
) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Errorf("reading directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)
		entryDepth := depth + 1

		progress.Update("Scanned: " + path)

		info, err := os.Stat(path)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("skipping unstattable entry")
			continue
		}
		isDir := info.IsDir()

		if strings.HasPrefix(name, ".") && !w.filter.IncludesHidden() {
			continue
		}
		if !w.filter.Allows(name) {
			continue
		}

		if !isDir && w.cfg.Mode.ProcessContent() && w.cfg.Mode.ProcessFiles() {
			if w.fileNeedsContentChange(ctx, path) {
				*contentFiles = append(*contentFiles, path)
			}
		}

		if w.cfg.Mode.ProcessNames() {
			if item, ok := w.renameItemFor(path, name, isDir, entryDepth); ok {
				*items = append(*items, item)
			}
		}

		if isDir && w.withinDepth(entryDepth) {
			if entry.Type()&fs.ModeSymlink != 0 && !w.cfg.FollowSymlinks {
				continue
			}
			if w.cfg.FollowSymlinks {
				resolved, err := filepath.EvalSymlinks(path)
				if err != nil {
					zerolog.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("skipping unresolvable symlink")
					continue
				}
				if visited[resolved] {
					continue
				}
				visited[resolved] = true
			}
			if err := w.walkDir(ctx, path, entryDepth, visited, progress, contentFiles, items); err != nil {
				return err
			}
		}
	}

	return nil
}

// withinDepth reports whether a directory at entryDepth may be descended
// into. MaxDepth bounds the depth of visited entries, so descending is
// allowed only while children would still be inside the bound.
func (w *Walker) withinDepth(entryDepth int) bool {
	return w.cfg.MaxDepth == 0 || entryDepth < w.cfg.MaxDepth
}

// fileNeedsContentChange reports whether path is a text file containing
// the old string. Unreadable or undecodable files are skipped with a log
// entry rather than failing the traversal.
func (w *Walker) fileNeedsContentChange(ctx context.Context, path string) bool {
	text, err := w.ops.IsTextFile(path)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("skipping unreadable file")
		return false
	}
	if !text {
		return false
	}

	contains, err := w.ops.FileContainsString(path, w.cfg.OldString, w.cfg.IgnoreCase)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("skipping undecodable file")
		return false
	}
	return contains
}

// renameItemFor builds the rename item for one entry, or reports false
// when the name does not contain the old string or the entry's type is
// excluded by the mode.
func (w *Walker) renameItemFor(path, name string, isDir bool, depth int) (plan.RenameItem, bool) {
	var contains bool
	if w.cfg.IgnoreCase {
		contains = match.ContainsFold(name, w.cfg.OldString)
	} else {
		contains = strings.Contains(name, w.cfg.OldString)
	}
	if !contains {
		return plan.RenameItem{}, false
	}

	itemType := plan.ItemTypeFile
	if isDir {
		if !w.cfg.Mode.ProcessDirs() {
			return plan.RenameItem{}, false
		}
		itemType = plan.ItemTypeDirectory
	} else if !w.cfg.Mode.ProcessFiles() {
		return plan.RenameItem{}, false
	}

	var newName string
	if w.cfg.IgnoreCase {
		newName = match.ReplaceAllFold(name, w.cfg.OldString, w.cfg.NewString)
	} else {
		newName = strings.ReplaceAll(name, w.cfg.OldString, w.cfg.NewString)
	}

	return plan.RenameItem{
		OriginalPath: path,
		NewPath:      filepath.Join(filepath.Dir(path), newName),
		Type:         itemType,
		Depth:        depth,
	}, true
}
