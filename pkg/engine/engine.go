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

// Package engine orchestrates a rename run end to end: discovery, collision
// detection, summary and confirmation, content rewriting, renaming, and the
// final report. Engines are one-shot; nothing is shared between runs.
package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/refac/pkg/collision"
	"github.com/walteh/refac/pkg/config"
	"github.com/walteh/refac/pkg/fileops"
	"github.com/walteh/refac/pkg/plan"
	"github.com/walteh/refac/pkg/status"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 📋 Outcome is the terminal state of a run.
type Outcome int

const (
	// OutcomeCompleted means all requested phases ran; per-item errors may
	// still have been collected into the final report.
	OutcomeCompleted Outcome = iota

	// OutcomeAborted means blocking collisions stopped the run before any
	// mutation.
	OutcomeAborted

	// OutcomeCancelled means the user declined the confirmation prompt: a
	// clean, intentional no-op.
	OutcomeCancelled

	// OutcomeFailed means an unrecoverable setup or traversal error.
	OutcomeFailed
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeAborted:
		return "aborted"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ExitCode maps the outcome onto a process exit code. Cancellation is not
// an error, and per-item failures inside a completed run are surfaced in
// the report rather than the exit code.
func (o Outcome) ExitCode() int {
	switch o {
	case OutcomeAborted, OutcomeFailed:
		return 1
	default:
		return 0
	}
}

// Options configures engine construction.
type Options struct {
	Config   *config.RenameConfig
	Reporter status.Reporter

	// Ops defaults to file operations honoring the config's backup flag.
	Ops *fileops.Operations
}

// 🎯 Engine drives one rename run through its phases, strictly in order:
// Discover, DetectCollisions, Summarize/Confirm, ExecuteContent,
// ExecuteRenames, Report. No phase ever runs twice and no phase runs after
// a terminal outcome is reached.
type Engine struct {
	cfg      *config.RenameConfig
	reporter status.Reporter
	ops      *fileops.Operations
}

// 🏭 New creates an engine for one run.
func New(opts Options) *Engine {
	ops := opts.Ops
	if ops == nil {
		ops = fileops.New(fileops.Options{Backup: opts.Config.Backup})
	}
	return &Engine{
		cfg:      opts.Config,
		reporter: opts.Reporter,
		ops:      ops,
	}
}

// Run executes the whole pipeline and returns the terminal outcome. The
// returned error carries detail for Aborted and Failed outcomes; Completed
// and Cancelled always return a nil error even when per-item failures were
// recorded in the report.
func (e *Engine) Run(ctx context.Context) (Outcome, error) {
	zlog := zerolog.Ctx(ctx)

	e.reporter.Begin(ctx, e.cfg)

	e.reporter.Info(ctx, "Phase 1: Discovering files and directories...")
	contentFiles, items, err := e.discover(ctx)
	if err != nil {
		return OutcomeFailed, err
	}
	zlog.Debug().
		Int("content_files", len(contentFiles)).
		Int("rename_items", len(items)).
		Msg("discovery finished")

	e.reporter.Info(ctx, "Phase 2: Checking for naming collisions...")
	blocking, err := e.checkCollisions(ctx, items)
	if err != nil {
		return OutcomeFailed, err
	}
	if len(blocking) > 0 {
		e.reporter.Collisions(ctx, blocking)
		return OutcomeAborted, errors.Errorf("Cannot proceed due to %d naming collision(s)", len(blocking))
	}

	sum := plan.Summarize(contentFiles, items)
	stats := plan.NewStats(sum)
	e.reporter.Summary(ctx, sum, contentFiles, items)

	if sum.TotalChanges() == 0 {
		e.reporter.NoChanges(ctx, e.cfg.DryRun)
		return OutcomeCompleted, nil
	}

	if !e.cfg.Force && !e.cfg.DryRun {
		confirmed, err := e.reporter.Confirm(ctx)
		if err != nil {
			return OutcomeFailed, err
		}
		if !confirmed {
			e.reporter.Info(ctx, "Operation cancelled by user.")
			return OutcomeCancelled, nil
		}
	}

	if e.cfg.DryRun {
		e.reporter.Info(ctx, "DRY RUN MODE: No actual changes will be made.")
	}

	if len(contentFiles) > 0 {
		e.executeContent(ctx, contentFiles, stats)
	}
	if len(items) > 0 {
		e.executeRenames(ctx, items, stats)
	}

	e.reporter.Result(ctx, stats, e.cfg.DryRun)
	return OutcomeCompleted, nil
}

// discover runs the traversal with a live scanning display.
func (e *Engine) discover(ctx context.Context) ([]string, []plan.RenameItem, error) {
	progress := e.reporter.StartProgress(ctx, "Scanning files and directories...", 0)

	walker := NewWalker(e.cfg, e.ops)
	contentFiles, items, err := walker.Walk(ctx, progress)
	if err != nil {
		return nil, nil, err
	}

	progress.Finish("Discovery complete")
	return contentFiles, items, nil
}

// checkCollisions scans the existing tree, evaluates the proposed renames
// against it, and returns the blocking collisions. A run with no rename
// items skips the scan entirely.
func (e *Engine) checkCollisions(ctx context.Context, items []plan.RenameItem) ([]collision.Collision, error) {
	if len(items) == 0 {
		return nil, nil
	}

	detector := collision.New()
	if err := detector.ScanExisting(e.cfg.RootDir); err != nil {
		return nil, err
	}
	detector.AddItems(items)

	all := detector.Detect()
	blocking := collision.Blocking(all)

	zerolog.Ctx(ctx).Debug().
		Int("collisions", len(all)).
		Int("blocking", len(blocking)).
		Msg("collision detection finished")

	return blocking, nil
}

// executeContent rewrites the old string inside every discovered file. With
// more than one worker the files are processed by a bounded pool; failures
// are recorded per file and never stop the batch. A dry run walks the
// sequential path so the logging matches, mutating nothing.
func (e *Engine) executeContent(ctx context.Context, files []string, stats *plan.Stats) {
	e.reporter.Info(ctx, "Replacing content in files...")
	progress := e.reporter.StartProgress(ctx, "Replacing content", len(files))

	workers := e.cfg.ThreadCount()
	if workers > 1 && !e.cfg.DryRun {
		g := new(errgroup.Group)
		g.SetLimit(workers)
		for _, path := range files {
			path := path
			g.Go(func() error {
				_, err := e.ops.ReplaceContent(path, e.cfg.OldString, e.cfg.NewString, e.cfg.IgnoreCase)
				if err != nil {
					stats.RecordError(fmt.Sprintf("Failed to modify %s: %v", path, err))
				}
				return nil
			})
		}
		// workers never return an error; failures land in stats
		_ = g.Wait()
	} else {
		for _, path := range files {
			modified := true
			var err error
			if !e.cfg.DryRun {
				modified, err = e.ops.ReplaceContent(path, e.cfg.OldString, e.cfg.NewString, e.cfg.IgnoreCase)
			}
			switch {
			case err != nil:
				stats.RecordError(fmt.Sprintf("Failed to modify %s: %v", path, err))
			case modified:
				e.reporter.Verbose(ctx, "Modified: "+path)
			}
			progress.Update(path)
		}
	}

	progress.Finish(fmt.Sprintf("Content replacement complete (%d files)", len(files)))
}

// executeRenames applies the ordered rename list one item at a time.
// Renaming must stay sequential: after a directory moves, the pending
// entries underneath it are re-anchored to its new path, so every rename
// works on the path as it exists on disk at that moment.
func (e *Engine) executeRenames(ctx context.Context, items []plan.RenameItem, stats *plan.Stats) {
	e.reporter.Info(ctx, "Renaming files and directories...")
	progress := e.reporter.StartProgress(ctx, "Renaming items", len(items))

	pending := make([]plan.RenameItem, len(items))
	copy(pending, items)

	for i := range pending {
		item := pending[i]
		if item.IsNoop() {
			progress.Update(item.OriginalPath)
			continue
		}

		var err error
		if !e.cfg.DryRun {
			err = e.ops.Move(item.OriginalPath, item.NewPath)
		}
		if err != nil {
			stats.RecordError(fmt.Sprintf("Failed to rename %s to %s: %v", item.OriginalPath, item.NewPath, err))
		} else {
			e.reporter.Verbose(ctx, fmt.Sprintf("Renamed: %s → %s", item.OriginalPath, item.NewPath))
			if item.Type == plan.ItemTypeDirectory {
				reanchor(pending[i+1:], item.OriginalPath, item.NewPath)
			}
		}

		progress.Update(item.OriginalPath)
	}

	progress.Finish(fmt.Sprintf("Rename complete (%d items)", len(items)))
}

// reanchor rewrites pending paths under a directory that just moved.
func reanchor(pending []plan.RenameItem, oldDir, newDir string) {
	oldPrefix := oldDir + string(filepath.Separator)
	newPrefix := newDir + string(filepath.Separator)
	for i := range pending {
		if rest, ok := strings.CutPrefix(pending[i].OriginalPath, oldPrefix); ok {
			pending[i].OriginalPath = newPrefix + rest
		}
		if rest, ok := strings.CutPrefix(pending[i].NewPath, oldPrefix); ok {
			pending[i].NewPath = newPrefix + rest
		}
	}
}
