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

package status

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/walteh/refac/pkg/collision"
	"github.com/walteh/refac/pkg/config"
	"github.com/walteh/refac/pkg/plan"
)

// plainReporter prints unstyled single-line output, suitable for logs and
// scripts that grep.
type plainReporter struct {
	cfg    *config.RenameConfig
	out    io.Writer
	errOut io.Writer
	zlog   zerolog.Logger
}

func newPlainReporter(cfg *config.RenameConfig, out, errOut io.Writer, zlog zerolog.Logger) *plainReporter {
	return &plainReporter{
		cfg:    cfg,
		out:    out,
		errOut: errOut,
		zlog:   zlog,
	}
}

func (r *plainReporter) Begin(ctx context.Context, cfg *config.RenameConfig) {}

func (r *plainReporter) Info(ctx context.Context, msg string) {
	fmt.Fprintln(r.out, msg)
	r.zlog.Info().Msg(msg)
}

func (r *plainReporter) Success(ctx context.Context, msg string) {
	fmt.Fprintln(r.out, msg)
	r.zlog.Info().Msg(msg)
}

func (r *plainReporter) Warning(ctx context.Context, msg string) {
	fmt.Fprintln(r.out, msg)
	r.zlog.Warn().Msg(msg)
}

func (r *plainReporter) Error(ctx context.Context, msg string) {
	fmt.Fprintln(r.errOut, msg)
	r.zlog.Error().Msg(msg)
}

func (r *plainReporter) Verbose(ctx context.Context, msg string) {
	if r.cfg.Verbose {
		r.Info(ctx, msg)
	}
}

func (r *plainReporter) Summary(ctx context.Context, sum plan.Summary, contentFiles []string, items []plan.RenameItem) {
	fmt.Fprintf(r.out, "Content changes: %d\n", sum.ContentChanges)
	fmt.Fprintf(r.out, "File renames: %d\n", sum.FileRenames)
	fmt.Fprintf(r.out, "Directory renames: %d\n", sum.DirectoryRenames)
	fmt.Fprintf(r.out, "Total changes: %d\n", sum.TotalChanges())
}

func (r *plainReporter) NoChanges(ctx context.Context, dryRun bool) {
	r.Success(ctx, "No changes needed.")
}

func (r *plainReporter) Collisions(ctx context.Context, collisions []collision.Collision) {
	r.Error(ctx, "Naming collisions detected!")
	for _, c := range collisions {
		r.Error(ctx, c.Description)
	}
}

func (r *plainReporter) Confirm(ctx context.Context) (bool, error) {
	r.Warning(ctx, "This operation will modify your files and directories.")
	return askProceed()
}

func (r *plainReporter) StartProgress(ctx context.Context, label string, total int) Progress {
	return noopProgress{}
}

func (r *plainReporter) Result(ctx context.Context, stats *plan.Stats, dryRun bool) {
	if dryRun {
		fmt.Fprintln(r.out, "Dry run complete. No changes were made.")
	} else {
		fmt.Fprintln(r.out, "Operation completed successfully.")
	}
	fmt.Fprintf(r.out, "Total changes: %d\n", stats.TotalChanges())

	for _, e := range stats.Errors() {
		r.Error(ctx, e)
	}
}
