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
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/walteh/refac/pkg/collision"
	"github.com/walteh/refac/pkg/config"
	"github.com/walteh/refac/pkg/plan"
)

// jsonReporter emits exactly two machine-readable objects on stdout: the
// planned-change summary and the final result. Everything conversational
// goes to the structured log or stderr so stdout stays parseable.
type jsonReporter struct {
	cfg    *config.RenameConfig
	out    io.Writer
	errOut io.Writer
	zlog   zerolog.Logger
}

func newJSONReporter(cfg *config.RenameConfig, out, errOut io.Writer, zlog zerolog.Logger) *jsonReporter {
	return &jsonReporter{
		cfg:    cfg,
		out:    out,
		errOut: errOut,
		zlog:   zlog,
	}
}

type jsonCounts struct {
	ContentChanges   int `json:"content_changes"`
	FileRenames      int `json:"file_renames"`
	DirectoryRenames int `json:"directory_renames"`
	TotalChanges     int `json:"total_changes"`
}

type jsonSummary struct {
	Summary jsonCounts `json:"summary"`
	DryRun  bool       `json:"dry_run"`
}

type jsonResultStats struct {
	jsonCounts
	Errors int `json:"errors"`
}

type jsonResult struct {
	Result string          `json:"result"`
	Stats  jsonResultStats `json:"stats"`
	DryRun bool            `json:"dry_run"`
}

func counts(sum plan.Summary) jsonCounts {
	return jsonCounts{
		ContentChanges:   sum.ContentChanges,
		FileRenames:      sum.FileRenames,
		DirectoryRenames: sum.DirectoryRenames,
		TotalChanges:     sum.TotalChanges(),
	}
}

func (r *jsonReporter) emit(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(r.errOut, err)
		return
	}
	fmt.Fprintln(r.out, string(data))
}

func (r *jsonReporter) Begin(ctx context.Context, cfg *config.RenameConfig) {}

func (r *jsonReporter) Info(ctx context.Context, msg string) {
	r.zlog.Info().Msg(msg)
}

func (r *jsonReporter) Success(ctx context.Context, msg string) {
	r.zlog.Info().Msg(msg)
}

func (r *jsonReporter) Warning(ctx context.Context, msg string) {
	r.zlog.Warn().Msg(msg)
}

func (r *jsonReporter) Error(ctx context.Context, msg string) {
	fmt.Fprintln(r.errOut, msg)
	r.zlog.Error().Msg(msg)
}

func (r *jsonReporter) Verbose(ctx context.Context, msg string) {
	r.zlog.Debug().Msg(msg)
}

func (r *jsonReporter) Summary(ctx context.Context, sum plan.Summary, contentFiles []string, items []plan.RenameItem) {
	r.emit(jsonSummary{
		Summary: counts(sum),
		DryRun:  r.cfg.DryRun,
	})
}

// NoChanges still emits the result object so consumers always receive a
// complete summary/result pair.
func (r *jsonReporter) NoChanges(ctx context.Context, dryRun bool) {
	r.emit(jsonResult{
		Result: "success",
		Stats:  jsonResultStats{jsonCounts: counts(plan.Summary{})},
		DryRun: dryRun,
	})
}

func (r *jsonReporter) Collisions(ctx context.Context, collisions []collision.Collision) {
	r.Error(ctx, "Naming collisions detected!")
	for _, c := range collisions {
		r.Error(ctx, c.Description)
	}
}

// Confirm never prompts: machine consumers cannot answer.
func (r *jsonReporter) Confirm(ctx context.Context) (bool, error) {
	return true, nil
}

func (r *jsonReporter) StartProgress(ctx context.Context, label string, total int) Progress {
	return noopProgress{}
}

func (r *jsonReporter) Result(ctx context.Context, stats *plan.Stats, dryRun bool) {
	r.emit(jsonResult{
		Result: "success",
		Stats: jsonResultStats{
			jsonCounts: counts(stats.Summary),
			Errors:     stats.ErrorCount(),
		},
		DryRun: dryRun,
	})

	for _, e := range stats.Errors() {
		fmt.Fprintln(r.errOut, e)
	}
}
