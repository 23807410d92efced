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
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/refac/pkg/collision"
	"github.com/walteh/refac/pkg/config"
	"github.com/walteh/refac/pkg/plan"
)

// humanReporter is the interactive, colorful presentation of a run.
type humanReporter struct {
	cfg          *config.RenameConfig
	console      *Console
	showProgress bool
}

func newHumanReporter(cfg *config.RenameConfig, out, errOut io.Writer, zlog zerolog.Logger) *humanReporter {
	showProgress := false
	switch cfg.Progress {
	case config.ProgressAlways:
		showProgress = true
	case config.ProgressNever:
		showProgress = false
	default:
		if f, ok := out.(*os.File); ok {
			showProgress = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}

	return &humanReporter{
		cfg:          cfg,
		console:      NewConsole(out, errOut, zlog),
		showProgress: showProgress,
	}
}

func (r *humanReporter) Begin(ctx context.Context, cfg *config.RenameConfig) {
	r.console.Success("=== REFAC TOOL ===")
	r.console.Infof("Root directory: %s", cfg.RootDir)
	r.console.Infof("Old string: '%s'", cfg.OldString)
	r.console.Infof("New string: '%s'", cfg.NewString)
	r.console.Infof("Mode: %s", cfg.Mode)

	if cfg.DryRun {
		r.console.Warning("DRY RUN MODE: No changes will be made")
	}
	if cfg.Backup {
		r.console.Info("Backup mode: Enabled")
	}
}

func (r *humanReporter) Info(ctx context.Context, msg string)    { r.console.Info(msg) }
func (r *humanReporter) Success(ctx context.Context, msg string) { r.console.Success(msg) }
func (r *humanReporter) Warning(ctx context.Context, msg string) { r.console.Warning(msg) }
func (r *humanReporter) Error(ctx context.Context, msg string)   { r.console.Error(msg) }

func (r *humanReporter) Verbose(ctx context.Context, msg string) {
	if r.cfg.Verbose {
		r.console.Info(msg)
	}
}

func (r *humanReporter) Summary(ctx context.Context, sum plan.Summary, contentFiles []string, items []plan.RenameItem) {
	r.console.Info("=== CHANGE SUMMARY ===")
	r.console.Infof("Content modifications: %d file(s)", sum.ContentChanges)
	r.console.Infof("File renames:         %d file(s)", sum.FileRenames)
	r.console.Infof("Directory renames:    %d directory(ies)", sum.DirectoryRenames)
	r.console.Infof("Total changes:        %d", sum.TotalChanges())

	if !r.cfg.Verbose {
		return
	}

	if len(contentFiles) > 0 {
		r.console.Info("\nFiles with content to modify:")
		for _, file := range contentFiles {
			r.console.Infof("  %s", file)
		}
	}
	if len(items) > 0 {
		r.console.Info("\nItems to rename:")
		for _, item := range items {
			r.console.Infof("  %s → %s", item.OriginalPath, item.NewPath)
		}
	}
}

func (r *humanReporter) NoChanges(ctx context.Context, dryRun bool) {
	r.console.Success("No changes needed.")
}

func (r *humanReporter) Collisions(ctx context.Context, collisions []collision.Collision) {
	r.console.Error("Naming collisions detected!")
	for _, c := range collisions {
		r.console.Error(c.Description)
	}
}

func (r *humanReporter) Confirm(ctx context.Context) (bool, error) {
	r.console.Warning("This operation will modify your files and directories.")
	return askProceed()
}

func (r *humanReporter) StartProgress(ctx context.Context, label string, total int) Progress {
	if !r.showProgress {
		return noopProgress{}
	}

	if total <= 0 {
		spinner, err := pterm.DefaultSpinner.Start(label)
		if err != nil {
			return noopProgress{}
		}
		return &spinnerProgress{spinner: spinner}
	}

	bar, err := pterm.DefaultProgressbar.WithTotal(total).WithTitle(label).Start()
	if err != nil {
		return noopProgress{}
	}
	return &barProgress{bar: bar}
}

func (r *humanReporter) Result(ctx context.Context, stats *plan.Stats, dryRun bool) {
	r.console.Success("=== OPERATION COMPLETE ===")

	if dryRun {
		r.console.Info("Dry run complete. No changes were made.")
	} else {
		r.console.Success("Operation completed successfully!")
		r.console.Infof("Total changes applied: %d", stats.TotalChanges())
	}

	if errs := stats.Errors(); len(errs) > 0 {
		r.console.Warningf("%d error(s) occurred:", len(errs))
		for _, e := range errs {
			r.console.Error(e)
		}
	}
}

// barProgress drives a determinate progress bar.
type barProgress struct {
	bar *pterm.ProgressbarPrinter
}

func (p *barProgress) Update(detail string) {
	p.bar.UpdateTitle(detail)
	p.bar.Increment()
}

func (p *barProgress) Finish(message string) {
	p.bar.UpdateTitle(message)
	p.bar.Stop()
}

// spinnerProgress drives an indeterminate spinner for phases whose total
// is unknown up front.
type spinnerProgress struct {
	spinner *pterm.SpinnerPrinter
}

func (p *spinnerProgress) Update(detail string) {
	p.spinner.UpdateText(detail)
}

func (p *spinnerProgress) Finish(message string) {
	p.spinner.Success(message)
}
