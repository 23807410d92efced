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

// Package status renders a rename run for its audience. The engine drives
// a single Reporter interface; the human, plain and json implementations
// decide how much of the run is shown and in what shape, which keeps
// terminal-capability concerns out of the engine's control flow.
package status

import (
	"context"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/refac/pkg/collision"
	"github.com/walteh/refac/pkg/config"
	"github.com/walteh/refac/pkg/plan"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Reporter is everything the engine says to the outside world during a
// run. Implementations must tolerate any call order the phase machine can
// produce, and must never mutate the filesystem.
type Reporter interface {
	// Begin announces the run configuration before discovery starts.
	Begin(ctx context.Context, cfg *config.RenameConfig)

	// Info reports phase transitions and other neutral progress notes.
	Info(ctx context.Context, msg string)

	// Success reports a positive outcome line.
	Success(ctx context.Context, msg string)

	// Warning reports a non-fatal concern.
	Warning(ctx context.Context, msg string)

	// Error reports a per-item failure. Errors never stop the run by
	// themselves, so they must reach the user even in quiet formats.
	Error(ctx context.Context, msg string)

	// Verbose reports detail lines shown only when the run is verbose.
	Verbose(ctx context.Context, msg string)

	// Summary presents the planned changes before anything executes.
	Summary(ctx context.Context, sum plan.Summary, contentFiles []string, items []plan.RenameItem)

	// NoChanges closes out a run that found nothing to do. Machine formats
	// still emit their final result object here.
	NoChanges(ctx context.Context, dryRun bool)

	// Collisions presents the blocking conflicts that abort the run.
	Collisions(ctx context.Context, collisions []collision.Collision)

	// Confirm asks whether to proceed. Implementations without an
	// interactive surface answer true.
	Confirm(ctx context.Context) (bool, error)

	// StartProgress begins live progress for one phase. total 0 means the
	// amount of work is unknown.
	StartProgress(ctx context.Context, label string, total int) Progress

	// Result presents the final outcome of the run.
	Result(ctx context.Context, stats *plan.Stats, dryRun bool)
}

// Progress is a live handle for one phase's progress display.
type Progress interface {
	// Update advances the display by one item.
	Update(detail string)
	// Finish ends the display with a closing message.
	Finish(message string)
}

// noopProgress is used wherever live progress would pollute the output.
type noopProgress struct{}

func (noopProgress) Update(string)  {}
func (noopProgress) Finish(string) {}

// NopProgress displays nothing. Callers that run a phase without a live
// display pass this instead of nil.
var NopProgress Progress = noopProgress{}

// Options configures reporter construction.
type Options struct {
	Config *config.RenameConfig

	// Stdout and Stderr default to the process streams.
	Stdout io.Writer
	Stderr io.Writer
}

// askProceed prompts the user for a go/no-go decision. Declining is the
// default, so an accidental enter never mutates anything.
func askProceed() (bool, error) {
	confirmed, err := pterm.DefaultInteractiveConfirm.
		WithDefaultValue(false).
		Show("Do you want to proceed?")
	if err != nil {
		return false, errors.Errorf("getting user confirmation: %w", err)
	}
	return confirmed, nil
}

// 🏭 NewReporter builds the reporter matching the configured output format.
// The structured logger is taken from ctx so reporters share whatever log
// destination the caller configured.
func NewReporter(ctx context.Context, opts Options) Reporter {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	zlog := zerolog.Ctx(ctx)

	switch opts.Config.Format {
	case config.FormatJSON:
		return newJSONReporter(opts.Config, opts.Stdout, opts.Stderr, *zlog)
	case config.FormatPlain:
		return newPlainReporter(opts.Config, opts.Stdout, opts.Stderr, *zlog)
	default:
		return newHumanReporter(opts.Config, opts.Stdout, opts.Stderr, *zlog)
	}
}
