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

// Package log bootstraps the structured logger shared by the refac
// binaries. The logger travels in the context; packages pick it up with
// zerolog.Ctx(ctx) and never construct their own. Diagnostics go to
// stderr so machine-readable stdout formats stay clean.
package log

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// Options configures logger construction.
type Options struct {
	// Writer receives log output. Defaults to os.Stderr.
	Writer io.Writer

	// Verbose lowers the level to Debug.
	Verbose bool

	// Debug lowers the level to Trace and wins over Verbose.
	Debug bool

	// NoColor disables console colors, for plain and json output modes
	// and for tests.
	NoColor bool
}

// Level resolves the log level from the shared CLI flags.
func Level(verbose, debug bool) zerolog.Level {
	switch {
	case debug:
		return zerolog.TraceLevel
	case verbose:
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}

// 🏭 New builds the logger the binaries share: a console writer with
// timestamps, leveled by the verbose/debug flags.
func New(opts Options) zerolog.Logger {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}

	console := zerolog.ConsoleWriter{
		Out:     opts.Writer,
		NoColor: opts.NoColor,
	}

	return zerolog.New(console).
		Level(Level(opts.Verbose, opts.Debug)).
		With().
		Timestamp().
		Logger()
}

// NewContext builds the logger and attaches it to ctx in one step, the
// usual first line of a binary's main.
func NewContext(ctx context.Context, opts Options) context.Context {
	logger := New(opts)
	return logger.WithContext(ctx)
}

// PrintError writes a fatal error the way every refac binary reports
// one: a red "Error:" prefix and the message, on its own line.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("Error:"), err)
}
