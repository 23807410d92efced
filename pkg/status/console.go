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
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎯 Console renders leveled, color-coded lines for a person watching the
// run, and mirrors every line into the structured log. Info, Success and
// Warning go to out; Error goes to errOut so machine-readable stdout modes
// stay clean.
type Console struct {
	out    io.Writer
	errOut io.Writer
	zlog   zerolog.Logger
	mu     sync.Mutex
}

// 🏭 NewConsole creates a console writing human lines to out and errOut,
// mirroring into zlog.
func NewConsole(out, errOut io.Writer, zlog zerolog.Logger) *Console {
	return &Console{
		out:    out,
		errOut: errOut,
		zlog:   zlog,
	}
}

// 📝 Info logs an info message
func (c *Console) Info(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	c.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (c *Console) Success(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	c.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (c *Console) Warning(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	c.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (c *Console) Error(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.errOut, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	c.zlog.Error().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (c *Console) Infof(format string, args ...any) {
	c.Info(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (c *Console) Successf(format string, args ...any) {
	c.Success(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (c *Console) Warningf(format string, args ...any) {
	c.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (c *Console) Errorf(format string, args ...any) {
	c.Error(fmt.Sprintf(format, args...))
}
