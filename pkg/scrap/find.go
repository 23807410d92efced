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

package scrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/refac/pkg/detect"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Find searches the holding folder with a regular expression. Item
// names and recorded original paths always participate; file contents
// only when searchContent is set, and only for files the detector
// considers text.
func (w *Workspace) Find(ctx context.Context, pattern string, searchContent bool) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return errors.Errorf("compiling search pattern %q: %w", pattern, err)
	}

	store, err := Load(w.dir)
	if err != nil {
		return err
	}

	fmt.Fprintf(w.out, "%s for '%s'...\n\n", color.New(color.Bold).Sprint("Searching"), pattern)

	entries, err := os.ReadDir(w.dir)
	if err != nil && !os.IsNotExist(err) {
		return errors.Errorf("reading %s directory: %w", Dir, err)
	}

	detector := detect.New()
	found := 0
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		switch {
		case re.MatchString(name):
			w.printMatch(store, name, entry.IsDir(), "filename match")
			found++
		case matchesOrigin(store, name, re):
			w.printMatch(store, name, entry.IsDir(), "path match")
			found++
		case searchContent && !entry.IsDir():
			path := filepath.Join(w.dir, name)
			ok, err := contentMatches(detector, path, re)
			if err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("skipping unreadable file")
				continue
			}
			if ok {
				w.printMatch(store, name, false, "content match")
				found++
			}
		}
	}

	if found == 0 {
		fmt.Fprintln(w.out, color.New(color.FgYellow).Sprint("No matches found."))
	} else {
		fmt.Fprintf(w.out, "\n%s %d matches\n", color.New(color.FgGreen, color.Bold).Sprint("Found"), found)
	}

	return nil
}

// matchesOrigin reports whether the ledger's original path for name
// matches the pattern.
func matchesOrigin(store *Store, name string, re *regexp.Regexp) bool {
	record, ok := store.GetEntry(name)
	return ok && re.MatchString(record.OriginalPath)
}

// contentMatches greps a single file. Binary files never match.
func contentMatches(detector *detect.Detector, path string, re *regexp.Regexp) (bool, error) {
	isText, err := detector.IsText(path)
	if err != nil || !isText {
		return false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, errors.Errorf("reading %s: %w", path, err)
	}
	return re.Match(data), nil
}

func (w *Workspace) printMatch(store *Store, name string, isDir bool, matchType string) {
	indicator := "📄"
	if isDir {
		indicator = "📁"
	}

	fmt.Fprintf(w.out, "%s %s ", indicator, color.New(color.FgCyan).Sprint(name))
	if record, ok := store.GetEntry(name); ok {
		fmt.Fprintf(w.out, "(%s, from: %s) ", humanize.Time(record.ScrappedAt), record.OriginalPath)
	}
	fmt.Fprintf(w.out, "[%s]\n", color.New(color.FgYellow).Sprint(matchType))
}
