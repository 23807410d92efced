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
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Archive writes the holding folder's contents to a gzipped tarball in
// the workspace root, named .scrap-YYYY-MM-DD.tar.gz unless overridden.
// The metadata ledger rides along so an extracted archive keeps its
// origin records. With remove set, archived items are deleted and the
// ledger reset afterwards.
func (w *Workspace) Archive(ctx context.Context, output string, remove bool) error {
	entries, err := os.ReadDir(w.dir)
	if os.IsNotExist(err) {
		fmt.Fprintln(w.out, color.New(color.FgYellow).Sprint("The .scrap folder is empty."))
		return nil
	}
	if err != nil {
		return errors.Errorf("reading %s directory: %w", Dir, err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(w.out, color.New(color.FgYellow).Sprint("The .scrap folder is empty."))
		return nil
	}

	name := output
	if name == "" {
		name = fmt.Sprintf("%s-%s.tar.gz", Dir, time.Now().Format("2006-01-02"))
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.root, path)
	}

	fmt.Fprintf(w.out, "%s .scrap folder to %s...\n", color.New(color.Bold).Sprint("Archiving"), name)

	file, err := os.Create(path)
	if err != nil {
		return errors.Errorf("creating archive %s: %w", name, err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	tw := tar.NewWriter(gz)

	count := 0
	var totalSize uint64
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") && entry.Name() != MetadataFile {
			continue
		}
		size, err := w.appendToArchive(tw, entry.Name())
		if err != nil {
			return err
		}
		totalSize += size
		count++
	}

	if err := tw.Close(); err != nil {
		return errors.Errorf("finalizing archive: %w", err)
	}
	if err := gz.Close(); err != nil {
		return errors.Errorf("finalizing archive: %w", err)
	}
	if err := file.Close(); err != nil {
		return errors.Errorf("closing archive: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("archive", path).
		Int("entries", count).
		Msg("archived scrap folder")
	fmt.Fprintf(w.out, "%s %d files (%s) to %s\n",
		color.New(color.FgGreen, color.Bold).Sprint("Archived"), count, humanize.Bytes(totalSize), name)

	if remove {
		for _, entry := range entries {
			if strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			if err := removeItem(filepath.Join(w.dir, entry.Name())); err != nil {
				return err
			}
		}
		if err := NewStore().Save(w.dir); err != nil {
			return err
		}
		fmt.Fprintf(w.out, "%s archived files from .scrap folder\n", color.New(color.FgRed).Sprint("Removed"))
	}

	return nil
}

// appendToArchive writes the named top-level item, and for a directory
// everything under it, to the tar stream. Entry names are kept relative
// to the holding folder so extraction recreates its layout.
func (w *Workspace) appendToArchive(tw *tar.Writer, name string) (uint64, error) {
	root := filepath.Join(w.dir, name)

	var total uint64
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(w.dir, path)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		link := ""
		if info.Mode()&fs.ModeSymlink != 0 {
			link, err = os.Readlink(path)
			if err != nil {
				return err
			}
		}

		header, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		if d.IsDir() {
			header.Name += "/"
		}

		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		if d.IsDir() || !info.Mode().IsRegular() {
			return nil
		}

		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()

		if _, err := io.Copy(tw, src); err != nil {
			return err
		}
		total += uint64(info.Size())
		return nil
	})
	if err != nil {
		return 0, errors.Errorf("archiving %s: %w", name, err)
	}

	return total, nil
}
