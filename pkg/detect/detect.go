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

// Package detect decides whether a file is safe to treat as text. The
// verdict is a cascade of three checks, each short-circuiting on a binary
// result: a known-binary extension table, content sniffing of a bounded
// sample against the recognized text encodings, and a statistical
// non-printable-byte fallback.
package detect

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultSampleSize is how many leading bytes are inspected.
	DefaultSampleSize = 8192
	// DefaultBinaryThreshold is the non-printable byte ratio above which
	// the statistical fallback declares a file binary.
	DefaultBinaryThreshold = 0.3
)

// Diagnostic reasons returned by Explain.
const (
	ReasonExtension = "Binary file extension"
	ReasonSniff     = "Content inspection detected binary"
	ReasonNullByte  = "Contains null bytes"
)

// 🎯 Detector classifies files as text or binary.
type Detector struct {
	sampleSize int
	threshold  float64
}

// 🏭 New creates a detector with the default sample size and threshold.
func New() *Detector {
	return NewWithLimits(DefaultSampleSize, DefaultBinaryThreshold)
}

// NewWithLimits creates a detector with a custom sample size and
// non-printable ratio threshold.
func NewWithLimits(sampleSize int, threshold float64) *Detector {
	return &Detector{sampleSize: sampleSize, threshold: threshold}
}

// IsBinary reports whether the file at path should be treated as binary.
// An empty file is always text.
func (d *Detector) IsBinary(path string) (bool, error) {
	reason, err := d.classify(path)
	if err != nil {
		return false, err
	}
	return reason != "", nil
}

// IsText reports whether the file at path is safe to process as text.
func (d *Detector) IsText(path string) (bool, error) {
	binary, err := d.IsBinary(path)
	if err != nil {
		return false, err
	}
	return !binary, nil
}

// Explain returns the diagnostic reason a file is considered binary, or ""
// for a text file. The result is always consistent with IsBinary: a
// non-empty reason means IsBinary returns true.
func (d *Detector) Explain(path string) (string, error) {
	return d.classify(path)
}

// classify runs the full cascade and returns the binary reason, or "" for
// text.
func (d *Detector) classify(path string) (string, error) {
	if isBinaryExtension(path) {
		return ReasonExtension, nil
	}

	sample, truncated, err := d.readSample(path)
	if err != nil {
		return "", err
	}

	switch sniff(sample, truncated) {
	case sniffText:
		return "", nil
	case sniffBinary:
		return ReasonSniff, nil
	}

	// Statistical fallback over the same sample.
	if len(sample) == 0 {
		return "", nil
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return ReasonNullByte, nil
	}
	nonPrintable := 0
	for _, b := range sample {
		if !isPrintableASCII(b) && !isUTF8Start(b) {
			nonPrintable++
		}
	}
	ratio := float64(nonPrintable) / float64(len(sample))
	if ratio > d.threshold {
		return fmt.Sprintf("High ratio of non-printable characters: %.1f%%", ratio*100), nil
	}
	return "", nil
}

// readSample reads up to sampleSize leading bytes. truncated reports
// whether the file may continue past the sample.
func (d *Detector) readSample(path string) ([]byte, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, errors.Errorf("opening file for inspection: %w", err)
	}
	defer f.Close()

	buf := make([]byte, d.sampleSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, false, errors.Errorf("reading file for inspection: %w", err)
	}
	return buf[:n], n == d.sampleSize, nil
}

type sniffVerdict int

const (
	sniffInconclusive sniffVerdict = iota
	sniffText
	sniffBinary
)

// byte-order marks for the recognized encodings; UTF-32 marks must be
// tested before their UTF-16 prefixes
var boms = [][]byte{
	{0xFF, 0xFE, 0x00, 0x00}, // UTF-32 LE
	{0x00, 0x00, 0xFE, 0xFF}, // UTF-32 BE
	{0xEF, 0xBB, 0xBF},       // UTF-8
	{0xFF, 0xFE},             // UTF-16 LE
	{0xFE, 0xFF},             // UTF-16 BE
}

// sniff decides text vs binary from the sample alone. It returns
// sniffInconclusive when the sample is neither decodable as a recognized
// encoding nor clearly binary, leaving the verdict to the statistical
// fallback. The null check runs before UTF-8 validation: NUL is a legal
// UTF-8 code point but never appears in text we are willing to rewrite.
func sniff(sample []byte, truncated bool) sniffVerdict {
	if len(sample) == 0 {
		return sniffText
	}
	for _, bom := range boms {
		if bytes.HasPrefix(sample, bom) {
			return sniffText
		}
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		if looksUTF16(sample) || looksUTF32(sample) {
			return sniffText
		}
		return sniffBinary
	}
	if validUTF8Sample(sample, truncated) {
		return sniffText
	}
	return sniffInconclusive
}

// validUTF8Sample reports whether the sample decodes as UTF-8, tolerating
// one multibyte sequence cut off at the sample boundary.
func validUTF8Sample(sample []byte, truncated bool) bool {
	if utf8.Valid(sample) {
		return true
	}
	if !truncated {
		return false
	}
	end := len(sample)
	for i := 1; i <= utf8.UTFMax && end-i >= 0; i++ {
		b := sample[end-i]
		if b&0xC0 == 0x80 {
			// continuation byte, keep walking back to the lead
			continue
		}
		if b >= 0xC0 && utf8SeqLen(b) > i {
			return utf8.Valid(sample[:end-i])
		}
		break
	}
	return false
}

// utf8SeqLen returns the encoded length implied by a UTF-8 lead byte.
func utf8SeqLen(lead byte) int {
	switch {
	case lead >= 0xF0:
		return 4
	case lead >= 0xE0:
		return 3
	case lead >= 0xC0:
		return 2
	default:
		return 1
	}
}

// looksUTF16 reports whether the null-byte distribution matches BOM-less
// UTF-16: at least 90% of one byte position per pair null and none on the
// other. That holds for Latin-script text, which is the only case worth
// guessing without a mark.
func looksUTF16(sample []byte) bool {
	if len(sample) < 4 {
		return false
	}
	n := len(sample) &^ 1
	var evenNulls, oddNulls int
	for i := 0; i < n; i++ {
		if sample[i] == 0 {
			if i%2 == 0 {
				evenNulls++
			} else {
				oddNulls++
			}
		}
	}
	pairs := n / 2
	le := evenNulls == 0 && oddNulls*10 >= pairs*9
	be := oddNulls == 0 && evenNulls*10 >= pairs*9
	return le || be
}

// looksUTF32 reports whether the sample resembles BOM-less UTF-32 holding
// low-codepoint text: three-null patterns per four-byte word.
func looksUTF32(sample []byte) bool {
	if len(sample) < 8 {
		return false
	}
	n := len(sample) &^ 3
	words := n / 4
	var le, be int
	for i := 0; i+4 <= n; i += 4 {
		if sample[i] != 0 && sample[i+1] == 0 && sample[i+2] == 0 && sample[i+3] == 0 {
			le++
		}
		if sample[i] == 0 && sample[i+1] == 0 && sample[i+2] == 0 && sample[i+3] != 0 {
			be++
		}
	}
	return le*10 >= words*9 || be*10 >= words*9
}

// isPrintableASCII reports whether b is printable ASCII, tab, LF, or CR.
func isPrintableASCII(b byte) bool {
	return (b >= 0x20 && b <= 0x7E) || b == '\t' || b == '\n' || b == '\r'
}

// isUTF8Start reports whether b can begin a UTF-8 sequence.
func isUTF8Start(b byte) bool {
	return b < 0x80 || (b >= 0xC0 && b < 0xF8)
}

// isBinaryExtension checks the fixed table of known binary extensions,
// case-insensitively. Dotfiles like ".gitignore" have no extension.
func isBinaryExtension(path string) bool {
	base := filepath.Base(path)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 || i == len(base)-1 {
		return false
	}
	_, ok := binaryExtensions[strings.ToLower(base[i+1:])]
	return ok
}

var binaryExtensions = map[string]struct{}{
	// executables and packages
	"exe": {}, "dll": {}, "so": {}, "dylib": {}, "app": {},
	"deb": {}, "rpm": {}, "msi": {}, "dmg": {},
	// archives
	"zip": {}, "tar": {}, "gz": {}, "bz2": {}, "xz": {}, "7z": {},
	"rar": {}, "cab": {},
	// images
	"jpg": {}, "jpeg": {}, "png": {}, "gif": {}, "bmp": {}, "tiff": {},
	"tif": {}, "webp": {}, "svg": {}, "ico": {}, "cur": {},
	// video
	"mp4": {}, "avi": {}, "mkv": {}, "mov": {}, "wmv": {}, "flv": {},
	"webm": {}, "m4v": {}, "3gp": {},
	// audio
	"mp3": {}, "wav": {}, "flac": {}, "aac": {}, "ogg": {}, "m4a": {},
	"wma": {},
	// documents
	"pdf": {}, "doc": {}, "docx": {}, "xls": {}, "xlsx": {}, "ppt": {},
	"pptx": {}, "odt": {}, "ods": {}, "odp": {},
	// databases
	"db": {}, "sqlite": {}, "sqlite3": {}, "mdb": {}, "accdb": {},
	// object and build artifacts
	"o": {}, "obj": {}, "lib": {}, "a": {}, "pdb": {},
	"class": {}, "jar": {}, "war": {}, "ear": {},
	// misc
	"bin": {}, "dat": {}, "pak": {}, "wad": {}, "iso": {}, "img": {},
	"vdi": {}, "vmdk": {}, "qcow2": {},
}
