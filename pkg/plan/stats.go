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

package plan

import (
	"sync"
)

// 📊 Summary holds the planned change counts, computed once after discovery
// and never mutated during execution.
type Summary struct {
	ContentChanges   int // files whose content will be rewritten
	FileRenames      int // file rename operations
	DirectoryRenames int // directory rename operations
}

// Summarize counts the planned changes for a discovered run.
func Summarize(contentFiles []string, items []RenameItem) Summary {
	sum := Summary{ContentChanges: len(contentFiles)}
	for _, item := range items {
		switch item.Type {
		case ItemTypeFile:
			sum.FileRenames++
		case ItemTypeDirectory:
			sum.DirectoryRenames++
		}
	}
	return sum
}

// TotalChanges returns the total number of planned changes.
func (s Summary) TotalChanges() int {
	return s.ContentChanges + s.FileRenames + s.DirectoryRenames
}

// 📈 Stats carries a run's planned counts plus the errors collected while
// executing. Error recording is safe for concurrent use: the parallel
// content phase pushes failures here from multiple workers.
type Stats struct {
	Summary

	mu   sync.Mutex
	errs []string
}

// NewStats creates a Stats accumulator seeded with the planned counts.
func NewStats(sum Summary) *Stats {
	return &Stats{Summary: sum}
}

// RecordError appends a per-item failure message.
func (s *Stats) RecordError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, msg)
}

// Errors returns a copy of the collected error messages.
func (s *Stats) Errors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.errs))
	copy(out, s.errs)
	return out
}

// ErrorCount returns the number of collected errors.
func (s *Stats) ErrorCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.errs)
}
