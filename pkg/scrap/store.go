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
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"gitlab.com/tozd/go/errors"
)

const (
	// Dir is the holding folder created at the workspace root.
	Dir = ".scrap"

	// MetadataFile sits inside the holding folder and records where
	// each item came from.
	MetadataFile = ".metadata.json"

	// storeVersion is the on-disk format version of the ledger.
	storeVersion = 1
)

// Entry records a single scrapped item.
type Entry struct {
	// OriginalPath is the absolute path the item was moved away from.
	OriginalPath string `json:"original_path"`
	// ScrappedAt is when the move happened, in UTC.
	ScrappedAt time.Time `json:"scrapped_at"`
	// ScrappedName is the name the item carries inside the folder. It
	// differs from the original base name when a conflict suffix was
	// applied.
	ScrappedName string `json:"scrapped_name"`
}

// 📝 Store is the sidecar ledger of a .scrap folder, keyed by the name
// each item carries inside the folder. Items moved into the folder by
// other means simply have no entry; every operation tolerates that.
type Store struct {
	Version int              `json:"version"`
	Entries map[string]Entry `json:"entries"`
}

// NewStore returns an empty ledger.
func NewStore() *Store {
	return &Store{
		Version: storeVersion,
		Entries: map[string]Entry{},
	}
}

// Load reads the ledger stored in dir. A missing file yields an empty
// ledger rather than an error.
func Load(dir string) (*Store, error) {
	data, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	if os.IsNotExist(err) {
		return NewStore(), nil
	}
	if err != nil {
		return nil, errors.Errorf("reading metadata file: %w", err)
	}

	store := NewStore()
	if err := json.Unmarshal(data, store); err != nil {
		return nil, errors.Errorf("parsing metadata file: %w", err)
	}
	if store.Entries == nil {
		store.Entries = map[string]Entry{}
	}

	return store, nil
}

// Save writes the ledger into dir as indented JSON.
func (s *Store) Save(dir string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Errorf("serializing metadata: %w", err)
	}

	path := filepath.Join(dir, MetadataFile)
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return errors.Errorf("writing metadata file: %w", err)
	}

	return nil
}

// AddEntry records that scrappedName was just moved in from originalPath.
func (s *Store) AddEntry(scrappedName, originalPath string) {
	s.Entries[scrappedName] = Entry{
		OriginalPath: originalPath,
		ScrappedAt:   time.Now().UTC(),
		ScrappedName: scrappedName,
	}
}

// RemoveEntry drops the record for scrappedName, if any.
func (s *Store) RemoveEntry(scrappedName string) {
	delete(s.Entries, scrappedName)
}

// GetEntry looks up the record for scrappedName.
func (s *Store) GetEntry(scrappedName string) (Entry, bool) {
	entry, ok := s.Entries[scrappedName]
	return entry, ok
}

// MostRecent returns the newest entry in the ledger.
func (s *Store) MostRecent() (Entry, bool) {
	var best Entry
	found := false
	for _, entry := range s.Entries {
		if !found || entry.ScrappedAt.After(best.ScrappedAt) {
			best = entry
			found = true
		}
	}
	return best, found
}
