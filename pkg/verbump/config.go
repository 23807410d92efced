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

package verbump

import (
	"encoding/json"
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

// configFileName sits at the repository root, next to .git.
const configFileName = ".verbump.json"

// 📝 Config is the per-repository verbump configuration.
type Config struct {
	Version     int    `json:"version"`
	Enabled     bool   `json:"enabled"`
	VersionFile string `json:"version_file"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Version:     1,
		Enabled:     true,
		VersionFile: "version.txt",
	}
}

// LoadConfig reads the repository's config file, falling back to the
// defaults when the file is absent.
func LoadConfig(root string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(root, configFileName))
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, errors.Errorf("reading verbump config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Errorf("parsing verbump config: %w", err)
	}

	return &cfg, nil
}

// Save writes the config to the repository root.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Errorf("serializing verbump config: %w", err)
	}

	path := filepath.Join(root, configFileName)
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return errors.Errorf("writing verbump config: %w", err)
	}

	return nil
}
