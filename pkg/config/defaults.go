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

package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// defaultsFileNames are probed in order when searching a directory.
var defaultsFileNames = []string{
	".refac.yaml",
	".refac.yml",
	".refac.json",
	".refac.hcl",
}

// 📝 Defaults is the optional per-project defaults file. Every field is a
// pointer (or slice) so an absent key is distinguishable from an explicit
// zero; only present keys are applied, and a flag the user set on the
// command line always wins over the file.
type Defaults struct {
	Backup         *bool    `json:"backup,omitempty" yaml:"backup,omitempty" hcl:"backup,optional"`
	IgnoreCase     *bool    `json:"ignore_case,omitempty" yaml:"ignore_case,omitempty" hcl:"ignore_case,optional"`
	UseRegex       *bool    `json:"use_regex,omitempty" yaml:"use_regex,omitempty" hcl:"use_regex,optional"`
	FollowSymlinks *bool    `json:"follow_symlinks,omitempty" yaml:"follow_symlinks,omitempty" hcl:"follow_symlinks,optional"`
	Verbose        *bool    `json:"verbose,omitempty" yaml:"verbose,omitempty" hcl:"verbose,optional"`
	Threads        *int     `json:"threads,omitempty" yaml:"threads,omitempty" hcl:"threads,optional"`
	MaxDepth       *int     `json:"max_depth,omitempty" yaml:"max_depth,omitempty" hcl:"max_depth,optional"`
	Format         *string  `json:"format,omitempty" yaml:"format,omitempty" hcl:"format,optional"`
	Progress       *string  `json:"progress,omitempty" yaml:"progress,omitempty" hcl:"progress,optional"`
	Include        []string `json:"include,omitempty" yaml:"include,omitempty" hcl:"include,optional"`
	Exclude        []string `json:"exclude,omitempty" yaml:"exclude,omitempty" hcl:"exclude,optional"`
}

// FindDefaultsFile looks for a defaults file directly inside dir and
// returns its path, or false when none exists.
func FindDefaultsFile(dir string) (string, bool) {
	for _, name := range defaultsFileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// LoadDefaults loads a defaults file. The format is determined by the file
// extension: .json for JSON, .yaml or .yml for YAML, .hcl for HCL. Unknown
// keys are rejected in every format so a typo never silently does nothing.
func LoadDefaults(path string) (*Defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading defaults file: %w", err)
	}

	var d *Defaults
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		d, err = parseDefaultsJSON(data)
	case ".yaml", ".yml":
		d, err = parseDefaultsYAML(data)
	case ".hcl":
		d, err = parseDefaultsHCL(data, path)
	default:
		return nil, errors.Errorf("unsupported defaults file extension %q", ext)
	}
	if err != nil {
		return nil, errors.Errorf("loading %s: %w", path, err)
	}

	return d, nil
}

func parseDefaultsJSON(data []byte) (*Defaults, error) {
	var d Defaults
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&d); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	return &d, nil
}

func parseDefaultsYAML(data []byte) (*Defaults, error) {
	var d Defaults
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&d); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &d, nil
}

func parseDefaultsHCL(data []byte, filename string) (*Defaults, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var d Defaults
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &d)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	return &d, nil
}

// Apply copies present defaults onto cfg. flagSet reports whether the named
// flag was given explicitly on the command line; explicit flags are never
// overridden. A nil flagSet means nothing was set explicitly.
func (d *Defaults) Apply(cfg *RenameConfig, flagSet func(name string) bool) error {
	set := func(name string) bool {
		return flagSet != nil && flagSet(name)
	}

	if d.Backup != nil && !set("backup") {
		cfg.Backup = *d.Backup
	}
	if d.IgnoreCase != nil && !set("ignore-case") {
		cfg.IgnoreCase = *d.IgnoreCase
	}
	if d.UseRegex != nil && !set("regex") {
		cfg.UseRegex = *d.UseRegex
	}
	if d.FollowSymlinks != nil && !set("follow-symlinks") {
		cfg.FollowSymlinks = *d.FollowSymlinks
	}
	if d.Verbose != nil && !set("verbose") {
		cfg.Verbose = *d.Verbose
	}
	if d.Threads != nil && !set("threads") {
		cfg.Threads = *d.Threads
	}
	if d.MaxDepth != nil && !set("max-depth") {
		cfg.MaxDepth = *d.MaxDepth
	}

	if d.Format != nil && !set("format") {
		format, err := ParseOutputFormat(*d.Format)
		if err != nil {
			return err
		}
		cfg.Format = format
	}
	if d.Progress != nil && !set("progress") {
		progress, err := ParseProgressMode(*d.Progress)
		if err != nil {
			return err
		}
		cfg.Progress = progress
	}

	if len(d.Include) > 0 && !set("include") {
		cfg.IncludePatterns = append([]string(nil), d.Include...)
	}
	if len(d.Exclude) > 0 && !set("exclude") {
		cfg.ExcludePatterns = append([]string(nil), d.Exclude...)
	}

	return nil
}
