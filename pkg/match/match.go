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

// Package match decides whether filenames match the include/exclude
// patterns of a run. Patterns are tested against the base name only,
// never the full path.
package match

import (
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// 🎯 Matcher evaluates a single pattern against a filename. Pattern
// interpretation depends on the run flags: regex mode compiles the pattern
// as a regular expression, otherwise patterns are globs or substrings.
type Matcher struct {
	ignoreCase bool
	useRegex   bool

	// compiled regex cache; a nil entry marks a pattern that failed to
	// compile so we only pay for the failure once
	res map[string]*regexp.Regexp
}

// 🏭 New creates a matcher for the given case and regex rules.
func New(ignoreCase, useRegex bool) *Matcher {
	return &Matcher{
		ignoreCase: ignoreCase,
		useRegex:   useRegex,
		res:        make(map[string]*regexp.Regexp),
	}
}

// Matches reports whether name matches pattern.
//
// In regex mode an invalid expression fails closed: it matches nothing
// rather than aborting the run. Outside regex mode, ".*" matches any
// dotfile, a pattern with a single "*" is a prefix/suffix glob, patterns
// with richer glob syntax ("?", "[", multiple stars) get full glob
// matching, and anything else is a substring test.
func (m *Matcher) Matches(name, pattern string) bool {
	if m.useRegex {
		re := m.compile(pattern)
		if re == nil {
			return false
		}
		return re.MatchString(name)
	}

	if m.ignoreCase {
		name = strings.ToLower(name)
		pattern = strings.ToLower(pattern)
	}

	// ".*" is the conventional way to target dotfiles
	if pattern == ".*" {
		return strings.HasPrefix(name, ".")
	}

	if hasGlobMeta(pattern) {
		ok, err := doublestar.Match(pattern, name)
		if err != nil {
			return false
		}
		return ok
	}

	if strings.Count(pattern, "*") == 1 {
		prefix, suffix, _ := strings.Cut(pattern, "*")
		return strings.HasPrefix(name, prefix) && strings.HasSuffix(name, suffix)
	}

	return strings.Contains(name, pattern)
}

// MatchesAny reports whether name matches at least one pattern.
func (m *Matcher) MatchesAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if m.Matches(name, pattern) {
			return true
		}
	}
	return false
}

// compile returns the cached regex for pattern, or nil if it is invalid.
func (m *Matcher) compile(pattern string) *regexp.Regexp {
	if re, ok := m.res[pattern]; ok {
		return re
	}
	expr := pattern
	if m.ignoreCase {
		expr = "(?i)" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		m.res[pattern] = nil
		return nil
	}
	m.res[pattern] = re
	return re
}

// hasGlobMeta reports whether pattern uses glob syntax beyond the simple
// single-star prefix/suffix form.
func hasGlobMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "?[") || strings.Count(pattern, "*") > 1
}

// 🔍 Filter combines include and exclude pattern lists into a single
// keep-or-drop decision for a filename.
type Filter struct {
	matcher *Matcher
	include []string
	exclude []string

	includesHidden bool
}

// 🏭 NewFilter creates a filter over the given pattern lists.
func NewFilter(matcher *Matcher, include, exclude []string) *Filter {
	f := &Filter{
		matcher: matcher,
		include: include,
		exclude: exclude,
	}
	for _, pattern := range include {
		if pattern == ".*" || strings.Contains(pattern, "*") {
			f.includesHidden = true
			break
		}
	}
	return f
}

// Allows reports whether name passes the filter: when include patterns are
// configured the name must match at least one, and a match on any exclude
// pattern drops the name regardless of includes.
func (f *Filter) Allows(name string) bool {
	if len(f.include) > 0 && !f.matcher.MatchesAny(name, f.include) {
		return false
	}
	if len(f.exclude) > 0 && f.matcher.MatchesAny(name, f.exclude) {
		return false
	}
	return true
}

// IncludesHidden reports whether the include patterns explicitly target
// dotfiles, which lifts the default exclusion of hidden entries.
func (f *Filter) IncludesHidden() bool {
	return f.includesHidden
}
