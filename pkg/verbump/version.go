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
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// fallbackTag is used when the repository has no tags yet.
const fallbackTag = "v0"

// 🔖 Version is the git-derived three-part version.
type Version struct {
	Major string // latest tag, fallbackTag when untagged
	Minor int    // commits since the tag
	Patch int    // added plus deleted lines since the tag
}

// String renders MAJOR.MINOR.PATCH with the tag's leading v stripped.
func (v Version) String() string {
	return fmt.Sprintf("%s.%d.%d", strings.TrimPrefix(v.Major, "v"), v.Minor, v.Patch)
}

// 🔧 Git runs git subprocesses inside one directory.
type Git struct {
	dir string
}

// NewGit creates a git runner bound to dir.
func NewGit(dir string) *Git {
	return &Git{dir: dir}
}

// run executes git with the given arguments and returns trimmed stdout.
func (g *Git) run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = g.dir

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", errors.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", errors.Errorf("running git %s: %w", strings.Join(args, " "), err)
	}

	return strings.TrimSpace(string(out)), nil
}

// IsRepository reports whether the directory is inside a git work tree.
func (g *Git) IsRepository() bool {
	_, err := g.run("rev-parse", "--git-dir")
	return err == nil
}

// FindRoot resolves the top-level directory of the repository containing
// dir.
func FindRoot(dir string) (string, error) {
	root, err := NewGit(dir).run("rev-parse", "--show-toplevel")
	if err != nil {
		return "", errors.Errorf("Not in a git repository")
	}
	return root, nil
}

// CalculateVersion computes the version from the repository's history.
func (g *Git) CalculateVersion() (Version, error) {
	major := g.tagVersion()

	minor, err := g.commitsSinceTag(major)
	if err != nil {
		return Version{}, err
	}

	patch, err := g.changesSinceTag(major)
	if err != nil {
		return Version{}, err
	}

	return Version{Major: major, Minor: minor, Patch: patch}, nil
}

// tagVersion returns the latest reachable tag, or the fallback when the
// repository has none.
func (g *Git) tagVersion() string {
	tag, err := g.run("describe", "--tags", "--abbrev=0")
	if err != nil || tag == "" {
		return fallbackTag
	}
	return tag
}

// commitsSinceTag counts commits after the tag, or all commits for an
// untagged repository.
func (g *Git) commitsSinceTag(tag string) (int, error) {
	rev := "HEAD"
	if tag != fallbackTag {
		rev = tag + "..HEAD"
	}

	out, err := g.run("rev-list", "--count", rev)
	if err != nil {
		return 0, nil
	}

	count, err := strconv.Atoi(out)
	if err != nil {
		return 0, errors.Errorf("parsing commit count %q: %w", out, err)
	}
	return count, nil
}

// changesSinceTag sums the added and deleted line counts reported by
// git log --numstat after the tag.
func (g *Git) changesSinceTag(tag string) (int, error) {
	args := []string{"log", "--pretty=tformat:", "--numstat"}
	if tag != fallbackTag {
		args = append(args, tag+"..HEAD")
	}

	out, err := g.run(args...)
	if err != nil {
		return 0, nil
	}

	return SumNumstat(out), nil
}

// SumNumstat totals the additions and deletions in git numstat output.
// Binary files report "-" columns and are skipped, matching git's own
// accounting.
func SumNumstat(output string) int {
	total := 0
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		additions, errA := strconv.Atoi(fields[0])
		deletions, errB := strconv.Atoi(fields[1])
		if errA != nil || errB != nil {
			continue
		}

		total += additions + deletions
	}
	return total
}
