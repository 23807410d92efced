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

package main

import (
	"github.com/spf13/cobra"
	"github.com/walteh/refac/pkg/config"
	"github.com/walteh/refac/pkg/engine"
	"github.com/walteh/refac/pkg/log"
	"github.com/walteh/refac/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// rootFlags is the full flag surface of the refac command.
type rootFlags struct {
	dryRun         bool
	force          bool
	verbose        bool
	debug          bool
	followSymlinks bool
	backup         bool
	ignoreCase     bool
	useRegex       bool

	filesOnly   bool
	dirsOnly    bool
	namesOnly   bool
	contentOnly bool

	maxDepth int
	threads  int

	exclude []string
	include []string

	format   string
	progress string
}

// NewRootCmd creates the refac command.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "refac ROOT OLD NEW",
		Short: "Collision-safe bulk rename and replace across a directory tree",
		Long: `refac replaces every occurrence of OLD with NEW in the names and the
textual contents of the files and directories under ROOT. Before anything
is touched it detects every naming collision the renames would cause and
aborts with the full list, so a partially renamed tree can never happen
by surprise. Use --dry-run to preview the changes.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, flags, args[0], args[1], args[2])
		},
	}

	registerFlags(cmd, flags)

	return cmd
}

func registerFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "d", false, "show planned changes without touching the filesystem")
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "skip the confirmation prompt")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "report every modified and renamed item")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "follow symbolic links during traversal")
	cmd.Flags().BoolVarP(&flags.backup, "backup", "b", false, "write a .bak sibling before modifying a file")
	cmd.Flags().BoolVarP(&flags.ignoreCase, "ignore-case", "i", false, "match OLD case-insensitively")
	cmd.Flags().BoolVarP(&flags.useRegex, "regex", "r", false, "treat include/exclude patterns as regular expressions")

	cmd.Flags().BoolVar(&flags.filesOnly, "files-only", false, "only process files")
	cmd.Flags().BoolVar(&flags.dirsOnly, "dirs-only", false, "only rename directories")
	cmd.Flags().BoolVar(&flags.namesOnly, "names-only", false, "only rename, never rewrite content")
	cmd.Flags().BoolVar(&flags.contentOnly, "content-only", false, "only rewrite content, never rename")

	cmd.Flags().IntVar(&flags.maxDepth, "max-depth", 0, "limit traversal depth (0 = unlimited, max 1000)")
	cmd.Flags().IntVarP(&flags.threads, "threads", "j", 0, "content-rewrite workers (0 = auto-detect)")

	cmd.Flags().StringArrayVar(&flags.exclude, "exclude", nil, "skip entries matching the pattern (repeatable)")
	cmd.Flags().StringArrayVar(&flags.include, "include", nil, "only consider entries matching the pattern (repeatable)")

	cmd.Flags().StringVar(&flags.format, "format", "human", "output format: human, json or plain")
	cmd.Flags().StringVar(&flags.progress, "progress", "auto", "progress display: auto, never or always")
}

// buildConfig folds the flags, the positionals and the optional defaults
// file into a validated RenameConfig.
func buildConfig(cmd *cobra.Command, flags *rootFlags, root, oldString, newString string) (*config.RenameConfig, error) {
	cfg, err := config.New(root, oldString, newString)
	if err != nil {
		return nil, err
	}

	mode, err := config.ModeFromFlags(flags.filesOnly, flags.dirsOnly, flags.namesOnly, flags.contentOnly)
	if err != nil {
		return nil, err
	}
	cfg.Mode = mode

	format, err := config.ParseOutputFormat(flags.format)
	if err != nil {
		return nil, err
	}
	cfg.Format = format

	progress, err := config.ParseProgressMode(flags.progress)
	if err != nil {
		return nil, err
	}
	cfg.Progress = progress

	cfg.DryRun = flags.dryRun
	cfg.Force = flags.force
	cfg.Verbose = flags.verbose
	cfg.FollowSymlinks = flags.followSymlinks
	cfg.Backup = flags.backup
	cfg.IgnoreCase = flags.ignoreCase
	cfg.UseRegex = flags.useRegex
	cfg.MaxDepth = flags.maxDepth
	cfg.Threads = flags.threads
	cfg.IncludePatterns = flags.include
	cfg.ExcludePatterns = flags.exclude

	// A defaults file in the root tree fills in whatever the command
	// line left unset.
	if path, ok := config.FindDefaultsFile(cfg.RootDir); ok {
		defaults, err := config.LoadDefaults(path)
		if err != nil {
			return nil, err
		}
		if err := defaults.Apply(cfg, cmd.Flags().Changed); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Machine-readable output can never stop to ask a question.
	if cfg.Format == config.FormatJSON {
		cfg.Force = true
	}

	return cfg, nil
}

func runRoot(cmd *cobra.Command, flags *rootFlags, root, oldString, newString string) error {
	ctx := log.NewContext(cmd.Context(), log.Options{
		Verbose: flags.verbose,
		Debug:   flags.debug,
		NoColor: flags.format != "human",
	})

	cfg, err := buildConfig(cmd, flags, root, oldString, newString)
	if err != nil {
		return err
	}

	reporter := status.NewReporter(ctx, status.Options{
		Config: cfg,
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	})

	outcome, err := engine.New(engine.Options{
		Config:   cfg,
		Reporter: reporter,
	}).Run(ctx)

	if outcome.ExitCode() != 0 {
		if err != nil {
			return err
		}
		return errors.Errorf("run %s", outcome)
	}

	return nil
}
