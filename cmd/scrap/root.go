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
	"github.com/walteh/refac/pkg/log"
	"github.com/walteh/refac/pkg/scrap"
)

var (
	verbose bool
	debug   bool
)

// newWorkspace builds the scrap workspace for the current directory,
// with logging attached to the command's context.
func newWorkspace(cmd *cobra.Command) (*scrap.Workspace, error) {
	ctx := log.NewContext(cmd.Context(), log.Options{Verbose: verbose, Debug: debug})
	cmd.SetContext(ctx)

	return scrap.New(scrap.Options{Stdout: cmd.OutOrStdout()})
}

// NewRootCmd creates the scrap command. Run with paths it moves them
// into the .scrap folder; run bare it lists the folder's contents.
func NewRootCmd() *cobra.Command {
	var sortBy string

	cmd := &cobra.Command{
		Use:   "scrap [PATH...]",
		Short: "Move files to a local .scrap folder instead of deleting them",
		Long: `scrap moves files and directories into a .scrap folder at the root of
the working directory, remembering where each item came from so unscrap
can put it back. Without arguments it lists the folder's contents.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := newWorkspace(cmd)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				order, err := scrap.ParseSortOrder(sortBy)
				if err != nil {
					return err
				}
				return ws.List(cmd.Context(), order)
			}

			for _, path := range args {
				if err := ws.Scrap(cmd.Context(), path); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	cmd.Flags().StringVar(&sortBy, "sort", string(scrap.SortByDate), "list order: date, name or size")

	cmd.AddCommand(
		newListCmd(),
		newCleanCmd(),
		newPurgeCmd(),
		newFindCmd(),
		newArchiveCmd(),
	)

	return cmd
}

func newListCmd() *cobra.Command {
	var sortBy string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the contents of the .scrap folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := newWorkspace(cmd)
			if err != nil {
				return err
			}

			order, err := scrap.ParseSortOrder(sortBy)
			if err != nil {
				return err
			}
			return ws.List(cmd.Context(), order)
		},
	}

	cmd.Flags().StringVar(&sortBy, "sort", string(scrap.SortByDate), "list order: date, name or size")

	return cmd
}

func newCleanCmd() *cobra.Command {
	var (
		days   int
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete scrapped items older than a number of days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := newWorkspace(cmd)
			if err != nil {
				return err
			}
			return ws.Clean(cmd.Context(), days, dryRun)
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "age threshold in days")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "show what would be deleted without deleting")

	return cmd
}

func newPurgeCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete everything in the .scrap folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := newWorkspace(cmd)
			if err != nil {
				return err
			}
			return ws.Purge(cmd.Context(), force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")

	return cmd
}

func newFindCmd() *cobra.Command {
	var content bool

	cmd := &cobra.Command{
		Use:   "find PATTERN",
		Short: "Search scrapped items by name or original path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := newWorkspace(cmd)
			if err != nil {
				return err
			}
			return ws.Find(cmd.Context(), args[0], content)
		},
	}

	cmd.Flags().BoolVarP(&content, "content", "c", false, "also search inside text file contents")

	return cmd
}

func newArchiveCmd() *cobra.Command {
	var (
		output string
		remove bool
	)

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Pack the .scrap folder into a tar.gz archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := newWorkspace(cmd)
			if err != nil {
				return err
			}
			return ws.Archive(cmd.Context(), output, remove)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "archive file path (default .scrap-YYYY-MM-DD.tar.gz)")
	cmd.Flags().BoolVar(&remove, "remove", false, "delete archived items from the .scrap folder")

	return cmd
}
