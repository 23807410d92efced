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
	"gitlab.com/tozd/go/errors"
)

// NewRootCmd creates the unscrap command.
func NewRootCmd() *cobra.Command {
	var (
		verbose bool
		debug   bool
		to      string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "unscrap [NAME]",
		Short: "Restore an item from the .scrap folder",
		Long: `unscrap moves an item out of the .scrap folder back to where it was
scrapped from. Without a name it restores the most recently scrapped
item.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := log.NewContext(cmd.Context(), log.Options{Verbose: verbose, Debug: debug})

			ws, err := scrap.New(scrap.Options{Stdout: cmd.OutOrStdout()})
			if err != nil {
				return err
			}

			if len(args) == 0 {
				if to != "" || force {
					return errors.New("NAME is required when using --to or --force")
				}
				return ws.RestoreLast(ctx)
			}

			return ws.Restore(ctx, args[0], scrap.RestoreOptions{
				To:    to,
				Force: force,
			})
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	cmd.Flags().StringVar(&to, "to", "", "restore into this directory or path instead of the original")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file at the destination")

	return cmd
}
