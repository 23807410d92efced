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
	"os"

	"github.com/spf13/cobra"
	"github.com/walteh/refac/pkg/log"
	"github.com/walteh/refac/pkg/verbump"
	"gitlab.com/tozd/go/errors"
)

var (
	verbose bool
	debug   bool
)

// newWorkspace resolves the enclosing git repository and binds a verbump
// workspace to its root.
func newWorkspace(cmd *cobra.Command) (*verbump.Workspace, error) {
	ctx := log.NewContext(cmd.Context(), log.Options{Verbose: verbose, Debug: debug})
	cmd.SetContext(ctx)

	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Errorf("getting working directory: %w", err)
	}

	root, err := verbump.FindRoot(wd)
	if err != nil {
		return nil, err
	}

	return verbump.New(verbump.Options{Root: root, Stdout: cmd.OutOrStdout()})
}

// hookCommand is the line the pre-commit hook runs: this binary by its
// installed path.
func hookCommand() string {
	exe, err := os.Executable()
	if err != nil {
		return "verbump"
	}
	return exe
}

// NewRootCmd creates the verbump command. Run bare it installs the hook
// when missing, otherwise updates the version.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verbump",
		Short: "Automatic version bumping based on git commits and changes",
		Long: `verbump derives MAJOR.MINOR.PATCH from git history: the latest tag,
the commits since it, and the lines changed since it. Installed as a
pre-commit hook it keeps a version file current on every commit.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := newWorkspace(cmd)
			if err != nil {
				return err
			}

			installed, err := ws.HookInstalled()
			if err != nil {
				return err
			}
			if installed {
				return ws.Update(cmd.Context())
			}
			return ws.InstallHook(cmd.Context(), hookCommand(), false)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newInstallCmd(),
		newUninstallCmd(),
		newShowCmd(),
		newUpdateCmd(),
		newStatusCmd(),
	)

	return cmd
}

func newInstallCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install verbump as a pre-commit hook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := newWorkspace(cmd)
			if err != nil {
				return err
			}
			return ws.InstallHook(cmd.Context(), hookCommand(), force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "reinstall even if already installed")

	return cmd
}

func newUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "uninstall",
		Aliases: []string{"unhook"},
		Short:   "Remove verbump from the pre-commit hook",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := newWorkspace(cmd)
			if err != nil {
				return err
			}
			return ws.UninstallHook(cmd.Context())
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the computed version without updating anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := newWorkspace(cmd)
			if err != nil {
				return err
			}
			return ws.Show(cmd.Context())
		},
	}
}

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Write the computed version to the version file and stage it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := newWorkspace(cmd)
			if err != nil {
				return err
			}
			return ws.Update(cmd.Context())
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report hook, configuration and version file state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := newWorkspace(cmd)
			if err != nil {
				return err
			}
			return ws.Status(cmd.Context())
		},
	}
}
