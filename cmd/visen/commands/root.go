/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package commands implements the visen command tree.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"visen/internal/config"
	"visen/internal/crash"
	applog "visen/internal/log"
	"visen/internal/storage"
	"visen/internal/telemetry"
)

// app carries global flags and the loaded configuration for one invocation.
type app struct {
	dir     string
	noClear bool
	styled  bool
	withPDF bool
	formats string

	cfg    config.AppConfig
	cfgErr error
}

// NewRootCommand builds a fresh command tree. Running the root without a
// subcommand is the same as "visen build".
func NewRootCommand() *cobra.Command {
	a := &app{cfg: config.Defaults()}

	root := &cobra.Command{
		Use:   "visen",
		Short: "Screenplay metrics for markdown scripts",
		Long: `visen reads the SCRIPT.md of a project and reports its title, word counts
and estimated runtime. It also writes README.md and docs/index.html.

Script conventions:
  # Title           level-1 headings form the title
  > 2m 30s          block quotes hold blocked (non-dialogue) time
  ` + "```" + `               code blocks hold dialogue; ALL-CAPS words are cues

Dialogue is estimated at 2.5 seconds per word.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.setup(cmd)
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			telemetry.Default().Flush(ctx)
		},
		RunE: a.withCrash(a.runBuild),
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.dir, "dir", "C", ".", "project directory")
	pf.BoolVar(&a.noClear, "no-clear", false, "do not clear the terminal before printing the summary")
	pf.BoolVar(&a.styled, "styled", false, "print a colored summary")

	root.AddCommand(
		newBuildCommand(a),
		newInitCommand(a),
		newShowCommand(a),
		newWatchCommand(a),
		newHistoryCommand(a),
		newPDFCommand(a),
		newConfigCommand(a),
		newVersionCommand(),
	)
	return root
}

// setup loads configuration and installs the logger. A broken config file
// is reported but does not stop the command; defaults and env still apply.
func (a *app) setup(cmd *cobra.Command) {
	a.cfg, a.cfgErr = config.Load()
	lc := a.cfg.Logging
	applog.InitTo(cmd.ErrOrStderr(), applog.Options{
		Level:     lc.Level,
		Format:    lc.Format,
		AddSource: lc.Source,
		File:      lc.File,
	})
	if a.cfgErr != nil {
		applog.WithComponent("cli").Warn("config not loaded, using defaults", slog.Any("err", a.cfgErr))
	}
}

// root returns the absolute project directory.
func (a *app) root() string {
	abs, err := filepath.Abs(a.dir)
	if err != nil {
		return a.dir
	}
	return abs
}

// withCrash wraps a RunE so that a panic produces a crash report in the
// project state directory.
func (a *app) withCrash(fn func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer crash.Recover(a.crashRoot())
		return fn(cmd, args)
	}
}

// crashRoot is the project root if it looks like a project, else "".
func (a *app) crashRoot() string {
	root := a.root()
	if _, err := storage.Open(root, ""); err != nil {
		return ""
	}
	return root
}

func (a *app) open(ctx context.Context) (*storage.ProjectHandle, context.Context, error) {
	root := a.root()
	ph, err := storage.Open(root, a.cfg.Project.ScriptFile)
	if err != nil {
		return nil, ctx, err
	}
	return ph, applog.ContextWithProject(ctx, root), nil
}

func (a *app) clearScreen() bool {
	return !a.noClear && a.cfg.Project.ClearScreen
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
