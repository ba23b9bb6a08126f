/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package commands

import (
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	applog "visen/internal/log"
	"visen/internal/storage"
)

func newInitCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init <name>",
		Short: "Create a new project directory and build it",
		Long: `Create the directory <name> with a .visenrc manifest and a SCRIPT.md
titled <name>, then build it.`,
		Args: cobra.ArbitraryArgs,
		RunE: a.withCrash(a.runInit),
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		printf(out, "Please provide a name for the project. E.g. visen init my-project\n")
		return nil
	}
	if len(args) > 1 {
		printf(out, "Too many arguments. The extra arguments will be ignored.\n")
	}
	name := args[0]
	root := filepath.Join(a.root(), name)

	l := applog.WithComponent("cli")
	l.Info("init project", slog.String("root", root), slog.String("name", name))
	if _, err := storage.InitProject(root, name, a.cfg.Project.ScriptFile); err != nil {
		return err
	}

	// Continue as a build inside the new project.
	a.dir = root
	return a.runBuild(cmd, nil)
}
