/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package commands

import (
	"errors"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"visen/internal/config"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the user configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration and its environment overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return err
			}
			printf(out, "%s", data)

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			header := false
			for _, key := range config.OverrideKeys() {
				env, ok := config.EnvOverrideFor(key)
				if !ok {
					continue
				}
				if !header {
					printf(w, "\n# overridden by environment\n")
					header = true
				}
				printf(w, "# %s\t%s\n", key, env)
			}
			return w.Flush()
		},
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := config.ConfigPath()
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s\n", p)
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := config.ConfigPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(p); err == nil {
				return errors.New("config file already exists: " + p)
			}
			if err := config.SaveTo(p, config.Defaults()); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Wrote %s\n", p)
			return nil
		},
	}

	cmd.AddCommand(show, path, initCmd)
	return cmd
}
