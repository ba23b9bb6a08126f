/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package commands

import (
	"github.com/spf13/cobra"

	"visen/internal/storage"
	"visen/internal/term"
)

func newShowCommand(a *app) *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Render the script in the terminal",
		Args:  cobra.NoArgs,
		RunE: a.withCrash(func(cmd *cobra.Command, _ []string) error {
			ph, _, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			text, err := storage.ReadScript(ph)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s", term.RenderMarkdown(text, width))
			return nil
		}),
	}
	cmd.Flags().IntVarP(&width, "width", "w", term.DefaultWidth, "wrap width")
	return cmd
}
