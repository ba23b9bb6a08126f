/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package commands

import (
	"time"

	"github.com/spf13/cobra"

	"visen/internal/export"
	"visen/internal/script"
	"visen/internal/storage"
)

func newPDFCommand(a *app) *cobra.Command {
	var (
		output   string
		pageSize string
		noText   bool
	)
	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Write a PDF report with the metrics and the script text",
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
			path := output
			if path == "" {
				path = export.PDFPath(ph, a.cfg.Project.DocsDir)
			}
			opt := export.PDFOptions{PageSize: pageSize, IncludeText: !noText, GeneratedAt: time.Now()}
			if err := export.WritePDF(path, script.Build(text), opt); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default <docs>/script.pdf)")
	cmd.Flags().StringVar(&pageSize, "page-size", "A4", "page size: A4, Letter, Legal, A5")
	cmd.Flags().BoolVar(&noText, "no-text", false, "omit the script text")
	return cmd
}
