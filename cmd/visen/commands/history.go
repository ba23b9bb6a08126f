/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package commands

import (
	"encoding/json"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"visen/internal/duration"
	"visen/internal/storage"
)

func newHistoryCommand(a *app) *cobra.Command {
	var (
		limit  int
		asJSON bool
		show   string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded builds, newest first",
		Long: `List recorded builds, newest first.

With --show, print the script text stored for a build instead. The hash
may be shortened to any unique prefix of the HASH column.`,
		Args: cobra.NoArgs,
		RunE: a.withCrash(func(cmd *cobra.Command, _ []string) error {
			ph, ctx, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			h, err := storage.OpenHistory(ctx, ph)
			if err != nil {
				return err
			}
			defer func() { _ = h.Close() }()

			out := cmd.OutOrStdout()
			if show != "" {
				text, err := h.Snapshot(ctx, show)
				if err != nil {
					return err
				}
				printf(out, "%s", text)
				return nil
			}
			recs, err := h.List(ctx, limit)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(recs)
			}
			if len(recs) == 0 {
				printf(out, "No builds recorded yet.\n")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			printf(w, "ID\tHASH\tWHEN\tRUNTIME\tDIALOGUE WORDS\tWORDS\tTITLE\n")
			for _, r := range recs {
				printf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%s\n",
					r.ID,
					shortHash(r.TextHash),
					r.At.Local().Format(time.DateTime),
					duration.Shorthand(r.RuntimeSeconds),
					r.DialogueWordCount,
					r.WordCount,
					r.Title,
				)
			}
			return w.Flush()
		}),
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of builds to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.Flags().StringVar(&show, "show", "", "print the script text stored under `hash`")
	return cmd
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
