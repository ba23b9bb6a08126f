/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	applog "visen/internal/log"
	"visen/internal/watch"
)

func newWatchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Rebuild every time the script is saved",
		Args:  cobra.NoArgs,
		RunE:  a.withCrash(a.runWatch),
	}
}

func (a *app) runWatch(cmd *cobra.Command, _ []string) error {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ph, ctx, err := a.open(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	l := applog.WithComponent("watch")

	rebuild := func() {
		s, err := a.build(ctx, out, ph)
		if err != nil {
			l.ErrorContext(ctx, "rebuild failed", slog.Any("err", err))
			printf(out, "Error: %v\n", err)
			return
		}
		a.present(out, s)
	}
	rebuild()

	err = watch.Run(ctx, ph.ScriptPath(), a.cfg.Watch.Debounce(), rebuild)
	if watch.IsStopped(err) {
		return nil
	}
	return err
}
