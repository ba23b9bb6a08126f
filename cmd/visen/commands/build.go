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
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"visen/internal/export"
	applog "visen/internal/log"
	"visen/internal/script"
	"visen/internal/storage"
	"visen/internal/telemetry"
	"visen/internal/term"
)

func newBuildCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the project and print its summary (default command)",
		Args:  cobra.NoArgs,
		RunE:  a.withCrash(a.runBuild),
	}
	cmd.Flags().BoolVar(&a.withPDF, "pdf", false, "also write the PDF report")
	cmd.Flags().StringVar(&a.formats, "formats", "", "comma separated outputs to write (html, readme, pdf); overrides the config")
	return cmd
}

func (a *app) runBuild(cmd *cobra.Command, _ []string) error {
	ph, ctx, err := a.open(cmd.Context())
	if err != nil {
		return err
	}
	s, err := a.build(ctx, cmd.OutOrStdout(), ph)
	if err != nil {
		return err
	}
	a.present(cmd.OutOrStdout(), s)
	return nil
}

// build reads the script once, interprets it and publishes the outputs.
// Output failures are printed and logged but do not fail the build.
func (a *app) build(ctx context.Context, out io.Writer, ph *storage.ProjectHandle) (script.Script, error) {
	l := applog.WithOperation(applog.WithComponent("build"), "build")
	opt, err := a.publishOptions()
	if err != nil {
		return script.Script{}, err
	}
	text, err := storage.ReadScript(ph)
	if err != nil {
		return script.Script{}, err
	}
	s := script.Build(text)
	l.DebugContext(ctx, "script built",
		slog.String("title", s.Title),
		slog.Uint64("words", s.WordCount),
		slog.Uint64("dialogue_words", s.DialogueWordCount),
		slog.Uint64("blocked_seconds", s.BlockedSeconds),
	)

	for _, r := range export.Publish(ph, s, opt) {
		if r.Err != nil {
			l.ErrorContext(ctx, "write output failed", slog.String("format", string(r.Format)), slog.Any("err", r.Err))
			printf(out, "Failed to write %s\n", r.Format.Label())
			continue
		}
		l.DebugContext(ctx, "output written", slog.String("format", string(r.Format)), slog.String("path", r.Path))
	}
	if a.cfg.History.Enabled {
		if err := a.record(ctx, ph, s); err != nil {
			l.WarnContext(ctx, "record history failed", slog.Any("err", err))
		}
	}
	telemetry.Default().Build(s)
	return s, nil
}

// publishOptions picks the outputs: --formats when given, otherwise the
// config toggles. --pdf adds the PDF report to either.
func (a *app) publishOptions() (export.PublishOptions, error) {
	opt := export.PublishOptions{DocsDir: a.cfg.Project.DocsDir}
	if a.formats != "" {
		f, err := export.ParseFormats(a.formats)
		if err != nil {
			return opt, err
		}
		opt.Formats = f
	} else {
		if a.cfg.Project.WriteHTML {
			opt.Formats = append(opt.Formats, export.FormatHTML)
		}
		if a.cfg.Project.WriteReadme {
			opt.Formats = append(opt.Formats, export.FormatReadme)
		}
	}
	if a.withPDF && !slices.Contains(opt.Formats, export.FormatPDF) {
		opt.Formats = append(opt.Formats, export.FormatPDF)
	}
	if slices.Contains(opt.Formats, export.FormatPDF) {
		opt.PDF = export.PDFOptions{IncludeText: true, GeneratedAt: time.Now()}
	}
	return opt, nil
}

func (a *app) record(ctx context.Context, ph *storage.ProjectHandle, s script.Script) error {
	h, err := storage.OpenHistory(ctx, ph)
	if err != nil {
		return err
	}
	defer func() { _ = h.Close() }()
	rec := storage.NewBuildRecord(s, time.Now())
	// consecutive builds of the same text share one record
	last, ok, err := h.Latest(ctx)
	if err != nil {
		return err
	}
	if ok && last.TextHash == rec.TextHash {
		return nil
	}
	if _, err := h.Record(ctx, rec, s.Text); err != nil {
		return err
	}
	if keep := a.cfg.History.Keep; keep > 0 {
		if _, err := h.Prune(ctx, keep); err != nil {
			return fmt.Errorf("prune history: %w", err)
		}
	}
	return nil
}

func (a *app) present(w io.Writer, s script.Script) {
	if a.clearScreen() {
		term.Clear(w)
	}
	if a.styled {
		printf(w, "%s\n", term.StyledSummary(s))
		return
	}
	printf(w, "%s\n", term.Summary(s))
}
