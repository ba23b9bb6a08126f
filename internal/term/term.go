/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package term holds the terminal presentation of a built script: screen
// clearing, the plain and styled summaries, and markdown rendering for show.
package term

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"visen/internal/duration"
	"visen/internal/script"
)

// DefaultWidth is the wrap width used when the caller passes zero.
const DefaultWidth = 80

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle = lipgloss.NewStyle().Bold(true)
)

// Clear wipes the terminal behind w. Non-terminals receive the escape
// sequence unchanged; the caller decides whether clearing is wanted at all.
func Clear(w io.Writer) {
	termenv.NewOutput(w).ClearScreen()
}

// Summary returns the canonical plain-text summary.
func Summary(s script.Script) string {
	return s.String()
}

// StyledSummary renders the same facts as Summary with lipgloss styling.
func StyledSummary(s script.Script) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("%q", s.Title)))
	b.WriteString("\n")
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label + ":"))
		b.WriteString(" ")
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}
	row("Estimated runtime", duration.Shorthand(s.RuntimeSeconds()))
	row("Estimated dialogue time", duration.Shorthand(s.DialogueSeconds()))
	row("Word count (dialogue)", fmt.Sprint(s.DialogueWordCount))
	row("Word count (total)", fmt.Sprint(s.WordCount))
	return b.String()
}

// RenderMarkdown renders markdown for the terminal. When glamour cannot be
// initialised or fails to render, the text is returned unchanged.
func RenderMarkdown(text string, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return out
}
