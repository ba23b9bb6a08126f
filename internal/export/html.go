/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export writes the documents derived from a built script: the
// project README, the HTML page under docs/ and a printable PDF report.
package export

import (
	"bytes"
	"fmt"
	"html"
	"log/slog"
	"path/filepath"

	applog "visen/internal/log"
	"visen/internal/markdown"
	"visen/internal/script"
	"visen/internal/storage"
)

const (
	HTMLFileName   = "index.html"
	ReadmeFileName = "README.md"
	DefaultDocsDir = "docs"
)

// RenderHTML renders the script document as a standalone HTML page.
func RenderHTML(s script.Script) ([]byte, error) {
	var body bytes.Buffer
	if err := markdown.RenderHTML([]byte(s.Text), &body); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	title := s.Title
	if title == "" {
		title = "Untitled"
	}
	var out bytes.Buffer
	out.Grow(body.Len() + 256)
	fmt.Fprintf(&out, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n", html.EscapeString(title))
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}

// WriteHTML writes <root>/<docsDir>/index.html and returns its path.
func WriteHTML(ph *storage.ProjectHandle, s script.Script, docsDir string) (string, error) {
	if docsDir == "" {
		docsDir = DefaultDocsDir
	}
	path := filepath.Join(ph.Root, docsDir, HTMLFileName)
	l := applog.WithOperation(applog.WithComponent("export"), "html")
	data, err := RenderHTML(s)
	if err != nil {
		l.Error("render failed", slog.Any("err", err))
		return path, err
	}
	if err := storage.WriteFileAtomic(path, data); err != nil {
		l.Error("write failed", slog.String("path", path), slog.Any("err", err))
		return path, fmt.Errorf("write html: %w", err)
	}
	l.Debug("html written", slog.String("path", path), slog.Int("bytes", len(data)))
	return path, nil
}
