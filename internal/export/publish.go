/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"visen/internal/script"
	"visen/internal/storage"
)

// Format names one published output.
type Format string

const (
	FormatHTML   Format = "html"
	FormatReadme Format = "readme"
	FormatPDF    Format = "pdf"
)

// PDFFileName is the report name inside the docs directory.
const PDFFileName = "script.pdf"

// Label is the human name used in user-facing messages.
func (f Format) Label() string {
	switch f {
	case FormatHTML:
		return "HTML"
	case FormatReadme:
		return "README"
	case FormatPDF:
		return "PDF"
	}
	return strings.ToUpper(string(f))
}

// ParseFormats parses a comma separated list such as "html,readme".
func ParseFormats(s string) ([]Format, error) {
	var out []Format
	for _, part := range strings.Split(s, ",") {
		f := Format(strings.ToLower(strings.TrimSpace(part)))
		switch f {
		case "":
			continue
		case FormatHTML, FormatReadme, FormatPDF:
			out = append(out, f)
		default:
			return nil, fmt.Errorf("unknown output format %q", part)
		}
	}
	return out, nil
}

// PublishOptions selects the outputs written for one build.
//
// DocsDir is relative to the project root; empty means "docs". The PDF
// report goes to <DocsDir>/script.pdf.
type PublishOptions struct {
	Formats []Format
	DocsDir string
	PDF     PDFOptions
}

// Result is the outcome of one output. Err is nil on success.
type Result struct {
	Format Format
	Path   string
	Err    error
}

// Publish writes every requested output in order. A failing output does not
// stop the others; callers inspect each Result.
func Publish(ph *storage.ProjectHandle, s script.Script, opt PublishOptions) []Result {
	results := make([]Result, 0, len(opt.Formats))
	for _, f := range opt.Formats {
		r := Result{Format: f}
		switch f {
		case FormatHTML:
			r.Path, r.Err = WriteHTML(ph, s, opt.DocsDir)
		case FormatReadme:
			r.Path, r.Err = WriteReadme(ph, s)
		case FormatPDF:
			r.Path = PDFPath(ph, opt.DocsDir)
			r.Err = WritePDF(r.Path, s, opt.PDF)
		default:
			r.Err = fmt.Errorf("unknown output format %q", f)
		}
		results = append(results, r)
	}
	return results
}

// PDFPath returns the default PDF report location for ph.
func PDFPath(ph *storage.ProjectHandle, docsDir string) string {
	if strings.TrimSpace(docsDir) == "" {
		docsDir = DefaultDocsDir
	}
	return filepath.Join(ph.Root, docsDir, PDFFileName)
}
