/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"visen/internal/duration"
	"visen/internal/script"
	"visen/internal/storage"
	"visen/internal/version"
)

// PDFOptions controls the PDF report.
// Units are millimetres on A4 unless PageSize says otherwise.
type PDFOptions struct {
	PageSize    string // "A4" or "Letter"
	IncludeText bool   // append the script source after the metrics
	GeneratedAt time.Time
}

// RenderPDF writes a metrics report for s to w. Core fonts are used, so
// text outside cp1252 is transliterated by gofpdf's translator.
func RenderPDF(w io.Writer, s script.Script, opt PDFOptions) error {
	size := opt.PageSize
	if size == "" {
		size = "A4"
	}
	at := opt.GeneratedAt
	if at.IsZero() {
		at = time.Now()
	}
	title := s.Title
	if strings.TrimSpace(title) == "" {
		title = "Untitled"
	}

	pdf := gofpdf.New("P", "mm", size, "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, true)
	pdf.SetCreator("visen "+version.Version, true)
	pdf.SetSubject("Screenplay metrics", true)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.MultiCell(0, 10, tr(title), "", "L", false)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 6, "Generated "+at.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	runtime := duration.Shorthand(s.RuntimeSeconds())
	if runtime == "" {
		runtime = "-"
	}
	dialogue := duration.Shorthand(s.DialogueSeconds())
	if dialogue == "" {
		dialogue = "-"
	}
	blocked := duration.Shorthand(s.BlockedSeconds)
	if blocked == "" {
		blocked = "-"
	}
	rows := [][2]string{
		{"Estimated runtime", runtime},
		{"Estimated dialogue time", dialogue},
		{"Blocked time", blocked},
		{"Word count (dialogue)", strconv.FormatUint(s.DialogueWordCount, 10)},
		{"Word count (total)", strconv.FormatUint(s.WordCount, 10)},
	}
	for _, r := range rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(70, 8, r[0], "B", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, r[1], "B", 1, "R", false, 0, "")
	}

	if opt.IncludeText && strings.TrimSpace(s.Text) != "" {
		pdf.AddPage()
		pdf.SetFont("Courier", "", 9)
		pdf.MultiCell(0, 4.5, tr(s.Text), "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	return pdf.Output(w)
}

// WritePDF renders the report into path.
func WritePDF(path string, s script.Script, opt PDFOptions) error {
	var buf bytes.Buffer
	if err := RenderPDF(&buf, s, opt); err != nil {
		return err
	}
	if err := storage.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
