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
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"visen/internal/script"
	"visen/internal/storage"
)

const sampleDoc = "# Title\n\n> 5m\n\n```\nHELLO world\n```\n"

func newProject(t *testing.T) *storage.ProjectHandle {
	t.Helper()
	ph, err := storage.InitProject(filepath.Join(t.TempDir(), "proj"), "Title", "")
	if err != nil {
		t.Fatalf("InitProject: %v", err)
	}
	return ph
}

func TestReadme(t *testing.T) {
	s := script.Build(sampleDoc)
	want := "# Title\n\nEstimated runtime: 5m 3s\n\nWord count (dialogue): 1\n\nWord count (total): 4\n"
	if got := Readme(s); got != want {
		t.Fatalf("Readme() = %q, want %q", got, want)
	}
}

func TestWriteReadme(t *testing.T) {
	ph := newProject(t)
	path, err := WriteReadme(ph, script.Build(sampleDoc))
	if err != nil {
		t.Fatalf("WriteReadme: %v", err)
	}
	if path != filepath.Join(ph.Root, "README.md") {
		t.Fatalf("path = %q", path)
	}
	b, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(b), "# Title\n") {
		t.Fatalf("README content = %q", b)
	}
}

func TestWriteHTML(t *testing.T) {
	ph := newProject(t)
	path, err := WriteHTML(ph, script.Build(sampleDoc), "")
	if err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	if path != filepath.Join(ph.Root, "docs", "index.html") {
		t.Fatalf("path = %q", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(b)
	for _, want := range []string{"<title>Title</title>", "<h1>Title</h1>", "<blockquote>", "HELLO world"} {
		if !strings.Contains(out, want) {
			t.Fatalf("html missing %q:\n%s", want, out)
		}
	}
}

func TestRenderHTMLEscapesTitle(t *testing.T) {
	b, err := RenderHTML(script.Script{Title: "<Tom & Jerry>", Text: "plain\n"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "<title>&lt;Tom &amp; Jerry&gt;</title>") {
		t.Fatalf("title not escaped: %s", b)
	}
	b, _ = RenderHTML(script.Script{Text: "no heading\n"})
	if !strings.Contains(string(b), "<title>Untitled</title>") {
		t.Fatalf("missing fallback title: %s", b)
	}
}

func TestRenderPDF(t *testing.T) {
	var buf bytes.Buffer
	s := script.Build(sampleDoc + "\nCafé scene — déjà vu.\n")
	err := RenderPDF(&buf, s, PDFOptions{IncludeText: true, GeneratedAt: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestWritePDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "report.pdf")
	if err := WritePDF(path, script.Build(""), PDFOptions{PageSize: "Letter"}); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Fatalf("pdf not written: %v", err)
	}
}
