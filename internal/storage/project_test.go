/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitProjectScaffolds(t *testing.T) {
	root := filepath.Join(t.TempDir(), "my-film")
	ph, err := InitProject(root, "my-film", "")
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	if ph.ScriptFile != DefaultScriptFile {
		t.Fatalf("ScriptFile = %q", ph.ScriptFile)
	}
	b, err := os.ReadFile(filepath.Join(root, DefaultScriptFile))
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	if string(b) != "# my-film\n\n" {
		t.Fatalf("unexpected script seed: %q", b)
	}
	mb, err := os.ReadFile(filepath.Join(root, ManifestFileName))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	m, err := ParseManifest(mb)
	if err != nil {
		t.Fatalf("manifest does not validate: %v", err)
	}
	if m.Script != DefaultScriptFile || m.Version == "" {
		t.Fatalf("unexpected manifest: %+v", m)
	}
	// no temp files left behind
	ents, _ := os.ReadDir(root)
	for _, e := range ents {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestInitProjectRefusesExistingDir(t *testing.T) {
	root := t.TempDir()
	_, err := InitProject(root, "x", "")
	if !errors.Is(err, ErrProjectExists) {
		t.Fatalf("expected ErrProjectExists, got %v", err)
	}
}

func TestInitProjectRejectsNestedScriptPath(t *testing.T) {
	for _, script := range []string{"drafts/SCRIPT.md", `drafts\SCRIPT.md`} {
		root := filepath.Join(t.TempDir(), "nested")
		_, err := InitProject(root, "nested", script)
		if !errors.Is(err, ErrInvalidManifest) {
			t.Fatalf("InitProject(%q) err = %v, want ErrInvalidManifest", script, err)
		}
		if _, err := os.Stat(root); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("project root created for %q: %v", script, err)
		}
	}
}

func TestInitProjectCustomScriptReopens(t *testing.T) {
	root := filepath.Join(t.TempDir(), "custom")
	if _, err := InitProject(root, "custom", "draft.md"); err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	ph, err := Open(root, "")
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if ph.ScriptFile != "draft.md" {
		t.Fatalf("ScriptFile = %q, want draft.md", ph.ScriptFile)
	}
}

func TestOpenWithoutManifest(t *testing.T) {
	_, err := Open(t.TempDir(), "")
	if !errors.Is(err, ErrNotProject) {
		t.Fatalf("expected ErrNotProject, got %v", err)
	}
	if !strings.Contains(ErrNotProject.Error(), "Are you sure you're in a visen project?") {
		t.Fatalf("unexpected message: %v", ErrNotProject)
	}
}

func TestOpenLegacyManifestUsesDefaultScript(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ManifestFileName), []byte("v0.1.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ph, err := Open(root, "DRAFT.md")
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if ph.Manifest.Version != "v0.1.0" {
		t.Fatalf("legacy version = %q", ph.Manifest.Version)
	}
	if ph.ScriptPath() != filepath.Join(root, "DRAFT.md") {
		t.Fatalf("ScriptPath = %q", ph.ScriptPath())
	}
}

func TestOpenManifestScriptWins(t *testing.T) {
	root := t.TempDir()
	data := `{"version": "v0.2.0", "script": "PILOT.md"}`
	if err := os.WriteFile(filepath.Join(root, ManifestFileName), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	ph, err := Open(root, "SCRIPT.md")
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if ph.ScriptFile != "PILOT.md" {
		t.Fatalf("ScriptFile = %q", ph.ScriptFile)
	}
}

func TestReadScriptMissingFile(t *testing.T) {
	root := t.TempDir()
	ph := &ProjectHandle{Root: root, ScriptFile: DefaultScriptFile}
	_, err := ReadScript(ph)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestReadScriptReturnsVerbatimText(t *testing.T) {
	root := filepath.Join(t.TempDir(), "p")
	ph, err := InitProject(root, "Title", "")
	if err != nil {
		t.Fatal(err)
	}
	doc := "# Title\n\n> 5m\n\n```\nHELLO world\n```\n"
	if err := WriteFileAtomic(ph.ScriptPath(), []byte(doc)); err != nil {
		t.Fatal(err)
	}
	got, err := ReadScript(ph)
	if err != nil {
		t.Fatalf("ReadScript error: %v", err)
	}
	if got != doc {
		t.Fatalf("ReadScript = %q", got)
	}
}

func TestWriteFileAtomicCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs", "index.html")
	if err := WriteFileAtomic(path, []byte("<h1>x</h1>")); err != nil {
		t.Fatalf("WriteFileAtomic error: %v", err)
	}
	if err := WriteFileAtomic(path, []byte("<h1>y</h1>")); err != nil {
		t.Fatalf("overwrite error: %v", err)
	}
	b, _ := os.ReadFile(path)
	if string(b) != "<h1>y</h1>" {
		t.Fatalf("content = %q", b)
	}
}
