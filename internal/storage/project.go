/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"visen/internal/version"
)

const (
	ManifestFileName  = ".visenrc"
	StateDirName      = ".visen"
	DefaultScriptFile = "SCRIPT.md"
)

var (
	// ErrProjectExists is returned by InitProject when the target already exists.
	ErrProjectExists = errors.New("project directory already exists")
	// ErrNotProject is returned by Open when the directory has no manifest.
	ErrNotProject = errors.New(ManifestFileName + " file not found. Are you sure you're in a visen project?")
)

// Manifest is the content of .visenrc.
// Early projects stored only a version line; those load with Script empty.
type Manifest struct {
	Version string `json:"version"`
	Script  string `json:"script,omitempty"`
}

// ProjectHandle points at a project on disk.
// ScriptFile is relative to Root.
type ProjectHandle struct {
	Root         string
	ManifestPath string
	Manifest     Manifest
	ScriptFile   string
}

// ScriptPath returns the absolute path of the screenplay document.
func (ph *ProjectHandle) ScriptPath() string { return filepath.Join(ph.Root, ph.ScriptFile) }

// StateDir returns the directory for derived, disposable project data.
func (ph *ProjectHandle) StateDir() string { return filepath.Join(ph.Root, StateDirName) }

// InitProject creates a new project at root: the directory, the manifest
// and a script containing only the title heading. root must not exist.
// scriptFile is a bare file name; anything the manifest schema rejects
// fails with ErrInvalidManifest before the directory is created.
func InitProject(root, name, scriptFile string) (*ProjectHandle, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root path is required")
	}
	if strings.TrimSpace(scriptFile) == "" {
		scriptFile = DefaultScriptFile
	}
	ph := &ProjectHandle{
		Root:         root,
		ManifestPath: filepath.Join(root, ManifestFileName),
		Manifest:     Manifest{Version: version.Version, Script: scriptFile},
		ScriptFile:   scriptFile,
	}
	data, err := json.MarshalIndent(ph.Manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	// Open must be able to read back what is written here.
	if _, err := ParseManifest(data); err != nil {
		return nil, fmt.Errorf("script file %q: %w", scriptFile, err)
	}

	if _, err := os.Stat(root); err == nil {
		return nil, fmt.Errorf("%s: %w", root, ErrProjectExists)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat project root: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create project root: %w", err)
	}
	if err := WriteFileAtomic(ph.ManifestPath, append(data, '\n')); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}
	if err := WriteFileAtomic(ph.ScriptPath(), []byte("# "+name+"\n\n")); err != nil {
		return nil, fmt.Errorf("write script: %w", err)
	}
	return ph, nil
}

// Open loads the project rooted at root. defaultScript is used when the
// manifest does not name the script file.
func Open(root, defaultScript string) (*ProjectHandle, error) {
	mpath := filepath.Join(root, ManifestFileName)
	b, err := os.ReadFile(mpath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotProject
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := ParseManifest(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", mpath, err)
	}
	ph := &ProjectHandle{Root: root, ManifestPath: mpath, Manifest: m, ScriptFile: m.Script}
	if ph.ScriptFile == "" {
		ph.ScriptFile = defaultScript
	}
	if ph.ScriptFile == "" {
		ph.ScriptFile = DefaultScriptFile
	}
	return ph, nil
}

// ReadScript reads the whole screenplay document.
func ReadScript(ph *ProjectHandle) (string, error) {
	if ph == nil {
		return "", errors.New("nil ProjectHandle")
	}
	b, err := os.ReadFile(ph.ScriptPath())
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	return string(b), nil
}

// WriteFileAtomic writes data to a temp file next to path, syncs it and
// renames it over path, so readers never see a partial file.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(path), os.Getpid(), rand.Int()))
	if err := writeFileSync(temp, data); err != nil {
		_ = os.Remove(temp)
		return err
	}
	if err := os.Rename(temp, path); err != nil {
		_ = os.Remove(temp)
		return err
	}
	return nil
}

// writeFileSync writes data to a file and flushes it to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}
