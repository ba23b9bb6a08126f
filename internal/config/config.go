/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig is the per-user configuration persisted as YAML.
// Environment variables override file values at runtime and are never
// written back.
//
// config_version: bump when the structure changes incompatibly.

type ProjectConfig struct {
	ScriptFile  string `yaml:"script_file"`
	DocsDir     string `yaml:"docs_dir"`
	WriteHTML   bool   `yaml:"write_html"`
	WriteReadme bool   `yaml:"write_readme"`
	ClearScreen bool   `yaml:"clear_screen"`
}

type HistoryConfig struct {
	Enabled bool `yaml:"enabled"`
	Keep    int  `yaml:"keep"`
}

type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Project       ProjectConfig `yaml:"project"`
	History       HistoryConfig `yaml:"history"`
	Watch         WatchConfig   `yaml:"watch"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Project: ProjectConfig{
			ScriptFile:  "SCRIPT.md",
			DocsDir:     "docs",
			WriteHTML:   true,
			WriteReadme: true,
			ClearScreen: true,
		},
		History: HistoryConfig{Enabled: true, Keep: 200},
		Watch:   WatchConfig{DebounceMs: 150},
		Logging: LoggingConfig{Level: "warn", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvScriptFile  = "VISEN_SCRIPT_FILE"
	EnvDocsDir     = "VISEN_DOCS_DIR"
	EnvWriteHTML   = "VISEN_WRITE_HTML"
	EnvWriteReadme = "VISEN_WRITE_README"
	EnvClearScreen = "VISEN_CLEAR_SCREEN"
	EnvHistory     = "VISEN_HISTORY"
	EnvHistoryKeep = "VISEN_HISTORY_KEEP"
	EnvDebounceMs  = "VISEN_WATCH_DEBOUNCE_MS"
	// EnvLogLevel Logging envs, shared with internal/log
	EnvLogLevel  = "VISEN_LOG_LEVEL"
	EnvLogFormat = "VISEN_LOG_FORMAT"
	EnvLogSource = "VISEN_LOG_SOURCE"
	EnvLogFile   = "VISEN_LOG_FILE"
	// EnvConfigFile points at an alternative config file.
	EnvConfigFile = "VISEN_CONFIG"
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigFile)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "visen")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "visen")
	default:
		if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
			base = filepath.Join(x, "visen")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "visen")
		}
	}
	if base == "" || base == "visen" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config (if present), applies defaults and merges
// environment overrides. A missing file is not an error; a malformed one is.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit file path.
func LoadFrom(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg fileConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			applyEnvOverrides(&cfg)
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		applyEnvOverrides(&cfg)
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes cfg to the user config file.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes cfg as YAML to path.
func SaveTo(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// fileConfig mirrors AppConfig with pointer booleans so that an absent
// key keeps the default instead of turning it off.
type fileConfig struct {
	ConfigVersion int `yaml:"config_version"`
	Project       struct {
		ScriptFile  string `yaml:"script_file"`
		DocsDir     string `yaml:"docs_dir"`
		WriteHTML   *bool  `yaml:"write_html"`
		WriteReadme *bool  `yaml:"write_readme"`
		ClearScreen *bool  `yaml:"clear_screen"`
	} `yaml:"project"`
	History struct {
		Enabled *bool `yaml:"enabled"`
		Keep    int   `yaml:"keep"`
	} `yaml:"history"`
	Watch struct {
		DebounceMs int `yaml:"debounce_ms"`
	} `yaml:"watch"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Source *bool  `yaml:"source"`
		File   string `yaml:"file"`
	} `yaml:"logging"`
}

func mergeInto(dst *AppConfig, src *fileConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if v := strings.TrimSpace(src.Project.ScriptFile); v != "" {
		dst.Project.ScriptFile = v
	}
	if v := strings.TrimSpace(src.Project.DocsDir); v != "" {
		dst.Project.DocsDir = v
	}
	setBool(&dst.Project.WriteHTML, src.Project.WriteHTML)
	setBool(&dst.Project.WriteReadme, src.Project.WriteReadme)
	setBool(&dst.Project.ClearScreen, src.Project.ClearScreen)
	setBool(&dst.History.Enabled, src.History.Enabled)
	if src.History.Keep > 0 {
		dst.History.Keep = src.History.Keep
	}
	if src.Watch.DebounceMs > 0 {
		dst.Watch.DebounceMs = src.Watch.DebounceMs
	}
	if v := strings.TrimSpace(src.Logging.Level); v != "" {
		dst.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Logging.Format); v != "" {
		dst.Logging.Format = strings.ToLower(v)
	}
	setBool(&dst.Logging.Source, src.Logging.Source)
	if v := strings.TrimSpace(src.Logging.File); v != "" {
		dst.Logging.File = v
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func envBool(key string, dst *bool) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		lv := strings.ToLower(v)
		*dst = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
}

func envInt(key string, dst *int) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = n
		}
	}
}

func envString(key string, dst *string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	envString(EnvScriptFile, &cfg.Project.ScriptFile)
	envString(EnvDocsDir, &cfg.Project.DocsDir)
	envBool(EnvWriteHTML, &cfg.Project.WriteHTML)
	envBool(EnvWriteReadme, &cfg.Project.WriteReadme)
	envBool(EnvClearScreen, &cfg.Project.ClearScreen)
	envBool(EnvHistory, &cfg.History.Enabled)
	envInt(EnvHistoryKeep, &cfg.History.Keep)
	envInt(EnvDebounceMs, &cfg.Watch.DebounceMs)
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	envBool(EnvLogSource, &cfg.Logging.Source)
	envString(EnvLogFile, &cfg.Logging.File)
}

var overrideKeys = map[string]string{
	"project.script_file":  EnvScriptFile,
	"project.docs_dir":     EnvDocsDir,
	"project.write_html":   EnvWriteHTML,
	"project.write_readme": EnvWriteReadme,
	"project.clear_screen": EnvClearScreen,
	"history.enabled":      EnvHistory,
	"history.keep":         EnvHistoryKeep,
	"watch.debounce_ms":    EnvDebounceMs,
	"logging.level":        EnvLogLevel,
	"logging.format":       EnvLogFormat,
	"logging.source":       EnvLogSource,
	"logging.file":         EnvLogFile,
}

// OverrideKeys lists the config keys that can be set from the environment.
func OverrideKeys() []string {
	return []string{
		"project.script_file", "project.docs_dir", "project.write_html", "project.write_readme",
		"project.clear_screen", "history.enabled", "history.keep", "watch.debounce_ms",
		"logging.level", "logging.format", "logging.source", "logging.file",
	}
}

// EnvOverrideFor returns the env var name if the key is currently overridden.
func EnvOverrideFor(key string) (string, bool) {
	name, ok := overrideKeys[key]
	if !ok || os.Getenv(name) == "" {
		return "", false
	}
	return name, true
}

// Debounce returns the watch debounce as a duration.
func (w WatchConfig) Debounce() time.Duration {
	if w.DebounceMs <= 0 {
		return time.Duration(Defaults().Watch.DebounceMs) * time.Millisecond
	}
	return time.Duration(w.DebounceMs) * time.Millisecond
}
