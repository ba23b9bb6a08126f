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
	"log/slog"
	"path/filepath"

	"visen/internal/duration"
	applog "visen/internal/log"
	"visen/internal/script"
	"visen/internal/storage"
)

// Readme returns the generated README content for s.
func Readme(s script.Script) string {
	return fmt.Sprintf(
		"# %s\n\nEstimated runtime: %s\n\nWord count (dialogue): %d\n\nWord count (total): %d\n",
		s.Title,
		duration.Shorthand(s.RuntimeSeconds()),
		s.DialogueWordCount,
		s.WordCount,
	)
}

// WriteReadme writes <root>/README.md and returns its path.
func WriteReadme(ph *storage.ProjectHandle, s script.Script) (string, error) {
	path := filepath.Join(ph.Root, ReadmeFileName)
	if err := storage.WriteFileAtomic(path, []byte(Readme(s))); err != nil {
		applog.WithOperation(applog.WithComponent("export"), "readme").Error("write failed",
			slog.String("path", path), slog.Any("err", err))
		return path, fmt.Errorf("write readme: %w", err)
	}
	return path, nil
}
