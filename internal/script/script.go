/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"fmt"

	"visen/internal/duration"
)

// Script holds the metrics derived from one screenplay document.
// It is built once per run and not modified afterwards.
//
// Conventions in the document:
//   - the level-1 heading is the title
//   - a block quote holds a duration ("5m", "1h 30s") of screen time
//     without dialogue
//   - a code block holds dialogue; all-caps tokens are speaker cues
type Script struct {
	Title             string `json:"title"`
	Text              string `json:"-"`
	WordCount         uint64 `json:"wordCount"`
	DialogueWordCount uint64 `json:"dialogueWordCount"`
	BlockedSeconds    uint64 `json:"blockedSeconds"`
}

// DialogueSeconds estimates how long the dialogue takes to speak.
func (s Script) DialogueSeconds() uint64 {
	return duration.WordsToSeconds(s.DialogueWordCount)
}

// RuntimeSeconds is the blocked time plus the dialogue time.
func (s Script) RuntimeSeconds() uint64 {
	return s.BlockedSeconds + s.DialogueSeconds()
}

// String renders the fixed-format summary printed after a build.
func (s Script) String() string {
	return fmt.Sprintf(
		"\n\"%s\"\nEstimated runtime: %s\nEstimated dialogue time: %s\nWord count (dialogue): %d\nWord count (total): %d\n",
		s.Title,
		duration.Shorthand(s.RuntimeSeconds()),
		duration.Shorthand(s.DialogueSeconds()),
		s.DialogueWordCount,
		s.WordCount,
	)
}
