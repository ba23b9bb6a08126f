/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package duration converts between second counts, word counts and the
// human shorthand used in script annotations ("5m", "1h 30s").
package duration

import (
	"math"
	"strconv"
	"strings"
)

// SecondsPerWord is the average time it takes to speak one word of dialogue.
const SecondsPerWord = 2.5

// WordsToSeconds estimates the speaking time of words in whole seconds.
// Rounding is half away from zero, so a single word is 3 seconds.
func WordsToSeconds(words uint64) uint64 {
	return uint64(math.Round(float64(words) * SecondsPerWord))
}

// Shorthand formats seconds as "1h 1m 1s", omitting zero components.
// Zero seconds yields "".
func Shorthand(seconds uint64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	parts := make([]string, 0, 3)
	if h > 0 {
		parts = append(parts, strconv.FormatUint(h, 10)+"h")
	}
	if m > 0 {
		parts = append(parts, strconv.FormatUint(m, 10)+"m")
	}
	if s > 0 {
		parts = append(parts, strconv.FormatUint(s, 10)+"s")
	}
	return strings.Join(parts, " ")
}
