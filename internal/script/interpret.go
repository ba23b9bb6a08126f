/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package script derives screenplay metrics from a markdown document in a
// single forward pass over its structural events.
package script

import (
	"iter"
	"strings"
	"time"
	"unicode"

	"visen/internal/duration"
	"visen/internal/markdown"
)

// Build parses text as markdown and interprets it.
func Build(text string) Script {
	return Interpret(text, markdown.Events([]byte(text)))
}

// Interpret consumes events once, in order, and returns the metrics.
//
// Contexts are tracked with one flag per kind, so a second opening of
// the same kind is not counted and the first close ends the context.
// Contexts are additive: text inside both a quote and a code block
// feeds both. Interpret never fails; a block quote that is not a valid
// duration contributes nothing.
func Interpret(text string, events iter.Seq[markdown.Event]) Script {
	s := Script{Text: text}
	var title, quote strings.Builder
	var inQuote, inH1, inCode bool

	for e := range events {
		switch e.Kind {
		case markdown.KindStart:
			switch {
			case e.Tag == markdown.TagBlockQuote:
				inQuote = true
			case e.Tag == markdown.TagHeading && e.Level == 1:
				inH1 = true
			case e.Tag == markdown.TagCodeBlock:
				inCode = true
			}
		case markdown.KindEnd:
			switch {
			case e.Tag == markdown.TagBlockQuote:
				if d, err := duration.Parse(quote.String()); err == nil {
					s.BlockedSeconds += uint64(d / time.Second)
				}
				quote.Reset()
				inQuote = false
			case e.Tag == markdown.TagHeading && e.Level == 1:
				inH1 = false
			case e.Tag == markdown.TagCodeBlock:
				inCode = false
			}
		case markdown.KindText:
			s.WordCount += uint64(len(strings.Fields(e.Content)))
			if inQuote {
				quote.WriteString(e.Content)
			}
			if inH1 {
				title.WriteString(e.Content)
			}
			if inCode {
				s.DialogueWordCount += CountDialogueWords(e.Content)
			}
		}
	}

	s.Title = title.String()
	return s
}

// CountDialogueWords counts the whitespace-separated tokens of content
// that are not speaker cues.
func CountDialogueWords(content string) uint64 {
	var n uint64
	for _, tok := range strings.Fields(content) {
		if !IsCue(tok) {
			n++
		}
	}
	return n
}

// IsCue reports whether token is a speaker or direction cue: a non-empty
// token whose every rune is upper-case. Digits and punctuation are not
// upper-case, so "JOHN" is a cue while "JOHN:", "(V.O.)", "A1" and "42"
// are dialogue. Cues are written on a line of their own.
func IsCue(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
