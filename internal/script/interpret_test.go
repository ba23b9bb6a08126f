/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"visen/internal/markdown"
)

func interpret(events ...markdown.Event) Script {
	return Interpret("", slices.Values(events))
}

func TestBuildEndToEnd(t *testing.T) {
	doc := "# Title\n\n> 5m\n\n```\nHELLO world\n```\n"
	s := Build(doc)
	assert.Equal(t, "Title", s.Title)
	assert.Equal(t, doc, s.Text)
	assert.Equal(t, uint64(300), s.BlockedSeconds)
	assert.Equal(t, uint64(1), s.DialogueWordCount)
	assert.Equal(t, uint64(4), s.WordCount)
}

func TestBuildScreenplay(t *testing.T) {
	doc := strings.Join([]string{
		"# The Long Goodbye",
		"",
		"## INT. KITCHEN - NIGHT",
		"",
		"Rain against the window.",
		"",
		"> 1m 30s",
		"",
		"```",
		"JOHN: Hello there",
		"MARY (V.O.): Go home, John.",
		"```",
		"",
		"> a long pause",
		"",
		"> 30s",
		"",
	}, "\n")
	s := Build(doc)
	assert.Equal(t, "The Long Goodbye", s.Title)
	assert.Equal(t, uint64(120), s.BlockedSeconds, "unparseable quote contributes nothing")
	// Only MARY is a cue; "JOHN:" and "(V.O.):" carry punctuation.
	assert.Equal(t, uint64(3+4), s.DialogueWordCount)
	assert.Equal(t, uint64(3+4+4+2+3+5+3+1), s.WordCount)
	assert.Equal(t, uint64(18), s.DialogueSeconds())
	assert.Equal(t, uint64(138), s.RuntimeSeconds())
}

func TestBuildCuesOnOwnLine(t *testing.T) {
	doc := "# Pilot\n\n```\nJOHN\nHello there.\nMARY\nGo home.\n```\n"
	s := Build(doc)
	assert.Equal(t, uint64(4), s.DialogueWordCount)
	assert.Equal(t, uint64(7), s.WordCount)
	assert.Equal(t, uint64(10), s.DialogueSeconds())
}

func TestNoBlockQuotesMeansNoBlockedTime(t *testing.T) {
	s := Build("# T\n\nSome prose 5m.\n\n```\nA: hi\n```\n")
	assert.Zero(t, s.BlockedSeconds)
}

func TestNoHeadingMeansEmptyTitle(t *testing.T) {
	s := Build("## Not a title\n\nBody.\n")
	assert.Equal(t, "", s.Title)
}

func TestNoCodeBlocksMeansNoDialogue(t *testing.T) {
	s := Build("# T\n\nplain words only\n\n> 5m\n")
	assert.Zero(t, s.DialogueWordCount)
	assert.Equal(t, uint64(5), s.WordCount)
}

func TestEmptyDocument(t *testing.T) {
	s := Build("")
	assert.Equal(t, Script{}, s)
}

func TestWordCountIgnoresContext(t *testing.T) {
	s := interpret(
		markdown.StartHeading(1), markdown.Text("a b"), markdown.EndHeading(1),
		markdown.Start(markdown.TagBlockQuote), markdown.Text("c"), markdown.End(markdown.TagBlockQuote),
		markdown.Start(markdown.TagCodeBlock), markdown.Text("D e"), markdown.End(markdown.TagCodeBlock),
		markdown.Start(markdown.TagOther), markdown.Text("  f\tg\nh "), markdown.End(markdown.TagOther),
	)
	assert.Equal(t, uint64(8), s.WordCount)
}

func TestBlockQuoteBuffersAcrossTextEvents(t *testing.T) {
	s := interpret(
		markdown.Start(markdown.TagBlockQuote),
		markdown.Text("1h"),
		markdown.Text(" 30s"),
		markdown.End(markdown.TagBlockQuote),
		markdown.Start(markdown.TagBlockQuote),
		markdown.Text("5m"),
		markdown.End(markdown.TagBlockQuote),
	)
	assert.Equal(t, uint64(3600+30+300), s.BlockedSeconds)
}

func TestBlockQuoteBufferClearedAfterFailure(t *testing.T) {
	s := interpret(
		markdown.Start(markdown.TagBlockQuote),
		markdown.Text("bogus text"),
		markdown.End(markdown.TagBlockQuote),
		markdown.Start(markdown.TagBlockQuote),
		markdown.Text("5m"),
		markdown.End(markdown.TagBlockQuote),
	)
	assert.Equal(t, uint64(300), s.BlockedSeconds)
}

func TestSubSecondDurationsTruncate(t *testing.T) {
	s := interpret(
		markdown.Start(markdown.TagBlockQuote),
		markdown.Text("1s 999ms"),
		markdown.End(markdown.TagBlockQuote),
	)
	assert.Equal(t, uint64(1), s.BlockedSeconds)
}

func TestOnlyLevelOneHeadingsFormTitle(t *testing.T) {
	s := interpret(
		markdown.StartHeading(2), markdown.Text("Scene"), markdown.EndHeading(2),
		markdown.StartHeading(1), markdown.Text("Part "), markdown.Text("One"), markdown.EndHeading(1),
		markdown.StartHeading(1), markdown.Text("Two"), markdown.EndHeading(1),
	)
	assert.Equal(t, "Part OneTwo", s.Title, "multiple titles concatenate without separator")
}

func TestOverlappingContextsAreAdditive(t *testing.T) {
	s := interpret(
		markdown.Start(markdown.TagBlockQuote),
		markdown.Start(markdown.TagCodeBlock),
		markdown.Text("5m"),
		markdown.End(markdown.TagCodeBlock),
		markdown.End(markdown.TagBlockQuote),
	)
	assert.Equal(t, uint64(300), s.BlockedSeconds)
	assert.Equal(t, uint64(1), s.DialogueWordCount)
	assert.Equal(t, uint64(1), s.WordCount)
}

func TestFirstCloseEndsContext(t *testing.T) {
	s := interpret(
		markdown.Start(markdown.TagCodeBlock),
		markdown.Start(markdown.TagCodeBlock),
		markdown.Text("inner"),
		markdown.End(markdown.TagCodeBlock),
		markdown.Text("outer"),
		markdown.End(markdown.TagCodeBlock),
	)
	assert.Equal(t, uint64(1), s.DialogueWordCount)
	assert.Equal(t, uint64(2), s.WordCount)
}

func TestOtherEventsIgnored(t *testing.T) {
	s := interpret(
		markdown.Start(markdown.TagOther),
		markdown.End(markdown.TagOther),
		markdown.Event{Kind: markdown.Kind(99), Content: "x y"},
	)
	assert.Equal(t, Script{}, s)
}

func TestBuildTitleDecoded(t *testing.T) {
	assert.Equal(t, "Hello! World", Build("# Hello\\! World\n").Title)
	assert.Equal(t, "Tom & Jerry", Build("# Tom &amp; Jerry\n").Title)
}

func TestIsCue(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"JOHN", true},
		{"I", true},
		{"ÉLODIE", true},
		{"JOHN:", false},
		{"(V.O.)", false},
		{"R2D2", false},
		{"A1", false},
		{"", false},
		{"Hello", false},
		{"world", false},
		{"McGREGOR", false},
		{"42", false},
		{"...", false},
		{"—", false},
		{"中文", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsCue(tt.token), "IsCue(%q)", tt.token)
	}
}

func TestCountDialogueWords(t *testing.T) {
	assert.Equal(t, uint64(3), CountDialogueWords("JOHN: Hello there"))
	assert.Equal(t, uint64(2), CountDialogueWords("JOHN\nHello there"))
	assert.Equal(t, uint64(3), CountDialogueWords("A1 42 (V.O.) I"))
	assert.Equal(t, uint64(1), CountDialogueWords("HELLO world"))
	assert.Equal(t, uint64(2), CountDialogueWords("123 ?!"))
	assert.Equal(t, uint64(0), CountDialogueWords("   "))
}

func TestStringSummary(t *testing.T) {
	s := Script{Title: "Title", WordCount: 4, DialogueWordCount: 1, BlockedSeconds: 300}
	want := "\n\"Title\"\nEstimated runtime: 5m 3s\nEstimated dialogue time: 3s\nWord count (dialogue): 1\nWord count (total): 4\n"
	assert.Equal(t, want, s.String())
}
