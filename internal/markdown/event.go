/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package markdown turns a markdown document into a flat stream of
// structural events (start/end of a block, text) and renders HTML.
// Parsing is delegated to goldmark; well-formedness is its concern.
package markdown

import "fmt"

// Kind is the closed set of event kinds.
type Kind int

const (
	KindStart Kind = iota + 1
	KindEnd
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindEnd:
		return "end"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Tag names the block a Start or End event belongs to. Anything the
// script interpreter does not care about is TagOther.
type Tag int

const (
	TagOther Tag = iota
	TagBlockQuote
	TagHeading
	TagCodeBlock
)

func (t Tag) String() string {
	switch t {
	case TagBlockQuote:
		return "blockquote"
	case TagHeading:
		return "heading"
	case TagCodeBlock:
		return "codeblock"
	default:
		return "other"
	}
}

// Event is one element of the stream.
// Level is set for headings (1..6); Content only for KindText.
type Event struct {
	Kind    Kind
	Tag     Tag
	Level   int
	Content string
}

func (e Event) String() string {
	switch {
	case e.Kind == KindText:
		return fmt.Sprintf("text(%q)", e.Content)
	case e.Tag == TagHeading:
		return fmt.Sprintf("%s(%s%d)", e.Kind, e.Tag, e.Level)
	default:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Tag)
	}
}

// Start returns a start event for tag.
func Start(tag Tag) Event { return Event{Kind: KindStart, Tag: tag} }

// End returns an end event for tag.
func End(tag Tag) Event { return Event{Kind: KindEnd, Tag: tag} }

// StartHeading returns the start of a heading of the given level.
func StartHeading(level int) Event { return Event{Kind: KindStart, Tag: TagHeading, Level: level} }

// EndHeading returns the end of a heading of the given level.
func EndHeading(level int) Event { return Event{Kind: KindEnd, Tag: TagHeading, Level: level} }

// Text returns a text event.
func Text(content string) Event { return Event{Kind: KindText, Content: content} }
