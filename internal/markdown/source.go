/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package markdown

import (
	"io"
	"iter"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// md is CommonMark without extensions. Raw HTML passes through on render.
var md = goldmark.New(
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// Events parses src and yields its structural events in document order.
//
// Every AST node becomes a Start/End pair except the document itself.
// Text and String nodes become Text events; code blocks yield one Text
// event per source line. Inline code spans and raw HTML produce no
// events at all, autolinks yield their label as text.
func Events(src []byte) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		doc := md.Parser().Parse(text.NewReader(src))
		_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			ok := true
			status := ast.WalkContinue
			switch node := n.(type) {
			case *ast.Document:
				return ast.WalkContinue, nil
			case *ast.Text:
				if entering {
					ok = yield(Text(string(textValue(node, src))))
				}
			case *ast.String:
				if entering {
					ok = yield(Text(string(node.Value)))
				}
			case *ast.CodeSpan, *ast.RawHTML:
				status = ast.WalkSkipChildren
			case *ast.Heading:
				if entering {
					ok = yield(StartHeading(node.Level))
				} else {
					ok = yield(EndHeading(node.Level))
				}
			case *ast.Blockquote:
				ok = yield(boundary(TagBlockQuote, entering))
			case *ast.FencedCodeBlock, *ast.CodeBlock:
				if !entering {
					ok = yield(End(TagCodeBlock))
					break
				}
				if ok = yield(Start(TagCodeBlock)); !ok {
					break
				}
				lines := n.Lines()
				for i := 0; i < lines.Len() && ok; i++ {
					seg := lines.At(i)
					ok = yield(Text(string(seg.Value(src))))
				}
			case *ast.AutoLink:
				if entering {
					ok = yield(Start(TagOther)) && yield(Text(string(node.Label(src))))
				} else {
					ok = yield(End(TagOther))
				}
			default:
				ok = yield(boundary(TagOther, entering))
			}
			if !ok {
				return ast.WalkStop, nil
			}
			return status, nil
		})
	}
}

func boundary(tag Tag, entering bool) Event {
	if entering {
		return Start(tag)
	}
	return End(tag)
}

// RenderHTML writes src as HTML to w.
func RenderHTML(src []byte, w io.Writer) error {
	return md.Convert(src, w)
}

// textValue is the literal text of a node: backslash escapes removed and
// character references resolved, as the HTML renderer writes it.
func textValue(n *ast.Text, src []byte) []byte {
	v := n.Segment.Value(src)
	if n.IsRaw() {
		return v
	}
	return util.ResolveEntityNames(util.ResolveNumericReferences(util.UnescapePunctuations(v)))
}
