/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package fdx converts between the Final Draft XML interchange format and the
// screenplay element model. Parsing degrades per paragraph, never per
// document: a paragraph with no text is dropped, while malformed XML
// surfaces the decoder's structural error to the caller.
package fdx

import (
	"encoding/xml"
	"fmt"
	"strings"

	"goscreenwriter/internal/screenplay"
)

// Fixed bidirectional mapping between FDX paragraph types and element types.
// Unknown FDX types fall back to paragraph; unknown element types serialize
// as General.
var fdxToElement = map[string]screenplay.ElementType{
	"Scene Heading": screenplay.SceneHeading,
	"Action":        screenplay.Action,
	"Character":     screenplay.Character,
	"Dialogue":      screenplay.Dialogue,
	"Parenthetical": screenplay.Parenthetical,
	"Transition":    screenplay.Transition,
	"General":       screenplay.Paragraph,
}

var elementToFDX = map[screenplay.ElementType]string{
	screenplay.SceneHeading:  "Scene Heading",
	screenplay.Action:        "Action",
	screenplay.Character:     "Character",
	screenplay.Dialogue:      "Dialogue",
	screenplay.Parenthetical: "Parenthetical",
	screenplay.Transition:    "Transition",
	screenplay.Paragraph:     "General",
}

type xmlText struct {
	Value string `xml:",chardata"`
}

type xmlParagraph struct {
	Type string    `xml:"Type,attr"`
	Text []xmlText `xml:"Text"`
}

type xmlContent struct {
	Paragraphs []xmlParagraph `xml:"Paragraph"`
}

type xmlFinalDraft struct {
	XMLName      xml.Name   `xml:"FinalDraft"`
	DocumentType string     `xml:"DocumentType,attr"`
	Template     string     `xml:"Template,attr,omitempty"`
	Version      string     `xml:"Version,attr"`
	Content      xmlContent `xml:"Content"`
}

// Parse decodes a Final Draft document into an ordered element sequence.
// All Text runs of a paragraph are concatenated; style-run boundaries carry
// no meaning here. Paragraphs whose concatenated text trims to empty are
// dropped. A structural XML error is returned wrapped, not swallowed.
func Parse(data []byte) ([]screenplay.Element, error) {
	var fd xmlFinalDraft
	if err := xml.Unmarshal(data, &fd); err != nil {
		return nil, fmt.Errorf("parse fdx: %w", err)
	}
	elements := []screenplay.Element{}
	for _, p := range fd.Content.Paragraphs {
		var sb strings.Builder
		for _, t := range p.Text {
			sb.WriteString(t.Value)
		}
		text := strings.TrimSpace(sb.String())
		if text == "" {
			continue
		}
		et, ok := fdxToElement[p.Type]
		if !ok {
			et = screenplay.Paragraph
		}
		elements = append(elements, screenplay.Element{Type: et, Text: text})
	}
	return elements, nil
}

// Serialize emits a minimal FinalDraft XML document accepted by Final Draft
// 5 and later: one Paragraph per element with a single entity-escaped Text
// node, a TitlePage with a Title paragraph, and the empty header/footer
// stubs Final Draft expects.
func Serialize(elements []screenplay.Element, title string) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<FinalDraft DocumentType="Script" Template="No" Version="5">` + "\n")
	b.WriteString("  <Content>\n")
	for _, el := range elements {
		fdxType, ok := elementToFDX[el.Type]
		if !ok {
			fdxType = "General"
		}
		b.WriteString(`    <Paragraph Type="` + escape(fdxType) + `">` + "\n")
		b.WriteString("      <Text>" + escape(el.Text) + "</Text>\n")
		b.WriteString("    </Paragraph>\n")
	}
	b.WriteString("  </Content>\n")
	b.WriteString("  <TitlePage>\n")
	b.WriteString("    <Content>\n")
	b.WriteString(`      <Paragraph Type="Title">` + "\n")
	b.WriteString("        <Text>" + escape(title) + "</Text>\n")
	b.WriteString("      </Paragraph>\n")
	b.WriteString("    </Content>\n")
	b.WriteString("  </TitlePage>\n")
	b.WriteString("  <HeaderAndFooter>\n")
	b.WriteString("    <Header>\n      <Paragraph>\n        <Text></Text>\n      </Paragraph>\n    </Header>\n")
	b.WriteString("    <Footer>\n      <Paragraph>\n        <Text></Text>\n      </Paragraph>\n    </Footer>\n")
	b.WriteString("  </HeaderAndFooter>\n")
	b.WriteString("</FinalDraft>\n")
	return b.String()
}

// escape covers the five XML entities; attribute and element content share
// the same escaping here.
func escape(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return r.Replace(s)
}
