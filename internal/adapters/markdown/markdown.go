// Package markdown renders desk text to HTML with goldmark.
package markdown

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// renderer leaves WithUnsafe unset, so raw HTML in the input is dropped.
var renderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
		goldmarkHTML.WithXHTML(),
	),
)

// Render converts md to HTML.
// PRE: none
// POST: Output contains no raw HTML taken from md
func Render(md string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// escaper backslash-escapes every ASCII punctuation character goldmark treats as markup.
var escaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", `*`, `\*`, `_`, `\_`,
	`{`, `\{`, `}`, `\}`, `[`, `\[`, `]`, `\]`,
	`(`, `\(`, `)`, `\)`, `#`, `\#`, `+`, `\+`,
	`-`, `\-`, `.`, `\.`, `!`, `\!`, `|`, `\|`,
	`<`, `\<`, `>`, `\>`, `&`, `\&`, `~`, `\~`,
)

// lineBreaks folds line breaks into spaces.
var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// Escape makes s render as literal text, on a single line.
// POST: Inner spacing is kept; only line breaks and surrounding whitespace change
func Escape(s string) string {
	s = strings.TrimSpace(lineBreaks.Replace(s))
	return escaper.Replace(s)
}
