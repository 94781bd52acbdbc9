// Package highlight turns code text plus a language tag into styled HTML.
package highlight

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter renders a code block. An unknown or empty language still
// yields a valid, unstyled rendering.
type Highlighter interface {
	Highlight(code, lang string) (string, error)
}

// Plain escapes code into a bare <pre><code> block.
type Plain struct{}

// Highlight implements Highlighter.
func (Plain) Highlight(code, lang string) (string, error) {
	var b strings.Builder
	b.WriteString("<pre><code")
	if lang != "" {
		fmt.Fprintf(&b, ` class="language-%s"`, html.EscapeString(lang))
	}
	b.WriteString(">")
	b.WriteString(html.EscapeString(code))
	b.WriteString("</code></pre>")
	return b.String(), nil
}

// Chroma highlights with class-based HTML; pair it with CSS().
type Chroma struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewChroma returns a highlighter using the named style (unknown names fall
// back to chroma's default style).
func NewChroma(styleName string, lineNumbers bool) *Chroma {
	return &Chroma{
		style:     styles.Get(styleName),
		formatter: chromahtml.New(chromahtml.WithClasses(true), chromahtml.WithLineNumbers(lineNumbers)),
	}
}

// Highlight implements Highlighter.
func (c *Chroma) Highlight(code, lang string) (string, error) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenise %s: %w", lang, err)
	}
	var b strings.Builder
	if err := c.formatter.Format(&b, c.style, it); err != nil {
		return "", fmt.Errorf("format %s: %w", lang, err)
	}
	return b.String(), nil
}

// WriteCSS writes the stylesheet for the configured style.
func (c *Chroma) WriteCSS(w io.Writer) error {
	return c.formatter.WriteCSS(w, c.style)
}

// CSS returns the stylesheet for the configured style.
func (c *Chroma) CSS() string {
	var b strings.Builder
	if err := c.WriteCSS(&b); err != nil {
		return ""
	}
	return b.String()
}
