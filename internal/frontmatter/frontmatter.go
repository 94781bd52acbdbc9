// Package frontmatter separates a leading YAML block (`---` delimited) from a
// markdown page body.
package frontmatter

import (
	"errors"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Document is a page split into front matter and body.
type Document struct {
	Raw    string         // front matter without delimiters
	Fields map[string]any // decoded front matter; empty when absent
	Body   string
	Had    bool
}

// Title returns the string `title` field, or "".
func (d Document) Title() string {
	if t, ok := d.Fields["title"].(string); ok {
		return strings.TrimSpace(t)
	}
	return ""
}

// Split separates YAML frontmatter from the Markdown body.
//
// If the document does not start with a YAML frontmatter delimiter, had is false
// and body is the full input. Both \n and \r\n line endings are accepted.
func Split(content string) (frontmatter, body string, had bool, err error) {
	nl := detectNewline(content)
	open := "---" + nl
	if !strings.HasPrefix(content, open) {
		return "", content, false, nil
	}

	rest := content[len(open):]
	if strings.HasPrefix(rest, open) {
		return "", rest[len(open):], true, nil
	}

	closeSeq := nl + "---" + nl
	idx := strings.Index(rest, closeSeq)
	if idx < 0 {
		// A closing delimiter on the last line without a trailing newline.
		if strings.HasSuffix(rest, nl+"---") {
			return rest[:len(rest)-len("---")], "", true, nil
		}
		return "", content, false, ErrMissingClosingDelimiter
	}
	return rest[:idx+len(nl)], rest[idx+len(closeSeq):], true, nil
}

// Parse splits content and decodes its front matter. It is lenient: on a
// missing delimiter or invalid YAML the whole input is returned as Body
// together with the error, so callers can log and carry on.
func Parse(content string) (Document, error) {
	raw, body, had, err := Split(content)
	if err != nil {
		return Document{Fields: map[string]any{}, Body: content}, err
	}
	fields, err := ParseYAML(raw)
	if err != nil {
		return Document{Fields: map[string]any{}, Body: content}, err
	}
	return Document{Raw: raw, Fields: fields, Body: body, Had: had}, nil
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(frontmatter string) (map[string]any, error) {
	if strings.TrimSpace(frontmatter) == "" {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal([]byte(frontmatter), &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectNewline(content string) string {
	if i := strings.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
