package markdown

import (
	"regexp"
	"strings"
)

// CalloutKind is the flavour of an admonition block.
type CalloutKind string

const (
	CalloutNote      CalloutKind = "note"
	CalloutWarning   CalloutKind = "warning"
	CalloutTip       CalloutKind = "tip"
	CalloutCaution   CalloutKind = "caution"
	CalloutImportant CalloutKind = "important"
)

var calloutTitles = map[CalloutKind]string{
	CalloutNote:      "Note",
	CalloutWarning:   "Warning",
	CalloutTip:       "Tip",
	CalloutCaution:   "Caution",
	CalloutImportant: "Important",
}

// Valid reports whether k is one of the known kinds.
func (k CalloutKind) Valid() bool {
	_, ok := calloutTitles[k]
	return ok
}

// DefaultTitle is the heading shown when the marker carries no title.
func (k CalloutKind) DefaultTitle() string {
	return calloutTitles[k]
}

// Callout is a parsed `[!KIND] title` marker.
type Callout struct {
	Kind  CalloutKind
	Title string
}

var calloutMarker = regexp.MustCompile(`(?i)^\s{0,3}(?:>\s*)?\[!(NOTE|WARNING|TIP|CAUTION|IMPORTANT)\]\s*(.*)$`)

// MatchCallout reports whether line opens a callout. The leading `>` is
// optional so the same check works on raw source and on the first line of
// an already parsed block quote.
func MatchCallout(line string) (Callout, bool) {
	m := calloutMarker.FindStringSubmatch(strings.TrimRight(line, " \t\r\n"))
	if m == nil {
		return Callout{}, false
	}
	return Callout{Kind: CalloutKind(strings.ToLower(m[1])), Title: strings.TrimSpace(m[2])}, true
}

var quoteLine = regexp.MustCompile(`^ {0,3}>`)

// NormalizeCallouts rewrites top-level `> [!KIND] title` block quotes into
// `:::kind title` ... `:::` containers. Quoted lines and lazy continuation
// lines up to the next blank line belong to the callout. Fenced code, bare
// or inside a block quote, is copied through untouched.
func NormalizeCallouts(src string) string {
	lines := strings.SplitAfter(src, "\n")
	var (
		b      strings.Builder
		fence  string
		qfence string
		open   bool
	)
	closeCallout := func() {
		b.WriteString(":::\n")
		open = false
	}

	for _, line := range lines {
		if line == "" {
			continue
		}
		bare := strings.TrimRight(line, "\r\n")

		if open {
			switch {
			case strings.TrimSpace(bare) == "":
				closeCallout()
				b.WriteString(line)
			case quoteLine.MatchString(bare):
				b.WriteString(stripQuote(bare) + "\n")
			default:
				b.WriteString(bare + "\n")
			}
			continue
		}

		if fence != "" {
			if closesFence(bare, fence) {
				fence = ""
			}
			b.WriteString(line)
			continue
		}
		if f := opensFence(bare); f != "" {
			fence = f
			b.WriteString(line)
			continue
		}

		if !quoteLine.MatchString(bare) {
			qfence = ""
		} else {
			inner := stripQuotes(bare)
			if qfence != "" {
				if closesFence(inner, qfence) {
					qfence = ""
				}
				b.WriteString(line)
				continue
			}
			if f := opensFence(inner); f != "" {
				qfence = f
				b.WriteString(line)
				continue
			}
			if co, ok := MatchCallout(bare); ok {
				b.WriteString(":::" + string(co.Kind))
				if co.Title != "" {
					b.WriteString(" " + co.Title)
				}
				b.WriteString("\n")
				open = true
				continue
			}
		}
		b.WriteString(line)
	}
	if open {
		closeCallout()
	}
	return b.String()
}

func stripQuote(line string) string {
	i := strings.IndexByte(line, '>')
	rest := line[i+1:]
	return strings.TrimPrefix(rest, " ")
}

// stripQuotes removes every nested block quote marker from line.
func stripQuotes(line string) string {
	for quoteLine.MatchString(line) {
		line = stripQuote(line)
	}
	return line
}

// opensFence returns the fence marker run of an opening code fence.
func opensFence(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return ""
	}
	for _, ch := range []byte{'`', '~'} {
		n := 0
		for n < len(trimmed) && trimmed[n] == ch {
			n++
		}
		if n >= 3 {
			if ch == '`' && strings.ContainsRune(trimmed[n:], '`') {
				return ""
			}
			return trimmed[:n]
		}
	}
	return ""
}

func closesFence(line, fence string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, fence) {
		return false
	}
	return strings.Trim(trimmed, fence[:1]) == ""
}
