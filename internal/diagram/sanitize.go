package diagram

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// SanitizeSVG parses svg markup and re-renders the first <svg> element with
// script and foreignObject elements, on* event attributes and javascript:
// links removed.
func SanitizeSVG(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}
	svg := findSVG(doc)
	if svg == nil {
		return "", fmt.Errorf("no <svg> element")
	}
	scrub(svg)

	var b strings.Builder
	if err := html.Render(&b, svg); err != nil {
		return "", err
	}
	return b.String(), nil
}

func findSVG(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Svg {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findSVG(c); found != nil {
			return found
		}
	}
	return nil
}

func scrub(n *html.Node) {
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		key := strings.ToLower(a.Key)
		if strings.HasPrefix(key, "on") {
			continue
		}
		if (key == "href" || key == "xlink:href" || a.Namespace == "xlink" && key == "href") &&
			strings.HasPrefix(strings.ToLower(strings.TrimSpace(a.Val)), "javascript:") {
			continue
		}
		attrs = append(attrs, a)
	}
	n.Attr = attrs

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && isForbidden(c) {
			n.RemoveChild(c)
		} else {
			scrub(c)
		}
		c = next
	}
}

func isForbidden(n *html.Node) bool {
	switch strings.ToLower(n.Data) {
	case "script", "foreignobject", "iframe":
		return true
	}
	return false
}
