package markdown

import (
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)

// IsExternal reports whether target points outside the site: any
// `scheme:` form (http, https, mailto, ...) or a protocol-relative URL.
func IsExternal(target string) bool {
	return schemePattern.MatchString(target) || strings.HasPrefix(target, "//")
}

// link builds the node for a hyperlink. Relative targets naming a markdown
// file listed in the manifest become internal page links; everything else
// keeps its original target. A link without a target yields its children.
func (c *converter) link(dest, title string, children []*Node) []*Node {
	if dest == "" {
		return children
	}
	if href, ok := c.resolveLink(dest); ok {
		return one(&Node{Kind: KindLink, Href: href, Title: title, Internal: true, Children: children})
	}
	return one(&Node{Kind: KindLink, Href: dest, Title: title, External: IsExternal(dest), Children: children})
}

func (c *converter) resolveLink(dest string) (string, bool) {
	if !IsPageLink(dest) || c.rc.SourceID == "" || c.rc.Manifest == nil {
		return "", false
	}
	page, ok := c.rc.Manifest.PageByFile(strings.TrimPrefix(dest, "./"))
	if !ok {
		return "", false
	}
	return "/" + strings.Trim(c.rc.docsRoot(), "/") + "/" + c.rc.SourceID + "/" + page.ID, true
}

// LinkKind classifies a link-like construct found by ExtractLinks.
type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
)

// Link is one destination found in a markdown body.
type Link struct {
	Kind        LinkKind
	Destination string
}

// ExtractLinks parses a markdown body and lists its link destinations in
// document order, followed by reference definitions sorted by label.
// Links inside code spans and code blocks are not reported.
func ExtractLinks(body []byte) []Link {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	links := make([]Link, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body))})
		case *gmast.Image:
			links = append(links, Link{Kind: LinkKindImage, Destination: string(node.Destination)})
		case *gmast.Link:
			links = append(links, Link{Kind: LinkKindInline, Destination: string(node.Destination)})
		}
		return gmast.WalkContinue, nil
	})

	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		links = append(links, Link{Kind: LinkKindReferenceDefinition, Destination: string(ref.Destination())})
	}
	return links
}

// IsPageLink reports whether a link destination is a candidate for
// resolution against a manifest.
func IsPageLink(dest string) bool {
	return strings.HasSuffix(dest, ".md") && !IsExternal(dest)
}
