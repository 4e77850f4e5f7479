// Package sanitize filters evaluator output down to an allow-listed HTML
// subset. Author scripts are trusted-but-fallible: everything they emit is
// sanitized before it is rendered or compared, so a script can never inject
// active content into the editor's own surface.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var allowedAttrs = []string{
	"href", "src", "alt", "title", "style", "class", "id", "target", "rel",
}

var allowedTags = []string{
	"h1", "h2", "h3", "h4", "h5", "h6",
	"p", "blockquote",
	"ul", "ol", "li",
	"table", "thead", "tbody", "tfoot", "tr", "th", "td", "caption",
	"em", "strong", "i", "b", "u", "sup", "sub",
	"code", "pre",
	"a", "img",
	"div", "span", "br", "hr",
}

var policy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(allowedTags...)
	p.AllowAttrs(allowedAttrs...).Globally()
	p.AllowRelativeURLs(true)
	p.AllowURLSchemes("http", "https", "mailto")
	p.SkipElementsContent("script", "style", "iframe", "object")
	return p
}()

// Clean strips everything outside the allow list, script and event-handler
// content included.
func Clean(raw string) string {
	return policy.Sanitize(raw)
}

// Text reduces markup to trimmed plain text: tags dropped, text nodes
// concatenated in document order. Input that fails to parse degrades to the
// trimmed input, which for plain strings is the identity.
func Text(raw string) string {
	if !strings.ContainsRune(raw, '<') {
		return strings.TrimSpace(raw)
	}
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return strings.TrimSpace(raw)
	}
	var b strings.Builder
	collectText(doc, &b)
	return strings.TrimSpace(b.String())
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}
