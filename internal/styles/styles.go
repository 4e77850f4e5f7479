// Package styles extracts inline style declarations from HTML for
// structural comparison against a test case's expected styles.
package styles

import (
	"strings"

	"golang.org/x/net/html"
)

// Extract walks every element carrying a style attribute and records
// property -> value. Declarations split on ';', each on the first ':', both
// sides trimmed. When the same property appears on several elements the one
// later in document order wins; test cases are written assuming that.
func Extract(markup string) map[string]string {
	out := make(map[string]string)
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return out
	}
	walk(doc, out)
	return out
}

func walk(n *html.Node, out map[string]string) {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if strings.EqualFold(attr.Key, "style") {
				parseDeclarations(attr.Val, out)
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, out)
	}
}

func parseDeclarations(style string, out map[string]string) {
	for _, decl := range strings.Split(style, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.TrimSpace(prop)
		val = strings.TrimSpace(val)
		if prop != "" {
			out[prop] = val
		}
	}
}
