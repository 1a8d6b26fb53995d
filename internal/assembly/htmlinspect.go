package assembly

import (
	"strings"

	"golang.org/x/net/html"
)

// countInternalLinks counts anchors pointing inside the site: relative
// paths, fragments, and query-only hrefs. External absolute URLs are the
// CMS's problem, not the assembler's.
func countInternalLinks(fragment string) int {
	root, err := parseFragment(fragment)
	if err != nil {
		return 0
	}

	count := 0
	walk(root, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "a" {
			return
		}
		href := getAttr(n, "href")
		if href == "" {
			return
		}
		if isInternalHref(href) {
			count++
		}
	})
	return count
}

// strippedText returns the text content of an HTML fragment with all tags
// removed and whitespace collapsed at the edges.
func strippedText(fragment string) string {
	root, err := parseFragment(fragment)
	if err != nil {
		return strings.TrimSpace(fragment)
	}

	var sb strings.Builder
	walk(root, func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
	})
	return strings.TrimSpace(sb.String())
}

// headingLevels returns the heading tags (h1..h6) appearing in a fragment,
// in document order.
func headingLevels(fragment string) []string {
	root, err := parseFragment(fragment)
	if err != nil {
		return nil
	}

	var tags []string
	walk(root, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.Data {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			tags = append(tags, n.Data)
		}
	})
	return tags
}

func parseFragment(fragment string) (*html.Node, error) {
	return html.Parse(strings.NewReader(fragment))
}

func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func isInternalHref(href string) bool {
	href = strings.TrimSpace(href)
	switch {
	case href == "":
		return false
	case strings.HasPrefix(href, "//"):
		return false
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return false
	case strings.HasPrefix(href, "mailto:"), strings.HasPrefix(href, "tel:"):
		return false
	default:
		return true
	}
}
