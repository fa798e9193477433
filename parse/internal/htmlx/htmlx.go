// Package htmlx holds the small goquery helpers shared by the HTML
// parser variants.
package htmlx

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Text returns the selection's text with runs of whitespace collapsed to
// single spaces, the way the heuristics expect card text to look.
func Text(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

// NextCursor finds a conventional next-page link: rel=next, or an anchor
// inside a pagination block. The href is returned as-is; the walker
// resolves it against the target URL.
func NextCursor(doc *goquery.Document) string {
	if href, ok := doc.Find("a[rel='next']").First().Attr("href"); ok && href != "" {
		return href
	}
	for _, sel := range []string{
		".pagination .next a",
		".pagination a.next",
		"[class*='load-more'][data-cursor]",
	} {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		if cursor, ok := node.Attr("data-cursor"); ok && cursor != "" {
			return cursor
		}
		if href, ok := node.Attr("href"); ok && href != "" {
			return href
		}
	}
	return ""
}

// TopLevel filters a selection down to nodes that have no matched
// ancestor. Class-substring selectors like [class*='post'] match both a
// card and its inner "post-content" div; only the outermost node should
// become a record.
func TopLevel(sel *goquery.Selection) *goquery.Selection {
	matched := make(map[*html.Node]bool, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		matched[s.Get(0)] = true
	})
	return sel.FilterFunction(func(_ int, s *goquery.Selection) bool {
		for p := s.Get(0).Parent; p != nil; p = p.Parent {
			if matched[p] {
				return false
			}
		}
		return true
	})
}

// Breadcrumb returns the second-to-last crumb of a breadcrumb trail,
// e.g. "Stocks / Automotive / TSLA" -> "Automotive".
func Breadcrumb(doc *goquery.Document) string {
	var category string
	doc.Find("nav.breadcrumb, .breadcrumb, .breadcrumbs").EachWithBreak(func(_ int, crumb *goquery.Selection) bool {
		parts := make([]string, 0, 4)
		for _, p := range strings.Split(Text(crumb), "/") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) >= 2 {
			category = parts[len(parts)-2]
			return false
		}
		return true
	})
	return category
}
