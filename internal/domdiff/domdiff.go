// Package domdiff compares two HTML fragments for structural equivalence,
// ignoring whitespace-only text nodes and collapsing internal whitespace in
// the text nodes that remain. It backs the structural-parity checks the
// test suite runs against extracted content.
package domdiff

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Equivalent reports whether a and b parse to the same element tree, tag
// names, and (whitespace-normalized) text content. Attribute values are not
// compared; extraction intentionally relaxes attribute ordering and some
// cosmetic attribute differences across runs.
func Equivalent(a, b string) (bool, string) {
	docA, err := goquery.NewDocumentFromReader(strings.NewReader(a))
	if err != nil {
		return false, fmt.Sprintf("parsing a: %v", err)
	}
	docB, err := goquery.NewDocumentFromReader(strings.NewReader(b))
	if err != nil {
		return false, fmt.Sprintf("parsing b: %v", err)
	}

	return compareNodes(bodyNode(docA), bodyNode(docB))
}

func bodyNode(doc *goquery.Document) *html.Node {
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return nil
	}
	return body.Get(0)
}

func compareNodes(a, b *html.Node) (bool, string) {
	a = skipWhitespace(a)
	b = skipWhitespace(b)

	for a != nil && b != nil {
		if a.Type != b.Type {
			return false, fmt.Sprintf("node type mismatch: %v vs %v", a.Type, b.Type)
		}

		switch a.Type {
		case html.ElementNode:
			if a.Data != b.Data {
				return false, fmt.Sprintf("tag mismatch: %s vs %s", a.Data, b.Data)
			}
			if ok, reason := compareNodes(a.FirstChild, b.FirstChild); !ok {
				return false, reason
			}
		case html.TextNode:
			ta := normalizeText(a.Data)
			tb := normalizeText(b.Data)
			if ta != tb {
				return false, fmt.Sprintf("text mismatch: %q vs %q", ta, tb)
			}
		}

		a = skipWhitespace(a.NextSibling)
		b = skipWhitespace(b.NextSibling)
	}

	if a != nil || b != nil {
		return false, "differing number of sibling nodes"
	}
	return true, ""
}

func skipWhitespace(n *html.Node) *html.Node {
	for n != nil {
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) == "" {
			n = n.NextSibling
			continue
		}
		if n.Type == html.CommentNode {
			n = n.NextSibling
			continue
		}
		return n
	}
	return nil
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
