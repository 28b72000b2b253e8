package engine

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// empty reports whether a selection is nil or refers to zero nodes. Nearly
// every helper below guards on this first, so it's pulled out once.
func empty(s *goquery.Selection) bool {
	return s == nil || s.Length() == 0
}

// getNodeName returns the uppercase tag name of the first node in s.
func getNodeName(s *goquery.Selection) string {
	if empty(s) || s.Get(0) == nil {
		return ""
	}
	return strings.ToUpper(s.Get(0).Data)
}

// getOuterHTML renders s including its own tag, or "" if rendering fails.
func getOuterHTML(s *goquery.Selection) string {
	if empty(s) {
		return ""
	}
	out, err := goquery.OuterHtml(s)
	if err != nil {
		return ""
	}
	return out
}

// getClassWeight scores a node's class/id attributes against the negative
// (ad, sidebar, ...) and positive (article, content, ...) patterns: each
// match shifts the weight by ClassWeightNegative/ClassWeightPositive.
func getClassWeight(s *goquery.Selection) int {
	if empty(s) {
		return 0
	}

	var weight int
	for _, attrName := range [...]string{"class", "id"} {
		val, ok := s.Attr(attrName)
		if !ok || val == "" {
			continue
		}
		if RegexpNegative.MatchString(val) {
			weight -= ClassWeightNegative
		}
		if RegexpPositive.MatchString(val) {
			weight += ClassWeightPositive
		}
	}
	return weight
}

// isSameNode does a pointer comparison; two nils count as the same node.
func isSameNode(node1, node2 *html.Node) bool {
	return node1 == node2
}

// isNodeVisible reports false for nodes hidden via inline display:none, the
// hidden attribute, or aria-hidden="true" (unless it carries the
// fallback-image exception class some sites use for lazy-loaded images).
func isNodeVisible(node *html.Node) bool {
	if node == nil {
		return false
	}

	var style, class string
	hidden, ariaHidden := false, false
	for _, attr := range node.Attr {
		switch attr.Key {
		case "style":
			style = attr.Val
		case "hidden":
			hidden = true
		case "aria-hidden":
			ariaHidden = attr.Val == "true"
		case "class":
			class = attr.Val
		}
	}

	if strings.Contains(style, "display:none") || hidden {
		return false
	}
	if ariaHidden && !strings.Contains(class, "fallback-image") {
		return false
	}
	return true
}

// contains reports whether s appears in slice. Falls back to a map lookup
// past a handful of items, where linear scan overhead starts to dominate.
func contains(slice []string, s string) bool {
	const linearScanCutoff = 10
	if len(slice) < linearScanCutoff {
		for _, item := range slice {
			if item == s {
				return true
			}
		}
		return false
	}

	lookup := make(map[string]struct{}, len(slice))
	for _, item := range slice {
		lookup[item] = struct{}{}
	}
	_, found := lookup[s]
	return found
}

// hasAncestorTag walks up from s looking for an ancestor tagged tagName,
// stopping after maxDepth steps (0 means unbounded) or when filterFn, if
// given, rejects a same-tag ancestor.
func hasAncestorTag(s *goquery.Selection, tagName string, maxDepth int, filterFn func(*goquery.Selection) bool) bool {
	if empty(s) {
		return false
	}
	tagName = strings.ToUpper(tagName)

	for depth, parent := 0, s.Parent(); parent.Length() > 0; depth, parent = depth+1, parent.Parent() {
		if maxDepth > 0 && depth > maxDepth {
			return false
		}
		if strings.ToUpper(goquery.NodeName(parent)) == tagName && (filterFn == nil || filterFn(parent)) {
			return true
		}
	}
	return false
}

// isElementWithoutContent reports whether s has no text and no children
// besides (optionally) br/hr elements.
func isElementWithoutContent(s *goquery.Selection) bool {
	if empty(s) {
		return true
	}
	if strings.TrimSpace(s.Text()) != "" {
		return false
	}

	children := s.Children()
	breakCount := s.Find("br").Length() + s.Find("hr").Length()
	return children.Length() == 0 || children.Length() == breakCount
}

// hasSingleTagInsideElement reports whether s's only child is a single tag
// element and s carries no other non-whitespace text alongside it.
func hasSingleTagInsideElement(s *goquery.Selection, tag string) bool {
	if empty(s) {
		return false
	}

	children := s.Children()
	if children.Length() != 1 {
		return false
	}
	first := children.First()
	if empty(first) || strings.ToUpper(goquery.NodeName(first)) != strings.ToUpper(tag) {
		return false
	}

	hasText := false
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		if hasText || empty(c) || c.Get(0) == nil || c.Get(0).Type != TextNode {
			return
		}
		if strings.TrimSpace(c.Text()) != "" {
			hasText = true
		}
	})
	return !hasText
}

// hasChildBlockElement reports whether s contains any descendant tagged as
// one of the block-level elements that div-to-p conversion cares about.
func hasChildBlockElement(s *goquery.Selection) bool {
	if empty(s) {
		return false
	}
	for _, elem := range DivToPElems {
		if s.Find(elem).Length() > 0 {
			return true
		}
	}
	return false
}

// isPhrasingContent reports whether node is inline/text-level content: a
// text node, a tag in the phrasing-elements list, or an A/DEL/INS element
// whose children are themselves all phrasing content.
func isPhrasingContent(node *html.Node) bool {
	if node == nil {
		return false
	}
	if node.Type == TextNode {
		return true
	}

	tag := strings.ToUpper(node.Data)
	for _, elem := range PhrasingElems {
		if tag == elem {
			return true
		}
	}

	if tag == "A" || tag == "DEL" || tag == "INS" {
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if !isPhrasingContent(child) {
				return false
			}
		}
		return true
	}
	return false
}

// isSingleImage reports whether s is an <img>, or wraps nothing but a chain
// of single children eventually bottoming out at one.
func isSingleImage(s *goquery.Selection) bool {
	if empty(s) {
		return false
	}
	if getNodeName(s) == "IMG" {
		return true
	}
	if s.Children().Length() != 1 || strings.TrimSpace(s.Text()) != "" {
		return false
	}
	return isSingleImage(s.Children())
}

// getNextNode walks the tree in depth-first document order: into the first
// child unless ignoreSelfAndKids is set, otherwise to the next sibling, or
// failing that up the ancestor chain to the first ancestor with a sibling.
func getNextNode(s *goquery.Selection, ignoreSelfAndKids bool) *goquery.Selection {
	if empty(s) {
		return nil
	}

	if !ignoreSelfAndKids {
		if first := s.Children().First(); !empty(first) {
			return first
		}
	}
	if next := s.Next(); !empty(next) {
		return next
	}
	for parent := s.Parent(); parent.Length() > 0; parent = parent.Parent() {
		if sibling := parent.Next(); !empty(sibling) {
			return sibling
		}
	}
	return nil
}

// removeAndGetNext detaches s from the tree and returns where traversal
// should resume: the node that would have followed it, skipping its
// now-removed subtree.
func removeAndGetNext(s *goquery.Selection) *goquery.Selection {
	next := getNextNode(s, true)
	if !empty(s) {
		s.Remove()
	}
	return next
}

// getNodeAncestors lists s's ancestors nearest-first, capped at maxDepth
// entries (0 means unbounded).
func getNodeAncestors(s *goquery.Selection, maxDepth int) []*goquery.Selection {
	var ancestors []*goquery.Selection
	for i, parent := 0, s.Parent(); parent.Length() > 0; i, parent = i+1, parent.Parent() {
		ancestors = append(ancestors, parent)
		if maxDepth > 0 && i+1 == maxDepth {
			break
		}
	}
	return ancestors
}

// everyNode reports whether fn holds for every node in selection; an empty
// selection vacuously satisfies it.
func everyNode(selection *goquery.Selection, fn func(int, *goquery.Selection) bool) bool {
	if empty(selection) {
		return true
	}
	all := true
	selection.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if !fn(i, s) {
			all = false
			return false
		}
		return true
	})
	return all
}

// setNodeTag rebuilds s as a new element with tagName, carrying over its
// attributes and inner HTML, and swaps it into s's place in the tree.
func setNodeTag(s *goquery.Selection, tagName string) *goquery.Selection {
	if empty(s) {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fmt.Sprintf("<%s></%s>", tagName, tagName)))
	if err != nil {
		return nil
	}
	replacement := doc.Find(tagName)

	for _, attr := range s.Get(0).Attr {
		replacement.SetAttr(attr.Key, attr.Val)
	}
	if inner, err := s.Html(); err == nil {
		replacement.SetHtml(inner)
	}

	s.ReplaceWithSelection(replacement)
	return replacement
}
