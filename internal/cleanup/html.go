package cleanup

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pagelens/readex/internal/textnorm"
)

// elementsToDeleteList holds the HTML5 tags (grouped here by spec category
// purely for readability) that get removed along with their contents:
// forms, embedded media, scripting, and other elements a plain-content
// rendering has no use for.
var elementsToDeleteList = concatTagLists(
	[]string{"button", "datalist", "fieldset", "form", "input", "label", "legend", "meter", "optgroup", "option", "output", "progress", "select", "textarea"}, // forms
	[]string{"area", "img", "map", "picture", "source"},     // images
	[]string{"audio", "track", "video"},                     // media
	[]string{"embed", "iframe", "math", "object", "param", "svg"}, // embedded
	[]string{"details", "dialog", "summary"},                // interactive
	[]string{"canvas", "noscript", "script", "template"},    // scripting
	[]string{"data", "link"},                                // data
	[]string{"style"},                                       // formatting
	[]string{"nav"},                                         // navigation
)

// elementsToReplaceList holds inline/formatting tags that get discarded
// while their contents are kept in place.
var elementsToReplaceList = []string{
	"a", "abbr", "address", "b", "bdi", "bdo", "center", "cite",
	"code", "del", "dfn", "em", "i", "ins", "kbs", "mark",
	"rb", "ruby", "rp", "rt", "rtc", "s", "samp", "small", "span",
	"strong", "time", "u", "var", "wbr",
}

// specialElementsList holds tags that get a textual marker substituted in
// place of the tag itself (e.g. <q> becomes quote marks) rather than a
// plain unwrap.
var specialElementsList = []string{"q", "sub", "sup"}

// blockLevelWhitelistList holds the block-level tags that always survive
// unknown-element pruning.
var blockLevelWhitelistList = []string{
	"article", "aside", "blockquote", "caption", "colgroup", "col",
	"div", "dl", "dt", "dd", "figure", "figcaption", "footer",
	"h1", "h2", "h3", "h4", "h5", "h6", "header", "li", "main",
	"ol", "p", "pre", "section", "table", "tbody", "thead",
	"tfoot", "tr", "td", "th", "ul",
}

var structuralElementsList = []string{"html", "head", "body"}
var metadataElementsList = []string{"meta", "link", "base", "title"}
var linebreakElementsList = []string{"br", "hr"}

// knownElementsList is every tag the simplifier recognizes; anything else
// gets unwrapped by processUnknownElements.
var knownElementsList = concatTagLists(
	structuralElementsList, metadataElementsList, linebreakElementsList,
	elementsToDeleteList, elementsToReplaceList, specialElementsList,
	blockLevelWhitelistList,
)

func concatTagLists(lists ...[]string) []string {
	var all []string
	for _, l := range lists {
		all = append(all, l...)
	}
	return all
}

// ElementsToDelete returns the tags removed along with their contents.
func ElementsToDelete() []string { return elementsToDeleteList }

// ElementsToReplaceWithContents returns the tags discarded while their
// contents are kept.
func ElementsToReplaceWithContents() []string { return elementsToReplaceList }

// SpecialElements returns the tags that need custom handling when unwrapped.
func SpecialElements() []string { return specialElementsList }

// BlockLevelWhitelist returns the block-level tags always accepted.
func BlockLevelWhitelist() []string { return blockLevelWhitelistList }

// StructuralElements returns the document-skeleton tags left untouched.
func StructuralElements() []string { return structuralElementsList }

// MetadataElements returns the head-only tags left untouched.
func MetadataElements() []string { return metadataElementsList }

// LinebreakElements returns the tags treated as line breaks.
func LinebreakElements() []string { return linebreakElementsList }

// KnownElements returns every tag the simplifier recognizes.
func KnownElements() []string { return knownElementsList }

// PlainElement wraps a goquery.Selection with the digest/index metadata
// PlainContent attaches to leaf nodes while walking the simplified tree.
type PlainElement struct {
	*goquery.Selection
	contentDigest string
	nodeIndex     string
}

// NewPlainElement creates a new PlainElement from a goquery.Selection
func NewPlainElement(s *goquery.Selection) *PlainElement {
	return &PlainElement{Selection: s}
}

// isLeafNode reports whether el is a paragraph or list item — the two tags
// PlainContent annotates with content digests.
func isLeafNode(el *PlainElement) bool {
	if el == nil || el.Selection == nil {
		return false
	}
	name := goquery.NodeName(el.Selection)
	return name == "p" || name == "li"
}

// calculateContentDigest computes SHA256 hash of element content
func calculateContentDigest(el *PlainElement) string {
	if el == nil || el.Selection == nil {
		return ""
	}

	if isLeafNode(el) {
		// For leaf nodes, hash the normalized text content
		text := textnorm.NormalizeText(el.Text())
		if text == "" {
			return ""
		}

		h := sha256.New()
		h.Write([]byte(text))
		return fmt.Sprintf("%x", h.Sum(nil))
	}

	// For non-leaf nodes, recursively calculate digests
	h := sha256.New()
	var hasContent bool

	// Process every child recursively in order
	el.Children().Each(func(_ int, s *goquery.Selection) {
		child := NewPlainElement(s)
		childDigest := calculateContentDigest(child)
		if childDigest != "" {
			// For compatibility with ReadabiliPy, we need to use a specific format
			// The Python version concatenates the digests and then hashes the result
			h.Write([]byte(childDigest))
			hasContent = true
		}
	})

	if !hasContent {
		return ""
	}

	return fmt.Sprintf("%x", h.Sum(nil))
}

// removeMetadata removes comments and doctype declarations
func removeMetadata(doc *goquery.Document) {
	// Find all comment nodes
	var comments []*html.Node
	var findComments func(*html.Node)

	findComments = func(n *html.Node) {
		if n.Type == html.CommentNode || n.Type == html.DoctypeNode {
			comments = append(comments, n)
		}

		// Traverse children
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findComments(c)
		}
	}

	// Start traversal from the document root
	if len(doc.Nodes) > 0 {
		findComments(doc.Nodes[0])
	}

	// Remove all found comment nodes
	for _, n := range comments {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

// stripAttributes removes class and style attributes from all elements
func stripAttributes(doc *goquery.Document) {
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		s.RemoveAttr("class")
		s.RemoveAttr("style")
	})
}

// removeBlacklist removes all blacklisted elements
func removeBlacklist(doc *goquery.Document) {
	// Remove elements from the standard blacklist
	for _, elementName := range ElementsToDelete() {
		doc.Find(elementName).Each(func(_ int, s *goquery.Selection) {
			s.Remove()
		})
	}

	// Remove common non-content elements
	doc.Find("nav, header, footer, aside, .sidebar, .navigation, .menu, .ad, .advertisement").Remove()

	// Remove elements with common non-content class/ID patterns
	doc.Find("[class*='nav'], [class*='menu'], [class*='sidebar'], [class*='footer'], [class*='header'], [id*='nav'], [id*='menu'], [id*='sidebar'], [id*='footer'], [id*='header']").Remove()

	// Remove elements with high link density
	doc.Find("*").Each(func(i int, s *goquery.Selection) {
		if CalculateLinkDensity(s) > 0.5 {
			s.Remove()
		}
	})
}

// unwrapElements replaces elements with their contents
func unwrapElements(doc *goquery.Document) {
	for _, elementName := range ElementsToReplaceWithContents() {
		doc.Find(elementName).Each(func(_ int, s *goquery.Selection) {
			s.Contents().Unwrap()
		})
	}
}

// processSpecialElements substitutes a textual marker for elements whose
// meaning goquery can't otherwise preserve once their tag is stripped:
// <q> gets surrounding quotes, <sub>/<sup> get a leading marker character.
func processSpecialElements(doc *goquery.Document) {
	// Process q elements - add quotes
	doc.Find("q").Each(func(_ int, s *goquery.Selection) {
		// Get the text content
		text := s.Text()
		if text != "" {
			// Replace the element with quotes around the content
			s.ReplaceWithHtml(`"` + text + `"`)
		}
	})

	// Process sub elements - add underscore
	doc.Find("sub").Each(func(_ int, s *goquery.Selection) {
		// Get the text content
		text := s.Text()
		if text != "" {
			// Replace the element with underscore before the content
			s.ReplaceWithHtml(`_` + text)
		}
	})

	// Process sup elements - add caret
	doc.Find("sup").Each(func(_ int, s *goquery.Selection) {
		// Get the text content
		text := s.Text()
		if text != "" {
			// Replace the element with caret before the content
			s.ReplaceWithHtml(`^` + text)
		}
	})

	// Normalize spaces in the document
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		// Skip text nodes
		if s.Get(0) != nil && s.Get(0).Type == html.TextNode {
			return
		}

		// Get the HTML content
		html, err := s.Html()
		if err != nil {
			return
		}

		// Replace consecutive spaces with a single space
		html = strings.ReplaceAll(html, "  ", " ")

		// Add spaces around special characters
		html = strings.ReplaceAll(html, `"`, `" `)
		html = strings.ReplaceAll(html, `_`, ` _`)
		html = strings.ReplaceAll(html, `^`, ` ^`)

		// Set the normalized HTML
		s.SetHtml(html)
	})
}

// processUnknownElements replaces unknown elements with their contents
func processUnknownElements(doc *goquery.Document) {
	knownElements := make(map[string]bool)
	for _, el := range KnownElements() {
		knownElements[el] = true
	}

	// Find all elements
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		if !knownElements[name] {
			s.Contents().Unwrap()
		}
	})
}

// consolidateText joins consecutive text nodes
func consolidateText(doc *goquery.Document) {
	// This is a bit tricky with goquery, as it doesn't provide direct access to consecutive text nodes
	// We'll use a workaround by normalizing the HTML
	html, err := doc.Html()
	if err != nil {
		return
	}

	// Re-parse the HTML to consolidate text nodes
	newDoc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return
	}

	// Replace the original document with the new one
	*doc = *newDoc
}

// removeEmptyStringsAndElements removes empty text nodes and elements
func removeEmptyStringsAndElements(doc *goquery.Document) {
	// First pass: remove empty text nodes
	var emptyNodes []*html.Node
	var findEmptyTextNodes func(*html.Node)

	findEmptyTextNodes = func(n *html.Node) {
		if n.Type == html.TextNode {
			text := textnorm.NormalizeText(n.Data)
			if text == "" {
				emptyNodes = append(emptyNodes, n)
			}
		}

		// Traverse children
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findEmptyTextNodes(c)
		}
	}

	// Start traversal from the document root
	if len(doc.Nodes) > 0 {
		findEmptyTextNodes(doc.Nodes[0])
	}

	// Remove the empty nodes
	for _, n := range emptyNodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}

	// Second pass: remove empty elements, but preserve structural elements
	for {
		removed := false
		doc.Find("*").Each(func(_ int, s *goquery.Selection) {
			// Skip structural elements like html, head, body
			name := goquery.NodeName(s)
			if name == "html" || name == "head" || name == "body" {
				return
			}

			// If element has no children or only whitespace
			if s.Children().Length() == 0 && textnorm.NormalizeText(s.Text()) == "" {
				s.Remove()
				removed = true
			}
		})
		if !removed {
			break
		}
	}

	// Ensure head tag exists
	if doc.Find("head").Length() == 0 {
		doc.Find("html").PrependHtml("<head></head>")
	}
}

// unnestParagraphs splits out block-level elements illegally contained inside paragraphs
func unnestParagraphs(doc *goquery.Document) {
	// List of elements that cannot be nested inside paragraphs
	illegalElements := []string{
		"address", "article", "aside", "blockquote", "canvas", "dd", "div", "dl", "dt", "fieldset",
		"figcaption", "figure", "footer", "form", "h1", "h2", "h3", "h4", "h5", "h6", "header", "hr", "li", "main", "nav",
		"noscript", "ol", "p", "pre", "section", "table", "tfoot", "ul", "video",
	}

	for _, nestedType := range illegalElements {
		for {
			// Find paragraphs containing illegal nested elements
			nestedFound := false
			doc.Find("p " + nestedType).Each(func(_ int, s *goquery.Selection) {
				// Get the parent paragraph
				parent := s.ParentsFiltered("p").First()
				if parent.Length() == 0 {
					return
				}

				// Get the HTML of the parent paragraph
				parentHTML, err := parent.Html()
				if err != nil {
					return
				}

				// Get the HTML of the nested element
				nestedHTML, err := goquery.OuterHtml(s)
				if err != nil {
					return
				}

				// Split the parent HTML at the nested element
				parts := strings.Split(parentHTML, nestedHTML)

				// Create paragraphs for content before and after if needed
				if len(parts) > 0 && parts[0] != "" {
					parent.Before("<p>" + parts[0] + "</p>")
				}

				// Move the nested element outside the paragraph
				parent.After(nestedHTML)

				// Add content after if needed
				if len(parts) > 1 && parts[1] != "" {
					parent.After("<p>" + parts[1] + "</p>")
				}

				// Remove the original paragraph
				parent.Remove()
				nestedFound = true
			})

			// If no more nested elements are found, break the loop
			if !nestedFound {
				break
			}
		}
	}
}

// insertParagraphBreaks identifies <br> and <hr> and splits their parent element into multiple elements
func insertParagraphBreaks(doc *goquery.Document) {
	// Marker for paragraph breaks
	const breakMarker = "|BREAK_HERE|"

	// Find consecutive <br> elements and replace with break markers
	doc.Find("br").Each(func(_ int, s *goquery.Selection) {
		// Check if this is part of a sequence of <br> elements
		if s.Prev().Is("br") {
			// Skip if this is not the first in a sequence
			return
		}

		// Count consecutive br elements
		count := 1
		next := s.Next()
		for next.Is("br") {
			count++
			next = next.Next()
		}

		// If there are multiple consecutive br elements, replace with a break marker
		if count > 1 {
			// Replace with a break marker
			s.ReplaceWithHtml(breakMarker)

			// Remove the remaining br elements
			for i := 1; i < count; i++ {
				s.Next().Remove()
			}
		} else {
			// Single br, replace with space
			s.ReplaceWithHtml(" ")
		}
	})

	// Replace <hr> elements with break markers
	doc.Find("hr").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml(breakMarker)
	})

	// Split elements containing break markers
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		// Get the HTML content
		html, err := s.Html()
		if err != nil || !strings.Contains(html, breakMarker) {
			return
		}

		// Split the content by break markers
		parts := strings.Split(html, breakMarker)
		if len(parts) <= 1 {
			return
		}

		// If this is a paragraph, create new paragraphs for each part
		if s.Is("p") {
			// Replace the current paragraph with the first part
			s.SetHtml(parts[0])

			// Create new paragraphs for the remaining parts
			for i := 1; i < len(parts); i++ {
				if parts[i] != "" {
					s.After("<p>" + parts[i] + "</p>")
				} else {
					// Even if empty, we need to create a paragraph to maintain the structure
					s.After("<p></p>")
				}
			}
		} else {
			// For non-paragraph elements, just replace the break markers with spaces
			s.SetHtml(strings.Join(parts, " "))
		}
	})
}

// wrapBareText wraps any remaining bare text in <p> tags
func wrapBareText(doc *goquery.Document) {
	// Create a map of whitelisted elements for quick lookup
	whitelistMap := make(map[string]bool)
	for _, el := range BlockLevelWhitelist() {
		whitelistMap[el] = true
	}

	// Find all text nodes that are direct children of block elements
	doc.Find("body, div, article, section, main, aside, header, footer, blockquote").Each(func(_ int, s *goquery.Selection) {
		// Process each child node
		s.Contents().Each(func(_ int, child *goquery.Selection) {
			// If this is a text node and not empty
			if child.Get(0) != nil && child.Get(0).Type == html.TextNode {
				text := textnorm.NormalizeText(child.Text())
				if text != "" {
					// Create a new paragraph element by inserting HTML
					child.ReplaceWithHtml("<p>" + text + "</p>")
				}
			}
		})
	})

	// Unwrap paragraphs inside whitelisted elements that should contain text directly
	for _, el := range BlockLevelWhitelist() {
		// Skip div and other container elements
		if el == "div" || el == "article" || el == "section" || el == "main" ||
			el == "aside" || el == "header" || el == "footer" || el == "blockquote" {
			continue
		}

		// Find all paragraphs that are the only child of a whitelisted element
		doc.Find(el + " > p:only-child").Each(func(_ int, p *goquery.Selection) {
			// Get the parent element
			parent := p.Parent()

			// If this is the only child and contains only text, unwrap it
			if parent.Children().Length() == 1 {
				// Get the paragraph content
				html, err := p.Html()
				if err == nil {
					// Replace the paragraph with its content
					p.ReplaceWithHtml(html)
				}
			}
		})
	}
}
