package cleanup

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pagelens/readex/internal/textnorm"
)

// PlainContent renders html through the full simplification pipeline: strip
// comments and attributes, drop blacklisted/unknown elements, unwrap inline
// formatting, consolidate and re-normalize text, unnest paragraphs, turn
// <br>/<hr> into paragraph breaks, and wrap any bare text left directly
// under a block element. The result is a plain, block-structured rendering
// of the article body, optionally annotated per leaf node (p, li) with a
// content digest and/or a hierarchical source node index.
func PlainContent(html string, addContentDigests, addNodeIndexes bool) (string, error) {
	// Insert a space into empty comments so html5lib-style parsers can still
	// recognize them as comments rather than merging into adjacent text.
	html = strings.ReplaceAll(html, "<!---->", "<!-- -->")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	removeMetadata(doc)
	stripAttributes(doc)
	removeBlacklist(doc)
	unwrapElements(doc)
	processSpecialElements(doc)
	processUnknownElements(doc)
	consolidateText(doc)
	removeEmptyStringsAndElements(doc)
	unnestParagraphs(doc)
	insertParagraphBreaks(doc)
	wrapBareText(doc)
	normalizeStrings(doc)
	recursivelyPruneElements(doc)
	wrapBodyInSingleDiv(doc)

	body := doc.Find("body")
	if body.Length() > 0 {
		if addNodeIndexes {
			el := NewPlainElement(body)
			el.SetAttr("data-node-index", "0")
			addChildNodeIndexes(el, "0")
		}

		if addContentDigests {
			doc.Find("p, li").Each(func(_ int, s *goquery.Selection) {
				pel := NewPlainElement(s)
				if digest := calculateContentDigest(pel); digest != "" {
					pel.SetAttr("data-content-digest", digest)
				}
			})
		}
	}

	renderedHTML, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("rendering HTML: %w", err)
	}

	renderedHTML = textnorm.StripHTMLWhitespace(renderedHTML)
	renderedHTML = strings.ReplaceAll(renderedHTML, "&#34;", "\"")

	return renderedHTML, nil
}

// wrapBodyInSingleDiv ensures the body has exactly one child: a div holding
// everything that survived simplification. A body with one wrapping div is
// easier for downstream consumers (readex.go's buildBlocks) to walk consistently.
func wrapBodyInSingleDiv(doc *goquery.Document) {
	body := doc.Find("body")
	if body.Length() == 0 {
		return
	}

	switch n := body.Children().Length(); {
	case n == 0:
		body.SetHtml("<div></div>")
	case n == 1 && body.Children().First().Is("div"):
		// already wrapped
	case n == 1:
		if html, err := goquery.OuterHtml(body.Children().First()); err == nil {
			body.SetHtml("<div>" + html + "</div>")
		}
	default:
		children := body.Children()
		body.AppendHtml("<div></div>")
		body.Children().Last().AppendSelection(children)
	}
}

// normalizeStrings runs NormalizeText over every text node in the document,
// fixing unicode and whitespace issues left by the preceding passes.
func normalizeStrings(doc *goquery.Document) {
	var textNodes []*goquery.Selection
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		s.Contents().Each(func(_ int, c *goquery.Selection) {
			if n := c.Get(0); n != nil && n.Type == html.TextNode {
				textNodes = append(textNodes, c)
			}
		})
	})

	for _, node := range textNodes {
		text := node.Text()
		if normalized := textnorm.NormalizeText(text); normalized != text {
			node.Get(0).Data = normalized
		}
	}
}

// recursivelyPruneElements repeatedly removes elements with no children and
// no non-whitespace text, until a full pass removes nothing.
func recursivelyPruneElements(doc *goquery.Document) {
	for {
		removed := false
		doc.Find("*").Each(func(_ int, s *goquery.Selection) {
			switch name := goquery.NodeName(s); name {
			case "html", "head", "body":
				return
			}
			isEmpty := true
			s.Contents().Each(func(_ int, c *goquery.Selection) {
				if n := c.Get(0); n != nil && n.Type == html.TextNode {
					if textnorm.NormalizeText(c.Text()) != "" {
						isEmpty = false
					}
				} else {
					isEmpty = false
				}
			})
			if isEmpty {
				s.Remove()
				removed = true
			}
		})
		if !removed {
			break
		}
	}
}

// addChildNodeIndexes assigns each descendant of el a dotted index
// ("parentIndex.childPosition") recording its path from the root.
func addChildNodeIndexes(el *PlainElement, parentIndex string) {
	if el == nil || el.Selection == nil {
		return
	}

	el.Children().Each(func(i int, s *goquery.Selection) {
		childEl := NewPlainElement(s)
		childIndex := fmt.Sprintf("%s.%d", parentIndex, i+1)
		childEl.SetAttr("data-node-index", childIndex)
		addChildNodeIndexes(childEl, childIndex)
	})
}
