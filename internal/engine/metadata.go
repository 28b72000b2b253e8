package engine

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"

	metadataladder "github.com/pagelens/readex/internal/metadata"
)

// getArticleMetadata extracts metadata from the document
func (r *Readability) getArticleMetadata(jsonLd map[string]string) map[string]string {
	metadata := make(map[string]string)
	values := make(map[string]string)

	// Process meta tags
	r.doc.Find("meta").Each(func(i int, s *goquery.Selection) {
		elementName, _ := s.Attr("name")
		elementProperty, _ := s.Attr("property")
		content, _ := s.Attr("content")

		if content == "" {
			return
		}

		// Process property attribute (OpenGraph, etc.)
		if elementProperty != "" {
			// Pattern: (dc|dcterm|og|twitter):(author|creator|description|title)
			propertyPattern := `\s*(dc|dcterm|og|twitter)\s*:\s*(author|creator|description|title|site_name)\s*`
			re := regexp.MustCompile(propertyPattern)
			matches := re.FindStringSubmatch(elementProperty)

			if len(matches) > 0 {
				// Convert to lowercase and remove whitespace
				name := strings.ToLower(strings.ReplaceAll(matches[0], " ", ""))
				values[name] = content
			}
		}

		// Process name attribute
		if elementName != "" {
			// Pattern: (dc|dcterm|og|twitter).(author|creator|description|title)
			namePattern := `^\s*(?:(dc|dcterm|og|twitter)\s*[\.:]\s*)?(author|creator|description|title|site_name)\s*$`
			re := regexp.MustCompile(namePattern)
			matches := re.FindStringSubmatch(elementName)

			if len(matches) > 0 {
				// Convert to lowercase, remove whitespace, and convert dots to colons
				name := strings.ToLower(strings.ReplaceAll(elementName, " ", ""))
				name = strings.ReplaceAll(name, ".", ":")
				values[name] = content
			}
		}
	})

	// Extract article title
	metadata["title"] = r.getArticleTitle()

	// Override with JSON-LD title if available
	if jsonLd["title"] != "" {
		metadata["title"] = jsonLd["title"]
	} else if values["dc:title"] != "" {
		metadata["title"] = values["dc:title"]
	} else if values["dcterm:title"] != "" {
		metadata["title"] = values["dcterm:title"]
	} else if values["og:title"] != "" {
		metadata["title"] = values["og:title"]
	} else if values["twitter:title"] != "" {
		metadata["title"] = values["twitter:title"]
	}

	// Extract article byline, falling back to the scored selector ladder
	// (plus its plain-paragraph "By ..." scan) when the cheaper lookups
	// above found nothing.
	if jsonLd["byline"] != "" {
		metadata["byline"] = jsonLd["byline"]
	} else if values["dc:creator"] != "" {
		metadata["byline"] = values["dc:creator"]
	} else if values["dcterm:creator"] != "" {
		metadata["byline"] = values["dcterm:creator"]
	} else if values["author"] != "" {
		metadata["byline"] = values["author"]
	} else if byline := metadataladder.ExtractByline(getOuterHTML(r.doc.Find("html").First())); byline != "" {
		metadata["byline"] = byline
	}

	// Extract article excerpt/description
	if jsonLd["excerpt"] != "" {
		metadata["excerpt"] = jsonLd["excerpt"]
	} else if values["dc:description"] != "" {
		metadata["excerpt"] = values["dc:description"]
	} else if values["dcterm:description"] != "" {
		metadata["excerpt"] = values["dcterm:description"]
	} else if values["og:description"] != "" {
		metadata["excerpt"] = values["og:description"]
	} else if values["description"] != "" {
		metadata["excerpt"] = values["description"]
	} else if values["twitter:description"] != "" {
		metadata["excerpt"] = values["twitter:description"]
	}

	// Extract site name
	if jsonLd["siteName"] != "" {
		metadata["siteName"] = jsonLd["siteName"]
	} else if values["og:site_name"] != "" {
		metadata["siteName"] = values["og:site_name"]
	}

	// Extract date, falling back to an XPath sweep over <time datetime> and
	// itemprop="datePublished" elements, and finally to the scored
	// meta/visible-text date ladder, when earlier steps carried nothing.
	if jsonLd["date"] != "" {
		metadata["date"] = jsonLd["date"]
	} else if date := r.getPublishDateByXPath(); date != "" {
		metadata["date"] = date
	} else if t := metadataladder.ExtractDate(getOuterHTML(r.doc.Find("html").First())); !t.IsZero() {
		metadata["date"] = t.Format(time.RFC3339)
	}

	// Unescape HTML entities
	for key, value := range metadata {
		metadata[key] = unescapeHtmlEntities(value)
	}

	return metadata
}

// getArticleTitle extracts the title from the document
func (r *Readability) getArticleTitle() string {
	// Get title from the document
	docTitle := strings.TrimSpace(r.doc.Find("title").Text())
	origTitle := docTitle

	// Only the <title> element is read; an empty one stays empty here
	if docTitle == "" {
		docTitle = origTitle
	}

	// Check for hierarchical separators
	titleHadHierarchicalSeparators := false

	// If there's a separator in the title
	if regexp.MustCompile(` [\|\-\\\/>»] `).MatchString(docTitle) {
		titleHadHierarchicalSeparators = regexp.MustCompile(` [\\\/>»] `).MatchString(docTitle)
		// First remove the final part
		docTitle = regexp.MustCompile(`(.*)[\|\-\\\/>»] .*`).ReplaceAllString(docTitle, "$1")

		// If too short, remove the first part instead
		if wordCount(docTitle) < 3 {
			docTitle = regexp.MustCompile(`[^\|\-\\\/>»]*[\|\-\\\/>»](.*)`).ReplaceAllString(origTitle, "$1")
		}
	} else if strings.Contains(docTitle, ": ") {
		// Check for a colon
		// Check if we have an h1 or h2 with the exact title
		matchFound := false
		r.doc.Find("h1, h2").EachWithBreak(func(i int, s *goquery.Selection) bool {
			if strings.TrimSpace(s.Text()) == docTitle {
				matchFound = true
				return false // stop iteration
			}
			return true // continue
		})

		// If no match, extract the title out of the original string
		if !matchFound {
			// Try the part after the colon
			colonIndex := strings.LastIndex(origTitle, ":")
			if colonIndex != -1 {
				docTitle = strings.TrimSpace(origTitle[colonIndex+1:])

				// If too short, try the part before the colon
				if wordCount(docTitle) < 3 {
					docTitle = strings.TrimSpace(origTitle[:colonIndex])

					// But if we have too many words before the colon, use the original title
					if wordCount(docTitle) > 5 {
						docTitle = origTitle
					}
				}
			}
		}
	} else if docTitle == "" || docTitle == "null" || len(docTitle) > 150 || len(docTitle) < 15 {
		// If the title is empty, too long, or too short, look for h1 elements
		h1s := r.doc.Find("h1")
		if h1s.Length() == 1 {
			docTitle = strings.TrimSpace(h1s.Text())
		}
	}

	// Normalize the title
	docTitle = strings.TrimSpace(RegexpNormalize.ReplaceAllString(docTitle, " "))

	// If title is now very short, use the original title
	if wordCount(docTitle) <= 4 && (!titleHadHierarchicalSeparators || wordCount(docTitle) != wordCount(regexp.MustCompile(`[\|\-\\\/>»]+`).ReplaceAllString(origTitle, ""))-1) {
		docTitle = origTitle
	}

	return docTitle
}

// checkByline checks if a node is a byline
func (r *Readability) checkByline(node *goquery.Selection, matchString string) bool {
	if r.articleByline != "" {
		return false
	}

	rel, _ := node.Attr("rel")
	itemprop, _ := node.Attr("itemprop")

	if (rel == "author" || (itemprop != "" && strings.Contains(itemprop, "author"))) ||
		RegexpByline.MatchString(matchString) {
		text := getInnerText(node, true)
		if isValidByline(text) {
			r.articleByline = text
			return true
		}
	}

	return false
}

// resolveDirLang resolves the document's text direction and language as two
// independent lookups: each takes its own attribute from <body> when set
// there, otherwise from <html>, rather than conflating the two the way a
// naive single lookup would. It runs before extraction, so attributes on
// elements inside <body>, the article container included, are not consulted.
func (r *Readability) resolveDirLang() {
	html := r.doc.Find("html").First()

	if dir, exists := html.Attr("dir"); exists && dir != "" {
		r.articleDir = dir
	}
	if lang, exists := html.Attr("lang"); exists && lang != "" {
		r.articleLang = lang
	}

	body := r.doc.Find("body").First()
	if body.Length() == 0 {
		return
	}
	if dir, exists := findAncestorOrSelfAttr(body, "dir"); exists {
		r.articleDir = dir
	}
	if lang, exists := findAncestorOrSelfAttr(body, "lang"); exists {
		r.articleLang = lang
	}
}

// findAncestorOrSelfAttr returns the nearest non-empty attr value found on s
// or one of its ancestors, searching from s outward.
func findAncestorOrSelfAttr(s *goquery.Selection, attr string) (string, bool) {
	for node := s; node != nil && node.Length() > 0; node = node.Parent() {
		if val, exists := node.Attr(attr); exists && val != "" {
			return val, true
		}
		if getNodeName(node) == "HTML" {
			break
		}
	}
	return "", false
}

// xpathDateLookup pairs an XPath expression selecting candidate elements with
// the attribute each one carries its timestamp in.
type xpathDateLookup struct {
	expr string
	attr string
}

var publishDateXPaths = []xpathDateLookup{
	{`//time[@datetime]`, "datetime"},
	{`//*[@itemprop="datePublished"]`, "content"},
	{`//*[@itemprop="datePublished"]`, "datetime"},
	{`//*[@itemprop="dateCreated"]`, "content"},
}

// getPublishDateByXPath sweeps the document for a publish timestamp using
// XPath instead of goquery's CSS-style selectors, since the candidate
// attribute (datetime vs. content) varies by which element carries it.
func (r *Readability) getPublishDateByXPath() string {
	if len(r.doc.Nodes) == 0 {
		return ""
	}
	root := r.doc.Nodes[0]

	for _, lookup := range publishDateXPaths {
		nodes, err := htmlquery.QueryAll(root, lookup.expr)
		if err != nil {
			continue
		}
		for _, n := range nodes {
			if val := strings.TrimSpace(htmlquery.SelectAttr(n, lookup.attr)); val != "" {
				return val
			}
		}
	}
	return ""
}

// jsonLDSchema mirrors the fields of a schema.org Article/NewsArticle/
// BlogPosting node that the metadata ladder cares about. author can appear
// as either a single object or an array of objects in the wild, so it is
// decoded through json.RawMessage and disambiguated by hand.
type jsonLDSchema struct {
	Context     string          `json:"@context"`
	Type        json.RawMessage `json:"@type"`
	Name        string          `json:"name"`
	Headline    string          `json:"headline"`
	Description string          `json:"description"`
	DatePublished string        `json:"datePublished"`
	DateCreated   string        `json:"dateCreated"`
	DateModified  string        `json:"dateModified"`
	Author      json.RawMessage `json:"author"`
	Publisher   json.RawMessage `json:"publisher"`
}

type jsonLDPerson struct {
	Name string `json:"name"`
}

// getJSONLD extracts metadata from the first recognized JSON-LD
// Article-family script tag in the document, using encoding/json rather than
// regex-scraping the raw script text so nested shapes (author as an array,
// @type as an array) parse correctly instead of silently failing a regex.
func (r *Readability) getJSONLD() map[string]string {
	metadata := make(map[string]string)

	r.doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(i int, s *goquery.Selection) bool {
		content := strings.TrimSpace(s.Text())
		content = regexp.MustCompile(`^\s*<!\[CDATA\[|\]\]>\s*$`).ReplaceAllString(content, "")
		if content == "" {
			return true
		}

		var schema jsonLDSchema
		if err := json.Unmarshal([]byte(content), &schema); err != nil {
			return true
		}
		if !strings.Contains(schema.Context, "schema.org") {
			return true
		}
		if !jsonLDTypeMatches(schema.Type) {
			return true
		}

		if schema.Headline != "" {
			metadata["title"] = schema.Headline
		} else if schema.Name != "" {
			metadata["title"] = schema.Name
		}
		if schema.Description != "" {
			metadata["excerpt"] = schema.Description
		}
		if name := jsonLDPersonName(schema.Author); name != "" {
			metadata["byline"] = name
		}
		if name := jsonLDPersonName(schema.Publisher); name != "" {
			metadata["siteName"] = name
		}
		switch {
		case schema.DatePublished != "":
			metadata["date"] = schema.DatePublished
		case schema.DateCreated != "":
			metadata["date"] = schema.DateCreated
		case schema.DateModified != "":
			metadata["date"] = schema.DateModified
		}

		return len(metadata) == 0 // keep scanning only if this block gave us nothing
	})

	return metadata
}

// jsonLDTypeMatches reports whether raw (either a bare string or a string
// array, per the schema.org spec) contains an Article-family @type.
func jsonLDTypeMatches(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return RegexpJsonLdArticleTypes.MatchString(single)
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, t := range list {
			if RegexpJsonLdArticleTypes.MatchString(t) {
				return true
			}
		}
	}
	return false
}

// jsonLDPersonName resolves an author/publisher field that may be a single
// object or an array of objects into the first name found.
func jsonLDPersonName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var person jsonLDPerson
	if err := json.Unmarshal(raw, &person); err == nil && person.Name != "" {
		return person.Name
	}

	var people []jsonLDPerson
	if err := json.Unmarshal(raw, &people); err == nil {
		for _, p := range people {
			if p.Name != "" {
				return p.Name
			}
		}
	}

	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}

	return ""
}
