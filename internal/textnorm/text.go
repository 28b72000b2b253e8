// Package textnorm collapses the Unicode and whitespace noise real-world
// HTML accumulates — smart quotes, non-breaking spaces, stray control
// characters, HTML entities left over from double-encoded feeds — into the
// plain text the extraction scorer and the rendered output both expect.
// Callers that see the same string repeatedly (attribute values, repeated
// boilerplate phrases) benefit from the package-level memoization; one-off
// long-form article text pays for normalization exactly once either way.
package textnorm

import (
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// shortTextThreshold is the length below which a cache lookup costs more
// than just recomputing the result.
const shortTextThreshold = 20

// maxCacheableLen bounds what gets memoized; pathologically long strings
// (e.g. an entire article body passed through by mistake) are normalized
// but never cached.
const maxCacheableLen = 5000

// maxCacheEntries caps each memo table; once full, a single arbitrary entry
// is evicted to make room rather than tracking real LRU order.
const maxCacheEntries = 1000

type memoTable struct {
	mu      sync.RWMutex
	entries map[string]string
}

func newMemoTable(hint int) *memoTable {
	return &memoTable{entries: make(map[string]string, hint)}
}

func (m *memoTable) lookup(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok
}

func (m *memoTable) store(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) >= maxCacheEntries {
		for k := range m.entries {
			delete(m.entries, k)
			break
		}
	}
	m.entries[key] = value
}

// reset drops every memoized value. Exposed through EvictCache for
// long-running hosts that want to bound memory after a burst of unique
// inputs.
func (m *memoTable) reset(hint int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]string, hint)
}

// textCaches holds one memo table per normalization function. Each
// function gets its own table — sharing one between two functions with
// different output for the same key is how stale results leak across
// calls.
type textCaches struct {
	unicode    *memoTable
	whitespace *memoTable
	normalized *memoTable
	control    *memoTable
	htmlWS     *memoTable
	entity     *memoTable
}

var (
	caches     *textCaches
	cachesOnce sync.Once
)

func sharedCaches() *textCaches {
	cachesOnce.Do(func() {
		caches = &textCaches{
			unicode:    newMemoTable(1000),
			whitespace: newMemoTable(500),
			normalized: newMemoTable(500),
			control:    newMemoTable(500),
			htmlWS:     newMemoTable(200),
			entity:     newMemoTable(200),
		}
	})
	return caches
}

// EvictCache clears every memoization table, as if the package had just
// been loaded.
func EvictCache() {
	c := sharedCaches()
	c.unicode.reset(1000)
	c.whitespace.reset(500)
	c.normalized.reset(500)
	c.control.reset(500)
	c.htmlWS.reset(200)
	c.entity.reset(200)
}

// memoize runs compute for key unless it's short enough to not bother
// caching, or returns the cached value from a prior call. Results longer
// than maxCacheableLen are computed but not retained.
func memoize(table *memoTable, key string, compute func() string) string {
	if key == "" {
		return ""
	}
	if len(key) < shortTextThreshold {
		return compute()
	}
	if v, ok := table.lookup(key); ok {
		return v
	}
	v := compute()
	if len(key) < maxCacheableLen {
		table.store(key, v)
	}
	return v
}

// unicodeFolds maps typographic and symbolic Unicode characters that show
// up constantly in web prose (curly quotes, dashes, bullets, currency
// signs) to a plain-ASCII rendering.
var unicodeFolds = map[string]string{
	"–": "-",       // en dash
	"—": "--",      // em dash
	"‘": "'",       // left single quotation mark
	"’": "'",       // right single quotation mark
	"“": "\"",      // left double quotation mark
	"”": "\"",      // right double quotation mark
	"…": "...",     // horizontal ellipsis
	" ": " ",       // non-breaking space
	"­": "",        // soft hyphen
	"•": "*",       // bullet
	"‣": "*",       // triangular bullet
	"⁃": "*",       // hyphen bullet
	"−": "-",       // minus sign
	"·": "*",       // middle dot
	"°": "degrees", // degree sign
	"®": "(R)",     // registered sign
	"©": "(C)",     // copyright sign
	"™": "(TM)",    // trade mark sign
	"¢": "c",       // cent sign
	"£": "GBP",     // pound sign
	"¥": "JPY",     // yen sign
	"€": "EUR",     // euro sign
	"÷": "/",       // division sign
	"×": "x",       // multiplication sign
}

// NormalizeUnicode runs text through NFKC compatibility normalization and
// folds the characters in unicodeFolds down to their ASCII equivalent.
func NormalizeUnicode(text string) string {
	if text == "" {
		return ""
	}
	return memoize(sharedCaches().unicode, text, func() string { return foldUnicode(text) })
}

func foldUnicode(text string) string {
	text = norm.NFKC.String(text)

	needsFold := false
	for char := range unicodeFolds {
		if strings.Contains(text, char) {
			needsFold = true
			break
		}
	}
	if !needsFold {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if replacement, ok := unicodeFolds[string(r)]; ok {
			b.WriteString(replacement)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var collapseWS = regexp.MustCompile(`\s+`)

// NormalizeWhitespace collapses any run of whitespace to a single space and
// trims the result.
func NormalizeWhitespace(text string) string {
	if text == "" {
		return ""
	}
	return memoize(sharedCaches().whitespace, text, func() string { return collapseWhitespace(text) })
}

func collapseWhitespace(text string) string {
	hasRun, lastWasSpace := false, false
	for i, r := range text {
		isSpace := unicode.IsSpace(r)
		if isSpace && (lastWasSpace || r != ' ' || i == 0) {
			hasRun = true
			break
		}
		lastWasSpace = isSpace
	}
	if !hasRun && !lastWasSpace {
		return text
	}

	return strings.TrimSpace(collapseWS.ReplaceAllString(text, " "))
}

// StripControlChars drops everything in text that unicode.IsPrint rejects,
// except the whitespace control characters (\n \t \r \f) that carry layout
// meaning.
func StripControlChars(text string) string {
	if text == "" {
		return ""
	}
	return memoize(sharedCaches().control, text, func() string { return filterControlChars(text) })
}

func isKeptControl(r rune) bool {
	return unicode.IsPrint(r) || r == '\n' || r == '\t' || r == '\r' || r == '\f'
}

func filterControlChars(text string) string {
	hasControl := false
	for _, r := range text {
		if !isKeptControl(r) {
			hasControl = true
			break
		}
	}
	if !hasControl {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if isKeptControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeText runs the full pipeline over text: repair invalid UTF-8,
// fold Unicode punctuation/symbols, drop stray control characters, and
// collapse whitespace.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}
	return memoize(sharedCaches().normalized, text, func() string { return normalizeTextPipeline(text) })
}

func normalizeTextPipeline(text string) string {
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, string(unicode.ReplacementChar))
	}
	text = foldUnicode(text)
	text = filterControlChars(text)
	text = collapseWhitespace(text)
	return text
}

// Unicode general categories IsControlCategory can test a rune against.
// catUnassigned has no direct unicode table; Go derives it by exclusion.
const (
	catControl    = "Cc"
	catFormat     = "Cf"
	catPrivateUse = "Co"
	catSurrogate  = "Cs"
	catUnassigned = "Cn"
)

// IsControlCategory reports whether r belongs to any of the named Unicode
// general categories (Cc, Cf, Co, Cs, Cn).
func IsControlCategory(r rune, categories ...string) bool {
	want := make(map[string]bool, len(categories))
	for _, c := range categories {
		want[c] = true
	}

	switch {
	case want[catControl] && unicode.Is(unicode.Cc, r):
		return true
	case want[catFormat] && unicode.Is(unicode.Cf, r):
		return true
	case want[catPrivateUse] && unicode.Is(unicode.Co, r):
		return true
	case want[catSurrogate] && unicode.Is(unicode.Cs, r):
		return true
	}

	if want[catUnassigned] {
		assigned := unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r) ||
			unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r) ||
			unicode.Is(unicode.Cc, r) || unicode.Is(unicode.Cf, r) ||
			unicode.Is(unicode.Co, r) || unicode.Is(unicode.Cs, r)
		if !assigned {
			return true
		}
	}

	return false
}

var htmlTagWS = regexp.MustCompile(`\s*<\s*(\/?[a-zA-Z][^>]*?)\s*>`)

// StripHTMLWhitespace normalizes text, then trims the whitespace goquery
// leaves around tag delimiters when re-serializing a document.
func StripHTMLWhitespace(text string) string {
	if text == "" {
		return ""
	}
	return memoize(sharedCaches().htmlWS, text, func() string { return stripTagWhitespace(text) })
}

func stripTagWhitespace(text string) string {
	text = normalizeTextPipeline(text)
	if !strings.Contains(text, "<") || !strings.Contains(text, ">") {
		return text
	}
	return htmlTagWS.ReplaceAllString(text, "<$1>")
}

// HtmlEntities maps named HTML entities to their Unicode rendering, for
// feeds that double-encode or otherwise leave entities unresolved after
// goquery's own parsing.
var HtmlEntities = map[string]string{
	"&nbsp;":   " ",
	"&lt;":     "<",
	"&gt;":     ">",
	"&amp;":    "&",
	"&quot;":   "\"",
	"&apos;":   "'",
	"&cent;":   "¢",
	"&pound;":  "£",
	"&yen;":    "¥",
	"&euro;":   "€",
	"&copy;":   "©",
	"&reg;":    "®",
	"&trade;":  "™",
	"&mdash;":  "—",
	"&ndash;":  "–",
	"&hellip;": "…",
	"&lsquo;":  "'",
	"&rsquo;":  "'",
	"&ldquo;":  "\"",
	"&rdquo;":  "\"",
	"&bull;":   "•",
	"&middot;": "·",
	"&plusmn;": "±",
	"&times;":  "×",
	"&divide;": "÷",
	"&not;":    "¬",
	"&micro;":  "µ",
	"&para;":   "¶",
	"&degree;": "°",
	"&frac14;": "¼",
	"&frac12;": "½",
	"&frac34;": "¾",
	"&iquest;": "¿",
	"&iexcl;":  "¡",
	"&szlig;":  "ß",
	"&agrave;": "à",
	"&aacute;": "á",
	"&acirc;":  "â",
	"&atilde;": "ã",
	"&auml;":   "ä",
	"&aring;":  "å",
	"&aelig;":  "æ",
	"&ccedil;": "ç",
	"&egrave;": "è",
	"&eacute;": "é",
	"&ecirc;":  "ê",
	"&euml;":   "ë",
	"&igrave;": "ì",
	"&iacute;": "í",
	"&icirc;":  "î",
	"&iuml;":   "ï",
	"&ntilde;": "ñ",
	"&ograve;": "ò",
	"&oacute;": "ó",
	"&ocirc;":  "ô",
	"&otilde;": "õ",
	"&ouml;":   "ö",
	"&oslash;": "ø",
	"&ugrave;": "ù",
	"&uacute;": "ú",
	"&ucirc;":  "û",
	"&uuml;":   "ü",
	"&yacute;": "ý",
	"&yuml;":   "ÿ",
	"&thorn;":  "þ",
	"&eth;":    "ð",
}

// DecodeHtmlEntities scans text for "&name;" sequences and replaces any
// that match HtmlEntities with their Unicode rendering, leaving unknown
// entities and bare ampersands untouched.
func DecodeHtmlEntities(text string) string {
	if text == "" || !strings.Contains(text, "&") {
		return text
	}
	return memoize(sharedCaches().entity, text, func() string { return decodeEntities(text) })
}

func decodeEntities(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	i := 0
	for i < len(text) {
		amp := strings.IndexByte(text[i:], '&')
		if amp == -1 {
			b.WriteString(text[i:])
			break
		}
		b.WriteString(text[i : i+amp])
		i += amp

		semi := strings.IndexByte(text[i:], ';')
		if semi == -1 {
			b.WriteByte('&')
			i++
			continue
		}

		entity := text[i : i+semi+1]
		i += semi + 1
		if decoded, ok := HtmlEntities[entity]; ok {
			b.WriteString(decoded)
		} else {
			b.WriteString(entity)
		}
	}
	return b.String()
}
