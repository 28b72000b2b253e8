package metadata

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// metaDateSelectors are the meta-tag shapes sites use to publish a
// machine-readable timestamp, ranked by how reliable each convention is in
// practice.
var metaDateSelectors = []SelectorScore{
	{Selector: "//meta[@property='article:published_time']/@content", Score: 13},
	{Selector: "//meta[@property='og:updated_time']/@content", Score: 10},
	{Selector: "//meta[@property='og:article:published_time']/@content", Score: 10},
	{Selector: "//meta[@property='og:article:modified_time']/@content", Score: 10},
	{Selector: "//meta[@name='pubdate']/@content", Score: 10},
	{Selector: "//meta[@name='publishdate']/@content", Score: 10},
	{Selector: "//meta[@name='date']/@content", Score: 9},
	{Selector: "//meta[@property='article:published']/@content", Score: 7},
	{Selector: "//meta[@itemprop='datePublished']/@content", Score: 3},
	{Selector: "//time/@datetime", Score: 3},
	{Selector: "//meta[@itemprop='dateModified']/@content", Score: 2},
	{Selector: "//meta[@property='article:modified_time']/@content", Score: 2},
	{Selector: "//meta[@name='DC.date.issued']/@content", Score: 2},
	{Selector: "//meta[@name='DC.date.created']/@content", Score: 2},
	{Selector: "//meta[@name='DC.date.modified']/@content", Score: 1},
	{Selector: "//meta[@name='dcterms.modified']/@content", Score: 1},
	{Selector: "//meta[@name='dcterms.created']/@content", Score: 1},
}

// visibleDateSelectors find a rendered date in the kind of elements
// article templates commonly use to display one, for pages that publish
// no machine-readable timestamp at all.
var visibleDateSelectors = []SelectorScore{
	{Selector: "//span[@class='date']", Score: 3},
	{Selector: "//span[@class='time']", Score: 3},
	{Selector: "//span[@class='timestamp']", Score: 3},
	{Selector: "//span[@class='published']", Score: 3},
	{Selector: "//time", Score: 2},
	{Selector: "//span[contains(@class, 'date')]", Score: 2},
	{Selector: "//div[contains(@class, 'date')]", Score: 2},
	{Selector: "//p[contains(@class, 'date')]", Score: 2},
	{Selector: "//p[contains(@class, 'time')]", Score: 2},
	{Selector: "//div[contains(@class, 'byline')]", Score: 1}, // often carries the date alongside the author
	{Selector: "//p[contains(@class, 'byline')]", Score: 1},
	{Selector: "//*[contains(@class, 'dateline')]", Score: 1},
}

// dateCandidate is one date string pulled off the page, tagged with the
// confidence of the selector that found it and whether it came from
// metadata or rendered text.
type dateCandidate struct {
	text   string
	score  int
	source string
}

// ExtractDate finds the article's publish date by combining two selector
// ladders — machine-readable meta tags, then visibly rendered dates — and
// trying each candidate, highest score first, against a chain of date
// parsers until one succeeds. Candidates that parse to midnight are held
// back in favor of a later candidate carrying an actual time-of-day,
// falling back to relative phrases ("2 days ago") only once every
// candidate from both ladders has failed to parse.
func ExtractDate(html string) time.Time {
	candidates := collectDateCandidates(html)
	if len(candidates) == 0 {
		return time.Time{}
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	var firstDateOnly time.Time
	for _, c := range candidates {
		if c.source == "metadata" {
			if parsed := ParseISO8601Format(c.text); !parsed.IsZero() {
				return parsed
			}
		}

		parsed := ParseFlexibleDateFormat(c.text)
		if parsed.IsZero() {
			continue
		}
		if parsed.Hour() != 0 || parsed.Minute() != 0 || parsed.Second() != 0 {
			return parsed
		}
		if firstDateOnly.IsZero() {
			firstDateOnly = parsed
		}
	}

	if !firstDateOnly.IsZero() {
		return firstDateOnly
	}
	return ExtractRelativeDate(html)
}

// collectDateCandidates runs both selector ladders over html and merges
// their hits into a single unscored-by-ladder list, tagged by which ladder
// produced each entry.
func collectDateCandidates(html string) []dateCandidate {
	var candidates []dateCandidate

	for text, el := range ExtractElement(html, metaDateSelectors, nil) {
		candidates = append(candidates, dateCandidate{text: text, score: el.Score, source: "metadata"})
	}
	for text, el := range ExtractElement(html, visibleDateSelectors, nil) {
		candidates = append(candidates, dateCandidate{text: text, score: el.Score, source: "visible"})
	}

	return candidates
}

// ParseISO8601Format tries dateStr against the machine-readable date/time
// layouts a publishing platform is likely to emit.
func ParseISO8601Format(dateStr string) time.Time {
	dateStr = strings.TrimSpace(dateStr)

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05.999Z",
		"2006-01-02T15:04:05.999999",
		"2006-01-02T15:04:05-0700", // no colon in the zone offset
		"2006-01-02T15:04:05+0000",
		"2006-01-02",
		"2006-01-02Z",
		"20060102T150405Z",
		time.RFC1123,
		time.RFC1123Z,
		time.RFC822,
		time.RFC822Z,
		time.RFC850,
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t.UTC().Truncate(time.Second)
		}
	}

	// time.Parse's reference layout requires a colon in the zone offset;
	// retry after stripping one for inputs shaped like "+0200" with an
	// extra colon such as "+02:00".
	if len(dateStr) > 5 && dateStr[len(dateStr)-3] == ':' &&
		(dateStr[len(dateStr)-6] == '+' || dateStr[len(dateStr)-6] == '-') {
		compact := dateStr[:len(dateStr)-3] + dateStr[len(dateStr)-2:]
		if t, err := time.Parse(time.RFC3339, compact); err == nil {
			return t.UTC().Truncate(time.Second)
		}
	}

	return time.Time{}
}

// ParseFlexibleDateFormat chains every date parser this package knows,
// from strictest (ISO8601) to loosest (bare date components), returning
// the first one that succeeds against the cleaned-up string.
func ParseFlexibleDateFormat(dateStr string) time.Time {
	dateStr = CleanupDateString(dateStr)
	if dateStr == "" {
		return time.Time{}
	}

	parsers := []func(string) time.Time{
		ParseISO8601Format,
		ParseRegionalDateFormats,
		ParseNaturalLanguageDates,
		ParseDateComponents,
	}
	for _, parse := range parsers {
		if t := parse(dateStr); !t.IsZero() {
			return t
		}
	}
	return time.Time{}
}

var (
	htmlTagRe     = regexp.MustCompile("<[^>]*>")
	extraSpacesRe = regexp.MustCompile(`\s+`)
)

// datePrefixes are phrases publishers wrap around a rendered date
// ("Published: ", "posted on ") that a parser would otherwise choke on.
var datePrefixes = []string{
	"published:", "published ", "updated:", "updated ",
	"date:", "date ", "on ", "posted on ", "written on ",
	"on date ", "as of ", "posted ", "written ",
}

// CleanupDateString strips HTML markup, collapses whitespace, and removes
// the publisher phrasing that typically surrounds a rendered date, leaving
// the date text a parser can work with while preserving its original case.
func CleanupDateString(dateStr string) string {
	dateStr = strings.TrimSpace(dateStr)
	dateStr = htmlTagRe.ReplaceAllString(dateStr, " ")
	dateStr = extraSpacesRe.ReplaceAllString(dateStr, " ")

	lower := strings.ToLower(dateStr)
	for _, phrase := range datePrefixes {
		if idx := strings.Index(lower, phrase); idx >= 0 {
			dateStr = dateStr[:idx] + dateStr[idx+len(phrase):]
			lower = strings.ToLower(dateStr)
		}
	}

	return strings.TrimSpace(dateStr)
}

// ParseRegionalDateFormats tries the numeric MM/DD and DD/MM layouts used
// around the world, re-parsing with the day and month swapped when the
// first reading puts an impossible value (>12) in the month position.
func ParseRegionalDateFormats(dateStr string) time.Time {
	layouts := []string{
		"01/02/2006", "01-02-2006", "01.02.2006",
		"02/01/2006", "02-01-2006", "02.01.2006",
		"01/02/2006 15:04:05", "01/02/2006 15:04", "01/02/2006 3:04 PM",
		"02/01/2006 15:04:05", "02/01/2006 15:04", "02/01/2006 3:04 PM",
		"01/02/06", "02/01/06", "01-02-06", "02-01-06",
		"January 2, 2006", "2 January 2006", "Jan 2, 2006", "2 Jan 2006",
		"January 2, 2006 15:04", "2 January 2006 15:04",
		"January 2, 2006 3:04 PM", "2 January 2006 3:04 PM",
		"2006/01/02", "2006-01-02", "2006.01.02",
		"2006/02/01", "2006-02-01", "2006.02.01",
	}

	for _, layout := range layouts {
		t, err := time.Parse(layout, dateStr)
		if err != nil {
			continue
		}

		isMonthFirst := strings.Contains(layout, "01/02") || strings.Contains(layout, "01-02") || strings.Contains(layout, "01.02")
		if isMonthFirst && t.Day() > 12 && t.Month() <= 12 {
			swapped := strings.NewReplacer("01/02", "02/01", "01-02", "02-01", "01.02", "02.01").Replace(layout)
			if t2, err := time.Parse(swapped, dateStr); err == nil {
				return t2.UTC().Truncate(time.Second)
			}
		}

		return t.UTC().Truncate(time.Second)
	}

	return time.Time{}
}

// monthNumbers maps every full and abbreviated English month name this
// package recognizes to its 1-12 number.
var monthNumbers = map[string]int{
	"january": 1, "jan": 1,
	"february": 2, "feb": 2,
	"march": 3, "mar": 3,
	"april": 4, "apr": 4,
	"may": 5,
	"june": 6, "jun": 6,
	"july": 7, "jul": 7,
	"august": 8, "aug": 8,
	"september": 9, "sep": 9, "sept": 9,
	"october": 10, "oct": 10,
	"november": 11, "nov": 11,
	"december": 12, "dec": 12,
}

// expandTwoDigitYear applies the common windowing rule (< 50 means 20xx,
// otherwise 19xx) to a 2-digit year parsed out of free text.
func expandTwoDigitYear(year int) int {
	if year >= 100 {
		return year
	}
	if year < 50 {
		return year + 2000
	}
	return year + 1900
}

var (
	yearMonthNameDayRe = regexp.MustCompile(`^(\d{4})\s+(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2})$`)
	monthDayYearRe     = regexp.MustCompile(`(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|sept|oct|nov|dec)\s+(\d{1,2})(st|nd|rd|th)?(\s*,\s*|\s+)(\d{4}|\d{2})`)
	dayMonthYearRe     = regexp.MustCompile(`(\d{1,2})(st|nd|rd|th)?\s+(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|sept|oct|nov|dec)(\s*,\s*|\s+)(\d{4}|\d{2})`)
	yearMonthDayRe     = regexp.MustCompile(`(\d{4}|\d{2})\s+(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|sept|oct|nov|dec)\s+(\d{1,2})(st|nd|rd|th)?`)
)

// ParseNaturalLanguageDates recognizes the handful of English date
// phrasings articles use in running text: "Month Day, Year", "Day Month
// Year", and "Year Month Day" (both full-precision and the exact
// capitalized form that keeps the year unambiguous at 4 digits).
func ParseNaturalLanguageDates(dateStr string) time.Time {
	if m := yearMonthNameDayRe.FindStringSubmatch(dateStr); len(m) == 4 {
		year, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[3])
		if month := monthNumbers[strings.ToLower(m[2])]; month > 0 && day >= 1 && day <= 31 {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		}
	}

	dateStr = strings.ToLower(strings.TrimSpace(dateStr))

	if m := monthDayYearRe.FindStringSubmatch(dateStr); len(m) >= 4 {
		month := monthNumbers[m[1]]
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[5])
		return time.Date(expandTwoDigitYear(year), time.Month(month), day, 0, 0, 0, 0, time.UTC)
	}

	if m := dayMonthYearRe.FindStringSubmatch(dateStr); len(m) >= 4 {
		day, _ := strconv.Atoi(m[1])
		month := monthNumbers[m[3]]
		year, _ := strconv.Atoi(m[5])
		return time.Date(expandTwoDigitYear(year), time.Month(month), day, 0, 0, 0, 0, time.UTC)
	}

	if m := yearMonthDayRe.FindStringSubmatch(dateStr); len(m) >= 4 {
		year, _ := strconv.Atoi(m[1])
		month := monthNumbers[m[2]]
		day, _ := strconv.Atoi(m[3])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return time.Date(expandTwoDigitYear(year), time.Month(month), day, 0, 0, 0, 0, time.UTC)
		}
	}

	return time.Time{}
}

var (
	separatedDateRe = regexp.MustCompile(`(\d{4})[/-](\d{1,2})[/-](\d{1,2})`)
	compactDateRe   = regexp.MustCompile(`(\d{4})(\d{2})(\d{2})`)
	yearMonthOnlyRe = regexp.MustCompile(`(\d{4})[/-](\d{1,2})`)
	bareYearRe      = regexp.MustCompile(`\b(\d{4})\b`)
)

// ParseDateComponents extracts year/month/day (or just year/month, or just
// year) out of whatever numeric fragments remain once every other parser
// has given up, swapping day and month when the separated form's reading
// is nonsensical but the reverse isn't.
func ParseDateComponents(dateStr string) time.Time {
	if m := separatedDateRe.FindStringSubmatch(dateStr); len(m) == 4 {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])

		if month < 1 || month > 12 || day < 1 || day > 31 {
			if day >= 1 && day <= 12 && month >= 1 && month <= 31 {
				month, day = day, month
			} else {
				return time.Time{}
			}
		}
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	}

	if m := compactDateRe.FindStringSubmatch(dateStr); len(m) == 4 {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		}
	}

	if m := yearMonthOnlyRe.FindStringSubmatch(dateStr); len(m) == 3 {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 {
			return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		}
	}

	if m := bareYearRe.FindStringSubmatch(dateStr); len(m) == 2 {
		year, _ := strconv.Atoi(m[1])
		if year >= 1990 && year <= time.Now().Year() {
			return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		}
	}

	return time.Time{}
}

// relativeDateSelectors narrows the visible-date search to elements likely
// to hold a "2 days ago"-style phrase rather than an absolute date.
var relativeDateSelectors = []SelectorScore{
	{Selector: "//span[@class='date']", Score: 3},
	{Selector: "//span[@class='time']", Score: 3},
	{Selector: "//span[@class='timestamp']", Score: 3},
	{Selector: "//time", Score: 2},
	{Selector: "//span[contains(@class, 'date')]", Score: 2},
	{Selector: "//div[contains(@class, 'date')]", Score: 2},
	{Selector: "//p[contains(@class, 'date')]", Score: 2},
	{Selector: "//p[contains(@class, 'time')]", Score: 2},
	{Selector: "//div[contains(@class, 'byline')]", Score: 1},
	{Selector: "//p[contains(@class, 'byline')]", Score: 1},
}

// relativeDatePattern pairs a "N units ago" (or bare "yesterday"/"last
// week") regex with the duration a single unit represents.
type relativeDatePattern struct {
	re    *regexp.Regexp
	scale func(n int) time.Duration
}

var relativeDatePatterns = []relativeDatePattern{
	{regexp.MustCompile(`(\d+)\s*(?:minute|min)s?\s*ago`), func(n int) time.Duration { return time.Duration(n) * time.Minute }},
	{regexp.MustCompile(`(\d+)\s*(?:hour|hr)s?\s*ago`), func(n int) time.Duration { return time.Duration(n) * time.Hour }},
	{regexp.MustCompile(`(\d+)\s*days?\s*ago`), func(n int) time.Duration { return time.Duration(n) * 24 * time.Hour }},
	{regexp.MustCompile(`(\d+)\s*weeks?\s*ago`), func(n int) time.Duration { return time.Duration(n) * 7 * 24 * time.Hour }},
	{regexp.MustCompile(`(\d+)\s*months?\s*ago`), func(n int) time.Duration { return time.Duration(n) * 30 * 24 * time.Hour }}, // calendar month, approximated
	{regexp.MustCompile(`(\d+)\s*years?\s*ago`), func(n int) time.Duration { return time.Duration(n) * 365 * 24 * time.Hour }}, // leap years, approximated
	{regexp.MustCompile(`yesterday`), func(int) time.Duration { return 24 * time.Hour }},
	{regexp.MustCompile(`last\s*week`), func(int) time.Duration { return 7 * 24 * time.Hour }},
	{regexp.MustCompile(`last\s*month`), func(int) time.Duration { return 30 * 24 * time.Hour }},
}

// ExtractRelativeDate is ExtractDate's last resort: it looks for a plain
// "N <unit> ago" phrase (or "yesterday"/"last week"/"last month") in the
// page's date-shaped elements and resolves it against the current time.
func ExtractRelativeDate(html string) time.Time {
	candidates := ExtractElement(html, relativeDateSelectors, nil)

	for text := range candidates {
		text = strings.ToLower(text)
		for _, pattern := range relativeDatePatterns {
			m := pattern.re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			n := 1
			if len(m) > 1 {
				n, _ = strconv.Atoi(m[1])
			}
			return time.Now().UTC().Add(-pattern.scale(n)).Truncate(time.Second)
		}
	}

	return time.Time{}
}
