package cleanup

import "github.com/PuerkitoBio/goquery"

// CalculateLinkDensity is the fraction of s's text that sits inside <a>
// tags, used by the cleaner to decide whether a table looks like a link
// farm rather than real tabular content.
func CalculateLinkDensity(s *goquery.Selection) float64 {
	text := s.Text()
	if len(text) == 0 {
		return 0.0
	}
	return float64(len(s.Find("a").Text())) / float64(len(text))
}
