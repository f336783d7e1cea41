package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// fieldStrategy pairs a candidate selector with a plausibility check.
// Chains are evaluated in priority order; the first strategy yielding a
// plausible, non-empty value wins.
type fieldStrategy struct {
	selector  string
	plausible func(string) bool
}

func anyText(s string) bool { return s != "" }

// plausibleAuthor rejects obvious non-names: timestamp fragments, UI
// affordances, the host brand, and implausible lengths.
func plausibleAuthor(s string) bool {
	if len(s) < 3 || len(s) > 50 {
		return false
	}
	if s == "LinkedIn" {
		return false
	}
	for _, marker := range []string{"•", "ago", "View", "Follow"} {
		if strings.Contains(s, marker) {
			return false
		}
	}
	return true
}

var authorStrategies = []fieldStrategy{
	{".update-components-actor__name", plausibleAuthor},
	{".feed-shared-actor__name", plausibleAuthor},
	{".actor-name", plausibleAuthor},
	{`[data-test-id="actor-name"]`, plausibleAuthor},
	{".feed-shared-actor__name .visually-hidden", plausibleAuthor},
	{".update-components-actor span", plausibleAuthor},
	{`a[href*="/in/"]`, plausibleAuthor},
}

var textStrategies = []fieldStrategy{
	{".feed-shared-text__text-view", anyText},
	{".update-components-text", anyText},
	{".feed-shared-update-v2__description", anyText},
	{".feed-shared-text", anyText},
}

// firstMatch walks a strategy chain over the element and returns the first
// plausible value, or "".
func firstMatch(sel *goquery.Selection, chain []fieldStrategy) string {
	for _, strat := range chain {
		found := ""
		sel.Find(strat.selector).EachWithBreak(func(_ int, m *goquery.Selection) bool {
			candidate := collapseWhitespace(m.Text())
			if candidate != "" && strat.plausible(candidate) {
				found = candidate
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// uiSuffixes are trailing affordance strings stripped from post text, most
// specific first. Suffix matching only, no general text rewriting.
var uiSuffixes = []string{"…see more", "...see more", "see more", "see less", "…"}

func cleanText(s string) string {
	s = collapseWhitespace(s)
	for changed := true; changed; {
		changed = false
		for _, suffix := range uiSuffixes {
			if strings.HasSuffix(s, suffix) {
				s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
				changed = true
			}
		}
	}
	return s
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
