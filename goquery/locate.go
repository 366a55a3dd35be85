package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/awitkowski/articlemd"
)

// DefaultLandmarkTextFloor is the minimum extracted-text length a named
// landmark must carry to be accepted as main content. Rejects near-empty
// containers that merely carry a matching name.
const DefaultLandmarkTextFloor = 500

// landmarkSelector matches the <main> element and the small known list of
// content-carrying ids and classes.
const landmarkSelector = "main, " +
	"#content, #main, #mainContent, #main-content, " +
	".content, .main, .mainContent, .main-content"

// locateRule is one step of the locator cascade: a named predicate that
// either selects a content region or passes to the next rule.
type locateRule struct {
	name   string
	locate func(doc *goquery.Document, landmarkFloor int) *goquery.Selection
}

// locateRules is the ordered heuristic cascade; first success wins.
var locateRules = []locateRule{
	{
		// A semantic <article> element is the highest-confidence signal
		// and is trusted unconditionally regardless of size.
		name: "article",
		locate: func(doc *goquery.Document, _ int) *goquery.Selection {
			if sel := doc.Find("article").First(); sel.Length() > 0 {
				return sel
			}
			return nil
		},
	},
	{
		// A named landmark qualifies only when its text clears the floor.
		name: "landmark",
		locate: func(doc *goquery.Document, landmarkFloor int) *goquery.Selection {
			var found *goquery.Selection
			doc.Find(landmarkSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
				if textLen(sel) > landmarkFloor {
					found = sel
					return false
				}
				return true
			})
			return found
		},
	},
	{
		// Candidate scan: content-named div/section elements, or all
		// div/section elements when none are content-named. The single
		// candidate with the greatest plain-text length wins; ties break
		// to first in document order.
		name: "candidate-scan",
		locate: func(doc *goquery.Document, _ int) *goquery.Selection {
			candidates := doc.Find("div, section").FilterFunction(func(_ int, sel *goquery.Selection) bool {
				class, _ := sel.Attr("class")
				return containsContentName(class)
			})
			if candidates.Length() == 0 {
				candidates = doc.Find("div, section")
			}

			var best *goquery.Selection
			bestLen := -1
			candidates.Each(func(_ int, sel *goquery.Selection) {
				if l := textLen(sel); l > bestLen {
					best = sel
					bestLen = l
				}
			})
			return best
		},
	},
}

// MainContent returns the subtree most likely to contain the article body,
// or ENOCONTENT when the document has no qualifying candidate at all.
// The returned selection is a reference into doc, not a copy.
func MainContent(doc *goquery.Document, landmarkFloor int) (*goquery.Selection, error) {
	if landmarkFloor <= 0 {
		landmarkFloor = DefaultLandmarkTextFloor
	}

	for _, rule := range locateRules {
		if sel := rule.locate(doc, landmarkFloor); sel != nil {
			return sel, nil
		}
	}

	return nil, articlemd.Errorf(articlemd.ENOCONTENT, "no content found")
}

// StripBoilerplate removes elements that should never appear in output:
// chrome, scripts, and interactive markup.
func StripBoilerplate(doc *goquery.Document) {
	doc.Find("header, footer, nav, aside, script, style, noscript, iframe, form").Remove()
}

func textLen(sel *goquery.Selection) int {
	return len(strings.TrimSpace(sel.Text()))
}

func containsContentName(class string) bool {
	class = strings.ToLower(class)
	return strings.Contains(class, "content") ||
		strings.Contains(class, "main") ||
		strings.Contains(class, "article")
}
