package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/awitkowski/articlemd"
	"github.com/awitkowski/articlemd/vocab"
)

// blockSelector matches the elements that contribute section structure or
// body text, in document order.
const blockSelector = "h1, h2, h3, h4, h5, h6, p, ul, ol, pre, blockquote, table"

// containerTags are block containers whose inner elements must not be
// captured separately: the container is converted as a whole.
var containerTags = map[string]bool{
	"ul": true, "ol": true, "pre": true, "blockquote": true, "table": true,
}

// Segment walks the content region's descendants in document order and
// partitions them into sections. Every heading opens a new Section; text
// encountered before the first heading accumulates into an implicit leading
// section with an empty heading. A region with no headings yields exactly
// one synthetic section with id "body".
func Segment(region *goquery.Selection, conv articlemd.Converter, v *vocab.Vocabulary) ([]articlemd.Section, error) {
	var (
		sections []articlemd.Section
		tracker  articlemd.SlugTracker
		convErr  error
	)

	// The implicit leading section; emitted only if it gains text before
	// the first heading, or as the synthetic body section when the region
	// has no headings at all.
	current := articlemd.Section{Level: 1, Kind: articlemd.KindGeneric}
	sawHeading := false

	flush := func() {
		if current.Heading == "" && len(current.Text) == 0 {
			return
		}
		if current.ID == "" {
			current.ID = tracker.Next(current.Heading)
		}
		sections = append(sections, current)
	}

	region.Find(blockSelector).Each(func(_ int, sel *goquery.Selection) {
		if convErr != nil || nestedInContainer(sel, region) {
			return
		}

		tag := goquery.NodeName(sel)
		if level := headingLevel(tag); level > 0 {
			flush()
			heading := strings.TrimSpace(sel.Text())
			current = articlemd.Section{
				ID:      tracker.Next(heading),
				Heading: heading,
				Level:   level,
				Kind:    v.SectionKind(heading),
			}
			sawHeading = true
			return
		}

		text, err := blockText(sel, conv)
		if err != nil {
			convErr = err
			return
		}
		if text != "" {
			current.Text = append(current.Text, text)
		}
	})

	if convErr != nil {
		return nil, convErr
	}

	flush()

	// Zero detected headings yields exactly one synthetic section.
	if !sawHeading && len(sections) == 0 {
		sections = append(sections, articlemd.Section{
			ID:    tracker.Next(""),
			Level: 1,
			Kind:  articlemd.KindGeneric,
		})
	}

	return sections, nil
}

// blockText converts one block element to trimmed Markdown text.
func blockText(sel *goquery.Selection, conv articlemd.Converter) (string, error) {
	html, err := goquery.OuterHtml(sel)
	if err != nil {
		return "", err
	}
	// Skip empty blocks, but keep figures and tables: images carry alt
	// text and tables carry structure even when cells look empty.
	if strings.TrimSpace(sel.Text()) == "" &&
		sel.Find("img").Length() == 0 &&
		goquery.NodeName(sel) != "table" {
		return "", nil
	}

	md, err := conv.Convert(html)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md), nil
}

// nestedInContainer reports whether the element sits inside another
// captured block container (list, quote, code block, table) within the
// region, in which case the container's conversion already covers it.
func nestedInContainer(sel *goquery.Selection, region *goquery.Selection) bool {
	for parent := sel.Parent(); parent.Length() > 0; parent = parent.Parent() {
		if containerTags[goquery.NodeName(parent)] {
			return true
		}
		if parent.IsSelection(region) {
			return false
		}
	}
	return false
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}
