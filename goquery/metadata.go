package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/awitkowski/articlemd"
)

// titleSource is one step of the title resolution chain.
type titleSource struct {
	name string
	get  func(doc *goquery.Document) string
}

// titleSources is the ordered title chain; first non-empty match wins,
// falling back to articlemd.DefaultTitle.
var titleSources = []titleSource{
	{name: "og:title", get: metaProperty("og:title")},
	{name: "citation_title", get: metaName("citation_title")},
	{name: "title-tag", get: func(doc *goquery.Document) string {
		return strings.TrimSpace(doc.Find("title").First().Text())
	}},
}

// ExtractMetadata pulls bibliographic metadata from known meta-tag
// conventions. Best-effort: absent fields are omitted, never defaulted,
// except Title which falls back through the resolution chain to "Untitled".
func ExtractMetadata(doc *goquery.Document) articlemd.Metadata {
	var meta articlemd.Metadata

	for _, src := range titleSources {
		if title := src.get(doc); title != "" {
			meta.Title = title
			break
		}
	}
	if meta.Title == "" {
		meta.Title = articlemd.DefaultTitle
	}

	doc.Find(`meta[name="citation_author"]`).Each(func(_ int, sel *goquery.Selection) {
		if author := strings.TrimSpace(sel.AttrOr("content", "")); author != "" {
			meta.Authors = append(meta.Authors, author)
		}
	})

	meta.PublicationDate = firstNonEmpty(
		metaName("citation_publication_date")(doc),
		metaName("citation_date")(doc),
	)
	meta.DOI = metaName("citation_doi")(doc)
	meta.Journal = metaName("citation_journal_title")(doc)
	meta.Abstract = metaName("description")(doc)
	meta.Keywords = splitKeywords(firstNonEmpty(
		metaName("citation_keywords")(doc),
		metaName("keywords")(doc),
	))

	return meta
}

// metaName returns a lookup for <meta name=...> content.
func metaName(name string) func(doc *goquery.Document) string {
	return func(doc *goquery.Document) string {
		sel := doc.Find(`meta[name="` + name + `"]`).First()
		return strings.TrimSpace(sel.AttrOr("content", ""))
	}
}

// metaProperty returns a lookup for <meta property=...> content.
func metaProperty(property string) func(doc *goquery.Document) string {
	return func(doc *goquery.Document) string {
		sel := doc.Find(`meta[property="` + property + `"]`).First()
		return strings.TrimSpace(sel.AttrOr("content", ""))
	}
}

// splitKeywords splits a keyword meta value on semicolons and commas.
func splitKeywords(value string) []string {
	if value == "" {
		return nil
	}

	var keywords []string
	seen := make(map[string]bool)
	for _, part := range strings.FieldsFunc(value, func(r rune) bool {
		return r == ';' || r == ','
	}) {
		kw := strings.TrimSpace(part)
		if kw == "" || seen[strings.ToLower(kw)] {
			continue
		}
		seen[strings.ToLower(kw)] = true
		keywords = append(keywords, kw)
	}
	return keywords
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
