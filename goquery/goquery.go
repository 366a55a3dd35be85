// Package goquery implements the article extraction pipeline on top of
// goquery's HTML parsing: boilerplate stripping, main-content location via
// a heuristic cascade, meta-tag metadata extraction, section segmentation,
// vocabulary-based annotation, and Markdown rendering.
package goquery

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/awitkowski/articlemd"
	"github.com/awitkowski/articlemd/markdown"
	"github.com/awitkowski/articlemd/vocab"
	"github.com/google/uuid"
)

// Ensure Parser implements articlemd.Parser at compile time.
var _ articlemd.Parser = (*Parser)(nil)

// Parser runs the full extraction pipeline over one HTML document per
// invocation. Invocations are independent: the parsed document tree is
// owned by the invocation that created it and discarded after rendering.
type Parser struct {
	converter     articlemd.Converter
	vocabulary    *vocab.Vocabulary
	renderer      *markdown.Renderer
	fallback      articlemd.Extractor
	landmarkFloor int
}

// Option configures a Parser.
type Option func(*Parser)

// WithLandmarkTextFloor overrides the minimum text length a named landmark
// must carry to be accepted as main content.
func WithLandmarkTextFloor(n int) Option {
	return func(p *Parser) {
		p.landmarkFloor = n
	}
}

// WithFallbackExtractor sets an extraction engine consulted when the
// locator cascade finds no content region. The cascade error stands when
// the fallback finds nothing either.
func WithFallbackExtractor(e articlemd.Extractor) Option {
	return func(p *Parser) {
		p.fallback = e
	}
}

// NewParser creates a Parser using the given block converter and
// vocabulary.
func NewParser(conv articlemd.Converter, v *vocab.Vocabulary, opts ...Option) *Parser {
	p := &Parser{
		converter:     conv,
		vocabulary:    v,
		renderer:      markdown.NewRenderer(),
		landmarkFloor: DefaultLandmarkTextFloor,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse converts raw HTML into a ParseResult.
func (p *Parser) Parse(ctx context.Context, req articlemd.ParseRequest) (*articlemd.ParseResult, error) {
	start := time.Now()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(req.HTML))
	if err != nil {
		return nil, articlemd.Errorf(articlemd.EINVALID, "failed to parse HTML: %v", err)
	}

	StripBoilerplate(doc)

	region, err := MainContent(doc, p.landmarkFloor)
	fallbackTitle := ""
	if err != nil {
		region, fallbackTitle, err = p.extractFallback(req.HTML, err)
		if err != nil {
			return nil, err
		}
	}

	meta := ExtractMetadata(doc)
	if meta.Title == "" {
		meta.Title = fallbackTitle
	}

	sections, err := Segment(region, p.converter, p.vocabulary)
	if err != nil {
		return nil, err
	}

	// Annotations are read-only layers over the section text: entity and
	// mechanism recognition, per-section keywords, and classification
	// never mutate what the segmenter produced.
	allText := sectionText(sections, true)
	entities := p.vocabulary.RecognizeEntities(allText)
	mechanisms := p.vocabulary.RecognizeMechanisms(allText)
	for i := range sections {
		sections[i].Keywords = p.vocabulary.SectionTerms(sections[i].Text)
	}

	meta.TherapeuticDomains = p.vocabulary.ClassifyDomains(allText)
	meta.StudyTypes = p.vocabulary.ClassifyStudyTypes(titleAndAbstract(meta, sections))
	meta.DocumentType = documentType(meta)

	timestamp := time.Now().UTC()

	md, err := p.renderer.Render(markdown.Input{
		Metadata:   meta,
		Sections:   sections,
		Entities:   entities,
		Mechanisms: mechanisms,
		SourceURL:  req.SourceURL,
		Processed:  timestamp,
	}, markdown.Options{
		Mode:          req.Mode,
		FlattenYAML:   req.FlattenYAML,
		ConvertToJSON: req.ConvertToJSON,
	})
	if err != nil {
		return nil, err
	}

	return &articlemd.ParseResult{
		ID:               uuid.New().String(),
		Timestamp:        timestamp,
		SourceURL:        req.SourceURL,
		Status:           "success",
		Markdown:         md,
		Metadata:         meta,
		Sections:         sections,
		Entities:         entities,
		Mechanisms:       mechanisms,
		ProcessingTimeMS: int(time.Since(start).Milliseconds()),
		RecordID:         req.RecordID,
	}, nil
}

// extractFallback runs the fallback extraction engine over the raw HTML
// after a failed cascade. Returns the cascade error unchanged when no
// fallback is configured, the failure was not ENOCONTENT, or the fallback
// produced nothing usable.
func (p *Parser) extractFallback(rawHTML string, cascadeErr error) (*goquery.Selection, string, error) {
	if p.fallback == nil || articlemd.ErrorCode(cascadeErr) != articlemd.ENOCONTENT {
		return nil, "", cascadeErr
	}

	res, err := p.fallback.Extract(rawHTML)
	if err != nil || res.ContentHTML == "" {
		return nil, "", cascadeErr
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.ContentHTML))
	if err != nil {
		return nil, "", cascadeErr
	}
	return doc.Find("body"), res.Title, nil
}

// sectionText collects section paragraphs, optionally with headings, for
// vocabulary scanning.
func sectionText(sections []articlemd.Section, includeHeadings bool) []string {
	var texts []string
	for _, sec := range sections {
		if includeHeadings && sec.Heading != "" {
			texts = append(texts, sec.Heading)
		}
		texts = append(texts, sec.Text...)
	}
	return texts
}

// titleAndAbstract gathers the text study-type triggers are scored over:
// the resolved title, the meta-tag abstract, and any section recognized as
// an abstract.
func titleAndAbstract(meta articlemd.Metadata, sections []articlemd.Section) []string {
	texts := []string{meta.Title}
	if meta.Abstract != "" {
		texts = append(texts, meta.Abstract)
	}
	for _, sec := range sections {
		if sec.Kind == "abstract" {
			texts = append(texts, sec.Text...)
		}
	}
	return texts
}

// documentType labels the document: citation metadata or a detected study
// type marks a scientific paper, anything else is a plain article.
func documentType(meta articlemd.Metadata) string {
	if len(meta.Authors) > 0 || meta.DOI != "" || meta.Journal != "" ||
		meta.PublicationDate != "" || len(meta.StudyTypes) > 0 {
		return "scientific_paper"
	}
	return "article"
}
