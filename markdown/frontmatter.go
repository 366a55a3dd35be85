package markdown

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/awitkowski/articlemd"
	"gopkg.in/yaml.v3"
)

// pair is one front-matter field. Field order is significant and preserved
// in both YAML and JSON emission.
type pair struct {
	key   string
	value any
}

// frontMatter builds the front-matter block: "---" delimited YAML by
// default, or JSON when ConvertToJSON is set.
func (r *Renderer) frontMatter(in Input, opts Options) (string, error) {
	pairs := r.frontMatterPairs(in, opts.FlattenYAML)

	if opts.ConvertToJSON {
		doc, err := marshalJSONPairs(pairs)
		if err != nil {
			return "", err
		}
		return "---\n" + doc + "\n---\n\n", nil
	}

	doc, err := marshalYAMLPairs(pairs)
	if err != nil {
		return "", err
	}
	return "---\n" + doc + "---\n\n", nil
}

// frontMatterPairs assembles the ordered field list. Absent fields are
// omitted, never emitted as empty values. When flatten is set, nested
// entity categories are promoted to top-level pluralized keys and section
// summaries collapse to a flat title list, which simplifies downstream
// consumption by workflow tools.
func (r *Renderer) frontMatterPairs(in Input, flatten bool) []pair {
	meta := in.Metadata

	title := meta.Title
	if title == "" {
		title = articlemd.DefaultTitle
	}

	pairs := []pair{{key: "title", value: title}}

	add := func(key string, value any) {
		switch v := value.(type) {
		case string:
			if v == "" {
				return
			}
		case []string:
			if len(v) == 0 {
				return
			}
		}
		pairs = append(pairs, pair{key: key, value: value})
	}

	add("source_url", in.SourceURL)
	add("date_processed", in.Processed.UTC().Format(time.RFC3339))
	add("document_type", meta.DocumentType)
	add("doi", meta.DOI)
	add("journal", meta.Journal)
	add("authors", meta.Authors)
	add("publication_date", meta.PublicationDate)
	add("keywords", meta.Keywords)

	if flatten {
		for _, category := range sortedKeys(in.Entities) {
			add(pluralize(category), in.Entities[category])
		}
		// Mechanism category names are already plural.
		for _, category := range sortedKeys(in.Mechanisms) {
			add(category, in.Mechanisms[category])
		}
	} else {
		if len(in.Entities) > 0 {
			pairs = append(pairs, pair{key: "entities", value: in.Entities})
		}
		if len(in.Mechanisms) > 0 {
			pairs = append(pairs, pair{key: "mechanisms", value: in.Mechanisms})
		}
	}

	add("therapeutic_domains", meta.TherapeuticDomains)
	add("study_type", meta.StudyTypes)

	if flatten {
		var titles []string
		for _, sec := range in.Sections {
			if sec.Heading != "" {
				titles = append(titles, sec.Heading)
			}
		}
		add("section_titles", titles)
	} else if len(in.Sections) > 0 {
		summaries := make([]sectionSummary, 0, len(in.Sections))
		for _, sec := range in.Sections {
			summaries = append(summaries, sectionSummary{
				ID:       sec.ID,
				Heading:  sec.Heading,
				Kind:     sec.Kind,
				Keywords: sec.Keywords,
			})
		}
		pairs = append(pairs, pair{key: "sections", value: summaries})
	}

	return pairs
}

// sectionSummary is the per-section entry in unflattened front matter.
// Summaries are an ordered list rather than a map keyed by ID so that
// document order survives serialization.
type sectionSummary struct {
	ID       string   `yaml:"id" json:"id"`
	Heading  string   `yaml:"heading" json:"heading"`
	Kind     string   `yaml:"kind,omitempty" json:"kind,omitempty"`
	Keywords []string `yaml:"keywords,omitempty" json:"keywords,omitempty"`
}

// marshalYAMLPairs emits the pairs as a YAML mapping with explicit key
// order. Nested entity maps are emitted with sorted category keys so the
// output is byte-deterministic.
func marshalYAMLPairs(pairs []pair) (string, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}

	for _, p := range pairs {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: p.key}

		var valueNode yaml.Node
		if m, ok := p.value.(articlemd.Entities); ok {
			nested := yaml.Node{Kind: yaml.MappingNode}
			for _, category := range sortedKeys(m) {
				var terms yaml.Node
				if err := terms.Encode(m[category]); err != nil {
					return "", err
				}
				nested.Content = append(nested.Content,
					&yaml.Node{Kind: yaml.ScalarNode, Value: category},
					&terms,
				)
			}
			valueNode = nested
		} else if err := valueNode.Encode(p.value); err != nil {
			return "", err
		}

		doc.Content = append(doc.Content, keyNode, &valueNode)
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// marshalJSONPairs emits the pairs as a JSON object preserving field order.
// encoding/json sorts map keys, so nested entity maps stay deterministic.
func marshalJSONPairs(pairs []pair) (string, error) {
	var sb strings.Builder
	sb.WriteString("{\n")

	for i, p := range pairs {
		keyJSON, err := json.Marshal(p.key)
		if err != nil {
			return "", err
		}
		valueJSON, err := json.MarshalIndent(p.value, "  ", "  ")
		if err != nil {
			return "", err
		}

		sb.WriteString("  ")
		sb.Write(keyJSON)
		sb.WriteString(": ")
		sb.Write(valueJSON)
		if i < len(pairs)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("}")
	return sb.String(), nil
}

// pluralize converts an entity category name into its flattened key form.
func pluralize(category string) string {
	if strings.HasSuffix(category, "s") {
		return category
	}
	return category + "s"
}
