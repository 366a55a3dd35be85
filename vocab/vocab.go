// Package vocab holds the controlled vocabularies used for entity
// recognition, domain and study-type classification, and section-kind
// canonicalization. Vocabularies are data, not code: they are embedded as
// YAML, loaded once, and held in read-only state.
package vocab

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/awitkowski/articlemd"
	"gopkg.in/yaml.v3"
)

//go:embed vocab.yaml
var vocabYAML []byte

// Options holds the tunable classification thresholds.
type Options struct {
	// DomainThreshold is the minimum trigger-term occurrence count across
	// all section text for a therapeutic domain to be reported.
	DomainThreshold int

	// StudyTypeThreshold is the minimum trigger-term occurrence count in
	// title + abstract text for a study type to be reported.
	StudyTypeThreshold int
}

// DefaultOptions returns the default thresholds.
func DefaultOptions() Options {
	return Options{DomainThreshold: 1, StudyTypeThreshold: 1}
}

// vocabFile mirrors the embedded YAML layout.
type vocabFile struct {
	Entities           map[string][]string `yaml:"entities"`
	Mechanisms         map[string][]string `yaml:"mechanisms"`
	TherapeuticDomains map[string][]string `yaml:"therapeutic_domains"`
	StudyTypes         map[string][]string `yaml:"study_types"`
	SectionKinds       map[string][]string `yaml:"section_kinds"`
}

// trigger is a single classification term with its compiled whole-word
// matcher. Matchers accept a trailing "s" so that plural phrasing
// ("randomized controlled trials") still counts toward the label.
type trigger struct {
	term string
	re   *regexp.Regexp
}

// Vocabulary is a read-only set of term tables. Safe for concurrent use.
type Vocabulary struct {
	opts Options

	entities   map[string][]string // category -> lowercase terms
	mechanisms map[string][]string

	domains    map[string][]trigger // label -> whole-word triggers
	studyTypes map[string][]trigger

	sectionKinds map[string]string // normalized heading -> kind
}

// Load parses the embedded vocabulary tables.
func Load(opts Options) (*Vocabulary, error) {
	var f vocabFile
	if err := yaml.Unmarshal(vocabYAML, &f); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary: %w", err)
	}

	v := &Vocabulary{
		opts:         opts,
		entities:     lowerTerms(f.Entities),
		mechanisms:   lowerTerms(f.Mechanisms),
		domains:      make(map[string][]trigger, len(f.TherapeuticDomains)),
		studyTypes:   make(map[string][]trigger, len(f.StudyTypes)),
		sectionKinds: make(map[string]string),
	}

	var err error
	if v.domains, err = compileTriggers(f.TherapeuticDomains); err != nil {
		return nil, err
	}
	if v.studyTypes, err = compileTriggers(f.StudyTypes); err != nil {
		return nil, err
	}

	for kind, aliases := range f.SectionKinds {
		for _, alias := range aliases {
			v.sectionKinds[strings.ToLower(strings.TrimSpace(alias))] = kind
		}
	}

	return v, nil
}

var defaultVocab = sync.OnceValues(func() (*Vocabulary, error) {
	return Load(DefaultOptions())
})

// Default returns the vocabulary loaded with default options.
// The embedded tables are parsed once; later calls reuse the same instance.
func Default() (*Vocabulary, error) {
	return defaultVocab()
}

func lowerTerms(src map[string][]string) map[string][]string {
	out := make(map[string][]string, len(src))
	for category, terms := range src {
		lowered := make([]string, 0, len(terms))
		for _, t := range terms {
			t = strings.ToLower(strings.TrimSpace(t))
			if t != "" {
				lowered = append(lowered, t)
			}
		}
		out[category] = lowered
	}
	return out
}

func compileTriggers(src map[string][]string) (map[string][]trigger, error) {
	out := make(map[string][]trigger, len(src))
	for label, terms := range src {
		compiled := make([]trigger, 0, len(terms))
		for _, t := range terms {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" {
				continue
			}
			re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(t) + `s?\b`)
			if err != nil {
				return nil, fmt.Errorf("failed to compile trigger %q for %s: %w", t, label, err)
			}
			compiled = append(compiled, trigger{term: t, re: re})
		}
		out[label] = compiled
	}
	return out, nil
}

// SectionKind matches heading text against the recognized-section
// vocabulary and returns the canonical kind, or "generic" for
// unrecognized headings. Leading numbering ("2.1 Methods") and trailing
// colons are ignored.
func (v *Vocabulary) SectionKind(heading string) string {
	h := strings.ToLower(strings.TrimSpace(heading))
	h = strings.TrimRight(h, ":")
	h = strings.TrimLeft(h, "0123456789. ")

	if kind, ok := v.sectionKinds[h]; ok {
		return kind
	}
	return articlemd.KindGeneric
}
