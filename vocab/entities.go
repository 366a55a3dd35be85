package vocab

import (
	"sort"
	"strings"

	"github.com/awitkowski/articlemd"
)

// RecognizeEntities scans the given texts for controlled-vocabulary entity
// terms and buckets matches by category. Matching is case-insensitive
// whole-phrase substring matching; repeated mentions of a term deduplicate
// to one entry. Categories with zero matches are omitted entirely.
func (v *Vocabulary) RecognizeEntities(texts []string) articlemd.Entities {
	return scanCategories(v.entities, texts)
}

// RecognizeMechanisms scans the given texts for mechanism terms, bucketed
// by mechanism category. Same matching semantics as RecognizeEntities.
func (v *Vocabulary) RecognizeMechanisms(texts []string) articlemd.Entities {
	return scanCategories(v.mechanisms, texts)
}

// SectionTerms returns the distinct entity and mechanism terms matched in
// one section's text, sorted. Used to populate per-section keyword lists.
func (v *Vocabulary) SectionTerms(texts []string) []string {
	lowered := strings.ToLower(strings.Join(texts, "\n"))

	seen := make(map[string]bool)
	for _, table := range []map[string][]string{v.entities, v.mechanisms} {
		for _, terms := range table {
			for _, term := range terms {
				if strings.Contains(lowered, term) {
					seen[term] = true
				}
			}
		}
	}

	if len(seen) == 0 {
		return nil
	}

	matched := make([]string, 0, len(seen))
	for term := range seen {
		matched = append(matched, term)
	}
	sort.Strings(matched)
	return matched
}

func scanCategories(tables map[string][]string, texts []string) articlemd.Entities {
	lowered := strings.ToLower(strings.Join(texts, "\n"))

	out := make(articlemd.Entities)
	for category, terms := range tables {
		var matched []string
		for _, term := range terms {
			if strings.Contains(lowered, term) {
				matched = append(matched, term)
			}
		}
		if len(matched) > 0 {
			sort.Strings(matched)
			out[category] = matched
		}
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
