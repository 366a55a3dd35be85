package vocab

import (
	"sort"
	"strings"
)

// ClassifyDomains scores therapeutic-domain trigger terms across the given
// texts (case-insensitive, whole-word) and returns every label whose total
// occurrence count meets the domain threshold. Multiple labels may be
// returned; presence is boolean, no confidence score is exposed.
func (v *Vocabulary) ClassifyDomains(texts []string) []string {
	return classify(v.domains, texts, v.opts.DomainThreshold)
}

// ClassifyStudyTypes scores study-type trigger terms over the given texts.
// Callers are expected to pass title and abstract text only; study-type
// phrasing elsewhere (e.g. in references) is a weak signal.
func (v *Vocabulary) ClassifyStudyTypes(texts []string) []string {
	return classify(v.studyTypes, texts, v.opts.StudyTypeThreshold)
}

func classify(tables map[string][]trigger, texts []string, threshold int) []string {
	if threshold < 1 {
		threshold = 1
	}

	joined := strings.Join(texts, "\n")

	var labels []string
	for label, triggers := range tables {
		count := 0
		for _, tr := range triggers {
			count += len(tr.re.FindAllStringIndex(joined, -1))
		}
		if count >= threshold {
			labels = append(labels, label)
		}
	}

	sort.Strings(labels)
	return labels
}
