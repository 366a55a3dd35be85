package articlemd

import (
	"strconv"
	"strings"
	"unicode"
)

// Section kinds assigned by matching heading text against the recognized
// section vocabulary. Unrecognized headings keep KindGeneric.
const (
	KindGeneric = "generic"
)

// Section is a contiguous, heading-delimited span of extracted body text.
// Sections are ordered by document order of their originating heading.
type Section struct {
	ID       string   `json:"id"`
	Heading  string   `json:"heading"`
	Level    int      `json:"level"`
	Kind     string   `json:"kind"`
	Text     []string `json:"text"`
	Keywords []string `json:"keywords,omitempty"`
}

// Slugify creates a URL-safe section ID from heading text.
// Converts to lowercase, collapses non-alphanumeric runs to a single
// hyphen, and trims leading/trailing hyphens.
func Slugify(heading string) string {
	var sb strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(heading) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			prevHyphen = false
		} else if !prevHyphen && sb.Len() > 0 {
			sb.WriteRune('-')
			prevHyphen = true
		}
	}

	return strings.TrimSuffix(sb.String(), "-")
}

// SlugTracker deduplicates section IDs by appending numeric suffixes on
// collision. The zero value is ready to use.
type SlugTracker struct {
	counts map[string]int
}

// Next returns a unique slug for the heading. The first occurrence of a
// slug is returned unchanged; later occurrences get "-1", "-2", etc.
func (t *SlugTracker) Next(heading string) string {
	if t.counts == nil {
		t.counts = make(map[string]int)
	}

	base := Slugify(heading)
	if base == "" {
		base = "body"
	}

	count, exists := t.counts[base]
	if !exists {
		t.counts[base] = 1
		return base
	}
	t.counts[base]++
	return base + "-" + strconv.Itoa(count)
}
