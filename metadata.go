package articlemd

import (
	"net/url"
	"strings"
)

// DefaultTitle is used when no source yields a title.
const DefaultTitle = "Untitled"

// Metadata holds the bibliographic fields extracted from a document.
// All fields are optional except Title, which falls back to DefaultTitle.
type Metadata struct {
	Title              string   `json:"title"`
	Authors            []string `json:"authors,omitempty"`
	PublicationDate    string   `json:"publication_date,omitempty"`
	DOI                string   `json:"doi,omitempty"`
	Journal            string   `json:"journal,omitempty"`
	Abstract           string   `json:"abstract,omitempty"`
	Keywords           []string `json:"keywords,omitempty"`
	DocumentType       string   `json:"document_type,omitempty"`
	TherapeuticDomains []string `json:"therapeutic_domains,omitempty"`
	StudyTypes         []string `json:"study_type,omitempty"`
}

// hostLabels maps known publisher hostname fragments to canonical labels.
// Ordered: more specific fragments must come before fragments they contain
// (sciencedirect before science).
var hostLabels = []struct {
	fragment string
	label    string
}{
	{"pubmed", "PubMed"},
	{"pmc", "PMC"},
	{"nature.com", "Nature"},
	{"sciencedirect", "ScienceDirect"},
	{"science", "Science"},
	{"springer", "Springer"},
	{"wiley", "Wiley"},
	{"cell.com", "Cell"},
	{"acs.org", "ACS"},
	{"nejm.org", "NEJM"},
	{"bmj.com", "BMJ"},
	{"jamanetwork", "JAMA"},
	{"thelancet", "Lancet"},
}

// DomainLabel derives a canonical publisher label from a source URL's
// hostname, used for output-path grouping. Unmatched hostnames fall back
// to the capitalized first DNS label; an unparsable or empty URL yields
// "Unknown".
func DomainLabel(sourceURL string) string {
	u, err := url.Parse(sourceURL)
	if err != nil || u.Hostname() == "" {
		return "Unknown"
	}

	host := strings.ToLower(u.Hostname())
	for _, hl := range hostLabels {
		if strings.Contains(host, hl.fragment) {
			return hl.label
		}
	}

	label := strings.TrimPrefix(host, "www.")
	if i := strings.IndexByte(label, '.'); i > 0 {
		label = label[:i]
	}
	if label == "" {
		return "Unknown"
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

// SanitizeFilename replaces any character outside [A-Za-z0-9._-] with an
// underscore, collapsing runs of replacements into a single underscore.
func SanitizeFilename(name string) string {
	var sb strings.Builder
	prevUnderscore := false

	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			sb.WriteRune(r)
			prevUnderscore = r == '_'
		default:
			if !prevUnderscore {
				sb.WriteByte('_')
				prevUnderscore = true
			}
		}
	}

	return sb.String()
}
