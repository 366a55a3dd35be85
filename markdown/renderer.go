// Package markdown serializes extracted sections plus metadata into one of
// three Markdown representations: standard, semantic (with per-section
// entity annotations), or YAML front matter. Rendering is deterministic:
// the same input always produces byte-identical output, and no wall-clock
// or random content is generated here.
package markdown

import (
	"sort"
	"strings"
	"time"

	"github.com/awitkowski/articlemd"
)

// Input is the material the renderer works from. Processed is the
// invocation timestamp computed once upstream; the renderer never reads
// the clock itself.
type Input struct {
	Metadata   articlemd.Metadata
	Sections   []articlemd.Section
	Entities   articlemd.Entities
	Mechanisms articlemd.Entities
	SourceURL  string
	Processed  time.Time
}

// Options selects the output representation.
type Options struct {
	Mode          articlemd.OutputMode
	FlattenYAML   bool
	ConvertToJSON bool
}

// Renderer produces Markdown output. The zero value is not usable;
// create one with NewRenderer.
type Renderer struct{}

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render serializes the input according to the requested mode.
func (r *Renderer) Render(in Input, opts Options) (string, error) {
	mode := opts.Mode
	if mode == "" {
		mode = articlemd.ModeStandard
	}

	switch mode {
	case articlemd.ModeStandard:
		return r.body(in, false), nil
	case articlemd.ModeSemantic:
		return r.body(in, true), nil
	case articlemd.ModeYAML:
		fm, err := r.frontMatter(in, opts)
		if err != nil {
			return "", err
		}
		return fm + r.body(in, false), nil
	default:
		return "", articlemd.Errorf(articlemd.EINVALID, "unknown output mode %q", mode)
	}
}

// body renders the title heading followed by each section. Sections with
// empty heading text are rendered as plain paragraph blocks. When annotate
// is set, each section is followed by its entity/mechanism annotation block.
func (r *Renderer) body(in Input, annotate bool) string {
	var sb strings.Builder

	block := func(s string) {
		sb.WriteString(s)
		sb.WriteString("\n\n")
	}

	title := in.Metadata.Title
	if title == "" {
		title = articlemd.DefaultTitle
	}
	block("# " + title)

	for _, sec := range in.Sections {
		if sec.Heading != "" {
			block(strings.Repeat("#", clampLevel(sec.Level)) + " " + sec.Heading)
		}
		for _, para := range sec.Text {
			block(para)
		}
		if annotate {
			if ann := r.annotation(in, sec); ann != "" {
				block(ann)
			}
		}
	}

	return sb.String()
}

// annotation builds the semantic-mode block for one section: the entity and
// mechanism terms matched within that section's own text, grouped by
// category. Section keywords carry the per-section matches; document-wide
// category maps supply the grouping.
func (r *Renderer) annotation(in Input, sec articlemd.Section) string {
	if len(sec.Keywords) == 0 {
		return ""
	}

	inSection := make(map[string]bool, len(sec.Keywords))
	for _, kw := range sec.Keywords {
		inSection[kw] = true
	}

	entities := categorize(in.Entities, inSection)
	mechanisms := categorize(in.Mechanisms, inSection)
	if entities == "" && mechanisms == "" {
		return ""
	}

	var lines []string
	if entities != "" {
		lines = append(lines, "> Entities: "+entities)
	}
	if mechanisms != "" {
		lines = append(lines, "> Mechanisms: "+mechanisms)
	}
	return strings.Join(lines, "\n")
}

// categorize lists "term (category)" pairs for every document-level term
// that also appears in the section, sorted by category then term.
func categorize(byCategory articlemd.Entities, inSection map[string]bool) string {
	categories := sortedKeys(byCategory)

	var parts []string
	for _, category := range categories {
		for _, term := range byCategory[category] {
			if inSection[term] {
				parts = append(parts, term+" ("+category+")")
			}
		}
	}
	return strings.Join(parts, ", ")
}

func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 6 {
		return 6
	}
	return level
}

func sortedKeys(m articlemd.Entities) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
