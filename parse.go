package articlemd

import (
	"context"
	"time"
)

// OutputMode selects the Markdown representation produced by the renderer.
type OutputMode string

// Supported output modes.
const (
	// ModeStandard renders plain Markdown: title heading followed by
	// sections and paragraphs.
	ModeStandard OutputMode = "standard"

	// ModeSemantic renders the standard body plus per-section annotation
	// blocks listing entity and mechanism matches.
	ModeSemantic OutputMode = "semantic"

	// ModeYAML prefixes the standard body with a YAML front-matter block
	// built from metadata, entities, and section summaries.
	ModeYAML OutputMode = "yaml"
)

// Valid reports whether the mode is one of the supported output modes.
func (m OutputMode) Valid() bool {
	switch m {
	case ModeStandard, ModeSemantic, ModeYAML:
		return true
	}
	return false
}

// ParseRequest is the input to one pipeline invocation.
type ParseRequest struct {
	HTML          string     `json:"html"`
	SourceURL     string     `json:"source_url,omitempty"`
	Mode          OutputMode `json:"output_mode,omitempty"`
	FlattenYAML   bool       `json:"flatten_yaml,omitempty"`
	ConvertToJSON bool       `json:"convert_to_json,omitempty"`

	// RecordID is an opaque caller-supplied identifier echoed back in the
	// result, used by record-sync sinks to correlate deliveries.
	RecordID string `json:"record_id,omitempty"`
}

// Validate returns an error if the request contains invalid fields.
func (r *ParseRequest) Validate() error {
	if r.HTML == "" {
		return Errorf(EINVALID, "html content required")
	}
	if r.Mode != "" && !r.Mode.Valid() {
		return Errorf(EINVALID, "unknown output mode %q", r.Mode)
	}
	return nil
}

// Entities maps an entity-category name (e.g. "physiological_parameter")
// to the distinct vocabulary terms matched in the scanned text. Categories
// with zero matches are never present in the map.
type Entities map[string][]string

// ParseResult is the pipeline's final product. It is immutable once
// produced; one ParseResult per invocation.
type ParseResult struct {
	ID               string    `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	SourceURL        string    `json:"source_url,omitempty"`
	Status           string    `json:"status"`
	Markdown         string    `json:"markdown"`
	Metadata         Metadata  `json:"metadata"`
	Sections         []Section `json:"sections"`
	Entities         Entities  `json:"entities,omitempty"`
	Mechanisms       Entities  `json:"mechanisms,omitempty"`
	ProcessingTimeMS int       `json:"processing_time_ms"`
	RecordID         string    `json:"record_id,omitempty"`
}

// Parser runs the full extraction pipeline over one HTML document.
type Parser interface {
	// Parse converts raw HTML into a ParseResult. It returns ENOCONTENT
	// when no usable article content can be located and EINVALID when the
	// input cannot be parsed at all. Missing metadata fields, zero entity
	// matches, and unrecognized sections are not errors.
	Parse(ctx context.Context, req ParseRequest) (*ParseResult, error)
}

// Sink delivers a completed ParseResult to a destination (filesystem,
// database, webhook). Delivery backends are swappable without touching
// extraction logic.
type Sink interface {
	Deliver(ctx context.Context, result *ParseResult) error
}
