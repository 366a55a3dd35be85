package mock

import "github.com/awitkowski/articlemd"

var _ articlemd.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of articlemd.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*articlemd.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*articlemd.ExtractResult, error) {
	return e.ExtractFn(html)
}
