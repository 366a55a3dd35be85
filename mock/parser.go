package mock

import (
	"context"

	"github.com/awitkowski/articlemd"
)

var _ articlemd.Parser = (*Parser)(nil)

// Parser is a mock implementation of articlemd.Parser.
type Parser struct {
	ParseFn func(ctx context.Context, req articlemd.ParseRequest) (*articlemd.ParseResult, error)
}

func (p *Parser) Parse(ctx context.Context, req articlemd.ParseRequest) (*articlemd.ParseResult, error) {
	return p.ParseFn(ctx, req)
}
