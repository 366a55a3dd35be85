package mock

import (
	"context"

	"github.com/awitkowski/articlemd"
)

var _ articlemd.Sink = (*Sink)(nil)

// Sink is a mock implementation of articlemd.Sink.
type Sink struct {
	DeliverFn func(ctx context.Context, result *articlemd.ParseResult) error
}

func (s *Sink) Deliver(ctx context.Context, result *articlemd.ParseResult) error {
	return s.DeliverFn(ctx, result)
}
