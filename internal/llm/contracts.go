package llm

import (
	"context"

	"github.com/contare/payslip-reconciler/internal/entity"
)

// ExtractRequest is one block the deterministic extractor gave up on.
type ExtractRequest struct {
	BlockText  string
	BlockIndex int
	Period     string // MM/YYYY hint, may be empty
}

// EventExtractor is the capability the pipeline falls back to when pattern
// matching finds zero events for a block. Implementations may block on I/O;
// failures must degrade, the pipeline never aborts on them.
type EventExtractor interface {
	ExtractEvents(ctx context.Context, req ExtractRequest) ([]entity.PayEvent, []byte /*rawJSON*/, error)
}

// Noop is the deterministic stub: it always reports that it found nothing.
// The default wiring for tests and for runs without an API key.
type Noop struct{}

func (Noop) ExtractEvents(_ context.Context, _ ExtractRequest) ([]entity.PayEvent, []byte, error) {
	return nil, nil, nil
}
