package source

import (
	"context"

	"github.com/komsit37/qre/pkg/qre/types"
)

// Source loads a quote document from a specification (e.g., filepath).
type Source interface {
	Load(ctx context.Context, spec any) (*types.Document, error)
}

// Sink writes a quote document to a specification.
type Sink interface {
	Save(ctx context.Context, doc *types.Document, spec any) error
}
