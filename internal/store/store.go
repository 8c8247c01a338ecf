// Package store owns loaded scene documents: reading them from storage,
// writing them back, producing independent deep copies and applying ordered
// transform sequences in place. The pipeline depends only on the Store
// contract, so tests run against fakes without touching disk or codecs.
package store

import (
	"context"

	"github.com/quellen/scene-tier-pipeline/internal/scene"
	"github.com/quellen/scene-tier-pipeline/internal/transform"
)

// Store is the scene-store contract the pipeline consumes.
type Store interface {
	// Load parses a scene file fully into memory. Returns *LoadError if
	// the file is absent, unreadable or not a valid scene container.
	Load(ctx context.Context, path string) (*scene.Document, error)

	// Clone produces a document with no shared mutable state with the
	// source. Returns *CloneError only on resource exhaustion.
	Clone(doc *scene.Document) (*scene.Document, error)

	// ApplySequence mutates doc in place by running each step in order.
	// The first step failure aborts the rest and returns *TransformError;
	// doc is then poisoned and must be discarded by the caller.
	ApplySequence(ctx context.Context, doc *scene.Document, seq transform.Sequence) error

	// Save serializes the document to path, overwriting if present.
	// Returns *WriteError on I/O failure.
	Save(doc *scene.Document, path string) error
}
