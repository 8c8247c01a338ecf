// Package transform implements the lossy and lossless scene transforms the
// pipeline sequences: animation resampling, pruning, dedup, texture
// recompression, geometry simplification and mesh compression. Every step
// mutates the document in place and reports failure through an ordinary
// error; sequencing, short-circuiting and poisoning are the store's concern.
package transform

import (
	"context"

	"github.com/quellen/scene-tier-pipeline/internal/scene"
)

// Kind names a transform step; it appears in transform errors and logs.
type Kind string

const (
	KindResample     Kind = "resample"
	KindPrune        Kind = "prune"
	KindDedup        Kind = "dedup"
	KindTexture      Kind = "texture_recompress"
	KindSimplify     Kind = "simplify_geometry"
	KindCompressMesh Kind = "compress_mesh"
)

// Transform is one step of a transform sequence. Apply mutates doc in place;
// after a non-nil error the document is in an undefined partial state and
// must be discarded by the caller.
type Transform interface {
	Kind() Kind
	Apply(ctx context.Context, doc *scene.Document) error
}

// Sequence is an ordered list of steps; step i+1 sees the output of step i.
type Sequence []Transform

// Kinds returns the step kinds in order, for logging and assertions.
func (s Sequence) Kinds() []Kind {
	out := make([]Kind, len(s))
	for i, t := range s {
		out[i] = t.Kind()
	}
	return out
}
