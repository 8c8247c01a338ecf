package store

import (
	"fmt"

	"github.com/quellen/scene-tier-pipeline/internal/transform"
)

// LoadError reports a missing, unreadable or malformed input scene. Fatal to
// that file's job only; no tiers are attempted.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load %s: %v", e.Path, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// CloneError reports a failed deep copy. The only expected cause is resource
// exhaustion.
type CloneError struct {
	Err error
}

func (e *CloneError) Error() string { return fmt.Sprintf("clone document: %v", e.Err) }
func (e *CloneError) Unwrap() error { return e.Err }

// TransformError reports a failed step in a transform sequence. The document
// the sequence was running against is poisoned: it must be discarded, never
// persisted or reused.
type TransformError struct {
	Step transform.Kind
	Err  error
}

func (e *TransformError) Error() string { return fmt.Sprintf("transform %s: %v", e.Step, e.Err) }
func (e *TransformError) Unwrap() error { return e.Err }

// WriteError reports an output I/O failure. Fatal to that tier's output only.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write %s: %v", e.Path, e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }
