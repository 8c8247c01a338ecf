package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quellen/scene-tier-pipeline/internal/scene"
	"github.com/quellen/scene-tier-pipeline/internal/sceneio"
	"github.com/quellen/scene-tier-pipeline/internal/transform"
)

// FileStore is the Store implementation backed by scene container files on
// the local filesystem.
type FileStore struct{}

// NewFileStore creates a filesystem-backed scene store.
func NewFileStore() *FileStore {
	return &FileStore{}
}

// Load reads and parses the scene container at path.
func (s *FileStore) Load(_ context.Context, path string) (*scene.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	doc, err := sceneio.Read(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if doc.Name == "" {
		base := filepath.Base(path)
		doc.Name = base[:len(base)-len(filepath.Ext(base))]
	}
	return doc, nil
}

// Clone deep-copies the document.
func (s *FileStore) Clone(doc *scene.Document) (*scene.Document, error) {
	out, err := doc.Clone()
	if err != nil {
		return nil, &CloneError{Err: err}
	}
	return out, nil
}

// ApplySequence runs each step in order, short-circuiting on the first
// failure. Steps observe context cancellation between applications.
func (s *FileStore) ApplySequence(ctx context.Context, doc *scene.Document, seq transform.Sequence) error {
	for _, step := range seq {
		if err := ctx.Err(); err != nil {
			return &TransformError{Step: step.Kind(), Err: err}
		}
		if err := step.Apply(ctx, doc); err != nil {
			return &TransformError{Step: step.Kind(), Err: err}
		}
	}
	return nil
}

// Save writes the document to path, creating the parent directory if absent
// and overwriting any existing file. The write goes through a temp file and
// rename so a failed save never leaves a truncated container behind.
func (s *FileStore) Save(doc *scene.Document, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("create output directory: %w", err)}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	defer os.Remove(tmp.Name())

	if err := sceneio.Write(tmp, doc); err != nil {
		tmp.Close()
		return &WriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
