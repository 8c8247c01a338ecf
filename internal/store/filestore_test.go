package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quellen/scene-tier-pipeline/internal/scene"
	"github.com/quellen/scene-tier-pipeline/internal/transform"
)

// stubStep is a recordable transform for sequencing tests.
type stubStep struct {
	kind    transform.Kind
	fail    error
	applied *[]transform.Kind
}

func (s stubStep) Kind() transform.Kind { return s.kind }

func (s stubStep) Apply(_ context.Context, doc *scene.Document) error {
	*s.applied = append(*s.applied, s.kind)
	if s.fail != nil {
		doc.Name = "partially-mutated"
		return s.fail
	}
	doc.Meshes = append(doc.Meshes, scene.Mesh{Name: string(s.kind)})
	return nil
}

func testDoc() *scene.Document {
	return &scene.Document{
		Name: "doc",
		Meshes: []scene.Mesh{{
			Name: "tri",
			Primitives: []scene.Primitive{{
				Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
				Indices:   []uint32{0, 1, 2},
				Material:  -1,
			}},
		}},
	}
}

func TestApplySequenceRunsInOrder(t *testing.T) {
	var applied []transform.Kind
	seq := transform.Sequence{
		stubStep{kind: "first", applied: &applied},
		stubStep{kind: "second", applied: &applied},
		stubStep{kind: "third", applied: &applied},
	}

	doc := testDoc()
	require.NoError(t, NewFileStore().ApplySequence(context.Background(), doc, seq))

	assert.Equal(t, []transform.Kind{"first", "second", "third"}, applied)
}

func TestApplySequenceShortCircuitsOnFailure(t *testing.T) {
	boom := errors.New("numeric instability")
	var applied []transform.Kind
	seq := transform.Sequence{
		stubStep{kind: "first", applied: &applied},
		stubStep{kind: "exploding", fail: boom, applied: &applied},
		stubStep{kind: "never", applied: &applied},
	}

	doc := testDoc()
	err := NewFileStore().ApplySequence(context.Background(), doc, seq)

	var terr *TransformError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, transform.Kind("exploding"), terr.Step)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []transform.Kind{"first", "exploding"}, applied, "later steps must not run")
	// The document is poisoned: partial mutations from the failed step are
	// visible, which is exactly why callers must discard it.
	assert.Equal(t, "partially-mutated", doc.Name)
}

func TestApplySequenceHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var applied []transform.Kind
	seq := transform.Sequence{stubStep{kind: "never", applied: &applied}}

	err := NewFileStore().ApplySequence(ctx, testDoc(), seq)
	var terr *TransformError
	require.ErrorAs(t, err, &terr)
	assert.Empty(t, applied)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	st := NewFileStore()
	doc := testDoc()

	path := filepath.Join(dir, "out", "doc.scn")
	require.NoError(t, st.Save(doc, path), "save creates the destination directory")

	got, err := st.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, doc.Fingerprint(), got.Fingerprint())
}

func TestSaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	st := NewFileStore()
	path := filepath.Join(dir, "doc.scn")

	require.NoError(t, st.Save(testDoc(), path))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	changed := testDoc()
	changed.Name = "changed"
	require.NoError(t, st.Save(changed, path))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestLoadErrors(t *testing.T) {
	st := NewFileStore()
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		missing := filepath.Join(dir, "missing.scn")
		_, err := st.Load(context.Background(), missing)
		var lerr *LoadError
		require.ErrorAs(t, err, &lerr)
		assert.Equal(t, missing, lerr.Path)
		assert.Contains(t, err.Error(), missing, "failure must identify the path")
	})

	t.Run("not a container", func(t *testing.T) {
		junk := filepath.Join(dir, "junk.scn")
		require.NoError(t, os.WriteFile(junk, []byte("definitely not a scene"), 0644))
		_, err := st.Load(context.Background(), junk)
		var lerr *LoadError
		require.ErrorAs(t, err, &lerr)
		assert.Equal(t, junk, lerr.Path)
	})
}

func TestSaveWriteError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocked")
	require.NoError(t, os.WriteFile(blocker, []byte("file, not a directory"), 0644))

	err := NewFileStore().Save(testDoc(), filepath.Join(blocker, "doc.scn"))
	var werr *WriteError
	require.ErrorAs(t, err, &werr)
}

func TestCloneViaStore(t *testing.T) {
	st := NewFileStore()
	doc := testDoc()

	clone, err := st.Clone(doc)
	require.NoError(t, err)

	clone.Meshes[0].Name = "mutated"
	assert.Equal(t, "tri", doc.Meshes[0].Name)
}
