package transform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quellen/scene-tier-pipeline/internal/scene"
)

func TestCompressMeshRoundtrip(t *testing.T) {
	original := gridPrimitive(8)
	doc := &scene.Document{Meshes: []scene.Mesh{{Name: "grid", Primitives: []scene.Primitive{original}}}}

	require.NoError(t, CompressMesh{Level: 7}.Apply(context.Background(), doc))

	p := &doc.Meshes[0].Primitives[0]
	require.NotNil(t, p.Compressed)
	assert.Equal(t, "quant+zstd", p.Compressed.Codec)
	assert.Equal(t, 7, p.Compressed.Level)
	assert.Equal(t, original.VertexCount(), p.Compressed.VertexCount)
	assert.Equal(t, len(original.Indices), p.Compressed.IndexCount)
	assert.Nil(t, p.Positions, "raw attributes replaced by the blob")
	assert.Nil(t, p.Indices)

	require.NoError(t, DecompressPrimitive(p))
	require.Equal(t, len(original.Positions), len(p.Positions))
	require.Equal(t, original.Indices, p.Indices)

	// Quantization error bound: 16-bit positions inside the grid bounds.
	const eps = 7.0 / 65535 * 2
	for i := range original.Positions {
		assert.InDelta(t, original.Positions[i], p.Positions[i], eps)
	}
	for i := range original.UVs {
		assert.InDelta(t, original.UVs[i], p.UVs[i], 1.0/65535*2)
	}
	for i := range original.Normals {
		assert.InDelta(t, original.Normals[i], p.Normals[i], 2.0/255)
	}
}

func TestCompressMeshIdempotent(t *testing.T) {
	doc := &scene.Document{Meshes: []scene.Mesh{{Primitives: []scene.Primitive{gridPrimitive(4)}}}}
	require.NoError(t, CompressMesh{Level: 7}.Apply(context.Background(), doc))
	blob := doc.Meshes[0].Primitives[0].Compressed.Data

	// A second pass leaves already-compressed primitives alone.
	require.NoError(t, CompressMesh{Level: 3}.Apply(context.Background(), doc))
	assert.Equal(t, blob, doc.Meshes[0].Primitives[0].Compressed.Data)
	assert.Equal(t, 7, doc.Meshes[0].Primitives[0].Compressed.Level)
}

func TestCompressMeshInvalidLevel(t *testing.T) {
	doc := &scene.Document{}
	require.Error(t, CompressMesh{Level: 0}.Apply(context.Background(), doc))
	require.Error(t, CompressMesh{Level: 11}.Apply(context.Background(), doc))
}

func TestCompressMeshShrinksPayload(t *testing.T) {
	p := gridPrimitive(16)
	rawSize := 4 * (len(p.Positions) + len(p.Normals) + len(p.UVs) + len(p.Indices))
	doc := &scene.Document{Meshes: []scene.Mesh{{Primitives: []scene.Primitive{p}}}}

	require.NoError(t, CompressMesh{Level: 7}.Apply(context.Background(), doc))

	assert.Less(t, len(doc.Meshes[0].Primitives[0].Compressed.Data), rawSize)
}
