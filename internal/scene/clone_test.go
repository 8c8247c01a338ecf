package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() *Document {
	return &Document{
		Name: "sample",
		Meshes: []Mesh{{
			Name: "body",
			Primitives: []Primitive{{
				Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
				Normals:   []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
				UVs:       []float32{0, 0, 1, 0, 0, 1},
				Indices:   []uint32{0, 1, 2},
				Material:  0,
			}},
		}},
		Textures: []Texture{
			{Name: "skin", MIME: "image/png", Width: 4, Height: 4, Data: []byte{1, 2, 3, 4}},
		},
		Materials: []Material{
			{Name: "skin", BaseColor: [4]float32{1, 1, 1, 1}, BaseTexture: 0, NormalMap: -1},
		},
		Nodes: []Node{
			{Name: "root", Mesh: 0, Scale: [3]float32{1, 1, 1}, Rotation: [4]float32{0, 0, 0, 1}},
		},
		Animations: []Animation{{
			Name: "idle",
			Channels: []Channel{{
				Node: 0, Path: "translation", Stride: 3,
				Times:  []float32{0, 1, 2},
				Values: []float32{0, 0, 0, 1, 0, 0, 2, 0, 0},
			}},
		}},
		Extensions: map[string]any{"generator": "test"},
	}
}

func TestCloneIsIndependent(t *testing.T) {
	src := sampleDocument()
	srcFP := src.Fingerprint()

	clone, err := src.Clone()
	require.NoError(t, err)
	assert.Equal(t, srcFP, clone.Fingerprint(), "clone starts content-equal to its source")

	// Mutate every part of the clone.
	clone.Meshes[0].Primitives[0].Positions[0] = 99
	clone.Meshes[0].Primitives[0].Indices[0] = 2
	clone.Textures[0].Data[0] = 0xff
	clone.Materials[0].BaseColor[0] = 0
	clone.Nodes[0].Name = "mutated"
	clone.Animations[0].Channels[0].Values[0] = -5
	clone.Extensions["generator"] = "mutated"

	assert.Equal(t, srcFP, src.Fingerprint(), "mutating the clone must not touch the source")

	// And the other direction: mutate the source, the clone stays put.
	cloneFP := clone.Fingerprint()
	src.Meshes[0].Primitives[0].Positions[1] = -42
	src.Textures[0].Data[1] = 0xee
	assert.Equal(t, cloneFP, clone.Fingerprint(), "mutating the source must not touch the clone")
}

func TestCloneOfCloneIsIndependent(t *testing.T) {
	baseline := sampleDocument()

	a, err := baseline.Clone()
	require.NoError(t, err)
	b, err := baseline.Clone()
	require.NoError(t, err)

	bFP := b.Fingerprint()
	a.Meshes[0].Primitives[0].Positions[0] = 123
	a.Textures[0].Data = []byte{9, 9}

	assert.Equal(t, bFP, b.Fingerprint(), "sibling clones share no state")
	assert.Equal(t, bFP, baseline.Fingerprint(), "baseline unchanged by clone mutation")
}

func TestFingerprintChangesOnMutation(t *testing.T) {
	doc := sampleDocument()
	before := doc.Fingerprint()
	doc.Meshes[0].Primitives[0].Positions[0] = 7
	assert.NotEqual(t, before, doc.Fingerprint())
}
