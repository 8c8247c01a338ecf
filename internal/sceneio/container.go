// Package sceneio reads and writes the scene container format.
//
// The container is a binary file with a fixed header followed by two chunks,
// in the style of binary glTF: a JSON chunk describing the scene structure
// and a binary chunk holding the bulk payload (vertex attributes, keyframes,
// texture blobs). The JSON side references the binary side through byte-range
// views, so structure stays inspectable while payload stays compact.
package sceneio

import (
	"github.com/quellen/scene-tier-pipeline/internal/scene"
)

const (
	// Magic identifies a scene container file.
	Magic = "SCNB"

	// Version is the container format version this codec reads and writes.
	Version uint32 = 1

	// Extension is the default file extension for scene containers.
	Extension = ".scn"
)

// view is a byte range into the binary chunk.
type view struct {
	Offset uint32 `json:"offset"`
	Length uint32 `json:"length"`
}

func (v view) empty() bool { return v.Length == 0 }

// Wire mirrors of the document types whose payload lives in the binary
// chunk. Materials and nodes are small and ride along in the JSON chunk
// unchanged.

type wireDocument struct {
	Name       string           `json:"name,omitempty"`
	Meshes     []wireMesh       `json:"meshes,omitempty"`
	Textures   []wireTexture    `json:"textures,omitempty"`
	Materials  []scene.Material `json:"materials,omitempty"`
	Nodes      []scene.Node     `json:"nodes,omitempty"`
	Animations []wireAnimation  `json:"animations,omitempty"`
	Extensions map[string]any   `json:"extensions,omitempty"`
}

type wireMesh struct {
	Name       string          `json:"name,omitempty"`
	Primitives []wirePrimitive `json:"primitives,omitempty"`
}

type wirePrimitive struct {
	Positions  view            `json:"positions"`
	Normals    view            `json:"normals"`
	UVs        view            `json:"uvs"`
	Indices    view            `json:"indices"`
	Material   int             `json:"material"`
	Compressed *wireCompressed `json:"compressed,omitempty"`
}

type wireCompressed struct {
	Codec       string     `json:"codec"`
	Level       int        `json:"level"`
	VertexCount int        `json:"vertex_count"`
	IndexCount  int        `json:"index_count"`
	BoundsMin   [3]float32 `json:"bounds_min"`
	BoundsMax   [3]float32 `json:"bounds_max"`
	Data        view       `json:"data"`
}

type wireTexture struct {
	Name   string `json:"name,omitempty"`
	MIME   string `json:"mime,omitempty"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Data   view   `json:"data"`
}

type wireAnimation struct {
	Name     string        `json:"name,omitempty"`
	Channels []wireChannel `json:"channels,omitempty"`
}

type wireChannel struct {
	Node   int    `json:"node"`
	Path   string `json:"path"`
	Stride int    `json:"stride"`
	Times  view   `json:"times"`
	Values view   `json:"values"`
}
