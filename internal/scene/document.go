// Package scene defines the in-memory scene document the pipeline mutates.
// A Document is opaque to the orchestration layer: transforms mutate it in
// place, the store serializes it, and Clone produces fully independent copies.
package scene

// Document is one loaded scene: meshes, textures, materials, animations and
// the node hierarchy that references them. All references between resources
// are by index so that a deep copy of the struct is a deep copy of the scene.
type Document struct {
	Name       string         `json:"name,omitempty"`
	Meshes     []Mesh         `json:"meshes,omitempty"`
	Textures   []Texture      `json:"textures,omitempty"`
	Materials  []Material     `json:"materials,omitempty"`
	Nodes      []Node         `json:"nodes,omitempty"`
	Animations []Animation    `json:"animations,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Mesh is a named group of primitives.
type Mesh struct {
	Name       string      `json:"name,omitempty"`
	Primitives []Primitive `json:"primitives,omitempty"`
}

// Primitive holds one drawable attribute set. Material is an index into
// Document.Materials, or -1 for none. When Compressed is non-nil the raw
// attribute slices have been replaced by their encoded form and must not be
// read directly.
type Primitive struct {
	Positions []float32 `json:"positions,omitempty"`
	Normals   []float32 `json:"normals,omitempty"`
	UVs       []float32 `json:"uvs,omitempty"`
	Indices   []uint32  `json:"indices,omitempty"`
	Material  int       `json:"material"`

	Compressed *CompressedBlob `json:"compressed,omitempty"`
}

// VertexCount returns the number of vertices in the primitive.
func (p *Primitive) VertexCount() int {
	return len(p.Positions) / 3
}

// CompressedBlob is the encoded form of a primitive's attributes, produced by
// the mesh-compression transform and written verbatim into the container.
type CompressedBlob struct {
	Codec       string  `json:"codec"`
	Level       int     `json:"level"`
	VertexCount int     `json:"vertex_count"`
	IndexCount  int     `json:"index_count"`
	BoundsMin   [3]float32 `json:"bounds_min"`
	BoundsMax   [3]float32 `json:"bounds_max"`
	Data        []byte  `json:"data"`
}

// Texture is an encoded raster image embedded in the scene.
type Texture struct {
	Name   string `json:"name,omitempty"`
	MIME   string `json:"mime,omitempty"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Data   []byte `json:"data,omitempty"`
}

// Material references textures by index (-1 for none).
type Material struct {
	Name         string     `json:"name,omitempty"`
	BaseColor    [4]float32 `json:"base_color"`
	BaseTexture  int        `json:"base_texture"`
	NormalMap    int        `json:"normal_map"`
	Metallic     float32    `json:"metallic"`
	Roughness    float32    `json:"roughness"`
	DoubleSided  bool       `json:"double_sided,omitempty"`
}

// Node is one element of the scene hierarchy. Mesh is an index into
// Document.Meshes, or -1 for a pure grouping node. Children are node indices.
type Node struct {
	Name        string     `json:"name,omitempty"`
	Mesh        int        `json:"mesh"`
	Children    []int      `json:"children,omitempty"`
	Translation [3]float32 `json:"translation"`
	Rotation    [4]float32 `json:"rotation"`
	Scale       [3]float32 `json:"scale"`
}

// Animation is a named set of keyframed channels.
type Animation struct {
	Name     string    `json:"name,omitempty"`
	Channels []Channel `json:"channels,omitempty"`
}

// Channel animates one property path of one node. Times and Values are
// parallel: Values holds len(Times) keyframes of Stride floats each.
type Channel struct {
	Node   int       `json:"node"`
	Path   string    `json:"path"`
	Stride int       `json:"stride"`
	Times  []float32 `json:"times,omitempty"`
	Values []float32 `json:"values,omitempty"`
}

// KeyframeCount returns the number of keyframes in the channel.
func (c *Channel) KeyframeCount() int {
	return len(c.Times)
}
