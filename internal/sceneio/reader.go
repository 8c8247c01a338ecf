package sceneio

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/quellen/scene-tier-pipeline/internal/scene"
)

// ErrNotContainer is returned when the input does not start with the scene
// container magic.
var ErrNotContainer = errors.New("not a scene container")

// binReader resolves views against the binary chunk with bounds checking.
type binReader struct {
	data []byte
}

func (r *binReader) bytes(v view) ([]byte, error) {
	if v.empty() {
		return nil, nil
	}
	end := uint64(v.Offset) + uint64(v.Length)
	if end > uint64(len(r.data)) {
		return nil, fmt.Errorf("view [%d,%d) exceeds binary chunk of %d bytes", v.Offset, end, len(r.data))
	}
	out := make([]byte, v.Length)
	copy(out, r.data[v.Offset:end])
	return out, nil
}

func (r *binReader) floats(v view) ([]float32, error) {
	b, err := r.bytes(v)
	if err != nil {
		return nil, err
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("float view length %d not a multiple of 4", len(b))
	}
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return out, nil
}

func (r *binReader) uints(v view) ([]uint32, error) {
	b, err := r.bytes(v)
	if err != nil {
		return nil, err
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("uint view length %d not a multiple of 4", len(b))
	}
	out := make([]uint32, len(b)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b[4*i:])
	}
	return out, nil
}

// Read parses a full scene container from r.
func Read(r io.Reader) (*scene.Document, error) {
	header := make([]byte, 16)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if string(header[:4]) != Magic {
		return nil, ErrNotContainer
	}
	if v := binary.LittleEndian.Uint32(header[4:]); v != Version {
		return nil, fmt.Errorf("unsupported container version %d", v)
	}

	jsonLen := binary.LittleEndian.Uint32(header[8:])
	binLen := binary.LittleEndian.Uint32(header[12:])

	jsonChunk := make([]byte, jsonLen)
	if _, err := io.ReadFull(r, jsonChunk); err != nil {
		return nil, fmt.Errorf("read structure chunk: %w", err)
	}
	binChunk := make([]byte, binLen)
	if _, err := io.ReadFull(r, binChunk); err != nil {
		return nil, fmt.Errorf("read binary chunk: %w", err)
	}

	var wd wireDocument
	if err := json.Unmarshal(jsonChunk, &wd); err != nil {
		return nil, fmt.Errorf("decode structure chunk: %w", err)
	}

	bin := &binReader{data: binChunk}
	doc := &scene.Document{
		Name:       wd.Name,
		Materials:  wd.Materials,
		Nodes:      wd.Nodes,
		Extensions: wd.Extensions,
	}

	for _, wm := range wd.Meshes {
		m := scene.Mesh{Name: wm.Name}
		for _, wp := range wm.Primitives {
			p := scene.Primitive{Material: wp.Material}
			var err error
			if p.Positions, err = bin.floats(wp.Positions); err != nil {
				return nil, fmt.Errorf("mesh %q positions: %w", wm.Name, err)
			}
			if p.Normals, err = bin.floats(wp.Normals); err != nil {
				return nil, fmt.Errorf("mesh %q normals: %w", wm.Name, err)
			}
			if p.UVs, err = bin.floats(wp.UVs); err != nil {
				return nil, fmt.Errorf("mesh %q uvs: %w", wm.Name, err)
			}
			if p.Indices, err = bin.uints(wp.Indices); err != nil {
				return nil, fmt.Errorf("mesh %q indices: %w", wm.Name, err)
			}
			if wp.Compressed != nil {
				data, err := bin.bytes(wp.Compressed.Data)
				if err != nil {
					return nil, fmt.Errorf("mesh %q compressed data: %w", wm.Name, err)
				}
				p.Compressed = &scene.CompressedBlob{
					Codec:       wp.Compressed.Codec,
					Level:       wp.Compressed.Level,
					VertexCount: wp.Compressed.VertexCount,
					IndexCount:  wp.Compressed.IndexCount,
					BoundsMin:   wp.Compressed.BoundsMin,
					BoundsMax:   wp.Compressed.BoundsMax,
					Data:        data,
				}
			}
			m.Primitives = append(m.Primitives, p)
		}
		doc.Meshes = append(doc.Meshes, m)
	}

	for _, wt := range wd.Textures {
		data, err := bin.bytes(wt.Data)
		if err != nil {
			return nil, fmt.Errorf("texture %q: %w", wt.Name, err)
		}
		doc.Textures = append(doc.Textures, scene.Texture{
			Name:   wt.Name,
			MIME:   wt.MIME,
			Width:  wt.Width,
			Height: wt.Height,
			Data:   data,
		})
	}

	for _, wa := range wd.Animations {
		a := scene.Animation{Name: wa.Name}
		for _, wc := range wa.Channels {
			c := scene.Channel{Node: wc.Node, Path: wc.Path, Stride: wc.Stride}
			var err error
			if c.Times, err = bin.floats(wc.Times); err != nil {
				return nil, fmt.Errorf("animation %q times: %w", wa.Name, err)
			}
			if c.Values, err = bin.floats(wc.Values); err != nil {
				return nil, fmt.Errorf("animation %q values: %w", wa.Name, err)
			}
			a.Channels = append(a.Channels, c)
		}
		doc.Animations = append(doc.Animations, a)
	}

	return doc, nil
}
