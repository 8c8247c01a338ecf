package sceneio

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/quellen/scene-tier-pipeline/internal/scene"
)

// binWriter accumulates the binary chunk and hands out views into it.
// Payloads are 4-byte aligned so float and uint32 ranges decode without
// copying on aligned readers.
type binWriter struct {
	buf bytes.Buffer
}

func (w *binWriter) align() {
	for w.buf.Len()%4 != 0 {
		w.buf.WriteByte(0)
	}
}

func (w *binWriter) putBytes(b []byte) view {
	if len(b) == 0 {
		return view{}
	}
	w.align()
	v := view{Offset: uint32(w.buf.Len()), Length: uint32(len(b))}
	w.buf.Write(b)
	return v
}

func (w *binWriter) putFloats(f []float32) view {
	if len(f) == 0 {
		return view{}
	}
	b := make([]byte, 4*len(f))
	for i, x := range f {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(x))
	}
	return w.putBytes(b)
}

func (w *binWriter) putUints(u []uint32) view {
	if len(u) == 0 {
		return view{}
	}
	b := make([]byte, 4*len(u))
	for i, x := range u {
		binary.LittleEndian.PutUint32(b[4*i:], x)
	}
	return w.putBytes(b)
}

// Write serializes the document to w in container format.
func Write(w io.Writer, doc *scene.Document) error {
	var bin binWriter

	wd := wireDocument{
		Name:       doc.Name,
		Materials:  doc.Materials,
		Nodes:      doc.Nodes,
		Extensions: doc.Extensions,
	}

	for _, m := range doc.Meshes {
		wm := wireMesh{Name: m.Name}
		for _, p := range m.Primitives {
			wp := wirePrimitive{
				Positions: bin.putFloats(p.Positions),
				Normals:   bin.putFloats(p.Normals),
				UVs:       bin.putFloats(p.UVs),
				Indices:   bin.putUints(p.Indices),
				Material:  p.Material,
			}
			if p.Compressed != nil {
				wp.Compressed = &wireCompressed{
					Codec:       p.Compressed.Codec,
					Level:       p.Compressed.Level,
					VertexCount: p.Compressed.VertexCount,
					IndexCount:  p.Compressed.IndexCount,
					BoundsMin:   p.Compressed.BoundsMin,
					BoundsMax:   p.Compressed.BoundsMax,
					Data:        bin.putBytes(p.Compressed.Data),
				}
			}
			wm.Primitives = append(wm.Primitives, wp)
		}
		wd.Meshes = append(wd.Meshes, wm)
	}

	for _, t := range doc.Textures {
		wd.Textures = append(wd.Textures, wireTexture{
			Name:   t.Name,
			MIME:   t.MIME,
			Width:  t.Width,
			Height: t.Height,
			Data:   bin.putBytes(t.Data),
		})
	}

	for _, a := range doc.Animations {
		wa := wireAnimation{Name: a.Name}
		for _, c := range a.Channels {
			wa.Channels = append(wa.Channels, wireChannel{
				Node:   c.Node,
				Path:   c.Path,
				Stride: c.Stride,
				Times:  bin.putFloats(c.Times),
				Values: bin.putFloats(c.Values),
			})
		}
		wd.Animations = append(wd.Animations, wa)
	}

	jsonChunk, err := json.Marshal(&wd)
	if err != nil {
		return fmt.Errorf("encode structure chunk: %w", err)
	}

	header := make([]byte, 16)
	copy(header, Magic)
	binary.LittleEndian.PutUint32(header[4:], Version)
	binary.LittleEndian.PutUint32(header[8:], uint32(len(jsonChunk)))
	binary.LittleEndian.PutUint32(header[12:], uint32(bin.buf.Len()))

	if _, err := w.Write(header); err != nil {
		return err
	}
	if _, err := w.Write(jsonChunk); err != nil {
		return err
	}
	if _, err := w.Write(bin.buf.Bytes()); err != nil {
		return err
	}
	return nil
}
