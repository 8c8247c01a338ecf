package transform

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/klauspost/compress/zstd"

	"github.com/quellen/scene-tier-pipeline/internal/scene"
)

// CompressMesh replaces every primitive's raw attributes with a quantized,
// entropy-coded blob: positions quantized to 16 bits inside the primitive
// bounds, normals to 8 bits, UVs to 16 bits inside their own bounds, indices
// kept as 32-bit, the whole payload zstd-compressed. Level 1-10 maps onto
// the encoder's speed/ratio presets.
type CompressMesh struct {
	Level int
}

const meshCodec = "quant+zstd"

func (CompressMesh) Kind() Kind { return KindCompressMesh }

func (cm CompressMesh) Apply(_ context.Context, doc *scene.Document) error {
	if cm.Level < 1 || cm.Level > 10 {
		return fmt.Errorf("invalid compression level %d", cm.Level)
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(encoderLevel(cm.Level)))
	if err != nil {
		return fmt.Errorf("init encoder: %w", err)
	}
	defer enc.Close()

	for mi := range doc.Meshes {
		m := &doc.Meshes[mi]
		for pi := range m.Primitives {
			p := &m.Primitives[pi]
			if p.Compressed != nil {
				continue // already compressed
			}
			if err := compressPrimitive(p, enc, cm.Level); err != nil {
				return fmt.Errorf("mesh %q primitive %d: %w", m.Name, pi, err)
			}
		}
	}
	return nil
}

func encoderLevel(level int) zstd.EncoderLevel {
	switch {
	case level <= 3:
		return zstd.SpeedFastest
	case level <= 6:
		return zstd.SpeedDefault
	case level <= 8:
		return zstd.SpeedBetterCompression
	default:
		return zstd.SpeedBestCompression
	}
}

func compressPrimitive(p *scene.Primitive, enc *zstd.Encoder, level int) error {
	vc := p.VertexCount()
	if vc == 0 {
		return nil
	}
	if len(p.Positions)%3 != 0 {
		return fmt.Errorf("positions length %d not a multiple of 3", len(p.Positions))
	}
	hasNormals := len(p.Normals) == vc*3
	hasUVs := len(p.UVs) == vc*2

	var pmin, pmax [3]float32
	copy(pmin[:], p.Positions[:3])
	copy(pmax[:], p.Positions[:3])
	for i := 1; i < vc; i++ {
		for c := 0; c < 3; c++ {
			v := p.Positions[i*3+c]
			if v < pmin[c] {
				pmin[c] = v
			}
			if v > pmax[c] {
				pmax[c] = v
			}
		}
	}

	var umin, umax [2]float32
	if hasUVs {
		copy(umin[:], p.UVs[:2])
		copy(umax[:], p.UVs[:2])
		for i := 1; i < vc; i++ {
			for c := 0; c < 2; c++ {
				v := p.UVs[i*2+c]
				if v < umin[c] {
					umin[c] = v
				}
				if v > umax[c] {
					umax[c] = v
				}
			}
		}
	}

	// Payload layout: flags byte, uv bounds, quantized positions, normals,
	// uvs, raw indices. Fixed little-endian throughout.
	payload := make([]byte, 0, 1+16+vc*6+vc*3+vc*4+len(p.Indices)*4)
	var flags byte
	if hasNormals {
		flags |= 1
	}
	if hasUVs {
		flags |= 2
	}
	payload = append(payload, flags)
	for c := 0; c < 2; c++ {
		payload = binary.LittleEndian.AppendUint32(payload, math.Float32bits(umin[c]))
	}
	for c := 0; c < 2; c++ {
		payload = binary.LittleEndian.AppendUint32(payload, math.Float32bits(umax[c]))
	}

	for i := 0; i < vc; i++ {
		for c := 0; c < 3; c++ {
			payload = binary.LittleEndian.AppendUint16(payload, quantize16(p.Positions[i*3+c], pmin[c], pmax[c]))
		}
	}
	if hasNormals {
		for i := 0; i < vc*3; i++ {
			payload = append(payload, quantize8(p.Normals[i]))
		}
	}
	if hasUVs {
		for i := 0; i < vc; i++ {
			for c := 0; c < 2; c++ {
				payload = binary.LittleEndian.AppendUint16(payload, quantize16(p.UVs[i*2+c], umin[c], umax[c]))
			}
		}
	}
	for _, ix := range p.Indices {
		payload = binary.LittleEndian.AppendUint32(payload, ix)
	}

	p.Compressed = &scene.CompressedBlob{
		Codec:       meshCodec,
		Level:       level,
		VertexCount: vc,
		IndexCount:  len(p.Indices),
		BoundsMin:   pmin,
		BoundsMax:   pmax,
		Data:        enc.EncodeAll(payload, nil),
	}
	p.Positions = nil
	p.Normals = nil
	p.UVs = nil
	p.Indices = nil
	return nil
}

// DecompressPrimitive reconstructs the raw attributes of a compressed
// primitive, within quantization error. Viewers and tests use it; the
// pipeline itself writes the compressed form through untouched.
func DecompressPrimitive(p *scene.Primitive) error {
	blob := p.Compressed
	if blob == nil {
		return nil
	}
	if blob.Codec != meshCodec {
		return fmt.Errorf("unknown codec %q", blob.Codec)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return fmt.Errorf("init decoder: %w", err)
	}
	defer dec.Close()
	payload, err := dec.DecodeAll(blob.Data, nil)
	if err != nil {
		return fmt.Errorf("decompress: %w", err)
	}

	vc := blob.VertexCount
	if len(payload) < 17 {
		return fmt.Errorf("payload truncated: %d bytes", len(payload))
	}
	flags := payload[0]
	hasNormals := flags&1 != 0
	hasUVs := flags&2 != 0

	want := 17 + vc*6
	if hasNormals {
		want += vc * 3
	}
	if hasUVs {
		want += vc * 4
	}
	want += blob.IndexCount * 4
	if len(payload) != want {
		return fmt.Errorf("payload is %d bytes, want %d", len(payload), want)
	}

	var umin, umax [2]float32
	for c := 0; c < 2; c++ {
		umin[c] = math.Float32frombits(binary.LittleEndian.Uint32(payload[1+4*c:]))
		umax[c] = math.Float32frombits(binary.LittleEndian.Uint32(payload[9+4*c:]))
	}
	off := 17

	p.Positions = make([]float32, vc*3)
	for i := 0; i < vc; i++ {
		for c := 0; c < 3; c++ {
			q := binary.LittleEndian.Uint16(payload[off:])
			p.Positions[i*3+c] = dequantize16(q, blob.BoundsMin[c], blob.BoundsMax[c])
			off += 2
		}
	}
	if hasNormals {
		p.Normals = make([]float32, vc*3)
		for i := range p.Normals {
			p.Normals[i] = dequantize8(payload[off])
			off++
		}
	}
	if hasUVs {
		p.UVs = make([]float32, vc*2)
		for i := 0; i < vc; i++ {
			for c := 0; c < 2; c++ {
				q := binary.LittleEndian.Uint16(payload[off:])
				p.UVs[i*2+c] = dequantize16(q, umin[c], umax[c])
				off += 2
			}
		}
	}
	p.Indices = make([]uint32, blob.IndexCount)
	for i := range p.Indices {
		p.Indices[i] = binary.LittleEndian.Uint32(payload[off:])
		off += 4
	}
	p.Compressed = nil
	return nil
}

func quantize16(v, lo, hi float32) uint16 {
	if hi <= lo {
		return 0
	}
	q := (v - lo) / (hi - lo) * 65535
	if q < 0 {
		q = 0
	}
	if q > 65535 {
		q = 65535
	}
	return uint16(q + 0.5)
}

func dequantize16(q uint16, lo, hi float32) float32 {
	return lo + float32(q)/65535*(hi-lo)
}

func quantize8(v float32) byte {
	q := (v*0.5 + 0.5) * 255
	if q < 0 {
		q = 0
	}
	if q > 255 {
		q = 255
	}
	return byte(q + 0.5)
}

func dequantize8(q byte) float32 {
	return float32(q)/255*2 - 1
}
