package transform

import (
	"context"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/quellen/scene-tier-pipeline/internal/scene"
)

// SimplifyGeometry reduces each primitive to roughly Ratio of its vertex
// count by clustering vertices on a uniform grid and collapsing each cluster
// to its centroid. A primitive is left untouched when clustering would move
// a vertex further than ErrorTolerance times the primitive's bounding-box
// diagonal.
type SimplifyGeometry struct {
	Ratio          float64
	ErrorTolerance float64
}

func (SimplifyGeometry) Kind() Kind { return KindSimplify }

func (s SimplifyGeometry) Apply(_ context.Context, doc *scene.Document) error {
	if s.Ratio <= 0 || s.Ratio > 1 {
		return fmt.Errorf("invalid ratio %g", s.Ratio)
	}
	if s.Ratio == 1 {
		return nil
	}
	for mi := range doc.Meshes {
		m := &doc.Meshes[mi]
		for pi := range m.Primitives {
			p := &m.Primitives[pi]
			if p.Compressed != nil {
				return fmt.Errorf("mesh %q primitive %d: cannot simplify compressed geometry", m.Name, pi)
			}
			if err := simplifyPrimitive(p, float32(s.Ratio), float32(s.ErrorTolerance)); err != nil {
				return fmt.Errorf("mesh %q primitive %d: %w", m.Name, pi, err)
			}
		}
	}
	return nil
}

func simplifyPrimitive(p *scene.Primitive, ratio, tolerance float32) error {
	vc := p.VertexCount()
	if len(p.Positions)%3 != 0 {
		return fmt.Errorf("positions length %d not a multiple of 3", len(p.Positions))
	}
	if vc < 8 {
		return nil
	}
	for _, ix := range p.Indices {
		if int(ix) >= vc {
			return fmt.Errorf("index %d out of range for %d vertices", ix, vc)
		}
	}
	hasNormals := len(p.Normals) == vc*3
	hasUVs := len(p.UVs) == vc*2

	var min, max [3]float32
	copy(min[:], p.Positions[:3])
	copy(max[:], p.Positions[:3])
	for i := 1; i < vc; i++ {
		for c := 0; c < 3; c++ {
			v := p.Positions[i*3+c]
			if v < min[c] {
				min[c] = v
			}
			if v > max[c] {
				max[c] = v
			}
		}
	}
	dx, dy, dz := max[0]-min[0], max[1]-min[1], max[2]-min[2]
	diag := math32.Sqrt(dx*dx + dy*dy + dz*dz)
	if diag == 0 {
		return nil
	}

	target := int(math32.Ceil(float32(vc) * ratio))
	if target < 4 {
		target = 4
	}
	// Grid resolution from the target count: a cube of res^3 cells holds
	// about one surviving vertex per occupied cell.
	res := int(math32.Cbrt(float32(target)))
	if res < 1 {
		res = 1
	}

	cellOf := func(i int) [3]int {
		var cell [3]int
		ext := [3]float32{dx, dy, dz}
		for c := 0; c < 3; c++ {
			if ext[c] == 0 {
				continue
			}
			k := int(float32(res) * (p.Positions[i*3+c] - min[c]) / ext[c])
			if k >= res {
				k = res - 1
			}
			cell[c] = k
		}
		return cell
	}

	clusterOf := make([]int, vc)
	clusters := make(map[[3]int]int)
	var order [][3]int
	for i := 0; i < vc; i++ {
		cell := cellOf(i)
		ci, ok := clusters[cell]
		if !ok {
			ci = len(order)
			clusters[cell] = ci
			order = append(order, cell)
		}
		clusterOf[i] = ci
	}
	nc := len(order)
	if nc >= vc {
		return nil
	}

	positions := make([]float32, nc*3)
	counts := make([]float32, nc)
	var normals, uvs []float32
	if hasNormals {
		normals = make([]float32, nc*3)
	}
	if hasUVs {
		uvs = make([]float32, nc*2)
	}
	for i := 0; i < vc; i++ {
		ci := clusterOf[i]
		counts[ci]++
		for c := 0; c < 3; c++ {
			positions[ci*3+c] += p.Positions[i*3+c]
		}
		if hasNormals {
			for c := 0; c < 3; c++ {
				normals[ci*3+c] += p.Normals[i*3+c]
			}
		}
		if hasUVs {
			for c := 0; c < 2; c++ {
				uvs[ci*2+c] += p.UVs[i*2+c]
			}
		}
	}
	for ci := 0; ci < nc; ci++ {
		for c := 0; c < 3; c++ {
			positions[ci*3+c] /= counts[ci]
		}
		if hasUVs {
			for c := 0; c < 2; c++ {
				uvs[ci*2+c] /= counts[ci]
			}
		}
		if hasNormals {
			nx, ny, nz := normals[ci*3], normals[ci*3+1], normals[ci*3+2]
			l := math32.Sqrt(nx*nx + ny*ny + nz*nz)
			if l > 0 {
				normals[ci*3] = nx / l
				normals[ci*3+1] = ny / l
				normals[ci*3+2] = nz / l
			}
		}
	}

	// Error bound: geometric deviation from the original surface, as a
	// fraction of the bounding-box diagonal. With normals available the
	// deviation is the displacement projected onto the vertex normal, so
	// collapsing coplanar vertices costs nothing; without them the full
	// euclidean displacement is charged.
	maxErr := tolerance * diag
	for i := 0; i < vc; i++ {
		ci := clusterOf[i]
		ex := p.Positions[i*3] - positions[ci*3]
		ey := p.Positions[i*3+1] - positions[ci*3+1]
		ez := p.Positions[i*3+2] - positions[ci*3+2]
		var err float32
		if hasNormals {
			err = math32.Abs(ex*p.Normals[i*3] + ey*p.Normals[i*3+1] + ez*p.Normals[i*3+2])
		} else {
			err = math32.Sqrt(ex*ex + ey*ey + ez*ez)
		}
		if err > maxErr {
			return nil // over tolerance, keep the original geometry
		}
	}

	var indices []uint32
	for i := 0; i+2 < len(p.Indices); i += 3 {
		a := clusterOf[p.Indices[i]]
		b := clusterOf[p.Indices[i+1]]
		c := clusterOf[p.Indices[i+2]]
		if a == b || b == c || a == c {
			continue // collapsed triangle
		}
		indices = append(indices, uint32(a), uint32(b), uint32(c))
	}

	p.Positions = positions
	p.Normals = normals
	p.UVs = uvs
	p.Indices = indices
	return nil
}
