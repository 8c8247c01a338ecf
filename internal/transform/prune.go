package transform

import (
	"context"

	"github.com/quellen/scene-tier-pipeline/internal/scene"
)

// Prune removes resources nothing references: meshes no node draws,
// materials no surviving primitive uses, textures no surviving material
// samples. Animation channels targeting removed nodes are dropped too.
// Indices are remapped so the document stays self-consistent.
type Prune struct{}

func (Prune) Kind() Kind { return KindPrune }

func (Prune) Apply(_ context.Context, doc *scene.Document) error {
	pruneMeshes(doc)
	pruneMaterials(doc)
	pruneTextures(doc)
	pruneChannels(doc)
	return nil
}

// pruneMeshes keeps meshes referenced by at least one node. A document with
// no node hierarchy is treated as mesh-only and left alone.
func pruneMeshes(doc *scene.Document) {
	if len(doc.Nodes) == 0 {
		return
	}
	used := make([]bool, len(doc.Meshes))
	for _, n := range doc.Nodes {
		if n.Mesh >= 0 && n.Mesh < len(doc.Meshes) {
			used[n.Mesh] = true
		}
	}
	remap := compact(used)
	if remap == nil {
		return
	}
	kept := doc.Meshes[:0]
	for i, m := range doc.Meshes {
		if used[i] {
			kept = append(kept, m)
		}
	}
	doc.Meshes = kept
	for ni := range doc.Nodes {
		if m := doc.Nodes[ni].Mesh; m >= 0 && m < len(remap) {
			doc.Nodes[ni].Mesh = remap[m]
		}
	}
}

func pruneMaterials(doc *scene.Document) {
	used := make([]bool, len(doc.Materials))
	for _, m := range doc.Meshes {
		for _, p := range m.Primitives {
			if p.Material >= 0 && p.Material < len(used) {
				used[p.Material] = true
			}
		}
	}
	remap := compact(used)
	if remap == nil {
		return
	}
	kept := doc.Materials[:0]
	for i, m := range doc.Materials {
		if used[i] {
			kept = append(kept, m)
		}
	}
	doc.Materials = kept
	for mi := range doc.Meshes {
		for pi := range doc.Meshes[mi].Primitives {
			p := &doc.Meshes[mi].Primitives[pi]
			if p.Material >= 0 && p.Material < len(remap) {
				p.Material = remap[p.Material]
			}
		}
	}
}

func pruneTextures(doc *scene.Document) {
	used := make([]bool, len(doc.Textures))
	mark := func(i int) {
		if i >= 0 && i < len(used) {
			used[i] = true
		}
	}
	for _, m := range doc.Materials {
		mark(m.BaseTexture)
		mark(m.NormalMap)
	}
	remap := compact(used)
	if remap == nil {
		return
	}
	kept := doc.Textures[:0]
	for i, t := range doc.Textures {
		if used[i] {
			kept = append(kept, t)
		}
	}
	doc.Textures = kept
	for mi := range doc.Materials {
		m := &doc.Materials[mi]
		if m.BaseTexture >= 0 && m.BaseTexture < len(remap) {
			m.BaseTexture = remap[m.BaseTexture]
		}
		if m.NormalMap >= 0 && m.NormalMap < len(remap) {
			m.NormalMap = remap[m.NormalMap]
		}
	}
}

func pruneChannels(doc *scene.Document) {
	for ai := range doc.Animations {
		a := &doc.Animations[ai]
		kept := a.Channels[:0]
		for _, c := range a.Channels {
			if c.Node >= 0 && c.Node < len(doc.Nodes) {
				kept = append(kept, c)
			}
		}
		a.Channels = kept
	}
}

// compact builds an old-index to new-index map for the kept entries, or nil
// when everything is kept.
func compact(used []bool) []int {
	all := true
	for _, u := range used {
		if !u {
			all = false
			break
		}
	}
	if all {
		return nil
	}
	remap := make([]int, len(used))
	next := 0
	for i, u := range used {
		if u {
			remap[i] = next
			next++
		} else {
			remap[i] = -1
		}
	}
	return remap
}
