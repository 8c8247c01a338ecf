package transform

import (
	"context"

	"github.com/quellen/scene-tier-pipeline/internal/scene"
)

// Dedup collapses byte-identical textures and equal materials into one
// instance each, remapping all references. Exporters routinely embed the
// same texture once per material slot; collapsing duplicates before the tier
// fan-out keeps every tier from recompressing the same pixels twice.
type Dedup struct{}

func (Dedup) Kind() Kind { return KindDedup }

func (Dedup) Apply(_ context.Context, doc *scene.Document) error {
	dedupTextures(doc)
	dedupMaterials(doc)
	return nil
}

func dedupTextures(doc *scene.Document) {
	byHash := make(map[string]int)
	remap := make([]int, len(doc.Textures))
	var kept []scene.Texture
	changed := false
	for i, t := range doc.Textures {
		h := scene.HashBytes(t.Data)
		if first, ok := byHash[h]; ok {
			remap[i] = first
			changed = true
			continue
		}
		byHash[h] = len(kept)
		remap[i] = len(kept)
		kept = append(kept, t)
	}
	if !changed {
		return
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

// dedupMaterials runs after texture dedup so materials differing only by
// duplicate texture indices collapse too. Material is a comparable struct,
// so identity is plain equality.
func dedupMaterials(doc *scene.Document) {
	seen := make(map[scene.Material]int)
	remap := make([]int, len(doc.Materials))
	var kept []scene.Material
	changed := false
	for i, m := range doc.Materials {
		key := m
		key.Name = "" // duplicates under different names still collapse
		if first, ok := seen[key]; ok {
			remap[i] = first
			changed = true
			continue
		}
		seen[key] = len(kept)
		remap[i] = len(kept)
		kept = append(kept, m)
	}
	if !changed {
		return
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
