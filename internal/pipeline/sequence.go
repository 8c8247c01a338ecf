package pipeline

import (
	"github.com/quellen/scene-tier-pipeline/internal/transform"
	"github.com/quellen/scene-tier-pipeline/pkg/tier"
)

const (
	// cleanTolerance is the keyframe resampling tolerance of the shared
	// cleanup pass.
	cleanTolerance = 0.001

	// simplifyTolerance bounds the geometric error of tier simplification,
	// as a fraction of the bounding-box diagonal.
	simplifyTolerance = 0.01

	// meshCompressionLevel is the fixed level of the mesh-compress step.
	meshCompressionLevel = 7

	// Texture quality: the ultra tier keeps full quality, everything else
	// drops to 80.
	textureQualityUltra   = 100
	textureQualityDefault = 80
)

// CleaningSequence is the fixed, tier-independent cleanup applied once to
// each file's baseline before any tier branches: strip redundant keyframes,
// drop unreferenced resources, collapse duplicates. Running this per tier
// would be redundant work and could diverge across tiers.
func CleaningSequence() transform.Sequence {
	return transform.Sequence{
		transform.Resample{Tolerance: cleanTolerance},
		transform.Prune{},
		transform.Dedup{},
	}
}

// BuildSequence constructs a tier's transform sequence from its record. Pure
// function, no side effects. The order is load-bearing: texture work first
// (independent of topology), then geometry simplification (fewer vertices to
// compress), then mesh compression last so it encodes the final geometry.
func BuildSequence(t tier.Tier, textureFormat string) transform.Sequence {
	quality := textureQualityDefault
	if t.Name == tier.NameUltra {
		quality = textureQualityUltra
	}
	seq := transform.Sequence{
		transform.TextureRecompress{
			Format:    textureFormat,
			MaxWidth:  t.TextureSize,
			MaxHeight: t.TextureSize,
			Quality:   quality,
		},
	}
	if t.SimplifyRatio < 1.0 {
		seq = append(seq, transform.SimplifyGeometry{
			Ratio:          t.SimplifyRatio,
			ErrorTolerance: simplifyTolerance,
		})
	}
	if t.MeshCompression {
		seq = append(seq, transform.CompressMesh{Level: meshCompressionLevel})
	}
	return seq
}
