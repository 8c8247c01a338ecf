package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quellen/scene-tier-pipeline/internal/transform"
	"github.com/quellen/scene-tier-pipeline/pkg/tier"
)

func TestBuildSequenceOrdering(t *testing.T) {
	tests := []struct {
		name string
		tier tier.Tier
		want []transform.Kind
	}{
		{
			name: "full sequence",
			tier: tier.Tier{Name: "low", SimplifyRatio: 0.2, TextureSize: 512, MeshCompression: true},
			want: []transform.Kind{transform.KindTexture, transform.KindSimplify, transform.KindCompressMesh},
		},
		{
			name: "ratio one omits simplification",
			tier: tier.Tier{Name: "ultra", SimplifyRatio: 1.0, TextureSize: 4096, MeshCompression: false},
			want: []transform.Kind{transform.KindTexture},
		},
		{
			name: "no mesh compression omits compress step",
			tier: tier.Tier{Name: "high", SimplifyRatio: 0.8, TextureSize: 2048, MeshCompression: false},
			want: []transform.Kind{transform.KindTexture, transform.KindSimplify},
		},
		{
			name: "compression without simplification",
			tier: tier.Tier{Name: "archive", SimplifyRatio: 1.0, TextureSize: 1024, MeshCompression: true},
			want: []transform.Kind{transform.KindTexture, transform.KindCompressMesh},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq := BuildSequence(tt.tier, "webp")
			assert.Equal(t, tt.want, seq.Kinds())
		})
	}
}

func TestBuildSequenceTextureParams(t *testing.T) {
	ultra := BuildSequence(tier.Tier{Name: "ultra", SimplifyRatio: 1.0, TextureSize: 4096}, "webp")
	require.NotEmpty(t, ultra)
	step, ok := ultra[0].(transform.TextureRecompress)
	require.True(t, ok)
	assert.Equal(t, 100, step.Quality, "ultra keeps full texture quality")
	assert.Equal(t, 4096, step.MaxWidth)
	assert.Equal(t, 4096, step.MaxHeight)
	assert.Equal(t, "webp", step.Format)

	low := BuildSequence(tier.Tier{Name: "low", SimplifyRatio: 0.2, TextureSize: 512}, "webp")
	step, ok = low[0].(transform.TextureRecompress)
	require.True(t, ok)
	assert.Equal(t, 80, step.Quality)
	assert.Equal(t, 512, step.MaxWidth)
}

func TestBuildSequenceStepParams(t *testing.T) {
	seq := BuildSequence(tier.Tier{Name: "low", SimplifyRatio: 0.2, TextureSize: 512, MeshCompression: true}, "webp")
	require.Len(t, seq, 3)

	simplify, ok := seq[1].(transform.SimplifyGeometry)
	require.True(t, ok)
	assert.Equal(t, 0.2, simplify.Ratio)
	assert.Equal(t, 0.01, simplify.ErrorTolerance)

	compress, ok := seq[2].(transform.CompressMesh)
	require.True(t, ok)
	assert.Equal(t, 7, compress.Level)
}

func TestBuildSequenceIsDeterministic(t *testing.T) {
	rec := tier.Tier{Name: "medium", SimplifyRatio: 0.5, TextureSize: 1024, MeshCompression: true}
	a := BuildSequence(rec, "webp")
	b := BuildSequence(rec, "webp")
	assert.Equal(t, a, b)
}

func TestCleaningSequence(t *testing.T) {
	seq := CleaningSequence()
	assert.Equal(t, []transform.Kind{transform.KindResample, transform.KindPrune, transform.KindDedup}, seq.Kinds())

	resample, ok := seq[0].(transform.Resample)
	require.True(t, ok)
	assert.InDelta(t, 0.001, resample.Tolerance, 1e-9)
}
