package tier

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierValidate(t *testing.T) {
	tests := []struct {
		name    string
		tier    Tier
		wantErr bool
	}{
		{name: "valid", tier: Tier{Name: "high", SimplifyRatio: 0.8, TextureSize: 2048}},
		{name: "ratio one is valid", tier: Tier{Name: "ultra", SimplifyRatio: 1.0, TextureSize: 4096}},
		{name: "missing name", tier: Tier{SimplifyRatio: 0.5, TextureSize: 512}, wantErr: true},
		{name: "zero ratio", tier: Tier{Name: "x", SimplifyRatio: 0, TextureSize: 512}, wantErr: true},
		{name: "ratio above one", tier: Tier{Name: "x", SimplifyRatio: 1.2, TextureSize: 512}, wantErr: true},
		{name: "zero texture size", tier: Tier{Name: "x", SimplifyRatio: 0.5, TextureSize: 0}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tier.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRunReportCounts(t *testing.T) {
	boom := errors.New("boom")
	report := RunReport{
		Files: []FileResult{
			{
				InputPath: "a.scn",
				Status:    StatusSucceeded,
				Tiers: []TierResult{
					{Tier: "ultra", Status: StatusSucceeded, OutputPath: "a_ultra.scn"},
					{Tier: "low", Status: StatusSucceeded, OutputPath: "a_low.scn"},
				},
			},
			{
				InputPath: "b.scn",
				Status:    StatusFailed,
				Tiers: []TierResult{
					{Tier: "ultra", Status: StatusSucceeded, OutputPath: "b_ultra.scn"},
					{Tier: "low", Status: StatusFailed, Err: boom},
				},
			},
			{InputPath: "c.scn", Status: StatusFailed, Err: boom},
		},
	}

	assert.Equal(t, 3, report.OutputCount())
	assert.Equal(t, 2, report.FailureCount())

	failures := report.Failures()
	assert.Len(t, failures, 2)
	assert.Equal(t, "b.scn", failures[0].File)
	assert.Equal(t, "low", failures[0].Tier)
	assert.Equal(t, "c.scn", failures[1].File)
	assert.Empty(t, failures[1].Tier)
}
