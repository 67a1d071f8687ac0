package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForScoreThresholds(t *testing.T) {
	tests := []struct {
		score int
		want  RiskLevel
	}{
		{0, RiskLevelNone},
		{14, RiskLevelLow},
		{15, RiskLevelMedium},
		{29, RiskLevelMedium},
		{30, RiskLevelHigh},
		{49, RiskLevelHigh},
		{50, RiskLevelCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForScore(tt.score), "score %d", tt.score)
	}
}

func TestRecommendationsAreTiered(t *testing.T) {
	critical := RecommendationsForScore(60)
	assert.Len(t, critical, 3)
	assert.Contains(t, critical[0], "terminate")

	high := RecommendationsForScore(40)
	assert.Len(t, high, 3)
	assert.Contains(t, high[0], "manual review mode")
	// Tiers do not union: the HIGH list carries no CRITICAL actions.
	assert.NotContains(t, high, critical[0])

	medium := RecommendationsForScore(20)
	assert.Len(t, medium, 2)
	assert.Contains(t, medium[0], "decision logs")

	assert.Empty(t, RecommendationsForScore(14))
	assert.Empty(t, RecommendationsForScore(0))
}

func TestRiskLevelAtLeast(t *testing.T) {
	assert.True(t, RiskLevelCritical.AtLeast(RiskLevelHigh))
	assert.True(t, RiskLevelHigh.AtLeast(RiskLevelHigh))
	assert.False(t, RiskLevelMedium.AtLeast(RiskLevelHigh))
	assert.True(t, RiskLevelLow.AtLeast(RiskLevelNone))
}

func TestParseRiskLevel(t *testing.T) {
	level, err := ParseRiskLevel("high")
	assert.NoError(t, err)
	assert.Equal(t, RiskLevelHigh, level)

	level, err = ParseRiskLevel("CRITICAL")
	assert.NoError(t, err)
	assert.Equal(t, RiskLevelCritical, level)

	_, err = ParseRiskLevel("severe")
	assert.Error(t, err)
}
