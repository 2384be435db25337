package scoring

import (
	"math/rand"
	"sort"
	"testing"

	"alert-risk/pkg/alert"

	"github.com/stretchr/testify/assert"
)

func TestRuleScore(t *testing.T) {
	tests := []struct {
		name  string
		alert alert.Alert
		want  float64
		tier  Tier
	}{
		{
			name: "every signal saturated",
			alert: alert.Alert{
				AnomalyScore:      1.0,
				OffHours:          1,
				FailedLogins24h:   20,
				GeoDistanceKm:     10000,
				ProcInjectionFlag: 1,
			},
			want: 1.2,
			tier: TierHigh,
		},
		{
			name:  "all zero",
			alert: alert.Alert{},
			want:  0,
			tier:  TierLow,
		},
		{
			name: "partial saturation",
			alert: alert.Alert{
				AnomalyScore:    0.5,
				FailedLogins24h: 5,
				GeoDistanceKm:   2500,
			},
			want: 0.3 + 0.05 + 0.05,
			tier: TierLow,
		},
		{
			name: "anomaly and off hours",
			alert: alert.Alert{
				AnomalyScore: 0.8,
				OffHours:     1,
			},
			want: 0.48 + 0.15,
			tier: TierMedium,
		},
		{
			name: "injection pushes to high",
			alert: alert.Alert{
				AnomalyScore:      0.9,
				OffHours:          1,
				ProcInjectionFlag: 1,
			},
			want: 0.54 + 0.15 + 0.25,
			tier: TierHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RuleScore(&tt.alert)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.Equal(t, tt.tier, TierOf(got))
		})
	}
}

func TestRuleScoreIsDeterministic(t *testing.T) {
	a := alert.Alert{AnomalyScore: 0.37, OffHours: 1, FailedLogins24h: 3, GeoDistanceKm: 812.5}
	first := RuleScore(&a)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, RuleScore(&a))
	}
}

func TestTierBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  Tier
	}{
		{-1, TierLow},
		{0, TierLow},
		{0.6, TierLow},
		{0.6000001, TierMedium},
		{0.9, TierMedium},
		{0.9000001, TierHigh},
		{1.2, TierHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TierOf(tt.score), "score %v", tt.score)
	}
}

func TestTierIsMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	scores := make([]float64, 1000)
	for i := range scores {
		scores[i] = rng.Float64() * 1.3
	}
	scores = append(scores, 0.6, 0.9)
	sort.Float64s(scores)

	prev := TierOf(scores[0])
	for _, s := range scores[1:] {
		cur := TierOf(s)
		assert.GreaterOrEqual(t, cur.Rank(), prev.Rank(), "tier decreased at %v", s)
		prev = cur
	}
}

func TestBlend(t *testing.T) {
	blend := Blend(0.5, 1.0)
	assert.InDelta(t, 0.7, blend, 1e-9)
	assert.Equal(t, TierMedium, TierOf(blend))

	assert.InDelta(t, 0.0, Blend(0, 0), 1e-12)
	assert.InDelta(t, 1.12, Blend(1.2, 1.0), 1e-9)
}

func TestScorerCustomWeights(t *testing.T) {
	s := NewScorer()
	s.Weights.GeoDistanceCap = 0
	s.Thresholds = Thresholds{High: 0.5, Medium: 0.2}

	a := alert.Alert{AnomalyScore: 0.5, GeoDistanceKm: 99999}
	score := s.RuleScore(&a)
	assert.InDelta(t, 0.3, score, 1e-9)
	assert.Equal(t, TierMedium, s.Tier(score))
}

func TestTierRankOrder(t *testing.T) {
	for i := 1; i < len(Tiers); i++ {
		assert.Greater(t, Tiers[i].Rank(), Tiers[i-1].Rank())
	}
	assert.Equal(t, "Medium", TierMedium.String())
}
