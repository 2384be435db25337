// Package scoring implements the weighted rule score, the blend with a
// model probability, and the Low/Medium/High tiering.
package scoring

import (
	"math"

	"alert-risk/pkg/alert"
)

type Tier string

const (
	TierLow    Tier = "Low"
	TierMedium Tier = "Medium"
	TierHigh   Tier = "High"
)

// Tiers lists every tier from lowest to highest.
var Tiers = []Tier{TierLow, TierMedium, TierHigh}

func (t Tier) String() string { return string(t) }

// Rank orders tiers: Low < Medium < High.
func (t Tier) Rank() int {
	switch t {
	case TierHigh:
		return 2
	case TierMedium:
		return 1
	}
	return 0
}

// Weights are the per-signal coefficients of the rule score. The sum of the
// weights is 1.2, so a row with every signal saturated scores above 1.
type Weights struct {
	AnomalyScore    float64 `yaml:"anomaly_score"`
	OffHours        float64 `yaml:"off_hours"`
	FailedLogins    float64 `yaml:"failed_logins"`
	GeoDistance     float64 `yaml:"geo_distance"`
	ProcInjection   float64 `yaml:"proc_injection"`
	FailedLoginsCap float64 `yaml:"failed_logins_cap"`
	GeoDistanceCap  float64 `yaml:"geo_distance_cap_km"`
}

func DefaultWeights() Weights {
	return Weights{
		AnomalyScore:    0.60,
		OffHours:        0.15,
		FailedLogins:    0.10,
		GeoDistance:     0.10,
		ProcInjection:   0.25,
		FailedLoginsCap: 10,
		GeoDistanceCap:  5000,
	}
}

// Thresholds are strict lower bounds: a score equal to a bound falls into
// the tier below it.
type Thresholds struct {
	High   float64 `yaml:"high"`
	Medium float64 `yaml:"medium"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{High: 0.9, Medium: 0.6}
}

// BlendWeights combine the rule score and the model probability.
type BlendWeights struct {
	Rule  float64 `yaml:"rule"`
	Model float64 `yaml:"model"`
}

func DefaultBlendWeights() BlendWeights {
	return BlendWeights{Rule: 0.6, Model: 0.4}
}

type Scorer struct {
	Weights    Weights
	Thresholds Thresholds
	Blend      BlendWeights
}

func NewScorer() *Scorer {
	return &Scorer{
		Weights:    DefaultWeights(),
		Thresholds: DefaultThresholds(),
		Blend:      DefaultBlendWeights(),
	}
}

// RuleScore is not clamped.
func (s *Scorer) RuleScore(a *alert.Alert) float64 {
	w := s.Weights
	score := w.AnomalyScore * a.AnomalyScore
	score += w.OffHours * a.OffHours
	score += w.FailedLogins * saturate(a.FailedLogins24h, w.FailedLoginsCap)
	score += w.GeoDistance * saturate(a.GeoDistanceKm, w.GeoDistanceCap)
	score += w.ProcInjection * a.ProcInjectionFlag
	return score
}

func (s *Scorer) Tier(score float64) Tier {
	if score > s.Thresholds.High {
		return TierHigh
	}
	if score > s.Thresholds.Medium {
		return TierMedium
	}
	return TierLow
}

func (s *Scorer) BlendScore(ruleScore, modelProb float64) float64 {
	return s.Blend.Rule*ruleScore + s.Blend.Model*modelProb
}

var defaultScorer = NewScorer()

// RuleScore scores with the default weights.
func RuleScore(a *alert.Alert) float64 {
	return defaultScorer.RuleScore(a)
}

// TierOf tiers with the default thresholds.
func TierOf(score float64) Tier {
	return defaultScorer.Tier(score)
}

// Blend combines with the default 0.6 / 0.4 weights.
func Blend(ruleScore, modelProb float64) float64 {
	return defaultScorer.BlendScore(ruleScore, modelProb)
}

// saturate returns min(v/limit, 1); a non-positive limit disables the signal.
func saturate(v, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	return math.Min(v/limit, 1)
}
