// Package report renders a human-readable tier summary of a scoring run.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"alert-risk/pkg/alert"
	"alert-risk/pkg/pipeline"
	"alert-risk/pkg/scoring"

	"github.com/fatih/color"
	"github.com/montanaflynn/stats"
)

// ScoreStats describe one score column. Valid is false for an empty run.
type ScoreStats struct {
	Valid  bool
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	P95    float64
}

type TierSummary struct {
	Column string
	Counts map[scoring.Tier]int
	Stats  ScoreStats
}

type Summary struct {
	Rows  int
	Rule  TierSummary
	Blend *TierSummary

	// First and Last bound the timestamps that parse; HasSpan is false when
	// none do.
	First   time.Time
	Last    time.Time
	HasSpan bool
}

func Summarize(outcome *pipeline.Outcome) (Summary, error) {
	s := Summary{Rows: len(outcome.Results)}

	rule, err := summarizeColumn(pipeline.ColRuleRisk, outcome.Results,
		func(r *pipeline.Result) (float64, scoring.Tier) { return r.RuleScore, r.RuleRisk })
	if err != nil {
		return Summary{}, err
	}
	s.Rule = rule

	if outcome.Blended {
		blend, err := summarizeColumn(pipeline.ColBlendRisk, outcome.Results,
			func(r *pipeline.Result) (float64, scoring.Tier) { return r.BlendScore, r.BlendRisk })
		if err != nil {
			return Summary{}, err
		}
		s.Blend = &blend
	}

	if outcome.Dataset != nil {
		s.First, s.Last, s.HasSpan = outcome.Dataset.TimeSpan()
	}
	return s, nil
}

func summarizeColumn(column string, results []pipeline.Result, pick func(*pipeline.Result) (float64, scoring.Tier)) (TierSummary, error) {
	ts := TierSummary{
		Column: column,
		Counts: make(map[scoring.Tier]int, len(scoring.Tiers)),
	}
	if len(results) == 0 {
		return ts, nil
	}

	scores := make([]float64, len(results))
	for i := range results {
		score, tier := pick(&results[i])
		scores[i] = score
		ts.Counts[tier]++
	}

	var err error
	if ts.Stats.Min, err = stats.Min(scores); err != nil {
		return ts, fmt.Errorf("%s min: %w", column, err)
	}
	if ts.Stats.Max, err = stats.Max(scores); err != nil {
		return ts, fmt.Errorf("%s max: %w", column, err)
	}
	if ts.Stats.Mean, err = stats.Mean(scores); err != nil {
		return ts, fmt.Errorf("%s mean: %w", column, err)
	}
	if ts.Stats.Median, err = stats.Median(scores); err != nil {
		return ts, fmt.Errorf("%s median: %w", column, err)
	}
	if ts.Stats.P95, err = stats.Percentile(scores, 95); err != nil {
		return ts, fmt.Errorf("%s p95: %w", column, err)
	}
	ts.Stats.Valid = true
	return ts, nil
}

// Render writes the summary. Tier names are coloured only when colorize is
// set, whatever the terminal.
func (s Summary) Render(w io.Writer, colorize bool) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Risk summary: %d alerts", s.Rows))
	if s.HasSpan {
		sb.WriteString(fmt.Sprintf(", %s to %s (%s)",
			s.First.Format(alert.TimestampLayout), s.Last.Format(alert.TimestampLayout), s.Last.Sub(s.First)))
	}
	sb.WriteString("\n")

	writeTierSummary(&sb, s.Rule, s.Rows, colorize)
	if s.Blend != nil {
		writeTierSummary(&sb, *s.Blend, s.Rows, colorize)
	}
	fmt.Fprint(w, sb.String())
}

func writeTierSummary(sb *strings.Builder, ts TierSummary, rows int, colorize bool) {
	sb.WriteString(fmt.Sprintf("\n%s:\n", ts.Column))
	for i := len(scoring.Tiers) - 1; i >= 0; i-- {
		tier := scoring.Tiers[i]
		count := ts.Counts[tier]
		pct := 0.0
		if rows > 0 {
			pct = float64(count) / float64(rows) * 100
		}
		label := fmt.Sprintf("%-6s", tier)
		sb.WriteString(fmt.Sprintf("  %s %6d  (%5.1f%%)\n", tierColor(tier, colorize)(label), count, pct))
	}
	if ts.Stats.Valid {
		sb.WriteString(fmt.Sprintf("  score min %.3f  mean %.3f  median %.3f  p95 %.3f  max %.3f\n",
			ts.Stats.Min, ts.Stats.Mean, ts.Stats.Median, ts.Stats.P95, ts.Stats.Max))
	}
}

func tierColor(tier scoring.Tier, colorize bool) func(a ...interface{}) string {
	var c *color.Color
	switch tier {
	case scoring.TierHigh:
		c = color.New(color.FgRed, color.Bold)
	case scoring.TierMedium:
		c = color.New(color.FgYellow)
	default:
		c = color.New(color.FgGreen)
	}
	if colorize {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.SprintFunc()
}

// Print summarizes outcome and renders it to w.
func Print(w io.Writer, outcome *pipeline.Outcome, colorize bool) error {
	s, err := Summarize(outcome)
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	s.Render(w, colorize)
	return nil
}
