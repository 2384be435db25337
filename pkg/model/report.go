package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
)

type ClassMetrics struct {
	Label     int
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

type Report struct {
	Classes     []ClassMetrics
	Accuracy    float64
	MacroAvg    ClassMetrics
	WeightedAvg ClassMetrics
	Total       int
}

// Evaluate computes per-class precision, recall and F1 over the labels seen
// in either slice. Undefined ratios (no predictions, no support) are 0.
func Evaluate(yTrue, yPred []int) (Report, error) {
	if len(yTrue) != len(yPred) {
		return Report{}, fmt.Errorf("true labels (%d) and predictions (%d) differ", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return Report{}, fmt.Errorf("%w: nothing to evaluate", ErrNotEnoughRows)
	}

	seen := make(map[int]bool)
	for i := range yTrue {
		seen[yTrue[i]] = true
		seen[yPred[i]] = true
	}
	labels := make([]int, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Ints(labels)

	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}

	report := Report{
		Accuracy: float64(correct) / float64(len(yTrue)),
		Total:    len(yTrue),
	}

	var precisions, recalls, f1s []float64
	var weightedP, weightedR, weightedF float64
	for _, label := range labels {
		var tp, fp, fn int
		for i := range yTrue {
			switch {
			case yPred[i] == label && yTrue[i] == label:
				tp++
			case yPred[i] == label:
				fp++
			case yTrue[i] == label:
				fn++
			}
		}
		m := ClassMetrics{
			Label:     label,
			Precision: ratio(tp, tp+fp),
			Recall:    ratio(tp, tp+fn),
			Support:   tp + fn,
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		report.Classes = append(report.Classes, m)

		precisions = append(precisions, m.Precision)
		recalls = append(recalls, m.Recall)
		f1s = append(f1s, m.F1)
		w := float64(m.Support) / float64(report.Total)
		weightedP += w * m.Precision
		weightedR += w * m.Recall
		weightedF += w * m.F1
	}

	report.MacroAvg = ClassMetrics{Label: -1, Support: report.Total}
	report.MacroAvg.Precision, _ = stats.Mean(precisions)
	report.MacroAvg.Recall, _ = stats.Mean(recalls)
	report.MacroAvg.F1, _ = stats.Mean(f1s)
	report.WeightedAvg = ClassMetrics{
		Label:     -1,
		Precision: weightedP,
		Recall:    weightedR,
		F1:        weightedF,
		Support:   report.Total,
	}
	return report, nil
}

// Class returns the metrics for one label.
func (r Report) Class(label int) (ClassMetrics, bool) {
	for _, m := range r.Classes {
		if m.Label == label {
			return m, true
		}
	}
	return ClassMetrics{}, false
}

// Format renders the report as an aligned text table.
func (r Report) Format(digits int) string {
	const avgHeading = "weighted avg"
	width := len(avgHeading)
	for _, m := range r.Classes {
		if l := len(strconv.Itoa(m.Label)); l > width {
			width = l
		}
	}
	if digits > width {
		width = digits
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%*s  %9s %9s %9s %9s\n\n", width, "", "precision", "recall", "f1-score", "support")

	row := func(name string, m ClassMetrics) {
		fmt.Fprintf(&sb, "%*s  %9.*f %9.*f %9.*f %9d\n",
			width, name, digits, m.Precision, digits, m.Recall, digits, m.F1, m.Support)
	}
	for _, m := range r.Classes {
		row(strconv.Itoa(m.Label), m)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%*s  %9s %9s %9.*f %9d\n", width, "accuracy", "", "", digits, r.Accuracy, r.Total)
	row("macro avg", r.MacroAvg)
	row(avgHeading, r.WeightedAvg)
	return sb.String()
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
