// Package pipeline runs one scoring pass over an alert file: rule scores and
// tiers for every row, an optional blend with a fitted classifier, and the
// scored output file.
package pipeline

import (
	"fmt"
	"io"
	"os"

	"alert-risk/pkg/alert"
	"alert-risk/pkg/logger"
	"alert-risk/pkg/model"
	"alert-risk/pkg/scoring"
)

const DefaultOutPath = "results.csv"

type Options struct {
	DataPath  string
	OutPath   string
	Train     bool
	Score     bool
	RulesOnly bool
}

// BlendEnabled reports whether the classifier stage runs for these options.
func (o Options) BlendEnabled() bool {
	return (o.Train || o.Score) && !o.RulesOnly
}

func (o Options) GetOutPath() string {
	if o.OutPath == "" {
		return DefaultOutPath
	}
	return o.OutPath
}

// Result is one scored row. The model fields are only meaningful when the
// owning Outcome is Blended.
type Result struct {
	Alert      *alert.Alert
	RuleScore  float64
	RuleRisk   scoring.Tier
	MLProb     float64
	BlendScore float64
	BlendRisk  scoring.Tier
}

type Outcome struct {
	Dataset *alert.Dataset
	Results []Result
	Blended bool
	Report  *model.Report
	// Written is the output path, empty when no file was written.
	Written string
}

type Pipeline struct {
	scorer      *scoring.Scorer
	modelConfig model.Config
	stdout      io.Writer
}

func New(scorer *scoring.Scorer, modelConfig model.Config) *Pipeline {
	if scorer == nil {
		scorer = scoring.NewScorer()
	}
	if modelConfig.TestFraction == 0 {
		modelConfig.TestFraction = model.DefaultConfig().TestFraction
	}
	return &Pipeline{
		scorer:      scorer,
		modelConfig: modelConfig,
		stdout:      os.Stdout,
	}
}

// SetOutput redirects the report and status lines, stdout by default.
func (p *Pipeline) SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	p.stdout = w
}

// Run loads opts.DataPath and scores it. Load and write failures are
// returned; classifier failures are logged and the run stays rule-only.
func (p *Pipeline) Run(opts Options) (*Outcome, error) {
	ds, err := alert.Load(opts.DataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load alerts: %w", err)
	}
	logger.Infof("Loaded %d alerts from %s", ds.Len(), opts.DataPath)

	outcome := &Outcome{
		Dataset: ds,
		Results: ScoreRules(p.scorer, ds),
	}

	if opts.BlendEnabled() {
		report, err := p.blend(ds, outcome.Results)
		if err != nil {
			logger.Warnf("falling back to rules only: %v", err)
		} else {
			outcome.Blended = true
			outcome.Report = report
		}
	} else if opts.RulesOnly {
		logger.Debug("Classifier stage disabled")
	}

	if opts.Score {
		path := opts.GetOutPath()
		if err := WriteResults(path, outcome.Results, outcome.Blended); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		outcome.Written = path
		fmt.Fprintf(p.stdout, "Wrote %s with risk scores.\n", path)
	}
	return outcome, nil
}

// ScoreRules computes the rule score and tier of every row.
func ScoreRules(scorer *scoring.Scorer, ds *alert.Dataset) []Result {
	results := make([]Result, ds.Len())
	for i := range ds.Alerts {
		a := &ds.Alerts[i]
		score := scorer.RuleScore(a)
		results[i] = Result{
			Alert:     a,
			RuleScore: score,
			RuleRisk:  scorer.Tier(score),
		}
	}
	return results
}

// blend fits the classifier on a seeded split, prints its evaluation on the
// held-out rows and fills the model fields of results. results is left
// untouched on error.
func (p *Pipeline) blend(ds *alert.Dataset, results []Result) (*model.Report, error) {
	y, err := ds.Labels()
	if err != nil {
		return nil, err
	}
	x := ds.Features()

	split, err := model.TrainTestSplit(len(x), p.modelConfig.TestFraction, p.modelConfig.RandomSeed)
	if err != nil {
		return nil, err
	}
	logger.Debugf("Split %d rows into %d train / %d test", len(x), len(split.Train), len(split.Test))

	clf := model.NewClassifier(p.modelConfig)
	if err := clf.Fit(model.SelectRows(x, split.Train), model.SelectLabels(y, split.Train)); err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}

	yPred, err := clf.Predict(model.SelectRows(x, split.Test))
	if err != nil {
		return nil, err
	}
	report, err := model.Evaluate(model.SelectLabels(y, split.Test), yPred)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(p.stdout, "ML classification report (demo):")
	fmt.Fprintln(p.stdout, report.Format(3))

	probs, err := clf.PredictProba(x)
	if err != nil {
		return nil, err
	}
	for i := range results {
		r := &results[i]
		r.MLProb = probs[i]
		r.BlendScore = p.scorer.BlendScore(r.RuleScore, probs[i])
		r.BlendRisk = p.scorer.Tier(r.BlendScore)
	}
	return &report, nil
}
