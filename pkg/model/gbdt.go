// Package model implements the in-process probabilistic classifier used to
// blend with rule scores: gradient-boosted regression trees on the binomial
// deviance, plus the seeded train/test split and evaluation report.
package model

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrSingleClass   = errors.New("training labels contain a single class")
	ErrNotEnoughRows = errors.New("not enough rows")
	ErrNotFitted     = errors.New("classifier is not fitted")
)

type Config struct {
	NumStages       int     `yaml:"stages"`
	LearningRate    float64 `yaml:"learning_rate"`
	MaxDepth        int     `yaml:"max_depth"`
	MinSamplesSplit int     `yaml:"min_samples_split"`
	MinSamplesLeaf  int     `yaml:"min_samples_leaf"`
	RandomSeed      int64   `yaml:"seed"`
	TestFraction    float64 `yaml:"test_fraction"`
}

func DefaultConfig() Config {
	return Config{
		NumStages:       100,
		LearningRate:    0.1,
		MaxDepth:        3,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		RandomSeed:      42,
		TestFraction:    0.3,
	}
}

type Classifier struct {
	config      Config
	initRaw     float64
	trees       []*treeNode
	numFeatures int
}

func NewClassifier(config Config) *Classifier {
	def := DefaultConfig()
	if config.NumStages <= 0 {
		config.NumStages = def.NumStages
	}
	if config.LearningRate <= 0 {
		config.LearningRate = def.LearningRate
	}
	if config.MaxDepth <= 0 {
		config.MaxDepth = def.MaxDepth
	}
	if config.MinSamplesSplit < 2 {
		config.MinSamplesSplit = def.MinSamplesSplit
	}
	if config.MinSamplesLeaf < 1 {
		config.MinSamplesLeaf = def.MinSamplesLeaf
	}
	return &Classifier{config: config}
}

func (c *Classifier) Fit(x [][]float64, y []int) error {
	if len(x) != len(y) {
		return fmt.Errorf("feature rows (%d) and labels (%d) differ", len(x), len(y))
	}
	if len(x) < 2 {
		return fmt.Errorf("%w: need at least 2 training rows, got %d", ErrNotEnoughRows, len(x))
	}
	numFeatures := len(x[0])
	for i, row := range x {
		if len(row) != numFeatures {
			return fmt.Errorf("row %d has %d features, want %d", i, len(row), numFeatures)
		}
	}

	positives := 0
	for i, label := range y {
		switch label {
		case 0:
		case 1:
			positives++
		default:
			return fmt.Errorf("row %d: label must be 0 or 1, got %d", i, label)
		}
	}
	if positives == 0 || positives == len(y) {
		return ErrSingleClass
	}

	n := len(x)
	prior := float64(positives) / float64(n)
	c.initRaw = math.Log(prior / (1 - prior))
	c.numFeatures = numFeatures
	c.trees = make([]*treeNode, 0, c.config.NumStages)

	raw := make([]float64, n)
	for i := range raw {
		raw[i] = c.initRaw
	}
	residual := make([]float64, n)
	hessian := make([]float64, n)
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	for stage := 0; stage < c.config.NumStages; stage++ {
		for i := 0; i < n; i++ {
			p := sigmoid(raw[i])
			residual[i] = float64(y[i]) - p
			hessian[i] = p * (1 - p)
		}

		builder := &treeBuilder{
			x:              x,
			residual:       residual,
			hessian:        hessian,
			maxDepth:       c.config.MaxDepth,
			minSamplesLeaf: c.config.MinSamplesLeaf,
			minSplit:       c.config.MinSamplesSplit,
		}
		tree := builder.build(indices, 0)
		c.trees = append(c.trees, tree)

		for i := 0; i < n; i++ {
			raw[i] += c.config.LearningRate * tree.predict(x[i])
		}
	}
	return nil
}

func (c *Classifier) Fitted() bool {
	return c.trees != nil
}

// PredictProba returns P(label=1) for each row.
func (c *Classifier) PredictProba(x [][]float64) ([]float64, error) {
	if !c.Fitted() {
		return nil, ErrNotFitted
	}
	probs := make([]float64, len(x))
	for i, row := range x {
		if len(row) != c.numFeatures {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), c.numFeatures)
		}
		raw := c.initRaw
		for _, tree := range c.trees {
			raw += c.config.LearningRate * tree.predict(row)
		}
		probs[i] = sigmoid(raw)
	}
	return probs, nil
}

// Predict assigns class 1 when P(label=1) > 0.5.
func (c *Classifier) Predict(x [][]float64) ([]int, error) {
	probs, err := c.PredictProba(x)
	if err != nil {
		return nil, err
	}
	labels := make([]int, len(probs))
	for i, p := range probs {
		if p > 0.5 {
			labels[i] = 1
		}
	}
	return labels, nil
}

func sigmoid(v float64) float64 {
	if v >= 0 {
		return 1 / (1 + math.Exp(-v))
	}
	e := math.Exp(v)
	return e / (1 + e)
}
