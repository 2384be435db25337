package model

import (
	"sort"
)

type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	isLeaf    bool
	value     float64
}

func (n *treeNode) predict(x []float64) float64 {
	for !n.isLeaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// treeBuilder grows one least-squares regression tree on the residuals of a
// boosting stage. Leaf values are Newton steps for the binomial deviance.
type treeBuilder struct {
	x              [][]float64
	residual       []float64
	hessian        []float64
	maxDepth       int
	minSamplesLeaf int
	minSplit       int
}

func (b *treeBuilder) build(indices []int, depth int) *treeNode {
	if depth >= b.maxDepth || len(indices) < b.minSplit {
		return b.leaf(indices)
	}

	feature, threshold, ok := b.bestSplit(indices)
	if !ok {
		return b.leaf(indices)
	}

	var left, right []int
	for _, idx := range indices {
		if b.x[idx][feature] <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      b.build(left, depth+1),
		right:     b.build(right, depth+1),
	}
}

func (b *treeBuilder) leaf(indices []int) *treeNode {
	var num, den float64
	for _, idx := range indices {
		num += b.residual[idx]
		den += b.hessian[idx]
	}
	value := 0.0
	if den > 1e-150 {
		value = num / den
	}
	return &treeNode{isLeaf: true, value: value}
}

// bestSplit maximises the reduction of squared error over every feature and
// every midpoint between consecutive distinct values. Ties keep the first
// candidate found, which makes the tree independent of map order or rng.
func (b *treeBuilder) bestSplit(indices []int) (int, float64, bool) {
	n := len(indices)
	var total float64
	for _, idx := range indices {
		total += b.residual[idx]
	}
	parent := total * total / float64(n)

	bestGain := 1e-12
	bestFeature := -1
	bestThreshold := 0.0

	sorted := make([]int, n)
	numFeatures := len(b.x[indices[0]])
	for f := 0; f < numFeatures; f++ {
		copy(sorted, indices)
		sort.SliceStable(sorted, func(i, j int) bool {
			return b.x[sorted[i]][f] < b.x[sorted[j]][f]
		})

		var leftSum float64
		for i := 0; i < n-1; i++ {
			leftSum += b.residual[sorted[i]]
			leftCount := i + 1
			rightCount := n - leftCount
			if leftCount < b.minSamplesLeaf || rightCount < b.minSamplesLeaf {
				continue
			}
			lo, hi := b.x[sorted[i]][f], b.x[sorted[i+1]][f]
			if lo == hi {
				continue
			}
			rightSum := total - leftSum
			gain := leftSum*leftSum/float64(leftCount) + rightSum*rightSum/float64(rightCount) - parent
			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = lo + (hi-lo)/2
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}
