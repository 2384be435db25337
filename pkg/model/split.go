package model

import (
	"fmt"
	"math"
	"math/rand"
)

// Split holds row indices into the full dataset.
type Split struct {
	Train []int
	Test  []int
}

// TrainTestSplit shuffles 0..n-1 with a seeded source and takes the first
// ceil(testFraction*n) indices as the test partition. The same n, fraction
// and seed always give the same partitions.
func TrainTestSplit(n int, testFraction float64, seed int64) (Split, error) {
	if testFraction <= 0 || testFraction >= 1 {
		return Split{}, fmt.Errorf("test fraction must be in (0, 1), got %v", testFraction)
	}
	if n < 2 {
		return Split{}, fmt.Errorf("%w: need at least 2 rows to split, got %d", ErrNotEnoughRows, n)
	}

	numTest := int(math.Ceil(testFraction * float64(n)))
	numTrain := n - numTest
	if numTest == 0 || numTrain == 0 {
		return Split{}, fmt.Errorf("%w: %d rows leave an empty partition", ErrNotEnoughRows, n)
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(n)
	return Split{
		Train: perm[numTest:],
		Test:  perm[:numTest],
	}, nil
}

func SelectRows(x [][]float64, indices []int) [][]float64 {
	out := make([][]float64, len(indices))
	for i, idx := range indices {
		out[i] = x[idx]
	}
	return out
}

func SelectLabels(y []int, indices []int) []int {
	out := make([]int, len(indices))
	for i, idx := range indices {
		out[i] = y[idx]
	}
	return out
}
