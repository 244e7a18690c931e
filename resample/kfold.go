// Package resample provides k-fold resampling over datasets with per-fold
// recipe refitting, so preprocessing statistics never leak from a holdout
// into its training fold.
package resample

import (
	"math/rand/v2"
)

// Fold is one train/holdout split of row indices.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// Splitter generates train/holdout splits over n rows.
type Splitter interface {
	Split(nSamples int) []Fold
	NSplits() int
}

// KFold is a k-fold splitter with optional seeded shuffling.
type KFold struct {
	K       int
	Shuffle bool
	Seed    int
}

// NewKFold creates a k-fold splitter. Fewer than 2 splits defaults to 5.
func NewKFold(k int, shuffle bool, seed int) *KFold {
	if k < 2 {
		k = 5
	}
	return &KFold{K: k, Shuffle: shuffle, Seed: seed}
}

// NSplits returns the number of folds.
func (kf *KFold) NSplits() int {
	return kf.K
}

// Split generates train/holdout indices for each fold. With Shuffle set, the
// permutation is drawn from a PCG generator seeded with Seed, so splits are
// reproducible.
func (kf *KFold) Split(nSamples int) []Fold {
	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}

	if kf.Shuffle {
		r := rand.New(rand.NewPCG(uint64(kf.Seed), uint64(kf.Seed)))
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]Fold, kf.K)
	foldSize := nSamples / kf.K
	remainder := nSamples % kf.K

	current := 0
	for i := 0; i < kf.K; i++ {
		testSize := foldSize
		if i < remainder {
			testSize++
		}

		test := make([]int, testSize)
		copy(test, indices[current:current+testSize])

		train := make([]int, 0, nSamples-testSize)
		train = append(train, indices[:current]...)
		train = append(train, indices[current+testSize:]...)

		folds[i] = Fold{TrainIndices: train, TestIndices: test}
		current += testSize
	}
	return folds
}
