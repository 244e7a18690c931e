package resample

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// FoldResult holds the outcome of one fold: the evaluated metrics for the
// holdout rows, or the error that stopped the fold.
type FoldResult struct {
	Fold    int
	Metrics map[string]float64
	Err     error
}

// Result aggregates per-fold metrics across a cross-validation run.
type Result struct {
	Folds []FoldResult
}

// Mean returns the mean of a metric over the folds that produced it.
// The second return is false when no fold reported the metric.
func (r *Result) Mean(metric string) (float64, bool) {
	sum, n := 0.0, 0
	for _, f := range r.Folds {
		if f.Err != nil {
			continue
		}
		if v, ok := f.Metrics[metric]; ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Std returns the population standard deviation of a metric over the folds
// that produced it.
func (r *Result) Std(metric string) (float64, bool) {
	mean, ok := r.Mean(metric)
	if !ok {
		return 0, false
	}
	sum, n := 0.0, 0
	for _, f := range r.Folds {
		if f.Err != nil {
			continue
		}
		if v, ok := f.Metrics[metric]; ok {
			d := v - mean
			sum += d * d
			n++
		}
	}
	return math.Sqrt(sum / float64(n)), true
}

// FirstErr returns the error of the first failed fold, or nil when every
// fold completed.
func (r *Result) FirstErr() error {
	for _, f := range r.Folds {
		if f.Err != nil {
			return f.Err
		}
	}
	return nil
}

// MetricNames returns the sorted union of metric names across folds.
func (r *Result) MetricNames() []string {
	seen := make(map[string]bool)
	for _, f := range r.Folds {
		for name := range f.Metrics {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String renders mean and standard deviation per metric.
func (r *Result) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CV(folds=%d)", len(r.Folds))
	for _, name := range r.MetricNames() {
		mean, ok := r.Mean(name)
		if !ok {
			continue
		}
		std, _ := r.Std(name)
		fmt.Fprintf(&b, " %s=%.4f±%.4f", name, mean, std)
	}
	if err := r.FirstErr(); err != nil {
		fmt.Fprintf(&b, " err=%v", err)
	}
	return b.String()
}
