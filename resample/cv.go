package resample

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/YuminosukeSato/recipes/dataset"
	"github.com/YuminosukeSato/recipes/metrics"
	"github.com/YuminosukeSato/recipes/model"
	"github.com/YuminosukeSato/recipes/pkg/errors"
	"github.com/YuminosukeSato/recipes/pkg/log"
	"github.com/YuminosukeSato/recipes/recipe"
)

// Options controls cross-validation execution.
type Options struct {
	// Parallelism bounds concurrent folds. Zero or negative uses NumCPU.
	Parallelism int
	Logger      *slog.Logger
}

// CrossValidate fits the recipe and a fresh model on each training fold,
// evaluates on the holdout rows, and collects per-fold metrics. The recipe
// is refit from scratch inside every fold, so centering means, scale factors
// and projection bases are computed from training rows only.
//
// A failing fold records its error in the corresponding FoldResult without
// stopping the other folds. Context cancellation stops folds that have not
// started.
func CrossValidate(ctx context.Context, rcp *recipe.Recipe, newModel func() model.Regressor, eval metrics.EvalFunc, ds *dataset.Dataset, splitter Splitter, opts Options) (*Result, error) {
	if ds == nil || ds.Rows() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "resample: CrossValidate")
	}
	if newModel == nil {
		return nil, errors.NewValidationError("newModel", "must not be nil", nil)
	}
	if splitter == nil {
		splitter = NewKFold(5, false, 0)
	}
	limit := opts.Parallelism
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	folds := splitter.Split(ds.Rows())
	results := make([]FoldResult, len(folds))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, fold := range folds {
		i, fold := i, fold
		results[i].Fold = i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			start := time.Now()
			m, err := runFold(rcp, newModel, eval, ds, fold)
			results[i].Metrics = m
			results[i].Err = err
			if err != nil {
				logger.Warn("fold failed",
					slog.Int(log.FoldKey, i),
					log.ErrAttr(err))
				return nil
			}
			logger.Info("fold complete",
				slog.Int(log.FoldKey, i),
				slog.Int(log.RowsKey, len(fold.TestIndices)),
				slog.Int64(log.DurationMsKey, time.Since(start).Milliseconds()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Result{Folds: results}, nil
}

func runFold(rcp *recipe.Recipe, newModel func() model.Regressor, eval metrics.EvalFunc, ds *dataset.Dataset, fold Fold) (m map[string]float64, err error) {
	err = errors.SafeExecute("resample: fold", func() error {
		train, ferr := ds.RowSubset(fold.TrainIndices)
		if ferr != nil {
			return ferr
		}
		test, ferr := ds.RowSubset(fold.TestIndices)
		if ferr != nil {
			return ferr
		}
		t := model.NewTrainer(rcp, newModel())
		if ferr := t.Fit(train); ferr != nil {
			return ferr
		}
		m, ferr = t.EvaluateRows(test, eval, fold.TestIndices)
		return ferr
	})
	return m, err
}
