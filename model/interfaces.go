// Package model provides the trainer adapter that connects a fitted recipe
// to a pluggable learning algorithm, and a least-squares reference regressor.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Regressor is the interface a learning algorithm must satisfy to be driven
// by the Trainer. X is the model matrix of predictor columns; y is a single
// outcome column. Implementations external to this module (gradient boosting,
// SVMs, ...) plug in here.
type Regressor interface {
	// Fit trains the model.
	Fit(X, y mat.Matrix) error

	// Predict returns an n x 1 matrix of predictions.
	Predict(X mat.Matrix) (mat.Matrix, error)
}
