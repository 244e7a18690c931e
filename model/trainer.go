package model

import (
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/recipes/dataset"
	"github.com/YuminosukeSato/recipes/metrics"
	"github.com/YuminosukeSato/recipes/pkg/errors"
	"github.com/YuminosukeSato/recipes/pkg/log"
	"github.com/YuminosukeSato/recipes/recipe"
)

// Trainer connects a recipe to a Regressor. Fit refits an unfitted clone of
// the recipe on the training data (the prototype recipe is never mutated),
// then builds the model matrix from the numeric predictor-role columns of the
// transformed data. Columns tagged auxiliary or case-weight ride along
// through the transformation but are never part of the model matrix; they are
// exposed only to evaluation functions.
type Trainer struct {
	proto *recipe.Recipe
	model Regressor

	fitted     *recipe.Recipe
	predictors []string
	outcome    string
	logger     *slog.Logger
}

// NewTrainer creates a trainer over a recipe prototype and a regressor.
func NewTrainer(rcp *recipe.Recipe, m Regressor) *Trainer {
	return &Trainer{
		proto:  rcp,
		model:  m,
		logger: slog.Default().With(log.ComponentKey, "model"),
	}
}

// Fit prepares the training data through a fresh recipe fit and trains the
// model on the predictor matrix and outcome vector.
func (t *Trainer) Fit(ds *dataset.Dataset) error {
	rcp := t.proto.Unfitted()
	prepped, err := rcp.FitApply(ds)
	if err != nil {
		return err
	}

	schema, err := rcp.FinalSchema()
	if err != nil {
		return err
	}
	predictors := numericPredictors(schema)
	if len(predictors) == 0 {
		return errors.NewValueError("Trainer.Fit", "no numeric predictor columns after preprocessing")
	}

	outcome := rcp.Outcome()
	if outcome == "" {
		return errors.NewValueError("Trainer.Fit", "recipe has no outcome column")
	}

	X, err := prepped.Matrix(predictors)
	if err != nil {
		return err
	}
	rows, cols := X.Dims()
	if err := errors.CheckMatrix("Trainer.Fit", X, rows, cols); err != nil {
		return err
	}
	y, err := prepped.Vector(outcome)
	if err != nil {
		return err
	}

	if err := t.model.Fit(X, y); err != nil {
		return err
	}

	t.fitted = rcp
	t.predictors = predictors
	t.outcome = outcome
	t.logger.Info("model trained",
		log.OperationKey, log.OperationFit,
		log.RowsKey, rows,
		log.PredictorsKey, cols,
	)
	return nil
}

// Recipe returns the fold-fitted recipe, available after Fit.
func (t *Trainer) Recipe() (*recipe.Recipe, error) {
	if t.fitted == nil {
		return nil, errors.NewNotFittedError("Trainer", "Recipe")
	}
	return t.fitted, nil
}

// Predict applies the fitted recipe to new data and predicts from the
// resulting predictor matrix.
func (t *Trainer) Predict(ds *dataset.Dataset) (*mat.VecDense, error) {
	prepped, err := t.prep(ds)
	if err != nil {
		return nil, err
	}
	return t.predictPrepped(prepped)
}

// Evaluate predicts on new data and scores the predictions with eval,
// passing auxiliary-role columns and case weights through Extras. Row keys
// are positional indices into ds.
func (t *Trainer) Evaluate(ds *dataset.Dataset, eval metrics.EvalFunc) (map[string]float64, error) {
	return t.EvaluateRows(ds, eval, nil)
}

// EvaluateRows is Evaluate with explicit original row indices for the Extras
// (used by resampling, where ds is a row subset of a larger dataset). A nil
// rows slice means positional indices.
func (t *Trainer) EvaluateRows(ds *dataset.Dataset, eval metrics.EvalFunc, rows []int) (map[string]float64, error) {
	prepped, err := t.prep(ds)
	if err != nil {
		return nil, err
	}
	yPred, err := t.predictPrepped(prepped)
	if err != nil {
		return nil, err
	}
	yTrue, err := prepped.Vector(t.outcome)
	if err != nil {
		return nil, err
	}
	if rows != nil && len(rows) != prepped.Rows() {
		return nil, errors.NewDimensionError("Trainer.EvaluateRows", prepped.Rows(), len(rows), 0)
	}

	extras, err := extrasFor(t.fitted, prepped, rows)
	if err != nil {
		return nil, err
	}
	return eval(yTrue, yPred, extras)
}

// prep applies the fitted recipe.
func (t *Trainer) prep(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if t.fitted == nil {
		return nil, errors.NewNotFittedError("Trainer", "Predict")
	}
	return t.fitted.Apply(ds)
}

// predictPrepped predicts from already-transformed data.
func (t *Trainer) predictPrepped(prepped *dataset.Dataset) (*mat.VecDense, error) {
	if missing := missingFrom(prepped, t.predictors); len(missing) > 0 {
		return nil, errors.NewSchemaMismatchError("Trainer.Predict", missing)
	}
	X, err := prepped.Matrix(t.predictors)
	if err != nil {
		return nil, err
	}
	pred, err := t.model.Predict(X)
	if err != nil {
		return nil, err
	}

	r, _ := pred.Dims()
	out := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		out.SetVec(i, pred.At(i, 0))
	}
	return out, nil
}

// numericPredictors returns the numeric predictor-role columns of a schema,
// in schema order.
func numericPredictors(schema recipe.Schema) []string {
	var out []string
	for _, c := range schema {
		if c.Role == recipe.RolePredictor && c.Type == dataset.Numeric {
			out = append(out, c.Name)
		}
	}
	return out
}

// missingFrom lists required columns absent from the dataset.
func missingFrom(ds *dataset.Dataset, required []string) []string {
	var missing []string
	for _, name := range required {
		if !ds.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// extrasFor collects auxiliary columns and case weights from transformed
// data, aligned with the given original row indices.
func extrasFor(rcp *recipe.Recipe, prepped *dataset.Dataset, rows []int) (*metrics.Extras, error) {
	if rows == nil {
		rows = make([]int, prepped.Rows())
		for i := range rows {
			rows[i] = i
		}
	}

	extras := &metrics.Extras{
		Rows:    rows,
		Columns: make(map[string][]float64),
	}
	for _, name := range rcp.ColumnsWithRole(recipe.RoleAuxiliary) {
		c, err := prepped.Column(name)
		if err != nil {
			return nil, err
		}
		if c.Type != dataset.Numeric {
			continue
		}
		values := make([]float64, len(c.Float))
		copy(values, c.Float)
		extras.Columns[name] = values
	}
	if weightCols := rcp.ColumnsWithRole(recipe.RoleCaseWeight); len(weightCols) > 0 {
		c, err := prepped.Column(weightCols[0])
		if err != nil {
			return nil, err
		}
		extras.Weights = make([]float64, len(c.Float))
		copy(extras.Weights, c.Float)
	}
	return extras, nil
}
