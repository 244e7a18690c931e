// Package recipes provides a declarative, composable preprocessing pipeline
// for tabular data, inspired by the recipe pattern from the R modeling
// ecosystem.
//
// A recipe is built by declaring variable roles and adding preprocessing
// steps with lazy column selectors, then fitting once on training data.
// Fitting estimates every step's statistics in sequence and seals the
// recipe; the fitted recipe applies the identical transformations to new
// data without re-estimating anything.
//
// # Quick Start
//
//	rcp := recipe.New(train, "price")
//	rcp.Add(recipe.Center(recipe.AllNumericPredictors()))
//	rcp.Add(recipe.Scale(recipe.AllNumericPredictors()))
//	rcp.Add(recipe.PCA(recipe.AllNumericPredictors(), 3))
//
//	prepped, err := rcp.FitApply(train)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	testPrepped, err := rcp.Apply(test)
//
// # Packages
//
//   - dataset: typed columnar data with numeric and categorical columns
//   - recipe: roles, selectors, steps, and the recipe state machine
//   - model: regressors and a trainer that pairs a recipe with a model
//   - metrics: regression metrics and evaluation with auxiliary columns
//   - resample: k-fold cross-validation with per-fold recipe refitting
package recipes
