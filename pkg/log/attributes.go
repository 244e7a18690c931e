// Standard attribute keys for preprocessing operations. Keys follow a
// hierarchical naming convention (e.g. "step.name", "data.rows") so log
// output can be filtered per component.

package log

// Recipe and step context.
const (
	// RecipeIDKey identifies a recipe instance across fit/apply calls.
	RecipeIDKey = "recipe.id"

	// StepNameKey identifies the transformation kind of a step.
	// Examples: "center", "scale", "nzv", "corr", "pca"
	StepNameKey = "step.name"

	// StepIndexKey is the step's position in append order.
	StepIndexKey = "step.index"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "apply", "fit_apply", "predict", "evaluate"
	OperationKey = "op"

	// ComponentKey identifies the package performing the operation.
	// Examples: "recipe", "model", "resample"
	ComponentKey = "component"
)

// Data shape.
const (
	// RowsKey is the number of rows in the dataset being processed.
	RowsKey = "data.rows"

	// ColumnsKey is the number of columns in the dataset being processed.
	ColumnsKey = "data.columns"

	// ColumnsInKey and ColumnsOutKey record a step's column counts before and
	// after apply, making filter and projection steps visible in logs.
	ColumnsInKey  = "step.columns_in"
	ColumnsOutKey = "step.columns_out"

	// SelectedKey is the number of columns a step's selector resolved to.
	SelectedKey = "step.selected"

	// PredictorsKey is the number of predictor-role columns in a model matrix.
	PredictorsKey = "data.predictors"
)

// Resampling context.
const (
	// FoldKey is the fold index within a resampling run.
	FoldKey = "resample.fold"

	// FoldsKey is the total number of folds.
	FoldsKey = "resample.folds"

	// SeedKey records the shuffle seed for reproducibility.
	SeedKey = "resample.seed"
)

// Performance and metrics.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// MetricKey and MetricValueKey record a single evaluation result.
	MetricKey      = "metric.name"
	MetricValueKey = "metric.value"
)

// Standard operation values.
const (
	OperationFit      = "fit"
	OperationApply    = "apply"
	OperationFitApply = "fit_apply"
	OperationPredict  = "predict"
	OperationEvaluate = "evaluate"
)
