// Package errors provides the error handling and warning system used across
// the recipes library. Errors are structured types carrying the offending
// operation and enough context to diagnose a failed fit or apply, with stack
// traces attached via cockroachdb/errors.
package errors

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================

var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// Default handler logs to standard error.
		log.Printf("recipes-warning: %v\n", w)
	}
	// zerolog sink, set lazily to avoid an import cycle with pkg/log.
	zerologWarnFunc func(warning error)
)

// SetWarningHandler sets the library-wide warning handler. Warnings such as
// ConstantColumnWarning are non-fatal; the handler decides whether they are
// logged, collected, or ignored.
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc routes warnings to a zerolog-backed sink. When set, it
// takes precedence over the plain handler.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// SetZerologLogger wires warnings into the given zerolog logger. Warning types
// implementing zerolog.LogObjectMarshaler are emitted as structured objects.
func SetZerologLogger(logger zerolog.Logger) {
	SetZerologWarnFunc(func(warning error) {
		ev := logger.Warn()
		if obj, ok := warning.(zerolog.LogObjectMarshaler); ok {
			ev.EmbedObject(obj).Msg("recipes warning")
			return
		}
		ev.Err(warning).Msg("recipes warning")
	})
}

// Warn raises a warning through the configured sink.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Warning types
//
// ===========================================================================

// ConstantColumnWarning is raised when a scaling step encounters a column with
// (near-)zero variance and clamps its scale to 1.0 instead of dividing by zero.
type ConstantColumnWarning struct {
	Step   string
	Column string
}

func (w *ConstantColumnWarning) Error() string {
	return fmt.Sprintf("step %q: column %q has zero variance; scale clamped to 1.0", w.Step, w.Column)
}

// MarshalZerologObject adds structured warning fields to a zerolog event.
func (w *ConstantColumnWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("step", w.Step).
		Str("column", w.Column).
		Str("type", "ConstantColumnWarning")
}

// NewConstantColumnWarning creates a new ConstantColumnWarning.
func NewConstantColumnWarning(step, column string) *ConstantColumnWarning {
	return &ConstantColumnWarning{Step: step, Column: column}
}

// UndefinedMetricWarning is raised when an evaluation metric cannot be
// computed meaningfully, e.g. a weighted metric whose weights sum to zero.
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64 // the value reported under this condition
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %f due to %s.", w.Metric, w.Result, w.Condition)
}

// MarshalZerologObject adds structured warning fields to a zerolog event.
func (w *UndefinedMetricWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("metric", w.Metric).
		Str("condition", w.Condition).
		Float64("result", w.Result).
		Str("type", "UndefinedMetricWarning")
}

// NewUndefinedMetricWarning creates a new UndefinedMetricWarning.
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// NotFittedError is returned when Apply, Predict, or Transform is called on a
// recipe, step, or model that has not been fitted.
type NotFittedError struct {
	Name   string
	Method string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("recipes: %s: not fitted yet. Call Fit() before using %s()", e.Name, e.Method)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("name", e.Name).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace.
func NewNotFittedError(name, method string) error {
	err := &NotFittedError{Name: name, Method: method}
	return errors.WithStack(err)
}

// UnknownColumnError is returned when a role assignment or selector refers to
// a column that does not exist in the reference schema.
type UnknownColumnError struct {
	Op     string
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("recipes: %s: unknown column %q", e.Op, e.Column)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *UnknownColumnError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("column", e.Column).
		Str("type", "UnknownColumnError")
}

// NewUnknownColumnError creates an UnknownColumnError with a stack trace.
func NewUnknownColumnError(op, column string) error {
	err := &UnknownColumnError{Op: op, Column: column}
	return errors.WithStack(err)
}

// FitError is returned when a step's fitting computation fails. Fitting halts
// at the first failing step; StepIndex identifies it in append order.
type FitError struct {
	StepIndex int
	StepName  string
	Err       error
}

func (e *FitError) Error() string {
	return fmt.Sprintf("recipes: fit failed at step %d (%s): %v", e.StepIndex, e.StepName, e.Err)
}

func (e *FitError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *FitError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("step_index", e.StepIndex).
		Str("step_name", e.StepName).
		AnErr("cause", e.Err).
		Str("type", "FitError")
}

// NewFitError creates a FitError with a stack trace.
func NewFitError(stepIndex int, stepName string, err error) error {
	fitErr := &FitError{StepIndex: stepIndex, StepName: stepName, Err: err}
	return errors.WithStack(fitErr)
}

// SchemaMismatchError is returned when a dataset handed to Apply lacks a
// column that a fitted step depends on.
type SchemaMismatchError struct {
	Op      string
	Missing []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("recipes: %s: dataset is missing required columns [%s]", e.Op, strings.Join(e.Missing, ", "))
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *SchemaMismatchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Strs("missing", e.Missing).
		Str("type", "SchemaMismatchError")
}

// NewSchemaMismatchError creates a SchemaMismatchError with a stack trace.
func NewSchemaMismatchError(op string, missing []string) error {
	err := &SchemaMismatchError{Op: op, Missing: missing}
	return errors.WithStack(err)
}

// DimensionError is returned when data dimensions differ from what a fitted
// component expects.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns
}

func (e *DimensionError) Error() string {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("recipes: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError is returned when a parameter or builder-state validation
// fails, e.g. appending a step to a recipe that is sealed after fit.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("recipes: validation failed for '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a ValidationError with a stack trace.
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError is returned when an argument value is inappropriate, e.g. a
// selector that resolves to zero columns at fit time.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("recipes: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// NumericalInstabilityError is returned when a fitting computation produces
// NaN or Inf, e.g. a correlation matrix over a degenerate column.
type NumericalInstabilityError struct {
	Operation string
	Values    []float64
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("recipes: numerical instability detected in %s. Values: [%s]", e.Operation, valStr)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *NumericalInstabilityError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Operation).
		Floats64("values", e.Values).
		Str("type", "NumericalInstabilityError")
}

// NewNumericalInstabilityError creates a NumericalInstabilityError with a
// stack trace.
func NewNumericalInstabilityError(operation string, values []float64) error {
	err := &NumericalInstabilityError{Operation: operation, Values: values}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Common error values
//
// ===========================================================================

var (
	// ErrEmptyData is returned when a fit or metric receives no data.
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix is returned when a linear solve hits a singular or
	// ill-conditioned matrix.
	ErrSingularMatrix = New("singular matrix")
)
