// Package recipe implements a declarative, composable preprocessing pipeline
// with typed variable roles and deferred execution. A recipe is declared
// against a reference dataset, built up incrementally from steps, fit exactly
// once against training data, and then applied any number of times to the
// same or new data using the stored fitted state.
package recipe

import (
	"log/slog"
	"time"

	"github.com/YuminosukeSato/recipes/dataset"
	"github.com/YuminosukeSato/recipes/pkg/errors"
	"github.com/YuminosukeSato/recipes/pkg/log"
)

// Recipe is an ordered sequence of steps plus a role registry. Lifecycle:
// constructed against a reference dataset, steps appended in order, fit once
// (Unfit -> Fitting -> Fitted), then applied repeatedly. A fitted recipe is
// sealed; rebuild with Unfitted().
type Recipe struct {
	roles  *RoleMap
	ref    Schema
	steps  []Step
	state  *stateManager
	final  Schema
	logger *slog.Logger
}

// New declares a recipe against a reference dataset with one designated
// outcome column; every other column defaults to the predictor role.
func New(ds *dataset.Dataset, outcome string) (*Recipe, error) {
	roles, err := newRoleMap(ds.Names(), outcome)
	if err != nil {
		return nil, err
	}
	r := &Recipe{
		roles:  roles,
		state:  newStateManager(),
		logger: slog.Default().With(log.ComponentKey, "recipe"),
	}
	r.ref = snapshotSchema(ds, roles.Role)
	return r, nil
}

// SetRole reassigns a column's role. Reassignment before fit changes how
// selectors resolve at the next fit; reassignment after fit has no effect on
// the already-fitted pipeline, whose behavior is frozen by its fit-time
// snapshot (pick up new roles by rebuilding with Unfitted and refitting).
func (r *Recipe) SetRole(column string, role Role) error {
	if err := r.roles.Set(column, role); err != nil {
		return err
	}
	for i := range r.ref {
		if r.ref[i].Name == column {
			r.ref[i].Role = role
		} else if role == RoleOutcome && r.ref[i].Role == RoleOutcome {
			r.ref[i].Role = RolePredictor
		}
	}
	return nil
}

// Add appends steps in order. Appending to a fitted recipe fails with a
// ValidationError; the step sequence is sealed after fit.
func (r *Recipe) Add(steps ...Step) error {
	if err := r.state.requireUnfit("Recipe.Add", "sealed after fit"); err != nil {
		return err
	}
	r.steps = append(r.steps, steps...)
	return nil
}

// Steps returns the step sequence in append order.
func (r *Recipe) Steps() []Step {
	out := make([]Step, len(r.steps))
	copy(out, r.steps)
	return out
}

// Outcome returns the designated outcome column.
func (r *Recipe) Outcome() string {
	return r.roles.Outcome()
}

// Roles returns the recipe's role registry.
func (r *Recipe) Roles() *RoleMap {
	return r.roles
}

// State returns the lifecycle state.
func (r *Recipe) State() State {
	return r.state.State()
}

// Fit computes every step's fitted state against the training dataset, in
// strict append order; each step is fitted on the output of the previous
// step's apply, so later steps observe columns created or removed by earlier
// ones. Fitting halts at the first failing step with a FitError carrying the
// step index; a selector resolving to zero columns is such a failure, not a
// no-op. A fitted recipe cannot be refit; rebuild with Unfitted().
func (r *Recipe) Fit(ds *dataset.Dataset) error {
	_, err := r.fitApply(ds)
	return err
}

// FitApply fits the recipe and returns the transformed training dataset,
// avoiding a second pass over the data.
func (r *Recipe) FitApply(ds *dataset.Dataset) (*dataset.Dataset, error) {
	return r.fitApply(ds)
}

func (r *Recipe) fitApply(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if err := r.state.beginFit("Recipe.Fit"); err != nil {
		return nil, err
	}
	start := time.Now()

	// Roles evolve with the schema: columns created by steps default to the
	// predictor role, removed columns disappear.
	roleOf := make(map[string]Role, ds.NumCols())
	for _, name := range ds.Names() {
		roleOf[name] = r.roles.Role(name)
	}
	lookup := func(name string) Role {
		if role, ok := roleOf[name]; ok {
			return role
		}
		return RolePredictor
	}

	cur := ds
	snapshot := snapshotSchema(cur, lookup)
	for i, step := range r.steps {
		stepStart := time.Now()
		cols := step.Selector().Resolve(snapshot)
		if len(cols) == 0 {
			r.state.failFit()
			return nil, errors.NewFitError(i, step.Name(),
				errors.NewValueError("Recipe.Fit", "selector "+step.Selector().String()+" matched no columns"))
		}
		if err := step.Fit(cur, cols); err != nil {
			r.state.failFit()
			return nil, errors.NewFitError(i, step.Name(), err)
		}
		next, err := step.Apply(cur)
		if err != nil {
			r.state.failFit()
			return nil, errors.NewFitError(i, step.Name(), err)
		}

		for _, name := range next.Names() {
			if _, ok := roleOf[name]; !ok {
				roleOf[name] = RolePredictor
			}
		}
		colsIn := cur.NumCols()
		cur = next
		snapshot = snapshotSchema(cur, lookup)

		r.logger.Info("step fitted",
			log.OperationKey, log.OperationFit,
			log.StepIndexKey, i,
			log.StepNameKey, step.Name(),
			log.SelectedKey, len(cols),
			log.ColumnsInKey, colsIn,
			log.ColumnsOutKey, cur.NumCols(),
			log.DurationMsKey, time.Since(stepStart).Milliseconds(),
		)
	}

	r.final = snapshot
	r.state.completeFit()
	r.logger.Info("recipe fitted",
		log.OperationKey, log.OperationFitApply,
		log.RowsKey, ds.Rows(),
		log.ColumnsKey, cur.NumCols(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return cur, nil
}

// Apply transforms a dataset using the fitted state of every step, in append
// order. Valid only from the Fitted state; applying twice to the same input
// yields identical output.
func (r *Recipe) Apply(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if err := r.state.requireFitted("Recipe", "Apply"); err != nil {
		return nil, err
	}
	cur := ds
	for _, step := range r.steps {
		next, err := step.Apply(cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// FinalSchema returns the schema snapshot after the last step, available once
// fitted.
func (r *Recipe) FinalSchema() (Schema, error) {
	if err := r.state.requireFitted("Recipe", "FinalSchema"); err != nil {
		return nil, err
	}
	out := make(Schema, len(r.final))
	copy(out, r.final)
	return out, nil
}

// ColumnsWithRole returns the columns holding a role: resolved against the
// final fitted schema when fitted, against the reference schema otherwise.
func (r *Recipe) ColumnsWithRole(role Role) []string {
	if r.state.State() == StateFitted {
		return r.final.ColumnsWithRole(role)
	}
	return r.roles.ColumnsWithRole(role)
}

// Unfitted returns a fresh unfit clone carrying the same role assignments and
// step parameters but none of the fitted state. Resampling uses this to refit
// the recipe per training fold.
func (r *Recipe) Unfitted() *Recipe {
	steps := make([]Step, len(r.steps))
	for i, s := range r.steps {
		steps[i] = s.Clone()
	}
	ref := make(Schema, len(r.ref))
	copy(ref, r.ref)
	return &Recipe{
		roles:  r.roles.clone(),
		ref:    ref,
		steps:  steps,
		state:  newStateManager(),
		logger: r.logger,
	}
}
