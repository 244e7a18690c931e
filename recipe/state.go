package recipe

import (
	"sync"

	"github.com/YuminosukeSato/recipes/pkg/errors"
)

// State is the lifecycle state of a recipe.
type State int

const (
	// StateUnfit means no fitted statistics exist yet.
	StateUnfit State = iota
	// StateFitting means Fit is in progress.
	StateFitting
	// StateFitted means every step holds its fitted state and the recipe is
	// sealed against further modification.
	StateFitted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnfit:
		return "unfit"
	case StateFitting:
		return "fitting"
	case StateFitted:
		return "fitted"
	default:
		return "unknown"
	}
}

// stateManager guards the Unfit -> Fitting -> Fitted transitions in a
// thread-safe manner. A failed fit returns to Unfit; a completed fit is
// terminal, rebuilding goes through Unfitted().
type stateManager struct {
	mu    sync.RWMutex
	state State
}

func newStateManager() *stateManager {
	return &stateManager{state: StateUnfit}
}

// State returns the current lifecycle state.
func (m *stateManager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// beginFit transitions Unfit -> Fitting.
func (m *stateManager) beginFit(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.state {
	case StateFitting:
		return errors.NewValidationError(name, "fit already in progress", m.state.String())
	case StateFitted:
		return errors.NewValidationError(name, "already fitted; rebuild with Unfitted()", m.state.String())
	}
	m.state = StateFitting
	return nil
}

// completeFit transitions Fitting -> Fitted.
func (m *stateManager) completeFit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateFitted
}

// failFit returns Fitting -> Unfit so a failed recipe can be corrected and
// refit.
func (m *stateManager) failFit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateUnfit
}

// requireFitted returns a NotFittedError unless the state is Fitted.
func (m *stateManager) requireFitted(name, method string) error {
	if m.State() != StateFitted {
		return errors.NewNotFittedError(name, method)
	}
	return nil
}

// requireUnfit returns a ValidationError unless the state is Unfit. Used to
// seal the builder after fit.
func (m *stateManager) requireUnfit(name, reason string) error {
	if s := m.State(); s != StateUnfit {
		return errors.NewValidationError(name, reason, s.String())
	}
	return nil
}
