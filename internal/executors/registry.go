// internal/executors/registry.go
package executors

import (
	"context"
	"sort"
	"sync"

	"discard-copilot/internal/common/errors"
	"discard-copilot/internal/models"
)

// ActionExecutor performs one plan step. Implementations must honor ctx
// cancellation and report business failures through StepResult rather than
// the error return; the error return is for infrastructure faults.
type ActionExecutor interface {
	Action() string
	Execute(ctx context.Context, step *models.PlanStep) (*models.StepResult, error)
}

// Registry maps step actions to their executors. Registration happens at
// startup; lookups are concurrent.
type Registry struct {
	mu        sync.RWMutex
	executors map[string]ActionExecutor
}

func NewRegistry() *Registry {
	return &Registry{executors: make(map[string]ActionExecutor)}
}

// Register binds an executor to its action. Re-registering an action
// replaces the previous executor.
func (r *Registry) Register(ex ActionExecutor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executors[ex.Action()] = ex
}

// Lookup returns the executor for an action or EXECUTOR_NOT_FOUND.
func (r *Registry) Lookup(action string) (ActionExecutor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ex, ok := r.executors[action]
	if !ok {
		return nil, errors.NewExecutorNotFoundError(action)
	}
	return ex, nil
}

// Actions returns the registered action names, sorted.
func (r *Registry) Actions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	actions := make([]string, 0, len(r.executors))
	for a := range r.executors {
		actions = append(actions, a)
	}
	sort.Strings(actions)
	return actions
}
