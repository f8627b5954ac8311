package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formflow/pkg/flow/condition"
)

var (
	// ErrNoRoute is returned when a decision step matches no branch and has
	// no default.
	ErrNoRoute = errors.New("flow: no branch matched")
	// ErrUnknownStep is returned when navigation reaches an id that is not
	// part of the flow.
	ErrUnknownStep = errors.New("flow: unknown step")
	// ErrTransitionBudget is returned when a walk takes more transitions
	// than allowed, usually because of a cycle.
	ErrTransitionBudget = errors.New("flow: transition budget exhausted")
)

// DefaultTransitionBudget bounds walks that do not configure a budget.
const DefaultTransitionBudget = 256

// Evaluator decides branch conditions against collected values.
type Evaluator interface {
	Evaluate(expr string, values map[string]any) (bool, error)
}

var defaultEvaluator = condition.New()

// Navigate returns the id of the step that follows step. An empty id ends the
// flow. A nil evaluator uses the condition package.
func Navigate(step Step, values map[string]any, eval Evaluator) (string, error) {
	if !step.IsDecision() {
		return step.Next, nil
	}
	if eval == nil {
		eval = defaultEvaluator
	}

	for i, branch := range step.Branches {
		ok, err := eval.Evaluate(branch.Condition, values)
		if err != nil {
			return "", fmt.Errorf("flow: step %q branch %d: %w", step.ID, i, err)
		}
		if ok {
			return branch.Target, nil
		}
	}
	if step.Default != "" {
		return step.Default, nil
	}
	return "", fmt.Errorf("%w: step %q", ErrNoRoute, step.ID)
}

// Visitor is called for every form step a walk enters. It may add collected
// values to the map shared with the walk before navigation continues.
type Visitor func(ctx context.Context, step *Step) error

// Walker drives a flow from its start step to the end.
type Walker struct {
	Evaluator Evaluator
	// Budget caps the number of steps entered. Zero means
	// DefaultTransitionBudget.
	Budget int
}

// Walk enters steps from f.Start, calling visit for form steps, and returns
// the ids of every step entered in order.
func (w Walker) Walk(ctx context.Context, f *Flow, values map[string]any, visit Visitor) ([]string, error) {
	if f == nil {
		return nil, errors.New("flow: flow is nil")
	}
	budget := w.Budget
	if budget <= 0 {
		budget = DefaultTransitionBudget
	}

	var path []string
	for current := f.Start; current != ""; {
		if err := ctx.Err(); err != nil {
			return path, err
		}
		if len(path) >= budget {
			return path, fmt.Errorf("%w after %d steps", ErrTransitionBudget, len(path))
		}

		step, ok := f.Step(current)
		if !ok {
			return path, fmt.Errorf("%w: %q", ErrUnknownStep, current)
		}
		path = append(path, step.ID)

		if step.IsForm() && visit != nil {
			if err := visit(ctx, step); err != nil {
				return path, err
			}
		}

		next, err := Navigate(*step, values, w.Evaluator)
		if err != nil {
			return path, err
		}
		current = next
	}
	return path, nil
}

// Walk is Walker{}.Walk.
func Walk(ctx context.Context, f *Flow, values map[string]any, visit Visitor) ([]string, error) {
	return Walker{}.Walk(ctx, f, values, visit)
}
