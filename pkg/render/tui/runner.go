package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formflow/pkg/binding"
	"github.com/goliatone/go-formflow/pkg/flow"
)

// Option configures a Runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver used by the runner.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithEvaluator overrides how decision branches are evaluated.
func WithEvaluator(eval flow.Evaluator) Option {
	return func(r *Runner) {
		r.walker.Evaluator = eval
	}
}

// WithTransitionBudget caps how many steps a run may enter.
func WithTransitionBudget(n int) Option {
	return func(r *Runner) {
		r.walker.Budget = n
	}
}

// WithConfirmation asks for a final confirmation before returning values.
func WithConfirmation(enabled bool) Option {
	return func(r *Runner) {
		r.confirm = enabled
	}
}

// Runner walks a flow and prompts for every form field on the way.
type Runner struct {
	driver  PromptDriver
	walker  flow.Walker
	confirm bool
}

// New constructs a Runner with the survey driver unless one is supplied.
func New(options ...Option) *Runner {
	r := &Runner{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r
}

// Run walks f from its start step and returns the collected values keyed by
// field id. views supplies pre-filled fields per step; nil means every field
// starts from its designed defaults.
func (r *Runner) Run(ctx context.Context, f *flow.Flow, views flow.ViewProvider) (map[string]any, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if f == nil {
		return nil, errors.New("tui: flow is nil")
	}
	if views == nil {
		views = flow.ResultViews{}
	}

	values := make(map[string]any)
	_, err := r.walker.Walk(ctx, f, values, func(ctx context.Context, step *flow.Step) error {
		return r.promptStep(ctx, *step, views.Views(*step), values)
	})
	if err != nil {
		return nil, err
	}

	if r.confirm {
		ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Submit?", Default: true})
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrAborted
		}
	}
	return values, nil
}

func (r *Runner) promptStep(ctx context.Context, step flow.Step, views []flow.FieldView, values map[string]any) error {
	if title := strings.TrimSpace(step.Title); title != "" {
		if err := r.driver.Info(ctx, title); err != nil {
			return err
		}
	}
	if desc := strings.TrimSpace(step.Description); desc != "" {
		if err := r.driver.Info(ctx, desc); err != nil {
			return err
		}
	}

	for _, view := range views {
		if view.Field.ID == "" {
			continue
		}
		value, set, err := r.promptField(ctx, view)
		if err != nil {
			return fmt.Errorf("tui: step %q field %q: %w", step.ID, view.Field.ID, err)
		}
		if set {
			values[view.Field.ID] = value
		}
	}
	return nil
}

func (r *Runner) promptField(ctx context.Context, view flow.FieldView) (any, bool, error) {
	switch view.Field.Type.Normalize() {
	case binding.FieldTypeNumber:
		return r.promptNumber(ctx, view)
	case binding.FieldTypeSelect:
		if len(view.Options) > 0 {
			return r.promptSelect(ctx, view)
		}
	}
	return r.promptText(ctx, view)
}

func (r *Runner) promptText(ctx context.Context, view flow.FieldView) (any, bool, error) {
	for {
		input, err := r.driver.Input(ctx, InputConfig{
			Message: displayLabel(view.Field),
			Default: view.Text(),
			Help:    view.Field.Placeholder,
		})
		if err != nil {
			return nil, false, err
		}
		if strings.TrimSpace(input) == "" && view.Field.Required {
			_ = r.driver.Info(ctx, fmt.Sprintf("Invalid %s: required", view.Field.ID))
			continue
		}
		return input, true, nil
	}
}

func (r *Runner) promptNumber(ctx context.Context, view flow.FieldView) (any, bool, error) {
	for {
		input, err := r.driver.Input(ctx, InputConfig{
			Message: displayLabel(view.Field),
			Default: view.Text(),
			Help:    view.Field.Placeholder,
		})
		if err != nil {
			return nil, false, err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			if view.Field.Required {
				_ = r.driver.Info(ctx, fmt.Sprintf("Invalid %s: required", view.Field.ID))
				continue
			}
			return nil, true, nil
		}

		parsed, ok := binding.ConvertInitialValue(view.Field, input)
		if !ok {
			_ = r.driver.Info(ctx, fmt.Sprintf("Invalid %s: %q is not a number", view.Field.ID, input))
			continue
		}
		return parsed, true, nil
	}
}

func (r *Runner) promptSelect(ctx context.Context, view flow.FieldView) (any, bool, error) {
	labels := optionLabels(view.Options)
	defaultIdx := -1
	if current := view.Text(); current != "" {
		for i, option := range view.Options {
			if option.Value == current {
				defaultIdx = i
				break
			}
		}
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      displayLabel(view.Field),
			Options:      labels,
			DefaultIndex: defaultIdx,
			Help:         view.Field.Placeholder,
		})
		if err != nil {
			return nil, false, err
		}
		if idx < 0 || idx >= len(view.Options) {
			_ = r.driver.Info(ctx, fmt.Sprintf("Invalid %s selection", view.Field.ID))
			continue
		}
		return view.Options[idx].Value, true, nil
	}
}

func displayLabel(field binding.FieldDescriptor) string {
	label := strings.TrimSpace(field.Label)
	if label == "" {
		label = field.ID
	}
	if field.Required {
		label += " *"
	}
	return label
}

// optionLabels returns one display string per option. Repeated labels are
// suffixed with their value so the terminal list stays unambiguous.
func optionLabels(options []binding.Option) []string {
	counts := make(map[string]int, len(options))
	for _, option := range options {
		counts[option.Label]++
	}
	out := make([]string, len(options))
	for i, option := range options {
		label := option.Label
		if label == "" {
			label = option.Value
		}
		if counts[option.Label] > 1 && label != option.Value {
			label = label + " (" + option.Value + ")"
		}
		out[i] = label
	}
	return out
}
