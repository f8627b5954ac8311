package flow

import "github.com/goliatone/go-formflow/pkg/binding"

// FieldView is a field as presented to the user once external data has been
// applied.
type FieldView struct {
	Field    binding.FieldDescriptor
	Value    any
	HasValue bool
	Options  []binding.Option
	// Prefilled reports whether Value came from external data.
	Prefilled bool
	// OptionsBound reports whether Options came from external data.
	OptionsBound bool
}

// Text renders Value for display. Missing values render as "".
func (v FieldView) Text() string {
	if !v.HasValue {
		return ""
	}
	text, _ := binding.ToPrimitiveString(v.Value)
	return text
}

// ApplyResult merges a binding result into step's fields. Bound options
// replace the designer's static options and bound values replace defaults;
// fields the result does not mention keep their designed state.
func ApplyResult(step Step, result binding.Result) []FieldView {
	views := make([]FieldView, 0, len(step.Fields))
	for _, field := range step.Fields {
		view := FieldView{
			Field:   field,
			Options: field.Options,
		}
		if field.Default != nil {
			view.Value, view.HasValue = field.Default, true
		}

		if value, ok := result.InitialValues[field.ID]; ok && field.ID != "" {
			view.Value, view.HasValue, view.Prefilled = value, true, true
		}
		if options, ok := result.SelectOptions[field.ID]; ok && field.ID != "" {
			view.Options, view.OptionsBound = options, true
		}
		views = append(views, view)
	}
	return views
}

// ViewProvider supplies the field views of a step, typically from a prefill
// run.
type ViewProvider interface {
	Views(step Step) []FieldView
}

// ResultViews serves views from a single binding result keyed by step id.
type ResultViews map[string]binding.Result

// Views applies the result stored for step, if any.
func (r ResultViews) Views(step Step) []FieldView {
	result, ok := r[step.ID]
	if !ok {
		result = binding.NewResult()
	}
	return ApplyResult(step, result)
}
