package binding

import "strings"

// FieldType enumerates the form field kinds the binder knows how to coerce
// values for.
type FieldType string

const (
	FieldTypeText   FieldType = "text"
	FieldTypeNumber FieldType = "number"
	FieldTypeSelect FieldType = "select"
)

// Normalize lowercases the type and maps unknown kinds to text.
func (t FieldType) Normalize() FieldType {
	switch FieldType(strings.ToLower(strings.TrimSpace(string(t)))) {
	case FieldTypeNumber:
		return FieldTypeNumber
	case FieldTypeSelect:
		return FieldTypeSelect
	default:
		return FieldTypeText
	}
}

// Valid reports whether t names one of the known field types. Blank types are
// accepted and treated as text.
func (t FieldType) Valid() bool {
	switch FieldType(strings.ToLower(strings.TrimSpace(string(t)))) {
	case "", FieldTypeText, FieldTypeNumber, FieldTypeSelect:
		return true
	default:
		return false
	}
}

// FieldDescriptor describes one form field. The binder only reads ID, Label,
// Type and the two external data paths; the remaining members belong to the
// designer and renderers.
type FieldDescriptor struct {
	ID                    string    `json:"id" yaml:"id"`
	Label                 string    `json:"label,omitempty" yaml:"label,omitempty"`
	Type                  FieldType `json:"type,omitempty" yaml:"type,omitempty"`
	ExternalDataPath      string    `json:"externalDataPath,omitempty" yaml:"externalDataPath,omitempty"`
	ExternalDataValuePath string    `json:"externalDataValuePath,omitempty" yaml:"externalDataValuePath,omitempty"`
	Required              bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Placeholder           string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options               []Option  `json:"options,omitempty" yaml:"options,omitempty"`
	Default               any       `json:"default,omitempty" yaml:"default,omitempty"`
}

// IsSelect reports whether the field offers a list of options.
func (f FieldDescriptor) IsSelect() bool {
	return f.Type.Normalize() == FieldTypeSelect
}

// Option is a value/label pair offered by a select field.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// ResolvedFieldData is the binder's output for a single field. The zero value
// means "leave the field untouched".
type ResolvedFieldData struct {
	InitialValue    any
	HasInitialValue bool
	Options         []Option
}

// Empty reports whether nothing was resolved.
func (d ResolvedFieldData) Empty() bool {
	return !d.HasInitialValue && len(d.Options) == 0
}

// Result aggregates a binding pass. A field id only appears in a map when the
// pass produced a value for it.
type Result struct {
	SelectOptions map[string][]Option `json:"selectOptions"`
	InitialValues map[string]any      `json:"initialValues"`
}

// NewResult returns a Result with both maps initialised.
func NewResult() Result {
	return Result{
		SelectOptions: make(map[string][]Option),
		InitialValues: make(map[string]any),
	}
}

// Field returns what the pass resolved for the given field id.
func (r Result) Field(id string) ResolvedFieldData {
	var data ResolvedFieldData
	if value, ok := r.InitialValues[id]; ok {
		data.InitialValue = value
		data.HasInitialValue = true
	}
	if options, ok := r.SelectOptions[id]; ok {
		data.Options = options
	}
	return data
}

// Empty reports whether the pass resolved nothing at all.
func (r Result) Empty() bool {
	return len(r.SelectOptions) == 0 && len(r.InitialValues) == 0
}

// set records data for id. With gapsOnly, entries already present win.
func (r Result) set(id string, data ResolvedFieldData, gapsOnly bool) {
	if data.HasInitialValue {
		if _, exists := r.InitialValues[id]; !exists || !gapsOnly {
			r.InitialValues[id] = data.InitialValue
		}
	}
	if len(data.Options) > 0 {
		if _, exists := r.SelectOptions[id]; !exists || !gapsOnly {
			r.SelectOptions[id] = data.Options
		}
	}
}
