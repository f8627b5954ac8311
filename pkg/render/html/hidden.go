package html

import (
	"fmt"
	"sort"
	"strings"
)

// HiddenField is a hidden input emitted at the top of the preview, such as the
// flow or run id a submission should carry back.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// WithHiddenFields adds hidden inputs to every rendered page. Empty names are
// ignored; later fields win on name collisions.
func WithHiddenFields(fields ...HiddenField) Option {
	return func(cfg *config) {
		for _, field := range fields {
			name := strings.TrimSpace(field.Name)
			if name == "" {
				continue
			}
			if cfg.hidden == nil {
				cfg.hidden = make(map[string]string, len(fields))
			}
			cfg.hidden[name] = field.Value
		}
	}
}

// sortedHidden orders hidden fields by name for deterministic output.
func sortedHidden(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]HiddenField, 0, len(names))
	for _, name := range names {
		out = append(out, HiddenField{Name: name, Value: fields[name]})
	}
	return out
}
