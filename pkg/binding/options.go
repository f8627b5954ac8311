package binding

import "strings"

// NormalizeOptions turns raw candidates into an ordered list of options with
// unique, non-blank values. Nested arrays are flattened; the first occurrence
// of a value wins.
func NormalizeOptions(items []any) []Option {
	var (
		out  []Option
		seen = make(map[string]struct{})
	)
	for _, item := range flattenItems(items) {
		value, ok := optionValue(item)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		if _, exists := seen[value]; exists {
			continue
		}
		seen[value] = struct{}{}

		label, ok := ToLabelString(item)
		if !ok || label == "" {
			label = value
		}
		out = append(out, Option{Value: value, Label: label})
	}
	return out
}

// BuildSelectOptions pairs labels and values resolved from two different
// paths. Each side is flattened into a list; the shorter list reuses its last
// element, so a single value can pair with many labels and vice versa.
func BuildSelectOptions(labels, values any) []Option {
	labelItems := candidateItems(labels)
	valueItems := candidateItems(values)

	size := max(len(labelItems), len(valueItems))
	if size == 0 {
		return nil
	}

	var (
		out  []Option
		seen = make(map[string]struct{})
	)
	for i := 0; i < size; i++ {
		labelItem, hasLabel := clampedAt(labelItems, i)
		valueItem, hasValue := clampedAt(valueItems, i)

		var (
			value string
			ok    bool
		)
		if hasValue {
			value, ok = optionValue(valueItem)
		}
		if !ok && hasLabel {
			value, ok = optionValue(labelItem)
		}
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		if _, exists := seen[value]; exists {
			continue
		}
		seen[value] = struct{}{}

		var label string
		if hasLabel {
			label, _ = ToLabelString(labelItem)
		}
		if label == "" && hasValue {
			label, _ = ToLabelString(valueItem)
		}
		if label == "" {
			label = value
		}
		out = append(out, Option{Value: value, Label: label})
	}
	return out
}

// SplitOptions splits a delimited string ("a; b, c") into option candidates.
func SplitOptions(text string) []Option {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == ';' || r == ','
	})
	items := make([]any, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return NormalizeOptions(items)
}

func optionValue(item any) (string, bool) {
	if value, ok := ToValueString(item); ok {
		return value, true
	}
	return ToLabelString(item)
}

func candidateItems(value any) []any {
	if value == nil {
		return nil
	}
	if items, ok := value.([]any); ok {
		return flattenItems(items)
	}
	return []any{value}
}

func clampedAt(items []any, i int) (any, bool) {
	if len(items) == 0 {
		return nil, false
	}
	if i >= len(items) {
		i = len(items) - 1
	}
	return items[i], true
}

func flattenItems(items []any) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		if nested, ok := item.([]any); ok {
			out = append(out, flattenItems(nested)...)
			continue
		}
		out = append(out, item)
	}
	return out
}
