package binding

import (
	"strings"

	"github.com/goliatone/go-formflow/pkg/jsonvalue"
)

// Bind resolves initial values and select options for fields from payload.
//
// Fields with an ExternalDataPath are resolved first. When the payload is an
// array of records, a structural pass matches records to fields by key names
// and identifier members and fills whatever the path pass left open. When the
// payload is an object and no path resolved anything, every field is looked
// up by its own name variants instead.
func Bind(payload any, fields []FieldDescriptor) Result {
	result := NewResult()

	for _, field := range fields {
		if field.ID == "" {
			continue
		}
		result.set(field.ID, ResolveField(payload, field), false)
	}

	switch {
	case isArray(payload):
		bindRecords(result, payload.([]any), fields)
	case isObject(payload) && result.Empty():
		bindObject(result, payload, fields)
	}

	return result
}

// BindJSON decodes data with declaration order preserved and binds fields
// against it. Invalid JSON is the only error.
func BindJSON(data []byte, fields []FieldDescriptor) (Result, error) {
	payload, err := jsonvalue.Decode(data)
	if err != nil {
		return NewResult(), err
	}
	return Bind(payload, fields), nil
}

// ResolveField follows the field's configured paths through payload. Fields
// without a path resolve to nothing.
func ResolveField(payload any, field FieldDescriptor) ResolvedFieldData {
	path := strings.TrimSpace(field.ExternalDataPath)
	if path == "" {
		return ResolvedFieldData{}
	}

	scoped, hasScoped := ResolvePath(payload, path)
	hasScoped = hasScoped && scoped != nil

	var (
		override    any
		hasOverride bool
	)
	if valuePath := strings.TrimSpace(field.ExternalDataValuePath); valuePath != "" && field.IsSelect() {
		override, hasOverride = ResolvePath(payload, valuePath)
		hasOverride = hasOverride && override != nil
	}

	if !hasScoped && !hasOverride {
		return ResolvedFieldData{}
	}

	if hasOverride {
		var labels any
		if hasScoped {
			labels = scoped
		}
		return ResolvedFieldData{Options: BuildSelectOptions(labels, override)}
	}

	return resolveValue(field, scoped)
}

// resolveValue dispatches on the shape of a value located for field.
func resolveValue(field FieldDescriptor, value any) ResolvedFieldData {
	var data ResolvedFieldData

	switch {
	case value == nil:
	case isArray(value):
		items := value.([]any)
		if field.IsSelect() {
			data.Options = NormalizeOptions(items)
			break
		}
		for _, item := range items {
			if converted, ok := ConvertInitialValue(field, item); ok {
				data.InitialValue, data.HasInitialValue = converted, true
				break
			}
		}
	case isObject(value):
		data.InitialValue, data.HasInitialValue = initialFromObject(field, value)
		if field.IsSelect() {
			if items, ok := Lookup(value, optionArrayKeys, isArray); ok {
				data.Options = NormalizeOptions(items.([]any))
			}
		}
	default:
		data.InitialValue, data.HasInitialValue = ConvertInitialValue(field, value)
		if text, ok := value.(string); ok && field.IsSelect() {
			data.Options = SplitOptions(text)
		}
	}

	return data
}

func initialFromObject(field FieldDescriptor, value any) (any, bool) {
	if explicit, ok := Lookup(value, explicitValueKeys, isPresent); ok {
		if converted, ok := initialValueFrom(field, explicit); ok {
			return converted, true
		}
	}
	return initialValueFrom(field, value)
}

// bindObject runs the generic pass over a plain object payload.
func bindObject(result Result, payload any, fields []FieldDescriptor) {
	lookup, ok := NewRecordLookup(payload)
	if !ok {
		return
	}

	var payloadOptions []Option
	if items, ok := lookup.Resolve(payloadOptionKeys, isArray); ok {
		payloadOptions = NormalizeOptions(items.([]any))
	}

	for _, field := range fields {
		if field.ID == "" {
			continue
		}
		variants := FieldVariants(field)

		var (
			data   ResolvedFieldData
			scalar bool
		)
		if value, ok := lookup.Resolve(variants, isPresent); ok {
			data = resolveValue(field, value)
			scalar = !isArray(value) && !isObject(value)
		}
		if field.IsSelect() {
			// Dedicated option members beat options split out of a scalar value.
			if items, ok := lookup.Resolve(suffixed(variants, objectOptionSuffixes), isArray); ok {
				data.Options = NormalizeOptions(items.([]any))
			} else if (scalar || len(data.Options) == 0) && len(payloadOptions) > 0 {
				data.Options = payloadOptions
			}
		}
		result.set(field.ID, data, true)
	}
}
