package binding

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-formflow/pkg/jsonvalue"
)

// ToPrimitiveString stringifies strings, numbers and booleans. Arrays, objects,
// null and non-finite numbers are rejected.
func ToPrimitiveString(value any) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case bool:
		return strconv.FormatBool(typed), true
	case float64:
		return formatFinite(typed)
	case float32:
		return formatFinite(float64(typed))
	case int:
		return strconv.Itoa(typed), true
	case int8, int16, int32, int64:
		n, _ := toFloat(typed)
		return formatNumber(n), true
	case uint, uint8, uint16, uint32, uint64:
		n, _ := toFloat(typed)
		return formatNumber(n), true
	case json.Number:
		return typed.String(), true
	default:
		return "", false
	}
}

func formatFinite(n float64) (string, bool) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return "", false
	}
	return formatNumber(n), true
}

// formatNumber prints a float the way JSON producers do: integral values
// without a fraction, exponent notation only for very large or small values.
func formatNumber(n float64) string {
	abs := math.Abs(n)
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// ToLabelString produces a display label. Objects are probed for conventional
// label members (label, name, title, value, id, code) and otherwise fall back
// to their first member. Arrays never produce a label.
func ToLabelString(value any) (string, bool) {
	if label, ok := ToPrimitiveString(value); ok {
		return label, true
	}
	if !isObject(value) {
		return "", false
	}
	if found, ok := Lookup(value, labelKeys, isPrimitive); ok {
		return ToPrimitiveString(found)
	}
	members, _ := jsonvalue.Members(value)
	if len(members) == 0 {
		return "", false
	}
	return ToPrimitiveString(members[0].Value)
}

// ToValueString produces the technical value of an option. Objects are probed
// for explicit value members (value, default, defaultValue, initial,
// initialValue, current, selected), each coerced recursively, before falling
// back to ToLabelString.
func ToValueString(value any) (string, bool) {
	if text, ok := ToPrimitiveString(value); ok {
		return text, true
	}
	if !isObject(value) {
		return "", false
	}
	if found, ok := Lookup(value, explicitValueKeys, hasValueString); ok {
		return ToValueString(found)
	}
	return ToLabelString(value)
}

// ConvertInitialValue coerces raw into the value type of field: a finite
// float64 for number fields and a string otherwise. It reports false when raw
// cannot be used, which callers treat as "no binding".
func ConvertInitialValue(field FieldDescriptor, raw any) (any, bool) {
	switch field.Type.Normalize() {
	case FieldTypeNumber:
		return toFiniteNumber(raw)
	case FieldTypeSelect:
		return ToPrimitiveString(raw)
	default:
		if text, ok := raw.(string); ok {
			return text, true
		}
		return ToPrimitiveString(raw)
	}
}

func toFiniteNumber(raw any) (any, bool) {
	if text, ok := raw.(string); ok {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" || !isDecimalLiteral(trimmed) {
			return nil, false
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return nil, false
		}
		return parsed, true
	}
	number, ok := toFloat(raw)
	if !ok || math.IsNaN(number) || math.IsInf(number, 0) {
		return nil, false
	}
	return number, true
}

// isDecimalLiteral rejects the Go literal forms strconv accepts beyond plain
// decimal notation: digit separators and hex mantissas.
func isDecimalLiteral(text string) bool {
	if strings.ContainsRune(text, '_') {
		return false
	}
	unsigned := strings.TrimLeft(text, "+-")
	return !strings.HasPrefix(unsigned, "0x") && !strings.HasPrefix(unsigned, "0X")
}

func toFloat(raw any) (float64, bool) {
	switch typed := raw.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int8:
		return float64(typed), true
	case int16:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case uint:
		return float64(typed), true
	case uint8:
		return float64(typed), true
	case uint16:
		return float64(typed), true
	case uint32:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	case json.Number:
		n, err := typed.Float64()
		return n, err == nil
	default:
		return 0, false
	}
}

// initialValueFrom coerces value for field, reducing objects to their value
// string first. Arrays never produce an initial value here.
func initialValueFrom(field FieldDescriptor, value any) (any, bool) {
	if value == nil || isArray(value) {
		return nil, false
	}
	if isObject(value) {
		text, ok := ToValueString(value)
		if !ok {
			return nil, false
		}
		return ConvertInitialValue(field, text)
	}
	return ConvertInitialValue(field, value)
}

func isPrimitive(value any) bool {
	_, ok := ToPrimitiveString(value)
	return ok
}

func hasValueString(value any) bool {
	_, ok := ToValueString(value)
	return ok
}
