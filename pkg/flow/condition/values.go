package condition

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-formflow/pkg/jsonvalue"
)

// lookup reads path from values. A key containing dots is matched verbatim
// before the path is split.
func lookup(values map[string]any, path string) (any, bool) {
	if len(values) == 0 || path == "" {
		return nil, false
	}
	if value, ok := values[path]; ok {
		return value, true
	}

	var current any = values
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			return nil, false
		}
		next, ok := jsonvalue.Get(current, part)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case []any:
		return len(v) > 0
	}
	if n, ok := numeric(value); ok {
		return n != 0 && !math.IsNaN(n)
	}
	if jsonvalue.IsObject(value) {
		return jsonvalue.Len(value) > 0
	}
	return true
}

func equal(left, right any) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}

	if lb, ok := left.(bool); ok {
		return lb == toBool(right)
	}
	if rb, ok := right.(bool); ok {
		return rb == toBool(left)
	}

	_, leftNumeric := numeric(left)
	_, rightNumeric := numeric(right)
	if leftNumeric || rightNumeric {
		ln, lok := toNumber(left)
		rn, rok := toNumber(right)
		if lok && rok {
			return ln == rn
		}
	}

	return toString(left) == toString(right)
}

// order compares two values numerically when both are numbers (or numeric
// strings) and lexically when both are strings.
func order(left, right any) (int, bool) {
	ln, lok := toNumber(left)
	rn, rok := toNumber(right)
	if lok && rok {
		switch {
		case ln < rn:
			return -1, true
		case ln > rn:
			return 1, true
		default:
			return 0, true
		}
	}

	ls, lok := left.(string)
	rs, rok := right.(string)
	if lok && rok {
		return strings.Compare(ls, rs), true
	}
	return 0, false
}

func numeric(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

func toNumber(value any) (float64, bool) {
	if n, ok := numeric(value); ok {
		return n, !math.IsNaN(n)
	}
	text, ok := value.(string)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func toBool(value any) bool {
	if text, ok := value.(string); ok {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(text)); err == nil {
			return parsed
		}
	}
	return truthy(value)
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	}
	if n, ok := numeric(value); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return fmt.Sprint(value)
}
