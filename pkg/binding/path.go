package binding

import (
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-formflow/pkg/jsonvalue"
)

// Segment is one step of a parsed path expression. A flatten segment ("[]")
// applies the rest of the path to every element of the current array.
type Segment struct {
	Key     string
	Flatten bool
}

func (s Segment) String() string {
	if s.Flatten {
		return "[]"
	}
	return s.Key
}

// ParsePath splits a path expression into segments. Segments are separated by
// '.' or written in brackets: [0] for an index, ["key"] or ['key'] for a
// literal key and [] for flatten. A leading run of '$' is ignored. Malformed
// expressions (an unterminated bracket or quote) yield nil.
func ParsePath(expression string) []Segment {
	expr := strings.TrimLeft(strings.TrimSpace(expression), "$")
	if expr == "" {
		return nil
	}

	var (
		segments []Segment
		current  strings.Builder
	)
	flush := func() {
		if current.Len() == 0 {
			return
		}
		segments = append(segments, Segment{Key: current.String()})
		current.Reset()
	}

	for i := 0; i < len(expr); {
		switch expr[i] {
		case '.':
			flush()
			i++
		case '[':
			flush()
			segment, next, ok := parseBracket(expr, i)
			if !ok {
				return nil
			}
			segments = append(segments, segment)
			i = next
		default:
			current.WriteByte(expr[i])
			i++
		}
	}
	flush()

	return segments
}

// parseBracket reads the bracket starting at expr[start] and returns the
// segment and the offset just past the closing ']'.
func parseBracket(expr string, start int) (Segment, int, bool) {
	i := skipSpaces(expr, start+1)
	if i >= len(expr) {
		return Segment{}, 0, false
	}

	if quote := expr[i]; quote == '"' || quote == '\'' {
		end := strings.IndexByte(expr[i+1:], quote)
		if end < 0 {
			return Segment{}, 0, false
		}
		key := expr[i+1 : i+1+end]
		closing := skipSpaces(expr, i+end+2)
		if closing >= len(expr) || expr[closing] != ']' {
			return Segment{}, 0, false
		}
		return Segment{Key: key}, closing + 1, true
	}

	end := strings.IndexByte(expr[i:], ']')
	if end < 0 {
		return Segment{}, 0, false
	}
	content := strings.TrimSpace(expr[i : i+end])
	next := i + end + 1
	if content == "" {
		return Segment{Flatten: true}, next, true
	}
	return Segment{Key: content}, next, true
}

func skipSpaces(expr string, i int) int {
	for i < len(expr) && (expr[i] == ' ' || expr[i] == '\t') {
		i++
	}
	return i
}

// EvaluatePath walks value along segments. It reports false when the path
// cannot be followed: an index out of range or not a non-negative integer, a
// key missing from an object, or any step into a scalar.
func EvaluatePath(value any, segments []Segment) (any, bool) {
	if len(segments) == 0 {
		return value, true
	}
	segment, rest := segments[0], segments[1:]

	if items, ok := value.([]any); ok {
		if segment.Flatten {
			return flattenPath(items, rest)
		}
		index, ok := parseIndex(segment.Key)
		if !ok || index >= len(items) {
			return nil, false
		}
		return EvaluatePath(items[index], rest)
	}

	if segment.Flatten {
		return nil, false
	}
	next, ok := Lookup(value, []string{segment.Key}, nil)
	if !ok {
		return nil, false
	}
	return EvaluatePath(next, rest)
}

func flattenPath(items []any, rest []Segment) (any, bool) {
	var out []any
	for _, item := range items {
		resolved, ok := EvaluatePath(item, rest)
		if !ok {
			continue
		}
		if nested, isList := resolved.([]any); isList {
			out = append(out, nested...)
			continue
		}
		out = append(out, resolved)
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func parseIndex(token string) (int, bool) {
	token = strings.TrimSpace(token)
	if !isDecimalLiteral(token) {
		return 0, false
	}
	number, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(number) || math.IsInf(number, 0) {
		return 0, false
	}
	if number < 0 || number != math.Trunc(number) || number > math.MaxInt32 {
		return 0, false
	}
	return int(number), true
}

// ResolvePath parses expression and evaluates it against payload. Blank or
// malformed expressions never resolve.
func ResolvePath(payload any, expression string) (any, bool) {
	segments := ParsePath(expression)
	if len(segments) == 0 {
		return nil, false
	}
	return EvaluatePath(payload, segments)
}

// isObject reports whether value is a JSON object.
func isObject(value any) bool {
	return jsonvalue.IsObject(value)
}
