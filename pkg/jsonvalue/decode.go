package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/buger/jsonparser"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is a JSON object that remembers the order its members were declared in.
type Object = orderedmap.OrderedMap[string, any]

var (
	// ErrEmpty is returned when the payload holds no JSON value at all.
	ErrEmpty = errors.New("jsonvalue: empty payload")
	// ErrInvalid is returned when the payload is not well-formed JSON.
	ErrInvalid = errors.New("jsonvalue: invalid JSON")
)

// NewObject returns an empty ordered object.
func NewObject() *Object {
	return orderedmap.New[string, any]()
}

// Decode parses data into a tree of *Object, []any, string, float64, bool and
// nil values. Numbers beyond the float64 range decode as signed infinity.
func Decode(data []byte) (any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrEmpty
	}
	if !json.Valid(trimmed) {
		return nil, ErrInvalid
	}

	raw, dataType, _, err := jsonparser.Get(trimmed)
	if err == nil {
		var value any
		if value, err = decodeValue(raw, dataType); err == nil {
			return value, nil
		}
	}
	// jsonparser cannot scan some well-formed numbers, 1e400 among them.
	return decodeTokens(trimmed)
}

// decodeTokens walks the payload with encoding/json's tokenizer, keeping the
// same ordered shapes as decodeValue.
func decodeTokens(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return readToken(dec)
}

func readToken(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("jsonvalue: %w", err)
	}
	switch typed := tok.(type) {
	case json.Delim:
		switch typed {
		case '{':
			return readObject(dec)
		case '[':
			return readArray(dec)
		}
		return nil, fmt.Errorf("jsonvalue: unexpected %q", rune(typed))
	case json.Number:
		return parseNumber(typed.String())
	default:
		return typed, nil
	}
}

func readObject(dec *json.Decoder) (*Object, error) {
	obj := NewObject()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("jsonvalue: object: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("jsonvalue: object key %v", tok)
		}
		value, err := readToken(dec)
		if err != nil {
			return nil, err
		}
		obj.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("jsonvalue: object: %w", err)
	}
	return obj, nil
}

func readArray(dec *json.Decoder) ([]any, error) {
	out := make([]any, 0)
	for dec.More() {
		value, err := readToken(dec)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("jsonvalue: array: %w", err)
	}
	return out, nil
}

// parseNumber keeps out-of-range values as signed infinity or zero instead of
// failing the whole payload.
func parseNumber(text string) (float64, error) {
	value, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("jsonvalue: number %q: %w", text, err)
	}
	return value, nil
}

func decodeValue(raw []byte, dataType jsonparser.ValueType) (any, error) {
	switch dataType {
	case jsonparser.Object:
		return decodeObject(raw)
	case jsonparser.Array:
		return decodeArray(raw)
	case jsonparser.String:
		value, err := jsonparser.ParseString(raw)
		if err != nil {
			return nil, fmt.Errorf("jsonvalue: string: %w", err)
		}
		return value, nil
	case jsonparser.Number:
		return parseNumber(string(raw))
	case jsonparser.Boolean:
		value, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return nil, fmt.Errorf("jsonvalue: boolean: %w", err)
		}
		return value, nil
	case jsonparser.Null:
		return nil, nil
	default:
		return nil, fmt.Errorf("jsonvalue: unsupported value %q", raw)
	}
}

func decodeObject(raw []byte) (*Object, error) {
	obj := NewObject()
	err := jsonparser.ObjectEach(raw, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		decoded, err := decodeValue(value, dataType)
		if err != nil {
			return err
		}
		obj.Set(string(key), decoded)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func decodeArray(raw []byte) ([]any, error) {
	out := make([]any, 0)
	var firstErr error
	_, err := jsonparser.ArrayEach(raw, func(value []byte, dataType jsonparser.ValueType, _ int, cbErr error) {
		if firstErr != nil {
			return
		}
		if cbErr != nil {
			firstErr = cbErr
			return
		}
		decoded, err := decodeValue(value, dataType)
		if err != nil {
			firstErr = err
			return
		}
		out = append(out, decoded)
	})
	if firstErr != nil {
		return nil, firstErr
	}
	if err != nil {
		return nil, fmt.Errorf("jsonvalue: array: %w", err)
	}
	return out, nil
}

// Member is a single key/value pair of a JSON object.
type Member struct {
	Key   string
	Value any
}

// Members lists the members of an object value in declaration order. Plain
// map[string]any values carry no declaration order, so their keys are visited
// in sorted order instead. The boolean reports whether value is an object.
func Members(value any) ([]Member, bool) {
	switch typed := value.(type) {
	case *Object:
		if typed == nil {
			return nil, false
		}
		out := make([]Member, 0, typed.Len())
		for pair := typed.Oldest(); pair != nil; pair = pair.Next() {
			out = append(out, Member{Key: pair.Key, Value: pair.Value})
		}
		return out, true
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		out := make([]Member, 0, len(keys))
		for _, key := range keys {
			out = append(out, Member{Key: key, Value: typed[key]})
		}
		return out, true
	default:
		return nil, false
	}
}

// IsObject reports whether value is one of the supported object shapes.
func IsObject(value any) bool {
	switch typed := value.(type) {
	case *Object:
		return typed != nil
	case map[string]any:
		return true
	default:
		return false
	}
}

// Get returns the member stored under the exact key.
func Get(value any, key string) (any, bool) {
	switch typed := value.(type) {
	case *Object:
		if typed == nil {
			return nil, false
		}
		return typed.Get(key)
	case map[string]any:
		v, ok := typed[key]
		return v, ok
	default:
		return nil, false
	}
}

// Len reports the member count of an object or the element count of an array.
func Len(value any) int {
	switch typed := value.(type) {
	case *Object:
		if typed == nil {
			return 0
		}
		return typed.Len()
	case map[string]any:
		return len(typed)
	case []any:
		return len(typed)
	default:
		return 0
	}
}
