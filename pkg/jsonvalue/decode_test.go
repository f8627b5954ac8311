package jsonvalue_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/jsonvalue"
)

func TestDecode_PreservesMemberOrder(t *testing.T) {
	t.Parallel()

	value, err := jsonvalue.Decode([]byte(`{"zeta": 1, "alpha": "a", "mid": [true, null]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	members, ok := jsonvalue.Members(value)
	if !ok {
		t.Fatalf("expected object, got %T", value)
	}

	var keys []string
	for _, member := range members {
		keys = append(keys, member.Key)
	}
	if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, keys); diff != "" {
		t.Fatalf("key order mismatch (-want +got):\n%s", diff)
	}

	if got, _ := jsonvalue.Get(value, "zeta"); got != float64(1) {
		t.Fatalf("zeta = %#v, want 1", got)
	}
	mid, _ := jsonvalue.Get(value, "mid")
	if diff := cmp.Diff([]any{true, nil}, mid); diff != "" {
		t.Fatalf("mid mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Scalars(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input string
		want  any
	}{
		{input: `"caf\u00e9 \"x\""`, want: `café "x"`},
		{input: `42`, want: float64(42)},
		{input: `-1.5e2`, want: float64(-150)},
		{input: `false`, want: false},
		{input: `null`, want: nil},
	}
	for _, tc := range cases {
		got, err := jsonvalue.Decode([]byte(tc.input))
		if err != nil {
			t.Fatalf("decode %s: %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("decode %s = %#v, want %#v", tc.input, got, tc.want)
		}
	}
}

func TestDecode_NestedArrays(t *testing.T) {
	t.Parallel()

	value, err := jsonvalue.Decode([]byte(` [ [1, "two"], [], {"k": "v"} ] `))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	items, ok := value.([]any)
	if !ok || len(items) != 3 {
		t.Fatalf("expected three items, got %#v", value)
	}
	if diff := cmp.Diff([]any{float64(1), "two"}, items[0]); diff != "" {
		t.Fatalf("first item mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{}, items[1]); diff != "" {
		t.Fatalf("second item mismatch (-want +got):\n%s", diff)
	}
	if got, _ := jsonvalue.Get(items[2], "k"); got != "v" {
		t.Fatalf("k = %#v, want v", got)
	}
}

func TestDecode_OutOfRangeNumbers(t *testing.T) {
	t.Parallel()

	value, err := jsonvalue.Decode([]byte(`[1e400, 1]`))
	if err != nil {
		t.Fatalf("decode array: %v", err)
	}
	if diff := cmp.Diff([]any{math.Inf(1), float64(1)}, value); diff != "" {
		t.Fatalf("array mismatch (-want +got):\n%s", diff)
	}

	value, err = jsonvalue.Decode([]byte(`{"z": -1e400, "tiny": 1e-400, "nested": {"n": [2]}, "a": "x"}`))
	if err != nil {
		t.Fatalf("decode object: %v", err)
	}
	members, ok := jsonvalue.Members(value)
	if !ok {
		t.Fatalf("expected object, got %#v", value)
	}
	keys := make([]string, 0, len(members))
	for _, member := range members {
		keys = append(keys, member.Key)
	}
	if diff := cmp.Diff([]string{"z", "tiny", "nested", "a"}, keys); diff != "" {
		t.Fatalf("member order mismatch (-want +got):\n%s", diff)
	}
	if got, _ := jsonvalue.Get(value, "z"); got != math.Inf(-1) {
		t.Fatalf("z = %#v, want -Inf", got)
	}
	if got, _ := jsonvalue.Get(value, "tiny"); got != float64(0) {
		t.Fatalf("tiny = %#v, want 0", got)
	}
	nested, _ := jsonvalue.Get(value, "nested")
	if got, _ := jsonvalue.Get(nested, "n"); cmp.Diff([]any{float64(2)}, got) != "" {
		t.Fatalf("nested.n = %#v, want [2]", got)
	}
	if got, _ := jsonvalue.Get(value, "a"); got != "x" {
		t.Fatalf("a = %#v, want x", got)
	}
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	if _, err := jsonvalue.Decode([]byte("   ")); !errors.Is(err, jsonvalue.ErrEmpty) {
		t.Fatalf("empty payload error = %v, want ErrEmpty", err)
	}
	if _, err := jsonvalue.Decode([]byte(`{"a":`)); !errors.Is(err, jsonvalue.ErrInvalid) {
		t.Fatalf("truncated payload error = %v, want ErrInvalid", err)
	}
}

func TestMembers_PlainMapIsSorted(t *testing.T) {
	t.Parallel()

	members, ok := jsonvalue.Members(map[string]any{"b": 2, "a": 1})
	if !ok {
		t.Fatalf("expected plain map to be treated as object")
	}
	want := []jsonvalue.Member{{Key: "a", Value: 1}, {Key: "b", Value: 2}}
	if diff := cmp.Diff(want, members); diff != "" {
		t.Fatalf("members mismatch (-want +got):\n%s", diff)
	}

	if _, ok := jsonvalue.Members([]any{1}); ok {
		t.Fatalf("arrays must not report as objects")
	}
}
