package binding_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/binding"
)

func TestParsePath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		expr string
		want []binding.Segment
	}{
		{
			expr: "$.data.items[].value",
			want: []binding.Segment{{Key: "data"}, {Key: "items"}, {Flatten: true}, {Key: "value"}},
		},
		{
			expr: `a["b.c"]['d'][0]`,
			want: []binding.Segment{{Key: "a"}, {Key: "b.c"}, {Key: "d"}, {Key: "0"}},
		},
		{
			expr: "$$..a..b",
			want: []binding.Segment{{Key: "a"}, {Key: "b"}},
		},
		{
			expr: "[ ] [ 'Field Name' ]",
			want: []binding.Segment{{Flatten: true}, {Key: " "}, {Key: "Field Name"}},
		},
		{expr: "", want: nil},
		{expr: "$$$", want: nil},
		{expr: "a[", want: nil},
		{expr: `a["b]`, want: nil},
		{expr: `a['b'x]`, want: nil},
	}

	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			got := binding.ParsePath(tc.expr)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("ParsePath(%q) mismatch (-want +got):\n%s", tc.expr, diff)
			}
		})
	}
}

func TestResolvePath(t *testing.T) {
	t.Parallel()

	payload := mustDecode(t, `{
		"data": {"items": [{"value": 1}, {"value": 2}, {"x": 3}]},
		"a": {"b": ["x", "y"]},
		"groups": [{"opts": ["a", "b"]}, {"opts": ["c"]}, {"none": 1}],
		"Profile": {"Field Name": 3},
		"n": 7
	}`)

	cases := []struct {
		name   string
		expr   string
		want   any
		wantOK bool
	}{
		{name: "flatten collects values", expr: "data.items[].value", want: []any{float64(1), float64(2)}, wantOK: true},
		{name: "bracket index", expr: "a.b[0]", want: "x", wantOK: true},
		{name: "dotted index", expr: "a.b.1", want: "y", wantOK: true},
		{name: "index out of range", expr: "a.b[5]"},
		{name: "negative index", expr: "a.b[-1]"},
		{name: "fractional index", expr: "a.b[1.5]"},
		{name: "non numeric index", expr: "a.b.first"},
		{name: "hex index", expr: "a.b.0x1"},
		{name: "step into scalar", expr: "n.value"},
		{name: "step into string", expr: "a.b[0].length"},
		{name: "flatten concatenates nested arrays", expr: "groups[].opts", want: []any{"a", "b", "c"}, wantOK: true},
		{name: "flatten with nothing left", expr: "groups[].missing"},
		{name: "flatten on object", expr: "data[]"},
		{name: "case and separator insensitive keys", expr: "profile.field_name", want: float64(3), wantOK: true},
		{name: "quoted key", expr: `$['Profile']["Field Name"]`, want: float64(3), wantOK: true},
		{name: "malformed", expr: "data[", wantOK: false},
		{name: "blank", expr: "   ", wantOK: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := binding.ResolvePath(payload, tc.expr)
			if ok != tc.wantOK {
				t.Fatalf("ResolvePath(%q) ok = %v, want %v (value %#v)", tc.expr, ok, tc.wantOK, got)
			}
			if !ok {
				return
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("ResolvePath(%q) mismatch (-want +got):\n%s", tc.expr, diff)
			}
		})
	}
}

func TestEvaluatePath_EmptySegmentsReturnsInput(t *testing.T) {
	t.Parallel()

	got, ok := binding.EvaluatePath("scalar", nil)
	if !ok || got != "scalar" {
		t.Fatalf("EvaluatePath = (%v, %v), want (scalar, true)", got, ok)
	}
}

func TestResolvePath_FlattenKeepsNullElements(t *testing.T) {
	t.Parallel()

	payload := mustDecode(t, `[{"v": null}, {"v": "a"}, {}]`)
	got, ok := binding.ResolvePath(payload, "[].v")
	if !ok {
		t.Fatalf("expected flatten to resolve")
	}
	if diff := cmp.Diff([]any{nil, "a"}, got); diff != "" {
		t.Fatalf("flatten mismatch (-want +got):\n%s", diff)
	}
}
