package condition_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/goliatone/go-formflow/pkg/flow/condition"
	"github.com/goliatone/go-formflow/pkg/jsonvalue"
)

func TestEvaluate(t *testing.T) {
	t.Parallel()

	values := map[string]any{
		"plan":       "pro",
		"seats":      float64(12),
		"age":        "36",
		"newsletter": true,
		"optOut":     false,
		"empty":      "",
		"tags":       []any{"a"},
		"address":    map[string]any{"country": "DE", "zip": "10115"},
		"a.b":        "dotted",
		"nothing":    nil,
	}

	cases := []struct {
		expr string
		want bool
	}{
		{expr: "", want: true},
		{expr: "   ", want: true},
		{expr: "newsletter", want: true},
		{expr: "!optOut", want: true},
		{expr: "empty", want: false},
		{expr: "missing", want: false},
		{expr: "tags", want: true},
		{expr: `plan == "pro"`, want: true},
		{expr: `plan == 'pro'`, want: true},
		{expr: `plan != "pro"`, want: false},
		{expr: "seats >= 10", want: true},
		{expr: "seats > 12", want: false},
		{expr: "seats <= 12", want: true},
		{expr: "seats < 12.5", want: true},
		{expr: "age == 36", want: true},
		{expr: "age > 30", want: true},
		{expr: "newsletter == true", want: true},
		{expr: `newsletter == "true"`, want: true},
		{expr: "optOut == false", want: true},
		{expr: "nothing == null", want: true},
		{expr: "missing == null", want: true},
		{expr: "plan != null", want: true},
		{expr: `address.country == "DE"`, want: true},
		{expr: `address.city == null`, want: true},
		{expr: `a.b == "dotted"`, want: true},
		{expr: `plan == "pro" && seats >= 10`, want: true},
		{expr: `plan == "basic" || seats > 100`, want: false},
		{expr: `!(address.country == "DE" || address.country == "AT")`, want: false},
		{expr: `plan == "basic" || plan == "pro" && newsletter`, want: true},
		{expr: `(plan == "basic" || plan == "pro") && optOut`, want: false},
		{expr: `plan < "zzz"`, want: true},
		{expr: `plan < 3`, want: false},
		{expr: `seats == age`, want: false},
		{expr: `TRUE`, want: true},
	}

	for _, tc := range cases {
		got, err := condition.Evaluate(tc.expr, values)
		if err != nil {
			t.Fatalf("Evaluate(%q) error: %v", tc.expr, err)
		}
		if got != tc.want {
			t.Fatalf("Evaluate(%q) = %v, want %v", tc.expr, got, tc.want)
		}
	}
}

func TestEvaluate_OrderedObjects(t *testing.T) {
	t.Parallel()

	payload, err := jsonvalue.Decode([]byte(`{"country": {"code": "FR"}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	values := map[string]any{"lookup": payload}

	ok, err := condition.Evaluate(`lookup.country.code == "FR"`, values)
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if !ok {
		t.Fatalf("expected nested ordered object lookup to match")
	}
}

func TestCompile_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		expr    string
		message string
	}{
		{expr: "a = 1", message: "use '=='"},
		{expr: "a & b", message: "use '&&'"},
		{expr: "a | b", message: "use '||'"},
		{expr: `a == "open`, message: "unterminated string"},
		{expr: "(a == 1", message: "missing ')'"},
		{expr: "a ==", message: "unexpected end"},
		{expr: "a b", message: `unexpected "b"`},
		{expr: "&& a", message: `unexpected "&&"`},
		{expr: "a == 1)", message: `unexpected ")"`},
	}

	for _, tc := range cases {
		_, err := condition.Compile(tc.expr)
		if err == nil {
			t.Fatalf("Compile(%q) expected error", tc.expr)
		}
		if !strings.Contains(err.Error(), tc.message) {
			t.Fatalf("Compile(%q) error = %q, want it to contain %q", tc.expr, err, tc.message)
		}
	}
}

func TestExpression_String(t *testing.T) {
	t.Parallel()

	expr, err := condition.Compile("  seats > 1 ")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if got := expr.String(); got != "seats > 1" {
		t.Fatalf("String() = %q, want %q", got, "seats > 1")
	}
}

func TestEvaluator_Concurrent(t *testing.T) {
	t.Parallel()

	var eval condition.Evaluator
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := eval.Evaluate("n >= 8", map[string]any{"n": float64(i)})
			if err != nil {
				errs <- err
				return
			}
			if ok != (i >= 8) {
				errs <- fmt.Errorf("n >= 8 with n=%d evaluated to %v", i, ok)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}

	if _, err := eval.Evaluate("a ==", nil); err == nil {
		t.Fatalf("expected compile error from evaluator")
	}
}
