package binding_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/binding"
)

func TestSanitize_CollapsesNamingConventions(t *testing.T) {
	t.Parallel()

	want := binding.Sanitize("Field Name")
	for _, input := range []string{"field_name", "fieldName", "field-name", "FIELD NAME", " field__name "} {
		if got := binding.Sanitize(input); got != want {
			t.Fatalf("Sanitize(%q) = %q, want %q", input, got, want)
		}
	}
	if want != "fieldname" {
		t.Fatalf("Sanitize(%q) = %q, want %q", "Field Name", want, "fieldname")
	}
}

func TestVariants(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input string
		want  []string
	}{
		{
			input: "Field Name",
			want:  []string{"Field Name", "field name", "FieldName", "Field_Name", "fieldName", "fieldname"},
		},
		{
			input: "  qty ",
			want:  []string{"qty"},
		},
		{
			input: "first-name_x",
			want:  []string{"first-name_x", "firstnamex", "first_name_x", "firstNameX"},
		},
		{
			input: "_éx",
			want:  []string{"_éx", "éx", "Éx"},
		},
		{
			input: "   ",
			want:  nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got := binding.Variants(tc.input)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("Variants(%q) mismatch (-want +got):\n%s", tc.input, diff)
			}
		})
	}
}

func TestVariants_Stable(t *testing.T) {
	t.Parallel()

	first := binding.Variants("Shipping Address-Line")
	second := binding.Variants("Shipping Address-Line")
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("variants differ between calls (-first +second):\n%s", diff)
	}
}

func TestFieldVariants_MergesIDAndLabel(t *testing.T) {
	t.Parallel()

	got := binding.FieldVariants(binding.FieldDescriptor{ID: "qty", Label: "Order Qty"})
	want := []string{"qty", "Order Qty", "order qty", "OrderQty", "Order_Qty", "orderQty", "orderqty"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("FieldVariants mismatch (-want +got):\n%s", diff)
	}
}
