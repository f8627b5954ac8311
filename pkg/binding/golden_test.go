package binding_test

import (
	"path/filepath"
	"testing"

	"github.com/goliatone/go-formflow/pkg/binding"
	"github.com/goliatone/go-formflow/pkg/testsupport"
)

func TestBind_Goldens(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"structural", "paths", "object"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			payload := testsupport.LoadPayload(t, filepath.Join("testdata", name+".payload.json"))
			fields := testsupport.LoadFields(t, filepath.Join("testdata", name+".fields.json"))
			goldenPath := filepath.Join("testdata", name+".golden.json")

			got := binding.Bind(payload, fields)
			testsupport.WriteGolden(t, goldenPath, got)

			want := testsupport.MustLoadResult(t, goldenPath)
			if diff := testsupport.CompareGolden(want, got); diff != "" {
				t.Fatalf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
