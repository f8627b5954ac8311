package formflow_test

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow"
	"github.com/goliatone/go-formflow/pkg/binding"
	"github.com/goliatone/go-formflow/pkg/orchestrator"
)

func TestBindJSON(t *testing.T) {
	t.Parallel()

	fields := []formflow.FieldDescriptor{
		{ID: "country", Type: binding.FieldTypeSelect, ExternalDataPath: "countries"},
	}
	result, err := formflow.BindJSON([]byte(`{"countries":["DE","FR"]}`), fields)
	if err != nil {
		t.Fatalf("BindJSON: %v", err)
	}

	want := []binding.Option{{Value: "DE", Label: "DE"}, {Value: "FR", Label: "FR"}}
	if diff := cmp.Diff(want, result.SelectOptions["country"]); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadAndPrefillFlow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f, err := formflow.LoadFlow(ctx, "onboarding.yaml", filepath.Join("pkg", "flow", "testdata"))
	if err != nil {
		t.Fatalf("LoadFlow: %v", err)
	}
	if f.ID != "onboarding" {
		t.Fatalf("flow id = %q", f.ID)
	}

	if _, err := formflow.LoadFlow(ctx, "invalid.yaml", filepath.Join("pkg", "flow", "testdata")); err == nil {
		t.Fatalf("expected invalid flow to fail validation")
	}

	// Point the profile step at a closed port so it falls back to demo data.
	profile, _ := f.Step("profile")
	profile.DataSource.URL = "http://127.0.0.1:1/profile"

	p, err := formflow.PrefillFlow(ctx, f, orchestrator.WithBaseDir(filepath.Join("pkg", "flow", "testdata")))
	if err != nil {
		t.Fatalf("PrefillFlow: %v", err)
	}
	if p.Steps["profile"].Fallback == nil {
		t.Fatalf("expected profile to fall back to demo data")
	}
	want := []binding.Option{{Value: "DE", Label: "Germany"}, {Value: "FR", Label: "France"}}
	if diff := cmp.Diff(want, p.Result("profile").SelectOptions["country"]); diff != "" {
		t.Fatalf("country options mismatch (-want +got):\n%s", diff)
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	t.Parallel()

	if _, err := fs.ReadFile(formflow.EmbeddedTemplates(), "flow.tpl"); err != nil {
		t.Fatalf("expected flow template to be readable: %v", err)
	}
}
