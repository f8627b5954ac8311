package flow_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/binding"
	"github.com/goliatone/go-formflow/pkg/flow"
	"github.com/goliatone/go-formflow/pkg/source"
)

func TestLoadFile_YAML(t *testing.T) {
	t.Parallel()

	f, err := flow.LoadFile(filepath.Join("testdata", "onboarding.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if f.ID != "onboarding" || f.Name != "Customer onboarding" {
		t.Fatalf("unexpected flow header: %q %q", f.ID, f.Name)
	}
	if f.Start != "profile" {
		t.Fatalf("Start = %q, want %q", f.Start, "profile")
	}
	if len(f.Steps) != 5 {
		t.Fatalf("len(Steps) = %d, want 5", len(f.Steps))
	}

	profile, ok := f.Step("profile")
	if !ok {
		t.Fatalf("profile step missing")
	}
	if profile.Kind != flow.StepKindForm {
		t.Fatalf("profile kind = %q, want form", profile.Kind)
	}
	if profile.DataSource == nil {
		t.Fatalf("profile data source missing")
	}
	if got := profile.DataSource.Timeout.Std(); got != 2*time.Second {
		t.Fatalf("timeout = %v, want 2s", got)
	}
	if profile.DataSource.DemoFile != "profile.demo.json" {
		t.Fatalf("demoFile = %q", profile.DataSource.DemoFile)
	}

	wantCountry := binding.FieldDescriptor{
		ID:                    "country",
		Label:                 "Country",
		Type:                  binding.FieldTypeSelect,
		ExternalDataPath:      "countries[].name",
		ExternalDataValuePath: "countries[].code",
		Options:               []binding.Option{{Value: "US", Label: "United States"}},
	}
	if diff := cmp.Diff(wantCountry, profile.Fields[1]); diff != "" {
		t.Fatalf("country field mismatch (-want +got):\n%s", diff)
	}

	route, _ := f.Step("route")
	if !route.IsDecision() || len(route.Branches) != 2 || route.Default != "done" {
		t.Fatalf("unexpected route step: %+v", route)
	}

	if err := flow.Validate(f); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestParse_JSONNormalises(t *testing.T) {
	t.Parallel()

	f, err := flow.LoadFile(filepath.Join("testdata", "minimal.json"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	first, second := f.Steps[0], f.Steps[1]
	if !strings.HasPrefix(first.ID, "step-") || !strings.HasPrefix(second.ID, "step-") {
		t.Fatalf("expected generated ids, got %q and %q", first.ID, second.ID)
	}
	if first.ID == second.ID {
		t.Fatalf("generated ids must be unique")
	}
	if f.Start != first.ID {
		t.Fatalf("Start = %q, want first step %q", f.Start, first.ID)
	}
	if first.Kind != flow.StepKindForm || second.Kind != flow.StepKindDecision {
		t.Fatalf("kinds = %q, %q", first.Kind, second.Kind)
	}
	if first.Fields[0].ID != "email" {
		t.Fatalf("field id = %q, want trimmed", first.Fields[0].ID)
	}
	if f.Source != filepath.Join("testdata", "minimal.json") {
		t.Fatalf("Source = %q", f.Source)
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	if _, err := flow.Parse([]byte("  \n"), "empty.yaml"); !errors.Is(err, flow.ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
	if _, err := flow.Parse([]byte("steps: [unclosed"), "broken.yaml"); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := flow.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestParse_DurationForms(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		doc  string
		want time.Duration
	}{
		{name: "json string", doc: `{"steps":[{"id":"a","dataSource":{"url":"https://x.test","timeout":"1m30s"}}]}`, want: 90 * time.Second},
		{name: "json millis", doc: `{"steps":[{"id":"a","dataSource":{"url":"https://x.test","timeout":250}}]}`, want: 250 * time.Millisecond},
		{name: "yaml millis", doc: "steps:\n  - id: a\n    dataSource:\n      url: https://x.test\n      timeout: 1500\n", want: 1500 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := flow.Parse([]byte(tc.doc), tc.name)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got := f.Steps[0].DataSource.Timeout.Std(); got != tc.want {
				t.Fatalf("timeout = %v, want %v", got, tc.want)
			}
		})
	}

	if _, err := flow.Parse([]byte(`{"steps":[{"dataSource":{"timeout":"soon"}}]}`), "bad"); err == nil {
		t.Fatalf("expected invalid duration error")
	}
}

func TestLoad_FromURL(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("name: remote\nsteps:\n  - id: only\n"))
	}))
	defer server.Close()

	fetcher := source.NewFetcher(source.WithHTTPClient(server.Client()))
	f, err := flow.Load(context.Background(), fetcher, source.SourceFromURL(server.URL+"/flow.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Name != "remote" || f.Start != "only" {
		t.Fatalf("unexpected flow: %+v", f)
	}
}
