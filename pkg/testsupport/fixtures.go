package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/binding"
	"github.com/goliatone/go-formflow/pkg/flow"
	"github.com/goliatone/go-formflow/pkg/jsonvalue"
)

// LoadPayload reads a JSON fixture with member order preserved.
func LoadPayload(t *testing.T, path string) any {
	t.Helper()

	payload, err := LoadPayloadFromPath(path)
	if err != nil {
		t.Fatalf("load payload: %v", err)
	}
	return payload
}

// LoadPayloadFromPath returns a decoded payload without requiring testing.T.
func LoadPayloadFromPath(path string) (any, error) {
	if path == "" {
		return nil, errors.New("testsupport: payload path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read payload: %w", err)
	}
	payload, err := jsonvalue.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("testsupport: decode payload: %w", err)
	}
	return payload, nil
}

// LoadFields reads a JSON array of field descriptors.
func LoadFields(t *testing.T, path string) []binding.FieldDescriptor {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fields: %v", err)
	}
	var fields []binding.FieldDescriptor
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal fields: %v", err)
	}
	return fields
}

// LoadFlow parses a flow fixture and fails the test on error.
func LoadFlow(t *testing.T, path string) *flow.Flow {
	t.Helper()

	f, err := flow.LoadFile(path)
	if err != nil {
		t.Fatalf("load flow: %v", err)
	}
	return f
}

// MustLoadResult loads a binding result golden.
func MustLoadResult(t *testing.T, path string) binding.Result {
	t.Helper()

	data := MustReadGolden(t, path)
	result := binding.NewResult()
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("unmarshal result golden: %v", err)
	}
	return result
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	WriteMaybeGolden(t, path, append(payload, '\n'))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written.
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a context cancelled when the test ends.
func Context(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
