// Package formflow is the entry point for binding external data to form
// flows. It re-exports the common types and wires the default pipeline so
// callers can start without importing every sub-package.
package formflow

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-formflow/pkg/binding"
	"github.com/goliatone/go-formflow/pkg/flow"
	"github.com/goliatone/go-formflow/pkg/orchestrator"
	"github.com/goliatone/go-formflow/pkg/render/html"
	"github.com/goliatone/go-formflow/pkg/source"
)

// FieldDescriptor aliases binding.FieldDescriptor.
type FieldDescriptor = binding.FieldDescriptor

// Result aliases binding.Result.
type Result = binding.Result

// Flow aliases flow.Flow.
type Flow = flow.Flow

// Prefill aliases orchestrator.Prefill.
type Prefill = orchestrator.Prefill

// Bind resolves initial values and select options for fields from an already
// decoded payload.
func Bind(payload any, fields []FieldDescriptor) Result {
	return binding.Bind(payload, fields)
}

// BindJSON decodes data preserving member order and binds fields against it.
func BindJSON(data []byte, fields []FieldDescriptor) (Result, error) {
	return binding.BindJSON(data, fields)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// LoadFlow reads a flow document from a path or URL and validates it.
// Relative paths resolve against baseDir.
func LoadFlow(ctx context.Context, location, baseDir string) (*Flow, error) {
	src, err := source.Parse(location, baseDir)
	if err != nil {
		return nil, err
	}
	f, err := flow.Load(ctx, nil, src)
	if err != nil {
		return nil, err
	}
	if err := flow.Validate(f); err != nil {
		return nil, err
	}
	return f, nil
}

// PrefillFlow fetches and binds every step of f with a default orchestrator
// configured by options.
func PrefillFlow(ctx context.Context, f *Flow, options ...orchestrator.Option) (Prefill, error) {
	return orchestrator.New(options...).Prefill(ctx, f)
}

// EmbeddedTemplates exposes the built-in preview templates so callers can
// reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}
