package flow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formflow/pkg/source"
)

// ErrEmptyDocument is returned for documents with no content.
var ErrEmptyDocument = errors.New("flow: document is empty")

// LoadFile reads and parses a JSON or YAML flow document from disk.
func LoadFile(path string) (*Flow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("flow: read %s: %w", path, err)
	}
	f, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Load reads a flow document from src. A nil fetcher uses the defaults of
// source.NewFetcher.
func Load(ctx context.Context, fetcher *source.Fetcher, src source.Source) (*Flow, error) {
	if src == nil {
		return nil, errors.New("flow: source is nil")
	}
	if fetcher == nil {
		fetcher = source.NewFetcher()
	}
	data, err := fetcher.Read(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("flow: load: %w", err)
	}
	return Parse(data, src.Location())
}

// Parse decodes data as JSON, falling back to YAML, and normalises the result:
// ids are trimmed, missing step ids are generated, step kinds are inferred and
// Start defaults to the first step.
func Parse(data []byte, name string) (*Flow, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, name)
	}

	var f Flow
	if err := json.Unmarshal(data, &f); err != nil {
		f = Flow{}
		if yamlErr := yaml.Unmarshal(data, &f); yamlErr != nil {
			return nil, fmt.Errorf("flow: parse %s: invalid JSON or YAML: %w", name, yamlErr)
		}
	}

	f.Source = name
	normalise(&f)
	return &f, nil
}

func normalise(f *Flow) {
	f.ID = strings.TrimSpace(f.ID)
	f.Start = strings.TrimSpace(f.Start)

	for i := range f.Steps {
		step := &f.Steps[i]
		step.ID = strings.TrimSpace(step.ID)
		if step.ID == "" {
			step.ID = "step-" + uuid.NewString()
		}
		step.Kind = StepKind(strings.ToLower(strings.TrimSpace(string(step.Kind))))
		if step.Kind == "" {
			step.Kind = StepKindForm
			if len(step.Fields) == 0 && len(step.Branches) > 0 {
				step.Kind = StepKindDecision
			}
		}
		step.Next = strings.TrimSpace(step.Next)
		step.Default = strings.TrimSpace(step.Default)
		for j := range step.Branches {
			step.Branches[j].Target = strings.TrimSpace(step.Branches[j].Target)
		}
		for j := range step.Fields {
			step.Fields[j].ID = strings.TrimSpace(step.Fields[j].ID)
		}
	}

	if f.Start == "" && len(f.Steps) > 0 {
		f.Start = f.Steps[0].ID
	}
}
