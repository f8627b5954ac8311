package flow

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formflow/pkg/binding"
)

// StepKind distinguishes form steps from decision steps.
type StepKind string

const (
	StepKindForm     StepKind = "form"
	StepKindDecision StepKind = "decision"
)

// Flow is a designed sequence of steps.
type Flow struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Start       string `json:"start,omitempty" yaml:"start,omitempty"`
	Steps       []Step `json:"steps" yaml:"steps"`

	// Source records where the flow was loaded from.
	Source string `json:"-" yaml:"-"`
}

// Step is a single node of a flow.
type Step struct {
	ID          string                    `json:"id" yaml:"id"`
	Kind        StepKind                  `json:"kind,omitempty" yaml:"kind,omitempty"`
	Title       string                    `json:"title,omitempty" yaml:"title,omitempty"`
	Description string                    `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []binding.FieldDescriptor `json:"fields,omitempty" yaml:"fields,omitempty"`
	DataSource  *DataSource               `json:"dataSource,omitempty" yaml:"dataSource,omitempty"`
	Next        string                    `json:"next,omitempty" yaml:"next,omitempty"`
	Branches    []Branch                  `json:"branches,omitempty" yaml:"branches,omitempty"`
	Default     string                    `json:"default,omitempty" yaml:"default,omitempty"`
}

// Branch routes a decision step to Target when Condition holds.
type Branch struct {
	Condition string `json:"condition" yaml:"condition"`
	Target    string `json:"target" yaml:"target"`
}

// DataSource configures where a form step's external payload comes from.
type DataSource struct {
	URL     string            `json:"url,omitempty" yaml:"url,omitempty"`
	Method  string            `json:"method,omitempty" yaml:"method,omitempty"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Timeout Duration          `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	// Demo is inline sample data used when URL is unset or unreachable.
	Demo any `json:"demo,omitempty" yaml:"demo,omitempty"`
	// DemoFile points at sample data on disk, relative to the flow file.
	DemoFile string `json:"demoFile,omitempty" yaml:"demoFile,omitempty"`
}

// HasDemo reports whether demo data is configured.
func (d DataSource) HasDemo() bool {
	return d.Demo != nil || strings.TrimSpace(d.DemoFile) != ""
}

// IsForm reports whether the step collects fields.
func (s Step) IsForm() bool {
	return s.Kind == StepKindForm || s.Kind == ""
}

// IsDecision reports whether the step only routes.
func (s Step) IsDecision() bool {
	return s.Kind == StepKindDecision
}

// Step returns the step with the given id.
func (f *Flow) Step(id string) (*Step, bool) {
	if f == nil {
		return nil, false
	}
	for i := range f.Steps {
		if f.Steps[i].ID == id {
			return &f.Steps[i], true
		}
	}
	return nil, false
}

// FormSteps returns the form steps in declaration order.
func (f *Flow) FormSteps() []*Step {
	if f == nil {
		return nil
	}
	var out []*Step
	for i := range f.Steps {
		if f.Steps[i].IsForm() {
			out = append(out, &f.Steps[i])
		}
	}
	return out
}

// Duration accepts Go duration strings ("5s", "1m30s") or a number of
// milliseconds in JSON and YAML documents.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("flow: duration: %w", err)
	}
	return d.set(raw)
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("flow: duration at line %d must be a scalar", node.Line)
	}
	if node.Tag == "!!int" || node.Tag == "!!float" {
		var ms float64
		if err := node.Decode(&ms); err != nil {
			return fmt.Errorf("flow: duration at line %d: %w", node.Line, err)
		}
		return d.set(ms)
	}
	return d.set(node.Value)
}

func (d *Duration) set(raw any) error {
	switch v := raw.(type) {
	case nil:
		*d = 0
	case float64:
		if v < 0 {
			return fmt.Errorf("flow: duration %v must not be negative", v)
		}
		*d = Duration(time.Duration(v * float64(time.Millisecond)))
	case string:
		if strings.TrimSpace(v) == "" {
			*d = 0
			return nil
		}
		parsed, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("flow: duration %q: %w", v, err)
		}
		if parsed < 0 {
			return fmt.Errorf("flow: duration %q must not be negative", v)
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("flow: unsupported duration value %v", raw)
	}
	return nil
}
