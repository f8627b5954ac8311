package flow

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-formflow/pkg/flow/condition"
)

// ErrInvalid wraps every validation failure reported by Validate.
var ErrInvalid = errors.New("flow: invalid")

// Validate checks the structural integrity of f. All problems are reported
// together; errors.Is(err, ErrInvalid) holds for the result.
func Validate(f *Flow) error {
	if f == nil {
		return fmt.Errorf("%w: flow is nil", ErrInvalid)
	}

	var problems []error
	report := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if len(f.Steps) == 0 {
		report("flow has no steps")
	}

	steps := make(map[string]struct{}, len(f.Steps))
	for _, step := range f.Steps {
		if _, dup := steps[step.ID]; dup {
			report("duplicate step id %q", step.ID)
		}
		steps[step.ID] = struct{}{}
	}
	target := func(stepID, role, id string) {
		if id == "" {
			return
		}
		if _, ok := steps[id]; !ok {
			report("step %q: %s target %q does not exist", stepID, role, id)
		}
	}

	if _, ok := steps[f.Start]; f.Start != "" && !ok {
		report("start step %q does not exist", f.Start)
	}

	fieldOwners := make(map[string]string)
	for _, step := range f.Steps {
		switch step.Kind {
		case StepKindForm, "":
			if len(step.Branches) > 0 {
				report("step %q: form steps route with next, not branches", step.ID)
			}
		case StepKindDecision:
			if len(step.Fields) > 0 {
				report("step %q: decision steps cannot have fields", step.ID)
			}
			if step.DataSource != nil {
				report("step %q: decision steps cannot have a data source", step.ID)
			}
			if step.Next != "" {
				report("step %q: decision steps route with branches, not next", step.ID)
			}
			if len(step.Branches) == 0 && step.Default == "" {
				report("step %q: decision step needs branches or a default", step.ID)
			}
		default:
			report("step %q: unknown kind %q", step.ID, step.Kind)
		}

		for _, field := range step.Fields {
			if field.ID == "" {
				report("step %q: field %q has no id", step.ID, field.Label)
				continue
			}
			if owner, dup := fieldOwners[field.ID]; dup {
				report("step %q: field id %q already used in step %q", step.ID, field.ID, owner)
			} else {
				fieldOwners[field.ID] = step.ID
			}
			if !field.Type.Valid() {
				report("step %q: field %q has unknown type %q", step.ID, field.ID, field.Type)
			}
		}

		for i, branch := range step.Branches {
			if branch.Target == "" {
				report("step %q: branch %d has no target", step.ID, i)
			}
			target(step.ID, "branch", branch.Target)
			if _, err := condition.Compile(branch.Condition); err != nil {
				report("step %q: branch %d: %v", step.ID, i, err)
			}
		}
		target(step.ID, "next", step.Next)
		target(step.ID, "default", step.Default)

		if ds := step.DataSource; ds != nil {
			if strings.TrimSpace(ds.URL) == "" && !ds.HasDemo() {
				report("step %q: data source needs a url or demo data", step.ID)
			}
			switch strings.ToUpper(strings.TrimSpace(ds.Method)) {
			case "", http.MethodGet, http.MethodPost:
			default:
				report("step %q: unsupported data source method %q", step.ID, ds.Method)
			}
		}
	}

	return errors.Join(problems...)
}
