package html

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formflow/pkg/binding"
	"github.com/goliatone/go-formflow/pkg/flow"
)

// DefaultTemplate names the page template inside the template filesystem.
const DefaultTemplate = "flow.tpl"

// Option configures a Renderer.
type Option func(*config)

type config struct {
	templates fs.FS
	name      string
	hidden    map[string]string
}

// WithTemplatesFS loads templates from files instead of the embedded set.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// WithTemplate selects the page template by name.
func WithTemplate(name string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cfg.name = trimmed
		}
	}
}

// Renderer turns a flow and its field views into an HTML page.
type Renderer struct {
	tmpl   *pongo2.Template
	hidden []HiddenField
}

// New parses the page template once so Render can be called concurrently.
func New(options ...Option) (*Renderer, error) {
	cfg := &config{name: DefaultTemplate}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	if cfg.templates == nil {
		cfg.templates = TemplatesFS()
	}

	set := pongo2.NewSet("formflow", pongo2.NewFSLoader(cfg.templates))
	tmpl, err := set.FromFile(cfg.name)
	if err != nil {
		return nil, fmt.Errorf("html: load template %q: %w", cfg.name, err)
	}
	return &Renderer{tmpl: tmpl, hidden: sortedHidden(cfg.hidden)}, nil
}

// Render writes the preview of f to w. views may be nil, in which case every
// field shows its designed state.
func (r *Renderer) Render(w io.Writer, f *flow.Flow, views flow.ViewProvider) error {
	if r == nil || r.tmpl == nil {
		return errors.New("html: renderer is nil")
	}
	if f == nil {
		return errors.New("html: flow is nil")
	}
	if views == nil {
		views = flow.ResultViews{}
	}

	page := buildPage(f, views)
	page["hidden"] = r.hidden
	if err := r.tmpl.ExecuteWriter(page, w); err != nil {
		return fmt.Errorf("html: render flow %q: %w", f.ID, err)
	}
	return nil
}

type stepView struct {
	ID          string
	Kind        string
	Title       string
	Description string
	Start       bool
	Notices     []string
	Fields      []fieldView
	Branches    []flow.Branch
	Next        string
}

type fieldView struct {
	ID           string
	Label        string
	InputType    string
	Placeholder  string
	Required     bool
	Select       bool
	Value        string
	Prefilled    bool
	OptionsBound bool
	Options      []optionView
}

type optionView struct {
	Value    string
	Label    string
	Selected bool
}

func buildPage(f *flow.Flow, views flow.ViewProvider) pongo2.Context {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		name = f.ID
	}

	steps := make([]stepView, 0, len(f.Steps))
	for _, step := range f.Steps {
		kind := step.Kind
		if kind == "" {
			kind = flow.StepKindForm
		}
		sv := stepView{
			ID:          step.ID,
			Kind:        string(kind),
			Title:       step.Title,
			Description: step.Description,
			Start:       step.ID == f.Start,
			Notices:     stepNotices(views, step.ID),
			Branches:    step.Branches,
			Next:        step.Next,
		}
		if step.IsDecision() {
			sv.Next = step.Default
		} else {
			for _, view := range views.Views(step) {
				sv.Fields = append(sv.Fields, buildField(view))
			}
		}
		steps = append(steps, sv)
	}

	return pongo2.Context{
		"flow": map[string]any{
			"ID":          f.ID,
			"Name":        name,
			"Description": f.Description,
		},
		"steps": steps,
	}
}

func buildField(view flow.FieldView) fieldView {
	field := view.Field
	label := strings.TrimSpace(field.Label)
	if label == "" {
		label = field.ID
	}

	out := fieldView{
		ID:           field.ID,
		Label:        label,
		InputType:    "text",
		Placeholder:  field.Placeholder,
		Required:     field.Required,
		Prefilled:    view.Prefilled,
		OptionsBound: view.OptionsBound,
	}

	current := view.Text()
	out.Value = sanitizeText(current)

	switch field.Type.Normalize() {
	case binding.FieldTypeNumber:
		out.InputType = "number"
	case binding.FieldTypeSelect:
		if len(view.Options) == 0 {
			break
		}
		out.Select = true
		out.Options = make([]optionView, 0, len(view.Options))
		for _, option := range view.Options {
			label := option.Label
			if label == "" {
				label = option.Value
			}
			out.Options = append(out.Options, optionView{
				Value:    sanitizeText(option.Value),
				Label:    sanitizeText(label),
				Selected: view.HasValue && option.Value == current,
			})
		}
	}
	return out
}
