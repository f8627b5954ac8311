package html_test

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formflow/pkg/binding"
	"github.com/goliatone/go-formflow/pkg/flow"
	"github.com/goliatone/go-formflow/pkg/render/html"
	"github.com/goliatone/go-formflow/pkg/testsupport"
)

func onboarding(t *testing.T) *flow.Flow {
	t.Helper()
	return testsupport.LoadFlow(t, "../../flow/testdata/onboarding.yaml")
}

func render(t *testing.T, f *flow.Flow, views flow.ViewProvider, options ...html.Option) string {
	t.Helper()
	renderer, err := html.New(options...)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, renderer.Render(&buf, f, views))
	return buf.String()
}

func TestRenderPrefilledFlow(t *testing.T) {
	t.Parallel()

	views := flow.ResultViews{
		"profile": {
			InitialValues: map[string]any{"firstName": "Ada"},
			SelectOptions: map[string][]binding.Option{
				"country": {
					{Value: "DE", Label: "Germany"},
					{Value: "FR", Label: "France"},
				},
			},
		},
	}
	out := render(t, onboarding(t), views)

	assert.Contains(t, out, "<h1>Customer onboarding</h1>")
	assert.Contains(t, out, `id="step-profile" data-start="true"`)
	assert.Contains(t, out, `<div class="formflow-field is-prefilled">`)
	assert.Contains(t, out, `<input id="firstName" name="firstName" type="text" value="Ada" required>`)
	assert.Contains(t, out, `<select id="country" name="country" data-bound="true">`)
	assert.Contains(t, out, `<option value="DE">Germany</option>`)
	assert.NotContains(t, out, "United States")
	assert.Contains(t, out, `<input id="seats" name="seats" type="number" value="1">`)
	assert.Contains(t, out, `<code>seats &gt;= 10</code> go to <a href="#step-enterprise">enterprise</a>`)
	assert.Contains(t, out, `next: <a href="#step-done">done</a>`)
}

func TestRenderWithoutViewsUsesDesignedOptions(t *testing.T) {
	t.Parallel()

	out := render(t, onboarding(t), nil)

	assert.Contains(t, out, `<select id="country" name="country">`)
	assert.Contains(t, out, `<option value="US">United States</option>`)
	assert.Contains(t, out, `<input id="firstName" name="firstName" type="text" value="" required>`)
	assert.NotContains(t, out, "is-prefilled")
}

func TestRenderSanitizesExternalText(t *testing.T) {
	t.Parallel()

	f := &flow.Flow{
		ID:    "sanitize",
		Name:  "Sanitize",
		Start: "only",
		Steps: []flow.Step{{
			ID:   "only",
			Kind: flow.StepKindForm,
			Fields: []binding.FieldDescriptor{
				{ID: "company", Label: "Company"},
				{ID: "country", Label: "Country", Type: binding.FieldTypeSelect},
			},
		}},
	}
	views := flow.ResultViews{
		"only": {
			InitialValues: map[string]any{
				"company": "Ada & Co<script>alert(1)</script>",
				"country": "FR",
			},
			SelectOptions: map[string][]binding.Option{
				"country": {
					{Value: "DE", Label: "<b>Germany</b>"},
					{Value: "FR", Label: "France"},
				},
			},
		},
	}

	out := render(t, f, views)

	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "<b>")
	assert.Contains(t, out, `value="Ada &amp; Co"`)
	assert.Contains(t, out, `<option value="DE">Germany</option>`)
	assert.Contains(t, out, `<option value="FR" selected>France</option>`)
}

func TestRenderCustomTemplate(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{
		"page.tpl": {Data: []byte("{{ flow.ID }}:{% for step in steps %}{{ step.ID }},{% endfor %}")},
	}
	out := render(t, onboarding(t), nil, html.WithTemplatesFS(files), html.WithTemplate("page.tpl"))

	assert.Equal(t, "onboarding:profile,route,enterprise,gdpr,done,", strings.TrimSpace(out))
}

func TestNewMissingTemplate(t *testing.T) {
	t.Parallel()

	_, err := html.New(html.WithTemplatesFS(fstest.MapFS{}))
	require.Error(t, err)
}

func TestRenderNilFlow(t *testing.T) {
	t.Parallel()

	renderer, err := html.New()
	require.NoError(t, err)
	require.Error(t, renderer.Render(&bytes.Buffer{}, nil, nil))
}

type noticeViews struct {
	flow.ResultViews
	notices map[string][]string
}

func (v noticeViews) StepNotices(stepID string) []string {
	return v.notices[stepID]
}

func TestRenderStepNotices(t *testing.T) {
	t.Parallel()

	views := noticeViews{
		ResultViews: flow.ResultViews{},
		notices: map[string][]string{
			"profile": {"Showing demo data: offline", " ", "Showing demo data: offline"},
		},
	}
	out := render(t, onboarding(t), views)

	assert.Equal(t, 1, strings.Count(out, `<p class="formflow-notice">Showing demo data: offline</p>`))
	assert.Equal(t, 1, strings.Count(out, "formflow-notice"))
}

func TestRenderHiddenFields(t *testing.T) {
	t.Parallel()

	out := render(t, onboarding(t), nil, html.WithHiddenFields(
		html.Hidden("_run", "r-1"),
		html.Hidden("_flow", "onboarding"),
		html.Hidden(" ", "ignored"),
		html.Hidden("_run", "r-2"),
	))

	flowIdx := strings.Index(out, `<input type="hidden" name="_flow" value="onboarding">`)
	runIdx := strings.Index(out, `<input type="hidden" name="_run" value="r-2">`)
	require.GreaterOrEqual(t, flowIdx, 0)
	require.Greater(t, runIdx, flowIdx)
	assert.NotContains(t, out, "r-1")
	assert.NotContains(t, out, "ignored")
}
