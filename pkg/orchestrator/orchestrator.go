package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-formflow/internal/logging"
	"github.com/goliatone/go-formflow/pkg/binding"
	"github.com/goliatone/go-formflow/pkg/flow"
	"github.com/goliatone/go-formflow/pkg/source"
)

// DefaultConcurrency bounds parallel step fetches when none is configured.
const DefaultConcurrency = 4

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithFetcher injects the payload fetcher.
func WithFetcher(fetcher *source.Fetcher) Option {
	return func(o *Orchestrator) {
		o.fetcher = fetcher
	}
}

// WithLogger sets the logger used for per-step diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithConcurrency bounds how many steps are fetched at once.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		o.concurrency = n
	}
}

// WithBaseDir resolves relative data source paths and demo files against dir.
func WithBaseDir(dir string) Option {
	return func(o *Orchestrator) {
		o.baseDir = dir
	}
}

// Orchestrator runs the fetch and bind pipeline for flows.
type Orchestrator struct {
	fetcher     *source.Fetcher
	logger      *slog.Logger
	concurrency int
	baseDir     string
}

// New constructs an Orchestrator. Missing dependencies get defaults.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.fetcher == nil {
		o.fetcher = source.NewFetcher()
	}
	if o.logger == nil {
		o.logger = logging.Discard()
	}
	if o.concurrency < 1 {
		o.concurrency = DefaultConcurrency
	}
	return o
}

// StepResult is the outcome of pre-filling one step.
type StepResult struct {
	StepID string
	Origin source.Origin
	Result binding.Result
	// Fallback holds the failure that made the step use demo data.
	Fallback error
}

// Prefill holds every step result of a run. Steps without a data source have
// no entry.
type Prefill struct {
	RunID  string
	FlowID string
	Steps  map[string]StepResult
	Errors map[string]error
}

// Result returns the binding result for stepID, or an empty result.
func (p Prefill) Result(stepID string) binding.Result {
	if r, ok := p.Steps[stepID]; ok {
		return r.Result
	}
	return binding.NewResult()
}

// Views applies the step's result to its fields.
func (p Prefill) Views(step flow.Step) []flow.FieldView {
	return flow.ApplyResult(step, p.Result(step.ID))
}

// StepNotices explains why stepID is not showing live external data: the
// step failed, or it fell back to demo data.
func (p Prefill) StepNotices(stepID string) []string {
	if err, ok := p.Errors[stepID]; ok {
		return []string{"External data unavailable: " + err.Error()}
	}
	if r, ok := p.Steps[stepID]; ok && r.Fallback != nil {
		return []string{"Showing demo data: " + r.Fallback.Error()}
	}
	return nil
}

// Err joins every step error, or returns nil when all steps succeeded.
func (p Prefill) Err() error {
	if len(p.Errors) == 0 {
		return nil
	}
	ids := make([]string, 0, len(p.Errors))
	for id := range p.Errors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	errs := make([]error, 0, len(ids))
	for _, id := range ids {
		errs = append(errs, fmt.Errorf("step %q: %w", id, p.Errors[id]))
	}
	return errors.Join(errs...)
}

// Prefill fetches and binds every form step with a data source. Steps run
// concurrently; a failing step is recorded in Prefill.Errors and leaves its
// fields untouched. Only context cancellation fails the whole call.
func (o *Orchestrator) Prefill(ctx context.Context, f *flow.Flow) (Prefill, error) {
	if ctx == nil {
		return Prefill{}, errors.New("orchestrator: context is required")
	}
	if f == nil {
		return Prefill{}, errors.New("orchestrator: flow is nil")
	}

	out := Prefill{
		RunID:  uuid.NewString(),
		FlowID: f.ID,
		Steps:  make(map[string]StepResult),
		Errors: make(map[string]error),
	}
	ctx = logging.WithFlowData(ctx, &logging.FlowData{FlowID: f.ID, RunID: out.RunID})

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for _, candidate := range f.FormSteps() {
		if candidate.DataSource == nil {
			continue
		}
		step := *candidate
		g.Go(func() error {
			stepCtx := logging.WithStep(gctx, step.ID)
			result, err := o.PrefillStep(stepCtx, step)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				o.logger.WarnContext(stepCtx, "prefill failed", slog.String("error", err.Error()))
				out.Errors[step.ID] = err
				return nil
			}
			out.Steps[step.ID] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return out, fmt.Errorf("orchestrator: prefill: %w", err)
	}
	return out, nil
}

// PrefillStep fetches step's payload and binds it.
func (o *Orchestrator) PrefillStep(ctx context.Context, step flow.Step) (StepResult, error) {
	if step.DataSource == nil {
		return StepResult{}, fmt.Errorf("orchestrator: step %q has no data source", step.ID)
	}

	req, err := o.request(*step.DataSource)
	if err != nil {
		return StepResult{}, err
	}
	payload, err := o.fetcher.Fetch(ctx, req)
	if err != nil {
		return StepResult{}, err
	}

	result := BindStep(step, payload.Value)
	o.logger.DebugContext(ctx, "step bound",
		slog.String("origin", string(payload.Origin)),
		slog.Int("values", len(result.InitialValues)),
		slog.Int("option_lists", len(result.SelectOptions)),
	)
	return StepResult{
		StepID:   step.ID,
		Origin:   payload.Origin,
		Result:   result,
		Fallback: payload.Cause,
	}, nil
}

// BindStep binds payload to step's fields.
func BindStep(step flow.Step, payload any) binding.Result {
	return binding.Bind(payload, step.Fields)
}

func (o *Orchestrator) request(ds flow.DataSource) (source.Request, error) {
	req := source.Request{
		Method:  ds.Method,
		Headers: expandHeaders(ds.Headers),
		Timeout: ds.Timeout.Std(),
	}

	if strings.TrimSpace(ds.URL) != "" {
		src, err := source.Parse(ds.URL, o.baseDir)
		if err != nil {
			return source.Request{}, fmt.Errorf("orchestrator: %w", err)
		}
		req.Source = src
	}

	fallback, err := o.demoData(ds)
	if err != nil {
		return source.Request{}, err
	}
	req.Fallback = fallback
	return req, nil
}

func (o *Orchestrator) demoData(ds flow.DataSource) ([]byte, error) {
	if path := strings.TrimSpace(ds.DemoFile); path != "" {
		if o.baseDir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(o.baseDir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: read demo data: %w", err)
		}
		return data, nil
	}
	if ds.Demo == nil {
		return nil, nil
	}
	data, err := json.Marshal(ds.Demo)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: encode demo data: %w", err)
	}
	return data, nil
}

// expandHeaders substitutes ${VAR} references so credentials can stay out of
// flow documents.
func expandHeaders(headers map[string]string) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	out := make(map[string]string, len(headers))
	for name, value := range headers {
		out[name] = os.ExpandEnv(value)
	}
	return out
}
