package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formflow/pkg/flow"
	"github.com/goliatone/go-formflow/pkg/jsonvalue"
	"github.com/goliatone/go-formflow/pkg/orchestrator"
	"github.com/goliatone/go-formflow/pkg/source"
)

const defaultDebounce = 200 * time.Millisecond

func newWatchCmd(a *app) *cobra.Command {
	var (
		flowFlag    string
		payloadFlag string
		debounce    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-bind a flow whenever its document or payload changes",
		Long: "Watch prints one JSON line per binding pass. With --payload every form step\n" +
			"is bound to that file instead of its own data source.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flowFlag == "" {
				return errors.New("--flow is required")
			}
			w := &watcher{
				app:      a,
				out:      cmd.OutOrStdout(),
				debounce: debounce,
			}
			var err error
			if w.flowPath, err = filepath.Abs(flowFlag); err != nil {
				return err
			}
			if payloadFlag != "" {
				if w.payloadPath, err = filepath.Abs(payloadFlag); err != nil {
					return err
				}
			}
			return w.run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&flowFlag, "flow", "", "flow document to watch")
	cmd.Flags().StringVar(&payloadFlag, "payload", "", "payload file bound to every form step")
	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "quiet period before re-binding")
	return cmd
}

type watcher struct {
	app         *app
	out         io.Writer
	flowPath    string
	payloadPath string
	debounce    time.Duration
}

func (w *watcher) paths() []string {
	if w.payloadPath == "" {
		return []string{w.flowPath}
	}
	return []string{w.flowPath, w.payloadPath}
}

func (w *watcher) run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer func() {
		_ = fsw.Close()
	}()

	// Directories survive editors that save by rename.
	watched := make(map[string]struct{})
	added := make(map[string]struct{})
	for _, path := range w.paths() {
		watched[path] = struct{}{}
		dir := filepath.Dir(path)
		if _, ok := added[dir]; ok {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		added[dir] = struct{}{}
	}

	w.rebind(ctx)

	debounce := w.debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if _, ok := watched[filepath.Clean(ev.Name)]; !ok {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.app.logger.WarnContext(ctx, "watch error", "error", err.Error())
		case <-timer.C:
			w.rebind(ctx)
		}
	}
}

// rebind runs one pass. Failures are logged so the watch keeps going while the
// files are being edited.
func (w *watcher) rebind(ctx context.Context) {
	report, err := w.pass(ctx)
	if err != nil {
		w.app.logger.ErrorContext(ctx, "rebind failed", "error", err.Error())
		return
	}
	if err := json.NewEncoder(w.out).Encode(report); err != nil {
		w.app.logger.ErrorContext(ctx, "write report", "error", err.Error())
	}
}

func (w *watcher) pass(ctx context.Context) (prefillReport, error) {
	f, err := flow.LoadFile(w.flowPath)
	if err != nil {
		return prefillReport{}, err
	}
	if err := flow.Validate(f); err != nil {
		return prefillReport{}, err
	}

	if w.payloadPath == "" {
		p, err := w.app.orchestrator(filepath.Dir(w.flowPath)).Prefill(ctx, f)
		if err != nil {
			return prefillReport{}, err
		}
		return newPrefillReport(p), nil
	}

	data, err := os.ReadFile(w.payloadPath)
	if err != nil {
		return prefillReport{}, fmt.Errorf("read payload: %w", err)
	}
	payload, err := jsonvalue.Decode(data)
	if err != nil {
		return prefillReport{}, fmt.Errorf("payload %s: %w", w.payloadPath, err)
	}

	report := prefillReport{FlowID: f.ID, Steps: make(map[string]stepReport)}
	for _, step := range f.FormSteps() {
		if len(step.Fields) == 0 {
			continue
		}
		report.Steps[step.ID] = stepReport{
			Origin: source.OriginFile,
			Result: orchestrator.BindStep(*step, payload),
		}
	}
	return report, nil
}
