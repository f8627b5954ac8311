package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formflow/pkg/binding"
	"github.com/goliatone/go-formflow/pkg/orchestrator"
	"github.com/goliatone/go-formflow/pkg/source"
)

type prefillReport struct {
	RunID  string                `json:"runId,omitempty"`
	FlowID string                `json:"flowId"`
	Steps  map[string]stepReport `json:"steps"`
	Errors map[string]string     `json:"errors,omitempty"`
}

type stepReport struct {
	Origin   source.Origin  `json:"origin"`
	Fallback string         `json:"fallback,omitempty"`
	Result   binding.Result `json:"result"`
}

func newPrefillReport(p orchestrator.Prefill) prefillReport {
	report := prefillReport{
		RunID:  p.RunID,
		FlowID: p.FlowID,
		Steps:  make(map[string]stepReport, len(p.Steps)),
	}
	for id, step := range p.Steps {
		sr := stepReport{Origin: step.Origin, Result: step.Result}
		if step.Fallback != nil {
			sr.Fallback = step.Fallback.Error()
		}
		report.Steps[id] = sr
	}
	if len(p.Errors) > 0 {
		report.Errors = make(map[string]string, len(p.Errors))
		for id, err := range p.Errors {
			report.Errors[id] = err.Error()
		}
	}
	return report
}

func newPrefillCmd(a *app) *cobra.Command {
	var flowFlag string

	cmd := &cobra.Command{
		Use:   "prefill",
		Short: "Fetch and bind external data for every step of a flow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, baseDir, err := a.loadFlow(cmd, flowFlag)
			if err != nil {
				return err
			}
			p, err := a.orchestrator(baseDir).Prefill(cmd.Context(), f)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), newPrefillReport(p))
		},
	}

	cmd.Flags().StringVar(&flowFlag, "flow", "", "flow document, path or URL")
	return cmd
}
