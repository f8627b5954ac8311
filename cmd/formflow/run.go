package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formflow/pkg/render/tui"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		flowFlag string
		confirm  bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Walk a flow interactively with pre-filled fields",
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
			for id, stepErr := range p.Errors {
				a.logger.WarnContext(cmd.Context(), "step not pre-filled", "step", id, "error", stepErr.Error())
			}

			driver := a.driver
			if driver == nil {
				driver = tui.NewSurveyDriver(cmd.ErrOrStderr())
			}
			runner := tui.New(
				tui.WithPromptDriver(driver),
				tui.WithConfirmation(confirm),
			)
			values, err := runner.Run(cmd.Context(), f, p)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), values)
		},
	}

	cmd.Flags().StringVar(&flowFlag, "flow", "", "flow document, path or URL")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "ask for confirmation before printing values")
	return cmd
}
