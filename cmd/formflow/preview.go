package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formflow/pkg/render/html"
)

func newPreviewCmd(a *app) *cobra.Command {
	var (
		flowFlag   string
		outputFlag string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render a pre-filled HTML preview of a flow",
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

			renderer, err := html.New(html.WithHiddenFields(
				html.Hidden("_flow", f.ID),
				html.Hidden("_run", p.RunID),
			))
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := renderer.Render(&buf, f, p); err != nil {
				return err
			}

			if outputFlag == "" {
				_, err := buf.WriteTo(cmd.OutOrStdout())
				return err
			}
			if err := os.WriteFile(outputFlag, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write preview: %w", err)
			}
			a.logger.InfoContext(cmd.Context(), "preview written", "path", outputFlag)
			return nil
		},
	}

	cmd.Flags().StringVar(&flowFlag, "flow", "", "flow document, path or URL")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "output file (stdout if empty)")
	return cmd
}
