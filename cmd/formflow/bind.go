package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formflow/pkg/binding"
	"github.com/goliatone/go-formflow/pkg/source"
)

func newBindCmd(a *app) *cobra.Command {
	var (
		payloadFlag string
		fieldsFlag  string
		flowFlag    string
		stepFlag    string
	)

	cmd := &cobra.Command{
		Use:   "bind",
		Short: "Bind one payload to a list of fields and print the result",
		Long: "Bind reads a JSON payload from a file or URL and resolves initial values and\n" +
			"select options for the given fields. Fields come from --fields or from a\n" +
			"step of --flow selected with --step.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if payloadFlag == "" {
				return errors.New("--payload is required")
			}

			fields, err := a.bindFields(cmd, fieldsFlag, flowFlag, stepFlag)
			if err != nil {
				return err
			}

			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			src, err := source.Parse(payloadFlag, cwd)
			if err != nil {
				return err
			}
			payload, err := a.fetcher.Fetch(cmd.Context(), source.Request{Source: src})
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), binding.Bind(payload.Value, fields))
		},
	}

	cmd.Flags().StringVar(&payloadFlag, "payload", "", "payload file or URL")
	cmd.Flags().StringVar(&fieldsFlag, "fields", "", "JSON or YAML list of field descriptors")
	cmd.Flags().StringVar(&flowFlag, "flow", "", "flow document providing the fields")
	cmd.Flags().StringVar(&stepFlag, "step", "", "step of --flow whose fields are bound")
	return cmd
}

func (a *app) bindFields(cmd *cobra.Command, fieldsPath, flowPath, stepID string) ([]binding.FieldDescriptor, error) {
	switch {
	case fieldsPath != "" && flowPath != "":
		return nil, errors.New("use either --fields or --flow, not both")
	case fieldsPath != "":
		data, err := os.ReadFile(fieldsPath)
		if err != nil {
			return nil, fmt.Errorf("read fields: %w", err)
		}
		return parseFields(data)
	case flowPath != "":
		if stepID == "" {
			return nil, errors.New("--step is required with --flow")
		}
		f, _, err := a.loadFlow(cmd, flowPath)
		if err != nil {
			return nil, err
		}
		step, ok := f.Step(stepID)
		if !ok {
			return nil, fmt.Errorf("flow %q has no step %q", f.ID, stepID)
		}
		return step.Fields, nil
	default:
		return nil, errors.New("--fields or --flow is required")
	}
}

func parseFields(data []byte) ([]binding.FieldDescriptor, error) {
	var fields []binding.FieldDescriptor
	if err := json.Unmarshal(data, &fields); err == nil {
		return fields, nil
	}
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("parse fields: %w", err)
	}
	return fields, nil
}
