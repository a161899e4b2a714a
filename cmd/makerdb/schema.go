package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-makerdb/pkg/schema"
)

func newSchemaCmd(a *app) *cobra.Command {
	var openapiPath, component string
	cmd := &cobra.Command{
		Use:   "schema [model]",
		Short: "Print a model's field schema as YAML, or derive one from OpenAPI",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var doc schema.Document
			switch {
			case openapiPath != "":
				if component == "" {
					return errors.New("--component is required with --openapi")
				}
				data, err := os.ReadFile(openapiPath)
				if err != nil {
					return err
				}
				fields, err := schema.FromOpenAPI(cmd.Context(), data, component)
				if err != nil {
					return err
				}
				doc.Fields = fields
			case len(args) == 1:
				m, err := a.model(args[0])
				if err != nil {
					return err
				}
				doc.Fields, doc.Tabs = m.Fields, m.Tabs
			default:
				return errors.New("a model or --openapi is required")
			}

			enc := yaml.NewEncoder(a.stdout)
			enc.SetIndent(2)
			if err := enc.Encode(doc); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringVar(&openapiPath, "openapi", "", "OpenAPI document to derive fields from")
	cmd.Flags().StringVar(&component, "component", "", "component schema name, e.g. PartSchema")
	return cmd
}

func newLintCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lint <openapi-file>...",
		Short: "Report unsupported makerdb extensions in OpenAPI documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			total := 0
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("lint %s: %w", path, err)
				}
				violations, err := schema.LintOpenAPI(cmd.Context(), data)
				if err != nil {
					return fmt.Errorf("lint %s: %w", path, err)
				}
				for _, v := range violations {
					fmt.Fprintf(a.stderr, "%s: %s\n", path, v)
				}
				total += len(violations)
			}
			if total > 0 {
				return fmt.Errorf("%d extension violations", total)
			}
			return nil
		},
	}
}
