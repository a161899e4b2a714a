package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-makerdb/pkg/units"
)

func newUnitsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "units",
		Short: "Convert between SI-prefixed text and numbers",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "parse <text>...",
		Short: "Parse values such as 4.7k or 100nF",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var errs []error
			for _, text := range args {
				value, ok := units.Parse(text)
				if !ok {
					errs = append(errs, fmt.Errorf("units: cannot parse %q", text))
					continue
				}
				fmt.Fprintf(a.stdout, "%s\t%s\n", text, strconv.FormatFloat(value, 'g', -1, 64))
			}
			return errors.Join(errs...)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "format <number>...",
		Short: "Format numbers with an SI prefix",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var errs []error
			for _, raw := range args {
				value, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					errs = append(errs, fmt.Errorf("units: %q is not a number", raw))
					continue
				}
				fmt.Fprintf(a.stdout, "%s\t%s\n", raw, units.Format(value))
			}
			return errors.Join(errs...)
		},
	})
	return cmd
}
