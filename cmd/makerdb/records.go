package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-makerdb/pkg/apiclient"
	"github.com/goliatone/go-makerdb/pkg/field"
	"github.com/goliatone/go-makerdb/pkg/form"
	"github.com/goliatone/go-makerdb/pkg/registry"
	"github.com/goliatone/go-makerdb/pkg/renderers/tui"
)

func newModelsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the registered models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var rows [][]string
			for _, key := range a.models.Keys() {
				m := a.models.MustLookup(key)
				rows = append(rows, []string{key, m.LabelPlural, m.APIPath, m.DetailRoute})
			}
			fmt.Fprintln(a.stdout, tui.DefaultStyles().Table([]string{"Model", "Label", "API path", "Route"}, rows))
			return nil
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <model> <id>",
		Short: "Print one record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := a.model(args[0])
			if err != nil {
				return err
			}
			view, err := a.loadView(ctx, m, args[1])
			if err != nil {
				return err
			}
			styles := tui.DefaultStyles()
			fmt.Fprintln(a.stdout, styles.Title.Render(m.Label+" "+args[1]))
			fmt.Fprintln(a.stdout, a.session().Summary(viewFields(view)))
			return nil
		},
	}
}

func newSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <model> <id> key=value...",
		Short: "Commit field values without prompting",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := a.model(args[0])
			if err != nil {
				return err
			}
			view, err := a.loadView(ctx, m, args[1])
			if err != nil {
				return err
			}
			styles := tui.DefaultStyles()

			var errs []error
			for _, pair := range args[2:] {
				key, raw, ok := strings.Cut(pair, "=")
				if !ok {
					errs = append(errs, fmt.Errorf("%q must be key=value", pair))
					continue
				}
				err := view.Edit(ctx, key, raw)
				f, ferr := view.Field(key)
				if ferr != nil {
					errs = append(errs, ferr)
					continue
				}
				if err != nil {
					msg := f.Message()
					if msg == "" {
						msg = err.Error()
					}
					fmt.Fprintf(a.stdout, "%s %s: %s\n", styles.Badge(field.StateError), key, msg)
					errs = append(errs, fmt.Errorf("%s: %w", key, err))
					// leave the record as the server has it
					if f.State().Editable() {
						_ = f.Cancel(ctx)
					}
					continue
				}
				fmt.Fprintf(a.stdout, "%s %s = %s\n", styles.Badge(f.State()), key, f.Display())
			}
			return errors.Join(errs...)
		},
	}
}

// loadView fetches a record and binds it to a view over the model schema.
// Tabbed models get a TabsView whose embedded View is returned.
func (a *app) loadView(ctx context.Context, m registry.Model, id string) (*form.View, error) {
	record, err := a.fetch(ctx, m, id)
	if err != nil {
		return nil, err
	}
	if len(m.Tabs) > 0 {
		tabs, err := form.NewTabsView(a.client, m.Tabs, record, a.viewOptions(m, id)...)
		if err != nil {
			return nil, err
		}
		return tabs.View, nil
	}
	return form.NewView(a.client, m.Fields, record, a.viewOptions(m, id)...)
}

func (a *app) fetch(ctx context.Context, m registry.Model, id string) (form.Record, error) {
	if _, err := apiclient.ParseID(id); err != nil {
		a.logger.Printf("%s id %q is not a UUID", m.Key, id)
	}
	var record form.Record
	if err := a.client.Get(ctx, apiclient.Item(m.APIPath, id), &record); err != nil {
		return nil, fmt.Errorf("fetch %s %s: %w", m.Key, id, err)
	}
	return record, nil
}

func (a *app) viewOptions(m registry.Model, id string) []form.Option {
	return []form.Option{
		form.WithEndpoint(m.APIPath, id),
		form.WithLayout(form.LayoutTwoColumn),
		form.WithFieldOptions(field.WithDisplay(a.display)),
		form.WithObserver(func(ev field.Event, state field.State) {
			a.logger.Printf("%s %s -> %s", ev.Kind, ev.Key, state)
		}),
	}
}

func viewFields(v *form.View) []*field.Field {
	var out []*field.Field
	for _, def := range v.Schema() {
		if f, err := v.Field(def.Key); err == nil {
			out = append(out, f)
		}
	}
	return out
}
