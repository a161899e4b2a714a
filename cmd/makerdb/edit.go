package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-makerdb/pkg/apiclient"
	"github.com/goliatone/go-makerdb/pkg/form"
	"github.com/goliatone/go-makerdb/pkg/registry"
	"github.com/goliatone/go-makerdb/pkg/renderers/tui"
)

func newEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <model> <id>",
		Short: "Edit a record interactively",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := a.model(args[0])
			if err != nil {
				return err
			}
			record, err := a.fetch(ctx, m, args[1])
			if err != nil {
				return err
			}
			session := a.session()
			if len(m.Tabs) > 0 {
				tabs, err := form.NewTabsView(a.client, m.Tabs, record, a.viewOptions(m, args[1])...)
				if err != nil {
					return err
				}
				return quiet(session.EditTabs(ctx, tabs))
			}
			view, err := form.NewView(a.client, m.Fields, record, a.viewOptions(m, args[1])...)
			if err != nil {
				return err
			}
			return quiet(session.EditView(ctx, view))
		},
	}
}

func newBOMCmd(a *app) *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "bom <project-id>",
		Short: "List, add and delete the BOM items of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := a.model("projects")
			if err != nil {
				return err
			}
			child, ok := m.Child("bom")
			if !ok {
				return fmt.Errorf("model %q has no bom list", m.Key)
			}
			session := a.session()
			view, err := a.loadInline(ctx, m, child, args[0], form.WithConfirmer(session))
			if err != nil {
				return err
			}
			if list {
				fmt.Fprintln(a.stdout, session.InlineSummary(view))
				return nil
			}
			return quiet(session.EditInline(ctx, view))
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "print the items and exit")
	return cmd
}

// loadInline fetches a child list and binds it to an InlineView.
func (a *app) loadInline(ctx context.Context, m registry.Model, child registry.Child, id string, opts ...form.InlineOption) (*form.InlineView, error) {
	endpoint := m.ChildEndpoint(id, child)
	view := form.NewInlineView(a.client, endpoint, child.Fields, nil, a.inlineOptions(child, opts...)...)
	view.SetLoading(true)
	defer view.SetLoading(false)

	var items []form.Record
	if err := a.client.Get(ctx, apiclient.Collection(endpoint), &items); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	view.SetItems(items)
	a.logger.Printf("%s: %d items", endpoint, len(items))
	return view, nil
}

func (a *app) inlineOptions(child registry.Child, extra ...form.InlineOption) []form.InlineOption {
	opts := []form.InlineOption{form.WithTitle(child.Title)}
	if child.AddLabel != "" {
		opts = append(opts, form.WithAddLabel(child.AddLabel))
	}
	if child.EmptyMessage != "" {
		opts = append(opts, form.WithEmptyMessage(child.EmptyMessage))
	}
	cols := make([]form.Column, 0, len(child.Columns))
	for _, c := range child.Columns {
		cols = append(cols, form.PathColumn(c.Key, c.Label))
	}
	if len(cols) > 0 {
		opts = append(opts, form.WithColumns(cols...))
	}
	return append(opts, extra...)
}

// quiet treats a user abort as a normal exit.
func quiet(err error) error {
	if errors.Is(err, tui.ErrAborted) {
		return nil
	}
	return err
}
