package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-makerdb/pkg/form"
	"github.com/goliatone/go-makerdb/pkg/renderers/html"
)

func newRenderCmd(a *app) *cobra.Command {
	var out string
	var children bool
	cmd := &cobra.Command{
		Use:   "render <model> <id>",
		Short: "Render a record as an HTML page",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := a.model(args[0])
			if err != nil {
				return err
			}
			id := args[1]
			record, err := a.fetch(ctx, m, id)
			if err != nil {
				return err
			}

			var sections []any
			if len(m.Tabs) > 0 {
				tabs, err := form.NewTabsView(a.client, m.Tabs, record, a.viewOptions(m, id)...)
				if err != nil {
					return err
				}
				sections = append(sections, tabs)
			} else {
				view, err := form.NewView(a.client, m.Fields, record, a.viewOptions(m, id)...)
				if err != nil {
					return err
				}
				sections = append(sections, view)
			}
			if children {
				for _, child := range m.Children {
					inline, err := a.loadInline(ctx, m, child, id)
					if err != nil {
						return err
					}
					sections = append(sections, inline)
				}
			}

			renderer, err := a.htmlRenderer()
			if err != nil {
				return err
			}
			title := m.Label
			if name, ok := record["name"].(string); ok && name != "" {
				title = name
			}
			page, err := renderer.RenderPage(ctx, html.Page{Title: title, Description: m.Description, Sections: sections})
			if err != nil {
				return err
			}

			if out == "" {
				_, err = a.stdout.Write(page)
				return err
			}
			if err := os.WriteFile(out, page, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "page written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&children, "children", true, "include nested lists such as a project's BOM")
	return cmd
}

func (a *app) htmlRenderer() (*html.Renderer, error) {
	selector, err := builtinThemes(a.cfg.Theme.Tokens)
	if err != nil {
		return nil, err
	}
	opts := []html.Option{
		html.WithTheme(selector, a.cfg.Theme.Name, a.cfg.Theme.Variant),
		html.WithMissingTranslation(func(locale, key, fallback string, err error) string {
			if a.display.Translator != nil {
				a.logger.Printf("missing %s translation for %q", locale, key)
			}
			return fallback
		}),
	}
	if a.display.Translator != nil {
		opts = append(opts, html.WithTranslator(a.display.Translator, a.display.Locale))
	}
	if a.cfg.Templates != "" {
		opts = append(opts, html.WithTemplateDir(a.cfg.Templates))
	}
	return html.New(opts...)
}
