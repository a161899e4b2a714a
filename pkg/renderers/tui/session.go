package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/goliatone/go-makerdb/pkg/field"
	"github.com/goliatone/go-makerdb/pkg/form"
	"github.com/goliatone/go-makerdb/pkg/schema"
	"github.com/goliatone/go-makerdb/pkg/search"
)

const (
	choiceDone   = "Done"
	choiceBack   = "Back"
	choiceEdit   = "Edit a row"
	choiceDelete = "Delete a row"
)

// Session edits views through terminal prompts. Commits go through the
// view's fields, so requests and state changes are the same as for any
// other front end.
type Session struct {
	driver   PromptDriver
	out      io.Writer
	searcher *search.Searcher
	styles   Styles
}

var _ form.Confirmer = (*Session)(nil)

// New builds a Session using the survey driver unless one is supplied.
func New(options ...Option) *Session {
	s := &Session{styles: DefaultStyles()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(s.out)
	}
	return s
}

// Confirm asks a yes/no question. It lets a Session act as the delete
// confirmer of an InlineView.
func (s *Session) Confirm(ctx context.Context, message string) (bool, error) {
	return s.driver.Confirm(ctx, ConfirmConfig{Message: message})
}

// Summary renders each field's label, idle text and state.
func (s *Session) Summary(fields []*field.Field) string {
	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		snap := f.Snapshot()
		value := snap.Display
		if snap.State == field.StateError && snap.Message != "" {
			value += " (" + snap.Message + ")"
		}
		rows = append(rows, []string{label(f.Schema()), value, s.styles.Badge(snap.State)})
	}
	return s.styles.Table([]string{"Field", "Value", "State"}, rows)
}

// EditView loops over the view's fields until the user picks Done.
func (s *Session) EditView(ctx context.Context, v *form.View) error {
	return s.editFields(ctx, choiceDone, func() []*field.Field {
		return fieldsOf(v, v.Schema())
	})
}

// EditTabs lets the user pick a tab, then edit its fields.
func (s *Session) EditTabs(ctx context.Context, t *form.TabsView) error {
	for {
		tabs := t.Tabs()
		active := t.Active().Key
		options := make([]string, 0, len(tabs)+1)
		defaultIdx := 0
		for i, tab := range tabs {
			name := tab.Label
			if name == "" {
				name = tab.Key
			}
			if tab.Key == active {
				defaultIdx = i
			}
			options = append(options, name)
		}
		options = append(options, choiceDone)

		idx, err := s.driver.Select(ctx, SelectConfig{Message: "Tab", Options: options, DefaultIndex: defaultIdx})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(tabs) {
			return nil
		}
		if err := t.SetActive(tabs[idx].Key); err != nil {
			return err
		}
		err = s.editFields(ctx, choiceBack, func() []*field.Field {
			return fieldsOf(t.View, t.VisibleFields())
		})
		if err != nil {
			return err
		}
	}
}

// EditInline offers add, row edit and delete according to the view's
// controls until the user picks Done.
func (s *Session) EditInline(ctx context.Context, v *form.InlineView) error {
	for {
		if err := s.driver.Info(ctx, s.InlineSummary(v)); err != nil {
			return err
		}
		controls := v.Controls()
		var options []string
		if controls.Add {
			options = append(options, v.AddLabel())
		}
		if !v.Empty() && controls.Edit {
			options = append(options, choiceEdit)
		}
		if !v.Empty() && controls.Delete {
			options = append(options, choiceDelete)
		}
		options = append(options, choiceDone)

		idx, err := s.driver.Select(ctx, SelectConfig{Message: "Action", Options: options})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			return nil
		}

		switch options[idx] {
		case choiceDone:
			return nil
		case choiceEdit:
			err = s.editRow(ctx, v)
		case choiceDelete:
			err = s.deleteRow(ctx, v)
		default:
			err = s.add(ctx, v)
		}
		if err = s.report(ctx, err); err != nil {
			return err
		}
	}
}

// InlineSummary renders the list as a table, or its empty or loading text.
func (s *Session) InlineSummary(v *form.InlineView) string {
	var b strings.Builder
	if title := v.Title(); title != "" {
		b.WriteString(s.styles.Title.Render(title))
		b.WriteString("\n")
	}
	switch {
	case v.Loading():
		b.WriteString(s.styles.Muted.Render("Loading..."))
		return b.String()
	case v.Empty():
		b.WriteString(s.styles.Muted.Render(v.EmptyMessage()))
		return b.String()
	}

	columns := v.Columns()
	defs := v.Schema()
	headers := make([]string, 0, len(columns)+len(defs))
	for _, col := range columns {
		headers = append(headers, col.Label)
	}
	for _, def := range defs {
		headers = append(headers, label(def))
	}

	var rows [][]string
	for _, item := range v.Items() {
		row := make([]string, 0, len(headers))
		for _, col := range columns {
			row = append(row, columnText(col, item))
		}
		for _, def := range defs {
			text := field.Placeholder
			if f, err := v.RowField(item.ID(), def.Key); err == nil {
				snap := f.Snapshot()
				text = snap.Display
				if snap.State != field.StateIdle {
					text += " " + s.styles.Badge(snap.State)
				}
			}
			row = append(row, text)
		}
		rows = append(rows, row)
	}
	b.WriteString(s.styles.Table(headers, rows))
	return b.String()
}

// EditField activates f, prompts for a value and commits it. Validation
// failures re-prompt; a failed save offers a retry and is cancelled when
// declined.
func (s *Session) EditField(ctx context.Context, f *field.Field) error {
	if err := f.Activate(ctx); err != nil {
		return err
	}
	name := label(f.Schema())
	for {
		if err := s.fill(ctx, f); err != nil {
			_ = f.Cancel(ctx)
			return err
		}

		err := f.Confirm(ctx)
		var invalid *schema.ValidationError
		if errors.As(err, &invalid) {
			if err := s.driver.Info(ctx, s.styles.Badge(field.StateEditing)+" "+name+": "+invalid.Error()); err != nil {
				return err
			}
			continue
		}

		if f.State() == field.StateError {
			msg := fmt.Sprintf("%s %s: %s", s.styles.Badge(field.StateError), name, f.Message())
			if ierr := s.driver.Info(ctx, msg); ierr != nil {
				return ierr
			}
			retry, cerr := s.driver.Confirm(ctx, ConfirmConfig{Message: "Retry saving " + name + "?", Default: true})
			if cerr != nil {
				_ = f.Cancel(ctx)
				return cerr
			}
			if retry {
				continue
			}
			_ = f.Cancel(ctx)
			return err
		}
		if err != nil {
			return err
		}
		return s.driver.Info(ctx, fmt.Sprintf("%s %s saved", s.styles.Badge(f.State()), name))
	}
}

func (s *Session) editFields(ctx context.Context, exit string, fields func() []*field.Field) error {
	for {
		current := fields()
		if err := s.driver.Info(ctx, s.Summary(current)); err != nil {
			return err
		}
		options := make([]string, 0, len(current)+1)
		for _, f := range current {
			options = append(options, label(f.Schema())+": "+f.Display())
		}
		options = append(options, exit)

		idx, err := s.driver.Select(ctx, SelectConfig{Message: "Edit field", Options: options})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(current) {
			return nil
		}
		if err := s.report(ctx, s.EditField(ctx, current[idx])); err != nil {
			return err
		}
	}
}

// report shows recoverable errors and returns the ones that end a session.
func (s *Session) report(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrAborted), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, field.ErrReadonly):
		return s.driver.Info(ctx, s.styles.Muted.Render("read-only"))
	}
	return s.driver.Info(ctx, s.styles.Badge(field.StateError)+" "+err.Error())
}

// fill prompts for a candidate value and places it in the edit buffer.
func (s *Session) fill(ctx context.Context, f *field.Field) error {
	def := f.Schema()
	snap := f.Snapshot()
	current := snap.Text
	if current == "" {
		current = field.EditText(def, snap.Buffer)
	}
	name := label(def)

	switch def.Type {
	case schema.FieldTypeTextarea:
		text, err := s.driver.TextArea(ctx, TextAreaConfig{Message: name, Default: current})
		if err != nil {
			return err
		}
		return f.Input(text)

	case schema.FieldTypeSelect:
		options := make([]string, len(def.Options))
		defaultIdx := 0
		for i, opt := range def.Options {
			options[i] = opt.Label
			if opt.Label == current {
				defaultIdx = i
			}
		}
		idx, err := s.driver.Select(ctx, SelectConfig{Message: name, Options: options, DefaultIndex: defaultIdx})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(def.Options) {
			return fmt.Errorf("tui: invalid choice for %s", name)
		}
		return f.SetBuffer(def.Options[idx].Value)

	case schema.FieldTypeCheckbox:
		ok, err := s.driver.Confirm(ctx, ConfirmConfig{Message: name, Default: current == "yes"})
		if err != nil {
			return err
		}
		return f.SetBuffer(ok)

	case schema.FieldTypeSearch:
		if s.searcher != nil {
			return s.lookup(ctx, f)
		}
	}

	help := ""
	switch def.Type {
	case schema.FieldTypeNumber:
		help = "Numbers accept SI prefixes, e.g. 4.7k or 100n."
	case schema.FieldTypeTags:
		help = "Separate tags with commas."
	}
	text, err := s.driver.Input(ctx, InputConfig{Message: name, Default: current, Help: help})
	if err != nil {
		return err
	}
	return f.Input(text)
}

// lookup searches the field's entity kind and stores the picked hit's id.
func (s *Session) lookup(ctx context.Context, f *field.Field) error {
	def := f.Schema()
	query, err := s.driver.Input(ctx, InputConfig{Message: "Search " + label(def)})
	if err != nil {
		return err
	}
	if err := s.searcher.Search(ctx, query, searchKind(def)); err != nil {
		return err
	}
	hits := s.searcher.Results()
	if len(hits) == 0 {
		return ErrNoResults
	}
	options := make([]string, len(hits))
	for i, hit := range hits {
		options[i] = hit.Name
		if hit.Description != "" {
			options[i] += " (" + hit.Description + ")"
		}
	}
	idx, err := s.driver.Select(ctx, SelectConfig{Message: label(def), Options: options})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(hits) {
		return fmt.Errorf("tui: invalid choice for %s", label(def))
	}
	return f.SetBuffer(hits[idx].ID)
}

func (s *Session) add(ctx context.Context, v *form.InlineView) error {
	if err := v.OpenAdd(ctx); err != nil {
		return err
	}
	for {
		for _, def := range v.Schema() {
			f, err := v.DraftField(def.Key)
			if err != nil {
				v.CancelAdd()
				return err
			}
			if err := s.fill(ctx, f); err != nil {
				v.CancelAdd()
				return err
			}
		}

		created, err := v.SubmitAdd(ctx)
		if err == nil {
			return s.driver.Info(ctx, fmt.Sprintf("%s added %s", s.styles.Badge(field.StateSuccess), created.ID()))
		}
		if ierr := s.driver.Info(ctx, s.styles.Badge(field.StateError)+" "+v.DraftError()); ierr != nil {
			v.CancelAdd()
			return ierr
		}
		again, cerr := s.driver.Confirm(ctx, ConfirmConfig{Message: "Try again?", Default: true})
		if cerr != nil || !again {
			v.CancelAdd()
			return cerr
		}
	}
}

func (s *Session) editRow(ctx context.Context, v *form.InlineView) error {
	id, err := s.pickRow(ctx, v)
	if err != nil {
		return err
	}
	defs := v.Schema()
	options := make([]string, 0, len(defs)+1)
	for _, def := range defs {
		options = append(options, label(def))
	}
	options = append(options, choiceBack)
	idx, err := s.driver.Select(ctx, SelectConfig{Message: "Field", Options: options})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(defs) {
		return nil
	}
	f, err := v.RowField(id, defs[idx].Key)
	if err != nil {
		return err
	}
	return s.EditField(ctx, f)
}

func (s *Session) deleteRow(ctx context.Context, v *form.InlineView) error {
	id, err := s.pickRow(ctx, v)
	if err != nil {
		return err
	}
	deleted, err := v.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return s.driver.Info(ctx, s.styles.Muted.Render("kept "+id))
	}
	return s.driver.Info(ctx, fmt.Sprintf("%s deleted %s", s.styles.Badge(field.StateSuccess), id))
}

func (s *Session) pickRow(ctx context.Context, v *form.InlineView) (string, error) {
	items := v.Items()
	columns := v.Columns()
	options := make([]string, len(items))
	for i, item := range items {
		options[i] = item.ID()
		if len(columns) > 0 {
			if text := columnText(columns[0], item); text != field.Placeholder {
				options[i] = text + " (" + item.ID() + ")"
			}
		}
	}
	idx, err := s.driver.Select(ctx, SelectConfig{Message: "Row", Options: options})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(items) {
		return "", fmt.Errorf("tui: invalid row choice")
	}
	return items[idx].ID(), nil
}

func fieldsOf(v *form.View, defs []schema.Field) []*field.Field {
	out := make([]*field.Field, 0, len(defs))
	for _, def := range defs {
		if f, err := v.Field(def.Key); err == nil {
			out = append(out, f)
		}
	}
	return out
}

func columnText(col form.Column, item form.Record) string {
	if col.Render == nil {
		return field.Placeholder
	}
	if text := col.Render(item); strings.TrimSpace(text) != "" {
		return text
	}
	return field.Placeholder
}

func label(def schema.Field) string {
	name := def.DisplayLabel()
	if def.Required {
		name += " *"
	}
	return name
}

// searchKind reads the "kind" component prop, else the last segment of the
// search endpoint.
func searchKind(def schema.Field) string {
	if kind, ok := def.ComponentProps["kind"].(string); ok && kind != "" {
		return kind
	}
	if def.SearchEndpoint != "" {
		if kind := path.Base(strings.TrimRight(def.SearchEndpoint, "/")); kind != "." && kind != "/" {
			return kind
		}
	}
	return search.DefaultKind
}
