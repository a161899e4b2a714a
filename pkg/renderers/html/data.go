package html

import (
	"bytes"
	"strings"

	"github.com/goliatone/go-makerdb/pkg/field"
	"github.com/goliatone/go-makerdb/pkg/form"
	"github.com/goliatone/go-makerdb/pkg/renderers/html/components"
	"github.com/goliatone/go-makerdb/pkg/schema"
)

type optionData struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

type cellData struct {
	ID          string       `json:"id"`
	Key         string       `json:"key"`
	Label       string       `json:"label"`
	Type        string       `json:"type"`
	State       string       `json:"state"`
	Required    bool         `json:"required"`
	Readonly    bool         `json:"readonly"`
	FullWidth   bool         `json:"full_width"`
	Bare        bool         `json:"bare"`
	Editing     bool         `json:"editing"`
	Text        string       `json:"text"`
	HTML        string       `json:"html,omitempty"`
	Input       string       `json:"input"`
	Checked     bool         `json:"checked"`
	Placeholder string       `json:"placeholder,omitempty"`
	Options     []optionData `json:"options,omitempty"`
	Message     string       `json:"message,omitempty"`
	Validation  string       `json:"validation,omitempty"`
	SearchURL   string       `json:"search_url,omitempty"`
	SearchParam string       `json:"search_param,omitempty"`
}

type rowData struct {
	Cells []cellData `json:"cells"`
}

type formData struct {
	Path      string    `json:"path"`
	Layout    string    `json:"layout"`
	TwoColumn bool      `json:"two_column"`
	Readonly  bool      `json:"readonly"`
	Rows      []rowData `json:"rows"`
}

type tabData struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Icon   string `json:"icon,omitempty"`
	Active bool   `json:"active"`
}

type columnData struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

type itemData struct {
	ID      string     `json:"id"`
	Columns []string   `json:"columns"`
	Cells   []cellData `json:"cells"`
}

type controlsData struct {
	Add    bool `json:"add"`
	Edit   bool `json:"edit"`
	Delete bool `json:"delete"`
}

type inlineData struct {
	Title        string       `json:"title"`
	Endpoint     string       `json:"endpoint"`
	AddLabel     string       `json:"add_label"`
	DraftTitle   string       `json:"draft_title"`
	EmptyMessage string       `json:"empty_message"`
	DeletePrompt string       `json:"delete_prompt"`
	Loading      bool         `json:"loading"`
	Empty        bool         `json:"empty"`
	Controls     controlsData `json:"controls"`
	Headers      []columnData `json:"headers"`
	Items        []itemData   `json:"items"`
	Draft        *draftData   `json:"draft,omitempty"`
}

type draftData struct {
	Error string     `json:"error,omitempty"`
	Cells []cellData `json:"cells"`
}

// renderState carries per-call bookkeeping, namely the components used so
// pages can emit their assets.
type renderState struct {
	components []string
}

func (s *renderState) use(name string) {
	for _, existing := range s.components {
		if existing == name {
			return
		}
	}
	s.components = append(s.components, name)
}

func (r *Renderer) formData(v *form.View, rows []form.Row, st *renderState) (formData, error) {
	data := formData{
		Path:      v.Path(),
		Layout:    string(v.Layout()),
		TwoColumn: v.Layout() == form.LayoutTwoColumn,
		Readonly:  v.Readonly(),
		Rows:      make([]rowData, 0, len(rows)),
	}
	for _, row := range rows {
		out := rowData{Cells: make([]cellData, 0, len(row))}
		for _, def := range row {
			f, err := v.Field(def.Key)
			if err != nil {
				return formData{}, err
			}
			cell, err := r.cell("field", f, st)
			if err != nil {
				return formData{}, err
			}
			cell.FullWidth = data.TwoColumn && def.FullWidth()
			out.Cells = append(out.Cells, cell)
		}
		data.Rows = append(data.Rows, out)
	}
	return data, nil
}

func (r *Renderer) cell(prefix string, f *field.Field, st *renderState) (cellData, error) {
	def := f.Schema()
	snap := f.Snapshot()
	cell := cellData{
		ID:          prefix + "-" + def.Key,
		Key:         def.Key,
		Label:       r.label(def),
		Type:        string(def.Type),
		State:       string(snap.State),
		Required:    def.Required,
		Readonly:    snap.Readonly,
		Editing:     snap.State == field.StateEditing || snap.State == field.StateSaving || snap.State == field.StateError,
		Placeholder: def.Placeholder,
		Message:     snap.Message,
		Validation:  snap.Validation,
	}

	if cell.Editing {
		cell.Input = snap.Text
		if cell.Input == "" {
			cell.Input = field.EditText(def, snap.Buffer)
		}
		switch def.Type {
		case schema.FieldTypeCheckbox:
			cell.Checked = field.EditText(def, snap.Buffer) == "yes"
		case schema.FieldTypeSelect:
			cell.Options = r.options(def, snap.Buffer)
		case schema.FieldTypeSearch:
			cell.SearchURL = def.SearchEndpoint
			cell.SearchParam = def.QueryParam()
		}
		return cell, nil
	}

	cell.Text = r.display.Text(def, snap.Value)
	switch def.Type {
	case schema.FieldTypeTextarea:
		if cell.Text != field.Placeholder {
			cell.HTML = sanitizeText(cell.Text)
		}
	case schema.FieldTypeCustom:
		markup, ok, err := r.component(def, snap, st)
		if err != nil {
			return cellData{}, err
		}
		if ok {
			cell.HTML = markup
		}
	}
	return cell, nil
}

func (r *Renderer) component(def schema.Field, snap field.Snapshot, st *renderState) (string, bool, error) {
	desc, ok := r.components.Descriptor(def.Component)
	if !ok {
		return "", false, nil
	}
	var buf bytes.Buffer
	err := desc.Renderer(&buf, def, snap.Value, components.ComponentData{
		Template: r.engine,
		Partials: r.theme.Partials,
		Props:    def.ComponentProps,
		State:    string(snap.State),
	})
	if err != nil {
		return "", false, err
	}
	st.use(desc.Name)
	return sanitizeComponent(buf.String()), true, nil
}

func (r *Renderer) options(def schema.Field, current any) []optionData {
	selected := field.Plain(current)
	out := make([]optionData, 0, len(def.Options)+1)
	if current == nil || def.Placeholder != "" {
		out = append(out, optionData{Label: def.Placeholder, Value: "", Selected: current == nil})
	}
	for _, opt := range def.Options {
		value := field.Plain(opt.Value)
		out = append(out, optionData{
			Label:    opt.Label,
			Value:    value,
			Selected: current != nil && value == selected,
		})
	}
	return out
}

func (r *Renderer) label(def schema.Field) string {
	fallback := def.DisplayLabel()
	return r.translate("label."+def.Key, fallback)
}

func (r *Renderer) inlineData(v *form.InlineView, st *renderState) (inlineData, error) {
	defs := v.Schema()
	columns := v.Columns()
	data := inlineData{
		Title:        v.Title(),
		Endpoint:     v.BaseEndpoint(),
		AddLabel:     v.AddLabel(),
		DraftTitle:   form.DefaultDraftTitle,
		EmptyMessage: v.EmptyMessage(),
		DeletePrompt: form.DeletePrompt,
		Loading:      v.Loading(),
		Empty:        v.Empty(),
	}
	controls := v.Controls()
	data.Controls = controlsData{Add: controls.Add, Edit: controls.Edit, Delete: controls.Delete}
	for _, col := range columns {
		data.Headers = append(data.Headers, columnData{Key: col.Key, Label: col.Label})
	}
	for _, def := range defs {
		data.Headers = append(data.Headers, columnData{Key: def.Key, Label: r.label(def), Required: def.Required})
	}

	for _, item := range v.Items() {
		id := item.ID()
		row := itemData{ID: id}
		for _, col := range columns {
			text := ""
			if col.Render != nil {
				text = col.Render(item)
			}
			if strings.TrimSpace(text) == "" {
				text = field.Placeholder
			}
			row.Columns = append(row.Columns, text)
		}
		for _, def := range defs {
			f, err := v.RowField(id, def.Key)
			if err != nil {
				return inlineData{}, err
			}
			cell, err := r.cell("row-"+id, f, st)
			if err != nil {
				return inlineData{}, err
			}
			cell.Bare = true
			row.Cells = append(row.Cells, cell)
		}
		data.Items = append(data.Items, row)
	}

	if v.DraftOpen() {
		draft := &draftData{Error: v.DraftError()}
		for _, def := range defs {
			f, err := v.DraftField(def.Key)
			if err != nil {
				return inlineData{}, err
			}
			cell, err := r.cell("draft", f, st)
			if err != nil {
				return inlineData{}, err
			}
			draft.Cells = append(draft.Cells, cell)
		}
		data.Draft = draft
	}
	return data, nil
}
