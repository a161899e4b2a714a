package form

import (
	"fmt"
	"sync"

	"github.com/goliatone/go-makerdb/pkg/schema"
)

// TabsView is a View whose fields are grouped into tabs. All tabs share the
// record, endpoint and save mode; only the active tab's fields are visible.
type TabsView struct {
	*View

	tabs []schema.Tab

	mu     sync.Mutex
	active int
}

// NewTabsView builds a tabbed view. The first tab starts active.
func NewTabsView(client Persister, tabs []schema.Tab, record Record, opts ...Option) (*TabsView, error) {
	if len(tabs) == 0 {
		return nil, fmt.Errorf("form: at least one tab is required")
	}
	seen := make(map[string]struct{}, len(tabs))
	for _, tab := range tabs {
		if _, dup := seen[tab.Key]; dup {
			return nil, fmt.Errorf("form: duplicate tab %q", tab.Key)
		}
		seen[tab.Key] = struct{}{}
	}
	view, err := NewView(client, schema.Flatten(tabs), record, opts...)
	if err != nil {
		return nil, err
	}
	return &TabsView{View: view, tabs: append([]schema.Tab(nil), tabs...)}, nil
}

// Tabs returns the tab definitions.
func (t *TabsView) Tabs() []schema.Tab {
	return append([]schema.Tab(nil), t.tabs...)
}

// Active returns the active tab.
func (t *TabsView) Active() schema.Tab {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tabs[t.active]
}

// SetActive switches tabs. Field state is kept across switches.
func (t *TabsView) SetActive(key string) error {
	for i, tab := range t.tabs {
		if tab.Key == key {
			t.mu.Lock()
			t.active = i
			t.mu.Unlock()
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownTab, key)
}

// VisibleFields returns the active tab's fields.
func (t *TabsView) VisibleFields() []schema.Field {
	return append([]schema.Field(nil), t.Active().Fields...)
}

// Rows packs the active tab's fields according to the layout.
func (t *TabsView) Rows() []Row {
	return Pack(t.VisibleFields(), t.layout)
}
