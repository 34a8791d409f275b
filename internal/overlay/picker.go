// Package overlay provides the value-picker popup.
//
// The picker is a leaf UI widget anchored at a document position.
// Plugins wire its selection callback to editing intents; the editor
// core never depends on it and it lives entirely outside the event
// pipeline.
package overlay

import (
	"sort"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/najor/Aloha-Editor/internal/boundary"
	"github.com/najor/Aloha-Editor/internal/event"
)

// Item is one pickable entry.
type Item struct {
	// Value is what selection callbacks receive.
	Value string
	// Label is the display text searched by the filter.
	Label string
}

// Picker is a filterable popup list of items.
type Picker struct {
	mu       sync.Mutex
	items    []Item
	filtered []Item
	query    string
	selected int
	visible  bool
	anchor   boundary.Boundary
	onSelect []func(value string)
}

// New creates a picker over the given items.
func New(items []Item) *Picker {
	p := &Picker{items: items}
	p.filtered = append([]Item(nil), items...)
	return p
}

// OnSelect registers a callback fired when an item is chosen.
func (p *Picker) OnSelect(fn func(value string)) {
	if fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onSelect = append(p.onSelect, fn)
}

// Show opens the picker anchored at a document position, with the
// filter reset.
func (p *Picker) Show(anchor boundary.Boundary) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = true
	p.anchor = anchor
	p.query = ""
	p.selected = 0
	p.filterLocked()
}

// Hide closes the picker.
func (p *Picker) Hide() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = false
}

// Visible reports whether the picker is open.
func (p *Picker) Visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible
}

// Anchor returns the document position the picker is attached to.
func (p *Picker) Anchor() boundary.Boundary {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.anchor
}

// Query returns the current filter text.
func (p *Picker) Query() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

// Items returns the entries matching the current filter, best match
// first.
func (p *Picker) Items() []Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Item(nil), p.filtered...)
}

// SetQuery replaces the filter text and re-filters.
func (p *Picker) SetQuery(q string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.query = q
	p.selected = 0
	p.filterLocked()
}

// filterLocked ranks the items against the query.
func (p *Picker) filterLocked() {
	if p.query == "" {
		p.filtered = append(p.filtered[:0:0], p.items...)
		return
	}
	type ranked struct {
		item Item
		rank int
	}
	var matches []ranked
	for _, it := range p.items {
		r := fuzzy.RankMatchNormalizedFold(p.query, it.Label)
		if r < 0 {
			continue
		}
		matches = append(matches, ranked{item: it, rank: r})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].rank < matches[j].rank })
	p.filtered = p.filtered[:0]
	for _, m := range matches {
		p.filtered = append(p.filtered, m.item)
	}
}

// Move shifts the highlighted entry by delta, clamped to the list.
func (p *Picker) Move(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selected += delta
	if p.selected < 0 {
		p.selected = 0
	}
	if max := len(p.filtered) - 1; p.selected > max {
		p.selected = max
	}
}

// Selected returns the highlighted entry.
func (p *Picker) Selected() (Item, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected < 0 || p.selected >= len(p.filtered) {
		return Item{}, false
	}
	return p.filtered[p.selected], true
}

// Hover highlights the entry at index without choosing it.
func (p *Picker) Hover(i int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i >= 0 && i < len(p.filtered) {
		p.selected = i
	}
}

// Click chooses the entry at index.
func (p *Picker) Click(i int) {
	p.mu.Lock()
	if !p.visible || i < 0 || i >= len(p.filtered) {
		p.mu.Unlock()
		return
	}
	p.selected = i
	p.mu.Unlock()
	p.choose()
}

// HandleKey lets the open picker consume keyboard input. It returns
// true when the key was handled and must not reach the editor.
func (p *Picker) HandleKey(ev *event.Event) bool {
	if ev == nil || !p.Visible() {
		return false
	}
	switch {
	case ev.Key == event.KeyUp:
		p.Move(-1)
	case ev.Key == event.KeyDown:
		p.Move(1)
	case ev.Key == event.KeyEnter:
		p.choose()
	case ev.Key == event.KeyEscape:
		p.Hide()
	case ev.Key == event.KeyBackspace:
		q := p.Query()
		if q != "" {
			runes := []rune(q)
			p.SetQuery(string(runes[:len(runes)-1]))
		}
	case ev.IsChar():
		p.SetQuery(p.Query() + string(ev.Rune))
	default:
		return false
	}
	return true
}

// choose fires the selection callbacks for the highlighted entry and
// hides the picker.
func (p *Picker) choose() {
	p.mu.Lock()
	if !p.visible || p.selected < 0 || p.selected >= len(p.filtered) {
		p.mu.Unlock()
		return
	}
	value := p.filtered[p.selected].Value
	callbacks := append(make([]func(string), 0, len(p.onSelect)), p.onSelect...)
	p.visible = false
	p.mu.Unlock()

	for _, fn := range callbacks {
		fn(value)
	}
}
