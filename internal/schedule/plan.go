package schedule

import "time"

// Entry is one runnable job in the plan.
type Entry struct {
	Name      string
	Task      string
	Timing    Timing
	Args      []any
	Kwargs    map[string]any
	Options   map[string]any
	LastRunAt time.Time
}

// Plan is the in-memory set of jobs the scheduler evaluates each tick.
// Entries keep their insertion position across replacements so dispatch
// order is stable between syncs. Plan is not safe for concurrent use; the
// scheduler loop owns it.
type Plan struct {
	order   []string
	entries map[string]*Entry
}

func NewPlan() *Plan {
	return &Plan{
		entries: make(map[string]*Entry),
	}
}

// Set adds or replaces the entry. A replaced entry keeps its position.
func (p *Plan) Set(e *Entry) {
	if _, exists := p.entries[e.Name]; !exists {
		p.order = append(p.order, e.Name)
	}
	p.entries[e.Name] = e
}

// Remove drops the entry by name. Unknown names are a no-op.
func (p *Plan) Remove(name string) {
	if _, exists := p.entries[name]; !exists {
		return
	}
	delete(p.entries, name)
	for i, n := range p.order {
		if n == name {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

func (p *Plan) Get(name string) (*Entry, bool) {
	e, ok := p.entries[name]
	return e, ok
}

// Entries returns the entries in insertion order.
func (p *Plan) Entries() []*Entry {
	out := make([]*Entry, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, p.entries[name])
	}
	return out
}

// Names returns the entry names in insertion order.
func (p *Plan) Names() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

func (p *Plan) Len() int {
	return len(p.entries)
}
