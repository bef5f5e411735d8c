package filter

import (
	"strings"

	"github.com/riskibarqy/match-metrics/internal/domain/match"
)

// Filter reduces or reorders a match population. Apply never mutates its
// input slice.
type Filter interface {
	Name() string
	Apply(records []match.Record) []match.Record
}

// NoFilter returns its input unchanged.
type NoFilter struct{}

func (NoFilter) Name() string { return "none" }

func (NoFilter) Apply(records []match.Record) []match.Record {
	return records
}

// Composite applies its filters in order, feeding each output to the next.
// Set-reducing filters commute; sequence filters do not.
type Composite struct {
	filters []Filter
}

func NewComposite(filters ...Filter) *Composite {
	out := make([]Filter, 0, len(filters))
	for _, item := range filters {
		if item == nil {
			continue
		}
		if _, ok := item.(NoFilter); ok {
			continue
		}
		out = append(out, item)
	}
	return &Composite{filters: out}
}

func (c *Composite) Name() string {
	return "composite(" + strings.Join(c.Names(), ",") + ")"
}

func (c *Composite) Apply(records []match.Record) []match.Record {
	out := records
	for _, item := range c.filters {
		out = item.Apply(out)
	}
	return out
}

func (c *Composite) Filters() []Filter {
	return append([]Filter(nil), c.filters...)
}

func (c *Composite) Names() []string {
	names := make([]string, 0, len(c.filters))
	for _, item := range c.filters {
		names = append(names, item.Name())
	}
	return names
}

func (c *Composite) Len() int {
	return len(c.filters)
}

// IsSequence reports whether f depends on the order of its input rather than
// on membership alone.
func IsSequence(f Filter) bool {
	switch f.(type) {
	case LastMatchesFilter, *LastMatchesFilter, FirstMatchesFilter, *FirstMatchesFilter:
		return true
	default:
		return false
	}
}

func keep(records []match.Record, pred func(match.Record) bool) []match.Record {
	out := make([]match.Record, 0, len(records))
	for _, rec := range records {
		if pred(rec) {
			out = append(out, rec)
		}
	}
	return out
}
