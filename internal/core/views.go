package core

import (
	"slices"
	"sort"
	"strings"

	"roadmapcore/pkg/domain"
)

// FilteredInitiatives returns the initiatives matching the quarter, status,
// pillar and search filters of doc, in document order. Owners, Tags and
// ShowOnlyOverCapacity are carried but ignored here; see FocusedInitiatives.
func FilteredInitiatives(doc Document) []Initiative {
	f := doc.Filters
	search := strings.ToLower(f.Search)
	out := make([]Initiative, 0, len(doc.Initiatives))
	for _, in := range doc.Initiatives {
		if len(f.Quarters) > 0 && !slices.Contains(f.Quarters, in.Quarter) {
			continue
		}
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, in.Status) {
			continue
		}
		if len(f.Pillars) > 0 && !slices.Contains(f.Pillars, in.PillarID) {
			continue
		}
		if search != "" && !strings.Contains(searchHaystack(in), search) {
			continue
		}
		out = append(out, domain.CloneInitiative(in))
	}
	return out
}

// FocusedInitiatives narrows FilteredInitiatives further by owner, shared
// tag and over-capacity quarter.
func FocusedInitiatives(doc Document) []Initiative {
	f := doc.Filters
	var over map[domain.Quarter]bool
	if f.ShowOnlyOverCapacity {
		over = make(map[domain.Quarter]bool, len(domain.Quarters))
		for q, total := range AllocationByQuarter(doc.Initiatives) {
			over[q] = total > 100
		}
	}
	filtered := FilteredInitiatives(doc)
	out := filtered[:0]
	for _, in := range filtered {
		if len(f.Owners) > 0 && !slices.Contains(f.Owners, in.Owner) {
			continue
		}
		if len(f.Tags) > 0 && !sharesTag(f.Tags, in.Tags) {
			continue
		}
		if over != nil && !over[in.Quarter] {
			continue
		}
		out = append(out, in)
	}
	return out
}

func searchHaystack(in Initiative) string {
	return strings.ToLower(strings.Join([]string{
		in.Title,
		in.Problem,
		in.Outcome,
		in.Owner,
		strings.Join(in.Tags, " "),
	}, " "))
}

func sharesTag(wanted, tags []string) bool {
	for _, t := range tags {
		if slices.Contains(wanted, t) {
			return true
		}
	}
	return false
}

// AllocationByQuarter sums allocation per quarter. Every quarter is present
// and totals may exceed 100.
func AllocationByQuarter(initiatives []Initiative) map[domain.Quarter]float64 {
	totals := make(map[domain.Quarter]float64, len(domain.Quarters))
	for _, q := range domain.Quarters {
		totals[q] = 0
	}
	for _, in := range initiatives {
		if _, ok := totals[in.Quarter]; ok {
			totals[in.Quarter] += in.AllocationPct
		}
	}
	return totals
}

// StatusMix counts initiatives per status. Every status is present.
func StatusMix(initiatives []Initiative) map[domain.InitiativeStatus]int {
	mix := make(map[domain.InitiativeStatus]int, len(domain.Statuses))
	for _, st := range domain.Statuses {
		mix[st] = 0
	}
	for _, in := range initiatives {
		if _, ok := mix[in.Status]; ok {
			mix[in.Status]++
		}
	}
	return mix
}

// CapacityTotal is the sum of the capacity model percentages.
func CapacityTotal(c domain.CapacityModel) float64 {
	return c.Total()
}

// SortInitiatives returns a sorted copy of list. SortDefault keeps the input
// order; ties always keep input order.
func SortInitiatives(list []Initiative, mode domain.SortMode) []Initiative {
	out := make([]Initiative, len(list))
	for i, in := range list {
		out[i] = domain.CloneInitiative(in)
	}
	var less func(a, b Initiative) bool
	switch mode {
	case domain.SortStatus:
		less = func(a, b Initiative) bool { return a.Status.Rank() < b.Status.Rank() }
	case domain.SortPillar:
		less = func(a, b Initiative) bool { return a.PillarID < b.PillarID }
	case domain.SortAllocation:
		less = func(a, b Initiative) bool { return a.AllocationPct > b.AllocationPct }
	case domain.SortOwner:
		less = func(a, b Initiative) bool { return strings.ToLower(a.Owner) < strings.ToLower(b.Owner) }
	default:
		return out
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// FilteredInitiatives applies the stored filters to the current document.
func (s *Store) FilteredInitiatives() []Initiative {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FilteredInitiatives(s.doc)
}

// FocusedInitiatives applies every stored filter dimension to the current
// document.
func (s *Store) FocusedInitiatives() []Initiative {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FocusedInitiatives(s.doc)
}

// SortedInitiatives returns the filtered initiatives in the stored sort mode.
func (s *Store) SortedInitiatives() []Initiative {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SortInitiatives(FilteredInitiatives(s.doc), s.doc.UI.SortMode)
}

// AllocationByQuarter aggregates over all initiatives, ignoring filters.
func (s *Store) AllocationByQuarter() map[domain.Quarter]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return AllocationByQuarter(s.doc.Initiatives)
}

// StatusMix aggregates over all initiatives, ignoring filters.
func (s *Store) StatusMix() map[domain.InitiativeStatus]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StatusMix(s.doc.Initiatives)
}
