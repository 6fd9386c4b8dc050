// Package render draws plain-terminal views of a roadmap document.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"roadmapcore/internal/core"
	"roadmapcore/pkg/domain"
)

type styles struct {
	title   lipgloss.Style
	heading lipgloss.Style
	muted   lipgloss.Style
	ok      lipgloss.Style
	warn    lipgloss.Style
	block   lipgloss.Style
	quarter lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")),
		heading: r.NewStyle().Bold(true).MarginTop(1),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#A0AEC0")),
		ok:      r.NewStyle().Foreground(lipgloss.Color("#4CAF50")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true),
		block:   r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		quarter: r.NewStyle().Width(4),
	}
}

// Summary writes an overview of doc: north star, capacity, per-quarter
// allocation, status mix and the filtered initiatives in the stored sort
// order. Colours are only emitted when w is a colour terminal.
func Summary(w io.Writer, doc domain.Document) error {
	st := newStyles(lipgloss.NewRenderer(w))
	var b strings.Builder
	line := func(s string) { b.WriteString(s + "\n") }

	line(st.title.Render(fmt.Sprintf("%s roadmap %d", doc.Meta.ProductName, doc.Meta.Year)))
	if doc.Meta.CompanyName != "" {
		line(st.muted.Render(doc.Meta.CompanyName))
	}
	if doc.NorthStar.Name != "" {
		line(fmt.Sprintf("North star: %s (%s)", doc.NorthStar.Name, doc.NorthStar.PrimaryMetric))
	}

	c := doc.CapacityModel
	capStyle := st.ok
	if core.CapacityTotal(c) != 100 {
		capStyle = st.warn
	}
	line(st.heading.Render("Capacity"))
	line(fmt.Sprintf("product %g%%, platform %g%%, discovery/ops %g%% = %s",
		c.ProductValuePct, c.PlatformPct, c.DiscoveryOpsPct,
		capStyle.Render(fmt.Sprintf("%g%%", core.CapacityTotal(c)))))

	line(st.heading.Render("Quarters"))
	alloc := core.AllocationByQuarter(doc.Initiatives)
	for _, q := range domain.Quarters {
		total := fmt.Sprintf("%g%%", alloc[q])
		if alloc[q] > 100 {
			total = st.block.Render(total + " over capacity")
		}
		theme := doc.QuarterThemes[q].Theme
		line(fmt.Sprintf("%s %s %s", st.quarter.Render(string(q)), total, st.muted.Render(theme)))
	}

	line(st.heading.Render("Status mix"))
	mix := core.StatusMix(doc.Initiatives)
	parts := make([]string, 0, len(domain.Statuses))
	for _, s := range domain.Statuses {
		parts = append(parts, fmt.Sprintf("%s %d", s, mix[s]))
	}
	line(strings.Join(parts, ", "))

	shown := core.SortInitiatives(core.FilteredInitiatives(doc), doc.UI.SortMode)
	line(st.heading.Render(fmt.Sprintf("Initiatives (%d of %d)", len(shown), len(doc.Initiatives))))
	names := make(map[string]string, len(doc.Pillars))
	for _, p := range doc.Pillars {
		names[p.ID] = p.Name
	}
	for _, in := range shown {
		pillar := names[in.PillarID]
		if pillar == "" {
			pillar = in.PillarID
		}
		line(fmt.Sprintf("%s %s %s", st.quarter.Render(string(in.Quarter)), in.Title,
			st.muted.Render(fmt.Sprintf("(%s, %s, %g%%)", pillar, in.Status, in.AllocationPct))))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Violations writes one line per rule violation; nothing for a clean result.
func Violations(w io.Writer, res domain.Result) error {
	if len(res.Violations) == 0 {
		return nil
	}
	st := newStyles(lipgloss.NewRenderer(w))
	var b strings.Builder
	for _, v := range res.Violations {
		style := st.warn
		if v.Severity == domain.SeverityBlock {
			style = st.block
		}
		target := string(v.Entity)
		if v.EntityID != "" {
			target += " " + v.EntityID
		}
		b.WriteString(fmt.Sprintf("%s %s: %s\n", style.Render(string(v.Severity)), target, v.Message))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
