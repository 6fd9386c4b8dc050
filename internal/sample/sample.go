// Package sample provides the built-in demo roadmap used on first run, on
// reset, and as the backfill source when importing older files.
package sample

import (
	"time"

	"roadmapcore/pkg/domain"
)

// Year is the planning year of the demo roadmap.
const Year = 2026

var seededAt = time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)

// Document returns a fresh copy of the demo roadmap. Callers may mutate the
// result freely.
func Document() domain.Document {
	return domain.Document{
		Meta: domain.Meta{
			Year:        Year,
			ProductName: "Atlas",
			CompanyName: "Northwind",
			UpdatedAt:   seededAt,
		},
		NorthStar: domain.NorthStar{
			Name:          "Weekly active teams",
			Description:   "Teams that plan and ship at least one initiative in Atlas during a week.",
			AhaDefinition: "A team publishes its first shared roadmap within seven days of signup.",
			PrimaryMetric: "WAT",
		},
		Metrics: []domain.Metric{
			{ID: "kpi-activation", Name: "Activation rate", Definition: "Share of new workspaces reaching the aha moment in week one.", Target: "45%", Owner: "Growth"},
			{ID: "kpi-retention", Name: "Net revenue retention", Definition: "Twelve month revenue retention including expansion.", Target: "115%", Owner: "Finance"},
			{ID: "kpi-latency", Name: "p95 page load", Definition: "95th percentile time to interactive on the planning board.", Target: "< 1.5s", Owner: "Platform"},
		},
		Pillars: []domain.Pillar{
			{ID: "growth", Name: "Growth", Description: "Bring more teams to their first roadmap.", Icon: domain.IconRocket},
			{ID: "retention", Name: "Retention", Description: "Make planning a weekly habit.", Icon: domain.IconRepeat},
			{ID: "monetization", Name: "Monetization", Description: "Grow revenue per workspace.", Icon: domain.IconCoins},
			{ID: "platform", Name: "Platform", Description: "Performance, reliability and security.", Icon: domain.IconShield},
		},
		QuarterThemes: Themes(),
		Initiatives: []domain.Initiative{
			{
				ID:             "init-onboarding",
				Title:          "Guided onboarding",
				Quarter:        domain.Q1,
				PillarID:       "growth",
				Status:         domain.StatusCommitted,
				Owner:          "Maja",
				Problem:        "New workspaces stall before creating their first initiative.",
				Outcome:        "Activation rate up ten points.",
				Hypothesis:     "A template driven first run removes the blank page problem.",
				Scope:          "Templates, checklist, sample data import.",
				SuccessMetrics: "Activation rate, time to first roadmap.",
				Dependencies:   "Design system refresh.",
				Risks:          "Template quality.",
				Confidence:     domain.ConfidenceHigh,
				Effort:         domain.EffortM,
				AllocationPct:  40,
				Tags:           []string{"onboarding", "activation"},
				Links:          []domain.Link{{Label: "Discovery notes", URL: "https://wiki.example.com/onboarding"}},
				CreatedAt:      seededAt,
				UpdatedAt:      seededAt,
			},
			{
				ID:             "init-weekly-digest",
				Title:          "Weekly digest email",
				Quarter:        domain.Q1,
				PillarID:       "retention",
				Status:         domain.StatusLikely,
				Owner:          "Jonas",
				Problem:        "Stakeholders forget to check the roadmap between planning sessions.",
				Outcome:        "More returning viewers per workspace.",
				Hypothesis:     "A digest of changes pulls viewers back weekly.",
				Scope:          "Digest generation and delivery preferences.",
				SuccessMetrics: "Weekly returning viewers.",
				Effort:         domain.EffortS,
				AllocationPct:  20,
				Tags:           []string{"engagement"},
				CreatedAt:      seededAt,
				UpdatedAt:      seededAt,
			},
			{
				ID:             "init-usage-pricing",
				Title:          "Usage based pricing pilot",
				Quarter:        domain.Q2,
				PillarID:       "monetization",
				Status:         domain.StatusBet,
				Owner:          "Ingrid",
				Problem:        "Seat pricing blocks adoption in large organisations.",
				Outcome:        "Validated pricing model with five design partners.",
				Hypothesis:     "Pricing on active teams aligns cost with value.",
				Scope:          "Metering, billing integration, pilot contracts.",
				SuccessMetrics: "Pilot conversion, expansion revenue.",
				Dependencies:   "Billing provider API.",
				Risks:          "Revenue cannibalisation.",
				Confidence:     domain.ConfidenceLow,
				Effort:         domain.EffortL,
				AllocationPct:  30,
				Tags:           []string{"pricing", "pilot"},
				CreatedAt:      seededAt,
				UpdatedAt:      seededAt,
			},
			{
				ID:             "init-board-performance",
				Title:          "Planning board performance",
				Quarter:        domain.Q2,
				PillarID:       "platform",
				Status:         domain.StatusCommitted,
				Owner:          "Erik",
				Problem:        "Large boards take several seconds to become interactive.",
				Outcome:        "p95 load under 1.5 seconds.",
				Hypothesis:     "Virtualised rendering and incremental sync remove the bottleneck.",
				Scope:          "Board virtualisation, sync protocol.",
				SuccessMetrics: "p95 page load.",
				Confidence:     domain.ConfidenceMedium,
				Effort:         domain.EffortXL,
				AllocationPct:  50,
				Tags:           []string{"performance"},
				CreatedAt:      seededAt,
				UpdatedAt:      seededAt,
			},
		},
		CapacityModel: domain.CapacityModel{
			ProductValuePct: 60,
			PlatformPct:     25,
			DiscoveryOpsPct: 15,
		},
		Filters: domain.Filters{
			Quarters: []domain.Quarter{},
			Statuses: []domain.InitiativeStatus{},
			Pillars:  []string{},
			Owners:   []string{},
			Tags:     []string{},
		},
		UI: domain.UIState{
			ViewMode: domain.ViewExec,
			SortMode: domain.SortDefault,
		},
	}
}

// Themes returns the demo quarter themes, one per quarter.
func Themes() map[domain.Quarter]domain.QuarterTheme {
	return map[domain.Quarter]domain.QuarterTheme{
		domain.Q1: {Quarter: domain.Q1, Theme: "Activation", Goals: "Every new team reaches a first roadmap in a week."},
		domain.Q2: {Quarter: domain.Q2, Theme: "Scale", Goals: "Large organisations plan without friction."},
		domain.Q3: {Quarter: domain.Q3, Theme: "Expansion", Goals: "Grow revenue per workspace."},
		domain.Q4: {Quarter: domain.Q4, Theme: "Consolidation", Goals: "Harden the platform for next year."},
	}
}
