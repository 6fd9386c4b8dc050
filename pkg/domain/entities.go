// Package domain defines the roadmap state document, its entity and value
// types, and the rule evaluation primitives used by roadmapcore.
package domain

import "time"

// EntityType identifies the kind of record a Change or Violation refers to.
type EntityType string

// Supported entity type identifiers used in Change records and violations.
const (
	// EntityDocument identifies the state document as a whole.
	EntityDocument EntityType = "document"
	// EntityMeta identifies the document metadata block.
	EntityMeta       EntityType = "meta"
	EntityInitiative EntityType = "initiative"
	EntityPillar     EntityType = "pillar"
	EntityMetric     EntityType = "metric"
	EntityCapacity   EntityType = "capacity_model"
	EntityQuarter    EntityType = "quarter"
)

// Quarter is one of the four fixed planning quarters.
type Quarter string

// Planning quarters in calendar order.
const (
	Q1 Quarter = "Q1"
	Q2 Quarter = "Q2"
	Q3 Quarter = "Q3"
	Q4 Quarter = "Q4"
)

// Quarters lists every quarter in display order.
var Quarters = []Quarter{Q1, Q2, Q3, Q4}

// Valid reports whether q is one of the fixed quarters.
func (q Quarter) Valid() bool {
	switch q {
	case Q1, Q2, Q3, Q4:
		return true
	}
	return false
}

// InitiativeStatus captures how firmly an initiative is planned.
type InitiativeStatus string

// Initiative statuses ordered by display priority.
const (
	StatusCommitted InitiativeStatus = "committed"
	StatusLikely    InitiativeStatus = "likely"
	StatusBet       InitiativeStatus = "bet"
)

// Statuses lists every status in display priority order.
var Statuses = []InitiativeStatus{StatusCommitted, StatusLikely, StatusBet}

// Valid reports whether s is a known status.
func (s InitiativeStatus) Valid() bool {
	switch s {
	case StatusCommitted, StatusLikely, StatusBet:
		return true
	}
	return false
}

// Rank returns the display priority of s; unknown statuses sort last.
func (s InitiativeStatus) Rank() int {
	for i, st := range Statuses {
		if st == s {
			return i
		}
	}
	return len(Statuses)
}

// PillarIcon is the closed set of icon tags a pillar may carry.
type PillarIcon string

// Pillar icon tags.
const (
	IconRocket PillarIcon = "rocket"
	IconRepeat PillarIcon = "repeat"
	IconCoins  PillarIcon = "coins"
	IconGauge  PillarIcon = "gauge"
	IconShield PillarIcon = "shield"
	IconLayers PillarIcon = "layers"
)

// Valid reports whether i is a known icon tag. The empty tag is valid (unset).
func (i PillarIcon) Valid() bool {
	switch i {
	case "", IconRocket, IconRepeat, IconCoins, IconGauge, IconShield, IconLayers:
		return true
	}
	return false
}

// Confidence is an optional estimate attached to an initiative.
type Confidence string

// Confidence levels.
const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Valid reports whether c is unset or a known level.
func (c Confidence) Valid() bool {
	switch c {
	case "", ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return true
	}
	return false
}

// Effort is an optional t-shirt size attached to an initiative.
type Effort string

// Effort sizes.
const (
	EffortS  Effort = "S"
	EffortM  Effort = "M"
	EffortL  Effort = "L"
	EffortXL Effort = "XL"
)

// Valid reports whether e is unset or a known size.
func (e Effort) Valid() bool {
	switch e {
	case "", EffortS, EffortM, EffortL, EffortXL:
		return true
	}
	return false
}

// ViewMode selects the presentation the UI renders.
type ViewMode string

// View modes.
const (
	ViewExec  ViewMode = "exec"
	ViewTeam  ViewMode = "team"
	ViewSetup ViewMode = "setup"
)

// Valid reports whether v is a known view mode.
func (v ViewMode) Valid() bool {
	switch v {
	case ViewExec, ViewTeam, ViewSetup:
		return true
	}
	return false
}

// SortMode selects how initiative lists are ordered.
type SortMode string

// Sort modes.
const (
	SortDefault    SortMode = "default"
	SortStatus     SortMode = "status"
	SortPillar     SortMode = "pillar"
	SortAllocation SortMode = "allocation"
	SortOwner      SortMode = "owner"
)

// Valid reports whether m is a known sort mode.
func (m SortMode) Valid() bool {
	switch m {
	case SortDefault, SortStatus, SortPillar, SortAllocation, SortOwner:
		return true
	}
	return false
}

// UnassignedPillarID is the reserved id of the fallback pillar synthesized
// on import for initiatives whose pillar cannot be resolved.
const UnassignedPillarID = "unassigned"

// Meta holds document level metadata.
type Meta struct {
	Year        int       `json:"year"`
	ProductName string    `json:"productName"`
	CompanyName string    `json:"companyName"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NorthStar is the single overarching outcome the roadmap is organised around.
type NorthStar struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	AhaDefinition string `json:"ahaDefinition"`
	PrimaryMetric string `json:"primaryMetric"`
}

// Metric is a KPI tracked alongside the roadmap.
type Metric struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Definition string `json:"definition"`
	Target     string `json:"target"`
	Owner      string `json:"owner"`
}

// Pillar is a strategic category initiatives are grouped under.
type Pillar struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        PillarIcon `json:"icon"`
}

// QuarterTheme describes the focus of one quarter.
type QuarterTheme struct {
	Quarter Quarter `json:"quarter"`
	Theme   string  `json:"theme"`
	Goals   string  `json:"goals"`
}

// Link is a labelled reference attached to an initiative.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Initiative is a single roadmap work item.
type Initiative struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Quarter        Quarter          `json:"quarter"`
	PillarID       string           `json:"pillarId"`
	Status         InitiativeStatus `json:"status"`
	Owner          string           `json:"owner"`
	Problem        string           `json:"problem"`
	Outcome        string           `json:"outcome"`
	Hypothesis     string           `json:"hypothesis"`
	Scope          string           `json:"scope"`
	SuccessMetrics string           `json:"successMetrics"`
	Dependencies   string           `json:"dependencies"`
	Risks          string           `json:"risks"`
	Confidence     Confidence       `json:"confidence"`
	Effort         Effort           `json:"effort"`
	AllocationPct  float64          `json:"allocationPct"`
	Tags           []string         `json:"tags"`
	Links          []Link           `json:"links"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// CapacityModel is the advisory split of team capacity. The sum is not
// required to equal 100.
type CapacityModel struct {
	ProductValuePct float64 `json:"productValuePct"`
	PlatformPct     float64 `json:"platformPct"`
	DiscoveryOpsPct float64 `json:"discoveryOpsPct"`
}

// Total returns the sum of the three capacity percentages.
func (c CapacityModel) Total() float64 {
	return c.ProductValuePct + c.PlatformPct + c.DiscoveryOpsPct
}

// Filters are the transient view criteria persisted alongside the roadmap.
// An empty dimension imposes no constraint.
type Filters struct {
	Search               string             `json:"search"`
	Quarters             []Quarter          `json:"quarters"`
	Statuses             []InitiativeStatus `json:"statuses"`
	Pillars              []string           `json:"pillars"`
	Owners               []string           `json:"owners"`
	Tags                 []string           `json:"tags"`
	ShowOnlyOverCapacity bool               `json:"showOnlyOverCapacity"`
}

// UIState is pure presentation state kept across reloads.
type UIState struct {
	ViewMode ViewMode `json:"viewMode"`
	SortMode SortMode `json:"sortMode"`
}

// Document is the root state document and the sole unit of persistence.
type Document struct {
	Meta          Meta                     `json:"meta"`
	NorthStar     NorthStar                `json:"northStar"`
	Metrics       []Metric                 `json:"metrics"`
	Pillars       []Pillar                 `json:"pillars"`
	QuarterThemes map[Quarter]QuarterTheme `json:"quarterThemes"`
	Initiatives   []Initiative             `json:"initiatives"`
	CapacityModel CapacityModel            `json:"capacityModel"`
	Filters       Filters                  `json:"filters"`
	UI            UIState                  `json:"ui"`
}

// FindPillar returns the pillar with the given id.
func (d Document) FindPillar(id string) (Pillar, bool) {
	for _, p := range d.Pillars {
		if p.ID == id {
			return p, true
		}
	}
	return Pillar{}, false
}

// FindInitiative returns a copy of the initiative with the given id.
func (d Document) FindInitiative(id string) (Initiative, bool) {
	for _, in := range d.Initiatives {
		if in.ID == id {
			return CloneInitiative(in), true
		}
	}
	return Initiative{}, false
}

// FindMetric returns the metric with the given id.
func (d Document) FindMetric(id string) (Metric, bool) {
	for _, m := range d.Metrics {
		if m.ID == id {
			return m, true
		}
	}
	return Metric{}, false
}

// PillarIDs returns the set of pillar ids present in the document.
func (d Document) PillarIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(d.Pillars))
	for _, p := range d.Pillars {
		ids[p.ID] = struct{}{}
	}
	return ids
}
