package codec

import (
	"encoding/json"
	"fmt"
	"time"

	"roadmapcore/internal/validation"
	"roadmapcore/pkg/domain"
)

// fieldSet maps JSON keys to pre-populated destinations. Keys missing from
// the input keep the default already stored in the destination.
type fieldSet map[string]any

func bindFields(section string, raw json.RawMessage, fields fieldSet) error {
	if absent(raw) {
		return nil
	}
	if firstByte(raw) != '{' {
		return malformedf(nil, "%s must be an object", section)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return malformedf(err, "decode %s", section)
	}
	for name, dst := range fields {
		value, ok := obj[name]
		if !ok || absent(value) {
			continue
		}
		if err := json.Unmarshal(value, dst); err != nil {
			return malformedf(err, "%s.%s", section, name)
		}
	}
	return nil
}

func parseTimestamp(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, malformedf(err, "%s is not an RFC 3339 timestamp", field)
	}
	return t.UTC(), nil
}

func decodeMeta(raw json.RawMessage, def domain.Meta) (domain.Meta, error) {
	m := def
	var updated string
	err := bindFields("meta", raw, fieldSet{
		"year":        &m.Year,
		"productName": &m.ProductName,
		"companyName": &m.CompanyName,
		"updatedAt":   &updated,
	})
	if err != nil {
		return domain.Meta{}, err
	}
	if updated != "" {
		if m.UpdatedAt, err = parseTimestamp("meta.updatedAt", updated); err != nil {
			return domain.Meta{}, err
		}
	}
	return m, nil
}

func decodeNorthStar(raw json.RawMessage, def domain.NorthStar) (domain.NorthStar, error) {
	ns := def
	err := bindFields("northStar", raw, fieldSet{
		"name":          &ns.Name,
		"description":   &ns.Description,
		"ahaDefinition": &ns.AhaDefinition,
		"primaryMetric": &ns.PrimaryMetric,
	})
	return ns, err
}

func decodeCapacity(raw json.RawMessage, def domain.CapacityModel) (domain.CapacityModel, error) {
	c := def
	err := bindFields("capacityModel", raw, fieldSet{
		"productValuePct": &c.ProductValuePct,
		"platformPct":     &c.PlatformPct,
		"discoveryOpsPct": &c.DiscoveryOpsPct,
	})
	return c, err
}

func decodeFilters(raw json.RawMessage, def domain.Filters) (domain.Filters, error) {
	f := def
	err := bindFields("filters", raw, fieldSet{
		"search":               &f.Search,
		"quarters":             &f.Quarters,
		"statuses":             &f.Statuses,
		"pillars":              &f.Pillars,
		"owners":               &f.Owners,
		"tags":                 &f.Tags,
		"showOnlyOverCapacity": &f.ShowOnlyOverCapacity,
	})
	if err != nil {
		return domain.Filters{}, err
	}
	quarters := f.Quarters[:0:0]
	for _, q := range f.Quarters {
		if q.Valid() {
			quarters = append(quarters, q)
		}
	}
	statuses := f.Statuses[:0:0]
	for _, s := range f.Statuses {
		if s.Valid() {
			statuses = append(statuses, s)
		}
	}
	f.Quarters, f.Statuses = quarters, statuses
	return f, nil
}

func decodeUI(raw json.RawMessage, def domain.UIState) (domain.UIState, error) {
	ui := def
	if err := bindFields("ui", raw, fieldSet{
		"viewMode": &ui.ViewMode,
		"sortMode": &ui.SortMode,
	}); err != nil {
		return domain.UIState{}, err
	}
	if !ui.ViewMode.Valid() {
		ui.ViewMode = def.ViewMode
	}
	if !ui.SortMode.Valid() {
		ui.SortMode = def.SortMode
	}
	return ui, nil
}

func decodeMetrics(raw json.RawMessage, def []domain.Metric) ([]domain.Metric, error) {
	if absent(raw) {
		return def, nil
	}
	if !isArray(raw) {
		return nil, malformed("metrics must be an array", nil)
	}
	var metrics []domain.Metric
	if err := json.Unmarshal(raw, &metrics); err != nil {
		return nil, malformed("decode metrics", err)
	}
	for i, m := range metrics {
		if m.ID == "" {
			return nil, malformedf(nil, "metrics[%d] has no id", i)
		}
	}
	return metrics, nil
}

func decodeQuarterThemes(raw json.RawMessage, def map[domain.Quarter]domain.QuarterTheme) (map[domain.Quarter]domain.QuarterTheme, error) {
	themes := make(map[domain.Quarter]domain.QuarterTheme, len(domain.Quarters))
	if !absent(raw) {
		if firstByte(raw) != '{' {
			return nil, malformed("quarterThemes must be an object", nil)
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, malformed("decode quarterThemes", err)
		}
		for _, q := range domain.Quarters {
			value, ok := obj[string(q)]
			if !ok || absent(value) {
				continue
			}
			var theme domain.QuarterTheme
			if err := json.Unmarshal(value, &theme); err != nil {
				return nil, malformedf(err, "quarterThemes.%s", q)
			}
			theme.Quarter = q
			themes[q] = theme
		}
	}
	return BackfillQuarterThemes(themes, def), nil
}

func decodePillars(raw json.RawMessage) ([]domain.Pillar, error) {
	var pillars []domain.Pillar
	if err := json.Unmarshal(raw, &pillars); err != nil {
		return nil, malformed("decode pillars", err)
	}
	out := make([]domain.Pillar, 0, len(pillars))
	for i, p := range pillars {
		if p.ID == "" {
			return nil, malformedf(nil, "pillars[%d] has no id", i)
		}
		if !p.Icon.Valid() {
			p.Icon = ""
		}
		out = append(out, p)
	}
	return out, nil
}

// initiativeWire shadows the timestamp fields so empty or legacy values can
// be parsed explicitly instead of failing inside time.Time.
type initiativeWire struct {
	domain.Initiative
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func decodeInitiatives(raw json.RawMessage) ([]domain.Initiative, error) {
	var wires []initiativeWire
	if err := json.Unmarshal(raw, &wires); err != nil {
		return nil, malformed("decode initiatives", err)
	}
	out := make([]domain.Initiative, 0, len(wires))
	for i, w := range wires {
		in := w.Initiative
		if in.ID == "" {
			in.ID = fmt.Sprintf("imported-%d", i+1)
		}
		if !in.Quarter.Valid() {
			in.Quarter = domain.Q1
		}
		if !in.Status.Valid() {
			in.Status = domain.StatusLikely
		}
		var err error
		if in.CreatedAt, err = parseTimestamp("createdAt", w.CreatedAt); err != nil {
			return nil, err
		}
		if in.UpdatedAt, err = parseTimestamp("updatedAt", w.UpdatedAt); err != nil {
			return nil, err
		}
		if !in.Confidence.Valid() {
			in.Confidence = ""
		}
		if !in.Effort.Valid() {
			in.Effort = ""
		}
		if in.Tags == nil {
			in.Tags = []string{}
		}
		in.AllocationPct = validation.ClampAllocation(in.AllocationPct)
		out = append(out, in)
	}
	return out, nil
}
