package codec

import "roadmapcore/pkg/domain"

// UnassignedPillar is the sentinel synthesized for unresolvable references.
func UnassignedPillar() domain.Pillar {
	return domain.Pillar{ID: domain.UnassignedPillarID, Name: "Unassigned", Icon: domain.IconLayers}
}

// EnsureUnassignedPillar returns pillars with the sentinel appended when it
// is not already present. Existing order is preserved.
func EnsureUnassignedPillar(pillars []domain.Pillar) []domain.Pillar {
	out := make([]domain.Pillar, 0, len(pillars)+1)
	out = append(out, pillars...)
	for _, p := range pillars {
		if p.ID == domain.UnassignedPillarID {
			return out
		}
	}
	return append(out, UnassignedPillar())
}

// HealPillarReferences rewrites the pillar id of every initiative pointing at
// a pillar that is not in pillars to the sentinel id.
func HealPillarReferences(initiatives []domain.Initiative, pillars []domain.Pillar) []domain.Initiative {
	known := make(map[string]struct{}, len(pillars))
	for _, p := range pillars {
		known[p.ID] = struct{}{}
	}
	out := make([]domain.Initiative, len(initiatives))
	for i, in := range initiatives {
		cp := domain.CloneInitiative(in)
		if _, ok := known[cp.PillarID]; !ok {
			cp.PillarID = domain.UnassignedPillarID
		}
		out[i] = cp
	}
	return out
}

// BackfillQuarterThemes fills every quarter missing from themes with the
// matching entry of defaults.
func BackfillQuarterThemes(themes, defaults map[domain.Quarter]domain.QuarterTheme) map[domain.Quarter]domain.QuarterTheme {
	out := make(map[domain.Quarter]domain.QuarterTheme, len(domain.Quarters))
	for q, t := range themes {
		out[q] = t
	}
	for _, q := range domain.Quarters {
		if _, ok := out[q]; ok {
			continue
		}
		def, ok := defaults[q]
		if !ok {
			def = domain.QuarterTheme{}
		}
		def.Quarter = q
		out[q] = def
	}
	return out
}
