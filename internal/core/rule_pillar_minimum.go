package core

import (
	"context"

	"roadmapcore/pkg/domain"
)

// NewPillarMinimumRule refuses any mutation that leaves the document
// without pillars.
func NewPillarMinimumRule() domain.Rule {
	return pillarMinimumRule{}
}

type pillarMinimumRule struct{}

func (pillarMinimumRule) Name() string { return "pillar_minimum" }

func (r pillarMinimumRule) Evaluate(_ context.Context, doc domain.Document, changes []domain.Change) (domain.Result, error) {
	if len(doc.Pillars) > 0 {
		return domain.Result{}, nil
	}
	var id string
	for _, ch := range changes {
		if p, ok := ch.Before.(domain.Pillar); ok && ch.Entity == domain.EntityPillar && ch.Action == domain.ActionDelete {
			id = p.ID
		}
	}
	return domain.Result{Violations: []domain.Violation{{
		Rule:     r.Name(),
		Severity: domain.SeverityBlock,
		Message:  "a roadmap needs at least one pillar",
		Entity:   domain.EntityPillar,
		EntityID: id,
	}}}, nil
}
