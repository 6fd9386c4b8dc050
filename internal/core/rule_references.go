package core

import (
	"context"
	"fmt"

	"roadmapcore/internal/validation"
	"roadmapcore/pkg/domain"
)

// NewPillarReferenceRule flags initiatives pointing at a pillar that does not exist.
func NewPillarReferenceRule() domain.Rule {
	return pillarReferenceRule{}
}

type pillarReferenceRule struct{}

func (pillarReferenceRule) Name() string { return "pillar_reference" }

func (r pillarReferenceRule) Evaluate(_ context.Context, doc domain.Document, _ []domain.Change) (domain.Result, error) {
	known := doc.PillarIDs()
	res := domain.Result{}
	for _, in := range doc.Initiatives {
		if _, ok := known[in.PillarID]; ok {
			continue
		}
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     r.Name(),
			Severity: domain.SeverityWarn,
			Message:  fmt.Sprintf("initiative %q references unknown pillar %q", in.Title, in.PillarID),
			Entity:   domain.EntityInitiative,
			EntityID: in.ID,
		})
	}
	return res, nil
}

// NewLinkURLRule flags initiative links that are not absolute http(s) URLs.
func NewLinkURLRule() domain.Rule {
	return linkURLRule{}
}

type linkURLRule struct{}

func (linkURLRule) Name() string { return "link_url" }

func (r linkURLRule) Evaluate(_ context.Context, doc domain.Document, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, in := range doc.Initiatives {
		for _, idx := range validation.InvalidLinks(in.Links) {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     r.Name(),
				Severity: domain.SeverityWarn,
				Message:  fmt.Sprintf("link %q on %q is not an http(s) URL", in.Links[idx].URL, in.Title),
				Entity:   domain.EntityInitiative,
				EntityID: in.ID,
			})
		}
	}
	return res, nil
}
