package core

import (
	"context"
	"fmt"
	"math"

	"roadmapcore/pkg/domain"
)

// NewFiniteValuesRule blocks NaN and infinite percentages, which the file
// format cannot encode.
func NewFiniteValuesRule() domain.Rule {
	return finiteValuesRule{}
}

type finiteValuesRule struct{}

func (finiteValuesRule) Name() string { return "finite_values" }

func (r finiteValuesRule) Evaluate(_ context.Context, doc domain.Document, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	c := doc.CapacityModel
	for _, pct := range []float64{c.ProductValuePct, c.PlatformPct, c.DiscoveryOpsPct} {
		if !finite(pct) {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     r.Name(),
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("capacity model holds a non-finite percentage (%g)", pct),
				Entity:   domain.EntityCapacity,
			})
			break
		}
	}
	for _, in := range doc.Initiatives {
		if !finite(in.AllocationPct) {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     r.Name(),
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("initiative %q has a non-finite allocation (%g)", in.Title, in.AllocationPct),
				Entity:   domain.EntityInitiative,
				EntityID: in.ID,
			})
		}
	}
	return res, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
