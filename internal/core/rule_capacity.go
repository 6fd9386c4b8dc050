package core

import (
	"context"
	"fmt"

	"roadmapcore/pkg/domain"
)

// NewCapacityModelTotalRule warns when the capacity split does not add up to 100%.
func NewCapacityModelTotalRule() domain.Rule {
	return capacityModelTotalRule{}
}

type capacityModelTotalRule struct{}

func (capacityModelTotalRule) Name() string { return "capacity_model_total" }

func (r capacityModelTotalRule) Evaluate(_ context.Context, doc domain.Document, _ []domain.Change) (domain.Result, error) {
	total := CapacityTotal(doc.CapacityModel)
	if total == 100 {
		return domain.Result{}, nil
	}
	return domain.Result{Violations: []domain.Violation{{
		Rule:     r.Name(),
		Severity: domain.SeverityWarn,
		Message:  fmt.Sprintf("capacity model sums to %g%%, expected 100%%", total),
		Entity:   domain.EntityCapacity,
	}}}, nil
}

// NewQuarterAllocationRule warns for every quarter allocated beyond 100%.
func NewQuarterAllocationRule() domain.Rule {
	return quarterAllocationRule{}
}

type quarterAllocationRule struct{}

func (quarterAllocationRule) Name() string { return "quarter_allocation" }

func (r quarterAllocationRule) Evaluate(_ context.Context, doc domain.Document, _ []domain.Change) (domain.Result, error) {
	totals := AllocationByQuarter(doc.Initiatives)
	res := domain.Result{}
	for _, q := range domain.Quarters {
		if totals[q] > 100 {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     r.Name(),
				Severity: domain.SeverityWarn,
				Message:  fmt.Sprintf("%s is over capacity: %g%% allocated", q, totals[q]),
				Entity:   domain.EntityQuarter,
				EntityID: string(q),
			})
		}
	}
	return res, nil
}
