package core

import "roadmapcore/pkg/domain"

// NewRulesEngine constructs an empty engine.
func NewRulesEngine() *RulesEngine {
	return domain.NewRulesEngine()
}

// NewDefaultRulesEngine builds a rules engine with the built-in policy set.
func NewDefaultRulesEngine() *RulesEngine {
	engine := NewRulesEngine()
	engine.Register(NewPillarMinimumRule())
	engine.Register(NewFiniteValuesRule())
	engine.Register(NewCapacityModelTotalRule())
	engine.Register(NewQuarterAllocationRule())
	engine.Register(NewPillarReferenceRule())
	engine.Register(NewLinkURLRule())
	return engine
}
