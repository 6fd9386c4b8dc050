package core

import "roadmapcore/pkg/domain"

type (
	EntityType         = domain.EntityType
	Severity           = domain.Severity
	Document           = domain.Document
	Initiative         = domain.Initiative
	Pillar             = domain.Pillar
	Metric             = domain.Metric
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	Result             = domain.Result
	Rule               = domain.Rule
	RulesEngine        = domain.RulesEngine
	RuleViolationError = domain.RuleViolationError
	SlotStore          = domain.SlotStore
)

const (
	EntityDocument   = domain.EntityDocument
	EntityMeta       = domain.EntityMeta
	EntityInitiative = domain.EntityInitiative
	EntityPillar     = domain.EntityPillar
	EntityMetric     = domain.EntityMetric
	EntityCapacity   = domain.EntityCapacity
	EntityQuarter    = domain.EntityQuarter
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

const (
	ActionCreate  = domain.ActionCreate
	ActionUpdate  = domain.ActionUpdate
	ActionDelete  = domain.ActionDelete
	ActionReplace = domain.ActionReplace
)

// ErrSlotEmpty is returned by slot stores that hold nothing under a key.
var ErrSlotEmpty = domain.ErrSlotEmpty
