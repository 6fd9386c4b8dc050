package core

import (
	"context"
	"errors"
	"fmt"

	"roadmapcore/internal/codec"
	"roadmapcore/internal/sample"
	"roadmapcore/internal/validation"
	"roadmapcore/pkg/domain"
)

// Placeholder names given to freshly added entities.
const (
	NewInitiativeTitle = "New initiative"
	NewPillarName      = "New pillar"
	NewMetricName      = "New KPI"
	CopySuffix         = " (copy)"
)

var (
	// ErrInvalidQuarter is returned when a quarter outside Q1..Q4 is supplied.
	ErrInvalidQuarter = errors.New("invalid quarter")
	// ErrInvalidStatus is returned when an initiative status is not recognised.
	ErrInvalidStatus = errors.New("invalid initiative status")
	// ErrInvalidRemoveMode is returned by RemovePillar for unknown modes.
	ErrInvalidRemoveMode = errors.New("invalid pillar removal mode")
)

// ErrNotFound is returned when a referenced entity does not exist.
type ErrNotFound struct {
	Entity EntityType
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// RemoveMode selects what happens to initiatives of a removed pillar.
type RemoveMode string

const (
	// RemoveDelete drops the initiatives together with the pillar.
	RemoveDelete RemoveMode = "delete"
	// RemoveMove reassigns the initiatives to a target pillar.
	RemoveMove RemoveMode = "move"
)

// UpdateState shallow-merges patch into the document. Meta merges field by
// field; other keys are replaced wholesale.
func (s *Store) UpdateState(ctx context.Context, patch domain.DocumentPatch) (Result, error) {
	return s.run(ctx, "update_state", func(tx *transaction) error {
		before := tx.doc.Clone()
		patch.Apply(&tx.doc)
		tx.record(Change{Entity: EntityDocument, Action: ActionUpdate, Before: before, After: tx.doc.Clone()})
		return nil
	})
}

// UpdateInitiative applies mutator to the initiative with id. The id and
// creation time cannot be changed, the allocation is clamped and the update
// time refreshed. Unknown ids are ignored.
func (s *Store) UpdateInitiative(ctx context.Context, id string, mutator func(*Initiative) error) (Result, error) {
	return s.run(ctx, "update_initiative", func(tx *transaction) error {
		idx := initiativeIndex(tx.doc, id)
		if idx < 0 {
			return nil
		}
		current := domain.CloneInitiative(tx.doc.Initiatives[idx])
		before := domain.CloneInitiative(current)
		if err := mutator(&current); err != nil {
			return err
		}
		if !current.Quarter.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidQuarter, current.Quarter)
		}
		if !current.Status.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidStatus, current.Status)
		}
		current.ID = before.ID
		current.CreatedAt = before.CreatedAt
		current.AllocationPct = validation.ClampAllocation(current.AllocationPct)
		if current.Tags == nil {
			current.Tags = []string{}
		}
		current.UpdatedAt = tx.now
		tx.doc.Initiatives[idx] = current
		tx.record(Change{Entity: EntityInitiative, Action: ActionUpdate, Before: before, After: domain.CloneInitiative(current)})
		return nil
	})
}

// AddInitiative appends a blank initiative in quarter under the first
// pillar. It is a no-op when there are no pillars.
func (s *Store) AddInitiative(ctx context.Context, quarter domain.Quarter) (Initiative, Result, error) {
	if !quarter.Valid() {
		return Initiative{}, Result{}, fmt.Errorf("%w: %q", ErrInvalidQuarter, quarter)
	}
	var created Initiative
	res, err := s.run(ctx, "add_initiative", func(tx *transaction) error {
		if len(tx.doc.Pillars) == 0 {
			return nil
		}
		in := Initiative{
			ID:        tx.newID(),
			Title:     NewInitiativeTitle,
			Quarter:   quarter,
			PillarID:  tx.doc.Pillars[0].ID,
			Status:    domain.StatusLikely,
			Tags:      []string{},
			CreatedAt: tx.now,
			UpdatedAt: tx.now,
		}
		tx.doc.Initiatives = append(tx.doc.Initiatives, in)
		tx.record(Change{Entity: EntityInitiative, Action: ActionCreate, After: domain.CloneInitiative(in)})
		created = in
		return nil
	})
	if err != nil {
		return Initiative{}, res, err
	}
	return created, res, nil
}

// DuplicateInitiative appends a copy of the initiative with a fresh id and
// the copy suffix on its title. Unknown ids are ignored.
func (s *Store) DuplicateInitiative(ctx context.Context, id string) (Initiative, Result, error) {
	var created Initiative
	res, err := s.run(ctx, "duplicate_initiative", func(tx *transaction) error {
		idx := initiativeIndex(tx.doc, id)
		if idx < 0 {
			return nil
		}
		dup := domain.CloneInitiative(tx.doc.Initiatives[idx])
		dup.ID = tx.newID()
		dup.Title += CopySuffix
		dup.CreatedAt = tx.now
		dup.UpdatedAt = tx.now
		tx.doc.Initiatives = append(tx.doc.Initiatives, dup)
		tx.record(Change{Entity: EntityInitiative, Action: ActionCreate, After: domain.CloneInitiative(dup)})
		created = dup
		return nil
	})
	if err != nil {
		return Initiative{}, res, err
	}
	return created, res, nil
}

// RemoveInitiative deletes the initiative with id. Unknown ids are ignored.
func (s *Store) RemoveInitiative(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "remove_initiative", func(tx *transaction) error {
		idx := initiativeIndex(tx.doc, id)
		if idx < 0 {
			return nil
		}
		removed := tx.doc.Initiatives[idx]
		tx.doc.Initiatives = append(tx.doc.Initiatives[:idx], tx.doc.Initiatives[idx+1:]...)
		tx.record(Change{Entity: EntityInitiative, Action: ActionDelete, Before: removed})
		return nil
	})
}

// AddPillar appends a placeholder pillar.
func (s *Store) AddPillar(ctx context.Context) (Pillar, Result, error) {
	var created Pillar
	res, err := s.run(ctx, "add_pillar", func(tx *transaction) error {
		id := tx.newID()
		for id == domain.UnassignedPillarID {
			id = tx.newID()
		}
		created = Pillar{ID: id, Name: NewPillarName, Icon: domain.IconLayers}
		tx.doc.Pillars = append(tx.doc.Pillars, created)
		tx.record(Change{Entity: EntityPillar, Action: ActionCreate, After: created})
		return nil
	})
	if err != nil {
		return Pillar{}, res, err
	}
	return created, res, nil
}

// UpdatePillar applies mutator to the pillar with id. Unknown ids are ignored.
func (s *Store) UpdatePillar(ctx context.Context, id string, mutator func(*Pillar) error) (Result, error) {
	return s.run(ctx, "update_pillar", func(tx *transaction) error {
		idx := pillarIndex(tx.doc, id)
		if idx < 0 {
			return nil
		}
		before := tx.doc.Pillars[idx]
		current := before
		if err := mutator(&current); err != nil {
			return err
		}
		current.ID = before.ID
		if !current.Icon.Valid() {
			current.Icon = before.Icon
		}
		tx.doc.Pillars[idx] = current
		tx.record(Change{Entity: EntityPillar, Action: ActionUpdate, Before: before, After: current})
		return nil
	})
}

// RemovePillar deletes the pillar with id. With RemoveDelete its initiatives
// are dropped; with RemoveMove they are reassigned to targetID, which must
// be another existing pillar. Removing the last pillar is refused by the
// pillar_minimum rule. Unknown ids are ignored.
func (s *Store) RemovePillar(ctx context.Context, id string, mode RemoveMode, targetID string) (Result, error) {
	if mode != RemoveDelete && mode != RemoveMove {
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidRemoveMode, mode)
	}
	return s.run(ctx, "remove_pillar", func(tx *transaction) error {
		idx := pillarIndex(tx.doc, id)
		if idx < 0 {
			return nil
		}
		removed := tx.doc.Pillars[idx]
		remaining := make([]Pillar, 0, len(tx.doc.Pillars)-1)
		remaining = append(remaining, tx.doc.Pillars[:idx]...)
		remaining = append(remaining, tx.doc.Pillars[idx+1:]...)

		// an empty remainder is left to the pillar_minimum rule
		if mode == RemoveMove && len(remaining) > 0 {
			if targetID == id || pillarIndex(Document{Pillars: remaining}, targetID) < 0 {
				return ErrNotFound{Entity: EntityPillar, ID: targetID}
			}
		}

		kept := make([]Initiative, 0, len(tx.doc.Initiatives))
		for _, in := range tx.doc.Initiatives {
			if in.PillarID != id {
				kept = append(kept, in)
				continue
			}
			switch mode {
			case RemoveDelete:
				tx.record(Change{Entity: EntityInitiative, Action: ActionDelete, Before: in})
			case RemoveMove:
				before := domain.CloneInitiative(in)
				in.PillarID = targetID
				tx.record(Change{Entity: EntityInitiative, Action: ActionUpdate, Before: before, After: domain.CloneInitiative(in)})
				kept = append(kept, in)
			}
		}
		tx.doc.Pillars = remaining
		tx.doc.Initiatives = kept
		tx.record(Change{Entity: EntityPillar, Action: ActionDelete, Before: removed})
		return nil
	})
}

// AddMetric appends a placeholder KPI.
func (s *Store) AddMetric(ctx context.Context) (Metric, Result, error) {
	var created Metric
	res, err := s.run(ctx, "add_metric", func(tx *transaction) error {
		created = Metric{ID: tx.newID(), Name: NewMetricName}
		tx.doc.Metrics = append(tx.doc.Metrics, created)
		tx.record(Change{Entity: EntityMetric, Action: ActionCreate, After: created})
		return nil
	})
	if err != nil {
		return Metric{}, res, err
	}
	return created, res, nil
}

// UpdateMetric applies mutator to the metric with id. Unknown ids are ignored.
func (s *Store) UpdateMetric(ctx context.Context, id string, mutator func(*Metric) error) (Result, error) {
	return s.run(ctx, "update_metric", func(tx *transaction) error {
		idx := metricIndex(tx.doc, id)
		if idx < 0 {
			return nil
		}
		before := tx.doc.Metrics[idx]
		current := before
		if err := mutator(&current); err != nil {
			return err
		}
		current.ID = before.ID
		tx.doc.Metrics[idx] = current
		tx.record(Change{Entity: EntityMetric, Action: ActionUpdate, Before: before, After: current})
		return nil
	})
}

// RemoveMetric deletes the metric with id. Unknown ids are ignored.
func (s *Store) RemoveMetric(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "remove_metric", func(tx *transaction) error {
		idx := metricIndex(tx.doc, id)
		if idx < 0 {
			return nil
		}
		removed := tx.doc.Metrics[idx]
		tx.doc.Metrics = append(tx.doc.Metrics[:idx], tx.doc.Metrics[idx+1:]...)
		tx.record(Change{Entity: EntityMetric, Action: ActionDelete, Before: removed})
		return nil
	})
}

// Reset replaces the document with the built-in sample.
func (s *Store) Reset(ctx context.Context) (Result, error) {
	return s.run(ctx, "reset", func(tx *transaction) error {
		before := tx.doc
		tx.doc = sample.Document()
		tx.record(Change{Entity: EntityDocument, Action: ActionReplace, Before: before, After: tx.doc.Clone()})
		return nil
	})
}

// Import parses data and applies it as a single state update. Malformed
// input is returned as *codec.MalformedInputError and leaves the document
// untouched.
func (s *Store) Import(ctx context.Context, data []byte) (Result, error) {
	doc, err := codec.Deserialize(data)
	if err != nil {
		s.logger.Warn("roadmap import rejected", "error", err)
		return Result{}, err
	}
	patch := domain.PatchFromDocument(doc)
	return s.run(ctx, "import", func(tx *transaction) error {
		before := tx.doc.Clone()
		patch.Apply(&tx.doc)
		tx.record(Change{Entity: EntityDocument, Action: ActionReplace, Before: before, After: tx.doc.Clone()})
		return nil
	})
}

func initiativeIndex(doc Document, id string) int {
	for i, in := range doc.Initiatives {
		if in.ID == id {
			return i
		}
	}
	return -1
}

func pillarIndex(doc Document, id string) int {
	for i, p := range doc.Pillars {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func metricIndex(doc Document, id string) int {
	for i, m := range doc.Metrics {
		if m.ID == id {
			return i
		}
	}
	return -1
}
