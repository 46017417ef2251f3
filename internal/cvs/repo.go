package cvs

import (
	"context"

	"cvision-backend/cv/model"
)

// Repo defines persistence for CV aggregates. Every mutating operation is
// atomic: either the root row and all dependent rows change together, or
// nothing does.
type Repo interface {
	// Create inserts a new aggregate. The first CV of an owner becomes
	// primary regardless of the requested flag.
	Create(ctx context.Context, userID string, in Input) (model.CV, error)

	// GetByID loads the full aggregate with dependents in display order.
	GetByID(ctx context.Context, userID, cvID string) (model.CV, error)

	// ListByOwner returns summaries ordered primary-first, newest-first.
	ListByOwner(ctx context.Context, userID string) ([]model.Summary, error)

	// Update replaces root fields and every dependent collection.
	Update(ctx context.Context, userID, cvID string, in Input) (model.CV, error)

	// Delete removes the aggregate and all dependents. Absence is not an
	// error: it reports false.
	Delete(ctx context.Context, userID, cvID string) (bool, error)

	// SetPrimary makes the target the single primary CV of its owner.
	// Reports false when the target does not exist or is not owned.
	SetPrimary(ctx context.Context, userID, cvID string) (bool, error)
}
