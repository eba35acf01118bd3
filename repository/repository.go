// Package repository declares the storage contracts used by the services.
// sqlrepo implements them on gorm, mongorepo on the MongoDB driver.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Itish41/portfolio-cms/models"
	"github.com/Itish41/portfolio-cms/query"
)

var (
	// ErrNotFound is returned when no record matches the id.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a conditional write matched nothing
	// because the record changed since it was read.
	ErrConflict = errors.New("record changed concurrently")
)

// Repository is CRUD plus listing over one record type.
type Repository[T any] interface {
	List(ctx context.Context, q query.Query) ([]T, error)
	Count(ctx context.Context, f query.Filter) (int64, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, item *T) error
	// Update replaces every field except id and created_at.
	Update(ctx context.Context, id string, item *T) error
	Delete(ctx context.Context, id string) error
}

type AssignmentRepository interface {
	Repository[models.Assignment]
	// SwapCurrentRequest moves the current request pointer from expected
	// (nil for none) to next. ErrConflict when the pointer moved meanwhile.
	SwapCurrentRequest(ctx context.Context, id string, expected *string, next string, at time.Time) error
	SaveFormulation(ctx context.Context, id string, f models.Formulation, at time.Time) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

type ApprovalRequestRepository interface {
	Repository[models.ApprovalRequest]
	// Refresh updates the submitter of a pending request. ErrConflict when it
	// is no longer pending.
	Refresh(ctx context.Context, id, submittedBy string, at time.Time) error
	// Decide records a decision on a pending request. ErrConflict when it is no
	// longer pending.
	Decide(ctx context.Context, id string, d models.Decision) error
}

// SoftDeleteRepository marks records deleted by setting date_deleted.
// SoftDelete returns ErrNotFound when the record is missing or already deleted.
type SoftDeleteRepository[T any] interface {
	Repository[T]
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

type StandardRepository = SoftDeleteRepository[models.Standard]

// UserRepository adds lookup by username for sign-in.
type UserRepository interface {
	Repository[models.User]
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}
