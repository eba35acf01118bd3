package sqlrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Itish41/portfolio-cms/models"
	"github.com/Itish41/portfolio-cms/query"
	"github.com/Itish41/portfolio-cms/repository"
	"gorm.io/gorm"
)

type AssignmentStore struct {
	*Store[models.Assignment]
}

func NewAssignmentStore(db *gorm.DB) *AssignmentStore {
	return &AssignmentStore{Store: NewStore[models.Assignment](db)}
}

func (s *AssignmentStore) SwapCurrentRequest(ctx context.Context, id string, expected *string, next string, at time.Time) error {
	where := query.Where().Eq("id", id)
	if expected == nil {
		where = where.IsNull("current_request_id")
	} else {
		where = where.Eq("current_request_id", *expected)
	}
	ok, err := s.conditionalUpdate(ctx, where, map[string]interface{}{
		"current_request_id": next,
		"updated_at":         at,
	})
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrConflict
	}
	return nil
}

func (s *AssignmentStore) SaveFormulation(ctx context.Context, id string, f models.Formulation, at time.Time) error {
	ok, err := s.conditionalUpdate(ctx, query.Where().Eq("id", id), map[string]interface{}{
		"formulation_rationale_and_objectives": f.RationaleAndObjectives,
		"formulation_responsible_parties":      f.ResponsibleParties,
		"formulation_definitions":              f.Definitions,
		"formulation_standards":                f.Standards,
		"formulation_related_documents":        f.RelatedDocuments,
		"formulation_created_at":               f.CreatedAt,
		"formulation_updated_at":               f.UpdatedAt,
		"updated_at":                           at,
	})
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrNotFound
	}
	return nil
}

func (s *AssignmentStore) SoftDelete(ctx context.Context, id string, at time.Time) error {
	return softDelete(ctx, s.Store, id, at)
}

type ApprovalRequestStore struct {
	*Store[models.ApprovalRequest]
}

func NewApprovalRequestStore(db *gorm.DB) *ApprovalRequestStore {
	return &ApprovalRequestStore{Store: NewStore[models.ApprovalRequest](db)}
}

func (s *ApprovalRequestStore) Refresh(ctx context.Context, id, submittedBy string, at time.Time) error {
	return s.updatePending(ctx, id, map[string]interface{}{
		"submitted_by": submittedBy,
		"submitted_at": at,
		"updated_at":   at,
	})
}

// Decide only matches a pending row, so of two concurrent decisions the
// second one affects nothing and gets ErrConflict.
func (s *ApprovalRequestStore) Decide(ctx context.Context, id string, d models.Decision) error {
	return s.updatePending(ctx, id, map[string]interface{}{
		"status":      d.Status,
		"note":        d.Note,
		"reviewer_id": d.ReviewerID,
		"decided_at":  d.DecidedAt,
		"updated_at":  d.DecidedAt,
	})
}

func (s *ApprovalRequestStore) updatePending(ctx context.Context, id string, values map[string]interface{}) error {
	ok, err := s.conditionalUpdate(ctx, query.Where().Eq("id", id).Eq("status", models.StatusPending), values)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return repository.ErrConflict
}

// SoftDeleteStore is a Store for records with a date_deleted column.
type SoftDeleteStore[T any] struct {
	*Store[T]
}

func NewSoftDeleteStore[T any](db *gorm.DB) *SoftDeleteStore[T] {
	return &SoftDeleteStore[T]{Store: NewStore[T](db)}
}

func (s *SoftDeleteStore[T]) SoftDelete(ctx context.Context, id string, at time.Time) error {
	return softDelete(ctx, s.Store, id, at)
}

type StandardStore = SoftDeleteStore[models.Standard]

func NewStandardStore(db *gorm.DB) *StandardStore {
	return NewSoftDeleteStore[models.Standard](db)
}

type UserStore struct {
	*Store[models.User]
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{Store: NewStore[models.User](db)}
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", username, err)
	}
	return &user, nil
}

func softDelete[T any](ctx context.Context, s *Store[T], id string, at time.Time) error {
	ok, err := s.conditionalUpdate(ctx, query.Where().Eq("id", id).IsNull("date_deleted"), map[string]interface{}{
		"date_deleted": at,
		"updated_at":   at,
	})
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrNotFound
	}
	return nil
}

// Models lists every table managed by this package, for AutoMigrate in tests
// and local development.
func Models() []interface{} {
	return []interface{}{
		&models.Profile{}, &models.Project{}, &models.Skill{}, &models.Blog{},
		&models.Education{}, &models.Experience{}, &models.Testimonial{},
		&models.User{}, &models.Standard{}, &models.Assignment{}, &models.ApprovalRequest{},
		&models.StandardDetail{}, &models.StandardDetailType{}, &models.StandardTemplate{},
	}
}
