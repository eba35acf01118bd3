package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Itish41/portfolio-cms/models"
	"github.com/Itish41/portfolio-cms/query"
	"github.com/Itish41/portfolio-cms/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type AssignmentStore struct {
	*Store[models.Assignment]
}

func NewAssignmentStore(db *mongo.Database) *AssignmentStore {
	return &AssignmentStore{Store: NewStore[models.Assignment](db, models.Assignment{}.TableName())}
}

// swapFilter matches the assignment only while its current pointer is still
// the observed one.
func swapFilter(id string, expected *string) query.Filter {
	where := query.Where().Eq("id", id)
	if expected == nil {
		return where.IsNull("current_request_id")
	}
	return where.Eq("current_request_id", *expected)
}

func (s *AssignmentStore) SwapCurrentRequest(ctx context.Context, id string, expected *string, next string, at time.Time) error {
	ok, err := s.conditionalUpdate(ctx, swapFilter(id, expected), bson.M{"current_request_id": next, "updated_at": at})
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrConflict
	}
	return nil
}

func (s *AssignmentStore) SaveFormulation(ctx context.Context, id string, f models.Formulation, at time.Time) error {
	ok, err := s.conditionalUpdate(ctx, query.Where().Eq("id", id), bson.M{"formulation": f, "updated_at": at})
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

func NewApprovalRequestStore(db *mongo.Database) *ApprovalRequestStore {
	return &ApprovalRequestStore{Store: NewStore[models.ApprovalRequest](db, models.ApprovalRequest{}.TableName())}
}

func (s *ApprovalRequestStore) Refresh(ctx context.Context, id, submittedBy string, at time.Time) error {
	return s.updatePending(ctx, id, bson.M{"submitted_by": submittedBy, "submitted_at": at, "updated_at": at})
}

// Decide matches only while the request is pending; a concurrent second
// decision matches nothing and gets ErrConflict.
func (s *ApprovalRequestStore) Decide(ctx context.Context, id string, d models.Decision) error {
	return s.updatePending(ctx, id, bson.M{
		"status":      d.Status,
		"note":        d.Note,
		"reviewer_id": d.ReviewerID,
		"decided_at":  d.DecidedAt,
		"updated_at":  d.DecidedAt,
	})
}

func pendingFilter(id string) query.Filter {
	return query.Where().Eq("id", id).Eq("status", models.StatusPending)
}

func (s *ApprovalRequestStore) updatePending(ctx context.Context, id string, set bson.M) error {
	ok, err := s.conditionalUpdate(ctx, pendingFilter(id), set)
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

// SoftDeleteStore is a Store for documents with a date_deleted field.
type SoftDeleteStore[T any] struct {
	*Store[T]
}

func NewSoftDeleteStore[T any](db *mongo.Database, collection string) *SoftDeleteStore[T] {
	return &SoftDeleteStore[T]{Store: NewStore[T](db, collection)}
}

func (s *SoftDeleteStore[T]) SoftDelete(ctx context.Context, id string, at time.Time) error {
	return softDelete(ctx, s.Store, id, at)
}

type StandardStore = SoftDeleteStore[models.Standard]

func NewStandardStore(db *mongo.Database) *StandardStore {
	return NewSoftDeleteStore[models.Standard](db, models.Standard{}.TableName())
}

type UserStore struct {
	*Store[models.User]
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{Store: NewStore[models.User](db, models.User{}.TableName())}
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", username, err)
	}
	return &user, nil
}

func softDelete[T any](ctx context.Context, s *Store[T], id string, at time.Time) error {
	ok, err := s.conditionalUpdate(ctx, query.Where().Eq("id", id).IsNull("date_deleted"), bson.M{"date_deleted": at, "updated_at": at})
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrNotFound
	}
	return nil
}
