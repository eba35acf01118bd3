package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Itish41/portfolio-cms/apperror"
	"github.com/Itish41/portfolio-cms/models"
	"github.com/Itish41/portfolio-cms/query"
	"github.com/Itish41/portfolio-cms/repository"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// ContentObserver is told about saved and deleted records, e.g. to keep a
// search index in sync. Failures are logged by the observer itself.
type ContentObserver[T any] interface {
	Saved(ctx context.Context, item *T)
	Deleted(ctx context.Context, id string)
}

// ContentService is CRUD for one portfolio resource. Uploaded media that a
// record stops referencing is removed from the media store.
type ContentService[T any, PT models.DocumentPtr[T]] struct {
	name     string
	repo     repository.Repository[T]
	media    MediaStore
	sort     []query.SortKey
	observer ContentObserver[T]
}

// NewContentService builds a service over repo. media may be nil when the
// resource has no uploads; sort is the default list order.
func NewContentService[T any, PT models.DocumentPtr[T]](name string, repo repository.Repository[T], media MediaStore, sort ...query.SortKey) *ContentService[T, PT] {
	return &ContentService[T, PT]{name: name, repo: repo, media: media, sort: sort}
}

func (s *ContentService[T, PT]) WithObserver(o ContentObserver[T]) *ContentService[T, PT] {
	s.observer = o
	return s
}

func (s *ContentService[T, PT]) Name() string { return s.name }

func (s *ContentService[T, PT]) Media() MediaStore { return s.media }

// List returns every record matching f in the default order.
func (s *ContentService[T, PT]) List(ctx context.Context, f query.Filter) ([]T, error) {
	items, err := s.repo.List(ctx, query.Query{Filter: f, Sort: s.sort})
	if err != nil {
		log.Printf("[%s.List] store error: %v", s.name, err)
		return nil, fmt.Errorf("failed to fetch %s: %w", s.name, err)
	}
	return items, nil
}

func (s *ContentService[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	item, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("%s not found", s.name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s %s: %w", s.name, id, err)
	}
	return item, nil
}

// Create binds a new record through mutate and stores it.
func (s *ContentService[T, PT]) Create(ctx context.Context, mutate func(PT) error) (*T, error) {
	item := new(T)
	pt := PT(item)
	if err := mutate(pt); err != nil {
		s.discardMedia(ctx, mediaOf(pt), nil)
		return nil, err
	}
	if err := normalize(pt); err != nil {
		s.discardMedia(ctx, mediaOf(pt), nil)
		return nil, err
	}
	pt.SetID(uuid.NewString())
	pt.Stamp(time.Now())

	if err := s.repo.Create(ctx, item); err != nil {
		log.Printf("[%s.Create] store error: %v", s.name, err)
		s.discardMedia(ctx, mediaOf(pt), nil)
		return nil, fmt.Errorf("failed to create %s: %w", s.name, err)
	}
	s.saved(ctx, item)
	return item, nil
}

// Update applies mutate to a copy of the stored record and saves it.
func (s *ContentService[T, PT]) Update(ctx context.Context, id string, mutate func(PT) error) (*T, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	before := mediaOf(PT(existing))

	next := *existing
	pt := PT(&next)
	if err := mutate(pt); err != nil {
		s.discardMedia(ctx, mediaOf(pt), before)
		return nil, err
	}
	if err := normalize(pt); err != nil {
		s.discardMedia(ctx, mediaOf(pt), before)
		return nil, err
	}
	pt.SetID(id)
	pt.Stamp(time.Now())

	if err := s.repo.Update(ctx, id, &next); err != nil {
		s.discardMedia(ctx, mediaOf(pt), before)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("%s not found", s.name)
		}
		log.Printf("[%s.Update] store error: %v", s.name, err)
		return nil, fmt.Errorf("failed to update %s: %w", s.name, err)
	}
	s.discardMedia(ctx, before, mediaOf(pt))
	s.saved(ctx, &next)
	return &next, nil
}

func (s *ContentService[T, PT]) Delete(ctx context.Context, id string) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("%s not found", s.name)
		}
		log.Printf("[%s.Delete] store error: %v", s.name, err)
		return fmt.Errorf("failed to delete %s: %w", s.name, err)
	}
	s.discardMedia(ctx, mediaOf(PT(existing)), nil)
	if s.observer != nil {
		s.observer.Deleted(ctx, id)
	}
	return nil
}

func (s *ContentService[T, PT]) saved(ctx context.Context, item *T) {
	if s.observer != nil {
		s.observer.Saved(ctx, item)
	}
}

// discardMedia removes every url in drop that keep does not reference.
func (s *ContentService[T, PT]) discardMedia(ctx context.Context, drop, keep []string) {
	if s.media == nil {
		return
	}
	kept := make(map[string]bool, len(keep))
	for _, u := range keep {
		kept[u] = true
	}
	for _, u := range drop {
		if kept[u] {
			continue
		}
		if err := s.media.Remove(ctx, u); err != nil {
			log.Warnf("[%s] failed to remove media %s: %v", s.name, u, err)
		}
	}
}

func mediaOf(v interface{}) []string {
	if m, ok := v.(models.MediaOwner); ok {
		return m.MediaURLs()
	}
	return nil
}

func normalize(v interface{}) error {
	if n, ok := v.(models.Normalizer); ok {
		if err := n.Normalize(); err != nil {
			return apperror.Validation("%s", err.Error())
		}
	}
	return nil
}
