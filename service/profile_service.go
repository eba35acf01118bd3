package services

import (
	"context"
	"fmt"

	"github.com/Itish41/portfolio-cms/models"
	"github.com/Itish41/portfolio-cms/query"
	"github.com/Itish41/portfolio-cms/repository"
	log "github.com/sirupsen/logrus"
)

// ProfileService manages the single site profile.
type ProfileService struct {
	content *ContentService[models.Profile, *models.Profile]
	repo    repository.Repository[models.Profile]
}

func NewProfileService(repo repository.Repository[models.Profile], media MediaStore) *ProfileService {
	return &ProfileService{
		content: NewContentService[models.Profile, *models.Profile]("profile", repo, media),
		repo:    repo,
	}
}

// Get returns the stored profile, creating the default one on first use.
func (s *ProfileService) Get(ctx context.Context) (*models.Profile, error) {
	items, err := s.repo.List(ctx, query.Query{Sort: []query.SortKey{query.Asc("created_at")}, Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	if len(items) > 0 {
		return &items[0], nil
	}

	log.Println("[ProfileService.Get] no profile stored, creating default")
	return s.content.Create(ctx, func(p *models.Profile) error {
		*p = models.DefaultProfile()
		return nil
	})
}

// Update applies mutate to the current profile.
func (s *ProfileService) Update(ctx context.Context, mutate func(*models.Profile) error) (*models.Profile, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return s.content.Update(ctx, current.ID, mutate)
}

func (s *ProfileService) Media() MediaStore { return s.content.Media() }
