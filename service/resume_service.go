package services

import (
	"context"

	"github.com/Itish41/portfolio-cms/models"
	"github.com/Itish41/portfolio-cms/query"
	"golang.org/x/sync/errgroup"
)

// Resume is the combined payload of the resume page.
type Resume struct {
	Education  []models.Education  `json:"education"`
	Experience []models.Experience `json:"experience"`
	Skills     []models.Skill      `json:"skills"`
}

type ResumeService struct {
	education  *ContentService[models.Education, *models.Education]
	experience *ContentService[models.Experience, *models.Experience]
	skills     *ContentService[models.Skill, *models.Skill]
}

func NewResumeService(
	education *ContentService[models.Education, *models.Education],
	experience *ContentService[models.Experience, *models.Experience],
	skills *ContentService[models.Skill, *models.Skill],
) *ResumeService {
	return &ResumeService{education: education, experience: experience, skills: skills}
}

// Get loads the three sections concurrently.
func (s *ResumeService) Get(ctx context.Context) (*Resume, error) {
	var r Resume
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		r.Education, err = s.education.List(gctx, query.Where())
		return err
	})
	g.Go(func() (err error) {
		r.Experience, err = s.experience.List(gctx, query.Where())
		return err
	})
	g.Go(func() (err error) {
		r.Skills, err = s.skills.List(gctx, query.Where())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &r, nil
}
