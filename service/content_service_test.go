package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Itish41/portfolio-cms/apperror"
	"github.com/Itish41/portfolio-cms/models"
	"github.com/Itish41/portfolio-cms/query"
	"github.com/Itish41/portfolio-cms/repository/sqlrepo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestContentService_MediaLifecycle(t *testing.T) {
	db := newTestDB(t)
	media := new(MockMediaStore)
	svc := NewContentService[models.Skill, *models.Skill]("skill", sqlrepo.NewStore[models.Skill](db), media, query.Asc("category"), query.Asc("name"))
	ctx := context.Background()

	created, err := svc.Create(ctx, func(s *models.Skill) error {
		s.Name = "Go"
		s.Level = 90
		s.UseImage("/uploads/skills/go.png", "go.png")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, models.IconTypeImage, created.IconType)

	// switching to an emoji drops the old image
	media.On("Remove", mock.Anything, "/uploads/skills/go.png").Return(nil).Once()
	updated, err := svc.Update(ctx, created.ID, func(s *models.Skill) error {
		s.IconType = models.IconTypeEmoji
		s.Icon = "🐹"
		return nil
	})
	require.NoError(t, err)
	assert.Nil(t, updated.IconURL)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	// a failed update removes the fresh upload and keeps the record
	media.On("Remove", mock.Anything, "/uploads/skills/new.png").Return(nil).Once()
	_, err = svc.Update(ctx, created.ID, func(s *models.Skill) error {
		s.UseImage("/uploads/skills/new.png", "new.png")
		return apperror.Validation("bad input")
	})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	stored, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "🐹", stored.Icon)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.True(t, apperror.Is(svc.Delete(ctx, created.ID), apperror.KindNotFound))

	media.AssertExpectations(t)
}

func TestContentService_ListOrderAndFilter(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService[models.Education, *models.Education]("education", sqlrepo.NewStore[models.Education](db), nil,
		query.Asc("sort_order"), query.Desc("created_at"))
	ctx := context.Background()

	for _, e := range []models.Education{
		{Degree: "MSc", Institution: "ITB", Period: "2020", Description: "d", Order: 2},
		{Degree: "BSc", Institution: "UI", Period: "2016", Description: "d", Order: 1},
	} {
		e := e
		_, err := svc.Create(ctx, func(p *models.Education) error {
			*p = e
			return nil
		})
		require.NoError(t, err)
	}

	items, err := svc.List(ctx, query.Where())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "BSc", items[0].Degree)

	items, err = svc.List(ctx, query.Where().Eq("institution", "ITB"))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "MSc", items[0].Degree)
}

type recordingObserver struct {
	saved   []string
	deleted []string
}

func (r *recordingObserver) Saved(_ context.Context, b *models.Blog) { r.saved = append(r.saved, b.ID) }
func (r *recordingObserver) Deleted(_ context.Context, id string)    { r.deleted = append(r.deleted, id) }

func TestContentService_ObserverAndStoreFailure(t *testing.T) {
	db := newTestDB(t)
	media := new(MockMediaStore)
	obs := &recordingObserver{}
	svc := NewContentService[models.Blog, *models.Blog]("blog", sqlrepo.NewStore[models.Blog](db), media).WithObserver(obs)
	ctx := context.Background()

	blog, err := svc.Create(ctx, func(b *models.Blog) error {
		b.Title, b.Category, b.Excerpt, b.Content = "Hello", "go", "hi", "body"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultReadTime, blog.ReadTime)
	require.NoError(t, svc.Delete(ctx, blog.ID))
	assert.Equal(t, []string{blog.ID}, obs.saved)
	assert.Equal(t, []string{blog.ID}, obs.deleted)

	// a mutate error after an upload discards the upload
	media.On("Remove", mock.Anything, "/uploads/blogs/x.png").Return(errors.New("gone")).Once()
	_, err = svc.Create(ctx, func(b *models.Blog) error {
		b.Image = "/uploads/blogs/x.png"
		return errors.New("bind failed")
	})
	assert.EqualError(t, err, "bind failed")
	media.AssertExpectations(t)
}

func TestProfileService_DefaultAndUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(sqlrepo.NewStore[models.Profile](db), nil)
	ctx := context.Background()

	p, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Your Name", p.Name)

	again, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID, "default profile is created once")

	updated, err := svc.Update(ctx, func(p *models.Profile) error {
		p.Name = "Rido"
		p.SocialJSON = `{"github":"https://github.com/rido"}`
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Rido", updated.Name)
	assert.Equal(t, "https://github.com/rido", updated.Social.Github)

	_, err = svc.Update(ctx, func(p *models.Profile) error {
		p.SocialJSON = "not json"
		return nil
	})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	stored, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/rido", stored.Social.Github)
}

func TestResumeService_Get(t *testing.T) {
	db := newTestDB(t)
	p := NewPortfolio(PortfolioRepos{
		Profile:      sqlrepo.NewStore[models.Profile](db),
		Projects:     sqlrepo.NewStore[models.Project](db),
		Skills:       sqlrepo.NewStore[models.Skill](db),
		Blogs:        sqlrepo.NewStore[models.Blog](db),
		Education:    sqlrepo.NewStore[models.Education](db),
		Experience:   sqlrepo.NewStore[models.Experience](db),
		Testimonials: sqlrepo.NewStore[models.Testimonial](db),
	}, nil, nil)
	ctx := context.Background()

	_, err := p.Experience.Create(ctx, func(e *models.Experience) error {
		e.Position, e.Company, e.Period, e.Description = "Engineer", "Acme", "2022", "Go"
		return nil
	})
	require.NoError(t, err)
	_, err = p.Skills.Create(ctx, func(s *models.Skill) error {
		s.Name = "Go"
		return nil
	})
	require.NoError(t, err)

	r, err := p.Resume.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, r.Education)
	assert.Len(t, r.Experience, 1)
	require.Len(t, r.Skills, 1)
	assert.Equal(t, models.DefaultSkillIcon, r.Skills[0].Icon)
}
