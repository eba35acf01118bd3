package services

import (
	"github.com/Itish41/portfolio-cms/models"
	"github.com/Itish41/portfolio-cms/query"
	"github.com/Itish41/portfolio-cms/repository"
)

// PortfolioRepos are the stores behind the public portfolio resources.
type PortfolioRepos struct {
	Profile      repository.Repository[models.Profile]
	Projects     repository.Repository[models.Project]
	Skills       repository.Repository[models.Skill]
	Blogs        repository.Repository[models.Blog]
	Education    repository.Repository[models.Education]
	Experience   repository.Repository[models.Experience]
	Testimonials repository.Repository[models.Testimonial]
}

// Portfolio groups the content services of the public site.
type Portfolio struct {
	Profile      *ProfileService
	Projects     *ContentService[models.Project, *models.Project]
	Skills       *ContentService[models.Skill, *models.Skill]
	Blogs        *ContentService[models.Blog, *models.Blog]
	Education    *ContentService[models.Education, *models.Education]
	Experience   *ContentService[models.Experience, *models.Experience]
	Testimonials *ContentService[models.Testimonial, *models.Testimonial]
	Resume       *ResumeService
	Search       *SearchService
}

// NewPortfolio wires the content services. search indexes blogs as they
// change.
func NewPortfolio(r PortfolioRepos, media MediaStore, search *SearchService) *Portfolio {
	byOrder := []query.SortKey{query.Asc("sort_order"), query.Desc("created_at")}
	p := &Portfolio{
		Profile:      NewProfileService(r.Profile, media),
		Projects:     NewContentService[models.Project, *models.Project]("project", r.Projects, media, query.Desc("created_at")),
		Skills:       NewContentService[models.Skill, *models.Skill]("skill", r.Skills, media, query.Asc("category"), query.Asc("name")),
		Blogs:        NewContentService[models.Blog, *models.Blog]("blog", r.Blogs, media, query.Desc("created_at")),
		Education:    NewContentService[models.Education, *models.Education]("education", r.Education, nil, byOrder...),
		Experience:   NewContentService[models.Experience, *models.Experience]("experience", r.Experience, nil, byOrder...),
		Testimonials: NewContentService[models.Testimonial, *models.Testimonial]("testimonial", r.Testimonials, media, query.Desc("created_at")),
		Search:       search,
	}
	if search != nil {
		p.Blogs.WithObserver(search)
	}
	p.Resume = NewResumeService(p.Education, p.Experience, p.Skills)
	return p
}
