package models

import (
	"strings"

	"gorm.io/datatypes"
)

type Project struct {
	Base         `bson:",inline"`
	Title        string                    `bson:"title" json:"title" form:"title" binding:"required"`
	Category     string                    `bson:"category" json:"category" form:"category" binding:"required"`
	Image        string                    `bson:"image" json:"image" form:"-"`
	Description  string                    `bson:"description" json:"description" form:"description" binding:"required"`
	Technologies datatypes.JSONSlice[string] `bson:"technologies" json:"technologies" form:"technologies"`
	ProjectURL   string                    `bson:"project_url" json:"projectUrl" form:"projectUrl"`
	GithubURL    string                    `bson:"github_url" json:"githubUrl" form:"githubUrl"`
	Featured     bool                      `bson:"featured" json:"featured" form:"featured"`
}

func (Project) TableName() string { return "projects" }

// Normalize splits comma separated technologies coming from form posts.
func (p *Project) Normalize() error {
	techs := make([]string, 0, len(p.Technologies))
	for _, raw := range p.Technologies {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				techs = append(techs, t)
			}
		}
	}
	p.Technologies = techs
	return nil
}

func (p *Project) MediaURLs() []string { return nonEmpty(p.Image) }
