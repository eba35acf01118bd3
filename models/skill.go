package models

const (
	IconTypeEmoji = "emoji"
	IconTypeImage = "image"

	DefaultSkillIcon     = "⚡"
	DefaultSkillColor    = "#ffa500"
	DefaultSkillCategory = "other"
)

type Skill struct {
	Base        `bson:",inline"`
	Name        string  `bson:"name" json:"name" form:"name" binding:"required"`
	Level       int     `bson:"level" json:"level" form:"level" binding:"min=0,max=100"`
	Icon        string  `bson:"icon" json:"icon" form:"icon"`
	IconType    string  `bson:"icon_type" json:"iconType" form:"iconType" binding:"omitempty,oneof=emoji image"`
	IconURL     *string `bson:"icon_url" json:"iconUrl" form:"-"`
	Color       string  `bson:"color" json:"color" form:"color"`
	Category    string  `bson:"category" json:"category" form:"category" binding:"omitempty,oneof=frontend backend database tools devops design other"`
	Description string  `bson:"description" json:"description" form:"description"`
}

func (Skill) TableName() string { return "skills" }

// Normalize applies defaults; switching back to an emoji icon drops the image.
func (s *Skill) Normalize() error {
	if s.Icon == "" {
		s.Icon = DefaultSkillIcon
	}
	if s.Color == "" {
		s.Color = DefaultSkillColor
	}
	if s.Category == "" {
		s.Category = DefaultSkillCategory
	}
	if s.IconType == "" {
		s.IconType = IconTypeEmoji
	}
	if s.IconType == IconTypeEmoji {
		s.IconURL = nil
	}
	return nil
}

// UseImage points the skill at an uploaded icon.
func (s *Skill) UseImage(url, filename string) {
	s.IconType = IconTypeImage
	s.IconURL = &url
	s.Icon = filename
}

func (s *Skill) MediaURLs() []string {
	if s.IconType == IconTypeImage && s.IconURL != nil {
		return nonEmpty(*s.IconURL)
	}
	return nil
}
