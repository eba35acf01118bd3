package models

import (
	"encoding/json"
	"fmt"
)

// Social holds the profile's external links.
type Social struct {
	Github    string `bson:"github" json:"github"`
	Linkedin  string `bson:"linkedin" json:"linkedin"`
	Twitter   string `bson:"twitter" json:"twitter"`
	Instagram string `bson:"instagram" json:"instagram"`
}

// Profile is the single owner profile shown on the public site.
type Profile struct {
	Base     `bson:",inline"`
	Name     string `bson:"name" json:"name" form:"name" binding:"required"`
	Title    string `bson:"title" json:"title" form:"title" binding:"required"`
	Email    string `bson:"email" json:"email" form:"email" binding:"required,email"`
	Phone    string `bson:"phone" json:"phone" form:"phone" binding:"required"`
	Birthday string `bson:"birthday" json:"birthday" form:"birthday" binding:"required"`
	Location string `bson:"location" json:"location" form:"location" binding:"required"`
	Avatar   string `bson:"avatar" json:"avatar" form:"-"`
	Bio      string `bson:"bio" json:"bio" form:"bio" binding:"required"`
	Social   Social `gorm:"embedded;embeddedPrefix:social_" bson:"social" json:"social" form:"-"`

	// SocialJSON receives the JSON-encoded social links sent by multipart forms.
	SocialJSON string `gorm:"-" bson:"-" json:"-" form:"social"`
}

func (Profile) TableName() string { return "profiles" }

// DefaultProfile is served until the owner saves a real profile.
func DefaultProfile() Profile {
	return Profile{
		Name:     "Your Name",
		Title:    "Web Developer",
		Email:    "your.email@example.com",
		Phone:    "+62 XXX-XXXX-XXXX",
		Birthday: "January 1",
		Location: "Jakarta, Indonesia",
		Bio:      "Add your bio here",
	}
}

func (p *Profile) Normalize() error {
	if p.SocialJSON != "" {
		if err := json.Unmarshal([]byte(p.SocialJSON), &p.Social); err != nil {
			return fmt.Errorf("invalid social links: %w", err)
		}
		p.SocialJSON = ""
	}
	return nil
}

func (p *Profile) MediaURLs() []string { return nonEmpty(p.Avatar) }
