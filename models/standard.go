package models

import "time"

// Standard is a document template that can be scheduled for formulation.
type Standard struct {
	Base         `bson:",inline"`
	StandardName string     `gorm:"not null" bson:"standard_name" json:"standardName"`
	StandardCode string     `gorm:"not null" bson:"standard_code" json:"standardCode"`
	Description  string     `bson:"description" json:"description"`
	IsActive     bool       `bson:"is_active" json:"isActive"`
	DateDeleted  *time.Time `bson:"date_deleted" json:"dateDeleted,omitempty"`
}

func (Standard) TableName() string { return "standards" }
