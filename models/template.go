package models

import "time"

// StandardDetail is one section of the formulation template, such as
// "Definitions". Details own detail types, which own template snippets.
type StandardDetail struct {
	Base          `bson:",inline"`
	DetailContent string     `gorm:"not null" bson:"detail_content" json:"detailContent"`
	DetailCode    string     `bson:"detail_code" json:"detailCode"`
	DetailOrder   int        `bson:"detail_order" json:"detailOrder"`
	IsActive      bool       `bson:"is_active" json:"isActive"`
	DateDeleted   *time.Time `bson:"date_deleted" json:"dateDeleted,omitempty"`
}

func (StandardDetail) TableName() string { return "standard_details" }

type StandardDetailType struct {
	Base             `bson:",inline"`
	StandardDetailID string     `gorm:"type:uuid;index;not null" bson:"standard_detail_id" json:"idStandardDetail"`
	DetailType       string     `gorm:"not null" bson:"detail_type" json:"detailType"`
	DetailTypeCode   string     `bson:"detail_type_code" json:"detailTypeCode"`
	DetailTypeOrder  int        `bson:"detail_type_order" json:"detailTypeOrder"`
	IsActive         bool       `bson:"is_active" json:"isActive"`
	DateDeleted      *time.Time `bson:"date_deleted" json:"dateDeleted,omitempty"`
}

func (StandardDetailType) TableName() string { return "standard_detail_types" }

// StandardTemplate is a reusable text snippet offered while writing a
// formulation section.
type StandardTemplate struct {
	Base                 `bson:",inline"`
	StandardDetailTypeID string     `gorm:"type:uuid;index;not null" bson:"standard_detail_type_id" json:"idStandardDetailType"`
	TemplateContent      string     `gorm:"not null" bson:"template_content" json:"templateContent"`
	TemplateOrder        int        `bson:"template_order" json:"templateOrder"`
	IsActive             bool       `bson:"is_active" json:"isActive"`
	DateDeleted          *time.Time `bson:"date_deleted" json:"dateDeleted,omitempty"`
}

func (StandardTemplate) TableName() string { return "standard_templates" }
