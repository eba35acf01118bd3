package models

// Education and Experience entries are listed by Order ascending, newest first
// on ties.

type Education struct {
	Base        `bson:",inline"`
	Degree      string `bson:"degree" json:"degree" form:"degree" binding:"required"`
	Institution string `bson:"institution" json:"institution" form:"institution" binding:"required"`
	Period      string `bson:"period" json:"period" form:"period" binding:"required"`
	Description string `bson:"description" json:"description" form:"description" binding:"required"`
	Order       int    `gorm:"column:sort_order" bson:"sort_order" json:"order" form:"order"`
}

func (Education) TableName() string { return "education" }

type Experience struct {
	Base        `bson:",inline"`
	Position    string `bson:"position" json:"position" form:"position" binding:"required"`
	Company     string `bson:"company" json:"company" form:"company" binding:"required"`
	Period      string `bson:"period" json:"period" form:"period" binding:"required"`
	Description string `bson:"description" json:"description" form:"description" binding:"required"`
	Order       int    `gorm:"column:sort_order" bson:"sort_order" json:"order" form:"order"`
}

func (Experience) TableName() string { return "experience" }
