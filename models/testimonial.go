package models

type Testimonial struct {
	Base        `bson:",inline"`
	Name        string `bson:"name" json:"name" form:"name" binding:"required"`
	Avatar      string `bson:"avatar" json:"avatar" form:"-"`
	Position    string `bson:"position" json:"position" form:"position" binding:"required"`
	Testimonial string `bson:"testimonial" json:"testimonial" form:"testimonial" binding:"required"`
	Rating      int    `bson:"rating" json:"rating" form:"rating" binding:"omitempty,min=1,max=5"`
	Featured    bool   `bson:"featured" json:"featured" form:"featured"`
}

func (Testimonial) TableName() string { return "testimonials" }

func (t *Testimonial) Normalize() error {
	if t.Rating == 0 {
		t.Rating = 5
	}
	return nil
}

func (t *Testimonial) MediaURLs() []string { return nonEmpty(t.Avatar) }
