package models

const DefaultReadTime = "5 min read"

type Blog struct {
	Base      `bson:",inline"`
	Title     string `bson:"title" json:"title" form:"title" binding:"required"`
	Category  string `bson:"category" json:"category" form:"category" binding:"required"`
	Excerpt   string `bson:"excerpt" json:"excerpt" form:"excerpt" binding:"required"`
	Content   string `bson:"content" json:"content" form:"content" binding:"required"`
	Image     string `bson:"image" json:"image" form:"-"`
	ReadTime  string `bson:"read_time" json:"readTime" form:"readTime"`
	Published bool   `bson:"published" json:"published" form:"published"`
}

func (Blog) TableName() string { return "blogs" }

func (b *Blog) Normalize() error {
	if b.ReadTime == "" {
		b.ReadTime = DefaultReadTime
	}
	return nil
}

func (b *Blog) MediaURLs() []string { return nonEmpty(b.Image) }
