package models

import "time"

// Document is implemented by every stored record. IDs are generated by the
// service layer so the same value works as a Postgres primary key and a
// MongoDB _id.
type Document interface {
	GetID() string
	SetID(id string)
	Stamp(now time.Time)
}

// DocumentPtr constrains generic code to pointers of stored records.
type DocumentPtr[T any] interface {
	*T
	Document
}

// Normalizer fills defaults and derived fields before a record is saved.
type Normalizer interface {
	Normalize() error
}

// MediaOwner lists the uploaded media a record references, so replaced or
// orphaned uploads can be removed.
type MediaOwner interface {
	MediaURLs() []string
}

// Base carries the identity and timestamps shared by all records.
type Base struct {
	ID        string    `gorm:"type:uuid;primaryKey" bson:"_id" json:"id" form:"-"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt" form:"-"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt" form:"-"`
}

func (b *Base) GetID() string   { return b.ID }
func (b *Base) SetID(id string) { b.ID = id }

// Stamp sets CreatedAt on first save and always refreshes UpdatedAt.
func (b *Base) Stamp(now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

func nonEmpty(urls ...string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u != "" {
			out = append(out, u)
		}
	}
	return out
}
