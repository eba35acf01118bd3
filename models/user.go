package models

const (
	RoleAdmin    = "admin"
	RoleReviewer = "reviewer"
	RoleMember   = "member"
)

// User is an account that can sign in to the admin panel or take part in
// standard formulation.
type User struct {
	Base         `bson:",inline"`
	Username     string `gorm:"uniqueIndex;not null" bson:"username" json:"username"`
	Name         string `bson:"name" json:"name"`
	PasswordHash string `bson:"password_hash" json:"-"`
	Role         string `bson:"role" json:"role"`
}

func (User) TableName() string { return "users" }

// Identity is the authenticated caller, resolved from the bearer token and
// passed explicitly into every service call.
type Identity struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// CanReview reports whether the caller may decide approval requests.
func (i Identity) CanReview() bool { return i.Role == RoleAdmin || i.Role == RoleReviewer }

// AsMember drops elevated roles so lookups are limited to the caller's own
// assignments.
func (i Identity) AsMember() Identity {
	i.Role = RoleMember
	return i
}
