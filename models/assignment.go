package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

const (
	MemberTypeLead   = "lead"
	MemberTypeMember = "member"
)

// AssignmentMember is a user working on an assignment.
type AssignmentMember struct {
	UserID     string `bson:"user_id" json:"userId"`
	Name       string `bson:"name" json:"name"`
	Username   string `bson:"username" json:"username"`
	MemberType string `bson:"member_type" json:"memberType"`
}

// AssignmentUnit is an organisational unit responsible for an assignment.
type AssignmentUnit struct {
	UnitID   string `bson:"unit_id" json:"unitId" binding:"required"`
	UnitName string `bson:"unit_name" json:"unitName"`
}

// Formulation is the structured content drafted for a scheduled standard.
// It exists once CreatedAt is set.
type Formulation struct {
	RationaleAndObjectives string     `bson:"rationale_and_objectives" json:"rationaleAndObjectives"`
	ResponsibleParties     string     `bson:"responsible_parties" json:"responsibleParties"`
	Definitions            string     `bson:"definitions" json:"definitions"`
	Standards              string     `bson:"standards" json:"standards"`
	RelatedDocuments       string     `bson:"related_documents" json:"relatedDocuments"`
	CreatedAt              *time.Time `gorm:"autoCreateTime:false" bson:"created_at" json:"createdAt"`
	UpdatedAt              *time.Time `gorm:"autoUpdateTime:false" bson:"updated_at" json:"updatedAt"`
}

func (f Formulation) Exists() bool { return f.CreatedAt != nil }

// Assignment binds one scheduled standard to the members and units producing
// it. CurrentRequestID points at the latest approval request; decided requests
// stay referenced as history.
type Assignment struct {
	Base             `bson:",inline"`
	ScheduleID       string                                `gorm:"type:uuid;index" bson:"schedule_id" json:"scheduleId"`
	StandardID       string                                `gorm:"type:uuid;index" bson:"standard_id" json:"standardId"`
	StandardName     string                                `bson:"standard_name" json:"standardName"`
	StandardCode     string                                `bson:"standard_code" json:"standardCode"`
	Members          datatypes.JSONSlice[AssignmentMember] `bson:"members" json:"members"`
	Units            datatypes.JSONSlice[AssignmentUnit]   `bson:"units" json:"units"`
	MemberKey        string                                `bson:"member_key" json:"-"`
	Formulation      Formulation                           `gorm:"embedded;embeddedPrefix:formulation_" bson:"formulation" json:"formulation"`
	CurrentRequestID *string                               `gorm:"type:uuid" bson:"current_request_id" json:"currentRequestId"`
	IsActive         bool                                  `bson:"is_active" json:"isActive"`
	DateDeleted      *time.Time                            `bson:"date_deleted" json:"dateDeleted,omitempty"`
}

func (Assignment) TableName() string { return "assignments" }

// MemberToken is the fragment of MemberKey identifying one user, so
// membership can be filtered with a plain substring match in any store.
func MemberToken(userID string) string { return "|" + userID + "|" }

// Normalize rebuilds MemberKey from Members.
func (a *Assignment) Normalize() error {
	var b strings.Builder
	b.WriteString("|")
	for _, m := range a.Members {
		b.WriteString(m.UserID)
		b.WriteString("|")
	}
	a.MemberKey = b.String()
	return nil
}

func (a *Assignment) HasMember(userID string) bool {
	for _, m := range a.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// Lead returns the lead member, if any.
func (a *Assignment) Lead() *AssignmentMember {
	for i := range a.Members {
		if a.Members[i].MemberType == MemberTypeLead {
			return &a.Members[i]
		}
	}
	return nil
}

// OtherMembers returns every member except the lead.
func (a *Assignment) OtherMembers() []AssignmentMember {
	out := make([]AssignmentMember, 0, len(a.Members))
	for _, m := range a.Members {
		if m.MemberType != MemberTypeLead {
			out = append(out, m)
		}
	}
	return out
}
