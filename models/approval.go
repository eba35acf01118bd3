package models

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ApprovalRequest is one submission of an assignment's formulation. It moves
// from pending to approved or rejected once and never changes afterwards.
type ApprovalRequest struct {
	Base         `bson:",inline"`
	AssignmentID string     `gorm:"type:uuid;index;not null" bson:"assignment_id" json:"assignmentId"`
	ScheduleID   string     `gorm:"type:uuid;index" bson:"schedule_id" json:"scheduleId"`
	StandardName string     `bson:"standard_name" json:"standardName"`
	StandardCode string     `bson:"standard_code" json:"standardCode"`
	Status       string     `gorm:"not null;default:pending" bson:"status" json:"status"`
	Note         string     `bson:"note" json:"note"`
	SubmittedBy  string     `bson:"submitted_by" json:"submittedBy"`
	SubmittedAt  time.Time  `bson:"submitted_at" json:"submittedAt"`
	ReviewerID   *string    `bson:"reviewer_id" json:"reviewerId"`
	DecidedAt    *time.Time `bson:"decided_at" json:"decidedAt"`
	IsActive     bool       `bson:"is_active" json:"isActive"`
}

func (ApprovalRequest) TableName() string { return "approval_requests" }

func (r *ApprovalRequest) IsPending() bool { return r.Status == StatusPending }

// Decision is a reviewer's verdict on a pending request.
type Decision struct {
	Status     string    `json:"status" binding:"required"`
	Note       string    `json:"note"`
	ReviewerID string    `json:"-"`
	DecidedAt  time.Time `json:"-"`
}

func ValidDecisionStatus(status string) bool {
	return status == StatusApproved || status == StatusRejected
}
