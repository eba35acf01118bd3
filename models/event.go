package models

import "time"

const (
	EventApprovalSubmitted = "approval.submitted"
	EventApprovalDecided   = "approval.decided"
)

// ApprovalEvent is published after a submission or decision is stored.
type ApprovalEvent struct {
	Type         string    `json:"type"`
	AssignmentID string    `json:"assignmentId"`
	RequestID    string    `json:"requestId"`
	ScheduleID   string    `json:"scheduleId"`
	StandardName string    `json:"standardName"`
	Status       string    `json:"status"`
	Note         string    `json:"note,omitempty"`
	ActorID      string    `json:"actorId"`
	ActorName    string    `json:"actorName"`
	Timestamp    time.Time `json:"timestamp"`
}
