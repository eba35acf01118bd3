package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Itish41/portfolio-cms/apperror"
	"github.com/Itish41/portfolio-cms/metrics"
	"github.com/Itish41/portfolio-cms/models"
	"github.com/Itish41/portfolio-cms/query"
	"github.com/Itish41/portfolio-cms/repository"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// maxSubmitAttempts bounds the retries when concurrent submissions race for
// an assignment's current request pointer.
const maxSubmitAttempts = 3

var (
	assignmentSortKeys = map[string]string{
		"standardName": "standard_name",
		"standardCode": "standard_code",
		"isActive":     "is_active",
		"createdAt":    "created_at",
		"updatedAt":    "updated_at",
	}
	requestSortKeys = map[string]string{
		"standardName": "standard_name",
		"standardCode": "standard_code",
		"isActive":     "is_active",
		"status":       "status",
		"submittedAt":  "submitted_at",
		"decidedAt":    "decided_at",
		"createdAt":    "created_at",
	}
)

// ApprovalService runs the standard assignment lifecycle: assignments,
// their formulation, submission for approval and reviewer decisions.
type ApprovalService struct {
	assignments repository.AssignmentRepository
	requests    repository.ApprovalRequestRepository
	standards   repository.StandardRepository
	users       repository.UserRepository
	notifier    Notifier
}

func NewApprovalService(
	assignments repository.AssignmentRepository,
	requests repository.ApprovalRequestRepository,
	standards repository.StandardRepository,
	users repository.UserRepository,
	notifier Notifier,
) *ApprovalService {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &ApprovalService{
		assignments: assignments,
		requests:    requests,
		standards:   standards,
		users:       users,
		notifier:    notifier,
	}
}

// AssignmentSummary is one row of a formulation list.
type AssignmentSummary struct {
	OrderingNumber  int                       `json:"orderingNumber"`
	ID              string                    `json:"id"`
	ScheduleID      string                    `json:"scheduleId"`
	StandardID      string                    `json:"standardId"`
	StandardName    string                    `json:"standardName"`
	StandardCode    string                    `json:"standardCode"`
	Lead            *models.AssignmentMember  `json:"lead"`
	Members         []models.AssignmentMember `json:"members"`
	Units           []models.AssignmentUnit   `json:"units"`
	HasFormulation  bool                      `json:"hasFormulation"`
	IsActive        bool                      `json:"isActive"`
	ApprovalRequest *models.ApprovalRequest   `json:"approvalRequest"`
}

// RequestSummary is one row of an approval list.
type RequestSummary struct {
	OrderingNumber int `json:"orderingNumber"`
	models.ApprovalRequest
}

// ApprovalDetail is an assignment with its current request and history.
type ApprovalDetail struct {
	Assignment *models.Assignment       `json:"assignment"`
	Current    *models.ApprovalRequest  `json:"approvalRequest"`
	History    []models.ApprovalRequest `json:"history"`
}

// MemberInput names a user to add to an assignment.
type MemberInput struct {
	UserID     string `json:"userId" binding:"required"`
	MemberType string `json:"memberType" binding:"required"`
}

// AssignmentInput creates an assignment for a scheduled standard.
type AssignmentInput struct {
	StandardID string                  `json:"standardId" binding:"required"`
	Members    []MemberInput           `json:"members" binding:"required,min=1,dive"`
	Units      []models.AssignmentUnit `json:"units" binding:"dive"`
	IsActive   *bool                   `json:"isActive"`
}

// FormulationInput carries formulation fields. Nil fields are left unchanged
// on update.
type FormulationInput struct {
	RationaleAndObjectives *string `json:"rationaleAndObjectives"`
	ResponsibleParties     *string `json:"responsibleParties"`
	Definitions            *string `json:"definitions"`
	Standards              *string `json:"standards"`
	RelatedDocuments       *string `json:"relatedDocuments"`
}

func (in FormulationInput) empty() bool {
	return in.RationaleAndObjectives == nil && in.ResponsibleParties == nil &&
		in.Definitions == nil && in.Standards == nil && in.RelatedDocuments == nil
}

func (in FormulationInput) applyTo(f *models.Formulation) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&f.RationaleAndObjectives, in.RationaleAndObjectives)
	set(&f.ResponsibleParties, in.ResponsibleParties)
	set(&f.Definitions, in.Definitions)
	set(&f.Standards, in.Standards)
	set(&f.RelatedDocuments, in.RelatedDocuments)
}

// access is who may see an assignment besides its members.
type access int

const (
	adminAccess access = iota
	reviewerAccess
)

// liveAssignment loads an assignment that is not soft-deleted and that actor
// may see. Everything else is NotFound.
func (s *ApprovalService) liveAssignment(ctx context.Context, actor models.Identity, id string, extra access) (*models.Assignment, error) {
	a, err := s.assignments.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("assignment %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignment %s: %w", id, err)
	}
	if a.DateDeleted != nil {
		return nil, apperror.NotFound("assignment %s not found", id)
	}

	allowed := actor.IsAdmin() || a.HasMember(actor.UserID)
	if extra == reviewerAccess && actor.CanReview() {
		allowed = true
	}
	if !allowed {
		return nil, apperror.NotFound("assignment %s not found", id)
	}
	return a, nil
}

func (s *ApprovalService) currentRequest(ctx context.Context, a *models.Assignment) (*models.ApprovalRequest, error) {
	if a.CurrentRequestID == nil {
		return nil, nil
	}
	req, err := s.requests.Get(ctx, *a.CurrentRequestID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch approval request %s: %w", *a.CurrentRequestID, err)
	}
	return req, nil
}

// Submit creates a pending approval request for the assignment, or refreshes
// the current one when it is still pending.
func (s *ApprovalService) Submit(ctx context.Context, actor models.Identity, assignmentID string) (*models.ApprovalRequest, error) {
	for attempt := 1; attempt <= maxSubmitAttempts; attempt++ {
		a, err := s.liveAssignment(ctx, actor, assignmentID, adminAccess)
		if err != nil {
			return nil, err
		}
		now := time.Now()

		current, err := s.currentRequest(ctx, a)
		if err != nil {
			return nil, err
		}
		if current != nil && current.IsPending() {
			err := s.requests.Refresh(ctx, current.ID, actor.UserID, now)
			if err == nil {
				current.SubmittedBy = actor.UserID
				current.SubmittedAt = now
				current.UpdatedAt = now
				metrics.RecordSubmission(true)
				s.notify(ctx, models.EventApprovalSubmitted, actor, a, current)
				return current, nil
			}
			if !errors.Is(err, repository.ErrConflict) {
				return nil, fmt.Errorf("failed to refresh approval request: %w", err)
			}
			log.Printf("[Submit] request %s decided meanwhile, attempt %d", current.ID, attempt)
			continue
		}

		req := &models.ApprovalRequest{
			AssignmentID: a.ID,
			ScheduleID:   a.ScheduleID,
			StandardName: a.StandardName,
			StandardCode: a.StandardCode,
			Status:       models.StatusPending,
			SubmittedBy:  actor.UserID,
			SubmittedAt:  now,
			IsActive:     true,
		}
		req.SetID(uuid.NewString())
		req.Stamp(now)
		if err := s.requests.Create(ctx, req); err != nil {
			return nil, fmt.Errorf("failed to create approval request: %w", err)
		}

		err = s.assignments.SwapCurrentRequest(ctx, a.ID, a.CurrentRequestID, req.ID, now)
		if err == nil {
			metrics.RecordSubmission(false)
			s.notify(ctx, models.EventApprovalSubmitted, actor, a, req)
			return req, nil
		}
		if delErr := s.requests.Delete(ctx, req.ID); delErr != nil {
			log.Printf("[Submit] failed to remove orphan request %s: %v", req.ID, delErr)
		}
		if !errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("failed to link approval request: %w", err)
		}
		log.Printf("[Submit] assignment %s changed concurrently, attempt %d", a.ID, attempt)
	}
	return nil, apperror.InvalidOperation("assignment %s is being submitted concurrently, please retry", assignmentID)
}

// Decide approves or rejects the assignment's current request. A request is
// decided once; the current pointer keeps referencing it afterwards.
func (s *ApprovalService) Decide(ctx context.Context, actor models.Identity, assignmentID string, d models.Decision) (*models.ApprovalRequest, error) {
	if !actor.CanReview() {
		return nil, apperror.Forbidden("reviewer role required")
	}
	if !models.ValidDecisionStatus(d.Status) {
		return nil, apperror.Validation("status must be %s or %s", models.StatusApproved, models.StatusRejected)
	}

	a, err := s.liveAssignment(ctx, actor, assignmentID, reviewerAccess)
	if err != nil {
		return nil, err
	}
	req, err := s.currentRequest(ctx, a)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apperror.NotFound("approval request not found")
	}
	if !req.IsPending() {
		metrics.RecordDecision("conflict")
		return nil, apperror.InvalidOperation("approval request has already been decided")
	}

	d.ReviewerID = actor.UserID
	d.DecidedAt = time.Now()
	if err := s.requests.Decide(ctx, req.ID, d); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			metrics.RecordDecision("conflict")
			return nil, apperror.InvalidOperation("approval request has already been decided")
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperror.NotFound("approval request not found")
		default:
			return nil, fmt.Errorf("failed to decide approval request: %w", err)
		}
	}

	req.Status = d.Status
	req.Note = d.Note
	req.ReviewerID = &d.ReviewerID
	req.DecidedAt = &d.DecidedAt
	req.UpdatedAt = d.DecidedAt
	metrics.RecordDecision(d.Status)
	log.Printf("[Decide] request %s %s by %s", req.ID, d.Status, actor.UserID)
	s.notify(ctx, models.EventApprovalDecided, actor, a, req)
	return req, nil
}

func (s *ApprovalService) notify(ctx context.Context, eventType string, actor models.Identity, a *models.Assignment, req *models.ApprovalRequest) {
	event := models.ApprovalEvent{
		Type:         eventType,
		AssignmentID: a.ID,
		RequestID:    req.ID,
		ScheduleID:   a.ScheduleID,
		StandardName: a.StandardName,
		Status:       req.Status,
		Note:         req.Note,
		ActorID:      actor.UserID,
		ActorName:    actor.Name,
		Timestamp:    req.UpdatedAt,
	}
	if err := s.notifier.Notify(ctx, event); err != nil {
		log.Warnf("[notify] %s for request %s not delivered: %v", eventType, req.ID, err)
	}
}

// GetApprovalDetail returns the assignment, its current request and every
// request ever submitted for it, newest first.
func (s *ApprovalService) GetApprovalDetail(ctx context.Context, actor models.Identity, assignmentID string) (*ApprovalDetail, error) {
	a, err := s.liveAssignment(ctx, actor, assignmentID, reviewerAccess)
	if err != nil {
		return nil, err
	}
	current, err := s.currentRequest(ctx, a)
	if err != nil {
		return nil, err
	}
	history, err := s.requests.List(ctx, query.Query{
		Filter: query.Where().Eq("assignment_id", a.ID),
		Sort:   []query.SortKey{query.Desc("submitted_at")},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch approval history: %w", err)
	}
	return &ApprovalDetail{Assignment: a, Current: current, History: history}, nil
}

func (s *ApprovalService) assignmentScope(actor models.Identity, scheduleID string) query.Filter {
	base := query.Where().Eq("schedule_id", scheduleID).IsNull("date_deleted")
	if !actor.IsAdmin() {
		base = base.Contains("member_key", models.MemberToken(actor.UserID))
	}
	return base
}

// ListAssignments pages the formulation list of a schedule. Non-admins only
// see assignments they are a member of.
func (s *ApprovalService) ListAssignments(ctx context.Context, actor models.Identity, scheduleID string, p ListParams) (query.Page[AssignmentSummary], error) {
	w := p.Window()
	sort, err := p.sort(assignmentSortKeys)
	if err != nil {
		return query.Page[AssignmentSummary]{}, err
	}

	res, err := fetchPage[models.Assignment](ctx, s.assignments, s.assignmentScope(actor, scheduleID), p.Filter(), sort, w)
	if err != nil {
		return query.Page[AssignmentSummary]{}, err
	}

	requestIDs := make([]string, 0, len(res.items))
	for _, a := range res.items {
		if a.CurrentRequestID != nil {
			requestIDs = append(requestIDs, *a.CurrentRequestID)
		}
	}
	current := make(map[string]*models.ApprovalRequest, len(requestIDs))
	if len(requestIDs) > 0 {
		reqs, err := s.requests.List(ctx, query.Query{Filter: query.Where().In("id", requestIDs)})
		if err != nil {
			return query.Page[AssignmentSummary]{}, fmt.Errorf("failed to fetch approval requests: %w", err)
		}
		for i := range reqs {
			current[reqs[i].ID] = &reqs[i]
		}
	}

	rows := make([]AssignmentSummary, len(res.items))
	for i := range res.items {
		a := &res.items[i]
		row := AssignmentSummary{
			OrderingNumber: query.OrderingNumber(i),
			ID:             a.ID,
			ScheduleID:     a.ScheduleID,
			StandardID:     a.StandardID,
			StandardName:   a.StandardName,
			StandardCode:   a.StandardCode,
			Lead:           a.Lead(),
			Members:        a.OtherMembers(),
			Units:          a.Units,
			HasFormulation: a.Formulation.Exists(),
			IsActive:       a.IsActive,
		}
		if a.CurrentRequestID != nil {
			row.ApprovalRequest = current[*a.CurrentRequestID]
		}
		rows[i] = row
	}
	return newPage(w, res.total, res.totalFiltered, rows), nil
}

// liveRequestIDs returns the current request of every live assignment in a
// schedule. Superseded requests and those of deleted assignments are left out.
func (s *ApprovalService) liveRequestIDs(ctx context.Context, scheduleID string) ([]string, error) {
	current, err := s.assignments.List(ctx, query.Query{
		Filter: query.Where().Eq("schedule_id", scheduleID).IsNull("date_deleted").NotNull("current_request_id"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments: %w", err)
	}
	ids := make([]string, 0, len(current))
	for _, a := range current {
		if a.CurrentRequestID != nil {
			ids = append(ids, *a.CurrentRequestID)
		}
	}
	return ids, nil
}

// ListRequests pages the current approval requests of a schedule for
// reviewers.
func (s *ApprovalService) ListRequests(ctx context.Context, actor models.Identity, scheduleID string, p ListParams) (query.Page[RequestSummary], error) {
	if !actor.CanReview() {
		return query.Page[RequestSummary]{}, apperror.Forbidden("reviewer role required")
	}
	w := p.Window()
	sort, err := p.sort(requestSortKeys)
	if err != nil {
		return query.Page[RequestSummary]{}, err
	}
	filters := p.Filter()
	if p.Status != "" {
		filters = filters.Eq("status", p.Status)
	}

	ids, err := s.liveRequestIDs(ctx, scheduleID)
	if err != nil {
		return query.Page[RequestSummary]{}, err
	}
	if len(ids) == 0 {
		return newPage[RequestSummary](w, 0, 0, nil), nil
	}

	base := query.Where().Eq("schedule_id", scheduleID).In("id", ids)
	res, err := fetchPage[models.ApprovalRequest](ctx, s.requests, base, filters, sort, w)
	if err != nil {
		return query.Page[RequestSummary]{}, err
	}
	rows := make([]RequestSummary, len(res.items))
	for i := range res.items {
		rows[i] = RequestSummary{OrderingNumber: query.OrderingNumber(i), ApprovalRequest: res.items[i]}
	}
	return newPage(w, res.total, res.totalFiltered, rows), nil
}

// CreateAssignment schedules a standard with its members and units.
func (s *ApprovalService) CreateAssignment(ctx context.Context, actor models.Identity, scheduleID string, in AssignmentInput) (*models.Assignment, error) {
	if !actor.IsAdmin() {
		return nil, apperror.Forbidden("admin role required")
	}
	leads := 0
	for _, m := range in.Members {
		switch m.MemberType {
		case models.MemberTypeLead:
			leads++
		case models.MemberTypeMember:
		default:
			return nil, apperror.Validation("memberType must be %s or %s", models.MemberTypeLead, models.MemberTypeMember)
		}
	}
	if leads != 1 {
		return nil, apperror.Validation("an assignment needs exactly one %s member", models.MemberTypeLead)
	}

	standard, err := s.standards.Get(ctx, in.StandardID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && standard.DateDeleted != nil) {
		return nil, apperror.NotFound("standard %s not found", in.StandardID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch standard: %w", err)
	}

	members := make([]models.AssignmentMember, 0, len(in.Members))
	seen := make(map[string]bool, len(in.Members))
	for _, m := range in.Members {
		if seen[m.UserID] {
			return nil, apperror.Validation("user %s is listed twice", m.UserID)
		}
		seen[m.UserID] = true
		user, err := s.users.Get(ctx, m.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("user %s not found", m.UserID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch user %s: %w", m.UserID, err)
		}
		members = append(members, models.AssignmentMember{
			UserID:     user.ID,
			Name:       user.Name,
			Username:   user.Username,
			MemberType: m.MemberType,
		})
	}

	existing, err := s.assignments.Count(ctx, query.Where().
		Eq("schedule_id", scheduleID).
		Eq("standard_id", standard.ID).
		IsNull("date_deleted"))
	if err != nil {
		return nil, fmt.Errorf("failed to check existing assignment: %w", err)
	}
	if existing > 0 {
		return nil, apperror.InvalidOperation("standard %s is already assigned in this schedule", standard.StandardCode)
	}

	a := &models.Assignment{
		ScheduleID:   scheduleID,
		StandardID:   standard.ID,
		StandardName: standard.StandardName,
		StandardCode: standard.StandardCode,
		Members:      members,
		Units:        in.Units,
		IsActive:     in.IsActive == nil || *in.IsActive,
	}
	if a.Units == nil {
		a.Units = []models.AssignmentUnit{}
	}
	if err := a.Normalize(); err != nil {
		return nil, err
	}
	a.SetID(uuid.NewString())
	a.Stamp(time.Now())
	if err := s.assignments.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}
	log.Printf("[CreateAssignment] %s assigned in schedule %s", standard.StandardCode, scheduleID)
	return a, nil
}

func (s *ApprovalService) GetAssignment(ctx context.Context, actor models.Identity, id string) (*models.Assignment, error) {
	return s.liveAssignment(ctx, actor, id, adminAccess)
}

// CreateFormulation adds the formulation to an assignment that has none.
func (s *ApprovalService) CreateFormulation(ctx context.Context, actor models.Identity, id string, in FormulationInput) (*models.Assignment, error) {
	a, err := s.liveAssignment(ctx, actor, id, adminAccess)
	if err != nil {
		return nil, err
	}
	if a.Formulation.Exists() {
		return nil, apperror.InvalidOperation("formulation already exists")
	}
	now := time.Now()
	in.applyTo(&a.Formulation)
	a.Formulation.CreatedAt = &now
	a.Formulation.UpdatedAt = &now
	return s.saveFormulation(ctx, a, now)
}

// UpdateFormulation changes the supplied formulation fields.
func (s *ApprovalService) UpdateFormulation(ctx context.Context, actor models.Identity, id string, in FormulationInput) (*models.Assignment, error) {
	a, err := s.liveAssignment(ctx, actor, id, adminAccess)
	if err != nil {
		return nil, err
	}
	if !a.Formulation.Exists() {
		return nil, apperror.NotFound("formulation not found")
	}
	if in.empty() {
		return nil, apperror.InvalidOperation("No data provided to update")
	}
	now := time.Now()
	in.applyTo(&a.Formulation)
	a.Formulation.UpdatedAt = &now
	return s.saveFormulation(ctx, a, now)
}

func (s *ApprovalService) saveFormulation(ctx context.Context, a *models.Assignment, now time.Time) (*models.Assignment, error) {
	err := s.assignments.SaveFormulation(ctx, a.ID, a.Formulation, now)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("assignment %s not found", a.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save formulation: %w", err)
	}
	a.UpdatedAt = now
	return a, nil
}

// DeleteAssignment soft-deletes an assignment.
func (s *ApprovalService) DeleteAssignment(ctx context.Context, actor models.Identity, id string) error {
	if !actor.IsAdmin() {
		return apperror.Forbidden("admin role required")
	}
	err := s.assignments.SoftDelete(ctx, id, time.Now())
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("assignment %s not found", id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	return nil
}
