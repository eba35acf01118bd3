package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Itish41/portfolio-cms/apperror"
	"github.com/Itish41/portfolio-cms/models"
	"github.com/Itish41/portfolio-cms/query"
	"github.com/Itish41/portfolio-cms/repository"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var standardSortKeys = map[string]string{
	"standardName": "standard_name",
	"standardCode": "standard_code",
	"isActive":     "is_active",
	"createdAt":    "created_at",
	"updatedAt":    "updated_at",
}

// StandardRow is one row of the standards list.
type StandardRow struct {
	OrderingNumber int `json:"orderingNumber"`
	models.Standard
}

type StandardInput struct {
	StandardName string `json:"standardName" binding:"required"`
	StandardCode string `json:"standardCode" binding:"required"`
	Description  string `json:"description"`
	IsActive     *bool  `json:"isActive"`
}

// StandardPatch changes the supplied fields of a standard.
type StandardPatch struct {
	StandardName *string `json:"standardName"`
	StandardCode *string `json:"standardCode"`
	Description  *string `json:"description"`
	IsActive     *bool   `json:"isActive"`
}

type StandardService struct {
	standards repository.StandardRepository
}

func NewStandardService(standards repository.StandardRepository) *StandardService {
	return &StandardService{standards: standards}
}

var liveStandards = query.Where().IsNull("date_deleted")

func (s *StandardService) List(ctx context.Context, p ListParams) (query.Page[StandardRow], error) {
	w := p.Window()
	sort, err := p.sort(standardSortKeys)
	if err != nil {
		return query.Page[StandardRow]{}, err
	}
	res, err := fetchPage[models.Standard](ctx, s.standards, liveStandards, p.Filter(), sort, w)
	if err != nil {
		return query.Page[StandardRow]{}, err
	}
	rows := make([]StandardRow, len(res.items))
	for i := range res.items {
		rows[i] = StandardRow{OrderingNumber: query.OrderingNumber(i), Standard: res.items[i]}
	}
	return newPage(w, res.total, res.totalFiltered, rows), nil
}

// Get returns a standard that is not soft-deleted.
func (s *StandardService) Get(ctx context.Context, id string) (*models.Standard, error) {
	standard, err := s.standards.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && standard.DateDeleted != nil) {
		return nil, apperror.NotFound("standard %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch standard %s: %w", id, err)
	}
	return standard, nil
}

func (s *StandardService) Create(ctx context.Context, in StandardInput) (*models.Standard, error) {
	standard := &models.Standard{
		StandardName: strings.TrimSpace(in.StandardName),
		StandardCode: strings.TrimSpace(in.StandardCode),
		Description:  in.Description,
		IsActive:     in.IsActive == nil || *in.IsActive,
	}
	if standard.StandardName == "" || standard.StandardCode == "" {
		return nil, apperror.Validation("standardName and standardCode are required")
	}
	standard.SetID(uuid.NewString())
	standard.Stamp(time.Now())
	if err := s.standards.Create(ctx, standard); err != nil {
		return nil, fmt.Errorf("failed to create standard: %w", err)
	}
	log.Printf("[StandardService.Create] created %s", standard.StandardCode)
	return standard, nil
}

// Update applies patch. A patch that changes nothing is rejected.
func (s *StandardService) Update(ctx context.Context, id string, patch StandardPatch) (*models.Standard, error) {
	standard, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := false
	setString := func(dst *string, src *string) {
		if src != nil && strings.TrimSpace(*src) != *dst {
			*dst = strings.TrimSpace(*src)
			changed = true
		}
	}
	setString(&standard.StandardName, patch.StandardName)
	setString(&standard.StandardCode, patch.StandardCode)
	setString(&standard.Description, patch.Description)
	if patch.IsActive != nil && *patch.IsActive != standard.IsActive {
		standard.IsActive = *patch.IsActive
		changed = true
	}
	if !changed {
		return nil, apperror.InvalidOperation("No data provided to update")
	}
	if standard.StandardName == "" || standard.StandardCode == "" {
		return nil, apperror.Validation("standardName and standardCode cannot be empty")
	}

	standard.Stamp(time.Now())
	err = s.standards.Update(ctx, id, standard)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("standard %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update standard: %w", err)
	}
	return standard, nil
}

func (s *StandardService) Delete(ctx context.Context, id string) error {
	err := s.standards.SoftDelete(ctx, id, time.Now())
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("standard %s not found", id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete standard: %w", err)
	}
	return nil
}
