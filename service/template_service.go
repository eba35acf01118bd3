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
	"golang.org/x/sync/errgroup"
)

const defaultSearchLimit = 25

var detailSortKeys = map[string]string{
	"detailContent": "detail_content",
	"detailCode":    "detail_code",
	"detailOrder":   "detail_order",
	"isActive":      "is_active",
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
}

// DetailListParams are the list inputs of the standard detail catalogue.
type DetailListParams struct {
	Page          int      `form:"page" binding:"omitempty,min=1"`
	Limit         int      `form:"limit" binding:"omitempty,min=1"`
	SortBy        []string `form:"sortBy"`
	DetailContent string   `form:"detailContent"`
	DetailCode    string   `form:"detailCode"`
	IsActive      *bool    `form:"isActive"`
}

func (p DetailListParams) Filter() query.Filter {
	f := query.Where().
		Contains("detail_content", p.DetailContent).
		Contains("detail_code", p.DetailCode)
	if p.IsActive != nil {
		f = f.Eq("is_active", *p.IsActive)
	}
	return f
}

// SearchParams drive the unpaged type and template pickers.
type SearchParams struct {
	Search string `form:"search"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

func (p SearchParams) limit() int {
	if p.Limit < 1 {
		return defaultSearchLimit
	}
	return p.Limit
}

type DetailRow struct {
	OrderingNumber int `json:"orderingNumber"`
	models.StandardDetail
}

type StandardDetailInput struct {
	DetailContent string `json:"detailContent" binding:"required"`
	DetailCode    string `json:"detailCode"`
	DetailOrder   int    `json:"detailOrder"`
	IsActive      *bool  `json:"isActive"`
}

type StandardDetailPatch struct {
	DetailContent *string `json:"detailContent"`
	DetailCode    *string `json:"detailCode"`
	DetailOrder   *int    `json:"detailOrder"`
	IsActive      *bool   `json:"isActive"`
}

type DetailTypeInput struct {
	DetailType      string `json:"detailType" binding:"required"`
	DetailTypeCode  string `json:"detailTypeCode"`
	DetailTypeOrder int    `json:"detailTypeOrder"`
	IsActive        *bool  `json:"isActive"`
}

type DetailTypePatch struct {
	DetailType      *string `json:"detailType"`
	DetailTypeCode  *string `json:"detailTypeCode"`
	DetailTypeOrder *int    `json:"detailTypeOrder"`
	IsActive        *bool   `json:"isActive"`
}

type TemplateInput struct {
	StandardDetailTypeID string `json:"idStandardDetailType" binding:"required"`
	TemplateContent      string `json:"templateContent" binding:"required"`
	TemplateOrder        int    `json:"templateOrder"`
	IsActive             *bool  `json:"isActive"`
}

// TemplatePatch may move a template to another type of the same detail.
type TemplatePatch struct {
	StandardDetailTypeID *string `json:"idStandardDetailType"`
	TemplateContent      *string `json:"templateContent"`
	TemplateOrder        *int    `json:"templateOrder"`
	IsActive             *bool   `json:"isActive"`
}

// TemplateRow is a template with the type it belongs to.
type TemplateRow struct {
	models.StandardTemplate
	DetailType *models.StandardDetailType `json:"standardDetailType"`
}

// FormulationContent is one active detail with its active types and their
// templates, in display order.
type FormulationContent struct {
	models.StandardDetail
	Types []DetailTypeContent `json:"types"`
}

type DetailTypeContent struct {
	models.StandardDetailType
	Templates []models.StandardTemplate `json:"templates"`
}

type TemplateRepos struct {
	Details   repository.SoftDeleteRepository[models.StandardDetail]
	Types     repository.SoftDeleteRepository[models.StandardDetailType]
	Templates repository.SoftDeleteRepository[models.StandardTemplate]
}

// TemplateService manages the formulation template catalogue: details, the
// types under each detail and the template snippets under each type.
type TemplateService struct {
	details   repository.SoftDeleteRepository[models.StandardDetail]
	types     repository.SoftDeleteRepository[models.StandardDetailType]
	templates repository.SoftDeleteRepository[models.StandardTemplate]
}

func NewTemplateService(r TemplateRepos) *TemplateService {
	return &TemplateService{details: r.Details, types: r.Types, templates: r.Templates}
}

var live = query.Where().IsNull("date_deleted")

func getLive[T any](ctx context.Context, repo repository.Repository[T], id, what string, deletedAt func(*T) *time.Time) (*T, error) {
	item, err := repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && deletedAt(item) != nil) {
		return nil, apperror.NotFound("%s not found", what)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s %s: %w", strings.ToLower(what), id, err)
	}
	return item, nil
}

func softDelete(ctx context.Context, del func(context.Context, string, time.Time) error, id, what string) error {
	err := del(ctx, id, time.Now())
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("%s not found", what)
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", strings.ToLower(what), err)
	}
	return nil
}

func patchString(dst, src *string, changed *bool) {
	if src != nil && strings.TrimSpace(*src) != *dst {
		*dst = strings.TrimSpace(*src)
		*changed = true
	}
}

func patchInt(dst, src *int, changed *bool) {
	if src != nil && *src != *dst {
		*dst = *src
		*changed = true
	}
}

func patchBool(dst, src *bool, changed *bool) {
	if src != nil && *src != *dst {
		*dst = *src
		*changed = true
	}
}

func noChanges() error { return apperror.InvalidOperation("No data provided to update") }

func activeOrDefault(v *bool) bool { return v == nil || *v }

func detailDeleted(d *models.StandardDetail) *time.Time     { return d.DateDeleted }
func typeDeleted(t *models.StandardDetailType) *time.Time   { return t.DateDeleted }
func templateDeleted(t *models.StandardTemplate) *time.Time { return t.DateDeleted }

func (s *TemplateService) ListDetails(ctx context.Context, p DetailListParams) (query.Page[DetailRow], error) {
	w := query.NewWindow(p.Page, p.Limit)
	sort, err := sortOrDefault(p.SortBy, detailSortKeys)
	if err != nil {
		return query.Page[DetailRow]{}, err
	}
	res, err := fetchPage[models.StandardDetail](ctx, s.details, live, p.Filter(), sort, w)
	if err != nil {
		return query.Page[DetailRow]{}, err
	}
	rows := make([]DetailRow, len(res.items))
	for i := range res.items {
		rows[i] = DetailRow{OrderingNumber: query.OrderingNumber(i), StandardDetail: res.items[i]}
	}
	return newPage(w, res.total, res.totalFiltered, rows), nil
}

func (s *TemplateService) GetDetail(ctx context.Context, id string) (*models.StandardDetail, error) {
	return getLive[models.StandardDetail](ctx, s.details, id, "Standard detail", detailDeleted)
}

func (s *TemplateService) CreateDetail(ctx context.Context, in StandardDetailInput) (*models.StandardDetail, error) {
	detail := &models.StandardDetail{
		DetailContent: strings.TrimSpace(in.DetailContent),
		DetailCode:    strings.TrimSpace(in.DetailCode),
		DetailOrder:   in.DetailOrder,
		IsActive:      activeOrDefault(in.IsActive),
	}
	if detail.DetailContent == "" {
		return nil, apperror.Validation("detailContent is required")
	}
	detail.SetID(uuid.NewString())
	detail.Stamp(time.Now())
	if err := s.details.Create(ctx, detail); err != nil {
		return nil, fmt.Errorf("failed to create standard detail: %w", err)
	}
	log.Printf("[TemplateService.CreateDetail] created %s", detail.ID)
	return detail, nil
}

func (s *TemplateService) UpdateDetail(ctx context.Context, id string, patch StandardDetailPatch) (*models.StandardDetail, error) {
	detail, err := s.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	changed := false
	patchString(&detail.DetailContent, patch.DetailContent, &changed)
	patchString(&detail.DetailCode, patch.DetailCode, &changed)
	patchInt(&detail.DetailOrder, patch.DetailOrder, &changed)
	patchBool(&detail.IsActive, patch.IsActive, &changed)
	if !changed {
		return nil, noChanges()
	}
	if detail.DetailContent == "" {
		return nil, apperror.Validation("detailContent cannot be empty")
	}

	detail.Stamp(time.Now())
	if err := s.details.Update(ctx, id, detail); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Standard detail not found")
		}
		return nil, fmt.Errorf("failed to update standard detail: %w", err)
	}
	return detail, nil
}

func (s *TemplateService) DeleteDetail(ctx context.Context, id string) error {
	return softDelete(ctx, s.details.SoftDelete, id, "Standard detail")
}

// detailType returns a live type that belongs to detailID.
func (s *TemplateService) detailType(ctx context.Context, detailID, typeID string) (*models.StandardDetailType, error) {
	t, err := getLive[models.StandardDetailType](ctx, s.types, typeID, "Standard detail type", typeDeleted)
	if err != nil {
		return nil, err
	}
	if t.StandardDetailID != detailID {
		return nil, apperror.NotFound("Standard detail type not found")
	}
	return t, nil
}

// liveTypes lists the live types of a detail in display order.
func (s *TemplateService) liveTypes(ctx context.Context, detailID string, extra query.Filter, limit int) ([]models.StandardDetailType, error) {
	types, err := s.types.List(ctx, query.Query{
		Filter: live.Eq("standard_detail_id", detailID).And(extra),
		Sort:   []query.SortKey{query.Asc("detail_type_order"), query.Asc("created_at")},
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list standard detail types: %w", err)
	}
	return types, nil
}

// ListTypes searches the types of a detail by name or code.
func (s *TemplateService) ListTypes(ctx context.Context, detailID string, p SearchParams) ([]models.StandardDetailType, error) {
	if _, err := s.GetDetail(ctx, detailID); err != nil {
		return nil, err
	}
	search := query.Where().ContainsAny([]string{"detail_type", "detail_type_code"}, p.Search)
	return s.liveTypes(ctx, detailID, search, p.limit())
}

func (s *TemplateService) CreateType(ctx context.Context, detailID string, in DetailTypeInput) (*models.StandardDetailType, error) {
	if _, err := s.GetDetail(ctx, detailID); err != nil {
		return nil, err
	}
	t := &models.StandardDetailType{
		StandardDetailID: detailID,
		DetailType:       strings.TrimSpace(in.DetailType),
		DetailTypeCode:   strings.TrimSpace(in.DetailTypeCode),
		DetailTypeOrder:  in.DetailTypeOrder,
		IsActive:         activeOrDefault(in.IsActive),
	}
	if t.DetailType == "" {
		return nil, apperror.Validation("detailType is required")
	}
	t.SetID(uuid.NewString())
	t.Stamp(time.Now())
	if err := s.types.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create standard detail type: %w", err)
	}
	log.Printf("[TemplateService.CreateType] created %s under %s", t.ID, detailID)
	return t, nil
}

func (s *TemplateService) UpdateType(ctx context.Context, detailID, typeID string, patch DetailTypePatch) (*models.StandardDetailType, error) {
	t, err := s.detailType(ctx, detailID, typeID)
	if err != nil {
		return nil, err
	}
	changed := false
	patchString(&t.DetailType, patch.DetailType, &changed)
	patchString(&t.DetailTypeCode, patch.DetailTypeCode, &changed)
	patchInt(&t.DetailTypeOrder, patch.DetailTypeOrder, &changed)
	patchBool(&t.IsActive, patch.IsActive, &changed)
	if !changed {
		return nil, noChanges()
	}
	if t.DetailType == "" {
		return nil, apperror.Validation("detailType cannot be empty")
	}

	t.Stamp(time.Now())
	if err := s.types.Update(ctx, typeID, t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Standard detail type not found")
		}
		return nil, fmt.Errorf("failed to update standard detail type: %w", err)
	}
	return t, nil
}

func (s *TemplateService) DeleteType(ctx context.Context, detailID, typeID string) error {
	if _, err := s.detailType(ctx, detailID, typeID); err != nil {
		return err
	}
	return softDelete(ctx, s.types.SoftDelete, typeID, "Standard detail type")
}

// ListTemplates searches the live templates under the live types of a detail.
func (s *TemplateService) ListTemplates(ctx context.Context, detailID string, p SearchParams) ([]TemplateRow, error) {
	if _, err := s.GetDetail(ctx, detailID); err != nil {
		return nil, err
	}
	types, err := s.liveTypes(ctx, detailID, query.Where(), query.MaxLimit)
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return []TemplateRow{}, nil
	}
	byID := make(map[string]*models.StandardDetailType, len(types))
	ids := make([]string, len(types))
	for i := range types {
		byID[types[i].ID] = &types[i]
		ids[i] = types[i].ID
	}

	templates, err := s.templates.List(ctx, query.Query{
		Filter: live.In("standard_detail_type_id", ids).Contains("template_content", p.Search),
		Sort:   []query.SortKey{query.Asc("template_order"), query.Asc("created_at")},
		Limit:  p.limit(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list standard templates: %w", err)
	}
	rows := make([]TemplateRow, len(templates))
	for i := range templates {
		rows[i] = TemplateRow{StandardTemplate: templates[i], DetailType: byID[templates[i].StandardDetailTypeID]}
	}
	return rows, nil
}

func (s *TemplateService) CreateTemplate(ctx context.Context, detailID string, in TemplateInput) (*models.StandardTemplate, error) {
	if _, err := s.detailType(ctx, detailID, in.StandardDetailTypeID); err != nil {
		return nil, err
	}
	tpl := &models.StandardTemplate{
		StandardDetailTypeID: in.StandardDetailTypeID,
		TemplateContent:      strings.TrimSpace(in.TemplateContent),
		TemplateOrder:        in.TemplateOrder,
		IsActive:             activeOrDefault(in.IsActive),
	}
	if tpl.TemplateContent == "" {
		return nil, apperror.Validation("templateContent is required")
	}
	tpl.SetID(uuid.NewString())
	tpl.Stamp(time.Now())
	if err := s.templates.Create(ctx, tpl); err != nil {
		return nil, fmt.Errorf("failed to create standard template: %w", err)
	}
	return tpl, nil
}

// template returns a live template whose type belongs to detailID.
func (s *TemplateService) template(ctx context.Context, detailID, templateID string) (*models.StandardTemplate, error) {
	tpl, err := getLive[models.StandardTemplate](ctx, s.templates, templateID, "Standard template", templateDeleted)
	if err != nil {
		return nil, err
	}
	t, err := s.types.Get(ctx, tpl.StandardDetailTypeID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && t.StandardDetailID != detailID) {
		return nil, apperror.NotFound("Standard template not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch standard detail type: %w", err)
	}
	return tpl, nil
}

func (s *TemplateService) UpdateTemplate(ctx context.Context, detailID, templateID string, patch TemplatePatch) (*models.StandardTemplate, error) {
	tpl, err := s.template(ctx, detailID, templateID)
	if err != nil {
		return nil, err
	}
	changed := false
	if patch.StandardDetailTypeID != nil && *patch.StandardDetailTypeID != tpl.StandardDetailTypeID {
		if _, err := s.detailType(ctx, detailID, *patch.StandardDetailTypeID); err != nil {
			return nil, err
		}
		tpl.StandardDetailTypeID = *patch.StandardDetailTypeID
		changed = true
	}
	patchString(&tpl.TemplateContent, patch.TemplateContent, &changed)
	patchInt(&tpl.TemplateOrder, patch.TemplateOrder, &changed)
	patchBool(&tpl.IsActive, patch.IsActive, &changed)
	if !changed {
		return nil, noChanges()
	}
	if tpl.TemplateContent == "" {
		return nil, apperror.Validation("templateContent cannot be empty")
	}

	tpl.Stamp(time.Now())
	if err := s.templates.Update(ctx, templateID, tpl); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Standard template not found")
		}
		return nil, fmt.Errorf("failed to update standard template: %w", err)
	}
	return tpl, nil
}

func (s *TemplateService) DeleteTemplate(ctx context.Context, detailID, templateID string) error {
	if _, err := s.template(ctx, detailID, templateID); err != nil {
		return err
	}
	return softDelete(ctx, s.templates.SoftDelete, templateID, "Standard template")
}

// Contents returns the active catalogue as a tree for the formulation editor.
// Inactive or deleted parents hide their children.
func (s *TemplateService) Contents(ctx context.Context) ([]FormulationContent, error) {
	activeLive := live.Eq("is_active", true)
	var (
		details   []models.StandardDetail
		types     []models.StandardDetailType
		templates []models.StandardTemplate
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		details, err = s.details.List(gctx, query.Query{
			Filter: activeLive,
			Sort:   []query.SortKey{query.Asc("detail_order"), query.Asc("created_at")},
		})
		return err
	})
	g.Go(func() (err error) {
		types, err = s.types.List(gctx, query.Query{
			Filter: activeLive,
			Sort:   []query.SortKey{query.Asc("detail_type_order"), query.Asc("created_at")},
		})
		return err
	})
	g.Go(func() (err error) {
		templates, err = s.templates.List(gctx, query.Query{
			Filter: activeLive,
			Sort:   []query.SortKey{query.Asc("template_order"), query.Asc("created_at")},
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch formulation contents: %w", err)
	}

	templatesByType := make(map[string][]models.StandardTemplate)
	for _, tpl := range templates {
		templatesByType[tpl.StandardDetailTypeID] = append(templatesByType[tpl.StandardDetailTypeID], tpl)
	}
	typesByDetail := make(map[string][]DetailTypeContent)
	for _, t := range types {
		children := templatesByType[t.ID]
		if children == nil {
			children = []models.StandardTemplate{}
		}
		typesByDetail[t.StandardDetailID] = append(typesByDetail[t.StandardDetailID], DetailTypeContent{StandardDetailType: t, Templates: children})
	}

	out := make([]FormulationContent, len(details))
	for i, d := range details {
		children := typesByDetail[d.ID]
		if children == nil {
			children = []DetailTypeContent{}
		}
		out[i] = FormulationContent{StandardDetail: d, Types: children}
	}
	return out, nil
}
