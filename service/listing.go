package services

import (
	"context"
	"fmt"

	"github.com/Itish41/portfolio-cms/query"
	"github.com/Itish41/portfolio-cms/repository"
	"golang.org/x/sync/errgroup"
)

// ListParams are the paging, sorting and filter inputs shared by the
// standard, assignment and approval listings.
type ListParams struct {
	Page         int      `form:"page" binding:"omitempty,min=1"`
	Limit        int      `form:"limit" binding:"omitempty,min=1"`
	SortBy       []string `form:"sortBy"`
	StandardName string   `form:"standardName"`
	StandardCode string   `form:"standardCode"`
	IsActive     *bool    `form:"isActive"`
	Status       string   `form:"status" binding:"omitempty,oneof=pending approved rejected"`
}

func (p ListParams) Window() query.Window { return query.NewWindow(p.Page, p.Limit) }

// Filter holds the user supplied filters, applied on top of a listing's base
// scope.
func (p ListParams) Filter() query.Filter {
	f := query.Where().
		Contains("standard_name", p.StandardName).
		Contains("standard_code", p.StandardCode)
	if p.IsActive != nil {
		f = f.Eq("is_active", *p.IsActive)
	}
	return f
}

var defaultSort = []query.SortKey{query.Desc("created_at")}

func (p ListParams) sort(allowed map[string]string) ([]query.SortKey, error) {
	return sortOrDefault(p.SortBy, allowed)
}

func sortOrDefault(tokens []string, allowed map[string]string) ([]query.SortKey, error) {
	keys, err := query.ParseSort(tokens, allowed)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return defaultSort, nil
	}
	return keys, nil
}

type pageResult[T any] struct {
	total         int64
	totalFiltered int64
	items         []T
}

// fetchPage runs the base count, the filtered count and the page query
// concurrently.
func fetchPage[T any](ctx context.Context, repo repository.Repository[T], base, filters query.Filter, sort []query.SortKey, w query.Window) (pageResult[T], error) {
	var res pageResult[T]
	filtered := base.And(filters)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := repo.Count(gctx, base)
		res.total = n
		return err
	})
	g.Go(func() error {
		n, err := repo.Count(gctx, filtered)
		res.totalFiltered = n
		return err
	})
	g.Go(func() error {
		items, err := repo.List(gctx, query.Query{Filter: filtered, Sort: sort, Offset: w.Offset(), Limit: w.Limit})
		res.items = items
		return err
	})
	if err := g.Wait(); err != nil {
		return res, fmt.Errorf("failed to list page: %w", err)
	}
	return res, nil
}

func newPage[T any](w query.Window, total, totalFiltered int64, data []T) query.Page[T] {
	if data == nil {
		data = []T{}
	}
	return query.Page[T]{Page: w.Page, Limit: w.Limit, Total: total, TotalFiltered: totalFiltered, Data: data}
}
