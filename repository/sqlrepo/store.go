// Package sqlrepo implements the repository contracts on gorm. Production runs
// on PostgreSQL; tests run on SQLite.
package sqlrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Itish41/portfolio-cms/query"
	"github.com/Itish41/portfolio-cms/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is a generic gorm repository for one model.
type Store[T any] struct {
	db *gorm.DB
}

func NewStore[T any](db *gorm.DB) *Store[T] {
	return &Store[T]{db: db}
}

func (s *Store[T]) List(ctx context.Context, q query.Query) ([]T, error) {
	tx := applyFilter(s.db.WithContext(ctx).Model(new(T)), q.Filter)
	for _, key := range q.Sort {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: key.Field}, Desc: key.Desc})
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	items := make([]T, 0)
	if err := tx.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list %T: %w", *new(T), err)
	}
	return items, nil
}

func (s *Store[T]) Count(ctx context.Context, f query.Filter) (int64, error) {
	var total int64
	if err := applyFilter(s.db.WithContext(ctx).Model(new(T)), f).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count %T: %w", *new(T), err)
	}
	return total, nil
}

func (s *Store[T]) Get(ctx context.Context, id string) (*T, error) {
	item := new(T)
	err := s.db.WithContext(ctx).Where("id = ?", id).First(item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %T %s: %w", *item, id, err)
	}
	return item, nil
}

func (s *Store[T]) Create(ctx context.Context, item *T) error {
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("create %T: %w", *item, err)
	}
	return nil
}

func (s *Store[T]) Update(ctx context.Context, id string, item *T) error {
	res := s.db.WithContext(ctx).Model(new(T)).
		Where("id = ?", id).
		Select("*").Omit("id", "created_at").
		Updates(item)
	if res.Error != nil {
		return fmt.Errorf("update %T %s: %w", *item, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store[T]) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return fmt.Errorf("delete %T %s: %w", *new(T), id, res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// conditionalUpdate applies values to the row matching where. It reports
// whether a row matched.
func (s *Store[T]) conditionalUpdate(ctx context.Context, where query.Filter, values map[string]interface{}) (bool, error) {
	res := applyFilter(s.db.WithContext(ctx).Model(new(T)), where).Updates(values)
	if res.Error != nil {
		return false, fmt.Errorf("update %T: %w", *new(T), res.Error)
	}
	return res.RowsAffected > 0, nil
}

func applyFilter(tx *gorm.DB, f query.Filter) *gorm.DB {
	for _, p := range f.Predicates() {
		col := clause.Column{Name: p.Field}
		switch p.Op {
		case query.OpEq:
			tx = tx.Where(clause.Eq{Column: col, Value: p.Value})
		case query.OpIsNull:
			tx = tx.Where(clause.Eq{Column: col, Value: nil})
		case query.OpNotNull:
			tx = tx.Where(clause.Neq{Column: col, Value: nil})
		case query.OpContains:
			tx = tx.Where(likeExpr(p.Field), likePattern(p.Value))
		case query.OpContainsAny:
			exprs := make([]string, len(p.Fields))
			args := make([]interface{}, len(p.Fields))
			for i, field := range p.Fields {
				exprs[i] = likeExpr(field)
				args[i] = likePattern(p.Value)
			}
			tx = tx.Where("("+strings.Join(exprs, " OR ")+")", args...)
		case query.OpIn:
			values, _ := p.Value.([]string)
			in := make([]interface{}, len(values))
			for i, v := range values {
				in[i] = v
			}
			tx = tx.Where(clause.IN{Column: col, Values: in})
		}
	}
	return tx
}

func likeExpr(field string) string {
	return "LOWER(" + field + ") LIKE ? ESCAPE '\\'"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(v interface{}) string {
	return "%" + likeEscaper.Replace(strings.ToLower(fmt.Sprint(v))) + "%"
}
