// Package mongorepo implements the repository contracts on MongoDB.
package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/Itish41/portfolio-cms/query"
	"github.com/Itish41/portfolio-cms/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is a generic repository over one collection.
type Store[T any] struct {
	coll *mongo.Collection
}

func NewStore[T any](db *mongo.Database, collection string) *Store[T] {
	return &Store[T]{coll: db.Collection(collection)}
}

func (s *Store[T]) List(ctx context.Context, q query.Query) ([]T, error) {
	opts := options.Find()
	if len(q.Sort) > 0 {
		sort := bson.D{}
		for _, key := range q.Sort {
			dir := 1
			if key.Desc {
				dir = -1
			}
			sort = append(sort, bson.E{Key: fieldKey(key.Field), Value: dir})
		}
		opts.SetSort(sort)
	}
	if q.Offset > 0 {
		opts.SetSkip(int64(q.Offset))
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := s.coll.Find(ctx, toBSON(q.Filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", s.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	items := make([]T, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.coll.Name(), err)
	}
	return items, nil
}

func (s *Store[T]) Count(ctx context.Context, f query.Filter) (int64, error) {
	total, err := s.coll.CountDocuments(ctx, toBSON(f))
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", s.coll.Name(), err)
	}
	return total, nil
}

func (s *Store[T]) Get(ctx context.Context, id string) (*T, error) {
	item := new(T)
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", s.coll.Name(), id, err)
	}
	return item, nil
}

func (s *Store[T]) Create(ctx context.Context, item *T) error {
	if _, err := s.coll.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("insert into %s: %w", s.coll.Name(), err)
	}
	return nil
}

// Update sets every stored field of item except _id and created_at.
func (s *Store[T]) Update(ctx context.Context, id string, item *T) error {
	raw, err := bson.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode %s %s: %w", s.coll.Name(), id, err)
	}
	var set bson.M
	if err := bson.Unmarshal(raw, &set); err != nil {
		return fmt.Errorf("encode %s %s: %w", s.coll.Name(), id, err)
	}
	delete(set, "_id")
	delete(set, "created_at")

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update %s %s: %w", s.coll.Name(), id, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store[T]) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", s.coll.Name(), id, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// conditionalUpdate applies set to the document matching where and reports
// whether one matched.
func (s *Store[T]) conditionalUpdate(ctx context.Context, where query.Filter, set bson.M) (bool, error) {
	res, err := s.coll.UpdateOne(ctx, toBSON(where), bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("update %s: %w", s.coll.Name(), err)
	}
	return res.MatchedCount > 0, nil
}

func fieldKey(field string) string {
	if field == "id" {
		return "_id"
	}
	return field
}

func containsRegex(v interface{}) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(fmt.Sprint(v)), "$options": "i"}
}

// toBSON translates a filter into a MongoDB query document.
func toBSON(f query.Filter) bson.M {
	preds := f.Predicates()
	if len(preds) == 0 {
		return bson.M{}
	}

	clauses := make([]bson.M, 0, len(preds))
	for _, p := range preds {
		key := fieldKey(p.Field)
		switch p.Op {
		case query.OpEq:
			clauses = append(clauses, bson.M{key: p.Value})
		case query.OpIsNull:
			clauses = append(clauses, bson.M{key: nil})
		case query.OpNotNull:
			clauses = append(clauses, bson.M{key: bson.M{"$ne": nil}})
		case query.OpContains:
			clauses = append(clauses, bson.M{key: containsRegex(p.Value)})
		case query.OpContainsAny:
			or := make([]bson.M, len(p.Fields))
			for i, field := range p.Fields {
				or[i] = bson.M{fieldKey(field): containsRegex(p.Value)}
			}
			clauses = append(clauses, bson.M{"$or": or})
		case query.OpIn:
			values, _ := p.Value.([]string)
			if values == nil {
				values = []string{}
			}
			clauses = append(clauses, bson.M{key: bson.M{"$in": values}})
		}
	}
	return bson.M{"$and": clauses}
}
