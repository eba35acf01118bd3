package mongorepo

import (
	"context"
	"fmt"

	"github.com/Itish41/portfolio-cms/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the services rely on. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		models.User{}.TableName(): {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		models.Assignment{}.TableName(): {
			{Keys: bson.D{{Key: "schedule_id", Value: 1}, {Key: "standard_id", Value: 1}}},
		},
		models.ApprovalRequest{}.TableName(): {
			{Keys: bson.D{{Key: "assignment_id", Value: 1}}},
			{Keys: bson.D{{Key: "schedule_id", Value: 1}, {Key: "status", Value: 1}}},
		},
		models.Standard{}.TableName(): {
			{Keys: bson.D{{Key: "standard_code", Value: 1}}},
		},
		models.StandardDetailType{}.TableName(): {
			{Keys: bson.D{{Key: "standard_detail_id", Value: 1}}},
		},
		models.StandardTemplate{}.TableName(): {
			{Keys: bson.D{{Key: "standard_detail_type_id", Value: 1}}},
		},
	}

	for collection, idx := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", collection, err)
		}
	}
	return nil
}
