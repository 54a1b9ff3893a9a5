package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nbportfolio/site/internal/content"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// contentRecord is the single row of the site_content collection.
type contentRecord struct {
	Key       string    `bson:"key"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoContentRepo stores the document as opaque JSON text under the fixed
// key. Document keys contain dots, so they are not stored as BSON fields.
type MongoContentRepo struct {
	col *mongo.Collection
}

func NewMongoContentRepo(ctx context.Context, col *mongo.Collection) *MongoContentRepo {
	idxModel := mongo.IndexModel{Keys: bson.D{{Key: "key", Value: 1}}, Options: options.Index().SetUnique(true)}
	_, _ = col.Indexes().CreateOne(ctx, idxModel)
	return &MongoContentRepo{col: col}
}

func (m *MongoContentRepo) LoadContent(ctx context.Context) (content.Document, error) {
	var rec contentRecord
	err := m.col.FindOne(ctx, bson.M{"key": content.Key}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return content.Document{}, nil
		}
		return nil, fmt.Errorf("load content: %w", err)
	}
	return content.Decode([]byte(rec.Value))
}

func (m *MongoContentRepo) SaveContent(ctx context.Context, doc content.Document) error {
	if doc == nil {
		doc = content.Document{}
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	rec := contentRecord{Key: content.Key, Value: string(b), UpdatedAt: time.Now().UTC()}
	opts := options.Update().SetUpsert(true)
	if _, err := m.col.UpdateOne(ctx, bson.M{"key": content.Key}, bson.M{"$set": rec}, opts); err != nil {
		return fmt.Errorf("save content: %w", err)
	}
	return nil
}
