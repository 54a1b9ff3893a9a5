package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/nbportfolio/site/internal/projects"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const projectSequence = "projects"

// MongoProjectRepo keeps one document per project with an integer "id"
// allocated from the counters collection.
type MongoProjectRepo struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewMongoProjectRepo(ctx context.Context, col, counters *mongo.Collection) *MongoProjectRepo {
	// ensure an index on "id" for fast lookups (id is expected unique)
	idxModel := mongo.IndexModel{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)}
	_, _ = col.Indexes().CreateOne(ctx, idxModel)
	return &MongoProjectRepo{col: col, counters: counters}
}

func (m *MongoProjectRepo) nextID(ctx context.Context) (int64, error) {
	var out struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := m.counters.FindOneAndUpdate(ctx, bson.M{"_id": projectSequence}, bson.M{"$inc": bson.M{"seq": int64(1)}}, opts).Decode(&out)
	if err != nil {
		return 0, fmt.Errorf("allocate project id: %w", err)
	}
	return out.Seq, nil
}

// ListProjects returns projects id-descending.
func (m *MongoProjectRepo) ListProjects(ctx context.Context) ([]projects.Project, error) {
	cur, err := m.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "id", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer cur.Close(ctx)
	out := []projects.Project{}
	for cur.Next(ctx) {
		var p projects.Project
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		if p.Gallery == nil {
			p.Gallery = []string{}
		}
		out = append(out, p)
	}
	return out, cur.Err()
}

func (m *MongoProjectRepo) GetProject(ctx context.Context, id int64) (projects.Project, error) {
	var p projects.Project
	err := m.col.FindOne(ctx, bson.M{"id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return projects.Project{}, ErrNotFound
		}
		return projects.Project{}, err
	}
	if p.Gallery == nil {
		p.Gallery = []string{}
	}
	return p, nil
}

func (m *MongoProjectRepo) InsertProject(ctx context.Context, p projects.Project) (projects.Project, error) {
	id, err := m.nextID(ctx)
	if err != nil {
		return projects.Project{}, err
	}
	p.ID = id
	if p.Gallery == nil {
		p.Gallery = []string{}
	}
	if _, err := m.col.InsertOne(ctx, p); err != nil {
		return projects.Project{}, fmt.Errorf("insert project: %w", err)
	}
	return p, nil
}

func (m *MongoProjectRepo) UpdateProject(ctx context.Context, p projects.Project) (projects.Project, error) {
	if p.Gallery == nil {
		p.Gallery = []string{}
	}
	set := bson.M{
		"title":             p.Title,
		"category":          p.Category,
		"description":       p.Description,
		"plain_description": p.PlainDescription,
		"image":             p.Image,
		"gallery":           p.Gallery,
		"video":             p.Video,
	}
	res, err := m.col.UpdateOne(ctx, bson.M{"id": p.ID}, bson.M{"$set": set})
	if err != nil {
		return projects.Project{}, fmt.Errorf("update project: %w", err)
	}
	if res.MatchedCount == 0 {
		return projects.Project{}, ErrNotFound
	}
	return p, nil
}

func (m *MongoProjectRepo) DeleteProject(ctx context.Context, id int64) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
