package project

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	domainproject "github.com/portfolio/projects-api/internal/domain/project"
	portproject "github.com/portfolio/projects-api/internal/port/project"
)

// CollectionName is the collection existing portfolio data lives in.
const CollectionName = "projects"

var _ portproject.Repository = (*Repository)(nil)

// document is the persisted shape. The technology list is stored as techStack.
type document struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	TechStack   []string           `bson:"techStack"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d document) toDomain() domainproject.Project {
	techs := d.TechStack
	if techs == nil {
		techs = []string{}
	}
	return domainproject.Project{
		ID:           d.ID,
		Title:        d.Title,
		Description:  d.Description,
		Technologies: techs,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

var sortKeys = map[domainproject.SortField]string{
	domainproject.SortID:           "_id",
	domainproject.SortTitle:        "title",
	domainproject.SortDescription:  "description",
	domainproject.SortTechnologies: "techStack",
	domainproject.SortCreatedAt:    "createdAt",
	domainproject.SortUpdatedAt:    "updatedAt",
}

type Repository struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

func New(client *mongo.Client, database string) *Repository {
	return &Repository{
		client: client,
		coll:   client.Database(database).Collection(CollectionName),
		now:    time.Now,
	}
}

// EnsureIndexes creates the indexes backing the list sort orders.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("creating project indexes: %w", err)
	}
	return nil
}

func (r *Repository) List(ctx context.Context, q domainproject.ListQuery) ([]domainproject.Project, int64, error) {
	filter := listFilter(q)

	opts := options.Find().
		SetSkip(int64(q.Skip())).
		SetLimit(int64(q.Limit))
	if q.Sort != nil {
		opts.SetSort(sortDoc(*q.Sort))
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("finding projects: %w", err)
	}
	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decoding projects: %w", err)
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("counting projects: %w", err)
	}

	out := make([]domainproject.Project, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, total, nil
}

func (r *Repository) Create(ctx context.Context, in domainproject.Input) (domainproject.Project, error) {
	now := r.now().UTC().Truncate(time.Millisecond)
	doc := document{
		ID:          primitive.NewObjectID(),
		Title:       in.Title,
		Description: in.Description,
		TechStack:   in.Technologies,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return domainproject.Project{}, fmt.Errorf("inserting project: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *Repository) Update(ctx context.Context, id primitive.ObjectID, patch domainproject.Patch) (domainproject.Project, error) {
	set := bson.D{{Key: "updatedAt", Value: r.now().UTC().Truncate(time.Millisecond)}}
	if patch.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *patch.Title})
	}
	if patch.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *patch.Description})
	}
	if patch.Technologies != nil {
		set = append(set, bson.E{Key: "techStack", Value: *patch.Technologies})
	}

	var doc document
	err := r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domainproject.Project{}, domainproject.ErrNotFound
		}
		return domainproject.Project{}, fmt.Errorf("updating project: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	if res.DeletedCount == 0 {
		return domainproject.ErrNotFound
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

// listFilter matches title case-insensitively. The search text is quoted so
// it is always a literal substring, never a pattern.
func listFilter(q domainproject.ListQuery) bson.D {
	if q.Search == "" {
		return bson.D{}
	}
	return bson.D{{Key: "title", Value: primitive.Regex{
		Pattern: regexp.QuoteMeta(q.Search),
		Options: "i",
	}}}
}

func sortDoc(s domainproject.Sort) bson.D {
	dir := 1
	if s.Desc {
		dir = -1
	}
	return bson.D{{Key: sortKeys[s.Field], Value: dir}}
}
