// Package mongo reads notes from a MongoDB collection.
//
// Each note is one document carrying its group:
//
//	{"id": "a1", "groupId": "work", "title": "...", "content": "...", "updatedAt": ISODate(...)}
//
// Groups are the distinct groupId values of the collection.
package mongo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Errze/note-bad-ideas/pkg/errors"
	"github.com/Errze/note-bad-ideas/pkg/graph"
	"github.com/Errze/note-bad-ideas/pkg/source"
)

const connectTimeout = 10 * time.Second

// Config selects the collection to read.
type Config struct {
	URI        string `validate:"required,uri"`
	Database   string `validate:"required"`
	Collection string `validate:"required"`
}

type noteDoc struct {
	ID        string    `bson:"id" validate:"required,max=256"`
	GroupID   string    `bson:"groupId"`
	Title     string    `bson:"title" validate:"max=1024"`
	Content   string    `bson:"content"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// Source is a source.Source backed by MongoDB.
type Source struct {
	client   *mongo.Client
	coll     *mongo.Collection
	validate *validator.Validate
	owned    bool
}

// Open connects to the server and verifies it with a ping.
func Open(ctx context.Context, cfg Config) (*Source, error) {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "mongo source")
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeSource, err, "ping mongo")
	}
	s := New(client.Database(cfg.Database).Collection(cfg.Collection))
	s.client = client
	s.owned = true
	return s, nil
}

// New wraps an existing collection. Close does not disconnect its client.
func New(coll *mongo.Collection) *Source {
	return &Source{coll: coll, validate: validator.New()}
}

// Groups returns the distinct group IDs, sorted.
func (s *Source) Groups(ctx context.Context) ([]source.Group, error) {
	values, err := s.coll.Distinct(ctx, "groupId", bson.D{})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "list groups")
	}
	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	groups := make([]source.Group, len(ids))
	for i, id := range ids {
		groups[i] = source.Group{ID: id}
	}
	return groups, nil
}

// Documents returns the group's notes, most recently updated first. A group
// without any note does not exist.
func (s *Source) Documents(ctx context.Context, group string) (*source.Result, error) {
	if err := errors.ValidateGroupID(group); err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.D{{Key: "groupId", Value: group}}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "find notes of %s", group)
	}
	defer cur.Close(ctx)

	res := &source.Result{Group: group, Documents: []graph.Document{}}
	seen := 0
	for cur.Next(ctx) {
		seen++
		var n noteDoc
		if err := cur.Decode(&n); err != nil {
			res.Skipped++
			continue
		}
		if err := s.validate.Struct(n); err != nil {
			res.Skipped++
			continue
		}
		res.Documents = append(res.Documents, graph.Document{ID: n.ID, Title: n.Title, Content: n.Content})
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "read notes of %s", group)
	}
	if seen == 0 {
		return nil, errors.Wrap(errors.ErrCodeGroupNotFound, source.ErrGroupNotFound, "group %q", group)
	}
	return res, nil
}

// Close disconnects the client when Open created it.
func (s *Source) Close() error {
	if !s.owned {
		return nil
	}
	if err := s.client.Disconnect(context.Background()); err != nil {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	return nil
}

var _ source.Source = (*Source)(nil)
