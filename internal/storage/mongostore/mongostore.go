// Package mongostore persists tasks in a MongoDB collection.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tasklist/internal/service"
	"tasklist/internal/storage"
)

// Collection is the collection tasks are stored in.
const Collection = "tasks"

type document struct {
	ID        primitive.ObjectID `bson:"_id"`
	Text      string             `bson:"text"`
	Completed bool               `bson:"completed"`
}

func (d document) task() service.Task {
	return service.Task{ID: d.ID.Hex(), Text: d.Text, Completed: d.Completed}
}

// Store is a MongoDB-backed storage.Store.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Open connects to uri and uses the tasks collection of database.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	if uri == "" {
		return nil, fmt.Errorf("empty mongo uri")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &Store{client: client, coll: client.Database(database).Collection(Collection)}, nil
}

func (s *Store) Create(ctx context.Context, text string) (service.Task, error) {
	doc := document{ID: primitive.NewObjectID(), Text: text}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return service.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return doc.task(), nil
}

// List returns tasks ordered by _id, which follows insertion time.
func (s *Store) List(ctx context.Context) ([]service.Task, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	tasks := make([]service.Task, 0, len(docs))
	for _, d := range docs {
		tasks = append(tasks, d.task())
	}
	return tasks, nil
}

func (s *Store) Update(ctx context.Context, id string, upd service.TaskUpdate) (service.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return service.Task{}, storage.ErrNotFound
	}
	filter := bson.D{{Key: "_id", Value: oid}}

	var doc document
	set := setFields(upd)
	if len(set) == 0 {
		err = s.coll.FindOne(ctx, filter).Decode(&doc)
	} else {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		err = s.coll.FindOneAndUpdate(ctx, filter, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return service.Task{}, storage.ErrNotFound
	}
	if err != nil {
		return service.Task{}, fmt.Errorf("update task: %w", err)
	}
	return doc.task(), nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return storage.ErrNotFound
	}
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

// setFields returns the $set document for the fields upd carries.
func setFields(upd service.TaskUpdate) bson.D {
	var set bson.D
	if upd.Text != nil {
		set = append(set, bson.E{Key: "text", Value: *upd.Text})
	}
	if upd.Completed != nil {
		set = append(set, bson.E{Key: "completed", Value: *upd.Completed})
	}
	return set
}

var _ storage.Store = (*Store)(nil)
