package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/kailas-cloud/docsum/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

const disconnectTimeout = 5 * time.Second

// Config holds MongoDB connection parameters.
type Config struct {
	URI      string
	Database string
	Username string
	Password string
}

// Store implements db.Store on a single MongoDB database.
// Each collection name maps to a MongoDB collection; the document id is its _id.
type Store struct {
	client   *mongo.Client
	database *mongo.Database
}

// NewStore connects to MongoDB. The connection is lazy: call WaitForReady to verify it.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("uri is required")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("database is required")
	}

	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.Username != "" && cfg.Password != "" {
		opts.SetAuth(options.Credential{
			Username: cfg.Username,
			Password: cfg.Password,
		})
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	return &Store{client: client, database: client.Database(cfg.Database)}, nil
}

// Ping checks connectivity against the primary.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	_ = s.client.Disconnect(ctx)
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.WaitForReady(ctx, s, timeout)
}

// List returns every document of a collection.
func (s *Store) List(ctx context.Context, collection string) ([]db.Record, error) {
	coll, err := s.collection(collection)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, &db.Error{Op: db.OpList, Err: err}
	}
	defer cursor.Close(ctx)

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, &db.Error{Op: db.OpList, Err: err}
	}

	records := make([]db.Record, 0, len(raw))
	for _, m := range raw {
		records = append(records, toRecord(m))
	}
	return records, nil
}

// Get returns one document by id.
func (s *Store) Get(ctx context.Context, collection, id string) (db.Record, error) {
	coll, err := s.collection(collection)
	if err != nil {
		return db.Record{}, err
	}

	var m bson.M
	if err := coll.FindOne(ctx, idFilter(id)).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return db.Record{}, db.ErrKeyNotFound
		}
		return db.Record{}, &db.Error{Op: db.OpGet, Err: err}
	}
	return toRecord(m), nil
}

// Merge sets the given fields on an existing document, leaving the rest intact.
func (s *Store) Merge(ctx context.Context, collection, id string, fields map[string]any) error {
	coll, err := s.collection(collection)
	if err != nil {
		return err
	}

	set := bson.M{}
	for k, v := range fields {
		if k == "_id" {
			continue
		}
		set[k] = v
	}
	if len(set) == 0 {
		return nil
	}

	res, err := coll.UpdateOne(ctx, idFilter(id), bson.M{"$set": set})
	if err != nil {
		return &db.Error{Op: db.OpMerge, Err: err}
	}
	if res.MatchedCount == 0 {
		return db.ErrKeyNotFound
	}
	return nil
}

func (s *Store) collection(name string) (*mongo.Collection, error) {
	if name == "" {
		return nil, db.ErrInvalidCollection
	}
	return s.database.Collection(name), nil
}

// idFilter matches either a string _id or, when id is a valid hex ObjectID, the ObjectID form.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{oid, id}}}
	}
	return bson.M{"_id": id}
}

func toRecord(m bson.M) db.Record {
	id := idString(m["_id"])
	fields := make(map[string]any, len(m))
	for k, v := range m {
		if k == "_id" {
			continue
		}
		fields[k] = normalize(v)
	}
	return db.Record{ID: id, Fields: fields}
}
