package firestore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/kailas-cloud/docsum/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds Firestore connection parameters.
type Config struct {
	ProjectID string
	// CredentialsFile is a service-account JSON key. Empty means application default credentials.
	CredentialsFile string
	// DatabaseID selects a named database; empty means "(default)".
	DatabaseID string
}

// Store implements db.Store on Cloud Firestore. Collections map 1:1 to
// top-level Firestore collections.
type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore client.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("project_id is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	var (
		client *firestore.Client
		err    error
	)
	if cfg.DatabaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, cfg.ProjectID, cfg.DatabaseID, opts...)
	} else {
		client, err = firestore.NewClient(ctx, cfg.ProjectID, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return &Store{client: client}, nil
}

// Ping lists at most one collection to verify credentials and connectivity.
func (s *Store) Ping(ctx context.Context) error {
	it := s.client.Collections(ctx)
	if _, err := it.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close releases the client.
func (s *Store) Close() {
	_ = s.client.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.WaitForReady(ctx, s, timeout)
}

// List returns every document of a collection.
func (s *Store) List(ctx context.Context, collection string) ([]db.Record, error) {
	ref := s.client.Collection(collection)
	if ref == nil {
		return nil, db.ErrInvalidCollection
	}

	snaps, err := ref.Documents(ctx).GetAll()
	if err != nil {
		return nil, &db.Error{Op: db.OpList, Err: err}
	}

	records := make([]db.Record, 0, len(snaps))
	for _, snap := range snaps {
		records = append(records, toRecord(snap.Ref.ID, snap.Data()))
	}
	return records, nil
}

// Get returns one document.
func (s *Store) Get(ctx context.Context, collection, id string) (db.Record, error) {
	ref, err := s.doc(collection, id)
	if err != nil {
		return db.Record{}, err
	}

	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return db.Record{}, db.ErrKeyNotFound
		}
		return db.Record{}, &db.Error{Op: db.OpGet, Err: err}
	}
	return toRecord(snap.Ref.ID, snap.Data()), nil
}

// Merge updates only the given top-level fields. Update fails with NotFound
// on a missing document, unlike Set with MergeAll.
func (s *Store) Merge(ctx context.Context, collection, id string, fields map[string]any) error {
	ref, err := s.doc(collection, id)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}

	if _, err := ref.Update(ctx, updates(fields)); err != nil {
		if status.Code(err) == codes.NotFound {
			return db.ErrKeyNotFound
		}
		return &db.Error{Op: db.OpMerge, Err: err}
	}
	return nil
}

func (s *Store) doc(collection, id string) (*firestore.DocumentRef, error) {
	ref := s.client.Collection(collection)
	if ref == nil {
		return nil, db.ErrInvalidCollection
	}
	doc := ref.Doc(id)
	if doc == nil {
		return nil, db.ErrInvalidCollection
	}
	return doc, nil
}

// updates builds one Update per field. FieldPath keeps names containing
// dots or other special characters literal.
func updates(fields map[string]any) []firestore.Update {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]firestore.Update, 0, len(keys))
	for _, k := range keys {
		out = append(out, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: fields[k]})
	}
	return out
}

func toRecord(id string, data map[string]any) db.Record {
	fields := make(map[string]any, len(data))
	for k, v := range data {
		fields[k] = normalize(v)
	}
	return db.Record{ID: id, Fields: fields}
}
