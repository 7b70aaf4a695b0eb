package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/docsum/internal/db"
)

// keySep separates key prefix, collection and id.
const keySep = ":"

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// List returns every document of a collection: SCAN for keys, then a single
// pipelined round-trip of JSON.GET.
func (s *Store) List(ctx context.Context, collection string) ([]db.Record, error) {
	prefix, err := s.collectionPrefix(collection)
	if err != nil {
		return nil, err
	}
	keys, err := s.scan(ctx, globEscaper.Replace(prefix)+"*")
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	cmds := make([]rueidis.Completed, len(keys))
	for i, key := range keys {
		cmds[i] = s.jsonGetCmd(key)
	}

	results := s.client.DoMulti(ctx, cmds...)
	records := make([]db.Record, 0, len(keys))
	for i, res := range results {
		raw, err := res.ToString()
		if err != nil {
			if rueidis.IsRedisNil(err) {
				continue // deleted between SCAN and JSON.GET
			}
			return nil, &db.Error{Op: db.OpJSONGet, Err: fmt.Errorf("key %s: %w", keys[i], err)}
		}
		fields, err := decodeRoot(raw)
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				continue
			}
			return nil, fmt.Errorf("key %s: %w", keys[i], err)
		}
		records = append(records, db.Record{
			ID:     strings.TrimPrefix(keys[i], prefix),
			Fields: fields,
		})
	}
	return records, nil
}

// Get returns one document.
func (s *Store) Get(ctx context.Context, collection, id string) (db.Record, error) {
	key, err := s.docKey(collection, id)
	if err != nil {
		return db.Record{}, err
	}
	fields, err := s.jsonGetRoot(ctx, key)
	if err != nil {
		return db.Record{}, err
	}
	return db.Record{ID: id, Fields: fields}, nil
}

// Merge writes each field at its own path, so fields it does not name are
// never decoded or rewritten. Returns db.ErrKeyNotFound for a missing document.
func (s *Store) Merge(ctx context.Context, collection, id string, fields map[string]any) error {
	key, err := s.docKey(collection, id)
	if err != nil {
		return err
	}

	exists, err := s.exists(ctx, key)
	if err != nil {
		return err
	}
	if !exists {
		return db.ErrKeyNotFound
	}
	if len(fields) == 0 {
		return nil
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	cmds := make([]rueidis.Completed, len(names))
	for i, name := range names {
		data, err := marshalJSON(fields[name])
		if err != nil {
			return fmt.Errorf("marshal field %s: %w", name, err)
		}
		path, err := fieldPath(name)
		if err != nil {
			return fmt.Errorf("field path %s: %w", name, err)
		}
		cmds[i] = s.jsonSetCmd(key, path, data)
	}

	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpJSONSet, Err: fmt.Errorf("field %s: %w", names[i], err)}
		}
	}
	return nil
}

// collectionPrefix rejects names containing the key separator: "notes:archive"
// would otherwise be listed as part of "notes".
func (s *Store) collectionPrefix(collection string) (string, error) {
	if collection == "" || strings.Contains(collection, keySep) {
		return "", fmt.Errorf("collection %q: %w", collection, db.ErrInvalidCollection)
	}
	return s.prefix + collection + keySep, nil
}

func (s *Store) docKey(collection, id string) (string, error) {
	prefix, err := s.collectionPrefix(collection)
	if err != nil {
		return "", err
	}
	return prefix + id, nil
}
