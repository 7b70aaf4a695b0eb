package redis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/docsum/internal/db"
)

func (s *Store) jsonSetCmd(key, path string, data []byte) rueidis.Completed {
	return s.b().Arbitrary("JSON.SET").Keys(key).Args(path, string(data)).Build()
}

// jsonGetRoot retrieves the root object of a JSON document.
func (s *Store) jsonGetRoot(ctx context.Context, key string) (map[string]any, error) {
	raw, err := s.do(ctx, s.jsonGetCmd(key)).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpJSONGet, Err: err}
	}
	return decodeRoot(raw)
}

func (s *Store) jsonGetCmd(key string) rueidis.Completed {
	return s.b().Arbitrary("JSON.GET").Keys(key).Args("$").Build()
}

// exists checks if a key exists.
func (s *Store) exists(ctx context.Context, key string) (bool, error) {
	cmd := s.b().Exists().Key(key).Build()
	count, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpExists, Err: err}
	}
	return count > 0, nil
}

// decodeRoot unwraps the JSONPath "$" reply, which is always a one-element array.
// Numbers keep full precision: integers become int64, everything else float64.
func decodeRoot(raw string) (map[string]any, error) {
	if raw == "" {
		return nil, db.ErrKeyNotFound
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var docs []map[string]any
	if err := dec.Decode(&docs); err != nil {
		return nil, fmt.Errorf("decode json document: %w", err)
	}
	if len(docs) == 0 {
		return nil, db.ErrKeyNotFound
	}
	if docs[0] == nil {
		return map[string]any{}, nil
	}
	for k, v := range docs[0] {
		docs[0][k] = normalizeNumbers(v)
	}
	return docs[0], nil
}

func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeNumbers(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalizeNumbers(e)
		}
		return t
	default:
		return v
	}
}

// marshalJSON encodes v without HTML escaping, so stored text stays byte-for-byte readable.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// fieldPath addresses one top-level member in bracket notation: $["title_summary"].
func fieldPath(name string) (string, error) {
	quoted, err := marshalJSON(name)
	if err != nil {
		return "", err
	}
	return "$[" + string(quoted) + "]", nil
}

// scan iterates keys matching a pattern. SCAN may return a key more than once,
// so the result is deduplicated, keeping first-seen order.
func (s *Store) scan(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	seen := make(map[string]struct{})
	var cursor uint64

	for {
		cmd := s.b().Scan().Cursor(cursor).Match(pattern).Count(100).Build()
		res, err := s.do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, &db.Error{Op: db.OpScan, Err: err}
		}
		for _, k := range res.Elements {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
		cursor = res.Cursor
		if cursor == 0 {
			break
		}
	}

	return keys, nil
}
