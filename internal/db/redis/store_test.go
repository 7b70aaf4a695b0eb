package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/docsum/internal/db"
)

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	err := s.Ping(context.Background())
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpPing {
		t.Fatalf("expected *db.Error with op PING, got %v", err)
	}
}

func TestNewStore_NoAddrs(t *testing.T) {
	if _, err := NewStore(Config{}); err == nil {
		t.Fatal("expected error without addrs")
	}
}

func TestNewStore_DefaultPrefix(t *testing.T) {
	s := newStore(nil, "")
	if s.prefix != DefaultKeyPrefix {
		t.Errorf("prefix = %q, want %q", s.prefix, DefaultKeyPrefix)
	}
	if got, err := s.docKey("notes", "doc-1"); err != nil || got != "docsum:notes:doc-1" {
		t.Errorf("docKey = %q, %v", got, err)
	}
}

func TestDocKey_RejectsSeparator(t *testing.T) {
	s := newStore(nil, "")
	for _, col := range []string{"", "notes:archive"} {
		if _, err := s.docKey(col, "a"); !errors.Is(err, db.ErrInvalidCollection) {
			t.Errorf("collection %q: expected ErrInvalidCollection, got %v", col, err)
		}
	}
	// ids may contain the separator: the collection is unambiguous
	if got, err := s.docKey("notes", "2024:01"); err != nil || got != "docsum:notes:2024:01" {
		t.Errorf("docKey = %q, %v", got, err)
	}
}

// --- documents.go tests ---

func TestGet_Found(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("JSON.GET", "docsum:notes:doc-1", "$")).
		Return(mock.Result(mock.RedisString(`[{"title":"hello","views":3,"tags":["a"]}]`)))

	s := NewStoreForTest(c)
	rec, err := s.Get(context.Background(), "notes", "doc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID != "doc-1" {
		t.Errorf("ID = %q", rec.ID)
	}
	if rec.Fields["title"] != "hello" {
		t.Errorf("title = %v", rec.Fields["title"])
	}
	if rec.Fields["views"] != int64(3) {
		t.Errorf("views = %v", rec.Fields["views"])
	}
}

func TestGet_KeepsNumberPrecision(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("JSON.GET", "docsum:orders:o-1", "$")).
		Return(mock.Result(mock.RedisString(
			`[{"order_id":9007199254740993,"price":12.5,"lines":[{"sku":9007199254740995}]}]`,
		)))

	s := NewStoreForTest(c)
	rec, err := s.Get(context.Background(), "orders", "o-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Fields["order_id"] != int64(9007199254740993) {
		t.Errorf("order_id = %v (%T)", rec.Fields["order_id"], rec.Fields["order_id"])
	}
	if rec.Fields["price"] != 12.5 {
		t.Errorf("price = %v", rec.Fields["price"])
	}
	lines, ok := rec.Fields["lines"].([]any)
	if !ok || lines[0].(map[string]any)["sku"] != int64(9007199254740995) {
		t.Errorf("nested sku lost precision: %v", rec.Fields["lines"])
	}
}

func TestGet_InvalidCollection(t *testing.T) {
	s := NewStoreForTest(nil)
	if _, err := s.Get(context.Background(), "notes:archive", "x"); !errors.Is(err, db.ErrInvalidCollection) {
		t.Errorf("expected ErrInvalidCollection, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "JSON.GET"
		})).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	_, err := s.Get(context.Background(), "notes", "missing")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestGet_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "JSON.GET"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	_, err := s.Get(context.Background(), "notes", "doc-1")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, db.ErrKeyNotFound) {
		t.Error("backend failure must not look like not-found")
	}
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpJSONGet {
		t.Errorf("expected *db.Error with op JSON.GET, got %v", err)
	}
}

func TestList_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "SCAN" && cmd[3] == "docsum:notes:*"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(0),
			mock.RedisArray(
				mock.RedisString("docsum:notes:a"),
				mock.RedisString("docsum:notes:gone"),
				mock.RedisString("docsum:notes:b"),
			),
		)))
	c.EXPECT().
		DoMulti(gomock.Any(),
			mock.Match("JSON.GET", "docsum:notes:a", "$"),
			mock.Match("JSON.GET", "docsum:notes:gone", "$"),
			mock.Match("JSON.GET", "docsum:notes:b", "$"),
		).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisString(`[{"title":"first"}]`)),
			mock.Result(mock.RedisNil()),
			mock.Result(mock.RedisString(`[{"title":"second"}]`)),
		})

	s := NewStoreForTest(c)
	recs, err := s.List(context.Background(), "notes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].ID != "a" || recs[1].ID != "b" {
		t.Errorf("unexpected ids: %q, %q", recs[0].ID, recs[1].ID)
	}
	if recs[1].Fields["title"] != "second" {
		t.Errorf("title = %v", recs[1].Fields["title"])
	}
}

func TestList_DeduplicatesScanPages(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		c.EXPECT().
			Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
				return cmd[0] == "SCAN" && cmd[1] == "0"
			})).
			Return(mock.Result(mock.RedisArray(
				mock.RedisString("17"),
				mock.RedisArray(mock.RedisString("docsum:notes:a")),
			))),
		c.EXPECT().
			Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
				return cmd[0] == "SCAN" && cmd[1] == "17"
			})).
			Return(mock.Result(mock.RedisArray(
				mock.RedisString("0"),
				mock.RedisArray(mock.RedisString("docsum:notes:a"), mock.RedisString("docsum:notes:b")),
			))),
	)
	c.EXPECT().
		DoMulti(gomock.Any(),
			mock.Match("JSON.GET", "docsum:notes:a", "$"),
			mock.Match("JSON.GET", "docsum:notes:b", "$"),
		).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisString(`[{"title":"first"}]`)),
			mock.Result(mock.RedisString(`[{"title":"second"}]`)),
		})

	s := NewStoreForTest(c)
	recs, err := s.List(context.Background(), "notes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 || recs[0].ID != "a" || recs[1].ID != "b" {
		t.Fatalf("expected ids a,b once each, got %+v", recs)
	}
}

func TestList_RejectsNestedCollection(t *testing.T) {
	s := NewStoreForTest(nil)
	if _, err := s.List(context.Background(), "notes:archive"); !errors.Is(err, db.ErrInvalidCollection) {
		t.Errorf("expected ErrInvalidCollection, got %v", err)
	}
}

func TestList_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "SCAN"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0), mock.RedisArray())))

	s := NewStoreForTest(c)
	recs, err := s.List(context.Background(), "empty")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected no records, got %d", len(recs))
	}
}

func TestList_EscapesGlob(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var pattern string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			if cmd[0] != "SCAN" {
				return false
			}
			pattern = cmd[3]
			return true
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0), mock.RedisArray())))

	s := NewStoreForTest(c)
	if _, err := s.List(context.Background(), "a*b?"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pattern != `docsum:a\*b\?:*` {
		t.Errorf("pattern = %q", pattern)
	}
}

func TestList_ScanError(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "SCAN"
		})).
		Return(mock.ErrorResult(errors.New("LOADING")))

	s := NewStoreForTest(c)
	if _, err := s.List(context.Background(), "notes"); err == nil {
		t.Fatal("expected error")
	}
}

func TestMerge_WritesOnlyGivenFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		c.EXPECT().
			Do(gomock.Any(), mock.Match("EXISTS", "docsum:notes:doc-1")).
			Return(mock.Result(mock.RedisInt64(1))),
		c.EXPECT().
			DoMulti(gomock.Any(),
				mock.Match("JSON.SET", "docsum:notes:doc-1", `$["body_summary"]`, `"<b> & more"`),
				mock.Match("JSON.SET", "docsum:notes:doc-1", `$["title_summary"]`, `"s"`),
			).
			Return([]rueidis.RedisResult{
				mock.Result(mock.RedisString("OK")),
				mock.Result(mock.RedisString("OK")),
			}),
	)

	s := NewStoreForTest(c)
	err := s.Merge(context.Background(), "notes", "doc-1", map[string]any{
		"title_summary": "s",
		"body_summary":  "<b> & more",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMerge_NeverRewritesUntouchedFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var commands [][]string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			commands = append(commands, cmd)
			return cmd[0] == "EXISTS"
		})).
		Return(mock.Result(mock.RedisInt64(1)))
	c.EXPECT().
		DoMulti(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			commands = append(commands, cmd)
			return cmd[0] == "JSON.SET"
		})).
		Return([]rueidis.RedisResult{mock.Result(mock.RedisString("OK"))})

	s := NewStoreForTest(c)
	if err := s.Merge(context.Background(), "orders", "o-1", map[string]any{"title_summary": "s"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, cmd := range commands {
		if cmd[0] == "JSON.SET" && cmd[2] == "$" {
			t.Errorf("document root must not be rewritten: %v", cmd)
		}
		if cmd[0] == "JSON.GET" {
			t.Errorf("merge must not read the document back: %v", cmd)
		}
	}
}

func TestMerge_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("EXISTS", "docsum:notes:missing")).
		Return(mock.Result(mock.RedisInt64(0)))

	s := NewStoreForTest(c)
	err := s.Merge(context.Background(), "notes", "missing", map[string]any{"x_summary": "s"})
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestMerge_ExistsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("EXISTS", "docsum:notes:doc-1")).
		Return(mock.ErrorResult(errors.New("LOADING")))

	s := NewStoreForTest(c)
	err := s.Merge(context.Background(), "notes", "doc-1", map[string]any{"a": "b"})
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpExists {
		t.Errorf("expected *db.Error with op EXISTS, got %v", err)
	}
}

func TestMerge_SetError(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("EXISTS", "docsum:notes:doc-1")).
		Return(mock.Result(mock.RedisInt64(1)))
	c.EXPECT().
		DoMulti(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "JSON.SET"
		})).
		Return([]rueidis.RedisResult{mock.ErrorResult(errors.New("OOM"))})

	s := NewStoreForTest(c)
	err := s.Merge(context.Background(), "notes", "doc-1", map[string]any{"a": "b"})
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpJSONSet {
		t.Errorf("expected *db.Error with op JSON.SET, got %v", err)
	}
}

func TestFieldPath(t *testing.T) {
	tests := map[string]string{
		"title_summary": `$["title_summary"]`,
		`say "hi"`:      `$["say \"hi\""]`,
		"a.b":           `$["a.b"]`,
	}
	for name, want := range tests {
		got, err := fieldPath(name)
		if err != nil {
			t.Fatalf("fieldPath(%q): %v", name, err)
		}
		if got != want {
			t.Errorf("fieldPath(%q) = %s, want %s", name, got, want)
		}
	}
}

// --- json.go tests ---

func TestDecodeRoot(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
		wantLen int
	}{
		{"object", `[{"a":1,"b":"x"}]`, nil, 2},
		{"empty array", `[]`, db.ErrKeyNotFound, 0},
		{"empty string", ``, db.ErrKeyNotFound, 0},
		{"null root", `[null]`, nil, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := decodeRoot(tc.raw)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tc.wantLen {
				t.Errorf("len = %d, want %d", len(got), tc.wantLen)
			}
		})
	}
}

func TestDecodeRoot_Malformed(t *testing.T) {
	if _, err := decodeRoot(`{not json`); err == nil {
		t.Fatal("expected decode error")
	}
}
