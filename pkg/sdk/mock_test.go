package docsum

import (
	"context"
	"time"

	"github.com/kailas-cloud/docsum/internal/db"
	dombatch "github.com/kailas-cloud/docsum/internal/domain/batch"
	domdoc "github.com/kailas-cloud/docsum/internal/domain/document"
	documentuc "github.com/kailas-cloud/docsum/internal/usecase/document"
	healthuc "github.com/kailas-cloud/docsum/internal/usecase/health"
)

// --- documentUseCase mock ---

type mockDocumentUC struct {
	listFn   func(ctx context.Context, col string) []domdoc.Document
	lookupFn func(ctx context.Context, col, id string) documentuc.Lookup
}

func (m *mockDocumentUC) ListDocuments(ctx context.Context, col string) []domdoc.Document {
	return m.listFn(ctx, col)
}

func (m *mockDocumentUC) LookupDocument(ctx context.Context, col, id string) documentuc.Lookup {
	return m.lookupFn(ctx, col, id)
}

// --- batchUseCase mock ---

type mockBatchUC struct {
	summarizeFn  func(ctx context.Context, col, id string, fields []string) (map[string]string, error)
	collectionFn func(ctx context.Context, col string) []dombatch.Result
}

func (m *mockBatchUC) SummarizeDocument(
	ctx context.Context, col, id string, fields []string,
) (map[string]string, error) {
	return m.summarizeFn(ctx, col, id, fields)
}

func (m *mockBatchUC) SummarizeCollection(ctx context.Context, col string) []dombatch.Result {
	return m.collectionFn(ctx, col)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// --- Completer mock ---

type mockCompleter struct {
	fn func(ctx context.Context, req CompletionRequest) (CompletionResult, error)
}

func (m *mockCompleter) Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error) {
	return m.fn(ctx, req)
}

type checkingCompleter struct {
	mockCompleter
	healthErr error
}

func (c *checkingCompleter) HealthCheck(context.Context) error { return c.healthErr }

// --- db.Store fake ---

// fakeStore keeps documents in memory: collection -> id -> fields.
type fakeStore struct {
	docs    map[string]map[string]map[string]any
	pingErr error
	closed  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: map[string]map[string]map[string]any{}}
}

func (s *fakeStore) put(col, id string, fields map[string]any) {
	if s.docs[col] == nil {
		s.docs[col] = map[string]map[string]any{}
	}
	s.docs[col][id] = fields
}

func (s *fakeStore) Ping(context.Context) error { return s.pingErr }
func (s *fakeStore) Close()                     { s.closed = true }

func (s *fakeStore) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.WaitForReady(ctx, s, timeout)
}

func (s *fakeStore) List(_ context.Context, col string) ([]db.Record, error) {
	out := make([]db.Record, 0, len(s.docs[col]))
	for id, f := range s.docs[col] {
		out = append(out, db.Record{ID: id, Fields: f})
	}
	return out, nil
}

func (s *fakeStore) Get(_ context.Context, col, id string) (db.Record, error) {
	f, ok := s.docs[col][id]
	if !ok {
		return db.Record{}, db.ErrKeyNotFound
	}
	return db.Record{ID: id, Fields: f}, nil
}

func (s *fakeStore) Merge(_ context.Context, col, id string, fields map[string]any) error {
	f, ok := s.docs[col][id]
	if !ok {
		return db.ErrKeyNotFound
	}
	for k, v := range fields {
		f[k] = v
	}
	return nil
}
