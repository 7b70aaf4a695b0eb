package document

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/docsum/internal/domain"
	domdoc "github.com/kailas-cloud/docsum/internal/domain/document"
	"github.com/kailas-cloud/docsum/internal/metrics"
)

// --- Mocks ---

type mockDocRepo struct {
	listDocs []domdoc.Document
	listErr  error
	getDoc   domdoc.Document
	getErr   error
	mergeErr error

	mergedCollection string
	mergedID         string
	mergedFields     map[string]any
}

func (m *mockDocRepo) List(_ context.Context, _ string) ([]domdoc.Document, error) {
	return m.listDocs, m.listErr
}

func (m *mockDocRepo) Get(_ context.Context, _, _ string) (domdoc.Document, error) {
	return m.getDoc, m.getErr
}

func (m *mockDocRepo) Merge(_ context.Context, collection, id string, fields map[string]any) error {
	m.mergedCollection, m.mergedID, m.mergedFields = collection, id, fields
	return m.mergeErr
}

func testDoc(id string, fields map[string]any) domdoc.Document {
	return domdoc.Reconstruct(id, fields)
}

// --- ListDocuments ---

func TestListDocuments_Success(t *testing.T) {
	repo := &mockDocRepo{listDocs: []domdoc.Document{
		testDoc("a", map[string]any{"title": "x"}),
		testDoc("b", nil),
	}}
	svc := New(repo)

	docs := svc.ListDocuments(context.Background(), "notes")
	if len(docs) != 2 {
		t.Fatalf("expected 2 docs, got %d", len(docs))
	}
	if docs[0].ID() != "a" || docs[1].ID() != "b" {
		t.Errorf("unexpected ids: %s, %s", docs[0].ID(), docs[1].ID())
	}
}

func TestListDocuments_FailureIsEmpty(t *testing.T) {
	before := testutil.ToFloat64(metrics.StoreOperationsTotal.WithLabelValues(metrics.OpList, metrics.StatusError))

	svc := New(&mockDocRepo{listErr: errors.New("unavailable")})
	docs := svc.ListDocuments(context.Background(), "notes")
	if docs == nil || len(docs) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", docs)
	}

	after := testutil.ToFloat64(metrics.StoreOperationsTotal.WithLabelValues(metrics.OpList, metrics.StatusError))
	if after-before != 1 {
		t.Errorf("expected list error counter to grow by 1, got %f", after-before)
	}
}

func TestListDocuments_NilIsEmpty(t *testing.T) {
	svc := New(&mockDocRepo{})
	if docs := svc.ListDocuments(context.Background(), "empty"); docs == nil {
		t.Fatal("expected non-nil slice")
	}
}

// --- LookupDocument / GetDocument ---

func TestLookupDocument(t *testing.T) {
	found := testDoc("doc-1", map[string]any{"body": "text"})

	tests := []struct {
		name   string
		repo   *mockDocRepo
		want   LookupStatus
		hasErr bool
	}{
		{"found", &mockDocRepo{getDoc: found}, LookupFound, false},
		{"not found", &mockDocRepo{getErr: fmt.Errorf("get: %w", domain.ErrDocumentNotFound)}, LookupNotFound, true},
		{"failure", &mockDocRepo{getErr: errors.New("permission denied")}, LookupFailed, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := New(tc.repo).LookupDocument(context.Background(), "notes", "doc-1")
			if res.Status != tc.want {
				t.Errorf("status = %s, want %s", res.Status, tc.want)
			}
			if (res.Err != nil) != tc.hasErr {
				t.Errorf("err = %v, hasErr = %v", res.Err, tc.hasErr)
			}
		})
	}
}

func TestGetDocument_Found(t *testing.T) {
	svc := New(&mockDocRepo{getDoc: testDoc("doc-1", map[string]any{"body": "text"})})

	doc, ok := svc.GetDocument(context.Background(), "notes", "doc-1")
	if !ok {
		t.Fatal("expected document")
	}
	if v, _ := doc.StringField("body"); v != "text" {
		t.Errorf("body = %q", v)
	}
}

func TestGetDocument_AbsentForNotFoundAndFailure(t *testing.T) {
	for _, err := range []error{domain.ErrDocumentNotFound, errors.New("boom")} {
		svc := New(&mockDocRepo{getErr: err})
		if _, ok := svc.GetDocument(context.Background(), "notes", "x"); ok {
			t.Errorf("expected absent for %v", err)
		}
	}
}

func TestLookupStatus_String(t *testing.T) {
	if LookupFound.String() != "found" || LookupNotFound.String() != "not_found" || LookupFailed.String() != "failed" {
		t.Error("unexpected status strings")
	}
}

// --- UpdateDocument ---

func TestUpdateDocument_Success(t *testing.T) {
	repo := &mockDocRepo{}
	svc := New(repo)

	ok := svc.UpdateDocument(context.Background(), "notes", "doc-1", map[string]any{"body_summary": "s"})
	if !ok {
		t.Fatal("expected success")
	}
	if repo.mergedCollection != "notes" || repo.mergedID != "doc-1" {
		t.Errorf("merged into %s/%s", repo.mergedCollection, repo.mergedID)
	}
	if repo.mergedFields["body_summary"] != "s" {
		t.Errorf("fields = %v", repo.mergedFields)
	}
}

func TestUpdateDocument_FailureIsFalse(t *testing.T) {
	for _, err := range []error{domain.ErrDocumentNotFound, errors.New("deadline exceeded")} {
		svc := New(&mockDocRepo{mergeErr: err})
		if svc.UpdateDocument(context.Background(), "notes", "doc-1", map[string]any{"a": "b"}) {
			t.Errorf("expected false for %v", err)
		}
	}
}
