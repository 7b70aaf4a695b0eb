package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	gochi "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docsum/internal/domain"
	domdoc "github.com/kailas-cloud/docsum/internal/domain/document"
	"github.com/kailas-cloud/docsum/internal/logger"
	"github.com/kailas-cloud/docsum/internal/metrics"
	batchuc "github.com/kailas-cloud/docsum/internal/usecase/batch"
	documentuc "github.com/kailas-cloud/docsum/internal/usecase/document"
	healthuc "github.com/kailas-cloud/docsum/internal/usecase/health"
)

// Messages shown to the user verbatim.
const (
	msgDocumentNotFound = "Document not found"
	msgInvalidBody      = "Invalid request body"
)

// Server serves the dashboard pages and the JSON summarization API.
type Server struct {
	documents *documentuc.Service
	batch     *batchuc.Service
	health    *healthuc.Service
	logger    *zap.Logger
}

// NewServer creates an HTTP server.
func NewServer(
	documents *documentuc.Service,
	batch *batchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		documents: documents,
		batch:     batch,
		health:    health,
		logger:    logger,
	}
}

// Register mounts all routes on r.
func (s *Server) Register(r gochi.Router) {
	r.Get("/", s.Index)
	r.Get("/collections", s.OpenCollection)
	r.Get("/collections/{name}", s.ViewCollection)
	r.Get("/document/{collection}/{id}", s.ViewDocument)
	r.Post("/summarize", s.Summarize)
	r.Get("/bulk-summarize/{collection}", s.BulkSummarize)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Index handles GET /: landing page, consuming any pending flash notice.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, pageIndex, indexPage{Flash: popFlash(w, r)})
}

// OpenCollection handles GET /collections?name=...: the landing page form target.
func (s *Server) OpenCollection(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	http.Redirect(w, r, collectionURL(name), http.StatusFound)
}

// ViewCollection handles GET /collections/{name}. An unreadable or empty
// collection renders as an empty list, never an error page.
func (s *Server) ViewCollection(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	docs := s.documents.ListDocuments(r.Context(), name)

	views := make([]documentView, len(docs))
	for i := range docs {
		views[i] = documentView{ID: docs[i].ID(), Fields: docs[i].Sorted()}
	}
	s.render(w, r, http.StatusOK, pageCollection, collectionPage{
		Collection: name,
		Documents:  views,
	})
}

// ViewDocument handles GET /document/{collection}/{id}.
func (s *Server) ViewDocument(w http.ResponseWriter, r *http.Request) {
	collection := pathParam(r, "collection")
	id := pathParam(r, "id")

	doc, ok := s.documents.GetDocument(r.Context(), collection, id)
	if !ok {
		setFlash(w, msgDocumentNotFound, flashError)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	s.render(w, r, http.StatusOK, pageDocument, documentPage{
		Collection:   collection,
		ID:           id,
		Fields:       doc.Sorted(),
		StringFields: doc.StringFieldNames(),
	})
}

// Summarize handles POST /summarize.
func (s *Server) Summarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	ctx := logger.With(r.Context(),
		zap.String("collection", req.CollectionName),
		zap.String("doc_id", req.DocID),
	)
	summaries, err := s.batch.SummarizeDocument(ctx, req.CollectionName, req.DocID, req.Fields)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newSummarizeResponse(summaries))
}

// BulkSummarize handles GET /bulk-summarize/{collection}.
func (s *Server) BulkSummarize(w http.ResponseWriter, r *http.Request) {
	collection := pathParam(r, "collection")
	ctx := logger.With(r.Context(), zap.String("collection", collection))
	results := s.batch.SummarizeCollection(ctx, collection)
	writeJSON(w, http.StatusOK, newBulkResponse(results))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics.Handler().ServeHTTP(w, r)
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound):
		writeError(w, http.StatusNotFound, msgDocumentNotFound)
	default:
		logger.FromContext(r.Context()).Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// pathParam returns a decoded route parameter. chi matches on RawPath when
// the request carries escaped characters, leaving params escaped.
func pathParam(r *http.Request, name string) string {
	v := gochi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v
	}
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

func collectionURL(name string) string {
	return "/collections/" + url.PathEscape(name)
}

func bulkURL(collection string) string {
	return "/bulk-summarize/" + url.PathEscape(collection)
}

func documentURL(collection, id string) string {
	return "/document/" + url.PathEscape(collection) + "/" + url.PathEscape(id)
}

// documentView is a document prepared for list rendering.
type documentView struct {
	ID     string
	Fields []domdoc.Field
}
