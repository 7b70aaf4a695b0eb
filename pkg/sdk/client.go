package docsum

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/docsum/internal/db"
	dbFirestore "github.com/kailas-cloud/docsum/internal/db/firestore"
	dbMongo "github.com/kailas-cloud/docsum/internal/db/mongo"
	dbRedis "github.com/kailas-cloud/docsum/internal/db/redis"
	"github.com/kailas-cloud/docsum/internal/domain"
	dombatch "github.com/kailas-cloud/docsum/internal/domain/batch"
	domdoc "github.com/kailas-cloud/docsum/internal/domain/document"
	documentrepo "github.com/kailas-cloud/docsum/internal/repository/document"
	openaiSum "github.com/kailas-cloud/docsum/internal/transport/openai"
	batchuc "github.com/kailas-cloud/docsum/internal/usecase/batch"
	documentuc "github.com/kailas-cloud/docsum/internal/usecase/document"
	healthuc "github.com/kailas-cloud/docsum/internal/usecase/health"
	summaryuc "github.com/kailas-cloud/docsum/internal/usecase/summary"
)

const defaultReadinessTimeout = 10 * time.Second

var errDegraded = errors.New("docsum: degraded")

// Internal interfaces, swapped for mocks in tests.
type documentUseCase interface {
	ListDocuments(ctx context.Context, collection string) []domdoc.Document
	LookupDocument(ctx context.Context, collection, id string) documentuc.Lookup
}

type batchUseCase interface {
	SummarizeDocument(ctx context.Context, collection, id string, fields []string) (map[string]string, error)
	SummarizeCollection(ctx context.Context, collection string) []dombatch.Result
}

// Client is the docsum SDK entry point.
type Client struct {
	store     db.Store
	docSvc    documentUseCase
	batchSvc  batchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a docsum Client and connects to the document store.
// The provided context is used for connecting and the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("docsum: document store required (use WithFirestore, WithMongo, WithRedis or WithValkey)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("docsum: database not ready: %w", err)
	}

	return wireClient(store, cfg, obs), nil
}

func createStore(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case driverFirestore:
		s, err := dbFirestore.NewStore(ctx, dbFirestore.Config{
			ProjectID:       cfg.projectID,
			CredentialsFile: cfg.credentialsFile,
		})
		if err != nil {
			return nil, fmt.Errorf("docsum: create firestore store: %w", err)
		}
		return s, nil
	case driverMongo:
		s, err := dbMongo.NewStore(ctx, dbMongo.Config{
			URI:      cfg.uri,
			Database: cfg.database,
		})
		if err != nil {
			return nil, fmt.Errorf("docsum: create mongo store: %w", err)
		}
		return s, nil
	case driverRedis, driverValkey:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.addrs,
			Password:  cfg.password,
			KeyPrefix: cfg.keyPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("docsum: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("docsum: unknown driver %q", cfg.driver)
	}
}

// buildCompleter picks the custom completer, then the hosted one. Returns nil when neither is configured.
func buildCompleter(cfg *clientConfig) interface {
	domain.Completer
	domain.HealthChecker
} {
	if cfg.completer != nil {
		return &completerAdapter{inner: cfg.completer}
	}
	if cfg.apiKey != "" {
		return openaiSum.NewClient(&openaiSum.Config{
			APIKey:  cfg.apiKey,
			BaseURL: cfg.baseURL,
			Model:   cfg.model,
		})
	}
	return nil
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	docSvc := documentuc.New(documentrepo.New(store))

	// Pass nil interfaces, not typed nil pointers, when no summarizer is configured:
	// summaries then fail with ErrSummarizerNotConfigured and health skips the check.
	var (
		completer summaryuc.Completer
		checker   healthuc.SummarizerChecker
	)
	if cm := buildCompleter(cfg); cm != nil {
		completer = cm
		checker = cm
	}

	summarizer := summaryuc.New(completer).WithMaxSentences(cfg.maxSentences)

	return &Client{
		store:     store,
		docSvc:    docSvc,
		batchSvc:  batchuc.New(docSvc, summarizer),
		healthSvc: healthuc.New(store, checker),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Documents returns the document service for a given collection.
func (c *Client) Documents(collection string) *DocumentService {
	return &DocumentService{
		collection: collection,
		docSvc:     c.docSvc,
		batchSvc:   c.batchSvc,
		obs:        c.obs,
	}
}

// BulkSummarize summarizes the allowlisted long text fields of every document in
// collection and merges the summaries back. A failure on one document does not stop the sweep.
func (c *Client) BulkSummarize(ctx context.Context, collection string) []BulkResult {
	start := time.Now()
	results := c.batchSvc.SummarizeCollection(ctx, collection)

	out := make([]BulkResult, len(results))
	added := 0
	for i, r := range results {
		out[i] = BulkResult{
			DocID:          r.DocID(),
			SummariesAdded: r.SummariesAdded(),
			Persisted:      r.Persisted(),
		}
		added += r.SummariesAdded()
	}

	c.obs.observe(opBulkSummarize, collection, start, nil)
	c.obs.summarized(collection, added)
	return out
}
