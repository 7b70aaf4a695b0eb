package summary

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docsum/internal/domain"
	domdoc "github.com/kailas-cloud/docsum/internal/domain/document"
	"github.com/kailas-cloud/docsum/internal/logger"
	"github.com/kailas-cloud/docsum/internal/metrics"
)

const (
	systemPrompt = "You are a helpful assistant that summarizes text concisely in %d sentences or less. " +
		"Provide clear, informative summaries."
	userPrompt = "Please summarize the following text: %s"
)

// FieldSummary pairs a source field with its summary and the key it is stored under.
type FieldSummary struct {
	Field   string
	Key     string
	Summary domain.Summary
}

// Service summarizes text and document fields through a hosted chat model.
type Service struct {
	completer    Completer
	maxSentences int
	temperature  float32
	maxTokens    int
}

// New creates a summary service. completer can be nil; every summary then fails
// with domain.ErrSummarizerNotConfigured.
func New(completer Completer) *Service {
	return &Service{
		completer:    completer,
		maxSentences: domain.DefaultMaxSentences,
		temperature:  domain.DefaultTemperature,
		maxTokens:    domain.DefaultMaxTokens,
	}
}

// WithMaxSentences sets the sentence bound used when callers pass none.
func (s *Service) WithMaxSentences(n int) *Service {
	if n > 0 {
		s.maxSentences = n
	}
	return s
}

// WithGeneration overrides sampling temperature and reply token cap.
func (s *Service) WithGeneration(temperature float32, maxTokens int) *Service {
	if temperature >= 0 {
		s.temperature = temperature
	}
	if maxTokens > 0 {
		s.maxTokens = maxTokens
	}
	return s
}

// MaxSentences returns the default sentence bound.
func (s *Service) MaxSentences() int { return s.maxSentences }

// Summarize condenses text into at most maxSentences sentences (<= 0 means the default).
// It never returns an error: failures are carried by the Summary itself.
func (s *Service) Summarize(ctx context.Context, text string, maxSentences int) domain.Summary {
	if maxSentences <= 0 {
		maxSentences = s.maxSentences
	}

	if domain.RuneLen(strings.TrimSpace(text)) < domain.MinSummarizableRunes {
		metrics.SummariesTotal.WithLabelValues(string(domain.SummarySkipped)).Inc()
		return domain.SkippedSummary()
	}

	if s.completer == nil {
		metrics.SummariesTotal.WithLabelValues(string(domain.SummaryFailed)).Inc()
		return domain.FailedSummary(domain.ErrSummarizerNotConfigured)
	}

	res, err := s.completer.Complete(ctx, domain.CompletionRequest{
		System:      fmt.Sprintf(systemPrompt, maxSentences),
		User:        fmt.Sprintf(userPrompt, text),
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		logger.FromContext(ctx).Error("summarization failed",
			zap.Int("text_runes", domain.RuneLen(text)),
			zap.Error(err),
		)
		metrics.SummariesTotal.WithLabelValues(string(domain.SummaryFailed)).Inc()
		return domain.FailedSummary(err)
	}

	metrics.SummariesTotal.WithLabelValues(string(domain.SummaryOK)).Inc()
	return domain.NewSummary(res.Content)
}

// SummarizeFieldsResults summarizes the named string fields of doc in the given order.
// Absent and non-string fields are skipped.
func (s *Service) SummarizeFieldsResults(
	ctx context.Context, doc *domdoc.Document, fields []string,
) []FieldSummary {
	out := make([]FieldSummary, 0, len(fields))
	for _, name := range fields {
		text, ok := doc.StringField(name)
		if !ok {
			continue
		}
		out = append(out, s.summarizeField(ctx, doc, name, text))
	}
	return out
}

// SummarizeFields is SummarizeFieldsResults flattened to summary key -> value.
// Repeated field names collapse to one key.
func (s *Service) SummarizeFields(ctx context.Context, doc *domdoc.Document, fields []string) map[string]string {
	return Flatten(s.SummarizeFieldsResults(ctx, doc, fields))
}

// SummarizeAllowlistedResults summarizes the fixed allowlist of free-text fields,
// only where the value is a string longer than domain.BulkMinFieldRunes.
func (s *Service) SummarizeAllowlistedResults(ctx context.Context, doc *domdoc.Document) []FieldSummary {
	var out []FieldSummary
	for _, name := range domain.BulkFields() {
		text, ok := doc.StringField(name)
		if !ok || domain.RuneLen(text) <= domain.BulkMinFieldRunes {
			continue
		}
		out = append(out, s.summarizeField(ctx, doc, name, text))
	}
	return out
}

// SummarizeAllowlisted is SummarizeAllowlistedResults flattened to summary key -> value.
func (s *Service) SummarizeAllowlisted(ctx context.Context, doc *domdoc.Document) map[string]string {
	return Flatten(s.SummarizeAllowlistedResults(ctx, doc))
}

func (s *Service) summarizeField(ctx context.Context, doc *domdoc.Document, name, text string) FieldSummary {
	ctx = logger.With(ctx, zap.String("doc_id", doc.ID()), zap.String("field", name))
	sum := s.Summarize(ctx, text, 0)
	return FieldSummary{Field: name, Key: domain.SummaryKey(name), Summary: sum}
}

// Flatten maps each result to key -> user-visible value. Later entries win.
func Flatten(results []FieldSummary) map[string]string {
	out := make(map[string]string, len(results))
	for _, r := range results {
		out[r.Key] = r.Summary.Value()
	}
	return out
}

// Failed counts results whose model call failed.
func Failed(results []FieldSummary) int {
	n := 0
	for _, r := range results {
		if r.Summary.Status() == domain.SummaryFailed {
			n++
		}
	}
	return n
}
