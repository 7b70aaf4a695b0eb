package domain

import "unicode/utf8"

// Summarization constants shared by the use case and transport layers.
const (
	// SummaryKeySuffix is appended to a source field name to form its summary field.
	SummaryKeySuffix = "_summary"
	// TextTooShort is returned instead of calling the model for near-empty input.
	TextTooShort = "Text too short to summarize"
	// SummaryErrorPrefix prefixes the user-visible value of a failed summary.
	SummaryErrorPrefix = "Error generating summary: "
	// MinSummarizableRunes is the trimmed length below which text is not sent to the model.
	MinSummarizableRunes = 10
	// BulkMinFieldRunes is the length a bulk-mode field must exceed to be summarized.
	BulkMinFieldRunes = 20
	// DefaultMaxSentences bounds the summary length when the caller does not.
	DefaultMaxSentences = 3
	// DefaultTemperature favors deterministic phrasing.
	DefaultTemperature float32 = 0.3
	// DefaultMaxTokens caps the model reply.
	DefaultMaxTokens = 200
)

// bulkFields is the fixed allowlist used by collection-wide summarization.
var bulkFields = []string{"description", "content", "notes", "feedback", "comment"}

// BulkFields returns a copy of the collection-wide summarization allowlist.
func BulkFields() []string {
	out := make([]string, len(bulkFields))
	copy(out, bulkFields)
	return out
}

// SummaryKey returns the field name a summary of field is stored under.
func SummaryKey(field string) string { return field + SummaryKeySuffix }

// RuneLen counts characters rather than bytes.
func RuneLen(s string) int { return utf8.RuneCountInString(s) }

// SummaryStatus is the outcome of a single summarization attempt.
type SummaryStatus string

// Summary status values.
const (
	SummaryOK      SummaryStatus = "ok"
	SummarySkipped SummaryStatus = "skipped"
	SummaryFailed  SummaryStatus = "failed"
)

// Summary is the explicit result of a summarization attempt.
// Value() yields the string callers display or persist regardless of outcome.
type Summary struct {
	text   string
	status SummaryStatus
	err    error
}

// NewSummary wraps a model reply.
func NewSummary(text string) Summary { return Summary{text: text, status: SummaryOK} }

// SkippedSummary is the result for text too short to summarize.
func SkippedSummary() Summary { return Summary{status: SummarySkipped} }

// FailedSummary is the result of a failed model call.
func FailedSummary(err error) Summary { return Summary{status: SummaryFailed, err: err} }

// Status returns the outcome.
func (s Summary) Status() SummaryStatus { return s.status }

// Err returns the failure cause, if any.
func (s Summary) Err() error { return s.err }

// Value returns the user-visible string: the reply, the short-text sentinel, or an error description.
func (s Summary) Value() string {
	switch s.status {
	case SummarySkipped:
		return TextTooShort
	case SummaryFailed:
		if s.err == nil {
			return SummaryErrorPrefix + "unknown error"
		}
		return SummaryErrorPrefix + s.err.Error()
	default:
		return s.text
	}
}
