package chi

import (
	"fmt"

	dombatch "github.com/kailas-cloud/docsum/internal/domain/batch"
)

type summarizeRequest struct {
	CollectionName string   `json:"collection_name"`
	DocID          string   `json:"doc_id"`
	Fields         []string `json:"fields"`
}

type summarizeResponse struct {
	Success   bool              `json:"success"`
	Summaries map[string]string `json:"summaries"`
	Message   string            `json:"message"`
}

func newSummarizeResponse(summaries map[string]string) summarizeResponse {
	if summaries == nil {
		summaries = map[string]string{}
	}
	return summarizeResponse{
		Success:   true,
		Summaries: summaries,
		Message:   fmt.Sprintf("Generated %d summaries", len(summaries)),
	}
}

type bulkResult struct {
	DocID          string `json:"doc_id"`
	SummariesAdded int    `json:"summaries_added"`
}

type bulkResponse struct {
	Success            bool         `json:"success"`
	ProcessedDocuments int          `json:"processed_documents"`
	Results            []bulkResult `json:"results"`
}

func newBulkResponse(results []dombatch.Result) bulkResponse {
	items := make([]bulkResult, len(results))
	for i, r := range results {
		items[i] = bulkResult{DocID: r.DocID(), SummariesAdded: r.SummariesAdded()}
	}
	return bulkResponse{
		Success:            true,
		ProcessedDocuments: len(items),
		Results:            items,
	}
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type errorResponse struct {
	Error string `json:"error"`
}
