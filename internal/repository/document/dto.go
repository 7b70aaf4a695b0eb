package document

import (
	"github.com/kailas-cloud/docsum/internal/db"
	domdoc "github.com/kailas-cloud/docsum/internal/domain/document"
)

// toDocument hydrates a domain document from a backend record.
func toDocument(rec db.Record) domdoc.Document {
	return domdoc.Reconstruct(rec.ID, rec.Fields)
}
