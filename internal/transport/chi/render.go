package chi

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	domdoc "github.com/kailas-cloud/docsum/internal/domain/document"
	"github.com/kailas-cloud/docsum/internal/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageIndex      = "index.html"
	pageCollection = "collection.html"
	pageDocument   = "document.html"
)

const previewRunes = 120

var pages = parsePages(pageIndex, pageCollection, pageDocument)

type indexPage struct {
	Flash *flash
}

type collectionPage struct {
	Collection string
	Documents  []documentView
}

type documentPage struct {
	Collection   string
	ID           string
	Fields       []domdoc.Field
	StringFields []string
}

var funcs = template.FuncMap{
	"display":       display,
	"preview":       preview,
	"isString":      isString,
	"collectionURL": collectionURL,
	"bulkURL":       bulkURL,
	"documentURL":   documentURL,
}

// parsePages builds one template set per page, each sharing layout.html.
func parsePages(names ...string) map[string]*template.Template {
	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		out[name] = template.Must(
			template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name),
		)
	}
	return out
}

// render executes into a buffer first so a template error never leaves a half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	var buf bytes.Buffer
	if err := pages[page].ExecuteTemplate(&buf, "layout.html", data); err != nil {
		logger.FromContext(r.Context()).Error("render page failed", zap.String("page", page), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// display formats a field value for the detail page.
func display(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case time.Time:
		return t.Format(time.RFC3339)
	case map[string]any, []any:
		b, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}

// preview is display truncated for list rows.
func preview(v any) string {
	s := display(v)
	if utf8.RuneCountInString(s) <= previewRunes {
		return s
	}
	return string([]rune(s)[:previewRunes]) + "…"
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}
