package chi

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/helpdex/internal/domain"
)

//go:embed templates/index.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// pageData is rendered by templates/index.html.
type pageData struct {
	Query       string
	Asked       bool
	Unavailable bool
	Answer      domain.Answer
}

// Index handles GET /: the form with an empty result.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, pageData{})
}

// Ask handles POST / with form field "query".
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	query := r.PostFormValue("query")
	data := pageData{Query: query, Asked: true}

	ans, err := s.answers.Answer(r.Context(), query)
	switch {
	case err == nil:
		data.Answer = ans
	case errors.Is(err, domain.ErrInvalidQuery):
		// Rejected search parameters render like an empty answer.
	default:
		s.requestLogger(r).Error("answer failed", zap.Error(err))
		data.Unavailable = true
		s.renderPage(w, r, http.StatusServiceUnavailable, data)
		return
	}
	s.renderPage(w, r, http.StatusOK, data)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.page.Execute(w, data); err != nil {
		s.requestLogger(r).Error("render page", zap.Error(err))
	}
}
