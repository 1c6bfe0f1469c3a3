package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/resume-scorer/internal/db"
	"github.com/jonathan/resume-scorer/internal/ingestion"
	"github.com/jonathan/resume-scorer/internal/scoring"
)

// ListReportsResponse is the body of GET /reports.
type ListReportsResponse struct {
	Reports []db.Report `json:"reports"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
}

// saveReport stores res, keyed by the hash of the scored text.
func (s *Server) saveReport(r *http.Request, res *scoring.Result, text string) error {
	if s.store == nil {
		return ErrStoreDisabled
	}
	hash := ""
	if text != "" {
		hash = ingestion.Hash(text)
	}
	report, err := db.NewReport(res, hash)
	if err != nil {
		return err
	}
	return s.store.SaveReport(r.Context(), report)
}

// handleListReports lists stored reports, newest first.
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, ErrStoreDisabled)
		return
	}

	q := r.URL.Query()
	opts := db.ListOptions{ContentHash: q.Get("content_hash")}
	for name, dst := range map[string]*int{"limit": &opts.Limit, "offset": &opts.Offset} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.errorResponse(w, &ErrValidation{Field: name, Message: "must be a non-negative integer"})
			return
		}
		*dst = n
	}

	reports, err := s.store.ListReports(r.Context(), opts)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	limit := opts.Limit
	if limit == 0 {
		limit = db.DefaultListLimit
	}
	s.jsonResponse(w, http.StatusOK, ListReportsResponse{
		Reports: reports,
		Limit:   min(limit, db.MaxListLimit),
		Offset:  opts.Offset,
	})
}

// handleGetReport returns one stored report including its full result.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id, ok := s.reportID(w, r)
	if !ok {
		return
	}
	report, err := s.store.GetReport(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// handleDeleteReport removes a stored report.
func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	id, ok := s.reportID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteReport(r.Context(), id); err != nil {
		s.errorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// reportID parses the {id} path value, writing the error response itself on failure.
func (s *Server) reportID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	if s.store == nil {
		s.errorResponse(w, ErrStoreDisabled)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return uuid.Nil, false
	}
	return id, true
}
