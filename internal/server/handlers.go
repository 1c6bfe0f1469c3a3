package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jonathan/resume-scorer/internal/bullets"
	"github.com/jonathan/resume-scorer/internal/evidence"
	"github.com/jonathan/resume-scorer/internal/formatting"
	"github.com/jonathan/resume-scorer/internal/ingestion"
	"github.com/jonathan/resume-scorer/internal/quality"
	"github.com/jonathan/resume-scorer/internal/rewriting"
	"github.com/jonathan/resume-scorer/internal/roles"
	"github.com/jonathan/resume-scorer/internal/schemas"
	"github.com/jonathan/resume-scorer/internal/scoring"
	"github.com/jonathan/resume-scorer/internal/sections"
	"github.com/jonathan/resume-scorer/internal/types"
)

// maxBatchSize bounds POST /score/batch.
const maxBatchSize = 50

// ScoreRequest is the body of POST /score.
type ScoreRequest struct {
	Text           string               `json:"text,omitempty"`
	ResumeData     json.RawMessage      `json:"resume_data,omitempty"`
	JobDescription string               `json:"job_description,omitempty"`
	JobTitle       string               `json:"job_title,omitempty"`
	CompanyName    string               `json:"company_name,omitempty"`
	UserType       types.UserType       `json:"user_type,omitempty"`
	Level          types.CandidateLevel `json:"level,omitempty"`
	MaxBulletChars int                  `json:"max_bullet_chars,omitempty"`
	SourceName     string               `json:"source_name,omitempty"`
	Save           bool                 `json:"save,omitempty"`
}

// ScoreResponse is a scoring result plus whether it was stored.
type ScoreResponse struct {
	*scoring.Result
	Saved bool `json:"saved"`
}

// AnalyzeRequest is the body shared by the single-analyzer endpoints. Each endpoint reads
// the fields it needs.
type AnalyzeRequest struct {
	Text           string               `json:"text,omitempty"`
	ResumeData     json.RawMessage      `json:"resume_data,omitempty"`
	JobDescription string               `json:"job_description,omitempty"`
	CompanyName    string               `json:"company_name,omitempty"`
	Layout         types.DocumentLayout `json:"layout"`
	MaxBulletChars int                  `json:"max_bullet_chars,omitempty"`
}

// BulletFixRequest is the body of POST /bullets/fix. Exactly one of Bullet, Bullets and
// ResumeData must be set.
type BulletFixRequest struct {
	Bullet         string          `json:"bullet,omitempty"`
	Bullets        []string        `json:"bullets,omitempty"`
	ResumeData     json.RawMessage `json:"resume_data,omitempty"`
	MaxBulletChars int             `json:"max_bullet_chars,omitempty"`
	AI             bool            `json:"ai,omitempty"`
}

// BulletFixResponse lists one fix per input bullet, or per over-budget bullet of ResumeData.
type BulletFixResponse struct {
	Fixes      []rewriting.Result `json:"fixes"`
	ResumeData *types.ResumeData  `json:"resume_data,omitempty"`
}

// readBody reads at most maxJSONBytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	return body, nil
}

// decodeJSON reads the body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

// decodeResumeData validates raw against the resume schema when present.
func decodeResumeData(raw json.RawMessage) (*types.ResumeData, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	return schemas.DecodeResumeData(raw)
}

func (req ScoreRequest) input(defaultMaxChars int) (scoring.Input, error) {
	data, err := decodeResumeData(req.ResumeData)
	if err != nil {
		return scoring.Input{}, err
	}
	in := scoring.Input{
		Text:           req.Text,
		Data:           data,
		JobDescription: req.JobDescription,
		JobTitle:       req.JobTitle,
		CompanyName:    req.CompanyName,
		UserType:       req.UserType,
		Level:          req.Level,
		MaxBulletChars: req.MaxBulletChars,
		SourceName:     req.SourceName,
	}
	if in.MaxBulletChars == 0 {
		in.MaxBulletChars = defaultMaxChars
	}
	return in, nil
}

// parseScoreRequest checks body against the score request schema and decodes it.
func parseScoreRequest(body []byte) (ScoreRequest, error) {
	var req ScoreRequest
	if !json.Valid(body) {
		return req, &ErrValidation{Field: "body", Message: "invalid JSON"}
	}
	if err := schemas.Validate(schemas.ScoreRequest, body); err != nil {
		return req, err
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return req, &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return req, nil
}

// handleScore runs the full scoring pipeline and optionally stores the report.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	req, err := parseScoreRequest(body)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	in, err := req.input(s.maxBulletChars)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	res, err := scoring.Score(r.Context(), in)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	resp := ScoreResponse{Result: res}
	if req.Save {
		if err := s.saveReport(r, res, req.Text); err != nil {
			s.errorResponse(w, err)
			return
		}
		resp.Saved = true
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleScoreBatch scores a JSON array of score requests in parallel.
func (s *Server) handleScoreBatch(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(body, &raws); err != nil {
		s.errorResponse(w, &ErrValidation{Field: "body", Message: "expected a JSON array of score requests"})
		return
	}
	if len(raws) == 0 || len(raws) > maxBatchSize {
		s.errorResponse(w, &ErrValidation{Field: "body", Message: fmt.Sprintf("batch must hold 1 to %d requests", maxBatchSize)})
		return
	}

	inputs := make([]scoring.Input, len(raws))
	for i, raw := range raws {
		req, err := parseScoreRequest(raw)
		if err == nil {
			inputs[i], err = req.input(s.maxBulletChars)
		}
		if err != nil {
			s.errorResponse(w, fmt.Errorf("request %d: %w", i, err))
			return
		}
	}

	results, err := scoring.ScoreBatch(r.Context(), inputs, s.concurrency)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"results": results})
}

// handleAssess runs only the input quality gate.
func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	data, err := decodeResumeData(req.ResumeData)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, quality.AssessInputQuality(req.Text, data))
}

// handleSections detects resume sections in text.
func (s *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.errorResponse(w, &ErrValidation{Field: "text", Message: "text is required"})
		return
	}
	s.jsonResponse(w, http.StatusOK, sections.Detect(req.Text))
}

// handleClassifyRole classifies a job description.
func (s *Server) handleClassifyRole(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		s.errorResponse(w, &ErrValidation{Field: "job_description", Message: "job_description is required"})
		return
	}
	s.jsonResponse(w, http.StatusOK, roles.Classify(req.JobDescription, req.CompanyName))
}

// handleEvidence computes the evidence-locked score.
func (s *Server) handleEvidence(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	data, err := decodeResumeData(req.ResumeData)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	in := evidence.Input{Text: req.Text, Data: data, JobDescription: req.JobDescription}
	if strings.TrimSpace(req.JobDescription) != "" {
		role := roles.Classify(req.JobDescription, req.CompanyName)
		in.Role = &role
	}
	s.jsonResponse(w, http.StatusOK, evidence.Score(in))
}

// handleFormatting analyzes text and optional layout signals for ATS hazards.
func (s *Server) handleFormatting(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, formatting.Analyze(types.Document{Text: req.Text, Layout: req.Layout}))
}

// handleBulletScan lists bullets of structured resume data that exceed the budget.
func (s *Server) handleBulletScan(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	data, err := decodeResumeData(req.ResumeData)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if data == nil {
		s.errorResponse(w, &ErrValidation{Field: "resume_data", Message: "resume_data is required"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"max_chars":  s.fixer(req.MaxBulletChars).MaxChars(),
		"violations": s.fixer(req.MaxBulletChars).Scan(data),
	})
}

// handleBulletFix shortens bullets, deterministically or through the LLM.
func (s *Server) handleBulletFix(w http.ResponseWriter, r *http.Request) {
	var req BulletFixRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	data, err := decodeResumeData(req.ResumeData)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	set := 0
	for _, present := range []bool{req.Bullet != "", len(req.Bullets) > 0, data != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		s.errorResponse(w, &ErrValidation{Field: "body", Message: "exactly one of bullet, bullets and resume_data is required"})
		return
	}
	if req.AI && s.llm == nil {
		s.errorResponse(w, ErrAIDisabled)
		return
	}

	fixer := s.fixer(req.MaxBulletChars)
	rewrite := func(bullet string) (rewriting.Result, error) {
		return rewriting.Result{BulletFix: fixer.Fix(bullet)}, nil
	}
	if req.AI {
		rw := rewriting.New(s.llm, fixer)
		rewrite = func(bullet string) (rewriting.Result, error) {
			return rw.Rewrite(r.Context(), bullet)
		}
		if data != nil {
			fixed, results, err := rw.RewriteResume(r.Context(), data)
			if err != nil {
				s.errorResponse(w, err)
				return
			}
			s.jsonResponse(w, http.StatusOK, BulletFixResponse{Fixes: results, ResumeData: fixed})
			return
		}
	}

	resp := BulletFixResponse{Fixes: []rewriting.Result{}}
	if data != nil {
		fixed, fixes := fixer.FixResume(data)
		for _, f := range fixes {
			resp.Fixes = append(resp.Fixes, rewriting.Result{BulletFix: f})
		}
		resp.ResumeData = fixed
		s.jsonResponse(w, http.StatusOK, resp)
		return
	}

	list := req.Bullets
	if req.Bullet != "" {
		list = []string{req.Bullet}
	}
	for _, b := range list {
		res, err := rewrite(b)
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		resp.Fixes = append(resp.Fixes, res)
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleUpload extracts a resume document from a multipart form and scores it. The form
// carries the document in "file" and optional job_description, job_title, company_name,
// user_type and save fields.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.errorResponse(w, &ErrValidation{Field: "file", Message: "invalid multipart form: " + err.Error()})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, &ErrValidation{Field: "file", Message: "file is required"})
		return
	}
	defer func() { _ = file.Close() }()

	raw, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, fmt.Errorf("failed to read upload: %w", err))
		return
	}
	doc, err := ingestion.ExtractDocument(r.Context(), raw, header.Header.Get("Content-Type"), header.Filename)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	userType := types.UserType(r.FormValue("user_type"))
	switch userType {
	case "", types.UserTypeFresher, types.UserTypeExperienced, types.UserTypeStudent:
	default:
		s.errorResponse(w, &ErrValidation{Field: "user_type", Message: "must be fresher, experienced or student"})
		return
	}

	res, err := scoring.Score(r.Context(), scoring.Input{
		Text:           doc.Text,
		JobDescription: r.FormValue("job_description"),
		JobTitle:       r.FormValue("job_title"),
		CompanyName:    r.FormValue("company_name"),
		UserType:       userType,
		Layout:         doc.Layout,
		MaxBulletChars: s.maxBulletChars,
		SourceName:     header.Filename,
	})
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	resp := ScoreResponse{Result: res}
	if r.FormValue("save") == "true" {
		if err := s.saveReport(r, res, doc.Text); err != nil {
			s.errorResponse(w, err)
			return
		}
		resp.Saved = true
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// fixer returns a bullet fixer for the requested budget, or the server default.
func (s *Server) fixer(maxChars int) *bullets.Fixer {
	if maxChars <= 0 {
		maxChars = s.maxBulletChars
	}
	return bullets.New(maxChars)
}
