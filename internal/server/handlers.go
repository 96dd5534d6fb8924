package server

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/resume-scorer/internal/scoring"
)

// multipartMemory is how much of an upload is held in memory before
// spilling to temporary files.
const multipartMemory = 8 << 20

const defaultUploadName = "resume"

//go:embed static/index.html
var indexHTML []byte

// scoreRequest is the body of POST /api/score.
type scoreRequest struct {
	ResumeText     string `json:"resume_text"`
	JobDescription string `json:"job_description"`
}

// handleIndex serves the upload form.
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(indexHTML)
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAnalyze scores an uploaded résumé file. A file without extractable
// text is answered with 200 and the error result.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > s.maxUploadBytes {
		s.writeError(w, r, &ErrPayloadTooLarge{Limit: s.maxUploadBytes})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.writeError(w, r, s.formError(err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("resume_file")
	if err != nil {
		s.writeError(w, r, errMissingFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	filename := header.Filename
	if filename == "" {
		filename = defaultUploadName
	}

	result, err := s.scorer.AnalyzeFile(r.Context(), filename, data, r.FormValue("job_description"))
	if err != nil {
		if errResult := scoring.ErrorResult(err); errResult != nil {
			s.requestLogger(r).Info("no text extracted", zap.String("filename", filename), zap.Error(err))
			s.jsonResponse(w, http.StatusOK, errResult)
			return
		}
		s.writeError(w, r, err)
		return
	}

	s.requestLogger(r).Info("resume analyzed",
		zap.String("filename", filename),
		zap.Int("overall_score", result.OverallScore))
	s.jsonResponse(w, http.StatusOK, result)
}

// handleScore scores résumé text sent as JSON. Blank text is answered with
// 422 and the error result.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, &ErrPayloadTooLarge{Limit: s.maxUploadBytes})
			return
		}
		s.writeError(w, r, &ErrValidation{Field: "body", Message: "Invalid JSON body."})
		return
	}

	result, err := s.scorer.Score(r.Context(), req.ResumeText, req.JobDescription)
	if err != nil {
		if errResult := scoring.ErrorResult(err); errResult != nil {
			s.jsonResponse(w, http.StatusUnprocessableEntity, errResult)
			return
		}
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// formError classifies a multipart parse failure.
func (s *Server) formError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &ErrPayloadTooLarge{Limit: s.maxUploadBytes}
	}
	return errMissingFile
}
