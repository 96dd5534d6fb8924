package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/resume-scorer/internal/config"
	"github.com/jonathan/resume-scorer/internal/schemas"
	"github.com/jonathan/resume-scorer/internal/scoring"
	"github.com/jonathan/resume-scorer/internal/types"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := New(&cfg, scoring.NewScorer(nil, nil), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("../../testdata/" + name)
	require.NoError(t, err)
	return data
}

// multipartRequest builds a POST /api/analyze request. An empty filename
// omits the file part.
func multipartRequest(t *testing.T, filename string, content []byte, jobDescription string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		part, err := mw.CreateFormFile("resume_file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	if jobDescription != "" {
		require.NoError(t, mw.WriteField("job_description", jobDescription))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["error"]
}

func TestNew_RequiresDependencies(t *testing.T) {
	cfg := config.Default()

	_, err := New(nil, scoring.NewScorer(nil, nil), nil)
	assert.Error(t, err)

	_, err = New(&cfg, nil, nil)
	assert.Error(t, err)
}

func TestNew_Addr(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.Server.Port = 8081 })
	assert.Equal(t, ":8081", s.Addr())
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	w := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"), "health checks are not rate limited")
}

func TestIndexServesUploadForm(t *testing.T) {
	s := newTestServer(t, nil)

	w := serve(s, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), `name="resume_file"`)
	assert.Contains(t, w.Body.String(), `name="job_description"`)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, nil)

	w := serve(s, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(s, httptest.NewRequest(http.MethodGet, "/api/analyze", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestAnalyze_TextFile(t *testing.T) {
	s := newTestServer(t, nil)
	resume := readFixture(t, "resume.txt")

	w := serve(s, multipartRequest(t, "resume.txt", resume, ""))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	require.NoError(t, schemas.ValidateAnalysisResult(w.Body.Bytes()))

	var got types.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))

	want, err := scoring.NewScorer(nil, nil).Score(context.Background(), string(resume), "")
	require.NoError(t, err)
	assert.Equal(t, *want, got)
	assert.Equal(t, 65, got.OverallScore)
	assert.Nil(t, got.JobMatch)
}

func TestAnalyze_WithJobDescription(t *testing.T) {
	s := newTestServer(t, nil)

	w := serve(s, multipartRequest(t, "resume.txt", readFixture(t, "resume.txt"), string(readFixture(t, "job_description.txt"))))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got types.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.NotNil(t, got.JobMatch)
	assert.InDelta(t, 0.5, got.JobMatch.ExactFraction, 1e-9)
	assert.NoError(t, got.Validate())
}

func TestAnalyze_MissingFile(t *testing.T) {
	s := newTestServer(t, nil)

	w := serve(s, multipartRequest(t, "", nil, "some job"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing resume file.", decodeError(t, w))
}

func TestAnalyze_NotMultipart(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"resume_text":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(s, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing resume file.", decodeError(t, w))
}

func TestAnalyze_EmptyFileReturnsErrorResult(t *testing.T) {
	s := newTestServer(t, nil)

	w := serve(s, multipartRequest(t, "resume.txt", []byte(" \n\r\n "), ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"error":"Could not extract text from file."}`, w.Body.String())
}

func TestAnalyze_CorruptDocxReturnsErrorResult(t *testing.T) {
	s := newTestServer(t, nil)

	w := serve(s, multipartRequest(t, "resume.docx", []byte("not a zip archive"), ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, scoring.ExtractionFailedMessage, decodeError(t, w))
}

func TestAnalyze_TooLarge(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.Server.MaxUploadBytes = 1024 })

	w := serve(s, multipartRequest(t, "resume.txt", bytes.Repeat([]byte("a"), 4096), ""))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "Uploaded file is too large.", decodeError(t, w))
}

func TestScore(t *testing.T) {
	s := newTestServer(t, nil)

	body, err := json.Marshal(scoreRequest{ResumeText: string(readFixture(t, "resume.txt"))})
	require.NoError(t, err)
	w := serve(s, httptest.NewRequest(http.MethodPost, "/api/score", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, schemas.ValidateAnalysisResult(w.Body.Bytes()))

	var got types.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 65, got.OverallScore)
	assert.Equal(t, types.Components{Format: 9, Content: 11, KeywordsATS: 15, Readability: 15, ATSFriendliness: 15}, got.Components)
}

func TestScore_BlankText(t *testing.T) {
	s := newTestServer(t, nil)

	w := serve(s, httptest.NewRequest(http.MethodPost, "/api/score", strings.NewReader(`{"resume_text":"  \n "}`)))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"error":"Could not extract text from file."}`, w.Body.String())
}

func TestScore_InvalidJSON(t *testing.T) {
	s := newTestServer(t, nil)

	w := serve(s, httptest.NewRequest(http.MethodPost, "/api/score", strings.NewReader(`{"resume_text":`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid JSON body.", decodeError(t, w))
}

func TestScore_TooLarge(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.Server.MaxUploadBytes = 64 })

	body, err := json.Marshal(scoreRequest{ResumeText: strings.Repeat("word ", 100)})
	require.NoError(t, err)
	w := serve(s, httptest.NewRequest(http.MethodPost, "/api/score", bytes.NewReader(body)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) {
		c.RateLimit.RequestsPerMinute = 1
		c.RateLimit.Burst = 1
	})
	body := `{"resume_text":"Experience: built things."}`

	w := serve(s, httptest.NewRequest(http.MethodPost, "/api/score", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))

	w = serve(s, httptest.NewRequest(http.MethodPost, "/api/score", strings.NewReader(body)))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "rate_limit_exceeded", resp["error"])
	assert.Contains(t, resp, "retry_after")

	w = serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code, "health stays available while rate limited")
}

func TestRateLimit_Disabled(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) {
		off := false
		c.RateLimit.Enabled = &off
		c.RateLimit.RequestsPerMinute = 1
		c.RateLimit.Burst = 1
	})

	for i := 0; i < 5; i++ {
		w := serve(s, httptest.NewRequest(http.MethodPost, "/api/score", strings.NewReader(`{"resume_text":"Skills: Go"}`)))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t, nil)

	w := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	_, err := uuid.Parse(w.Header().Get(requestIDHeader))
	assert.NoError(t, err, "generated request IDs are UUIDs")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "client-supplied-id")
	w = serve(s, req)
	assert.Equal(t, "client-supplied-id", w.Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, strings.Repeat("x", maxRequestIDLen+1))
	w = serve(s, req)
	assert.NotEqual(t, strings.Repeat("x", maxRequestIDLen+1), w.Header().Get(requestIDHeader))
}

func TestRequestIDFromContext(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
}

func TestRequestLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	cfg := config.Default()
	s, err := New(&cfg, scoring.NewScorer(nil, nil), zap.New(core))
	require.NoError(t, err)
	t.Cleanup(s.rateLimiter.Stop)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "req-123")
	serve(s, req)

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, "/health", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
}

func TestCORS(t *testing.T) {
	t.Run("any origin by default", func(t *testing.T) {
		s := newTestServer(t, nil)

		req := httptest.NewRequest(http.MethodOptions, "/api/score", nil)
		req.Header.Set("Origin", "https://example.com")
		w := serve(s, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	})

	t.Run("configured origins", func(t *testing.T) {
		s := newTestServer(t, func(c *config.Config) {
			c.Server.AllowedOrigins = []string{"https://app.example.com"}
		})

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://app.example.com")
		w := serve(s, req)
		assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

		req = httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w = serve(s, req)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestExtractClientID(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:52000"
	assert.Equal(t, "203.0.113.7", s.extractClientID(req))

	req.RemoteAddr = "not-a-host-port"
	assert.Equal(t, "not-a-host-port", s.extractClientID(req))
}

func TestStart_ShutsDownOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Port = 0
	s, err := New(&cfg, scoring.NewScorer(nil, nil), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
