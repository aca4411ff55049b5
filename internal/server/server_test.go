package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/talentsift/talentsift/internal/ai"
	"github.com/talentsift/talentsift/internal/screening"
	"github.com/talentsift/talentsift/internal/storage"
)

type stubScreener struct {
	calls []string
}

func (s *stubScreener) Screen(_ context.Context, sourceFile, text, _, position string) *screening.CandidateRecord {
	s.calls = append(s.calls, sourceFile)
	return &screening.CandidateRecord{
		ID:         "id-" + sourceFile,
		SourceFile: sourceFile,
		Position:   position,
		Text:       text,
		Assessment: &ai.FitAssessment{FitScore: 50, BestFit: ai.BestFitNo},
		Provenance: ai.ProvenanceFallback,
	}
}

type stubEngine struct {
	scores map[string]int
}

func (s *stubEngine) Score(_ context.Context, resumeText, _, _ string) *ai.Outcome {
	score := s.scores[resumeText]
	return &ai.Outcome{
		Assessment: &ai.FitAssessment{FitScore: score, BestFit: ai.ResolveBestFit("", score)},
		Provenance: ai.ProvenanceFallback,
	}
}

type stubLocation struct {
	driveID, itemID, name string
}

type stubStore struct {
	saved     []*storage.Resume
	shortlist []*storage.Resume
	locations map[string]stubLocation
	err       error
}

func (s *stubStore) SaveResume(_ context.Context, resume *storage.Resume) error {
	s.saved = append(s.saved, resume)
	return s.err
}

func (s *stubStore) Shortlist(_ context.Context, _ string, _, _ float64) ([]*storage.Resume, error) {
	return s.shortlist, s.err
}

func (s *stubStore) ResumeLocation(_ context.Context, resumeID string) (string, string, string, error) {
	loc, ok := s.locations[resumeID]
	if !ok {
		return "", "", "", storage.ErrNotFound
	}
	return loc.driveID, loc.itemID, loc.name, nil
}

type stubDownloader struct {
	content     []byte
	err         error
	lastDriveID string
	lastItemID  string
}

func (d *stubDownloader) DownloadItem(_ context.Context, driveID, itemID string) ([]byte, error) {
	d.lastDriveID = driveID
	d.lastItemID = itemID
	if d.err != nil {
		return nil, d.err
	}
	return d.content, nil
}

func newTestServer(store resumeStore, engine scorer, downloader fileDownloader) (*Server, *stubScreener) {
	sc := &stubScreener{}
	if engine == nil {
		engine = &stubEngine{}
	}
	return New(sc, engine, store, downloader, zap.NewNop()), sc
}

func multipartBody(t *testing.T, jdText string, resumes map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	jd, err := writer.CreateFormFile("jd_file", "jd.txt")
	if err != nil {
		t.Fatalf("create jd part: %v", err)
	}
	if _, err := io.WriteString(jd, jdText); err != nil {
		t.Fatalf("write jd part: %v", err)
	}

	for name, content := range resumes {
		part, err := writer.CreateFormFile("resumes", name)
		if err != nil {
			t.Fatalf("create resume part: %v", err)
		}
		if _, err := io.WriteString(part, content); err != nil {
			t.Fatalf("write resume part: %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	return &buf, writer.FormDataContentType()
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(nil, nil, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestProcessResumesScreensAndStores(t *testing.T) {
	store := &stubStore{}
	srv, sc := newTestServer(store, nil, nil)

	jd := "Job Title: Cloud Sales Lead\nSelling cloud infrastructure to enterprises."
	body, contentType := multipartBody(t, jd, map[string]string{
		"good.txt":  "A long enough resume text describing aws sales experience.",
		"short.txt": "too short",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/process-resumes", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d, body %s", rec.Code, rec.Body.String())
	}

	var resp processResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.PositionTitle != "Cloud Sales Lead" {
		t.Fatalf("unexpected position: %q", resp.PositionTitle)
	}

	if resp.ProcessedCount != 1 || len(resp.Rows) != 1 {
		t.Fatalf("expected one processed resume, got %+v", resp)
	}

	if resp.Rows[0].SourceFile != "good.txt" {
		t.Fatalf("unexpected row: %+v", resp.Rows[0])
	}

	if len(sc.calls) != 1 || sc.calls[0] != "good.txt" {
		t.Fatalf("unexpected screen calls: %v", sc.calls)
	}

	if len(store.saved) != 1 {
		t.Fatalf("expected one stored resume, got %d", len(store.saved))
	}
}

func TestProcessResumesRejectsShortJD(t *testing.T) {
	srv, _ := newTestServer(nil, nil, nil)

	body, contentType := multipartBody(t, "tiny jd", map[string]string{
		"good.txt": "A long enough resume text describing sales experience.",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/process-resumes", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestProcessResumesAllSkippedIsAnError(t *testing.T) {
	srv, _ := newTestServer(nil, nil, nil)

	body, contentType := multipartBody(t, "A job description long enough to pass the check.", map[string]string{
		"a.txt": "nope",
		"b.txt": "",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/process-resumes", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	if !strings.Contains(rec.Body.String(), "no valid resumes") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestShortlistReturnsTopThree(t *testing.T) {
	store := &stubStore{shortlist: []*storage.Resume{
		{ID: "r1", Name: "A", RawText: "low"},
		{ID: "r2", Name: "B", RawText: "high"},
		{ID: "r3", Name: "C", RawText: "mid"},
		{ID: "r4", Name: "D", RawText: "top"},
	}}
	engine := &stubEngine{scores: map[string]int{"low": 10, "high": 80, "mid": 40, "top": 95}}
	srv, _ := newTestServer(store, engine, nil)

	payload := `{"jd_text": "selling aws", "min_exp": 1, "max_exp": 10, "category": "Sales"}`
	req := httptest.NewRequest(http.MethodPost, "/api/shortlist", strings.NewReader(payload))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d, body %s", rec.Code, rec.Body.String())
	}

	var entries []shortlistEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("expected top 3, got %d", len(entries))
	}

	if entries[0].ResumeID != "r4" || entries[1].ResumeID != "r2" || entries[2].ResumeID != "r3" {
		t.Fatalf("unexpected order: %+v", entries)
	}

	if entries[0].Fit != ai.BestFitYes {
		t.Fatalf("expected top entry marked best fit, got %q", entries[0].Fit)
	}
}

func TestShortlistWithoutStore(t *testing.T) {
	srv, _ := newTestServer(nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/shortlist", strings.NewReader(`{"jd_text": "x"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestShortlistRequiresJDText(t *testing.T) {
	srv, _ := newTestServer(&stubStore{}, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/shortlist", strings.NewReader(`{"category": "Sales"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestShortlistMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(&stubStore{}, nil, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/shortlist", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestDownloadResumeServesDriveItem(t *testing.T) {
	store := &stubStore{locations: map[string]stubLocation{
		"r1": {driveID: "d1", itemID: "i1", name: "Priya Sharma"},
	}}
	downloader := &stubDownloader{content: []byte("%PDF-1.4 data")}
	srv, _ := newTestServer(store, nil, downloader)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/resumes/r1/download", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d, body %s", rec.Code, rec.Body.String())
	}

	if rec.Body.String() != "%PDF-1.4 data" {
		t.Fatalf("unexpected body: %q", rec.Body.String())
	}

	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="Priya Sharma"` {
		t.Fatalf("unexpected disposition: %q", got)
	}

	if downloader.lastDriveID != "d1" || downloader.lastItemID != "i1" {
		t.Fatalf("unexpected download coordinates: %q %q", downloader.lastDriveID, downloader.lastItemID)
	}
}

func TestDownloadResumeUnknownID(t *testing.T) {
	srv, _ := newTestServer(&stubStore{}, nil, &stubDownloader{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/resumes/missing/download", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDownloadResumeWithoutDriveItem(t *testing.T) {
	store := &stubStore{locations: map[string]stubLocation{
		"local": {name: "Uploaded Candidate"},
	}}
	srv, _ := newTestServer(store, nil, &stubDownloader{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/resumes/local/download", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for resume without drive item, got %d", rec.Code)
	}
}

func TestDownloadResumeWithoutDownloader(t *testing.T) {
	srv, _ := newTestServer(&stubStore{}, nil, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/resumes/r1/download", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestDownloadResumeFailure(t *testing.T) {
	store := &stubStore{locations: map[string]stubLocation{
		"r1": {driveID: "d1", itemID: "i1", name: "n"},
	}}
	downloader := &stubDownloader{err: errors.New("graph unavailable")}
	srv, _ := newTestServer(store, nil, downloader)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/resumes/r1/download", nil))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}
