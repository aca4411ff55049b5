package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/talentsift/talentsift/internal/extract"
	"github.com/talentsift/talentsift/internal/screening"
	"github.com/talentsift/talentsift/internal/storage"
)

const maxUploadBytes = 64 << 20

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type processResponse struct {
	PositionTitle  string                       `json:"position_title"`
	ProcessedCount int                          `json:"processed_count"`
	Rows           []*screening.CandidateRecord `json:"rows"`
}

func (s *Server) processResumesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	start := time.Now()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	jdFile, jdHeader, err := r.FormFile("jd_file")
	if err != nil {
		httpError(w, http.StatusBadRequest, "jd_file is required")
		return
	}
	defer jdFile.Close()

	jdText := readDocument(jdHeader.Filename, jdFile)
	if len(strings.TrimSpace(jdText)) < minTextLength {
		httpError(w, http.StatusBadRequest, "could not extract text from jd")
		return
	}

	position := extract.Position(jdText)
	if position == "" {
		position = "default"
	}

	var rows []*screening.CandidateRecord
	for _, header := range r.MultipartForm.File["resumes"] {
		file, err := header.Open()
		if err != nil {
			s.logger.Warn("resume upload unreadable", zap.String("file", header.Filename), zap.Error(err))
			continue
		}

		text := readDocument(header.Filename, file)
		file.Close()

		// Skip unreadable or near-empty documents, never fail the batch.
		if len(strings.TrimSpace(text)) < minTextLength {
			s.logger.Warn("resume skipped, insufficient text", zap.String("file", header.Filename))
			continue
		}

		rows = append(rows, s.screener.Screen(r.Context(), header.Filename, text, jdText, position))
	}

	if len(rows) == 0 {
		httpError(w, http.StatusBadRequest, "no valid resumes processed")
		return
	}

	if s.store != nil {
		for _, record := range rows {
			if err := s.store.SaveResume(r.Context(), storage.FromRecord(record, "", "")); err != nil {
				s.logger.Error("save screened resume", zap.String("file", record.SourceFile), zap.Error(err))
			}
		}
	}

	s.logger.Info("resume batch processed",
		zap.String("position", position),
		zap.Int("processed_count", len(rows)),
		zap.Duration("duration", time.Since(start)),
	)

	writeJSON(w, http.StatusOK, processResponse{
		PositionTitle:  position,
		ProcessedCount: len(rows),
		Rows:           rows,
	})
}

type shortlistRequest struct {
	JDText   string  `json:"jd_text"`
	MinExp   float64 `json:"min_exp"`
	MaxExp   float64 `json:"max_exp"`
	Category string  `json:"category"`
}

type shortlistEntry struct {
	ResumeID   string   `json:"resume_id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Experience float64  `json:"experience"`
	Skills     []string `json:"skills"`
	Score      int      `json:"score"`
	Fit        string   `json:"fit"`
}

func (s *Server) shortlistHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if s.store == nil {
		httpError(w, http.StatusServiceUnavailable, "storage is not configured")
		return
	}

	var req shortlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.JDText) == "" {
		httpError(w, http.StatusBadRequest, "jd_text is required")
		return
	}

	if req.Category == "" {
		req.Category = extract.CategorySales
	}

	resumes, err := s.store.Shortlist(r.Context(), req.Category, req.MinExp, req.MaxExp)
	if err != nil {
		s.logger.Error("shortlist query failed", zap.Error(err))
		httpError(w, http.StatusInternalServerError, "shortlist query failed")
		return
	}

	entries := make([]shortlistEntry, 0, len(resumes))
	for _, resume := range resumes {
		outcome := s.engine.Score(r.Context(), resume.RawText, req.JDText, req.Category)
		entries = append(entries, shortlistEntry{
			ResumeID:   resume.ID,
			Name:       resume.Name,
			Email:      resume.Email,
			Experience: resume.ExperienceYears,
			Skills:     resume.Skills,
			Score:      outcome.Assessment.FitScore,
			Fit:        outcome.Assessment.BestFit,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	if len(entries) > 3 {
		entries = entries[:3]
	}

	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) downloadResumeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if s.store == nil {
		httpError(w, http.StatusServiceUnavailable, "storage is not configured")
		return
	}

	if s.downloader == nil {
		httpError(w, http.StatusServiceUnavailable, "drive access is not configured")
		return
	}

	resumeID := r.PathValue("id")

	driveID, itemID, name, err := s.store.ResumeLocation(r.Context(), resumeID)
	if errors.Is(err, storage.ErrNotFound) {
		httpError(w, http.StatusNotFound, "resume not found")
		return
	}
	if err != nil {
		s.logger.Error("locate resume", zap.String("resume_id", resumeID), zap.Error(err))
		httpError(w, http.StatusInternalServerError, "resume lookup failed")
		return
	}

	// Rows stored from local uploads have no drive item to serve.
	if driveID == "" || itemID == "" {
		httpError(w, http.StatusNotFound, "resume has no stored document")
		return
	}

	data, err := s.downloader.DownloadItem(r.Context(), driveID, itemID)
	if err != nil {
		s.logger.Error("download resume", zap.String("resume_id", resumeID), zap.Error(err))
		httpError(w, http.StatusBadGateway, "resume download failed")
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// readDocument extracts text from an uploaded file, tolerating any decode
// failure as empty text.
func readDocument(filename string, file multipart.File) string {
	data, err := io.ReadAll(file)
	if err != nil {
		return ""
	}
	return extract.Text(filename, data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"detail": message})
}
