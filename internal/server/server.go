// Package server exposes the screening pipeline over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/talentsift/talentsift/internal/ai"
	"github.com/talentsift/talentsift/internal/screening"
	"github.com/talentsift/talentsift/internal/storage"
)

// Documents shorter than this carry too little text to screen. Applies to
// the JD and to each resume individually.
const minTextLength = 20

type screener interface {
	Screen(ctx context.Context, sourceFile, text, jdText, position string) *screening.CandidateRecord
}

type scorer interface {
	Score(ctx context.Context, resumeText, jdText, position string) *ai.Outcome
}

type resumeStore interface {
	SaveResume(ctx context.Context, resume *storage.Resume) error
	Shortlist(ctx context.Context, category string, minExp, maxExp float64) ([]*storage.Resume, error)
	ResumeLocation(ctx context.Context, resumeID string) (driveID, itemID, name string, err error)
}

type fileDownloader interface {
	DownloadItem(ctx context.Context, driveID, itemID string) ([]byte, error)
}

// Server wires the HTTP routes to the screening pipeline. The store and the
// downloader are optional: without a store uploads are screened but not
// persisted and the shortlist route answers 503, without a downloader the
// resume download route answers 503.
type Server struct {
	screener   screener
	engine     scorer
	store      resumeStore
	downloader fileDownloader
	logger     *zap.Logger
}

func New(sc screener, engine scorer, store resumeStore, downloader fileDownloader, logger *zap.Logger) *Server {
	return &Server{
		screener:   sc,
		engine:     engine,
		store:      store,
		downloader: downloader,
		logger:     logger,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/api/process-resumes", s.processResumesHandler)
	mux.HandleFunc("/api/shortlist", s.shortlistHandler)
	mux.HandleFunc("/resumes/{id}/download", s.downloadResumeHandler)
	return mux
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
