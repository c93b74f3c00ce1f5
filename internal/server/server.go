// Package server provides the HTTP API for GovGPT.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/govgpt/govgpt/internal/config"
	"github.com/govgpt/govgpt/internal/models"
	"github.com/govgpt/govgpt/internal/pipeline"
)

// ChatPipeline is the slice of the response router the HTTP layer needs.
type ChatPipeline interface {
	Stream(ctx context.Context, question string, opts pipeline.Options) <-chan models.StreamEvent
	Message(ctx context.Context, question string, opts pipeline.Options) *models.ChatResponse
	Report(ctx context.Context, question string, opts pipeline.Options) (*models.DecisionReport, error)
}

// DocumentIndexer is the slice of the document retriever the HTTP layer needs.
type DocumentIndexer interface {
	IndexDocument(ctx context.Context, input *models.DocumentInput) (string, error)
	DeleteDocument(ctx context.Context, id string) error
	Counts(ctx context.Context) (docs, chunks int64, err error)
}

// Server is the HTTP server for the GovGPT API.
type Server struct {
	chat      ChatPipeline
	documents DocumentIndexer
	config    *config.Config
	logger    *zap.Logger
	server    *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(chat ChatPipeline, documents DocumentIndexer, cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		chat:      chat,
		documents: documents,
		config:    cfg,
		logger:    logger,
	}
}

// Routes builds the router. Separate from Start so tests can drive the
// handlers without binding a port.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	// The stream endpoint sits outside the timeout and compression
	// middleware: narrative generation legitimately outlives a
	// request/response budget, and buffering compressors break
	// event flushing.
	r.Post("/api/v1/chat/stream", s.handleChatStream)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Logger)
		r.Use(middleware.Timeout(120 * time.Second))
		r.Use(middleware.Compress(5))
		r.Post("/api/v1/chat/message", s.handleChatMessage)
		r.Post("/api/v1/chat/report", s.handleChatReport)
		r.Post("/api/v1/documents", s.handleIndexDocument)
		r.Delete("/api/v1/documents/{id}", s.handleDeleteDocument)
		r.Get("/api/v1/status", s.handleStatus)
		r.Get("/health", s.handleHealth)
	})
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
