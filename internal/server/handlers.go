package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/govgpt/govgpt/internal/models"
	"github.com/govgpt/govgpt/internal/pipeline"
)

// decodeChatRequest parses the chat request body. The include flags default
// to true, so they are pre-set before decoding; only an explicit false in
// the body turns a source off.
func decodeChatRequest(r *http.Request) (*models.ChatRequest, error) {
	req := &models.ChatRequest{IncludeNews: true, IncludeSentiment: true}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return nil, fmt.Errorf("invalid request body")
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("message is required")
	}
	return req, nil
}

func chatOptions(req *models.ChatRequest) pipeline.Options {
	return pipeline.Options{
		IncludeNews:      req.IncludeNews,
		IncludeSentiment: req.IncludeSentiment,
	}
}

func (s *Server) handleChatMessage(w http.ResponseWriter, r *http.Request) {
	req, err := decodeChatRequest(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("chat message request", zap.String("message", req.Message))
	resp := s.chat.Message(r.Context(), req.Message, chatOptions(req))
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	req, err := decodeChatRequest(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	s.logger.Debug("chat stream request", zap.String("message", req.Message))
	for ev := range s.chat.Stream(r.Context(), req.Message, chatOptions(req)) {
		payload, err := json.Marshal(ev)
		if err != nil {
			s.logger.Error("failed to encode stream event", zap.Error(err))
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	}
}

func (s *Server) handleChatReport(w http.ResponseWriter, r *http.Request) {
	req, err := decodeChatRequest(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("chat report request", zap.String("message", req.Message))
	report, err := s.chat.Report(r.Context(), req.Message, chatOptions(req))
	if err != nil {
		s.logger.Error("report generation failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleIndexDocument(w http.ResponseWriter, r *http.Request) {
	var input models.DocumentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("index document request", zap.String("id", input.ID), zap.String("filename", input.Filename))
	id, err := s.documents.IndexDocument(r.Context(), &input)
	if err != nil {
		s.logger.Error("indexing failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]string{"id": id, "status": "indexed"})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete document request", zap.String("id", id))
	if err := s.documents.DeleteDocument(r.Context(), id); err != nil {
		s.logger.Error("deletion failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"documents": int64(0),
		"chunks":    int64(0),
	}
	if s.documents != nil {
		docs, chunks, err := s.documents.Counts(r.Context())
		if err != nil {
			s.logger.Error("status: counts failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp["documents"] = docs
		resp["chunks"] = chunks
	}

	if s.config != nil {
		resp["config"] = map[string]interface{}{
			"topic_anchor":       s.config.Topic.Anchor,
			"llm_model":          s.config.LLM.Model,
			"llm_configured":     s.config.LLM.APIKey() != "",
			"news_enabled":       !s.config.News.Disabled,
			"videos_enabled":     !s.config.Videos.Disabled && s.config.Videos.APIKey() != "",
			"social_enabled":     !s.config.Social.Disabled,
			"database_path":      s.config.Storage.DatabasePath,
			"bleve_index_path":   s.config.Storage.BleveIndexPath,
			"retrieval_limit":    s.config.Retrieval.Limit,
			"chunk_size":         s.config.Retrieval.ChunkSize,
			"chunk_overlap":      s.config.Retrieval.ChunkOverlap,
			"news_lookback_days": s.config.News.LookbackDays,
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
