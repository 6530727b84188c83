// Package server 提供职业教练的 HTTP 接口。
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nlook/sparkcoach/internal/agent"
	"github.com/nlook/sparkcoach/internal/roadmap"
)

type Handler struct {
	coach    *agent.Coach
	roadmaps *roadmap.Generator
}

func NewHandler(coach *agent.Coach, roadmaps *roadmap.Generator) *Handler {
	return &Handler{coach: coach, roadmaps: roadmaps}
}

// JSON 按给定状态码写入 JSON 响应。
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error 写入 JSON 错误响应。
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.handleHealth)
	r.Post("/generate-roadmap", h.handleGenerateRoadmap)

	r.Route("/chat", func(r chi.Router) {
		r.Post("/start", h.handleChatStart)
		r.Post("/", h.handleChat)
		r.Get("/{threadID}/history", h.handleChatHistory)
		r.Delete("/{threadID}", h.handleChatReset)
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type roadmapRequest struct {
	Goal string `json:"goal"`
}

func (h *Handler) handleGenerateRoadmap(w http.ResponseWriter, r *http.Request) {
	var req roadmapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Goal == "" {
		Error(w, http.StatusBadRequest, "goal is required")
		return
	}

	rm, err := h.roadmaps.Generate(r.Context(), req.Goal)
	if err != nil {
		slog.Error("roadmap generation failed", "goal", req.Goal, "error", err)
		Error(w, http.StatusInternalServerError, "failed to generate roadmap")
		return
	}
	JSON(w, http.StatusOK, map[string]any{"roadmap": rm})
}

type chatStartRequest struct {
	ThreadID string `json:"thread_id"`
}

type chatStartResponse struct {
	ThreadID string `json:"thread_id"`
	Greeting string `json:"greeting"`
	Phase    string `json:"phase"`
}

func (h *Handler) handleChatStart(w http.ResponseWriter, r *http.Request) {
	var req chatStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ThreadID == "" {
		req.ThreadID = uuid.NewString()
	}

	res, err := h.coach.Start(r.Context(), req.ThreadID)
	if err != nil {
		slog.Error("chat start failed", "thread_id", req.ThreadID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to start conversation")
		return
	}
	JSON(w, http.StatusOK, chatStartResponse{
		ThreadID: req.ThreadID,
		Greeting: res.Greeting,
		Phase:    res.Phase,
	})
}

type chatRequest struct {
	ThreadID string `json:"thread_id"`
	Message  string `json:"message"`
}

type chatResponse struct {
	ThreadID        string              `json:"thread_id"`
	Response        string              `json:"response"`
	Phase           string              `json:"phase"`
	Recommendations []agent.CareerMatch `json:"recommendations,omitempty"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ThreadID == "" {
		Error(w, http.StatusBadRequest, "thread_id is required")
		return
	}
	if req.Message == "" {
		Error(w, http.StatusBadRequest, "message is required")
		return
	}

	res, err := h.coach.Submit(r.Context(), req.ThreadID, req.Message)
	if err != nil {
		slog.Error("chat submit failed", "thread_id", req.ThreadID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to process message")
		return
	}
	JSON(w, http.StatusOK, chatResponse{
		ThreadID:        req.ThreadID,
		Response:        res.Response,
		Phase:           res.Phase,
		Recommendations: res.Recommendations,
	})
}

type chatHistoryResponse struct {
	ThreadID        string              `json:"thread_id"`
	Messages        []agent.Turn        `json:"messages"`
	Profile         agent.UserProfile   `json:"profile"`
	Recommendations []agent.CareerMatch `json:"recommendations,omitempty"`
	Phase           string              `json:"phase"`
	Completeness    float64             `json:"completeness"`
}

func (h *Handler) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadID")

	res, err := h.coach.History(r.Context(), threadID)
	if err != nil {
		slog.Error("chat history failed", "thread_id", threadID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	JSON(w, http.StatusOK, chatHistoryResponse{
		ThreadID:        threadID,
		Messages:        res.Messages,
		Profile:         res.Profile,
		Recommendations: res.Recommendations,
		Phase:           res.Phase,
		Completeness:    res.Completeness,
	})
}

func (h *Handler) handleChatReset(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadID")

	deleted, err := h.coach.Reset(r.Context(), threadID)
	if err != nil {
		slog.Error("chat reset failed", "thread_id", threadID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to reset conversation")
		return
	}
	JSON(w, http.StatusOK, map[string]any{"thread_id": threadID, "deleted": deleted})
}
