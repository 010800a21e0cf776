package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lazy-care/backend/internal/service/ai"
	chatService "github.com/lazy-care/backend/internal/service/chat"
	"github.com/lazy-care/backend/pkg/utils"
)

// Handler exposes the chat history store over HTTP.
type Handler struct {
	chatSvc *chatService.Service
}

// New creates a chat handler.
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes registers the chat routes. The static "email" segment must
// come before the parameterized delete so delete-all wins that path.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/{email}", h.handleAppendExchange)
	r.Get("/chat/{email}", h.handleListHistory)
	r.Delete("/chat/email/{email}", h.handleDeleteAll)
	r.Delete("/chat/{email}/{timestamp}", h.handleDeleteMessage)
}

func (h *Handler) handleAppendExchange(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	record, err := h.chatSvc.AppendExchange(r.Context(), email, payload.Message)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondData(w, http.StatusCreated, record)
}

func (h *Handler) handleListHistory(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	history, err := h.chatSvc.ListHistory(r.Context(), email)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondData(w, http.StatusOK, history)
}

func (h *Handler) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	timestamp := chi.URLParam(r, "timestamp")

	found, err := h.chatSvc.DeleteMessage(r.Context(), email, timestamp)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if !found {
		utils.RespondError(w, http.StatusNotFound, "chat message not found")
		return
	}

	utils.RespondMessage(w, http.StatusOK, "chat message deleted")
}

func (h *Handler) handleDeleteAll(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	removed, err := h.chatSvc.DeleteAll(r.Context(), email)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if removed == 0 {
		utils.RespondError(w, http.StatusNotFound, fmt.Sprintf("no chat messages found for email: %s", email))
		return
	}

	utils.RespondMessage(w, http.StatusOK, fmt.Sprintf("all chat records for %s have been deleted", email))
}

// respondServiceError maps store errors onto HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chatService.ErrEmailRequired), errors.Is(err, chatService.ErrMessageRequired):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ai.ErrUpstream):
		utils.RespondError(w, http.StatusBadGateway, "failed to generate AI response")
	default:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
	}
}
