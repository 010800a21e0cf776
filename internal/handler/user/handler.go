package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"

	usermodel "github.com/lazy-care/backend/internal/model/user"
	userService "github.com/lazy-care/backend/internal/service/user"
	"github.com/lazy-care/backend/pkg/utils"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Handler exposes profile CRUD over HTTP.
type Handler struct {
	userSvc *userService.Service
}

// New creates a user handler.
func New(userSvc *userService.Service) *Handler {
	return &Handler{userSvc: userSvc}
}

// RegisterRoutes registers the profile routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/user", h.handleCreateOrUpdate)
	r.Get("/user/email/{email}", h.handleGet)
	r.Put("/user/email/{email}", h.handleUpdate)
	r.Delete("/user/email/{email}", h.handleClear)
}

func (h *Handler) handleCreateOrUpdate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Username == "" || payload.Email == "" {
		utils.RespondError(w, http.StatusBadRequest, "missing required fields: username and email are required")
		return
	}
	if !emailPattern.MatchString(payload.Email) {
		utils.RespondError(w, http.StatusBadRequest, "invalid email format")
		return
	}

	profile, created, err := h.userSvc.CreateOrUpdate(r.Context(), payload.Username, payload.Email)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	utils.RespondData(w, status, profile)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	profile, found, err := h.userSvc.GetByEmail(r.Context(), email)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		utils.RespondError(w, http.StatusNotFound, "user not found")
		return
	}

	utils.RespondData(w, http.StatusOK, profile)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	var payload struct {
		Username   *string               `json:"username"`
		Birthday   *string               `json:"birthday"`
		Weight     *float64              `json:"weight"`
		WeightUnit *usermodel.WeightUnit `json:"weight_unit"`
		Gender     *string               `json:"gender"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.Birthday != nil && !validBirthday(*payload.Birthday) {
		utils.RespondError(w, http.StatusBadRequest, "invalid birthday format, it must be a past date")
		return
	}

	update := userService.Update{
		Username:   payload.Username,
		Birthday:   payload.Birthday,
		Weight:     payload.Weight,
		WeightUnit: payload.WeightUnit,
		Gender:     payload.Gender,
	}

	profile, found, err := h.userSvc.UpdateByEmail(r.Context(), email, update)
	if err != nil {
		if errors.Is(err, userService.ErrInvalidUnit) {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		utils.RespondError(w, http.StatusNotFound, "user not found, unable to update")
		return
	}

	utils.RespondData(w, http.StatusOK, profile)
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	profile, found, err := h.userSvc.ClearByEmail(r.Context(), email)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		utils.RespondError(w, http.StatusNotFound, "user not found, unable to clear data")
		return
	}

	utils.RespondData(w, http.StatusOK, profile)
}

// validBirthday accepts a date-only or RFC3339 value strictly in the past.
func validBirthday(raw string) bool {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		t, err = time.Parse(time.RFC3339, raw)
	}
	if err != nil {
		return false
	}
	return t.Before(time.Now())
}
