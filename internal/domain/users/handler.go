package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"pet-adoption-hub/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	// Alta del documento de usuario (la cuenta ya existe en el identity provider)
	r.Post("/users", registerHandler(svc))

	// /me/* queda plano: claims también cuelga rutas de /me
	r.Get("/me/profile", profileHandler(svc))
	r.Patch("/me/directory", directoryOptInHandler(svc))
}

type registerRequest struct {
	Name   string `json:"name"`
	City   string `json:"city"`
	Mobile string `json:"mobile"`
	Role   string `json:"role"`
}

type directoryOptInRequest struct {
	ShowInList *bool `json:"show_in_list"`
}

func registerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		u, err := svc.Register(r.Context(), claims.UserID, claims.Email, RegisterInput{
			Name:   req.Name,
			City:   req.City,
			Mobile: req.Mobile,
			Role:   req.Role,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, u)
	}
}

func profileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.Profile(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func directoryOptInHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req directoryOptInRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ShowInList == nil {
			http.Error(w, "show_in_list required", http.StatusBadRequest)
			return
		}

		u, err := svc.SetShowInDirectory(r.Context(), claims.UserID, *req.ShowInList)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	case errors.Is(err, ErrAlreadyExists):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrNotMedicalContact):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrStoreUnavailable):
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
