package claims

import (
	"encoding/json"
	"errors"
	"net/http"

	"pet-adoption-hub/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, c *Coordinator) {
	r.Post("/animals/{animalID}/claim", claimHandler(c))

	// Recupero de un claim parcial: solo reintenta el write del perfil.
	r.Post("/me/claims/retry", retryHandler(c))
}

type claimRequest struct {
	Purpose string `json:"purpose"`
}

type retryRequest struct {
	AnimalID string `json:"animal_id"`
	Purpose  string `json:"purpose"`
}

type partialResponse struct {
	Error    string `json:"error"`
	AnimalID string `json:"animal_id"`
	Purpose  string `json:"purpose"`
	Retry    string `json:"retry"`
}

func claimHandler(c *Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req claimRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := c.Claim(r.Context(), chi.URLParam(r, "animalID"), claims, req.Purpose)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func retryHandler(c *Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req retryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := c.RetryProfile(r.Context(), req.AnimalID, claims, req.Purpose)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func writeError(w http.ResponseWriter, err error) {
	var partial *PartialClaimError
	switch {
	case errors.As(err, &partial):
		// 202: el animal ya es del usuario, falta registrar el perfil.
		writeJSON(w, http.StatusAccepted, partialResponse{
			Error:    "partial claim failure",
			AnimalID: partial.AnimalID,
			Purpose:  string(partial.Purpose),
			Retry:    "/me/claims/retry",
		})
	case errors.Is(err, ErrUnauthenticated):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "animal not found", http.StatusNotFound)
	case errors.Is(err, ErrAlreadyClaimed):
		http.Error(w, "someone already claimed this animal", http.StatusConflict)
	case errors.Is(err, ErrNotClaimant), errors.Is(err, ErrNoProfile):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrInvalidPurpose):
		http.Error(w, err.Error(), http.StatusBadRequest)
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
