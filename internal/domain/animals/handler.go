package animals

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"pet-adoption-hub/internal/ports/directions"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta las rutas de lectura del catálogo.
// El alta (POST /animals) vive en intake y el claim en claims.
func RegisterRoutes(r chi.Router, catalog *Catalog, view *Snapshot, launcher directions.Launcher) {
	r.Get("/animals", listAvailableHandler(view))
	r.Get("/animals/{animalID}", getAnimalHandler(catalog))
	r.Get("/animals/{animalID}/directions", directionsHandler(catalog, launcher))
}

type directionsResponse struct {
	URL string `json:"url"`
}

// listAvailableHandler godoc
// @Summary  Animales disponibles
// @Param    refresh query bool false "fuerza un fetch al store"
// @Success  200 {array} Animal
// @Router   /animals [get]
func listAvailableHandler(view *Snapshot) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			items []Animal
			err   error
		)
		if strings.EqualFold(r.URL.Query().Get("refresh"), "true") {
			items, err = view.Refresh(r.Context())
		} else {
			items, err = view.Items(r.Context())
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func getAnimalHandler(catalog *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := catalog.Get(r.Context(), chi.URLParam(r, "animalID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

func directionsHandler(catalog *Catalog, launcher directions.Launcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := catalog.Get(r.Context(), chi.URLParam(r, "animalID"))
		if err != nil {
			writeError(w, err)
			return
		}

		var p *directions.Point
		if a.Location != nil {
			p = &directions.Point{Latitude: a.Location.Latitude, Longitude: a.Location.Longitude}
		}

		url, err := launcher.URL(p)
		if err != nil {
			if errors.Is(err, directions.ErrLocationUnavailable) {
				http.Error(w, "location not available", http.StatusUnprocessableEntity)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, directionsResponse{URL: url})
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "animal not found", http.StatusNotFound)
	case errors.Is(err, ErrValidation):
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
