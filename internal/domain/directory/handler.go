package directory

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, ix *Index) {
	r.Get("/doctors", searchHandler(ix))
}

// searchHandler godoc
// @Summary  Directorio de veterinarios por localidad
// @Param    city query string false "substring de la localidad"
// @Success  200 {array} Entry
// @Router   /doctors [get]
func searchHandler(ix *Index) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := ix.Lookup(r.Context(), r.URL.Query().Get("city"))
		if err != nil {
			if errors.Is(err, ErrStoreUnavailable) {
				http.Error(w, "store unavailable", http.StatusServiceUnavailable)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
