package intake

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"pet-adoption-hub/internal/domain/animals"
	"pet-adoption-hub/internal/middleware"

	"github.com/go-chi/chi/v5"
)

const maxUpload = 10 << 20

func RegisterRoutes(r chi.Router, a *Assembler) {
	r.Post("/animals", submitHandler(a))
}

// submitHandler godoc
// @Summary  Publicar un animal (multipart: campos + image)
// @Accept   multipart/form-data
// @Param    name      formData string true  "nombre"
// @Param    type      formData string true  "especie"
// @Param    purpose   formData string true  "Adopt | Help"
// @Param    city      formData string true  "ciudad"
// @Param    address   formData string true  "dirección"
// @Param    latitude  formData number false "lat"
// @Param    longitude formData number false "lng"
// @Param    image     formData file   true  "foto"
// @Success  201 {object} animals.Animal
// @Router   /animals [post]
func submitHandler(a *Assembler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
		if err := r.ParseMultipartForm(maxUpload); err != nil {
			http.Error(w, "invalid multipart form", http.StatusBadRequest)
			return
		}

		sub := Submission{
			Name:    r.FormValue("name"),
			Type:    r.FormValue("type"),
			Purpose: r.FormValue("purpose"),
			City:    r.FormValue("city"),
			Address: r.FormValue("address"),
		}

		geo, err := parseGeo(r.FormValue("latitude"), r.FormValue("longitude"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		sub.Geo = geo

		if f, hdr, err := r.FormFile("image"); err == nil {
			body, rerr := io.ReadAll(f)
			_ = f.Close()
			if rerr != nil {
				http.Error(w, "cannot read image", http.StatusBadRequest)
				return
			}
			sub.Media = &Capture{Body: body, ContentType: hdr.Header.Get("Content-Type")}
		}

		created, err := a.Submit(r.Context(), sub)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

var errGeoPair = errors.New("latitude and longitude must be sent together")

// parseGeo: ambos vacíos => nil (sin ubicación).
func parseGeo(lat, lng string) (*animals.Geo, error) {
	lat, lng = strings.TrimSpace(lat), strings.TrimSpace(lng)
	if lat == "" && lng == "" {
		return nil, nil
	}
	if lat == "" || lng == "" {
		return nil, errGeoPair
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return nil, errors.New("invalid latitude")
	}
	lo, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return nil, errors.New("invalid longitude")
	}
	return &animals.Geo{Latitude: la, Longitude: lo}, nil
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, animals.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrMediaUnavailable), errors.Is(err, animals.ErrStoreUnavailable):
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
