package intake

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"pet-adoption-hub/internal/domain/animals"
	"pet-adoption-hub/internal/platform/logger"
	"pet-adoption-hub/internal/platform/metrics"
	"pet-adoption-hub/internal/ports/media"

	"github.com/google/uuid"
)

var (
	// ErrIncompleteSubmission también matchea animals.ErrValidation.
	ErrIncompleteSubmission = fmt.Errorf("incomplete submission: %w", animals.ErrValidation)
	ErrMediaUnavailable     = errors.New("media store unavailable")
)

// Capture es la imagen ya capturada por el dispositivo.
type Capture struct {
	Body        []byte
	ContentType string
}

// Submission es el formulario de alta. Geo es opcional.
type Submission struct {
	Name    string
	Type    string
	Purpose string
	City    string
	Address string
	Media   *Capture
	Geo     *animals.Geo
}

// Creator es la parte del catálogo que usa intake.
type Creator interface {
	Create(ctx context.Context, d animals.Draft) (animals.Animal, error)
}

// Invalidator lo implementa la vista de disponibles (animals.Snapshot).
type Invalidator interface {
	Invalidate()
}

type Assembler struct {
	catalog Creator
	media   media.Store
	view    Invalidator
	log     logger.Logger
	metrics *metrics.Metrics
	newKey  func(ext string) string
}

type Options struct {
	View    Invalidator
	Logger  logger.Logger
	Metrics *metrics.Metrics
}

func NewAssembler(catalog Creator, store media.Store, opts Options) *Assembler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Assembler{
		catalog: catalog,
		media:   store,
		view:    opts.View,
		log:     log.With(map[string]any{"component": "intake"}),
		metrics: opts.Metrics,
		newKey:  func(ext string) string { return "animals/" + uuid.NewString() + ext },
	}
}

// Submit valida todo antes de subir nada: si falta algo no hay upload ni registro.
func (a *Assembler) Submit(ctx context.Context, s Submission) (animals.Animal, error) {
	contentType, err := a.validate(&s)
	if err != nil {
		a.metrics.IntakeRejectedInc()
		a.log.Info("submission rejected", map[string]any{"err": err.Error()})
		return animals.Animal{}, err
	}

	key := a.newKey(extension(contentType))
	url, err := a.media.Put(ctx, key, contentType, bytes.NewReader(s.Media.Body))
	if err != nil {
		a.log.Error("media upload failed", map[string]any{"err": err.Error(), "key": key})
		return animals.Animal{}, fmt.Errorf("%w: %v", ErrMediaUnavailable, err)
	}

	created, err := a.catalog.Create(ctx, animals.Draft{
		Name:     s.Name,
		Type:     s.Type,
		Purpose:  s.Purpose,
		City:     s.City,
		Address:  s.Address,
		ImageURL: url,
		Location: s.Geo,
	})
	if err != nil {
		// la imagen queda huérfana en el bucket
		a.log.Warn("animal create failed after upload", map[string]any{"err": err.Error(), "key": key})
		return animals.Animal{}, err
	}

	if a.view != nil {
		a.view.Invalidate()
	}
	a.metrics.AnimalCreated()
	a.log.Info("animal listed", map[string]any{
		"animal_id": created.ID,
		"purpose":   string(created.Purpose),
		"has_geo":   created.Location != nil,
	})
	return created, nil
}

func (a *Assembler) validate(s *Submission) (string, error) {
	missing := make([]string, 0)
	check := func(name string, v *string) {
		*v = strings.TrimSpace(*v)
		if *v == "" {
			missing = append(missing, name)
		}
	}
	check("name", &s.Name)
	check("type", &s.Type)
	check("purpose", &s.Purpose)
	check("city", &s.City)
	check("address", &s.Address)
	if s.Media == nil || len(s.Media.Body) == 0 {
		missing = append(missing, "image")
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: missing %s", ErrIncompleteSubmission, strings.Join(missing, ", "))
	}

	if _, ok := animals.ParsePurpose(s.Purpose); !ok {
		return "", fmt.Errorf("%w: purpose must be Adopt or Help", animals.ErrValidation)
	}

	contentType := strings.TrimSpace(s.Media.ContentType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(s.Media.Body)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: media must be an image, got %s", animals.ErrValidation, contentType)
	}

	if g := s.Geo; g != nil {
		if !inRange(g.Latitude, 90) || !inRange(g.Longitude, 180) {
			return "", fmt.Errorf("%w: location out of range", animals.ErrValidation)
		}
	}
	return contentType, nil
}

func inRange(v, limit float64) bool {
	return !math.IsNaN(v) && math.Abs(v) <= limit
}

func extension(contentType string) string {
	switch strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}
