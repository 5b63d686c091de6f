package animals

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-adoption-hub/internal/platform/logger"
	"pet-adoption-hub/internal/ports/store"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("animal not found")
	ErrStoreUnavailable = errors.New("record store unavailable")
)

// Catalog expone la vista consultable de animales.
type Catalog struct {
	repo Repository
	log  logger.Logger
	now  func() time.Time
}

func NewCatalog(repo Repository, log logger.Logger) *Catalog {
	if log == nil {
		log = logger.Nop()
	}
	return &Catalog{
		repo: repo,
		log:  log.With(map[string]any{"component": "catalog"}),
		now:  time.Now,
	}
}

// ListAvailable devuelve un snapshot de los animales con isAvailable = true.
func (c *Catalog) ListAvailable(ctx context.Context) ([]Animal, error) {
	items, err := c.repo.ListAvailable(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func (c *Catalog) Get(ctx context.Context, id string) (Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Animal{}, ErrNotFound
	}
	a, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return Animal{}, translate(err)
	}
	return a, nil
}

// ListByIDs resuelve ids a animales, omitiendo los que ya no existen.
func (c *Catalog) ListByIDs(ctx context.Context, ids []string) ([]Animal, error) {
	if len(ids) == 0 {
		return []Animal{}, nil
	}
	items, err := c.repo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, translate(err)
	}
	return items, nil
}

// Create es la única mutación del catálogo.
func (c *Catalog) Create(ctx context.Context, d Draft) (Animal, error) {
	a, err := d.normalize()
	if err != nil {
		return Animal{}, err
	}

	a.IsAvailable = true
	a.CreatedAt = c.now().UTC()

	stored, err := c.repo.Create(ctx, a)
	if err != nil {
		c.log.Error("create animal failed", map[string]any{"err": err.Error()})
		return Animal{}, translate(err)
	}

	c.log.Info("animal created", map[string]any{
		"animal_id": stored.ID,
		"purpose":   string(stored.Purpose),
		"city":      stored.City,
	})
	return stored, nil
}

// Missing devuelve los campos requeridos vacíos del draft (orden estable).
func (d Draft) Missing() []string {
	var out []string
	check := func(name, v string) {
		if strings.TrimSpace(v) == "" {
			out = append(out, name)
		}
	}
	check("name", d.Name)
	check("type", d.Type)
	check("purpose", d.Purpose)
	check("city", d.City)
	check("address", d.Address)
	check("imageUrl", d.ImageURL)
	return out
}

func (d Draft) normalize() (Animal, error) {
	if missing := d.Missing(); len(missing) > 0 {
		return Animal{}, fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}
	p, ok := ParsePurpose(d.Purpose)
	if !ok {
		return Animal{}, fmt.Errorf("%w: purpose must be Adopt or Help", ErrValidation)
	}

	var loc *Geo
	if d.Location != nil {
		g := *d.Location
		loc = &g
	}

	return Animal{
		Name:     strings.TrimSpace(d.Name),
		Type:     strings.TrimSpace(d.Type),
		Purpose:  p,
		City:     strings.TrimSpace(d.City),
		Address:  strings.TrimSpace(d.Address),
		ImageURL: strings.TrimSpace(d.ImageURL),
		Location: loc,
	}, nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrUnavailable):
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	default:
		return err
	}
}
