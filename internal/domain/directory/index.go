package directory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-adoption-hub/internal/domain/users"
	"pet-adoption-hub/internal/platform/logger"
	"pet-adoption-hub/internal/platform/metrics"
	"pet-adoption-hub/internal/ports/store"

	"golang.org/x/sync/singleflight"
)

var ErrStoreUnavailable = errors.New("record store unavailable")

// Entry es lo que se publica de un veterinario.
type Entry struct {
	UID    string `json:"uid"`
	Name   string `json:"name"`
	City   string `json:"city"`
	Mobile string `json:"mobile"`
	Email  string `json:"email"`
}

// Source es el query de usuarios por rol.
type Source interface {
	ListByRole(ctx context.Context, role users.Role) ([]users.User, error)
}

// Index agrupa los Doctor con showInList por localidad normalizada.
// Se reconstruye entero; el opt-in recién se ve en el próximo Build.
type Index struct {
	src     Source
	ttl     time.Duration
	now     func() time.Time
	log     logger.Logger
	metrics *metrics.Metrics
	group   singleflight.Group

	mu      sync.RWMutex
	byCity  map[string][]Entry
	keys    []string
	builtAt time.Time
}

type Options struct {
	// TTL para EnsureFresh; <= 0 reconstruye en cada consulta.
	TTL     time.Duration
	Logger  logger.Logger
	Metrics *metrics.Metrics
}

func NewIndex(src Source, opts Options) *Index {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Index{
		src:     src,
		ttl:     opts.TTL,
		now:     time.Now,
		log:     log.With(map[string]any{"component": "directory"}),
		metrics: opts.Metrics,
		byCity:  map[string][]Entry{},
	}
}

// Normalize es la clave de localidad: trim + lowercase.
func Normalize(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

// Build re-consulta todos los Doctor y reemplaza el índice.
func (ix *Index) Build(ctx context.Context) error {
	_, err, _ := ix.group.Do("build", func() (any, error) {
		docs, err := ix.src.ListByRole(ctx, users.RoleMedicalContact)
		if err != nil {
			if errors.Is(err, store.ErrUnavailable) {
				return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
			}
			return nil, err
		}

		byCity := make(map[string][]Entry)
		total := 0
		for _, u := range docs {
			if !u.Listed() {
				continue
			}
			key := Normalize(u.City)
			byCity[key] = append(byCity[key], Entry{
				UID: u.UID, Name: u.Name, City: u.City, Mobile: u.Mobile, Email: u.Email,
			})
			total++
		}

		keys := make([]string, 0, len(byCity))
		for k, entries := range byCity {
			sort.Slice(entries, func(i, j int) bool {
				if entries[i].Name != entries[j].Name {
					return entries[i].Name < entries[j].Name
				}
				return entries[i].UID < entries[j].UID
			})
			keys = append(keys, k)
		}
		sort.Strings(keys)

		ix.mu.Lock()
		ix.byCity = byCity
		ix.keys = keys
		ix.builtAt = ix.now()
		ix.mu.Unlock()

		ix.metrics.DirectoryRebuilt(total)
		ix.log.Debug("directory rebuilt", map[string]any{"entries": total, "localities": len(keys)})
		return nil, nil
	})
	return err
}

// EnsureFresh reconstruye si nunca se construyó o si pasó el TTL.
func (ix *Index) EnsureFresh(ctx context.Context) error {
	ix.mu.RLock()
	stale := ix.builtAt.IsZero() || ix.ttl <= 0 || ix.now().Sub(ix.builtAt) >= ix.ttl
	ix.mu.RUnlock()
	if !stale {
		return nil
	}
	return ix.Build(ctx)
}

// Search: substring case-insensitive sobre la localidad. Vacío => todo.
func (ix *Index) Search(query string) []Entry {
	q := Normalize(query)

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := make([]Entry, 0)
	for _, k := range ix.keys {
		if q == "" || strings.Contains(k, q) {
			out = append(out, ix.byCity[k]...)
		}
	}
	return out
}

// Lookup = EnsureFresh + Search.
func (ix *Index) Lookup(ctx context.Context, query string) ([]Entry, error) {
	if err := ix.EnsureFresh(ctx); err != nil {
		return nil, err
	}
	return ix.Search(query), nil
}
