package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"pet-adoption-hub/internal/domain/animals"
	"pet-adoption-hub/internal/ports/store"

	"github.com/google/uuid"
)

// AnimalsRepo es el record store de animales en memoria (modo dev y tests).
// El mutex hace que ClaimIfAvailable sea un compare-and-set real.
type AnimalsRepo struct {
	mu   sync.RWMutex
	byID map[string]animals.Animal
}

func NewAnimalsRepo() *AnimalsRepo {
	return &AnimalsRepo{byID: make(map[string]animals.Animal)}
}

func (r *AnimalsRepo) Create(ctx context.Context, a animals.Animal) (animals.Animal, error) {
	if err := ctx.Err(); err != nil {
		return animals.Animal{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	a.ID = uuid.NewString()
	a.Location = cloneGeo(a.Location)
	r.byID[a.ID] = a
	return clone(a), nil
}

func (r *AnimalsRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[strings.TrimSpace(id)]
	if !ok {
		return animals.Animal{}, store.ErrNotFound
	}
	return clone(a), nil
}

func (r *AnimalsRepo) ListAvailable(ctx context.Context) ([]animals.Animal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]animals.Animal, 0)
	for _, a := range r.byID {
		if a.IsAvailable {
			out = append(out, clone(a))
		}
	}

	// Orden por createdAt asc, id como desempate
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *AnimalsRepo) ListByIDs(ctx context.Context, ids []string) ([]animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]animals.Animal, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if a, ok := r.byID[id]; ok {
			out = append(out, clone(a))
		}
	}
	return out, nil
}

func (r *AnimalsRepo) SetClaimed(ctx context.Context, id, claimedBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	a.IsAvailable = false
	a.ClaimedBy = claimedBy
	r.byID[id] = a
	return nil
}

func (r *AnimalsRepo) ClaimIfAvailable(ctx context.Context, id, claimedBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	if !a.IsAvailable {
		if a.ClaimedBy == claimedBy {
			return nil
		}
		return store.ErrConditionFailed
	}
	a.IsAvailable = false
	a.ClaimedBy = claimedBy
	r.byID[id] = a
	return nil
}

func clone(a animals.Animal) animals.Animal {
	a.Location = cloneGeo(a.Location)
	return a
}

func cloneGeo(g *animals.Geo) *animals.Geo {
	if g == nil {
		return nil
	}
	c := *g
	return &c
}
