package memory

import (
	"context"
	"sort"
	"sync"

	"pet-adoption-hub/internal/domain/users"
	"pet-adoption-hub/internal/ports/store"
)

type claimRef struct {
	uid string
	set users.ClaimSet
}

// UsersRepo guarda perfiles en memoria. claims indexa animalID => dueño
// para que un animal no quede en dos sets (ni en dos usuarios).
type UsersRepo struct {
	mu     sync.RWMutex
	byID   map[string]users.User
	claims map[string]claimRef
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		byID:   make(map[string]users.User),
		claims: make(map[string]claimRef),
	}
}

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[u.UID]; exists {
		return store.ErrConflict
	}
	u.AdoptedAnimals = append([]string{}, u.AdoptedAnimals...)
	u.HelpedAnimals = append([]string{}, u.HelpedAnimals...)
	r.byID[u.UID] = u
	for _, id := range u.AdoptedAnimals {
		r.claims[id] = claimRef{uid: u.UID, set: users.SetAdopted}
	}
	for _, id := range u.HelpedAnimals {
		r.claims[id] = claimRef{uid: u.UID, set: users.SetHelped}
	}
	return nil
}

func (r *UsersRepo) GetByID(ctx context.Context, uid string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[uid]
	if !ok {
		return users.User{}, store.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UsersRepo) ListByRole(ctx context.Context, role users.Role) ([]users.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]users.User, 0)
	for _, u := range r.byID {
		if u.Role == role {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	return out, nil
}

func (r *UsersRepo) SetShowInList(ctx context.Context, uid string, show bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[uid]
	if !ok {
		return store.ErrNotFound
	}
	u.ShowInList = show
	r.byID[uid] = u
	return nil
}

func (r *UsersRepo) AppendClaim(ctx context.Context, uid, animalID string, set users.ClaimSet) error {
	if !set.Valid() {
		return store.ErrConflict
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[uid]
	if !ok {
		return store.ErrNotFound
	}
	if ref, taken := r.claims[animalID]; taken {
		if ref.uid == uid && ref.set == set {
			return nil
		}
		return store.ErrConflict
	}

	switch set {
	case users.SetAdopted:
		u.AdoptedAnimals = append(u.AdoptedAnimals, animalID)
	case users.SetHelped:
		u.HelpedAnimals = append(u.HelpedAnimals, animalID)
	}
	r.byID[uid] = u
	r.claims[animalID] = claimRef{uid: uid, set: set}
	return nil
}

func cloneUser(u users.User) users.User {
	u.AdoptedAnimals = append([]string{}, u.AdoptedAnimals...)
	u.HelpedAnimals = append([]string{}, u.HelpedAnimals...)
	return u
}
