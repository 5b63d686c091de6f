package users

import (
	"context"
	"errors"
	"testing"

	"pet-adoption-hub/internal/domain/animals"
	"pet-adoption-hub/internal/ports/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	byID map[string]User
}

func newTestRepo() *testRepo { return &testRepo{byID: map[string]User{}} }

func (r *testRepo) Create(ctx context.Context, u User) error {
	if _, ok := r.byID[u.UID]; ok {
		return store.ErrConflict
	}
	r.byID[u.UID] = u
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, uid string) (User, error) {
	u, ok := r.byID[uid]
	if !ok {
		return User{}, store.ErrNotFound
	}
	return u, nil
}

func (r *testRepo) ListByRole(ctx context.Context, role Role) ([]User, error) {
	out := make([]User, 0)
	for _, u := range r.byID {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *testRepo) SetShowInList(ctx context.Context, uid string, show bool) error {
	u, ok := r.byID[uid]
	if !ok {
		return store.ErrNotFound
	}
	u.ShowInList = show
	r.byID[uid] = u
	return nil
}

func (r *testRepo) AppendClaim(ctx context.Context, uid, animalID string, set ClaimSet) error {
	u := r.byID[uid]
	switch set {
	case SetAdopted:
		u.AdoptedAnimals = append(u.AdoptedAnimals, animalID)
	case SetHelped:
		u.HelpedAnimals = append(u.HelpedAnimals, animalID)
	}
	r.byID[uid] = u
	return nil
}

type lookupFunc func(ctx context.Context, ids []string) ([]animals.Animal, error)

func (f lookupFunc) ListByIDs(ctx context.Context, ids []string) ([]animals.Animal, error) {
	return f(ctx, ids)
}

func TestService_Register_DefaultsAndValidation(t *testing.T) {
	svc := NewService(newTestRepo(), nil, nil)

	u, err := svc.Register(context.Background(), "uid-1", "vet@example.com", RegisterInput{
		Name: "Asha", City: "Pune", Mobile: "98200", Role: "Doctor",
	})
	require.NoError(t, err)
	assert.Equal(t, RoleMedicalContact, u.Role)
	assert.True(t, u.ShowInList, "directory opt-in defaults to true")
	assert.Empty(t, u.AdoptedAnimals)
	assert.Empty(t, u.HelpedAnimals)

	_, err = svc.Register(context.Background(), "uid-1", "vet@example.com", RegisterInput{
		Name: "Asha", City: "Pune", Mobile: "98200", Role: "Doctor",
	})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = svc.Register(context.Background(), "uid-2", "x@example.com", RegisterInput{
		Name: "Ravi", City: "Pune", Mobile: "", Role: "User",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(context.Background(), "uid-3", "x@example.com", RegisterInput{
		Name: "Ravi", City: "Pune", Mobile: "1", Role: "Admin",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Profile_HydratesBothSets(t *testing.T) {
	repo := newTestRepo()
	repo.byID["u1"] = User{
		UID:            "u1",
		Role:           RoleSeeker,
		AdoptedAnimals: []string{"a1", "gone"},
		HelpedAnimals:  []string{"a2"},
	}

	known := map[string]animals.Animal{
		"a1": {ID: "a1", Name: "Milo"},
		"a2": {ID: "a2", Name: "Luna"},
	}
	lookup := lookupFunc(func(ctx context.Context, ids []string) ([]animals.Animal, error) {
		out := []animals.Animal{}
		for _, id := range ids {
			if a, ok := known[id]; ok {
				out = append(out, a)
			}
		}
		return out, nil
	})

	svc := NewService(repo, lookup, nil)
	p, err := svc.Profile(context.Background(), "u1")
	require.NoError(t, err)

	require.Len(t, p.Adopted, 1, "missing ids are skipped")
	assert.Equal(t, "Milo", p.Adopted[0].Name)
	require.Len(t, p.Helped, 1)
	assert.Equal(t, "Luna", p.Helped[0].Name)
}

func TestService_Profile_PropagatesStoreUnavailable(t *testing.T) {
	repo := newTestRepo()
	repo.byID["u1"] = User{UID: "u1", AdoptedAnimals: []string{"a1"}}

	lookup := lookupFunc(func(ctx context.Context, ids []string) ([]animals.Animal, error) {
		return nil, store.ErrUnavailable
	})

	_, err := NewService(repo, lookup, nil).Profile(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestService_SetShowInDirectory(t *testing.T) {
	repo := newTestRepo()
	repo.byID["doc"] = User{UID: "doc", Role: RoleMedicalContact, ShowInList: true}
	repo.byID["seeker"] = User{UID: "seeker", Role: RoleSeeker}
	svc := NewService(repo, nil, nil)

	u, err := svc.SetShowInDirectory(context.Background(), "doc", false)
	require.NoError(t, err)
	assert.False(t, u.ShowInList)
	assert.False(t, repo.byID["doc"].ShowInList)

	_, err = svc.SetShowInDirectory(context.Background(), "seeker", false)
	assert.True(t, errors.Is(err, ErrNotMedicalContact))

	_, err = svc.SetShowInDirectory(context.Background(), "nobody", true)
	assert.ErrorIs(t, err, ErrNotFound)
}
