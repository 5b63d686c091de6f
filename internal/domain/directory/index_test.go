package directory

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"pet-adoption-hub/internal/domain/users"
	"pet-adoption-hub/internal/ports/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	users []users.User
	calls atomic.Int32
	err   error
}

func (f *fakeSource) ListByRole(ctx context.Context, role users.Role) ([]users.User, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]users.User, 0)
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func doctor(uid, name, city string, show bool) users.User {
	return users.User{UID: uid, Name: name, City: city, Mobile: "98" + uid, Role: users.RoleMedicalContact, ShowInList: show}
}

func uids(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.UID)
	}
	return out
}

func TestIndex_OptedOutDoctorIsExcluded(t *testing.T) {
	src := &fakeSource{users: []users.User{
		doctor("d1", "Asha", "Pune", true),
		doctor("d2", "Bela", " pune ", true),
		doctor("d3", "Chitra", "Pune", false),
		{UID: "s1", Name: "Seeker", City: "Pune", Role: users.RoleSeeker, ShowInList: true},
	}}
	ix := NewIndex(src, Options{})
	require.NoError(t, ix.Build(context.Background()))

	got := ix.Search("PUNE")
	assert.Equal(t, []string{"d1", "d2"}, uids(got))
}

func TestIndex_Search_SubstringAndEmpty(t *testing.T) {
	src := &fakeSource{users: []users.User{
		doctor("d1", "Asha", "Navi Mumbai", true),
		doctor("d2", "Bela", "Mumbai", true),
		doctor("d3", "Chitra", "Delhi", true),
	}}
	ix := NewIndex(src, Options{})
	require.NoError(t, ix.Build(context.Background()))

	assert.ElementsMatch(t, []string{"d1", "d2"}, uids(ix.Search("mum")))
	assert.Equal(t, []string{"d3"}, uids(ix.Search("elh")))
	assert.Len(t, ix.Search(""), 3)
	assert.Empty(t, ix.Search("chennai"))
}

func TestIndex_ToggleVisibleOnlyAfterRebuild(t *testing.T) {
	src := &fakeSource{users: []users.User{doctor("d1", "Asha", "Pune", true)}}
	ix := NewIndex(src, Options{TTL: time.Hour})
	require.NoError(t, ix.Build(context.Background()))

	src.users[0].ShowInList = false
	assert.Len(t, ix.Search("pune"), 1, "no live push")

	require.NoError(t, ix.Build(context.Background()))
	assert.Empty(t, ix.Search("pune"))
}

func TestIndex_EnsureFresh_RespectsTTL(t *testing.T) {
	src := &fakeSource{users: []users.User{doctor("d1", "Asha", "Pune", true)}}
	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	ix := NewIndex(src, Options{TTL: time.Minute})
	ix.now = func() time.Time { return now }

	_, err := ix.Lookup(context.Background(), "pune")
	require.NoError(t, err)
	_, err = ix.Lookup(context.Background(), "pune")
	require.NoError(t, err)
	assert.EqualValues(t, 1, src.calls.Load())

	now = now.Add(time.Minute)
	_, err = ix.Lookup(context.Background(), "pune")
	require.NoError(t, err)
	assert.EqualValues(t, 2, src.calls.Load())
}

func TestIndex_Build_StoreUnavailable(t *testing.T) {
	src := &fakeSource{err: store.ErrUnavailable}
	ix := NewIndex(src, Options{})

	_, err := ix.Lookup(context.Background(), "")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
