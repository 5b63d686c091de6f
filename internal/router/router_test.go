package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	mem "pet-adoption-hub/internal/adapters/storage/memory"
	"pet-adoption-hub/internal/domain/users"
	"pet-adoption-hub/internal/ports/store"
	"pet-adoption-hub/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// png mínimo: alcanza para que http.DetectContentType lo vea como image/png.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestHTTP_EndToEnd_ListClaimProfile(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	seeker := "seeker-1"
	doctor := "doctor-1"

	// 1) Alta de usuarios
	register(t, ts.URL, seeker, map[string]any{"name": "Ravi", "city": "Pune", "mobile": "98200", "role": "User"})
	register(t, ts.URL, doctor, map[string]any{"name": "Asha", "city": "Navi Mumbai", "mobile": "98201", "role": "Doctor"})

	// 2) Publicación sin imagen: 400 y nada listado
	{
		st, body := submitAnimal(t, ts.URL, seeker, map[string]string{
			"name": "Milo", "type": "Dog", "purpose": "Adopt", "city": "Pune", "address": "MG Road",
		}, nil)
		require.Equal(t, http.StatusBadRequest, st, string(body))
	}

	// 3) Publicación completa
	withGeo := createAnimal(t, ts.URL, seeker, map[string]string{
		"name": "Milo", "type": "Dog", "purpose": "Adopt", "city": "Pune", "address": "MG Road",
		"latitude": "18.52", "longitude": "73.85",
	})
	noGeo := createAnimal(t, ts.URL, seeker, map[string]string{
		"name": "Luna", "type": "Cat", "purpose": "Help", "city": "Pune", "address": "FC Road",
	})

	// 4) Lista de disponibles
	listed := listAvailable(t, ts.URL, seeker)
	assert.ElementsMatch(t, []string{withGeo, noGeo}, listed)

	// 5) Directions
	{
		st, body := doReq(t, ts.URL, "GET", "/animals/"+withGeo+"/directions", seeker, nil)
		require.Equal(t, http.StatusOK, st, string(body))
		var out struct {
			URL string `json:"url"`
		}
		require.NoError(t, json.Unmarshal(body, &out))
		assert.Equal(t, "https://www.google.com/maps/dir/?api=1&destination=18.52,73.85", out.URL)

		st, _ = doReq(t, ts.URL, "GET", "/animals/"+noGeo+"/directions", seeker, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, st)
	}

	// 6) Claim sin identidad
	{
		st, _ := doReq(t, ts.URL, "POST", "/animals/"+withGeo+"/claim", "", map[string]any{"purpose": "Adopt"})
		assert.Equal(t, http.StatusUnauthorized, st)
	}

	// 7) Claim exitoso y segundo claim rechazado
	{
		st, body := doReq(t, ts.URL, "POST", "/animals/"+withGeo+"/claim", seeker, map[string]any{"purpose": "Adopt"})
		require.Equal(t, http.StatusOK, st, string(body))
		var res struct {
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(body, &res))
		assert.Equal(t, "Thank you for choosing to adopt!", res.Message)

		st, _ = doReq(t, ts.URL, "POST", "/animals/"+withGeo+"/claim", doctor, map[string]any{"purpose": "Adopt"})
		assert.Equal(t, http.StatusConflict, st)
	}

	// 8) Ya no aparece en la lista
	assert.Equal(t, []string{noGeo}, listAvailable(t, ts.URL, seeker))

	// 9) Perfil con el animal resuelto
	{
		st, body := doReq(t, ts.URL, "GET", "/me/profile", seeker, nil)
		require.Equal(t, http.StatusOK, st, string(body))
		var p struct {
			Adopted []struct {
				ID string `json:"id"`
			} `json:"adoptedAnimals"`
			Helped []struct {
				ID string `json:"id"`
			} `json:"helpedAnimals"`
		}
		require.NoError(t, json.Unmarshal(body, &p))
		require.Len(t, p.Adopted, 1)
		assert.Equal(t, withGeo, p.Adopted[0].ID)
		assert.Empty(t, p.Helped)
	}

	// 10) Directorio
	{
		st, body := doReq(t, ts.URL, "GET", "/doctors?city=mumbai", seeker, nil)
		require.Equal(t, http.StatusOK, st, string(body))
		var entries []struct {
			UID string `json:"uid"`
		}
		require.NoError(t, json.Unmarshal(body, &entries))
		require.Len(t, entries, 1)
		assert.Equal(t, doctor, entries[0].UID)

		// un seeker no puede tocar el opt-in
		st, _ = doReq(t, ts.URL, "PATCH", "/me/directory", seeker, map[string]any{"show_in_list": false})
		assert.Equal(t, http.StatusForbidden, st)
	}
}

func TestHTTP_Claim_ConcurrentSingleWinner(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	const n = 8
	uids := make([]string, n)
	for i := range uids {
		uids[i] = "u-" + string(rune('a'+i))
		register(t, ts.URL, uids[i], map[string]any{"name": "N", "city": "Pune", "mobile": "1", "role": "User"})
	}
	id := createAnimal(t, ts.URL, uids[0], map[string]string{
		"name": "Milo", "type": "Dog", "purpose": "Adopt", "city": "Pune", "address": "MG Road",
	})

	var (
		wg       sync.WaitGroup
		won      atomic.Int32
		conflict atomic.Int32
	)
	for _, uid := range uids {
		wg.Add(1)
		go func(uid string) {
			defer wg.Done()
			st, _ := doReq(t, ts.URL, "POST", "/animals/"+id+"/claim", uid, map[string]any{"purpose": "Adopt"})
			switch st {
			case http.StatusOK:
				won.Add(1)
			case http.StatusConflict:
				conflict.Add(1)
			}
		}(uid)
	}
	wg.Wait()

	assert.EqualValues(t, 1, won.Load())
	assert.EqualValues(t, n-1, conflict.Load())
}

// flakyUsers falla el primer AppendClaim.
type flakyUsers struct {
	*mem.UsersRepo
	failures atomic.Int32
}

func (f *flakyUsers) AppendClaim(ctx context.Context, uid, animalID string, set users.ClaimSet) error {
	if f.failures.Add(1) == 1 {
		return store.ErrUnavailable
	}
	return f.UsersRepo.AppendClaim(ctx, uid, animalID, set)
}

func TestHTTP_Claim_PartialThenRetry(t *testing.T) {
	repo := &flakyUsers{UsersRepo: mem.NewUsersRepo()}
	ts := httptest.NewServer(router.NewRouter(router.Options{Users: repo}))
	defer ts.Close()

	uid := "seeker-1"
	register(t, ts.URL, uid, map[string]any{"name": "Ravi", "city": "Pune", "mobile": "1", "role": "User"})
	id := createAnimal(t, ts.URL, uid, map[string]string{
		"name": "Luna", "type": "Cat", "purpose": "Help", "city": "Pune", "address": "FC Road",
	})

	st, body := doReq(t, ts.URL, "POST", "/animals/"+id+"/claim", uid, map[string]any{"purpose": "Help"})
	require.Equal(t, http.StatusAccepted, st, string(body))
	var partial struct {
		AnimalID string `json:"animal_id"`
		Retry    string `json:"retry"`
	}
	require.NoError(t, json.Unmarshal(body, &partial))
	assert.Equal(t, id, partial.AnimalID)

	// el animal ya no está disponible aunque el perfil no lo tenga
	assert.Empty(t, listAvailable(t, ts.URL, uid))

	// otro usuario no puede reintentar
	st, _ = doReq(t, ts.URL, "POST", partial.Retry, "intruder", map[string]any{"animal_id": id, "purpose": "Help"})
	assert.Equal(t, http.StatusForbidden, st)

	st, body = doReq(t, ts.URL, "POST", partial.Retry, uid, map[string]any{"animal_id": id, "purpose": "Help"})
	require.Equal(t, http.StatusOK, st, string(body))

	u, err := repo.GetByID(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, []string{id}, u.HelpedAnimals)
}

func TestHTTP_Claim_UnregisteredIdentityKeepsAnimalAvailable(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	owner := "poster-1"
	register(t, ts.URL, owner, map[string]any{"name": "Ravi", "city": "Pune", "mobile": "1", "role": "User"})
	id := createAnimal(t, ts.URL, owner, map[string]string{
		"name": "Milo", "type": "Dog", "purpose": "Adopt", "city": "Pune", "address": "MG Road",
	})

	st, body := doReq(t, ts.URL, "POST", "/animals/"+id+"/claim", "ghost", map[string]any{"purpose": "Adopt"})
	assert.Equal(t, http.StatusForbidden, st, string(body))
	assert.Equal(t, []string{id}, listAvailable(t, ts.URL, owner))

	register(t, ts.URL, "ghost", map[string]any{"name": "G", "city": "Pune", "mobile": "2", "role": "User"})
	st, body = doReq(t, ts.URL, "POST", "/animals/"+id+"/claim", "ghost", map[string]any{"purpose": "Adopt"})
	assert.Equal(t, http.StatusOK, st, string(body))
}

func TestHTTP_Claim_IdentityCheckedBeforeBody(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	for _, path := range []string{"/animals/any/claim", "/me/claims/retry"} {
		req, err := http.NewRequest(http.MethodPost, ts.URL+path, bytes.NewReader([]byte("not json")))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")

		st, body := send(t, req)
		assert.Equal(t, http.StatusUnauthorized, st, "%s: %s", path, string(body))
	}
}

func TestHTTP_HealthAndMetrics(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	st, body := doReq(t, ts.URL, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, st)
	assert.Equal(t, "ok", string(body))

	st, _ = doReq(t, ts.URL, "GET", "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, st)
}

// ---------------- helpers ----------------

func register(t *testing.T, baseURL, uid string, body map[string]any) {
	t.Helper()
	st, b := doReq(t, baseURL, "POST", "/users", uid, body)
	require.Equal(t, http.StatusCreated, st, "register %s: %s", uid, string(b))
}

func createAnimal(t *testing.T, baseURL, uid string, fields map[string]string) string {
	t.Helper()
	st, body := submitAnimal(t, baseURL, uid, fields, pngBytes)
	require.Equal(t, http.StatusCreated, st, string(body))

	var out struct {
		ID       string `json:"id"`
		ImageURL string `json:"imageUrl"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.ID)
	require.NotEmpty(t, out.ImageURL)
	return out.ID
}

func submitAnimal(t *testing.T, baseURL, uid string, fields map[string]string, image []byte) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "photo.png")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, baseURL+"/animals", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Debug-User-ID", uid)
	return send(t, req)
}

func listAvailable(t *testing.T, baseURL, uid string) []string {
	t.Helper()
	st, body := doReq(t, baseURL, "GET", "/animals?refresh=true", uid, nil)
	require.Equal(t, http.StatusOK, st, string(body))

	var items []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &items))
	out := make([]string, 0, len(items))
	for _, a := range items {
		out = append(out, a.ID)
	}
	return out
}

func doReq(t *testing.T, baseURL, method, path, userID string, body any) (int, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Errorf("marshal: %v", err)
			return 0, nil
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, r)
	if err != nil {
		t.Errorf("new request: %v", err)
		return 0, nil
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-Debug-User-ID", userID)
	}
	return send(t, req)
}

func send(t *testing.T, req *http.Request) (int, []byte) {
	t.Helper()
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Errorf("do request: %v", err)
		return 0, nil
	}
	defer res.Body.Close()

	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, b
}
