package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProvider(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "secret" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var in verifyRequest
		_ = json.NewDecoder(r.Body).Decode(&in)
		switch in.Token {
		case "good":
			_ = json.NewEncoder(w).Encode(verifyResponse{UserID: "uid-1", Email: "a@example.com"})
		case "anon":
			_ = json.NewEncoder(w).Encode(verifyResponse{})
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
}

func TestVerifier_Verify(t *testing.T) {
	srv := newProvider(t)
	defer srv.Close()

	v, err := NewVerifier(Config{BaseURL: srv.URL, APIKey: "secret"})
	require.NoError(t, err)

	c, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", c.UserID)
	assert.Equal(t, "a@example.com", c.Email)

	_, err = v.Verify(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = v.Verify(context.Background(), "anon")
	assert.ErrorIs(t, err, ErrUpstream)

	_, err = v.Verify(context.Background(), "")
	assert.ErrorIs(t, err, ErrTokenEmpty)
}

func TestVerifier_UpstreamFailure(t *testing.T) {
	srv := newProvider(t)
	defer srv.Close()

	v, err := NewVerifier(Config{BaseURL: srv.URL, APIKey: "wrong"})
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), "good")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestNewVerifier_RequiresConfig(t *testing.T) {
	_, err := NewVerifier(Config{BaseURL: "http://idp"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
