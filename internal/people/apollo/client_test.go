package apollo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(Config{APIKey: "test-key", BaseURL: srv.URL}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestClient_SearchByOrgAndTitles(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/mixed_people/search", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "Acme Inc", req["q_organization_name"])

		_, _ = w.Write([]byte(`{"people":[
			{"first_name":"Ada","last_name":"Lee","title":"CEO"},
			{"first_name":"Sam","last_name":"Ng","title":"Founder"}
		]}`))
	}))

	candidates, err := c.SearchByOrgAndTitles(context.Background(), "Acme Inc", []string{"CEO"})
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	require.Equal(t, "Ada", candidates[0].FirstName)
	require.Equal(t, "CEO", candidates[0].Title)
}

func TestClient_EnrichReturnsEmail(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/people/match", r.URL.Path)
		_, _ = w.Write([]byte(`{"person":{"email":"ada@acme.com"}}`))
	}))

	email, err := c.Enrich(context.Background(), "Ada", "Lee", "Acme Inc")
	require.NoError(t, err)
	require.Equal(t, "ada@acme.com", email)
}

func TestClient_EnrichWithoutEmail(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"person":{}}`))
	}))

	email, err := c.Enrich(context.Background(), "Ada", "Lee", "Acme Inc")
	require.NoError(t, err)
	require.Empty(t, email)
}

func TestClient_ServerErrorSurfaces(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := c.SearchByOrgAndTitles(context.Background(), "Acme Inc", []string{"CEO"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "502")
}

func TestNew_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := New(Config{}, zap.NewNop())
	require.Error(t, err)
}
