package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarlsen/adcon/internal/api"
)

func newTestController(t *testing.T, handler http.HandlerFunc) *Controller {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewController(api.NewClient(server.URL))
}

func healthyHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/healthcheck":
			w.WriteHeader(http.StatusOK)
		case "/api/auth/me":
			_, _ = w.Write([]byte(`{"name":"Jane Doe","isHighPrivilege":true}`))
		case "/api/config/settings":
			_, _ = w.Write([]byte(`{"domains":["corp.example","lab.example"],"optionalGroupsForHighPrivilege":["VPN Users"]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestEstablish_Success(t *testing.T) {
	ctrl := newTestController(t, healthyHandler(t))

	state, apiErr := ctrl.Establish(context.Background())

	require.Nil(t, apiErr)
	require.True(t, state.Authenticated())
	assert.Equal(t, "Jane Doe", state.Session.Name)
	assert.True(t, state.Session.IsHighPrivilege)
	assert.Equal(t, "corp.example", state.DefaultDomain())
	assert.Equal(t, state, ctrl.State())
}

func TestEstablish_ProbeFailure(t *testing.T) {
	ctrl := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	state, apiErr := ctrl.Establish(context.Background())

	require.NotNil(t, apiErr)
	assert.Equal(t, "Connection Error", apiErr.Message)
	assert.Contains(t, apiErr.Detail, "Cannot reach the administration service")
	assert.False(t, state.Authenticated())
	assert.False(t, ctrl.State().Authenticated())
}

func TestEstablish_AuthFailureLeavesNoPartialState(t *testing.T) {
	ctrl := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/healthcheck":
			w.WriteHeader(http.StatusOK)
		case "/api/auth/me":
			w.WriteHeader(http.StatusUnauthorized)
		default:
			t.Errorf("settings must not be fetched after a failed identity query (got %s)", r.URL.Path)
		}
	})

	state, apiErr := ctrl.Establish(context.Background())

	require.NotNil(t, apiErr)
	assert.True(t, api.IsAuth(apiErr))
	assert.Equal(t, "Authentication failed.", apiErr.DisplayText())
	assert.Nil(t, state.Session)
	assert.Nil(t, state.Settings)
}

func TestEstablish_SettingsFailureLeavesNoPartialState(t *testing.T) {
	ctrl := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/healthcheck":
			w.WriteHeader(http.StatusOK)
		case "/api/auth/me":
			_, _ = w.Write([]byte(`{"name":"Jane Doe","isHighPrivilege":false}`))
		case "/api/config/settings":
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	state, apiErr := ctrl.Establish(context.Background())

	require.NotNil(t, apiErr)
	// Session and settings are both-or-neither
	assert.Nil(t, state.Session)
	assert.Nil(t, state.Settings)
	assert.False(t, ctrl.State().Authenticated())
}

func TestEnd_ClearsStateLocally(t *testing.T) {
	ctrl := newTestController(t, healthyHandler(t))

	_, apiErr := ctrl.Establish(context.Background())
	require.Nil(t, apiErr)
	require.True(t, ctrl.State().Authenticated())

	ctrl.End()

	assert.False(t, ctrl.State().Authenticated())
}

func TestState_DefaultDomain(t *testing.T) {
	var empty State
	assert.Equal(t, "", empty.DefaultDomain())

	state := State{Settings: &api.Settings{Domains: []string{"a.example", "b.example"}}}
	assert.Equal(t, "a.example", state.DefaultDomain())
}
