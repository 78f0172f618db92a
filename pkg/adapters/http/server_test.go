package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alvion/transitions"
	httpAdapter "github.com/alvion/transitions/pkg/adapters/http"
	"github.com/alvion/transitions/pkg/adapters/memory"
	"github.com/alvion/transitions/pkg/domain"
	"github.com/alvion/transitions/pkg/session"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	m, err := transitions.New(
		transitions.WithInitial("idle"),
		transitions.WithStates(
			"idle",
			domain.StateSpec{Name: "caffeinated", Children: []any{"dispensing"}},
		),
	)
	require.NoError(t, err)
	require.NoError(t, m.AddTransition("drink", "idle", "caffeinated.dispensing"))

	mgr := session.NewManager(m, memory.NewStore())
	return httpAdapter.NewHandler(mgr, m)
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	h := newTestServer(t)
	rec := doJSON(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_SessionLifecycle(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/sessions", `{"id":"s1","context":{"cup":"large"}}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		SessionID string   `json:"session_id"`
		State     string   `json:"state"`
		History   []string `json:"history"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "s1", created.SessionID)
	assert.Equal(t, "idle", created.State)

	rec = doJSON(t, h, http.MethodPost, "/sessions/s1/fire", `{"trigger":"drink"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var fired struct {
		Fired bool   `json:"fired"`
		State string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fired))
	assert.True(t, fired.Fired)
	assert.Equal(t, "caffeinated.dispensing", fired.State)

	rec = doJSON(t, h, http.MethodGet, "/sessions/s1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "caffeinated.dispensing")

	rec = doJSON(t, h, http.MethodDelete, "/sessions/s1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/sessions/s1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_CreateSessionValidation(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/sessions", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/sessions", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_FireErrors(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/sessions/ghost/fire", `{"trigger":"drink"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	doJSON(t, h, http.MethodPost, "/sessions", `{"id":"s1"}`)

	// Unknown trigger maps to a conflict with the machine's error message.
	rec = doJSON(t, h, http.MethodPost, "/sessions/s1/fire", `{"trigger":"nope"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "can't trigger event nope")

	rec = doJSON(t, h, http.MethodPost, "/sessions/s1/fire", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Graph(t *testing.T) {
	h := newTestServer(t)
	rec := doJSON(t, h, http.MethodGet, "/graph", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var states []struct {
		Name  string `json:"name"`
		Level int    `json:"level"`
		Leaf  bool   `json:"leaf"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &states))

	byName := map[string]struct {
		Level int
		Leaf  bool
	}{}
	for _, st := range states {
		byName[st.Name] = struct {
			Level int
			Leaf  bool
		}{st.Level, st.Leaf}
	}
	assert.Equal(t, 1, byName["caffeinated.dispensing"].Level)
	assert.True(t, byName["caffeinated.dispensing"].Leaf)
	assert.False(t, byName["caffeinated"].Leaf)
}
