package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaninafuentes/EcoBot/internal/chatserver"
	"github.com/vaninafuentes/EcoBot/internal/config"
)

func echoReplier() chatserver.Replier {
	return chatserver.ReplierFunc(func(ctx context.Context, history []chatserver.Entry, message string) (string, error) {
		return fmt.Sprintf("eco(%d): %s", len(history), message), nil
	})
}

func newTestService(apiKey string) *Service {
	return New(&config.Config{APIKey: apiKey, MaxTurns: config.DefaultMaxTurns}, echoReplier())
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any, header map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestHealthz(t *testing.T) {
	handler := newTestService("").Handler()

	rec, body := doJSON(t, handler, http.MethodGet, "/healthz", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ok"])
}

func TestNewSessionDefaultsName(t *testing.T) {
	handler := newTestService("").Handler()

	rec, body := doJSON(t, handler, http.MethodPost, "/new_session", map[string]string{}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	id, _ := body["session_id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "sesion-"+id[:8], body["name"])
	assert.NotEmpty(t, body["started_at"])
}

func TestNewSessionCustomName(t *testing.T) {
	handler := newTestService("").Handler()

	rec, body := doJSON(t, handler, http.MethodPost, "/new_session", map[string]string{"name": "curso macro"}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "curso macro", body["name"])
}

func TestAskKeepsHistoryPerSession(t *testing.T) {
	handler := newTestService("").Handler()

	_, created := doJSON(t, handler, http.MethodPost, "/new_session", nil, nil)
	id := created["session_id"].(string)

	rec, body := doJSON(t, handler, http.MethodPost, "/ask",
		map[string]string{"message": "hola", "session_id": id}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, body["session_id"])
	assert.Equal(t, "eco(0): hola", body["reply"])

	// Second turn sees the first one in its history.
	_, body = doJSON(t, handler, http.MethodPost, "/ask",
		map[string]string{"message": "sigo", "session_id": id}, nil)
	assert.Equal(t, "eco(2): sigo", body["reply"])
}

func TestAskWithoutSessionCreatesOne(t *testing.T) {
	handler := newTestService("").Handler()

	rec, body := doJSON(t, handler, http.MethodPost, "/ask", map[string]string{"message": "hola"}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, body["session_id"])
	assert.Equal(t, "eco(0): hola", body["reply"])
}

func TestAskRejectsEmptyMessage(t *testing.T) {
	handler := newTestService("").Handler()

	rec, body := doJSON(t, handler, http.MethodPost, "/ask", map[string]string{"message": "   "}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "message requerido", body["detail"])
}

func TestAskRejectsBadJSON(t *testing.T) {
	handler := newTestService("").Handler()

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader("{no es json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAskAPIKey(t *testing.T) {
	handler := newTestService("secreta").Handler()

	rec, body := doJSON(t, handler, http.MethodPost, "/ask", map[string]string{"message": "hola"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "API key inválida", body["detail"])

	rec, _ = doJSON(t, handler, http.MethodPost, "/ask", map[string]string{"message": "hola"},
		map[string]string{"X-API-KEY": "incorrecta"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = doJSON(t, handler, http.MethodPost, "/ask", map[string]string{"message": "hola"},
		map[string]string{"X-API-KEY": "secreta"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAskReplierErrorIsBadGateway(t *testing.T) {
	failing := chatserver.ReplierFunc(func(ctx context.Context, history []chatserver.Entry, message string) (string, error) {
		return "", fmt.Errorf("modelo caído")
	})
	svc := New(&config.Config{MaxTurns: config.DefaultMaxTurns}, failing)

	rec, body := doJSON(t, svc.Handler(), http.MethodPost, "/ask", map[string]string{"message": "hola"}, nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "no pude generar una respuesta", body["detail"])
}

func TestResetClearsSession(t *testing.T) {
	handler := newTestService("").Handler()

	_, created := doJSON(t, handler, http.MethodPost, "/new_session", nil, nil)
	id := created["session_id"].(string)
	doJSON(t, handler, http.MethodPost, "/ask", map[string]string{"message": "hola", "session_id": id}, nil)

	rec, body := doJSON(t, handler, http.MethodDelete, "/reset/"+id, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ok"])

	// The history starts over for the same id.
	_, body = doJSON(t, handler, http.MethodPost, "/ask", map[string]string{"message": "de nuevo", "session_id": id}, nil)
	assert.Equal(t, "eco(0): de nuevo", body["reply"])
}

func TestListSessions(t *testing.T) {
	handler := newTestService("").Handler()

	doJSON(t, handler, http.MethodPost, "/new_session", map[string]string{"name": "a"}, nil)
	doJSON(t, handler, http.MethodPost, "/new_session", map[string]string{"name": "b"}, nil)

	rec, body := doJSON(t, handler, http.MethodGet, "/sessions", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	sessions := body["sessions"].([]any)
	assert.Len(t, sessions, 2)
	first := sessions[0].(map[string]any)
	assert.NotEmpty(t, first["session_id"])
	assert.NotEmpty(t, first["name"])
}

func TestListSessionsLimitValidation(t *testing.T) {
	handler := newTestService("").Handler()

	rec, _ := doJSON(t, handler, http.MethodGet, "/sessions?limit=0", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, handler, http.MethodGet, "/sessions?limit=5000", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, handler, http.MethodGet, "/sessions?limit=10", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
