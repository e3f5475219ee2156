package mcpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_Healthz(t *testing.T) {
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)
	srv := New(cfg, zerolog.Nop())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_ToolNames(t *testing.T) {
	cfg, err := ParseConfig([]byte("overrides:\n  send_push:\n    disabled: true\n"))
	require.NoError(t, err)
	srv := New(cfg, zerolog.Nop())

	names := srv.ToolNames()
	assert.Len(t, names, len(Operations)-1)
	assert.Contains(t, names, "set_maintenance")
	assert.NotContains(t, names, "send_push")
}
