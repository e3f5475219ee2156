package request

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_ValidJSON(t *testing.T) {
	body := `{"repo":"acme/web","ref":"release","inputs":{"env":"prod"},"sendPush":false}`
	r, err := http.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	require.NoError(t, err)

	var payload TriggerWorkflow
	err = Decode(r, &payload)
	require.NoError(t, err)
	assert.Equal(t, "acme/web", payload.Repo)
	assert.Equal(t, "release", payload.Ref)
	assert.Equal(t, map[string]any{"env": "prod"}, payload.Inputs)
	require.NotNil(t, payload.SendPush)
	assert.False(t, *payload.SendPush)
}

func TestDecode_InvalidJSON(t *testing.T) {
	body := `{not valid json}`
	r, err := http.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	require.NoError(t, err)

	var payload Redeploy
	err = Decode(r, &payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
	assert.False(t, IsValidation(err))
}

func TestDecode_ValidationFails(t *testing.T) {
	body := `{"projectId":"prj_1"}`
	r, err := http.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	require.NoError(t, err)

	var payload SetMaintenance
	err = Decode(r, &payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation error")
	assert.True(t, IsValidation(err))
}

func TestDecode_OptionalFieldsStayNil(t *testing.T) {
	body := `{"projectId":"prj_1","projectName":"web"}`
	r, err := http.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	require.NoError(t, err)

	var payload SetMaintenance
	require.NoError(t, Decode(r, &payload))
	assert.Nil(t, payload.Enabled)
	assert.Nil(t, payload.Message)
}
