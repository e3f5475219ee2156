package mcpserver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func operation(t *testing.T, name string) ToolOperation {
	t.Helper()
	for _, op := range Operations {
		if op.Name == name {
			return op
		}
	}
	t.Fatalf("no operation %s", name)
	return ToolOperation{}
}

func callRequest(name string, args map[string]any, header http.Header) mcp.CallToolRequest {
	req := mcp.CallToolRequest{Header: header}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestProxy_PathAndQuery(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	proxy := NewProxyHandler(srv.URL+"/", zerolog.Nop())

	res, err := proxy.Handler(operation(t, "get_maintenance"))(context.Background(),
		callRequest("get_maintenance", map[string]any{"projectID": "prj_1"}, http.Header{}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "/api/maintenance/prj_1", gotPath)
	assert.Equal(t, `{"ok":true}`, resultText(t, res))

	res, err = proxy.Handler(operation(t, "list_notifications"))(context.Background(),
		callRequest("list_notifications", map[string]any{"type": "push", "limit": float64(5)}, http.Header{}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "/api/notifications", gotPath)
	assert.Equal(t, "limit=5&type=push", gotQuery)
}

func TestProxy_BodyAndCookie(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/projects/maintenance", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "devops-auth=authenticated", r.Header.Get("Cookie"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"projectId":"prj_1","projectName":"web","enabled":true}`, string(body))
		w.Write([]byte(`{"success":true,"enabled":true}`))
	}))
	defer srv.Close()

	proxy := NewProxyHandler(srv.URL, zerolog.Nop())
	header := http.Header{}
	header.Set("Cookie", "devops-auth=authenticated")

	res, err := proxy.Handler(operation(t, "set_maintenance"))(context.Background(),
		callRequest("set_maintenance", map[string]any{
			"body": `{"projectId":"prj_1","projectName":"web","enabled":true}`,
		}, header))
	require.NoError(t, err)
	assert.False(t, res.IsError)
}

func TestProxy_ObjectBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"projectId":"prj_1"}`, string(body))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	proxy := NewProxyHandler(srv.URL, zerolog.Nop())
	res, err := proxy.Handler(operation(t, "redeploy_project"))(context.Background(),
		callRequest("redeploy_project", map[string]any{"body": map[string]any{"projectId": "prj_1"}}, http.Header{}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, `{"success":true}`, resultText(t, res))
}

func TestProxy_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Unauthorized"}`))
	}))
	defer srv.Close()
	proxy := NewProxyHandler(srv.URL, zerolog.Nop())

	t.Run("missing required", func(t *testing.T) {
		res, err := proxy.Handler(operation(t, "list_workflows"))(context.Background(),
			callRequest("list_workflows", map[string]any{}, http.Header{}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "missing required parameter: repo")
	})

	t.Run("invalid body", func(t *testing.T) {
		res, err := proxy.Handler(operation(t, "send_push"))(context.Background(),
			callRequest("send_push", map[string]any{"body": "{not json"}, http.Header{}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "not valid JSON")
	})

	t.Run("upstream status", func(t *testing.T) {
		res, err := proxy.Handler(operation(t, "set_maintenance"))(context.Background(),
			callRequest("set_maintenance", map[string]any{"body": `{}`}, http.Header{}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Equal(t, `HTTP 401: {"error":"Unauthorized"}`, resultText(t, res))
	})
}
