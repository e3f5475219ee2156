package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

// ProxyHandler creates MCP tool handlers that proxy to the dashboard API.
type ProxyHandler struct {
	apiURL string
	client *http.Client
	logger zerolog.Logger
}

// NewProxyHandler creates a new proxy handler targeting the given API URL.
func NewProxyHandler(apiURL string, logger zerolog.Logger) *ProxyHandler {
	return &ProxyHandler{
		apiURL: strings.TrimRight(apiURL, "/"),
		client: &http.Client{},
		logger: logger,
	}
}

// Handler returns an MCP tool handler function for the given operation.
func (p *ProxyHandler) Handler(op ToolOperation) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		target := p.apiURL + op.Path
		args := req.GetArguments()
		query := url.Values{}
		var bodyReader io.Reader

		for _, param := range op.Params {
			val, ok := args[param.Name]
			if !ok || val == nil {
				if param.Required {
					return mcp.NewToolResultError(fmt.Sprintf("missing required parameter: %s", param.Name)), nil
				}
				continue
			}

			switch param.In {
			case "path":
				target = strings.ReplaceAll(target, "{"+param.Name+"}", url.PathEscape(fmt.Sprintf("%v", val)))
			case "query":
				if s := fmt.Sprintf("%v", val); s != "" {
					query.Set(param.Name, s)
				}
			case "body":
				body, err := bodyString(val)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				bodyReader = strings.NewReader(body)
			}
		}
		if len(query) > 0 {
			target += "?" + query.Encode()
		}

		httpReq, err := http.NewRequestWithContext(ctx, op.Method, target, bodyReader)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("build request: %s", err)), nil
		}
		if bodyReader != nil {
			httpReq.Header.Set("Content-Type", "application/json")
		}

		// The dashboard authorizes maintenance writes by session cookie.
		if cookie := req.Header.Get("Cookie"); cookie != "" {
			httpReq.Header.Set("Cookie", cookie)
		}

		p.logger.Debug().
			Str("method", op.Method).
			Str("url", target).
			Str("tool", req.Params.Name).
			Msg("proxying MCP tool call")

		resp, err := p.client.Do(httpReq)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %s", err)), nil
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("read response: %s", err)), nil
		}

		if resp.StatusCode >= 400 {
			return mcp.NewToolResultError(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(respBody))), nil
		}
		if resp.StatusCode == http.StatusNoContent {
			return mcp.NewToolResultText(`{"success":true}`), nil
		}
		return mcp.NewToolResultText(string(respBody)), nil
	}
}

// bodyString accepts the body argument either as a JSON string or as an
// already decoded object.
func bodyString(val any) (string, error) {
	if s, ok := val.(string); ok {
		if !json.Valid([]byte(s)) {
			return "", fmt.Errorf("body is not valid JSON")
		}
		return s, nil
	}
	b, err := json.Marshal(val)
	if err != nil {
		return "", fmt.Errorf("encode body: %w", err)
	}
	return string(b), nil
}
