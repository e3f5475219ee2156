package mcpserver

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/edvin/opsdash/internal/core"
)

// Param is a tool argument mapped onto the proxied request.
type Param struct {
	Name        string
	In          string // "path", "query" or "body"
	Type        string // "string", "number" or "boolean"
	Required    bool
	Description string
}

// ToolOperation holds the data needed to proxy a tool call.
type ToolOperation struct {
	Name        string
	Description string
	Method      string
	Path        string // URL path template with {param} placeholders
	Params      []Param
}

var bodyParam = Param{Name: "body", In: "body", Type: "string", Required: true}

// Operations is the dashboard REST surface exposed as tools.
var Operations = []ToolOperation{
	{
		Name:        "list_projects",
		Description: "List hosting projects with their production URL and linked GitHub repository.",
		Method:      "GET",
		Path:        "/api/projects",
	},
	{
		Name:        "get_project_status",
		Description: "Get web, database and CI status for every project.",
		Method:      "GET",
		Path:        "/api/projects/status",
	},
	{
		Name:        "check_health",
		Description: "Probe every production URL and configured health target.",
		Method:      "GET",
		Path:        "/api/health",
	},
	{
		Name:        "get_error_logs",
		Description: "Recent failed deployments and failed CI runs, newest first.",
		Method:      "GET",
		Path:        "/api/logs",
	},
	{
		Name:        "redeploy_project",
		Description: "Redeploy the latest deployment of a project.",
		Method:      "POST",
		Path:        "/api/vercel/deploy",
		Params:      []Param{withDescription(bodyParam, `JSON object: {"projectId": "prj_..."}`)},
	},
	{
		Name:        "list_workflows",
		Description: "List active GitHub Actions workflows of a repository.",
		Method:      "GET",
		Path:        "/api/github/workflows",
		Params: []Param{
			{Name: "repo", In: "query", Type: "string", Required: true, Description: "Repository as owner/name"},
		},
	},
	{
		Name:        "trigger_workflow",
		Description: "Dispatch a GitHub Actions workflow and optionally notify subscribers.",
		Method:      "POST",
		Path:        "/api/github/trigger",
		Params: []Param{withDescription(bodyParam,
			`JSON object: {"repo": "owner/name", "workflow": "ci.yml", "ref": "main", "inputs": {}, "sendPush": true}`)},
	},
	{
		Name:        "get_maintenance",
		Description: "Get the maintenance flag of one project.",
		Method:      "GET",
		Path:        "/api/maintenance/{projectID}",
		Params: []Param{
			{Name: "projectID", In: "path", Type: "string", Required: true, Description: "Project id"},
		},
	},
	{
		Name:        "list_maintenance",
		Description: "List the maintenance flags of all projects.",
		Method:      "GET",
		Path:        "/api/projects/maintenance",
	},
	{
		Name:        "set_maintenance",
		Description: "Enable or disable maintenance mode for a project. Requires an authenticated session cookie.",
		Method:      "POST",
		Path:        "/api/projects/maintenance",
		Params: []Param{withDescription(bodyParam,
			`JSON object: {"projectId": "prj_...", "projectName": "web", "enabled": true, "message": "..."}`)},
	},
	{
		Name:        "send_push",
		Description: "Send a push notification to every subscribed device.",
		Method:      "POST",
		Path:        "/api/fcm/send",
		Params: []Param{withDescription(bodyParam,
			`JSON object: {"title": "...", "body": "...", "url": "/", "type": "general", "projectId": ""}`)},
	},
	{
		Name:        "list_notifications",
		Description: "Workflow triggers and push notifications, newest first.",
		Method:      "GET",
		Path:        "/api/notifications",
		Params: []Param{
			{Name: "type", In: "query", Type: "string", Description: "Filter by github_action or push"},
			{Name: "limit", In: "query", Type: "number", Description: fmt.Sprintf("Maximum entries (default %d, max %d)", core.DefaultHistoryLimit, core.MaxHistoryLimit)},
		},
	},
	{
		Name:        "get_user_stats",
		Description: "Total users, users created today and users active in the last 24 hours.",
		Method:      "GET",
		Path:        "/api/stats",
	},
	{
		Name:        "list_recent_users",
		Description: "The 20 most recently created users.",
		Method:      "GET",
		Path:        "/api/users/recent",
	},
}

func withDescription(p Param, desc string) Param {
	p.Description = desc
	return p
}

// BuildTools turns Operations into MCP tools, applying config annotations and
// overrides. Disabled tools are skipped.
func BuildTools(cfg *Config, proxyFn func(op ToolOperation) server.ToolHandlerFunc) []server.ServerTool {
	var tools []server.ServerTool
	for _, op := range Operations {
		override, hasOverride := cfg.Overrides[op.Name]
		if hasOverride && override.Disabled {
			continue
		}

		desc := op.Description
		if hasOverride && override.Description != "" {
			desc = override.Description
		}

		toolOpts := []mcp.ToolOption{mcp.WithDescription(desc)}
		toolOpts = append(toolOpts, buildAnnotations(op.Method, cfg, override, hasOverride)...)
		toolOpts = append(toolOpts, buildParams(op.Params)...)

		tools = append(tools, server.ServerTool{
			Tool:    mcp.NewTool(op.Name, toolOpts...),
			Handler: proxyFn(op),
		})
	}
	return tools
}

// buildAnnotations creates MCP annotation options from config defaults and overrides.
func buildAnnotations(method string, cfg *Config, override ToolOverride, hasOverride bool) []mcp.ToolOption {
	var opts []mcp.ToolOption

	defaults := cfg.Defaults[method]
	readOnly := defaults.ReadOnly
	destructive := defaults.Destructive
	idempotent := defaults.Idempotent

	if hasOverride {
		if override.ReadOnly != nil {
			readOnly = override.ReadOnly
		}
		if override.Destructive != nil {
			destructive = override.Destructive
		}
		if override.Idempotent != nil {
			idempotent = override.Idempotent
		}
	}

	if readOnly != nil {
		opts = append(opts, mcp.WithReadOnlyHintAnnotation(*readOnly))
	}
	if destructive != nil {
		opts = append(opts, mcp.WithDestructiveHintAnnotation(*destructive))
	}
	if idempotent != nil {
		opts = append(opts, mcp.WithIdempotentHintAnnotation(*idempotent))
	}
	return opts
}

func buildParams(params []Param) []mcp.ToolOption {
	var opts []mcp.ToolOption
	for _, p := range params {
		desc := p.Description
		if desc == "" {
			desc = p.Name
		}
		popts := []mcp.PropertyOption{mcp.Description(desc)}
		if p.Required {
			popts = append(popts, mcp.Required())
		}

		switch p.Type {
		case "number":
			opts = append(opts, mcp.WithNumber(p.Name, popts...))
		case "boolean":
			opts = append(opts, mcp.WithBoolean(p.Name, popts...))
		default:
			opts = append(opts, mcp.WithString(p.Name, popts...))
		}
	}
	return opts
}
