package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	mcpmcp "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	domainproject "github.com/portfolio/projects-api/internal/domain/project"
	projectsvc "github.com/portfolio/projects-api/internal/service/project"
)

// RegisterTools registers the project tools on the server. Unexpected
// failures are logged on log and reported to the client as "internal error".
func RegisterTools(s *mcpserver.MCPServer, projectSvc *projectsvc.Service, log *zap.Logger) {
	s.AddTool(mcpmcp.NewTool("list_projects",
		mcpmcp.WithDescription("List portfolio projects, newest last. Supports paging, a case-insensitive title search and sorting."),
		mcpmcp.WithNumber("page", mcpmcp.Description("1-based page number (default 1)")),
		mcpmcp.WithNumber("limit", mcpmcp.Description("Page size (default 10, max 100)")),
		mcpmcp.WithString("search", mcpmcp.Description("Substring to match against titles")),
		mcpmcp.WithString("sort", mcpmcp.Description("field:direction, e.g. title:desc or createdAt:asc")),
	), listProjectsHandler(projectSvc, log))

	s.AddTool(mcpmcp.NewTool("create_project",
		mcpmcp.WithDescription("Create a project. Title 3-100 characters, description 10-500 characters, at least one technology."),
		mcpmcp.WithString("title", mcpmcp.Required(), mcpmcp.Description("Project title")),
		mcpmcp.WithString("description", mcpmcp.Required(), mcpmcp.Description("Project description")),
		mcpmcp.WithArray("technologies", mcpmcp.Required(), mcpmcp.WithStringItems(), mcpmcp.Description("Technologies used")),
	), createProjectHandler(projectSvc, log))

	s.AddTool(mcpmcp.NewTool("update_project",
		mcpmcp.WithDescription("Update some fields of a project. Omitted fields keep their value."),
		mcpmcp.WithString("id", mcpmcp.Required(), mcpmcp.Description("24-character project id")),
		mcpmcp.WithString("title", mcpmcp.Description("New title")),
		mcpmcp.WithString("description", mcpmcp.Description("New description")),
		mcpmcp.WithArray("technologies", mcpmcp.WithStringItems(), mcpmcp.Description("Replacement technology list")),
	), updateProjectHandler(projectSvc, log))

	s.AddTool(mcpmcp.NewTool("delete_project",
		mcpmcp.WithDescription("Permanently delete a project."),
		mcpmcp.WithString("id", mcpmcp.Required(), mcpmcp.Description("24-character project id")),
	), deleteProjectHandler(projectSvc, log))
}

func listProjectsHandler(svc *projectsvc.Service, log *zap.Logger) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		q := domainproject.NewListQuery(
			intArg(req, "page"),
			intArg(req, "limit"),
			mcpmcp.ParseString(req, "search", ""),
			mcpmcp.ParseString(req, "sort", ""),
		)

		page, err := svc.List(ctx, q)
		if err != nil {
			return errorResult(log, "list_projects", err), nil
		}
		data, _ := json.Marshal(page)
		return mcpmcp.NewToolResultText(string(data)), nil
	}
}

func createProjectHandler(svc *projectsvc.Service, log *zap.Logger) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		in := domainproject.Input{
			Title:        mcpmcp.ParseString(req, "title", ""),
			Description:  mcpmcp.ParseString(req, "description", ""),
			Technologies: req.GetStringSlice("technologies", nil),
		}

		p, err := svc.Create(ctx, in)
		if err != nil {
			return errorResult(log, "create_project", err), nil
		}
		data, _ := json.Marshal(p)
		return mcpmcp.NewToolResultText(string(data)), nil
	}
}

func updateProjectHandler(svc *projectsvc.Service, log *zap.Logger) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		args := req.GetArguments()

		var patch domainproject.Patch
		if _, ok := args["title"]; ok {
			title := mcpmcp.ParseString(req, "title", "")
			patch.Title = &title
		}
		if _, ok := args["description"]; ok {
			desc := mcpmcp.ParseString(req, "description", "")
			patch.Description = &desc
		}
		if _, ok := args["technologies"]; ok {
			techs := req.GetStringSlice("technologies", []string{})
			patch.Technologies = &techs
		}

		p, err := svc.Update(ctx, mcpmcp.ParseString(req, "id", ""), patch)
		if err != nil {
			return errorResult(log, "update_project", err), nil
		}
		data, _ := json.Marshal(p)
		return mcpmcp.NewToolResultText(string(data)), nil
	}
}

func deleteProjectHandler(svc *projectsvc.Service, log *zap.Logger) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		if err := svc.Delete(ctx, mcpmcp.ParseString(req, "id", "")); err != nil {
			return errorResult(log, "delete_project", err), nil
		}
		return mcpmcp.NewToolResultText(`{"ok":true}`), nil
	}
}

// intArg returns the argument as a decimal string, or "" when absent so the
// list defaults apply.
func intArg(req mcpmcp.CallToolRequest, key string) string {
	if _, ok := req.GetArguments()[key]; !ok {
		return ""
	}
	return strconv.Itoa(mcpmcp.ParseInt(req, key, 0))
}

// errorResult maps domain errors to client text. Anything else stays in the log.
func errorResult(log *zap.Logger, tool string, err error) *mcpmcp.CallToolResult {
	var verr *domainproject.ValidationError
	switch {
	case errors.As(err, &verr):
		return mcpmcp.NewToolResultText("error: " + verr.Error())
	case errors.Is(err, domainproject.ErrInvalidID):
		return mcpmcp.NewToolResultText("error: invalid project id")
	case errors.Is(err, domainproject.ErrNotFound):
		return mcpmcp.NewToolResultText("error: project not found")
	default:
		log.Error("mcp tool failed", zap.String("tool", tool), zap.Error(err))
		return mcpmcp.NewToolResultText("error: internal error")
	}
}
