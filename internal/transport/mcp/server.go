package mcp

import (
	"context"
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/portfolio/projects-api/internal/metrics"
	projectsvc "github.com/portfolio/projects-api/internal/service/project"
)

// Server wraps the mark3labs/mcp-go MCPServer and its StreamableHTTPServer.
// Tools are registered in tools.go, session bookkeeping lives in registry.go.
type Server struct {
	httpSrv *mcpserver.StreamableHTTPServer
	reg     *SessionRegistry
	log     *zap.Logger
}

// New builds the MCP server. m may be nil.
func New(projectSvc *projectsvc.Service, version string, m *metrics.Metrics, log *zap.Logger) *Server {
	s := &Server{
		reg: NewSessionRegistry(m.MCPSessionGauge()),
		log: log,
	}

	hooks := &mcpserver.Hooks{}
	hooks.AddOnRegisterSession(s.onSessionOpen)
	hooks.AddOnUnregisterSession(s.onSessionClose)

	mcpSrv := mcpserver.NewMCPServer(
		"projects-api",
		version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithHooks(hooks),
	)

	RegisterTools(mcpSrv, projectSvc, log)

	s.httpSrv = mcpserver.NewStreamableHTTPServer(mcpSrv)
	return s
}

// Handler returns the http.Handler serving the streamable MCP endpoint.
func (s *Server) Handler() http.Handler {
	return s.httpSrv
}

func (s *Server) Registry() *SessionRegistry {
	return s.reg
}

func (s *Server) onSessionOpen(_ context.Context, session mcpserver.ClientSession) {
	s.reg.Register(session.SessionID())
	s.log.Info("mcp session opened", zap.String("session_id", session.SessionID()), zap.Int("active", s.reg.Active()))
}

func (s *Server) onSessionClose(_ context.Context, session mcpserver.ClientSession) {
	if !s.reg.Unregister(session.SessionID()) {
		return
	}
	s.log.Info("mcp session closed", zap.String("session_id", session.SessionID()), zap.Int("active", s.reg.Active()))
}
