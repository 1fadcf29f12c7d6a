// Package mcpserver exposes read-only match tools over the Model Context
// Protocol so agents can inspect matches and preview payouts.
package mcpserver

import (
	"net/http"

	appmatches "crypto-fantasy/internal/app/matches"
	apppublic "crypto-fantasy/internal/app/public"

	"github.com/mark3labs/mcp-go/server"
)

type Server struct {
	matchSvc  *appmatches.Service
	publicSvc *apppublic.Service

	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
}

func New(matchSvc *appmatches.Service, publicSvc *apppublic.Service) *Server {
	mcpSrv := server.NewMCPServer(
		"crypto-fantasy",
		"0.1.0",
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s := &Server{
		matchSvc:   matchSvc,
		publicSvc:  publicSvc,
		mcpServer:  mcpSrv,
		httpServer: server.NewStreamableHTTPServer(mcpSrv, server.WithStateLess(true), server.WithDisableStreaming(true)),
	}
	s.registerMatchTools()
	s.registerPublicTools()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.httpServer
}
