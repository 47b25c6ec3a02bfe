// Package mcpserver exposes the get_weather capability to MCP clients.
//
// The client's own model decides when to call get_weather; this server only resolves
// the date expression and fetches the forecast. Recovered failures are returned as
// error results carrying the same JSON payload the orchestrator sends to its model.
package mcpserver

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rickchristie/weathercall"
	"github.com/rickchristie/weathercall/orchestrator"
)

// Name is the server name announced to clients.
const Name = "weathercall"

// ResolveDateTool resolves an expression without fetching a forecast.
const ResolveDateTool = "resolve_date"

// Server wraps an MCP server exposing get_weather and resolve_date.
type Server struct {
	resolver orchestrator.Resolver
	gateway  orchestrator.Gateway
	clock    weathercall.TimeProvider
	logger   *slog.Logger

	mcpServer *server.MCPServer
}

// New creates a Server. A nil clock uses the system clock.
func New(
	resolver orchestrator.Resolver,
	gateway orchestrator.Gateway,
	clock weathercall.TimeProvider,
	version string,
	logger *slog.Logger,
) *Server {
	if clock == nil {
		clock = weathercall.NewDefaultTimeProvider()
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		resolver:  resolver,
		gateway:   gateway,
		clock:     clock,
		logger:    logger,
		mcpServer: server.NewMCPServer(Name, version, server.WithToolCapabilities(false)),
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves on stdin and stdout until the input closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// DateResult is the structured result of resolve_date.
type DateResult struct {
	Expression   string `json:"expression"`
	Date         string `json:"date"`
	Weekday      string `json:"weekday"`
	RelativeDate string `json:"relative_date"`
}

func (s *Server) registerTools() {
	weather := mcp.NewTool(weathercall.CapabilityName,
		mcp.WithDescription(orchestrator.ToolDescription),
		mcp.WithString("location",
			mcp.Required(),
			mcp.Description("The city and state/country, e.g., San Francisco, CA or Paris, France"),
		),
		mcp.WithString("datetime_expression",
			mcp.Description("Optional. A date or natural language time reference like 'tomorrow', "+
				"'next Monday', or '2025-07-15'. If omitted, today's forecast is assumed."),
		),
	)
	s.mcpServer.AddTool(weather, s.handleWeather)

	resolve := mcp.NewTool(ResolveDateTool,
		mcp.WithDescription("Resolve a natural language date reference to a calendar date."),
		mcp.WithString("expression", mcp.Required(), mcp.Description("e.g. 'next Friday' or 'June 20'")),
		mcp.WithOutputSchema[DateResult](),
	)
	s.mcpServer.AddTool(resolve, mcp.NewStructuredToolHandler(s.handleResolve))
}

func (s *Server) handleWeather(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := weathercall.WeatherArgs{
		Location:           request.GetString("location", ""),
		DatetimeExpression: request.GetString("datetime_expression", ""),
	}

	out := orchestrator.Execute(ctx, s.resolver, s.gateway, uuid.NewString(), args, s.clock.Now())
	if out.Err != nil {
		s.logger.Warn("mcp get_weather failed",
			"location", args.Location,
			"datetime_expression", args.DatetimeExpression,
			"code", out.Response.Code,
			"error", out.Err,
		)
	} else {
		s.logger.Info("mcp get_weather done",
			"location", out.Forecast.Location.DisplayName(),
			"date", out.Forecast.Date,
		)
	}

	result := mcp.NewToolResultStructured(json.RawMessage(out.Response.Content), out.Response.Content)
	result.IsError = out.Response.Failed
	return result, nil
}

func (s *Server) handleResolve(_ context.Context, _ mcp.CallToolRequest, args map[string]interface{}) (DateResult, error) {
	expr, _ := args["expression"].(string)
	now := s.clock.Now()

	date, err := s.resolver.Resolve(expr, now)
	if err != nil {
		return DateResult{}, err
	}
	return DateResult{
		Expression:   expr,
		Date:         date.String(),
		Weekday:      date.Date.Weekday().String(),
		RelativeDate: weathercall.RelativeDate(now, date.Date),
	}, nil
}
