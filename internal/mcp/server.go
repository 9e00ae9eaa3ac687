package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"

	"mediabridge/internal/convert"
	"mediabridge/internal/logging"
	"mediabridge/internal/tools"
)

// Registry is the tool surface the server exposes.
type Registry interface {
	Definitions() []tools.Definition
	Call(ctx context.Context, name string, args json.RawMessage, sink convert.ProgressSink) (tools.Outcome, error)
}

// Notifier delivers server-initiated notifications to the client.
type Notifier func(Notification)

// Server handles MCP requests independent of transport.
type Server struct {
	registry Registry
	info     ServerInfo
	logger   *slog.Logger
}

// NewServer creates a server for registry.
func NewServer(registry Registry, info ServerInfo, logger *slog.Logger) *Server {
	if info.Name == "" {
		info.Name = "mediabridge"
	}
	return &Server{
		registry: registry,
		info:     info,
		logger:   logging.NewComponentLogger(logger, "mcp"),
	}
}

// Handle processes one request. It returns nil for notifications.
func (s *Server) Handle(ctx context.Context, req *Request, notify Notifier) *Response {
	if req.JSONRPC != jsonRPCVersion || req.Method == "" {
		if req.IsNotification() {
			return nil
		}
		return newError(req.ID, CodeInvalidRequest, "invalid JSON-RPC 2.0 request")
	}

	switch req.Method {
	case MethodInitialize:
		return s.initialize(req)
	case MethodPing:
		return newResult(req.ID, struct{}{})
	case MethodToolsList:
		return newResult(req.ID, map[string]any{"tools": s.registry.Definitions()})
	case MethodToolsCall:
		return s.callTool(ctx, req, notify)
	case MethodInitialized, MethodCancelled:
		return nil
	default:
		if req.IsNotification() {
			return nil
		}
		return newError(req.ID, CodeMethodNotFound, "method not found: "+req.Method)
	}
}

func (s *Server) initialize(req *Request) *Response {
	var params initializeParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return newError(req.ID, CodeInvalidParams, "invalid initialize params: "+err.Error())
		}
	}
	version := LatestProtocolVersion
	if slices.Contains(supportedProtocolVersions, params.ProtocolVersion) {
		version = params.ProtocolVersion
	}
	s.logger.Info("client initialized",
		logging.String("client", params.ClientInfo.Name),
		logging.String("client_version", params.ClientInfo.Version),
		logging.String("protocol_version", version))

	return newResult(req.ID, initializeResult{
		ProtocolVersion: version,
		Capabilities: map[string]any{
			"tools": map[string]any{"listChanged": false},
		},
		ServerInfo:   s.info,
		Instructions: "Convert local media files with convert_video; list accepted formats with get_supported_formats.",
	})
}

func (s *Server) callTool(ctx context.Context, req *Request, notify Notifier) *Response {
	var params callParams
	if err := json.Unmarshal(req.Params, &params); err != nil || params.Name == "" {
		return newError(req.ID, CodeInvalidParams, "tools/call requires a tool name")
	}

	var sink convert.ProgressSink
	if notify != nil && params.Meta != nil && len(params.Meta.ProgressToken) > 0 {
		token := params.Meta.ProgressToken
		sink = convert.ProgressFunc(func(_ context.Context, m convert.Milestone) {
			notify(Notification{
				JSONRPC: jsonRPCVersion,
				Method:  MethodProgress,
				Params: progressParams{
					ProgressToken: token,
					Progress:      m.Percent,
					Total:         convert.ProgressTotal,
					Message:       m.Stage,
				},
			})
		})
	}

	outcome, err := s.registry.Call(ctx, params.Name, params.Arguments, sink)
	if err != nil {
		switch {
		case errors.Is(err, tools.ErrUnknownTool):
			return newError(req.ID, CodeInvalidParams, "Unknown tool: "+params.Name)
		case errors.Is(err, tools.ErrInvalidArguments):
			return newError(req.ID, CodeInvalidParams, err.Error())
		default:
			return newError(req.ID, CodeInternalError, err.Error())
		}
	}

	text, err := json.Marshal(outcome.Payload)
	if err != nil {
		return newError(req.ID, CodeInternalError, "encode tool result: "+err.Error())
	}
	return newResult(req.ID, callResult{
		Content:           []textContent{{Type: "text", Text: string(text)}},
		StructuredContent: outcome.Payload,
		IsError:           outcome.IsError,
	})
}
