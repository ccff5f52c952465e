// Package mcp exposes autosuggest lookups to MCP clients over stdio.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/base-angewandte/baseauth/pkg/labels"
	"github.com/base-angewandte/baseauth/pkg/logging"
	"github.com/base-angewandte/baseauth/pkg/models"
)

// Lookup answers autosuggest requests.
type Lookup interface {
	All(ctx context.Context, field string) ([]models.ConceptRecord, error)
	Search(ctx context.Context, field, query string) ([]models.ConceptRecord, error)
	Fields() []string
}

// CacheStatter provides cache statistics without coupling to a backend.
type CacheStatter interface {
	Stats(ctx context.Context) (models.CacheStats, error)
}

// Server is a minimal MCP server speaking JSON-RPC 2.0, one message per line.
type Server struct {
	lookup  Lookup
	labels  *labels.Resolver
	cache   CacheStatter
	version string
	log     *logging.Logger
}

// New creates a Server. labels and cache may be nil; the matching tools then
// report that they are not configured.
func New(lookup Lookup, resolver *labels.Resolver, cache CacheStatter, version string, log *logging.Logger) *Server {
	return &Server{
		lookup:  lookup,
		labels:  resolver,
		cache:   cache,
		version: version,
		log:     logging.Default(log).With("component", "mcp"),
	}
}

// Run reads requests from r and writes responses to w until r is exhausted or
// ctx is cancelled.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req rpcRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.write(w, failure(nil, codeParse, "parse error"))
			continue
		}
		if resp := s.dispatch(ctx, &req); resp != nil {
			s.write(w, resp)
		}
	}
	return scanner.Err()
}

func (s *Server) dispatch(ctx context.Context, req *rpcRequest) *rpcResponse {
	switch req.Method {
	case "initialize":
		return success(req.ID, initResult{
			ProtocolVersion: protocolVersion,
			ServerInfo:      implementation{Name: "baseauth", Version: s.version},
			Capabilities:    map[string]any{"tools": map[string]any{}},
		})
	case "notifications/initialized":
		return nil
	case "ping":
		return success(req.ID, map[string]any{})
	case "tools/list":
		return success(req.ID, toolList{Tools: allTools})
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	default:
		return failure(req.ID, codeNoMethod, fmt.Sprintf("unknown method: %s", req.Method))
	}
}

func (s *Server) handleToolsCall(ctx context.Context, req *rpcRequest) *rpcResponse {
	var params toolCall
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return failure(req.ID, codeBadParams, "invalid params")
	}

	handler, ok := toolHandlers[params.Name]
	if !ok {
		return success(req.ID, errorResult(fmt.Sprintf("unknown tool: %s", params.Name)))
	}
	s.log.Debug("tool call", "tool", params.Name)
	return success(req.ID, handler(ctx, s, params.Arguments))
}

func (s *Server) write(w io.Writer, resp *rpcResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.log.Error("marshal response", "error", err)
		return
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		s.log.Error("write response", "error", err)
	}
}
