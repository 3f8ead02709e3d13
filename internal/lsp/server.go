// Package lsp implements a Language Server Protocol server over the
// Seen compilation pipeline. Per SPEC_FULL.md's AMBIENT STACK, it wraps
// internal/compiler/job and publishes diagnostics from the lex/parse/
// typecheck stages on every document open, change, and save — the only
// LSP surface SPEC_FULL.md commits to; IDE features with no grounding
// in spec.md (completion, hover, go-to-definition, symbol search) are
// left to an out-of-core tooling layer, the same way spec.md 1 keeps the
// CLI, toolchain discovery, and reactive runtime as external
// collaborators of the compiler core.
package lsp

import (
	"context"
	"encoding/json"
	"os"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/zap"

	"github.com/seen-lang/seenc/internal/compiler/keyword"
)

// Server implements the LSP server for Seen.
type Server struct {
	docs *DocumentStore

	conn   jsonrpc2.Conn
	client protocol.Client
	logger *zap.Logger

	workspaceRoot string
	capabilities  protocol.ServerCapabilities
	cancel        context.CancelFunc
}

// NewServer creates an LSP server for the given project language tag
// (spec.md 6 "Source-file format"). It panics if tag is not registered,
// the same contract internal/cli/config's validation enforces before a
// project is considered loadable.
func NewServer(language string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	lang, ok := keyword.Lookup(language)
	if !ok {
		panic("lsp: unknown language tag " + language)
	}

	return &Server{
		docs:   NewDocumentStore(language, lang.Table, logger),
		logger: logger,
		capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
				Save: &protocol.SaveOptions{
					IncludeText: false,
				},
			},
		},
	}
}

// Run starts the LSP server over stdin/stdout.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting seen language server")

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	stream := jsonrpc2.NewStream(stdrwc{})
	conn := jsonrpc2.NewConn(stream)
	s.conn = conn
	s.client = protocol.ClientDispatcher(conn, s.logger)

	conn.Go(ctx, s.handler())

	<-ctx.Done()
	s.logger.Info("shutting down seen language server")
	return conn.Close()
}

func (s *Server) handler() jsonrpc2.Handler {
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		s.logger.Debug("lsp request", zap.String("method", req.Method()))

		switch req.Method() {
		case protocol.MethodInitialize:
			return s.handleInitialize(ctx, reply, req)
		case protocol.MethodInitialized:
			return reply(ctx, nil, nil)
		case protocol.MethodShutdown:
			return reply(ctx, nil, nil)
		case protocol.MethodExit:
			return s.handleExit(ctx, reply, req)
		case protocol.MethodTextDocumentDidOpen:
			return s.handleDidOpen(ctx, reply, req)
		case protocol.MethodTextDocumentDidChange:
			return s.handleDidChange(ctx, reply, req)
		case protocol.MethodTextDocumentDidClose:
			return s.handleDidClose(ctx, reply, req)
		case protocol.MethodTextDocumentDidSave:
			return s.handleDidSave(ctx, reply, req)
		default:
			return reply(ctx, nil, jsonrpc2.ErrMethodNotFound)
		}
	}
}

func (s *Server) handleInitialize(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.InitializeParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse initialize params")
	}

	if len(params.WorkspaceFolders) > 0 {
		s.workspaceRoot = uri.URI(params.WorkspaceFolders[0].URI).Filename()
	} else if params.RootURI != "" {
		s.workspaceRoot = params.RootURI.Filename()
	} else if params.RootPath != "" {
		s.workspaceRoot = params.RootPath
	}

	result := protocol.InitializeResult{
		Capabilities: s.capabilities,
		ServerInfo: &protocol.ServerInfo{
			Name:    "seenc-lsp",
			Version: "0.1.0",
		},
	}
	return reply(ctx, result, nil)
}

func (s *Server) handleExit(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	if err := reply(ctx, nil, nil); err != nil {
		s.logger.Warn("error replying to exit", zap.Error(err))
	}
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

func (s *Server) replyWithError(ctx context.Context, reply jsonrpc2.Replier, code jsonrpc2.Code, message string) error {
	return reply(ctx, nil, &jsonrpc2.Error{Code: code, Message: message})
}

// stdrwc implements io.ReadWriteCloser over stdin/stdout.
type stdrwc struct{}

func (stdrwc) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdrwc) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

func (stdrwc) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}
