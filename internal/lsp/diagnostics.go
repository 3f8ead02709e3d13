package lsp

import (
	"context"
	"encoding/json"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/seen-lang/seenc/internal/compiler/errors"
)

func (s *Server) handleDidOpen(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse didOpen params")
	}

	uri := string(params.TextDocument.URI)
	s.docs.Open(uri, params.TextDocument.Text, int(params.TextDocument.Version))
	s.publishDiagnostics(ctx, uri)

	return reply(ctx, nil, nil)
}

func (s *Server) handleDidChange(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse didChange params")
	}

	if len(params.ContentChanges) == 0 {
		return reply(ctx, nil, nil)
	}

	// Full sync only: the last change carries the whole document text.
	content := params.ContentChanges[len(params.ContentChanges)-1].Text
	uri := string(params.TextDocument.URI)
	s.docs.Update(uri, content, int(params.TextDocument.Version))
	s.publishDiagnostics(ctx, uri)

	return reply(ctx, nil, nil)
}

func (s *Server) handleDidClose(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse didClose params")
	}

	uri := string(params.TextDocument.URI)
	s.docs.Close(uri)

	if s.client != nil {
		if err := s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
			URI:         params.TextDocument.URI,
			Diagnostics: []protocol.Diagnostic{},
		}); err != nil {
			s.logger.Warn("failed to clear diagnostics", zap.Error(err))
		}
	}

	return reply(ctx, nil, nil)
}

func (s *Server) handleDidSave(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidSaveTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse didSave params")
	}

	s.publishDiagnostics(ctx, string(params.TextDocument.URI))
	return reply(ctx, nil, nil)
}

// publishDiagnostics converts the document store's last check result into
// LSP diagnostics and sends them to the client.
func (s *Server) publishDiagnostics(ctx context.Context, docURI string) {
	if s.client == nil {
		return
	}

	entries := s.docs.Diagnostics(docURI)
	diagnostics := make([]protocol.Diagnostic, 0, len(entries))
	for _, e := range entries {
		diagnostics = append(diagnostics, toProtocolDiagnostic(e))
	}

	if err := s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(docURI),
		Diagnostics: diagnostics,
	}); err != nil {
		s.logger.Warn("failed to publish diagnostics", zap.Error(err))
	}
}

func toProtocolDiagnostic(e errors.CompilerError) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	switch e.Severity {
	case errors.Warning:
		severity = protocol.DiagnosticSeverityWarning
	case errors.Info:
		severity = protocol.DiagnosticSeverityInformation
	}

	line := 0
	if e.Location.Line > 0 {
		line = e.Location.Line - 1
	}
	col := 0
	if e.Location.Column > 0 {
		col = e.Location.Column - 1
	}

	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: uint32(line), Character: uint32(col)},
			End:   protocol.Position{Line: uint32(line), Character: uint32(col)},
		},
		Severity: severity,
		Code:     e.Code,
		Source:   "seenc",
		Message:  e.Message,
	}
}
