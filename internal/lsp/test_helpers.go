package lsp

// This file contains test helpers for LSP server testing.
// Note: Due to unexported methods in the jsonrpc2.Request interface,
// unit testing the dispatch layer directly is challenging. Diagnostics
// behavior is instead covered at the DocumentStore level in
// documents_test.go, which exercises the same internal/compiler/job
// pipeline without needing a live jsonrpc2 connection.
//
// Integration testing should be performed using a real LSP client.
