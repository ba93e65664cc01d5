// Package lsp is an optional diagnostic sink that republishes the module
// subsystem's warnings (ambiguous using, conflicting imports, deprecation
// notices) as Language Server Protocol diagnostics over a jsonrpc2
// connection, for hosts embedding glyph behind an editor-facing language
// server rather than a plain CLI.
package lsp

import (
	"context"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// Publisher batches diagnostics per document and flushes them to a
// jsonrpc2 peer as textDocument/publishDiagnostics notifications.
type Publisher struct {
	conn jsonrpc2.Conn
	doc  uri.URI

	pending []protocol.Diagnostic
}

// NewPublisher constructs a Publisher that reports diagnostics against doc
// over conn.
func NewPublisher(conn jsonrpc2.Conn, doc uri.URI) *Publisher {
	return &Publisher{conn: conn, doc: doc}
}

// Warn queues a warning-severity diagnostic with the given message.
func (p *Publisher) Warn(message string) {
	p.queue(protocol.DiagnosticSeverityWarning, message)
}

// Error queues an error-severity diagnostic with the given message.
func (p *Publisher) Error(message string) {
	p.queue(protocol.DiagnosticSeverityError, message)
}

func (p *Publisher) queue(severity protocol.DiagnosticSeverity, message string) {
	p.pending = append(p.pending, protocol.Diagnostic{
		Range:    protocol.Range{},
		Severity: severity,
		Source:   "glyph",
		Message:  message,
	})
}

// Flush sends every queued diagnostic as a single publishDiagnostics
// notification and clears the queue.
func (p *Publisher) Flush(ctx context.Context) error {
	params := protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(p.doc),
		Diagnostics: p.pending,
	}

	err := p.conn.Notify(ctx, "textDocument/publishDiagnostics", params)
	p.pending = nil

	return err
}
