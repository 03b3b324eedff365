// Package lsp exposes the detector as a language server: on every
// textDocument/didSave it re-scans the saved file and pushes the
// resulting findings as a textDocument/publishDiagnostics notification.
// It does no network I/O beyond the LSP stdio transport, reuses
// pkg/detector directly, and implements nothing else of the protocol
// beyond the initialize handshake.
package lsp

import (
	"net/url"
	"os"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/corvid-labs/antislop/pkg/detector"
	"github.com/corvid-labs/antislop/pkg/langdetect"
	"github.com/corvid-labs/antislop/pkg/models"
	"github.com/corvid-labs/antislop/pkg/parser"
)

// Server wraps a glsp server bound to a single Detector, shared
// read-only across every didSave notification it handles.
type Server struct {
	det *detector.Detector
	srv *glspserver.Server
}

// New builds a Server that scans with det on every file save.
func New(det *detector.Detector) *Server {
	s := &Server{det: det}

	handler := &protocol.Handler{}
	handler.Initialize = s.initialize
	handler.TextDocumentDidSave = s.didSave

	s.srv = glspserver.NewServer(handler, "antislop", false)
	return s
}

// RunStdio serves requests over stdin/stdout until the client
// disconnects, per the LSP stdio transport.
func (s *Server) RunStdio() error {
	return s.srv.RunStdio()
}

func (s *Server) initialize(context *glsp.Context, params *protocol.InitializeParams) (any, error) {
	syncKind := protocol.TextDocumentSyncKindFull
	return protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: boolPtr(true),
				Save:      &protocol.SaveOptions{IncludeText: boolPtr(false)},
				Change:    &syncKind,
			},
		},
		ServerInfo: &protocol.InitializeResultServerInfo{Name: "antislop"},
	}, nil
}

func (s *Server) didSave(context *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path := uriToPath(params.TextDocument.URI)
	lang := langdetect.ClassifyFile(path)

	source, err := os.ReadFile(path)
	if err != nil {
		return nil // an unreadable file is not a protocol error; just skip it
	}

	psr := parser.New()
	defer psr.Close()

	findings, err := s.det.Detect(psr, path, lang, source)
	if err != nil {
		return nil
	}

	diagnostics := make([]protocol.Diagnostic, 0, len(findings))
	for _, f := range findings {
		diagnostics = append(diagnostics, toDiagnostic(f))
	}

	context.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: diagnostics,
	})
	return nil
}

func toDiagnostic(f models.Finding) protocol.Diagnostic {
	severity := severityToLSP(f.Severity)
	source := "antislop"
	ruleID := f.PatternID
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: uint32(f.Line - 1), Character: uint32(f.Column - 1)},
			End:   protocol.Position{Line: uint32(f.EndLine - 1), Character: uint32(f.EndColumn - 1)},
		},
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: ruleID},
		Source:   &source,
		Message:  f.Message,
	}
}

func severityToLSP(sev models.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case models.SeverityCritical, models.SeverityHigh:
		return protocol.DiagnosticSeverityError
	case models.SeverityMedium:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityInformation
	}
}

func uriToPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return strings.TrimPrefix(uri, "file://")
	}
	return u.Path
}

func boolPtr(b bool) *bool { return &b }
