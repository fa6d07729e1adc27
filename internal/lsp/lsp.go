// Package lsp implements a language server for haml files.
//
// The server keeps a single [frontend.Frontend] for its whole life. Every time a
// document is opened, changed or saved its text becomes a new [syntax.SourceFile], it
// is lowered and every diagnostic reported along the way is published to the editor.
// Re-sending the current text costs a lookup, not a parse, and once a document moves
// on to new text everything memoized for the old text is forgotten.
package lsp

import (
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf16"
	"unicode/utf8"

	"fortio.org/safecast"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
	"go.followtheprocess.codes/haml/internal/frontend"
	"go.followtheprocess.codes/haml/internal/syntax"
	"go.followtheprocess.codes/haml/internal/syntax/diag"
	"go.followtheprocess.codes/log"
)

// name is the name the server reports to clients and the source of its diagnostics.
const name = "haml"

// Option is a functional option for configuring a [Server].
type Option func(*Server)

// WithLogger sets the logger for the server and its query database.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithImportRoot sets the directory imports are resolved against.
func WithImportRoot(root string) Option {
	return func(s *Server) {
		s.importRoot = root
	}
}

// WithDebug turns on verbose protocol logging.
func WithDebug(debug bool) Option {
	return func(s *Server) {
		s.debug = debug
	}
}

// Server is the haml language server.
type Server struct {
	frontend   *frontend.Frontend
	logger     *log.Logger
	server     *server.Server
	documents  map[string]syntax.SourceFile // Latest version of each open document by URI
	handler    protocol.Handler
	version    string
	importRoot string
	mu         sync.Mutex
	debug      bool
}

// New returns a new language [Server].
func New(version string, options ...Option) *Server {
	s := &Server{
		version:   version,
		documents: make(map[string]syntax.SourceFile),
	}

	for _, option := range options {
		option(s)
	}

	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}

	s.frontend = frontend.New(
		frontend.OSReadFunc,
		frontend.WithLogger(s.logger),
		frontend.WithImportRoot(s.importRoot),
	)

	s.handler = protocol.Handler{
		Initialize:            s.initialize,
		Initialized:           s.initialized,
		Shutdown:              s.shutdown,
		SetTrace:              s.setTrace,
		TextDocumentDidOpen:   s.didOpen,
		TextDocumentDidChange: s.didChange,
		TextDocumentDidSave:   s.didSave,
		TextDocumentDidClose:  s.didClose,
	}

	s.server = server.NewServer(&s.handler, name, s.debug)

	return s
}

// Handler returns the protocol handler the server dispatches requests to.
func (s *Server) Handler() *protocol.Handler {
	return &s.handler
}

// RunStdio runs the server over stdin and stdout until the client disconnects.
func (s *Server) RunStdio() error {
	verbosity := 1
	if s.debug {
		verbosity = 2
	}

	// Only does anything if a commonlog backend has been registered, which main does.
	// It writes to stderr, stdout belongs to the protocol
	commonlog.Configure(verbosity, nil)

	s.logger.Debug("Starting language server", slog.String("version", s.version))

	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()

	openClose := true
	includeText := true
	change := protocol.TextDocumentSyncKind(protocol.TextDocumentSyncKindFull)

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &openClose,
		Change:    &change,
		Save: &protocol.SaveOptions{
			IncludeText: &includeText,
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    name,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (s *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	// Full sync, so the last change is the whole document
	for i := len(params.ContentChanges) - 1; i >= 0; i-- {
		if whole, ok := params.ContentChanges[i].(protocol.TextDocumentContentChangeEventWhole); ok {
			s.update(ctx, params.TextDocument.URI, whole.Text)
			return nil
		}
	}

	return nil
}

func (s *Server) didSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		s.update(ctx, params.TextDocument.URI, *params.Text)
		return nil
	}

	s.mu.Lock()
	file, ok := s.documents[params.TextDocument.URI]
	s.mu.Unlock()

	if ok {
		s.update(ctx, params.TextDocument.URI, file.Text)
	}

	return nil
}

func (s *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.mu.Lock()
	file, ok := s.documents[params.TextDocument.URI]
	delete(s.documents, params.TextDocument.URI)
	s.mu.Unlock()

	if ok {
		s.frontend.Forget(file)
	}

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})

	return nil
}

// update lowers the new text of the document at uri and publishes what was found.
func (s *Server) update(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	file := syntax.SourceFile{Path: uriToPath(uri), Text: text}

	s.mu.Lock()
	previous, seen := s.documents[uri]
	s.documents[uri] = file
	s.mu.Unlock()

	// The old text won't be asked about again
	if seen && previous != file {
		forgotten := s.frontend.Forget(previous)
		s.logger.Debug("Forgot previous version", slog.String("uri", uri), slog.Int("results", forgotten))
	}

	_, ok := s.frontend.LowerFile(file)
	diagnostics := s.frontend.LowerDiagnostics(file)

	s.logger.Debug(
		"Publishing diagnostics",
		slog.String("uri", uri),
		slog.Bool("ok", ok),
		slog.Int("diagnostics", len(diagnostics)),
	)

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: Convert(diagnostics),
	})
}

// Convert converts haml diagnostics to their protocol equivalents.
//
// Diagnostics with no span are placed at the very start of the document.
func Convert(diagnostics []diag.Diagnostic) []protocol.Diagnostic {
	converted := make([]protocol.Diagnostic, 0, len(diagnostics))

	for _, d := range diagnostics {
		severity := Severity(d.Level)
		source := name

		converted = append(converted, protocol.Diagnostic{
			Range:    Range(d.Span),
			Severity: &severity,
			Source:   &source,
			Message:  d.Message,
		})
	}

	return converted
}

// Severity converts a [diag.Level] to a [protocol.DiagnosticSeverity].
func Severity(level diag.Level) protocol.DiagnosticSeverity {
	switch level {
	case diag.LevelWarning:
		return protocol.DiagnosticSeverityWarning
	case diag.LevelInfo:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityError
	}
}

// Range converts a [syntax.Span] to a [protocol.Range], lines are 0 indexed and
// characters count UTF-16 code units as the protocol requires.
func Range(span syntax.Span) protocol.Range {
	if span.IsZero() {
		return protocol.Range{}
	}

	return protocol.Range{
		Start: position(span.File.Text, span.Start),
		End:   position(span.File.Text, span.End),
	}
}

// position returns the protocol position of the byte offset in text.
func position(text string, offset int) protocol.Position {
	offset = max(0, min(offset, len(text)))

	before := text[:offset]
	line := strings.Count(before, "\n")
	lineStart := strings.LastIndexByte(before, '\n') + 1

	character := 0

	for rest := before[lineStart:]; rest != ""; {
		r, size := utf8.DecodeRuneInString(rest)
		character += max(utf16.RuneLen(r), 1)
		rest = rest[size:]
	}

	return protocol.Position{
		Line:      uinteger(line),
		Character: uinteger(character),
	}
}

// uinteger converts n to a protocol.UInteger, saturating rather than wrapping.
func uinteger(n int) protocol.UInteger {
	converted, err := safecast.Conv[protocol.UInteger](n)
	if err != nil {
		return protocol.UInteger(^uint32(0))
	}

	return converted
}

// uriToPath turns a file:// URI into a local path, anything else is returned as is.
func uriToPath(uri protocol.DocumentUri) string {
	if !strings.HasPrefix(uri, "file://") {
		return uri
	}

	parsed, err := url.Parse(uri)
	if err != nil {
		return uri
	}

	return filepath.Clean(filepath.FromSlash(parsed.Path))
}
