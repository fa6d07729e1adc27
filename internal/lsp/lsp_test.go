package lsp_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.followtheprocess.codes/haml/internal/lsp"
	"go.followtheprocess.codes/haml/internal/syntax"
	"go.followtheprocess.codes/haml/internal/syntax/diag"
	"go.followtheprocess.codes/log"
	"go.followtheprocess.codes/test"
	"go.uber.org/goleak"
)

func TestRange(t *testing.T) {
	tests := []struct {
		name string         // Name of the test case
		text string         // Source text
		want protocol.Range // Expected range
		span [2]int         // Start and end of the span
	}{
		{
			name: "first line",
			text: "struct api {}\n",
			span: [2]int{7, 10},
			want: protocol.Range{
				Start: protocol.Position{Line: 0, Character: 7},
				End:   protocol.Position{Line: 0, Character: 10},
			},
		},
		{
			name: "second line",
			text: "struct api {\n    get int64;\n}\n",
			span: [2]int{21, 26},
			want: protocol.Range{
				Start: protocol.Position{Line: 1, Character: 8},
				End:   protocol.Position{Line: 1, Character: 13},
			},
		},
		{
			name: "multi line",
			text: "/* one\ntwo */\n",
			span: [2]int{0, 13},
			want: protocol.Range{
				Start: protocol.Position{Line: 0, Character: 0},
				End:   protocol.Position{Line: 1, Character: 6},
			},
		},
		{
			name: "utf16",
			text: "// é😀 x\n",
			span: [2]int{10, 11},
			want: protocol.Range{
				Start: protocol.Position{Line: 0, Character: 7},
				End:   protocol.Position{Line: 0, Character: 8},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := syntax.SourceFile{Path: "test.haml", Text: tt.text}
			got := lsp.Range(syntax.NewSpan(file, tt.span[0], tt.span[1]))
			test.Equal(t, got, tt.want)
		})
	}
}

func TestRangeNoSpan(t *testing.T) {
	test.Equal(t, lsp.Range(syntax.Span{}), protocol.Range{})
}

func TestSeverity(t *testing.T) {
	test.Equal(t, lsp.Severity(diag.LevelError), protocol.DiagnosticSeverityError)
	test.Equal(t, lsp.Severity(diag.LevelWarning), protocol.DiagnosticSeverityWarning)
	test.Equal(t, lsp.Severity(diag.LevelInfo), protocol.DiagnosticSeverityInformation)
}

func TestConvert(t *testing.T) {
	file := syntax.SourceFile{Path: "test.haml", Text: "import \"a\";\nimport \"a\";\n"}

	got := lsp.Convert([]diag.Diagnostic{
		diag.NewMessage("no span"),
		{Level: diag.LevelWarning, Message: "careful", Span: syntax.NewSpan(file, 19, 22)},
	})

	test.Equal(t, len(got), 2)

	test.Equal(t, got[0].Message, "no span")
	test.Equal(t, *got[0].Severity, protocol.DiagnosticSeverityError)
	test.Equal(t, *got[0].Source, "haml")
	test.Equal(t, got[0].Range, protocol.Range{})

	test.Equal(t, got[1].Message, "careful")
	test.Equal(t, *got[1].Severity, protocol.DiagnosticSeverityWarning)
	test.Equal(t, got[1].Range.Start, protocol.Position{Line: 1, Character: 7})
	test.Equal(t, got[1].Range.End, protocol.Position{Line: 1, Character: 10})

	// Never nil, clients want an empty array not null
	test.True(t, lsp.Convert(nil) != nil)
}

// published records every publishDiagnostics notification.
type published struct {
	params []protocol.PublishDiagnosticsParams
}

func (p *published) context(t *testing.T) *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			test.Equal(t, method, protocol.ServerTextDocumentPublishDiagnostics)

			diagnostics, ok := params.(protocol.PublishDiagnosticsParams)
			test.True(t, ok, test.Context("unexpected params type %T", params))

			p.params = append(p.params, diagnostics)
		},
	}
}

func (p *published) last(t *testing.T) protocol.PublishDiagnosticsParams {
	t.Helper()
	test.True(t, len(p.params) != 0, test.Context("nothing published"))

	return p.params[len(p.params)-1]
}

func TestDocumentLifecycle(t *testing.T) {
	const uri = "file:///schemas/api.haml"

	server := lsp.New("test")
	handler := server.Handler()
	notifications := &published{}
	ctx := notifications.context(t)

	// Open a file with a duplicate
	err := handler.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        uri,
			LanguageID: "haml",
			Version:    1,
			Text:       "struct a {}\nstruct a {}\n",
		},
	})
	test.Ok(t, err)

	got := notifications.last(t)
	test.Equal(t, got.URI, uri)
	test.Equal(t, len(got.Diagnostics), 1)
	test.Equal(t, got.Diagnostics[0].Message, "type `a` defined multiple times")
	test.Equal(t, got.Diagnostics[0].Range.Start, protocol.Position{Line: 1, Character: 7})

	// Fix it
	err = handler.TextDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEventWhole{Text: "struct a {}\nstruct b {}\n"},
		},
	})
	test.Ok(t, err)
	test.Equal(t, len(notifications.last(t).Diagnostics), 0)

	// Break the syntax
	err = handler.TextDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                3,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEventWhole{Text: "struct a {\n    get int64;\n}\n"},
		},
	})
	test.Ok(t, err)

	got = notifications.last(t)
	test.Equal(t, len(got.Diagnostics), 1)
	test.Equal(t, got.Diagnostics[0].Message, "expected a question mark or colon but found a int64")

	// Saving without text re-publishes what we already know
	before := len(notifications.params)
	err = handler.TextDocumentDidSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	test.Ok(t, err)
	test.Equal(t, len(notifications.params), before+1)
	test.Equal(t, len(notifications.last(t).Diagnostics), 1)

	// Closing clears them
	err = handler.TextDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	test.Ok(t, err)

	got = notifications.last(t)
	test.Equal(t, got.URI, uri)
	test.True(t, got.Diagnostics != nil)
	test.Equal(t, len(got.Diagnostics), 0)
}

func TestChangeForgetsPreviousText(t *testing.T) {
	const uri = "file:///schemas/api.haml"

	buf := &bytes.Buffer{}
	server := lsp.New("test", lsp.WithLogger(log.New(buf, log.WithLevel(log.LevelDebug))))
	handler := server.Handler()
	notifications := &published{}
	ctx := notifications.context(t)

	change := func(version protocol.Integer, text string) {
		t.Helper()

		err := handler.TextDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
			TextDocument: protocol.VersionedTextDocumentIdentifier{
				TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
				Version:                version,
			},
			ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: text}},
		})
		test.Ok(t, err)
	}

	parses := func() int {
		return strings.Count(buf.String(), "parse_file")
	}

	err := handler.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "haml", Version: 1, Text: "struct a {}\n"},
	})
	test.Ok(t, err)
	test.Equal(t, parses(), 1)

	change(2, "struct b {}\n")
	test.Equal(t, parses(), 2)

	// The first text was forgotten when it was replaced so going back parses it again
	change(3, "struct a {}\n")
	test.Equal(t, parses(), 3)

	// Same text again is still a lookup
	err = handler.TextDocumentDidSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	test.Ok(t, err)
	test.Equal(t, parses(), 3)
	test.Equal(t, len(notifications.last(t).Diagnostics), 0)
}

func TestNewLeavesNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t)

	server := lsp.New("test")
	handler := server.Handler()
	notifications := &published{}

	err := handler.TextDocumentDidOpen(notifications.context(t), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: "file:///a.haml", LanguageID: "haml", Version: 1, Text: "struct a {}\n"},
	})
	test.Ok(t, err)
}

func TestInitialize(t *testing.T) {
	server := lsp.New("1.2.3")

	result, err := server.Handler().Initialize(&glsp.Context{}, &protocol.InitializeParams{})
	test.Ok(t, err)

	initialized, ok := result.(protocol.InitializeResult)
	test.True(t, ok)
	test.Equal(t, initialized.ServerInfo.Name, "haml")
	test.Equal(t, *initialized.ServerInfo.Version, "1.2.3")

	sync, ok := initialized.Capabilities.TextDocumentSync.(*protocol.TextDocumentSyncOptions)
	test.True(t, ok)
	test.Equal(t, *sync.Change, protocol.TextDocumentSyncKindFull)
}
