package lsp

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/nalgeon/be"
	"github.com/segmentio/encoding/json"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/tangzhangming/jpy/internal/errors"
	"github.com/tangzhangming/jpy/internal/translator"
)

const (
	testURI = "file:///work/Main.java"

	validSource = `public class Main {
    static int count = 0;

    public Main() { }

    public static void main(String[] args) {
        System.out.println(count);
    }
}`
)

// ============================================================================
// Document Manager Tests
// ============================================================================

func newManager() *DocumentManager {
	return NewDocumentManager(translator.DefaultOptions())
}

func TestDocumentManager_Open(t *testing.T) {
	dm := newManager()
	doc := dm.Open(testURI, validSource, 1)

	if doc == nil {
		t.Fatal("expected document to be created")
	}
	be.Equal(t, doc.URI, testURI)
	be.Equal(t, doc.Version, 1)
	be.Err(t, doc.Err, nil)
	be.True(t, strings.Contains(doc.Result.Code, "class Main:"))
	be.Equal(t, dm.Count(), 1)
}

func TestDocumentManager_GetAndClose(t *testing.T) {
	dm := newManager()
	dm.Open(testURI, "class Test {}", 1)

	be.True(t, dm.Get(testURI) != nil)
	be.True(t, dm.Get("file:///nonexistent.java") == nil)

	dm.Close(testURI)
	be.True(t, dm.Get(testURI) == nil)
}

func TestDocumentManager_ApplyChanges(t *testing.T) {
	dm := newManager()
	dm.Open(testURI, "class A {\n    int x = 1\n}", 1)
	be.Err(t, dm.Get(testURI).Err)

	// 在第 2 行末尾补上分号
	dm.ApplyChanges(testURI, []ContentChange{{
		Range: &protocol.Range{
			Start: protocol.Position{Line: 1, Character: 13},
			End:   protocol.Position{Line: 1, Character: 13},
		},
		Text: ";",
	}}, 2)

	doc := dm.Get(testURI)
	be.Equal(t, doc.Version, 2)
	be.Equal(t, doc.GetLine(1), "    int x = 1;")
	be.Err(t, doc.Err, nil)

	// 没有 range 时整体替换
	dm.ApplyChanges(testURI, []ContentChange{{Text: "class B {}"}}, 3)
	be.Equal(t, dm.Get(testURI).Content, "class B {}")
}

func TestDocumentManager_InsertAtStart(t *testing.T) {
	dm := newManager()
	dm.Open(testURI, "class A {}", 1)

	// 文件开头的空 range 是插入，不是整体替换
	dm.ApplyChanges(testURI, []ContentChange{{
		Range: &protocol.Range{},
		Text:  "// x\n",
	}}, 2)

	doc := dm.Get(testURI)
	be.Equal(t, doc.Content, "// x\nclass A {}")
	be.Equal(t, doc.GetLine(1), "class A {}")
	be.Err(t, doc.Err, nil)
}

func TestContentChangeJSON(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		full  bool
		start protocol.Position
	}{
		{"without range", `{"text":"class A {}"}`, true, protocol.Position{}},
		{"empty range", `{"range":{"start":{"line":0,"character":0},"end":{"line":0,"character":0}},"text":"x"}`, false, protocol.Position{}},
		{"range", `{"range":{"start":{"line":2,"character":4},"end":{"line":2,"character":4}},"text":"x"}`, false, protocol.Position{Line: 2, Character: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var change ContentChange
			be.Err(t, json.Unmarshal([]byte(tt.data), &change), nil)
			be.Equal(t, change.Range == nil, tt.full)
			if change.Range != nil {
				be.Equal(t, change.Range.Start, tt.start)
			}
		})
	}
}

func TestDocumentManager_UpdateContent(t *testing.T) {
	dm := newManager()
	dm.Open(testURI, "class A {}", 1)
	dm.UpdateContent(testURI, "class A { int x = ; }")
	be.Err(t, dm.Get(testURI).Err)

	// 未打开的文档不受影响
	dm.UpdateContent("file:///other.java", "class B {}")
	be.Equal(t, dm.Count(), 1)
}

func TestApplyTextEdit(t *testing.T) {
	tests := []struct {
		name    string
		content string
		rang    protocol.Range
		text    string
		want    string
	}{
		{
			"insert",
			"hello world",
			protocol.Range{Start: protocol.Position{Line: 0, Character: 5}, End: protocol.Position{Line: 0, Character: 5}},
			",",
			"hello, world",
		},
		{
			"replace across lines",
			"line1\nline2\nline3",
			protocol.Range{Start: protocol.Position{Line: 0, Character: 4}, End: protocol.Position{Line: 2, Character: 4}},
			"X",
			"lineX3",
		},
		{
			"delete",
			"abcdef",
			protocol.Range{Start: protocol.Position{Line: 0, Character: 1}, End: protocol.Position{Line: 0, Character: 3}},
			"",
			"adef",
		},
		{
			"after chinese comment",
			"int x; // 中文\nint y;",
			protocol.Range{Start: protocol.Position{Line: 0, Character: 12}, End: protocol.Position{Line: 0, Character: 12}},
			"!",
			"int x; // 中文!\nint y;",
		},
		{
			"replace chinese",
			"// 你好世界",
			protocol.Range{Start: protocol.Position{Line: 0, Character: 3}, End: protocol.Position{Line: 0, Character: 5}},
			"hi",
			"// hi世界",
		},
		{
			"surrogate pair",
			"s = \"😀x\";",
			protocol.Range{Start: protocol.Position{Line: 0, Character: 7}, End: protocol.Position{Line: 0, Character: 8}},
			"y",
			"s = \"😀y\";",
		},
		{
			"clamped",
			"ab",
			protocol.Range{Start: protocol.Position{Line: 5, Character: 9}, End: protocol.Position{Line: 5, Character: 9}},
			"c",
			"abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be.Equal(t, applyTextEdit(tt.content, tt.rang, tt.text), tt.want)
		})
	}
}

// ============================================================================
// Diagnostics Tests
// ============================================================================

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		code     string
		line     uint32
		severity protocol.DiagnosticSeverity
	}{
		{"syntax", "class A {\n    int x = 1\n}", errors.E0003, 2, protocol.DiagnosticSeverityError},
		{"checker", "class A {\n    void m() {\n        int x = y;\n    }\n}", errors.E0100, 2, protocol.DiagnosticSeverityError},
		{"unsupported", "class A {\n    void m() {\n        Runnable r = () -> {};\n    }\n}", errors.E0500, 2, protocol.DiagnosticSeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := newManager().Open(testURI, tt.content, 1)
			var found *protocol.Diagnostic
			diags := getDiagnostics(doc)
			for i := range diags {
				if diags[i].Code == tt.code {
					found = &diags[i]
				}
			}
			if found == nil {
				t.Fatalf("expected a %s diagnostic, got %v", tt.code, diags)
			}
			be.Equal(t, found.Range.Start.Line, tt.line)
			be.Equal(t, found.Severity, tt.severity)
			be.Equal(t, found.Source, "jpy")
			be.True(t, found.Range.End.Character > found.Range.Start.Character)
		})
	}
}

func TestDiagnosticsClean(t *testing.T) {
	doc := newManager().Open(testURI, validSource, 1)
	be.Equal(t, len(getDiagnostics(doc)), 0)
}

func TestDiagnosticRange(t *testing.T) {
	doc := newManager().Open(testURI, "class A {\n    void m() {\n        int x = missing;\n    }\n}", 1)
	diags := getDiagnostics(doc)
	be.Equal(t, len(diags), 1)
	// 诊断覆盖整个标识符
	be.Equal(t, diags[0].Range.Start.Character, uint32(16))
	be.Equal(t, diags[0].Range.End.Character, uint32(23))
}

func TestSeverity(t *testing.T) {
	be.Equal(t, severity(errors.LevelWarning), protocol.DiagnosticSeverityWarning)
	be.Equal(t, severity(errors.LevelError), protocol.DiagnosticSeverityError)
	be.Equal(t, severity(errors.LevelHelp), protocol.DiagnosticSeverityHint)
}

// ============================================================================
// Symbol Tests
// ============================================================================

func TestDocumentSymbols(t *testing.T) {
	doc := newManager().Open(testURI, validSource, 1)
	symbols := getDocumentSymbols(doc)

	be.Equal(t, len(symbols), 1)
	class := symbols[0]
	be.Equal(t, class.Name, "Main")
	be.Equal(t, class.Kind, protocol.SymbolKindClass)
	be.Equal(t, class.SelectionRange.Start, protocol.Position{Line: 0, Character: 13})

	be.Equal(t, len(class.Children), 3)
	be.Equal(t, class.Children[0].Name, "count")
	be.Equal(t, class.Children[0].Kind, protocol.SymbolKindField)
	be.Equal(t, class.Children[1].Kind, protocol.SymbolKindConstructor)
	be.Equal(t, class.Children[2].Name, "main")
	be.Equal(t, class.Children[2].Kind, protocol.SymbolKindMethod)
}

func TestDocumentSymbolsOnSyntaxError(t *testing.T) {
	doc := newManager().Open(testURI, "class A {", 1)
	be.Equal(t, len(getDocumentSymbols(doc)), 0)
}

func TestURIToPath(t *testing.T) {
	be.Equal(t, uriToPath("file:///work/Main.java"), "/work/Main.java")
	be.Equal(t, uriToPath("untitled:Untitled-1"), "untitled:Untitled-1")
}

// ============================================================================
// Server Tests
// ============================================================================

type testClient struct {
	conn        jsonrpc2.Conn
	diagnostics chan protocol.PublishDiagnosticsParams
	done        chan error
}

func startServer(t *testing.T) *testClient {
	t.Helper()
	serverSide, clientSide := net.Pipe()

	tc := &testClient{
		diagnostics: make(chan protocol.PublishDiagnosticsParams, 16),
		done:        make(chan error, 1),
	}

	srv := NewServer(nil, translator.DefaultOptions())
	go func() { tc.done <- srv.Run(context.Background(), serverSide) }()

	tc.conn = jsonrpc2.NewConn(jsonrpc2.NewStream(clientSide))
	tc.conn.Go(context.Background(), func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		if req.Method() == methodPublishDiagnostics {
			var p protocol.PublishDiagnosticsParams
			if err := json.Unmarshal(req.Params(), &p); err == nil {
				tc.diagnostics <- p
			}
		}
		return reply(ctx, nil, nil)
	})
	t.Cleanup(func() { tc.conn.Close() })
	return tc
}

func (tc *testClient) nextDiagnostics(t *testing.T) protocol.PublishDiagnosticsParams {
	t.Helper()
	select {
	case p := <-tc.diagnostics:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for diagnostics")
		return protocol.PublishDiagnosticsParams{}
	}
}

func TestServerSession(t *testing.T) {
	ctx := context.Background()
	tc := startServer(t)

	var initResult map[string]interface{}
	_, err := tc.conn.Call(ctx, methodInitialize, protocol.InitializeParams{}, &initResult)
	be.Err(t, err, nil)
	be.True(t, initResult["capabilities"] != nil)
	be.Err(t, tc.conn.Notify(ctx, methodInitialized, struct{}{}), nil)

	be.Err(t, tc.conn.Notify(ctx, methodDidOpen, protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        testURI,
			LanguageID: "java",
			Version:    1,
			Text:       "class A {\n    int x = 1\n}",
		},
	}), nil)
	diags := tc.nextDiagnostics(t)
	be.Equal(t, string(diags.URI), testURI)
	be.Equal(t, len(diags.Diagnostics), 1)

	// 编辑器发送整体替换时省略 range
	be.Err(t, tc.conn.Notify(ctx, methodDidChange, map[string]any{
		"textDocument": protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
			Version:                2,
		},
		"contentChanges": []ContentChange{{Text: validSource}},
	}), nil)
	diags = tc.nextDiagnostics(t)
	be.Equal(t, diags.Version, uint32(2))
	be.Equal(t, len(diags.Diagnostics), 0)

	var symbols []protocol.DocumentSymbol
	_, err = tc.conn.Call(ctx, methodDocumentSymbol, protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	}, &symbols)
	be.Err(t, err, nil)
	be.Equal(t, len(symbols), 1)
	be.Equal(t, symbols[0].Name, "Main")

	var translated TranslateResult
	_, err = tc.conn.Call(ctx, MethodTranslate, TranslateParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	}, &translated)
	be.Err(t, err, nil)
	be.Equal(t, translated.Error, "")
	be.True(t, strings.Contains(translated.Code, "print(Main.count)"))

	be.Err(t, tc.conn.Notify(ctx, methodDidClose, protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	}), nil)
	diags = tc.nextDiagnostics(t)
	be.Equal(t, len(diags.Diagnostics), 0)

	_, err = tc.conn.Call(ctx, methodShutdown, nil, nil)
	be.Err(t, err, nil)
	be.Err(t, tc.conn.Notify(ctx, methodExit, nil), nil)

	select {
	case err := <-tc.done:
		be.Err(t, err, nil)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not exit")
	}
}

func TestServerRejectsRequestsBeforeInitialize(t *testing.T) {
	ctx := context.Background()
	tc := startServer(t)

	var symbols []protocol.DocumentSymbol
	_, err := tc.conn.Call(ctx, methodDocumentSymbol, protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	}, &symbols)
	be.Err(t, err)
}

func TestServerUnknownMethod(t *testing.T) {
	ctx := context.Background()
	tc := startServer(t)

	_, err := tc.conn.Call(ctx, methodInitialize, protocol.InitializeParams{}, nil)
	be.Err(t, err, nil)
	be.Err(t, tc.conn.Notify(ctx, methodInitialized, struct{}{}), nil)

	_, err = tc.conn.Call(ctx, "textDocument/hover", struct{}{}, nil)
	be.Err(t, err)

	var translated TranslateResult
	_, err = tc.conn.Call(ctx, MethodTranslate, TranslateParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///not/open.java"},
	}, &translated)
	be.Err(t, err)
}
