// Package lsp 实现 jpy 的语言服务器
//
// 每次文档变更都会运行完整的翻译流水线，把语法错误、检查器诊断和不支持的
// 结构作为诊断发布；自定义请求 jpy/translate 返回当前文档生成的 Python 代码。
package lsp

import (
	"context"
	stderrors "errors"
	"io"
	"os"

	"github.com/segmentio/encoding/json"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/tangzhangming/jpy/internal/translator"
)

// 方法名
const (
	methodInitialize         = "initialize"
	methodInitialized        = "initialized"
	methodShutdown           = "shutdown"
	methodExit               = "exit"
	methodDidOpen            = "textDocument/didOpen"
	methodDidChange          = "textDocument/didChange"
	methodDidClose           = "textDocument/didClose"
	methodDidSave            = "textDocument/didSave"
	methodDocumentSymbol     = "textDocument/documentSymbol"
	methodPublishDiagnostics = "textDocument/publishDiagnostics"
	methodCancelRequest      = "$/cancelRequest"

	// MethodTranslate 返回文档翻译结果的自定义请求
	MethodTranslate = "jpy/translate"
)

// codeServerNotInitialized 初始化之前收到请求
const codeServerNotInitialized jsonrpc2.Code = -32002

// TranslateParams jpy/translate 请求参数
type TranslateParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
}

// TranslateResult jpy/translate 响应
type TranslateResult struct {
	Code  string `json:"code"`            // 生成的 Python 代码，失败时为空
	Error string `json:"error,omitempty"` // 致命错误消息
}

// Server LSP 服务器
type Server struct {
	documents *DocumentManager
	logger    *zap.Logger
	conn      jsonrpc2.Conn

	// 工作区根目录
	workspaceRoot string

	// 服务器状态
	initialized atomic.Bool
	shutdown    atomic.Bool
	exited      atomic.Bool
}

// NewServer 创建 LSP 服务器，logger 为 nil 时不输出日志
func NewServer(logger *zap.Logger, options translator.Options) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	options.Logger = logger
	return &Server{
		documents: NewDocumentManager(options),
		logger:    logger,
	}
}

// Run 在 rwc 上处理 JSON-RPC 消息，直到收到 exit、连接断开或 ctx 取消
func (s *Server) Run(ctx context.Context, rwc io.ReadWriteCloser) error {
	s.logger.Info("jpy language server started")

	s.conn = jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	s.conn.Go(ctx, s.handle)

	select {
	case <-ctx.Done():
		s.conn.Close()
		<-s.conn.Done()
		return ctx.Err()
	case <-s.conn.Done():
	}

	if s.exited.Load() {
		s.logger.Info("server exited")
		return nil
	}
	if err := s.conn.Err(); err != nil && !stderrors.Is(err, io.EOF) {
		return err
	}
	s.logger.Info("client disconnected")
	return nil
}

// handle 分发收到的消息
func (s *Server) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	method := req.Method()
	s.logger.Debug("received", zap.String("method", method))

	switch method {
	case methodInitialize:
		return s.handleInitialize(ctx, reply, req.Params())
	case methodInitialized:
		s.initialized.Store(true)
		s.logger.Info("server initialized", zap.String("root", s.workspaceRoot))
		return reply(ctx, nil, nil)
	case methodExit:
		s.exited.Store(true)
		err := reply(ctx, nil, nil)
		s.conn.Close()
		return err
	case methodCancelRequest:
		// 请求都是同步处理的，没有可取消的
		return reply(ctx, nil, nil)
	}

	if !s.initialized.Load() {
		return reply(ctx, nil, jsonrpc2.NewError(codeServerNotInitialized, "server not initialized"))
	}
	if s.shutdown.Load() {
		return reply(ctx, nil, jsonrpc2.ErrInvalidRequest)
	}

	switch method {
	case methodShutdown:
		s.shutdown.Store(true)
		s.logger.Info("shutdown requested")
		return reply(ctx, nil, nil)
	case methodDidOpen:
		return s.handleDidOpen(ctx, reply, req.Params())
	case methodDidChange:
		return s.handleDidChange(ctx, reply, req.Params())
	case methodDidClose:
		return s.handleDidClose(ctx, reply, req.Params())
	case methodDidSave:
		return s.handleDidSave(ctx, reply, req.Params())
	case methodDocumentSymbol:
		return s.handleDocumentSymbol(ctx, reply, req.Params())
	case MethodTranslate:
		return s.handleTranslate(ctx, reply, req.Params())
	default:
		s.logger.Debug("unknown method", zap.String("method", method))
		return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
	}
}

// handleInitialize 处理初始化请求
func (s *Server) handleInitialize(ctx context.Context, reply jsonrpc2.Replier, params []byte) error {
	var p protocol.InitializeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return reply(ctx, nil, jsonrpc2.ErrParse)
	}
	if p.RootURI != "" {
		s.workspaceRoot = uriToPath(string(p.RootURI))
	}

	// 返回服务器能力
	result := map[string]interface{}{
		"capabilities": map[string]interface{}{
			// 文档同步：增量同步
			"textDocumentSync": map[string]interface{}{
				"openClose": true,
				"change":    2, // TextDocumentSyncKindIncremental
				"save": map[string]interface{}{
					"includeText": true,
				},
			},
			// 文档符号
			"documentSymbolProvider": true,
			"experimental": map[string]interface{}{
				"translateProvider": true,
			},
		},
		"serverInfo": map[string]interface{}{
			"name":    "jpyls",
			"version": translator.Version,
		},
	}
	return reply(ctx, result, nil)
}

// handleDidOpen 处理文档打开
func (s *Server) handleDidOpen(ctx context.Context, reply jsonrpc2.Replier, params []byte) error {
	var p protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Warn("invalid didOpen params", zap.Error(err))
		return reply(ctx, nil, nil)
	}

	docURI := string(p.TextDocument.URI)
	s.logger.Debug("document opened", zap.String("uri", docURI))
	s.documents.Open(docURI, p.TextDocument.Text, int(p.TextDocument.Version))

	return s.replyAndPublish(ctx, reply, docURI)
}

// handleDidChange 处理文档变更
func (s *Server) handleDidChange(ctx context.Context, reply jsonrpc2.Replier, params []byte) error {
	var p struct {
		TextDocument   protocol.VersionedTextDocumentIdentifier `json:"textDocument"`
		ContentChanges []ContentChange                          `json:"contentChanges"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Warn("invalid didChange params", zap.Error(err))
		return reply(ctx, nil, nil)
	}

	docURI := string(p.TextDocument.URI)
	s.documents.ApplyChanges(docURI, p.ContentChanges, int(p.TextDocument.Version))

	return s.replyAndPublish(ctx, reply, docURI)
}

// handleDidClose 处理文档关闭
func (s *Server) handleDidClose(ctx context.Context, reply jsonrpc2.Replier, params []byte) error {
	var p protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Warn("invalid didClose params", zap.Error(err))
		return reply(ctx, nil, nil)
	}

	docURI := string(p.TextDocument.URI)
	s.logger.Debug("document closed", zap.String("uri", docURI))
	s.documents.Close(docURI)

	if err := reply(ctx, nil, nil); err != nil {
		return err
	}
	// 清除诊断
	return s.conn.Notify(ctx, methodPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         p.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
}

// handleDidSave 处理文档保存
func (s *Server) handleDidSave(ctx context.Context, reply jsonrpc2.Replier, params []byte) error {
	var p protocol.DidSaveTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Warn("invalid didSave params", zap.Error(err))
		return reply(ctx, nil, nil)
	}

	docURI := string(p.TextDocument.URI)
	if p.Text != "" {
		s.documents.UpdateContent(docURI, p.Text)
	}
	return s.replyAndPublish(ctx, reply, docURI)
}

// handleDocumentSymbol 处理文档符号请求
func (s *Server) handleDocumentSymbol(ctx context.Context, reply jsonrpc2.Replier, params []byte) error {
	var p protocol.DocumentSymbolParams
	if err := json.Unmarshal(params, &p); err != nil {
		return reply(ctx, nil, jsonrpc2.ErrInvalidParams)
	}

	doc := s.documents.Get(string(p.TextDocument.URI))
	if doc == nil {
		return reply(ctx, []protocol.DocumentSymbol{}, nil)
	}
	return reply(ctx, getDocumentSymbols(doc), nil)
}

// handleTranslate 返回文档当前内容的翻译结果
func (s *Server) handleTranslate(ctx context.Context, reply jsonrpc2.Replier, params []byte) error {
	var p TranslateParams
	if err := json.Unmarshal(params, &p); err != nil {
		return reply(ctx, nil, jsonrpc2.ErrInvalidParams)
	}

	doc := s.documents.Get(string(p.TextDocument.URI))
	if doc == nil {
		return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.InvalidParams, "document is not open: "+string(p.TextDocument.URI)))
	}

	result := TranslateResult{}
	if doc.Err != nil {
		result.Error = doc.Err.Error()
	} else if doc.Result != nil {
		result.Code = doc.Result.Code
	}
	return reply(ctx, result, nil)
}

// replyAndPublish 确认通知后发布诊断
func (s *Server) replyAndPublish(ctx context.Context, reply jsonrpc2.Replier, docURI string) error {
	if err := reply(ctx, nil, nil); err != nil {
		return err
	}
	return s.publishDiagnostics(ctx, docURI)
}

// publishDiagnostics 发布诊断信息
func (s *Server) publishDiagnostics(ctx context.Context, docURI string) error {
	doc := s.documents.Get(docURI)
	if doc == nil {
		return nil
	}

	diagnostics := getDiagnostics(doc)
	s.logger.Debug("publish diagnostics",
		zap.String("uri", docURI),
		zap.Int("version", doc.Version),
		zap.Int("count", len(diagnostics)))

	return s.conn.Notify(ctx, methodPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(docURI),
		Version:     uint32(doc.Version),
		Diagnostics: diagnostics,
	})
}

// uriToPath 将 URI 转换为文件路径
func uriToPath(docURI string) (path string) {
	// 非 file:// 的 URI 会让 Filename panic
	defer func() {
		if recover() != nil {
			path = docURI
		}
	}()
	u, err := uri.Parse(docURI)
	if err != nil {
		return docURI
	}
	return u.Filename()
}

// ============================================================================
// 标准输入输出
// ============================================================================

type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

func (stdio) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}

// Stdio 返回基于标准输入输出的连接
func Stdio() io.ReadWriteCloser {
	return stdio{}
}
