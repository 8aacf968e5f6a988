package lsp

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf16"

	"go.lsp.dev/protocol"

	"github.com/tangzhangming/jpy/internal/translator"
)

// Document 表示一个打开的文档
type Document struct {
	URI     string
	Content string
	Version int
	Lines   []string // 按行分割的内容

	// 缓存的翻译结果：语法错误时 Result 为 nil，生成失败时 Err 非空
	Result *translator.Result
	Err    error

	// 是否需要重新翻译
	dirty bool
}

// ContentChange 一次文档变更，Range 为 nil 时 Text 是文档的完整内容
//
// protocol.TextDocumentContentChangeEvent 的 Range 不是指针，无法区分省略的 range
// 与文件开头的空 range。
type ContentChange struct {
	Range *protocol.Range `json:"range,omitempty"`
	Text  string          `json:"text"`
}

// DocumentManager 文档管理器
type DocumentManager struct {
	documents map[string]*Document
	mu        sync.RWMutex
	options   translator.Options
}

// NewDocumentManager 创建文档管理器
func NewDocumentManager(options translator.Options) *DocumentManager {
	return &DocumentManager{
		documents: make(map[string]*Document),
		options:   options,
	}
}

// Open 打开文档
func (dm *DocumentManager) Open(uri, content string, version int) *Document {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc := &Document{
		URI:     uri,
		Content: content,
		Version: version,
		Lines:   splitLines(content),
		dirty:   true,
	}
	doc.translate(dm.options)

	dm.documents[uri] = doc
	return doc
}

// Close 关闭文档
func (dm *DocumentManager) Close(uri string) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	delete(dm.documents, uri)
}

// Get 获取文档
func (dm *DocumentManager) Get(uri string) *Document {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.documents[uri]
}

// UpdateContent 用完整内容替换文档
func (dm *DocumentManager) UpdateContent(uri, content string) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc, ok := dm.documents[uri]
	if !ok {
		return
	}

	doc.Content = content
	doc.Lines = splitLines(content)
	doc.dirty = true
	doc.translate(dm.options)
}

// ApplyChanges 依次应用一组变更后重新翻译
func (dm *DocumentManager) ApplyChanges(uri string, changes []ContentChange, version int) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc, ok := dm.documents[uri]
	if !ok {
		return
	}

	for _, change := range changes {
		if change.Range == nil {
			doc.Content = change.Text
			continue
		}
		doc.Content = applyTextEdit(doc.Content, *change.Range, change.Text)
	}

	doc.Lines = splitLines(doc.Content)
	doc.Version = version
	doc.dirty = true
	doc.translate(dm.options)
}

// Count 打开的文档数
func (dm *DocumentManager) Count() int {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return len(dm.documents)
}

// maxDocumentSize 文档大小限制（500KB），防止内存暴涨
const maxDocumentSize = 500 * 1024

// translate 运行完整的翻译流水线
func (doc *Document) translate(options translator.Options) {
	if !doc.dirty {
		return
	}
	doc.dirty = false

	if len(doc.Content) > maxDocumentSize {
		doc.Result = nil
		doc.Err = fmt.Errorf("document too large to translate (%d bytes)", len(doc.Content))
		return
	}

	doc.Result, doc.Err = translator.Translate(doc.Content, uriToPath(doc.URI), options)
}

// GetLine 获取指定行内容（0-based）
func (doc *Document) GetLine(line int) string {
	if line < 0 || line >= len(doc.Lines) {
		return ""
	}
	return doc.Lines[line]
}

// splitLines 将内容按行分割
func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return strings.Split(content, "\n")
}

// applyTextEdit 应用文本编辑
func applyTextEdit(content string, rang protocol.Range, newText string) string {
	lines := splitLines(content)

	startLine := clamp(int(rang.Start.Line), 0, len(lines)-1)
	endLine := clamp(int(rang.End.Line), 0, len(lines)-1)
	startLineText := lines[startLine]
	endLineText := lines[endLine]
	startChar := byteOffset(startLineText, int(rang.Start.Character))
	endChar := byteOffset(endLineText, int(rang.End.Character))

	var result strings.Builder
	for i := 0; i < startLine; i++ {
		result.WriteString(lines[i])
		result.WriteString("\n")
	}
	result.WriteString(startLineText[:startChar])
	result.WriteString(newText)
	result.WriteString(endLineText[endChar:])
	for i := endLine + 1; i < len(lines); i++ {
		result.WriteString("\n")
		result.WriteString(lines[i])
	}

	return result.String()
}

// byteOffset 把 UTF-16 编码单元计数的列号换成行内的字节偏移，超出行尾时取行尾
func byteOffset(line string, character int) int {
	units := 0
	for i, r := range line {
		if units >= character {
			return i
		}
		units += utf16.RuneLen(r)
	}
	return len(line)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
