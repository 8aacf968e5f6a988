package checker

import (
	"fmt"
	"strings"

	"github.com/tangzhangming/jpy/internal/ast"
	"github.com/tangzhangming/jpy/internal/errors"
	"github.com/tangzhangming/jpy/internal/token"
	"github.com/tangzhangming/jpy/internal/types"
)

// ============================================================================
// 符号表实体
// ============================================================================

// Origin 变量来源
type Origin int

const (
	OriginField Origin = iota
	OriginParam
	OriginLocal
)

func (o Origin) String() string {
	switch o {
	case OriginField:
		return "field"
	case OriginParam:
		return "parameter"
	default:
		return "local"
	}
}

// VarInfo 变量（字段、参数、局部变量）
type VarInfo struct {
	Name   string
	Type   string
	Origin Origin
	Static bool
	Pos    token.Position
}

// MethodInfo 一个方法或构造器重载
type MethodInfo struct {
	Name     string
	Result   string
	Params   []string
	Static   bool
	Variadic bool
	Pos      token.Position
}

// Signature 返回 (T1, T2) 形式的参数列表
func (m *MethodInfo) Signature() string {
	return strings.Join(m.Params, ", ")
}

func (m *MethodInfo) shape() types.MethodShape {
	return types.MethodShape{Name: m.Name, Return: m.Result, Params: m.Params, Static: m.Static, Variadic: m.Variadic}
}

// ClassInfo 类的成员表
type ClassInfo struct {
	Name       string
	Super      string // 父类名，按名字延迟解析
	TypeParams []string
	Fields     []*VarInfo // 声明顺序
	Methods    map[string][]*MethodInfo
	Ctors      []*MethodInfo
	Decl       *ast.ClassDecl

	fieldIndex map[string]int
}

func newClassInfo(decl *ast.ClassDecl) *ClassInfo {
	info := &ClassInfo{
		Name:       decl.Name.Name,
		Super:      decl.SuperName(),
		Methods:    make(map[string][]*MethodInfo),
		Decl:       decl,
		fieldIndex: make(map[string]int),
	}
	for _, p := range decl.TypeParams {
		info.TypeParams = append(info.TypeParams, p.Name)
	}
	return info
}

// Field 按名字查找本类声明的字段
func (c *ClassInfo) Field(name string) (*VarInfo, bool) {
	i, ok := c.fieldIndex[name]
	if !ok {
		return nil, false
	}
	return c.Fields[i], true
}

func (c *ClassInfo) addField(v *VarInfo) bool {
	if _, dup := c.fieldIndex[v.Name]; dup {
		return false
	}
	c.fieldIndex[v.Name] = len(c.Fields)
	c.Fields = append(c.Fields, v)
	return true
}

// sameParams 两个重载的参数类型列表是否完全相同
func sameParams(a, b *MethodInfo) bool {
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if a.Params[i] != b.Params[i] {
			return false
		}
	}
	return true
}

// ============================================================================
// 作用域
// ============================================================================

// ScopeID 作用域在 arena 中的下标
type ScopeID int

// NoScope 根作用域的父作用域
const NoScope ScopeID = -1

// Scope 一层局部变量表，Parent 是 arena 下标而不是指针
type Scope struct {
	Parent ScopeID
	Vars   map[string]*VarInfo
}

// scopeArena 持有一次检查中创建的全部作用域
type scopeArena struct {
	scopes  []Scope
	current ScopeID
}

func (a *scopeArena) reset() {
	a.scopes = a.scopes[:0]
	a.current = NoScope
}

func (a *scopeArena) push() {
	a.scopes = append(a.scopes, Scope{Parent: a.current, Vars: make(map[string]*VarInfo)})
	a.current = ScopeID(len(a.scopes) - 1)
}

func (a *scopeArena) pop() {
	a.current = a.scopes[a.current].Parent
}

// declare 在当前作用域声明变量，同一作用域重复声明时返回 false
func (a *scopeArena) declare(v *VarInfo) bool {
	scope := &a.scopes[a.current]
	if _, dup := scope.Vars[v.Name]; dup {
		return false
	}
	scope.Vars[v.Name] = v
	return true
}

// lookup 沿父链查找
func (a *scopeArena) lookup(name string) (*VarInfo, bool) {
	for id := a.current; id != NoScope; id = a.scopes[id].Parent {
		if v, ok := a.scopes[id].Vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// visible 返回当前可见的全部变量名
func (a *scopeArena) visible() []string {
	var names []string
	for id := a.current; id != NoScope; id = a.scopes[id].Parent {
		for name := range a.scopes[id].Vars {
			names = append(names, name)
		}
	}
	return names
}

// ============================================================================
// 诊断
// ============================================================================

// Diagnostic 一条非致命的语义问题
type Diagnostic struct {
	Pos      token.Position
	Code     string
	Severity errors.Level
	Message  string
	Hint     string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s[%s]: %s", d.Pos, d.Severity, d.Code, d.Message)
}

// IsError 是否为错误级别
func (d Diagnostic) IsError() bool {
	return d.Severity == errors.LevelError
}

// ToCompileError 转换为用于渲染的 CompileError
func (d Diagnostic) ToCompileError() *errors.CompileError {
	ce := &errors.CompileError{
		Code:    d.Code,
		Level:   d.Severity,
		Message: d.Message,
		File:    d.Pos.Filename,
		Line:    d.Pos.Line,
		Column:  d.Pos.Column,
	}
	if d.Hint != "" {
		ce.Hints = []string{d.Hint}
	}
	return ce
}

// HasErrors 是否包含错误级别的诊断
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.IsError() {
			return true
		}
	}
	return false
}
