// Package types 提供 Java 类型字符串的判定、兼容性规则以及到 Python 类型的映射
//
// 类型统一以源代码中的文本表示：int、String、int[]、List<String>、Map<K, V>。
// 泛型实参只在语法上保留，不做校验。
package types

import (
	"strings"

	"github.com/tangzhangming/jpy/internal/token"
)

// 常用类型名
const (
	Unknown = "?"    // 无法推断的类型，参与的检查一律放行
	Null    = "null" // null 字面量的类型

	Boolean = "boolean"
	Byte    = "byte"
	Char    = "char"
	Short   = "short"
	Int     = "int"
	Long    = "long"
	Float   = "float"
	Double  = "double"
	Void    = "void"
	String  = "String"
	Object  = "Object"
)

// boxes 基本类型到包装类型
var boxes = map[string]string{
	Boolean: "Boolean",
	Byte:    "Byte",
	Char:    "Character",
	Short:   "Short",
	Int:     "Integer",
	Long:    "Long",
	Float:   "Float",
	Double:  "Double",
}

// unboxes 包装类型到基本类型
var unboxes = map[string]string{}

func init() {
	for prim, box := range boxes {
		unboxes[box] = prim
	}
}

// numericRank 数值类型的拓宽顺序（char 单独处理）
var numericRank = map[string]int{
	Byte:   1,
	Short:  2,
	Char:   2,
	Int:    3,
	Long:   4,
	Float:  5,
	Double: 6,
}

// ============================================================================
// 结构判定
// ============================================================================

// IsUnknown 是否为未知类型
func IsUnknown(t string) bool {
	return t == "" || t == Unknown
}

// IsPrimitive 是否为基本类型（不含 void）
func IsPrimitive(t string) bool {
	_, ok := boxes[t]
	return ok
}

// Unbox 返回包装类型对应的基本类型，其他类型原样返回
func Unbox(t string) string {
	if prim, ok := unboxes[t]; ok {
		return prim
	}
	return t
}

// Box 返回基本类型对应的包装类型，其他类型原样返回
func Box(t string) string {
	if box, ok := boxes[t]; ok {
		return box
	}
	return t
}

// IsNumeric 是否为数值类型（含 char 与包装类型）
func IsNumeric(t string) bool {
	_, ok := numericRank[Unbox(t)]
	return ok
}

// IsIntegral 是否为整数类型（含 char 与包装类型）
func IsIntegral(t string) bool {
	switch Unbox(t) {
	case Byte, Short, Char, Int, Long:
		return true
	}
	return false
}

// IsFloating 是否为浮点类型
func IsFloating(t string) bool {
	switch Unbox(t) {
	case Float, Double:
		return true
	}
	return false
}

// IsBoolean 是否为布尔类型
func IsBoolean(t string) bool {
	return Unbox(t) == Boolean
}

// IsString 是否为 String
func IsString(t string) bool {
	return t == String
}

// IsChar 是否为 char / Character
func IsChar(t string) bool {
	return Unbox(t) == Char
}

// IsReference 是否为引用类型
func IsReference(t string) bool {
	return !IsUnknown(t) && !IsPrimitive(t) && t != Void && t != Null
}

// IsArray 是否为数组类型
func IsArray(t string) bool {
	return strings.HasSuffix(t, "[]")
}

// ArrayOf 返回元素为 t 的数组类型
func ArrayOf(t string) string {
	return t + "[]"
}

// Base 返回去掉泛型实参后的类名，数组类型原样返回
func Base(t string) string {
	if IsArray(t) {
		return t
	}
	if i := strings.IndexByte(t, '<'); i >= 0 {
		return t[:i]
	}
	return t
}

// Args 返回顶层泛型实参
func Args(t string) []string {
	if IsArray(t) {
		return nil
	}
	open := strings.IndexByte(t, '<')
	if open < 0 || !strings.HasSuffix(t, ">") {
		return nil
	}
	inner := t[open+1 : len(t)-1]
	if strings.TrimSpace(inner) == "" {
		return nil
	}

	var args []string
	depth, start := 0, 0
	for i, ch := range inner {
		switch ch {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(inner[start:i]))
				start = i + 1
			}
		}
	}
	return append(args, strings.TrimSpace(inner[start:]))
}

// arg 返回第 i 个泛型实参，缺失时为 Unknown
func arg(t string, i int) string {
	args := Args(t)
	if i < len(args) {
		return args[i]
	}
	return Unknown
}

// Elem 返回数组、列表或集合的元素类型，其他类型返回 Unknown
func Elem(t string) string {
	if IsArray(t) {
		return strings.TrimSuffix(t, "[]")
	}
	switch Family(t) {
	case FamilyList, FamilySet:
		return arg(t, 0)
	}
	return Unknown
}

// KeyValue 返回映射类型的键与值类型
func KeyValue(t string) (string, string) {
	return arg(t, 0), arg(t, 1)
}

// ============================================================================
// 集合家族
// ============================================================================

// CollectionFamily 标准库集合类型的分类
type CollectionFamily int

const (
	FamilyNone CollectionFamily = iota
	FamilyList
	FamilySet
	FamilyMap
)

var families = map[string]CollectionFamily{
	"List":          FamilyList,
	"ArrayList":     FamilyList,
	"LinkedList":    FamilyList,
	"Collection":    FamilyList,
	"Iterable":      FamilyList,
	"Deque":         FamilyList,
	"ArrayDeque":    FamilyList,
	"Queue":         FamilyList,
	"Stack":         FamilyList,
	"Vector":        FamilyList,
	"Set":           FamilySet,
	"HashSet":       FamilySet,
	"TreeSet":       FamilySet,
	"LinkedHashSet": FamilySet,
	"Map":           FamilyMap,
	"HashMap":       FamilyMap,
	"TreeMap":       FamilyMap,
	"LinkedHashMap": FamilyMap,
}

// Family 返回类型所属的集合家族
func Family(t string) CollectionFamily {
	return families[Base(t)]
}

// libraryParents 标准库类型的直接上级（仅覆盖兼容性判断需要的部分）
var libraryParents = map[string][]string{
	"ArrayList":     {"List"},
	"LinkedList":    {"List", "Deque"},
	"Vector":        {"List"},
	"Stack":         {"Vector"},
	"ArrayDeque":    {"Deque"},
	"Deque":         {"Queue"},
	"Queue":         {"Collection"},
	"List":          {"Collection"},
	"Set":           {"Collection"},
	"HashSet":       {"Set"},
	"LinkedHashSet": {"HashSet"},
	"TreeSet":       {"Set"},
	"Collection":    {"Iterable"},
	"HashMap":       {"Map"},
	"LinkedHashMap": {"HashMap"},
	"TreeMap":       {"Map"},
	"String":        {"CharSequence", "Comparable"},
	"StringBuilder": {"CharSequence"},
	"Integer":       {"Number", "Comparable"},
	"Long":          {"Number", "Comparable"},
	"Double":        {"Number", "Comparable"},
	"Float":         {"Number", "Comparable"},
	"Short":         {"Number", "Comparable"},
	"Byte":          {"Number", "Comparable"},
	"Character":     {"Comparable"},
	"Boolean":       {"Comparable"},
}

// LibraryExtends 标准库类型 sub 是否为 sup 的子类型
func LibraryExtends(sub, sup string) bool {
	return libraryExtends(sub, sup)
}

func libraryExtends(sub, sup string) bool {
	if sub == sup {
		return true
	}
	for _, parent := range libraryParents[sub] {
		if libraryExtends(parent, sup) {
			return true
		}
	}
	if IsException(sub) {
		return exceptionExtends(sub, sup)
	}
	return false
}

// ============================================================================
// 兼容性
// ============================================================================

// Hierarchy 提供用户定义类的继承关系
type Hierarchy interface {
	IsClass(name string) bool
	IsSubclass(sub, super string) bool
}

// Widens 判断基本类型 from 是否可以拓宽为 to
func Widens(from, to string) bool {
	if from == to {
		return true
	}
	switch from {
	case Byte:
		return to == Short || to == Int || to == Long || to == Float || to == Double
	case Short, Char:
		return to == Int || to == Long || to == Float || to == Double
	case Int:
		return to == Long || to == Float || to == Double
	case Long:
		return to == Float || to == Double
	case Float:
		return to == Double
	}
	return false
}

// Assignable 判断 from 类型的值能否赋给 to 类型
//
// 规则：相同类型；null 赋给引用类型；基本类型拓宽；装箱与拆箱（随后拓宽）；
// 泛型按基类名比较；用户类沿继承链比较；任何值都可以赋给 Object。
// 任一方未知时视为兼容；不认识的引用类型（可能是接口）也视为兼容。
func Assignable(to, from string, h Hierarchy) bool {
	if IsUnknown(to) || IsUnknown(from) || to == from {
		return true
	}
	if from == Void || to == Void {
		return false
	}
	if from == Null {
		return !IsPrimitive(to)
	}
	if to == Object {
		return true
	}

	if IsPrimitive(to) {
		src := Unbox(from)
		if !IsPrimitive(src) {
			return false
		}
		return Widens(src, to)
	}
	if IsPrimitive(from) {
		if box, ok := boxes[from]; ok && (box == to || libraryExtends(box, to)) {
			return true
		}
		// int 字面量等装箱到更宽的包装类型不被允许，与 Java 一致
		return false
	}

	if IsArray(to) || IsArray(from) {
		if IsArray(to) && IsArray(from) {
			et, ef := Elem(to), Elem(from)
			if IsPrimitive(et) || IsPrimitive(ef) {
				return et == ef
			}
			return Assignable(et, ef, h)
		}
		return false
	}

	bt, bf := Base(to), Base(from)
	if bt == bf {
		return true
	}
	if libraryExtends(bf, bt) {
		return true
	}
	if h != nil && h.IsClass(bf) {
		if h.IsSubclass(bf, bt) {
			return true
		}
		// 目标既不是用户类也不是已知库类型，可能是接口
		return !h.IsClass(bt) && !IsKnownLibraryType(bt)
	}
	if IsKnownLibraryType(bf) && IsKnownLibraryType(bt) {
		return false
	}
	if h != nil && h.IsClass(bt) && IsKnownLibraryType(bf) {
		return false
	}
	return true
}

// Compatible 判断两个类型是否相互兼容（三元表达式两个分支）
func Compatible(a, b string, h Hierarchy) bool {
	if IsNumeric(a) && IsNumeric(b) {
		return true
	}
	return Assignable(a, b, h) || Assignable(b, a, h)
}

// Common 返回三元表达式两个分支的公共类型
func Common(a, b string, h Hierarchy) string {
	switch {
	case IsUnknown(a) || IsUnknown(b):
		return Unknown
	case a == b:
		return a
	case a == Null:
		return Box(b)
	case b == Null:
		return Box(a)
	case IsNumeric(a) && IsNumeric(b):
		return Promote(a, b)
	case Assignable(a, b, h):
		return a
	case Assignable(b, a, h):
		return b
	}
	return Unknown
}

// ============================================================================
// 运算结果类型
// ============================================================================

// PromoteUnary 一元数值提升：byte/short/char 提升为 int
func PromoteUnary(t string) string {
	switch u := Unbox(t); u {
	case Byte, Short, Char:
		return Int
	default:
		return u
	}
}

// Promote 二元数值提升
func Promote(a, b string) string {
	a, b = Unbox(a), Unbox(b)
	switch {
	case a == Double || b == Double:
		return Double
	case a == Float || b == Float:
		return Float
	case a == Long || b == Long:
		return Long
	default:
		return Int
	}
}

// BinaryResult 返回二元运算的结果类型，操作数类型不合法时 ok 为 false
func BinaryResult(op token.TokenType, l, r string) (string, bool) {
	unknown := IsUnknown(l) || IsUnknown(r)

	switch op {
	case token.PLUS:
		if IsString(l) || IsString(r) {
			return String, l != Void && r != Void
		}
		if unknown {
			return Unknown, true
		}
		if IsNumeric(l) && IsNumeric(r) {
			return Promote(l, r), true
		}
		return Unknown, false

	case token.MINUS, token.STAR, token.SLASH, token.PERCENT:
		if unknown {
			return Unknown, true
		}
		if IsNumeric(l) && IsNumeric(r) {
			return Promote(l, r), true
		}
		return Unknown, false

	case token.SHL, token.SHR, token.USHR:
		if unknown {
			return Unknown, true
		}
		if IsIntegral(l) && IsIntegral(r) {
			return PromoteUnary(l), true
		}
		return Unknown, false

	case token.LT, token.LE, token.GT, token.GE:
		return Boolean, unknown || (IsNumeric(l) && IsNumeric(r))

	case token.EQ, token.NE:
		if unknown {
			return Boolean, true
		}
		switch {
		case IsNumeric(l) && IsNumeric(r):
			return Boolean, true
		case IsBoolean(l) && IsBoolean(r):
			return Boolean, true
		case IsPrimitive(l) || IsPrimitive(r):
			return Boolean, false
		}
		return Boolean, l != Void && r != Void

	case token.AND, token.OR:
		return Boolean, unknown || (IsBoolean(l) && IsBoolean(r))

	case token.BIT_AND, token.BIT_OR, token.BIT_XOR:
		if unknown {
			return Unknown, true
		}
		if IsBoolean(l) && IsBoolean(r) {
			return Boolean, true
		}
		if IsIntegral(l) && IsIntegral(r) {
			return Promote(l, r), true
		}
		return Unknown, false
	}
	return Unknown, false
}

// UnaryResult 返回前缀一元运算的结果类型
func UnaryResult(op token.TokenType, t string) (string, bool) {
	if IsUnknown(t) {
		if op == token.NOT {
			return Boolean, true
		}
		return Unknown, true
	}
	switch op {
	case token.NOT:
		return Boolean, IsBoolean(t)
	case token.MINUS, token.PLUS:
		return PromoteUnary(t), IsNumeric(t)
	case token.BIT_NOT:
		return PromoteUnary(t), IsIntegral(t)
	case token.INCREMENT, token.DECREMENT:
		return t, IsNumeric(t)
	}
	return Unknown, false
}
