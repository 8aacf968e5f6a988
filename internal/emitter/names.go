package emitter

import "strconv"

// reserved Python 关键字与常用内置名，Java 标识符与之相同时加下划线后缀
var reserved = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true, "assert": true,
	"async": true, "await": true, "def": true, "del": true, "elif": true, "except": true,
	"from": true, "global": true, "in": true, "is": true, "lambda": true, "nonlocal": true,
	"not": true, "or": true, "pass": true, "raise": true, "with": true, "yield": true,
	"match": true, "case": true, "type": true,

	"len": true, "list": true, "dict": true, "set": true, "str": true, "int": true,
	"float": true, "bool": true, "print": true, "range": true, "input": true, "id": true,
	"min": true, "max": true, "sum": true, "abs": true, "map": true, "filter": true,
	"object": true, "iter": true, "next": true, "format": true, "hash": true, "ord": true,
	"chr": true, "sorted": true, "reversed": true, "round": true, "open": true, "sys": true,
	"math": true, "random": true, "time": true, "os": true, "traceback": true,
	"self": true, "cls": true, "super": true, "_UNSET": true,
	"_jdiv": true, "_jmod": true, "_store_attr": true, "_store_item": true,
}

// pyName 返回 Java 标识符在生成代码中的名字
func pyName(name string) string {
	if reserved[name] {
		return name + "_"
	}
	return name
}

// fieldName 返回类 class 可见的字段 name 在生成代码中的名字
//
// 与方法同名的字段加下划线前缀，声明与所有引用保持一致。
func (e *Emitter) fieldName(class, name string) string {
	if _, owner, ok := e.index.LookupField(class, name); ok && e.index.ShadowsMethod(owner, name) {
		return "_" + name
	}
	return pyName(name)
}

// quote 返回 Python 字符串字面量（Go 的转义写法 Python 都能识别）
func quote(s string) string {
	return strconv.Quote(s)
}
