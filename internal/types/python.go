package types

import "strings"

// ============================================================================
// Python 类型映射
// ============================================================================

// PythonType 返回 Java 类型对应的 Python 类型注解
func PythonType(t string) string {
	if IsUnknown(t) {
		return "object"
	}
	if IsArray(t) {
		return "list[" + PythonType(Elem(t)) + "]"
	}

	switch Unbox(t) {
	case Byte, Short, Int, Long:
		return "int"
	case Float, Double:
		return "float"
	case Boolean:
		return "bool"
	case Char:
		return "str"
	case Void:
		return "None"
	}

	switch Base(t) {
	case String, "CharSequence", "StringBuilder":
		return "str"
	case Object:
		return "object"
	case "BigInteger", "Number":
		return "int"
	case "BigDecimal":
		return "float"
	case "Optional":
		return PythonType(arg(t, 0)) + " | None"
	}

	args := Args(t)
	switch Family(t) {
	case FamilyList:
		if len(args) == 0 {
			return "list"
		}
		return "list[" + PythonType(args[0]) + "]"
	case FamilySet:
		if len(args) == 0 {
			return "set"
		}
		return "set[" + PythonType(args[0]) + "]"
	case FamilyMap:
		if len(args) < 2 {
			return "dict"
		}
		return "dict[" + PythonType(args[0]) + ", " + PythonType(args[1]) + "]"
	}

	if IsException(Base(t)) {
		return PythonException(Base(t))
	}
	// 用户类与类型形参去掉泛型实参后原样使用
	return strings.TrimSpace(Base(t))
}

// PythonDefault 返回 Java 类型在 Python 中的默认值表达式
func PythonDefault(t string) string {
	if IsArray(t) {
		return "[]"
	}
	switch PythonType(t) {
	case "int":
		return "0"
	case "float":
		return "0.0"
	case "bool":
		return "False"
	case "str":
		return `""`
	}
	switch Family(t) {
	case FamilyList:
		return "[]"
	case FamilySet:
		return "set()"
	case FamilyMap:
		return "{}"
	}
	return "None"
}
