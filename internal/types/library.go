package types

import "strings"

// ============================================================================
// 标准库知识
// ============================================================================

// 返回类型模板中的占位符：
//
//	$E  接收者的元素类型
//	$K  映射的键类型
//	$V  映射的值类型
//	$0  第一个实参的类型
//	$P  全部实参的数值提升结果
//	$L  List<接收者元素类型>
type signatureTable map[string]string

// libraryTypes 认识的标准库类型（用于名字解析与兼容性判断）
var libraryTypes = map[string]bool{
	"Object": true, "String": true, "StringBuilder": true, "CharSequence": true,
	"Comparable": true, "Number": true, "Math": true, "System": true,
	"Integer": true, "Long": true, "Double": true, "Float": true, "Short": true,
	"Byte": true, "Character": true, "Boolean": true,
	"Arrays": true, "Collections": true, "Objects": true, "Optional": true,
	"PrintStream": true, "InputStream": true, "Scanner": true, "Random": true,
	"Iterator": true,
}

func init() {
	for name := range families {
		libraryTypes[name] = true
	}
	for name := range exceptionParents {
		libraryTypes[name] = true
	}
}

// IsKnownLibraryType 是否为认识的标准库类型
func IsKnownLibraryType(name string) bool {
	return libraryTypes[Base(name)]
}

// staticFields 标准库静态字段
var staticFields = map[string]signatureTable{
	"System":    {"out": "PrintStream", "err": "PrintStream", "in": "InputStream"},
	"Math":      {"PI": Double, "E": Double},
	"Integer":   {"MAX_VALUE": Int, "MIN_VALUE": Int},
	"Long":      {"MAX_VALUE": Long, "MIN_VALUE": Long},
	"Double":    {"MAX_VALUE": Double, "MIN_VALUE": Double, "POSITIVE_INFINITY": Double, "NEGATIVE_INFINITY": Double, "NaN": Double},
	"Float":     {"MAX_VALUE": Float, "MIN_VALUE": Float},
	"Short":     {"MAX_VALUE": Short, "MIN_VALUE": Short},
	"Byte":      {"MAX_VALUE": Byte, "MIN_VALUE": Byte},
	"Character": {"MAX_VALUE": Char, "MIN_VALUE": Char},
	"Boolean":   {"TRUE": "Boolean", "FALSE": "Boolean"},
}

// staticMethods 标准库静态方法
var staticMethods = map[string]signatureTable{
	"Math": {
		"abs": "$0", "max": "$P", "min": "$P",
		"sqrt": Double, "cbrt": Double, "pow": Double, "floor": Double, "ceil": Double,
		"random": Double, "sin": Double, "cos": Double, "tan": Double, "atan": Double,
		"atan2": Double, "log": Double, "log10": Double, "exp": Double, "hypot": Double,
		"round": Long, "floorDiv": "$P", "floorMod": "$P", "signum": Double,
		"toRadians": Double, "toDegrees": Double,
	},
	"Integer": {
		"parseInt": Int, "valueOf": "Integer", "toString": String, "toBinaryString": String,
		"toHexString": String, "max": Int, "min": Int, "sum": Int, "compare": Int, "signum": Int,
		"bitCount": Int,
	},
	"Long": {
		"parseLong": Long, "valueOf": "Long", "toString": String, "max": Long, "min": Long,
		"compare": Int,
	},
	"Double": {
		"parseDouble": Double, "valueOf": "Double", "toString": String, "compare": Int,
		"isNaN": Boolean, "isInfinite": Boolean, "max": Double, "min": Double,
	},
	"Boolean": {"parseBoolean": Boolean, "valueOf": "Boolean", "toString": String},
	"Character": {
		"isDigit": Boolean, "isLetter": Boolean, "isLetterOrDigit": Boolean,
		"isWhitespace": Boolean, "isUpperCase": Boolean, "isLowerCase": Boolean,
		"toUpperCase": Char, "toLowerCase": Char, "getNumericValue": Int, "toString": String,
	},
	"String": {"valueOf": String, "format": String, "join": String},
	"System": {
		"currentTimeMillis": Long, "nanoTime": Long, "exit": Void,
		"arraycopy": Void, "lineSeparator": String, "getenv": String,
	},
	"Arrays": {
		"asList": "List<$0E>", "toString": String, "sort": Void, "fill": Void,
		"copyOf": "$0", "copyOfRange": "$0", "equals": Boolean, "stream": Unknown,
	},
	"List":        {"of": "List<$0>", "copyOf": "$0"},
	"Set":         {"of": "Set<$0>", "copyOf": "$0"},
	"Map":         {"of": "Map<?, ?>"},
	"Collections": {"sort": Void, "reverse": Void, "max": "$0E", "min": "$0E", "shuffle": Void, "emptyList": "List<?>", "unmodifiableList": "$0", "swap": Void},
	"Objects":     {"equals": Boolean, "hash": Int, "hashCode": Int, "isNull": Boolean, "nonNull": Boolean, "requireNonNull": "$0", "toString": String},
}

// instanceMethods 标准库实例方法，键为接收者类型族
var instanceMethods = map[string]signatureTable{
	"String": {
		"length": Int, "charAt": Char, "substring": String, "indexOf": Int, "lastIndexOf": Int,
		"equals": Boolean, "equalsIgnoreCase": Boolean, "isEmpty": Boolean, "isBlank": Boolean,
		"contains": Boolean, "startsWith": Boolean, "endsWith": Boolean,
		"toUpperCase": String, "toLowerCase": String, "trim": String, "strip": String,
		"replace": String, "replaceAll": String, "repeat": String, "concat": String,
		"compareTo": Int, "compareToIgnoreCase": Int, "split": "String[]",
		"toCharArray": "char[]", "hashCode": Int, "toString": String, "matches": Boolean,
		"chars": Unknown, "format": String,
	},
	"StringBuilder": {
		"append": "StringBuilder", "insert": "StringBuilder", "reverse": "StringBuilder",
		"toString": String, "length": Int, "charAt": Char, "setLength": Void,
		"deleteCharAt": "StringBuilder", "setCharAt": Void, "indexOf": Int,
	},
	"List": {
		"size": Int, "get": "$E", "set": "$E", "add": Boolean, "addAll": Boolean,
		"remove": Unknown, "isEmpty": Boolean, "contains": Boolean, "indexOf": Int,
		"lastIndexOf": Int, "clear": Void, "sort": Void, "subList": "$L", "toString": String,
		"iterator": Unknown, "stream": Unknown, "forEach": Void,
		"push": Void, "pop": "$E", "peek": "$E", "poll": "$E", "offer": Boolean,
		"addFirst": Void, "addLast": Void, "removeFirst": "$E", "removeLast": "$E",
		"getFirst": "$E", "getLast": "$E", "peekFirst": "$E", "peekLast": "$E",
		"pollFirst": "$E", "pollLast": "$E",
	},
	"Set": {
		"size": Int, "add": Boolean, "remove": Boolean, "contains": Boolean, "isEmpty": Boolean,
		"clear": Void, "addAll": Boolean, "toString": String,
	},
	"Map": {
		"size": Int, "get": "$V", "put": "$V", "remove": "$V", "containsKey": Boolean,
		"containsValue": Boolean, "getOrDefault": "$V", "isEmpty": Boolean, "clear": Void,
		"keySet": "Set<$K>", "values": "List<$V>", "putIfAbsent": "$V", "toString": String,
		"entrySet": Unknown, "merge": "$V",
	},
	"PrintStream": {"println": Void, "print": Void, "printf": "PrintStream", "flush": Void},
	"Object":      {"toString": String, "equals": Boolean, "hashCode": Int, "getClass": Unknown},
}

// StaticField 返回标准库静态字段的类型
func StaticField(class, name string) (string, bool) {
	t, ok := staticFields[class][name]
	return t, ok
}

// HasStaticMembers 是否为带静态成员的标准库类
func HasStaticMembers(class string) bool {
	_, f := staticFields[class]
	_, m := staticMethods[class]
	return f || m
}

// StaticMethod 返回标准库静态方法的返回类型
func StaticMethod(class, name string, args []string) (string, bool) {
	tmpl, ok := staticMethods[class][name]
	if !ok {
		return Unknown, false
	}
	return expand(tmpl, Unknown, args), true
}

// InstanceMethod 返回标准库实例方法的返回类型
//
// 接收者不是认识的标准库类型时 ok 为 false。
func InstanceMethod(recv, name string, args []string) (string, bool) {
	family := receiverFamily(recv)
	if family == "" {
		return Unknown, false
	}
	if tmpl, ok := instanceMethods[family][name]; ok {
		return expand(tmpl, recv, args), true
	}
	if tmpl, ok := instanceMethods["Object"][name]; ok {
		return tmpl, true
	}
	return Unknown, true
}

// IsLibraryReceiver 是否为认识的标准库实例类型
func IsLibraryReceiver(recv string) bool {
	return receiverFamily(recv) != ""
}

func receiverFamily(recv string) string {
	switch {
	case IsUnknown(recv):
		return ""
	case recv == String:
		return "String"
	case recv == "StringBuilder":
		return "StringBuilder"
	case recv == "PrintStream":
		return "PrintStream"
	}
	switch Family(recv) {
	case FamilyList:
		return "List"
	case FamilySet:
		return "Set"
	case FamilyMap:
		return "Map"
	}
	return ""
}

// expand 展开返回类型模板
func expand(tmpl, recv string, args []string) string {
	first := Unknown
	if len(args) > 0 {
		first = args[0]
	}
	switch tmpl {
	case "$0":
		return first
	case "$0E":
		return firstElem(first)
	case "$P":
		if len(args) == 0 {
			return Unknown
		}
		result := args[0]
		for _, a := range args[1:] {
			if IsUnknown(a) || IsUnknown(result) {
				return Unknown
			}
			result = Promote(result, a)
		}
		return Unbox(result)
	case "$E":
		return Elem(recv)
	case "$K":
		k, _ := KeyValue(recv)
		return k
	case "$V":
		_, v := KeyValue(recv)
		return v
	case "$L":
		return "List<" + Elem(recv) + ">"
	}
	if !strings.Contains(tmpl, "$") {
		return tmpl
	}

	k, v := KeyValue(recv)
	r := strings.NewReplacer("$0E", firstElem(first), "$0", Box(first), "$K", k, "$V", v, "$E", Elem(recv))
	out := r.Replace(tmpl)
	if strings.Contains(out, Unknown) {
		return Base(out) + "<?>"
	}
	return out
}

// firstElem 容器实参取元素类型，其他实参取装箱类型
func firstElem(first string) string {
	if IsArray(first) || Family(first) == FamilyList || Family(first) == FamilySet {
		return Box(Elem(first))
	}
	return Box(first)
}

// ============================================================================
// 异常类
// ============================================================================

// exceptionParents 认识的异常类及其父类
var exceptionParents = map[string]string{
	"Throwable":                       "Object",
	"Exception":                       "Throwable",
	"Error":                           "Throwable",
	"RuntimeException":                "Exception",
	"IOException":                     "Exception",
	"FileNotFoundException":           "IOException",
	"InterruptedException":            "Exception",
	"CloneNotSupportedException":      "Exception",
	"IllegalArgumentException":        "RuntimeException",
	"NumberFormatException":           "IllegalArgumentException",
	"IllegalStateException":           "RuntimeException",
	"ArithmeticException":             "RuntimeException",
	"NullPointerException":            "RuntimeException",
	"ClassCastException":              "RuntimeException",
	"UnsupportedOperationException":   "RuntimeException",
	"IndexOutOfBoundsException":       "RuntimeException",
	"ArrayIndexOutOfBoundsException":  "IndexOutOfBoundsException",
	"StringIndexOutOfBoundsException": "IndexOutOfBoundsException",
	"NoSuchElementException":          "RuntimeException",
	"ConcurrentModificationException": "RuntimeException",
	"StackOverflowError":              "Error",
	"OutOfMemoryError":                "Error",
	"AssertionError":                  "Error",
}

// pythonExceptions 异常类到 Python 内置异常
var pythonExceptions = map[string]string{
	"Throwable":                       "BaseException",
	"Exception":                       "Exception",
	"Error":                           "Exception",
	"RuntimeException":                "RuntimeError",
	"IOException":                     "OSError",
	"FileNotFoundException":           "FileNotFoundError",
	"InterruptedException":            "InterruptedError",
	"IllegalArgumentException":        "ValueError",
	"NumberFormatException":           "ValueError",
	"IllegalStateException":           "RuntimeError",
	"ArithmeticException":             "ZeroDivisionError",
	"NullPointerException":            "AttributeError",
	"ClassCastException":              "TypeError",
	"UnsupportedOperationException":   "NotImplementedError",
	"IndexOutOfBoundsException":       "IndexError",
	"ArrayIndexOutOfBoundsException":  "IndexError",
	"StringIndexOutOfBoundsException": "IndexError",
	"NoSuchElementException":          "LookupError",
	"StackOverflowError":              "RecursionError",
	"OutOfMemoryError":                "MemoryError",
	"AssertionError":                  "AssertionError",
}

// IsException 是否为认识的标准库异常类
func IsException(name string) bool {
	_, ok := exceptionParents[name]
	return ok
}

// PythonException 返回异常类对应的 Python 异常名，不认识的类原样返回
func PythonException(name string) string {
	if py, ok := pythonExceptions[name]; ok {
		return py
	}
	return name
}

func exceptionExtends(sub, sup string) bool {
	for seen := 0; sub != "" && seen < len(exceptionParents); seen++ {
		if sub == sup {
			return true
		}
		sub = exceptionParents[sub]
	}
	return false
}

// ExceptionSuper 返回标准库异常类的父类
func ExceptionSuper(name string) (string, bool) {
	s, ok := exceptionParents[name]
	return s, ok
}
