package i18n

var messagesZH = map[string]string{
	// ========== 词法分析器 ==========
	ErrUnexpectedChar:      "意外字符 '%c'",
	ErrUnterminatedComment: "未闭合的块注释",
	ErrUnterminatedString:  "未闭合的字符串字面量",
	ErrUnterminatedChar:    "未闭合的字符字面量",
	ErrEmptyChar:           "空的字符字面量",
	ErrInvalidEscape:       "无效的转义序列 '\\%c'",
	ErrInvalidNumber:       "无效的数字字面量: %s",
	ErrInvalidExponent:     "浮点数格式错误: 需要指数部分",

	// ========== 语法分析器 ==========
	ErrExpectedToken:        "需要 %s，但得到 %s",
	ErrUnexpectedToken:      "意外的 %s",
	ErrExpectedExpression:   "需要表达式，但得到 %s",
	ErrExpectedType:         "需要类型，但得到 %s",
	ErrExpectedIdent:        "需要标识符，但得到 %s",
	ErrExpectedMember:       "需要字段、构造函数或方法声明，但得到 %s",
	ErrExpectedDeclaration:  "需要类声明，但得到 %s",
	ErrNoClass:              "源代码中没有类声明",
	ErrInvalidAssignTarget:  "无效的赋值目标",
	ErrInvalidIncDecTarget:  "'%s' 的操作数无效",
	ErrNestedClass:          "不支持嵌套类声明",
	ErrMissingReturnType:    "方法 '%s' 缺少返回类型（构造函数必须命名为 '%s'）",
	ErrExprTooDeep:          "表达式嵌套过深",
	ErrTryWithoutHandler:    "'try' 至少需要一个 'catch' 或 'finally' 块",
	ErrTryWithResources:     "不支持 try-with-resources",
	ErrUnsupportedStatement: "不支持 '%s' 语句",
	ErrArrayInitContext:     "数组初始化器只能用于声明或 'new T[]' 之后",
	ErrNotAStatement:        "不是语句",
	ErrInitializerBlock:     "不支持初始化块",
	ErrAnonymousClass:       "不支持匿名类",

	// ========== 语义检查 ==========
	ErrUndefinedIdent:       "找不到符号 '%s'",
	ErrVariableRedeclared:   "变量 '%s' 已在当前作用域中定义",
	ErrDuplicateClass:       "类 '%s' 重复定义",
	ErrDuplicateField:       "字段 '%s' 已在类 '%s' 中定义",
	ErrDuplicateMethod:      "方法 '%s(%s)' 已在类 '%s' 中定义",
	ErrDuplicateConstructor: "构造函数 '%s(%s)' 重复定义",
	ErrUnknownSuperclass:    "找不到父类 '%s'",
	ErrCyclicInheritance:    "类 '%s' 存在循环继承",
	ErrCannotAssign:         "类型不兼容: %s 无法转换为 %s",
	ErrConditionNotBoolean:  "条件必须是 boolean 类型，但得到 %s",
	ErrBadUnaryOperand:      "一元运算符 '%[2]s' 的操作数类型 %[1]s 错误",
	ErrBadBinaryOperands:    "二元运算符 '%s' 的操作数类型错误: %s 和 %s",
	ErrNoMatchingMethod:     "找不到适用于 %s(%s) 的方法",
	ErrNoMatchingCtor:       "找不到适用于 %s(%s) 的构造函数",
	ErrAmbiguousCall:        "对 %s(%s) 的引用不明确",
	ErrMethodNotFound:       "在类 '%[2]s' 中找不到方法 '%[1]s'",
	ErrFieldNotFound:        "在类 '%[2]s' 中找不到字段 '%[1]s'",
	ErrTernaryBranches:      "条件表达式两个分支的类型不兼容: %s 和 %s",
	ErrSwitchOnBoolean:      "不允许对 boolean 值使用 switch",
	ErrCaseType:             "case 标签类型 %s 与 switch 类型 %s 不匹配",
	ErrStaticContext:        "不能在静态上下文中引用 '%s'",
	ErrNonStaticMember:      "不能在静态上下文中引用非静态成员 '%s'",
	ErrSuperWithoutBase:     "类 '%s' 没有父类",
	ErrCtorCallPlacement:    "对 '%s(...)' 的调用必须是构造函数的第一条语句",
	ErrBreakOutsideLoop:     "'break' 只能在循环或 switch 内使用",
	ErrContinueOutsideLoop:  "'continue' 只能在循环内使用",
	ErrReturnInVoid:         "返回类型为 void 的方法不能返回值",
	ErrMissingReturnValue:   "缺少返回值",
	ErrReturnTypeMismatch:   "返回类型不兼容: %s 无法转换为 %s",
	ErrNotAnArray:           "需要数组，但得到 %s",
	ErrIndexNotInteger:      "数组下标必须是整数，但得到 %s",
	ErrNotIterable:          "for-each 不能用于类型 %s",
	WarnIndistinguishable:   "'%[3]s' 的重载 %[1]s 和 %[2]s 翻译后无法区分，将使用第一个",

	// ========== 代码生成 ==========
	ErrUnsupportedConstruct: "不支持%s",

	ConstructInterface:    "接口声明",
	ConstructEnum:         "枚举声明",
	ConstructAnnotation:   "注解",
	ConstructLambda:       " lambda 表达式",
	ConstructInstanceOf:   " instanceof 表达式",
	ConstructNestedAssign: "对不可赋值的目标做原地修改",
	ConstructMethodRef:    "方法引用",
	ConstructVariadic:     "重载方法中的可变参数",

	// ========== 修复建议 ==========
	HintUndefinedIdent:   "请先声明 '%s'，或检查拼写",
	HintRedeclared:       "重命名其中一个变量",
	HintCannotAssign:     "添加显式类型转换或修改声明类型",
	HintCondition:        "使用比较表达式，例如 'x != 0'",
	HintSwitchOnBoolean:  "改用 if/else 语句",
	HintArguments:        "检查参数的数量和类型",
	HintStaticContext:    "将成员声明为 static，或通过实例调用",
	HintBreakOutsideLoop: "'break' 和 'continue' 只能在循环内使用",
	HintUnsupported:      "请改写这部分代码，避免使用不支持的结构",
	HintExpectedToken:    "检查此处之前是否缺少 ';'、')' 或 '}'",
	HintOverloads:        "让这些重载的参数个数不同",
	HintDidYouMean:       "是否想用 '%s'？",

	// ========== 统计 ==========
	SummaryErrors:   "错误: 发现 %d 个错误，无法完成翻译",
	SummaryWarnings: "警告: 产生 %d 个警告",
}
