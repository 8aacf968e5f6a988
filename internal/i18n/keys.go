package i18n

// 消息 ID 常量。消息 ID 同时作为找不到翻译时的回退文本。
const (
	// ========== 词法分析器 ==========
	ErrUnexpectedChar      = "lexer.unexpected_char"
	ErrUnterminatedComment = "lexer.unterminated_comment"
	ErrUnterminatedString  = "lexer.unterminated_string"
	ErrUnterminatedChar    = "lexer.unterminated_char"
	ErrEmptyChar           = "lexer.empty_char"
	ErrInvalidEscape       = "lexer.invalid_escape"
	ErrInvalidNumber       = "lexer.invalid_number"
	ErrInvalidExponent     = "lexer.invalid_exponent"

	// ========== 语法分析器 ==========
	ErrExpectedToken        = "parser.expected_token"
	ErrUnexpectedToken      = "parser.unexpected_token"
	ErrExpectedExpression   = "parser.expected_expression"
	ErrExpectedType         = "parser.expected_type"
	ErrExpectedIdent        = "parser.expected_ident"
	ErrExpectedMember       = "parser.expected_member"
	ErrExpectedDeclaration  = "parser.expected_declaration"
	ErrNoClass              = "parser.no_class"
	ErrInvalidAssignTarget  = "parser.invalid_assign_target"
	ErrInvalidIncDecTarget  = "parser.invalid_incdec_target"
	ErrNestedClass          = "parser.nested_class"
	ErrMissingReturnType    = "parser.missing_return_type"
	ErrExprTooDeep          = "parser.expr_too_deep"
	ErrTryWithoutHandler    = "parser.try_without_handler"
	ErrTryWithResources     = "parser.try_with_resources"
	ErrUnsupportedStatement = "parser.unsupported_statement"
	ErrArrayInitContext     = "parser.array_init_context"
	ErrNotAStatement        = "parser.not_a_statement"
	ErrInitializerBlock     = "parser.initializer_block"
	ErrAnonymousClass       = "parser.anonymous_class"

	// ========== 语义检查 ==========
	ErrUndefinedIdent       = "check.undefined_ident"
	ErrVariableRedeclared   = "check.variable_redeclared"
	ErrDuplicateClass       = "check.duplicate_class"
	ErrDuplicateField       = "check.duplicate_field"
	ErrDuplicateMethod      = "check.duplicate_method"
	ErrDuplicateConstructor = "check.duplicate_constructor"
	ErrUnknownSuperclass    = "check.unknown_superclass"
	ErrCyclicInheritance    = "check.cyclic_inheritance"
	ErrCannotAssign         = "check.cannot_assign"
	ErrConditionNotBoolean  = "check.condition_not_boolean"
	ErrBadUnaryOperand      = "check.bad_unary_operand"
	ErrBadBinaryOperands    = "check.bad_binary_operands"
	ErrNoMatchingMethod     = "check.no_matching_method"
	ErrNoMatchingCtor       = "check.no_matching_ctor"
	ErrAmbiguousCall        = "check.ambiguous_call"
	ErrMethodNotFound       = "check.method_not_found"
	ErrFieldNotFound        = "check.field_not_found"
	ErrTernaryBranches      = "check.ternary_branches"
	ErrSwitchOnBoolean      = "check.switch_on_boolean"
	ErrCaseType             = "check.case_type"
	ErrStaticContext        = "check.static_context"
	ErrNonStaticMember      = "check.non_static_member"
	ErrSuperWithoutBase     = "check.super_without_base"
	ErrCtorCallPlacement    = "check.ctor_call_placement"
	ErrBreakOutsideLoop     = "check.break_outside_loop"
	ErrContinueOutsideLoop  = "check.continue_outside_loop"
	ErrReturnInVoid         = "check.return_in_void"
	ErrMissingReturnValue   = "check.missing_return_value"
	ErrReturnTypeMismatch   = "check.return_type_mismatch"
	ErrNotAnArray           = "check.not_an_array"
	ErrIndexNotInteger      = "check.index_not_integer"
	ErrNotIterable          = "check.not_iterable"
	WarnIndistinguishable   = "check.indistinguishable_overloads"

	// ========== 代码生成 ==========
	ErrUnsupportedConstruct = "emit.unsupported_construct"

	// 不支持的结构名称
	ConstructInterface    = "construct.interface"
	ConstructEnum         = "construct.enum"
	ConstructAnnotation   = "construct.annotation"
	ConstructLambda       = "construct.lambda"
	ConstructInstanceOf   = "construct.instanceof"
	ConstructNestedAssign = "construct.nested_assign"
	ConstructMethodRef    = "construct.method_ref"
	ConstructVariadic     = "construct.variadic_overload"

	// ========== 修复建议 ==========
	HintUndefinedIdent   = "hint.undefined_ident"
	HintRedeclared       = "hint.redeclared"
	HintCannotAssign     = "hint.cannot_assign"
	HintCondition        = "hint.condition"
	HintSwitchOnBoolean  = "hint.switch_on_boolean"
	HintArguments        = "hint.arguments"
	HintStaticContext    = "hint.static_context"
	HintBreakOutsideLoop = "hint.break_outside_loop"
	HintUnsupported      = "hint.unsupported"
	HintExpectedToken    = "hint.expected_token"
	HintOverloads        = "hint.overloads"
	HintDidYouMean       = "hint.did_you_mean"

	// ========== 统计 ==========
	SummaryErrors   = "summary.errors"
	SummaryWarnings = "summary.warnings"
)
