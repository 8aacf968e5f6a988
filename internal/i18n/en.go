package i18n

var messagesEN = map[string]string{
	// ========== Lexer ==========
	ErrUnexpectedChar:      "unexpected character '%c'",
	ErrUnterminatedComment: "unterminated block comment",
	ErrUnterminatedString:  "unterminated string literal",
	ErrUnterminatedChar:    "unterminated character literal",
	ErrEmptyChar:           "empty character literal",
	ErrInvalidEscape:       "invalid escape sequence '\\%c'",
	ErrInvalidNumber:       "invalid number literal: %s",
	ErrInvalidExponent:     "malformed floating-point literal: expected exponent digits",

	// ========== Parser ==========
	ErrExpectedToken:        "expected %s, found %s",
	ErrUnexpectedToken:      "unexpected %s",
	ErrExpectedExpression:   "expected expression, found %s",
	ErrExpectedType:         "expected type, found %s",
	ErrExpectedIdent:        "expected identifier, found %s",
	ErrExpectedMember:       "expected field, constructor or method declaration, found %s",
	ErrExpectedDeclaration:  "expected class declaration, found %s",
	ErrNoClass:              "no class declaration found in the source",
	ErrInvalidAssignTarget:  "invalid assignment target",
	ErrInvalidIncDecTarget:  "invalid operand for '%s'",
	ErrNestedClass:          "nested class declarations are not supported",
	ErrMissingReturnType:    "method '%s' has no return type (constructors must be named '%s')",
	ErrExprTooDeep:          "expression is nested too deeply",
	ErrTryWithoutHandler:    "'try' requires at least one 'catch' or a 'finally' block",
	ErrTryWithResources:     "try-with-resources is not supported",
	ErrUnsupportedStatement: "'%s' statements are not supported",
	ErrArrayInitContext:     "array initializer is only allowed in a declaration or after 'new T[]'",
	ErrNotAStatement:        "not a statement",
	ErrInitializerBlock:     "initializer blocks are not supported",
	ErrAnonymousClass:       "anonymous classes are not supported",

	// ========== Checker ==========
	ErrUndefinedIdent:       "cannot find symbol '%s'",
	ErrVariableRedeclared:   "variable '%s' is already defined in this scope",
	ErrDuplicateClass:       "class '%s' is already defined",
	ErrDuplicateField:       "field '%s' is already defined in class '%s'",
	ErrDuplicateMethod:      "method '%s(%s)' is already defined in class '%s'",
	ErrDuplicateConstructor: "constructor '%s(%s)' is already defined",
	ErrUnknownSuperclass:    "cannot find superclass '%s'",
	ErrCyclicInheritance:    "cyclic inheritance involving '%s'",
	ErrCannotAssign:         "incompatible types: %s cannot be converted to %s",
	ErrConditionNotBoolean:  "condition must be boolean, found %s",
	ErrBadUnaryOperand:      "bad operand type %s for unary operator '%s'",
	ErrBadBinaryOperands:    "bad operand types for binary operator '%s': %s and %s",
	ErrNoMatchingMethod:     "no suitable method found for %s(%s)",
	ErrNoMatchingCtor:       "no suitable constructor found for %s(%s)",
	ErrAmbiguousCall:        "reference to %s(%s) is ambiguous",
	ErrMethodNotFound:       "cannot find method '%s' in class '%s'",
	ErrFieldNotFound:        "cannot find field '%s' in class '%s'",
	ErrTernaryBranches:      "incompatible types in conditional expression: %s and %s",
	ErrSwitchOnBoolean:      "switch on a boolean value is not allowed",
	ErrCaseType:             "case label of type %s does not match switch type %s",
	ErrStaticContext:        "'%s' cannot be referenced from a static context",
	ErrNonStaticMember:      "non-static member '%s' cannot be referenced from a static context",
	ErrSuperWithoutBase:     "class '%s' has no superclass",
	ErrCtorCallPlacement:    "call to '%s(...)' must be the first statement in a constructor",
	ErrBreakOutsideLoop:     "'break' outside of loop or switch",
	ErrContinueOutsideLoop:  "'continue' outside of loop",
	ErrReturnInVoid:         "cannot return a value from a method whose result type is void",
	ErrMissingReturnValue:   "missing return value",
	ErrReturnTypeMismatch:   "incompatible return type: %s cannot be converted to %s",
	ErrNotAnArray:           "array required, but %s found",
	ErrIndexNotInteger:      "array index must be an integer, found %s",
	ErrNotIterable:          "for-each not applicable to expression type %s",
	WarnIndistinguishable:   "overloads %s and %s of '%s' cannot be told apart after translation; the first one wins",

	// ========== Emitter ==========
	ErrUnsupportedConstruct: "%s is not supported",

	ConstructInterface:    "interface declaration",
	ConstructEnum:         "enum declaration",
	ConstructAnnotation:   "annotation",
	ConstructLambda:       "lambda expression",
	ConstructInstanceOf:   "instanceof expression",
	ConstructNestedAssign: "in-place update of a target that cannot be assigned to",
	ConstructMethodRef:    "method reference",
	ConstructVariadic:     "variadic parameter in an overloaded method",

	// ========== Hints ==========
	HintUndefinedIdent:   "declare '%s' before using it, or check the spelling",
	HintRedeclared:       "rename one of the variables",
	HintCannotAssign:     "add an explicit cast or change the declared type",
	HintCondition:        "use a comparison such as 'x != 0'",
	HintSwitchOnBoolean:  "use an if/else statement instead",
	HintArguments:        "check the number and the types of the arguments",
	HintStaticContext:    "make the member static, or call it through an instance",
	HintBreakOutsideLoop: "'break' and 'continue' are only valid inside loops",
	HintUnsupported:      "rewrite this part without the unsupported construct",
	HintExpectedToken:    "check for a missing ';', ')' or '}' before this point",
	HintOverloads:        "give the overloads different parameter counts",
	HintDidYouMean:       "did you mean '%s'?",

	// ========== Summary ==========
	SummaryErrors:   "error: could not translate due to %d error(s)",
	SummaryWarnings: "warning: %d warning(s) emitted",
}
