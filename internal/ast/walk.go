package ast

import "fmt"

// Visitor 访问者函数类型，返回 false 时不再进入子节点
type Visitor func(node Node) bool

// Walk 按源代码顺序深度优先遍历 AST
//
// 遇到未知节点类型会 panic：新增节点类型时必须同步更新这里。
func Walk(node Node, visitor Visitor) {
	if node == nil || !visitor(node) {
		return
	}

	switch n := node.(type) {
	// ========== 文件与声明 ==========
	case *File:
		if n.Package != nil {
			Walk(n.Package, visitor)
		}
		for _, imp := range n.Imports {
			Walk(imp, visitor)
		}
		for _, d := range n.Declarations {
			Walk(d, visitor)
		}
	case *ClassDecl:
		walkAnnotations(n.Annotations, visitor)
		for _, m := range n.Members {
			Walk(m, visitor)
		}
	case *InterfaceDecl:
		walkAnnotations(n.Annotations, visitor)
	case *EnumDecl:
		walkAnnotations(n.Annotations, visitor)
	case *PackageDecl, *ImportDecl, *Annotation:
		// 叶子节点

	// ========== 成员 ==========
	case *FieldDecl:
		walkAnnotations(n.Annotations, visitor)
		Walk(n.Type, visitor)
		if n.Value != nil {
			Walk(n.Value, visitor)
		}
	case *ConstructorDecl:
		walkAnnotations(n.Annotations, visitor)
		for _, p := range n.Params {
			Walk(p, visitor)
		}
		Walk(n.Body, visitor)
	case *MethodDecl:
		walkAnnotations(n.Annotations, visitor)
		Walk(n.ReturnType, visitor)
		for _, p := range n.Params {
			Walk(p, visitor)
		}
		if n.Body != nil {
			Walk(n.Body, visitor)
		}
	case *Parameter:
		Walk(n.Type, visitor)

	// ========== 类型 ==========
	case *SimpleType:
	case *ArrayType:
		Walk(n.ElementType, visitor)
	case *GenericType:
		Walk(n.Base, visitor)
		for _, a := range n.Args {
			Walk(a, visitor)
		}

	// ========== 语句 ==========
	case *BlockStmt:
		for _, s := range n.Statements {
			Walk(s, visitor)
		}
	case *ExprStmt:
		Walk(n.Expr, visitor)
	case *VarDeclStmt:
		Walk(n.Type, visitor)
		if n.Value != nil {
			Walk(n.Value, visitor)
		}
	case *IfStmt:
		Walk(n.Condition, visitor)
		Walk(n.Then, visitor)
		if n.Else != nil {
			Walk(n.Else, visitor)
		}
	case *WhileStmt:
		Walk(n.Condition, visitor)
		Walk(n.Body, visitor)
	case *DoWhileStmt:
		Walk(n.Body, visitor)
		Walk(n.Condition, visitor)
	case *ForStmt:
		for _, s := range n.Init {
			Walk(s, visitor)
		}
		if n.Condition != nil {
			Walk(n.Condition, visitor)
		}
		for _, u := range n.Update {
			Walk(u, visitor)
		}
		Walk(n.Body, visitor)
	case *ForeachStmt:
		Walk(n.VarType, visitor)
		Walk(n.Iterable, visitor)
		Walk(n.Body, visitor)
	case *SwitchStmt:
		Walk(n.Subject, visitor)
		for _, c := range n.Cases {
			Walk(c, visitor)
		}
	case *SwitchCase:
		for _, v := range n.Values {
			Walk(v, visitor)
		}
		for _, s := range n.Body {
			Walk(s, visitor)
		}
	case *TryStmt:
		Walk(n.Body, visitor)
		for _, c := range n.Catches {
			Walk(c, visitor)
		}
		if n.Finally != nil {
			Walk(n.Finally, visitor)
		}
	case *CatchClause:
		for _, t := range n.Types {
			Walk(t, visitor)
		}
		Walk(n.Body, visitor)
	case *ThrowStmt:
		Walk(n.Exception, visitor)
	case *ReturnStmt:
		if n.Value != nil {
			Walk(n.Value, visitor)
		}
	case *BreakStmt, *ContinueStmt, *EmptyStmt:

	// ========== 表达式 ==========
	case *Identifier, *IntegerLiteral, *FloatLiteral, *StringLiteral, *CharLiteral,
		*BoolLiteral, *NullLiteral, *ThisExpr, *SuperExpr:
	case *ArrayLiteral:
		walkExprs(n.Elements, visitor)
	case *NewArrayExpr:
		Walk(n.ElementType, visitor)
		walkExprs(n.Dims, visitor)
		if n.Init != nil {
			Walk(n.Init, visitor)
		}
	case *NewExpr:
		Walk(n.Type, visitor)
		walkExprs(n.Args, visitor)
	case *UnaryExpr:
		Walk(n.Operand, visitor)
	case *PostfixExpr:
		Walk(n.Operand, visitor)
	case *BinaryExpr:
		Walk(n.Left, visitor)
		Walk(n.Right, visitor)
	case *AssignExpr:
		Walk(n.Left, visitor)
		Walk(n.Right, visitor)
	case *TernaryExpr:
		Walk(n.Condition, visitor)
		Walk(n.Then, visitor)
		Walk(n.Else, visitor)
	case *MethodCall:
		if n.Object != nil {
			Walk(n.Object, visitor)
		}
		walkExprs(n.Args, visitor)
	case *CtorCall:
		walkExprs(n.Args, visitor)
	case *FieldAccess:
		Walk(n.Object, visitor)
	case *IndexExpr:
		Walk(n.Object, visitor)
		Walk(n.Index, visitor)
	case *CastExpr:
		Walk(n.Type, visitor)
		Walk(n.Operand, visitor)
	case *InstanceOfExpr:
		Walk(n.Left, visitor)
		Walk(n.Type, visitor)
	case *LambdaExpr:
		Walk(n.Body, visitor)
	case *MethodRefExpr:
		Walk(n.Target, visitor)

	default:
		panic(fmt.Sprintf("ast.Walk: unexpected node %T", node))
	}
}

// Any 判断子树中是否存在满足 pred 的节点
//
// descend 返回 false 的节点不会进入其子节点（例如不进入嵌套循环）。
func Any(node Node, pred func(Node) bool, descend func(Node) bool) bool {
	found := false
	Walk(node, func(n Node) bool {
		if found {
			return false
		}
		if pred(n) {
			found = true
			return false
		}
		return n == node || descend == nil || descend(n)
	})
	return found
}

func walkExprs(exprs []Expression, visitor Visitor) {
	for _, e := range exprs {
		Walk(e, visitor)
	}
}

func walkAnnotations(anns []*Annotation, visitor Visitor) {
	for _, a := range anns {
		Walk(a, visitor)
	}
}
