package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Dump 返回节点的 S 表达式表示，用于调试输出和测试比较
//
//	(class Point (field int x) (ctor Point (int x) (block (expr (= (. this x) x)))))
func Dump(node Node) string {
	var sb strings.Builder
	dump(&sb, node)
	return sb.String()
}

func dump(sb *strings.Builder, node Node) {
	switch n := node.(type) {
	case nil:
		sb.WriteString("nil")

	// ========== 文件与声明 ==========
	case *File:
		sb.WriteString("(file")
		if n.Package != nil {
			sb.WriteString(" (package " + n.Package.Name + ")")
		}
		for _, imp := range n.Imports {
			sb.WriteString(" (import " + imp.Path + ")")
		}
		for _, d := range n.Declarations {
			sb.WriteByte(' ')
			dump(sb, d)
		}
		sb.WriteByte(')')
	case *ClassDecl:
		sb.WriteString("(class " + n.Name.Name)
		if n.Extends != nil {
			sb.WriteString(" (extends " + n.Extends.String() + ")")
		}
		for _, m := range n.Members {
			sb.WriteByte(' ')
			dump(sb, m)
		}
		sb.WriteByte(')')
	case *InterfaceDecl:
		sb.WriteString("(interface " + n.Name.Name + ")")
	case *EnumDecl:
		sb.WriteString("(enum " + n.Name.Name + ")")
	case *Annotation:
		sb.WriteString("(annotation " + n.Name + ")")
	case *PackageDecl:
		sb.WriteString("(package " + n.Name + ")")
	case *ImportDecl:
		sb.WriteString("(import " + n.Path + ")")

	// ========== 成员 ==========
	case *FieldDecl:
		sb.WriteString("(field ")
		writeModifiers(sb, n.Modifiers)
		sb.WriteString(n.Type.String() + " " + n.Name.Name)
		if n.Value != nil {
			sb.WriteByte(' ')
			dump(sb, n.Value)
		}
		sb.WriteByte(')')
	case *ConstructorDecl:
		sb.WriteString("(ctor " + n.Name.Name + " (" + joinParams(n.Params) + ") ")
		dump(sb, n.Body)
		sb.WriteByte(')')
	case *MethodDecl:
		sb.WriteString("(method ")
		writeModifiers(sb, n.Modifiers)
		sb.WriteString(n.ReturnType.String() + " " + n.Name.Name + " (" + joinParams(n.Params) + ")")
		if n.Body != nil {
			sb.WriteByte(' ')
			dump(sb, n.Body)
		}
		sb.WriteByte(')')
	case *Parameter:
		sb.WriteString("(param " + n.String() + ")")

	// ========== 类型 ==========
	case *SimpleType, *ArrayType, *GenericType:
		sb.WriteString(n.String())

	// ========== 语句 ==========
	case *BlockStmt:
		sb.WriteString("(block")
		dumpStmts(sb, n.Statements)
		sb.WriteByte(')')
	case *ExprStmt:
		sb.WriteString("(expr ")
		dump(sb, n.Expr)
		sb.WriteByte(')')
	case *VarDeclStmt:
		sb.WriteString("(var " + n.Type.String() + " " + n.Name.Name)
		if n.Value != nil {
			sb.WriteByte(' ')
			dump(sb, n.Value)
		}
		sb.WriteByte(')')
	case *IfStmt:
		sb.WriteString("(if ")
		dump(sb, n.Condition)
		sb.WriteByte(' ')
		dump(sb, n.Then)
		if n.Else != nil {
			sb.WriteByte(' ')
			dump(sb, n.Else)
		}
		sb.WriteByte(')')
	case *WhileStmt:
		sb.WriteString("(while ")
		dump(sb, n.Condition)
		sb.WriteByte(' ')
		dump(sb, n.Body)
		sb.WriteByte(')')
	case *DoWhileStmt:
		sb.WriteString("(do ")
		dump(sb, n.Body)
		sb.WriteByte(' ')
		dump(sb, n.Condition)
		sb.WriteByte(')')
	case *ForStmt:
		sb.WriteString("(for (")
		for i, s := range n.Init {
			if i > 0 {
				sb.WriteByte(' ')
			}
			dump(sb, s)
		}
		sb.WriteString(") ")
		if n.Condition != nil {
			dump(sb, n.Condition)
		} else {
			sb.WriteString("nil")
		}
		sb.WriteString(" (")
		for i, u := range n.Update {
			if i > 0 {
				sb.WriteByte(' ')
			}
			dump(sb, u)
		}
		sb.WriteString(") ")
		dump(sb, n.Body)
		sb.WriteByte(')')
	case *ForeachStmt:
		sb.WriteString("(foreach " + n.VarType.String() + " " + n.VarName.Name + " ")
		dump(sb, n.Iterable)
		sb.WriteByte(' ')
		dump(sb, n.Body)
		sb.WriteByte(')')
	case *SwitchStmt:
		sb.WriteString("(switch ")
		dump(sb, n.Subject)
		for _, c := range n.Cases {
			sb.WriteByte(' ')
			dump(sb, c)
		}
		sb.WriteByte(')')
	case *SwitchCase:
		if n.IsDefault && len(n.Values) == 0 {
			sb.WriteString("(default")
		} else {
			sb.WriteString("(case (")
			for i, v := range n.Values {
				if i > 0 {
					sb.WriteByte(' ')
				}
				dump(sb, v)
			}
			sb.WriteByte(')')
			if n.IsDefault {
				sb.WriteString(" default")
			}
		}
		if n.Arrow {
			sb.WriteString(" ->")
		}
		dumpStmts(sb, n.Body)
		sb.WriteByte(')')
	case *TryStmt:
		sb.WriteString("(try ")
		dump(sb, n.Body)
		for _, c := range n.Catches {
			sb.WriteByte(' ')
			dump(sb, c)
		}
		if n.Finally != nil {
			sb.WriteString(" (finally ")
			dump(sb, n.Finally)
			sb.WriteByte(')')
		}
		sb.WriteByte(')')
	case *CatchClause:
		names := make([]string, len(n.Types))
		for i, t := range n.Types {
			names[i] = t.String()
		}
		sb.WriteString("(catch (" + strings.Join(names, " ") + ") " + n.Name.Name + " ")
		dump(sb, n.Body)
		sb.WriteByte(')')
	case *ThrowStmt:
		sb.WriteString("(throw ")
		dump(sb, n.Exception)
		sb.WriteByte(')')
	case *ReturnStmt:
		sb.WriteString("(return")
		if n.Value != nil {
			sb.WriteByte(' ')
			dump(sb, n.Value)
		}
		sb.WriteByte(')')
	case *BreakStmt:
		sb.WriteString("(break)")
	case *ContinueStmt:
		sb.WriteString("(continue)")
	case *EmptyStmt:
		sb.WriteString("(empty)")

	// ========== 表达式 ==========
	case *Identifier:
		sb.WriteString(n.Name)
	case *IntegerLiteral:
		sb.WriteString(n.Value.String())
	case *FloatLiteral:
		sb.WriteString(strconv.FormatFloat(n.Value, 'g', -1, 64))
	case *StringLiteral:
		sb.WriteString(strconv.Quote(n.Value))
	case *CharLiteral:
		sb.WriteString(strconv.QuoteRune(n.Value))
	case *BoolLiteral:
		sb.WriteString(n.String())
	case *NullLiteral:
		sb.WriteString("null")
	case *ThisExpr:
		sb.WriteString("this")
	case *SuperExpr:
		sb.WriteString("super")
	case *ArrayLiteral:
		sb.WriteString("(array")
		dumpExprs(sb, n.Elements)
		sb.WriteByte(')')
	case *NewArrayExpr:
		sb.WriteString("(new-array " + n.ElementType.String() + " " + strconv.Itoa(n.Rank()))
		dumpExprs(sb, n.Dims)
		if n.Init != nil {
			sb.WriteByte(' ')
			dump(sb, n.Init)
		}
		sb.WriteByte(')')
	case *NewExpr:
		sb.WriteString("(new " + n.Type.String())
		dumpExprs(sb, n.Args)
		sb.WriteByte(')')
	case *UnaryExpr:
		sb.WriteString("(" + n.Operator.Type.String() + " ")
		dump(sb, n.Operand)
		sb.WriteByte(')')
	case *PostfixExpr:
		sb.WriteString("(postfix" + n.Operator.Type.String() + " ")
		dump(sb, n.Operand)
		sb.WriteByte(')')
	case *BinaryExpr:
		sb.WriteString("(" + n.Operator.Type.String() + " ")
		dump(sb, n.Left)
		sb.WriteByte(' ')
		dump(sb, n.Right)
		sb.WriteByte(')')
	case *AssignExpr:
		sb.WriteString("(" + n.Operator.Type.String() + " ")
		dump(sb, n.Left)
		sb.WriteByte(' ')
		dump(sb, n.Right)
		sb.WriteByte(')')
	case *TernaryExpr:
		sb.WriteString("(? ")
		dump(sb, n.Condition)
		sb.WriteByte(' ')
		dump(sb, n.Then)
		sb.WriteByte(' ')
		dump(sb, n.Else)
		sb.WriteByte(')')
	case *MethodCall:
		sb.WriteString("(call ")
		if n.Object != nil {
			dump(sb, n.Object)
			sb.WriteByte('.')
		}
		sb.WriteString(n.Name.Name)
		dumpExprs(sb, n.Args)
		sb.WriteByte(')')
	case *CtorCall:
		sb.WriteString("(" + n.Token.Literal)
		dumpExprs(sb, n.Args)
		sb.WriteByte(')')
	case *FieldAccess:
		sb.WriteString("(. ")
		dump(sb, n.Object)
		sb.WriteString(" " + n.Name.Name + ")")
	case *IndexExpr:
		sb.WriteString("([] ")
		dump(sb, n.Object)
		sb.WriteByte(' ')
		dump(sb, n.Index)
		sb.WriteByte(')')
	case *CastExpr:
		sb.WriteString("(cast " + n.Type.String() + " ")
		dump(sb, n.Operand)
		sb.WriteByte(')')
	case *InstanceOfExpr:
		sb.WriteString("(instanceof ")
		dump(sb, n.Left)
		sb.WriteString(" " + n.Type.String() + ")")
	case *LambdaExpr:
		sb.WriteString("(lambda " + n.String() + ")")
	case *MethodRefExpr:
		sb.WriteString("(methodref " + n.String() + ")")

	default:
		panic(fmt.Sprintf("ast.Dump: unexpected node %T", node))
	}
}

func dumpStmts(sb *strings.Builder, stmts []Statement) {
	for _, s := range stmts {
		sb.WriteByte(' ')
		dump(sb, s)
	}
}

func dumpExprs(sb *strings.Builder, exprs []Expression) {
	for _, e := range exprs {
		sb.WriteByte(' ')
		dump(sb, e)
	}
}

func writeModifiers(sb *strings.Builder, mods Modifiers) {
	if len(mods) > 0 {
		sb.WriteString("[" + mods.String() + "] ")
	}
}
