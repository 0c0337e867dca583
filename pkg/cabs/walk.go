package cabs

// Inspect traverses the AST in depth-first preorder. If f returns false for
// a node, its children are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	switch v := n.(type) {
	case *Unary:
		Inspect(v.Expr, f)
	case *Postfix:
		Inspect(v.Expr, f)
	case *Binary:
		Inspect(v.Left, f)
		Inspect(v.Right, f)
	case *Conditional:
		Inspect(v.Cond, f)
		Inspect(v.Then, f)
		Inspect(v.Else, f)
	case *Call:
		Inspect(v.Func, f)
		for _, a := range v.Args {
			Inspect(a, f)
		}
	case *Index:
		Inspect(v.Array, f)
		Inspect(v.Index, f)
	case *Member:
		Inspect(v.Expr, f)
	case *Cast:
		Inspect(v.Expr, f)
	case *SizeofExpr:
		Inspect(v.Expr, f)
	case *AlignofExpr:
		Inspect(v.Expr, f)
	case *GenericSelection:
		Inspect(v.Control, f)
		for _, a := range v.Assocs {
			Inspect(a.Expr, f)
		}
	case *InitList:
		for _, it := range v.Items {
			Inspect(it, f)
		}
	case *Paren:
		Inspect(v.Expr, f)
	case *StmtExpr:
		Inspect(v.Block, f)
	case *ExtensionExpr:
		Inspect(v.Expr, f)
	case *ExprStmt:
		if v.Expr != nil {
			Inspect(v.Expr, f)
		}
	case *DeclStmt:
		Inspect(v.Decl, f)
	case *Block:
		for _, item := range v.Items {
			Inspect(item, f)
		}
	case *If:
		Inspect(v.Cond, f)
		Inspect(v.Then, f)
		if v.Else != nil {
			Inspect(v.Else, f)
		}
	case *While:
		Inspect(v.Cond, f)
		Inspect(v.Body, f)
	case *DoWhile:
		Inspect(v.Body, f)
		Inspect(v.Cond, f)
	case *For:
		if v.Init != nil {
			Inspect(v.Init, f)
		}
		if v.Cond != nil {
			Inspect(v.Cond, f)
		}
		if v.Step != nil {
			Inspect(v.Step, f)
		}
		Inspect(v.Body, f)
	case *Switch:
		Inspect(v.Cond, f)
		Inspect(v.Body, f)
	case *Case:
		Inspect(v.Value, f)
		Inspect(v.Stmt, f)
	case *Default:
		Inspect(v.Stmt, f)
	case *Label:
		Inspect(v.Stmt, f)
	case *GotoExpr:
		Inspect(v.Target, f)
	case *Return:
		if v.Expr != nil {
			Inspect(v.Expr, f)
		}
	case *AsmStmt:
		for _, op := range v.Outputs {
			Inspect(op.Expr, f)
		}
		for _, op := range v.Inputs {
			Inspect(op.Expr, f)
		}
	case *Decl:
		if v.Init != nil {
			Inspect(v.Init, f)
		}
		if v.Body != nil {
			Inspect(Stmt(v.Body), f)
		}
	case *StaticAssert:
		Inspect(v.Cond, f)
	}
}
