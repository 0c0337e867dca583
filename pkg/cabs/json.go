// JSON serialization of the AST. Nodes become objects with a "kind" field;
// types are rendered in canonical declarator form. Output is deterministic
// (map keys sort under the standard-library-compatible config) so external
// harnesses can diff it.
package cabs

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/gengjiawen/c-parser/pkg/ctypes"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// MarshalProgram renders the translation unit as indented JSON.
func MarshalProgram(prog *Program) ([]byte, error) {
	decls := make([]interface{}, len(prog.Decls))
	for i, d := range prog.Decls {
		decls[i] = jsonNode(d)
	}
	return jsonAPI.MarshalIndent(map[string]interface{}{
		"kind":  "Program",
		"decls": decls,
	}, "", "  ")
}

func jsonType(t ctypes.Type) interface{} {
	if t == nil {
		return nil
	}
	return t.String()
}

func jsonExpr(e Expr) interface{} {
	if e == nil {
		return nil
	}
	return jsonNode(e)
}

func jsonStmt(s Stmt) interface{} {
	if s == nil {
		return nil
	}
	return jsonNode(s)
}

func jsonNode(n Node) map[string]interface{} {
	m := map[string]interface{}{"pos": n.Position().String()}
	set := func(kind string, kv ...interface{}) {
		m["kind"] = kind
		for i := 0; i+1 < len(kv); i += 2 {
			m[kv[i].(string)] = kv[i+1]
		}
	}
	switch v := n.(type) {
	case *IntLit:
		set("IntLit", "value", v.Value, "suffix", v.Suffix, "text", v.Text)
	case *FloatLit:
		set("FloatLit", "value", v.Value, "suffix", v.Suffix, "text", v.Text)
	case *CharLit:
		set("CharLit", "value", v.Value, "text", v.Text)
	case *StringLit:
		set("StringLit", "value", v.Value)
	case *Variable:
		set("Variable", "name", v.Name)
	case *Unary:
		set("Unary", "op", v.Op.String(), "expr", jsonExpr(v.Expr))
	case *Postfix:
		set("Postfix", "op", v.Op.String(), "expr", jsonExpr(v.Expr))
	case *Binary:
		set("Binary", "op", v.Op.String(), "left", jsonExpr(v.Left), "right", jsonExpr(v.Right))
	case *Conditional:
		set("Conditional", "cond", jsonExpr(v.Cond), "then", jsonExpr(v.Then), "else", jsonExpr(v.Else))
	case *Call:
		args := make([]interface{}, len(v.Args))
		for i, a := range v.Args {
			args[i] = jsonExpr(a)
		}
		set("Call", "func", jsonExpr(v.Func), "args", args)
	case *Index:
		set("Index", "array", jsonExpr(v.Array), "index", jsonExpr(v.Index))
	case *Member:
		set("Member", "expr", jsonExpr(v.Expr), "name", v.Name, "arrow", v.Arrow)
	case *Cast:
		set("Cast", "type", jsonType(v.Type), "expr", jsonExpr(v.Expr))
	case *SizeofExpr:
		set("SizeofExpr", "expr", jsonExpr(v.Expr))
	case *SizeofType:
		set("SizeofType", "type", jsonType(v.Type))
	case *AlignofExpr:
		set("AlignofExpr", "expr", jsonExpr(v.Expr))
	case *AlignofType:
		set("AlignofType", "type", jsonType(v.Type))
	case *GenericSelection:
		assocs := make([]interface{}, len(v.Assocs))
		for i, a := range v.Assocs {
			assocs[i] = map[string]interface{}{
				"type": jsonType(a.Type),
				"expr": jsonExpr(a.Expr),
			}
		}
		set("GenericSelection", "control", jsonExpr(v.Control), "assocs", assocs)
	case *InitList:
		items := make([]interface{}, len(v.Items))
		for i, it := range v.Items {
			items[i] = jsonExpr(it)
		}
		set("InitList", "items", items)
	case *Paren:
		set("Paren", "expr", jsonExpr(v.Expr))
	case *StmtExpr:
		set("StmtExpr", "block", jsonStmt(v.Block))
	case *LabelAddr:
		set("LabelAddr", "label", v.Label)
	case *ExtensionExpr:
		set("ExtensionExpr", "expr", jsonExpr(v.Expr))
	case *ExprStmt:
		set("ExprStmt", "expr", jsonExpr(v.Expr))
	case *DeclStmt:
		set("DeclStmt", "decl", jsonNode(v.Decl))
	case *Block:
		items := make([]interface{}, len(v.Items))
		for i, it := range v.Items {
			items[i] = jsonStmt(it)
		}
		set("Block", "items", items)
	case *If:
		set("If", "cond", jsonExpr(v.Cond), "then", jsonStmt(v.Then), "else", jsonStmt(v.Else))
	case *While:
		set("While", "cond", jsonExpr(v.Cond), "body", jsonStmt(v.Body))
	case *DoWhile:
		set("DoWhile", "body", jsonStmt(v.Body), "cond", jsonExpr(v.Cond))
	case *For:
		set("For", "init", jsonStmt(v.Init), "cond", jsonExpr(v.Cond), "step", jsonExpr(v.Step), "body", jsonStmt(v.Body))
	case *Switch:
		labels := make([]interface{}, len(v.CaseLabels))
		for i, lbl := range v.CaseLabels {
			switch l := lbl.(type) {
			case *Case:
				labels[i] = "case " + l.Value.String()
			case *Default:
				labels[i] = "default"
			}
		}
		set("Switch", "cond", jsonExpr(v.Cond), "labels", labels, "body", jsonStmt(v.Body))
	case *Case:
		set("Case", "value", jsonExpr(v.Value), "stmt", jsonStmt(v.Stmt))
	case *Default:
		set("Default", "stmt", jsonStmt(v.Stmt))
	case *Label:
		set("Label", "name", v.Name, "stmt", jsonStmt(v.Stmt))
	case *Goto:
		set("Goto", "label", v.Label)
	case *GotoExpr:
		set("GotoExpr", "target", jsonExpr(v.Target))
	case *Return:
		set("Return", "expr", jsonExpr(v.Expr))
	case *Break:
		set("Break")
	case *Continue:
		set("Continue")
	case *AsmStmt:
		outs := make([]interface{}, len(v.Outputs))
		for i, op := range v.Outputs {
			outs[i] = map[string]interface{}{"constraint": op.Constraint, "expr": jsonExpr(op.Expr)}
		}
		ins := make([]interface{}, len(v.Inputs))
		for i, op := range v.Inputs {
			ins[i] = map[string]interface{}{"constraint": op.Constraint, "expr": jsonExpr(op.Expr)}
		}
		set("Asm", "volatile", v.Volatile, "template", v.Template,
			"outputs", outs, "inputs", ins, "clobbers", v.Clobbers)
	case *Decl:
		attrs := make([]interface{}, len(v.Attrs))
		for i, a := range v.Attrs {
			attrs[i] = a.String()
		}
		var body interface{}
		if v.Body != nil {
			body = jsonNode(v.Body)
		}
		set("Decl",
			"name", v.Name,
			"storage", v.Storage.String(),
			"threadLocal", v.ThreadLocal,
			"inline", v.Inline,
			"noreturn", v.Noreturn,
			"extension", v.Extension,
			"type", jsonType(v.Type),
			"attrs", attrs,
			"init", jsonExpr(v.Init),
			"body", body)
	case *StaticAssert:
		set("StaticAssert", "cond", jsonExpr(v.Cond), "message", v.Message)
	default:
		set("Unknown")
	}
	return m
}
