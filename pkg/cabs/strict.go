package cabs

import (
	"github.com/gengjiawen/c-parser/pkg/ctypes"
	"github.com/gengjiawen/c-parser/pkg/diag"
)

// CheckStrict reports a diagnostic for every GNU-extension construct in the
// program, letting a strict-C11 consumer reject them. The AST itself is
// untouched.
func CheckStrict(prog *Program) []diag.Diagnostic {
	var diags []diag.Diagnostic
	report := func(pos diag.Pos, what string) {
		diags = append(diags, diag.Errorf(pos, diag.ExtensionUsed, "%s is a GNU extension", what))
	}
	for _, decl := range prog.Decls {
		Inspect(decl, func(n Node) bool {
			switch v := n.(type) {
			case *StmtExpr:
				report(v.Pos, "statement expression")
			case *LabelAddr:
				report(v.Pos, "label address &&"+v.Label)
			case *ExtensionExpr:
				report(v.Pos, "__extension__")
			case *GotoExpr:
				report(v.Pos, "computed goto")
			case *AsmStmt:
				report(v.Pos, "inline assembly")
			case *Cast:
				if typeUsesTypeof(v.Type) {
					report(v.Pos, "typeof")
				}
			case *SizeofType:
				if typeUsesTypeof(v.Type) {
					report(v.Pos, "typeof")
				}
			case *AlignofType:
				if typeUsesTypeof(v.Type) {
					report(v.Pos, "typeof")
				}
			case *GenericSelection:
				for _, a := range v.Assocs {
					if a.Type != nil && typeUsesTypeof(a.Type) {
						report(v.Pos, "typeof")
					}
				}
			case *Decl:
				if v.Extension {
					report(v.Pos, "__extension__")
				}
				for _, attr := range v.Attrs {
					report(v.Pos, "__attribute__(("+attr.Name+"))")
				}
				for _, attr := range memberAttrs(v.Type) {
					report(v.Pos, "__attribute__(("+attr.Name+"))")
				}
				if typeUsesTypeof(v.Type) {
					report(v.Pos, "typeof")
				}
			}
			return true
		})
	}
	return diags
}

// memberAttrs collects the attributes attached to struct or union members
// of a defining type.
func memberAttrs(t ctypes.Type) []ctypes.Attribute {
	var out []ctypes.Attribute
	switch tt := t.(type) {
	case ctypes.Tstruct:
		for _, f := range tt.Fields {
			out = append(out, f.Attrs...)
		}
	case ctypes.Tunion:
		for _, f := range tt.Fields {
			out = append(out, f.Attrs...)
		}
	}
	return out
}

func typeUsesTypeof(t ctypes.Type) bool {
	switch tt := t.(type) {
	case ctypes.Ttypeof:
		return true
	case ctypes.Tpointer:
		return typeUsesTypeof(tt.Elem)
	case ctypes.Tarray:
		return typeUsesTypeof(tt.Elem)
	case ctypes.Tatomic:
		return typeUsesTypeof(tt.Elem)
	case ctypes.Tbitfield:
		return typeUsesTypeof(tt.Base)
	case ctypes.Tfunction:
		if typeUsesTypeof(tt.Return) {
			return true
		}
		for _, p := range tt.Params {
			if typeUsesTypeof(p.Type) {
				return true
			}
		}
	case ctypes.Tstruct:
		for _, f := range tt.Fields {
			if typeUsesTypeof(f.Type) {
				return true
			}
		}
	case ctypes.Tunion:
		for _, f := range tt.Fields {
			if typeUsesTypeof(f.Type) {
				return true
			}
		}
	}
	return false
}
