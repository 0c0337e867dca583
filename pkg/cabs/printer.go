// AST printing: an ordered, indented dump annotated with source positions,
// stable enough for golden-file diffing by an external harness.
package cabs

import (
	"fmt"
	"io"
	"strings"

	"github.com/gengjiawen/c-parser/pkg/ctypes"
)

// Printer outputs the AST in a human-readable format
type Printer struct {
	w      io.Writer
	indent int
}

// NewPrinter creates a new AST printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, indent: 0}
}

// PrintProgram prints a complete translation unit
func (p *Printer) PrintProgram(prog *Program) {
	for _, decl := range prog.Decls {
		p.printExternalDecl(decl)
	}
}

func (p *Printer) writeIndent() {
	fmt.Fprint(p.w, strings.Repeat("  ", p.indent))
}

func (p *Printer) linef(format string, args ...interface{}) {
	p.writeIndent()
	fmt.Fprintf(p.w, format, args...)
	fmt.Fprintln(p.w)
}

func (p *Printer) printExternalDecl(decl ExternalDecl) {
	switch d := decl.(type) {
	case *Decl:
		p.printDecl(d)
	case *StaticAssert:
		p.printStaticAssert(d)
	default:
		p.linef("/* unknown declaration %T */", decl)
	}
}

func declKind(d *Decl) string {
	switch {
	case d.Body != nil:
		return "FunDef"
	case d.Storage == SCTypedef:
		return "Typedef"
	case d.Name == "":
		return "TagDecl"
	default:
		return "Decl"
	}
}

func declSpecifiers(d *Decl) string {
	var parts []string
	if d.Extension {
		parts = append(parts, "__extension__")
	}
	if d.Storage != SCNone && d.Storage != SCTypedef {
		parts = append(parts, d.Storage.String())
	}
	if d.ThreadLocal {
		parts = append(parts, "_Thread_local")
	}
	if d.Inline {
		parts = append(parts, "inline")
	}
	if d.Noreturn {
		parts = append(parts, "_Noreturn")
	}
	if len(parts) == 0 {
		return ""
	}
	return " [" + strings.Join(parts, " ") + "]"
}

func (p *Printer) printDecl(d *Decl) {
	header := fmt.Sprintf("%s %s <%s>%s", declKind(d), declTitle(d), d.Pos, declSpecifiers(d))
	p.linef("%s: %s", header, ctypes.Declare(d.Type, d.Name))
	p.indent++
	for _, attr := range d.Attrs {
		p.linef("Attr: %s", attr)
	}
	p.printTagMembers(d.Type)
	if d.Init != nil {
		p.linef("Init: %s", d.Init.String())
	}
	if d.Body != nil {
		p.linef("Body:")
		p.indent++
		p.printStmt(d.Body)
		p.indent--
	}
	p.indent--
}

func declTitle(d *Decl) string {
	if d.Name != "" {
		return d.Name
	}
	switch t := d.Type.(type) {
	case ctypes.Tstruct:
		return "struct " + t.Tag
	case ctypes.Tunion:
		return "union " + t.Tag
	case ctypes.Tenum:
		return "enum " + t.Tag
	}
	return "<anonymous>"
}

// printTagMembers expands a defining struct/union/enum type so member lists
// and enumerator values show up in the dump.
func (p *Printer) printTagMembers(t ctypes.Type) {
	switch tt := t.(type) {
	case ctypes.Tstruct:
		p.printFields(tt.Fields)
	case ctypes.Tunion:
		p.printFields(tt.Fields)
	case ctypes.Tenum:
		for _, v := range tt.Values {
			if v.Known {
				p.linef("Enumerator %s = %d", v.Name, v.Value)
			} else {
				p.linef("Enumerator %s = %s", v.Name, v.Expr)
			}
		}
	}
}

func (p *Printer) printFields(fields []ctypes.Field) {
	for _, f := range fields {
		line := "Member: " + ctypes.Declare(f.Type, f.Name)
		if len(f.Attrs) > 0 {
			strs := make([]string, len(f.Attrs))
			for i, a := range f.Attrs {
				strs[i] = a.String()
			}
			line += " [" + strings.Join(strs, ", ") + "]"
		}
		p.linef("%s", line)
	}
}

func (p *Printer) printStaticAssert(d *StaticAssert) {
	p.linef("StaticAssert <%s>: %s, %q", d.Pos, d.Cond.String(), d.Message)
}

func (p *Printer) printStmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *Block:
		p.linef("Block <%s>", s.Pos)
		p.indent++
		for _, item := range s.Items {
			p.printStmt(item)
		}
		p.indent--
	case *ExprStmt:
		if s.Expr == nil {
			p.linef("Empty <%s>", s.Pos)
		} else {
			p.linef("Expr <%s>: %s", s.Pos, s.Expr.String())
		}
	case *DeclStmt:
		p.printDecl(s.Decl)
	case *StaticAssert:
		p.printStaticAssert(s)
	case *If:
		p.linef("If <%s>", s.Pos)
		p.indent++
		p.linef("Cond: %s", s.Cond.String())
		p.linef("Then:")
		p.indent++
		p.printStmt(s.Then)
		p.indent--
		if s.Else != nil {
			p.linef("Else:")
			p.indent++
			p.printStmt(s.Else)
			p.indent--
		}
		p.indent--
	case *While:
		p.linef("While <%s>", s.Pos)
		p.indent++
		p.linef("Cond: %s", s.Cond.String())
		p.linef("Body:")
		p.indent++
		p.printStmt(s.Body)
		p.indent--
		p.indent--
	case *DoWhile:
		p.linef("DoWhile <%s>", s.Pos)
		p.indent++
		p.linef("Body:")
		p.indent++
		p.printStmt(s.Body)
		p.indent--
		p.linef("Cond: %s", s.Cond.String())
		p.indent--
	case *For:
		p.linef("For <%s>", s.Pos)
		p.indent++
		if s.Init == nil {
			p.linef("Init: <absent>")
		} else {
			p.linef("Init:")
			p.indent++
			p.printStmt(s.Init)
			p.indent--
		}
		if s.Cond == nil {
			p.linef("Cond: <absent>")
		} else {
			p.linef("Cond: %s", s.Cond.String())
		}
		if s.Step == nil {
			p.linef("Step: <absent>")
		} else {
			p.linef("Step: %s", s.Step.String())
		}
		p.linef("Body:")
		p.indent++
		p.printStmt(s.Body)
		p.indent--
		p.indent--
	case *Switch:
		p.linef("Switch <%s>", s.Pos)
		p.indent++
		p.linef("Cond: %s", s.Cond.String())
		p.linef("Labels: %s", switchLabelSummary(s))
		p.linef("Body:")
		p.indent++
		p.printStmt(s.Body)
		p.indent--
		p.indent--
	case *Case:
		p.linef("Case %s <%s>", s.Value.String(), s.Pos)
		p.indent++
		p.printStmt(s.Stmt)
		p.indent--
	case *Default:
		p.linef("Default <%s>", s.Pos)
		p.indent++
		p.printStmt(s.Stmt)
		p.indent--
	case *Label:
		p.linef("Label %s <%s>", s.Name, s.Pos)
		p.indent++
		p.printStmt(s.Stmt)
		p.indent--
	case *Goto:
		p.linef("Goto %s <%s>", s.Label, s.Pos)
	case *GotoExpr:
		p.linef("GotoExpr <%s>: %s", s.Pos, s.Target.String())
	case *Return:
		if s.Expr == nil {
			p.linef("Return <%s>", s.Pos)
		} else {
			p.linef("Return <%s>: %s", s.Pos, s.Expr.String())
		}
	case *Break:
		p.linef("Break <%s>", s.Pos)
	case *Continue:
		p.linef("Continue <%s>", s.Pos)
	case *AsmStmt:
		vol := ""
		if s.Volatile {
			vol = " volatile"
		}
		p.linef("Asm%s <%s>: %q", vol, s.Pos, s.Template)
		p.indent++
		for _, op := range s.Outputs {
			p.linef("Output: %q (%s)", op.Constraint, op.Expr.String())
		}
		for _, op := range s.Inputs {
			p.linef("Input: %q (%s)", op.Constraint, op.Expr.String())
		}
		for _, c := range s.Clobbers {
			p.linef("Clobber: %q", c)
		}
		p.indent--
	default:
		p.linef("/* unknown statement %T */", stmt)
	}
}

func switchLabelSummary(s *Switch) string {
	if len(s.CaseLabels) == 0 {
		return "<none>"
	}
	parts := make([]string, 0, len(s.CaseLabels))
	for _, lbl := range s.CaseLabels {
		switch l := lbl.(type) {
		case *Case:
			parts = append(parts, "case "+l.Value.String())
		case *Default:
			parts = append(parts, "default")
		}
	}
	return strings.Join(parts, ", ")
}
