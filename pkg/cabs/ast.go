// Package cabs defines the abstract syntax tree produced by the parser.
// Nodes are created once during parsing and are immutable afterwards.
// GNU-extension forms (statement expressions, label addresses, asm,
// computed goto, attributes, typeof, __extension__) are distinct node
// kinds so a strict-C11 consumer can reject them wholesale.
package cabs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gengjiawen/c-parser/pkg/ctypes"
	"github.com/gengjiawen/c-parser/pkg/diag"
)

// Node is the base interface for all AST nodes
type Node interface {
	implCabsNode()
	Position() diag.Pos
}

// Expr is the interface for all expression nodes. Every expression prints
// a compact single-line form, which also lets it serve as an unevaluated
// ctypes.ConstExpr (array sizes, bitfield widths).
type Expr interface {
	Node
	implCabsExpr()
	String() string
}

// Stmt is the interface for all statement nodes
type Stmt interface {
	Node
	implCabsStmt()
}

// ExternalDecl is the interface for file-scope declarations
type ExternalDecl interface {
	Node
	implExternalDecl()
}

// BinaryOp represents binary operators, including assignment forms and the
// comma operator.
type BinaryOp int

const (
	OpMul BinaryOp = iota
	OpDiv
	OpMod
	OpAdd
	OpSub
	OpShl // <<
	OpShr // >>
	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe
	OpBitAnd
	OpBitXor
	OpBitOr
	OpAnd // &&
	OpOr  // ||
	OpAssign
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
	OpModAssign
	OpShlAssign
	OpShrAssign
	OpAndAssign
	OpXorAssign
	OpOrAssign
	OpComma
)

func (op BinaryOp) String() string {
	names := []string{
		"*", "/", "%", "+", "-", "<<", ">>", "<", "<=", ">", ">=", "==", "!=",
		"&", "^", "|", "&&", "||",
		"=", "+=", "-=", "*=", "/=", "%=", "<<=", ">>=", "&=", "^=", "|=", ",",
	}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// IsAssign reports whether the operator is an assignment form.
func (op BinaryOp) IsAssign() bool {
	return op >= OpAssign && op <= OpOrAssign
}

// UnaryOp represents prefix unary operators
type UnaryOp int

const (
	OpNeg    UnaryOp = iota // -
	OpPlus                  // +
	OpNot                   // !
	OpBitNot                // ~
	OpDeref                 // *
	OpAddr                  // &
	OpPreInc                // ++
	OpPreDec                // --
)

func (op UnaryOp) String() string {
	names := []string{"-", "+", "!", "~", "*", "&", "++", "--"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// PostfixOp represents postfix increment/decrement
type PostfixOp int

const (
	OpPostInc PostfixOp = iota // ++
	OpPostDec                  // --
)

func (op PostfixOp) String() string {
	if op == OpPostInc {
		return "++"
	}
	return "--"
}

// ---- Expressions ----

// IntLit is an integer constant. Value is the decoded value; Suffix keeps
// the written suffix characters without interpreting them.
type IntLit struct {
	Pos    diag.Pos
	Value  uint64
	Suffix string
	Text   string // raw lexeme
}

// FloatLit is a floating constant
type FloatLit struct {
	Pos    diag.Pos
	Value  float64
	Suffix string
	Text   string
}

// CharLit is a character constant
type CharLit struct {
	Pos   diag.Pos
	Value uint64
	Text  string
}

// StringLit is a string literal with escapes decoded
type StringLit struct {
	Pos   diag.Pos
	Value string
	Text  string
}

// Variable is an identifier reference
type Variable struct {
	Pos  diag.Pos
	Name string
}

// Unary is a prefix unary expression
type Unary struct {
	Pos  diag.Pos
	Op   UnaryOp
	Expr Expr
}

// Postfix is a postfix ++/-- expression
type Postfix struct {
	Pos  diag.Pos
	Op   PostfixOp
	Expr Expr
}

// Binary is a binary expression (including assignments and comma)
type Binary struct {
	Pos   diag.Pos
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// Conditional is the ternary operator: cond ? then : else
type Conditional struct {
	Pos  diag.Pos
	Cond Expr
	Then Expr
	Else Expr
}

// Call is a function call
type Call struct {
	Pos  diag.Pos
	Func Expr
	Args []Expr
}

// Index is array subscript access: arr[idx]
type Index struct {
	Pos   diag.Pos
	Array Expr
	Index Expr
}

// Member is struct member access: expr.name or expr->name
type Member struct {
	Pos   diag.Pos
	Expr  Expr
	Name  string
	Arrow bool
}

// Cast is an explicit conversion: (type)expr
type Cast struct {
	Pos  diag.Pos
	Type ctypes.Type
	Expr Expr
}

// SizeofExpr is sizeof applied to an expression
type SizeofExpr struct {
	Pos  diag.Pos
	Expr Expr
}

// SizeofType is sizeof applied to a parenthesized type name
type SizeofType struct {
	Pos  diag.Pos
	Type ctypes.Type
}

// AlignofExpr is _Alignof applied to an expression (GNU allows this form)
type AlignofExpr struct {
	Pos  diag.Pos
	Expr Expr
}

// AlignofType is _Alignof applied to a parenthesized type name
type AlignofType struct {
	Pos  diag.Pos
	Type ctypes.Type
}

// GenericAssoc is one association of a _Generic selection. A nil Type
// marks the default association.
type GenericAssoc struct {
	Type ctypes.Type
	Expr Expr
}

// GenericSelection is a C11 _Generic expression
type GenericSelection struct {
	Pos     diag.Pos
	Control Expr
	Assocs  []GenericAssoc
}

// InitList is a brace-enclosed initializer list
type InitList struct {
	Pos   diag.Pos
	Items []Expr
}

// Paren is a parenthesized expression
type Paren struct {
	Pos  diag.Pos
	Expr Expr
}

// StmtExpr is a GNU statement expression: ({ ... }). Its value is the
// value of the block's final expression statement.
type StmtExpr struct {
	Pos   diag.Pos
	Block *Block
}

// LabelAddr is the GNU label-address form &&label
type LabelAddr struct {
	Pos   diag.Pos
	Label string
}

// ExtensionExpr is an __extension__-wrapped expression. The wrapper is
// transparent apart from suppressing pedantic diagnostics.
type ExtensionExpr struct {
	Pos  diag.Pos
	Expr Expr
}

// ---- Statements ----

// ExprStmt is an expression statement; a nil Expr is the empty statement.
type ExprStmt struct {
	Pos  diag.Pos
	Expr Expr
}

// DeclStmt is a block-scope declaration
type DeclStmt struct {
	Decl *Decl
}

// Block is a compound statement; each block introduces a nested scope.
type Block struct {
	Pos   diag.Pos
	Items []Stmt
}

// If statement; Else binds to the nearest unmatched if.
type If struct {
	Pos  diag.Pos
	Cond Expr
	Then Stmt
	Else Stmt // nil when absent
}

// While statement
type While struct {
	Pos  diag.Pos
	Cond Expr
	Body Stmt
}

// DoWhile statement
type DoWhile struct {
	Pos  diag.Pos
	Body Stmt
	Cond Expr
}

// For statement. Absent clauses stay nil rather than being defaulted.
// Init is a DeclStmt or an ExprStmt; an init clause declaring several
// variables becomes a Block of DeclStmts.
type For struct {
	Pos  diag.Pos
	Init Stmt
	Cond Expr
	Step Expr
	Body Stmt
}

// Switch statement. CaseLabels is the ordered list of *Case and *Default
// nodes found anywhere in Body; stacked labels chain through Case.Stmt.
type Switch struct {
	Pos        diag.Pos
	Cond       Expr
	Body       Stmt
	CaseLabels []Stmt
}

// Case is a case label and the statement it precedes
type Case struct {
	Pos   diag.Pos
	Value Expr
	Stmt  Stmt
}

// Default is a default label and the statement it precedes
type Default struct {
	Pos  diag.Pos
	Stmt Stmt
}

// Label is a named label and the statement it precedes
type Label struct {
	Pos  diag.Pos
	Name string
	Stmt Stmt
}

// Goto is a plain goto by label name
type Goto struct {
	Pos   diag.Pos
	Label string
}

// GotoExpr is the GNU computed goto: goto *expr;
type GotoExpr struct {
	Pos    diag.Pos
	Target Expr
}

// Return statement; Expr is nil for a bare return.
type Return struct {
	Pos  diag.Pos
	Expr Expr
}

// Break statement
type Break struct {
	Pos diag.Pos
}

// Continue statement
type Continue struct {
	Pos diag.Pos
}

// AsmOperand is one output or input constraint clause: "=r"(val)
type AsmOperand struct {
	Constraint string
	Expr       Expr
}

// AsmStmt is a GNU inline assembly statement. Constraint syntax is captured
// verbatim, never interpreted.
type AsmStmt struct {
	Pos      diag.Pos
	Volatile bool
	Template string
	Outputs  []AsmOperand
	Inputs   []AsmOperand
	Clobbers []string
}

// ---- Declarations ----

// StorageClass represents declaration storage-class specifiers. typedef is
// syntactically a storage class in C.
type StorageClass int

const (
	SCNone StorageClass = iota
	SCTypedef
	SCStatic
	SCExtern
	SCAuto
	SCRegister
)

func (s StorageClass) String() string {
	names := []string{"", "typedef", "static", "extern", "auto", "register"}
	if int(s) < len(names) {
		return names[s]
	}
	return "?"
}

// Attribute is one __attribute__ entry. The type lives in ctypes so struct
// members can carry attributes without an import cycle.
type Attribute = ctypes.Attribute

// Decl is a declaration: a variable, function prototype, function
// definition (Body non-nil), typedef (Storage == SCTypedef), or a bare
// struct/union/enum tag declaration (empty Name).
type Decl struct {
	Pos         diag.Pos
	Storage     StorageClass
	ThreadLocal bool
	Inline      bool
	Noreturn    bool
	Extension   bool // wrapped in __extension__
	Name        string
	Type        ctypes.Type
	Init        Expr   // optional initializer
	Body        *Block // non-nil for function definitions
	Attrs       []Attribute
}

// StaticAssert is _Static_assert(const-expr, "msg"), valid at file scope
// and block scope. The condition is stored unevaluated.
type StaticAssert struct {
	Pos     diag.Pos
	Cond    Expr
	Message string
}

// Program is a parsed translation unit
type Program struct {
	Decls []ExternalDecl
}

// ---- Marker methods and positions ----

func (e *IntLit) implCabsNode()           {}
func (e *IntLit) implCabsExpr()           {}
func (e *FloatLit) implCabsNode()         {}
func (e *FloatLit) implCabsExpr()         {}
func (e *CharLit) implCabsNode()          {}
func (e *CharLit) implCabsExpr()          {}
func (e *StringLit) implCabsNode()        {}
func (e *StringLit) implCabsExpr()        {}
func (e *Variable) implCabsNode()         {}
func (e *Variable) implCabsExpr()         {}
func (e *Unary) implCabsNode()            {}
func (e *Unary) implCabsExpr()            {}
func (e *Postfix) implCabsNode()          {}
func (e *Postfix) implCabsExpr()          {}
func (e *Binary) implCabsNode()           {}
func (e *Binary) implCabsExpr()           {}
func (e *Conditional) implCabsNode()      {}
func (e *Conditional) implCabsExpr()      {}
func (e *Call) implCabsNode()             {}
func (e *Call) implCabsExpr()             {}
func (e *Index) implCabsNode()            {}
func (e *Index) implCabsExpr()            {}
func (e *Member) implCabsNode()           {}
func (e *Member) implCabsExpr()           {}
func (e *Cast) implCabsNode()             {}
func (e *Cast) implCabsExpr()             {}
func (e *SizeofExpr) implCabsNode()       {}
func (e *SizeofExpr) implCabsExpr()       {}
func (e *SizeofType) implCabsNode()       {}
func (e *SizeofType) implCabsExpr()       {}
func (e *AlignofExpr) implCabsNode()      {}
func (e *AlignofExpr) implCabsExpr()      {}
func (e *AlignofType) implCabsNode()      {}
func (e *AlignofType) implCabsExpr()      {}
func (e *GenericSelection) implCabsNode() {}
func (e *GenericSelection) implCabsExpr() {}
func (e *InitList) implCabsNode()         {}
func (e *InitList) implCabsExpr()         {}
func (e *Paren) implCabsNode()            {}
func (e *Paren) implCabsExpr()            {}
func (e *StmtExpr) implCabsNode()         {}
func (e *StmtExpr) implCabsExpr()         {}
func (e *LabelAddr) implCabsNode()        {}
func (e *LabelAddr) implCabsExpr()        {}
func (e *ExtensionExpr) implCabsNode()    {}
func (e *ExtensionExpr) implCabsExpr()    {}

func (s *ExprStmt) implCabsNode() {}
func (s *ExprStmt) implCabsStmt() {}
func (s *DeclStmt) implCabsNode() {}
func (s *DeclStmt) implCabsStmt() {}
func (s *Block) implCabsNode()    {}
func (s *Block) implCabsStmt()    {}
func (s *If) implCabsNode()       {}
func (s *If) implCabsStmt()       {}
func (s *While) implCabsNode()    {}
func (s *While) implCabsStmt()    {}
func (s *DoWhile) implCabsNode()  {}
func (s *DoWhile) implCabsStmt()  {}
func (s *For) implCabsNode()      {}
func (s *For) implCabsStmt()      {}
func (s *Switch) implCabsNode()   {}
func (s *Switch) implCabsStmt()   {}
func (s *Case) implCabsNode()     {}
func (s *Case) implCabsStmt()     {}
func (s *Default) implCabsNode()  {}
func (s *Default) implCabsStmt()  {}
func (s *Label) implCabsNode()    {}
func (s *Label) implCabsStmt()    {}
func (s *Goto) implCabsNode()     {}
func (s *Goto) implCabsStmt()     {}
func (s *GotoExpr) implCabsNode() {}
func (s *GotoExpr) implCabsStmt() {}
func (s *Return) implCabsNode()   {}
func (s *Return) implCabsStmt()   {}
func (s *Break) implCabsNode()    {}
func (s *Break) implCabsStmt()    {}
func (s *Continue) implCabsNode() {}
func (s *Continue) implCabsStmt() {}
func (s *AsmStmt) implCabsNode()  {}
func (s *AsmStmt) implCabsStmt()  {}

func (d *Decl) implCabsNode()             {}
func (d *Decl) implExternalDecl()         {}
func (d *StaticAssert) implCabsNode()     {}
func (d *StaticAssert) implExternalDecl() {}
func (d *StaticAssert) implCabsStmt()     {}

func (e *IntLit) Position() diag.Pos           { return e.Pos }
func (e *FloatLit) Position() diag.Pos         { return e.Pos }
func (e *CharLit) Position() diag.Pos          { return e.Pos }
func (e *StringLit) Position() diag.Pos        { return e.Pos }
func (e *Variable) Position() diag.Pos         { return e.Pos }
func (e *Unary) Position() diag.Pos            { return e.Pos }
func (e *Postfix) Position() diag.Pos          { return e.Pos }
func (e *Binary) Position() diag.Pos           { return e.Pos }
func (e *Conditional) Position() diag.Pos      { return e.Pos }
func (e *Call) Position() diag.Pos             { return e.Pos }
func (e *Index) Position() diag.Pos            { return e.Pos }
func (e *Member) Position() diag.Pos           { return e.Pos }
func (e *Cast) Position() diag.Pos             { return e.Pos }
func (e *SizeofExpr) Position() diag.Pos       { return e.Pos }
func (e *SizeofType) Position() diag.Pos       { return e.Pos }
func (e *AlignofExpr) Position() diag.Pos      { return e.Pos }
func (e *AlignofType) Position() diag.Pos      { return e.Pos }
func (e *GenericSelection) Position() diag.Pos { return e.Pos }
func (e *InitList) Position() diag.Pos         { return e.Pos }
func (e *Paren) Position() diag.Pos            { return e.Pos }
func (e *StmtExpr) Position() diag.Pos         { return e.Pos }
func (e *LabelAddr) Position() diag.Pos        { return e.Pos }
func (e *ExtensionExpr) Position() diag.Pos    { return e.Pos }
func (s *ExprStmt) Position() diag.Pos         { return s.Pos }
func (s *DeclStmt) Position() diag.Pos         { return s.Decl.Pos }
func (s *Block) Position() diag.Pos            { return s.Pos }
func (s *If) Position() diag.Pos               { return s.Pos }
func (s *While) Position() diag.Pos            { return s.Pos }
func (s *DoWhile) Position() diag.Pos          { return s.Pos }
func (s *For) Position() diag.Pos              { return s.Pos }
func (s *Switch) Position() diag.Pos           { return s.Pos }
func (s *Case) Position() diag.Pos             { return s.Pos }
func (s *Default) Position() diag.Pos          { return s.Pos }
func (s *Label) Position() diag.Pos            { return s.Pos }
func (s *Goto) Position() diag.Pos             { return s.Pos }
func (s *GotoExpr) Position() diag.Pos         { return s.Pos }
func (s *Return) Position() diag.Pos           { return s.Pos }
func (s *Break) Position() diag.Pos            { return s.Pos }
func (s *Continue) Position() diag.Pos         { return s.Pos }
func (s *AsmStmt) Position() diag.Pos          { return s.Pos }
func (d *Decl) Position() diag.Pos             { return d.Pos }
func (d *StaticAssert) Position() diag.Pos     { return d.Pos }

// ---- Compact expression printing ----

func (e *IntLit) String() string {
	if e.Text != "" {
		return e.Text
	}
	return strconv.FormatUint(e.Value, 10) + e.Suffix
}

func (e *FloatLit) String() string {
	if e.Text != "" {
		return e.Text
	}
	return strconv.FormatFloat(e.Value, 'g', -1, 64) + e.Suffix
}

func (e *CharLit) String() string {
	if e.Text != "" {
		return e.Text
	}
	return fmt.Sprintf("'%c'", rune(e.Value))
}

func (e *StringLit) String() string {
	if e.Text != "" {
		return e.Text
	}
	return strconv.Quote(e.Value)
}

func (e *Variable) String() string { return e.Name }

func (e *Unary) String() string {
	return "(" + e.Op.String() + e.Expr.String() + ")"
}

func (e *Postfix) String() string {
	return "(" + e.Expr.String() + e.Op.String() + ")"
}

func (e *Binary) String() string {
	if e.Op == OpComma {
		return "(" + e.Left.String() + ", " + e.Right.String() + ")"
	}
	return "(" + e.Left.String() + " " + e.Op.String() + " " + e.Right.String() + ")"
}

func (e *Conditional) String() string {
	return "(" + e.Cond.String() + " ? " + e.Then.String() + " : " + e.Else.String() + ")"
}

func (e *Call) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return e.Func.String() + "(" + strings.Join(args, ", ") + ")"
}

func (e *Index) String() string {
	return e.Array.String() + "[" + e.Index.String() + "]"
}

func (e *Member) String() string {
	if e.Arrow {
		return e.Expr.String() + "->" + e.Name
	}
	return e.Expr.String() + "." + e.Name
}

func (e *Cast) String() string {
	return "(" + e.Type.String() + ")" + e.Expr.String()
}

func (e *SizeofExpr) String() string  { return "sizeof " + e.Expr.String() }
func (e *SizeofType) String() string  { return "sizeof(" + e.Type.String() + ")" }
func (e *AlignofExpr) String() string { return "_Alignof " + e.Expr.String() }
func (e *AlignofType) String() string { return "_Alignof(" + e.Type.String() + ")" }

func (e *GenericSelection) String() string {
	var sb strings.Builder
	sb.WriteString("_Generic(")
	sb.WriteString(e.Control.String())
	for _, a := range e.Assocs {
		sb.WriteString(", ")
		if a.Type == nil {
			sb.WriteString("default")
		} else {
			sb.WriteString(a.Type.String())
		}
		sb.WriteString(": ")
		sb.WriteString(a.Expr.String())
	}
	sb.WriteString(")")
	return sb.String()
}

func (e *InitList) String() string {
	items := make([]string, len(e.Items))
	for i, it := range e.Items {
		items[i] = it.String()
	}
	return "{" + strings.Join(items, ", ") + "}"
}

func (e *Paren) String() string { return "(" + e.Expr.String() + ")" }

func (e *StmtExpr) String() string { return "({...})" }

func (e *LabelAddr) String() string { return "&&" + e.Label }

func (e *ExtensionExpr) String() string {
	return "__extension__ " + e.Expr.String()
}
