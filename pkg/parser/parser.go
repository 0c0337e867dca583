// Package parser implements a recursive descent parser for C11 with the
// common GNU extensions. A Parser instance is self-contained: the typedef
// and tag scopes, the diagnostics list and the depth counter all live on
// the instance, so independent files can be parsed concurrently by
// independent parsers.
package parser

import (
	"sort"

	"github.com/gengjiawen/c-parser/pkg/cabs"
	"github.com/gengjiawen/c-parser/pkg/ctypes"
	"github.com/gengjiawen/c-parser/pkg/diag"
	"github.com/gengjiawen/c-parser/pkg/lexer"
)

// DefaultMaxDepth bounds declarator/expression/statement recursion so
// adversarial nesting fails with NestingTooDeep instead of exhausting the
// stack.
const DefaultMaxDepth = 256

// Options configures a Parser.
type Options struct {
	MaxDepth int // 0 means DefaultMaxDepth
}

// Parser parses C source code into a cabs AST. The whole token sequence is
// buffered up front, which gives the grammar unlimited lookahead and cheap
// save/restore backtracking for type-name disambiguation.
type Parser struct {
	toks []lexer.Token
	pos  int

	errs     []diag.Diagnostic
	depth    int
	maxDepth int

	// Attributes found inside a declarator (between '*' and the name),
	// held until the enclosing declaration or member attaches them.
	pendingAttrs []cabs.Attribute

	scopes   []*scope
	switches []*cabs.Switch
}

type scope struct {
	typedefs map[string]ctypes.Type
	tags     map[string]ctypes.Type
}

// New creates a new Parser for the given lexer
func New(l *lexer.Lexer) *Parser {
	return NewWithOptions(l, Options{})
}

// NewWithOptions creates a Parser with explicit options
func NewWithOptions(l *lexer.Lexer, opts Options) *Parser {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	p := &Parser{maxDepth: maxDepth}
	for {
		tok := l.NextToken()
		p.toks = append(p.toks, tok)
		if tok.Type == lexer.TokenEOF {
			break
		}
	}
	p.errs = append(p.errs, l.Errors()...)
	return p
}

// NewFromSource is a convenience constructor over a fresh lexer.
func NewFromSource(src string) *Parser {
	return New(lexer.New(src))
}

// Errors returns all diagnostics recorded during the parse, ordered by
// source position.
func (p *Parser) Errors() []diag.Diagnostic {
	out := make([]diag.Diagnostic, len(p.errs))
	copy(out, p.errs)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Pos.Line != out[j].Pos.Line {
			return out[i].Pos.Line < out[j].Pos.Line
		}
		return out[i].Pos.Column < out[j].Pos.Column
	})
	return out
}

func (p *Parser) addError(pos diag.Pos, kind diag.Kind, format string, args ...interface{}) {
	p.errs = append(p.errs, diag.Errorf(pos, kind, format, args...))
}

// ---- Token cursor ----

func (p *Parser) curToken() lexer.Token {
	return p.toks[p.pos]
}

// peekToken looks n tokens past the current one.
func (p *Parser) peekToken(n int) lexer.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		i = len(p.toks) - 1 // EOF
	}
	return p.toks[i]
}

func (p *Parser) nextToken() {
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken().Type == t
}

func (p *Parser) peekTokenIs(n int, t lexer.TokenType) bool {
	return p.peekToken(n).Type == t
}

func (p *Parser) curPos() diag.Pos {
	return p.curToken().Pos()
}

// accept consumes the current token if it has the given type.
func (p *Parser) accept(t lexer.TokenType) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it has the given type, otherwise
// records an UnexpectedToken diagnostic.
func (p *Parser) expect(t lexer.TokenType) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	p.addError(p.curPos(), diag.UnexpectedToken, "expected %s, got %s", t, p.curToken().Type)
	return false
}

// ---- Backtracking ----

// mark snapshots cursor, diagnostics and pending attributes so speculative
// parses (type-name vs expression) can retry silently.
type mark struct {
	pos   int
	errs  int
	attrs int
}

func (p *Parser) save() mark {
	return mark{pos: p.pos, errs: len(p.errs), attrs: len(p.pendingAttrs)}
}

func (p *Parser) restore(m mark) {
	p.pos = m.pos
	p.errs = p.errs[:m.errs]
	p.pendingAttrs = p.pendingAttrs[:m.attrs]
}

// takeAttrs removes and returns the pending declarator attributes recorded
// past the given watermark.
func (p *Parser) takeAttrs(from int) []cabs.Attribute {
	if len(p.pendingAttrs) <= from {
		return nil
	}
	out := append([]cabs.Attribute{}, p.pendingAttrs[from:]...)
	p.pendingAttrs = p.pendingAttrs[:from]
	return out
}

// ---- Recursion depth ----

func (p *Parser) enterNesting(pos diag.Pos) bool {
	p.depth++
	if p.depth > p.maxDepth {
		if p.depth == p.maxDepth+1 {
			p.addError(pos, diag.NestingTooDeep, "nesting exceeds the limit of %d", p.maxDepth)
		}
		return false
	}
	return true
}

func (p *Parser) leaveNesting() {
	p.depth--
}

// ---- Scopes ----

func (p *Parser) enterScope() {
	p.scopes = append(p.scopes, &scope{
		typedefs: make(map[string]ctypes.Type),
		tags:     make(map[string]ctypes.Type),
	})
}

func (p *Parser) leaveScope() {
	p.scopes = p.scopes[:len(p.scopes)-1]
}

func (p *Parser) declareTypedef(name string, ty ctypes.Type) {
	p.scopes[len(p.scopes)-1].typedefs[name] = ty
}

// lookupTypedef walks the scope stack for a typedef binding. A nil type
// recorded for a name is a shadowing tombstone (a parameter or variable
// hiding an outer typedef) and stops the search.
func (p *Parser) lookupTypedef(name string) (ctypes.Type, bool) {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if ty, ok := p.scopes[i].typedefs[name]; ok {
			return ty, ty != nil
		}
	}
	return nil, false
}

func (p *Parser) declareTag(name string, ty ctypes.Type) {
	p.scopes[len(p.scopes)-1].tags[name] = ty
}

func (p *Parser) lookupTag(name string) (ctypes.Type, bool) {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if ty, ok := p.scopes[i].tags[name]; ok {
			return ty, true
		}
	}
	return nil, false
}

// isTypedefName reports whether the token is an identifier currently bound
// in the typedef namespace. This is the lexer/parser feedback point that
// disambiguates identifier vs type-name.
func (p *Parser) isTypedefName(tok lexer.Token) bool {
	if tok.Type != lexer.TokenIdent {
		return false
	}
	_, ok := p.lookupTypedef(tok.Literal)
	return ok
}

// ---- Error recovery ----

// syncDecl skips ahead to the next declaration boundary: just past a
// semicolon, at a closing brace, or at a token that can begin a new
// declaration (after at least one token of progress), so one pass keeps
// collecting diagnostics.
func (p *Parser) syncDecl() {
	first := true
	for !p.curTokenIs(lexer.TokenEOF) {
		if p.accept(lexer.TokenSemicolon) {
			return
		}
		if p.curTokenIs(lexer.TokenRBrace) {
			return
		}
		if !first && p.isDeclSpecToken(p.curToken()) {
			return
		}
		first = false
		p.nextToken()
	}
}

// ---- Entry point ----

// ParseTranslationUnit parses the whole input and returns the AST for
// everything that parsed. Errors are recorded in Errors(); recovery
// resumes at the next declaration boundary.
func (p *Parser) ParseTranslationUnit() *cabs.Program {
	prog := &cabs.Program{}
	p.enterScope()
	defer p.leaveScope()

	for !p.curTokenIs(lexer.TokenEOF) {
		before := p.pos
		decls := p.parseExternalDecl()
		prog.Decls = append(prog.Decls, decls...)
		if p.pos == before {
			// No forward progress: drop the offending token.
			p.addError(p.curPos(), diag.UnexpectedToken, "unexpected %s at file scope", p.curToken().Type)
			p.nextToken()
		}
	}
	return prog
}

// resolveLabels matches goto targets (plain goto and &&label addresses)
// against the labels of one function body. Run after the body parse so
// forward references work.
func (p *Parser) resolveLabels(fn *cabs.Decl) {
	if fn.Body == nil {
		return
	}
	labels := make(map[string]bool)
	cabs.Inspect(fn.Body, func(n cabs.Node) bool {
		if l, ok := n.(*cabs.Label); ok {
			labels[l.Name] = true
		}
		return true
	})
	cabs.Inspect(fn.Body, func(n cabs.Node) bool {
		switch v := n.(type) {
		case *cabs.Goto:
			if !labels[v.Label] {
				p.addError(v.Pos, diag.UndefinedLabel, "use of undeclared label %q", v.Label)
			}
		case *cabs.LabelAddr:
			if !labels[v.Label] {
				p.addError(v.Pos, diag.UndefinedLabel, "use of undeclared label %q", v.Label)
			}
		}
		return true
	})
}
