package parser

import (
	"github.com/gengjiawen/c-parser/pkg/cabs"
	"github.com/gengjiawen/c-parser/pkg/ctypes"
	"github.com/gengjiawen/c-parser/pkg/lexer"
)

// GNU extension syntax: __attribute__ lists, inline assembly and typeof.
// Attribute and asm constraint contents are captured verbatim, never
// interpreted.

// parseAttributes consumes zero or more __attribute__((...)) specifiers
// and returns their entries.
func (p *Parser) parseAttributes() []cabs.Attribute {
	var attrs []cabs.Attribute
	for p.curTokenIs(lexer.TokenAttribute) {
		p.nextToken()
		if !p.expect(lexer.TokenLParen) {
			return attrs
		}
		if !p.expect(lexer.TokenLParen) {
			return attrs
		}
		for !p.curTokenIs(lexer.TokenRParen) && !p.curTokenIs(lexer.TokenEOF) {
			// Attribute names may collide with keywords (const, unused);
			// any word-like token is acceptable here.
			attr := cabs.Attribute{Name: p.curToken().Literal}
			p.nextToken()
			if p.accept(lexer.TokenLParen) {
				attr.Args = p.captureBalanced()
			}
			attrs = append(attrs, attr)
			if !p.accept(lexer.TokenComma) {
				break
			}
		}
		p.expect(lexer.TokenRParen)
		p.expect(lexer.TokenRParen)
	}
	return attrs
}

// captureBalanced collects raw lexemes up to the paren matching the one
// already consumed, which it also consumes.
func (p *Parser) captureBalanced() []string {
	var out []string
	depth := 1
	for !p.curTokenIs(lexer.TokenEOF) {
		switch p.curToken().Type {
		case lexer.TokenLParen:
			depth++
		case lexer.TokenRParen:
			depth--
			if depth == 0 {
				p.nextToken()
				return out
			}
		}
		out = append(out, p.curToken().Literal)
		p.nextToken()
	}
	return out
}

// parseAsmStmt parses __asm__ [volatile] ( template : outputs : inputs :
// clobbers ); with every group after the template optional.
func (p *Parser) parseAsmStmt() cabs.Stmt {
	pos := p.curPos()
	p.nextToken() // asm keyword
	volatile := false
	for p.accept(lexer.TokenVolatile) {
		volatile = true
	}
	if !p.expect(lexer.TokenLParen) {
		p.syncDecl()
		return nil
	}

	template := ""
	for p.curTokenIs(lexer.TokenString) {
		template += p.curToken().StrVal
		p.nextToken()
	}

	stmt := &cabs.AsmStmt{Pos: pos, Volatile: volatile, Template: template}
	if p.accept(lexer.TokenColon) {
		stmt.Outputs = p.parseAsmOperands()
	}
	if p.accept(lexer.TokenColon) {
		stmt.Inputs = p.parseAsmOperands()
	}
	if p.accept(lexer.TokenColon) {
		for p.curTokenIs(lexer.TokenString) {
			stmt.Clobbers = append(stmt.Clobbers, p.curToken().StrVal)
			p.nextToken()
			if !p.accept(lexer.TokenComma) {
				break
			}
		}
	}
	p.expect(lexer.TokenRParen)
	p.expect(lexer.TokenSemicolon)
	return stmt
}

func (p *Parser) parseAsmOperands() []cabs.AsmOperand {
	var ops []cabs.AsmOperand
	for p.curTokenIs(lexer.TokenString) {
		op := cabs.AsmOperand{Constraint: p.curToken().StrVal}
		p.nextToken()
		if p.accept(lexer.TokenLParen) {
			op.Expr = p.parseExpr()
			p.expect(lexer.TokenRParen)
		}
		ops = append(ops, op)
		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	return ops
}

// parseTypeofSpec parses typeof(type-name) or typeof(expression) as a type
// specifier. The operand is stored unevaluated.
func (p *Parser) parseTypeofSpec() (ctypes.Type, bool) {
	p.nextToken() // typeof
	if !p.expect(lexer.TokenLParen) {
		return nil, false
	}

	if p.isTypeNameToken(p.curToken()) {
		m := p.save()
		ty, ok := p.parseTypeName()
		if ok && p.accept(lexer.TokenRParen) {
			return ctypes.Ttypeof{Type: ty}, true
		}
		p.restore(m)
	}

	e := p.parseExpr()
	if e == nil {
		p.syncParen()
		return nil, false
	}
	p.expect(lexer.TokenRParen)
	return ctypes.Ttypeof{Expr: e}, true
}
