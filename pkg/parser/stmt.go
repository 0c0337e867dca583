package parser

import (
	"github.com/gengjiawen/c-parser/pkg/cabs"
	"github.com/gengjiawen/c-parser/pkg/ctypes"
	"github.com/gengjiawen/c-parser/pkg/diag"
	"github.com/gengjiawen/c-parser/pkg/lexer"
)

// parseFunctionBody parses a function definition body. Parameter names
// shadow any typedef of the same name inside the body.
func (p *Parser) parseFunctionBody(ty ctypes.Type) *cabs.Block {
	p.enterScope()
	defer p.leaveScope()
	if fn, ok := ctypes.Resolve(ty).(ctypes.Tfunction); ok {
		for _, param := range fn.Params {
			if param.Name != "" {
				p.declareTypedef(param.Name, nil)
			}
		}
	}
	return p.parseBlock()
}

// parseBlock parses a compound statement. Each block opens a scope, so
// typedefs and tags declared inside are invisible afterwards.
func (p *Parser) parseBlock() *cabs.Block {
	pos := p.curPos()
	block := &cabs.Block{Pos: pos}
	if !p.expect(lexer.TokenLBrace) {
		return block
	}
	if !p.enterNesting(pos) {
		p.leaveNesting()
		p.skipBalancedBraces()
		return block
	}
	defer p.leaveNesting()

	p.enterScope()
	defer p.leaveScope()

	for !p.curTokenIs(lexer.TokenRBrace) && !p.curTokenIs(lexer.TokenEOF) {
		before := p.pos
		block.Items = append(block.Items, p.parseBlockItem()...)
		if p.pos == before {
			p.addError(p.curPos(), diag.UnexpectedToken, "unexpected %s in block", p.curToken().Type)
			p.nextToken()
		}
	}
	p.expect(lexer.TokenRBrace)
	return block
}

// skipBalancedBraces consumes up to and including the brace matching the
// one already consumed. Used to abandon a block once the depth limit is
// reached.
func (p *Parser) skipBalancedBraces() {
	depth := 1
	for !p.curTokenIs(lexer.TokenEOF) {
		switch p.curToken().Type {
		case lexer.TokenLBrace:
			depth++
		case lexer.TokenRBrace:
			depth--
			if depth == 0 {
				p.nextToken()
				return
			}
		}
		p.nextToken()
	}
}

// parseBlockItem parses one declaration or statement inside a block. A
// typedef name directly followed by ':' is a label, not a declaration.
func (p *Parser) parseBlockItem() []cabs.Stmt {
	if p.curTokenIs(lexer.TokenStaticAssert) {
		if sa := p.parseStaticAssert(); sa != nil {
			return []cabs.Stmt{sa}
		}
		return nil
	}
	if p.isDeclarationStart() &&
		!(p.curTokenIs(lexer.TokenIdent) && p.peekTokenIs(1, lexer.TokenColon)) {
		return p.parseBlockDecls()
	}
	if s := p.parseStmt(); s != nil {
		return []cabs.Stmt{s}
	}
	return nil
}

func (p *Parser) parseStmt() cabs.Stmt {
	pos := p.curPos()
	if !p.enterNesting(pos) {
		p.leaveNesting()
		p.syncDecl()
		return nil
	}
	defer p.leaveNesting()

	switch p.curToken().Type {
	case lexer.TokenLBrace:
		return p.parseBlock()

	case lexer.TokenSemicolon:
		p.nextToken()
		return &cabs.ExprStmt{Pos: pos}

	case lexer.TokenIf:
		p.nextToken()
		p.expect(lexer.TokenLParen)
		cond := p.parseExpr()
		p.expect(lexer.TokenRParen)
		then := p.parseStmt()
		var els cabs.Stmt
		if p.accept(lexer.TokenElse) {
			els = p.parseStmt()
		}
		return &cabs.If{Pos: pos, Cond: cond, Then: then, Else: els}

	case lexer.TokenWhile:
		p.nextToken()
		p.expect(lexer.TokenLParen)
		cond := p.parseExpr()
		p.expect(lexer.TokenRParen)
		body := p.parseStmt()
		return &cabs.While{Pos: pos, Cond: cond, Body: body}

	case lexer.TokenDo:
		p.nextToken()
		body := p.parseStmt()
		p.expect(lexer.TokenWhile)
		p.expect(lexer.TokenLParen)
		cond := p.parseExpr()
		p.expect(lexer.TokenRParen)
		p.expect(lexer.TokenSemicolon)
		return &cabs.DoWhile{Pos: pos, Body: body, Cond: cond}

	case lexer.TokenFor:
		return p.parseFor(pos)

	case lexer.TokenSwitch:
		p.nextToken()
		p.expect(lexer.TokenLParen)
		cond := p.parseExpr()
		p.expect(lexer.TokenRParen)
		sw := &cabs.Switch{Pos: pos, Cond: cond}
		p.switches = append(p.switches, sw)
		sw.Body = p.parseStmt()
		p.switches = p.switches[:len(p.switches)-1]
		return sw

	case lexer.TokenCase:
		p.nextToken()
		val := p.parseConditional()
		p.expect(lexer.TokenColon)
		c := &cabs.Case{Pos: pos, Value: val}
		p.registerCaseLabel(pos, c)
		c.Stmt = p.parseStmt()
		return c

	case lexer.TokenDefault:
		p.nextToken()
		p.expect(lexer.TokenColon)
		d := &cabs.Default{Pos: pos}
		p.registerCaseLabel(pos, d)
		d.Stmt = p.parseStmt()
		return d

	case lexer.TokenGoto:
		p.nextToken()
		if p.accept(lexer.TokenStar) {
			target := p.parseExpr()
			p.expect(lexer.TokenSemicolon)
			return &cabs.GotoExpr{Pos: pos, Target: target}
		}
		if !p.curTokenIs(lexer.TokenIdent) {
			p.addError(p.curPos(), diag.UnexpectedToken, "expected label name after goto, got %s", p.curToken().Type)
			p.syncDecl()
			return nil
		}
		label := p.curToken().Literal
		p.nextToken()
		p.expect(lexer.TokenSemicolon)
		return &cabs.Goto{Pos: pos, Label: label}

	case lexer.TokenReturn:
		p.nextToken()
		var e cabs.Expr
		if !p.curTokenIs(lexer.TokenSemicolon) {
			e = p.parseExpr()
		}
		p.expect(lexer.TokenSemicolon)
		return &cabs.Return{Pos: pos, Expr: e}

	case lexer.TokenBreak:
		p.nextToken()
		p.expect(lexer.TokenSemicolon)
		return &cabs.Break{Pos: pos}

	case lexer.TokenContinue:
		p.nextToken()
		p.expect(lexer.TokenSemicolon)
		return &cabs.Continue{Pos: pos}

	case lexer.TokenAsm:
		return p.parseAsmStmt()

	case lexer.TokenIdent:
		if p.peekTokenIs(1, lexer.TokenColon) {
			name := p.curToken().Literal
			p.nextToken()
			p.nextToken()
			stmt := p.parseStmt()
			return &cabs.Label{Pos: pos, Name: name, Stmt: stmt}
		}
	}

	e := p.parseExpr()
	if e == nil {
		p.syncDecl()
		return nil
	}
	p.expect(lexer.TokenSemicolon)
	return &cabs.ExprStmt{Pos: pos, Expr: e}
}

// registerCaseLabel appends a case or default label to the innermost
// switch, in source order (stacked labels register before their statement
// is parsed).
func (p *Parser) registerCaseLabel(pos diag.Pos, label cabs.Stmt) {
	if len(p.switches) == 0 {
		p.addError(pos, diag.UnexpectedToken, "case label outside switch")
		return
	}
	sw := p.switches[len(p.switches)-1]
	sw.CaseLabels = append(sw.CaseLabels, label)
}

// parseFor parses a for statement. Absent clauses stay nil; a declaration
// in the init clause lives in the loop's own scope.
func (p *Parser) parseFor(pos diag.Pos) cabs.Stmt {
	p.nextToken()
	p.expect(lexer.TokenLParen)

	p.enterScope()
	defer p.leaveScope()

	var init cabs.Stmt
	switch {
	case p.accept(lexer.TokenSemicolon):
		// absent
	case p.isDeclarationStart():
		decls := p.parseDeclGroup(false)
		switch len(decls) {
		case 0:
		case 1:
			init = &cabs.DeclStmt{Decl: decls[0]}
		default:
			items := make([]cabs.Stmt, len(decls))
			for i, d := range decls {
				items[i] = &cabs.DeclStmt{Decl: d}
			}
			init = &cabs.Block{Pos: decls[0].Pos, Items: items}
		}
	default:
		exprPos := p.curPos()
		e := p.parseExpr()
		if e != nil {
			init = &cabs.ExprStmt{Pos: exprPos, Expr: e}
		}
		p.expect(lexer.TokenSemicolon)
	}

	var cond cabs.Expr
	if !p.curTokenIs(lexer.TokenSemicolon) {
		cond = p.parseExpr()
	}
	p.expect(lexer.TokenSemicolon)

	var step cabs.Expr
	if !p.curTokenIs(lexer.TokenRParen) {
		step = p.parseExpr()
	}
	p.expect(lexer.TokenRParen)

	body := p.parseStmt()
	return &cabs.For{Pos: pos, Init: init, Cond: cond, Step: step, Body: body}
}
