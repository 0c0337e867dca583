package parser

import (
	"github.com/gengjiawen/c-parser/pkg/cabs"
	"github.com/gengjiawen/c-parser/pkg/ctypes"
	"github.com/gengjiawen/c-parser/pkg/diag"
	"github.com/gengjiawen/c-parser/pkg/lexer"
)

// Expression grammar, one function per precedence level, top to bottom:
// comma, assignment, conditional, logical-or .. multiplicative, cast,
// unary, postfix, primary. Binary levels are left associative and loop;
// assignment and conditional recurse to the right.

// parseExpr parses a full expression including the comma operator.
func (p *Parser) parseExpr() cabs.Expr {
	e := p.parseAssign()
	if e == nil {
		return nil
	}
	for p.curTokenIs(lexer.TokenComma) {
		pos := p.curPos()
		p.nextToken()
		r := p.parseAssign()
		if r == nil {
			return e
		}
		e = &cabs.Binary{Pos: pos, Op: cabs.OpComma, Left: e, Right: r}
	}
	return e
}

var assignOps = map[lexer.TokenType]cabs.BinaryOp{
	lexer.TokenAssign:        cabs.OpAssign,
	lexer.TokenPlusAssign:    cabs.OpAddAssign,
	lexer.TokenMinusAssign:   cabs.OpSubAssign,
	lexer.TokenStarAssign:    cabs.OpMulAssign,
	lexer.TokenSlashAssign:   cabs.OpDivAssign,
	lexer.TokenPercentAssign: cabs.OpModAssign,
	lexer.TokenShlAssign:     cabs.OpShlAssign,
	lexer.TokenShrAssign:     cabs.OpShrAssign,
	lexer.TokenAndAssign:     cabs.OpAndAssign,
	lexer.TokenXorAssign:     cabs.OpXorAssign,
	lexer.TokenOrAssign:      cabs.OpOrAssign,
}

// parseAssign parses an assignment expression (right associative).
func (p *Parser) parseAssign() cabs.Expr {
	lhs := p.parseConditional()
	if lhs == nil {
		return nil
	}
	op, ok := assignOps[p.curToken().Type]
	if !ok {
		return lhs
	}
	pos := p.curPos()
	p.nextToken()
	rhs := p.parseAssign()
	if rhs == nil {
		return nil
	}
	return &cabs.Binary{Pos: pos, Op: op, Left: lhs, Right: rhs}
}

// parseConditional parses cond ? then : else, with the else branch binding
// right associatively.
func (p *Parser) parseConditional() cabs.Expr {
	cond := p.parseLogicalOr()
	if cond == nil || !p.curTokenIs(lexer.TokenQuestion) {
		return cond
	}
	pos := p.curPos()
	p.nextToken()
	then := p.parseExpr()
	if then == nil {
		return nil
	}
	if !p.expect(lexer.TokenColon) {
		return nil
	}
	els := p.parseConditional()
	if els == nil {
		return nil
	}
	return &cabs.Conditional{Pos: pos, Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseLogicalOr() cabs.Expr {
	e := p.parseLogicalAnd()
	for e != nil && p.curTokenIs(lexer.TokenOr) {
		pos := p.curPos()
		p.nextToken()
		r := p.parseLogicalAnd()
		if r == nil {
			return e
		}
		e = &cabs.Binary{Pos: pos, Op: cabs.OpOr, Left: e, Right: r}
	}
	return e
}

func (p *Parser) parseLogicalAnd() cabs.Expr {
	e := p.parseBitOr()
	for e != nil && p.curTokenIs(lexer.TokenAnd) {
		pos := p.curPos()
		p.nextToken()
		r := p.parseBitOr()
		if r == nil {
			return e
		}
		e = &cabs.Binary{Pos: pos, Op: cabs.OpAnd, Left: e, Right: r}
	}
	return e
}

func (p *Parser) parseBitOr() cabs.Expr {
	e := p.parseBitXor()
	for e != nil && p.curTokenIs(lexer.TokenPipe) {
		pos := p.curPos()
		p.nextToken()
		r := p.parseBitXor()
		if r == nil {
			return e
		}
		e = &cabs.Binary{Pos: pos, Op: cabs.OpBitOr, Left: e, Right: r}
	}
	return e
}

func (p *Parser) parseBitXor() cabs.Expr {
	e := p.parseBitAnd()
	for e != nil && p.curTokenIs(lexer.TokenCaret) {
		pos := p.curPos()
		p.nextToken()
		r := p.parseBitAnd()
		if r == nil {
			return e
		}
		e = &cabs.Binary{Pos: pos, Op: cabs.OpBitXor, Left: e, Right: r}
	}
	return e
}

func (p *Parser) parseBitAnd() cabs.Expr {
	e := p.parseEquality()
	for e != nil && p.curTokenIs(lexer.TokenAmpersand) {
		pos := p.curPos()
		p.nextToken()
		r := p.parseEquality()
		if r == nil {
			return e
		}
		e = &cabs.Binary{Pos: pos, Op: cabs.OpBitAnd, Left: e, Right: r}
	}
	return e
}

func (p *Parser) parseEquality() cabs.Expr {
	e := p.parseRelational()
	for e != nil {
		var op cabs.BinaryOp
		switch p.curToken().Type {
		case lexer.TokenEq:
			op = cabs.OpEq
		case lexer.TokenNe:
			op = cabs.OpNe
		default:
			return e
		}
		pos := p.curPos()
		p.nextToken()
		r := p.parseRelational()
		if r == nil {
			return e
		}
		e = &cabs.Binary{Pos: pos, Op: op, Left: e, Right: r}
	}
	return e
}

func (p *Parser) parseRelational() cabs.Expr {
	e := p.parseShift()
	for e != nil {
		var op cabs.BinaryOp
		switch p.curToken().Type {
		case lexer.TokenLt:
			op = cabs.OpLt
		case lexer.TokenLe:
			op = cabs.OpLe
		case lexer.TokenGt:
			op = cabs.OpGt
		case lexer.TokenGe:
			op = cabs.OpGe
		default:
			return e
		}
		pos := p.curPos()
		p.nextToken()
		r := p.parseShift()
		if r == nil {
			return e
		}
		e = &cabs.Binary{Pos: pos, Op: op, Left: e, Right: r}
	}
	return e
}

func (p *Parser) parseShift() cabs.Expr {
	e := p.parseAdditive()
	for e != nil {
		var op cabs.BinaryOp
		switch p.curToken().Type {
		case lexer.TokenShl:
			op = cabs.OpShl
		case lexer.TokenShr:
			op = cabs.OpShr
		default:
			return e
		}
		pos := p.curPos()
		p.nextToken()
		r := p.parseAdditive()
		if r == nil {
			return e
		}
		e = &cabs.Binary{Pos: pos, Op: op, Left: e, Right: r}
	}
	return e
}

func (p *Parser) parseAdditive() cabs.Expr {
	e := p.parseMultiplicative()
	for e != nil {
		var op cabs.BinaryOp
		switch p.curToken().Type {
		case lexer.TokenPlus:
			op = cabs.OpAdd
		case lexer.TokenMinus:
			op = cabs.OpSub
		default:
			return e
		}
		pos := p.curPos()
		p.nextToken()
		r := p.parseMultiplicative()
		if r == nil {
			return e
		}
		e = &cabs.Binary{Pos: pos, Op: op, Left: e, Right: r}
	}
	return e
}

func (p *Parser) parseMultiplicative() cabs.Expr {
	e := p.parseCast()
	for e != nil {
		var op cabs.BinaryOp
		switch p.curToken().Type {
		case lexer.TokenStar:
			op = cabs.OpMul
		case lexer.TokenSlash:
			op = cabs.OpDiv
		case lexer.TokenPercent:
			op = cabs.OpMod
		default:
			return e
		}
		pos := p.curPos()
		p.nextToken()
		r := p.parseCast()
		if r == nil {
			return e
		}
		e = &cabs.Binary{Pos: pos, Op: op, Left: e, Right: r}
	}
	return e
}

// parseCast parses (type-name)expr. A '(' followed by a type-name token is
// tried as a cast first; if the type name does not parse the cursor rolls
// back silently and the paren is handled as a primary expression. This
// function is on every recursive path through the expression grammar, so
// the depth counter is charged here.
func (p *Parser) parseCast() cabs.Expr {
	pos := p.curPos()
	if !p.enterNesting(pos) {
		p.leaveNesting()
		return nil
	}
	defer p.leaveNesting()

	if p.curTokenIs(lexer.TokenLParen) && p.isTypeNameToken(p.peekToken(1)) {
		m := p.save()
		p.nextToken()
		ty, ok := p.parseTypeName()
		if ok && p.curTokenIs(lexer.TokenRParen) {
			p.nextToken()
			// (T){...} is a compound literal, not a cast of a block.
			if p.curTokenIs(lexer.TokenLBrace) {
				init := p.parseInitializer()
				return &cabs.Cast{Pos: pos, Type: ty, Expr: init}
			}
			operand := p.parseCast()
			if operand == nil {
				return nil
			}
			return &cabs.Cast{Pos: pos, Type: ty, Expr: operand}
		}
		p.restore(m)
	}
	return p.parseUnary()
}

// parseUnary parses prefix operators, sizeof/_Alignof and the GNU forms
// that sit in unary position (&&label, __extension__ expr).
func (p *Parser) parseUnary() cabs.Expr {
	pos := p.curPos()
	switch p.curToken().Type {
	case lexer.TokenMinus:
		return p.unaryOperand(pos, cabs.OpNeg)
	case lexer.TokenPlus:
		return p.unaryOperand(pos, cabs.OpPlus)
	case lexer.TokenNot:
		return p.unaryOperand(pos, cabs.OpNot)
	case lexer.TokenTilde:
		return p.unaryOperand(pos, cabs.OpBitNot)
	case lexer.TokenStar:
		return p.unaryOperand(pos, cabs.OpDeref)
	case lexer.TokenAmpersand:
		return p.unaryOperand(pos, cabs.OpAddr)

	case lexer.TokenAnd:
		// && in unary position is the GNU label address &&label.
		p.nextToken()
		if !p.curTokenIs(lexer.TokenIdent) {
			p.addError(p.curPos(), diag.UnexpectedToken, "expected label name after &&, got %s", p.curToken().Type)
			return nil
		}
		label := p.curToken().Literal
		p.nextToken()
		return &cabs.LabelAddr{Pos: pos, Label: label}

	case lexer.TokenIncrement:
		p.nextToken()
		e := p.parseUnary()
		if e == nil {
			return nil
		}
		return &cabs.Unary{Pos: pos, Op: cabs.OpPreInc, Expr: e}
	case lexer.TokenDecrement:
		p.nextToken()
		e := p.parseUnary()
		if e == nil {
			return nil
		}
		return &cabs.Unary{Pos: pos, Op: cabs.OpPreDec, Expr: e}

	case lexer.TokenSizeof:
		p.nextToken()
		if ty, ok := p.tryParenTypeName(); ok {
			return &cabs.SizeofType{Pos: pos, Type: ty}
		}
		e := p.parseUnary()
		if e == nil {
			return nil
		}
		return &cabs.SizeofExpr{Pos: pos, Expr: e}

	case lexer.TokenAlignof:
		p.nextToken()
		if ty, ok := p.tryParenTypeName(); ok {
			return &cabs.AlignofType{Pos: pos, Type: ty}
		}
		e := p.parseUnary()
		if e == nil {
			return nil
		}
		return &cabs.AlignofExpr{Pos: pos, Expr: e}

	case lexer.TokenExtension:
		p.nextToken()
		e := p.parseCast()
		if e == nil {
			return nil
		}
		return &cabs.ExtensionExpr{Pos: pos, Expr: e}
	}
	return p.parsePostfix()
}

func (p *Parser) unaryOperand(pos diag.Pos, op cabs.UnaryOp) cabs.Expr {
	p.nextToken()
	e := p.parseCast()
	if e == nil {
		return nil
	}
	return &cabs.Unary{Pos: pos, Op: op, Expr: e}
}

// tryParenTypeName attempts to parse '(' type-name ')'; on failure the
// cursor is unchanged.
func (p *Parser) tryParenTypeName() (ctypes.Type, bool) {
	if !p.curTokenIs(lexer.TokenLParen) || !p.isTypeNameToken(p.peekToken(1)) {
		return nil, false
	}
	m := p.save()
	p.nextToken()
	ty, ok := p.parseTypeName()
	if ok && p.accept(lexer.TokenRParen) {
		return ty, true
	}
	p.restore(m)
	return nil, false
}

// parsePostfix parses calls, subscripts, member access and postfix ++/--.
func (p *Parser) parsePostfix() cabs.Expr {
	e := p.parsePrimary()
	for e != nil {
		pos := p.curPos()
		switch p.curToken().Type {
		case lexer.TokenLParen:
			p.nextToken()
			var args []cabs.Expr
			for !p.curTokenIs(lexer.TokenRParen) && !p.curTokenIs(lexer.TokenEOF) {
				a := p.parseAssign()
				if a == nil {
					p.syncParen()
					return e
				}
				args = append(args, a)
				if !p.accept(lexer.TokenComma) {
					break
				}
			}
			p.expect(lexer.TokenRParen)
			e = &cabs.Call{Pos: pos, Func: e, Args: args}
		case lexer.TokenLBracket:
			p.nextToken()
			idx := p.parseExpr()
			if idx == nil {
				return e
			}
			p.expect(lexer.TokenRBracket)
			e = &cabs.Index{Pos: pos, Array: e, Index: idx}
		case lexer.TokenDot, lexer.TokenArrow:
			arrow := p.curTokenIs(lexer.TokenArrow)
			p.nextToken()
			if !p.curTokenIs(lexer.TokenIdent) {
				p.addError(p.curPos(), diag.UnexpectedToken, "expected member name, got %s", p.curToken().Type)
				return e
			}
			name := p.curToken().Literal
			p.nextToken()
			e = &cabs.Member{Pos: pos, Expr: e, Name: name, Arrow: arrow}
		case lexer.TokenIncrement:
			p.nextToken()
			e = &cabs.Postfix{Pos: pos, Op: cabs.OpPostInc, Expr: e}
		case lexer.TokenDecrement:
			p.nextToken()
			e = &cabs.Postfix{Pos: pos, Op: cabs.OpPostDec, Expr: e}
		default:
			return e
		}
	}
	return e
}

// parsePrimary parses literals, identifiers, parenthesized expressions,
// GNU statement expressions and _Generic selections.
func (p *Parser) parsePrimary() cabs.Expr {
	tok := p.curToken()
	pos := tok.Pos()

	switch tok.Type {
	case lexer.TokenInt:
		p.nextToken()
		return &cabs.IntLit{Pos: pos, Value: tok.IntVal, Suffix: tok.Suffix, Text: tok.Literal}

	case lexer.TokenFloat:
		p.nextToken()
		return &cabs.FloatLit{Pos: pos, Value: tok.FloatVal, Suffix: tok.Suffix, Text: tok.Literal}

	case lexer.TokenCharConst:
		p.nextToken()
		return &cabs.CharLit{Pos: pos, Value: tok.IntVal, Text: tok.Literal}

	case lexer.TokenString:
		// Adjacent string literals concatenate into one literal.
		value := tok.StrVal
		text := tok.Literal
		p.nextToken()
		for p.curTokenIs(lexer.TokenString) {
			value += p.curToken().StrVal
			text += " " + p.curToken().Literal
			p.nextToken()
		}
		return &cabs.StringLit{Pos: pos, Value: value, Text: text}

	case lexer.TokenIdent:
		p.nextToken()
		return &cabs.Variable{Pos: pos, Name: tok.Literal}

	case lexer.TokenGeneric:
		return p.parseGenericSelection()

	case lexer.TokenLParen:
		// ({ ... }) is a GNU statement expression.
		if p.peekTokenIs(1, lexer.TokenLBrace) {
			p.nextToken()
			block := p.parseBlock()
			p.expect(lexer.TokenRParen)
			return &cabs.StmtExpr{Pos: pos, Block: block}
		}
		p.nextToken()
		e := p.parseExpr()
		if e == nil {
			return nil
		}
		p.expect(lexer.TokenRParen)
		return &cabs.Paren{Pos: pos, Expr: e}
	}

	p.addError(pos, diag.UnexpectedToken, "expected expression, got %s", tok.Type)
	return nil
}

// parseGenericSelection parses a C11 _Generic expression. At most one
// default association is allowed.
func (p *Parser) parseGenericSelection() cabs.Expr {
	pos := p.curPos()
	p.nextToken() // _Generic
	if !p.expect(lexer.TokenLParen) {
		return nil
	}
	control := p.parseAssign()
	if control == nil {
		p.syncParen()
		return nil
	}

	var assocs []cabs.GenericAssoc
	haveDefault := false
	for p.accept(lexer.TokenComma) {
		var assoc cabs.GenericAssoc
		if p.curTokenIs(lexer.TokenDefault) {
			if haveDefault {
				p.addError(p.curPos(), diag.DuplicateGenericDefault, "duplicate default association in _Generic")
			}
			haveDefault = true
			p.nextToken()
		} else {
			ty, ok := p.parseTypeName()
			if !ok {
				p.syncParen()
				return nil
			}
			assoc.Type = ty
		}
		if !p.expect(lexer.TokenColon) {
			p.syncParen()
			return nil
		}
		expr := p.parseAssign()
		if expr == nil {
			p.syncParen()
			return nil
		}
		assoc.Expr = expr
		assocs = append(assocs, assoc)
	}
	p.expect(lexer.TokenRParen)
	return &cabs.GenericSelection{Pos: pos, Control: control, Assocs: assocs}
}
