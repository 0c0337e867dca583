package parser

import (
	"github.com/gengjiawen/c-parser/pkg/cabs"
	"github.com/gengjiawen/c-parser/pkg/ctypes"
	"github.com/gengjiawen/c-parser/pkg/diag"
	"github.com/gengjiawen/c-parser/pkg/lexer"
)

// declMode selects which declarator forms are acceptable.
type declMode int

const (
	declNamed    declMode = iota // declaration: identifier required
	declAbstract                 // type name: identifier forbidden
	declParam                    // parameter: identifier optional
)

// parseDeclarator parses one declarator against the given base type and
// returns the declared name (empty for abstract declarators), the full type
// and the position of the name.
//
// Nested declarators are handled in two passes: the inner declarator is
// parsed once with a placeholder base just to locate its end, the suffixes
// after the closing paren are applied to the base, and then the inner
// declarator is re-parsed with the suffixed type. This is what makes
// int (*fn_arr[4])(void) come out as array 4 of pointer to function.
func (p *Parser) parseDeclarator(base ctypes.Type, mode declMode) (string, ctypes.Type, diag.Pos, bool) {
	if !p.enterNesting(p.curPos()) {
		p.leaveNesting()
		return "", base, p.curPos(), false
	}
	defer p.leaveNesting()

	for p.accept(lexer.TokenStar) {
		q := p.parseQualifierList()
		base = ctypes.Tpointer{Elem: base, Qual: q}
	}

	// Attributes between the pointer and the name apply to the declaration;
	// they are held pending until the enclosing declaration collects them.
	p.pendingAttrs = append(p.pendingAttrs, p.parseAttributes()...)

	if p.curTokenIs(lexer.TokenLParen) && p.isGroupingParen(mode) {
		return p.parseNestedDeclarator(base, mode)
	}

	name := ""
	namePos := p.curPos()
	if p.curTokenIs(lexer.TokenIdent) && mode != declAbstract {
		name = p.curToken().Literal
		p.nextToken()
	} else if mode == declNamed {
		p.addError(namePos, diag.MalformedDeclarator, "expected identifier in declarator, got %s", p.curToken().Type)
		return "", base, namePos, false
	}

	ty, ok := p.typeSuffix(base)
	return name, ty, namePos, ok
}

// isGroupingParen decides whether a '(' after the pointer part opens a
// nested declarator or a parameter list. A following '*' or '(' can only be
// a nested declarator; an identifier is a nested declarator unless it is a
// typedef name (or the declarator is abstract, where no name can appear).
func (p *Parser) isGroupingParen(mode declMode) bool {
	next := p.peekToken(1)
	switch next.Type {
	case lexer.TokenStar, lexer.TokenLParen:
		return true
	case lexer.TokenIdent:
		return mode != declAbstract && !p.isTypedefName(next)
	}
	return false
}

func (p *Parser) parseNestedDeclarator(base ctypes.Type, mode declMode) (string, ctypes.Type, diag.Pos, bool) {
	p.nextToken() // consume '('
	inner := p.save()

	// First pass with a throwaway base, just to find the closing paren.
	// Its diagnostics are discarded and re-recorded by the real pass, except
	// the missing-paren case, which the second pass never reaches.
	p.parseDeclarator(ctypes.Tbase{Name: "int"}, mode)
	closeTok := p.curToken()
	closed := p.accept(lexer.TokenRParen)
	p.errs = p.errs[:inner.errs]
	p.pendingAttrs = p.pendingAttrs[:inner.attrs]
	if !closed {
		p.addError(closeTok.Pos(), diag.MalformedDeclarator, "expected ) to close the declarator, got %s", closeTok.Type)
	}

	ty, ok := p.typeSuffix(base)
	end := p.pos

	p.pos = inner.pos
	name, ty, namePos, ok2 := p.parseDeclarator(ty, mode)
	p.pos = end
	return name, ty, namePos, ok && ok2 && closed
}

// typeSuffix applies array and function suffixes. Suffixes nest outward:
// x[2][3] is array 2 of array 3 of the element type.
func (p *Parser) typeSuffix(ty ctypes.Type) (ctypes.Type, bool) {
	switch {
	case p.curTokenIs(lexer.TokenLParen):
		pos := p.curPos()
		p.nextToken()
		params, variadic, ok := p.parseParamList()
		if !ok {
			return ty, false
		}
		ret, ok := p.typeSuffix(ty)
		switch ctypes.Resolve(ret).(type) {
		case ctypes.Tfunction:
			p.addError(pos, diag.MalformedDeclarator, "function returning a function")
		case ctypes.Tarray:
			p.addError(pos, diag.MalformedDeclarator, "function returning an array")
		}
		return ctypes.Tfunction{Return: ret, Params: params, Variadic: variadic}, ok

	case p.curTokenIs(lexer.TokenLBracket):
		pos := p.curPos()
		p.nextToken()
		// Array parameter qualifiers (int a[static 4]) are accepted and
		// dropped; they carry no weight in the AST.
		for {
			switch p.curToken().Type {
			case lexer.TokenStatic, lexer.TokenConst, lexer.TokenVolatile,
				lexer.TokenRestrict, lexer.TokenAtomic:
				p.nextToken()
				continue
			}
			break
		}
		var size cabs.Expr
		if !p.curTokenIs(lexer.TokenRBracket) {
			size = p.parseAssign()
		}
		if !p.expect(lexer.TokenRBracket) {
			return ty, false
		}
		elem, ok := p.typeSuffix(ty)
		if _, isFn := ctypes.Resolve(elem).(ctypes.Tfunction); isFn {
			p.addError(pos, diag.MalformedDeclarator, "array of functions")
		}
		return ctypes.Tarray{Elem: elem, Size: size}, ok
	}
	return ty, true
}

// parseParamList parses a parameter type list after its opening paren.
func (p *Parser) parseParamList() ([]ctypes.Param, bool, bool) {
	if p.accept(lexer.TokenRParen) {
		return nil, false, true
	}
	if p.curTokenIs(lexer.TokenVoid) && p.peekTokenIs(1, lexer.TokenRParen) {
		p.nextToken()
		p.nextToken()
		return nil, false, true
	}

	var params []ctypes.Param
	variadic := false
	for {
		if p.accept(lexer.TokenEllipsis) {
			variadic = true
			break
		}
		ds, ok := p.parseDeclSpec(false)
		if !ok {
			p.syncParen()
			return params, variadic, false
		}
		attrMark := len(p.pendingAttrs)
		name, ty, _, ok := p.parseDeclarator(ds.base, declParam)
		// Parameters carry no attributes in the type model.
		p.pendingAttrs = p.pendingAttrs[:attrMark]
		if !ok {
			p.syncParen()
			return params, variadic, false
		}
		p.parseAttributes()
		params = append(params, ctypes.Param{Name: name, Type: ty})
		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	ok := p.expect(lexer.TokenRParen)
	return params, variadic, ok
}

// parseQualifierList consumes type qualifiers after a '*'.
func (p *Parser) parseQualifierList() ctypes.Qualifiers {
	var q ctypes.Qualifiers
	for {
		switch p.curToken().Type {
		case lexer.TokenConst:
			q.Const = true
		case lexer.TokenVolatile:
			q.Volatile = true
		case lexer.TokenRestrict:
			q.Restrict = true
		case lexer.TokenAtomic:
			q.Atomic = true
		default:
			return q
		}
		p.nextToken()
	}
}

// syncParen skips to just past the closing paren of the current nesting
// level, or stops at a statement boundary.
func (p *Parser) syncParen() {
	depth := 1
	for !p.curTokenIs(lexer.TokenEOF) {
		switch p.curToken().Type {
		case lexer.TokenLParen:
			depth++
		case lexer.TokenRParen:
			depth--
			if depth == 0 {
				p.nextToken()
				return
			}
		case lexer.TokenSemicolon, lexer.TokenLBrace, lexer.TokenRBrace:
			return
		}
		p.nextToken()
	}
}
