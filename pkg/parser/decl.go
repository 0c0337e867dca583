package parser

import (
	"github.com/gengjiawen/c-parser/pkg/cabs"
	"github.com/gengjiawen/c-parser/pkg/ctypes"
	"github.com/gengjiawen/c-parser/pkg/diag"
	"github.com/gengjiawen/c-parser/pkg/lexer"
)

// declSpec accumulates declaration specifiers: storage class, qualifiers,
// function specifiers, attributes and the base type.
type declSpec struct {
	pos         diag.Pos
	storage     cabs.StorageClass
	threadLocal bool
	inline      bool
	noreturn    bool
	extension   bool
	qual        ctypes.Qualifiers
	restrictPos diag.Pos
	base        ctypes.Type
	attrs       []cabs.Attribute
}

// Base-type specifier counter, chibicc style: each keyword adds a distinct
// bit range so valid multi-keyword combinations (unsigned long long int)
// can be recognized with a single switch.
const (
	specVoid     = 1 << 0
	specBool     = 1 << 2
	specChar     = 1 << 4
	specShort    = 1 << 6
	specInt      = 1 << 8
	specLong     = 1 << 10
	specFloat    = 1 << 12
	specDouble   = 1 << 14
	specSigned   = 1 << 16
	specUnsigned = 1 << 18
)

var baseTypeNames = map[int]string{
	specVoid:                                      "void",
	specBool:                                      "_Bool",
	specChar:                                      "char",
	specSigned + specChar:                         "signed char",
	specUnsigned + specChar:                       "unsigned char",
	specShort:                                     "short",
	specShort + specInt:                           "short",
	specSigned + specShort:                        "short",
	specSigned + specShort + specInt:              "short",
	specUnsigned + specShort:                      "unsigned short",
	specUnsigned + specShort + specInt:            "unsigned short",
	specInt:                                       "int",
	specSigned:                                    "int",
	specSigned + specInt:                          "int",
	specUnsigned:                                  "unsigned int",
	specUnsigned + specInt:                        "unsigned int",
	specLong:                                      "long",
	specLong + specInt:                            "long",
	specSigned + specLong:                         "long",
	specSigned + specLong + specInt:               "long",
	specUnsigned + specLong:                       "unsigned long",
	specUnsigned + specLong + specInt:             "unsigned long",
	2*specLong:                                    "long long",
	2*specLong + specInt:                          "long long",
	specSigned + 2*specLong:                       "long long",
	specSigned + 2*specLong + specInt:             "long long",
	specUnsigned + 2*specLong:                     "unsigned long long",
	specUnsigned + 2*specLong + specInt:           "unsigned long long",
	specFloat:                                     "float",
	specDouble:                                    "double",
	specLong + specDouble:                         "long double",
}

// isTypeNameToken reports whether the token can begin a type name. Typedef
// names are looked up in the current scope, which is how the evolving
// typedef namespace feeds back into token classification.
func (p *Parser) isTypeNameToken(tok lexer.Token) bool {
	switch tok.Type {
	case lexer.TokenVoid, lexer.TokenChar, lexer.TokenShort, lexer.TokenInt_,
		lexer.TokenLong, lexer.TokenFloat_, lexer.TokenDouble,
		lexer.TokenSigned, lexer.TokenUnsigned, lexer.TokenBool,
		lexer.TokenStruct, lexer.TokenUnion, lexer.TokenEnum,
		lexer.TokenConst, lexer.TokenVolatile, lexer.TokenRestrict,
		lexer.TokenAtomic, lexer.TokenTypeof:
		return true
	case lexer.TokenIdent:
		return p.isTypedefName(tok)
	}
	return false
}

func (p *Parser) isDeclSpecToken(tok lexer.Token) bool {
	switch tok.Type {
	case lexer.TokenTypedef, lexer.TokenStatic, lexer.TokenExtern,
		lexer.TokenAuto, lexer.TokenRegister, lexer.TokenThreadLocal,
		lexer.TokenInline, lexer.TokenNoreturn, lexer.TokenAttribute:
		return true
	}
	return p.isTypeNameToken(tok)
}

// isDeclarationStart reports whether the current token begins a declaration
// rather than an expression statement.
func (p *Parser) isDeclarationStart() bool {
	tok := p.curToken()
	if tok.Type == lexer.TokenExtension {
		return p.isDeclSpecToken(p.peekToken(1))
	}
	return p.isDeclSpecToken(tok)
}

// parseDeclSpec parses declaration specifiers up to the first declarator.
func (p *Parser) parseDeclSpec(allowStorage bool) (*declSpec, bool) {
	ds := &declSpec{pos: p.curPos()}
	counter := 0

loop:
	for {
		tok := p.curToken()
		switch tok.Type {
		case lexer.TokenTypedef, lexer.TokenStatic, lexer.TokenExtern,
			lexer.TokenAuto, lexer.TokenRegister:
			if !allowStorage {
				p.addError(tok.Pos(), diag.UnexpectedToken, "storage class %q not allowed here", tok.Literal)
			} else if ds.storage != cabs.SCNone {
				p.addError(tok.Pos(), diag.UnexpectedToken, "multiple storage classes in declaration")
			} else {
				ds.storage = storageClassOf(tok.Type)
			}
			p.nextToken()
		case lexer.TokenThreadLocal:
			if !allowStorage {
				p.addError(tok.Pos(), diag.UnexpectedToken, "_Thread_local not allowed here")
			}
			ds.threadLocal = true
			p.nextToken()
		case lexer.TokenInline:
			ds.inline = true
			p.nextToken()
		case lexer.TokenNoreturn:
			ds.noreturn = true
			p.nextToken()
		case lexer.TokenExtension:
			ds.extension = true
			p.nextToken()
		case lexer.TokenConst:
			ds.qual.Const = true
			p.nextToken()
		case lexer.TokenVolatile:
			ds.qual.Volatile = true
			p.nextToken()
		case lexer.TokenRestrict:
			ds.qual.Restrict = true
			ds.restrictPos = tok.Pos()
			p.nextToken()
		case lexer.TokenAtomic:
			// _Atomic(T) is the type-specifier form; bare _Atomic is a
			// qualifier.
			if p.peekTokenIs(1, lexer.TokenLParen) {
				ty, ok := p.parseAtomicSpec()
				if !ok {
					return ds, false
				}
				p.setBase(ds, &counter, ty, tok.Pos())
			} else {
				ds.qual.Atomic = true
				p.nextToken()
			}
		case lexer.TokenAttribute:
			ds.attrs = append(ds.attrs, p.parseAttributes()...)
		case lexer.TokenStruct:
			ty, ok := p.parseStructOrUnion(false, ds)
			if !ok {
				return ds, false
			}
			p.setBase(ds, &counter, ty, tok.Pos())
		case lexer.TokenUnion:
			ty, ok := p.parseStructOrUnion(true, ds)
			if !ok {
				return ds, false
			}
			p.setBase(ds, &counter, ty, tok.Pos())
		case lexer.TokenEnum:
			ty, ok := p.parseEnumSpec()
			if !ok {
				return ds, false
			}
			p.setBase(ds, &counter, ty, tok.Pos())
		case lexer.TokenTypeof:
			ty, ok := p.parseTypeofSpec()
			if !ok {
				return ds, false
			}
			p.setBase(ds, &counter, ty, tok.Pos())
		case lexer.TokenVoid:
			counter += specVoid
			p.nextToken()
		case lexer.TokenBool:
			counter += specBool
			p.nextToken()
		case lexer.TokenChar:
			counter += specChar
			p.nextToken()
		case lexer.TokenShort:
			counter += specShort
			p.nextToken()
		case lexer.TokenInt_:
			counter += specInt
			p.nextToken()
		case lexer.TokenLong:
			counter += specLong
			p.nextToken()
		case lexer.TokenFloat_:
			counter += specFloat
			p.nextToken()
		case lexer.TokenDouble:
			counter += specDouble
			p.nextToken()
		case lexer.TokenSigned:
			counter += specSigned
			p.nextToken()
		case lexer.TokenUnsigned:
			counter += specUnsigned
			p.nextToken()
		case lexer.TokenIdent:
			if ds.base == nil && counter == 0 && p.isTypedefName(tok) {
				underlying, _ := p.lookupTypedef(tok.Literal)
				p.setBase(ds, &counter, ctypes.Tnamed{Name: tok.Literal, Underlying: underlying}, tok.Pos())
				p.nextToken()
				break
			}
			break loop
		default:
			break loop
		}
	}

	if ds.base == nil {
		if counter == 0 {
			tok := p.curToken()
			if tok.Type == lexer.TokenIdent {
				p.addError(tok.Pos(), diag.UnknownTypeName, "unknown type name %q", tok.Literal)
			} else {
				p.addError(tok.Pos(), diag.UnexpectedToken, "expected type specifier, got %s", tok.Type)
			}
			return ds, false
		}
		name, ok := baseTypeNames[counter]
		if !ok {
			p.addError(ds.pos, diag.UnexpectedToken, "invalid combination of type specifiers")
			name = "int"
		}
		ds.base = ctypes.Tbase{Name: name}
	} else if counter != 0 {
		p.addError(ds.pos, diag.UnexpectedToken, "invalid combination of type specifiers")
	}

	ds.base = applyQualifiers(ds.base, ds.qual)

	// restrict binds to pointers only; at the specifier level that means a
	// typedef resolving to a pointer type.
	if ds.qual.Restrict {
		if _, ok := ctypes.Resolve(ds.base).(ctypes.Tpointer); !ok {
			p.addError(ds.restrictPos, diag.InvalidQualifierPlacement, "restrict requires a pointer type")
		}
	}

	return ds, true
}

func storageClassOf(t lexer.TokenType) cabs.StorageClass {
	switch t {
	case lexer.TokenTypedef:
		return cabs.SCTypedef
	case lexer.TokenStatic:
		return cabs.SCStatic
	case lexer.TokenExtern:
		return cabs.SCExtern
	case lexer.TokenAuto:
		return cabs.SCAuto
	case lexer.TokenRegister:
		return cabs.SCRegister
	}
	return cabs.SCNone
}

func (p *Parser) setBase(ds *declSpec, counter *int, ty ctypes.Type, pos diag.Pos) {
	if ds.base != nil || *counter != 0 {
		p.addError(pos, diag.UnexpectedToken, "two or more type specifiers in declaration")
		return
	}
	ds.base = ty
}

func applyQualifiers(t ctypes.Type, q ctypes.Qualifiers) ctypes.Type {
	if !q.Any() {
		return t
	}
	switch tt := t.(type) {
	case ctypes.Tbase:
		tt.Qual = mergeQual(tt.Qual, q)
		return tt
	case ctypes.Tnamed:
		tt.Qual = mergeQual(tt.Qual, q)
		return tt
	case ctypes.Tpointer:
		tt.Qual = mergeQual(tt.Qual, q)
		return tt
	case ctypes.Tstruct:
		tt.Qual = mergeQual(tt.Qual, q)
		return tt
	case ctypes.Tunion:
		tt.Qual = mergeQual(tt.Qual, q)
		return tt
	case ctypes.Tenum:
		tt.Qual = mergeQual(tt.Qual, q)
		return tt
	case ctypes.Tatomic:
		tt.Qual = mergeQual(tt.Qual, q)
		return tt
	case ctypes.Ttypeof:
		tt.Qual = mergeQual(tt.Qual, q)
		return tt
	}
	return t
}

func mergeQual(a, b ctypes.Qualifiers) ctypes.Qualifiers {
	return ctypes.Qualifiers{
		Const:    a.Const || b.Const,
		Volatile: a.Volatile || b.Volatile,
		Restrict: a.Restrict || b.Restrict,
		Atomic:   a.Atomic || b.Atomic,
	}
}

// parseAtomicSpec parses the C11 _Atomic(type-name) specifier.
func (p *Parser) parseAtomicSpec() (ctypes.Type, bool) {
	p.nextToken() // _Atomic
	if !p.expect(lexer.TokenLParen) {
		return nil, false
	}
	ty, ok := p.parseTypeName()
	if !ok {
		return nil, false
	}
	if !p.expect(lexer.TokenRParen) {
		return nil, false
	}
	return ctypes.Tatomic{Elem: ty}, true
}

// parseTypeName parses a type name: specifier-qualifier list plus an
// abstract declarator. Used for casts, sizeof, _Generic and _Atomic(T).
func (p *Parser) parseTypeName() (ctypes.Type, bool) {
	ds, ok := p.parseDeclSpec(false)
	if !ok {
		return nil, false
	}
	attrMark := len(p.pendingAttrs)
	_, ty, _, ok := p.parseDeclarator(ds.base, declAbstract)
	p.pendingAttrs = p.pendingAttrs[:attrMark]
	return ty, ok
}

// ---- struct/union/enum ----

func (p *Parser) parseStructOrUnion(isUnion bool, ds *declSpec) (ctypes.Type, bool) {
	p.nextToken() // struct or union
	kw := "struct"
	if isUnion {
		kw = "union"
	}

	// Attributes may sit between the keyword and the tag:
	// struct __attribute__((packed)) packed_struct { ... }
	ds.attrs = append(ds.attrs, p.parseAttributes()...)

	tag := ""
	if p.curTokenIs(lexer.TokenIdent) {
		tag = p.curToken().Literal
		p.nextToken()
	}

	if !p.curTokenIs(lexer.TokenLBrace) {
		if tag == "" {
			p.addError(p.curPos(), diag.UnexpectedToken, "expected %s tag or member list, got %s", kw, p.curToken().Type)
			return nil, false
		}
		if ty, ok := p.lookupTag(tag); ok {
			if matchesTagKind(ty, isUnion) {
				return ty, true
			}
		}
		return incompleteTag(tag, isUnion), true
	}

	p.nextToken() // consume '{'
	if tag != "" {
		// Register the incomplete tag first so members can refer to the
		// type being defined (struct entry *next).
		p.declareTag(tag, incompleteTag(tag, isUnion))
	}

	fields := p.parseStructMembers()
	p.expect(lexer.TokenRBrace)

	var ty ctypes.Type
	if isUnion {
		ty = ctypes.Tunion{Tag: tag, Fields: fields}
	} else {
		ty = ctypes.Tstruct{Tag: tag, Fields: fields}
	}
	if tag != "" {
		p.declareTag(tag, ty)
	}
	return ty, true
}

func matchesTagKind(t ctypes.Type, isUnion bool) bool {
	if isUnion {
		_, ok := t.(ctypes.Tunion)
		return ok
	}
	_, ok := t.(ctypes.Tstruct)
	return ok
}

func incompleteTag(tag string, isUnion bool) ctypes.Type {
	if isUnion {
		return ctypes.Tunion{Tag: tag, Incomplete: true}
	}
	return ctypes.Tstruct{Tag: tag, Incomplete: true}
}

func (p *Parser) parseStructMembers() []ctypes.Field {
	var fields []ctypes.Field
	seen := make(map[string]bool)

	for !p.curTokenIs(lexer.TokenRBrace) && !p.curTokenIs(lexer.TokenEOF) {
		mds, ok := p.parseDeclSpec(false)
		if !ok {
			p.syncDecl()
			continue
		}

		// Anonymous struct/union member: struct { ... };
		if p.curTokenIs(lexer.TokenSemicolon) {
			p.nextToken()
			fields = append(fields, ctypes.Field{Name: "", Type: mds.base})
			continue
		}

		for {
			var name string
			var ty ctypes.Type
			var namePos diag.Pos

			attrMark := len(p.pendingAttrs)
			if p.curTokenIs(lexer.TokenColon) {
				// Anonymous bitfield: unsigned : 4;
				ty = mds.base
				namePos = p.curPos()
			} else {
				name, ty, namePos, ok = p.parseDeclarator(mds.base, declNamed)
				if !ok {
					p.pendingAttrs = p.pendingAttrs[:attrMark]
					p.syncDecl()
					break
				}
			}

			if p.curTokenIs(lexer.TokenColon) {
				widthPos := p.curPos()
				p.nextToken()
				width := p.parseConditional()
				if width == nil {
					p.addError(widthPos, diag.InvalidBitfieldWidth, "expected constant expression for bitfield width")
				} else {
					ty = ctypes.Tbitfield{Base: ty, Width: width}
				}
			}
			attrs := p.takeAttrs(attrMark)
			attrs = append(attrs, p.parseAttributes()...)

			if name != "" {
				if seen[name] {
					p.addError(namePos, diag.DuplicateMember, "duplicate member %q", name)
				}
				seen[name] = true
			}
			fields = append(fields, ctypes.Field{Name: name, Type: ty, Attrs: attrs})

			if !p.accept(lexer.TokenComma) {
				break
			}
		}
		p.expect(lexer.TokenSemicolon)
	}
	return fields
}

func (p *Parser) parseEnumSpec() (ctypes.Type, bool) {
	p.nextToken() // enum
	tag := ""
	if p.curTokenIs(lexer.TokenIdent) {
		tag = p.curToken().Literal
		p.nextToken()
	}

	if !p.curTokenIs(lexer.TokenLBrace) {
		if tag == "" {
			p.addError(p.curPos(), diag.UnexpectedToken, "expected enum tag or enumerator list, got %s", p.curToken().Type)
			return nil, false
		}
		if ty, ok := p.lookupTag(tag); ok {
			if _, isEnum := ty.(ctypes.Tenum); isEnum {
				return ty, true
			}
		}
		return ctypes.Tenum{Tag: tag, Incomplete: true}, true
	}

	p.nextToken() // consume '{'
	var values []ctypes.EnumValue
	next := int64(0)
	known := true

	for !p.curTokenIs(lexer.TokenRBrace) && !p.curTokenIs(lexer.TokenEOF) {
		if !p.curTokenIs(lexer.TokenIdent) {
			p.addError(p.curPos(), diag.UnexpectedToken, "expected enumerator name, got %s", p.curToken().Type)
			p.syncDecl()
			break
		}
		ev := ctypes.EnumValue{Name: p.curToken().Literal}
		p.nextToken()

		if p.accept(lexer.TokenAssign) {
			e := p.parseConditional()
			ev.Expr = e
			if v, ok := p.evalConst(e); ok {
				ev.Value = v
				ev.Known = true
				next = v + 1
				known = true
			} else {
				known = false
			}
		} else {
			// Continuation arithmetic: previous value + 1.
			ev.Value = next
			ev.Known = known
			next++
		}
		values = append(values, ev)

		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	p.expect(lexer.TokenRBrace)

	ty := ctypes.Tenum{Tag: tag, Values: values}
	if tag != "" {
		p.declareTag(tag, ty)
	}
	return ty, true
}

// ---- declarations ----

// parseExternalDecl parses one file-scope declaration group.
func (p *Parser) parseExternalDecl() []cabs.ExternalDecl {
	if p.curTokenIs(lexer.TokenStaticAssert) {
		if sa := p.parseStaticAssert(); sa != nil {
			return []cabs.ExternalDecl{sa}
		}
		return nil
	}
	if p.accept(lexer.TokenSemicolon) {
		return nil
	}
	decls := p.parseDeclGroup(true)
	out := make([]cabs.ExternalDecl, 0, len(decls))
	for _, d := range decls {
		out = append(out, d)
	}
	return out
}

// parseDeclGroup parses one declaration with its comma-separated declarator
// list; each declarator becomes its own Decl. At file scope a '{' after a
// function declarator starts a function definition.
func (p *Parser) parseDeclGroup(fileScope bool) []*cabs.Decl {
	extension := false
	for p.curTokenIs(lexer.TokenExtension) {
		extension = true
		p.nextToken()
	}

	ds, ok := p.parseDeclSpec(true)
	if !ok {
		p.syncDecl()
		return nil
	}
	ds.extension = ds.extension || extension

	// Tag-only declaration: struct point { ... };
	if p.accept(lexer.TokenSemicolon) {
		return []*cabs.Decl{{
			Pos:       ds.pos,
			Storage:   ds.storage,
			Extension: ds.extension,
			Type:      ds.base,
			Attrs:     ds.attrs,
		}}
	}

	var decls []*cabs.Decl
	first := true
	for {
		attrMark := len(p.pendingAttrs)
		name, ty, namePos, ok := p.parseDeclarator(ds.base, declNamed)
		if !ok {
			p.pendingAttrs = p.pendingAttrs[:attrMark]
			p.syncDecl()
			return decls
		}
		pos := namePos
		if name == "" {
			pos = ds.pos
		}
		attrs := append([]cabs.Attribute{}, ds.attrs...)
		attrs = append(attrs, p.takeAttrs(attrMark)...)
		attrs = append(attrs, p.parseAttributes()...)

		d := &cabs.Decl{
			Pos:         pos,
			Storage:     ds.storage,
			ThreadLocal: ds.threadLocal,
			Inline:      ds.inline,
			Noreturn:    ds.noreturn,
			Extension:   ds.extension,
			Name:        name,
			Type:        ty,
			Attrs:       attrs,
		}

		if name != "" {
			if ds.storage == cabs.SCTypedef {
				p.declareTypedef(name, ty)
			} else {
				// An object or function declaration hides a typedef of the
				// same name in enclosing scopes.
				p.declareTypedef(name, nil)
			}
		}

		if first && fileScope && p.curTokenIs(lexer.TokenLBrace) {
			if _, isFn := ctypes.Resolve(ty).(ctypes.Tfunction); isFn {
				d.Body = p.parseFunctionBody(ty)
				p.resolveLabels(d)
				return append(decls, d)
			}
		}

		if p.accept(lexer.TokenAssign) {
			d.Init = p.parseInitializer()
		}
		decls = append(decls, d)
		first = false

		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	p.expect(lexer.TokenSemicolon)
	return decls
}

// parseBlockDecls parses a block-scope declaration group into statements.
func (p *Parser) parseBlockDecls() []cabs.Stmt {
	group := p.parseDeclGroup(false)
	stmts := make([]cabs.Stmt, 0, len(group))
	for _, d := range group {
		stmts = append(stmts, &cabs.DeclStmt{Decl: d})
	}
	return stmts
}

func (p *Parser) parseStaticAssert() *cabs.StaticAssert {
	pos := p.curPos()
	p.nextToken() // _Static_assert
	if !p.expect(lexer.TokenLParen) {
		p.syncDecl()
		return nil
	}
	cond := p.parseConditional()
	if cond == nil {
		p.syncDecl()
		return nil
	}
	if !p.expect(lexer.TokenComma) {
		p.syncDecl()
		return nil
	}
	msg := ""
	if p.curTokenIs(lexer.TokenString) {
		msg = p.curToken().StrVal
		p.nextToken()
	} else {
		p.expect(lexer.TokenString)
	}
	p.expect(lexer.TokenRParen)
	p.expect(lexer.TokenSemicolon)
	return &cabs.StaticAssert{Pos: pos, Cond: cond, Message: msg}
}

// parseInitializer parses an initializer: an assignment expression or a
// brace-enclosed (possibly nested) initializer list.
func (p *Parser) parseInitializer() cabs.Expr {
	if !p.curTokenIs(lexer.TokenLBrace) {
		return p.parseAssign()
	}
	pos := p.curPos()
	p.nextToken() // consume '{'
	var items []cabs.Expr
	for !p.curTokenIs(lexer.TokenRBrace) && !p.curTokenIs(lexer.TokenEOF) {
		item := p.parseInitializer()
		if item == nil {
			p.syncDecl()
			break
		}
		items = append(items, item)
		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	p.expect(lexer.TokenRBrace)
	return &cabs.InitList{Pos: pos, Items: items}
}

// ---- constant folding for enum continuation ----

// evalConst folds the constant expressions that decide enumerator values.
// Anything it cannot fold is left unevaluated (Known=false on the
// enumerator); no other constant expression in the grammar is evaluated.
func (p *Parser) evalConst(e cabs.Expr) (int64, bool) {
	switch v := e.(type) {
	case *cabs.IntLit:
		return int64(v.Value), true
	case *cabs.CharLit:
		return int64(v.Value), true
	case *cabs.Paren:
		return p.evalConst(v.Expr)
	case *cabs.Unary:
		x, ok := p.evalConst(v.Expr)
		if !ok {
			return 0, false
		}
		switch v.Op {
		case cabs.OpNeg:
			return -x, true
		case cabs.OpPlus:
			return x, true
		case cabs.OpBitNot:
			return ^x, true
		case cabs.OpNot:
			return boolToInt(x == 0), true
		}
		return 0, false
	case *cabs.Conditional:
		c, ok := p.evalConst(v.Cond)
		if !ok {
			return 0, false
		}
		if c != 0 {
			return p.evalConst(v.Then)
		}
		return p.evalConst(v.Else)
	case *cabs.Binary:
		l, ok := p.evalConst(v.Left)
		if !ok {
			return 0, false
		}
		r, ok := p.evalConst(v.Right)
		if !ok {
			return 0, false
		}
		switch v.Op {
		case cabs.OpAdd:
			return l + r, true
		case cabs.OpSub:
			return l - r, true
		case cabs.OpMul:
			return l * r, true
		case cabs.OpDiv:
			if r == 0 {
				return 0, false
			}
			return l / r, true
		case cabs.OpMod:
			if r == 0 {
				return 0, false
			}
			return l % r, true
		case cabs.OpShl:
			return l << uint(r), true
		case cabs.OpShr:
			return l >> uint(r), true
		case cabs.OpBitAnd:
			return l & r, true
		case cabs.OpBitOr:
			return l | r, true
		case cabs.OpBitXor:
			return l ^ r, true
		case cabs.OpEq:
			return boolToInt(l == r), true
		case cabs.OpNe:
			return boolToInt(l != r), true
		case cabs.OpLt:
			return boolToInt(l < r), true
		case cabs.OpLe:
			return boolToInt(l <= r), true
		case cabs.OpGt:
			return boolToInt(l > r), true
		case cabs.OpGe:
			return boolToInt(l >= r), true
		case cabs.OpAnd:
			return boolToInt(l != 0 && r != 0), true
		case cabs.OpOr:
			return boolToInt(l != 0 || r != 0), true
		}
		return 0, false
	}
	return 0, false
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
