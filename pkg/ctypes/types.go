// Package ctypes defines the C type model produced by declarator parsing.
package ctypes

import "strings"

// ConstExpr is an unevaluated constant expression owned by the AST layer
// (array sizes, bitfield widths). The type layer treats it as opaque and
// compares by its printed form.
type ConstExpr interface {
	String() string
}

// Type is the interface for all C types
type Type interface {
	implType()
	String() string
}

// Qualifiers is the set of type qualifiers attachable to a type node.
// _Atomic here is the qualifier form; the _Atomic(T) specifier form is
// the distinct Tatomic type.
type Qualifiers struct {
	Const    bool
	Volatile bool
	Restrict bool
	Atomic   bool
}

// Any reports whether any qualifier is set.
func (q Qualifiers) Any() bool {
	return q.Const || q.Volatile || q.Restrict || q.Atomic
}

func (q Qualifiers) String() string {
	var parts []string
	if q.Const {
		parts = append(parts, "const")
	}
	if q.Volatile {
		parts = append(parts, "volatile")
	}
	if q.Restrict {
		parts = append(parts, "restrict")
	}
	if q.Atomic {
		parts = append(parts, "_Atomic")
	}
	return strings.Join(parts, " ")
}

// Tbase is a built-in type named by its canonical specifier spelling
// ("int", "unsigned long long", "double", "_Bool", "void").
type Tbase struct {
	Name string
	Qual Qualifiers
}

// Tnamed is a typedef reference. Underlying is the resolved aliased type,
// captured when the reference is parsed; it never contains a typedef cycle
// because typedefs resolve at definition time.
type Tnamed struct {
	Name       string
	Underlying Type
	Qual       Qualifiers
}

// Tpointer represents pointer types
type Tpointer struct {
	Elem Type
	Qual Qualifiers // qualifiers on the pointer itself: int *const p
}

// Tarray represents array types. Size is nil for an incomplete array.
type Tarray struct {
	Elem Type
	Size ConstExpr
}

// Param is one function parameter.
type Param struct {
	Name string
	Type Type
}

// Tfunction represents function types
type Tfunction struct {
	Return   Type
	Params   []Param
	Variadic bool
}

// Attribute is one __attribute__ entry: a name plus raw argument lexemes,
// captured without interpretation.
type Attribute struct {
	Name string
	Args []string
}

func (a Attribute) String() string {
	if len(a.Args) == 0 {
		return a.Name
	}
	return a.Name + "(" + strings.Join(a.Args, " ") + ")"
}

// Field represents a struct or union member. Type is Tbitfield for
// bitfield members. Attrs carry no weight in Equal.
type Field struct {
	Name  string
	Type  Type
	Attrs []Attribute
}

// Tstruct represents struct types
type Tstruct struct {
	Tag        string
	Fields     []Field
	Incomplete bool // tag reference without a member list
	Qual       Qualifiers
}

// Tunion represents union types
type Tunion struct {
	Tag        string
	Fields     []Field
	Incomplete bool
	Qual       Qualifiers
}

// EnumValue is one enumerator. Value carries the continuation arithmetic
// result (previous + 1 when no explicit expression); Known is false when an
// explicit expression could not be folded.
type EnumValue struct {
	Name  string
	Expr  ConstExpr // nil when the value was implicit
	Value int64
	Known bool
}

// Tenum represents enum types
type Tenum struct {
	Tag        string
	Values     []EnumValue
	Incomplete bool
	Qual       Qualifiers
}

// Tbitfield wraps a member's base type with a constant-expression width.
type Tbitfield struct {
	Base  Type
	Width ConstExpr
}

// Tatomic is the C11 _Atomic(T) type-specifier form.
type Tatomic struct {
	Elem Type
	Qual Qualifiers
}

// Ttypeof is the GNU typeof(expr-or-type) specifier: exactly one of Expr
// and Type is set, both unevaluated.
type Ttypeof struct {
	Expr ConstExpr
	Type Type
	Qual Qualifiers
}

// Marker methods for Type interface
func (Tbase) implType()     {}
func (Tnamed) implType()    {}
func (Tpointer) implType()  {}
func (Tarray) implType()    {}
func (Tfunction) implType() {}
func (Tstruct) implType()   {}
func (Tunion) implType()    {}
func (Tenum) implType()     {}
func (Tbitfield) implType() {}
func (Tatomic) implType()   {}
func (Ttypeof) implType()   {}

// Resolve follows typedef references to the first non-typedef type.
func Resolve(t Type) Type {
	for {
		named, ok := t.(Tnamed)
		if !ok || named.Underlying == nil {
			return t
		}
		t = named.Underlying
	}
}

// Common type constructors

// Int returns the plain int type
func Int() Type {
	return Tbase{Name: "int"}
}

// Void returns the void type
func Void() Type {
	return Tbase{Name: "void"}
}

// Char returns the plain char type
func Char() Type {
	return Tbase{Name: "char"}
}

// Double returns the double type
func Double() Type {
	return Tbase{Name: "double"}
}

// Pointer returns a pointer to the given type
func Pointer(elem Type) Type {
	return Tpointer{Elem: elem}
}

// Array returns an array of the given element type
func Array(elem Type, size ConstExpr) Type {
	return Tarray{Elem: elem, Size: size}
}

// Function returns a function type
func Function(ret Type, params []Param, variadic bool) Type {
	return Tfunction{Return: ret, Params: params, Variadic: variadic}
}

func exprEqual(a, b ConstExpr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String()
}

// Equal checks if two types are structurally equal. Typedef references
// compare by name; array sizes and bitfield widths compare by printed form.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch ta := a.(type) {
	case Tbase:
		tb, ok := b.(Tbase)
		return ok && ta.Name == tb.Name && ta.Qual == tb.Qual
	case Tnamed:
		tb, ok := b.(Tnamed)
		return ok && ta.Name == tb.Name && ta.Qual == tb.Qual
	case Tpointer:
		tb, ok := b.(Tpointer)
		return ok && ta.Qual == tb.Qual && Equal(ta.Elem, tb.Elem)
	case Tarray:
		tb, ok := b.(Tarray)
		return ok && exprEqual(ta.Size, tb.Size) && Equal(ta.Elem, tb.Elem)
	case Tfunction:
		tb, ok := b.(Tfunction)
		if !ok || ta.Variadic != tb.Variadic || len(ta.Params) != len(tb.Params) {
			return false
		}
		if !Equal(ta.Return, tb.Return) {
			return false
		}
		for i, p := range ta.Params {
			if !Equal(p.Type, tb.Params[i].Type) {
				return false
			}
		}
		return true
	case Tstruct:
		tb, ok := b.(Tstruct)
		return ok && ta.Tag == tb.Tag && ta.Qual == tb.Qual && fieldsEqual(ta.Fields, tb.Fields)
	case Tunion:
		tb, ok := b.(Tunion)
		return ok && ta.Tag == tb.Tag && ta.Qual == tb.Qual && fieldsEqual(ta.Fields, tb.Fields)
	case Tenum:
		tb, ok := b.(Tenum)
		if !ok || ta.Tag != tb.Tag || ta.Qual != tb.Qual || len(ta.Values) != len(tb.Values) {
			return false
		}
		for i, v := range ta.Values {
			w := tb.Values[i]
			if v.Name != w.Name || v.Value != w.Value || v.Known != w.Known {
				return false
			}
		}
		return true
	case Tbitfield:
		tb, ok := b.(Tbitfield)
		return ok && exprEqual(ta.Width, tb.Width) && Equal(ta.Base, tb.Base)
	case Tatomic:
		tb, ok := b.(Tatomic)
		return ok && ta.Qual == tb.Qual && Equal(ta.Elem, tb.Elem)
	case Ttypeof:
		tb, ok := b.(Ttypeof)
		return ok && ta.Qual == tb.Qual && exprEqual(ta.Expr, tb.Expr) && Equal(ta.Type, tb.Type)
	}
	return false
}

func fieldsEqual(a, b []Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || !Equal(a[i].Type, b[i].Type) {
			return false
		}
	}
	return true
}
