// Canonical declarator printing. Declare reverses the inside-out declarator
// grammar: starting from the declared name, array and function suffixes are
// appended and pointer prefixes prepended, with parentheses inserted whenever
// a pointer binds tighter than an enclosing array or function wrapper. The
// printed form re-parses to an Equal type (round-trip stability).
package ctypes

import "strings"

// Declare renders the type as a C declaration of name. With an empty name
// it renders an abstract declarator (for casts and sizeof).
func Declare(t Type, name string) string {
	return declare(t, name)
}

func declare(t Type, inner string) string {
	switch tt := t.(type) {
	case Tpointer:
		s := "*"
		if tt.Qual.Any() {
			s += tt.Qual.String() + " "
		}
		s += inner
		switch Resolve(tt.Elem).(type) {
		case Tarray, Tfunction:
			s = "(" + s + ")"
		}
		return declare(tt.Elem, s)
	case Tarray:
		size := ""
		if tt.Size != nil {
			size = tt.Size.String()
		}
		return declare(tt.Elem, inner+"["+size+"]")
	case Tfunction:
		return declare(tt.Return, inner+"("+paramList(tt)+")")
	case Tbitfield:
		return declare(tt.Base, inner) + " : " + tt.Width.String()
	default:
		spec := specifier(t)
		if inner == "" {
			return spec
		}
		return spec + " " + inner
	}
}

func paramList(t Tfunction) string {
	if len(t.Params) == 0 && !t.Variadic {
		return "void"
	}
	parts := make([]string, 0, len(t.Params)+1)
	for _, p := range t.Params {
		parts = append(parts, Declare(p.Type, p.Name))
	}
	if t.Variadic {
		parts = append(parts, "...")
	}
	return strings.Join(parts, ", ")
}

func qualPrefix(q Qualifiers) string {
	if !q.Any() {
		return ""
	}
	return q.String() + " "
}

func specifier(t Type) string {
	switch tt := t.(type) {
	case Tbase:
		return qualPrefix(tt.Qual) + tt.Name
	case Tnamed:
		return qualPrefix(tt.Qual) + tt.Name
	case Tstruct:
		return qualPrefix(tt.Qual) + "struct " + tagOrAnon(tt.Tag)
	case Tunion:
		return qualPrefix(tt.Qual) + "union " + tagOrAnon(tt.Tag)
	case Tenum:
		return qualPrefix(tt.Qual) + "enum " + tagOrAnon(tt.Tag)
	case Tatomic:
		return qualPrefix(tt.Qual) + "_Atomic(" + tt.Elem.String() + ")"
	case Ttypeof:
		if tt.Type != nil {
			return qualPrefix(tt.Qual) + "typeof(" + tt.Type.String() + ")"
		}
		return qualPrefix(tt.Qual) + "typeof(" + tt.Expr.String() + ")"
	}
	return "?"
}

func tagOrAnon(tag string) string {
	if tag == "" {
		return "<anonymous>"
	}
	return tag
}

// String methods render abstract declarators.

func (t Tbase) String() string     { return Declare(t, "") }
func (t Tnamed) String() string    { return Declare(t, "") }
func (t Tpointer) String() string  { return Declare(t, "") }
func (t Tarray) String() string    { return Declare(t, "") }
func (t Tfunction) String() string { return Declare(t, "") }
func (t Tstruct) String() string   { return Declare(t, "") }
func (t Tunion) String() string    { return Declare(t, "") }
func (t Tenum) String() string     { return Declare(t, "") }
func (t Tbitfield) String() string { return Declare(t, "") }
func (t Tatomic) String() string   { return Declare(t, "") }
func (t Ttypeof) String() string   { return Declare(t, "") }
