package ctypes

import "testing"

// constSize is a test stand-in for the AST-owned constant expressions used
// as array sizes and bitfield widths.
type constSize string

func (c constSize) String() string { return string(c) }

func TestDeclare(t *testing.T) {
	intTy := Int()
	voidTy := Void()

	tests := []struct {
		name     string
		ty       Type
		declared string
		expected string
	}{
		{
			name:     "plain int",
			ty:       intTy,
			declared: "x",
			expected: "int x",
		},
		{
			name:     "pointer",
			ty:       Pointer(intTy),
			declared: "p",
			expected: "int *p",
		},
		{
			name:     "pointer to pointer",
			ty:       Pointer(Pointer(Tbase{Name: "char"})),
			declared: "argv",
			expected: "char **argv",
		},
		{
			name:     "const base",
			ty:       Tbase{Name: "int", Qual: Qualifiers{Const: true}},
			declared: "x",
			expected: "const int x",
		},
		{
			name:     "pointer to const",
			ty:       Pointer(Tbase{Name: "char", Qual: Qualifiers{Const: true}}),
			declared: "s",
			expected: "const char *s",
		},
		{
			name:     "const pointer",
			ty:       Tpointer{Elem: intTy, Qual: Qualifiers{Const: true}},
			declared: "p",
			expected: "int *const p",
		},
		{
			name:     "array",
			ty:       Array(intTy, constSize("4")),
			declared: "a",
			expected: "int a[4]",
		},
		{
			name:     "incomplete array",
			ty:       Array(intTy, nil),
			declared: "a",
			expected: "int a[]",
		},
		{
			name:     "matrix",
			ty:       Array(Array(Tbase{Name: "double"}, constSize("3")), constSize("2")),
			declared: "m",
			expected: "double m[2][3]",
		},
		{
			name:     "function of void",
			ty:       Function(intTy, nil, false),
			declared: "f",
			expected: "int f(void)",
		},
		{
			name: "function with params",
			ty: Function(intTy, []Param{
				{Name: "a", Type: intTy},
				{Name: "b", Type: Pointer(Tbase{Name: "char"})},
			}, false),
			declared: "f",
			expected: "int f(int a, char *b)",
		},
		{
			name: "variadic function",
			ty: Function(intTy, []Param{
				{Name: "fmt", Type: Pointer(Tbase{Name: "char", Qual: Qualifiers{Const: true}})},
			}, true),
			declared: "printf",
			expected: "int printf(const char *fmt, ...)",
		},
		{
			name:     "function pointer",
			ty:       Pointer(Function(voidTy, []Param{{Type: intTy}}, false)),
			declared: "handler",
			expected: "void (*handler)(int)",
		},
		{
			name:     "array of function pointers",
			ty:       Array(Pointer(Function(intTy, nil, false)), constSize("4")),
			declared: "fn_arr",
			expected: "int (*fn_arr[4])(void)",
		},
		{
			name:     "pointer to array",
			ty:       Pointer(Array(intTy, constSize("8"))),
			declared: "pa",
			expected: "int (*pa)[8]",
		},
		{
			name:     "struct tag",
			ty:       Tstruct{Tag: "point", Incomplete: true},
			declared: "p",
			expected: "struct point p",
		},
		{
			name:     "anonymous struct",
			ty:       Tstruct{},
			declared: "p",
			expected: "struct <anonymous> p",
		},
		{
			name:     "enum tag",
			ty:       Tenum{Tag: "color", Incomplete: true},
			declared: "c",
			expected: "enum color c",
		},
		{
			name:     "bitfield",
			ty:       Tbitfield{Base: Tbase{Name: "unsigned int"}, Width: constSize("3")},
			declared: "flags",
			expected: "unsigned int flags : 3",
		},
		{
			name:     "atomic specifier",
			ty:       Tatomic{Elem: intTy},
			declared: "counter",
			expected: "_Atomic(int) counter",
		},
		{
			name:     "typeof type",
			ty:       Ttypeof{Type: Pointer(intTy)},
			declared: "q",
			expected: "typeof(int *) q",
		},
		{
			name:     "typedef reference",
			ty:       Tnamed{Name: "size_t", Underlying: Tbase{Name: "unsigned long"}},
			declared: "n",
			expected: "size_t n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Declare(tt.ty, tt.declared)
			if got != tt.expected {
				t.Errorf("Declare: expected %q, got %q", tt.expected, got)
			}
		})
	}
}

// The full signal declarator: a function returning a pointer to a function.
func TestDeclareSignal(t *testing.T) {
	voidTy := Void()
	intTy := Int()
	handler := Pointer(Function(voidTy, []Param{{Type: intTy}}, false))
	signal := Function(handler, []Param{
		{Name: "sig", Type: intTy},
		{Name: "func", Type: handler},
	}, false)

	expected := "void (*signal(int sig, void (*func)(int)))(int)"
	if got := Declare(signal, "signal"); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestResolve(t *testing.T) {
	base := Tbase{Name: "int"}
	alias := Tnamed{Name: "myint", Underlying: base}
	alias2 := Tnamed{Name: "myint2", Underlying: alias}

	if got := Resolve(alias2); !Equal(got, base) {
		t.Errorf("Resolve: expected int, got %v", got)
	}
	// An unresolved reference resolves to itself.
	dangling := Tnamed{Name: "opaque"}
	if got := Resolve(dangling); !Equal(got, dangling) {
		t.Errorf("Resolve: expected opaque reference, got %v", got)
	}
}

func TestEqual(t *testing.T) {
	intTy := Int()

	tests := []struct {
		name     string
		a, b     Type
		expected bool
	}{
		{"same base", Int(), Int(), true},
		{"different base", Int(), Void(), false},
		{"qualifier mismatch", Tbase{Name: "int", Qual: Qualifiers{Const: true}}, Int(), false},
		{"pointer", Pointer(intTy), Pointer(intTy), true},
		{"pointer vs base", Pointer(intTy), intTy, false},
		{"array same size", Array(intTy, constSize("4")), Array(intTy, constSize("4")), true},
		{"array size mismatch", Array(intTy, constSize("4")), Array(intTy, constSize("8")), false},
		{"function", Function(intTy, []Param{{Type: intTy}}, false), Function(intTy, []Param{{Type: intTy}}, false), true},
		{"variadic mismatch", Function(intTy, nil, true), Function(intTy, nil, false), false},
		{
			"param names ignored",
			Function(intTy, []Param{{Name: "a", Type: intTy}}, false),
			Function(intTy, []Param{{Name: "b", Type: intTy}}, false),
			true,
		},
		{
			"struct fields",
			Tstruct{Tag: "p", Fields: []Field{{Name: "x", Type: intTy}}},
			Tstruct{Tag: "p", Fields: []Field{{Name: "x", Type: intTy}}},
			true,
		},
		{
			"struct field mismatch",
			Tstruct{Tag: "p", Fields: []Field{{Name: "x", Type: intTy}}},
			Tstruct{Tag: "p", Fields: []Field{{Name: "y", Type: intTy}}},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.expected {
				t.Errorf("Equal: expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestQualifiersString(t *testing.T) {
	q := Qualifiers{Const: true, Volatile: true}
	if got := q.String(); got != "const volatile" {
		t.Errorf("expected %q, got %q", "const volatile", got)
	}
	if (Qualifiers{}).Any() {
		t.Error("empty qualifier set should report Any() == false")
	}
}
