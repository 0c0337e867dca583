package cabs

import (
	"encoding/json"
	"testing"

	"github.com/gengjiawen/c-parser/pkg/ctypes"
)

func unmarshalProgram(t *testing.T, prog *Program) map[string]interface{} {
	t.Helper()
	data, err := MarshalProgram(prog)
	if err != nil {
		t.Fatalf("MarshalProgram failed: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, data)
	}
	return out
}

func TestMarshalProgram(t *testing.T) {
	intTy := ctypes.Tbase{Name: "int"}
	prog := &Program{Decls: []ExternalDecl{
		&Decl{
			Pos:  pos(1, 5),
			Name: "x",
			Type: intTy,
			Init: &Binary{
				Pos:   pos(1, 11),
				Op:    OpAdd,
				Left:  &IntLit{Pos: pos(1, 9), Value: 1, Text: "1"},
				Right: &IntLit{Pos: pos(1, 13), Value: 2, Text: "2"},
			},
		},
	}}

	out := unmarshalProgram(t, prog)
	if out["kind"] != "Program" {
		t.Fatalf("root kind expected Program, got %v", out["kind"])
	}
	decls := out["decls"].([]interface{})
	if len(decls) != 1 {
		t.Fatalf("expected 1 declaration, got %d", len(decls))
	}

	d := decls[0].(map[string]interface{})
	if d["kind"] != "Decl" || d["name"] != "x" || d["type"] != "int" {
		t.Errorf("declaration fields wrong: %v", d)
	}
	if d["pos"] != "1:5" {
		t.Errorf("pos expected 1:5, got %v", d["pos"])
	}

	init := d["init"].(map[string]interface{})
	if init["kind"] != "Binary" || init["op"] != "+" {
		t.Errorf("initializer fields wrong: %v", init)
	}
	left := init["left"].(map[string]interface{})
	if left["kind"] != "IntLit" || left["text"] != "1" {
		t.Errorf("left operand wrong: %v", left)
	}
}

func TestMarshalFunction(t *testing.T) {
	intTy := ctypes.Tbase{Name: "int"}
	prog := &Program{Decls: []ExternalDecl{
		&Decl{
			Pos:  pos(1, 5),
			Name: "f",
			Type: ctypes.Function(intTy, []ctypes.Param{{Name: "a", Type: intTy}}, false),
			Body: &Block{Pos: pos(1, 14), Items: []Stmt{
				&Return{Pos: pos(2, 3), Expr: &Variable{Pos: pos(2, 10), Name: "a"}},
			}},
		},
	}}

	out := unmarshalProgram(t, prog)
	d := out["decls"].([]interface{})[0].(map[string]interface{})
	body := d["body"].(map[string]interface{})
	if body["kind"] != "Block" {
		t.Fatalf("body kind expected Block, got %v", body["kind"])
	}
	items := body["items"].([]interface{})
	ret := items[0].(map[string]interface{})
	if ret["kind"] != "Return" {
		t.Errorf("expected Return, got %v", ret["kind"])
	}
	if ret["expr"].(map[string]interface{})["name"] != "a" {
		t.Errorf("return operand wrong: %v", ret["expr"])
	}
}

// A prototype has no body; the field must serialize as null, not a
// zero-valued object.
func TestMarshalPrototypeBodyNull(t *testing.T) {
	prog := &Program{Decls: []ExternalDecl{
		&Decl{
			Pos:  pos(1, 5),
			Name: "f",
			Type: ctypes.Function(ctypes.Tbase{Name: "int"}, nil, false),
		},
	}}
	out := unmarshalProgram(t, prog)
	d := out["decls"].([]interface{})[0].(map[string]interface{})
	if d["body"] != nil {
		t.Errorf("prototype body expected null, got %v", d["body"])
	}
	if d["init"] != nil {
		t.Errorf("prototype init expected null, got %v", d["init"])
	}
}

func TestMarshalDeterministic(t *testing.T) {
	prog := &Program{Decls: []ExternalDecl{
		&Decl{Pos: pos(1, 5), Name: "x", Type: ctypes.Tbase{Name: "int"}},
	}}
	a, err := MarshalProgram(prog)
	if err != nil {
		t.Fatal(err)
	}
	b, err := MarshalProgram(prog)
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Error("serialization is not deterministic")
	}
}
