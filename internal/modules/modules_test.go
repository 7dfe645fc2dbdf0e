package modules

import (
	"path/filepath"
	"testing"

	"github.com/lazuli-lang/lazuli/internal/evaluator"
)

func call(t *testing.T, mod *evaluator.Module, name string, args ...evaluator.Object) evaluator.Object {
	t.Helper()
	member, ok := mod.Members[name]
	if !ok {
		t.Fatalf("module %s has no member %q", mod.Name, name)
	}
	fn, ok := member.(*evaluator.Builtin)
	if !ok {
		t.Fatalf("member %s is %T, not a builtin", name, member)
	}
	result, err := fn.Fn(args)
	if err != nil {
		t.Fatalf("%s failed: %s", fn.Name, err)
	}
	return result
}

func callErr(t *testing.T, mod *evaluator.Module, name string, args ...evaluator.Object) error {
	t.Helper()
	fn := mod.Members[name].(*evaluator.Builtin)
	_, err := fn.Fn(args)
	if err == nil {
		t.Fatalf("%s did not fail", fn.Name)
	}
	return err
}

func num(v float64) *evaluator.Number  { return &evaluator.Number{Value: v} }
func str(s string) *evaluator.String   { return &evaluator.String{Value: s} }
func list(els ...evaluator.Object) *evaluator.List {
	return &evaluator.List{Elements: els}
}

func TestRegistryContents(t *testing.T) {
	reg := Registry()
	for _, name := range []string{"List", "Map", "Str", "Json", "Yaml", "Uuid", "Sql"} {
		if _, ok := reg[name]; !ok {
			t.Errorf("registry missing %s", name)
		}
	}
}

func TestListModule(t *testing.T) {
	mod := ListModule()

	result := call(t, mod, "length", list(num(1), num(2)))
	if result.(*evaluator.Number).Value != 2 {
		t.Errorf("length = %s", result.Inspect())
	}

	result = call(t, mod, "get", list(num(1), num(2)), num(1))
	if result.(*evaluator.Number).Value != 2 {
		t.Errorf("get = %s", result.Inspect())
	}
	callErr(t, mod, "get", list(num(1)), num(5))

	result = call(t, mod, "concat", list(num(1)), list(num(2)))
	if len(result.(*evaluator.List).Elements) != 2 {
		t.Errorf("concat = %s", result.Inspect())
	}

	result = call(t, mod, "reverse", list(num(1), num(2), num(3)))
	if result.(*evaluator.List).Elements[0].(*evaluator.Number).Value != 3 {
		t.Errorf("reverse = %s", result.Inspect())
	}

	result = call(t, mod, "range", num(1), num(4))
	els := result.(*evaluator.List).Elements
	if len(els) != 3 || els[2].(*evaluator.Number).Value != 3 {
		t.Errorf("range = %s", result.Inspect())
	}
}

func TestMapModule(t *testing.T) {
	mod := MapModule()
	rec := &evaluator.Record{Fields: map[string]evaluator.Object{
		"b": num(2),
		"a": num(1),
	}}

	keys := call(t, mod, "keys", rec).(*evaluator.List)
	if len(keys.Elements) != 2 || keys.Elements[0].(*evaluator.String).Value != "a" {
		t.Errorf("keys = %s", keys.Inspect())
	}

	values := call(t, mod, "values", rec).(*evaluator.List)
	if values.Elements[0].(*evaluator.Number).Value != 1 {
		t.Errorf("values = %s", values.Inspect())
	}

	if v := call(t, mod, "get", rec, str("b")); v.(*evaluator.Number).Value != 2 {
		t.Errorf("get = %s", v.Inspect())
	}
	callErr(t, mod, "get", rec, str("missing"))

	if v := call(t, mod, "has", rec, str("a")); !v.(*evaluator.Boolean).Value {
		t.Errorf("has(a) = false")
	}
}

func TestStrModule(t *testing.T) {
	mod := StrModule()

	if v := call(t, mod, "length", str("abc")); v.(*evaluator.Number).Value != 3 {
		t.Errorf("length = %s", v.Inspect())
	}
	if v := call(t, mod, "concat", str("a"), str("b")); v.(*evaluator.String).Value != "ab" {
		t.Errorf("concat = %s", v.Inspect())
	}

	parts := call(t, mod, "split", str("a,b,c"), str(",")).(*evaluator.List)
	if len(parts.Elements) != 3 {
		t.Errorf("split = %s", parts.Inspect())
	}

	joined := call(t, mod, "join", list(str("a"), str("b")), str("-"))
	if joined.(*evaluator.String).Value != "a-b" {
		t.Errorf("join = %s", joined.Inspect())
	}
}

func TestJsonRoundTrip(t *testing.T) {
	mod := JsonModule()
	rec := &evaluator.Record{Fields: map[string]evaluator.Object{
		"name":  str("x"),
		"count": num(2),
		"tags":  list(str("a"), str("b")),
	}}

	encoded := call(t, mod, "encode", rec).(*evaluator.String)
	decoded := call(t, mod, "decode", encoded).(*evaluator.Record)

	if !evaluator.ObjectsEqual(decoded.Fields["name"], rec.Fields["name"]) {
		t.Errorf("name did not survive the round trip")
	}
	if !evaluator.ObjectsEqual(decoded.Fields["count"], rec.Fields["count"]) {
		t.Errorf("count did not survive the round trip")
	}
	if !evaluator.ObjectsEqual(decoded.Fields["tags"], rec.Fields["tags"]) {
		t.Errorf("tags did not survive the round trip")
	}

	callErr(t, mod, "decode", str("{broken"))
	callErr(t, mod, "decode", str("null"))
}

func TestYamlDecode(t *testing.T) {
	mod := YamlModule()
	decoded := call(t, mod, "decode", str("name: x\nitems:\n  - 1\n  - 2")).(*evaluator.Record)
	if decoded.Fields["name"].(*evaluator.String).Value != "x" {
		t.Errorf("name = %s", decoded.Fields["name"].Inspect())
	}
	items := decoded.Fields["items"].(*evaluator.List)
	if len(items.Elements) != 2 || items.Elements[1].(*evaluator.Number).Value != 2 {
		t.Errorf("items = %s", items.Inspect())
	}

	encoded := call(t, mod, "encode", num(42)).(*evaluator.String)
	if encoded.Value != "42" {
		t.Errorf("encode = %q", encoded.Value)
	}
}

func TestUuidModule(t *testing.T) {
	mod := UuidModule()
	id := call(t, mod, "v4").(*evaluator.String)
	if len(id.Value) != 36 {
		t.Errorf("v4 length = %d, want 36", len(id.Value))
	}
	if v := call(t, mod, "validate", id); !v.(*evaluator.Boolean).Value {
		t.Errorf("generated uuid did not validate")
	}
	if v := call(t, mod, "validate", str("not-a-uuid")); v.(*evaluator.Boolean).Value {
		t.Errorf("junk validated as a uuid")
	}
}

func TestSqlModule(t *testing.T) {
	mod := SqlModule()
	db := str(filepath.Join(t.TempDir(), "test.db"))

	call(t, mod, "exec", db, str("CREATE TABLE users (id INTEGER, name TEXT)"))
	affected := call(t, mod, "exec", db, str(`INSERT INTO users VALUES (1, 'ada'), (2, 'grace')`))
	if affected.(*evaluator.Number).Value != 2 {
		t.Errorf("affected = %s", affected.Inspect())
	}

	rows := call(t, mod, "query", db, str("SELECT id, name FROM users ORDER BY id")).(*evaluator.List)
	if len(rows.Elements) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows.Elements))
	}
	first := rows.Elements[0].(*evaluator.Record)
	if first.Fields["id"].(*evaluator.Number).Value != 1 {
		t.Errorf("id = %s", first.Fields["id"].Inspect())
	}
	if first.Fields["name"].(*evaluator.String).Value != "ada" {
		t.Errorf("name = %s", first.Fields["name"].Inspect())
	}

	callErr(t, mod, "query", db, str("SELECT nope FROM missing"))
}

func TestConvertRejectsOpaqueObjects(t *testing.T) {
	if _, err := fromObject(&evaluator.Builtin{Name: "f"}); err == nil {
		t.Errorf("a callable converted to data")
	}
}
