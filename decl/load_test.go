package decl

import (
	"path/filepath"
	"testing"

	"github.com/wippyai/stubgen/errors"
)

func TestLoadFile_Lists(t *testing.T) {
	u, err := LoadFile(filepath.Join("..", "testdata", "lists.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	names := make([]string, 0)
	for _, c := range u.Classes() {
		names = append(names, c.Name)
	}
	if len(names) != 3 || names[0] != "MyList" || names[1] != "MyListFull" || names[2] != "MyIterator" {
		t.Fatalf("classes = %v", names)
	}

	full, ok := u.Class("MyListFull")
	if !ok {
		t.Fatal("MyListFull not found")
	}
	if len(full.Ctor) != 1 || full.Ctor[0].Type.Kind != KindParam {
		t.Errorf("ctor = %+v", full.Ctor)
	}
	m, ok := full.Member("remove(Int)")
	if !ok {
		t.Fatal("remove(Int) not declared")
	}
	if m.Body != BodyImplemented || m.Return.String() != "TT" {
		t.Errorf("remove(Int) = %+v", m)
	}
	if _, ok := full.Member("toArray(Array<out #0>)"); !ok {
		t.Error("generic toArray not declared")
	}
}

func TestLoadFile_Native(t *testing.T) {
	u, err := LoadFile(filepath.Join("..", "testdata", "native.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	a, _ := u.Class("A")
	if !a.Native {
		t.Fatal("A should be native")
	}
	for _, m := range a.Members {
		if m.Body != BodyNative {
			t.Errorf("%s body = %s, want native", m.Name, m.Body)
		}
	}

	b, _ := u.Class("B")
	if len(b.Supertypes) != 1 {
		t.Fatalf("supertypes = %+v", b.Supertypes)
	}
	st := b.Supertypes[0]
	if st.Type.Name != "A" || !Transforms(st.Call) {
		t.Errorf("supertype = %+v", st)
	}
	if got := EvalAll(st.Call, []int64{10}); got[0] != 5 {
		t.Errorf("EvalAll = %v, want [5]", got)
	}
}

func TestParse_MemberForms(t *testing.T) {
	u, err := Parse([]byte(`
contracts:
  - name: Source
    params: [T]
    members: ["next(): T"]
classes:
  - name: Impl
    params: [X]
    supertypes: ["Source<X> by inner"]
    members:
      - "peek(): X"
      - sig: "next(): X"
        body: absent
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	c, _ := u.Class("Impl")
	if c.Supertypes[0].Delegate != "inner" {
		t.Errorf("delegate = %q", c.Supertypes[0].Delegate)
	}
	if c.Members[0].Body != BodyImplemented || c.Members[1].Body != BodyAbsent {
		t.Errorf("bodies = %s, %s", c.Members[0].Body, c.Members[1].Body)
	}
	if _, ok := u.Contract("Source"); !ok {
		t.Error("contract not registered")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		kind errors.Kind
	}{
		{"bad yaml", "classes: [", errors.KindInvalidInput},
		{"bad signature", "classes:\n  - name: X\n    members: [\"f(\"]\n", errors.KindInvalidInput},
		{"bad body", "classes:\n  - name: X\n    members:\n      - sig: \"f()\"\n        body: maybe\n", errors.KindInvalidInput},
		{"duplicate", "contracts:\n  - name: X\nclasses:\n  - name: X\n", errors.KindInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			var e *errors.Error
			if !asError(err, &e) || e.Kind != tt.kind {
				t.Errorf("err = %v, want kind %s", err, tt.kind)
			}
		})
	}
}

func TestUniverse_Merge(t *testing.T) {
	base := NewUniverse()
	if err := base.AddContract(&Contract{Name: "List"}); err != nil {
		t.Fatal(err)
	}

	other := NewUniverse()
	_ = other.AddContract(&Contract{Name: "List", TypeParams: []string{"E"}})
	_ = other.AddClass(&Class{Name: "MyList"})

	if err := base.Merge(other); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if c, _ := base.Contract("List"); len(c.TypeParams) != 0 {
		t.Error("existing contract should be kept")
	}
	if _, ok := base.Class("MyList"); !ok {
		t.Error("class not merged")
	}
	if err := base.Merge(other); err == nil {
		t.Error("merging a class twice should fail")
	}
}
