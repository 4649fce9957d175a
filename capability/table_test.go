package capability

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/wippyai/stubgen/decl"
	"github.com/wippyai/stubgen/errors"
)

func builtinTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	return tbl
}

func identities(sigs []decl.Signature) []string {
	out := make([]string, len(sigs))
	for i, s := range sigs {
		out[i] = string(s.Identity())
	}
	slices.Sort(out)
	return out
}

func TestBuiltin_Extras(t *testing.T) {
	tbl := builtinTable(t)

	tests := []struct {
		source string
		target string
		family string
		extras []string
	}{
		{
			source: "Iterator",
			target: "MutableIterator",
			family: "iterator",
			extras: []string{"remove()"},
		},
		{
			source: "ListIterator",
			target: "MutableListIterator",
			family: "iterator",
			extras: []string{"add(T)", "remove()", "set(T)"},
		},
		{
			source: "Iterable",
			target: "MutableIterable",
			family: "collection",
			extras: []string{},
		},
		{
			source: "Collection",
			target: "MutableCollection",
			family: "collection",
			extras: []string{"add(E)", "addAll(Collection<out E>)", "clear()", "remove(Any?)", "removeAll(Collection<*>)", "retainAll(Collection<*>)"},
		},
		{
			source: "List",
			target: "MutableList",
			family: "collection",
			extras: []string{
				"add(E)", "add(Int, E)", "addAll(Collection<out E>)", "addAll(Int, Collection<out E>)",
				"clear()", "remove(Any?)", "remove(Int)", "removeAll(Collection<*>)",
				"retainAll(Collection<*>)", "set(Int, E)",
			},
		},
		{
			source: "Map",
			target: "MutableMap",
			family: "map",
			extras: []string{"clear()", "put(K, V)", "putAll(Map<out K, V>)", "remove(Any?)"},
		},
		{
			source: "Map.Entry",
			target: "MutableMap.MutableEntry",
			family: "map",
			extras: []string{"setValue(V)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			e, err := tbl.Lookup(tt.source)
			if err != nil {
				t.Fatalf("Lookup: %v", err)
			}
			if e.Target != tt.target || e.Family != tt.family {
				t.Errorf("entry = %s/%s, want %s/%s", e.Target, e.Family, tt.target, tt.family)
			}
			got := identities(e.Extras)
			want := slices.Clone(tt.extras)
			slices.Sort(want)
			if !slices.Equal(got, want) {
				t.Errorf("extras = %v, want %v", got, want)
			}
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	tbl := builtinTable(t)

	_, err := tbl.Lookup("Sequence")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.IsUnknownContract(err) {
		t.Errorf("err = %v, want unknown_contract", err)
	}
	if _, err := tbl.Lookup("MutableList"); !errors.IsUnknownContract(err) {
		t.Error("targets are not sources")
	}
}

func TestLookup_ReturnsCopies(t *testing.T) {
	tbl := builtinTable(t)

	e, _ := tbl.Lookup("List")
	e.Extras[0].Name = "mutated"
	e.Extras = nil

	again, _ := tbl.Lookup("List")
	for _, s := range again.Extras {
		if s.Name == "mutated" {
			t.Fatal("table entry mutated through a lookup result")
		}
	}
}

func TestFamily(t *testing.T) {
	tbl := builtinTable(t)
	for contract, want := range map[string]string{
		"List":            "collection",
		"MutableList":     "collection",
		"MutableIterator": "iterator",
		"Map.Entry":       "map",
	} {
		got, ok := tbl.Family(contract)
		if !ok || got != want {
			t.Errorf("Family(%s) = %q, %v; want %q", contract, got, ok, want)
		}
	}
	if _, ok := tbl.Family("Comparable"); ok {
		t.Error("unmapped contract should have no family")
	}
}

func TestPolicy(t *testing.T) {
	tbl, err := Parse([]byte(`
builtins: true
families:
  sink:
    default: no-op
    members:
      indexOf: negative-constant
      self: self-return
      echo: identity-return
      drain: raise-unsupported
  bare:
    members:
      x: no-op
`), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	tests := []struct {
		family, member string
		want           Policy
	}{
		{"sink", "indexOf", NegativeConstant},
		{"sink", "self", SelfReturn},
		{"sink", "echo", IdentityReturn},
		{"sink", "drain", RaiseUnsupported},
		{"sink", "other", NoOp},
		{"bare", "x", NoOp},
		{"bare", "y", RaiseUnsupported},
		{"collection", "add", RaiseUnsupported},
		{"", "anything", RaiseUnsupported},
		{"missing", "add", RaiseUnsupported},
	}
	for _, tt := range tests {
		if got := tbl.Policy(tt.family, tt.member); got != tt.want {
			t.Errorf("Policy(%q, %q) = %s, want %s", tt.family, tt.member, got, tt.want)
		}
	}

	if _, err := tbl.Lookup("List"); err != nil {
		t.Errorf("builtins not merged: %v", err)
	}
}

func TestBuild_CustomContracts(t *testing.T) {
	syms := decl.NewUniverse()
	err := syms.Load([]byte(`
contracts:
  - name: Source
    params: [T]
    members: ["next(): T"]
  - name: Sink
    params: [X]
    supertypes: ["Source<X>"]
    members: ["put(x: X)", "<T> drain(into: Array<out T>): Int"]
`))
	if err != nil {
		t.Fatal(err)
	}

	tbl, err := Build(Config{
		Families: map[string]FamilySpec{"pipe": {Default: "no-op"}},
		Entries:  []EntrySpec{{Source: "Source", Target: "Sink", Family: "pipe"}},
	}, syms)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	e, err := tbl.Lookup("Source")
	if err != nil {
		t.Fatal(err)
	}
	got := identities(e.Extras)
	want := []string{"drain(Array<out #0>)", "put(T)"}
	if !slices.Equal(got, want) {
		t.Errorf("extras = %v, want %v", got, want)
	}
	// The member-level T of drain must not be captured by Source's T.
	for _, s := range e.Extras {
		if s.Name == "drain" && s.TypeParams[0] == "T" {
			t.Errorf("drain kept colliding type parameter: %s", s)
		}
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		kind errors.Kind
	}{
		{"unknown source", "entries:\n  - {source: Nope, target: Nope2}\n", errors.KindNotFound},
		{"unknown family", "builtins: true\nentries:\n  - {source: Set, target: MutableSet, family: nope}\n", errors.KindNotFound},
		{"bad policy", "families:\n  f: {default: explode}\n", errors.KindInvalidInput},
		{"arity", "contracts:\n  - {name: A, params: [T]}\n  - {name: B}\nentries:\n  - {source: A, target: B}\n", errors.KindInvalidInput},
		{"duplicate", "builtins: true\nentries:\n  - {source: Set, target: MutableSet}\n  - {source: Set, target: MutableSet}\n", errors.KindInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, &errors.Error{Phase: errors.PhaseConfig, Kind: tt.kind}) {
				t.Errorf("err = %v, want config/%s", err, tt.kind)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")
	if err := os.WriteFile(path, []byte("builtins: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tbl, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tbl.Sources()) != 8 {
		t.Errorf("Sources() = %v", tbl.Sources())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestInstall(t *testing.T) {
	tbl := builtinTable(t)
	u := decl.NewUniverse()
	if err := tbl.Install(u); err != nil {
		t.Fatalf("Install: %v", err)
	}
	if _, ok := u.Contract("MutableMap.MutableEntry"); !ok {
		t.Error("contract not installed")
	}
	if len(u.Contracts()) != len(tbl.Contracts()) {
		t.Errorf("installed %d of %d contracts", len(u.Contracts()), len(tbl.Contracts()))
	}
}
