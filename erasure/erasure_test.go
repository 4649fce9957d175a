package erasure

import (
	"testing"

	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/stubgen/decl"
	"github.com/wippyai/stubgen/errors"
	"github.com/wippyai/stubgen/synth"
)

func sig(t *testing.T, s string, scope ...string) decl.Signature {
	t.Helper()
	out, err := decl.ParseSignature(s, scope)
	if err != nil {
		t.Fatalf("ParseSignature(%q): %v", s, err)
	}
	return out
}

func TestErase(t *testing.T) {
	tests := []struct {
		sig  string
		jvm  string
		js   string
		wasm string
	}{
		{
			sig:  "get(index: Int): E",
			jvm:  "get(I)Ljava/lang/Object;",
			js:   "get_Int",
			wasm: "get_Int: (i32, i32) -> i32",
		},
		{
			sig:  "clear()",
			jvm:  "clear()V",
			js:   "clear",
			wasm: "clear: (i32)",
		},
		{
			sig:  "addAll(index: Int, c: MutableCollection<out E>): Boolean",
			jvm:  "addAll(ILjava/util/Collection;)Z",
			js:   "addAll_Int_Collection",
			wasm: "addAll_Int_Collection: (i32, i32, i32) -> i32",
		},
		{
			sig:  "<T> toArray(a: Array<out T>): Array<T>",
			jvm:  "toArray([Ljava/lang/Object;)[Ljava/lang/Object;",
			js:   "toArray_Array",
			wasm: "toArray_Array: (i32, i32) -> i32",
		},
		{
			sig:  "indexOf(x: Int?): Int",
			jvm:  "indexOf(Ljava/lang/Integer;)I",
			js:   "indexOf_Int",
			wasm: "indexOf_Int: (i32, i32) -> i32",
		},
		{
			sig:  "scale(by: Double, n: Long): Array<Int>",
			jvm:  "scale(DJ)[Ljava/lang/Integer;",
			js:   "scale_Double_Long",
			wasm: "scale_Double_Long: (i32, f64, i64) -> i32",
		},
		{
			sig:  "entry(e: Map.Entry<String, E>): my.pkg.Box",
			jvm:  "entry(Ljava/util/Map$Entry;)Lmy$pkg$Box;",
			js:   "entry_Entry",
			wasm: "entry_Entry: (i32, i32) -> i32",
		},
	}

	for _, tt := range tests {
		t.Run(tt.sig, func(t *testing.T) {
			s := sig(t, tt.sig, "E")
			for f, want := range map[Flavor]string{JVM: tt.jvm, JS: tt.js, Wasm: tt.wasm} {
				d, err := Erase(f, s)
				if err != nil {
					t.Fatalf("Erase(%s): %v", f, err)
				}
				if d.Text != want {
					t.Errorf("%s: Text = %q, want %q", f, d.Text, want)
				}
			}
		})
	}
}

func TestErase_UnknownFlavor(t *testing.T) {
	if _, err := Erase("clr", decl.Signature{Name: "f"}); err == nil {
		t.Error("expected error")
	}
	if _, err := ParseFlavor("clr"); err == nil {
		t.Error("expected error")
	}
	if f, err := ParseFlavor("wasm"); err != nil || f != Wasm {
		t.Errorf("ParseFlavor(wasm) = %v, %v", f, err)
	}
}

func TestWitType(t *testing.T) {
	tests := []struct {
		typ  decl.Type
		want wit.Type
	}{
		{decl.Named(decl.TypeInt), wit.S32{}},
		{decl.Named(decl.TypeLong), wit.S64{}},
		{decl.Named(decl.TypeBoolean), wit.Bool{}},
		{decl.Named(decl.TypeChar), wit.Char{}},
		{decl.Named(decl.TypeFloat), wit.F32{}},
		{decl.Named(decl.TypeDouble), wit.F64{}},
		{decl.Named(decl.TypeInt).OrNull(), wit.U32{}},
		{decl.Named(decl.TypeString), wit.U32{}},
		{decl.TypeParam("E"), wit.U32{}},
		{decl.Unit(), nil},
	}
	for _, tt := range tests {
		if got := WitType(tt.typ); got != tt.want {
			t.Errorf("WitType(%s) = %T, want %T", tt.typ, got, tt.want)
		}
	}

	if got := FlattenType(wit.String{}); len(got) != 2 {
		t.Errorf("FlattenType(string) = %v", got)
	}
	if got := FlattenType(nil); got != nil {
		t.Errorf("FlattenType(nil) = %v", got)
	}
}

func TestCoreSignature(t *testing.T) {
	params, results := CoreSignature(sig(t, "set(index: Int, e: E): E", "E"))
	want := []api.ValueType{api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32}
	if len(params) != len(want) {
		t.Fatalf("params = %v", params)
	}
	if len(results) != 1 || results[0] != api.ValueTypeI32 {
		t.Errorf("results = %v", results)
	}

	_, results = CoreSignature(sig(t, "clear()"))
	if results != nil {
		t.Errorf("Unit results = %v", results)
	}
}

func TestHygiene(t *testing.T) {
	s := sig(t, "<T> toArray(a: Array<out T>): Array<T>")
	got := Hygiene(s, []string{"T"})
	if got.String() != "<T1> toArray(a: Array<out T1>): Array<T1>" {
		t.Errorf("Hygiene = %q", got.String())
	}
	if got.Identity() != s.Identity() {
		t.Error("renaming must keep the identity")
	}

	same := Hygiene(s, []string{"E"})
	if same.String() != s.String() {
		t.Errorf("non-colliding parameter renamed: %q", same.String())
	}
}

func member(t *testing.T, s string, p synth.Provenance) synth.Member {
	t.Helper()
	sg := sig(t, s, "E")
	return synth.Member{Signature: sg, Identity: sg.Identity(), Provenance: p}
}

func TestApply_FoldsVarianceBridge(t *testing.T) {
	class := &decl.Class{Name: "MyList", TypeParams: []string{"E"}}
	user := member(t, "addAll(c: Collection<E>): Boolean", synth.User)
	bridge := member(t, "addAll(c: Collection<out E>): Boolean", synth.Bridge)
	bridge.Bridge = synth.VariancePassthrough
	bridge.Target = string(user.Identity)

	for _, f := range []Flavor{JVM, JS, Wasm} {
		out, folded, err := Apply(f, class, []synth.Member{bridge, user})
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if len(out) != 1 || len(folded) != 1 {
			t.Fatalf("%s: out = %d, folded = %d", f, len(out), len(folded))
		}
		if out[0].Provenance != synth.User || len(out[0].Aliases) != 1 || out[0].Aliases[0] != bridge.Identity {
			t.Errorf("%s: entry = %+v", f, out[0])
		}
	}
}

func TestApply_Clash(t *testing.T) {
	class := &decl.Class{Name: "C"}
	a := member(t, "f(l: List<String>)", synth.User)
	b := member(t, "f(l: List<Int>)", synth.Stub)

	_, _, err := Apply(JVM, class, []synth.Member{a, b})
	if err == nil {
		t.Fatal("expected clash")
	}
	var e *errors.Error
	if !errors.As(err, &e) || e.Kind != errors.KindErasureClash || e.Member != "f(Ljava/util/List;)" {
		t.Errorf("err = %v", err)
	}

	// A variance bridge whose erasure equals someone else's is a clash too.
	other := member(t, "g(l: List<String>)", synth.User)
	br := member(t, "g(l: List<out Int>)", synth.Bridge)
	br.Bridge = synth.VariancePassthrough
	br.Target = "g(List<Int>)"
	if _, _, err := Apply(JVM, class, []synth.Member{other, br}); err == nil {
		t.Error("expected clash for bridge with foreign target")
	}
}

func TestApply_OverloadsStayDistinct(t *testing.T) {
	members := []synth.Member{
		member(t, "remove(o: Any?): Boolean", synth.Stub),
		member(t, "remove(index: Int): E", synth.Stub),
		member(t, "toArray(): Array<Any?>", synth.User),
		member(t, "<T> toArray(a: Array<out T>): Array<T>", synth.Stub),
		member(t, "add(e: E): Boolean", synth.Stub),
		member(t, "add(index: Int, e: E)", synth.Stub),
	}
	for _, f := range []Flavor{JVM, JS, Wasm} {
		out, _, err := Apply(f, &decl.Class{Name: "L", TypeParams: []string{"E"}}, members)
		if err != nil {
			t.Errorf("%s: %v", f, err)
			continue
		}
		if len(out) != len(members) {
			t.Errorf("%s: %d entries, want %d", f, len(out), len(members))
		}
	}
}
