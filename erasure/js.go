package erasure

import (
	"strings"

	"github.com/wippyai/stubgen/decl"
)

// jsName erases a type to the simple name used in mangled member names.
// Nullability, type arguments and mutability do not survive.
func jsName(t decl.Type) string {
	switch t.Kind {
	case decl.KindParam, decl.KindStar:
		return decl.TypeAny
	}
	name := t.Name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	if strings.HasPrefix(name, "Mutable") && len(name) > len("Mutable") {
		name = strings.TrimPrefix(name, "Mutable")
	}
	return name
}

// mangle joins the member name with its erased parameter types.
func mangle(sig decl.Signature) string {
	var b strings.Builder
	b.WriteString(sig.Name)
	for _, p := range sig.Params {
		b.WriteByte('_')
		b.WriteString(jsName(p.Type))
	}
	return b.String()
}

func jsDescriptor(sig decl.Signature) Descriptor {
	m := mangle(sig)
	return Descriptor{Key: m, Text: m}
}
