package erasure

import (
	"strings"

	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/stubgen/decl"
)

// CoreValType is a core wasm value type
type CoreValType = api.ValueType

// WitType maps a source type to the WIT type it is passed as. Non-null
// primitives keep their WIT primitive; everything else is an object
// handle carried as u32. Unit maps to nil.
func WitType(t decl.Type) wit.Type {
	if t.Kind != decl.KindNamed || t.Nullable {
		return wit.U32{}
	}
	switch t.Name {
	case decl.TypeUnit:
		return nil
	case decl.TypeInt:
		return wit.S32{}
	case decl.TypeLong:
		return wit.S64{}
	case decl.TypeShort:
		return wit.S16{}
	case decl.TypeByte:
		return wit.S8{}
	case decl.TypeChar:
		return wit.Char{}
	case decl.TypeBoolean:
		return wit.Bool{}
	case decl.TypeFloat:
		return wit.F32{}
	case decl.TypeDouble:
		return wit.F64{}
	}
	return wit.U32{}
}

// FlattenType flattens a WIT type to core wasm types
func FlattenType(t wit.Type) []CoreValType {
	if t == nil {
		return nil
	}

	switch t.(type) {
	case wit.Bool, wit.U8, wit.U16, wit.U32, wit.S8, wit.S16, wit.S32, wit.Char:
		return []CoreValType{api.ValueTypeI32}
	case wit.U64, wit.S64:
		return []CoreValType{api.ValueTypeI64}
	case wit.F32:
		return []CoreValType{api.ValueTypeF32}
	case wit.F64:
		return []CoreValType{api.ValueTypeF64}
	case wit.String:
		// pointer and length
		return []CoreValType{api.ValueTypeI32, api.ValueTypeI32}
	}
	return []CoreValType{api.ValueTypeI32}
}

// CoreSignature returns the core function type of a member. The receiver
// handle is the first parameter.
func CoreSignature(sig decl.Signature) (params, results []CoreValType) {
	params = []CoreValType{api.ValueTypeI32}
	for _, p := range sig.Params {
		params = append(params, FlattenType(WitType(p.Type))...)
	}
	if sig.Returns() {
		results = FlattenType(WitType(sig.Return))
	}
	return params, results
}

func wasmDescriptor(sig decl.Signature) Descriptor {
	params, results := CoreSignature(sig)

	var b strings.Builder
	name := mangle(sig)
	b.WriteString(name)
	b.WriteString(": (")
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(api.ValueTypeName(p))
	}
	b.WriteByte(')')
	if len(results) > 0 {
		b.WriteString(" -> ")
		b.WriteString(api.ValueTypeName(results[0]))
	}
	return Descriptor{Key: name, Text: b.String()}
}
