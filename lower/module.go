package lower

import (
	"slices"

	"github.com/tetratelabs/wazero/api"
)

// funcType is a core function type.
type funcType struct {
	params  []api.ValueType
	results []api.ValueType
}

func (t funcType) encode() []byte {
	out := []byte{0x60}
	out = append(out, uleb(uint32(len(t.params)))...)
	for _, p := range t.params {
		out = append(out, valType(p))
	}
	out = append(out, uleb(uint32(len(t.results)))...)
	for _, r := range t.results {
		out = append(out, valType(r))
	}
	return out
}

type importFunc struct {
	module string
	name   string
	typ    uint32
}

type localFunc struct {
	export string
	typ    uint32
	body   []byte
}

// builder assembles a module of imported functions followed by exported
// local functions. Function indices: imports first, in order of addImport.
type builder struct {
	types   []funcType
	imports []importFunc
	funcs   []localFunc
}

func (b *builder) typeIndex(params, results []api.ValueType) uint32 {
	for i, t := range b.types {
		if slices.Equal(t.params, params) && slices.Equal(t.results, results) {
			return uint32(i)
		}
	}
	b.types = append(b.types, funcType{params: params, results: results})
	return uint32(len(b.types) - 1)
}

// addImport registers a function import and returns its function index.
// Imports must all be added before the first local function is called.
func (b *builder) addImport(module, name string, params, results []api.ValueType) uint32 {
	b.imports = append(b.imports, importFunc{
		module: module,
		name:   name,
		typ:    b.typeIndex(params, results),
	})
	return uint32(len(b.imports) - 1)
}

// addFunc registers an exported function. body holds the instructions
// without the locals header or the final end.
func (b *builder) addFunc(export string, params, results []api.ValueType, body []byte) {
	b.funcs = append(b.funcs, localFunc{
		export: export,
		typ:    b.typeIndex(params, results),
		body:   body,
	})
}

func (b *builder) build() []byte {
	wasm := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	types := make([][]byte, len(b.types))
	for i, t := range b.types {
		types[i] = t.encode()
	}
	wasm = append(wasm, section(secType, vector(types))...)

	if len(b.imports) > 0 {
		imports := make([][]byte, len(b.imports))
		for i, im := range b.imports {
			entry := name(im.module)
			entry = append(entry, name(im.name)...)
			entry = append(entry, 0x00)
			imports[i] = append(entry, uleb(im.typ)...)
		}
		wasm = append(wasm, section(secImport, vector(imports))...)
	}

	funcs := make([][]byte, len(b.funcs))
	exports := make([][]byte, len(b.funcs))
	code := make([][]byte, len(b.funcs))
	base := uint32(len(b.imports))
	for i, f := range b.funcs {
		funcs[i] = uleb(f.typ)

		exp := name(f.export)
		exp = append(exp, 0x00)
		exports[i] = append(exp, uleb(base+uint32(i))...)

		// no locals
		body := append([]byte{0x00}, f.body...)
		body = append(body, opEnd)
		code[i] = append(uleb(uint32(len(body))), body...)
	}
	wasm = append(wasm, section(secFunc, vector(funcs))...)
	wasm = append(wasm, section(secExport, vector(exports))...)
	wasm = append(wasm, section(secCode, vector(code))...)
	return wasm
}
