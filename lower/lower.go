package lower

import (
	"fmt"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/stubgen/capability"
	"github.com/wippyai/stubgen/decl"
	"github.com/wippyai/stubgen/driver"
	"github.com/wippyai/stubgen/erasure"
	"github.com/wippyai/stubgen/errors"
	"github.com/wippyai/stubgen/synth"
	"github.com/wippyai/stubgen/target"
)

// Import is a function the host supplies for one entry.
type Import struct {
	Name    string
	Entry   driver.Entry
	Params  []api.ValueType
	Results []api.ValueType
}

// Module is a class's member table lowered to a core wasm module. Every
// entry becomes an export named by its descriptor key.
type Module struct {
	Class string
	// Host names the import module that supplies user bodies and the
	// targets of native and delegate bridges.
	Host    string
	Binary  []byte
	Imports []Import
	// Faults maps the code a stub passes to the fault import back to the
	// member it was synthesized for.
	Faults  []decl.Identity
	Exports []string
}

// HostModule is the import module name for class.
func HostModule(class string) string {
	return "host:" + class
}

// FaultSignature is the core type of the fault import: the fault code,
// no results.
var FaultSignature = []api.ValueType{api.ValueTypeI32}

// Lower emits the wasm module for a table compiled for a wasm-flavored
// target.
func Lower(t *driver.Table) (*Module, error) {
	if t.Profile.Flavor != erasure.Wasm {
		return nil, errors.InvalidInput(errors.PhaseLower,
			fmt.Sprintf("target %q does not erase to wasm", t.Profile.Name))
	}

	class := t.Class.Name
	m := &Module{Class: class, Host: HostModule(class)}

	var b builder
	fault := b.addImport(target.FaultModule, target.FaultFunc, FaultSignature, nil)

	imported := make(map[decl.Identity]uint32)
	for _, e := range t.Entries {
		if !hostSupplied(e) {
			continue
		}
		params, results := erasure.CoreSignature(e.Signature)
		imported[e.Identity] = b.addImport(m.Host, e.Export, params, results)
		m.Imports = append(m.Imports, Import{Name: e.Export, Entry: e, Params: params, Results: results})
	}

	for _, e := range t.Entries {
		params, results := erasure.CoreSignature(e.Signature)

		var (
			body []byte
			err  error
		)
		switch {
		case e.Provenance == synth.Stub:
			body, err = stubBody(e, params, results, fault, uint32(len(m.Faults)))
			if e.Policy == capability.RaiseUnsupported {
				m.Faults = append(m.Faults, e.Identity)
			}
		case e.Bridge == synth.VariancePassthrough:
			idx, ok := imported[decl.Identity(e.Target)]
			if !ok {
				err = errors.NotFound(errors.PhaseLower, "bridge target", e.Target)
				break
			}
			body = forward(params, idx)
		default:
			body = forward(params, imported[e.Identity])
		}
		if err != nil {
			var le *errors.Error
			if errors.As(err, &le) && le.Class == "" {
				le.Class = class
			}
			return nil, err
		}
		b.addFunc(e.Export, params, results, body)
		m.Exports = append(m.Exports, e.Export)
	}

	m.Binary = b.build()
	return m, nil
}

// hostSupplied reports whether the host implements the entry's body.
// Variance bridges forward to their user target inside the module.
func hostSupplied(e driver.Entry) bool {
	switch e.Provenance {
	case synth.User:
		return true
	case synth.Bridge:
		return e.Bridge != synth.VariancePassthrough
	}
	return false
}

func forward(params []api.ValueType, fn uint32) []byte {
	var body []byte
	for i := range params {
		body = append(body, opLocalGet)
		body = append(body, uleb(uint32(i))...)
	}
	body = append(body, opCall)
	return append(body, uleb(fn)...)
}

// stubBody emits the body for a stub's policy. Parameter 0 is the
// receiver.
func stubBody(e driver.Entry, params, results []api.ValueType, fault, code uint32) ([]byte, error) {
	mismatch := func(detail string) error {
		return errors.TypeMismatch(errors.PhaseLower, "", e.Signature.String(), detail)
	}

	switch e.Policy {
	case capability.RaiseUnsupported, "":
		body := constant(api.ValueTypeI32, int64(code))
		body = append(body, opCall)
		body = append(body, uleb(fault)...)
		return append(body, opUnreachable), nil

	case capability.NoOp:
		var body []byte
		for _, r := range results {
			body = append(body, constant(r, 0)...)
		}
		return body, nil

	case capability.NegativeConstant:
		if len(results) != 1 {
			return nil, mismatch("negative-constant needs a single result")
		}
		return constant(results[0], -1), nil

	case capability.IdentityReturn:
		if len(params) < 2 || len(results) != 1 || params[1] != results[0] {
			return nil, mismatch("identity-return needs a first parameter of the result type")
		}
		return []byte{opLocalGet, 0x01}, nil

	case capability.SelfReturn:
		if len(results) != 1 || results[0] != api.ValueTypeI32 {
			return nil, mismatch("self-return needs a reference result")
		}
		return []byte{opLocalGet, 0x00}, nil
	}
	return nil, errors.InvalidInput(errors.PhaseLower, fmt.Sprintf("unknown policy %q", e.Policy))
}
