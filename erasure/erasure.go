package erasure

import (
	"fmt"
	"slices"

	"github.com/wippyai/stubgen/decl"
	"github.com/wippyai/stubgen/errors"
	"github.com/wippyai/stubgen/synth"
)

// Flavor selects a target's erasure rules.
type Flavor string

const (
	JVM  Flavor = "jvm"
	JS   Flavor = "js"
	Wasm Flavor = "wasm"
)

// ParseFlavor validates a flavor name.
func ParseFlavor(s string) (Flavor, error) {
	switch f := Flavor(s); f {
	case JVM, JS, Wasm:
		return f, nil
	}
	return "", errors.InvalidInput(errors.PhaseErasure, fmt.Sprintf("unknown erasure flavor %q", s))
}

// Descriptor is the erased form of a member.
type Descriptor struct {
	// Key identifies the member on the target; two members with one key
	// clash. For js and wasm it is also the exported name.
	Key string
	// Text is the full descriptor, including the return type where the
	// target encodes one.
	Text string
}

// Erase computes the descriptor of sig.
func Erase(f Flavor, sig decl.Signature) (Descriptor, error) {
	switch f {
	case JVM:
		return jvmDescriptor(sig), nil
	case JS:
		return jsDescriptor(sig), nil
	case Wasm:
		return wasmDescriptor(sig), nil
	}
	return Descriptor{}, errors.InvalidInput(errors.PhaseErasure, fmt.Sprintf("unknown erasure flavor %q", f))
}

// Hygiene renames member type parameters that collide with the class's
// own, so a generic overload keeps a parameter of its own.
func Hygiene(sig decl.Signature, classParams []string) decl.Signature {
	var b decl.Binding
	renamed := slices.Clone(sig.TypeParams)
	for i, tp := range sig.TypeParams {
		if !slices.Contains(classParams, tp) {
			continue
		}
		fresh := decl.Fresh(tp, func(n string) bool {
			return slices.Contains(classParams, n) || slices.Contains(renamed, n)
		})
		if b == nil {
			b = make(decl.Binding)
		}
		b[tp] = decl.TypeParam(fresh)
		renamed[i] = fresh
	}
	if b == nil {
		return sig.Clone()
	}

	bare := sig
	bare.TypeParams = nil
	out := bare.Subst(b)
	out.TypeParams = renamed
	return out
}

// Erased is a member together with its descriptor.
type Erased struct {
	synth.Member
	Descriptor Descriptor
	// Aliases are identities folded into this entry.
	Aliases []decl.Identity
}

// Apply erases every member of a class. A variance-passthrough bridge
// whose descriptor equals its user target is folded into the user entry.
// Any other pair of members sharing a descriptor key is an erasure clash.
func Apply(f Flavor, class *decl.Class, members []synth.Member) (out []Erased, folded []synth.Member, err error) {
	out = make([]Erased, 0, len(members))
	byKey := make(map[string]int, len(members))

	var params []string
	if class != nil {
		params = class.TypeParams
	}

	var bridges []Erased
	for _, m := range members {
		m = m.Clone()
		m.Signature = Hygiene(m.Signature, params)
		d, err := Erase(f, m.Signature)
		if err != nil {
			return nil, nil, err
		}
		e := Erased{Member: m, Descriptor: d}
		if m.Bridge == synth.VariancePassthrough {
			bridges = append(bridges, e)
			continue
		}
		if i, dup := byKey[d.Key]; dup {
			return nil, nil, clash(class, d.Key, out[i].Identity, m.Identity)
		}
		byKey[d.Key] = len(out)
		out = append(out, e)
	}

	for _, b := range bridges {
		i, dup := byKey[b.Descriptor.Key]
		if !dup {
			byKey[b.Descriptor.Key] = len(out)
			out = append(out, b)
			continue
		}
		if string(out[i].Identity) == b.Target && out[i].Provenance == synth.User {
			out[i].Aliases = append(out[i].Aliases, b.Identity)
			folded = append(folded, b.Member)
			continue
		}
		return nil, nil, clash(class, b.Descriptor.Key, out[i].Identity, b.Identity)
	}

	slices.SortStableFunc(out, func(a, b Erased) int {
		switch {
		case a.Identity < b.Identity:
			return -1
		case a.Identity > b.Identity:
			return 1
		}
		return 0
	})
	return out, folded, nil
}

func clash(class *decl.Class, key string, a, b decl.Identity) error {
	name := ""
	if class != nil {
		name = class.Name
	}
	return errors.ErasureClash(name, key, string(a), string(b))
}
