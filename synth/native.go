package synth

import (
	"github.com/wippyai/stubgen/resolver"
)

// NativeBridges emits a forwarding body for each member inherited from a
// native base that the class does not override. When the target already
// resolves native members through inheritance and the super-constructor
// passes its parameters through, nothing is emitted.
func NativeBridges(res *resolver.Resolution, inheritsNative bool) []Member {
	if res.Base == nil || !res.Base.Native {
		return nil
	}
	if inheritsNative && !res.Base.Transforms() {
		return nil
	}

	var out []Member
	for _, inh := range res.Inherited {
		if !inh.Native {
			continue
		}
		out = append(out, Member{
			Signature:  inh.Signature.Clone(),
			Identity:   inh.Identity,
			Provenance: Bridge,
			Bridge:     NativeForward,
			Target:     inh.Base + "." + string(inh.Identity),
			Contracts:  inh.Contracts(),
		})
	}
	return out
}
