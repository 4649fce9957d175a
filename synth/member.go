package synth

import (
	"slices"

	"github.com/wippyai/stubgen/capability"
	"github.com/wippyai/stubgen/decl"
)

// Provenance tags who supplies a member's body.
type Provenance uint8

const (
	User Provenance = iota
	Stub
	Bridge
)

func (p Provenance) String() string {
	switch p {
	case Stub:
		return "synthesized-stub"
	case Bridge:
		return "synthesized-bridge"
	}
	return "user"
}

// BridgeKind says what a synthesized bridge forwards to.
type BridgeKind uint8

const (
	NoBridge BridgeKind = iota
	// NativeForward calls the native base implementation with the base
	// state computed by the super-constructor call.
	NativeForward
	// DelegateForward calls the member on a delegate expression.
	DelegateForward
	// VariancePassthrough exposes a user member under the contract's
	// out-projected identity.
	VariancePassthrough
)

func (k BridgeKind) String() string {
	switch k {
	case NativeForward:
		return "native-forward"
	case DelegateForward:
		return "delegate-forward"
	case VariancePassthrough:
		return "variance-passthrough"
	}
	return ""
}

// Member is one entry of a resolved member table. Members are values;
// nothing downstream changes them once synthesized.
type Member struct {
	Signature  decl.Signature
	Identity   decl.Identity
	Provenance Provenance
	// Policy is set for stubs.
	Policy capability.Policy
	// Bridge and Target are set for bridges. Target is the native
	// "Base.member(...)" identity, the delegate expression or the user
	// member identity.
	Bridge BridgeKind
	Target string
	// Contracts lists the contract instances that require the member.
	Contracts []string
	// Native is set on user members whose body the host supplies.
	Native bool
}

// Clone returns a deep copy.
func (m Member) Clone() Member {
	m.Signature = m.Signature.Clone()
	m.Contracts = slices.Clone(m.Contracts)
	return m
}

// Label renders the member kind for listings.
func (m Member) Label() string {
	switch m.Provenance {
	case Stub:
		return string(m.Policy)
	case Bridge:
		return m.Bridge.String() + " -> " + m.Target
	}
	if m.Native {
		return "native"
	}
	return "user"
}
