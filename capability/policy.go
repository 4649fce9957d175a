package capability

import (
	"fmt"

	"github.com/wippyai/stubgen/errors"
)

// Policy selects the body of a synthesized stub.
type Policy string

const (
	// RaiseUnsupported ignores its arguments and signals the target's
	// unsupported-operation fault.
	RaiseUnsupported Policy = "raise-unsupported"
	// IdentityReturn returns its first argument unchanged.
	IdentityReturn Policy = "identity-return"
	// NoOp returns the zero value of the return type.
	NoOp Policy = "no-op"
	// NegativeConstant returns -1.
	NegativeConstant Policy = "negative-constant"
	// SelfReturn returns the receiver.
	SelfReturn Policy = "self-return"
)

// DefaultPolicy applies when neither the member nor its family has one.
const DefaultPolicy = RaiseUnsupported

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case RaiseUnsupported, IdentityReturn, NoOp, NegativeConstant, SelfReturn:
		return p, nil
	}
	return "", errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("unknown policy %q", s))
}

type family struct {
	members map[string]Policy
	def     Policy
}

func (f family) policy(member string) (Policy, bool) {
	if p, ok := f.members[member]; ok {
		return p, true
	}
	if f.def != "" {
		return f.def, true
	}
	return "", false
}
