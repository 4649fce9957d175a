package synth

import (
	"sort"

	"github.com/wippyai/stubgen/capability"
	"github.com/wippyai/stubgen/decl"
	"github.com/wippyai/stubgen/errors"
	"github.com/wippyai/stubgen/resolver"
)

// Options control target-dependent synthesis.
type Options struct {
	// InheritsNative is set when the target resolves native base members
	// through its own inheritance.
	InheritsNative bool
}

// Synthesize turns a resolution into the class's member table: user
// members, then bridges, then stubs, one entry per identity sorted by
// identity. Every ambiguity of the class is reported in one
// *errors.ConflictsError.
func Synthesize(res *resolver.Resolution, tbl *capability.Table, opts Options) ([]Member, error) {
	users, variance := userMembers(res.Declared)

	stubs, stubConflicts, err := Stubs(res.Missing, tbl)
	if err != nil {
		var e *errors.Error
		if errors.As(err, &e) && e.Class == "" {
			e.Class = res.Class.Name
		}
		return nil, err
	}
	delegates, delegateConflicts := Delegates(res.Delegated)

	if conflicts := append(delegateConflicts, stubConflicts...); len(conflicts) > 0 {
		return nil, errors.NewConflictsError(res.Class.Name, conflicts)
	}

	out := merge(users, variance, NativeBridges(res, opts.InheritsNative), delegates, stubs)
	sort.Slice(out, func(i, j int) bool { return out[i].Identity < out[j].Identity })
	return out, nil
}

func userMembers(declared []resolver.Declared) (users, variance []Member) {
	for _, d := range declared {
		users = append(users, Member{
			Signature:  d.Member.Signature.Clone(),
			Identity:   d.Member.Identity(),
			Provenance: User,
			Contracts:  d.Contracts(),
			Native:     d.Member.Body == decl.BodyNative,
		})
		if d.Variance {
			variance = append(variance, Member{
				Signature:  d.Signature.Clone(),
				Identity:   d.Identity,
				Provenance: Bridge,
				Bridge:     VariancePassthrough,
				Target:     string(d.Member.Identity()),
				Contracts:  d.Contracts(),
			})
		}
	}
	return users, variance
}

// merge concatenates groups in priority order. The first entry of an
// identity wins, so user members are never replaced by synthesized ones.
func merge(groups ...[]Member) []Member {
	var out []Member
	seen := make(map[decl.Identity]bool)
	for _, g := range groups {
		for _, m := range g {
			if seen[m.Identity] {
				continue
			}
			seen[m.Identity] = true
			out = append(out, m)
		}
	}
	return out
}
