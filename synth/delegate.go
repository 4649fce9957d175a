package synth

import (
	"github.com/wippyai/stubgen/errors"
	"github.com/wippyai/stubgen/resolver"
)

// Delegates emits a delegate-forward bridge for each member only a
// delegate covers. A member two delegates supply is a conflict; the class
// has to declare it.
func Delegates(delegated []resolver.Delegated) ([]Member, []errors.Conflict) {
	var (
		out       []Member
		conflicts []errors.Conflict
	)
	for _, d := range delegated {
		if len(d.Delegates) > 1 {
			contracts := make([]string, 0, len(d.Delegates))
			for _, dl := range d.Delegates {
				contracts = appendUnique(contracts, dl.Contract+" by "+dl.Expr)
			}
			conflicts = append(conflicts, errors.Conflict{
				Member:    d.Signature.String(),
				Contracts: contracts,
				Detail:    "many implementations inherited; the class must override it",
			})
			continue
		}
		out = append(out, Member{
			Signature:  d.Signature.Clone(),
			Identity:   d.Identity,
			Provenance: Bridge,
			Bridge:     DelegateForward,
			Target:     d.Delegates[0].Expr,
			Contracts:  d.Contracts(),
		})
	}
	return out, conflicts
}
