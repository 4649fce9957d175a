package synth

import (
	"fmt"
	"strings"

	"github.com/wippyai/stubgen/capability"
	"github.com/wippyai/stubgen/errors"
	"github.com/wippyai/stubgen/resolver"
)

// Stubs picks a policy for every missing member. Policies come from the
// table keyed on (family, member name); return types never participate.
// Origins that disagree produce a conflict instead of a member.
func Stubs(missing []resolver.Requirement, tbl *capability.Table) ([]Member, []errors.Conflict, error) {
	var (
		out       []Member
		conflicts []errors.Conflict
	)

	for _, req := range missing {
		name := req.Signature.Name

		policy := tbl.Policy("", name)
		var (
			policies []capability.Policy
			by       = make(map[capability.Policy][]string)
		)
		for _, o := range req.Origins {
			p := tbl.Policy(o.Family, name)
			if _, seen := by[p]; !seen {
				policies = append(policies, p)
			}
			by[p] = appendUnique(by[p], o.Contract)
		}
		if len(policies) > 0 {
			policy = policies[0]
		}

		if len(policies) > 1 {
			parts := make([]string, len(policies))
			for i, p := range policies {
				parts[i] = fmt.Sprintf("%s (%s)", p, strings.Join(by[p], ", "))
			}
			conflicts = append(conflicts, errors.Conflict{
				Member:    req.Signature.String(),
				Contracts: req.Contracts(),
				Detail:    "conflicting policies: " + strings.Join(parts, " vs "),
			})
			continue
		}

		if err := checkPolicy(policy, req); err != nil {
			return nil, nil, err
		}

		out = append(out, Member{
			Signature:  req.Signature.Clone(),
			Identity:   req.Identity,
			Provenance: Stub,
			Policy:     policy,
			Contracts:  req.Contracts(),
		})
	}
	return out, conflicts, nil
}

// checkPolicy rejects policies the signature cannot honour.
func checkPolicy(p capability.Policy, req resolver.Requirement) error {
	sig := req.Signature
	switch p {
	case capability.IdentityReturn:
		if len(sig.Params) == 0 || !sig.Returns() {
			return errors.TypeMismatch(errors.PhaseSynthesize, "", sig.String(),
				"identity-return needs a parameter and a return value")
		}
	case capability.SelfReturn, capability.NegativeConstant:
		if !sig.Returns() {
			return errors.TypeMismatch(errors.PhaseSynthesize, "", sig.String(),
				string(p)+" needs a return value")
		}
	}
	return nil
}

func appendUnique(list []string, s string) []string {
	for _, have := range list {
		if have == s {
			return list
		}
	}
	return append(list, s)
}
