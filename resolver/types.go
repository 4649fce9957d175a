package resolver

import (
	"github.com/wippyai/stubgen/decl"
)

// Origin records why a member is required.
type Origin struct {
	// Contract is the required contract instance, e.g. "List<TT>".
	Contract string
	// Name is the bare contract name used for capability lookups.
	Name   string
	Family string
	// Extra marks members that come from the capability table rather
	// than from the contract itself.
	Extra bool
}

// Requirement is one member identity the class must expose.
type Requirement struct {
	Signature decl.Signature
	Identity  decl.Identity
	Origins   []Origin
}

// Contracts returns the distinct contract instances that require the
// member, in discovery order.
func (r Requirement) Contracts() []string {
	var out []string
	seen := make(map[string]bool, len(r.Origins))
	for _, o := range r.Origins {
		if !seen[o.Contract] {
			seen[o.Contract] = true
			out = append(out, o.Contract)
		}
	}
	return out
}

// Declared is a required member the class implements itself, or a member
// the class declares beyond any contract (zero Requirement origins).
type Declared struct {
	Requirement
	Member decl.Member
	// Variance is set when Member matches the requirement only after
	// dropping out-projections; the two identities then differ.
	Variance bool
}

// Inherited is a member a base class supplies.
type Inherited struct {
	Requirement
	Base   string
	Native bool
}

// Delegate is a "Contract by expr" supertype covering a member.
type Delegate struct {
	Expr     string
	Contract string
}

// Delegated is a member only delegates cover. More than one delegate is
// an ambiguity the synthesizer reports.
type Delegated struct {
	Requirement
	Delegates []Delegate
}

// Base describes the class's base class, if any.
type Base struct {
	Name   string
	Native bool
	Ctor   []decl.Param
	Call   []decl.Expr
}

// Transforms reports whether the super-constructor call changes the
// state the base sees.
func (b *Base) Transforms() bool {
	return b != nil && decl.Transforms(b.Call)
}

// Resolution is the partition of every member a class must expose.
type Resolution struct {
	Class     *decl.Class
	Base      *Base
	Contracts []string
	Declared  []Declared
	Inherited []Inherited
	Delegated []Delegated
	Missing   []Requirement
}

// Signatures returns the signature of every entry of the partition.
func (r *Resolution) Signatures() []decl.Signature {
	var out []decl.Signature
	for _, d := range r.Declared {
		out = append(out, d.Member.Signature)
		if d.Variance {
			out = append(out, d.Signature)
		}
	}
	for _, i := range r.Inherited {
		out = append(out, i.Signature)
	}
	for _, d := range r.Delegated {
		out = append(out, d.Signature)
	}
	for _, m := range r.Missing {
		out = append(out, m.Signature)
	}
	return out
}
