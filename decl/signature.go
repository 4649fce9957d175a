package decl

import (
	"slices"
	"strconv"
	"strings"
)

// Param is a named, typed member or constructor parameter.
type Param struct {
	Name string
	Type Type
}

// Signature describes a member: name, own type parameters, parameters
// and return type.
type Signature struct {
	Name       string
	TypeParams []string
	Params     []Param
	Return     Type
}

// Identity is the override-matching key of a member: its name and
// parameter types. Return types do not participate and member-level type
// parameters are numbered by position.
type Identity string

// Name returns the member name part of the identity.
func (id Identity) Name() string {
	s := string(id)
	if i := strings.IndexByte(s, '('); i >= 0 {
		return s[:i]
	}
	return s
}

// Identity returns the override-matching key.
func (s Signature) Identity() Identity {
	return s.identity(false)
}

// LooseIdentity is Identity with parameter types compared through
// Type.Loose.
func (s Signature) LooseIdentity() Identity {
	return s.identity(true)
}

func (s Signature) identity(loose bool) Identity {
	var b Binding
	if len(s.TypeParams) > 0 {
		b = make(Binding, len(s.TypeParams))
		for i, tp := range s.TypeParams {
			b[tp] = TypeParam("#" + strconv.Itoa(i))
		}
	}

	var sb strings.Builder
	sb.WriteString(s.Name)
	sb.WriteByte('(')
	for i, p := range s.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		t := p.Type.Subst(b)
		if loose {
			t = t.Loose()
		}
		t.write(&sb)
	}
	sb.WriteByte(')')
	return Identity(sb.String())
}

// ParamTypes returns the parameter types in order.
func (s Signature) ParamTypes() []Type {
	out := make([]Type, len(s.Params))
	for i, p := range s.Params {
		out[i] = p.Type
	}
	return out
}

// Returns reports whether the member produces a value.
func (s Signature) Returns() bool {
	return !s.Return.IsZero() && !s.Return.IsUnit()
}

func (s Signature) String() string {
	var b strings.Builder
	if len(s.TypeParams) > 0 {
		b.WriteByte('<')
		b.WriteString(strings.Join(s.TypeParams, ", "))
		b.WriteString("> ")
	}
	b.WriteString(s.Name)
	b.WriteByte('(')
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		if p.Name != "" {
			b.WriteString(p.Name)
			b.WriteString(": ")
		}
		p.Type.write(&b)
	}
	b.WriteByte(')')
	if s.Returns() {
		b.WriteString(": ")
		s.Return.write(&b)
	}
	return b.String()
}

// Clone returns a deep copy.
func (s Signature) Clone() Signature {
	out := Signature{
		Name:       s.Name,
		TypeParams: slices.Clone(s.TypeParams),
		Return:     s.Return.Subst(nil),
	}
	if s.Params != nil {
		out.Params = make([]Param, len(s.Params))
		for i, p := range s.Params {
			out.Params[i] = Param{Name: p.Name, Type: p.Type.Subst(nil)}
		}
	}
	return out
}

// Subst applies b to the signature. Member type parameters shadow
// bindings of the same name and are renamed when a bound type refers to
// a parameter with their name, so substitution never captures.
func (s Signature) Subst(b Binding) Signature {
	if len(b) == 0 {
		return s.Clone()
	}

	inner := make(Binding, len(b))
	for k, v := range b {
		if !slices.Contains(s.TypeParams, k) {
			inner[k] = v
		}
	}

	free := make(map[string]bool)
	for _, v := range inner {
		v.Params(free)
	}

	out := Signature{Name: s.Name}
	if len(s.TypeParams) > 0 {
		out.TypeParams = make([]string, len(s.TypeParams))
		for i, tp := range s.TypeParams {
			name := tp
			if free[tp] {
				name = Fresh(tp, func(n string) bool {
					return free[n] || slices.Contains(s.TypeParams, n) || slices.Contains(out.TypeParams, n)
				})
				inner[tp] = TypeParam(name)
			}
			out.TypeParams[i] = name
		}
	}

	if s.Params != nil {
		out.Params = make([]Param, len(s.Params))
		for i, p := range s.Params {
			out.Params[i] = Param{Name: p.Name, Type: p.Type.Subst(inner)}
		}
	}
	out.Return = s.Return.Subst(inner)
	return out
}

// Fresh returns base suffixed with the smallest number for which taken
// reports false.
func Fresh(base string, taken func(string) bool) string {
	for i := 1; ; i++ {
		n := base + strconv.Itoa(i)
		if !taken(n) {
			return n
		}
	}
}
