package decl

import "strings"

// TypeKind distinguishes named types, type-parameter references and star
// projections.
type TypeKind uint8

const (
	KindNamed TypeKind = iota
	KindParam
	KindStar
)

// Variance is the use-site projection of a type argument.
type Variance uint8

const (
	Invariant Variance = iota
	In
	Out
)

func (v Variance) String() string {
	switch v {
	case In:
		return "in"
	case Out:
		return "out"
	}
	return ""
}

// Type is a source type reference. Values are immutable once built; the
// helpers below always return copies.
type Type struct {
	Name     string
	Args     []Type
	Kind     TypeKind
	Variance Variance
	Nullable bool
}

// Builtin type names used across packages.
const (
	TypeUnit    = "Unit"
	TypeAny     = "Any"
	TypeNothing = "Nothing"
	TypeInt     = "Int"
	TypeLong    = "Long"
	TypeShort   = "Short"
	TypeByte    = "Byte"
	TypeChar    = "Char"
	TypeBoolean = "Boolean"
	TypeFloat   = "Float"
	TypeDouble  = "Double"
	TypeString  = "String"
	TypeArray   = "Array"
)

// Named returns a named type applied to args.
func Named(name string, args ...Type) Type {
	return Type{Kind: KindNamed, Name: name, Args: args}
}

// TypeParam returns a reference to the type parameter name.
func TypeParam(name string) Type {
	return Type{Kind: KindParam, Name: name}
}

// Star returns the star projection.
func Star() Type {
	return Type{Kind: KindStar}
}

// Unit is the return type of members that return nothing.
func Unit() Type {
	return Named(TypeUnit)
}

// WithVariance returns t projected with v.
func (t Type) WithVariance(v Variance) Type {
	t.Args = cloneTypes(t.Args)
	t.Variance = v
	return t
}

// OrNull returns the nullable form of t.
func (t Type) OrNull() Type {
	t.Args = cloneTypes(t.Args)
	t.Nullable = true
	return t
}

// IsUnit reports whether t is Unit.
func (t Type) IsUnit() bool {
	return t.Kind == KindNamed && t.Name == TypeUnit && !t.Nullable
}

// IsZero reports whether t was never set.
func (t Type) IsZero() bool {
	return t.Kind == KindNamed && t.Name == ""
}

func (t Type) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t Type) write(b *strings.Builder) {
	if t.Kind == KindStar {
		b.WriteByte('*')
		return
	}
	if t.Variance != Invariant {
		b.WriteString(t.Variance.String())
		b.WriteByte(' ')
	}
	b.WriteString(t.Name)
	if len(t.Args) > 0 {
		b.WriteByte('<')
		for i, a := range t.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			a.write(b)
		}
		b.WriteByte('>')
	}
	if t.Nullable {
		b.WriteByte('?')
	}
}

// Equal compares two types structurally.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind || t.Name != o.Name || t.Variance != o.Variance ||
		t.Nullable != o.Nullable || len(t.Args) != len(o.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

// Binding maps type-parameter names to the types they stand for.
type Binding map[string]Type

// Subst replaces type-parameter references bound in b. A use-site
// projection on the reference wins over the one carried by the replacement.
func (t Type) Subst(b Binding) Type {
	switch t.Kind {
	case KindStar:
		return t
	case KindParam:
		r, ok := b[t.Name]
		if !ok {
			return t
		}
		if r.Kind == KindStar {
			return r
		}
		r.Args = cloneTypes(r.Args)
		if t.Variance != Invariant {
			r.Variance = t.Variance
		}
		r.Nullable = r.Nullable || t.Nullable
		return r
	}
	if len(t.Args) == 0 {
		return t
	}
	args := make([]Type, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.Subst(b)
	}
	t.Args = args
	return t
}

// Loose drops out-projections from type arguments, so Collection<out E>
// and Collection<E> compare equal. A star argument reads as Any?, which
// makes Collection<*>, Collection<out Any?> and Collection<Any?> one
// loose type.
func (t Type) Loose() Type {
	if len(t.Args) == 0 {
		return t
	}
	args := make([]Type, len(t.Args))
	for i, a := range t.Args {
		if a.Kind == KindStar {
			args[i] = Named(TypeAny).OrNull()
			continue
		}
		a = a.Loose()
		if a.Variance == Out {
			a.Variance = Invariant
		}
		args[i] = a
	}
	t.Args = args
	return t
}

// Params adds every type-parameter name referenced by t to into.
func (t Type) Params(into map[string]bool) {
	if t.Kind == KindParam {
		into[t.Name] = true
		return
	}
	for _, a := range t.Args {
		a.Params(into)
	}
}

func cloneTypes(ts []Type) []Type {
	if ts == nil {
		return nil
	}
	out := make([]Type, len(ts))
	copy(out, ts)
	return out
}

// Bind pairs type parameters with arguments positionally. Missing
// arguments bind to Any?.
func Bind(params []string, args []Type) Binding {
	b := make(Binding, len(params))
	for i, p := range params {
		if i < len(args) {
			b[p] = args[i]
		} else {
			b[p] = Named(TypeAny).OrNull()
		}
	}
	return b
}
