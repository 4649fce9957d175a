package decl

import "strconv"

// Contract is an interface: its type parameters, its super-contracts and
// the member signatures it declares itself.
type Contract struct {
	Name       string
	TypeParams []string
	Supertypes []Type
	Members    []Signature
}

// Body marks whether a class member carries an implementation.
type Body uint8

const (
	BodyAbsent Body = iota
	BodyImplemented
	BodyNative
)

func (b Body) String() string {
	switch b {
	case BodyImplemented:
		return "implemented"
	case BodyNative:
		return "native"
	}
	return "absent"
}

// HasBody reports whether the member provides an implementation.
func (b Body) HasBody() bool {
	return b == BodyImplemented || b == BodyNative
}

// Member is a declared class member.
type Member struct {
	Signature
	Body Body
}

// Supertype is a declared supertype. Delegate is set for "C by expr"
// supertypes; Call holds the super-constructor arguments of a base class.
type Supertype struct {
	Type     Type
	Delegate string
	Call     []Expr
}

// Class describes a compiled class, or a native one whose bodies the host
// supplies.
type Class struct {
	Name       string
	TypeParams []string
	Supertypes []Supertype
	Members    []Member
	Ctor       []Param
	Native     bool
}

// Member returns the declared member with the given identity.
func (c *Class) Member(id Identity) (Member, bool) {
	for _, m := range c.Members {
		if m.Identity() == id {
			return m, true
		}
	}
	return Member{}, false
}

// Op is the operator of a super-constructor argument expression.
type Op uint8

const (
	OpPass Op = iota
	OpConst
	OpAdd
	OpSub
	OpMul
	OpDiv
)

// Expr is a super-constructor argument: a constructor parameter,
// optionally combined with an integer constant, or a constant alone.
type Expr struct {
	Param   int
	Op      Op
	Operand int64
}

// Eval computes the argument from the constructor arguments.
func (e Expr) Eval(args []int64) int64 {
	if e.Op == OpConst {
		return e.Operand
	}
	var v int64
	if e.Param >= 0 && e.Param < len(args) {
		v = args[e.Param]
	}
	switch e.Op {
	case OpAdd:
		return v + e.Operand
	case OpSub:
		return v - e.Operand
	case OpMul:
		return v * e.Operand
	case OpDiv:
		if e.Operand == 0 {
			return 0
		}
		return v / e.Operand
	}
	return v
}

// Format renders the expression using the constructor parameter names.
func (e Expr) Format(ctor []Param) string {
	if e.Op == OpConst {
		return strconv.FormatInt(e.Operand, 10)
	}
	name := "$" + strconv.Itoa(e.Param)
	if e.Param >= 0 && e.Param < len(ctor) {
		name = ctor[e.Param].Name
	}
	op := ""
	switch e.Op {
	case OpAdd:
		op = " + "
	case OpSub:
		op = " - "
	case OpMul:
		op = " * "
	case OpDiv:
		op = " / "
	default:
		return name
	}
	return name + op + strconv.FormatInt(e.Operand, 10)
}

// Transforms reports whether a super-constructor call changes the state
// a base sees, compared to passing the constructor parameters straight
// through.
func Transforms(call []Expr) bool {
	for i, e := range call {
		if e.Op != OpPass || e.Param != i {
			return true
		}
	}
	return false
}

// EvalAll evaluates every argument of a super-constructor call.
func EvalAll(call []Expr, args []int64) []int64 {
	out := make([]int64, len(call))
	for i, e := range call {
		out[i] = e.Eval(args)
	}
	return out
}
