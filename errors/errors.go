package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// Phase indicates where in the pipeline the error occurred
type Phase string

const (
	PhaseConfig     Phase = "config"     // capability table and descriptor loading
	PhaseParse      Phase = "parse"      // type expression parsing
	PhaseResolve    Phase = "resolve"    // member resolution
	PhaseSynthesize Phase = "synthesize" // stub and bridge synthesis
	PhaseErasure    Phase = "erasure"    // generic erasure
	PhaseLower      Phase = "lower"      // member table to wasm
	PhaseLoad       Phase = "load"       // module compilation and instantiation
	PhaseRuntime    Phase = "runtime"    // invocation of lowered members
)

// Kind categorizes the error
type Kind string

const (
	KindUnknownContract Kind = "unknown_contract"
	KindUnknownClass    Kind = "unknown_class"
	KindAmbiguous       Kind = "ambiguous_synthesis"
	KindDuplicateMember Kind = "duplicate_member"
	KindAbstractMember  Kind = "abstract_member"
	KindErasureClash    Kind = "erasure_clash"
	KindCycle           Kind = "inheritance_cycle"
	KindUnsupported     Kind = "unsupported_operation"
	KindTypeMismatch    Kind = "type_mismatch"
	KindInvalidInput    Kind = "invalid_input"
	KindNotFound        Kind = "not_found"
	KindNotInitialized  Kind = "not_initialized"
	KindInstantiation   Kind = "instantiation"
	KindTrap            Kind = "trap"
)

// Error is the structured error type used throughout stubgen
type Error struct {
	Cause     error
	Phase     Phase
	Kind      Kind
	Class     string
	Member    string
	Detail    string
	Contracts []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Class != "" || e.Member != "" {
		b.WriteString(" in ")
		b.WriteString(e.Class)
		if e.Class != "" && e.Member != "" {
			b.WriteByte('.')
		}
		b.WriteString(e.Member)
	}

	if len(e.Contracts) > 0 {
		b.WriteString(": contracts ")
		b.WriteString(strings.Join(e.Contracts, ", "))
	}

	if e.Detail != "" {
		if len(e.Contracts) > 0 {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Class sets the class the error refers to
func (b *Builder) Class(name string) *Builder {
	b.err.Class = name
	return b
}

// Member sets the member signature the error refers to
func (b *Builder) Member(sig string) *Builder {
	b.err.Member = sig
	return b
}

// Contracts sets the contracts involved, sorted for stable messages
func (b *Builder) Contracts(names ...string) *Builder {
	cs := append([]string(nil), names...)
	sort.Strings(cs)
	b.err.Contracts = cs
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// UnknownContract reports a capability table miss. Callers treat it as
// "nothing to bridge".
func UnknownContract(name string) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindUnknownContract,
		Detail: fmt.Sprintf("contract %q has no capability entry", name),
	}
}

// UnknownClass reports a supertype the symbol table cannot find
func UnknownClass(class, name string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindUnknownClass,
		Class:  class,
		Detail: fmt.Sprintf("supertype %q is not declared", name),
	}
}

// Ambiguous creates a fatal synthesis ambiguity error
func Ambiguous(class, member string, contracts []string, detail string) *Error {
	return New(PhaseSynthesize, KindAmbiguous).
		Class(class).
		Member(member).
		Contracts(contracts...).
		Detail(detail).
		Build()
}

// DuplicateMember reports two declarations of one identity in a class
func DuplicateMember(class, member string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindDuplicateMember,
		Class:  class,
		Member: member,
		Detail: "declared more than once",
	}
}

// AbstractMember reports a class member without a body that no contract
// requires and no base class provides
func AbstractMember(class, member string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindAbstractMember,
		Class:  class,
		Member: member,
		Detail: "member has no body and nothing provides it",
	}
}

// ErasureClash reports two identities that erase to one descriptor
func ErasureClash(class, descriptor string, members ...string) *Error {
	return &Error{
		Phase:  PhaseErasure,
		Kind:   KindErasureClash,
		Class:  class,
		Member: descriptor,
		Detail: fmt.Sprintf("same erasure for %s", strings.Join(members, " and ")),
	}
}

// Cycle reports a supertype cycle
func Cycle(class string, path []string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindCycle,
		Class:  class,
		Detail: strings.Join(path, " -> "),
	}
}

// Unsupported creates the fault raised by raise-unsupported stubs.
func Unsupported(class, member string) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindUnsupported,
		Class:  class,
		Member: member,
		Detail: "operation is not supported by this implementation",
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, class, member, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Class:  class,
		Member: member,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Is forwards to the standard library errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As forwards to the standard library errors.As.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// IsUnknownContract reports whether err is a capability table miss
func IsUnknownContract(err error) bool {
	return hasKind(err, KindUnknownContract)
}

// IsUnsupported reports whether err carries an unsupported-operation fault
func IsUnsupported(err error) bool {
	return hasKind(err, KindUnsupported)
}

func hasKind(err error, kind Kind) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Conflict is a single ambiguous member identity
type Conflict struct {
	Member    string
	Contracts []string
	Detail    string
}

// ConflictsError is returned when synthesis finds one or more ambiguous
// member identities in a class. Every conflict is reported, not only the first.
type ConflictsError struct {
	Class     string
	Conflicts []Conflict
}

// NewConflictsError creates an error from collected conflicts
func NewConflictsError(class string, conflicts []Conflict) *ConflictsError {
	cs := append([]Conflict(nil), conflicts...)
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].Member < cs[j].Member })
	return &ConflictsError{Class: class, Conflicts: cs}
}

func (e *ConflictsError) Error() string {
	if len(e.Conflicts) == 0 {
		return "[synthesize] ambiguous_synthesis: no conflicts specified"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[synthesize] ambiguous_synthesis in %s: %d member(s):\n", e.Class, len(e.Conflicts))

	for _, c := range e.Conflicts {
		b.WriteString("\n  ")
		b.WriteString(c.Member)
		b.WriteString(":\n")
		for _, contract := range c.Contracts {
			b.WriteString("    - ")
			b.WriteString(contract)
			b.WriteByte('\n')
		}
		if c.Detail != "" {
			b.WriteString("    ")
			b.WriteString(c.Detail)
			b.WriteByte('\n')
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// Is matches any ambiguity error so callers can test with a plain target.
func (e *ConflictsError) Is(target error) bool {
	switch t := target.(type) {
	case *ConflictsError:
		return true
	case *Error:
		return t.Kind == KindAmbiguous && (t.Phase == "" || t.Phase == PhaseSynthesize)
	}
	return false
}

// Runtime package convenience constructors

// NotInitialized creates a not-initialized error for missing module/instance
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Instantiation creates an instantiation error
func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInstantiation,
		Detail: "instantiate module",
		Cause:  cause,
	}
}

// Trap wraps a wasm execution failure that is not a stubgen error
func Trap(class, member string, cause error) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindTrap,
		Class:  class,
		Member: member,
		Detail: "call trapped",
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidInput,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}
