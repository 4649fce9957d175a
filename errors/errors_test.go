package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:     PhaseSynthesize,
				Kind:      KindAmbiguous,
				Class:     "MyList",
				Member:    "add(E)",
				Contracts: []string{"MutableCollection", "Sink"},
				Detail:    "conflicting policies",
			},
			contains: []string{"[synthesize]", "ambiguous_synthesis", "MyList.add(E)", "MutableCollection, Sink", "conflicting policies"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseResolve,
				Kind:  KindCycle,
			},
			contains: []string{"[resolve]", "inheritance_cycle"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindInstantiation,
				Detail: "instantiate module",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[load]", "instantiation", "instantiate module", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseConfig,
		Kind:  KindInvalidInput,
		Cause: cause,
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase:  PhaseRuntime,
		Kind:   KindUnsupported,
		Member: "add(E)",
	}

	if !err.Is(&Error{Phase: PhaseRuntime, Kind: KindUnsupported}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseLoad, Kind: KindUnsupported}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseRuntime, Kind: KindNotFound}) {
		t.Error("Is should not match different kind")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseSynthesize, KindAmbiguous).
		Class("Box").
		Member("put(K, V)").
		Contracts("Sink", "Bag").
		Cause(cause).
		Detail("expected %s, got %s", "no-op", "raise-unsupported").
		Build()

	if err.Class != "Box" || err.Member != "put(K, V)" {
		t.Errorf("Class/Member = %q/%q", err.Class, err.Member)
	}
	if len(err.Contracts) != 2 || err.Contracts[0] != "Bag" {
		t.Errorf("Contracts = %v, want sorted [Bag Sink]", err.Contracts)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected no-op, got raise-unsupported" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestKindHelpers(t *testing.T) {
	wrapped := fmt.Errorf("call failed: %w", Unsupported("MyList", "clear()"))
	if !IsUnsupported(wrapped) {
		t.Error("IsUnsupported should see through wrapping")
	}
	if IsUnknownContract(wrapped) {
		t.Error("IsUnknownContract should not match an unsupported fault")
	}
	if !IsUnknownContract(UnknownContract("Sequence")) {
		t.Error("IsUnknownContract should match")
	}
	if IsUnsupported(errors.New("plain")) {
		t.Error("plain errors carry no kind")
	}
}

func TestConflictsError(t *testing.T) {
	err := NewConflictsError("Box", []Conflict{
		{Member: "reset()", Contracts: []string{"Counter", "Gauge"}, Detail: "no-op vs raise-unsupported"},
		{Member: "add(E)", Contracts: []string{"Bag", "Sink"}},
	})

	if err.Conflicts[0].Member != "add(E)" {
		t.Errorf("conflicts not sorted: %v", err.Conflicts)
	}
	msg := err.Error()
	for _, s := range []string{"Box", "2 member(s)", "add(E)", "- Counter", "no-op vs raise-unsupported"} {
		if !strings.Contains(msg, s) {
			t.Errorf("message %q does not contain %q", msg, s)
		}
	}
	if !errors.Is(err, &Error{Kind: KindAmbiguous}) {
		t.Error("ConflictsError should match an ambiguity target")
	}
	if errors.Is(err, &Error{Kind: KindCycle}) {
		t.Error("ConflictsError should not match other kinds")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	if err := ErasureClash("C", "f(Ljava/util/List;)V", "f(List<A>)", "f(List<B>)"); err.Kind != KindErasureClash || !strings.Contains(err.Detail, "f(List<A>) and f(List<B>)") {
		t.Errorf("ErasureClash = %v", err)
	}
	if err := AbstractMember("C", "reset()"); err.Phase != PhaseResolve || err.Kind != KindAbstractMember || err.Member != "reset()" {
		t.Errorf("AbstractMember = %v", err)
	}
	if err := Cycle("A", []string{"A", "B", "A"}); err.Detail != "A -> B -> A" {
		t.Errorf("Cycle detail = %q", err.Detail)
	}
	if err := NotFound(PhaseRuntime, "class", "Foo"); !strings.Contains(err.Error(), `class "Foo" not found`) {
		t.Errorf("NotFound = %v", err)
	}
	if err := Instantiation(errors.New("boom")); err.Phase != PhaseLoad || err.Unwrap() == nil {
		t.Errorf("Instantiation = %v", err)
	}
}
