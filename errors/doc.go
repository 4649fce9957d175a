// Package errors provides structured error types for stubgen.
//
// Errors are categorized by Phase (where in the pipeline the error occurred)
// and Kind (error category). The Error type carries the class, the member
// signature and the contracts involved, plus a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseSynthesize, errors.KindAmbiguous).
//		Class("MyList").
//		Member("add(E)").
//		Contracts("MutableCollection", "Sink").
//		Detail("raise-unsupported vs no-op").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnknownContract("Sequence")
//	err := errors.Unsupported("MyList", "add(E)")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
