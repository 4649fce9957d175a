// Package synth builds a class's resolved member table from a resolution.
//
// Every entry carries an explicit provenance: user, synthesized-stub or
// synthesized-bridge. Stubs get their policy from the capability table's
// policy table; raise-unsupported stubs signal the target's
// unsupported-operation fault on every call. Bridges forward to a native
// base, to a delegate, or to a user member declared with an invariant
// parameter where the contract has an out-projection.
//
// A user member always wins over any synthesized entry of the same
// identity. Conflicting policies and members several delegates supply
// are fatal and reported together.
package synth
