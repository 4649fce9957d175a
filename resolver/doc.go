// Package resolver computes the member table a class must expose.
//
// Resolution walks the declared supertypes of a class transitively,
// substituting type arguments, and collects every member each required
// contract instance declares plus the extra members its capability entry
// adds. The union, keyed by member identity, is then partitioned:
//
//   - Declared: the class implements the member (or a native body does),
//     either exactly or with an invariant parameter where the contract
//     has an out-projection
//   - Inherited: a base class supplies it
//   - Delegated: a "Contract by expr" supertype covers it
//   - Missing: nobody does; the synthesizer must produce a stub
//
// Declared beats Inherited beats Delegated. Contracts of native bases are
// satisfied by the host and are not walked.
package resolver
