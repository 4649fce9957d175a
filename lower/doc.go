// Package lower turns a compiled member table into an executable core
// wasm module.
//
// The module imports the fault function (stubgen.fault) and one function
// per host-supplied entry from "host:<Class>": user bodies, native
// forwards and delegate forwards. It defines one exported function per
// entry, named by the entry's descriptor key:
//
//   - forwarding entries pass every parameter to their import
//   - variance-passthrough bridges call the import of their user target
//   - raise-unsupported stubs call the fault with the stub's code and
//     trap, touching nothing first
//   - the other policies return a constant, the receiver or the first
//     argument
//
// Parameter 0 of every function is the receiver handle.
package lower
