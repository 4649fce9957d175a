// Package erasure rewrites resolved members to a target's erasure rules.
//
// Three flavors are supported:
//
//   - jvm: JVM method descriptors. Type parameters erase to Object,
//     nullable primitives to their boxes, read-only and mutable
//     collection contracts to the same java.util interface.
//   - js: the member name mangled with its erased parameter type names.
//   - wasm: the js mangling as export name plus the core function type,
//     computed by mapping each parameter to a WIT primitive and flattening
//     it. The receiver handle is always the first parameter.
//
// Apply detects members that erase to the same key. A
// variance-passthrough bridge that erases exactly like its user target is
// folded into the user entry; every other collision is an erasure_clash
// error.
package erasure
