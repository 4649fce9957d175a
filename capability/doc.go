// Package capability holds the fixed relation between read-only source
// contracts and their mutable platform counterparts, and the policy table
// that decides what a synthesized stub does.
//
// A Table is built once from YAML (the embedded builtins, or a custom file
// via Load) and is read-only afterwards. Each Entry carries the extra
// members the target contract has over the source, computed transitively
// over supertypes when the table is built. Lookup of a contract with no
// entry returns an unknown_contract error that callers treat as "nothing
// to bridge".
package capability
