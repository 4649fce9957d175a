// Package stubgen synthesizes the stub and bridge members a class needs
// when it is compiled against platform contracts it only partly
// implements.
//
// A read-only list compiled against a mutable platform list still has to
// expose add, remove and clear. A class extending a native base whose
// super-constructor transforms its arguments needs forwarding bodies for
// the inherited native members. stubgen computes those members, picks
// their bodies and erases them for the target.
//
// # Architecture Overview
//
//	stubgen/
//	├── decl/        Contracts, classes, signatures, the type parser and YAML loader
//	├── capability/  Read-only to mutable contract relation and the stub policy table
//	├── resolver/    Required members of a class, partitioned by provider
//	├── synth/       Stubs, native bridges, delegate bridges, provenance
//	├── erasure/     JVM, JS and wasm erasure; clash detection
//	├── target/      Target profiles (erasure flavor, fault type)
//	├── driver/      The pipeline for one target; parallel batch compilation
//	├── lower/       Member tables as core wasm modules
//	├── runtime/     wazero execution of lowered tables
//	├── errors/      Structured error types
//	└── cmd/stubgen  Command line tool and interactive browser
//
// # Quick Start
//
//	tbl, _ := capability.Builtin()
//	u := decl.NewUniverse()
//	_ = tbl.Install(u)
//	_ = u.Load(classesYAML)
//
//	c, _ := driver.New(u, tbl, driver.DefaultOptions())
//	table, err := c.CompileName("MyList")
//	for _, e := range table.Entries {
//		fmt.Println(e.Signature, e.Label(), e.Descriptor.Text)
//	}
//
// # Provenance
//
// Every entry of a member table is exactly one of:
//
//	user                 the class implements the member
//	synthesized-stub     a body chosen by policy, usually raise-unsupported
//	synthesized-bridge   a forwarder to a native base, a delegate, or a user member
//
// A user member always wins over a synthesized one with the same identity.
package stubgen
