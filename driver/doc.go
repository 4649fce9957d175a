// Package driver runs the member pipeline for a target: resolve the
// class, synthesize stubs and bridges, then erase the result into the
// member table the code emitter consumes.
//
// Basic usage:
//
//	tbl, _ := capability.Builtin()
//	u := decl.NewUniverse()
//	_ = tbl.Install(u)
//	_ = u.Load(classesYAML)
//
//	c, err := driver.New(u, tbl, driver.DefaultOptions())
//	if err != nil {
//		return err
//	}
//	table, err := c.CompileName("MyList")
//
// CompileAll compiles many classes with bounded parallelism and reports
// every failing class.
package driver
