// Package runtime executes compiled member tables as wasm modules under
// wazero.
//
// Each class is lowered (see package lower) and instantiated next to a
// host module that supplies its user bodies and bridge targets. Objects
// live on a host-side heap; the receiver handle is parameter 0 of every
// call.
//
//	rt, err := runtime.New(ctx, runtime.Options{})
//	if err != nil {
//		return err
//	}
//	defer rt.Close(ctx)
//
//	if err := rt.Define(ctx, table, bodies); err != nil {
//		return err
//	}
//	h, _ := rt.New("MyList")
//	_, err = rt.Invoke(ctx, h, "add(TT)", 1)
//	// errors.IsUnsupported(err) == true
//
// A raise-unsupported stub calls the stubgen.fault import, which surfaces
// as an *errors.Error of kind unsupported_operation naming the class and
// member. Nothing runs before the fault, so the object is unchanged.
package runtime
