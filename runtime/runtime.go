package runtime

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/stubgen/decl"
	"github.com/wippyai/stubgen/driver"
	"github.com/wippyai/stubgen/errors"
	"github.com/wippyai/stubgen/lower"
	"github.com/wippyai/stubgen/synth"
	"github.com/wippyai/stubgen/target"
)

// Func is a member body implemented by the host. args holds the core
// values after the receiver; the returned slice holds the core results.
type Func func(ctx context.Context, self *Object, args []uint64) ([]uint64, error)

// Bodies maps member identities of one class to their host bodies. For a
// native class these are the native implementations; they read the
// object's Base state.
type Bodies map[decl.Identity]Func

// Options configures a Runtime.
type Options struct {
	// Config is passed to wazero. Nil uses wazero.NewRuntimeConfig().
	Config wazero.RuntimeConfig
	Logger *zap.Logger
}

// Runtime executes lowered member tables under wazero.
// Thread-safe.
type Runtime struct {
	rt      wazero.Runtime
	heap    *heap
	classes map[string]*class
	log     *zap.Logger
	mu      sync.RWMutex
}

type class struct {
	table   *driver.Table
	lowered *lower.Module
	bodies  Bodies
	module  api.Module
}

func (c *class) name() string {
	return c.table.Class.Name
}

// New creates a runtime and instantiates the fault module.
func New(ctx context.Context, opts Options) (*Runtime, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = wazero.NewRuntimeConfig()
	}
	log := opts.Logger
	if log == nil {
		log = Logger()
	}

	r := &Runtime{
		rt:      wazero.NewRuntimeWithConfig(ctx, cfg),
		heap:    newHeap(),
		classes: make(map[string]*class),
		log:     log,
	}
	_, err := r.rt.NewHostModuleBuilder(target.FaultModule).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(r.fault), lower.FaultSignature, nil).
		Export(target.FaultFunc).
		Instantiate(ctx)
	if err != nil {
		_ = r.rt.Close(ctx)
		return nil, errors.Instantiation(err)
	}
	return r, nil
}

// Close releases every module.
func (r *Runtime) Close(ctx context.Context) error {
	return r.rt.Close(ctx)
}

type frameKey struct{}

// withFrame records the class whose module is about to run, so the fault
// import can name the member behind a fault code.
func withFrame(ctx context.Context, c *class) context.Context {
	return context.WithValue(ctx, frameKey{}, c)
}

func (r *Runtime) fault(ctx context.Context, _ api.Module, stack []uint64) {
	code := uint32(stack[0])
	c, _ := ctx.Value(frameKey{}).(*class)
	if c == nil || int(code) >= len(c.lowered.Faults) {
		panic(errors.Unsupported("", fmt.Sprintf("fault code %d", code)))
	}
	member := string(c.lowered.Faults[code])
	r.log.Debug("unsupported operation",
		zap.String("class", c.name()),
		zap.String("member", member))
	panic(errors.Unsupported(c.name(), member))
}

// Define lowers a compiled table and instantiates it together with its
// host module. Every user member needs a body; bases must be defined
// before objects of a derived class are created.
func (r *Runtime) Define(ctx context.Context, t *driver.Table, bodies Bodies) (err error) {
	name := t.Class.Name

	// A nil slot reserves the name until instantiation finishes.
	r.mu.Lock()
	if _, dup := r.classes[name]; dup {
		r.mu.Unlock()
		return errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("class %q already defined", name))
	}
	r.classes[name] = nil
	r.mu.Unlock()
	defer func() {
		if err != nil {
			r.mu.Lock()
			delete(r.classes, name)
			r.mu.Unlock()
		}
	}()

	mod, err := lower.Lower(t)
	if err != nil {
		return err
	}
	c := &class{table: t, lowered: mod, bodies: bodies}

	hb := r.rt.NewHostModuleBuilder(mod.Host)
	for _, im := range mod.Imports {
		fn, err := r.hostFunc(c, im)
		if err != nil {
			return err
		}
		hb.NewFunctionBuilder().
			WithGoModuleFunction(fn, im.Params, im.Results).
			Export(im.Name)
	}
	host, err := hb.Instantiate(ctx)
	if err != nil {
		return errors.Instantiation(err)
	}

	inst, err := r.rt.InstantiateWithConfig(ctx, mod.Binary, wazero.NewModuleConfig().WithName("class:"+name))
	if err != nil {
		_ = host.Close(ctx)
		return errors.Instantiation(err)
	}
	c.module = inst

	r.mu.Lock()
	r.classes[name] = c
	r.mu.Unlock()

	r.log.Debug("class defined",
		zap.String("class", name),
		zap.Int("exports", len(mod.Exports)),
		zap.Int("imports", len(mod.Imports)),
		zap.Int("faults", len(mod.Faults)))
	return nil
}

func (r *Runtime) hostFunc(c *class, im lower.Import) (api.GoModuleFunc, error) {
	e := im.Entry
	var body Func
	switch {
	case e.Provenance == synth.User:
		body = c.bodies[e.Identity]
		if body == nil {
			err := errors.NotFound(errors.PhaseLoad, "body", string(e.Identity))
			err.Class = c.name()
			return nil, err
		}

	case e.Bridge == synth.NativeForward:
		base := c.table.Resolution.Base.Name
		id := e.Identity
		body = func(ctx context.Context, self *Object, args []uint64) ([]uint64, error) {
			bc, err := r.class(base)
			if err != nil {
				return nil, err
			}
			native := bc.bodies[id]
			if native == nil {
				return nil, errors.NotFound(errors.PhaseRuntime, "native member", base+"."+string(id))
			}
			return native(ctx, self, args)
		}

	case e.Bridge == synth.DelegateForward:
		expr, id := e.Target, e.Identity
		body = func(ctx context.Context, self *Object, args []uint64) ([]uint64, error) {
			h, ok := self.Delegates[expr]
			if !ok {
				return nil, errors.NotFound(errors.PhaseRuntime, "delegate", expr)
			}
			return r.Invoke(ctx, h, id, args...)
		}

	default:
		return nil, errors.InvalidInput(errors.PhaseLoad,
			fmt.Sprintf("%s: entry %s has no host body", c.name(), e.Identity))
	}

	nparams := len(im.Params)
	return func(ctx context.Context, _ api.Module, stack []uint64) {
		self, ok := r.heap.get(Handle(stack[0]))
		if !ok {
			panic(errors.NotFound(errors.PhaseRuntime, "object", fmt.Sprint(stack[0])))
		}
		out, err := body(ctx, self, slices.Clone(stack[1:nparams]))
		if err != nil {
			panic(err)
		}
		copy(stack, out)
	}, nil
}

func (r *Runtime) class(name string) (*class, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classes[name]
	if !ok || c == nil {
		return nil, errors.NotFound(errors.PhaseRuntime, "class", name)
	}
	return c, nil
}

// New allocates an object of class. Delegates whose expression is a
// constructor parameter are bound to the handle passed for it.
func (r *Runtime) New(class string, args ...int64) (Handle, error) {
	c, err := r.class(class)
	if err != nil {
		return 0, err
	}
	ctor := c.table.Class.Ctor
	if len(args) != len(ctor) {
		return 0, errors.TypeMismatch(errors.PhaseRuntime, class, "<init>",
			fmt.Sprintf("expects %d constructor arguments, got %d", len(ctor), len(args)))
	}
	base, err := r.baseState(c, args)
	if err != nil {
		return 0, err
	}

	obj := &Object{Class: class, Args: slices.Clone(args), Base: base}
	for _, e := range c.table.Entries {
		if e.Bridge != synth.DelegateForward {
			continue
		}
		if i := slices.IndexFunc(ctor, func(p decl.Param) bool { return p.Name == e.Target }); i >= 0 {
			if obj.Delegates == nil {
				obj.Delegates = make(map[string]Handle)
			}
			obj.Delegates[e.Target] = Handle(args[i])
		}
	}
	return r.heap.put(obj), nil
}

// baseState runs the super-constructor calls from c up to its native
// base and returns the state that base sees.
func (r *Runtime) baseState(c *class, args []int64) ([]int64, error) {
	for {
		if c.table.Class.Native {
			return slices.Clone(args), nil
		}
		base := c.table.Resolution.Base
		if base == nil {
			return nil, nil
		}
		args = decl.EvalAll(base.Call, args)
		next, err := r.class(base.Name)
		if err != nil {
			return nil, err
		}
		c = next
	}
}

// Object returns the state behind h.
func (r *Runtime) Object(h Handle) (*Object, bool) {
	return r.heap.get(h)
}

// Release drops h from the heap.
func (r *Runtime) Release(h Handle) {
	r.heap.drop(h)
}

// Live returns the number of objects on the heap.
func (r *Runtime) Live() int {
	return r.heap.len()
}

// Invoke calls member id on h. Members the object's class does not
// export are looked up along its base classes; a native base runs its
// native body against the object's base state.
func (r *Runtime) Invoke(ctx context.Context, h Handle, id decl.Identity, args ...uint64) ([]uint64, error) {
	obj, ok := r.heap.get(h)
	if !ok {
		return nil, errors.NotFound(errors.PhaseRuntime, "object", fmt.Sprint(h))
	}
	for name := obj.Class; ; {
		c, err := r.class(name)
		if err != nil {
			return nil, err
		}
		if e, ok := c.table.Lookup(id); ok {
			return r.call(ctx, c, h, e, args)
		}
		base := c.table.Resolution.Base
		if base == nil {
			err := errors.NotFound(errors.PhaseRuntime, "member", string(id))
			err.Class = obj.Class
			return nil, err
		}
		name = base.Name
	}
}

// Call calls the export named export on h's class.
func (r *Runtime) Call(ctx context.Context, h Handle, export string, args ...uint64) ([]uint64, error) {
	obj, ok := r.heap.get(h)
	if !ok {
		return nil, errors.NotFound(errors.PhaseRuntime, "object", fmt.Sprint(h))
	}
	c, err := r.class(obj.Class)
	if err != nil {
		return nil, err
	}
	e, ok := c.table.Export(export)
	if !ok {
		return nil, errors.NotFound(errors.PhaseRuntime, "export", export)
	}
	return r.call(ctx, c, h, e, args)
}

func (r *Runtime) call(ctx context.Context, c *class, h Handle, e driver.Entry, args []uint64) ([]uint64, error) {
	fn := c.module.ExportedFunction(e.Export)
	if fn == nil {
		return nil, errors.NotFound(errors.PhaseRuntime, "export", e.Export)
	}
	out, err := fn.Call(withFrame(ctx, c), append([]uint64{uint64(h)}, args...)...)
	if err != nil {
		var se *errors.Error
		if errors.As(err, &se) {
			return nil, se
		}
		return nil, errors.Trap(c.name(), string(e.Identity), err)
	}
	return out, nil
}
