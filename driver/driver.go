package driver

import (
	"context"
	"runtime"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wippyai/stubgen/capability"
	"github.com/wippyai/stubgen/decl"
	"github.com/wippyai/stubgen/erasure"
	"github.com/wippyai/stubgen/errors"
	"github.com/wippyai/stubgen/resolver"
	"github.com/wippyai/stubgen/synth"
	"github.com/wippyai/stubgen/target"
)

// Options configures a Compiler.
type Options struct {
	// Target names the target profile.
	Target string
	// Parallelism bounds CompileAll. Zero or less means GOMAXPROCS.
	Parallelism int
	// Logger overrides the package logger.
	Logger *zap.Logger
}

// DefaultOptions returns the default compiler configuration.
func DefaultOptions() Options {
	return Options{
		Target:      "jvm",
		Parallelism: runtime.GOMAXPROCS(0),
	}
}

// Compiler runs resolution, synthesis and erasure for classes of one
// symbol table. Safe for concurrent use.
type Compiler struct {
	syms     decl.Symbols
	table    *capability.Table
	profile  target.Profile
	resolver *resolver.Resolver
	options  Options
	log      *zap.Logger
}

// New creates a compiler for the target named in opts.
func New(syms decl.Symbols, table *capability.Table, opts Options) (*Compiler, error) {
	if syms == nil || table == nil {
		return nil, errors.InvalidInput(errors.PhaseConfig, "symbols and capability table are required")
	}
	profile, err := target.Lookup(opts.Target)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = Logger()
	}
	log = log.With(zap.String("target", profile.Name))
	return &Compiler{
		syms:     syms,
		table:    table,
		profile:  profile,
		resolver: resolver.New(syms, table, log),
		options:  opts,
		log:      log,
	}, nil
}

// Profile returns the target profile.
func (c *Compiler) Profile() target.Profile {
	return c.profile
}

// Options returns the configuration.
func (c *Compiler) Options() Options {
	return c.options
}

// Compile builds the member table of class.
func (c *Compiler) Compile(class *decl.Class) (*Table, error) {
	res, err := c.resolver.Resolve(class)
	if err != nil {
		return nil, err
	}
	members, err := synth.Synthesize(res, c.table, synth.Options{InheritsNative: c.profile.InheritsNative})
	if err != nil {
		return nil, err
	}
	erased, folded, err := erasure.Apply(c.profile.Flavor, class, members)
	if err != nil {
		return nil, err
	}

	log := c.log.With(zap.String("class", class.Name))
	for _, m := range folded {
		log.Debug("variance bridge folded",
			zap.String("member", string(m.Identity)),
			zap.String("into", m.Target))
	}

	t := &Table{
		Class:      class,
		Profile:    c.profile,
		Resolution: res,
		Entries:    make([]Entry, 0, len(erased)),
	}
	for _, e := range erased {
		entry := newEntry(e)
		switch entry.Provenance {
		case synth.Stub:
			log.Debug("stub emitted",
				zap.String("member", string(entry.Identity)),
				zap.String("policy", string(entry.Policy)),
				zap.Strings("contracts", entry.Contracts))
		case synth.Bridge:
			log.Debug("bridge emitted",
				zap.String("member", string(entry.Identity)),
				zap.Stringer("kind", entry.Bridge),
				zap.String("target", entry.Target))
		}
		t.Entries = append(t.Entries, entry)
	}
	return t, nil
}

// CompileName looks class up by name and compiles it.
func (c *Compiler) CompileName(name string) (*Table, error) {
	class, ok := c.syms.Class(name)
	if !ok {
		return nil, errors.NotFound(errors.PhaseResolve, "class", name)
	}
	return c.Compile(class)
}

// CompileAll compiles classes concurrently. Tables come back in input
// order; a failed class leaves a nil slot. Every failure is reported,
// combined into one error.
func (c *Compiler) CompileAll(ctx context.Context, classes []*decl.Class) ([]*Table, error) {
	tables := make([]*Table, len(classes))
	errs := make([]error, len(classes))

	limit := c.options.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, class := range classes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			tables[i], errs[i] = c.Compile(class)
			return nil
		})
	}
	_ = g.Wait()

	err := multierr.Combine(errs...)
	if err != nil {
		c.log.Debug("compile failed", zap.Int("errors", len(multierr.Errors(err))))
	}
	return tables, err
}
