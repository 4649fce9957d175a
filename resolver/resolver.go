package resolver

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/wippyai/stubgen/capability"
	"github.com/wippyai/stubgen/decl"
	"github.com/wippyai/stubgen/errors"
)

// Resolver computes, per class, the members every required contract
// demands and partitions them by who provides them.
//
// Resolver holds no mutable state; one instance may resolve many classes
// concurrently.
type Resolver struct {
	syms  decl.Symbols
	table *capability.Table
	log   *zap.Logger
}

// New creates a resolver. A nil logger uses the package logger.
func New(syms decl.Symbols, table *capability.Table, log *zap.Logger) *Resolver {
	if log == nil {
		log = Logger()
	}
	return &Resolver{syms: syms, table: table, log: log}
}

// Resolve partitions the members class c must expose.
func (r *Resolver) Resolve(c *decl.Class) (*Resolution, error) {
	return r.resolve(c, nil)
}

// walk carries the per-class state of one resolution.
type walk struct {
	r         *Resolver
	class     *decl.Class
	reqs      []*Requirement
	byID      map[decl.Identity]*Requirement
	instances map[string]string
	order     []string
	coverage  map[decl.Identity][]Delegate
	provided  map[decl.Identity]bool
	native    []decl.Signature
	base      *Base
}

func (r *Resolver) resolve(c *decl.Class, path []string) (*Resolution, error) {
	if slices.Contains(path, c.Name) {
		return nil, errors.Cycle(c.Name, append(slices.Clone(path), c.Name))
	}
	path = append(slices.Clone(path), c.Name)

	w := &walk{
		r:         r,
		class:     c,
		byID:      make(map[decl.Identity]*Requirement),
		instances: make(map[string]string),
		coverage:  make(map[decl.Identity][]Delegate),
		provided:  make(map[decl.Identity]bool),
	}

	for _, st := range c.Supertypes {
		if err := w.supertype(st, path); err != nil {
			return nil, err
		}
	}

	res, err := w.partition()
	if err != nil {
		return nil, err
	}

	r.log.Debug("class resolved",
		zap.String("class", c.Name),
		zap.Int("declared", len(res.Declared)),
		zap.Int("inherited", len(res.Inherited)),
		zap.Int("delegated", len(res.Delegated)),
		zap.Int("missing", len(res.Missing)))
	return res, nil
}

func (w *walk) supertype(st decl.Supertype, path []string) error {
	name := st.Type.Name
	if ct, ok := w.r.syms.Contract(name); ok {
		if st.Call != nil {
			return errors.InvalidInput(errors.PhaseResolve,
				fmt.Sprintf("%s: contract %s takes no constructor arguments", w.class.Name, name))
		}
		if err := w.contract(ct, st.Type.Args, nil); err != nil {
			return err
		}
		if st.Delegate != "" {
			return w.delegate(ct, st.Type.Args, st.Delegate)
		}
		return nil
	}

	base, ok := w.r.syms.Class(name)
	if !ok {
		return errors.UnknownClass(w.class.Name, name)
	}
	if w.base != nil {
		return errors.InvalidInput(errors.PhaseResolve,
			fmt.Sprintf("%s: more than one base class (%s, %s)", w.class.Name, w.base.Name, name))
	}
	if st.Delegate != "" {
		return errors.InvalidInput(errors.PhaseResolve,
			fmt.Sprintf("%s: cannot delegate to class %s", w.class.Name, name))
	}
	if len(st.Call) != len(base.Ctor) {
		return errors.TypeMismatch(errors.PhaseResolve, w.class.Name, "",
			fmt.Sprintf("%s expects %d constructor arguments, got %d", name, len(base.Ctor), len(st.Call)))
	}

	w.base = &Base{
		Name:   name,
		Native: base.Native,
		Ctor:   base.Ctor,
		Call:   st.Call,
	}
	binding := decl.Bind(base.TypeParams, st.Type.Args)

	if base.Native {
		return w.nativeBase(base, binding, path)
	}

	// A compiled base resolves its own contracts; everything it exposes is
	// inherited here.
	baseRes, err := w.r.resolve(base, path)
	if err != nil {
		return err
	}
	for _, sig := range baseRes.Signatures() {
		w.provided[sig.Subst(binding).Identity()] = true
	}
	for _, bst := range base.Supertypes {
		if ct, ok := w.r.syms.Contract(bst.Type.Name); ok {
			if err := w.contract(ct, substAll(bst.Type.Args, binding), nil); err != nil {
				return err
			}
		}
	}
	return nil
}

// nativeBase records the members a native base, and its native
// ancestors, supply. The host satisfies the contracts of native classes,
// so those are not walked.
func (w *walk) nativeBase(base *decl.Class, binding decl.Binding, path []string) error {
	if slices.Contains(path, base.Name) {
		return errors.Cycle(w.class.Name, append(slices.Clone(path), base.Name))
	}
	path = append(slices.Clone(path), base.Name)

	for _, m := range base.Members {
		if !m.Body.HasBody() {
			continue
		}
		sig := m.Signature.Subst(binding)
		if w.provided[sig.Identity()] {
			continue
		}
		w.provided[sig.Identity()] = true
		w.native = append(w.native, sig)
	}

	for _, st := range base.Supertypes {
		parent, ok := w.r.syms.Class(st.Type.Name)
		if !ok {
			continue
		}
		if !parent.Native {
			return errors.InvalidInput(errors.PhaseResolve,
				fmt.Sprintf("native class %s derives from compiled class %s", base.Name, parent.Name))
		}
		if err := w.nativeBase(parent, decl.Bind(parent.TypeParams, substAll(st.Type.Args, binding)), path); err != nil {
			return err
		}
	}
	return nil
}

// contract records the members of a contract instance, its capability
// extras and, recursively, its supertypes.
func (w *walk) contract(ct *decl.Contract, args []decl.Type, stack []string) error {
	if slices.Contains(stack, ct.Name) {
		return errors.Cycle(w.class.Name, append(slices.Clone(stack), ct.Name))
	}
	stack = append(slices.Clone(stack), ct.Name)

	instance := decl.Named(ct.Name, args...).String()
	if prev, ok := w.instances[ct.Name]; ok {
		if prev != instance {
			return errors.TypeMismatch(errors.PhaseResolve, w.class.Name, "",
				fmt.Sprintf("%s required as both %s and %s", ct.Name, prev, instance))
		}
		return nil
	}
	w.instances[ct.Name] = instance
	w.order = append(w.order, instance)

	family, _ := w.r.table.Family(ct.Name)
	binding := decl.Bind(ct.TypeParams, args)

	for _, m := range ct.Members {
		w.require(m.Subst(binding), Origin{Contract: instance, Name: ct.Name, Family: family})
	}

	entry, err := w.r.table.Lookup(ct.Name)
	switch {
	case err == nil:
		for _, m := range entry.Extras {
			w.require(m.Subst(binding), Origin{Contract: instance, Name: ct.Name, Family: entry.Family, Extra: true})
		}
	case errors.IsUnknownContract(err):
		w.r.log.Debug("no capability entry",
			zap.String("class", w.class.Name),
			zap.String("contract", ct.Name))
	default:
		return err
	}

	for _, st := range ct.Supertypes {
		sup, ok := w.r.syms.Contract(st.Name)
		if !ok {
			return errors.UnknownClass(w.class.Name, st.Name)
		}
		if err := w.contract(sup, substAll(st.Args, binding), stack); err != nil {
			return err
		}
	}
	return nil
}

func (w *walk) require(sig decl.Signature, o Origin) {
	id := sig.Identity()
	req, ok := w.byID[id]
	if !ok {
		req = &Requirement{Signature: sig, Identity: id}
		w.byID[id] = req
		w.reqs = append(w.reqs, req)
	}
	for _, have := range req.Origins {
		if have.Contract == o.Contract && have.Extra == o.Extra {
			return
		}
	}
	req.Origins = append(req.Origins, o)
}

// delegate marks every member of the delegated contract, transitively, as
// covered by expr. Capability extras are not covered.
func (w *walk) delegate(ct *decl.Contract, args []decl.Type, expr string) error {
	seen := make(map[string]bool)
	var visit func(c *decl.Contract, args []decl.Type) error
	visit = func(c *decl.Contract, args []decl.Type) error {
		if seen[c.Name] {
			return nil
		}
		seen[c.Name] = true
		b := decl.Bind(c.TypeParams, args)
		for _, m := range c.Members {
			id := m.Subst(b).Identity()
			if !slices.ContainsFunc(w.coverage[id], func(d Delegate) bool { return d.Expr == expr && d.Contract == ct.Name }) {
				w.coverage[id] = append(w.coverage[id], Delegate{Expr: expr, Contract: ct.Name})
			}
		}
		for _, st := range c.Supertypes {
			sup, ok := w.r.syms.Contract(st.Name)
			if !ok {
				return errors.UnknownClass(w.class.Name, st.Name)
			}
			if err := visit(sup, substAll(st.Args, b)); err != nil {
				return err
			}
		}
		return nil
	}
	return visit(ct, args)
}

func (w *walk) partition() (*Resolution, error) {
	c := w.class
	res := &Resolution{
		Class:     c,
		Base:      w.base,
		Contracts: w.order,
	}

	members := make(map[decl.Identity]decl.Member, len(c.Members))
	loose := make(map[decl.Identity][]decl.Member, len(c.Members))
	for _, m := range c.Members {
		id := m.Identity()
		if _, dup := members[id]; dup {
			return nil, errors.DuplicateMember(c.Name, string(id))
		}
		members[id] = m
		lid := m.LooseIdentity()
		loose[lid] = append(loose[lid], m)
	}

	used := make(map[decl.Identity]bool)
	for _, req := range w.reqs {
		r := *req
		if m, ok := members[r.Identity]; ok && m.Body.HasBody() {
			res.Declared = append(res.Declared, Declared{Requirement: r, Member: m})
			used[r.Identity] = true
			continue
		}
		if cands := loose[r.Signature.LooseIdentity()]; len(cands) == 1 && cands[0].Body.HasBody() {
			m := cands[0]
			// A member that is itself required only satisfies its own identity.
			if _, exact := w.byID[m.Identity()]; !exact {
				res.Declared = append(res.Declared, Declared{Requirement: r, Member: m, Variance: true})
				used[m.Identity()] = true
				continue
			}
		}
		if w.provided[r.Identity] {
			inh := Inherited{Requirement: r, Base: w.base.Name, Native: w.base.Native}
			res.Inherited = append(res.Inherited, inh)
			continue
		}
		if ds := w.coverage[r.Identity]; len(ds) > 0 {
			res.Delegated = append(res.Delegated, Delegated{Requirement: r, Delegates: slices.Clone(ds)})
			continue
		}
		res.Missing = append(res.Missing, r)
	}

	required := func(id decl.Identity) bool {
		_, ok := w.byID[id]
		return ok
	}

	// Members beyond any contract.
	for _, m := range c.Members {
		id := m.Identity()
		if required(id) || used[id] {
			continue
		}
		r := Requirement{Signature: m.Signature, Identity: id}
		switch {
		case m.Body.HasBody():
			res.Declared = append(res.Declared, Declared{Requirement: r, Member: m})
		case w.provided[id]:
			res.Inherited = append(res.Inherited, Inherited{Requirement: r, Base: w.base.Name, Native: w.base.Native})
		default:
			// Synthesis only fills contract requirements.
			return nil, errors.AbstractMember(c.Name, string(id))
		}
	}

	// Native base members no contract asks for still resolve through the
	// base.
	for _, sig := range w.native {
		id := sig.Identity()
		if required(id) {
			continue
		}
		if _, ok := members[id]; ok {
			continue
		}
		res.Inherited = append(res.Inherited, Inherited{
			Requirement: Requirement{Signature: sig, Identity: id},
			Base:        w.base.Name,
			Native:      true,
		})
	}

	return res, nil
}

func substAll(ts []decl.Type, b decl.Binding) []decl.Type {
	out := make([]decl.Type, len(ts))
	for i, t := range ts {
		out[i] = t.Subst(b)
	}
	return out
}
