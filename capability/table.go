package capability

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/stubgen/decl"
	"github.com/wippyai/stubgen/errors"
)

//go:embed builtins.yaml
var builtinsYAML []byte

// Entry maps a read-only source contract to its platform counterpart.
type Entry struct {
	Source string
	Target string
	Family string
	// Extras are the members the target has and the source lacks,
	// expressed in the source contract's type parameters.
	Extras []decl.Signature
}

func (e Entry) clone() Entry {
	out := e
	out.Extras = make([]decl.Signature, len(e.Extras))
	for i, s := range e.Extras {
		out.Extras[i] = s.Clone()
	}
	return out
}

// Config is the YAML layout of a capability table.
type Config struct {
	Contracts []decl.ContractSpec   `yaml:"contracts"`
	Families  map[string]FamilySpec `yaml:"families"`
	Entries   []EntrySpec           `yaml:"entries"`
	// Builtins merges the embedded table underneath this one.
	Builtins bool `yaml:"builtins"`
}

// FamilySpec holds the policies of one contract family.
type FamilySpec struct {
	Default string            `yaml:"default"`
	Members map[string]string `yaml:"members"`
}

// EntrySpec is the YAML form of an Entry.
type EntrySpec struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
	Family string `yaml:"family"`
}

// Table is the immutable capability relation plus the stub policy table.
// It is safe for concurrent use.
type Table struct {
	entries   map[string]Entry
	targets   map[string]string
	families  map[string]family
	contracts *decl.Universe
}

// Build validates cfg and precomputes the extra members of every entry.
// Contracts are looked up in cfg first, then in syms, which may be nil.
func Build(cfg Config, syms decl.Symbols) (*Table, error) {
	if cfg.Builtins {
		base, err := parseConfig(builtinsYAML)
		if err != nil {
			return nil, err
		}
		cfg = mergeConfig(base, cfg)
	}

	t := &Table{
		entries:   make(map[string]Entry, len(cfg.Entries)),
		targets:   make(map[string]string, len(cfg.Entries)),
		families:  make(map[string]family, len(cfg.Families)),
		contracts: decl.NewUniverse(),
	}

	for _, cs := range cfg.Contracts {
		c, err := cs.Build()
		if err != nil {
			return nil, err
		}
		if err := t.contracts.AddContract(c); err != nil {
			return nil, err
		}
	}

	for name, fs := range cfg.Families {
		f := family{members: make(map[string]Policy, len(fs.Members))}
		if fs.Default != "" {
			p, err := ParsePolicy(fs.Default)
			if err != nil {
				return nil, err
			}
			f.def = p
		}
		for member, ps := range fs.Members {
			p, err := ParsePolicy(ps)
			if err != nil {
				return nil, err
			}
			f.members[member] = p
		}
		t.families[name] = f
	}

	lookup := func(name string) (*decl.Contract, bool) {
		if c, ok := t.contracts.Contract(name); ok {
			return c, true
		}
		if syms != nil {
			return syms.Contract(name)
		}
		return nil, false
	}

	for _, es := range cfg.Entries {
		if _, dup := t.entries[es.Source]; dup {
			return nil, errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("contract %q mapped twice", es.Source))
		}
		src, ok := lookup(es.Source)
		if !ok {
			return nil, errors.NotFound(errors.PhaseConfig, "source contract", es.Source)
		}
		dst, ok := lookup(es.Target)
		if !ok {
			return nil, errors.NotFound(errors.PhaseConfig, "target contract", es.Target)
		}
		if len(src.TypeParams) != len(dst.TypeParams) {
			return nil, errors.InvalidInput(errors.PhaseConfig,
				fmt.Sprintf("%s and %s differ in type parameter count", src.Name, dst.Name))
		}
		if es.Family != "" {
			if _, ok := t.families[es.Family]; !ok {
				return nil, errors.NotFound(errors.PhaseConfig, "family", es.Family)
			}
		}

		extras, err := extraMembers(src, dst, lookup)
		if err != nil {
			return nil, err
		}
		t.entries[es.Source] = Entry{
			Source: src.Name,
			Target: dst.Name,
			Family: es.Family,
			Extras: extras,
		}
		t.targets[es.Target] = es.Family
	}

	return t, nil
}

// extraMembers returns the members of dst, transitively, whose identity
// src does not have, rewritten into src's type parameters.
func extraMembers(src, dst *decl.Contract, lookup func(string) (*decl.Contract, bool)) ([]decl.Signature, error) {
	have := make(map[decl.Identity]bool)
	srcArgs := make([]decl.Type, len(src.TypeParams))
	for i, p := range src.TypeParams {
		srcArgs[i] = decl.TypeParam(p)
	}

	var srcMembers []decl.Signature
	if err := collectMembers(src, srcArgs, lookup, map[string]bool{}, &srcMembers); err != nil {
		return nil, err
	}
	for _, s := range srcMembers {
		have[s.Identity()] = true
	}

	var dstMembers []decl.Signature
	if err := collectMembers(dst, srcArgs, lookup, map[string]bool{}, &dstMembers); err != nil {
		return nil, err
	}

	var extras []decl.Signature
	for _, s := range dstMembers {
		id := s.Identity()
		if have[id] {
			continue
		}
		have[id] = true
		extras = append(extras, s)
	}
	return extras, nil
}

func collectMembers(c *decl.Contract, args []decl.Type, lookup func(string) (*decl.Contract, bool), seen map[string]bool, out *[]decl.Signature) error {
	if seen[c.Name] {
		return nil
	}
	seen[c.Name] = true

	b := decl.Bind(c.TypeParams, args)
	for _, m := range c.Members {
		*out = append(*out, m.Subst(b))
	}
	for _, st := range c.Supertypes {
		sup, ok := lookup(st.Name)
		if !ok {
			return errors.NotFound(errors.PhaseConfig, "contract", st.Name)
		}
		supArgs := make([]decl.Type, len(st.Args))
		for i, a := range st.Args {
			supArgs[i] = a.Subst(b)
		}
		if err := collectMembers(sup, supArgs, lookup, seen, out); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the entry for a source contract. A miss is an
// unknown_contract error, which callers treat as "nothing to bridge".
func (t *Table) Lookup(source string) (Entry, error) {
	e, ok := t.entries[source]
	if !ok {
		return Entry{}, errors.UnknownContract(source)
	}
	return e.clone(), nil
}

// Family returns the family of a contract that is either side of an entry.
func (t *Table) Family(contract string) (string, bool) {
	if e, ok := t.entries[contract]; ok {
		return e.Family, true
	}
	f, ok := t.targets[contract]
	return f, ok
}

// Policy returns the stub policy for a member of a contract family.
func (t *Table) Policy(family, member string) Policy {
	if f, ok := t.families[family]; ok {
		if p, ok := f.policy(member); ok {
			return p
		}
	}
	return DefaultPolicy
}

// Sources returns the mapped source contracts, sorted.
func (t *Table) Sources() []string {
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Contracts returns the contracts the table declares itself.
func (t *Table) Contracts() []*decl.Contract {
	return t.contracts.Contracts()
}

// Install adds the table's contracts to u, keeping any u already has.
func (t *Table) Install(u *decl.Universe) error {
	return u.Merge(t.contracts)
}

func parseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.ParseFailed("capability table", err)
	}
	return cfg, nil
}

// mergeConfig layers over on top of base. Entries and contracts of over
// replace those of base with the same name.
func mergeConfig(base, over Config) Config {
	out := Config{Families: make(map[string]FamilySpec)}

	overContracts := make(map[string]bool, len(over.Contracts))
	for _, c := range over.Contracts {
		overContracts[c.Name] = true
	}
	for _, c := range base.Contracts {
		if !overContracts[c.Name] {
			out.Contracts = append(out.Contracts, c)
		}
	}
	out.Contracts = append(out.Contracts, over.Contracts...)

	for name, f := range base.Families {
		out.Families[name] = f
	}
	for name, f := range over.Families {
		out.Families[name] = f
	}

	overEntries := make(map[string]bool, len(over.Entries))
	for _, e := range over.Entries {
		overEntries[e.Source] = true
	}
	for _, e := range base.Entries {
		if !overEntries[e.Source] {
			out.Entries = append(out.Entries, e)
		}
	}
	out.Entries = append(out.Entries, over.Entries...)
	return out
}

// Parse builds a table from a YAML document.
func Parse(data []byte, syms decl.Symbols) (*Table, error) {
	cfg, err := parseConfig(data)
	if err != nil {
		return nil, err
	}
	return Build(cfg, syms)
}

// Load builds a table from a YAML file.
func Load(path string, syms decl.Symbols) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "read "+path)
	}
	return Parse(data, syms)
}

var builtin = sync.OnceValues(func() (*Table, error) {
	return Parse(builtinsYAML, nil)
})

// Builtin returns the embedded table. It is built once per process.
func Builtin() (*Table, error) {
	return builtin()
}
