package driver

import (
	"slices"

	"github.com/wippyai/stubgen/capability"
	"github.com/wippyai/stubgen/decl"
	"github.com/wippyai/stubgen/erasure"
	"github.com/wippyai/stubgen/resolver"
	"github.com/wippyai/stubgen/synth"
	"github.com/wippyai/stubgen/target"
)

// Entry is one member of a compiled class as the emitter sees it.
type Entry struct {
	Signature  decl.Signature
	Identity   decl.Identity
	Provenance synth.Provenance
	Policy     capability.Policy
	Bridge     synth.BridgeKind
	Target     string
	Contracts  []string
	Native     bool
	Descriptor erasure.Descriptor
	// Export is the name the member is emitted under.
	Export string
	// Aliases are variance-passthrough identities folded into the entry.
	Aliases []decl.Identity
}

// Label renders the kind of body behind the entry.
func (e Entry) Label() string {
	return e.member().Label()
}

func (e Entry) member() synth.Member {
	return synth.Member{
		Signature:  e.Signature,
		Identity:   e.Identity,
		Provenance: e.Provenance,
		Policy:     e.Policy,
		Bridge:     e.Bridge,
		Target:     e.Target,
		Contracts:  e.Contracts,
		Native:     e.Native,
	}
}

func newEntry(e erasure.Erased) Entry {
	return Entry{
		Signature:  e.Signature,
		Identity:   e.Identity,
		Provenance: e.Provenance,
		Policy:     e.Policy,
		Bridge:     e.Bridge,
		Target:     e.Target,
		Contracts:  e.Contracts,
		Native:     e.Native,
		Descriptor: e.Descriptor,
		Export:     e.Descriptor.Key,
		Aliases:    e.Aliases,
	}
}

// Table is the resolved member table of one class, ordered by identity.
// Tables are immutable once returned.
type Table struct {
	Class      *decl.Class
	Profile    target.Profile
	Resolution *resolver.Resolution
	Entries    []Entry
}

// Lookup finds the entry for id, following folded aliases.
func (t *Table) Lookup(id decl.Identity) (Entry, bool) {
	for _, e := range t.Entries {
		if e.Identity == id || slices.Contains(e.Aliases, id) {
			return e, true
		}
	}
	return Entry{}, false
}

// Export finds the entry emitted under name.
func (t *Table) Export(name string) (Entry, bool) {
	for _, e := range t.Entries {
		if e.Export == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Count returns the number of entries with provenance p.
func (t *Table) Count(p synth.Provenance) int {
	n := 0
	for _, e := range t.Entries {
		if e.Provenance == p {
			n++
		}
	}
	return n
}
