package decl

import (
	"fmt"

	"github.com/wippyai/stubgen/errors"
)

// Symbols is the read-only view of declarations the resolver consumes.
type Symbols interface {
	Contract(name string) (*Contract, bool)
	Class(name string) (*Class, bool)
}

// Universe is an in-memory symbol table. It is filled once and then only
// read, so it is safe for concurrent lookups after loading.
type Universe struct {
	contracts     map[string]*Contract
	classes       map[string]*Class
	contractOrder []string
	classOrder    []string
}

var _ Symbols = (*Universe)(nil)

// NewUniverse returns an empty symbol table.
func NewUniverse() *Universe {
	return &Universe{
		contracts: make(map[string]*Contract),
		classes:   make(map[string]*Class),
	}
}

// AddContract registers a contract. Names are unique across contracts and
// classes.
func (u *Universe) AddContract(c *Contract) error {
	if err := u.checkName(c.Name); err != nil {
		return err
	}
	u.contracts[c.Name] = c
	u.contractOrder = append(u.contractOrder, c.Name)
	return nil
}

// AddClass registers a class.
func (u *Universe) AddClass(c *Class) error {
	if err := u.checkName(c.Name); err != nil {
		return err
	}
	u.classes[c.Name] = c
	u.classOrder = append(u.classOrder, c.Name)
	return nil
}

func (u *Universe) checkName(name string) error {
	if name == "" {
		return errors.InvalidInput(errors.PhaseConfig, "declaration without a name")
	}
	if _, ok := u.contracts[name]; ok {
		return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("%q declared twice", name))
	}
	if _, ok := u.classes[name]; ok {
		return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("%q declared twice", name))
	}
	return nil
}

// Contract looks up a contract by name.
func (u *Universe) Contract(name string) (*Contract, bool) {
	c, ok := u.contracts[name]
	return c, ok
}

// Class looks up a class by name.
func (u *Universe) Class(name string) (*Class, bool) {
	c, ok := u.classes[name]
	return c, ok
}

// Contracts returns contracts in registration order.
func (u *Universe) Contracts() []*Contract {
	out := make([]*Contract, len(u.contractOrder))
	for i, n := range u.contractOrder {
		out[i] = u.contracts[n]
	}
	return out
}

// Classes returns classes in registration order.
func (u *Universe) Classes() []*Class {
	out := make([]*Class, len(u.classOrder))
	for i, n := range u.classOrder {
		out[i] = u.classes[n]
	}
	return out
}

// Merge adds every declaration of o that u does not already have.
// Contracts present in both are kept from u.
func (u *Universe) Merge(o *Universe) error {
	for _, c := range o.Contracts() {
		if _, ok := u.contracts[c.Name]; ok {
			continue
		}
		if err := u.AddContract(c); err != nil {
			return err
		}
	}
	for _, c := range o.Classes() {
		if err := u.AddClass(c); err != nil {
			return err
		}
	}
	return nil
}
