package decl

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/stubgen/errors"
)

// File is the YAML layout of a descriptor file.
type File struct {
	Contracts []ContractSpec `yaml:"contracts"`
	Classes   []ClassSpec    `yaml:"classes"`
}

// ContractSpec is the YAML form of a Contract.
type ContractSpec struct {
	Name       string   `yaml:"name"`
	Params     []string `yaml:"params,omitempty"`
	Supertypes []string `yaml:"supertypes,omitempty"`
	Members    []string `yaml:"members,omitempty"`
}

// ClassSpec is the YAML form of a Class.
type ClassSpec struct {
	Name       string       `yaml:"name"`
	Params     []string     `yaml:"params,omitempty"`
	Native     bool         `yaml:"native,omitempty"`
	Ctor       []string     `yaml:"ctor,omitempty"`
	Supertypes []string     `yaml:"supertypes,omitempty"`
	Members    []MemberSpec `yaml:"members,omitempty"`
}

// MemberSpec is a class member. The scalar form "sig" is shorthand for an
// implemented member (native in native classes).
type MemberSpec struct {
	Sig  string `yaml:"sig"`
	Body string `yaml:"body,omitempty"`
}

// UnmarshalYAML accepts both the scalar and the mapping form.
func (m *MemberSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		m.Sig = node.Value
		return nil
	}
	type plain MemberSpec
	return node.Decode((*plain)(m))
}

// Build parses the contract's type expressions.
func (s ContractSpec) Build() (*Contract, error) {
	c := &Contract{Name: s.Name, TypeParams: s.Params}
	for _, st := range s.Supertypes {
		t, err := ParseType(st, s.Params)
		if err != nil {
			return nil, err
		}
		c.Supertypes = append(c.Supertypes, t)
	}
	for _, m := range s.Members {
		sig, err := ParseSignature(m, s.Params)
		if err != nil {
			return nil, err
		}
		c.Members = append(c.Members, sig)
	}
	return c, nil
}

// Build parses the class's type expressions.
func (s ClassSpec) Build() (*Class, error) {
	c := &Class{Name: s.Name, TypeParams: s.Params, Native: s.Native}
	for _, p := range s.Ctor {
		prm, err := ParseParam(p, s.Params)
		if err != nil {
			return nil, err
		}
		c.Ctor = append(c.Ctor, prm)
	}
	for _, st := range s.Supertypes {
		t, err := ParseSupertype(st, s.Params, c.Ctor)
		if err != nil {
			return nil, err
		}
		c.Supertypes = append(c.Supertypes, t)
	}
	for _, m := range s.Members {
		sig, err := ParseSignature(m.Sig, s.Params)
		if err != nil {
			return nil, err
		}
		body, err := parseBody(m.Body, s.Native)
		if err != nil {
			return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Class(s.Name).
				Member(m.Sig).
				Cause(err).
				Build()
		}
		c.Members = append(c.Members, Member{Signature: sig, Body: body})
	}
	return c, nil
}

func parseBody(s string, native bool) (Body, error) {
	switch strings.ToLower(s) {
	case "":
		if native {
			return BodyNative, nil
		}
		return BodyImplemented, nil
	case "implemented":
		return BodyImplemented, nil
	case "native":
		return BodyNative, nil
	case "absent", "abstract":
		return BodyAbsent, nil
	}
	return BodyAbsent, fmt.Errorf("unknown body marker %q", s)
}

// Load adds the declarations of a YAML document to u.
func (u *Universe) Load(data []byte) error {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return errors.ParseFailed("descriptor file", err)
	}
	for _, cs := range f.Contracts {
		c, err := cs.Build()
		if err != nil {
			return err
		}
		if err := u.AddContract(c); err != nil {
			return err
		}
	}
	for _, cs := range f.Classes {
		c, err := cs.Build()
		if err != nil {
			return err
		}
		if err := u.AddClass(c); err != nil {
			return err
		}
	}
	return nil
}

// Parse builds a universe from a YAML document.
func Parse(data []byte) (*Universe, error) {
	u := NewUniverse()
	if err := u.Load(data); err != nil {
		return nil, err
	}
	return u, nil
}

// LoadFile builds a universe from a YAML descriptor file.
func LoadFile(path string) (*Universe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "read "+path)
	}
	return Parse(data)
}
