package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/stubgen/driver"
	"github.com/wippyai/stubgen/synth"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	stubStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	bridgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	descStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func styleFor(p synth.Provenance) lipgloss.Style {
	switch p {
	case synth.Stub:
		return stubStyle
	case synth.Bridge:
		return bridgeStyle
	}
	return userStyle
}

// renderTable prints one member table. Styling is applied only when the
// output is a terminal.
func renderTable(t *driver.Table, styled bool) string {
	render := func(s lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return s.Render(text)
	}

	var b strings.Builder
	b.WriteString(render(titleStyle, t.Class.Name))
	fmt.Fprintf(&b, " %s: %d user, %d stubs, %d bridges\n",
		t.Profile.Name, t.Count(synth.User), t.Count(synth.Stub), t.Count(synth.Bridge))

	width := 0
	for _, e := range t.Entries {
		width = max(width, len(e.Signature.String()))
	}
	for _, e := range t.Entries {
		sig := e.Signature.String()
		fmt.Fprintf(&b, "  %s%s  %-18s %s\n",
			sig, strings.Repeat(" ", width-len(sig)),
			render(styleFor(e.Provenance), e.Label()),
			render(descStyle, e.Descriptor.Text))
		for _, a := range e.Aliases {
			fmt.Fprintf(&b, "    %s\n", render(descStyle, "folds "+string(a)))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

type yamlEntry struct {
	Member     string   `yaml:"member"`
	Provenance string   `yaml:"provenance"`
	Policy     string   `yaml:"policy,omitempty"`
	Bridge     string   `yaml:"bridge,omitempty"`
	Target     string   `yaml:"target,omitempty"`
	Descriptor string   `yaml:"descriptor"`
	Export     string   `yaml:"export"`
	Contracts  []string `yaml:"contracts,omitempty"`
	Aliases    []string `yaml:"aliases,omitempty"`
}

type yamlTable struct {
	Class   string      `yaml:"class"`
	Target  string      `yaml:"target"`
	Members []yamlEntry `yaml:"members"`
}

func renderYAML(tables []*driver.Table) ([]byte, error) {
	out := make([]yamlTable, 0, len(tables))
	for _, t := range tables {
		if t == nil {
			continue
		}
		yt := yamlTable{Class: t.Class.Name, Target: t.Profile.Name}
		for _, e := range t.Entries {
			ye := yamlEntry{
				Member:     e.Signature.String(),
				Provenance: e.Provenance.String(),
				Policy:     string(e.Policy),
				Bridge:     e.Bridge.String(),
				Target:     e.Target,
				Descriptor: e.Descriptor.Text,
				Export:     e.Export,
				Contracts:  e.Contracts,
			}
			for _, a := range e.Aliases {
				ye.Aliases = append(ye.Aliases, string(a))
			}
			yt.Members = append(yt.Members, ye)
		}
		out = append(out, yt)
	}
	return yaml.Marshal(out)
}
