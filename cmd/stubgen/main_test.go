package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap/zaptest"
	"gopkg.in/yaml.v3"
)

func testConfig(t *testing.T, targetName string) config {
	return config{
		classFiles: []string{
			filepath.Join("..", "..", "testdata", "lists.yaml"),
			filepath.Join("..", "..", "testdata", "native.yaml"),
		},
		target: targetName,
		log:    zaptest.NewLogger(t),
	}
}

func TestCompile(t *testing.T) {
	tables, err := compile(context.Background(), testConfig(t, "jvm"))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if len(tables) != 6 {
		t.Fatalf("tables = %d, want 6", len(tables))
	}
	if tables[0].Class.Name != "MyList" {
		t.Errorf("first table = %s", tables[0].Class.Name)
	}
}

func TestCompile_SingleClass(t *testing.T) {
	cfg := testConfig(t, "wasm")
	cfg.class = "MyIterator"
	tables, err := compile(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(tables) != 1 || tables[0].Class.Name != "MyIterator" {
		t.Fatalf("tables = %v", tables)
	}
}

func TestCompile_Errors(t *testing.T) {
	if _, err := compile(context.Background(), testConfig(t, "clr")); err == nil {
		t.Error("expected error for unknown target")
	}
	cfg := testConfig(t, "jvm")
	cfg.classFiles = []string{"missing.yaml"}
	if _, err := compile(context.Background(), cfg); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRenderTable(t *testing.T) {
	cfg := testConfig(t, "jvm")
	cfg.class = "MyList"
	tables, err := compile(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	out := renderTable(tables[0], false)
	for _, want := range []string{
		"MyList jvm: 12 user, 11 stubs, 0 bridges",
		"raise-unsupported",
		"remove(I)Ljava/lang/Object;",
		"get(index: Int): TT",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderYAML(t *testing.T) {
	cfg := testConfig(t, "js")
	cfg.class = "B"
	tables, err := compile(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	data, err := renderYAML(tables)
	if err != nil {
		t.Fatal(err)
	}
	var got []yamlTable
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(got) != 1 || len(got[0].Members) != 2 {
		t.Fatalf("got = %+v", got)
	}
	m := got[0].Members[0]
	if m.Provenance != "synthesized-bridge" || m.Bridge != "native-forward" || m.Target != "A.g()" || m.Export != "g" {
		t.Errorf("member = %+v", m)
	}
}

func TestWriteWasm(t *testing.T) {
	cfg := testConfig(t, "wasm")
	cfg.class = "MyList"
	tables, err := compile(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "mylist.wasm")
	if err := writeWasm(tables, path); err != nil {
		t.Fatalf("writeWasm: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "\x00asm") {
		t.Error("not a wasm binary")
	}

	if err := writeWasm(nil, path); err == nil {
		t.Error("expected error without a class")
	}
}

func TestBrowserModel(t *testing.T) {
	tables, err := compile(context.Background(), testConfig(t, "jvm"))
	if err != nil {
		t.Fatal(err)
	}
	m := newBrowserModel(tables)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != stateShowTable || m.selected != tables[0] {
		t.Fatalf("state = %v, selected = %v", m.state, m.selected)
	}
	if !strings.Contains(m.View(), "MyList") {
		t.Error("view does not show the table")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != stateSelectClass {
		t.Error("esc should return to the class list")
	}
}
