package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/stubgen/capability"
	"github.com/wippyai/stubgen/decl"
	"github.com/wippyai/stubgen/driver"
	"github.com/wippyai/stubgen/lower"
	"github.com/wippyai/stubgen/target"
)

func main() {
	var (
		classFiles  = flag.String("classes", "", "Class descriptor YAML files (comma-separated)")
		tableFile   = flag.String("table", "", "Capability table YAML (default: builtin table)")
		targetName  = flag.String("target", "jvm", "Target profile: "+strings.Join(target.Names(), ", "))
		className   = flag.String("class", "", "Compile only this class")
		parallelism = flag.Int("j", 0, "Classes compiled in parallel (0: GOMAXPROCS)")
		asYAML      = flag.Bool("yaml", false, "Print member tables as YAML")
		wasmOut     = flag.String("wasm", "", "Write the lowered module of -class to this file (wasm target)")
		verbose     = flag.Bool("v", false, "Debug logging to stderr")
		interactive = flag.Bool("i", false, "Interactive member table browser")
	)
	flag.Parse()

	if *classFiles == "" {
		fmt.Fprintln(os.Stderr, "Usage: stubgen -classes <file.yaml>[,...] [-target jvm|js|wasm] [-class Name]")
		fmt.Fprintln(os.Stderr, "       stubgen -classes <file.yaml> -yaml")
		fmt.Fprintln(os.Stderr, "       stubgen -classes <file.yaml> -target wasm -class Name -wasm out.wasm")
		fmt.Fprintln(os.Stderr, "       stubgen -classes <file.yaml> -i  (interactive mode)")
		os.Exit(1)
	}

	log := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err == nil {
			log = l
			defer func() { _ = log.Sync() }()
		}
	}

	cfg := config{
		classFiles:  strings.Split(*classFiles, ","),
		tableFile:   *tableFile,
		target:      *targetName,
		class:       *className,
		parallelism: *parallelism,
		log:         log,
	}

	tables, err := compile(context.Background(), cfg)
	if err != nil && len(tables) == 0 {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := runInteractive(tables); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *wasmOut != "" {
		if err := writeWasm(tables, *wasmOut); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *asYAML {
		out, yerr := renderYAML(tables)
		if yerr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", yerr)
			os.Exit(1)
		}
		os.Stdout.Write(out)
	} else {
		styled := term.IsTerminal(int(os.Stdout.Fd()))
		for _, t := range tables {
			if t != nil {
				fmt.Println(renderTable(t, styled))
			}
		}
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type config struct {
	classFiles  []string
	tableFile   string
	target      string
	class       string
	parallelism int
	log         *zap.Logger
}

// compile loads the descriptors and compiles the selected classes. On a
// partial failure the successful tables are returned with the error.
func compile(ctx context.Context, cfg config) ([]*driver.Table, error) {
	var (
		tbl *capability.Table
		err error
	)
	if cfg.tableFile == "" {
		tbl, err = capability.Builtin()
	} else {
		tbl, err = capability.Load(cfg.tableFile, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("capability table: %w", err)
	}

	u := decl.NewUniverse()
	if err := tbl.Install(u); err != nil {
		return nil, err
	}
	var classes []*decl.Class
	for _, f := range cfg.classFiles {
		loaded, err := decl.LoadFile(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
		if err := u.Merge(loaded); err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
		classes = append(classes, loaded.Classes()...)
	}

	opts := driver.DefaultOptions()
	opts.Target = cfg.target
	opts.Logger = cfg.log
	if cfg.parallelism > 0 {
		opts.Parallelism = cfg.parallelism
	}
	c, err := driver.New(u, tbl, opts)
	if err != nil {
		return nil, err
	}

	if cfg.class != "" {
		t, err := c.CompileName(cfg.class)
		if err != nil {
			return nil, err
		}
		return []*driver.Table{t}, nil
	}

	tables, err := c.CompileAll(ctx, classes)
	if err != nil {
		var ok []*driver.Table
		for _, t := range tables {
			if t != nil {
				ok = append(ok, t)
			}
		}
		return ok, err
	}
	return tables, nil
}

func writeWasm(tables []*driver.Table, path string) error {
	if len(tables) != 1 {
		return fmt.Errorf("-wasm needs exactly one class, use -class")
	}
	m, err := lower.Lower(tables[0])
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, m.Binary, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("%s: %d exports, %d host imports, %d faulting stubs\n",
		path, len(m.Exports), len(m.Imports), len(m.Faults))
	return nil
}
