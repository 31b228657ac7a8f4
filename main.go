// Command rct grows mass-spring networks for robot arms from a growth DSL.
//
// Usage:
//
//	rct develop -grammar FILE -seed FILE [-out DIR] [-rand N] [-dxf FILE] [-svg FILE] [-save NAME]
//	rct script FILE [-out DIR]
//	rct serve
//	rct load ID [-out DIR] [-dxf FILE] [-svg FILE]
//	rct import DIR [-save NAME] [-dxf FILE] [-svg FILE]
//	rct list
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/chazu/rct/pkg/export"
	"github.com/chazu/rct/pkg/graph"
	"github.com/chazu/rct/pkg/growth"
	"github.com/chazu/rct/pkg/render"
	"github.com/chazu/rct/pkg/render/sdfx"
	"github.com/chazu/rct/pkg/server"
	"github.com/chazu/rct/pkg/store"
)

const usage = `usage:
  rct develop -grammar FILE -seed FILE [-out DIR] [-rand N] [-dxf FILE] [-svg FILE] [-save NAME]
  rct script FILE [-out DIR]
  rct serve
  rct load ID [-out DIR] [-dxf FILE] [-svg FILE]
  rct import DIR [-save NAME] [-dxf FILE] [-svg FILE]
  rct list`

var errUsage = errors.New(usage)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg Config, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "develop":
		return runDevelop(ctx, cfg, args[1:], stdout)
	case "script":
		return runScript(cfg, args[1:], stdout)
	case "serve":
		return runServe(ctx, cfg)
	case "load":
		return runLoad(ctx, cfg, args[1:])
	case "import":
		return runImport(ctx, cfg, args[1:], stdout)
	case "list":
		return runList(ctx, cfg, stdout)
	}
	return errUsage
}

func runDevelop(ctx context.Context, cfg Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("develop", flag.ContinueOnError)
	grammarPath := fs.String("grammar", "", "DSL file")
	seedPath := fs.String("seed", "", "file holding the seed string")
	out := fs.String("out", "", "directory for masses.csv and connectionMap.csv")
	randSeed := fs.String("rand", "", "random generator seed")
	dxf := fs.String("dxf", "", "DXF drawing to write")
	svg := fs.String("svg", "", "SVG drawing to write")
	save := fs.String("save", "", "store the network under this name")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *grammarPath == "" || *seedPath == "" {
		return errUsage
	}

	dsl, err := os.ReadFile(*grammarPath)
	if err != nil {
		return fmt.Errorf("failed to read grammar: %w", err)
	}
	seedText, err := os.ReadFile(*seedPath)
	if err != nil {
		return fmt.Errorf("failed to read seed: %w", err)
	}
	seed := strings.TrimSpace(string(seedText))

	if *randSeed != "" {
		n, err := strconv.ParseInt(*randSeed, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid -rand %q: %w", *randSeed, err)
		}
		cfg.Seed = &n
	}

	result := NewApp(cfg).GrowRequest(growth.Request{DSL: string(dsl), Seed: seed})
	for _, w := range result.Warnings {
		log.Printf("%s %d: %s", w.Stage, w.Line, w.Message)
	}

	g := result.Graph()
	if err := writeOutputs(g, *out, *dxf, *svg); err != nil {
		return err
	}

	if *save != "" {
		st, err := store.Open(ctx, cfg.DBPath)
		if err != nil {
			return err
		}
		defer st.Close()
		id, err := st.Save(ctx, *save, string(dsl), seed, g)
		if err != nil {
			return err
		}
		log.Printf("saved network %q as %d", *save, id)
	}

	fmt.Fprintf(stdout, "%s\n%d masses, %d springs\n", result.Construction, g.MassCount(), g.SpringCount())
	return nil
}

func runScript(cfg Config, args []string, stdout io.Writer) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return errUsage
	}
	path := args[0]

	fs := flag.NewFlagSet("script", flag.ContinueOnError)
	out := fs.String("out", "", "directory for masses.csv and connectionMap.csv")
	if err := fs.Parse(args[1:]); err != nil {
		return errUsage
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}

	result := NewApp(cfg).Evaluate(string(source))
	if *out != "" && len(result.Errors) == 0 {
		if err := export.WriteDir(*out, result.Graph()); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("script failed with %d errors", len(result.Errors))
	}
	return nil
}

func runServe(ctx context.Context, cfg Config) error {
	st, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	opts := []server.Option{server.WithStore(st)}
	if cfg.Seed != nil {
		opts = append(opts, server.WithSeed(*cfg.Seed))
	}
	log.Printf("rct MCP server on stdio, store %s", cfg.DBPath)
	return server.New(opts...).Run(ctx)
}

func runLoad(ctx context.Context, cfg Config, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid network id %q: %w", args[0], err)
	}

	fs := flag.NewFlagSet("load", flag.ContinueOnError)
	out := fs.String("out", "", "directory for masses.csv and connectionMap.csv")
	dxf := fs.String("dxf", "", "DXF drawing to write")
	svg := fs.String("svg", "", "SVG drawing to write")
	if err := fs.Parse(args[1:]); err != nil {
		return errUsage
	}
	if *out == "" && *dxf == "" && *svg == "" {
		return errUsage
	}

	st, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := st.Load(ctx, id)
	if err != nil {
		return err
	}
	return writeOutputs(n.Graph, *out, *dxf, *svg)
}

func runList(ctx context.Context, cfg Config, stdout io.Writer) error {
	st, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	list, err := st.List(ctx)
	if err != nil {
		return err
	}
	for _, n := range list {
		fmt.Fprintf(stdout, "%d\t%s\t%d masses\t%d springs\t%s\n",
			n.ID, n.Name, n.Masses, n.Springs, n.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// runImport reads a masses/connectionMap pair written by -out.
func runImport(ctx context.Context, cfg Config, args []string, stdout io.Writer) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return errUsage
	}
	dir := args[0]

	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	save := fs.String("save", "", "store the network under this name")
	dxf := fs.String("dxf", "", "DXF drawing to write")
	svg := fs.String("svg", "", "SVG drawing to write")
	if err := fs.Parse(args[1:]); err != nil {
		return errUsage
	}

	g, err := export.ReadDir(dir)
	if err != nil {
		return err
	}
	if err := writeOutputs(g, "", *dxf, *svg); err != nil {
		return err
	}

	if *save != "" {
		st, err := store.Open(ctx, cfg.DBPath)
		if err != nil {
			return err
		}
		defer st.Close()
		id, err := st.Save(ctx, *save, "", "", g)
		if err != nil {
			return err
		}
		log.Printf("saved network %q as %d", *save, id)
	}

	fmt.Fprintf(stdout, "%d masses, %d springs\n", g.MassCount(), g.SpringCount())
	return nil
}

func writeOutputs(g *graph.NetworkGraph, out, dxf, svg string) error {
	if err := graph.Validate(g).Err(); err != nil {
		return err
	}
	if out != "" {
		if err := export.WriteDir(out, g); err != nil {
			return err
		}
	}

	var d render.Drawing
	render.Draw(g, &d)
	for _, path := range []string{dxf, svg} {
		if path == "" {
			continue
		}
		if err := sdfx.WriteDrawing(path, &d); err != nil {
			return err
		}
	}
	return nil
}
