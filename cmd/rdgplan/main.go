// Command rdgplan prints the barrier plan of a render graph described in HCL.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/rdg"
	"github.com/gogpu/rdg/backend"
	"github.com/gogpu/rdg/backend/trace"
	_ "github.com/gogpu/rdg/backend/wgpu"
	"github.com/gogpu/rdg/internal/plan"
)

func main() {
	var (
		file      = flag.String("file", "", "graph description (.hcl)")
		verbose   = flag.Bool("v", false, "debug logging to stderr")
		lifetimes = flag.Bool("lifetimes", false, "also print resource lifetimes")
		backends  = flag.Bool("backends", false, "list registered backends and exit")
	)
	flag.Parse()

	if *backends {
		for _, name := range backend.Available() {
			fmt.Println(name)
		}
		return
	}

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		rdg.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	f, err := plan.Load(*file)
	if err != nil {
		log.Fatalf("Failed to load: %v", err)
	}

	dev := trace.NewDevice()
	names := f.Names()
	for r, name := range names {
		dev.Name(r, name)
	}

	b, _, err := f.Builder(dev, rdg.WithLabel(*file))
	if err != nil {
		log.Fatalf("Failed to declare passes: %v", err)
	}
	g, err := rdg.NewGraph(b)
	if err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}

	cmd := trace.NewCommandBuffer(*file)
	if err := plan.Execute(g, cmd); err != nil {
		log.Fatalf("Failed to execute: %v", err)
	}
	if err := g.Close(); err != nil {
		log.Fatalf("Failed to close graph: %v", err)
	}

	fmt.Print(cmd)

	if *lifetimes {
		passes := g.Passes()
		fmt.Println()
		for _, lt := range g.Lifetimes() {
			producer := "-"
			if lt.Producer >= 0 {
				producer = passes[lt.Producer].Name
			}
			fmt.Printf("%s: passes %d..%d, produced by %s\n", display(names, lt.Resource), lt.First, lt.Last, producer)
		}
	}
}

func display(names map[rdg.Resource]string, r rdg.Resource) string {
	if name, ok := names[r]; ok {
		return name
	}
	return r.String()
}
