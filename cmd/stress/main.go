// Command stress measures event passes over a deep DOM-like hierarchy.
//
//	stress [-depth 64] [-width 200] [-density 0.2] [-events 1,10,100,1000,10000]
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/l1jgo/eventlistener/internal/stress"
)

func main() {
	def := stress.DefaultOptions()
	fs := flag.NewFlagSet("stress", flag.ExitOnError)
	depth := fs.Int("depth", def.Depth, "nodes per chain")
	width := fs.Int("width", def.Width, "number of chains")
	density := fs.Float64("density", def.Density, "share of nodes with a listener")
	seed := fs.Uint64("seed", def.Seed, "random seed")
	events := fs.String("events", "1,10,100,1000,10000", "comma separated event counts")
	rounds := fs.Int("rounds", 5, "passes per event count")
	lang := fs.String("lang", "en", "number formatting locale")
	_ = fs.Parse(os.Args[1:])

	counts, err := parseCounts(*events)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stress: %v\n", err)
		os.Exit(2)
	}

	tree, err := stress.Build(stress.Options{Depth: *depth, Width: *width, Density: *density, Seed: *seed}, zap.NewNop())
	if err != nil {
		fmt.Fprintf(os.Stderr, "stress: %v\n", err)
		os.Exit(1)
	}

	p := message.NewPrinter(language.Make(*lang))
	p.Printf("hierarchy: %d nodes, %d chains of depth %d, %d listening (%.0f%%)\n\n",
		tree.Nodes, *width, *depth, tree.Listening, *density*100)
	p.Printf("%10s %14s %14s %14s %12s\n", "events", "invocations", "parent walks", "total", "per event")

	for _, n := range counts {
		var best stress.Result
		for r := 0; r < max(*rounds, 1); r++ {
			res := tree.Pass(n)
			if r == 0 || res.Report.Duration < best.Report.Duration {
				best = res
			}
		}
		p.Printf("%10d %14d %14d %14v %12v\n",
			n, best.Report.Invocations, best.Report.ParentLookups, best.Report.Duration, best.PerEvent)
	}
}

func parseCounts(s string) ([]int, error) {
	var out []int
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("bad event count %q", f)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no event counts")
	}
	return out, nil
}
