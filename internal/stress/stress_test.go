package stress

import (
	"fmt"
	"testing"

	"go.uber.org/zap"
)

func TestBuildShape(t *testing.T) {
	tree, err := Build(Options{Depth: 8, Width: 5, Density: 0.5, Seed: 3}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if tree.Nodes != 40 || tree.App.World().Len() != 40 {
		t.Errorf("nodes = %d, world = %d", tree.Nodes, tree.App.World().Len())
	}
	if len(tree.Leaves) != 5 {
		t.Fatalf("leaves = %d", len(tree.Leaves))
	}
	w := tree.App.World()
	depth := 1
	for id := tree.Leaves[0]; ; depth++ {
		p, ok := w.Parent(id)
		if !ok {
			break
		}
		id = p
	}
	if depth != 8 {
		t.Errorf("chain depth = %d", depth)
	}
	if got := tree.Pipeline.Listeners().Len(); got != tree.Listening {
		t.Errorf("listeners = %d, counted %d", got, tree.Listening)
	}
}

func TestPassVisitsEveryListenerOnPath(t *testing.T) {
	tree, err := Build(Options{Depth: 16, Width: 4, Density: 1, Seed: 9}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	res := tree.Pass(10)
	if res.Report.Dispatched != 10 {
		t.Errorf("dispatched = %d", res.Report.Dispatched)
	}
	if res.Report.Invocations != 160 {
		t.Errorf("invocations = %d, want 160", res.Report.Invocations)
	}
	if res.Report.Nodes > 64 {
		t.Errorf("forest has %d nodes for 64 entities", res.Report.Nodes)
	}
}

func BenchmarkPass(b *testing.B) {
	for _, n := range []int{1, 100, 10_000} {
		b.Run(fmt.Sprintf("events=%d", n), func(b *testing.B) {
			tree, err := Build(DefaultOptions(), zap.NewNop())
			if err != nil {
				b.Fatal(err)
			}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				tree.Emit(n)
				tree.Pipeline.Run()
			}
		})
	}
}
