package manager

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func carthageGraph() Graph {
	return Graph{
		"Argo":          {},
		"Commandant":    {"Result"},
		"PrettyColors":  {},
		"Carthage":      {"Argo", "Commandant", "PrettyColors", "ReactiveCocoa", "ReactiveTask"},
		"ReactiveCocoa": {"Result"},
		"ReactiveTask":  {"ReactiveCocoa"},
		"Result":        {},
	}
}

func TestSort_WholeGraph(t *testing.T) {
	got, err := Sort(carthageGraph(), nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := []string{"Argo", "PrettyColors", "Result", "Commandant", "ReactiveCocoa", "ReactiveTask", "Carthage"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order mismatch:\n got=%v\nwant=%v", got, want)
	}
}

func TestSort_RestrictedRoots(t *testing.T) {
	got, err := Sort(carthageGraph(), []string{"ReactiveTask"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := []string{"Result", "ReactiveCocoa", "ReactiveTask"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order mismatch: got=%v want=%v", got, want)
	}
}

func TestSort_EmptyRootsMeansAll(t *testing.T) {
	a, err := Sort(carthageGraph(), []string{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	b, _ := Sort(carthageGraph(), nil)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("empty and nil roots differ: %v vs %v", a, b)
	}
}

func TestSort_Deterministic(t *testing.T) {
	first, err := Sort(carthageGraph(), nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	for i := 0; i < 20; i++ {
		got, _ := Sort(carthageGraph(), nil)
		if !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %v vs %v", i, got, first)
		}
	}
}

func TestSort_ValidityAndClosure(t *testing.T) {
	g := Graph{
		"app":   {"net", "ui", "log"},
		"net":   {"log", "tls"},
		"ui":    {"log"},
		"tls":   {"log"},
		"log":   {},
		"other": {"log"},
	}
	cases := []struct {
		roots []string
		want  []string
	}{
		{nil, []string{"app", "net", "ui", "tls", "log", "other"}},
		{[]string{"net"}, []string{"net", "tls", "log"}},
		{[]string{"ui", "ui"}, []string{"ui", "log"}},
		{[]string{"other", "tls"}, []string{"other", "tls", "log"}},
	}
	for _, c := range cases {
		got, err := Sort(g, c.roots)
		if err != nil {
			t.Fatalf("roots %v: unexpected err: %v", c.roots, err)
		}
		if len(got) != len(c.want) {
			t.Fatalf("roots %v: closure mismatch: got %v want members %v", c.roots, got, c.want)
		}
		pos := map[string]int{}
		for i, n := range got {
			pos[n] = i
		}
		for _, n := range c.want {
			if _, ok := pos[n]; !ok {
				t.Fatalf("roots %v: missing %s in %v", c.roots, n, got)
			}
		}
		for n := range pos {
			for _, d := range g[n] {
				if pos[d] >= pos[n] {
					t.Fatalf("roots %v: %s must precede %s in %v", c.roots, d, n, got)
				}
			}
		}
	}
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	g := Graph{"b": {"c", "a"}, "a": {}, "c": {}}
	if _, err := Sort(g, nil); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !reflect.DeepEqual(g["b"], []string{"c", "a"}) {
		t.Fatalf("input mutated: %v", g["b"])
	}
}

func TestSort_Cycle(t *testing.T) {
	g := Graph{"A": {"B"}, "B": {"C"}, "C": {"A"}}
	got, err := Sort(g, nil)
	if err == nil {
		t.Fatalf("expected cycle, got %v", got)
	}
	if got != nil {
		t.Fatalf("no partial order expected, got %v", got)
	}
	if !errors.Is(err, ErrCyclicGraph) {
		t.Fatalf("expected ErrCyclicGraph, got %v", err)
	}
	if !strings.Contains(err.Error(), "A -> B -> C -> A") {
		t.Fatalf("cycle path missing from error: %v", err)
	}
}

func TestSort_SelfCycle(t *testing.T) {
	_, err := Sort(Graph{"A": {"A"}}, nil)
	if !errors.Is(err, ErrCyclicGraph) {
		t.Fatalf("expected ErrCyclicGraph, got %v", err)
	}
}

func TestSort_CycleOutsideRootsIsIgnored(t *testing.T) {
	g := Graph{"A": {}, "B": {"C"}, "C": {"B"}}
	got, err := Sort(g, []string{"A"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"A"}) {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestSort_Malformed(t *testing.T) {
	_, err := Sort(Graph{"A": {"B"}}, nil)
	if !errors.Is(err, ErrMalformedGraph) {
		t.Fatalf("expected ErrMalformedGraph, got %v", err)
	}
	var ge *GraphError
	if !errors.As(err, &ge) || ge.Node != "B" || ge.From != "A" {
		t.Fatalf("expected GraphError naming A -> B, got %#v", err)
	}
}

func TestSort_UnknownRoot(t *testing.T) {
	_, err := Sort(Graph{"A": {}}, []string{"Z"})
	if !errors.Is(err, ErrMalformedGraph) {
		t.Fatalf("expected ErrMalformedGraph, got %v", err)
	}
}
