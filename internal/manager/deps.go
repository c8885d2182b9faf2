package manager

import (
	"container/heap"
	"sort"
)

// Graph maps a dependency name to the names it directly depends on.
type Graph map[string][]string

const (
	unvisited = iota
	inProgress
	done
)

// Sort returns the transitive closure of nodes in dependency order: for every
// edge n -> d, d appears before n. When nodes is empty every key of g is a
// root. Among names with no ordering constraint between them the smaller one
// comes first, so the result depends only on the content of g.
//
// A cycle or an edge to a name missing from g fails the whole sort with a
// *GraphError; no partial order is returned.
func Sort(g Graph, nodes []string) ([]string, error) {
	roots := nodes
	if len(roots) == 0 {
		roots = make([]string, 0, len(g))
		for n := range g {
			roots = append(roots, n)
		}
	}
	closure, err := walk(g, sortedUnique(roots))
	if err != nil {
		return nil, err
	}
	return topoOrder(g, closure), nil
}

// walk visits roots depth-first in ascending order and returns every name it
// reached. It is where cycles and undefined names are detected.
func walk(g Graph, roots []string) ([]string, error) {
	state := make(map[string]int, len(g))
	var reached []string
	var stack []string

	var visit func(n, from string) error
	visit = func(n, from string) error {
		switch state[n] {
		case done:
			return nil
		case inProgress:
			return &GraphError{Kind: ErrCyclicGraph, Node: n, Path: cyclePath(stack, n)}
		}
		deps, ok := g[n]
		if !ok {
			return &GraphError{Kind: ErrMalformedGraph, Node: n, From: from}
		}
		state[n] = inProgress
		stack = append(stack, n)
		for _, d := range sortedUnique(deps) {
			if err := visit(d, n); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[n] = done
		reached = append(reached, n)
		return nil
	}

	for _, r := range roots {
		if err := visit(r, ""); err != nil {
			return nil, err
		}
	}
	return reached, nil
}

// topoOrder orders an acyclic, closed set of names. The ready set is a
// min-heap, so ties always resolve to the smallest name.
func topoOrder(g Graph, nodes []string) []string {
	indeg := make(map[string]int, len(nodes))
	out := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		deps := sortedUnique(g[n])
		indeg[n] = len(deps)
		for _, d := range deps {
			out[d] = append(out[d], n)
		}
	}
	ready := &nameHeap{}
	for _, n := range nodes {
		if indeg[n] == 0 {
			heap.Push(ready, n)
		}
	}
	order := make([]string, 0, len(nodes))
	for ready.Len() > 0 {
		n := heap.Pop(ready).(string)
		order = append(order, n)
		for _, v := range out[n] {
			indeg[v]--
			if indeg[v] == 0 {
				heap.Push(ready, v)
			}
		}
	}
	return order
}

type nameHeap []string

func (h nameHeap) Len() int           { return len(h) }
func (h nameHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h nameHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *nameHeap) Push(x any)        { *h = append(*h, x.(string)) }
func (h *nameHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func sortedUnique(in []string) []string {
	out := append([]string{}, in...)
	sort.Strings(out)
	j := 0
	for i, s := range out {
		if i > 0 && s == out[j-1] {
			continue
		}
		out[j] = s
		j++
	}
	return out[:j]
}

func cyclePath(stack []string, n string) []string {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == n {
			p := append([]string{}, stack[i:]...)
			return append(p, n)
		}
	}
	return []string{n, n}
}
