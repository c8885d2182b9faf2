package manager

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedGraph = errors.New("malformed dependency graph")
	ErrCyclicGraph    = errors.New("unsatisfiable build order: dependency cycle")
)

// GraphError reports why a dependency graph could not be ordered.
type GraphError struct {
	Kind error
	// Node is the undefined dependency for ErrMalformedGraph, or the node
	// that closed the cycle for ErrCyclicGraph.
	Node string
	// From is the node whose edge referenced Node.
	From string
	Path []string
}

func (e *GraphError) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case len(e.Path) > 0:
		return fmt.Sprintf("%s: %s", e.Kind.Error(), strings.Join(e.Path, " -> "))
	case e.From != "":
		return fmt.Sprintf("%s: %q depends on undefined %q", e.Kind.Error(), e.From, e.Node)
	case e.Node != "":
		return fmt.Sprintf("%s: %q", e.Kind.Error(), e.Node)
	}
	return e.Kind.Error()
}

func (e *GraphError) Unwrap() error { return e.Kind }
