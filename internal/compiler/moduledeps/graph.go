// Package moduledeps implements spec.md 4.J's module dependency graph:
// the build driver's scheduling utility for ordering per-module
// compilation. A directed edge runs from a dependency to its dependent
// ("dep -> from"), so a valid compilation order lists every module
// before anything that depends on it.
package moduledeps

// Graph is a directed graph of module names, edges pointing from a
// dependency to its dependent.
type Graph struct {
	nodes map[string]bool
	order []string
	edges map[string][]string // dep -> []from
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{nodes: map[string]bool{}, edges: map[string][]string{}}
}

// AddModule registers name as a node, a no-op if it already exists.
func (g *Graph) AddModule(name string) {
	if g.nodes[name] {
		return
	}
	g.nodes[name] = true
	g.order = append(g.order, name)
}

// AddDependency records that module `from` depends on `dep`, adding the
// edge dep -> from (spec.md 4.J). Both modules are registered if new.
func (g *Graph) AddDependency(from, dep string) {
	g.AddModule(from)
	g.AddModule(dep)
	g.edges[dep] = append(g.edges[dep], from)
}

// Modules returns every registered module name in insertion order.
func (g *Graph) Modules() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// CompilationOrder returns a topological order of the graph's modules —
// for every edge u->v, u appears before v — or (nil, false) if the
// graph has a cycle (spec.md 4.J: "returns None on cycle").
func (g *Graph) CompilationOrder() ([]string, bool) {
	inDegree := make(map[string]int, len(g.order))
	for _, n := range g.order {
		inDegree[n] = 0
	}
	for _, targets := range g.edges {
		for _, t := range targets {
			inDegree[t]++
		}
	}

	var queue []string
	for _, n := range g.order {
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	var result []string
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		result = append(result, n)
		for _, t := range g.edges[n] {
			inDegree[t]--
			if inDegree[t] == 0 {
				queue = append(queue, t)
			}
		}
	}

	if len(result) != len(g.order) {
		return nil, false
	}
	return result, true
}

// Dependencies returns the transitive closure of modules `name`
// (directly or indirectly) depends on.
func (g *Graph) Dependencies(name string) []string {
	reverse := g.reverseEdges()
	return g.transitiveClosure(name, reverse)
}

// Dependents returns the transitive closure of modules that (directly
// or indirectly) depend on `name`.
func (g *Graph) Dependents(name string) []string {
	return g.transitiveClosure(name, g.edges)
}

func (g *Graph) reverseEdges() map[string][]string {
	reverse := map[string][]string{}
	for dep, froms := range g.edges {
		for _, from := range froms {
			reverse[from] = append(reverse[from], dep)
		}
	}
	return reverse
}

func (g *Graph) transitiveClosure(start string, adjacency map[string][]string) []string {
	visited := map[string]bool{}
	var queue []string
	queue = append(queue, adjacency[start]...)
	var result []string
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if visited[n] {
			continue
		}
		visited[n] = true
		result = append(result, n)
		queue = append(queue, adjacency[n]...)
	}
	return result
}
