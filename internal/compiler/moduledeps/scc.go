package moduledeps

// CircularDependencyGroups returns every strongly connected component of
// size greater than one, plus any singleton with a direct self-loop
// (spec.md 4.J: "Kosaraju SCCs of size >1 (or self-loop singletons)").
// Computed with Kosaraju's two-pass algorithm: a forward DFS recording
// finish order, then a DFS over the transposed graph processing nodes
// in reverse finish order, each tree of which is one SCC.
func (g *Graph) CircularDependencyGroups() [][]string {
	finishOrder := g.finishOrderDFS()
	reverse := g.reverseEdges()

	visited := map[string]bool{}
	var groups [][]string
	for i := len(finishOrder) - 1; i >= 0; i-- {
		n := finishOrder[i]
		if visited[n] {
			continue
		}
		component := g.collectComponent(n, reverse, visited)
		if len(component) > 1 || hasSelfLoop(g, component[0]) {
			groups = append(groups, component)
		}
	}
	return groups
}

func (g *Graph) finishOrderDFS() []string {
	visited := map[string]bool{}
	var order []string
	var visit func(n string)
	visit = func(n string) {
		if visited[n] {
			return
		}
		visited[n] = true
		for _, next := range g.edges[n] {
			visit(next)
		}
		order = append(order, n)
	}
	for _, n := range g.order {
		visit(n)
	}
	return order
}

func (g *Graph) collectComponent(start string, adjacency map[string][]string, visited map[string]bool) []string {
	var component []string
	var visit func(n string)
	visit = func(n string) {
		if visited[n] {
			return
		}
		visited[n] = true
		component = append(component, n)
		for _, next := range adjacency[n] {
			visit(next)
		}
	}
	visit(start)
	return component
}

func hasSelfLoop(g *Graph, n string) bool {
	for _, t := range g.edges[n] {
		if t == n {
			return true
		}
	}
	return false
}
