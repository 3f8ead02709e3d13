package moduledeps

import (
	"reflect"
	"sort"
	"testing"
)

func TestCompilationOrderRespectsEdges(t *testing.T) {
	g := New()
	g.AddDependency("app", "lib") // lib -> app
	g.AddDependency("lib", "core") // core -> lib

	order, ok := g.CompilationOrder()
	if !ok {
		t.Fatal("expected a valid compilation order")
	}
	pos := map[string]int{}
	for i, n := range order {
		pos[n] = i
	}
	if pos["core"] > pos["lib"] || pos["lib"] > pos["app"] {
		t.Errorf("expected core before lib before app, got %v", order)
	}
}

func TestCompilationOrderDetectsCycle(t *testing.T) {
	g := New()
	g.AddDependency("a", "b") // b -> a
	g.AddDependency("b", "c") // c -> b
	g.AddDependency("c", "a") // a -> c

	if _, ok := g.CompilationOrder(); ok {
		t.Fatal("expected CompilationOrder to fail on a cycle")
	}
}

func TestCircularDependencyGroups(t *testing.T) {
	g := New()
	g.AddDependency("a", "b")
	g.AddDependency("b", "c")
	g.AddDependency("c", "a")
	g.AddModule("isolated")

	groups := g.CircularDependencyGroups()
	if len(groups) != 1 {
		t.Fatalf("expected exactly 1 cycle group, got %d: %v", len(groups), groups)
	}
	got := append([]string(nil), groups[0]...)
	sort.Strings(got)
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected cycle group %v, got %v", want, got)
	}
}

func TestCircularDependencyGroupsSelfLoop(t *testing.T) {
	g := New()
	g.AddDependency("a", "a")

	groups := g.CircularDependencyGroups()
	if len(groups) != 1 || len(groups[0]) != 1 || groups[0][0] != "a" {
		t.Fatalf("expected a singleton self-loop group for a, got %v", groups)
	}
}

func TestDependenciesAndDependentsAreTransitive(t *testing.T) {
	g := New()
	g.AddDependency("app", "lib")  // lib -> app
	g.AddDependency("lib", "core") // core -> lib

	deps := g.Dependencies("app")
	sort.Strings(deps)
	if !reflect.DeepEqual(deps, []string{"core", "lib"}) {
		t.Errorf("expected app's dependencies to be [core lib], got %v", deps)
	}

	dependents := g.Dependents("core")
	sort.Strings(dependents)
	if !reflect.DeepEqual(dependents, []string{"app", "lib"}) {
		t.Errorf("expected core's dependents to be [app lib], got %v", dependents)
	}
}
