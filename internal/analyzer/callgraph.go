package analyzer

import "github.com/sourcelens/engine/internal/codeintel"

// CallGraphTraversal walks a codeintel.CallGraph from a starting node ID,
// grounded on FunctionDependencyTracker's traverseDependencies /
// traverseDependents visited-map DFS pattern.
type CallGraphTraversal struct {
	graph     *codeintel.CallGraph
	callersOf map[int][]int
	calleesOf map[int][]int
}

// NewCallGraphTraversal indexes a CallGraph's edges for O(1) neighbor
// lookups in either direction.
func NewCallGraphTraversal(graph *codeintel.CallGraph) *CallGraphTraversal {
	t := &CallGraphTraversal{
		graph:     graph,
		callersOf: make(map[int][]int),
		calleesOf: make(map[int][]int),
	}
	for _, e := range graph.Edges {
		t.calleesOf[e.Caller] = append(t.calleesOf[e.Caller], e.Callee)
		t.callersOf[e.Callee] = append(t.callersOf[e.Callee], e.Caller)
	}
	return t
}

// Callees returns the direct callees of nodeID.
func (t *CallGraphTraversal) Callees(nodeID int) []int {
	return t.calleesOf[nodeID]
}

// Callers returns the direct callers of nodeID.
func (t *CallGraphTraversal) Callers(nodeID int) []int {
	return t.callersOf[nodeID]
}

// TransitiveCallees returns every node reachable from nodeID by following
// callee edges, up to maxDepth hops, visited-set bounded so cycles
// terminate instead of looping forever.
func (t *CallGraphTraversal) TransitiveCallees(nodeID int, maxDepth int) []int {
	return t.traverse(nodeID, maxDepth, t.calleesOf)
}

// TransitiveCallers returns every node that can reach nodeID by following
// caller edges, up to maxDepth hops.
func (t *CallGraphTraversal) TransitiveCallers(nodeID int, maxDepth int) []int {
	return t.traverse(nodeID, maxDepth, t.callersOf)
}

func (t *CallGraphTraversal) traverse(start int, maxDepth int, adjacency map[int][]int) []int {
	visited := map[int]bool{start: true}
	var result []int
	var walk func(id int, depth int)
	walk = func(id int, depth int) {
		if depth >= maxDepth {
			return
		}
		for _, next := range adjacency[id] {
			if visited[next] {
				continue
			}
			visited[next] = true
			result = append(result, next)
			walk(next, depth+1)
		}
	}
	walk(start, 0)
	return result
}

// Cycles detects cycles reachable from start by DFS with an in-progress
// recursion stack and a visited set. A node is expanded only once and
// paths stop at maxDepth, so not every simple cycle is reported.
func (t *CallGraphTraversal) Cycles(start int, maxDepth int) [][]int {
	visited := make(map[int]bool)
	stack := make(map[int]bool)
	var path []int
	var cycles [][]int

	var dfs func(id int, depth int)
	dfs = func(id int, depth int) {
		if depth > maxDepth {
			return
		}
		visited[id] = true
		stack[id] = true
		path = append(path, id)

		for _, next := range t.calleesOf[id] {
			if stack[next] {
				cycleStart := indexOfInt(path, next)
				if cycleStart >= 0 {
					cycle := append([]int{}, path[cycleStart:]...)
					cycles = append(cycles, cycle)
				}
				continue
			}
			if !visited[next] {
				dfs(next, depth+1)
			}
		}

		path = path[:len(path)-1]
		stack[id] = false
	}
	dfs(start, 0)
	return cycles
}

func indexOfInt(haystack []int, needle int) int {
	for i, v := range haystack {
		if v == needle {
			return i
		}
	}
	return -1
}

func indexOf(haystack []string, needle string) int {
	for i, v := range haystack {
		if v == needle {
			return i
		}
	}
	return -1
}
