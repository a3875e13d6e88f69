package analyzer

import "sort"

// DependencyGraph is a module/file-level directed graph of import edges,
// grounded on FunctionDependencyTracker's GetFileGraph / tri-color-DFS
// cycle detection, but addressed by file path rather than types.FileID
// since this package has no dependency on the teacher's symbol arena.
type DependencyGraph struct {
	edges map[string][]string // importer -> imported
}

// NewDependencyGraph builds a graph from a flat list of (importer,
// imported) pairs, as produced by walking each file's import declarations.
func NewDependencyGraph(pairs [][2]string) *DependencyGraph {
	g := &DependencyGraph{edges: make(map[string][]string)}
	for _, p := range pairs {
		g.edges[p[0]] = append(g.edges[p[0]], p[1])
	}
	return g
}

// Direct returns what file imports directly.
func (g *DependencyGraph) Direct(file string) []string {
	return g.edges[file]
}

// Reverse returns every file that directly imports target - computed on
// demand by scanning all edges, acceptable at the module scale this
// analyzer targets (spec section 4.5 doesn't require it be incremental).
func (g *DependencyGraph) Reverse(target string) []string {
	var result []string
	for from, tos := range g.edges {
		for _, to := range tos {
			if to == target {
				result = append(result, from)
				break
			}
		}
	}
	sort.Strings(result)
	return result
}

// Transitive returns every file reachable from file by following import
// edges, visited-set bounded.
func (g *DependencyGraph) Transitive(file string) []string {
	visited := map[string]bool{file: true}
	var result []string
	var walk func(string)
	walk = func(f string) {
		for _, next := range g.edges[f] {
			if visited[next] {
				continue
			}
			visited[next] = true
			result = append(result, next)
			walk(next)
		}
	}
	walk(file)
	sort.Strings(result)
	return result
}

// dfsColor tracks the standard white/gray/black tri-color DFS state used
// for cycle detection: unvisited, on the current recursion stack, and
// fully explored.
type dfsColor int

const (
	colorWhite dfsColor = iota
	colorGray
	colorBlack
)

// Cycles reports every import cycle in the graph as a list of file paths,
// starting at the file where the cycle was entered; the starting file is
// not repeated at the end.
func (g *DependencyGraph) Cycles() [][]string {
	colors := make(map[string]dfsColor)
	var path []string
	var cycles [][]string

	var dfs func(node string)
	dfs = func(node string) {
		colors[node] = colorGray
		path = append(path, node)
		for _, next := range g.edges[node] {
			switch colors[next] {
			case colorGray:
				cycleStart := indexOf(path, next)
				if cycleStart >= 0 {
					cycle := append([]string{}, path[cycleStart:]...)
					cycles = append(cycles, cycle)
				}
			case colorWhite:
				dfs(next)
			}
		}
		path = path[:len(path)-1]
		colors[node] = colorBlack
	}

	nodes := make([]string, 0, len(g.edges))
	for node := range g.edges {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	for _, node := range nodes {
		if colors[node] == colorWhite {
			dfs(node)
		}
	}
	return cycles
}
