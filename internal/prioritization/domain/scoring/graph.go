package scoring

// Graph is the directed dependency graph of a task batch. Nodes are the
// task ids present in the batch; edges point from a task to each declared
// dependency that is also in the batch. Dangling references to unknown
// ids are dropped. The graph is rebuilt per analysis and never persisted.
type Graph struct {
	order []string            // insertion order, keeps traversal deterministic
	edges map[string][]string // task id -> dependency ids
}

// NewGraph builds a dependency graph from a task batch.
func NewGraph(tasks []Task) *Graph {
	g := &Graph{edges: make(map[string][]string, len(tasks))}

	nodes := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		if _, seen := nodes[t.ID]; seen {
			continue
		}
		nodes[t.ID] = struct{}{}
		g.order = append(g.order, t.ID)
	}

	for _, t := range tasks {
		if len(g.edges[t.ID]) > 0 {
			continue
		}
		for _, dep := range t.Dependencies {
			if _, ok := nodes[dep]; ok {
				g.edges[t.ID] = append(g.edges[t.ID], dep)
			}
		}
	}

	return g
}

// Dependencies returns the in-batch dependency ids of a task.
func (g *Graph) Dependencies(id string) []string {
	return g.edges[id]
}

const (
	nodeUnvisited = iota
	nodeOnPath
	nodeDone
)

// Cycles runs a depth-first traversal from every unvisited node and
// reports each back-edge to a node on the current path as a cycle, as the
// ordered id sequence from that node back to itself. Nodes are explored
// at most once across traversals, so this detects every cyclic component
// at least once without enumerating all elementary cycles.
func (g *Graph) Cycles() [][]string {
	state := make(map[string]int, len(g.order))
	var cycles [][]string
	var path []string

	var visit func(id string)
	visit = func(id string) {
		switch state[id] {
		case nodeOnPath:
			start := 0
			for i, p := range path {
				if p == id {
					start = i
					break
				}
			}
			cycle := make([]string, 0, len(path)-start+1)
			cycle = append(cycle, path[start:]...)
			cycle = append(cycle, id)
			cycles = append(cycles, cycle)
			return
		case nodeDone:
			return
		}

		state[id] = nodeOnPath
		path = append(path, id)
		for _, dep := range g.edges[id] {
			visit(dep)
		}
		path = path[:len(path)-1]
		state[id] = nodeDone
	}

	for _, id := range g.order {
		if state[id] == nodeUnvisited {
			visit(id)
		}
	}

	return cycles
}

type edge struct {
	from, to string
}

// cycleEdges collects the directed edges that appear in the reported
// cycles. These edges are excluded from dependency scoring.
func cycleEdges(cycles [][]string) map[edge]struct{} {
	excluded := make(map[edge]struct{})
	for _, cycle := range cycles {
		for i := 0; i+1 < len(cycle); i++ {
			excluded[edge{from: cycle[i], to: cycle[i+1]}] = struct{}{}
		}
	}
	return excluded
}
