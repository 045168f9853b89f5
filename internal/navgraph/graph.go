package navgraph

import (
	"container/heap"
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/panosim/pkg/math"
)

// ErrNoPath is returned when the goal cannot be reached.
var ErrNoPath = errors.New("no path between viewpoints")

type edge struct {
	to     int
	weight float64
}

// Graph is the traversable subgraph of a scan: included locations joined
// by their unobstructed flags, weighted by Euclidean distance. Edges keep
// the direction of the source flags.
type Graph struct {
	locs []Location
	adj  [][]edge
}

// NewGraph builds the traversable graph of locs.
func NewGraph(locs []Location) *Graph {
	g := &Graph{locs: locs, adj: make([][]edge, len(locs))}
	for i := range locs {
		if !locs[i].Included {
			continue
		}
		for j := range locs {
			if i == j || !locs[j].Included || !locs[i].CanSee(j) {
				continue
			}
			w := float64(locs[i].Pos.Distance(locs[j].Pos))
			g.adj[i] = append(g.adj[i], edge{to: j, weight: w})
		}
	}
	return g
}

// Edges returns the number of directed edges.
func (g *Graph) Edges() int {
	n := 0
	for _, out := range g.adj {
		n += len(out)
	}
	return n
}

// Position returns the world position of a viewpoint.
func (g *Graph) Position(id string) (math.Vec3, bool) {
	i := Index(g.locs, id)
	if i < 0 {
		return math.Vec3{}, false
	}
	return g.locs[i].Pos, true
}

// ShortestPath returns the viewpoint ids from one location to another,
// both ends included, and the path length in meters.
func (g *Graph) ShortestPath(from, to string) ([]string, float64, error) {
	src, dst := Index(g.locs, from), Index(g.locs, to)
	if src < 0 {
		return nil, 0, fmt.Errorf("unknown viewpoint %q", from)
	}
	if dst < 0 {
		return nil, 0, fmt.Errorf("unknown viewpoint %q", to)
	}

	dist := make([]float64, len(g.locs))
	prev := make([]int, len(g.locs))
	for i := range dist {
		dist[i] = gomath.Inf(1)
		prev[i] = -1
	}
	dist[src] = 0

	pq := &queue{{node: src}}
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(item)
		if cur.dist > dist[cur.node] {
			continue
		}
		if cur.node == dst {
			break
		}
		for _, e := range g.adj[cur.node] {
			if d := cur.dist + e.weight; d < dist[e.to] {
				dist[e.to] = d
				prev[e.to] = cur.node
				heap.Push(pq, item{node: e.to, dist: d})
			}
		}
	}

	if gomath.IsInf(dist[dst], 1) {
		return nil, 0, fmt.Errorf("%w: %s -> %s", ErrNoPath, from, to)
	}

	var path []string
	for n := dst; n >= 0; n = prev[n] {
		path = append(path, g.locs[n].ID)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, dist[dst], nil
}

type item struct {
	node int
	dist float64
}

type queue []item

func (q queue) Len() int           { return len(q) }
func (q queue) Less(i, j int) bool { return q[i].dist < q[j].dist }
func (q queue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *queue) Push(x any)        { *q = append(*q, x.(item)) }
func (q *queue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}
