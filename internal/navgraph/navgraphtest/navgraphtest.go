// Package navgraphtest writes connectivity fixtures for tests.
package navgraphtest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// Node describes one fixture location.
type Node struct {
	ID       string
	Included bool
	Pos      [3]float32
	// Sees lists the indices unobstructed from this node.
	Sees []int
}

type record struct {
	ImageID      string    `json:"image_id"`
	Included     bool      `json:"included"`
	Pose         []float32 `json:"pose"`
	Unobstructed []bool    `json:"unobstructed"`
}

// Encode renders nodes as a connectivity document with identity rotations.
func Encode(nodes []Node) ([]byte, error) {
	records := make([]record, len(nodes))
	for i, n := range nodes {
		unobstructed := make([]bool, len(nodes))
		for _, j := range n.Sees {
			unobstructed[j] = true
		}
		records[i] = record{
			ImageID:  n.ID,
			Included: n.Included,
			Pose: []float32{
				1, 0, 0, n.Pos[0],
				0, 1, 0, n.Pos[1],
				0, 0, 1, n.Pos[2],
				0, 0, 0, 1,
			},
			Unobstructed: unobstructed,
		}
	}
	return json.Marshal(records)
}

// WriteScan writes {dir}/{scanID}_connectivity.json and returns dir.
func WriteScan(t testing.TB, dir, scanID string, nodes []Node) string {
	t.Helper()
	data, err := Encode(nodes)
	if err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, scanID+"_connectivity.json"), data, 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return dir
}

// Triangle is the reference three-node scan: A at the origin sees B one
// meter north (+Y) and C one meter south; C is excluded.
func Triangle() []Node {
	return []Node{
		{ID: "A", Included: true, Pos: [3]float32{0, 0, 0}, Sees: []int{1, 2}},
		{ID: "B", Included: true, Pos: [3]float32{0, 1, 0}, Sees: []int{0}},
		{ID: "C", Included: false, Pos: [3]float32{0, -1, 0}, Sees: []int{0}},
	}
}
