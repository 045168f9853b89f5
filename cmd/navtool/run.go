package main

import (
	"fmt"
	"io"
	gomath "math"
	"strings"

	"github.com/Faultbox/panosim/internal/navgraph"
	"github.com/Faultbox/panosim/internal/sim"
)

func runInfo(w io.Writer, graphDir, scanID string) error {
	locs, err := navgraph.Load(graphDir, scanID)
	if err != nil {
		return err
	}

	included := 0
	for _, l := range locs {
		if l.Included {
			included++
		}
	}
	g := navgraph.NewGraph(locs)

	fmt.Fprintf(w, "Scan:              %s\n", scanID)
	fmt.Fprintf(w, "Viewpoints:        %d\n", len(locs))
	fmt.Fprintf(w, "Included:          %d\n", included)
	fmt.Fprintf(w, "Edges:             %d\n", g.Edges())
	fmt.Fprintf(w, "Asymmetric pairs:  %d\n", navgraph.AsymmetricPairs(locs))
	return nil
}

func runNavigable(w io.Writer, graphDir, scanID, viewpointID string, heading, vfov, aspect float64) error {
	locs, err := navgraph.Load(graphDir, scanID)
	if err != nil {
		return err
	}
	idx := navgraph.Index(locs, viewpointID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", sim.ErrUnknownViewpoint, viewpointID)
	}

	vps := sim.Navigable(locs, idx, heading, vfov, aspect)
	fmt.Fprintf(w, "%-4s %-36s %8s %8s %8s\n", "IDX", "VIEWPOINT", "HEADING", "ELEV", "DIST")
	for i, vp := range vps {
		fmt.Fprintf(w, "%-4d %-36s %8.1f %8.1f %8.2f\n",
			i, vp.ID, degrees(vp.RelHeading), degrees(vp.RelElevation), vp.Distance)
	}
	return nil
}

func runPath(w io.Writer, graphDir, scanID, from, to string) error {
	locs, err := navgraph.Load(graphDir, scanID)
	if err != nil {
		return err
	}
	path, dist, err := navgraph.NewGraph(locs).ShortestPath(from, to)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s\n", strings.Join(path, " -> "))
	fmt.Fprintf(w, "%d hops, %.2f m\n", len(path)-1, dist)
	return nil
}

func degrees(rad float64) float64 {
	return rad * 180 / gomath.Pi
}
