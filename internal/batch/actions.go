package batch

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/panosim/internal/engine/camera"
	"github.com/Faultbox/panosim/internal/navgraph"
	"github.com/Faultbox/panosim/internal/sim"
)

// ErrUnreachableHop is returned when the next viewpoint on the path can
// never enter the field of view because it shares the agent's horizontal
// position.
var ErrUnreachableHop = errors.New("next viewpoint has no horizontal direction")

// TurnStep is the camera rotation of one simple action, 30 degrees.
const TurnStep = gomath.Pi / 6

// SimpleAction is a discrete move for agents that choose from a fixed
// action set.
type SimpleAction int

const (
	Forward SimpleAction = iota
	TurnLeft
	TurnRight
	LookUp
	LookDown
)

var simpleActionNames = [...]string{"forward", "left", "right", "up", "down"}

func (a SimpleAction) String() string {
	if a < 0 || int(a) >= len(simpleActionNames) {
		return fmt.Sprintf("SimpleAction(%d)", int(a))
	}
	return simpleActionNames[a]
}

// Action converts a to a simulator action. Forward moves to the first
// navigable viewpoint other than the current one.
func (a SimpleAction) Action() Action {
	switch a {
	case Forward:
		return Action{Index: 1}
	case TurnLeft:
		return Action{Heading: -TurnStep}
	case TurnRight:
		return Action{Heading: TurnStep}
	case LookUp:
		return Action{Elevation: TurnStep}
	case LookDown:
		return Action{Elevation: -TurnStep}
	default:
		return Action{}
	}
}

// ShortestPathAction returns the next move along the shortest path from
// the agent's location to goal: step to the next viewpoint once it is
// roughly ahead, otherwise turn or tilt toward it. done is true when the
// agent is already at goal.
func ShortestPathAction(state sim.State, g *navgraph.Graph, goal string) (act Action, done bool, err error) {
	here := state.Location.ID
	if here == goal {
		return Action{}, true, nil
	}
	path, _, err := g.ShortestPath(here, goal)
	if err != nil {
		return Action{}, false, err
	}
	next := path[1]

	for i, vp := range state.Navigable {
		if vp.ID != next {
			continue
		}
		switch {
		case vp.RelHeading > TurnStep:
			return TurnRight.Action(), false, nil
		case vp.RelHeading < -TurnStep:
			return TurnLeft.Action(), false, nil
		case vp.RelElevation > TurnStep:
			return LookUp.Action(), false, nil
		case vp.RelElevation < -TurnStep:
			return LookDown.Action(), false, nil
		}
		return Action{Index: i}, false, nil
	}

	// Out of view: level the camera, then turn the short way round.
	switch {
	case state.Elevation < -TurnStep/2:
		return LookUp.Action(), false, nil
	case state.Elevation > TurnStep/2:
		return LookDown.Action(), false, nil
	}
	pos, ok := g.Position(next)
	if !ok {
		return Action{}, false, fmt.Errorf("viewpoint %s has no position", next)
	}
	offset := pos.Sub(state.Location.Pos).XY()
	if offset.Length() == 0 {
		return Action{}, false, fmt.Errorf("%w: %s is directly above or below %s", ErrUnreachableHop, next, here)
	}
	target := offset.Angle()
	if camera.RelativeHeading(state.Heading, target) < 0 {
		return TurnLeft.Action(), false, nil
	}
	return TurnRight.Action(), false, nil
}
