// Package batch drives several independent simulators at once, one
// episode per slot, for agents that train on many episodes in parallel.
package batch

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/panosim/internal/logger"
	"github.com/Faultbox/panosim/internal/sim"
)

// EpisodeSpec is the start of one slot's episode.
type EpisodeSpec struct {
	ScanID      string
	ViewpointID string // empty picks a random start
	Heading     float64
	Elevation   float64
}

// Action is one slot's move: an index into its navigable set and camera
// deltas in radians.
type Action struct {
	Index     int
	Heading   float64
	Elevation float64
}

// Batch owns one simulator per slot. Each slot's simulator is only ever
// touched by one goroutine at a time, so simulators need no locking.
//
// OpenGL contexts are bound to the thread that created them; batch
// simulators should run with rendering disabled or with a backend that is
// safe to call from any goroutine.
type Batch struct {
	sims    []*sim.Simulator
	workers int
	log     *zap.Logger
}

// New creates size simulators with newSim and runs at most workers of them
// concurrently. workers <= 0 means one per slot.
func New(size, workers int, newSim func(slot int) (*sim.Simulator, error)) (*Batch, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid batch size %d", size)
	}
	if workers <= 0 || workers > size {
		workers = size
	}
	b := &Batch{workers: workers, log: logger.Named("batch")}
	for i := 0; i < size; i++ {
		s, err := newSim(i)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("creating simulator %d: %w", i, err)
		}
		b.sims = append(b.sims, s)
	}
	return b, nil
}

// Size returns the number of slots.
func (b *Batch) Size() int {
	return len(b.sims)
}

// Sim returns the simulator of a slot.
func (b *Batch) Sim(slot int) *sim.Simulator {
	return b.sims[slot]
}

// StartEpisodes starts one episode per slot. specs must have one entry per
// slot.
func (b *Batch) StartEpisodes(ctx context.Context, specs []EpisodeSpec) error {
	if len(specs) != len(b.sims) {
		return fmt.Errorf("got %d episodes for %d slots", len(specs), len(b.sims))
	}
	b.log.Debug("starting episodes", zap.Int("slots", len(specs)), zap.Int("workers", b.workers))
	return b.each(ctx, func(i int, s *sim.Simulator) error {
		e := specs[i]
		return s.StartEpisode(e.ScanID, e.ViewpointID, e.Heading, e.Elevation)
	})
}

// Act applies one action per slot.
func (b *Batch) Act(ctx context.Context, actions []Action) error {
	if len(actions) != len(b.sims) {
		return fmt.Errorf("got %d actions for %d slots", len(actions), len(b.sims))
	}
	return b.each(ctx, func(i int, s *sim.Simulator) error {
		a := actions[i]
		return s.Act(a.Index, a.Heading, a.Elevation)
	})
}

// States returns every slot's state in slot order.
func (b *Batch) States() []sim.State {
	states := make([]sim.State, len(b.sims))
	for i, s := range b.sims {
		states[i] = s.State()
	}
	return states
}

// Close closes every simulator.
func (b *Batch) Close() error {
	var errs []error
	for i, s := range b.sims {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("slot %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// each runs fn for every slot, at most b.workers at a time. The first
// failure cancels slots that have not started yet.
func (b *Batch) each(ctx context.Context, fn func(i int, s *sim.Simulator) error) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(b.workers)

	for i, s := range b.sims {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			if err := fn(i, s); err != nil {
				return fmt.Errorf("slot %d: %w", i, err)
			}
			return nil
		})
	}
	return group.Wait()
}
