package session

import (
	"context"
	"time"

	"github.com/vancomm/chainreaction-server/internal/chain"
)

// Timings paces the playback of an attempt.
type Timings struct {
	Activation time.Duration // before the first wave
	RayTravel  time.Duration // sources vanish, rays fly
	Hit        time.Duration // rays land
	WaveGap    time.Duration // between waves
}

type FrameKind uint8

const (
	FrameActivate FrameKind = iota + 1
	FrameVanish
	FrameCast
	FrameHit
	FrameDone
)

var frameKindNames = [...]string{"", "activate", "vanish", "cast", "hit", "done"}

func (k FrameKind) String() string {
	if int(k) < len(frameKindNames) {
		return frameKindNames[k]
	}
	return "unknown"
}

func (k FrameKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Frame is one step of a playback.
type Frame struct {
	Run     uint64             `json:"-"`
	Kind    FrameKind          `json:"kind"`
	Wave    int                `json:"wave"`
	IDs     []int              `json:"ids,omitempty"`
	Sources []chain.WaveSource `json:"sources,omitempty"`
	Success bool               `json:"success,omitempty"`
}

/*
Play walks sim wave by wave and hands every frame to emit, sleeping between
them as configured by t. It stops quietly as soon as emit returns false and
returns ctx.Err() if ctx is cancelled while waiting.
*/
func Play(ctx context.Context, run uint64, sim *chain.AttemptSimulation, t Timings, emit func(Frame) bool) error {
	if !emit(Frame{Run: run, Kind: FrameActivate, IDs: []int{sim.StartID}}) {
		return nil
	}
	if err := sleep(ctx, t.Activation); err != nil {
		return err
	}

	for i, w := range sim.Waves {
		if i > 0 {
			if err := sleep(ctx, t.WaveGap); err != nil {
				return err
			}
		}

		if !emit(Frame{Run: run, Kind: FrameVanish, Wave: i, IDs: w.SourceIDs()}) {
			return nil
		}
		if !emit(Frame{Run: run, Kind: FrameCast, Wave: i, Sources: w.Sources}) {
			return nil
		}
		if err := sleep(ctx, t.RayTravel); err != nil {
			return err
		}

		if hits := w.Hits(); len(hits) > 0 {
			if !emit(Frame{Run: run, Kind: FrameHit, Wave: i, IDs: hits}) {
				return nil
			}
			if err := sleep(ctx, t.Hit); err != nil {
				return err
			}
		}
	}

	emit(Frame{Run: run, Kind: FrameDone, Wave: len(sim.Waves), Success: sim.Success})
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Apply folds a playback frame into the session. Frames of a stale run are
// dropped and Apply returns false.
func (s *Session) Apply(f Frame) bool {
	if f.Run != s.Run || s.Phase != Animating {
		return false
	}
	switch f.Kind {
	case FrameVanish:
		return s.Vanish(f.Run, f.IDs)
	case FrameDone:
		return s.Complete(f.Run)
	}
	return true
}
