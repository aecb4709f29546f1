package session

import (
	"context"
	"log/slog"

	"github.com/vancomm/chainreaction-server/internal/chain"
)

type CommandKind uint8

const (
	CommandRefresh CommandKind = iota
	CommandSelect
	CommandRestart
	CommandReplace
)

type Command struct {
	Kind   CommandKind
	ID     int                   // CommandSelect
	Puzzle *chain.PuzzleInstance // CommandReplace
}

type EventKind string

const (
	EventFrame    EventKind = "frame"
	EventSnapshot EventKind = "snapshot"
	EventSolved   EventKind = "solved"
	EventReset    EventKind = "reset"
	EventReplaced EventKind = "replaced"
)

type Event struct {
	Kind     EventKind `json:"kind"`
	Frame    *Frame    `json:"frame,omitempty"`
	Snapshot *Snapshot `json:"snapshot,omitempty"`
	Key      string    `json:"puzzle_session_id,omitempty"` // EventReplaced
}

/*
Driver is the single owner of a Session. Commands and playback frames reach
it over channels and are applied one at a time by [Driver.Run]; playback
itself runs in its own goroutine and never touches the session.
*/
type Driver struct {
	session *Session
	timings Timings
	logger  *slog.Logger
	persist func(context.Context, *Session) error
	replace func(context.Context, *Session) (string, error)

	frames  chan Frame
	stop    context.CancelFunc
	pending []Event
}

func NewDriver(s *Session, t Timings, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{
		session: s,
		timings: t,
		logger:  logger,
		frames:  make(chan Frame),
	}
}

// OnChange registers fn to be called whenever the session settles in a new
// state (attempt finished, restart, new puzzle).
func (d *Driver) OnChange(fn func(context.Context, *Session) error) {
	d.persist = fn
}

/*
OnReplace registers fn to store a new puzzle under a key of its own. fn sees
the fresh session before it is installed; if fn fails the current puzzle is
kept. Without fn a new puzzle is stored through [Driver.OnChange].
*/
func (d *Driver) OnReplace(fn func(context.Context, *Session) (string, error)) {
	d.replace = fn
}

// [Driver] implements [Notifier]
func (d *Driver) Solved(*Session) {
	d.pending = append(d.pending, Event{Kind: EventSolved})
}

func (d *Driver) Reset(*Session) {
	d.pending = append(d.pending, Event{Kind: EventReset})
}

// Run serves commands until ctx is done or commands is closed.
func (d *Driver) Run(ctx context.Context, commands <-chan Command, send func(Event) error) error {
	d.session.SetNotifier(d)
	defer d.halt()

	d.snapshot()
	if err := d.flush(send); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case cmd, ok := <-commands:
			if !ok {
				return nil
			}
			d.handle(ctx, cmd)

		case f := <-d.frames:
			if f.Run != d.session.Run || d.session.Phase != Animating {
				d.logger.Debug("dropping stale frame", slog.Uint64("run", f.Run))
				continue
			}
			d.pending = append(d.pending, Event{Kind: EventFrame, Frame: &f})
			d.session.Apply(f)
			if f.Kind == FrameDone {
				d.halt()
				d.settle(ctx)
			}
		}

		if err := d.flush(send); err != nil {
			return err
		}
	}
}

func (d *Driver) handle(ctx context.Context, cmd Command) {
	switch cmd.Kind {
	case CommandRefresh:
		d.snapshot()

	case CommandSelect:
		run, sim, ok := d.session.Select(cmd.ID)
		if !ok {
			d.logger.Debug("ignoring selection", slog.Int("id", cmd.ID), slog.String("phase", d.session.Phase.String()))
			return
		}
		d.logger.Debug("attempt started",
			slog.Int("id", cmd.ID),
			slog.Uint64("run", run),
			slog.Int("waves", len(sim.Waves)),
			slog.Bool("success", sim.Success),
		)
		d.halt()
		pctx, cancel := context.WithCancel(ctx)
		d.stop = cancel
		go Play(pctx, run, sim, d.timings, func(f Frame) bool {
			select {
			case d.frames <- f:
				return true
			case <-pctx.Done():
				return false
			}
		})

	case CommandRestart:
		d.halt()
		d.session.Restart()
		d.settle(ctx)

	case CommandReplace:
		if cmd.Puzzle == nil {
			return
		}
		if d.replace == nil {
			d.halt()
			d.session.Replace(cmd.Puzzle)
			d.settle(ctx)
			return
		}
		key, err := d.replace(ctx, New(cmd.Puzzle))
		if err != nil {
			d.logger.Error("unable to store new puzzle", slog.Any("error", err))
			d.snapshot()
			return
		}
		d.halt()
		d.session.Replace(cmd.Puzzle)
		d.pending = append(d.pending, Event{Kind: EventReplaced, Key: key})
		d.snapshot()
	}
}

// halt cancels the running playback, if any.
func (d *Driver) halt() {
	if d.stop != nil {
		d.stop()
		d.stop = nil
	}
}

func (d *Driver) settle(ctx context.Context) {
	if d.persist != nil {
		if err := d.persist(ctx, d.session); err != nil {
			d.logger.Error("unable to persist session", slog.Any("error", err))
		}
	}
	d.snapshot()
}

func (d *Driver) snapshot() {
	snap := d.session.Snapshot()
	d.pending = append(d.pending, Event{Kind: EventSnapshot, Snapshot: &snap})
}

func (d *Driver) flush(send func(Event) error) error {
	for i, e := range d.pending {
		if err := send(e); err != nil {
			d.pending = d.pending[i+1:]
			return err
		}
	}
	d.pending = d.pending[:0]
	return nil
}
