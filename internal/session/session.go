// Package session tracks a live puzzle: which blocks are still on the board,
// how many attempts were made and whether a chain reaction is being played.
//
// A Session is owned by exactly one goroutine. Nothing in it is synchronized;
// concurrent attempts are ruled out by [Session.Select] refusing to start
// while another attempt is animating.
package session

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/vancomm/chainreaction-server/internal/chain"
)

type Phase uint8

const (
	Idle      Phase = iota // waiting for a block to be selected
	Animating              // an attempt is being played back
	Resolved               // the board was cleared
)

var phaseNames = [...]string{"idle", "animating", "resolved"}

// [Phase] implements [fmt.Stringer]
func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for i, name := range phaseNames {
		if name == string(text) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// Notifier receives the presentation hooks of a session.
type Notifier interface {
	Solved(s *Session)
	Reset(s *Session)
}

type nopNotifier struct{}

func (nopNotifier) Solved(*Session) {}
func (nopNotifier) Reset(*Session)  {}

type Session struct {
	Puzzle   *chain.PuzzleInstance
	Alive    []bool // indexed like Puzzle.Layout.Blocks
	Attempts int
	Phase    Phase
	Solved   bool
	Run      uint64 // bumped whenever in-flight playback becomes stale

	current  *chain.AttemptSimulation
	notifier Notifier
}

func New(p *chain.PuzzleInstance) *Session {
	s := &Session{}
	s.Replace(p)
	return s
}

func (s *Session) SetNotifier(n Notifier) {
	s.notifier = n
}

func (s *Session) notify() Notifier {
	if s.notifier == nil {
		return nopNotifier{}
	}
	return s.notifier
}

// Replace installs a new puzzle, e.g. after a difficulty change.
func (s *Session) Replace(p *chain.PuzzleInstance) {
	s.Puzzle = p
	s.Alive = make([]bool, p.Layout.Len())
	s.Attempts = 0
	s.reset()
}

// Restart puts every block of the current puzzle back on the board.
func (s *Session) Restart() {
	s.Attempts = 0
	s.reset()
}

// Cancel abandons an attempt that is being played back. The attempt still
// counts.
func (s *Session) Cancel() {
	if s.Phase != Animating {
		return
	}
	s.reset()
}

func (s *Session) reset() {
	s.Run++
	s.current = nil
	s.Phase = Idle
	s.Solved = false
	for i := range s.Alive {
		s.Alive[i] = true
	}
}

func (s *Session) slot(id int) (int, bool) {
	blocks := s.Puzzle.Layout.Blocks
	if 0 <= id && id < len(blocks) && blocks[id].ID == id {
		return id, true
	}
	for i, b := range blocks {
		if b.ID == id {
			return i, true
		}
	}
	return 0, false
}

// IsAlive reports whether block id is still on the board.
func (s *Session) IsAlive(id int) bool {
	i, ok := s.slot(id)
	return ok && s.Alive[i]
}

func (s *Session) AliveIDs() []int {
	ids := make([]int, 0, len(s.Alive))
	for i, alive := range s.Alive {
		if alive {
			ids = append(ids, s.Puzzle.Layout.Blocks[i].ID)
		}
	}
	return ids
}

/*
Select starts an attempt from block id. Selecting an unknown or vanished
block, or selecting while not Idle, is ignored and ok is false. On success
the session is Animating until [Session.Complete] is called with run.
*/
func (s *Session) Select(id int) (run uint64, sim *chain.AttemptSimulation, ok bool) {
	if s.Phase != Idle || !s.IsAlive(id) {
		return 0, nil, false
	}
	s.Attempts++
	s.Run++
	s.Phase = Animating
	s.current = chain.Simulate(s.Puzzle.Layout, id)
	return s.Run, s.current, true
}

// Vanish removes ids from the board while an attempt is animating.
func (s *Session) Vanish(run uint64, ids []int) bool {
	if run != s.Run || s.Phase != Animating {
		return false
	}
	for _, id := range ids {
		if i, ok := s.slot(id); ok {
			s.Alive[i] = false
		}
	}
	return true
}

/*
Complete finishes the attempt started with run. A cleared board moves to
Resolved and stays there until a restart or a new puzzle; otherwise the full
layout is restored and the session is Idle again. Stale runs are ignored.
*/
func (s *Session) Complete(run uint64) bool {
	if run != s.Run || s.Phase != Animating || s.current == nil {
		return false
	}
	if s.current.Success {
		s.current = nil
		s.Phase = Resolved
		s.Solved = true
		for i := range s.Alive {
			s.Alive[i] = false
		}
		s.notify().Solved(s)
		return true
	}
	s.reset()
	s.notify().Reset(s)
	return true
}

// Attempt runs a whole attempt without playback.
func (s *Session) Attempt(id int) (*chain.AttemptSimulation, bool) {
	run, sim, ok := s.Select(id)
	if !ok {
		return nil, false
	}
	s.Vanish(run, sim.Removed())
	s.Complete(run)
	return sim, true
}

func Decode(buf []byte) (*Session, error) {
	var s Session
	if err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&s); err != nil {
		return nil, err
	}
	if s.Puzzle == nil {
		return nil, fmt.Errorf("malformed session state: no puzzle")
	}
	if err := s.Puzzle.Validate(); err != nil {
		return nil, fmt.Errorf("malformed session state: %w", err)
	}
	if len(s.Alive) != s.Puzzle.Layout.Len() {
		return nil, fmt.Errorf("malformed session state: %d alive flags for %d blocks", len(s.Alive), s.Puzzle.Layout.Len())
	}
	// the playback that was running is gone
	if s.Phase == Animating {
		s.reset()
	}
	return &s, nil
}

func (s Session) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Snapshot is the client-facing view of a session.
type Snapshot struct {
	Difficulty chain.Difficulty `json:"difficulty"`
	Serial     int              `json:"serial"`
	Seed       uint32           `json:"seed"`
	Layout     *chain.Layout    `json:"layout"`
	Alive      []int            `json:"alive"`
	Attempts   int              `json:"attempts"`
	Phase      Phase            `json:"phase"`
	Solved     bool             `json:"solved"`
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Difficulty: s.Puzzle.Difficulty,
		Serial:     s.Puzzle.Serial,
		Seed:       s.Puzzle.Seed,
		Layout:     s.Puzzle.Layout,
		Alive:      s.AliveIDs(),
		Attempts:   s.Attempts,
		Phase:      s.Phase,
		Solved:     s.Solved,
	}
}
