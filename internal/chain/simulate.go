package chain

// DirectionCast is the outcome of one arrow of a vanishing block: the ray
// walks cell by cell until it meets a block that is still alive or leaves the
// board.
type DirectionCast struct {
	Dir Direction `json:"dir"`
	To  int       `json:"to"`  // id of the block hit, -1 if none
	Hit bool      `json:"hit"` // false when the ray left the board
	Ray []Point   `json:"ray"` // traversed cells, the hit cell last
}

type WaveSource struct {
	From  int             `json:"from"`
	Casts []DirectionCast `json:"casts"`
}

// Wave is one synchronous step: all sources vanish before any ray is cast.
type Wave struct {
	Sources []WaveSource `json:"sources"`
}

// Hits returns the deduplicated ids hit during the wave, in cast order.
func (w Wave) Hits() []int {
	var hits []int
	seen := make(map[int]struct{})
	for _, src := range w.Sources {
		for _, c := range src.Casts {
			if !c.Hit {
				continue
			}
			if _, ok := seen[c.To]; !ok {
				seen[c.To] = struct{}{}
				hits = append(hits, c.To)
			}
		}
	}
	return hits
}

func (w Wave) SourceIDs() []int {
	ids := make([]int, len(w.Sources))
	for i, src := range w.Sources {
		ids[i] = src.From
	}
	return ids
}

type AttemptSimulation struct {
	StartID   int    `json:"start_id"`
	Waves     []Wave `json:"waves"`
	Success   bool   `json:"success"`
	Remaining int    `json:"remaining"`
}

// Removed returns every id that vanished during the attempt, wave by wave.
func (s *AttemptSimulation) Removed() []int {
	var ids []int
	for _, w := range s.Waves {
		ids = append(ids, w.SourceIDs()...)
	}
	return ids
}

// Simulate resolves the chain reaction started by startID. It never mutates
// layout and always yields the same result for the same arguments. An id
// that is not part of layout produces no waves.
func Simulate(layout *Layout, startID int) *AttemptSimulation {
	return newSimulator(layout).run(startID, true)
}

// simulator keeps the per-layout lookup tables so that many starts can be
// tried against the same layout without rebuilding them.
type simulator struct {
	layout   *Layout
	slots    map[int]int // block id -> index in layout.Blocks
	cellSlot []int       // pristine cell key -> slot
	index    []int       // live cell key -> slot, -1 once vanished
	alive    bitset
	hit      bitset
}

func newSimulator(layout *Layout) *simulator {
	s := &simulator{
		layout:   layout,
		slots:    make(map[int]int, len(layout.Blocks)),
		cellSlot: make([]int, layout.Size()),
		index:    make([]int, layout.Size()),
		alive:    newBitset(len(layout.Blocks)),
		hit:      newBitset(len(layout.Blocks)),
	}
	for i := range s.cellSlot {
		s.cellSlot[i] = -1
	}
	for slot, b := range layout.Blocks {
		if _, dup := s.slots[b.ID]; dup {
			continue
		}
		s.slots[b.ID] = slot
		if p := b.Point(); layout.InBounds(p) && s.cellSlot[layout.Key(p)] < 0 {
			s.cellSlot[layout.Key(p)] = slot
		}
	}
	return s
}

func (s *simulator) reset() {
	copy(s.index, s.cellSlot)
	s.alive.reset()
	for _, slot := range s.slots {
		s.alive.set(slot)
	}
}

func (s *simulator) run(startID int, trace bool) *AttemptSimulation {
	s.reset()
	result := &AttemptSimulation{StartID: startID}

	var frontier, live []int
	if slot, ok := s.slots[startID]; ok {
		frontier = append(frontier, slot)
	}

	for len(frontier) > 0 {
		live = live[:0]
		for _, slot := range frontier {
			if s.alive.has(slot) {
				live = append(live, slot)
			}
		}
		if len(live) == 0 {
			break
		}

		/*
		 * Every source leaves the board before the first ray is cast, so two
		 * blocks vanishing together never see or block each other.
		 */
		for _, slot := range live {
			s.alive.clear(slot)
			if p := s.layout.Blocks[slot].Point(); s.layout.InBounds(p) {
				key := s.layout.Key(p)
				if s.index[key] == slot {
					s.index[key] = -1
				}
			}
		}

		var next []int
		var wave Wave
		if trace {
			wave.Sources = make([]WaveSource, 0, len(live))
		}
		for _, slot := range live {
			block := s.layout.Blocks[slot]
			var src WaveSource
			if trace {
				src = WaveSource{From: block.ID, Casts: make([]DirectionCast, 0, len(block.Dirs))}
			}
			for _, d := range block.Dirs {
				cast := s.cast(block.Point(), d, trace)
				if cast.Hit {
					hitSlot := s.slots[cast.To]
					if !s.hit.has(hitSlot) {
						s.hit.set(hitSlot)
						next = append(next, hitSlot)
					}
				}
				if trace {
					src.Casts = append(src.Casts, cast)
				}
			}
			if trace {
				wave.Sources = append(wave.Sources, src)
			}
		}
		for _, slot := range next {
			s.hit.clear(slot)
		}

		if trace {
			result.Waves = append(result.Waves, wave)
		}
		frontier = next
	}

	result.Remaining = s.alive.count()
	result.Success = result.Remaining == 0
	return result
}

func (s *simulator) cast(from Point, d Direction, trace bool) DirectionCast {
	cast := DirectionCast{Dir: d, To: -1}
	if !d.Valid() {
		return cast
	}
	for p := from.Step(d); s.layout.InBounds(p); p = p.Step(d) {
		if trace {
			cast.Ray = append(cast.Ray, p)
		}
		if slot := s.index[s.layout.Key(p)]; slot >= 0 {
			cast.To = s.layout.Blocks[slot].ID
			cast.Hit = true
			break
		}
	}
	return cast
}

// solves reports whether starting at id clears the whole board.
func (s *simulator) solves(id int) bool {
	return s.run(id, false).Success
}

// countWinners counts the blocks that clear the board on their own, giving up
// as soon as more than limit are found.
func (s *simulator) countWinners(limit int) int {
	n := 0
	for _, b := range s.layout.Blocks {
		if s.solves(b.ID) {
			n++
			if n > limit {
				break
			}
		}
	}
	return n
}

// Winners lists every block id that clears layout on its own.
func Winners(layout *Layout) []int {
	s := newSimulator(layout)
	var ids []int
	for _, b := range layout.Blocks {
		if s.solves(b.ID) {
			ids = append(ids, b.ID)
		}
	}
	return ids
}
