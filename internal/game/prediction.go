package game

// PredictionEngine hides network latency for the local player. Each tick it
// re-bases on the last server-confirmed player state, discards every
// buffered action the server has already acknowledged, and replays the rest
// in sequence order through the same movement integrator an authoritative
// step uses. The replayed position is what gets rendered; the confirmed
// copy stays untouched as the base for the next tick.
type PredictionEngine struct {
	confirmed    Player
	hasConfirmed bool

	actions []Action
	nextID  uint32

	// maxDepth caps outstanding input at one second of ticks. Beyond it no
	// new action is produced, which is the backpressure that stops the
	// client flooding a lagging server.
	maxDepth  int
	tolerance float64
}

// NewPredictionEngine builds an engine buffering at most maxDepth unacked
// actions (callers pass the tick rate) with the given alignment tolerance.
func NewPredictionEngine(maxDepth int, tolerance float64) *PredictionEngine {
	if maxDepth <= 0 {
		maxDepth = 1
	}
	if tolerance <= 0 {
		tolerance = DefaultAlignTolerance
	}
	return &PredictionEngine{maxDepth: maxDepth, tolerance: tolerance}
}

// NextAction assigns the next sequence id to the given intent and buffers
// it. Returns false without buffering when the queue is at capacity; the
// caller must not transmit in that case.
func (e *PredictionEngine) NextAction(x, y int, fire bool, deltaTime float64) (Action, bool) {
	if len(e.actions) >= e.maxDepth {
		return Action{}, false
	}
	e.nextID++
	act := Action{ID: e.nextID, X: x, Y: y, Fire: fire, DeltaTime: deltaTime}
	act.Normalize()
	e.actions = append(e.actions, act)
	return act, true
}

// SetConfirmed installs the latest authoritative player state. The id the
// server echoes inside the player's action is the acknowledgement cursor:
// every buffered action at or below it is discarded. Monotonic id
// comparison, never timestamps.
func (e *PredictionEngine) SetConfirmed(p Player) {
	e.confirmed = p
	e.hasConfirmed = true

	acked := p.Action.ID
	kept := e.actions[:0]
	for _, act := range e.actions {
		if act.ID > acked {
			kept = append(kept, act)
		}
	}
	e.actions = kept
}

// Confirmed returns the last authoritative player state.
func (e *PredictionEngine) Confirmed() (Player, bool) {
	return e.confirmed, e.hasConfirmed
}

// Predicted replays the unacknowledged action buffer on top of the
// confirmed state and returns the resulting player. The confirmed copy is
// not mutated.
func (e *PredictionEngine) Predicted(w *World) Player {
	p := e.confirmed
	for _, act := range e.actions {
		applied := MoveAgent(&p, w, act, p.EffectiveSpeed(), e.tolerance)
		p.Action = applied
	}
	return p
}

// Unacked returns the buffered actions still awaiting acknowledgement, in
// increasing id order. The session re-sends them at most once per tick.
func (e *PredictionEngine) Unacked() []Action {
	out := make([]Action, len(e.actions))
	copy(out, e.actions)
	return out
}

// Depth returns the number of buffered unacknowledged actions.
func (e *PredictionEngine) Depth() int {
	return len(e.actions)
}

// Reset drops all buffered input and the confirmed state. Used on session
// teardown; sequence ids keep increasing so an id is never reused within a
// process.
func (e *PredictionEngine) Reset() {
	e.actions = nil
	e.confirmed = Player{}
	e.hasConfirmed = false
}
