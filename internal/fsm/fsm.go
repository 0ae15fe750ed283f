// Package fsm implements the deterministic state graph that governs the
// client's connection lifecycle. The machine is pure bookkeeping: handlers
// own all side effects, and it never touches network or render code.
package fsm

import (
	"errors"

	"go.uber.org/zap"
)

var (
	// ErrInitialStateSet reports a second SetInitialState call.
	ErrInitialStateSet = errors.New("fsm: initial state already set")
	// ErrUnknownTransition reports a SetState for an unregistered edge.
	ErrUnknownTransition = errors.New("fsm: no transition registered")
	// ErrDuplicateTransition reports re-registering an edge. The new
	// handler still wins; callers must not rely on rejection.
	ErrDuplicateTransition = errors.New("fsm: transition already registered")
)

// Handler runs when its edge is taken, with whatever data the caller passed
// to SetState.
type Handler func(data any)

type edge[S comparable] struct {
	from, to S
}

type pending[S comparable] struct {
	to      S
	handler Handler
	data    any
}

// Machine is a transition table keyed by ordered (from, to) pairs with
// exactly one handler per edge. Transitions requested via SetState are
// validated immediately but applied deferred: Drain, called once per tick,
// performs the state flip and handler invocation. A transition requested
// from inside another transition's handler therefore can never re-enter the
// dispatch table on the same call stack.
type Machine[S comparable] struct {
	log         *zap.SugaredLogger
	current     S
	initialised bool
	transitions map[edge[S]]Handler
	queue       []pending[S]
}

// New builds an empty machine. The logger may be nil.
func New[S comparable](log *zap.SugaredLogger) *Machine[S] {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Machine[S]{
		log:         log,
		transitions: make(map[edge[S]]Handler),
	}
}

// Current returns the machine's current state. Pending transitions are not
// reflected until Drain runs.
func (m *Machine[S]) Current() S {
	return m.current
}

// SetInitialState seeds the machine. Calling it twice is an error and keeps
// the first state.
func (m *Machine[S]) SetInitialState(s S) error {
	if m.initialised {
		m.log.Errorw("initial state already set", "state", m.current, "requested", s)
		return ErrInitialStateSet
	}
	m.current = s
	m.initialised = true
	return nil
}

// AddTransition registers handler for the ordered pair (from, to).
// Re-registering an edge is reported as an error but the new handler
// overwrites the old one: last write wins.
func (m *Machine[S]) AddTransition(from, to S, handler Handler) error {
	key := edge[S]{from: from, to: to}
	_, exists := m.transitions[key]
	m.transitions[key] = handler
	if exists {
		m.log.Errorw("transition re-registered", "from", from, "to", to)
		return ErrDuplicateTransition
	}
	return nil
}

// SetState requests a transition to the given state. The edge is looked up
// against the current state now; an unregistered edge is an error and a
// no-op, the state is left unchanged. A registered edge is queued and
// applied on the next Drain.
func (m *Machine[S]) SetState(to S, data any) error {
	handler, ok := m.transitions[edge[S]{from: m.current, to: to}]
	if !ok {
		m.log.Errorw("invalid transition", "from", m.current, "to", to)
		return ErrUnknownTransition
	}
	m.queue = append(m.queue, pending[S]{to: to, handler: handler, data: data})
	return nil
}

// Drain applies every queued transition in order, including transitions
// queued by handlers running inside this Drain. The state flips before the
// handler runs, so a handler observing Current sees the state it was
// registered for.
func (m *Machine[S]) Drain() {
	for len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		m.current = next.to
		if next.handler != nil {
			next.handler(next.data)
		}
	}
}

// Clear wipes all registered transitions and pending requests and resets
// the current state. Used when rebuilding the transition graph for a new
// session.
func (m *Machine[S]) Clear(newState S) {
	m.transitions = make(map[edge[S]]Handler)
	m.queue = nil
	m.current = newState
	m.initialised = true
}
