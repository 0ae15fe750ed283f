package fsm

import (
	"errors"
	"testing"
)

type connState int

const (
	stateMenu connState = iota
	stateFinding
	stateConnected
	statePlaying
)

func newTestMachine(t *testing.T) *Machine[connState] {
	t.Helper()
	m := New[connState](nil)
	if err := m.SetInitialState(stateMenu); err != nil {
		t.Fatalf("SetInitialState: %v", err)
	}
	return m
}

func TestTransitionsAreDeferredUntilDrain(t *testing.T) {
	m := newTestMachine(t)
	fired := 0
	m.AddTransition(stateMenu, stateFinding, func(data any) {
		fired++
		if m.Current() != stateFinding {
			t.Fatalf("handler observed state %v, want %v", m.Current(), stateFinding)
		}
		if data != "payload" {
			t.Fatalf("data = %v", data)
		}
	})

	if err := m.SetState(stateFinding, "payload"); err != nil {
		t.Fatalf("SetState: %v", err)
	}
	if m.Current() != stateMenu {
		t.Fatalf("state flipped before Drain")
	}
	if fired != 0 {
		t.Fatalf("handler ran before Drain")
	}

	m.Drain()
	if fired != 1 || m.Current() != stateFinding {
		t.Fatalf("fired=%d state=%v after Drain", fired, m.Current())
	}
}

func TestUnregisteredEdgeIsNoOp(t *testing.T) {
	m := newTestMachine(t)
	m.AddTransition(stateMenu, stateFinding, nil)

	err := m.SetState(statePlaying, nil)
	if !errors.Is(err, ErrUnknownTransition) {
		t.Fatalf("err = %v, want ErrUnknownTransition", err)
	}
	m.Drain()
	if m.Current() != stateMenu {
		t.Fatalf("state = %v after rejected transition, want %v", m.Current(), stateMenu)
	}
}

func TestHandlerCanChainTransitions(t *testing.T) {
	m := newTestMachine(t)
	var order []connState
	m.AddTransition(stateMenu, stateFinding, func(any) {
		order = append(order, stateFinding)
		// Queued from inside a handler; applied within the same Drain.
		if err := m.SetState(stateConnected, nil); err != nil {
			t.Fatalf("chained SetState: %v", err)
		}
	})
	m.AddTransition(stateFinding, stateConnected, func(any) {
		order = append(order, stateConnected)
	})

	m.SetState(stateFinding, nil)
	m.Drain()

	if len(order) != 2 || order[0] != stateFinding || order[1] != stateConnected {
		t.Fatalf("order = %v", order)
	}
	if m.Current() != stateConnected {
		t.Fatalf("state = %v, want %v", m.Current(), stateConnected)
	}
}

func TestSetInitialStateOnlyOnce(t *testing.T) {
	m := New[connState](nil)
	if err := m.SetInitialState(stateMenu); err != nil {
		t.Fatalf("first SetInitialState: %v", err)
	}
	if err := m.SetInitialState(statePlaying); !errors.Is(err, ErrInitialStateSet) {
		t.Fatalf("err = %v, want ErrInitialStateSet", err)
	}
	if m.Current() != stateMenu {
		t.Fatalf("second SetInitialState changed the state")
	}
}

func TestDuplicateEdgeLastWriteWins(t *testing.T) {
	m := newTestMachine(t)
	m.AddTransition(stateMenu, stateFinding, func(any) {
		t.Fatalf("overwritten handler ran")
	})
	ran := false
	if err := m.AddTransition(stateMenu, stateFinding, func(any) { ran = true }); !errors.Is(err, ErrDuplicateTransition) {
		t.Fatalf("err = %v, want ErrDuplicateTransition", err)
	}

	m.SetState(stateFinding, nil)
	m.Drain()
	if !ran {
		t.Fatalf("replacement handler did not run")
	}
}

func TestClearResetsGraphAndQueue(t *testing.T) {
	m := newTestMachine(t)
	m.AddTransition(stateMenu, stateFinding, func(any) {
		t.Fatalf("handler survived Clear")
	})
	m.SetState(stateFinding, nil)

	m.Clear(statePlaying)
	m.Drain()
	if m.Current() != statePlaying {
		t.Fatalf("state = %v after Clear", m.Current())
	}
	if err := m.SetState(stateFinding, nil); !errors.Is(err, ErrUnknownTransition) {
		t.Fatalf("cleared machine still has edges: %v", err)
	}
}
