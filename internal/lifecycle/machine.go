// Package lifecycle tracks the visibility and termination state of a window.
package lifecycle

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrTerminated is returned for any transition out of StateTerminated.
	ErrTerminated = errors.New("lifecycle: window terminated")
	// ErrInvalidTransition is returned for transitions the machine does not allow.
	ErrInvalidTransition = errors.New("lifecycle: invalid transition")
)

// State is the window lifecycle state.
type State int32

const (
	StateCreated State = iota
	StateShown
	StateHidden
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateShown:
		return "shown"
	case StateHidden:
		return "hidden"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// CloseAction is what the native close affordance does.
type CloseAction int

const (
	// CloseTerminates ends the event loop when the user closes the window.
	CloseTerminates CloseAction = iota
	// CloseHides cancels the native close and hides the window instead.
	CloseHides
)

// Machine is a thread-safe Created -> {Shown <-> Hidden} -> Terminated machine.
type Machine struct {
	mu        sync.Mutex
	state     State
	onClose   CloseAction
	listeners []func(from, to State)
}

// New returns a machine in StateCreated.
func New(onClose CloseAction) *Machine {
	return &Machine{state: StateCreated, onClose: onClose}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Terminated reports whether the machine reached its absorbing state.
func (m *Machine) Terminated() bool {
	return m.Current() == StateTerminated
}

// Check returns ErrTerminated once the machine is terminated.
func (m *Machine) Check() error {
	if m.Terminated() {
		return ErrTerminated
	}
	return nil
}

// OnTransition registers fn to run after every effective transition. fn runs
// on the goroutine that caused the transition, outside the machine lock.
func (m *Machine) OnTransition(fn func(from, to State)) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Transition moves to the requested state. Repeating the current state is a
// no-op reported with changed=false.
func (m *Machine) Transition(to State) (changed bool, err error) {
	m.mu.Lock()
	from := m.state
	if from == to {
		m.mu.Unlock()
		return false, nil
	}
	if err := validate(from, to); err != nil {
		m.mu.Unlock()
		return false, err
	}
	m.state = to
	listeners := append([]func(from, to State){}, m.listeners...)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(from, to)
	}
	return true, nil
}

// Close applies the close policy and returns the resulting state.
func (m *Machine) Close() (State, error) {
	target := StateTerminated
	if m.onClose == CloseHides {
		target = StateHidden
	}
	if _, err := m.Transition(target); err != nil {
		return m.Current(), err
	}
	return target, nil
}

func validate(from, to State) error {
	if from == StateTerminated {
		return ErrTerminated
	}
	switch to {
	case StateShown, StateHidden, StateTerminated:
		return nil
	default:
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
}
