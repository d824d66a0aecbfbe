package game

import (
	"errors"
	"fmt"
)

// Mode is the top-level game state
type Mode int

const (
	ModeMenu Mode = iota
	ModePlaying
	ModeWaveAnnouncement
	ModeUpgrade
	ModeDeathSequence
	ModeTeleporting
	ModeRevive
	ModeGameOver
)

func (m Mode) String() string {
	switch m {
	case ModeMenu:
		return "menu"
	case ModePlaying:
		return "playing"
	case ModeWaveAnnouncement:
		return "waveAnnouncement"
	case ModeUpgrade:
		return "upgrade"
	case ModeDeathSequence:
		return "deathSequence"
	case ModeTeleporting:
		return "teleporting"
	case ModeRevive:
		return "revive"
	case ModeGameOver:
		return "gameOver"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

var (
	ErrIllegalTransition = errors.New("illegal transition")
	ErrTransitionPending = errors.New("transition already pending")
)

// transitions lists every allowed source -> target edge
var transitions = map[Mode][]Mode{
	ModeMenu:             {ModePlaying},
	ModePlaying:          {ModeUpgrade, ModeDeathSequence, ModeWaveAnnouncement},
	ModeUpgrade:          {ModePlaying},
	ModeWaveAnnouncement: {ModePlaying},
	ModeDeathSequence:    {ModeTeleporting, ModeRevive, ModeGameOver},
	ModeTeleporting:      {ModePlaying},
	ModeRevive:           {ModePlaying, ModeGameOver},
	ModeGameOver:         {ModeMenu},
}

// Allowed reports whether from -> to is an edge of the transition table
func Allowed(from, to Mode) bool {
	for _, m := range transitions[from] {
		if m == to {
			return true
		}
	}
	return false
}

// Machine holds the current mode and at most one pending transition.
// A transition requested mid-tick takes effect when Apply runs at the
// start of the next tick.
type Machine struct {
	mode       Mode
	pending    Mode
	hasPending bool
	frames     int

	onEnter map[Mode]func(from Mode)
	onExit  map[Mode]func(to Mode)
}

// NewMachine creates a machine in the menu
func NewMachine() *Machine {
	return &Machine{
		mode:    ModeMenu,
		onEnter: make(map[Mode]func(Mode)),
		onExit:  make(map[Mode]func(Mode)),
	}
}

// OnEnter registers the entry action of a mode
func (m *Machine) OnEnter(mode Mode, fn func(from Mode)) {
	m.onEnter[mode] = fn
}

// OnExit registers the exit action of a mode
func (m *Machine) OnExit(mode Mode, fn func(to Mode)) {
	m.onExit[mode] = fn
}

// Mode returns the current mode
func (m *Machine) Mode() Mode {
	return m.mode
}

// Frames returns how many ticks the current mode has been active
func (m *Machine) Frames() int {
	return m.frames
}

// Pending returns the queued target mode, if any
func (m *Machine) Pending() (Mode, bool) {
	return m.pending, m.hasPending
}

// Request queues a transition to the target mode
func (m *Machine) Request(to Mode) error {
	if m.hasPending {
		return fmt.Errorf("%w: %s -> %s", ErrTransitionPending, m.mode, m.pending)
	}
	if !Allowed(m.mode, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, m.mode, to)
	}
	m.pending = to
	m.hasPending = true
	return nil
}

// Apply performs the pending transition, running exit then entry
// actions. Returns true if the mode changed.
func (m *Machine) Apply() bool {
	if !m.hasPending {
		m.frames++
		return false
	}
	from, to := m.mode, m.pending
	m.hasPending = false
	if fn := m.onExit[from]; fn != nil {
		fn(to)
	}
	m.mode = to
	m.frames = 0
	if fn := m.onEnter[to]; fn != nil {
		fn(from)
	}
	return true
}
