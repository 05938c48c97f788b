// Package api defines the drivers that run duet machines.
package api

import (
	"errors"
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/duet/core"
)

// ErrRoundLimit is returned when a run is cut short by the round limit.
var ErrRoundLimit = errors.New("round limit reached")

// Machine is what a driver needs from a running program.
type Machine interface {
	AcceptHook(hook sim.Hook)
	State() core.State
	Tick() (msg int64, sent bool)
	SendMessage(v int64)
	ForceTerminate()
	LastSent() (int64, bool)
	Err() error
}

// Halt tells why a duet run stopped.
type Halt int

const (
	HaltNone Halt = iota
	HaltDeadlock
	HaltTerminated
	HaltRoundLimit
)

func (h Halt) String() string {
	switch h {
	case HaltNone:
		return "None"
	case HaltDeadlock:
		return "Deadlock"
	case HaltTerminated:
		return "Terminated"
	case HaltRoundLimit:
		return "RoundLimit"
	default:
		return fmt.Sprintf("Halt(%d)", int(h))
	}
}

// DuetResult summarizes a duet run.
type DuetResult struct {
	SentByProgram1 uint64
	Rounds         uint64
	Halt           Halt
}

// DuetDriver runs two machines in lockstep rounds, relaying messages between
// them until they deadlock or one terminates.
type DuetDriver interface {
	// Run drives rounds until the duet halts.
	Run() error

	// Result returns the outcome so far.
	Result() DuetResult

	// Programs returns the two machines, identity 0 first.
	Programs() [2]Machine
}

type duetDriverImpl struct {
	*sim.TickingComponent

	programs  [2]Machine
	maxRounds uint64

	rounds         uint64
	sentByProgram1 uint64
	halt           Halt
}

// Tick runs one round. Program 0 ticks first and anything it sends is
// queued at program 1 before program 1 ticks in the same round.
func (d *duetDriverImpl) Tick() (madeProgress bool) {
	if d.halt != HaltNone {
		return false
	}

	p0, p1 := d.programs[0], d.programs[1]

	if p0.State() == core.WaitingForMessage &&
		p1.State() == core.WaitingForMessage {
		p0.ForceTerminate()
		p1.ForceTerminate()
		d.stop(HaltDeadlock)

		return false
	}

	if p0.State() == core.Terminated || p1.State() == core.Terminated {
		d.stop(HaltTerminated)
		return false
	}

	if d.maxRounds > 0 && d.rounds >= d.maxRounds {
		d.stop(HaltRoundLimit)
		return false
	}

	d.rounds++

	if p0.State() == core.Running {
		if msg, sent := p0.Tick(); sent {
			p1.SendMessage(msg)
		}
	}

	if p1.State() == core.Running {
		if msg, sent := p1.Tick(); sent {
			p0.SendMessage(msg)
			d.sentByProgram1++
		}
	}

	return true
}

func (d *duetDriverImpl) stop(halt Halt) {
	d.halt = halt

	core.Trace("Scheduler",
		"Behavior", "Halt",
		"Name", d.Name(),
		"Reason", halt.String(),
		"Rounds", d.rounds,
		"SentByProgram1", d.sentByProgram1,
	)
}

// Run drives the engine until the duet halts.
func (d *duetDriverImpl) Run() error {
	d.TickNow()

	if err := d.Engine.Run(); err != nil {
		return err
	}

	return d.err()
}

func (d *duetDriverImpl) err() error {
	for i, p := range d.programs {
		if err := p.Err(); err != nil {
			return fmt.Errorf("program %d: %w", i, err)
		}
	}

	if d.halt == HaltRoundLimit {
		return fmt.Errorf("%w after %d rounds", ErrRoundLimit, d.rounds)
	}

	return nil
}

// Result returns the outcome so far.
func (d *duetDriverImpl) Result() DuetResult {
	return DuetResult{
		SentByProgram1: d.sentByProgram1,
		Rounds:         d.rounds,
		Halt:           d.halt,
	}
}

// Programs returns the two machines.
func (d *duetDriverImpl) Programs() [2]Machine {
	return d.programs
}
