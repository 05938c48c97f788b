package api

import (
	"errors"
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/duet/core"
)

// ErrNothingSent is returned by a solo run that stopped before any snd.
var ErrNothingSent = errors.New("program stopped before sending anything")

// SoloResult summarizes a single-machine run.
type SoloResult struct {
	// Frequency is the most recently sent value when the run stopped.
	Frequency int64

	// Recovered is set when the run stopped on a blocking rcv whose
	// register was positive.
	Recovered bool

	// Blocked is set when the machine waits for a message no peer will
	// ever send.
	Blocked bool

	Ticks uint64
}

// SoloDriver runs one machine without a peer until it recovers a frequency.
type SoloDriver interface {
	Run() (SoloResult, error)
	Result() SoloResult
	Machine() Machine
}

type soloDriverImpl struct {
	*sim.TickingComponent

	machine  Machine
	maxTicks uint64

	result SoloResult
	done   bool
	err    error
}

// Func records the recovery hook of the machine.
func (d *soloDriverImpl) Func(ctx sim.HookCtx) {
	if ctx.Pos != core.HookPosRecover {
		return
	}

	d.result.Recovered = true
	d.result.Frequency = ctx.Item.(int64)
}

// Tick executes one instruction of the machine.
func (d *soloDriverImpl) Tick() (madeProgress bool) {
	if d.done {
		return false
	}

	if d.machine.State() != core.Running {
		d.finish()
		return false
	}

	if d.maxTicks > 0 && d.result.Ticks >= d.maxTicks {
		d.err = fmt.Errorf("%w after %d ticks", ErrRoundLimit, d.result.Ticks)
		d.finish()
		return false
	}

	d.machine.Tick()
	d.result.Ticks++

	if d.result.Recovered || d.machine.State() != core.Running {
		d.finish()
		return false
	}

	return true
}

func (d *soloDriverImpl) finish() {
	d.done = true

	if d.machine.State() == core.WaitingForMessage {
		d.result.Blocked = true
	}

	if !d.result.Recovered {
		v, ok := d.machine.LastSent()
		if ok {
			d.result.Frequency = v
		} else if d.err == nil {
			d.err = ErrNothingSent
		}
	}

	if err := d.machine.Err(); err != nil {
		d.err = err
	}

	core.Trace("Scheduler",
		"Behavior", "Halt",
		"Name", d.Name(),
		"Recovered", d.result.Recovered,
		"Blocked", d.result.Blocked,
		"Frequency", d.result.Frequency,
		"Ticks", d.result.Ticks,
	)
}

// Run drives the engine until the machine recovers, blocks or terminates.
func (d *soloDriverImpl) Run() (SoloResult, error) {
	d.TickNow()

	if err := d.Engine.Run(); err != nil {
		return d.result, err
	}

	return d.result, d.err
}

// Result returns the outcome so far.
func (d *soloDriverImpl) Result() SoloResult {
	return d.result
}

// Machine returns the driven machine.
func (d *soloDriverImpl) Machine() Machine {
	return d.machine
}
