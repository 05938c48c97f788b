package core

import (
	"errors"
	"fmt"

	"github.com/sarchlab/duet/instr"
)

// ErrModuloByZero is the fault raised by a mod instruction whose divisor is 0.
var ErrModuloByZero = errors.New("modulo by zero")

// State is the scheduling state of a machine.
type State int

const (
	Running State = iota
	WaitingForMessage
	Terminated
)

func (s State) String() string {
	switch s {
	case Running:
		return "Running"
	case WaitingForMessage:
		return "WaitingForMessage"
	case Terminated:
		return "Terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type machineState struct {
	ID        int64
	PC        int
	Code      []instr.Inst
	Registers instr.RegisterFile
	Status    State
	Inbox     messageQueue

	LastSent int64
	HasSent  bool
}

// effect describes what one instruction did, for the machine to report.
type effect struct {
	sent     bool
	received bool
	value    int64

	blocked     bool
	recoverable bool
	jumpedOut   bool
	fellOff     bool
}

type instEmulator struct {
}

// RunInst executes the instruction at state.PC. state.Status must be Running.
func (i instEmulator) RunInst(state *machineState) (effect, error) {
	inst := state.Code[state.PC]

	var (
		eff effect
		err error
	)

	switch inst.Op {
	case instr.OpSet:
		state.Registers[inst.Dst] = inst.A.Resolve(state.Registers)
		i.advance(state, &eff)
	case instr.OpAdd:
		state.Registers[inst.Dst] += inst.A.Resolve(state.Registers)
		i.advance(state, &eff)
	case instr.OpMul:
		state.Registers[inst.Dst] *= inst.A.Resolve(state.Registers)
		i.advance(state, &eff)
	case instr.OpMod:
		err = i.runMod(inst, state, &eff)
	case instr.OpSnd:
		i.runSnd(inst, state, &eff)
	case instr.OpRcv:
		i.runRcv(inst, state, &eff)
	case instr.OpJgz:
		i.runJgz(inst, state, &eff)
	default:
		panic(fmt.Sprintf("unknown instruction '%s' at PC %d", inst, state.PC))
	}

	return eff, err
}

func (i instEmulator) runMod(
	inst instr.Inst,
	state *machineState,
	eff *effect,
) error {
	divisor := inst.A.Resolve(state.Registers)
	if divisor == 0 {
		state.Status = Terminated
		return fmt.Errorf("%w: pc %d %q", ErrModuloByZero, state.PC, inst)
	}

	state.Registers[inst.Dst] %= divisor
	i.advance(state, eff)

	return nil
}

func (i instEmulator) runSnd(inst instr.Inst, state *machineState, eff *effect) {
	v := inst.A.Resolve(state.Registers)

	state.LastSent = v
	state.HasSent = true

	eff.sent = true
	eff.value = v

	i.advance(state, eff)
}

// runRcv pops the inbox into the destination register. On an empty inbox the
// machine waits and the PC stays, so the same rcv retries once woken.
func (i instEmulator) runRcv(inst instr.Inst, state *machineState, eff *effect) {
	v, ok := state.Inbox.Pop()
	if !ok {
		state.Status = WaitingForMessage
		eff.blocked = true
		eff.recoverable = state.HasSent && state.Registers.Get(inst.Dst) > 0
		return
	}

	state.Registers[inst.Dst] = v
	eff.received = true
	eff.value = v

	i.advance(state, eff)
}

func (i instEmulator) runJgz(inst instr.Inst, state *machineState, eff *effect) {
	if inst.A.Resolve(state.Registers) <= 0 {
		i.advance(state, eff)
		return
	}

	target := int64(state.PC) + inst.B.Resolve(state.Registers)
	if target < 0 || target >= int64(len(state.Code)) {
		state.Status = Terminated
		eff.jumpedOut = true
		return
	}

	state.PC = int(target)
}

// advance moves to the next instruction. Running off the end terminates.
func (i instEmulator) advance(state *machineState, eff *effect) {
	state.PC++

	if state.PC >= len(state.Code) {
		state.Status = Terminated
		eff.fellOff = true
	}
}
