package core

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/duet/instr"
)

// HookPosMsgSend marks when the machine emits a message. The item is the
// int64 value.
var HookPosMsgSend = &sim.HookPos{Name: "Machine Msg Send"}

// HookPosMsgRecv marks when the machine consumes a message from its inbox.
var HookPosMsgRecv = &sim.HookPos{Name: "Machine Msg Recv"}

// HookPosRecover marks the first blocking rcv whose register is positive.
// The item is the most recently sent value. It fires at most once per
// machine.
var HookPosRecover = &sim.HookPos{Name: "Machine Recover"}

// HookFunc adapts a function to the sim.Hook interface.
type HookFunc func(ctx sim.HookCtx)

// Func calls f.
func (f HookFunc) Func(ctx sim.HookCtx) {
	f(ctx)
}

// Machine runs one instance of a duet program.
type Machine struct {
	sim.HookableBase

	name  string
	state machineState
	emu   instEmulator

	recovered bool
	ticks     uint64
	sent      uint64
	received  uint64
	err       error
}

// Name returns the name given at build time.
func (m *Machine) Name() string {
	return m.name
}

// ID returns the identity that seeded register p.
func (m *Machine) ID() int64 {
	return m.state.ID
}

// State returns the scheduling state.
func (m *Machine) State() State {
	return m.state.Status
}

// PC returns the instruction pointer.
func (m *Machine) PC() int {
	return m.state.PC
}

// Instructions returns the program the machine runs. Callers must not
// modify it.
func (m *Machine) Instructions() []instr.Inst {
	return m.state.Code
}

// Register returns the value of r, 0 if never written.
func (m *Machine) Register(r instr.Register) int64 {
	return m.state.Registers.Get(r)
}

// Registers returns a copy of the register file.
func (m *Machine) Registers() instr.RegisterFile {
	return m.state.Registers.Clone()
}

// QueueLen returns the number of undelivered inbound messages.
func (m *Machine) QueueLen() int {
	return m.state.Inbox.Size()
}

// Queue returns a copy of the inbound messages, front first.
func (m *Machine) Queue() []int64 {
	return m.state.Inbox.Snapshot()
}

// LastSent returns the most recently sent value, if any.
func (m *Machine) LastSent() (int64, bool) {
	return m.state.LastSent, m.state.HasSent
}

// SentCount returns how many messages the machine has emitted.
func (m *Machine) SentCount() uint64 {
	return m.sent
}

// ReceivedCount returns how many messages the machine has consumed.
func (m *Machine) ReceivedCount() uint64 {
	return m.received
}

// TickCount returns how many instructions have been executed.
func (m *Machine) TickCount() uint64 {
	return m.ticks
}

// Err returns the fault that terminated the machine, if any.
func (m *Machine) Err() error {
	return m.err
}

// SendMessage appends v to the inbox. A waiting machine becomes Running
// and completes its pending rcv on the next tick.
func (m *Machine) SendMessage(v int64) {
	m.state.Inbox.Push(v)

	if m.state.Status == WaitingForMessage {
		m.state.Status = Running

		Trace("Machine",
			"Behavior", "Wake",
			"Name", m.name,
			"ID", m.state.ID,
			"PC", m.state.PC,
		)
	}
}

// ForceTerminate stops the machine for good.
func (m *Machine) ForceTerminate() {
	if m.state.Status == Terminated {
		return
	}

	m.state.Status = Terminated

	Trace("Machine",
		"Behavior", "ForceTerminate",
		"Name", m.name,
		"ID", m.state.ID,
		"PC", m.state.PC,
	)
}

// Tick executes exactly one instruction and returns the message it emitted,
// if any. Ticking a machine that is not Running is a programming error.
func (m *Machine) Tick() (msg int64, sent bool) {
	if m.state.Status != Running {
		panic(fmt.Sprintf("machine %s ticked while %s", m.name, m.state.Status))
	}

	m.ticks++
	pc := m.state.PC
	inst := m.state.Code[pc]

	eff, err := m.emu.RunInst(&m.state)
	if err != nil {
		m.err = err

		Trace("Machine",
			"Behavior", "Fault",
			"Name", m.name,
			"ID", m.state.ID,
			"PC", pc,
			"Inst", inst.String(),
			"Error", err.Error(),
		)

		return 0, false
	}

	m.report(pc, inst, eff)

	return eff.value, eff.sent
}

func (m *Machine) report(pc int, inst instr.Inst, eff effect) {
	switch {
	case eff.sent:
		m.sent++
		Trace("DataFlow",
			"Behavior", "Send",
			"Name", m.name,
			"ID", m.state.ID,
			"PC", pc,
			"Data", eff.value,
		)
		m.InvokeHook(sim.HookCtx{Domain: m, Pos: HookPosMsgSend, Item: eff.value})
	case eff.received:
		m.received++
		Trace("DataFlow",
			"Behavior", "Recv",
			"Name", m.name,
			"ID", m.state.ID,
			"PC", pc,
			"Register", inst.Dst.String(),
			"Data", eff.value,
		)
		m.InvokeHook(sim.HookCtx{Domain: m, Pos: HookPosMsgRecv, Item: eff.value})
	case eff.blocked:
		Trace("Machine",
			"Behavior", "Block",
			"Name", m.name,
			"ID", m.state.ID,
			"PC", pc,
		)
		if eff.recoverable && !m.recovered {
			m.recovered = true
			Trace("Machine",
				"Behavior", "Recover",
				"Name", m.name,
				"ID", m.state.ID,
				"Data", m.state.LastSent,
			)
			m.InvokeHook(sim.HookCtx{
				Domain: m,
				Pos:    HookPosRecover,
				Item:   m.state.LastSent,
			})
		}
	}

	if eff.jumpedOut || eff.fellOff {
		Trace("Machine",
			"Behavior", "Terminate",
			"Name", m.name,
			"ID", m.state.ID,
			"PC", pc,
			"Inst", inst.String(),
		)
	}
}
