package core

import (
	"github.com/sarchlab/duet/instr"
)

// Builder can create new machines.
type Builder struct {
	id    int64
	insts []instr.Inst
	inbox []int64
}

// NewBuilder returns a builder for a machine with identity 0.
func NewBuilder() Builder {
	return Builder{}
}

// WithID sets the identity. It seeds register p.
func (b Builder) WithID(id int64) Builder {
	b.id = id
	return b
}

// WithInstructions sets the program. The slice is shared, not copied, so
// machines built from the same program see the same instructions.
func (b Builder) WithInstructions(insts []instr.Inst) Builder {
	b.insts = insts
	return b
}

// WithInbox preloads messages into the inbound queue.
func (b Builder) WithInbox(msgs ...int64) Builder {
	b.inbox = append([]int64(nil), msgs...)
	return b
}

// Build creates a machine. A machine with no instructions starts out
// Terminated.
func (b Builder) Build(name string) *Machine {
	m := &Machine{name: name}

	m.state = machineState{
		ID:        b.id,
		Code:      b.insts,
		Registers: instr.RegisterFile{'p': b.id},
		Status:    Running,
	}

	for _, v := range b.inbox {
		m.state.Inbox.Push(v)
	}

	if len(b.insts) == 0 {
		m.state.Status = Terminated
	}

	return m
}
