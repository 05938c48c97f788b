// Package instr defines the operands and the fixed instruction set of the
// duet machine.
package instr

import "fmt"

// Opcode selects what an instruction does.
type Opcode uint8

const (
	OpInvalid Opcode = iota
	OpSnd
	OpSet
	OpAdd
	OpMul
	OpMod
	OpRcv
	OpJgz
)

var opcodeNames = map[Opcode]string{
	OpSnd: "snd",
	OpSet: "set",
	OpAdd: "add",
	OpMul: "mul",
	OpMod: "mod",
	OpRcv: "rcv",
	OpJgz: "jgz",
}

// OpcodeByName looks up the opcode written as name in program text.
func OpcodeByName(name string) (Opcode, bool) {
	for op, n := range opcodeNames {
		if n == name {
			return op, true
		}
	}

	return OpInvalid, false
}

func (o Opcode) String() string {
	if n, ok := opcodeNames[o]; ok {
		return n
	}

	return fmt.Sprintf("op(%d)", uint8(o))
}

// NumOperands returns how many operands the opcode takes in program text.
func (o Opcode) NumOperands() int {
	switch o {
	case OpSnd, OpRcv:
		return 1
	case OpSet, OpAdd, OpMul, OpMod, OpJgz:
		return 2
	default:
		return 0
	}
}

// Inst is one instruction. Which fields are meaningful depends on Op:
//
//	snd A
//	set|add|mul|mod Dst A
//	rcv Dst
//	jgz A B
type Inst struct {
	Op  Opcode
	Dst Register
	A   Value
	B   Value
}

// Snd sends the value of v.
func Snd(v Value) Inst { return Inst{Op: OpSnd, A: v} }

// Set assigns v to dst.
func Set(dst Register, v Value) Inst { return Inst{Op: OpSet, Dst: dst, A: v} }

// Add adds v to dst.
func Add(dst Register, v Value) Inst { return Inst{Op: OpAdd, Dst: dst, A: v} }

// Mul multiplies dst by v.
func Mul(dst Register, v Value) Inst { return Inst{Op: OpMul, Dst: dst, A: v} }

// Mod replaces dst with the remainder of dst divided by v.
func Mod(dst Register, v Value) Inst { return Inst{Op: OpMod, Dst: dst, A: v} }

// Rcv receives the next message into dst.
func Rcv(dst Register) Inst { return Inst{Op: OpRcv, Dst: dst} }

// Jgz jumps by offset if cond is greater than zero.
func Jgz(cond, offset Value) Inst { return Inst{Op: OpJgz, A: cond, B: offset} }

// Writes returns the register the instruction assigns, if any.
func (i Inst) Writes() (Register, bool) {
	switch i.Op {
	case OpSet, OpAdd, OpMul, OpMod, OpRcv:
		return i.Dst, true
	default:
		return 0, false
	}
}

// Reads returns the registers the instruction reads.
func (i Inst) Reads() []Register {
	var regs []Register

	switch i.Op {
	case OpAdd, OpMul, OpMod:
		regs = append(regs, i.Dst)
	}

	for _, v := range i.operands() {
		if v.IsRegister() {
			regs = append(regs, v.Register())
		}
	}

	return regs
}

func (i Inst) operands() []Value {
	switch i.Op {
	case OpSnd, OpSet, OpAdd, OpMul, OpMod:
		return []Value{i.A}
	case OpJgz:
		return []Value{i.A, i.B}
	default:
		return nil
	}
}

func (i Inst) String() string {
	switch i.Op {
	case OpSnd:
		return fmt.Sprintf("%s %s", i.Op, i.A)
	case OpSet, OpAdd, OpMul, OpMod:
		return fmt.Sprintf("%s %s %s", i.Op, i.Dst, i.A)
	case OpRcv:
		return fmt.Sprintf("%s %s", i.Op, i.Dst)
	case OpJgz:
		return fmt.Sprintf("%s %s %s", i.Op, i.A, i.B)
	default:
		return i.Op.String()
	}
}
