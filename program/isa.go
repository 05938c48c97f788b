package program

import "github.com/sarchlab/duet/instr"

// operandShape tells the parser what each operand slot accepts.
type operandShape uint8

const (
	shapeValue operandShape = iota
	shapeRegister
)

// isa lists the operand shapes of every opcode, in program-text order.
var isa = map[instr.Opcode][]operandShape{
	instr.OpSnd: {shapeValue},
	instr.OpSet: {shapeRegister, shapeValue},
	instr.OpAdd: {shapeRegister, shapeValue},
	instr.OpMul: {shapeRegister, shapeValue},
	instr.OpMod: {shapeRegister, shapeValue},
	instr.OpRcv: {shapeRegister},
	instr.OpJgz: {shapeValue, shapeValue},
}

func build(op instr.Opcode, regs []instr.Register, vals []instr.Value) instr.Inst {
	switch op {
	case instr.OpSnd:
		return instr.Snd(vals[0])
	case instr.OpSet:
		return instr.Set(regs[0], vals[0])
	case instr.OpAdd:
		return instr.Add(regs[0], vals[0])
	case instr.OpMul:
		return instr.Mul(regs[0], vals[0])
	case instr.OpMod:
		return instr.Mod(regs[0], vals[0])
	case instr.OpRcv:
		return instr.Rcv(regs[0])
	case instr.OpJgz:
		return instr.Jgz(vals[0], vals[1])
	default:
		panic("unknown opcode " + op.String())
	}
}
