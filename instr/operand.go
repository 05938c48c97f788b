package instr

import (
	"fmt"
	"strconv"
)

// Register names a single-letter register, 'a' through 'z'.
type Register byte

// IsValid reports whether r is a lowercase letter.
func (r Register) IsValid() bool {
	return r >= 'a' && r <= 'z'
}

func (r Register) String() string {
	return string(rune(r))
}

// RegisterFile maps registers to their values. Registers that were never
// written read as 0.
type RegisterFile map[Register]int64

// Get returns the value of r, or 0 if r is unset. It is safe on a nil file.
func (f RegisterFile) Get(r Register) int64 {
	return f[r]
}

// Clone returns an independent copy of the file.
func (f RegisterFile) Clone() RegisterFile {
	c := make(RegisterFile, len(f))
	for r, v := range f {
		c[r] = v
	}

	return c
}

// OperandKind tells whether a Value refers to a register or carries a literal.
type OperandKind uint8

const (
	KindLiteral OperandKind = iota
	KindRegister
)

// Value is an operand: either a register reference or an immediate integer.
// Values are immutable once constructed.
type Value struct {
	kind OperandKind
	reg  Register
	lit  int64
}

// Reg creates a Value that reads register r.
func Reg(r Register) Value {
	if !r.IsValid() {
		panic(fmt.Sprintf("invalid register %q", rune(r)))
	}

	return Value{kind: KindRegister, reg: r}
}

// Lit creates a Value that always resolves to n.
func Lit(n int64) Value {
	return Value{kind: KindLiteral, lit: n}
}

// Kind returns the operand kind.
func (v Value) Kind() OperandKind {
	return v.kind
}

// IsRegister reports whether v reads a register.
func (v Value) IsRegister() bool {
	return v.kind == KindRegister
}

// Register returns the referenced register. Only meaningful if IsRegister.
func (v Value) Register() Register {
	return v.reg
}

// Literal returns the immediate. Only meaningful if !IsRegister.
func (v Value) Literal() int64 {
	return v.lit
}

// Resolve returns the integer the operand stands for under regs.
func (v Value) Resolve(regs RegisterFile) int64 {
	if v.kind == KindRegister {
		return regs.Get(v.reg)
	}

	return v.lit
}

func (v Value) String() string {
	if v.kind == KindRegister {
		return v.reg.String()
	}

	return strconv.FormatInt(v.lit, 10)
}
