// Package program turns duet program text into an instruction sequence.
package program

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sarchlab/duet/instr"
)

// Errors reported by the parser. A ParseError wraps one of them.
var (
	ErrEmptyProgram  = errors.New("program has no instructions")
	ErrUnknownOpcode = errors.New("unknown opcode")
	ErrOperandCount  = errors.New("wrong number of operands")
	ErrBadRegister   = errors.New("invalid register")
	ErrBadOperand    = errors.New("invalid operand")
)

// ParseError locates a malformed line.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads one instruction per line. Blank lines and lines starting with
// '#' are skipped. Any malformed line fails the whole program.
func Parse(text string) ([]instr.Inst, error) {
	var insts []instr.Inst

	for n, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		inst, err := ParseLine(line)
		if err != nil {
			return nil, &ParseError{Line: n + 1, Text: line, Err: err}
		}

		insts = append(insts, inst)
	}

	if len(insts) == 0 {
		return nil, ErrEmptyProgram
	}

	return insts, nil
}

// ParseLine parses a single instruction such as "jgz a -2".
func ParseLine(line string) (instr.Inst, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return instr.Inst{}, fmt.Errorf("%w: empty line", ErrUnknownOpcode)
	}

	op, ok := instr.OpcodeByName(tokens[0])
	if !ok {
		return instr.Inst{}, fmt.Errorf("%w: %s", ErrUnknownOpcode, tokens[0])
	}

	shapes := isa[op]
	args := tokens[1:]
	if len(args) != len(shapes) {
		return instr.Inst{}, fmt.Errorf("%w: %s takes %d, got %d",
			ErrOperandCount, op, len(shapes), len(args))
	}

	var (
		regs []instr.Register
		vals []instr.Value
	)

	for i, shape := range shapes {
		switch shape {
		case shapeRegister:
			r, err := parseRegister(args[i])
			if err != nil {
				return instr.Inst{}, err
			}
			regs = append(regs, r)
		case shapeValue:
			v, err := parseValue(args[i])
			if err != nil {
				return instr.Inst{}, err
			}
			vals = append(vals, v)
		}
	}

	return build(op, regs, vals), nil
}

func parseRegister(tok string) (instr.Register, error) {
	if len(tok) != 1 || !instr.Register(tok[0]).IsValid() {
		return 0, fmt.Errorf("%w: %s", ErrBadRegister, tok)
	}

	return instr.Register(tok[0]), nil
}

func parseValue(tok string) (instr.Value, error) {
	if r, err := parseRegister(tok); err == nil {
		return instr.Reg(r), nil
	}

	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return instr.Value{}, fmt.Errorf("%w: %s", ErrBadOperand, tok)
	}

	return instr.Lit(n), nil
}

// Format renders insts back into program text, one instruction per line.
func Format(insts []instr.Inst) string {
	var sb strings.Builder

	for _, inst := range insts {
		sb.WriteString(inst.String())
		sb.WriteByte('\n')
	}

	return sb.String()
}
