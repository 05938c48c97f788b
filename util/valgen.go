// Some helpers using closures to generate values and programs
package valgen

import (
	"math/rand"

	"github.com/sarchlab/duet/instr"
)

// MakeIncreasingGen returns start+1, start+2, ... on successive calls.
func MakeIncreasingGen(start int64) func() int64 {
	current := start
	return func() int64 {
		current++
		return current
	}
}

var genRegisters = []instr.Register{'a', 'b', 'p'}

// MakeProgramGen returns a generator of random programs of n instructions.
// Literals stay within [-maxLit, maxLit] and jgz offsets within [-n, n], so
// programs loop, block and jump out at a useful rate. The same seed yields
// the same sequence of programs.
func MakeProgramGen(seed int64, n int, maxLit int64) func() []instr.Inst {
	rng := rand.New(rand.NewSource(seed))

	reg := func() instr.Register {
		return genRegisters[rng.Intn(len(genRegisters))]
	}

	lit := func(bound int64) instr.Value {
		return instr.Lit(rng.Int63n(2*bound+1) - bound)
	}

	value := func(bound int64) instr.Value {
		if rng.Intn(2) == 0 {
			return instr.Reg(reg())
		}

		return lit(bound)
	}

	return func() []instr.Inst {
		insts := make([]instr.Inst, n)

		for i := range insts {
			switch rng.Intn(7) {
			case 0:
				insts[i] = instr.Snd(value(maxLit))
			case 1:
				insts[i] = instr.Set(reg(), value(maxLit))
			case 2:
				insts[i] = instr.Add(reg(), value(maxLit))
			case 3:
				insts[i] = instr.Mul(reg(), value(maxLit))
			case 4:
				insts[i] = instr.Mod(reg(), value(maxLit))
			case 5:
				insts[i] = instr.Rcv(reg())
			default:
				insts[i] = instr.Jgz(value(maxLit), lit(int64(n)))
			}
		}

		return insts
	}
}
