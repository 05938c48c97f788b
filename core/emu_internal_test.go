package core

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/duet/instr"
)

var _ = Describe("InstEmulator", func() {
	var (
		ie instEmulator
		s  machineState
	)

	load := func(insts ...instr.Inst) {
		s.Code = insts
	}

	BeforeEach(func() {
		ie = instEmulator{}
		s = machineState{
			Registers: instr.RegisterFile{},
			Status:    Running,
		}
	})

	Context("when running arithmetic", func() {
		It("should set, add, multiply and take the remainder", func() {
			load(
				instr.Set('a', instr.Lit(1)),
				instr.Add('a', instr.Lit(2)),
				instr.Mul('a', instr.Reg('a')),
				instr.Mod('a', instr.Lit(5)),
				instr.Snd(instr.Reg('a')),
			)

			for i := 0; i < 4; i++ {
				_, err := ie.RunInst(&s)
				Expect(err).NotTo(HaveOccurred())
			}

			Expect(s.Registers['a']).To(Equal(int64(4)))
			Expect(s.PC).To(Equal(4))
			Expect(s.Status).To(Equal(Running))
		})

		It("should keep the sign of the dividend in mod", func() {
			s.Registers['a'] = -7
			load(instr.Mod('a', instr.Lit(3)), instr.Snd(instr.Lit(0)))

			_, err := ie.RunInst(&s)

			Expect(err).NotTo(HaveOccurred())
			Expect(s.Registers['a']).To(Equal(int64(-1)))
		})

		It("should fault on modulo by zero", func() {
			s.Registers['a'] = 9
			load(instr.Mod('a', instr.Reg('z')), instr.Snd(instr.Lit(0)))

			_, err := ie.RunInst(&s)

			Expect(err).To(MatchError(ErrModuloByZero))
			Expect(s.Status).To(Equal(Terminated))
			Expect(s.Registers['a']).To(Equal(int64(9)))
			Expect(s.PC).To(Equal(0))
		})
	})

	Context("when running snd", func() {
		It("should emit the value and remember it", func() {
			s.Registers['b'] = 12
			load(instr.Snd(instr.Reg('b')), instr.Rcv('a'))

			eff, err := ie.RunInst(&s)

			Expect(err).NotTo(HaveOccurred())
			Expect(eff.sent).To(BeTrue())
			Expect(eff.value).To(Equal(int64(12)))
			Expect(s.LastSent).To(Equal(int64(12)))
			Expect(s.HasSent).To(BeTrue())
			Expect(s.PC).To(Equal(1))
		})
	})

	Context("when running rcv", func() {
		It("should wait without side effects on an empty inbox", func() {
			s.Registers['a'] = 3
			s.PC = 1
			load(instr.Snd(instr.Lit(1)), instr.Rcv('a'), instr.Snd(instr.Lit(2)))

			eff, _ := ie.RunInst(&s)

			Expect(eff.blocked).To(BeTrue())
			Expect(s.Status).To(Equal(WaitingForMessage))
			Expect(s.PC).To(Equal(1))
			Expect(s.Registers).To(Equal(instr.RegisterFile{'a': 3}))
		})

		It("should pop the front of the inbox", func() {
			s.Inbox.Push(5)
			s.Inbox.Push(6)
			load(instr.Rcv('a'), instr.Rcv('b'))

			eff, _ := ie.RunInst(&s)

			Expect(eff.received).To(BeTrue())
			Expect(s.Registers['a']).To(Equal(int64(5)))
			Expect(s.Inbox.Snapshot()).To(Equal([]int64{6}))
			Expect(s.PC).To(Equal(1))
		})

		It("should mark a block recoverable only with a positive register", func() {
			load(instr.Rcv('a'))
			s.HasSent = true

			eff, _ := ie.RunInst(&s)
			Expect(eff.recoverable).To(BeFalse())

			s.Status = Running
			s.Registers['a'] = 1
			eff, _ = ie.RunInst(&s)
			Expect(eff.recoverable).To(BeTrue())
		})
	})

	Context("when running jgz", func() {
		BeforeEach(func() {
			load(
				instr.Set('a', instr.Lit(1)),
				instr.Jgz(instr.Reg('a'), instr.Reg('b')),
				instr.Set('a', instr.Lit(2)),
			)
			s.PC = 1
		})

		It("should fall through when the condition is not positive", func() {
			s.Registers['a'] = 0

			ie.RunInst(&s)

			Expect(s.PC).To(Equal(2))
		})

		It("should jump by the offset", func() {
			s.Registers['a'] = 1
			s.Registers['b'] = -1

			ie.RunInst(&s)

			Expect(s.PC).To(Equal(0))
			Expect(s.Status).To(Equal(Running))
		})

		It("should terminate when jumping out of bounds", func() {
			s.Registers['a'] = 1
			s.Registers['b'] = 2

			eff, _ := ie.RunInst(&s)

			Expect(eff.jumpedOut).To(BeTrue())
			Expect(s.Status).To(Equal(Terminated))
			Expect(s.PC).To(Equal(1))
		})

		It("should terminate when jumping before the start", func() {
			s.Registers['a'] = 1
			s.Registers['b'] = -2

			ie.RunInst(&s)

			Expect(s.Status).To(Equal(Terminated))
		})

		It("should retry itself with a zero offset", func() {
			s.Registers['a'] = 1

			ie.RunInst(&s)

			Expect(s.PC).To(Equal(1))
			Expect(s.Status).To(Equal(Running))
		})
	})

	It("should terminate after the last instruction", func() {
		load(instr.Set('a', instr.Lit(1)))

		eff, _ := ie.RunInst(&s)

		Expect(eff.fellOff).To(BeTrue())
		Expect(s.Status).To(Equal(Terminated))
	})
})
