package core_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/duet/core"
	"github.com/sarchlab/duet/instr"
	"github.com/sarchlab/duet/program"
)

func mustParse(text string) []instr.Inst {
	insts, err := program.Parse(text)
	Expect(err).NotTo(HaveOccurred())

	return insts
}

var _ = Describe("Machine", func() {
	It("should seed register p with its identity", func() {
		m := core.NewBuilder().
			WithID(1).
			WithInstructions(mustParse("snd p")).
			Build("Machine")

		Expect(m.ID()).To(Equal(int64(1)))
		Expect(m.Register('p')).To(Equal(int64(1)))
		Expect(m.State()).To(Equal(core.Running))

		msg, sent := m.Tick()
		Expect(sent).To(BeTrue())
		Expect(msg).To(Equal(int64(1)))
		Expect(m.State()).To(Equal(core.Terminated))
	})

	It("should start terminated without instructions", func() {
		m := core.NewBuilder().Build("Machine")

		Expect(m.State()).To(Equal(core.Terminated))
	})

	It("should refuse to tick when not running", func() {
		m := core.NewBuilder().
			WithInstructions(mustParse("rcv a\nsnd a")).
			Build("Machine")

		m.Tick()

		Expect(m.State()).To(Equal(core.WaitingForMessage))
		Expect(func() { m.Tick() }).To(Panic())
	})

	It("should resume a pending rcv once a message arrives", func() {
		m := core.NewBuilder().
			WithInstructions(mustParse("rcv a\nsnd a")).
			Build("Machine")

		m.Tick()
		Expect(m.PC()).To(Equal(0))

		m.SendMessage(42)
		Expect(m.State()).To(Equal(core.Running))
		Expect(m.QueueLen()).To(Equal(1))

		_, sent := m.Tick()
		Expect(sent).To(BeFalse())
		Expect(m.Register('a')).To(Equal(int64(42)))
		Expect(m.PC()).To(Equal(1))
		Expect(m.QueueLen()).To(Equal(0))

		msg, sent := m.Tick()
		Expect(sent).To(BeTrue())
		Expect(msg).To(Equal(int64(42)))
		Expect(m.SentCount()).To(Equal(uint64(1)))
		Expect(m.ReceivedCount()).To(Equal(uint64(1)))
		Expect(m.TickCount()).To(Equal(uint64(3)))
	})

	It("should receive messages in the order they were sent", func() {
		m := core.NewBuilder().
			WithInstructions(mustParse("rcv a\nrcv b\nrcv c\nsnd 0")).
			WithInbox(7, 8).
			Build("Machine")

		m.SendMessage(9)
		Expect(m.Queue()).To(Equal([]int64{7, 8, 9}))

		m.Tick()
		m.Tick()
		m.Tick()

		Expect(m.Registers()).To(Equal(instr.RegisterFile{
			'p': 0, 'a': 7, 'b': 8, 'c': 9,
		}))
	})

	It("should stay terminated when forced", func() {
		m := core.NewBuilder().
			WithInstructions(mustParse("rcv a\nsnd a")).
			Build("Machine")

		m.Tick()
		m.ForceTerminate()
		m.SendMessage(1)

		Expect(m.State()).To(Equal(core.Terminated))
	})

	It("should record modulo faults", func() {
		m := core.NewBuilder().
			WithInstructions(mustParse("mod a 0\nsnd a")).
			Build("Machine")

		m.Tick()

		Expect(m.State()).To(Equal(core.Terminated))
		Expect(m.Err()).To(MatchError(core.ErrModuloByZero))
	})

	It("should hand out copies of its registers", func() {
		m := core.NewBuilder().
			WithInstructions(mustParse("set a 1\nsnd a")).
			Build("Machine")
		m.Tick()

		regs := m.Registers()
		regs['a'] = 100

		Expect(m.Register('a')).To(Equal(int64(1)))
	})

	Context("with hooks", func() {
		var (
			m     *core.Machine
			items map[*sim.HookPos][]int64
		)

		BeforeEach(func() {
			m = core.NewBuilder().
				WithInstructions(mustParse(
					"set a 1\nadd a 2\nmul a a\nmod a 5\nsnd a\n" +
						"set a 0\nrcv b\njgz b -1\nset a 1\njgz a -2")).
				Build("Machine")

			items = map[*sim.HookPos][]int64{}
			m.AcceptHook(core.HookFunc(func(ctx sim.HookCtx) {
				Expect(ctx.Domain).To(BeIdenticalTo(m))
				items[ctx.Pos] = append(items[ctx.Pos], ctx.Item.(int64))
			}))
		})

		It("should report sends and receives", func() {
			for i := 0; i < 7; i++ {
				m.Tick()
			}

			Expect(items[core.HookPosMsgSend]).To(Equal([]int64{4}))
			Expect(m.State()).To(Equal(core.WaitingForMessage))

			m.SendMessage(3)
			m.Tick()

			Expect(items[core.HookPosMsgRecv]).To(Equal([]int64{3}))
		})

		It("should report recovery only once and with a positive register", func() {
			run := func() {
				for m.State() == core.Running {
					m.Tick()
				}
			}

			run()
			Expect(items[core.HookPosRecover]).To(BeEmpty())

			m.SendMessage(1)
			run()
			Expect(items[core.HookPosRecover]).To(Equal([]int64{4}))

			m.SendMessage(5)
			run()
			Expect(items[core.HookPosRecover]).To(Equal([]int64{4}))
		})
	})

	It("should dump its state", func() {
		m := core.NewBuilder().
			WithID(1).
			WithInstructions(mustParse("set a 3\nsnd a\nrcv b")).
			Build("Machine")
		m.Tick()
		m.Tick()

		var buf bytes.Buffer
		core.DumpState(&buf, m)

		Expect(strings.ToLower(buf.String())).To(ContainSubstring("register"))
		Expect(buf.String()).To(ContainSubstring("rcv b"))
		Expect(buf.String()).To(ContainSubstring("LastSent"))
	})
})
