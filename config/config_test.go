package config_test

import (
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/duet/api"
	"github.com/sarchlab/duet/config"
	"github.com/sarchlab/duet/core"
	"github.com/sarchlab/duet/program"
)

var _ = Describe("Config", func() {
	It("should default to duet mode at warn level", func() {
		cfg := config.Default()

		Expect(cfg.Mode).To(Equal(config.ModeDuet))
		Expect(cfg.MaxRounds).To(BeZero())
		Expect(cfg.Validate()).To(Succeed())
	})

	It("should load yaml", func() {
		cfg, err := config.Load("testdata/run.yaml")

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Mode).To(Equal(config.ModeSolo))
		Expect(cfg.ProgramPath).To(Equal("../program/testdata/solo.duet"))
		Expect(cfg.LogLevel).To(Equal("debug"))
		Expect(cfg.MaxRounds).To(Equal(uint64(500)))
		Expect(cfg.Dump).To(BeTrue())
		Expect(cfg.Lint).To(BeFalse())
	})

	It("should load toml", func() {
		cfg, err := config.Load("testdata/run.toml")

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Mode).To(Equal(config.ModeDuet))
		Expect(cfg.LogFile).To(Equal("duet.log"))
		Expect(cfg.Lint).To(BeTrue())
	})

	It("should reject unknown modes", func() {
		_, err := config.Load("testdata/badmode.yaml")

		Expect(err).To(MatchError(config.ErrBadMode))
	})

	It("should reject unknown extensions", func() {
		_, err := config.Load("testdata/run.ini")

		Expect(err).To(HaveOccurred())
	})

	DescribeTable("log levels",
		func(name string, want slog.Level) {
			level, err := config.ParseLevel(name)

			Expect(err).NotTo(HaveOccurred())
			Expect(level).To(Equal(want))
		},
		Entry("empty", "", slog.LevelWarn),
		Entry("trace", "trace", core.LevelTrace),
		Entry("debug", "debug", slog.LevelDebug),
		Entry("upper case", "INFO", slog.LevelInfo),
		Entry("error", "error", slog.LevelError),
	)

	It("should reject unknown log levels", func() {
		_, err := config.ParseLevel("loud")

		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("PlatformBuilder", func() {
	var example = "snd 1\nsnd 2\nsnd p\nrcv a\nrcv b\nrcv c\nrcv d"

	It("should build and run a duet", func() {
		insts, err := program.Parse(example)
		Expect(err).NotTo(HaveOccurred())

		p := config.PlatformBuilder{}.
			WithInstructions(insts).
			BuildDuet("Duet")

		Expect(p.Programs[0].ID()).To(Equal(int64(0)))
		Expect(p.Programs[1].ID()).To(Equal(int64(1)))
		Expect(p.Programs[1].Register('p')).To(Equal(int64(1)))

		Expect(p.Driver.Run()).To(Succeed())

		res := p.Driver.Result()
		Expect(res.SentByProgram1).To(Equal(uint64(3)))
		Expect(res.Halt).To(Equal(api.HaltDeadlock))
	})

	It("should attach hooks to program 0 only", func() {
		insts, err := program.Parse("set a 1\nsnd a\nrcv b\nrcv a")
		Expect(err).NotTo(HaveOccurred())

		var recovered []any
		hook := core.HookFunc(func(ctx sim.HookCtx) {
			if ctx.Pos == core.HookPosRecover {
				recovered = append(recovered, ctx.Domain)
			}
		})

		p := config.PlatformBuilder{}.
			WithEngine(sim.NewSerialEngine()).
			WithFreq(1 * sim.GHz).
			WithInstructions(insts).
			WithProgram0Hook(hook).
			BuildDuet("Duet")

		Expect(p.Driver.Run()).To(Succeed())
		Expect(recovered).To(HaveLen(1))
		Expect(recovered[0]).To(BeIdenticalTo(p.Programs[0]))
	})

	It("should build and run solo", func() {
		prog, err := program.LoadProgramFile("../program/testdata/solo.duet")
		Expect(err).NotTo(HaveOccurred())

		p := config.PlatformBuilder{}.
			WithInstructions(prog.Instructions).
			WithMaxRounds(1000).
			BuildSolo("Solo")

		res, err := p.Driver.Run()
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Frequency).To(Equal(int64(4)))
	})

	It("should stop a looping duet at the round limit", func() {
		insts, err := program.Parse("jgz 1 0")
		Expect(err).NotTo(HaveOccurred())

		p := config.PlatformBuilder{}.
			WithInstructions(insts).
			WithMaxRounds(10).
			BuildDuet("Duet")

		Expect(p.Driver.Run()).To(MatchError(api.ErrRoundLimit))
		Expect(p.Driver.Result().Rounds).To(Equal(uint64(10)))
	})
})
