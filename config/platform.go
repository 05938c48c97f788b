package config

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/duet/api"
	"github.com/sarchlab/duet/core"
	"github.com/sarchlab/duet/instr"
)

// DuetPlatform is a duet driver with its two machines and engine.
type DuetPlatform struct {
	Engine   sim.Engine
	Programs [2]*core.Machine
	Driver   api.DuetDriver
}

// SoloPlatform is a solo driver with its machine and engine.
type SoloPlatform struct {
	Engine  sim.Engine
	Machine *core.Machine
	Driver  api.SoloDriver
}

// PlatformBuilder can build duet and solo platforms.
type PlatformBuilder struct {
	engine    sim.Engine
	freq      sim.Freq
	insts     []instr.Inst
	maxRounds uint64
	hooks     []sim.Hook
}

// WithEngine sets the engine that drives the platform. A serial engine is
// created if none is set.
func (b PlatformBuilder) WithEngine(engine sim.Engine) PlatformBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the driver.
func (b PlatformBuilder) WithFreq(freq sim.Freq) PlatformBuilder {
	b.freq = freq
	return b
}

// WithInstructions sets the program every machine runs.
func (b PlatformBuilder) WithInstructions(insts []instr.Inst) PlatformBuilder {
	b.insts = insts
	return b
}

// WithMaxRounds bounds the run. 0 means no limit.
func (b PlatformBuilder) WithMaxRounds(n uint64) PlatformBuilder {
	b.maxRounds = n
	return b
}

// WithProgram0Hook attaches a hook to the machine with identity 0.
func (b PlatformBuilder) WithProgram0Hook(hook sim.Hook) PlatformBuilder {
	b.hooks = append(append([]sim.Hook(nil), b.hooks...), hook)
	return b
}

func (b PlatformBuilder) engineOrDefault() sim.Engine {
	if b.engine != nil {
		return b.engine
	}

	return sim.NewSerialEngine()
}

func (b PlatformBuilder) freqOrDefault() sim.Freq {
	if b.freq != 0 {
		return b.freq
	}

	return 1 * sim.GHz
}

func (b PlatformBuilder) buildMachine(name string, id int64) *core.Machine {
	m := core.NewBuilder().
		WithID(id).
		WithInstructions(b.insts).
		Build(name)

	if id == 0 {
		for _, h := range b.hooks {
			m.AcceptHook(h)
		}
	}

	return m
}

// BuildDuet creates two machines with identities 0 and 1 and a duet driver.
func (b PlatformBuilder) BuildDuet(name string) *DuetPlatform {
	engine := b.engineOrDefault()

	p := &DuetPlatform{Engine: engine}
	p.Programs[0] = b.buildMachine(name+".Program0", 0)
	p.Programs[1] = b.buildMachine(name+".Program1", 1)

	p.Driver = api.DuetDriverBuilder{}.
		WithEngine(engine).
		WithFreq(b.freqOrDefault()).
		WithPrograms(p.Programs[0], p.Programs[1]).
		WithMaxRounds(b.maxRounds).
		Build(name)

	return p
}

// BuildSolo creates one machine with identity 0 and a solo driver.
func (b PlatformBuilder) BuildSolo(name string) *SoloPlatform {
	engine := b.engineOrDefault()

	p := &SoloPlatform{Engine: engine}
	p.Machine = b.buildMachine(name+".Program0", 0)

	p.Driver = api.SoloDriverBuilder{}.
		WithEngine(engine).
		WithFreq(b.freqOrDefault()).
		WithMachine(p.Machine).
		WithMaxTicks(b.maxRounds).
		Build(name)

	return p
}
