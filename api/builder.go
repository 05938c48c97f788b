package api

import "github.com/sarchlab/akita/v4/sim"

// DuetDriverBuilder creates a new instance of DuetDriver.
type DuetDriverBuilder struct {
	engine    sim.Engine
	freq      sim.Freq
	programs  [2]Machine
	maxRounds uint64
}

// WithEngine sets the engine.
func (b DuetDriverBuilder) WithEngine(engine sim.Engine) DuetDriverBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the driver. One tick is one round.
func (b DuetDriverBuilder) WithFreq(freq sim.Freq) DuetDriverBuilder {
	b.freq = freq
	return b
}

// WithPrograms sets the machines with identity 0 and 1.
func (b DuetDriverBuilder) WithPrograms(p0, p1 Machine) DuetDriverBuilder {
	b.programs = [2]Machine{p0, p1}
	return b
}

// WithMaxRounds stops the run after n rounds. 0 means no limit.
func (b DuetDriverBuilder) WithMaxRounds(n uint64) DuetDriverBuilder {
	b.maxRounds = n
	return b
}

// Build create a duet driver.
func (b DuetDriverBuilder) Build(name string) DuetDriver {
	if b.programs[0] == nil || b.programs[1] == nil {
		panic("duet driver needs two programs")
	}

	d := &duetDriverImpl{
		programs:  b.programs,
		maxRounds: b.maxRounds,
	}

	d.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, d)

	return d
}

// SoloDriverBuilder creates a new instance of SoloDriver.
type SoloDriverBuilder struct {
	engine   sim.Engine
	freq     sim.Freq
	machine  Machine
	maxTicks uint64
}

// WithEngine sets the engine.
func (b SoloDriverBuilder) WithEngine(engine sim.Engine) SoloDriverBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the driver. One tick is one instruction.
func (b SoloDriverBuilder) WithFreq(freq sim.Freq) SoloDriverBuilder {
	b.freq = freq
	return b
}

// WithMachine sets the machine to run.
func (b SoloDriverBuilder) WithMachine(m Machine) SoloDriverBuilder {
	b.machine = m
	return b
}

// WithMaxTicks stops the run after n instructions. 0 means no limit.
func (b SoloDriverBuilder) WithMaxTicks(n uint64) SoloDriverBuilder {
	b.maxTicks = n
	return b
}

// Build creates a solo driver and hooks it to the machine's recovery.
func (b SoloDriverBuilder) Build(name string) SoloDriver {
	if b.machine == nil {
		panic("solo driver needs a machine")
	}

	d := &soloDriverImpl{
		machine:  b.machine,
		maxTicks: b.maxTicks,
	}

	d.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, d)
	b.machine.AcceptHook(d)

	return d
}
