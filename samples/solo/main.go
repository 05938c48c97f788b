package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/duet/config"
	"github.com/sarchlab/duet/core"
	"github.com/sarchlab/duet/program"
)

//go:embed solo.duet
var soloProgram string

func main() {
	insts, err := program.Parse(soloProgram)
	if err != nil {
		panic(err)
	}

	engine := sim.NewSerialEngine()

	p := config.PlatformBuilder{}.
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithInstructions(insts).
		BuildSolo("Solo")

	res, err := p.Driver.Run()
	if err != nil {
		panic(err)
	}

	core.DumpState(os.Stdout, p.Machine)
	fmt.Println(res.Frequency)

	atexit.Exit(0)
}
