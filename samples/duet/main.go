package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/duet/config"
	"github.com/sarchlab/duet/core"
	"github.com/sarchlab/duet/program"
)

//go:embed duet.duet
var duetProgram string

func main() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: core.LevelTrace,
	})
	slog.SetDefault(slog.New(handler))

	insts, err := program.Parse(duetProgram)
	if err != nil {
		panic(err)
	}

	engine := sim.NewSerialEngine()

	p := config.PlatformBuilder{}.
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithInstructions(insts).
		BuildDuet("Duet")

	if err := p.Driver.Run(); err != nil {
		panic(err)
	}

	res := p.Driver.Result()
	fmt.Printf("program 1 sent %d messages in %d rounds (%s)\n",
		res.SentByProgram1, res.Rounds, res.Halt)

	atexit.Exit(0)
}
