// Command duet runs a duet program alone or as a pair of machines.
//
//	duet [-mode solo|duet] [-config run.yaml] [file]
//
// The program is read from file, from the config, or from stdin. Files
// ending in .yaml or .yml are read as YAML programs.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/duet/config"
	"github.com/sarchlab/duet/core"
	"github.com/sarchlab/duet/instr"
	"github.com/sarchlab/duet/program"
	"github.com/sarchlab/duet/verify"
)

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(2)
	}

	if err := setupLogging(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(2)
	}

	if err := run(cfg, os.Stdin, os.Stdout); err != nil {
		slog.Error("run failed", "Error", err.Error())
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

// loadConfig applies the config file, if any, and then the flags.
func loadConfig(args []string) (config.Config, error) {
	fs := flag.NewFlagSet("duet", flag.ContinueOnError)

	configPath := fs.String("config", "", "YAML or TOML run configuration")
	mode := fs.String("mode", "", "solo or duet")
	logFile := fs.String("log", "", "write JSON logs to this file")
	logLevel := fs.String("log-level", "", "trace, debug, info, warn or error")
	maxRounds := fs.Uint64("max-rounds", 0, "stop after this many rounds, 0 for no limit")
	dump := fs.Bool("dump", false, "print machine state after the run")
	lint := fs.Bool("lint", false, "print lint issues before the run")

	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error

		cfg, err = config.Load(*configPath)
		if err != nil {
			return cfg, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			cfg.Mode = config.Mode(*mode)
		case "log":
			cfg.LogFile = *logFile
		case "log-level":
			cfg.LogLevel = *logLevel
		case "max-rounds":
			cfg.MaxRounds = *maxRounds
		case "dump":
			cfg.Dump = *dump
		case "lint":
			cfg.Lint = *lint
		}
	})

	if fs.NArg() > 0 {
		cfg.ProgramPath = fs.Arg(0)
	}

	return cfg, cfg.Validate()
}

func setupLogging(cfg config.Config) error {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.LogFile == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, opts)))
		return nil
	}

	logFile, err := os.Create(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("create log file: %w", err)
	}

	atexit.Register(func() {
		logFile.Sync()
		logFile.Close()
	})

	slog.SetDefault(slog.New(slog.NewJSONHandler(logFile, opts)))

	return nil
}

func readProgram(path string, stdin io.Reader) ([]instr.Inst, error) {
	if path == "" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}

		return program.Parse(string(data))
	}

	prog, err := program.Load(path)
	if err != nil {
		return nil, err
	}

	return prog.Instructions, nil
}

func run(cfg config.Config, stdin io.Reader, stdout io.Writer) error {
	insts, err := readProgram(cfg.ProgramPath, stdin)
	if err != nil {
		return err
	}

	if cfg.Lint {
		for _, issue := range verify.RunLint(insts) {
			fmt.Fprintf(stdout, "lint: %s pc=%d %s\n", issue.Type, issue.PC, issue.Message)
		}
	}

	engine := sim.NewSerialEngine()
	builder := config.PlatformBuilder{}.
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithInstructions(insts).
		WithMaxRounds(cfg.MaxRounds)

	switch cfg.Mode {
	case config.ModeSolo:
		return runSolo(cfg, builder, engine, stdout)
	default:
		return runDuet(cfg, builder, engine, stdout)
	}
}

func runSolo(
	cfg config.Config,
	builder config.PlatformBuilder,
	engine sim.Engine,
	stdout io.Writer,
) error {
	p := builder.BuildSolo("Solo")

	res, err := p.Driver.Run()

	slog.Info("solo finished",
		"Frequency", res.Frequency,
		"Recovered", res.Recovered,
		"Blocked", res.Blocked,
		"Ticks", res.Ticks,
		"Time", float64(engine.CurrentTime()),
	)

	if cfg.Dump {
		core.DumpState(stdout, p.Machine)
	}

	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, res.Frequency)

	return nil
}

func runDuet(
	cfg config.Config,
	builder config.PlatformBuilder,
	engine sim.Engine,
	stdout io.Writer,
) error {
	p := builder.
		WithProgram0Hook(core.HookFunc(func(ctx sim.HookCtx) {
			if ctx.Pos == core.HookPosRecover {
				slog.Info("program 0 recovered", "Frequency", ctx.Item)
			}
		})).
		BuildDuet("Duet")

	err := p.Driver.Run()
	res := p.Driver.Result()

	slog.Info("duet finished",
		"SentByProgram1", res.SentByProgram1,
		"Rounds", res.Rounds,
		"Halt", res.Halt.String(),
		"Time", float64(engine.CurrentTime()),
	)

	if cfg.Dump {
		for _, m := range p.Programs {
			core.DumpState(stdout, m)
			core.LogState(m)
		}
	}

	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, res.SentByProgram1)

	return nil
}
