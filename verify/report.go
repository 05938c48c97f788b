package verify

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/duet/api"
	"github.com/sarchlab/duet/config"
	"github.com/sarchlab/duet/instr"
)

// Report holds the lint issues of a program and the outcome of running it
// in both modes.
type Report struct {
	Name         string
	Instructions []instr.Inst
	Issues       []Issue

	Solo    api.SoloResult
	SoloErr error

	Duet    api.DuetResult
	DuetErr error
}

// GenerateReport lints the program and runs it solo and as a duet. maxRounds
// bounds both runs; 0 means no limit.
func GenerateReport(
	name string,
	insts []instr.Inst,
	maxRounds uint64,
) *Report {
	r := &Report{
		Name:         name,
		Instructions: insts,
		Issues:       RunLint(insts),
	}

	builder := config.PlatformBuilder{}.
		WithInstructions(insts).
		WithMaxRounds(maxRounds)

	r.Solo, r.SoloErr = builder.BuildSolo("Solo").Driver.Run()

	duet := builder.BuildDuet("Duet")
	r.DuetErr = duet.Driver.Run()
	r.Duet = duet.Driver.Result()

	return r
}

// WriteReport writes the report as tables.
func (r *Report) WriteReport(w io.Writer) {
	fmt.Fprintf(w, "Program %s: %d instructions\n", r.Name, len(r.Instructions))

	lint := table.NewWriter()
	lint.SetOutputMirror(w)
	lint.SetTitle("Lint")
	lint.AppendHeader(table.Row{"Type", "PC", "Message"})

	for _, issue := range r.Issues {
		pc := "-"
		if issue.PC >= 0 {
			pc = strconv.Itoa(issue.PC)
		}

		lint.AppendRow(table.Row{string(issue.Type), pc, issue.Message})
	}

	if len(r.Issues) == 0 {
		lint.AppendRow(table.Row{"OK", "-", "no issues"})
	}

	lint.Render()

	runs := table.NewWriter()
	runs.SetOutputMirror(w)
	runs.SetTitle("Runs")
	runs.AppendHeader(table.Row{"Mode", "Result", "Steps", "Stop", "Error"})
	runs.AppendRow(table.Row{
		"solo",
		r.Solo.Frequency,
		r.Solo.Ticks,
		soloStop(r.Solo),
		errText(r.SoloErr),
	})
	runs.AppendRow(table.Row{
		"duet",
		r.Duet.SentByProgram1,
		r.Duet.Rounds,
		r.Duet.Halt.String(),
		errText(r.DuetErr),
	})
	runs.Render()
}

// SaveReportToFile writes the report into the named file.
func (r *Report) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)

	return nil
}

func soloStop(res api.SoloResult) string {
	switch {
	case res.Recovered:
		return "Recovered"
	case res.Blocked:
		return "Blocked"
	default:
		return "Terminated"
	}
}

func errText(err error) string {
	if err == nil {
		return "-"
	}

	return err.Error()
}
