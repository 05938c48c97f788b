package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/duet/instr"
)

const (
	LevelTrace slog.Level = slog.LevelInfo + 1
)

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// DumpState writes the registers, pointer and inbox of m as tables.
func DumpState(w io.Writer, m *Machine) {
	regTable := table.NewWriter()
	regTable.SetTitle(fmt.Sprintf("%s registers (p=%d)", m.Name(), m.ID()))
	regTable.AppendHeader(table.Row{"Register", "Value"})

	regs := m.Registers()
	names := make([]instr.Register, 0, len(regs))
	for r := range regs {
		names = append(names, r)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	for _, r := range names {
		regTable.AppendRow(table.Row{r.String(), regs[r]})
	}

	fmt.Fprintln(w, regTable.Render())

	stateTable := table.NewWriter()
	stateTable.SetTitle(fmt.Sprintf("%s state", m.Name()))
	stateTable.AppendHeader(table.Row{"Field", "Value"})

	stateTable.AppendRow(table.Row{"State", m.State().String()})
	stateTable.AppendRow(table.Row{"PC", m.PC()})
	if m.State() != Terminated {
		stateTable.AppendRow(table.Row{"Next", m.Instructions()[m.PC()].String()})
	}
	stateTable.AppendRow(table.Row{"Ticks", m.TickCount()})
	stateTable.AppendRow(table.Row{"Sent", m.SentCount()})
	stateTable.AppendRow(table.Row{"Received", m.ReceivedCount()})

	if v, ok := m.LastSent(); ok {
		stateTable.AppendRow(table.Row{"LastSent", v})
	}

	stateTable.AppendRow(table.Row{"Inbox", formatQueue(m.Queue())})

	if m.Err() != nil {
		stateTable.AppendRow(table.Row{"Fault", m.Err().Error()})
	}

	fmt.Fprintln(w, stateTable.Render())
}

func formatQueue(q []int64) string {
	parts := make([]string, len(q))
	for i, v := range q {
		parts[i] = fmt.Sprint(v)
	}

	return "[" + strings.Join(parts, " ") + "]"
}

func LogState(m *Machine) {
	slog.Debug("StateCheckpoint",
		"Name", m.Name(),
		"ID", m.ID(),
		"PC", m.PC(),
		"State", m.State().String(),
		"Registers", m.Registers(),
		"Inbox", m.Queue(),
	)
}
