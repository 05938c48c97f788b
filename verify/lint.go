// Package verify checks duet programs without running them and renders a
// report of both run modes.
package verify

import (
	"fmt"
	"sort"

	"github.com/sarchlab/duet/instr"
)

// IssueType classifies a lint issue.
type IssueType string

const (
	// IssueJump is a jgz that always leaves the program.
	IssueJump IssueType = "JUMP"

	// IssueDivZero is a mod by the literal 0.
	IssueDivZero IssueType = "DIVZERO"

	// IssueNoReceive is a program without rcv. It never blocks.
	IssueNoReceive IssueType = "NORECV"

	// IssueNoSend is a program without snd. In duet mode both machines
	// deadlock at the first rcv.
	IssueNoSend IssueType = "NOSEND"

	// IssueUnusedRegister is a register that is written but never read.
	IssueUnusedRegister IssueType = "UNUSED"
)

// Issue is one lint finding. PC is -1 for findings about the whole program.
type Issue struct {
	Type    IssueType
	PC      int
	Message string
	Details map[string]interface{}
}

// RunLint performs static checks on a parsed program. Issues come out in
// program order, whole-program findings last.
func RunLint(insts []instr.Inst) []Issue {
	var issues []Issue

	hasSnd, hasRcv := false, false

	for pc, inst := range insts {
		switch inst.Op {
		case instr.OpSnd:
			hasSnd = true
		case instr.OpRcv:
			hasRcv = true
		case instr.OpMod:
			if !inst.A.IsRegister() && inst.A.Literal() == 0 {
				issues = append(issues, Issue{
					Type:    IssueDivZero,
					PC:      pc,
					Message: fmt.Sprintf("%q faults when reached", inst),
				})
			}
		case instr.OpJgz:
			if issue, ok := checkJump(pc, inst, len(insts)); ok {
				issues = append(issues, issue)
			}
		}
	}

	if len(insts) > 0 && !hasRcv {
		issues = append(issues, Issue{
			Type:    IssueNoReceive,
			PC:      -1,
			Message: "program never receives; a duet only ends by termination",
		})
	}

	if len(insts) > 0 && !hasSnd {
		issues = append(issues, Issue{
			Type:    IssueNoSend,
			PC:      -1,
			Message: "program never sends; a duet deadlocks at the first rcv",
		})
	}

	return append(issues, checkUnused(insts)...)
}

func checkJump(pc int, inst instr.Inst, n int) (Issue, bool) {
	if inst.A.IsRegister() || inst.B.IsRegister() || inst.A.Literal() <= 0 {
		return Issue{}, false
	}

	target := int64(pc) + inst.B.Literal()
	if target >= 0 && target < int64(n) {
		return Issue{}, false
	}

	return Issue{
		Type:    IssueJump,
		PC:      pc,
		Message: fmt.Sprintf("%q always jumps out to %d", inst, target),
		Details: map[string]interface{}{
			"target": target,
			"length": n,
		},
	}, true
}

// checkUnused reports registers that are assigned but never feed another
// value. Accumulating into a register does not count as reading it.
func checkUnused(insts []instr.Inst) []Issue {
	written := make(map[instr.Register]int)
	read := make(map[instr.Register]bool)

	for pc, inst := range insts {
		for _, v := range []instr.Value{inst.A, inst.B} {
			if v.IsRegister() {
				read[v.Register()] = true
			}
		}

		if r, ok := inst.Writes(); ok {
			if _, seen := written[r]; !seen {
				written[r] = pc
			}
		}
	}

	regs := make([]instr.Register, 0, len(written))
	for r := range written {
		if !read[r] {
			regs = append(regs, r)
		}
	}

	sort.Slice(regs, func(i, j int) bool {
		return written[regs[i]] < written[regs[j]]
	})

	issues := make([]Issue, 0, len(regs))
	for _, r := range regs {
		issues = append(issues, Issue{
			Type:    IssueUnusedRegister,
			PC:      written[r],
			Message: fmt.Sprintf("register %s is written but never read", r),
			Details: map[string]interface{}{"register": r.String()},
		})
	}

	return issues
}
