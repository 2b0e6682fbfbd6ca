package trace

import (
	"strings"
	"syscall"
	"testing"

	"github.com/pendulm/tracetap/pkg/ptrace"
)

func TestSummarizeSyscallEnter(t *testing.T) {
	ev := ptrace.Event{
		PID:   123,
		Kind:  ptrace.EventSyscallStop,
		Phase: ptrace.Enter,
		Syscall: ptrace.SyscallInfo{
			Kind: ptrace.SyscallWrite,
			Args: [6]uint64{1, 0, 6, 0, 0, 0},
		},
	}
	got := Summarize(ev)
	if !strings.Contains(got, "write") {
		t.Errorf("Summarize(enter) = %q, want it to mention the syscall name", got)
	}
	if !strings.Contains(got, "123") {
		t.Errorf("Summarize(enter) = %q, want it to mention the pid", got)
	}
}

func TestSummarizeSyscallExit(t *testing.T) {
	ev := ptrace.Event{
		PID:   123,
		Kind:  ptrace.EventSyscallStop,
		Phase: ptrace.Exit,
		Syscall: ptrace.SyscallInfo{
			Kind:      ptrace.SyscallWrite,
			HasReturn: true,
			Return:    6,
		},
	}
	got := Summarize(ev)
	if !strings.Contains(got, "6") {
		t.Errorf("Summarize(exit) = %q, want it to mention the return value", got)
	}
}

func TestSummarizeProcessExit(t *testing.T) {
	got := Summarize(ptrace.Event{PID: 1, Kind: ptrace.EventProcessExit, ExitStatus: 0})
	if !strings.Contains(got, "exited") {
		t.Errorf("Summarize(normal exit) = %q, want it to say exited", got)
	}

	killed := Summarize(ptrace.Event{
		PID: 1, Kind: ptrace.EventProcessExit,
		ExitSignaled: true, ExitSignal: syscall.SIGSEGV,
	})
	if !strings.Contains(killed, "killed") {
		t.Errorf("Summarize(signaled exit) = %q, want it to say killed", killed)
	}
}

func TestSummarizePTraceEventNewChild(t *testing.T) {
	got := Summarize(ptrace.Event{
		PID: 1, Kind: ptrace.EventPTraceEvent,
		PTraceEvent: ptrace.EventClone, NewPID: 42,
	})
	if !strings.Contains(got, "42") {
		t.Errorf("Summarize(new child) = %q, want it to mention the new pid", got)
	}
}

func TestWithPTYOption(t *testing.T) {
	c := apply([]Option{WithPTY(true)})
	if !c.usePTY {
		t.Error("WithPTY(true) should set usePTY")
	}
	c = apply([]Option{WithPTY(false)})
	if c.usePTY {
		t.Error("WithPTY(false) should leave usePTY false")
	}
	c = apply(nil)
	if c.usePTY {
		t.Error("no options should default usePTY to false")
	}
}
