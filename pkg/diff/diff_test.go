package diff_test

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pendulm/tracetap/pkg/diff"
	"github.com/pendulm/tracetap/pkg/ptrace"
)

func sortedKinds(kinds []ptrace.SyscallKind) []ptrace.SyscallKind {
	sorted := append([]ptrace.SyscallKind(nil), kinds...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted
}

func TestKindsAtomicVsNonAtomic(t *testing.T) {
	// spec §8 scenario 4: atomic variant additionally performs a rename;
	// everything else about the two traces overlaps.
	atomic := []ptrace.SyscallKind{
		ptrace.SyscallExecve, ptrace.SyscallOpenat, ptrace.SyscallWrite,
		ptrace.SyscallRename, ptrace.SyscallExit,
	}
	nonAtomic := []ptrace.SyscallKind{
		ptrace.SyscallExecve, ptrace.SyscallOpenat, ptrace.SyscallWrite,
		ptrace.SyscallExit,
	}

	onlyAtomic, onlyNonAtomic := diff.Kinds(atomic, nonAtomic)

	if diffResult := cmp.Diff([]ptrace.SyscallKind{ptrace.SyscallRename}, sortedKinds(onlyAtomic)); diffResult != "" {
		t.Errorf("onlyAtomic mismatch (-want +got):\n%s", diffResult)
	}
	if len(onlyNonAtomic) != 0 {
		t.Errorf("onlyNonAtomic = %v, want empty", onlyNonAtomic)
	}
}

func TestKindsIdentical(t *testing.T) {
	a := []ptrace.SyscallKind{ptrace.SyscallRead, ptrace.SyscallWrite, ptrace.SyscallRead}
	b := []ptrace.SyscallKind{ptrace.SyscallWrite, ptrace.SyscallRead}

	onlyA, onlyB := diff.Kinds(a, b)
	if len(onlyA) != 0 || len(onlyB) != 0 {
		t.Errorf("Kinds(a, b) = %v, %v, want both empty", onlyA, onlyB)
	}
}

func TestKindsDisjoint(t *testing.T) {
	a := []ptrace.SyscallKind{ptrace.SyscallRead}
	b := []ptrace.SyscallKind{ptrace.SyscallWrite}

	onlyA, onlyB := diff.Kinds(a, b)
	if want := []ptrace.SyscallKind{ptrace.SyscallRead}; cmp.Diff(want, onlyA) != "" {
		t.Errorf("onlyA = %v, want %v", onlyA, want)
	}
	if want := []ptrace.SyscallKind{ptrace.SyscallWrite}; cmp.Diff(want, onlyB) != "" {
		t.Errorf("onlyB = %v, want %v", onlyB, want)
	}
}

func TestEnterKindsFiltersToEnterPhase(t *testing.T) {
	events := []ptrace.Event{
		{Kind: ptrace.EventSyscallStop, Phase: ptrace.Enter, Syscall: ptrace.SyscallInfo{Kind: ptrace.SyscallExecve}},
		{Kind: ptrace.EventSyscallStop, Phase: ptrace.Exit, Syscall: ptrace.SyscallInfo{Kind: ptrace.SyscallExecve}},
		{Kind: ptrace.EventSyscallStop, Phase: ptrace.Enter, Syscall: ptrace.SyscallInfo{Kind: ptrace.SyscallWrite}},
		{Kind: ptrace.EventSyscallStop, Phase: ptrace.Exit, Syscall: ptrace.SyscallInfo{Kind: ptrace.SyscallWrite}},
		{Kind: ptrace.EventProcessExit, ExitStatus: 0},
	}

	got := diff.EnterKinds(events)
	want := []ptrace.SyscallKind{ptrace.SyscallExecve, ptrace.SyscallWrite}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("EnterKinds mismatch (-want +got):\n%s", d)
	}
}
