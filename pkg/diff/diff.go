// Package diff implements canonical use-case (c) ("comparing syscall
// traces between program variants") and spec §8 scenario 4: the set
// difference between the syscall kinds two stream-trace runs observed.
package diff

import "github.com/pendulm/tracetap/pkg/ptrace"

// Kinds returns the set difference between a and b: kinds present in a but
// absent from b (onlyInA), and vice versa (onlyInB). Duplicate kinds within
// a slice collapse to one membership test, matching the "set of syscall
// kinds" framing of spec §8 scenario 4 ("the set difference of syscall
// kinds (atomic minus non-atomic) is exactly {rename}").
func Kinds(a, b []ptrace.SyscallKind) (onlyInA, onlyInB []ptrace.SyscallKind) {
	setA := toSet(a)
	setB := toSet(b)

	for kind := range setA {
		if !setB[kind] {
			onlyInA = append(onlyInA, kind)
		}
	}
	for kind := range setB {
		if !setA[kind] {
			onlyInB = append(onlyInB, kind)
		}
	}
	return onlyInA, onlyInB
}

func toSet(kinds []ptrace.SyscallKind) map[ptrace.SyscallKind]bool {
	set := make(map[ptrace.SyscallKind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return set
}

// EnterKinds filters an event sequence down to the syscall kinds named by
// its SyscallStop(Enter) events, in the order observed — the shape spec §8
// scenarios 1 and 3 check against ("the filtered sequence of
// SyscallStop(Enter) syscall kinds must equal [...]").
func EnterKinds(events []ptrace.Event) []ptrace.SyscallKind {
	var kinds []ptrace.SyscallKind
	for _, ev := range events {
		if ev.Kind == ptrace.EventSyscallStop && ev.Phase == ptrace.Enter {
			kinds = append(kinds, ev.Syscall.Kind)
		}
	}
	return kinds
}
