package ptrace

import "testing"

func TestSyscallPhaseString(t *testing.T) {
	if got := Enter.String(); got != "enter" {
		t.Errorf("Enter.String() = %q, want enter", got)
	}
	if got := Exit.String(); got != "exit" {
		t.Errorf("Exit.String() = %q, want exit", got)
	}
}
