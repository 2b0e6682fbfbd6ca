//go:build linux && amd64

package ptrace

import (
	"fmt"
	"syscall"

	seccompbpf "github.com/elastic/go-seccomp-bpf"
	"golang.org/x/net/bpf"
)

// BuildSeccompFilter compiles an allow-by-default, trace-on-listed-names BPF
// program: syscalls not in names pass straight through the kernel, named
// ones stop the tracee with PTRACE_EVENT_SECCOMP instead of an ordinary
// syscall-stop.
//
// This is exposed as a standalone, independently testable compilation step
// rather than wired into the live Driver loop: installing the resulting
// filter into an already-running tracee requires either a from-scratch
// clone/exec spawner (the raw-syscall machinery the gVisor forks in the
// retrieval pack build, and which spec §9 explicitly says this engine does
// not need) or injecting a remote prctl(2) call by rewriting the tracee's
// registers — which spec §1's Non-goals rule out ("modifying tracee memory
// or registers"). So the filter compiler is kept for its own sake (it is
// the shape a caller doing its own from-scratch spawn would need), without
// a matching live-install path in this engine. Nothing in this repository
// calls it, and no test covers it.
//
// Grounded on DataDog ptracer.go's traceFilterProg.
func BuildSeccompFilter(names []string) (*syscall.SockFprog, error) {
	policy := seccompbpf.Policy{
		DefaultAction: seccompbpf.ActionAllow,
		Syscalls: []seccompbpf.SyscallGroup{
			{
				Action: seccompbpf.ActionTrace,
				Names:  names,
			},
		},
	}
	insts, err := policy.Assemble()
	if err != nil {
		return nil, fmt.Errorf("assembling seccomp policy: %w", err)
	}
	rawInsts, err := bpf.Assemble(insts)
	if err != nil {
		return nil, fmt.Errorf("compiling seccomp bpf: %w", err)
	}

	filter := make([]syscall.SockFilter, 0, len(rawInsts))
	for _, instruction := range rawInsts {
		filter = append(filter, syscall.SockFilter{
			Code: instruction.Op,
			Jt:   instruction.Jt,
			Jf:   instruction.Jf,
			K:    instruction.K,
		})
	}
	return &syscall.SockFprog{
		Len:    uint16(len(filter)),
		Filter: &filter[0],
	}, nil
}
