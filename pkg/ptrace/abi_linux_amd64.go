//go:build linux && amd64

package ptrace

import "syscall"

// ABI identifies which syscall calling convention a given syscall entry
// used. On a 64-bit build the tracer must disambiguate per-entry by
// inspecting the two bytes preceding the instruction pointer, since both
// invocation forms are available to the tracee.
type ABI int

const (
	// ABIx8664 is the `syscall` instruction (0F 05) calling convention.
	ABIx8664 ABI = iota
	// ABIi386 is the `int 0x80` (CD 80) calling convention.
	ABIi386
)

func (a ABI) String() string {
	if a == ABIi386 {
		return "i386"
	}
	return "x86_64"
}

// detectABI peeks the two bytes immediately before the instruction pointer
// to tell a `syscall` entry from an `int 0x80` entry, per spec §4.4. Any
// other byte pair is a fatal engine bug: it means the kernel trapped into a
// syscall-stop at an instruction pointer this decoder does not understand.
func detectABI(pid int, rip uint64) (ABI, error) {
	var buf [2]byte
	n, err := syscall.PtracePeekData(pid, uintptr(rip-2), buf[:])
	if err != nil {
		return 0, err
	}
	if n != len(buf) {
		return 0, &DecodeError{Pid: pid, Reason: "short peek reading ABI opcode"}
	}
	switch {
	case buf[0] == 0x0f && buf[1] == 0x05:
		return ABIx8664, nil
	case buf[0] == 0xcd && buf[1] == 0x80:
		return ABIi386, nil
	default:
		return 0, &DecodeError{
			Pid:    pid,
			Reason: "unrecognized syscall entry opcode preceding rip",
		}
	}
}

// syscallNumber returns the raw syscall number the kernel recorded for this
// entry (Orig_rax covers both ABIs identically on amd64 builds: the kernel
// always normalizes it into the current syscall table's number space).
func syscallNumber(regs *syscall.PtraceRegs) uint64 {
	return regs.Orig_rax
}

// syscallArgs extracts the six-argument register tuple per the x86_64
// calling convention (rdi, rsi, rdx, r10, r8, r9). For i386 entries, the
// kernel's syscall entry path remaps the i386 register convention (ebx,
// ecx, edx, esi, edi, ebp) onto these same fields before the tracer ever
// observes them, so a single extraction works for both ABIs.
func syscallArgs(regs *syscall.PtraceRegs) [6]uint64 {
	return [6]uint64{regs.Rdi, regs.Rsi, regs.Rdx, regs.R10, regs.R8, regs.R9}
}

func syscallReturn(regs *syscall.PtraceRegs) int64 {
	return int64(regs.Rax)
}

func instructionPointer(regs *syscall.PtraceRegs) uint64 {
	return regs.Rip
}

// maxErrno is ulong(-4095); a raw syscall return value above it (compared
// as unsigned) is a negated errno rather than a genuine result.
const maxErrno uint64 = 18446744073709547521

// splitReturn turns a raw Rax value into either a successful return or an
// errno, per the x86_64 syscall ABI convention.
func splitReturn(raw uint64) (value int64, errno syscall.Errno, failed bool) {
	if raw > maxErrno {
		return -1, syscall.Errno(-int64(raw)), true
	}
	return int64(raw), 0, false
}

func syscallKindFor(abi ABI, number uint64) SyscallKind {
	var table map[uint64]SyscallKind
	if abi == ABIi386 {
		table = syscallTableI386
	} else {
		table = syscallTableX8664
	}
	if kind, ok := table[number]; ok {
		return kind
	}
	return SyscallUnknown
}
