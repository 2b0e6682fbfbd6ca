//go:build linux && amd64

package ptrace

import "testing"

// TestSyscallKindRoundTrip checks spec §8's "decoded syscall kind for a
// known number n under ABI A round-trips through the name table" property
// for a representative sample from each table.
func TestSyscallKindRoundTrip(t *testing.T) {
	cases := []struct {
		abi    ABI
		number uint64
		want   SyscallKind
	}{
		{ABIx8664, 0, SyscallRead},
		{ABIx8664, 1, SyscallWrite},
		{ABIx8664, 59, SyscallExecve},
		{ABIx8664, 60, SyscallExit},
		{ABIx8664, 82, SyscallRename},
		{ABIx8664, 56, SyscallClone},
		{ABIx8664, 57, SyscallFork},
		{ABIi386, 3, SyscallRead},
		{ABIi386, 4, SyscallWrite},
		{ABIi386, 11, SyscallExecve},
		{ABIi386, 38, SyscallRename},
		{ABIi386, 120, SyscallClone},
		{ABIi386, 163, SyscallMremap},
		{ABIi386, 212, SyscallChown32},
	}
	for _, c := range cases {
		got := syscallKindFor(c.abi, c.number)
		if got != c.want {
			t.Errorf("syscallKindFor(%v, %d) = %v, want %v", c.abi, c.number, got, c.want)
		}
	}
}

func TestSyscallKindForUnknownNumber(t *testing.T) {
	const implausiblyLargeNumber = 999999
	if got := syscallKindFor(ABIx8664, implausiblyLargeNumber); got != SyscallUnknown {
		t.Errorf("syscallKindFor(unknown) = %v, want SyscallUnknown", got)
	}
}

func TestSyscallTablesDisagreeOnNumbering(t *testing.T) {
	// spec §3: "Disagreement between the two tables is expected (numbers
	// are not shared)." x86_64's read is 0; i386's read is 3.
	if syscallTableX8664[0] != SyscallRead {
		t.Fatal("x86_64 table: expected 0 to be read")
	}
	if syscallTableI386[0] == SyscallRead {
		t.Fatal("i386 table: 0 should not also mean read (i386 read is 3)")
	}
	if syscallTableI386[1] != SyscallExit {
		t.Fatal("i386 table: expected 1 to be exit")
	}
}

func TestSyscallKindString(t *testing.T) {
	if got := SyscallRead.String(); got != "read" {
		t.Errorf("SyscallRead.String() = %q, want %q", got, "read")
	}
	if got := SyscallUnknown.String(); got != "unknown" {
		t.Errorf("SyscallUnknown.String() = %q, want %q", got, "unknown")
	}
}

func TestSyscallKindHasDetail(t *testing.T) {
	detailKinds := []SyscallKind{SyscallRead, SyscallWrite, SyscallPread64, SyscallPwrite64, SyscallOpen, SyscallOpenat}
	for _, k := range detailKinds {
		if !k.HasDetail() {
			t.Errorf("%v.HasDetail() = false, want true", k)
		}
	}
	noDetailKinds := []SyscallKind{SyscallClose, SyscallExecve, SyscallUnknown}
	for _, k := range noDetailKinds {
		if k.HasDetail() {
			t.Errorf("%v.HasDetail() = true, want false", k)
		}
	}
}
