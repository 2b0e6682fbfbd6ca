//go:build linux && amd64

package ptrace

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// readMemory reads exactly len(data) bytes from the tracee's address space
// at addr, using process_vm_readv (word-granular PTRACE_PEEKDATA would work
// too, but process_vm_readv handles arbitrary lengths and page boundaries in
// one call, which matters for the larger `read`/`write` detail buffers).
//
// Grounded on DataDog ptracer.go's processVMReadv helper.
func readMemory(pid int, addr uint64, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	localIov := []unix.Iovec{{Base: &data[0]}}
	localIov[0].SetLen(len(data))
	remoteIov := []unix.RemoteIovec{{Base: uintptr(addr), Len: len(data)}}

	read := 0
	for read < len(data) {
		n, err := unix.ProcessVMReadv(pid, localIov, remoteIov, 0)
		if err != nil {
			return err
		}
		if n <= 0 {
			return fmt.Errorf("short read from tracee %d memory at %#x: got %d of %d bytes", pid, addr, read, len(data))
		}
		read += n
		if read >= len(data) {
			break
		}
		// Handle a short read across a page boundary by resuming from
		// where the kernel left off.
		localIov[0].Base = &data[read]
		localIov[0].SetLen(len(data) - read)
		remoteIov[0].Base = uintptr(addr) + uintptr(read)
		remoteIov[0].Len = len(data) - read
	}
	return nil
}

// readCString reads a NUL-terminated string from the tracee's address
// space, reading one page at a time so the common case (a short path or
// argv element) costs a single syscall.
//
// Grounded on DataDog ptracer.go's readString.
func readCString(pid int, addr uint64) (string, error) {
	pageSize := uint64(os.Getpagesize())
	pageAddr := addr & ^(pageSize - 1)
	sizeToEndOfPage := pageAddr + pageSize - addr
	maxReadSize := sizeToEndOfPage + pageSize

	for readSize := sizeToEndOfPage; readSize <= maxReadSize; readSize += pageSize {
		data := make([]byte, readSize)
		if err := readMemory(pid, addr, data); err != nil {
			return "", err
		}
		for i, b := range data {
			if b == 0 {
				return string(data[:i]), nil
			}
		}
	}
	return "", &DecodeError{Pid: pid, Reason: fmt.Sprintf("string at %#x exceeds %d bytes without a NUL terminator", addr, maxReadSize)}
}
