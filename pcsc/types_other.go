//go:build !darwin

package pcsc

// pcsc-lite maps DWORD to unsigned long and LONG to long, which follow the pointer width on Unix.

type (
	dword        uint
	long         int
	scardContext int
)

const readerStatePacked = false
