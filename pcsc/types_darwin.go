package pcsc

// The PCSC framework on macOS uses fixed 32 bit types and packs SCARD_READERSTATE.

type (
	dword        uint32
	long         int32
	scardContext int32
)

const readerStatePacked = true
