package pcsc

import (
	"encoding/binary"
	"unsafe"
)

// ReaderState is the Go side of SCARD_READERSTATE.
type ReaderState struct {
	Reader       string
	CurrentState ReaderStateFlag
	EventState   ReaderStateFlag
	ATR          []byte
}

// Present reports whether the last event state says there is a card in the reader.
func (s ReaderState) Present() bool {
	return s.EventState.Has(StatePresent)
}

// readerStateLayout describes where the fields of SCARD_READERSTATE live. The struct starts with two pointers
// (reader name, user data), followed by three DWORDs and the ATR buffer.
type readerStateLayout struct {
	ptrSize, dwordSize  int
	current, event, atr int
	atrLen, size        int
}

func newReaderStateLayout(ptrSize, dwordSize int, packed bool) readerStateLayout {
	l := readerStateLayout{ptrSize: ptrSize, dwordSize: dwordSize}
	l.current = 2 * ptrSize
	l.event = l.current + dwordSize
	l.atrLen = l.event + dwordSize
	l.atr = l.atrLen + dwordSize
	l.size = l.atr + maxATRSize
	if !packed {
		align := ptrSize
		if dwordSize > align {
			align = dwordSize
		}
		l.size = (l.size + align - 1) / align * align
	}
	return l
}

var nativeLayout = newReaderStateLayout(int(unsafe.Sizeof(uintptr(0))), int(unsafe.Sizeof(dword(0))), readerStatePacked)

func (l readerStateLayout) putWord(b []byte, size int, v uint64) {
	if size == 8 {
		binary.NativeEndian.PutUint64(b, v)
	} else {
		binary.NativeEndian.PutUint32(b, uint32(v))
	}
}

func (l readerStateLayout) word(b []byte, size int) uint64 {
	if size == 8 {
		return binary.NativeEndian.Uint64(b)
	}
	return uint64(binary.NativeEndian.Uint32(b))
}

// encode writes states into a buffer the library can read. names must hold the C string for every state and has to
// be kept alive until the library call returns.
func (l readerStateLayout) encode(states []ReaderState, names [][]byte) []byte {
	buf := make([]byte, l.size*len(states))
	for i, s := range states {
		b := buf[i*l.size : (i+1)*l.size]
		l.putWord(b, l.ptrSize, uint64(uintptr(unsafe.Pointer(&names[i][0]))))
		l.putWord(b[l.current:], l.dwordSize, uint64(s.CurrentState))
		l.putWord(b[l.event:], l.dwordSize, uint64(s.EventState))
		n := copy(b[l.atr:l.atr+maxATRSize], s.ATR)
		l.putWord(b[l.atrLen:], l.dwordSize, uint64(n))
	}
	return buf
}

// decode copies the event state and ATR that the library filled in back into states.
func (l readerStateLayout) decode(buf []byte, states []ReaderState) {
	for i := range states {
		b := buf[i*l.size : (i+1)*l.size]
		states[i].EventState = ReaderStateFlag(l.word(b[l.event:], l.dwordSize))
		n := int(l.word(b[l.atrLen:], l.dwordSize))
		if n > maxATRSize {
			n = maxATRSize
		}
		states[i].ATR = append([]byte(nil), b[l.atr:l.atr+n]...)
	}
}

func cString(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}
