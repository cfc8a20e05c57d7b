package pcsc

import (
	"fmt"
	"strings"
)

// PC/SC constants are defined differently under Windows and MUSCLE. The values here are the MUSCLE (pcsc-lite)
// ones, which is also what the macOS framework uses.

type Protocol uint32

const (
	ProtocolUndefined Protocol = 0x0000
	ProtocolT0        Protocol = 0x0001
	ProtocolT1        Protocol = 0x0002
	ProtocolRaw       Protocol = 0x0004
	ProtocolT15       Protocol = 0x0008

	ProtocolAny = ProtocolT0 | ProtocolT1
)

var protocolNames = []struct {
	p    Protocol
	name string
}{
	{ProtocolT0, "T0"},
	{ProtocolT1, "T1"},
	{ProtocolRaw, "RAW"},
	{ProtocolT15, "T15"},
}

func (p Protocol) String() string {
	if p == ProtocolUndefined {
		return "undefined"
	}
	var parts []string
	rest := p
	for _, n := range protocolNames {
		if p&n.p != 0 {
			parts = append(parts, n.name)
			rest &^= n.p
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%04x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// CardState is the state of a card as reported by SCardStatus.
type CardState uint32

const (
	CardUnknown    CardState = 0x0001
	CardAbsent     CardState = 0x0002
	CardPresent    CardState = 0x0004
	CardSwallowed  CardState = 0x0008
	CardPowered    CardState = 0x0010
	CardNegotiable CardState = 0x0020
	CardSpecific   CardState = 0x0040
)

func (s CardState) String() string {
	switch s {
	case CardUnknown:
		return "unknown"
	case CardAbsent:
		return "absent"
	case CardPresent:
		return "present"
	case CardSwallowed:
		return "swallowed"
	case CardPowered:
		return "powered"
	case CardNegotiable:
		return "negotiable"
	case CardSpecific:
		return "specific"
	}
	return fmt.Sprintf("CardState(0x%04x)", uint32(s))
}

// ReaderStateFlag is the bit set used in the current and event state of SCardGetStatusChange.
type ReaderStateFlag uint32

const (
	StateUnaware     ReaderStateFlag = 0x0000
	StateIgnore      ReaderStateFlag = 0x0001
	StateChanged     ReaderStateFlag = 0x0002
	StateUnknown     ReaderStateFlag = 0x0004
	StateUnavailable ReaderStateFlag = 0x0008
	StateEmpty       ReaderStateFlag = 0x0010
	StatePresent     ReaderStateFlag = 0x0020
	StateATRMatch    ReaderStateFlag = 0x0040
	StateExclusive   ReaderStateFlag = 0x0080
	StateInUse       ReaderStateFlag = 0x0100
	StateMute        ReaderStateFlag = 0x0200
	StateUnpowered   ReaderStateFlag = 0x0400

	// the upper 16 bits of the event state carry the reader's event counter
	stateFlagMask ReaderStateFlag = 0xffff
)

var stateNames = []struct {
	f    ReaderStateFlag
	name string
}{
	{StateIgnore, "ignore"},
	{StateChanged, "changed"},
	{StateUnknown, "unknown"},
	{StateUnavailable, "unavailable"},
	{StateEmpty, "empty"},
	{StatePresent, "present"},
	{StateATRMatch, "atrmatch"},
	{StateExclusive, "exclusive"},
	{StateInUse, "inuse"},
	{StateMute, "mute"},
	{StateUnpowered, "unpowered"},
}

func (f ReaderStateFlag) String() string {
	f &= stateFlagMask
	if f == StateUnaware {
		return "unaware"
	}
	var parts []string
	for _, n := range stateNames {
		if f&n.f != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// Has reports whether all bits of flag are set.
func (f ReaderStateFlag) Has(flag ReaderStateFlag) bool {
	return f&flag == flag
}

// EventCount returns the reader event counter that pcsc-lite stores in the upper half of the event state.
func (f ReaderStateFlag) EventCount() uint16 {
	return uint16(f >> 16)
}

type Scope uint32

const (
	ScopeUser     Scope = 0x0000
	ScopeTerminal Scope = 0x0001
	ScopeSystem   Scope = 0x0002
)

const (
	// Infinite is the timeout value that makes SCardGetStatusChange wait forever.
	Infinite uint32 = 0xffffffff

	// PnPNotification is the special reader name used to be notified of readers being added or removed.
	PnPNotification = `\\?PnP?\Notification`

	maxATRSize = 33
)
