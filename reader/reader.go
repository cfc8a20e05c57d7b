package reader

import (
	"fmt"
	"io"
)

const (
	Activated   CardState = 0
	Deactivated CardState = 1
)

type CardReader interface {
	io.Closer
	Events() <-chan CardEvent
}

type CardState int

func (s CardState) String() string {
	switch s {
	case Activated:
		return "activated"
	case Deactivated:
		return "deactivated"
	}
	return fmt.Sprintf("CardState(%d)", int(s))
}

type CardEvent struct {
	// Reader is the name of the reader the card was seen in.
	Reader string
	// CardID identifies the card. For PC/SC readers this is the hex encoded ATR. Empty on deactivation.
	CardID string
	State  CardState
}
