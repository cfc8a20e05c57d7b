package reader

import (
	"encoding/hex"

	"github.com/callebjorkell/pcsc-probe/pcsc"
)

// Source reports the identity of the card currently in a reader, or "" if the reader is empty.
type Source interface {
	CardID(reader string) (string, error)
}

// PCSCSource reads card presence through a PC/SC context.
type PCSCSource struct {
	Context *pcsc.Context
}

func (s PCSCSource) CardID(reader string) (string, error) {
	st, err := s.Context.Status(reader)
	if err != nil {
		return "", err
	}
	if !st.Present() || len(st.ATR) == 0 {
		return "", nil
	}
	return hex.EncodeToString(st.ATR), nil
}
