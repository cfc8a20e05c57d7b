package main

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/callebjorkell/pcsc-probe/pcsc"
	log "github.com/sirupsen/logrus"
)

func listReaders() {
	lib, ctx := establish()
	defer lib.Close()
	defer ctx.Release()

	names, err := ctx.ListReaders()
	if err != nil {
		log.Fatal(err)
	}
	if len(names) == 0 {
		fmt.Println("No readers found...")
		return
	}

	states := make([]pcsc.ReaderState, len(names))
	for i, n := range names {
		states[i] = pcsc.ReaderState{Reader: n, CurrentState: pcsc.StateUnaware}
	}
	if err := ctx.GetStatusChange(0, states); err != nil && !errors.Is(err, pcsc.ErrTimeout) {
		log.Warnf("Could not get reader states: %v", err)
	}

	fmt.Println("Reader                                   │ State                │ ATR")
	fmt.Println("─────────────────────────────────────────┼──────────────────────┼──────────────────────")
	for _, s := range states {
		fmt.Printf("%-40v │ %-20v │ %v\n", checkLength(s.Reader, 40), s.EventState, hex.EncodeToString(s.ATR))
	}
}

func checkLength(s string, l int) string {
	if len(s) > l {
		return s[:l-1] + "…"
	}
	return s
}
