package main

import (
	"fmt"
	"time"

	"github.com/callebjorkell/pcsc-probe/pcsc"
	"github.com/callebjorkell/pcsc-probe/reader"
	log "github.com/sirupsen/logrus"
)

func watchReaderEvents(name string) {
	db := openDB()
	defer db.Close()

	var r reader.CardReader
	if *watchMock {
		if name == "" {
			name = "mock"
		}
		r = reader.NewMockReader(name, "3b8f8001804f0ca000000306030001000000006a", 10*time.Second, 5*time.Second)
	} else {
		lib, ctx := establish()
		defer lib.Close()
		defer ctx.Release()

		if name == "" {
			names, err := ctx.ListReaders()
			if err != nil {
				log.Fatal(err)
			}
			if len(names) == 0 {
				log.Fatal(pcsc.ErrNoReaders)
			}
			name = names[0]
		}

		opts := reader.DefaultOptions()
		opts.Interval = *watchInterval
		opts.Debounce = *watchDebounce

		var err error
		r, err = reader.Watch(reader.PCSCSource{Context: ctx}, name, opts)
		if err != nil {
			log.Fatal(err)
		}
	}
	defer r.Close()

	log.Infof("Watching %v", name)
	for ev := range r.Events() {
		if ev.State == reader.Deactivated {
			fmt.Println("Card removed...")
			continue
		}

		c, err := db.TouchCard(ev.Reader, ev.CardID, time.Now())
		if err != nil {
			log.Warnf("Could not record card %v: %v", ev.CardID, err)
		}
		fmt.Printf("Card %v activated (seen %v times)\n", ev.CardID, c.Seen)
	}
}
