package main

import (
	"fmt"
	"time"

	"github.com/callebjorkell/pcsc-probe/pcsc"
	"github.com/callebjorkell/pcsc-probe/store"
	log "github.com/sirupsen/logrus"
)

// probeLibrary runs the whole load, establish, list sequence and records how far it got.
func probeLibrary(loader *pcsc.Loader, candidates []string) store.Probe {
	p := store.Probe{
		Candidates: candidates,
		Time:       time.Now(),
	}

	lib, err := loader.Load()
	if err != nil {
		p.Error = err.Error()
		return p
	}
	p.Library = lib.Path()

	ctx, err := lib.EstablishContext(pcsc.ScopeSystem)
	if err != nil {
		p.Error = err.Error()
		return p
	}
	defer ctx.Release()

	r, err := ctx.ListReaders()
	if err != nil {
		p.Error = err.Error()
		return p
	}
	p.Readers = r
	return p
}

func runProbe() {
	db := openDB()
	defer db.Close()

	loader := pcsc.NewLoader(*library)
	p := probeLibrary(loader, pcsc.Candidates(*library))
	if err := db.StoreProbe(&p); err != nil {
		log.Warnf("Could not record probe: %v", err)
	}

	if !p.OK() {
		db.Close()
		log.Fatal(p.Error)
	}

	fmt.Printf("Library: %v\n", p.Library)
	if len(p.Readers) == 0 {
		fmt.Println("No readers found...")
		return
	}
	fmt.Printf("Readers (%v):\n", len(p.Readers))
	for _, r := range p.Readers {
		fmt.Printf("  %v\n", r)
	}
}
