package main

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

func dumpProbes() {
	db := openDB()
	defer db.Close()

	probes, err := db.ReadProbes()
	if err != nil {
		log.Fatal(err)
	}

	if len(probes) > 0 {
		fmt.Println("Time                │ Library                        │ Readers │ Result")
		fmt.Println("────────────────────┼────────────────────────────────┼─────────┼─────────────────────────────────")
	} else {
		fmt.Println("No probes found in the database...")
	}
	for _, p := range probes {
		result := "ok"
		if !p.OK() {
			result = p.Error
		}
		if i := strings.IndexByte(result, '\n'); i != -1 {
			result = result[:i] + " …"
		}
		fmt.Printf("%19v │ %-30v │ %7v │ %v\n", p.Time.Local().Format("2006-01-02 15:04:05"), checkLength(p.Library, 30), len(p.Readers), result)
	}
}

func dumpCards() {
	db := openDB()
	defer db.Close()

	cards, err := db.ReadCards()
	if err != nil {
		log.Fatal(err)
	}

	if len(cards) == 0 {
		fmt.Println("No cards found in the database...")
		return
	}
	for _, c := range cards {
		fmt.Println(c)
	}
}
