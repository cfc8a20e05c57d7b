package main

import (
	"fmt"
	"strings"

	"github.com/callebjorkell/pcsc-probe/pcsc"
)

func printLibrary(override string) {
	fmt.Println(pcsc.LibraryName(override))
	if strings.TrimSpace(override) != "" {
		fmt.Printf("(from --library or $%v)\n", pcsc.LibraryEnv)
	}
	fmt.Println()
	fmt.Println("Candidates, in order:")
	for i, c := range pcsc.Candidates(override) {
		fmt.Printf("%3d │ %v\n", i+1, c)
	}
}
