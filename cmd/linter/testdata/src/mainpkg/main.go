package main

import (
	"log"
	"os"
)

func main() {
	if len(os.Args) > 3 {
		os.Exit(2)
	}
	log.Fatal("done")
}

func helper() {
	os.Exit(1) // want "call to log.Fatal or os.Exit outside main.main"
}
