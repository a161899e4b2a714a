// Command makerdb browses and edits MakerDB records from the terminal and
// renders them as HTML.
package main

import (
	"log"
	"os"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("makerdb: ")

	a := newApp(os.Stdout, os.Stderr)
	if err := newRootCmd(a).Execute(); err != nil {
		log.Fatal(err)
	}
}
