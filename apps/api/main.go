package main

import (
	"log"

	"github.com/trezcool/academia/core"
)

func main() {
	startWithDig(core.NewConfig())
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
