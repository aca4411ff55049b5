package main

import (
	"log"

	"github.com/talentsift/talentsift/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
