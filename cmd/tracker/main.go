package main

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// set via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := SetupCommands(os.Stdin, os.Stdout).Execute(); err != nil {
		log.Errorf("healthtracker: %s", err)
		os.Exit(1)
	}
}
