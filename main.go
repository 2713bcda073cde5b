package main

import (
	"os"

	"github.com/RawsTourix/bot-farm/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
