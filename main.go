package main

import (
	"os"

	"github.com/gopak/framepak/cmd"
	"github.com/gopak/framepak/internal/logging"
)

func main() {
	err := cmd.Execute()
	if err != nil {
		logging.Error(cmd.Describe(err))
	}
	logging.Close()
	if err != nil {
		os.Exit(1)
	}
}
