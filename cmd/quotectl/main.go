package main

import (
	"os"

	"exchange-desk/cmd/quotectl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
