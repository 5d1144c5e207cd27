package main

import (
	"os"

	"github.com/kristenlee3553/my-trivia/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
