package main

import (
	"os"

	"github.com/lockwhz/retroscan/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
