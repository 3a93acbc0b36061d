package main

import (
	"os"

	"github.com/gudangku/gudangku/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
