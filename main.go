package main

import (
	"os"

	"github.com/eclipse-score/srclinker/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
