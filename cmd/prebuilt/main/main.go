package main

import (
	"os"

	"github.com/arthur-debert/prebuilt/cmd/prebuilt"
)

func main() {
	os.Exit(prebuilt.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
