package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/prebuilt/cmd/prebuilt"
	"github.com/arthur-debert/prebuilt/internal/version"
)

func main() {
	rootCmd := prebuilt.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "PREBUILT",
		Section: "1",
		Source:  "prebuilt " + version.Version,
		Manual:  "prebuilt manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
