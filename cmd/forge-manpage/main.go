package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/solitary-project/forge/cmd/forge"
	"github.com/solitary-project/forge/internal/version"
)

func main() {
	rootCmd := forge.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "FORGE",
		Section: "1",
		Source:  "forge " + version.Version,
		Manual:  "forge manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
