package main

import (
	"os"

	"github.com/solitary-project/forge/cmd/forge"
)

func main() {
	os.Exit(forge.Execute(os.Args[1:]))
}
