package main

import (
	"github.com/icforge/canistertools/cmd/canistertools/commands"
)

// version is overridden during the build with the go linker
var version = "dev"

func main() {
	commands.SetVersion(version)
	commands.Execute()
}
