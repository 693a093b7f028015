package main

import (
	"github.com/cobalt-data/nbt/cmd"
)

func main() {
	cmd.Execute()
}
