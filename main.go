package main

import (
	"github.com/viennaptm/viennaptm/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}
