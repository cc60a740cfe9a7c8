package main

import (
	"github.com/pescope/pescope/go/cmd"

	_ "github.com/pescope/pescope/go/cmd/headers"
	_ "github.com/pescope/pescope/go/cmd/strings"

	_ "github.com/pescope/pescope/go/cmd/arch"
	_ "github.com/pescope/pescope/go/cmd/repl"
	_ "github.com/pescope/pescope/go/cmd/tui"
)

func main() { cmd.Main() }
