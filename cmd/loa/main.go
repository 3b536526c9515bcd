package main

import (
	_ "time/tzdata"

	"github.com/prk7048/LOA-AGENT/cmd/loa/root"
)

func main() {
	root.Execute()
}
