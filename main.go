package main

import "github.com/table-sim/table-sim/cmd"

func main() {
	cmd.Execute()
}
