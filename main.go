package main

import "github.com/notargets/rllgrid/cmd"

func main() {
	cmd.Execute()
}
