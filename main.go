package main

import "github.com/notargets/gobndry/cmd"

func main() {
	cmd.Execute()
}
