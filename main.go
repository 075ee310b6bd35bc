package main

import "github.com/craftops/plugsync/cmd"

func main() {
	cmd.Execute()
}
