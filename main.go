package main

import "github.com/brogergvhs/mangafox/cmd"

func main() {
	cmd.Execute()
}
