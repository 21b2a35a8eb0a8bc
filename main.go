package main

import "github.com/iksnae/event-contexts/cmd"

func main() {
	cmd.Execute()
}
