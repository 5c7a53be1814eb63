package main

import "promptmap/cmd"

func main() {
	cmd.Execute()
}
