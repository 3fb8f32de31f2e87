package main

import "github.com/xvierd/focusify/cmd"

func main() {
	cmd.Execute()
}
