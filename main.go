package main

import "github.com/mj1618/macpilot/cmd"

func main() {
	cmd.Execute()
}
