package main

import "github.com/gvarobotics/estop-controller/cmd/estop-status/cmd"

func main() {
	cmd.Execute()
}
