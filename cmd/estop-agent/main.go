package main

import "github.com/gvarobotics/estop-controller/cmd/estop-agent/cmd"

func main() {
	cmd.Execute()
}
