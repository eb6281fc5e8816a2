package main

import "github.com/gvarobotics/estop-controller/cmd/estop-trigger/cmd"

func main() {
	cmd.Execute()
}
