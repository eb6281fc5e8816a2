package main

import "github.com/gvarobotics/estop-controller/cmd/estop-reset/cmd"

func main() {
	cmd.Execute()
}
