package bus

import "fmt"

// Command names understood by the agent.
const (
	CommandTrigger = "trigger"
	CommandReset   = "reset"
	CommandState   = "state"
	CommandHistory = "history"
)

// CommandSubject returns the request/reply subject for a command of the unit.
func CommandSubject(unitID, command string) string {
	return fmt.Sprintf("estop.%s.cmd.%s", unitID, command)
}
