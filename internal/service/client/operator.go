package client

import (
	"fmt"
	"os"
	"os/user"
)

// DetectOperator gathers user and host information for the audit trail,
// formatted as user@host.
func DetectOperator() (string, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("current user: %w", err)
	}

	return fmt.Sprintf("%s@%s", currentUser.Username, hostname), nil
}
