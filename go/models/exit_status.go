package models

import "fmt"

// ExitStatus is returned by a command that wants a specific process exit code.
type ExitStatus int

const (
	ExitOK      ExitStatus = 0
	ExitError   ExitStatus = 1
	ExitUsage   ExitStatus = 2
	ExitInvalid ExitStatus = 3
)

func (e ExitStatus) Error() string {
	return fmt.Sprintf("exit %d", e)
}
