package viewer

import (
	"fmt"
	"strings"
)

// Status reports the availability of the viewer executable.
type Status struct {
	Name      string `json:"name"`
	Command   string `json:"command"`
	Available bool   `json:"available"`
	Detail    string `json:"detail,omitempty"`
}

// Check evaluates whether binary can be launched.
func Check(name, binary string) Status {
	cmd := strings.TrimSpace(binary)
	status := Status{Name: name, Command: cmd}
	if cmd == "" {
		status.Detail = "command not configured"
		return status
	}
	path, err := Resolve(cmd)
	switch {
	case err == nil:
		status.Command = path
		status.Available = true
	case IsPermissionDenied(err):
		status.Detail = fmt.Sprintf("binary %q is not executable", cmd)
	case IsNotFound(err):
		status.Detail = fmt.Sprintf("binary %q not found", cmd)
	default:
		status.Detail = err.Error()
	}
	return status
}
