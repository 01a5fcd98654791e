//go:build !windows

package mcp

import (
	"os"
	"syscall"
)

// shutdownSignals stop a running server: Ctrl+C and the SIGTERM sent by
// process supervisors.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
