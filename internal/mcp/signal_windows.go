//go:build windows

package mcp

import "os"

// shutdownSignals stop a running server. Windows delivers only Ctrl+C.
var shutdownSignals = []os.Signal{os.Interrupt}
