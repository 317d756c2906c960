package model

import "time"

// Shared defaults used by both the CLI and TUI binaries.
const (
	DefaultBaseURL = "http://localhost:9428"
	DefaultTimeout = 30 * time.Second
	DefaultTenant  = "0:0"
)
