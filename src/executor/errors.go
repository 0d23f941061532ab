package executor

import "errors"

var (
	// Config validation errors
	ErrDeskRequired  = errors.New("desk service is required")
	ErrAgentRequired = errors.New("agent is required")

	// Execution errors
	ErrAgentFailed = errors.New("agent failed to answer")
)
