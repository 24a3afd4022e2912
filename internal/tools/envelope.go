package tools

import "fmt"

// NotConnectedError is the failure message of an invocation that could not
// reach the tool server at all.
const NotConnectedError = "not connected to tool server"

// CallEnvelope is the uniform request wrapper for a remote tool invocation.
type CallEnvelope struct {
	Tool      string         `json:"toolName"`
	Arguments map[string]any `json:"arguments"`
}

// ResultEnvelope is the uniform success/error wrapper around a tool result.
// Exactly one of Payload/Err is meaningful, depending on Success.
type ResultEnvelope struct {
	Success bool   `json:"success"`
	Payload any    `json:"data,omitempty"`
	Err     string `json:"error,omitempty"`
}

// Ok wraps a successful payload.
func Ok(payload any) ResultEnvelope {
	return ResultEnvelope{Success: true, Payload: payload}
}

// Fail wraps a failure message.
func Fail(format string, args ...any) ResultEnvelope {
	return ResultEnvelope{Success: false, Err: fmt.Sprintf(format, args...)}
}
