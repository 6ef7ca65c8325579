// Package adapter chooses how a debug adapter is started for a debug session:
// launching a local executable or connecting to a remote host/port.
package adapter

import (
	"encoding/json"
	"fmt"
)

// Debug request kinds.
const (
	RequestLaunch = "launch"
	RequestAttach = "attach"
)

// HostPort identifies a debug adapter endpoint
type HostPort struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port"`
}

// DebugConfig is the validated form of a debug configuration. Attach requests
// carry at most one connection target: a direct port, a connect block, a
// listen block, or a process id.
type DebugConfig struct {
	Request          string    `json:"request"`
	Port             int       `json:"port,omitempty"`
	Host             string    `json:"host,omitempty"`
	Connect          *HostPort `json:"connect,omitempty"`
	Listen           *HostPort `json:"listen,omitempty"`
	ProcessID        int       `json:"processId,omitempty"`
	PythonPath       string    `json:"pythonPath,omitempty"`
	DebugAdapterPath string    `json:"debugAdapterPath,omitempty"`
	LogToFile        bool      `json:"logToFile,omitempty"`
}

// ParseConfig validates a raw debug configuration at the boundary, before it
// enters the descriptor decision procedure.
func ParseConfig(data []byte) (*DebugConfig, error) {
	var cfg DebugConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse debug configuration: %w", err)
	}

	switch cfg.Request {
	case RequestLaunch, RequestAttach:
	case "":
		return nil, fmt.Errorf(`debug configuration is missing "request"`)
	default:
		return nil, fmt.Errorf("unknown debug request %q", cfg.Request)
	}

	if cfg.Connect != nil && cfg.Connect.Port <= 0 {
		return nil, fmt.Errorf(`"connect" requires a positive "port"`)
	}
	if cfg.Listen != nil && cfg.Listen.Port <= 0 {
		return nil, fmt.Errorf(`"listen" requires a positive "port"`)
	}

	return &cfg, nil
}
