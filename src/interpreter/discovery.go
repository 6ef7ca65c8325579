// Package interpreter locates python interpreters for hosting the debug
// adapter process.
package interpreter

import (
	"os/exec"

	"pyls-manager/src/internal/common"
)

// Service is the interpreter surface the descriptor factory resolves against.
type Service interface {
	// ActiveInterpreter returns the workspace's currently selected interpreter,
	// or empty when none is selected.
	ActiveInterpreter() string
	// Interpreters returns every interpreter discovered on this machine, best
	// candidate first. May be empty.
	Interpreters() []string
}

var defaultCandidates = []string{"python3", "python"}

// PathService discovers interpreters on PATH and carries the configured active
// interpreter, if any.
type PathService struct {
	active     string
	candidates []string
}

// NewPathService creates a PATH-backed interpreter service. active may be
// empty when the workspace has no selected interpreter.
func NewPathService(active string) *PathService {
	return &PathService{active: active, candidates: defaultCandidates}
}

// ActiveInterpreter returns the configured interpreter path
func (s *PathService) ActiveInterpreter() string {
	return s.active
}

// Interpreters returns the PATH candidates that resolve to an executable
func (s *PathService) Interpreters() []string {
	var found []string
	seen := map[string]struct{}{}

	for _, candidate := range common.PlatformExpand(s.candidates) {
		path, err := exec.LookPath(candidate)
		if err != nil {
			continue
		}
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		found = append(found, path)
	}

	return found
}
