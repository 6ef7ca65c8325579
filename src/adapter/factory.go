package adapter

import (
	"pyls-manager/src/internal/common"
	"pyls-manager/src/internal/errors"
	"pyls-manager/src/interpreter"
)

const defaultHost = "localhost"

// ExecutableDescriptor instructs the host to launch a local debug adapter
// process: the resolved interpreter plus the adapter script and its flags.
type ExecutableDescriptor struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

// ServerDescriptor instructs the host to connect to an already-running debug
// adapter.
type ServerDescriptor struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// Descriptor is the outcome of one descriptor evaluation; exactly one field is set
type Descriptor struct {
	Executable *ExecutableDescriptor `json:"executable,omitempty"`
	Server     *ServerDescriptor     `json:"server,omitempty"`
}

// ErrorReporter surfaces user-visible failures, typically as an error dialog.
type ErrorReporter interface {
	ShowError(message string)
}

// DescriptorFactory evaluates debug configurations into descriptors. One
// evaluation per debug session start; the factory keeps no session state.
type DescriptorFactory struct {
	interpreters  interpreter.Service
	reporter      ErrorReporter
	adapterScript string
	logDir        string
}

// NewDescriptorFactory creates a factory resolving interpreters through the
// given service. adapterScript is the default adapter entry point; logDir is
// where adapter logs go when a configuration asks for them.
func NewDescriptorFactory(interpreters interpreter.Service, reporter ErrorReporter, adapterScript, logDir string) *DescriptorFactory {
	return &DescriptorFactory{
		interpreters:  interpreters,
		reporter:      reporter,
		adapterScript: adapterScript,
		logDir:        logDir,
	}
}

// GetDescriptor decides between a server descriptor (connect to host:port) and
// an executable descriptor (launch the adapter under an interpreter).
func (f *DescriptorFactory) GetDescriptor(cfg *DebugConfig) (*Descriptor, error) {
	if cfg.Request == RequestAttach {
		return f.attachDescriptor(cfg)
	}
	return f.executableDescriptor(cfg)
}

func (f *DescriptorFactory) attachDescriptor(cfg *DebugConfig) (*Descriptor, error) {
	// A direct port or a connect block means an adapter is already running
	// somewhere; no interpreter lookup is performed.
	if cfg.Port > 0 {
		return serverDescriptor(cfg.Host, cfg.Port), nil
	}
	if cfg.Connect != nil {
		return serverDescriptor(cfg.Connect.Host, cfg.Connect.Port), nil
	}

	// Listen and processId both need a locally hosted adapter.
	if cfg.Listen != nil || cfg.ProcessID > 0 {
		return f.executableDescriptor(cfg)
	}

	return nil, errors.NewAttachConfigError()
}

func serverDescriptor(host string, port int) *Descriptor {
	if host == "" {
		host = defaultHost
	}
	return &Descriptor{Server: &ServerDescriptor{Host: host, Port: port}}
}

func (f *DescriptorFactory) executableDescriptor(cfg *DebugConfig) (*Descriptor, error) {
	command, err := f.resolveInterpreter(cfg)
	if err != nil {
		return nil, err
	}

	script := cfg.DebugAdapterPath
	if script == "" {
		script = f.adapterScript
	}

	args := []string{script}
	if cfg.LogToFile {
		args = append(args, "--log-dir", f.logDir)
	}

	return &Descriptor{Executable: &ExecutableDescriptor{Command: command, Args: args}}, nil
}

// resolveInterpreter walks the resolution chain: configured path, then the
// active interpreter, then the first discovered one.
func (f *DescriptorFactory) resolveInterpreter(cfg *DebugConfig) (string, error) {
	if cfg.PythonPath != "" {
		return cfg.PythonPath, nil
	}

	if active := f.interpreters.ActiveInterpreter(); active != "" {
		return active, nil
	}

	if discovered := f.interpreters.Interpreters(); len(discovered) > 0 {
		return discovered[0], nil
	}

	common.AdapterLogger.Error("interpreter resolution chain exhausted")
	err := errors.NewNoInterpreterError()
	if f.reporter != nil {
		f.reporter.ShowError(err.Error())
	}
	return "", err
}
