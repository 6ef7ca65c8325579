package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyls-manager/src/internal/errors"
)

// mockInterpreters implements interpreter.Service with canned answers and call counters
type mockInterpreters struct {
	active      string
	discovered  []string
	activeCalls int
	listCalls   int
}

func (m *mockInterpreters) ActiveInterpreter() string {
	m.activeCalls++
	return m.active
}

func (m *mockInterpreters) Interpreters() []string {
	m.listCalls++
	return m.discovered
}

// mockReporter counts error dialog invocations
type mockReporter struct {
	messages []string
}

func (m *mockReporter) ShowError(message string) {
	m.messages = append(m.messages, message)
}

func newFactory(interpreters *mockInterpreters, reporter *mockReporter) *DescriptorFactory {
	return NewDescriptorFactory(interpreters, reporter, "/ext/debugpy/adapter", "/tmp/debug-logs")
}

func TestAttachWithPortYieldsServerDescriptor(t *testing.T) {
	interpreters := &mockInterpreters{discovered: []string{"/usr/bin/python3"}}
	factory := newFactory(interpreters, &mockReporter{})

	desc, err := factory.GetDescriptor(&DebugConfig{Request: RequestAttach, Port: 5678, Host: "localhost"})
	require.NoError(t, err)

	require.NotNil(t, desc.Server)
	assert.Nil(t, desc.Executable)
	assert.Equal(t, "localhost", desc.Server.Host)
	assert.Equal(t, 5678, desc.Server.Port)

	// No interpreter lookup happens for server descriptors.
	assert.Equal(t, 0, interpreters.activeCalls)
	assert.Equal(t, 0, interpreters.listCalls)
}

func TestAttachPortWithoutHostDefaultsLocalhost(t *testing.T) {
	factory := newFactory(&mockInterpreters{}, &mockReporter{})

	desc, err := factory.GetDescriptor(&DebugConfig{Request: RequestAttach, Port: 9000})
	require.NoError(t, err)
	assert.Equal(t, "localhost", desc.Server.Host)
}

func TestAttachWithConnectYieldsServerDescriptor(t *testing.T) {
	factory := newFactory(&mockInterpreters{}, &mockReporter{})

	desc, err := factory.GetDescriptor(&DebugConfig{
		Request: RequestAttach,
		Connect: &HostPort{Host: "10.0.0.7", Port: 5678},
	})
	require.NoError(t, err)

	require.NotNil(t, desc.Server)
	assert.Equal(t, "10.0.0.7", desc.Server.Host)
	assert.Equal(t, 5678, desc.Server.Port)
}

func TestAttachWithListenYieldsExecutableDescriptor(t *testing.T) {
	interpreters := &mockInterpreters{active: "/venv/bin/python"}
	factory := newFactory(interpreters, &mockReporter{})

	desc, err := factory.GetDescriptor(&DebugConfig{
		Request: RequestAttach,
		Listen:  &HostPort{Port: 5678},
	})
	require.NoError(t, err)

	require.NotNil(t, desc.Executable)
	assert.Nil(t, desc.Server)
	assert.Equal(t, "/venv/bin/python", desc.Executable.Command)
	assert.Equal(t, []string{"/ext/debugpy/adapter"}, desc.Executable.Args)
}

func TestAttachWithProcessIDYieldsExecutableDescriptor(t *testing.T) {
	interpreters := &mockInterpreters{discovered: []string{"/usr/bin/python3"}}
	factory := newFactory(interpreters, &mockReporter{})

	desc, err := factory.GetDescriptor(&DebugConfig{Request: RequestAttach, ProcessID: 4242})
	require.NoError(t, err)

	require.NotNil(t, desc.Executable)
	assert.Equal(t, "/usr/bin/python3", desc.Executable.Command)
}

func TestAttachWithoutTargetRejected(t *testing.T) {
	reporter := &mockReporter{}
	factory := newFactory(&mockInterpreters{}, reporter)

	desc, err := factory.GetDescriptor(&DebugConfig{Request: RequestAttach})
	require.Error(t, err)
	assert.Nil(t, desc)

	assert.True(t, errors.IsDebugConfigurationError(err))
	assert.Contains(t, err.Error(), `requires either "connect", "listen", or "processId"`)
}

func TestLaunchUsesConfiguredInterpreterFirst(t *testing.T) {
	interpreters := &mockInterpreters{active: "/venv/bin/python", discovered: []string{"/usr/bin/python3"}}
	factory := newFactory(interpreters, &mockReporter{})

	desc, err := factory.GetDescriptor(&DebugConfig{Request: RequestLaunch, PythonPath: "/opt/py/bin/python"})
	require.NoError(t, err)

	assert.Equal(t, "/opt/py/bin/python", desc.Executable.Command)
	assert.Equal(t, 0, interpreters.activeCalls)
}

func TestLaunchFallsBackToActiveThenDiscovered(t *testing.T) {
	interpreters := &mockInterpreters{active: "", discovered: []string{"/usr/bin/python3", "/usr/bin/python"}}
	factory := newFactory(interpreters, &mockReporter{})

	desc, err := factory.GetDescriptor(&DebugConfig{Request: RequestLaunch})
	require.NoError(t, err)

	assert.Equal(t, "/usr/bin/python3", desc.Executable.Command)
	assert.Equal(t, 1, interpreters.activeCalls)
	assert.Equal(t, 1, interpreters.listCalls)
}

func TestLaunchNoInterpreterAnywhere(t *testing.T) {
	reporter := &mockReporter{}
	factory := newFactory(&mockInterpreters{}, reporter)

	desc, err := factory.GetDescriptor(&DebugConfig{Request: RequestLaunch})
	require.Error(t, err)
	assert.Nil(t, desc)

	assert.True(t, errors.IsNoInterpreterError(err))
	assert.Contains(t, err.Error(), "Debug Adapter Executable not provided")

	// Exactly one error dialog.
	require.Len(t, reporter.messages, 1)
	assert.Equal(t, "Debug Adapter Executable not provided", reporter.messages[0])
}

func TestLogToFileAppendsLogDirFlag(t *testing.T) {
	interpreters := &mockInterpreters{active: "/venv/bin/python"}
	factory := newFactory(interpreters, &mockReporter{})

	desc, err := factory.GetDescriptor(&DebugConfig{Request: RequestLaunch, LogToFile: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"/ext/debugpy/adapter", "--log-dir", "/tmp/debug-logs"}, desc.Executable.Args)
}

func TestCustomAdapterScriptOverridesDefault(t *testing.T) {
	interpreters := &mockInterpreters{active: "/venv/bin/python"}
	factory := newFactory(interpreters, &mockReporter{})

	desc, err := factory.GetDescriptor(&DebugConfig{
		Request:          RequestLaunch,
		DebugAdapterPath: "/custom/adapter.py",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"/custom/adapter.py"}, desc.Executable.Args)
}
