package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pyls-manager/src/adapter"
	"pyls-manager/src/config"
	"pyls-manager/src/internal/common"
	"pyls-manager/src/interpreter"
)

// stderrReporter surfaces adapter errors on stderr, keeping stdout free for
// the descriptor JSON.
type stderrReporter struct{}

func (stderrReporter) ShowError(message string) {
	common.AdapterLogger.Error("%s", message)
}

// newAdapterFactory builds the descriptor factory from the effective config.
// The configured python_path acts as the workspace's selected interpreter, the
// second tier of the resolution chain; a pythonPath inside the debug
// configuration itself stays the first.
func newAdapterFactory(cfg *config.Config, logDir string) *adapter.DescriptorFactory {
	return adapter.NewDescriptorFactory(
		interpreter.NewPathService(cfg.Debug.PythonPath),
		stderrReporter{},
		defaultAdapterScript(),
		logDir,
	)
}

func runAdapterCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}

	raw, err := readAdapterInput()
	if err != nil {
		return err
	}

	debugCfg, err := adapter.ParseConfig(raw)
	if err != nil {
		return err
	}
	if debugCfg.DebugAdapterPath == "" {
		debugCfg.DebugAdapterPath = cfg.Debug.DebugAdapterPath
	}

	logDir := adapterLogDir
	if logDir == "" {
		logDir = defaultAdapterLogDir()
	}

	descriptor, err := newAdapterFactory(cfg, logDir).GetDescriptor(debugCfg)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(descriptor, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func readAdapterInput() ([]byte, error) {
	if adapterInput != "" {
		data, err := os.ReadFile(adapterInput)
		if err != nil {
			return nil, fmt.Errorf("failed to read debug configuration: %w", err)
		}
		return data, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read debug configuration from stdin: %w", err)
	}
	return data, nil
}

func defaultAdapterScript() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".pyls-manager", "debugAdapter", "adapter.py")
}

func defaultAdapterLogDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".pyls-manager", "logs")
}
