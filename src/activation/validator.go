// Package activation starts a resolved language-server distribution and
// verifies it completes the LSP lifecycle handshake over stdio.
package activation

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"pyls-manager/src/internal/common"
)

// Result carries what the server reported about itself during initialize.
type Result struct {
	ServerName    string
	ServerVersion string
}

// Validator activates a distribution by running its server command and
// exchanging initialize, initialized, shutdown, and exit.
type Validator struct {
	timeout time.Duration
}

// NewValidator creates a validator. timeout bounds the whole handshake,
// including server startup.
func NewValidator(timeout time.Duration) *Validator {
	return &Validator{timeout: timeout}
}

// Validate launches the server command with rootDir as its working directory
// and performs the handshake. The process is killed if the handshake does not
// complete within the timeout.
func (v *Validator) Validate(ctx context.Context, command []string, rootDir string) (*Result, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("no server command configured")
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = rootDir

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start server: %w", err)
	}

	result, err := v.handshake(ctx, stdioPipe{reader: stdout, writer: stdin}, rootDir)
	if err != nil {
		cmd.Process.Kill()
		cmd.Wait()
		return nil, err
	}

	if waitErr := cmd.Wait(); waitErr != nil {
		common.CLILogger.Warn("Server exited with error after shutdown: %v", waitErr)
	}

	return result, nil
}

// handshake drives the LSP lifecycle over rwc. Split out from Validate so the
// protocol exchange is testable without a child process.
func (v *Validator) handshake(ctx context.Context, rwc io.ReadWriteCloser, rootDir string) (*Result, error) {
	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	conn.Go(ctx, jsonrpc2.MethodNotFoundHandler)
	defer conn.Close()

	params := &protocol.InitializeParams{
		ProcessID:    int32(os.Getpid()),
		RootURI:      uri.File(rootDir),
		Capabilities: protocol.ClientCapabilities{},
	}

	var initResult protocol.InitializeResult
	if _, err := conn.Call(ctx, protocol.MethodInitialize, params, &initResult); err != nil {
		return nil, fmt.Errorf("initialize failed: %w", err)
	}

	if err := conn.Notify(ctx, protocol.MethodInitialized, &protocol.InitializedParams{}); err != nil {
		return nil, fmt.Errorf("initialized notification failed: %w", err)
	}

	if _, err := conn.Call(ctx, protocol.MethodShutdown, nil, nil); err != nil {
		common.CLILogger.Warn("Shutdown request failed: %v", err)
	}
	if err := conn.Notify(ctx, protocol.MethodExit, nil); err != nil {
		common.CLILogger.Warn("Exit notification failed: %v", err)
	}

	result := &Result{}
	if initResult.ServerInfo != nil {
		result.ServerName = initResult.ServerInfo.Name
		result.ServerVersion = initResult.ServerInfo.Version
	}
	return result, nil
}

// stdioPipe joins a child's stdout and stdin into one stream
type stdioPipe struct {
	reader io.ReadCloser
	writer io.WriteCloser
}

func (p stdioPipe) Read(b []byte) (int, error)  { return p.reader.Read(b) }
func (p stdioPipe) Write(b []byte) (int, error) { return p.writer.Write(b) }

func (p stdioPipe) Close() error {
	writeErr := p.writer.Close()
	readErr := p.reader.Close()
	if writeErr != nil {
		return writeErr
	}
	return readErr
}
