package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	versionpkg "pyls-manager/src/internal/version"
)

// CLI Constants
const (
	CmdResolve    = "resolve"
	CmdDownload   = "download"
	CmdStatus     = "status"
	CmdActivate   = "activate"
	CmdAdapter    = "adapter"
	CmdWatch      = "watch"
	CmdVersion    = "version"
	CmdConfig     = "config"
	CmdConfigInit = "init"
	CmdConfigShow = "show"
	FlagConfig    = "config"
	FlagChannel   = "channel"
	FlagProduct   = "product"
	FlagVerbose   = "verbose"
	FlagInput     = "input"
	FlagLogDir    = "log-dir"
)

// CLI Variables
var (
	configPath      string
	channelOverride string
	productOverride string
	verbose         bool
	adapterInput    string
	adapterLogDir   string
)

// Root command
var rootCmd = &cobra.Command{
	Use:   "pyls-manager",
	Short: "pyls-manager - Python language server distribution manager",
	Long: `pyls-manager resolves, downloads and validates on-disk Python language
server distributions, and evaluates debug adapter descriptors.

QUICK START:
  pyls-manager resolve                     # Decide which distribution to use
  pyls-manager download                    # Fetch the newest release if needed
  pyls-manager status                      # Show installed distributions

AVAILABLE COMMANDS:

  Distribution Management:
    pyls-manager resolve                   # Resolve the distribution folder for this channel
    pyls-manager download                  # Download and install a newer release
    pyls-manager status                    # List installed distributions and channel state
    pyls-manager activate                  # Start the resolved server and verify its handshake
    pyls-manager watch                     # Watch the distributions directory for changes

  Debugging:
    pyls-manager adapter                   # Evaluate a debug configuration into a descriptor

  Configuration:
    pyls-manager config init               # Write a default configuration file
    pyls-manager config show               # Print the effective configuration

DOWNLOAD CHANNELS:
  - stable: check the feed only when nothing is installed
  - beta:   check once, then behave like stable
  - daily:  check the feed on every resolution

Use 'pyls-manager <command> --help' for detailed command information.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Command definitions
var (
	resolveCmd = &cobra.Command{
		Use:   CmdResolve,
		Short: "Resolve the distribution folder to use",
		Long: `Resolve which language server distribution folder should be used.

The resolution scans the distributions directory for installed versions,
consults the channel rule, and queries the remote feed when the rule allows.
Remote feed failures are not fatal; the installed distribution is kept.`,
		RunE: runResolveCmd,
	}

	downloadCmd = &cobra.Command{
		Use:   CmdDownload,
		Short: "Download the newest release distribution",
		Long: `Resolve the distribution for the configured channel and, when the feed
offers a newer release than what is installed, download and extract it into
the distributions directory.`,
		RunE: runDownloadCmd,
	}

	statusCmd = &cobra.Command{
		Use:   CmdStatus,
		Short: "Show installed distributions",
		Long:  `Display the installed distributions, the active one, and the channel configuration.`,
		RunE:  runStatusCmd,
	}

	activateCmd = &cobra.Command{
		Use:   CmdActivate,
		Short: "Validate the resolved distribution",
		Long: `Start the resolved distribution's server executable and perform the LSP
initialize handshake to verify the installation works.`,
		RunE: runActivateCmd,
	}

	watchCmd = &cobra.Command{
		Use:   CmdWatch,
		Short: "Watch the distributions directory",
		Long: `Watch the distributions directory and report folders being added or
removed. Runs until interrupted.`,
		RunE: runWatchCmd,
	}

	adapterCmd = &cobra.Command{
		Use:   CmdAdapter,
		Short: "Evaluate a debug adapter descriptor",
		Long: `Evaluate a debug configuration into a debug adapter descriptor.

The debug configuration is read as JSON from --input or stdin. Attach
requests with a port or connect block yield a server descriptor; everything
else yields an executable descriptor built from the resolved interpreter.

Examples:
  pyls-manager adapter --input launch.json
  echo '{"request":"attach","port":5678}' | pyls-manager adapter`,
		RunE: runAdapterCmd,
	}

	versionCmd = &cobra.Command{
		Use:   CmdVersion,
		Short: "Show version information",
		Long:  `Display version information. Use --verbose for build details.`,
		RunE:  runVersionCmd,
	}

	configCmd = &cobra.Command{
		Use:   CmdConfig,
		Short: "Manage configuration",
		Long: `Manage the pyls-manager configuration file.

Available commands:
  pyls-manager config init    # Write a default configuration file
  pyls-manager config show    # Print the effective configuration`,
		RunE: runConfigCmd,
	}

	configInitCmd = &cobra.Command{
		Use:   CmdConfigInit,
		Short: "Write a default configuration file",
		RunE:  runConfigInitCmd,
	}

	configShowCmd = &cobra.Command{
		Use:   CmdConfigShow,
		Short: "Print the effective configuration",
		RunE:  runConfigShowCmd,
	}
)

func init() {
	for _, cmd := range []*cobra.Command{resolveCmd, downloadCmd, statusCmd, activateCmd, watchCmd, adapterCmd} {
		cmd.Flags().StringVarP(&configPath, FlagConfig, "c", "", "Configuration file path (optional, will use defaults if not provided)")
	}

	resolveCmd.Flags().StringVar(&channelOverride, FlagChannel, "", "Override the configured download channel (stable, beta, daily)")
	resolveCmd.Flags().StringVar(&productOverride, FlagProduct, "", "Override the configured product")
	downloadCmd.Flags().StringVar(&channelOverride, FlagChannel, "", "Override the configured download channel (stable, beta, daily)")
	downloadCmd.Flags().StringVar(&productOverride, FlagProduct, "", "Override the configured product")

	adapterCmd.Flags().StringVar(&adapterInput, FlagInput, "", "Debug configuration JSON file (default: stdin)")
	adapterCmd.Flags().StringVar(&adapterLogDir, FlagLogDir, "", "Directory for adapter logs when logToFile is set")

	versionCmd.Flags().BoolVarP(&verbose, FlagVerbose, "v", false, "Show detailed version information")

	configInitCmd.Flags().StringVarP(&configPath, FlagConfig, "c", "", "Where to write the configuration file")
	configShowCmd.Flags().StringVarP(&configPath, FlagConfig, "c", "", "Configuration file path (optional)")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(activateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(adapterCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func runVersionCmd(cmd *cobra.Command, args []string) error {
	if verbose {
		fmt.Println(versionpkg.GetFullVersionInfo())
	} else {
		fmt.Println(versionpkg.GetVersion())
	}
	return nil
}

func runConfigCmd(cmd *cobra.Command, args []string) error {
	return cmd.Help()
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
