package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pyls-manager/src/activation"
	"pyls-manager/src/config"
	"pyls-manager/src/download"
	"pyls-manager/src/feed"
	"pyls-manager/src/internal/common"
	"pyls-manager/src/internal/events"
	"pyls-manager/src/internal/registry"
	"pyls-manager/src/internal/state"
	"pyls-manager/src/resolver"
)

// services bundles everything a distribution command needs, wired once from
// the effective configuration.
type services struct {
	cfg        *config.Config
	product    *registry.ProductInfo
	httpClient *http.Client
	repository *feed.CachedRepository
	folders    *resolver.FolderService
	emitter    *events.Emitter
	store      *state.Store
}

func (s *services) close() {
	if s.repository != nil {
		s.repository.Close()
	}
}

// loadConfiguration reads the config file, or falls back to defaults when no
// file exists at the default location.
func loadConfiguration() (*config.Config, error) {
	if configPath != "" {
		return config.LoadConfig(configPath)
	}
	defaultPath := config.GetDefaultConfigPath()
	if _, err := os.Stat(defaultPath); err == nil {
		return config.LoadConfig(defaultPath)
	}
	return config.GetDefaultConfig(), nil
}

func buildServices() (*services, error) {
	cfg, err := loadConfiguration()
	if err != nil {
		return nil, err
	}
	if channelOverride != "" {
		cfg.LanguageServer.Channel = channelOverride
	}
	if productOverride != "" {
		cfg.LanguageServer.Product = productOverride
	}

	product, ok := registry.GetProductByName(cfg.LanguageServer.Product)
	if !ok {
		return nil, fmt.Errorf("unsupported product: %s", cfg.LanguageServer.Product)
	}

	channel := resolver.Channel(cfg.LanguageServer.Channel)
	store, err := state.NewStore(cfg.LanguageServer.StateFile)
	if err != nil {
		return nil, err
	}

	rule, err := resolver.RuleForChannel(channel, store, stateKey(product.Name, cfg.LanguageServer.Channel))
	if err != nil {
		return nil, err
	}

	feedInfo, err := product.GetFeed(cfg.LanguageServer.Channel)
	if err != nil {
		return nil, err
	}

	httpClient, err := feed.NewHTTPClient(cfg.HTTP.Proxy, cfg.HTTPTimeout())
	if err != nil {
		return nil, err
	}

	repository, err := feed.NewRepository(feedInfo, httpClient)
	if err != nil {
		return nil, err
	}
	cached, err := feed.NewCachedRepository(repository, 0)
	if err != nil {
		return nil, err
	}

	emitter := events.NewEmitter(common.ResolverLogger)
	folders := resolver.NewFolderService(
		product,
		cfg.LanguageServer.DistributionsDir,
		channel,
		cfg.LanguageServer.AutoUpdate,
		rule,
		cached,
		emitter,
	)

	return &services{
		cfg:        cfg,
		product:    product,
		httpClient: httpClient,
		repository: cached,
		folders:    folders,
		emitter:    emitter,
		store:      store,
	}, nil
}

// stateKey scopes persisted channel state per product and channel
func stateKey(product, channel string) string {
	return product + "/" + channel
}

// channelStateLine renders when the channel's feed was last consulted
func channelStateLine(store *state.Store, key string) string {
	at, ok := store.LastChecked(key)
	if !ok {
		return "never"
	}
	return at.Format(time.RFC3339)
}

func runResolveCmd(cmd *cobra.Command, args []string) error {
	svcs, err := buildServices()
	if err != nil {
		return err
	}
	defer svcs.close()

	ctx, cancel := common.CreateContextWithDefault()
	defer cancel()

	resolution, err := svcs.folders.Resolve(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Folder:  %s\n", resolution.FolderName)
	fmt.Printf("Path:    %s\n", resolution.Path)
	if resolution.Version != nil {
		fmt.Printf("Version: %s\n", resolution.Version)
	}
	if resolution.DownloadURI != "" {
		fmt.Printf("Update:  %s\n", resolution.DownloadURI)
		fmt.Println("Run 'pyls-manager download' to install it.")
	}
	return nil
}

func runDownloadCmd(cmd *cobra.Command, args []string) error {
	svcs, err := buildServices()
	if err != nil {
		return err
	}
	defer svcs.close()

	ctx, cancel := common.CreateContextWithDefault()
	defer cancel()

	resolution, err := svcs.folders.Resolve(ctx)
	if err != nil {
		return err
	}
	return installResolution(ctx, svcs, resolution)
}

// installResolution installs the resolved update, honoring the download
// setting: when downloads are disabled the update is reported but nothing is
// fetched.
func installResolution(ctx context.Context, svcs *services, resolution *resolver.Resolution) error {
	if resolution.DownloadURI == "" {
		fmt.Printf("Already up to date: %s\n", resolution.FolderName)
		return nil
	}

	if !svcs.cfg.LanguageServer.Download {
		fmt.Printf("Update available: %s\n", resolution.FolderName)
		fmt.Println("Downloads are disabled by configuration (language_server.download).")
		return nil
	}

	installer := download.NewInstaller(
		download.NewDownloader(svcs.httpClient),
		svcs.cfg.LanguageServer.DistributionsDir,
	)

	pkg := feed.PackageInfo{
		PackageName: svcs.product.PackageName,
		Version:     resolution.Version,
		DownloadURI: resolution.DownloadURI,
	}
	path, err := installer.Install(ctx, pkg, resolution.FolderName)
	if err != nil {
		return err
	}

	fmt.Printf("Installed %s\n", path)
	return nil
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	svcs, err := buildServices()
	if err != nil {
		return err
	}
	defer svcs.close()

	fmt.Printf("Product:          %s\n", svcs.product.Name)
	fmt.Printf("Channel:          %s\n", svcs.cfg.LanguageServer.Channel)
	fmt.Printf("Auto-update:      %v\n", svcs.cfg.LanguageServer.AutoUpdate)
	fmt.Printf("Download:         %v\n", svcs.cfg.LanguageServer.Download)
	fmt.Printf("Last checked:     %s\n", channelStateLine(svcs.store, stateKey(svcs.product.Name, svcs.cfg.LanguageServer.Channel)))
	fmt.Printf("Distributions:    %s\n", svcs.cfg.LanguageServer.DistributionsDir)

	current, err := svcs.folders.GetCurrentDistribution()
	if err != nil {
		return err
	}

	scanner := resolver.NewScanner(svcs.cfg.LanguageServer.DistributionsDir, svcs.product.FolderPrefix)
	installed, err := scanner.Scan()
	if err != nil {
		return err
	}
	if len(installed) == 0 {
		fmt.Println("\nNo distributions installed.")
		return nil
	}

	fmt.Println("\nInstalled:")
	for _, fv := range installed {
		marker := " "
		if current != nil && fv.Path == current.Path {
			marker = "*"
		}
		fmt.Printf("  %s %s (%s)\n", marker, filepath.Base(fv.Path), fv.Version)
	}
	return nil
}

func runActivateCmd(cmd *cobra.Command, args []string) error {
	svcs, err := buildServices()
	if err != nil {
		return err
	}
	defer svcs.close()

	current, err := svcs.folders.GetCurrentDistribution()
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("no distribution installed; run 'pyls-manager download' first")
	}

	executable := common.FirstExistingExecutable(current.Path, svcs.product.GetServerCommands())
	if executable == "" {
		return fmt.Errorf("no server executable found under %s", current.Path)
	}

	fmt.Printf("Activating %s\n", filepath.Base(current.Path))

	validator := activation.NewValidator(svcs.product.InitializeTimeout)
	result, err := validator.Validate(context.Background(), []string{executable}, current.Path)
	if err != nil {
		return fmt.Errorf("activation failed: %w", err)
	}

	if result.ServerName != "" {
		fmt.Printf("Server responded: %s %s\n", result.ServerName, result.ServerVersion)
	} else {
		fmt.Println("Server completed the initialize handshake.")
	}
	return nil
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	svcs, err := buildServices()
	if err != nil {
		return err
	}
	defer svcs.close()

	svcs.emitter.Subscribe(func(event events.Event) {
		fmt.Printf("%s: %v\n", event.Name, event.Data)
	})

	if err := os.MkdirAll(svcs.cfg.LanguageServer.DistributionsDir, 0755); err != nil {
		return err
	}
	watcher, err := resolver.NewWatcher(svcs.cfg.LanguageServer.DistributionsDir, svcs.emitter)
	if err != nil {
		return err
	}
	defer watcher.Close()

	fmt.Printf("Watching %s (ctrl-c to stop)\n", svcs.cfg.LanguageServer.DistributionsDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	return nil
}
