package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"pyls-manager/src/feed"
	"pyls-manager/src/internal/common"
)

// Installer places a downloaded distribution under the distributions
// directory, one folder per version.
type Installer struct {
	downloader *Downloader
	distDir    string
}

// NewInstaller creates an installer writing into distDir
func NewInstaller(downloader *Downloader, distDir string) *Installer {
	return &Installer{downloader: downloader, distDir: distDir}
}

// Install downloads pkg and extracts it into distDir/folderName, returning the
// absolute folder path. A failed extraction removes the partial folder so the
// scanner never picks it up.
func (i *Installer) Install(ctx context.Context, pkg feed.PackageInfo, folderName string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "pyls-download-*")
	if err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	archivePath := filepath.Join(tmpDir, pkg.PackageName+".nupkg")
	if err := i.downloader.Download(ctx, pkg.DownloadURI, archivePath); err != nil {
		return "", err
	}

	dest := filepath.Join(i.distDir, folderName)
	if err := ExtractPackage(archivePath, dest); err != nil {
		os.RemoveAll(dest)
		return "", err
	}

	common.CLILogger.Info("Installed %s into %s", pkg.PackageName, dest)
	return dest, nil
}
