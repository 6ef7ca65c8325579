package download

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyls-manager/src/feed"
)

func testDownloader() *Downloader {
	d := NewDownloader(http.DefaultClient)
	d.backoffInitial = time.Millisecond
	return d
}

func TestDownloadWritesFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("archive-bytes"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "nested", "pkg.nupkg")
	err := testDownloader().Download(context.Background(), server.URL, dest)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "archive-bytes", string(data))
}

func TestDownloadRetriesTransientFailure(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "pkg.nupkg")
	err := testDownloader().Download(context.Background(), server.URL, dest)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestDownloadNotFoundIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "pkg.nupkg")
	err := testDownloader().Download(context.Background(), server.URL, dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func buildArchive(t *testing.T, entries map[string]string) string {
	t.Helper()

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for name, content := range entries {
		entry, err := writer.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	path := filepath.Join(t.TempDir(), "package.nupkg")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func TestExtractPackage(t *testing.T) {
	archive := buildArchive(t, map[string]string{
		"server/run.py":      "print('hi')",
		"server/lib/util.py": "pass",
	})

	dest := filepath.Join(t.TempDir(), "languageServer.1.2.3")
	require.NoError(t, ExtractPackage(archive, dest))

	data, err := os.ReadFile(filepath.Join(dest, "server", "run.py"))
	require.NoError(t, err)
	assert.Equal(t, "print('hi')", string(data))

	_, err = os.Stat(filepath.Join(dest, "server", "lib", "util.py"))
	assert.NoError(t, err)
}

func TestExtractRejectsEscapingEntry(t *testing.T) {
	archive := buildArchive(t, map[string]string{
		"../outside.txt": "nope",
	})

	dest := filepath.Join(t.TempDir(), "dist")
	err := ExtractPackage(archive, dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes extraction directory")
}

func TestInstallerPlacesDistributionFolder(t *testing.T) {
	archive := buildArchive(t, map[string]string{"server.py": "pass"})
	archiveBytes, err := os.ReadFile(archive)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(archiveBytes)
	}))
	defer server.Close()

	distDir := t.TempDir()
	installer := NewInstaller(testDownloader(), distDir)

	pkg := feed.PackageInfo{PackageName: "Python-Language-Server-linux-x64", DownloadURI: server.URL}
	path, err := installer.Install(context.Background(), pkg, "languageServer.2.0.0")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(distDir, "languageServer.2.0.0"), path)

	_, err = os.Stat(filepath.Join(path, "server.py"))
	assert.NoError(t, err)
}

func TestInstallerRemovesPartialFolderOnBadArchive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not a zip"))
	}))
	defer server.Close()

	distDir := t.TempDir()
	installer := NewInstaller(testDownloader(), distDir)

	pkg := feed.PackageInfo{PackageName: "Python-Language-Server-linux-x64", DownloadURI: server.URL}
	_, err := installer.Install(context.Background(), pkg, "languageServer.2.0.0")
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(distDir, "languageServer.2.0.0"))
	assert.True(t, os.IsNotExist(statErr))
}
