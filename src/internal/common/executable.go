package common

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// PlatformExpand expands bare executable names into the candidate file names
// the current platform may use for them.
func PlatformExpand(names []string) []string {
	out := make([]string, 0, len(names)*4)
	for _, n := range names {
		if runtime.GOOS == "windows" {
			ext := filepath.Ext(n)
			if ext == ".cmd" || ext == ".bat" || ext == ".exe" {
				out = append(out, n)
			} else {
				out = append(out, n, n+".cmd", n+".bat", n+".exe")
			}
		} else {
			out = append(out, n)
		}
	}
	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(out))
	for _, v := range out {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		uniq = append(uniq, v)
	}
	return uniq
}

// FirstExistingExecutable returns the first candidate found on PATH, then under
// installRoot, then under installRoot/bin. Empty string when nothing matches.
func FirstExistingExecutable(installRoot string, names []string) string {
	cands := PlatformExpand(names)
	for _, n := range cands {
		if _, err := exec.LookPath(n); err == nil {
			return n
		}
	}
	for _, n := range cands {
		p := filepath.Join(installRoot, n)
		if isExecutable(p) {
			return p
		}
	}
	for _, n := range cands {
		p := filepath.Join(installRoot, "bin", n)
		if isExecutable(p) {
			return p
		}
	}
	return ""
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode()&0111 != 0
}
