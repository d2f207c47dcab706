// Package platform resolves the per-user locations the rest of the tool
// anchors on: the home directory and the config directory.
package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Info describes the environment a run operates in.
type Info struct {
	OS        string
	HomeDir   string
	ConfigDir string
}

// GetInfo resolves the current user's environment.
func GetInfo() (*Info, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}
	return &Info{
		OS:        runtime.GOOS,
		HomeDir:   home,
		ConfigDir: filepath.Join(home, ".config", "devtrim"),
	}, nil
}
