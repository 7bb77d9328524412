//go:build windows

package config

import "os"

// writeFile writes the config file.  renameio does not support Windows.
func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0600)
}
