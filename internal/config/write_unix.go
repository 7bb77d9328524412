//go:build !windows

package config

import "github.com/google/renameio/v2"

// writeFile replaces the config file atomically so a crash never leaves a half written config behind
func writeFile(path string, data []byte) error {
	return renameio.WriteFile(path, data, 0600)
}
