//go:build !windows

package player

import (
	"context"
	"errors"
	"net"
	"os"
)

// dial connects to the mpv IPC unix domain socket
func dial(ctx context.Context, path string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "unix", path)
}

// socketReady reports whether mpv has created its socket yet
func socketReady(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// removeSocket deletes a socket file left behind by mpv
func removeSocket(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Failed to remove mpv socket file", "path", path, "error", err)
	}
}
